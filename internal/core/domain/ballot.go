package domain

import (
	"time"

	"github.com/google/uuid"
)

// BallotRecord is the durable proof that a user voted on a position and for
// whom. CandidateName is a snapshot taken at confirmation time, not a live
// reference, so the record stays meaningful if candidate data changes later.
//
// A record with a nil ConfirmedAt is a reservation: the uniqueness guard has
// claimed the (user, position) slot but the tally commit has not landed yet.
type BallotRecord struct {
	UserID         uuid.UUID  `json:"user_id"`
	PositionID     uuid.UUID  `json:"position_id"`
	CandidateIndex int        `json:"candidate_index"`
	CandidateName  string     `json:"candidate_name"`
	CreatedAt      time.Time  `json:"created_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
}

func (b *BallotRecord) Confirmed() bool {
	return b.ConfirmedAt != nil
}
