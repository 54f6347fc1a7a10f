package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventPositionCreated EventKind = "position.created"
	EventCandidateAdded  EventKind = "candidate.added"
	EventVoteRecorded    EventKind = "vote.recorded"
	EventPositionDeleted EventKind = "position.deleted"

	// EventResync tells a lagging observer that events were dropped for it
	// and it should refetch current state.
	EventResync EventKind = "resync"
)

// ChangeEvent describes one committed mutation. Events are ephemeral: they
// are produced strictly after the store confirms the commit, fanned out to
// live observers, and never persisted.
type ChangeEvent struct {
	Kind           EventKind `json:"kind"`
	PositionID     uuid.UUID `json:"position_id,omitempty"`
	Position       *Position `json:"position,omitempty"`
	CandidateIndex int       `json:"candidate_index,omitempty"`
	NewTally       int64     `json:"new_tally,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
