package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
)

type CastVoteInput struct {
	UserID         uuid.UUID
	PositionID     uuid.UUID
	CandidateIndex int
}

type CastVoteResult struct {
	Position *domain.Position `json:"position"`
	User     *domain.User     `json:"user"`
}

type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) (*CastVoteResult, error)
}
