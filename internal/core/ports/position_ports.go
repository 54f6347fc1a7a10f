package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
)

type PositionRepository interface {
	Save(ctx context.Context, position *domain.Position) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Position, error)
	ListActive(ctx context.Context) ([]*domain.Position, error)
	AddCandidate(ctx context.Context, positionID uuid.UUID, name, description string) (*domain.Position, error)

	// IncrementTally adds exactly 1 to the addressed candidate's tally as a
	// single atomic operation against the store and returns that candidate's
	// post-increment tally. A nil error means the increment is durable; no
	// follow-up read may turn a committed increment into a failure.
	IncrementTally(ctx context.Context, positionID uuid.UUID, candidateIndex int) (int64, error)

	// SoftDelete marks the position deleted. The second return is false when
	// the position was already gone, so callers can keep the operation
	// idempotent without emitting duplicate events.
	SoftDelete(ctx context.Context, positionID uuid.UUID) (bool, error)
}

type CandidateInput struct {
	Name        string
	Description string
}

type CreatePositionInput struct {
	Title      string
	Category   domain.Category
	Type       domain.PositionType
	Candidates []CandidateInput
}

type PositionService interface {
	Create(ctx context.Context, actor *domain.User, input CreatePositionInput) (*domain.Position, error)
	AddCandidate(ctx context.Context, actor *domain.User, positionID uuid.UUID, input CandidateInput) (*domain.Position, error)
	List(ctx context.Context) ([]*domain.Position, error)
	Delete(ctx context.Context, actor *domain.User, positionID uuid.UUID) error
}
