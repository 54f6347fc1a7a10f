package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
)

// BallotRepository is the uniqueness guard's storage contract. Reserve must be
// a single atomic check-and-reserve against the store: of two racing calls for
// the same (user, position), exactly one may observe reserved == true.
type BallotRepository interface {
	// Reserve durably claims the (user, position) slot. It returns false when
	// a ballot record already exists, reserved or confirmed.
	Reserve(ctx context.Context, userID, positionID uuid.UUID) (reserved bool, err error)

	// Confirm stamps the candidate snapshot onto the reserved record.
	Confirm(ctx context.Context, userID, positionID uuid.UUID, candidateIndex int, candidateName string) error

	// Release removes an unconfirmed reservation. Releasing a missing or
	// already-confirmed record is a no-op, so compensation can be retried.
	Release(ctx context.Context, userID, positionID uuid.UUID) error

	Get(ctx context.Context, userID, positionID uuid.UUID) (*domain.BallotRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BallotRecord, error)
}
