package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

type ballotRepository struct {
	db *sql.DB
}

func NewBallotRepository(db *sql.DB) ports.BallotRepository {
	return &ballotRepository{
		db: db,
	}
}

// Reserve is a single conditional insert, not a check-then-insert: the unique
// key on (user_id, position_id) makes the store the arbiter, so of two racing
// reservations exactly one sees reserved == true.
func (r *ballotRepository) Reserve(ctx context.Context, userID, positionID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO ballots (user_id, position_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, position_id) DO NOTHING
	`, userID, positionID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to reserve ballot: %w", storeErr(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", storeErr(err))
	}
	return affected == 1, nil
}

func (r *ballotRepository) Confirm(ctx context.Context, userID, positionID uuid.UUID, candidateIndex int, candidateName string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE ballots
		SET candidate_idx = $3, candidate_name = $4, confirmed_at = NOW()
		WHERE user_id = $1 AND position_id = $2 AND confirmed_at IS NULL
	`, userID, positionID, candidateIndex, candidateName)
	if err != nil {
		return fmt.Errorf("failed to confirm ballot: %w", storeErr(err))
	}
	return nil
}

// Release only ever deletes an unconfirmed reservation, so compensating a
// failed vote can be retried without risk of erasing a recorded ballot.
func (r *ballotRepository) Release(ctx context.Context, userID, positionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM ballots
		WHERE user_id = $1 AND position_id = $2 AND confirmed_at IS NULL
	`, userID, positionID)
	if err != nil {
		return fmt.Errorf("failed to release ballot: %w", storeErr(err))
	}
	return nil
}

func (r *ballotRepository) Get(ctx context.Context, userID, positionID uuid.UUID) (*domain.BallotRecord, error) {
	var b domain.BallotRecord
	var idx sql.NullInt64
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, position_id, candidate_idx, candidate_name, created_at, confirmed_at
		FROM ballots
		WHERE user_id = $1 AND position_id = $2
	`, userID, positionID).Scan(&b.UserID, &b.PositionID, &idx, &name, &b.CreatedAt, &b.ConfirmedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ballot: %w", storeErr(err))
	}

	b.CandidateIndex = int(idx.Int64)
	b.CandidateName = name.String
	return &b, nil
}

func (r *ballotRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BallotRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, position_id, candidate_idx, candidate_name, created_at, confirmed_at
		FROM ballots
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ballots: %w", storeErr(err))
	}
	defer rows.Close()

	var ballots []domain.BallotRecord
	for rows.Next() {
		var b domain.BallotRecord
		var idx sql.NullInt64
		var name sql.NullString
		if err := rows.Scan(&b.UserID, &b.PositionID, &idx, &name, &b.CreatedAt, &b.ConfirmedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", storeErr(err))
		}
		b.CandidateIndex = int(idx.Int64)
		b.CandidateName = name.String
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ballots: %w", storeErr(err))
	}
	return ballots, nil
}
