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

type positionRepository struct {
	db *sql.DB
}

func NewPositionRepository(db *sql.DB) ports.PositionRepository {
	return &positionRepository{
		db: db,
	}
}

func (r *positionRepository) Save(ctx context.Context, position *domain.Position) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", storeErr(err))
	}
	defer tx.Rollback()

	queryPosition := `
		INSERT INTO positions (id, title, category, type, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, queryPosition,
		position.ID, position.Title, position.Category, position.Type,
		position.IsActive, position.CreatedBy, position.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", storeErr(err))
	}

	queryCandidate := `
		INSERT INTO position_candidates (position_id, idx, name, description)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryCandidate)
	if err != nil {
		return fmt.Errorf("failed to prepare candidate statement: %w", storeErr(err))
	}
	defer stmt.Close()

	for i, c := range position.Candidates {
		if _, err := stmt.ExecContext(ctx, position.ID, i, c.Name, c.Description); err != nil {
			return fmt.Errorf("failed to insert candidate: %w", storeErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", storeErr(err))
	}
	return nil
}

func (r *positionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Position, error) {
	query := `
		SELECT id, title, category, type, is_active, created_by, created_at
		FROM positions
		WHERE id = $1 AND deleted_at IS NULL
	`

	var position domain.Position
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&position.ID, &position.Title, &position.Category, &position.Type,
		&position.IsActive, &position.CreatedBy, &position.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to get position: %w", storeErr(err))
	}

	candidates, err := r.fetchCandidates(ctx, position.ID)
	if err != nil {
		return nil, err
	}
	position.Candidates = candidates

	return &position, nil
}

func (r *positionRepository) ListActive(ctx context.Context) ([]*domain.Position, error) {
	query := `
		SELECT id, title, category, type, is_active, created_by, created_at
		FROM positions
		WHERE deleted_at IS NULL AND is_active
		ORDER BY category, type, created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", storeErr(err))
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		var position domain.Position
		if err := rows.Scan(
			&position.ID, &position.Title, &position.Category, &position.Type,
			&position.IsActive, &position.CreatedBy, &position.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", storeErr(err))
		}
		positions = append(positions, &position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", storeErr(err))
	}

	for _, position := range positions {
		candidates, err := r.fetchCandidates(ctx, position.ID)
		if err != nil {
			return nil, err
		}
		position.Candidates = candidates
	}
	return positions, nil
}

// AddCandidate appends a candidate at the next free index. The position row
// is locked inside the transaction so two concurrent appends cannot claim
// the same index.
func (r *positionRepository) AddCandidate(ctx context.Context, positionID uuid.UUID, name, description string) (*domain.Position, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", storeErr(err))
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM positions
		WHERE id = $1 AND deleted_at IS NULL AND is_active
		FOR UPDATE
	`, positionID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to lock position: %w", storeErr(err))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO position_candidates (position_id, idx, name, description)
		SELECT $1, COALESCE(MAX(idx) + 1, 0), $2, $3
		FROM position_candidates
		WHERE position_id = $1
	`, positionID, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to insert candidate: %w", storeErr(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", storeErr(err))
	}

	return r.GetByID(ctx, positionID)
}

// IncrementTally is the tally engine's write primitive: a single atomic
// "add 1" against the store, never a read-modify-write of an in-memory copy,
// so concurrent increments on the same position cannot lose updates. The
// returned tally comes from the UPDATE itself; success never depends on a
// read after the commit.
func (r *positionRepository) IncrementTally(ctx context.Context, positionID uuid.UUID, candidateIndex int) (int64, error) {
	var newTally int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE position_candidates pc
		SET votes = pc.votes + 1
		FROM positions p
		WHERE p.id = pc.position_id
		  AND pc.position_id = $1
		  AND pc.idx = $2
		  AND p.deleted_at IS NULL
		  AND p.is_active
		RETURNING pc.votes
	`, positionID, candidateIndex).Scan(&newTally)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, r.classifyMissingTarget(ctx, positionID)
		}
		return 0, fmt.Errorf("failed to increment tally: %w", storeErr(err))
	}

	return newTally, nil
}

func (r *positionRepository) SoftDelete(ctx context.Context, positionID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE positions
		SET deleted_at = NOW(), is_active = FALSE
		WHERE id = $1 AND deleted_at IS NULL
	`, positionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete position: %w", storeErr(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", storeErr(err))
	}
	return affected > 0, nil
}

// classifyMissingTarget distinguishes a missing/inactive position from an
// out-of-range candidate index after a zero-row increment.
func (r *positionRepository) classifyMissingTarget(ctx context.Context, positionID uuid.UUID) error {
	var active bool
	err := r.db.QueryRowContext(ctx, `
		SELECT is_active FROM positions WHERE id = $1 AND deleted_at IS NULL
	`, positionID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
		return domain.ErrPositionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to classify increment miss: %w", storeErr(err))
	}
	return domain.ErrCandidateIndex
}

func (r *positionRepository) fetchCandidates(ctx context.Context, positionID uuid.UUID) ([]domain.Candidate, error) {
	query := `
		SELECT name, description, votes
		FROM position_candidates
		WHERE position_id = $1
		ORDER BY idx
	`
	rows, err := r.db.QueryContext(ctx, query, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", storeErr(err))
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.Name, &c.Description, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", storeErr(err))
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", storeErr(err))
	}
	return candidates, nil
}
