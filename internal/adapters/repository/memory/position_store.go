package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
)

type PositionStore struct {
	mu        sync.Mutex
	positions map[uuid.UUID]*domain.Position

	// incrementFaults is consumed one error per IncrementTally call before
	// the increment applies. Tests use it to exercise conflict retries and
	// rollback compensation.
	incrementFaults []error
}

func NewPositionStore() *PositionStore {
	return &PositionStore{
		positions: make(map[uuid.UUID]*domain.Position),
	}
}

// FailNextIncrements queues errors returned by subsequent IncrementTally
// calls, in order, before any tally mutation happens.
func (s *PositionStore) FailNextIncrements(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incrementFaults = append(s.incrementFaults, errs...)
}

func (s *PositionStore) Save(_ context.Context, position *domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[position.ID] = copyPosition(position)
	return nil
}

func (s *PositionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.positions[id]
	if !ok || p.DeletedAt != nil {
		return nil, domain.ErrPositionNotFound
	}
	return copyPosition(p), nil
}

func (s *PositionStore) ListActive(_ context.Context) ([]*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Position
	for _, p := range s.positions {
		if p.DeletedAt == nil && p.IsActive {
			out = append(out, copyPosition(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *PositionStore) AddCandidate(_ context.Context, positionID uuid.UUID, name, description string) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.positions[positionID]
	if !ok || p.DeletedAt != nil || !p.IsActive {
		return nil, domain.ErrPositionNotFound
	}
	p.Candidates = append(p.Candidates, domain.Candidate{
		Name:        name,
		Description: description,
	})
	return copyPosition(p), nil
}

func (s *PositionStore) IncrementTally(_ context.Context, positionID uuid.UUID, candidateIndex int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.incrementFaults) > 0 {
		err := s.incrementFaults[0]
		s.incrementFaults = s.incrementFaults[1:]
		return 0, err
	}

	p, ok := s.positions[positionID]
	if !ok || p.DeletedAt != nil || !p.IsActive {
		return 0, domain.ErrPositionNotFound
	}
	if candidateIndex < 0 || candidateIndex >= len(p.Candidates) {
		return 0, domain.ErrCandidateIndex
	}
	p.Candidates[candidateIndex].Votes++
	return p.Candidates[candidateIndex].Votes, nil
}

func (s *PositionStore) SoftDelete(_ context.Context, positionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.positions[positionID]
	if !ok || p.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	p.DeletedAt = &now
	p.IsActive = false
	return true, nil
}

func copyPosition(p *domain.Position) *domain.Position {
	out := *p
	out.Candidates = append([]domain.Candidate(nil), p.Candidates...)
	if p.DeletedAt != nil {
		deleted := *p.DeletedAt
		out.DeletedAt = &deleted
	}
	return &out
}
