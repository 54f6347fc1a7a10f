package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
)

type ballotKey struct {
	userID     uuid.UUID
	positionID uuid.UUID
}

type BallotStore struct {
	mu      sync.Mutex
	ballots map[ballotKey]*domain.BallotRecord
}

func NewBallotStore() *BallotStore {
	return &BallotStore{
		ballots: make(map[ballotKey]*domain.BallotRecord),
	}
}

// Reserve claims the (user, position) slot under the store mutex, so of two
// racing reservations exactly one observes reserved == true.
func (s *BallotStore) Reserve(_ context.Context, userID, positionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ballotKey{userID: userID, positionID: positionID}
	if _, exists := s.ballots[key]; exists {
		return false, nil
	}
	s.ballots[key] = &domain.BallotRecord{
		UserID:     userID,
		PositionID: positionID,
		CreatedAt:  time.Now(),
	}
	return true, nil
}

func (s *BallotStore) Confirm(_ context.Context, userID, positionID uuid.UUID, candidateIndex int, candidateName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.ballots[ballotKey{userID: userID, positionID: positionID}]
	if !ok || b.ConfirmedAt != nil {
		return nil
	}
	now := time.Now()
	b.CandidateIndex = candidateIndex
	b.CandidateName = candidateName
	b.ConfirmedAt = &now
	return nil
}

func (s *BallotStore) Release(_ context.Context, userID, positionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ballotKey{userID: userID, positionID: positionID}
	if b, ok := s.ballots[key]; ok && b.ConfirmedAt == nil {
		delete(s.ballots, key)
	}
	return nil
}

func (s *BallotStore) Get(_ context.Context, userID, positionID uuid.UUID) (*domain.BallotRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.ballots[ballotKey{userID: userID, positionID: positionID}]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

func (s *BallotStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.BallotRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.BallotRecord
	for _, b := range s.ballots {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
