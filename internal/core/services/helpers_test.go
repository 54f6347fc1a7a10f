package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/liveballot/elect/internal/adapters/repository/memory"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
	"github.com/liveballot/elect/internal/core/services"
)

// recordingBus captures published events in order for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (b *recordingBus) Publish(event domain.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) Subscribe() ports.Subscription {
	return nil
}

func (b *recordingBus) Events() []domain.ChangeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.ChangeEvent(nil), b.events...)
}

type voteFixture struct {
	positions *memory.PositionStore
	ballots   *memory.BallotStore
	users     *memory.UserStore
	bus       *recordingBus
	service   ports.VoteService
}

func newVoteFixture(t *testing.T) *voteFixture {
	t.Helper()
	f := &voteFixture{
		positions: memory.NewPositionStore(),
		ballots:   memory.NewBallotStore(),
		users:     memory.NewUserStore(),
		bus:       &recordingBus{},
	}
	f.service = services.NewVoteService(f.positions, f.ballots, f.users, f.bus, nil)
	return f
}

func (f *voteFixture) addUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Name: email, Role: domain.RoleVoter}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *voteFixture) addPosition(t *testing.T, candidates ...string) *domain.Position {
	t.Helper()
	position := &domain.Position{
		ID:       uuid.New(),
		Title:    "Head Boy",
		Category: domain.CategorySports,
		Type:     domain.TypeHead,
		IsActive: true,
	}
	for _, name := range candidates {
		position.Candidates = append(position.Candidates, domain.Candidate{Name: name})
	}
	require.NoError(t, f.positions.Save(context.Background(), position))
	return position
}

func adminUser() *domain.User {
	return &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
}

func voterUser() *domain.User {
	return &domain.User{ID: uuid.New(), Role: domain.RoleVoter}
}
