package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
)

// UserStore implements both the user and auth repository ports.
type UserStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*domain.User
	usersByEmail map[string]uuid.UUID
	tokens       map[string]*domain.RefreshToken
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:        make(map[uuid.UUID]*domain.User),
		usersByEmail: make(map[string]uuid.UUID),
		tokens:       make(map[string]*domain.RefreshToken),
	}
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	u := *s.users[id]
	return &u, nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	u, ok := s.users[uid]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByEmail[user.Email]; taken {
		return domain.ErrEmailTaken
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	u := *user
	s.users[user.ID] = &u
	s.usersByEmail[user.Email] = user.ID
	return nil
}

func (s *UserStore) StoreRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	t := *token
	s.tokens[token.TokenHash] = &t
	return nil
}

func (s *UserStore) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[tokenHash]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (s *UserStore) RevokeRefreshToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens {
		if t.ID.String() == id {
			t.Revoked = true
		}
	}
	return nil
}
