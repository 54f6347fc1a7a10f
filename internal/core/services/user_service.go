package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

type UserService struct {
	repo    ports.UserRepository
	ballots ports.BallotRepository
}

func NewUserService(repo ports.UserRepository, ballots ports.BallotRepository) ports.UserService {
	return &UserService{
		repo:    repo,
		ballots: ballots,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	ballots, err := s.ballots.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ballots: %w", err)
	}
	user.Ballots = ballots
	return user, nil
}
