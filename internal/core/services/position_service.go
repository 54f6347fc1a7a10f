package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

type positionService struct {
	repo   ports.PositionRepository
	bus    ports.EventBus
	logger *slog.Logger
}

func NewPositionService(repo ports.PositionRepository, bus ports.EventBus, logger *slog.Logger) ports.PositionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &positionService{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *positionService) Create(ctx context.Context, actor *domain.User, input ports.CreatePositionInput) (*domain.Position, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !input.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, input.Category)
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown position type %q", domain.ErrValidation, input.Type)
	}

	now := time.Now()
	position := &domain.Position{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(input.Title),
		Category:  input.Category,
		Type:      input.Type,
		IsActive:  true,
		CreatedBy: actor.ID,
		CreatedAt: now,
	}
	for _, c := range input.Candidates {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: candidate name is required", domain.ErrValidation)
		}
		position.Candidates = append(position.Candidates, domain.Candidate{
			Name:        name,
			Description: c.Description,
		})
	}

	if err := s.repo.Save(ctx, position); err != nil {
		return nil, err
	}

	s.logger.Info("position created",
		"position_id", position.ID,
		"title", position.Title,
		"category", position.Category,
		"type", position.Type,
		"candidates", len(position.Candidates),
	)
	s.bus.Publish(domain.ChangeEvent{
		Kind:       domain.EventPositionCreated,
		PositionID: position.ID,
		Position:   position,
		OccurredAt: now,
	})
	return position, nil
}

func (s *positionService) AddCandidate(ctx context.Context, actor *domain.User, positionID uuid.UUID, input ports.CandidateInput) (*domain.Position, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: candidate name is required", domain.ErrValidation)
	}

	position, err := s.repo.AddCandidate(ctx, positionID, name, input.Description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("candidate added",
		"position_id", position.ID,
		"candidate", name,
		"candidate_index", len(position.Candidates)-1,
	)
	s.bus.Publish(domain.ChangeEvent{
		Kind:           domain.EventCandidateAdded,
		PositionID:     position.ID,
		Position:       position,
		CandidateIndex: len(position.Candidates) - 1,
		OccurredAt:     time.Now(),
	})
	return position, nil
}

func (s *positionService) List(ctx context.Context) ([]*domain.Position, error) {
	return s.repo.ListActive(ctx)
}

// Delete is idempotent: deleting a position that is already gone succeeds
// without emitting a second PositionDeleted event.
func (s *positionService) Delete(ctx context.Context, actor *domain.User, positionID uuid.UUID) error {
	if actor == nil || !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	deleted, err := s.repo.SoftDelete(ctx, positionID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	s.logger.Info("position deleted", "position_id", positionID)
	s.bus.Publish(domain.ChangeEvent{
		Kind:       domain.EventPositionDeleted,
		PositionID: positionID,
		OccurredAt: time.Now(),
	})
	return nil
}
