package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveballot/elect/internal/adapters/repository/memory"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
	"github.com/liveballot/elect/internal/core/services"
)

func newPositionService(t *testing.T) (ports.PositionService, *memory.PositionStore, *recordingBus) {
	t.Helper()
	store := memory.NewPositionStore()
	bus := &recordingBus{}
	return services.NewPositionService(store, bus, nil), store, bus
}

func TestCreatePosition(t *testing.T) {
	service, _, bus := newPositionService(t)

	position, err := service.Create(context.Background(), adminUser(), ports.CreatePositionInput{
		Title:    "Head Girl",
		Category: domain.CategoryLiterary,
		Type:     domain.TypeHead,
		Candidates: []ports.CandidateInput{
			{Name: "Carol", Description: "Debate captain"},
			{Name: "Dana"},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, position.ID)
	assert.True(t, position.IsActive)
	require.Len(t, position.Candidates, 2)
	assert.Equal(t, int64(0), position.Candidates[0].Votes)

	events := bus.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPositionCreated, events[0].Kind)
	assert.Equal(t, position.ID, events[0].PositionID)
}

func TestCreatePositionRequiresAdmin(t *testing.T) {
	service, _, bus := newPositionService(t)

	input := ports.CreatePositionInput{
		Title:    "Head Boy",
		Category: domain.CategorySports,
		Type:     domain.TypeHead,
	}

	_, err := service.Create(context.Background(), voterUser(), input)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = service.Create(context.Background(), nil, input)
	require.ErrorIs(t, err, domain.ErrForbidden)

	assert.Empty(t, bus.Events())
}

func TestCreatePositionValidation(t *testing.T) {
	service, _, bus := newPositionService(t)
	admin := adminUser()

	cases := []struct {
		name  string
		input ports.CreatePositionInput
	}{
		{"empty title", ports.CreatePositionInput{Category: domain.CategorySTEM, Type: domain.TypeHead}},
		{"bad category", ports.CreatePositionInput{Title: "X", Category: "Music", Type: domain.TypeHead}},
		{"bad type", ports.CreatePositionInput{Title: "X", Category: domain.CategorySTEM, Type: "Treasurer"}},
		{"blank candidate", ports.CreatePositionInput{
			Title: "X", Category: domain.CategorySTEM, Type: domain.TypeHead,
			Candidates: []ports.CandidateInput{{Name: "  "}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), admin, tc.input)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, bus.Events())
}

func TestAddCandidate(t *testing.T) {
	service, _, bus := newPositionService(t)
	admin := adminUser()

	position, err := service.Create(context.Background(), admin, ports.CreatePositionInput{
		Title:      "Deputy Head Boy",
		Category:   domain.CategorySports,
		Type:       domain.TypeDeputyHead,
		Candidates: []ports.CandidateInput{{Name: "Evan"}},
	})
	require.NoError(t, err)

	updated, err := service.AddCandidate(context.Background(), admin, position.ID, ports.CandidateInput{
		Name: "Farah",
	})
	require.NoError(t, err)
	require.Len(t, updated.Candidates, 2)
	assert.Equal(t, "Farah", updated.Candidates[1].Name)
	assert.Equal(t, int64(0), updated.Candidates[1].Votes)

	events := bus.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventCandidateAdded, events[1].Kind)
	assert.Equal(t, 1, events[1].CandidateIndex)

	_, err = service.AddCandidate(context.Background(), voterUser(), position.ID, ports.CandidateInput{Name: "Gus"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = service.AddCandidate(context.Background(), admin, uuid.New(), ports.CandidateInput{Name: "Gus"})
	require.ErrorIs(t, err, domain.ErrPositionNotFound)
}

func TestDeletePositionIsIdempotent(t *testing.T) {
	service, store, bus := newPositionService(t)
	admin := adminUser()

	position, err := service.Create(context.Background(), admin, ports.CreatePositionInput{
		Title:    "Head Boy",
		Category: domain.CategorySports,
		Type:     domain.TypeHead,
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), admin, position.ID))
	// Deleting again succeeds but must not emit a second event.
	require.NoError(t, service.Delete(context.Background(), admin, position.ID))

	_, err = store.GetByID(context.Background(), position.ID)
	require.ErrorIs(t, err, domain.ErrPositionNotFound)

	events := bus.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventPositionDeleted, events[1].Kind)

	require.ErrorIs(t, service.Delete(context.Background(), voterUser(), position.ID), domain.ErrForbidden)
}

func TestListReturnsOnlyActivePositions(t *testing.T) {
	service, _, _ := newPositionService(t)
	admin := adminUser()

	kept, err := service.Create(context.Background(), admin, ports.CreatePositionInput{
		Title: "Head Girl", Category: domain.CategoryLiterary, Type: domain.TypeHead,
	})
	require.NoError(t, err)

	gone, err := service.Create(context.Background(), admin, ports.CreatePositionInput{
		Title: "Head Boy", Category: domain.CategorySports, Type: domain.TypeHead,
	})
	require.NoError(t, err)
	require.NoError(t, service.Delete(context.Background(), admin, gone.ID))

	positions, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, kept.ID, positions[0].ID)
}
