package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

type PositionHandler struct {
	service ports.PositionService
}

func NewPositionHandler(service ports.PositionService) *PositionHandler {
	return &PositionHandler{
		service: service,
	}
}

type candidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createPositionRequest struct {
	Title      string             `json:"title"`
	Category   string             `json:"category"`
	Type       string             `json:"type"`
	Candidates []candidateRequest `json:"candidates"`
}

func (h *PositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req createPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	input := ports.CreatePositionInput{
		Title:    req.Title,
		Category: domain.Category(req.Category),
		Type:     domain.PositionType(req.Type),
	}
	for _, c := range req.Candidates {
		input.Candidates = append(input.Candidates, ports.CandidateInput{
			Name:        c.Name,
			Description: c.Description,
		})
	}

	position, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, position)
}

func (h *PositionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	positionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	position, err := h.service.AddCandidate(r.Context(), actor, positionID, ports.CandidateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, position)
}

func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if positions == nil {
		positions = []*domain.Position{}
	}
	writeJSON(w, http.StatusOK, positions)
}

func (h *PositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	positionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	if err := h.service.Delete(r.Context(), actor, positionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
