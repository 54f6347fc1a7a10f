package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type castVoteRequest struct {
	CandidateIndex *int `json:"candidate_index"`
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	positionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CandidateIndex == nil {
		writeError(w, domain.ErrValidation)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	result, err := h.service.CastVote(r.Context(), ports.CastVoteInput{
		UserID:         userID,
		PositionID:     positionID,
		CandidateIndex: *req.CandidateIndex,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
