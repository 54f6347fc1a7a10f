package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, domain.ErrUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
