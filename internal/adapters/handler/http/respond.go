package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/liveballot/elect/internal/core/domain"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto stable codes. Client mistakes are 4xx;
// store unavailability is the only 5xx the core produces on purpose.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrCandidateIndex):
		status, code = http.StatusBadRequest, "candidate_index_out_of_range"
	case errors.Is(err, domain.ErrAlreadyVoted):
		status, code = http.StatusConflict, "already_voted"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrPositionNotFound):
		status, code = http.StatusNotFound, "position_not_found"
	case errors.Is(err, domain.ErrUserNotFound):
		status, code = http.StatusNotFound, "user_not_found"
	case errors.Is(err, domain.ErrEmailTaken):
		status, code = http.StatusBadRequest, "email_in_use"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, code = http.StatusInternalServerError, "store_unavailable"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", code, "error", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = err.Error()
	writeJSON(w, status, body)
}
