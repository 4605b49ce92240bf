package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/seojin-ahn/todoboard/internal/identity"
	"github.com/seojin-ahn/todoboard/internal/service"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError emits the single-field error body. Internal detail never goes
// through here; callers pass a safe message.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps taxonomy and provider errors to responses.
// Conflicts report 400, matching the validation-style contract the client
// expects for duplicate usernames.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		if status, message, ok := identity.HTTPStatus(err); ok {
			slog.Error("provider error", "error", err)
			WriteError(w, status, message)
			return
		}
		slog.Error("internal error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
