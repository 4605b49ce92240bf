package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/seojin-ahn/todoboard/internal/model"
	"github.com/seojin-ahn/todoboard/internal/session"
)

// SessionGetter is the slice of the session manager the middleware needs.
type SessionGetter interface {
	Get(ctx context.Context, id string) (model.Session, error)
}

// RequireSession rejects requests without a live session before any other
// work happens; handlers behind it can rely on ProfileFrom succeeding.
func RequireSession(sessions SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := session.ReadCookie(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			s, err := sessions.Get(r.Context(), id)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					writeError(w, http.StatusUnauthorized, "Not authenticated")
					return
				}
				slog.ErrorContext(r.Context(), "session lookup failed", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := WithProfile(r.Context(), s.Profile)
			ctx = WithSessionID(ctx, s.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeError emits the single-field error body every endpoint uses.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
