package middleware

import (
	"context"
	"net/http"

	"github.com/seojin-ahn/todoboard/internal/model"
)

type contextKey string

const profileKey contextKey = "profile"

// WithProfile stores the authenticated profile on the context. Used by the
// session middleware and by tests that bypass it.
func WithProfile(ctx context.Context, p model.Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// ProfileFrom returns the authenticated profile attached to the request.
func ProfileFrom(r *http.Request) (model.Profile, bool) {
	p, ok := r.Context().Value(profileKey).(model.Profile)
	return p, ok
}

type sessionIDKeyType struct{}

var sessionIDKey sessionIDKeyType

// WithSessionID records the id of the session that authenticated the request.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFrom returns the authenticated session's id, if any.
func SessionIDFrom(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(sessionIDKey).(string)
	return id, ok
}
