// Package session issues and validates the server-side login sessions that
// back the auth cookie.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/seojin-ahn/todoboard/internal/model"
	"github.com/seojin-ahn/todoboard/internal/repository"
)

// CookieName is the cookie carrying the opaque session id.
const CookieName = "session_id"

// DefaultTTL is the inactivity window before a session expires.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNoSession means the presented cookie does not map to a live session.
var ErrNoSession = errors.New("no valid session")

type Config struct {
	TTL time.Duration
	// Cross-site deployments need Secure + SameSite=None for the cookie to
	// be sent at all.
	CookieSecure   bool
	CookieSameSite http.SameSite
}

type Manager struct {
	repo repository.SessionRepository
	cfg  Config
}

func NewManager(repo repository.SessionRepository, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CookieSameSite == 0 {
		cfg.CookieSameSite = http.SameSiteLaxMode
	}
	return &Manager{repo: repo, cfg: cfg}
}

// Issue creates a session for the given profile and returns it. The id is an
// opaque UUID; nothing about the user is derivable from the cookie value.
func (m *Manager) Issue(ctx context.Context, profile model.Profile) (model.Session, error) {
	now := time.Now()
	s := model.Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		ExpiresAt: now.Add(m.cfg.TTL),
		CreatedAt: now,
	}
	if err := m.repo.Create(ctx, s); err != nil {
		return model.Session{}, fmt.Errorf("failed to issue session: %w", err)
	}
	return s, nil
}

// Get resolves a session id, sliding its expiry forward. Unknown and expired
// ids both return ErrNoSession.
func (m *Manager) Get(ctx context.Context, id string) (model.Session, error) {
	s, err := m.repo.Touch(ctx, id, m.cfg.TTL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrNoSession
		}
		return model.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

// Refresh rewrites the cached profile fields after a profile update so the
// session copy never serves stale data.
func (m *Manager) Refresh(ctx context.Context, id string, profile model.Profile) error {
	if err := m.repo.UpdateProfile(ctx, id, profile); err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// SetCookie writes the session cookie for s.
func (m *Manager) SetCookie(w http.ResponseWriter, s model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: m.cfg.CookieSameSite,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: m.cfg.CookieSameSite,
	})
}

// ReadCookie extracts the session id from a request, if present.
func ReadCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// RunJanitor deletes expired rows on a fixed interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.repo.DeleteExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("session cleanup failed", "error", err)
				}
				continue
			}
			if n > 0 {
				logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
