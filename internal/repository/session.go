package repository

import (
	"context"
	"time"

	"github.com/seojin-ahn/todoboard/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, session model.Session) error
	// Touch returns the session and extends its expiry in one statement.
	// Expired or unknown ids surface as sql.ErrNoRows.
	Touch(ctx context.Context, id string, ttl time.Duration) (model.Session, error)
	UpdateProfile(ctx context.Context, id string, profile model.Profile) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
