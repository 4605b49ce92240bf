package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/seojin-ahn/todoboard/internal/model"
)

type PostgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSession(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, session model.Session) error {
	query := `
		INSERT INTO sessions (id, uid, email, username, avatar, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Profile.UID, session.Profile.Email,
		session.Profile.Username, session.Profile.Avatar,
		session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Touch slides the expiry forward while reading, so the TTL measures
// inactivity rather than session age. Expired rows are never returned.
func (r *PostgresSessionRepository) Touch(ctx context.Context, id string, ttl time.Duration) (model.Session, error) {
	query := `
		UPDATE sessions
		SET expires_at = now() + make_interval(secs => $2)
		WHERE id = $1 AND expires_at > now()
		RETURNING id, uid, email, username, avatar, expires_at, created_at`

	row := r.db.QueryRowContext(ctx, query, id, ttl.Seconds())
	return scanSession(row)
}

func (r *PostgresSessionRepository) UpdateProfile(ctx context.Context, id string, profile model.Profile) error {
	query := `
		UPDATE sessions
		SET email = $2, username = $3, avatar = $4
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, profile.Email, profile.Username, profile.Avatar)
	if err != nil {
		return fmt.Errorf("failed to update session profile: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func scanSession(row scannable) (model.Session, error) {
	var s model.Session
	err := row.Scan(
		&s.ID, &s.Profile.UID, &s.Profile.Email,
		&s.Profile.Username, &s.Profile.Avatar,
		&s.ExpiresAt, &s.CreatedAt,
	)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to scan session: %w", err)
	}
	return s, nil
}

var _ SessionRepository = (*PostgresSessionRepository)(nil)
