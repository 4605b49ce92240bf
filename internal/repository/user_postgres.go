package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seojin-ahn/todoboard/internal/model"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Upsert(ctx context.Context, uid, email string) (model.User, error) {
	query := `
		INSERT INTO users (uid, email)
		VALUES ($1, $2)
		ON CONFLICT (uid) DO UPDATE SET email = EXCLUDED.email, updated_at = now()
		RETURNING uid, email, username, avatar, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, uid, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByUID(ctx context.Context, uid string) (model.User, error) {
	query := `
		SELECT uid, email, username, avatar, created_at, updated_at
		FROM users
		WHERE uid = $1`

	row := r.db.QueryRowContext(ctx, query, uid)
	return scanUser(row)
}

func (r *PostgresUserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `
		UPDATE users
		SET username = $1, avatar = $2, updated_at = now()
		WHERE uid = $3
		RETURNING uid, email, username, avatar, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, user.Username, user.Avatar, user.UID)
	return scanUser(row)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	err := row.Scan(&u.UID, &u.Email, &u.Username, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
