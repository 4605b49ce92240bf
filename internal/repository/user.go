package repository

import (
	"context"

	"github.com/seojin-ahn/todoboard/internal/model"
)

type UserRepository interface {
	// Upsert creates the user on first contact and refreshes the email on
	// subsequent calls. It is the atomic find-or-create used by sync.
	Upsert(ctx context.Context, uid, email string) (model.User, error)
	GetByUID(ctx context.Context, uid string) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
}
