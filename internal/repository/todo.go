package repository

import (
	"context"

	"github.com/seojin-ahn/todoboard/internal/model"
)

// TodoRepository scopes every query by the owning user's uid. A todo owned
// by someone else is indistinguishable from a missing one: both surface as
// sql.ErrNoRows.
type TodoRepository interface {
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	Update(ctx context.Context, userID, todoID string, patch model.TodoPatch) (model.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
	ListByUser(ctx context.Context, userID string) ([]model.Todo, error)
}
