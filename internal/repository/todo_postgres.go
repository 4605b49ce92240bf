package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/seojin-ahn/todoboard/internal/model"
)

type PostgresTodoRepository struct {
	db *sql.DB
}

func NewPostgresTodo(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		INSERT INTO todos (id, user_id, text, done, due_date)
		VALUES ($1, $2, $3, $4, $5::date)
		RETURNING id, text, done, due_date::text, user_id, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), todo.UserID, todo.Text, todo.Done, todo.DueDate,
	)

	return scanTodo(row)
}

// Update applies only the non-nil patch fields in a single statement. The
// user_id predicate makes a non-owned id report zero rows, same as a
// missing one.
func (r *PostgresTodoRepository) Update(ctx context.Context, userID, todoID string, patch model.TodoPatch) (model.Todo, error) {
	query := `
		UPDATE todos
		SET text     = COALESCE($1, text),
		    done     = COALESCE($2, done),
		    due_date = COALESCE($3::date, due_date),
		    updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING id, text, done, due_date::text, user_id, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		patch.Text, patch.Done, patch.DueDate, todoID, userID,
	)

	return scanTodo(row)
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *PostgresTodoRepository) ListByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	query := `
		SELECT id, text, done, due_date::text, user_id, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

func scanTodo(row scannable) (model.Todo, error) {
	var t model.Todo
	err := row.Scan(
		&t.ID, &t.Text, &t.Done, &t.DueDate,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to scan todo: %w", err)
	}
	return t, nil
}

var _ TodoRepository = (*PostgresTodoRepository)(nil)
