package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/seojin-ahn/todoboard/internal/model"
	"github.com/seojin-ahn/todoboard/internal/repository"
)

type CreateTodoInput struct {
	Text    string
	DueDate *string // YYYY-MM-DD, defaults to today
	Done    *bool
}

type UpdateTodoInput struct {
	Text    *string
	DueDate *string
	Done    *bool
}

type TodoService struct {
	repo     repository.TodoRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *TodoService) List(ctx context.Context, userID string) ([]model.Todo, error) {
	todos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, userID string, input CreateTodoInput) (model.Todo, error) {
	text, err := s.checkText(input.Text)
	if err != nil {
		return model.Todo{}, err
	}

	dueDate := s.now().Format(model.DateLayout)
	if input.DueDate != nil && *input.DueDate != "" {
		if err := s.checkDueDate(*input.DueDate); err != nil {
			return model.Todo{}, err
		}
		dueDate = *input.DueDate
	}

	todo := model.Todo{
		UserID:  userID,
		Text:    text,
		Done:    input.Done != nil && *input.Done,
		DueDate: dueDate,
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return created, nil
}

func (s *TodoService) Update(ctx context.Context, userID, todoID string, input UpdateTodoInput) (model.Todo, error) {
	var patch model.TodoPatch

	if input.Text != nil {
		text, err := s.checkText(*input.Text)
		if err != nil {
			return model.Todo{}, err
		}
		patch.Text = &text
	}
	if input.DueDate != nil {
		if err := s.checkDueDate(*input.DueDate); err != nil {
			return model.Todo{}, err
		}
		patch.DueDate = input.DueDate
	}
	patch.Done = input.Done

	updated, err := s.repo.Update(ctx, userID, todoID, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, NotFoundf("Todo not found")
		}
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	err := s.repo.Delete(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NotFoundf("Todo not found")
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// checkText trims and validates the todo text: non-empty and at most 1000
// characters after trimming.
func (s *TodoService) checkText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if err := s.validate.Var(text, "required,max=1000"); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			return "", Validationf("Text must be less than 1000 characters")
		}
		return "", Validationf("Text is required and must be a non-empty string")
	}
	return text, nil
}

func (s *TodoService) checkDueDate(raw string) error {
	if err := s.validate.Var(raw, "required,datetime=2006-01-02"); err != nil {
		return Validationf("Invalid date format. Use YYYY-MM-DD")
	}
	return nil
}
