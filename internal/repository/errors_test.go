package repository_test

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/seojin-ahn/todoboard/internal/repository"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation",
			err:  &pq.Error{Code: "23505", Constraint: "users_username_key"},
			want: true,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("failed to update user: %w", &pq.Error{Code: "23505"}),
			want: true,
		},
		{
			name: "other postgres error",
			err:  &pq.Error{Code: "23503"},
			want: false,
		},
		{
			name: "non-postgres error",
			err:  sql.ErrNoRows,
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
