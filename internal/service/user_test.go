package service_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"

	"github.com/seojin-ahn/todoboard/internal/identity"
	"github.com/seojin-ahn/todoboard/internal/model"
	"github.com/seojin-ahn/todoboard/internal/service"
)

type mockUserRepo struct {
	upsertFn func(ctx context.Context, uid, email string) (model.User, error)
	getFn    func(ctx context.Context, uid string) (model.User, error)
	updateFn func(ctx context.Context, user model.User) (model.User, error)
}

func (m *mockUserRepo) Upsert(ctx context.Context, uid, email string) (model.User, error) {
	return m.upsertFn(ctx, uid, email)
}
func (m *mockUserRepo) GetByUID(ctx context.Context, uid string) (model.User, error) {
	return m.getFn(ctx, uid)
}
func (m *mockUserRepo) Update(ctx context.Context, user model.User) (model.User, error) {
	return m.updateFn(ctx, user)
}

func sampleUser() model.User {
	return model.User{
		UID:       "user-1",
		Email:     "user@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserSync(t *testing.T) {
	repo := &mockUserRepo{
		upsertFn: func(ctx context.Context, uid, email string) (model.User, error) {
			if uid != "user-1" || email != "user@example.com" {
				t.Errorf("unexpected upsert args: %q %q", uid, email)
			}
			return sampleUser(), nil
		},
	}
	svc := service.NewUserService(repo)

	user, err := svc.Sync(context.Background(), identity.Identity{UID: "user-1", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UID != "user-1" {
		t.Errorf("expected uid=user-1, got %q", user.UID)
	}
}

func TestUserGet_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(ctx context.Context, uid string) (model.User, error) {
			return model.User{}, sql.ErrNoRows
		},
	}
	svc := service.NewUserService(repo)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if err.Error() != "User not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name         string
		input        service.UpdateProfileInput
		updateErr    error
		wantErr      string
		wantErrKind  error
		wantUsername *string
		wantAvatar   *string
	}{
		{
			name:         "set username",
			input:        service.UpdateProfileInput{Username: strPtr("seojin")},
			wantUsername: strPtr("seojin"),
		},
		{
			name:         "username trimmed",
			input:        service.UpdateProfileInput{Username: strPtr("  seojin  ")},
			wantUsername: strPtr("seojin"),
		},
		{
			name:  "clear username with empty string",
			input: service.UpdateProfileInput{Username: strPtr("")},
		},
		{
			name:        "username too long",
			input:       service.UpdateProfileInput{Username: strPtr(strings.Repeat("a", 31))},
			wantErr:     "30 characters or less",
			wantErrKind: service.ErrValidation,
		},
		{
			name:       "set avatar",
			input:      service.UpdateProfileInput{Avatar: strPtr("data:image/png;base64,aGVsbG8=")},
			wantAvatar: strPtr("data:image/png;base64,aGVsbG8="),
		},
		{
			name:  "clear avatar with empty string",
			input: service.UpdateProfileInput{Avatar: strPtr("")},
		},
		{
			name:        "avatar not a data uri",
			input:       service.UpdateProfileInput{Avatar: strPtr("https://example.com/a.png")},
			wantErr:     "base64 data URI",
			wantErrKind: service.ErrValidation,
		},
		{
			name:        "avatar missing base64 marker",
			input:       service.UpdateProfileInput{Avatar: strPtr("data:image/png,rawdata")},
			wantErr:     "base64 data URI",
			wantErrKind: service.ErrValidation,
		},
		{
			name:        "avatar too large",
			input:       service.UpdateProfileInput{Avatar: strPtr("data:image/png;base64," + strings.Repeat("A", 70000))},
			wantErr:     "50KB or smaller",
			wantErrKind: service.ErrValidation,
		},
		{
			name:        "username already taken",
			input:       service.UpdateProfileInput{Username: strPtr("taken")},
			updateErr:   &pq.Error{Code: "23505", Constraint: "users_username_key"},
			wantErr:     "Username already taken",
			wantErrKind: service.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved model.User
			repo := &mockUserRepo{
				getFn: func(ctx context.Context, uid string) (model.User, error) {
					return sampleUser(), nil
				},
				updateFn: func(ctx context.Context, user model.User) (model.User, error) {
					if tt.updateErr != nil {
						return model.User{}, tt.updateErr
					}
					saved = user
					return user, nil
				},
			}
			svc := service.NewUserService(repo)

			_, err := svc.UpdateProfile(context.Background(), "user-1", tt.input)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if tt.wantErrKind != nil && !errors.Is(err, tt.wantErrKind) {
					t.Fatalf("expected error kind %v, got %v", tt.wantErrKind, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ptrEq(saved.Username, tt.wantUsername) {
				t.Errorf("username: want %v, got %v", deref(tt.wantUsername), deref(saved.Username))
			}
			if !ptrEq(saved.Avatar, tt.wantAvatar) {
				t.Errorf("avatar: want %v, got %v", deref(tt.wantAvatar), deref(saved.Avatar))
			}
		})
	}
}

func TestUpdateProfile_NilLeavesFieldsUnchanged(t *testing.T) {
	existing := sampleUser()
	existing.Username = strPtr("seojin")
	existing.Avatar = strPtr("data:image/png;base64,aGVsbG8=")

	var saved model.User
	repo := &mockUserRepo{
		getFn: func(ctx context.Context, uid string) (model.User, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, user model.User) (model.User, error) {
			saved = user
			return user, nil
		},
	}
	svc := service.NewUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), "user-1", service.UpdateProfileInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Username == nil || *saved.Username != "seojin" {
		t.Errorf("username should be unchanged, got %v", deref(saved.Username))
	}
	if saved.Avatar == nil || *saved.Avatar != *existing.Avatar {
		t.Errorf("avatar should be unchanged, got %v", deref(saved.Avatar))
	}
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
