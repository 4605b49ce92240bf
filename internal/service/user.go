package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/seojin-ahn/todoboard/internal/identity"
	"github.com/seojin-ahn/todoboard/internal/model"
	"github.com/seojin-ahn/todoboard/internal/repository"
)

// maxAvatarBytes bounds the decoded size of a data-URI avatar (~37KB image).
const maxAvatarBytes = 50000

const base64Marker = ";base64,"

type UpdateProfileInput struct {
	Username *string
	Avatar   *string
}

type UserService struct {
	users    repository.UserRepository
	validate *validator.Validate
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{
		users:    users,
		validate: validator.New(),
	}
}

// Sync reconciles a verified identity with the local user store. The upsert
// makes concurrent first syncs for the same uid converge on a single row.
func (s *UserService) Sync(ctx context.Context, ident identity.Identity) (model.User, error) {
	user, err := s.users.Upsert(ctx, ident.UID, ident.Email)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to sync user: %w", err)
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (model.User, error) {
	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, NotFoundf("User not found")
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the supplied fields. An empty username or avatar
// clears the field. Username uniqueness rests on the store's partial unique
// index; the duplicate-key failure is surfaced as a conflict.
func (s *UserService) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (model.User, error) {
	user, err := s.Get(ctx, uid)
	if err != nil {
		return model.User{}, err
	}

	if input.Username != nil {
		name := strings.TrimSpace(*input.Username)
		if name == "" {
			user.Username = nil
		} else {
			if err := s.validate.Var(name, "max=30"); err != nil {
				return model.User{}, Validationf("Username must be 30 characters or less")
			}
			user.Username = &name
		}
	}

	if input.Avatar != nil {
		avatar := *input.Avatar
		if avatar == "" {
			user.Avatar = nil
		} else {
			if err := checkAvatar(avatar); err != nil {
				return model.User{}, err
			}
			user.Avatar = &avatar
		}
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return model.User{}, Conflictf("Username already taken")
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return updated, nil
}

func checkAvatar(avatar string) error {
	if !strings.HasPrefix(avatar, "data:image/") {
		return Validationf("Avatar must be a base64 data URI image")
	}
	idx := strings.Index(avatar, base64Marker)
	if idx < 0 {
		return Validationf("Avatar must be a base64 data URI image")
	}
	payload := avatar[idx+len(base64Marker):]
	if len(payload)*3/4 > maxAvatarBytes {
		return Validationf("Avatar image must be 50KB or smaller")
	}
	return nil
}
