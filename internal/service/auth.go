package service

import (
	"context"

	"github.com/seojin-ahn/todoboard/internal/identity"
)

// AuthService fronts the identity provider's credential flows. Account state
// lives entirely at the provider; the local user row is created later, on
// first sync.
type AuthService struct {
	provider identity.Provider
}

func NewAuthService(provider identity.Provider) *AuthService {
	return &AuthService{provider: provider}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (identity.RegisterOutput, error) {
	if email == "" {
		return identity.RegisterOutput{}, Validationf("Email is required")
	}
	if password == "" {
		return identity.RegisterOutput{}, Validationf("Password is required")
	}
	return s.provider.Register(ctx, identity.RegisterInput{Email: email, Password: password})
}

func (s *AuthService) ConfirmRegistration(ctx context.Context, email, code string) error {
	if email == "" {
		return Validationf("Email is required")
	}
	if code == "" {
		return Validationf("Code is required")
	}
	return s.provider.ConfirmRegistration(ctx, identity.ConfirmInput{Email: email, Code: code})
}

func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	if email == "" {
		return Validationf("Email is required")
	}
	return s.provider.ResendCode(ctx, email)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (identity.Tokens, error) {
	if email == "" {
		return identity.Tokens{}, Validationf("Email is required")
	}
	if password == "" {
		return identity.Tokens{}, Validationf("Password is required")
	}
	return s.provider.Login(ctx, identity.LoginInput{Email: email, Password: password})
}

func (s *AuthService) Refresh(ctx context.Context, email, refreshToken string) (identity.Tokens, error) {
	if email == "" {
		return identity.Tokens{}, Validationf("Email is required")
	}
	if refreshToken == "" {
		return identity.Tokens{}, Validationf("Refresh token is required")
	}
	return s.provider.Refresh(ctx, identity.RefreshInput{Email: email, RefreshToken: refreshToken})
}
