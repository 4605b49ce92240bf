// Package identity integrates the external identity provider: bearer token
// verification against the provider's JWKS, and the credential flows
// (registration, login, refresh) proxied to the provider's API.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// Identity is a verified external identity: the provider-issued uid and the
// email attached to the credential.
type Identity struct {
	UID   string
	Email string
}

// ErrInvalidToken covers every bearer-credential failure: expired,
// malformed, wrong signature, wrong issuer or audience.
var ErrInvalidToken = errors.New("invalid token")

// Verifier validates a bearer credential and produces the verified identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Identity, error)
}

// Tokens is the credential set the provider hands back after login/refresh.
type Tokens struct {
	IDToken      string `json:"idToken"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int32  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

type RegisterInput struct {
	Email    string
	Password string
}

type RegisterOutput struct {
	UID       string `json:"uid"`
	Confirmed bool   `json:"confirmed"`
}

type ConfirmInput struct {
	Email string
	Code  string
}

type LoginInput struct {
	Email    string
	Password string
}

type RefreshInput struct {
	Email        string
	RefreshToken string
}

// Provider is the credential-flow side of the identity provider.
type Provider interface {
	Register(ctx context.Context, input RegisterInput) (RegisterOutput, error)
	ConfirmRegistration(ctx context.Context, input ConfirmInput) error
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, input LoginInput) (Tokens, error)
	Refresh(ctx context.Context, input RefreshInput) (Tokens, error)
}

// JWKSURL returns the JWKS endpoint for a Cognito user pool.
func JWKSURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)
}

// Issuer returns the expected token issuer for a Cognito user pool.
func Issuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}
