package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier checks RS256 ID tokens against the provider's published
// signing keys, pinning issuer and audience to the configured user pool.
type TokenVerifier struct {
	keys     *KeySet
	issuer   string
	audience string
}

func NewTokenVerifier(keys *KeySet, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{keys: keys, issuer: issuer, audience: audience}
}

func (v *TokenVerifier) Verify(ctx context.Context, rawToken string) (Identity, error) {
	token, err := jwt.Parse(rawToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid header not found")
		}

		return v.keys.Key(kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, fmt.Errorf("%w: sub claim missing", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)

	return Identity{UID: sub, Email: email}, nil
}

var _ Verifier = (*TokenVerifier)(nil)
