package identity_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/seojin-ahn/todoboard/internal/identity"
)

const testKid = "test-key-1"

type testJWKS struct {
	server  *httptest.Server
	key     *rsa.PrivateKey
	fetches atomic.Int64
}

// newTestJWKS stands up a JWKS endpoint backed by a freshly generated RSA key.
func newTestJWKS(t *testing.T) *testJWKS {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	j := &testJWKS{key: key}
	j.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		j.fetches.Add(1)
		doc := map[string]any{
			"keys": []map[string]string{
				{
					"kty": "RSA",
					"kid": testKid,
					"use": "sig",
					"alg": "RS256",
					"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
					"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(j.server.Close)
	return j
}

func (j *testJWKS) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(j.key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

const (
	testIssuer   = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_test"
	testAudience = "test-client-id"
)

func testClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"iss":   testIssuer,
		"aud":   testAudience,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestVerify(t *testing.T) {
	jwks := newTestJWKS(t)
	verifier := identity.NewTokenVerifier(identity.NewKeySet(jwks.server.URL), testIssuer, testAudience)

	ident, err := verifier.Verify(context.Background(), jwks.sign(t, testKid, testClaims()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.UID != "user-1" {
		t.Errorf("expected uid=user-1, got %q", ident.UID)
	}
	if ident.Email != "user@example.com" {
		t.Errorf("expected email=user@example.com, got %q", ident.Email)
	}
}

func TestVerify_Failures(t *testing.T) {
	jwks := newTestJWKS(t)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "expired token",
			token: func(t *testing.T) string {
				claims := testClaims()
				claims["exp"] = time.Now().Add(-time.Hour).Unix()
				return jwks.sign(t, testKid, claims)
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				claims := testClaims()
				claims["iss"] = "https://evil.example.com"
				return jwks.sign(t, testKid, claims)
			},
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				claims := testClaims()
				claims["aud"] = "other-client"
				return jwks.sign(t, testKid, claims)
			},
		},
		{
			name: "missing sub",
			token: func(t *testing.T) string {
				claims := testClaims()
				delete(claims, "sub")
				return jwks.sign(t, testKid, claims)
			},
		},
		{
			name: "unknown kid",
			token: func(t *testing.T) string {
				return jwks.sign(t, "unknown-kid", testClaims())
			},
		},
		{
			name: "hmac signature rejected",
			token: func(t *testing.T) string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, testClaims())
				token.Header["kid"] = testKid
				signed, err := token.SignedString([]byte("secret"))
				if err != nil {
					t.Fatalf("failed to sign token: %v", err)
				}
				return signed
			},
		},
		{
			name:  "garbage token",
			token: func(t *testing.T) string { return "not.a.jwt" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := identity.NewTokenVerifier(identity.NewKeySet(jwks.server.URL), testIssuer, testAudience)
			_, err := verifier.Verify(context.Background(), tt.token(t))
			if !errors.Is(err, identity.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	jwks := newTestJWKS(t)
	verifier := identity.NewTokenVerifier(identity.NewKeySet(jwks.server.URL), testIssuer, testAudience)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, testClaims())
	token.Header["kid"] = testKid
	signed, err := token.SignedString(otherKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), signed); !errors.Is(err, identity.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestKeySet_CachesAcrossVerifications(t *testing.T) {
	jwks := newTestJWKS(t)
	verifier := identity.NewTokenVerifier(identity.NewKeySet(jwks.server.URL), testIssuer, testAudience)

	for i := 0; i < 3; i++ {
		if _, err := verifier.Verify(context.Background(), jwks.sign(t, testKid, testClaims())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := jwks.fetches.Load(); got != 1 {
		t.Errorf("expected a single JWKS fetch, got %d", got)
	}
}

func TestKeySet_UnknownKidCooldown(t *testing.T) {
	jwks := newTestJWKS(t)
	keys := identity.NewKeySet(jwks.server.URL)

	// First miss triggers a fetch; repeated misses within the cooldown do not.
	if _, err := keys.Key("missing-1"); err == nil {
		t.Fatal("expected error for unknown kid")
	}
	if _, err := keys.Key("missing-2"); err == nil {
		t.Fatal("expected error for unknown kid")
	}

	if got := jwks.fetches.Load(); got != 1 {
		t.Errorf("expected a single JWKS fetch, got %d", got)
	}

	// Known kid is served from the cache populated by the first fetch.
	if _, err := keys.Key(testKid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := jwks.fetches.Load(); got != 1 {
		t.Errorf("expected no additional fetch, got %d", got)
	}
}
