// Package auth verifies identity-provider tokens and exposes the caller's
// identity to request handlers.
//
// The application never authenticates users itself — an external identity
// provider signs a JWT whose subject is the user's opaque id and which
// carries the verified email. This package validates signature, expiry,
// and issuer; nothing downstream trusts an id that didn't come through
// here. The graph store then treats those ids as opaque foreign keys.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "socialgraph"

// TokenService signs and verifies identity tokens.
//
// HS256 keeps this symmetric: the same secret signs and verifies. That fits
// a single-service deployment where this process is both the dev-mode
// issuer (see cmd/seed) and the verifier. A hosted identity provider with
// asymmetric keys would swap the key lookup in Validate, nothing else.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Identity is what a verified token asserts about the caller: the opaque
// user id and the email the provider verified. Both are immutable inputs
// to onboarding; neither is ever taken from a request body.
type Identity struct {
	UserID string
	Email  string
}

// claims embeds the registered JWT claims and adds the provider-verified
// email. Subject carries the user id.
type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given identity, valid for one
// hour. Used by tests and the dev tooling that stands in for the identity
// provider.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.GenerateWithDuration(id, time.Hour)
}

// GenerateWithDuration creates a token with a custom expiry duration.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the identity it
// asserts. Fails on a bad signature, an expired token, a wrong issuer, or
// a non-HMAC algorithm (rejecting the latter closes the algorithm
// confusion hole).
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || c.Subject == "" {
		return Identity{}, errors.New("auth: token has no subject")
	}

	return Identity{UserID: c.Subject, Email: c.Email}, nil
}
