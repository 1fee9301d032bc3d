// Package jwtmw issues and verifies purpose-tagged JWTs and provides the
// gin middleware that guards session-authenticated routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"skateswap/internal/feature/auth/domain/entity"
)

// ErrEmptySecret is returned by NewTokenService when no signing secret is configured.
var ErrEmptySecret = errors.New("jwt secret must not be empty")

// claims is the signed payload. Username and Email are only set on session tokens.
type claims struct {
	Purpose  string `json:"purpose"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a TokenService. Lifetimes are chosen per Issue call.
func NewTokenService(secret string, opts ...Option) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject. A fresh jti makes two tokens for the same
// subject and purpose distinct.
func (s *TokenService) Issue(subject entity.TokenSubject, purpose entity.Purpose, ttl time.Duration) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("unknown token purpose %q", purpose)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if subject.ID == "" {
		return "", errors.New("token subject must not be empty")
	}

	now := s.now()
	c := claims{
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if purpose == entity.PurposeSession {
		c.Username = subject.Username
		c.Email = subject.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and purpose. Every failure yields (nil, false).
func (s *TokenService) Verify(tokenStr string) (*entity.TokenClaims, bool) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}
	purpose, ok := entity.ParsePurpose(c.Purpose)
	if !ok || c.Subject == "" || c.ID == "" {
		return nil, false
	}

	return &entity.TokenClaims{
		SubjectID: c.Subject,
		Purpose:   purpose,
		TokenID:   c.ID,
		Username:  c.Username,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
	}, true
}
