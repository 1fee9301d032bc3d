// Package authtest provides an in-memory CredentialStore for tests.
// It is never wired into a running server.
package authtest

import (
	"context"
	"sync"
	"time"

	"skateswap/internal/feature/auth/domain/entity"
	"skateswap/internal/feature/auth/usecase"
)

// Store is a mutex-guarded, map-backed usecase.CredentialStore.
type Store struct {
	mu       sync.Mutex
	users    map[string]entity.User
	profiles map[string]entity.Profile // keyed by user ID
	tokens   map[string]entity.VerificationToken
}

var _ usecase.CredentialStore = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:    map[string]entity.User{},
		profiles: map[string]entity.Profile{},
		tokens:   map[string]entity.VerificationToken{},
	}
}

// CreateUser implements usecase.CredentialStore.
func (s *Store) CreateUser(_ context.Context, user *entity.User, profile *entity.Profile, token *entity.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return usecase.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return usecase.ErrEmailTaken
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = *user
	if profile != nil {
		s.profiles[user.ID] = *profile
	}
	if token != nil {
		s.tokens[token.Token] = *token
	}
	return nil
}

func (s *Store) findUser(match func(entity.User) bool) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, usecase.ErrUserNotFound
}

// FindUserByID implements usecase.CredentialStore.
func (s *Store) FindUserByID(_ context.Context, id string) (*entity.User, error) {
	return s.findUser(func(u entity.User) bool { return u.ID == id })
}

// FindUserByEmail implements usecase.CredentialStore.
func (s *Store) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.findUser(func(u entity.User) bool { return u.Email == email })
}

// FindUserByUsername implements usecase.CredentialStore.
func (s *Store) FindUserByUsername(_ context.Context, username string) (*entity.User, error) {
	return s.findUser(func(u entity.User) bool { return u.Username == username })
}

// UsernameExists implements usecase.CredentialStore.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindUserByUsername(ctx, username)
	return err == nil, nil
}

// EmailExists implements usecase.CredentialStore.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.FindUserByEmail(ctx, email)
	return err == nil, nil
}

// FindUserProfile implements usecase.CredentialStore.
func (s *Store) FindUserProfile(_ context.Context, userID string) (*entity.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	if p, ok := s.profiles[userID]; ok {
		return entity.NewUserProfile(&u, &p), nil
	}
	return entity.NewUserProfile(&u, nil), nil
}

// UpsertProfile implements usecase.CredentialStore.
func (s *Store) UpsertProfile(_ context.Context, profile *entity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	s.profiles[profile.UserID] = *profile
	return nil
}

// TouchLastLogin implements usecase.CredentialStore.
func (s *Store) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return usecase.ErrUserNotFound
	}
	u.LastLoginAt = &at
	s.users[userID] = u
	return nil
}

// SaveToken implements usecase.CredentialStore.
func (s *Store) SaveToken(_ context.Context, token *entity.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = *token
	return nil
}

// TokenIssued implements usecase.CredentialStore.
func (s *Store) TokenIssued(_ context.Context, token string, purpose entity.Purpose) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	return ok && t.Purpose == purpose, nil
}

// redeem marks the token used and applies effect to its user while holding the lock.
func (s *Store) redeem(userID, token string, purpose entity.Purpose, now time.Time, effect func(*entity.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[token]
	if !ok || t.UserID != userID || t.Purpose != purpose || !t.Redeemable(now) {
		return usecase.ErrTokenNotRedeemable
	}
	u, ok := s.users[userID]
	if !ok {
		return usecase.ErrUserNotFound
	}
	t.Used = true
	s.tokens[token] = t
	effect(&u)
	u.UpdatedAt = now
	s.users[userID] = u
	return nil
}

// ActivateWithToken implements usecase.CredentialStore.
func (s *Store) ActivateWithToken(_ context.Context, userID, token string, now time.Time) error {
	return s.redeem(userID, token, entity.PurposeEmailVerification, now, func(u *entity.User) {
		u.IsActive = true
	})
}

// ResetPasswordWithToken implements usecase.CredentialStore.
func (s *Store) ResetPasswordWithToken(_ context.Context, userID, token, passwordHash string, now time.Time) error {
	return s.redeem(userID, token, entity.PurposePasswordReset, now, func(u *entity.User) {
		u.PasswordHash = passwordHash
	})
}

// DeleteExpiredTokens implements usecase.CredentialStore.
func (s *Store) DeleteExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, t := range s.tokens {
		if t.Used || !now.Before(t.ExpiresAt) {
			delete(s.tokens, k)
			n++
		}
	}
	return n, nil
}

// Tokens returns a snapshot of the stored tokens for assertions.
func (s *Store) Tokens() []entity.VerificationToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.VerificationToken, 0, len(s.tokens))
	for _, t := range s.tokens {
		out = append(out, t)
	}
	return out
}

// ExpireTokens moves every stored token's expiry to at.
func (s *Store) ExpireTokens(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.tokens {
		t.ExpiresAt = at
		s.tokens[k] = t
	}
}
