package usecase

import (
	"context"
	"time"

	"skateswap/internal/feature/auth/domain/entity"
)

// CredentialStore abstracts persistence of users, profiles and verification tokens.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
//
// Uniqueness and single-use guarantees are enforced by the store itself,
// not by callers reading before writing.
type CredentialStore interface {
	// CreateUser inserts the user, its profile and, when non-nil, its first
	// verification token as one unit. Nothing is kept if any insert fails.
	// Returns ErrUsernameTaken or ErrEmailTaken on a uniqueness violation.
	CreateUser(ctx context.Context, user *entity.User, profile *entity.Profile, token *entity.VerificationToken) error

	// FindUserByID returns ErrUserNotFound when no user has the given ID.
	FindUserByID(ctx context.Context, id string) (*entity.User, error)

	// FindUserByEmail returns ErrUserNotFound when no user has the given email.
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindUserByUsername returns ErrUserNotFound when no user has the given username.
	FindUserByUsername(ctx context.Context, username string) (*entity.User, error)

	// UsernameExists reports whether the username is already registered.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// EmailExists reports whether the email is already registered.
	EmailExists(ctx context.Context, email string) (bool, error)

	// FindUserProfile returns the joined user/profile view.
	// Returns ErrUserNotFound when the user does not exist.
	FindUserProfile(ctx context.Context, userID string) (*entity.UserProfile, error)

	// UpsertProfile creates the user's profile row or replaces its fields.
	UpsertProfile(ctx context.Context, profile *entity.Profile) error

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error

	// SaveToken persists a freshly issued verification token.
	SaveToken(ctx context.Context, token *entity.VerificationToken) error

	// TokenIssued reports whether token was stored for purpose, regardless of
	// whether it is still redeemable.
	TokenIssued(ctx context.Context, token string, purpose entity.Purpose) (bool, error)

	// ActivateWithToken marks the matching unused, unexpired email verification
	// token as used and activates its user in one transaction.
	// Returns ErrTokenNotRedeemable when no row matched.
	ActivateWithToken(ctx context.Context, userID, token string, now time.Time) error

	// ResetPasswordWithToken marks the matching unused, unexpired password reset
	// token as used and replaces the user's password hash in one transaction.
	// Returns ErrTokenNotRedeemable when no row matched.
	ResetPasswordWithToken(ctx context.Context, userID, token, passwordHash string, now time.Time) error

	// DeleteExpiredTokens removes tokens that expired or were used before now.
	// Returns the number of deleted rows.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
