// Package usecase implements the business logic for the auth feature.
package usecase

import "skateswap/internal/feature/auth/domain"

var (
	// ErrMissingFields is returned when username, email or password is empty on registration.
	ErrMissingFields = domain.New(domain.KindValidation, "username, email and password are required")

	// ErrInvalidEmail is returned when an email address fails the syntax check.
	ErrInvalidEmail = domain.New(domain.KindValidation, "invalid email format")

	// ErrWeakPassword is returned when a password is shorter than minPasswordLength.
	ErrWeakPassword = domain.New(domain.KindValidation, "password must be at least 8 characters long")

	// ErrInvalidFoot is returned when preferredFoot is outside left/right/both/unspecified.
	ErrInvalidFoot = domain.New(domain.KindValidation, "preferred foot must be one of left, right, both, unspecified")

	// ErrInvalidShoeSize is returned for a non-positive or absurd shoe size.
	ErrInvalidShoeSize = domain.New(domain.KindValidation, "shoe size must be greater than 0 and at most 60")

	// ErrEmailRequired is returned when an email-only request carries no email.
	ErrEmailRequired = domain.New(domain.KindValidation, "email is required")

	// ErrCredentialsRequired is returned when login is attempted without email or password.
	ErrCredentialsRequired = domain.New(domain.KindValidation, "email and password are required")

	// ErrMissingResetFields is returned when a reset request lacks the token or the new password.
	ErrMissingResetFields = domain.New(domain.KindValidation, "token and new password are required")

	// ErrUsernameTaken is returned when the username already belongs to another user.
	ErrUsernameTaken = domain.New(domain.KindConflict, "username is already taken")

	// ErrEmailTaken is returned when the email already belongs to another user.
	ErrEmailTaken = domain.New(domain.KindConflict, "email is already registered")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = domain.New(domain.KindAuth, "invalid email or password")

	// ErrEmailNotVerified is returned on login by an inactive account under the strict policy.
	ErrEmailNotVerified = domain.New(domain.KindAuth, "please verify your email before logging in")

	// ErrInvalidVerificationLink is returned when a verification token fails signature,
	// expiry or purpose checks.
	ErrInvalidVerificationLink = domain.New(domain.KindAuth, "invalid verification link")

	// ErrVerificationLinkExpired is returned when no unused, unexpired row matches the token.
	ErrVerificationLinkExpired = domain.New(domain.KindAuth, "verification link has expired or has already been used")

	// ErrInvalidResetLink is returned when a reset token fails signature, expiry or purpose checks.
	ErrInvalidResetLink = domain.New(domain.KindAuth, "invalid reset link")

	// ErrResetLinkExpired is returned when no unused, unexpired row matches the reset token.
	ErrResetLinkExpired = domain.New(domain.KindAuth, "reset link has expired or has already been used")

	// ErrUserNotFound is returned when a user cannot be found by ID, email or username.
	ErrUserNotFound = domain.New(domain.KindNotFound, "user not found")

	// ErrTokenNotRedeemable is returned by a CredentialStore when the conditional
	// update on a verification token matched no row.
	ErrTokenNotRedeemable = domain.New(domain.KindAuth, "token has expired or has already been used")
)
