package entity

import "time"

// Purpose tags what a token authorizes.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
	PurposeSession           Purpose = "session"
)

// ParsePurpose converts s into a Purpose. It reports false for any value outside the closed set.
func ParsePurpose(s string) (Purpose, bool) {
	p := Purpose(s)
	return p, p.Valid()
}

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeEmailVerification, PurposePasswordReset, PurposeSession:
		return true
	}
	return false
}

// VerificationToken is the persisted, single-use companion of an
// email verification or password reset token.
type VerificationToken struct {
	ID        string
	UserID    string
	Token     string
	Purpose   Purpose
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Redeemable reports whether the token can still be consumed at now.
func (t *VerificationToken) Redeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// TokenSubject identifies who a token is issued for. Username and Email are
// only embedded in session tokens.
type TokenSubject struct {
	ID       string
	Username string
	Email    string
}

// TokenClaims is the decoded payload of a verified token.
type TokenClaims struct {
	SubjectID string
	Purpose   Purpose
	TokenID   string
	Username  string
	Email     string
	ExpiresAt time.Time
}
