// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// Username and Email are each unique across all users.
type User struct {
	// ID is an opaque identifier (UUID string).
	ID string

	Username string
	Email    string

	// PasswordHash is the bcrypt hash of the password. The plaintext is never stored.
	PasswordHash string

	// IsActive is false until the email address is verified under the strict policy.
	IsActive bool

	// LastLoginAt is nil until the first successful login.
	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfile is a read view joining a User with its optional Profile.
// It never carries the password hash.
type UserProfile struct {
	ID            string
	Username      string
	Email         string
	IsActive      bool
	CreatedAt     time.Time
	LastLoginAt   *time.Time
	PreferredFoot Foot
	ShoeSize      *float64
	Location      *string
}

// NewUserProfile builds the view for u and p. p may be nil when the user has no profile row yet.
func NewUserProfile(u *User, p *Profile) *UserProfile {
	view := &UserProfile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
		PreferredFoot: FootUnspecified,
	}
	if p != nil {
		view.PreferredFoot = p.PreferredFoot.Normalize()
		view.ShoeSize = p.ShoeSize
		view.Location = p.Location
	}
	return view
}
