package usecase

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// VerificationPolicy selects whether new accounts must verify their email before logging in.
type VerificationPolicy string

const (
	// PolicyStrict creates inactive accounts and refuses login until the email is verified.
	PolicyStrict VerificationPolicy = "strict"
	// PolicyPermissive creates active accounts and sends no verification email.
	PolicyPermissive VerificationPolicy = "permissive"
)

// ParseVerificationPolicy validates s.
func ParseVerificationPolicy(s string) (VerificationPolicy, error) {
	switch p := VerificationPolicy(s); p {
	case PolicyStrict, PolicyPermissive:
		return p, nil
	}
	return "", fmt.Errorf("unknown verification policy %q (want %q or %q)", s, PolicyStrict, PolicyPermissive)
}

// RequiresVerification reports whether accounts start inactive.
func (p VerificationPolicy) RequiresVerification() bool {
	return p != PolicyPermissive
}

const (
	DefaultBcryptCost      = 10
	DefaultVerificationTTL = 24 * time.Hour
	DefaultResetTTL        = time.Hour
	DefaultSessionTTL      = 7 * 24 * time.Hour
)

// Options tunes the credential flows.
type Options struct {
	Policy          VerificationPolicy
	BcryptCost      int
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	SessionTTL      time.Duration

	// Now is the clock used for expiry and timestamps. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the strict policy with the standard lifetimes.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyStrict
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = DefaultBcryptCost
	}
	// bcrypt.MinCost is only allowed so tests stay fast.
	if o.BcryptCost < bcrypt.MinCost || o.BcryptCost > bcrypt.MaxCost {
		o.BcryptCost = DefaultBcryptCost
	}
	if o.VerificationTTL <= 0 {
		o.VerificationTTL = DefaultVerificationTTL
	}
	if o.ResetTTL <= 0 {
		o.ResetTTL = DefaultResetTTL
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = DefaultSessionTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
