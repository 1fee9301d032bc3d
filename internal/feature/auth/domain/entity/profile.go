package entity

import "time"

// Foot is the rider's preferred stance foot.
type Foot string

const (
	FootLeft        Foot = "left"
	FootRight       Foot = "right"
	FootBoth        Foot = "both"
	FootUnspecified Foot = "unspecified"
)

// Valid reports whether f is one of the known values. The empty value is
// accepted and treated as FootUnspecified.
func (f Foot) Valid() bool {
	switch f {
	case "", FootLeft, FootRight, FootBoth, FootUnspecified:
		return true
	}
	return false
}

// Normalize maps the empty value to FootUnspecified.
func (f Foot) Normalize() Foot {
	if f == "" {
		return FootUnspecified
	}
	return f
}

// Profile holds optional preferences of a user. There is at most one Profile per User.
type Profile struct {
	ID            string
	UserID        string
	PreferredFoot Foot
	ShoeSize      *float64
	Location      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
