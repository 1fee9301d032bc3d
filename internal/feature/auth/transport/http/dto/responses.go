package dto

import (
	"time"

	"skateswap/internal/feature/auth/domain/entity"
	"skateswap/internal/feature/auth/usecase"
)

// ErrorRes is the body of every failed request.
type ErrorRes struct {
	Error string `json:"error"`
}

// MessageRes is returned by operations that only report success.
type MessageRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisteredUserRes is the user projection returned on registration.
type RegisteredUserRes struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRes は/auth/registerの成功レスポンスです。
type RegisterRes struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	User    RegisteredUserRes `json:"user"`
}

// UserRes is the caller's own profile view. It never includes the password hash.
type UserRes struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLogin     *time.Time `json:"lastLogin"`
	PreferredFoot string     `json:"preferredFoot"`
	ShoeSize      *float64   `json:"shoeSize"`
	Location      *string    `json:"location"`
}

// LoginRes は/auth/loginの成功レスポンスです。
type LoginRes struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserRes `json:"user"`
}

// ProfileRes wraps a UserRes for the profile endpoints.
type ProfileRes struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	User    UserRes `json:"user"`
}

// PublicUserRes is what anyone may see about a user.
type PublicUserRes struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"createdAt"`
	PreferredFoot string    `json:"preferredFoot"`
	ShoeSize      *float64  `json:"shoeSize"`
	Location      *string   `json:"location"`
}

// PublicProfileRes wraps a PublicUserRes.
type PublicProfileRes struct {
	Success bool          `json:"success"`
	User    PublicUserRes `json:"user"`
}

// NewRegisteredUserRes converts a profile view into the registration projection.
func NewRegisteredUserRes(v *entity.UserProfile) RegisteredUserRes {
	return RegisteredUserRes{
		ID:        v.ID,
		Username:  v.Username,
		Email:     v.Email,
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt,
	}
}

// NewUserRes converts a profile view into its JSON form.
func NewUserRes(v *entity.UserProfile) UserRes {
	return UserRes{
		ID:            v.ID,
		Username:      v.Username,
		Email:         v.Email,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt,
		LastLogin:     v.LastLoginAt,
		PreferredFoot: string(v.PreferredFoot.Normalize()),
		ShoeSize:      v.ShoeSize,
		Location:      v.Location,
	}
}

// NewPublicUserRes converts a public profile into its JSON form.
func NewPublicUserRes(p *usecase.PublicProfile) PublicUserRes {
	return PublicUserRes{
		ID:            p.ID,
		Username:      p.Username,
		CreatedAt:     p.CreatedAt,
		PreferredFoot: string(p.PreferredFoot.Normalize()),
		ShoeSize:      p.ShoeSize,
		Location:      p.Location,
	}
}
