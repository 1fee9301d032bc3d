package adapters

import (
	"time"

	"skateswap/internal/feature/auth/domain/entity"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Username     string     `gorm:"size:50;not null;uniqueIndex:idx_users_username"`
	Email        string     `gorm:"size:100;not null;uniqueIndex:idx_users_email"`
	PasswordHash string     `gorm:"size:255;not null"`
	IsActive     bool       `gorm:"not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ProfileModel is the GORM model for the user_profiles table.
type ProfileModel struct {
	ID            string   `gorm:"primaryKey;size:36"`
	UserID        string   `gorm:"size:36;not null;uniqueIndex:idx_user_profiles_user_id"`
	PreferredFoot string   `gorm:"size:16;not null"`
	ShoeSize      *float64 `gorm:"type:decimal(3,1)"`
	Location      *string  `gorm:"size:100"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM.
func (ProfileModel) TableName() string {
	return "user_profiles"
}

// ToEntity converts the GORM model to a domain entity.
func (m *ProfileModel) ToEntity() *entity.Profile {
	return &entity.Profile{
		ID:            m.ID,
		UserID:        m.UserID,
		PreferredFoot: entity.Foot(m.PreferredFoot).Normalize(),
		ShoeSize:      m.ShoeSize,
		Location:      m.Location,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ProfileModelFromEntity converts a domain entity to a GORM model.
func ProfileModelFromEntity(p *entity.Profile) *ProfileModel {
	return &ProfileModel{
		ID:            p.ID,
		UserID:        p.UserID,
		PreferredFoot: string(p.PreferredFoot.Normalize()),
		ShoeSize:      p.ShoeSize,
		Location:      p.Location,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// VerificationTokenModel is the GORM model for the verification_tokens table.
// Times are stored in UTC so that expiry comparisons behave the same on every dialect.
type VerificationTokenModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;not null;index"`
	Token     string    `gorm:"size:512;not null;uniqueIndex:idx_verification_tokens_token"`
	Purpose   string    `gorm:"size:32;not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Used      bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (VerificationTokenModel) TableName() string {
	return "verification_tokens"
}

// ToEntity converts the GORM model to a domain entity.
func (m *VerificationTokenModel) ToEntity() *entity.VerificationToken {
	return &entity.VerificationToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		Purpose:   entity.Purpose(m.Purpose),
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		CreatedAt: m.CreatedAt,
	}
}

// VerificationTokenModelFromEntity converts a domain entity to a GORM model.
func VerificationTokenModelFromEntity(t *entity.VerificationToken) *VerificationTokenModel {
	return &VerificationTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Token:     t.Token,
		Purpose:   string(t.Purpose),
		ExpiresAt: t.ExpiresAt.UTC(),
		Used:      t.Used,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

// Models lists every model this package persists, in migration order.
func Models() []any {
	return []any{&UserModel{}, &ProfileModel{}, &VerificationTokenModel{}}
}
