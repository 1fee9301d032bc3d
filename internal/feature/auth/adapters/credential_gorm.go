// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skateswap/internal/feature/auth/domain/entity"
	"skateswap/internal/feature/auth/usecase"
)

// credentialStore はCredentialStoreインターフェースのGORM実装です。
// It runs unchanged on MySQL, PostgreSQL and SQLite.
type credentialStore struct {
	db *gorm.DB
}

// credentialStoreがCredentialStoreを実装していることをコンパイル時に検証します。
var _ usecase.CredentialStore = (*credentialStore)(nil)

// NewCredentialStore は指定されたgorm.DB接続でcredentialStoreの新しいインスタンスを生成します。
func NewCredentialStore(db *gorm.DB) *credentialStore {
	return &credentialStore{db: db}
}

// CreateUser inserts the user, its profile and the optional first token in one transaction.
func (r *credentialStore) CreateUser(ctx context.Context, u *entity.User, p *entity.Profile, t *entity.VerificationToken) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := UserModelFromEntity(u)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		u.CreatedAt = model.CreatedAt
		u.UpdatedAt = model.UpdatedAt
		if p != nil {
			if err := tx.Create(ProfileModelFromEntity(p)).Error; err != nil {
				return err
			}
		}
		if t != nil {
			if err := tx.Create(VerificationTokenModelFromEntity(t)).Error; err != nil {
				return fmt.Errorf("failed to save %s token: %w", t.Purpose, err)
			}
		}
		return nil
	})
	if err != nil {
		return translateDuplicate(err)
	}
	return nil
}

func (r *credentialStore) findUser(ctx context.Context, column, value string) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindUserByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *credentialStore) FindUserByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findUser(ctx, "id", id)
}

// FindUserByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *credentialStore) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findUser(ctx, "email", email)
}

// FindUserByUsername returns usecase.ErrUserNotFound when no user has the username.
func (r *credentialStore) FindUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findUser(ctx, "username", username)
}

func (r *credentialStore) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where(column+" = ?", value).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UsernameExists reports whether the username is registered.
func (r *credentialStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// EmailExists reports whether the email is registered.
func (r *credentialStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

// FindUserProfile loads the user and, if present, its profile row.
func (r *credentialStore) FindUserProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	user, err := r.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pm ProfileModel
	err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pm).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return entity.NewUserProfile(user, nil), nil
	case err != nil:
		return nil, err
	}
	return entity.NewUserProfile(user, pm.ToEntity()), nil
}

// UpsertProfile inserts the profile or, when the user already has one, replaces its fields.
func (r *credentialStore) UpsertProfile(ctx context.Context, p *entity.Profile) error {
	model := ProfileModelFromEntity(p)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"preferred_foot", "shoe_size", "location", "updated_at"}),
		}).
		Create(model).Error
}

// TouchLastLogin sets last_login_at for the user.
func (r *credentialStore) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", userID).
		Update("last_login_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// SaveToken persists a verification token.
func (r *credentialStore) SaveToken(ctx context.Context, t *entity.VerificationToken) error {
	return r.db.WithContext(ctx).Create(VerificationTokenModelFromEntity(t)).Error
}

// TokenIssued reports whether a token row exists for purpose.
func (r *credentialStore) TokenIssued(ctx context.Context, token string, purpose entity.Purpose) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&VerificationTokenModel{}).
		Where("token = ? AND purpose = ?", token, string(purpose)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// redeem consumes the token with a single conditional UPDATE and, if it won,
// applies effect inside the same transaction. Two concurrent redemptions of
// one token cannot both see RowsAffected == 1.
func (r *credentialStore) redeem(ctx context.Context, userID, token string, purpose entity.Purpose, now time.Time, effect func(tx *gorm.DB) *gorm.DB) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&VerificationTokenModel{}).
			Where("user_id = ? AND token = ? AND purpose = ? AND used = ? AND expires_at > ?",
				userID, token, string(purpose), false, now.UTC()).
			Update("used", true)
		if result.Error != nil {
			return fmt.Errorf("failed to consume token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return usecase.ErrTokenNotRedeemable
		}

		result = effect(tx.Model(&UserModel{}).Where("id = ?", userID))
		if result.Error != nil {
			return fmt.Errorf("failed to update user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
}

// ActivateWithToken consumes an email verification token and activates the user.
func (r *credentialStore) ActivateWithToken(ctx context.Context, userID, token string, now time.Time) error {
	return r.redeem(ctx, userID, token, entity.PurposeEmailVerification, now, func(q *gorm.DB) *gorm.DB {
		return q.Updates(map[string]any{"is_active": true, "updated_at": now})
	})
}

// ResetPasswordWithToken consumes a password reset token and stores the new hash.
func (r *credentialStore) ResetPasswordWithToken(ctx context.Context, userID, token, passwordHash string, now time.Time) error {
	return r.redeem(ctx, userID, token, entity.PurposePasswordReset, now, func(q *gorm.DB) *gorm.DB {
		return q.Updates(map[string]any{"password_hash": passwordHash, "updated_at": now})
	})
}

// DeleteExpiredTokens removes expired or used tokens.
func (r *credentialStore) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ? OR used = ?", now.UTC(), true).
		Delete(&VerificationTokenModel{})
	return result.RowsAffected, result.Error
}
