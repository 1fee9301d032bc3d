package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skateswap/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// maxShoeSize bounds the shoe size column (DECIMAL(3,1)).
	maxShoeSize = 60.0

	// fallbackDummyHash is only used if hashing the dummy password fails at startup.
	fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TokenService issues and verifies signed, purpose-tagged tokens.
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenService interface {
	// Issue signs a token for subject with the given purpose and lifetime.
	Issue(subject entity.TokenSubject, purpose entity.Purpose, ttl time.Duration) (string, error)
	// Verify decodes token. It reports false for any failure without saying why.
	Verify(token string) (*entity.TokenClaims, bool)
}

// Notifier delivers account emails. Implementations may fail; callers log and continue.
type Notifier interface {
	SendVerification(ctx context.Context, to, username, token string) error
	SendPasswordReset(ctx context.Context, to, username, token string) error
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	PreferredFoot entity.Foot
	ShoeSize      *float64
	Location      *string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  *entity.UserProfile
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	store    CredentialStore
	tokens   TokenService
	notifier Notifier
	opts     Options

	// dummyHash is compared against when the account does not exist. It uses
	// the configured cost so both login paths take the same time.
	dummyHash string
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
// Zero fields in opts are replaced by DefaultOptions.
func NewAuthUsecase(store CredentialStore, tokens TokenService, notifier Notifier, opts Options) *AuthUsecase {
	opts = opts.withDefaults()
	return &AuthUsecase{
		store:     store,
		tokens:    tokens,
		notifier:  notifier,
		opts:      opts,
		dummyHash: newDummyHash(opts.BcryptCost),
	}
}

func newDummyHash(cost int) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		slog.Warn("failed to generate dummy password hash", "error", err, "cost", cost)
		return fallbackDummyHash
	}
	return string(hashed)
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func validateProfileFields(foot entity.Foot, shoeSize *float64) error {
	if !foot.Valid() {
		return ErrInvalidFoot
	}
	if shoeSize != nil && (*shoeSize <= 0 || *shoeSize > maxShoeSize) {
		return ErrInvalidShoeSize
	}
	return nil
}

// Register creates an account. Under the strict policy the account stays
// inactive and a verification email is sent; delivery failures do not undo
// the registration.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*entity.UserProfile, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateProfileFields(in.PreferredFoot, in.ShoeSize); err != nil {
		return nil, err
	}

	// Early checks give specific messages; the unique constraints still decide races.
	taken, err := u.store.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = u.store.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := u.opts.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		IsActive:     !u.opts.Policy.RequiresVerification(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &entity.Profile{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		PreferredFoot: in.PreferredFoot.Normalize(),
		ShoeSize:      in.ShoeSize,
		Location:      in.Location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// The first verification token is written with the user so a failed
	// insert never leaves an inactive account without a way to activate it.
	var verification *entity.VerificationToken
	if u.opts.Policy.RequiresVerification() {
		verification, err = u.newToken(user.ID, entity.PurposeEmailVerification, u.opts.VerificationTTL)
		if err != nil {
			return nil, err
		}
	}
	if err := u.store.CreateUser(ctx, user, profile, verification); err != nil {
		return nil, err
	}

	if verification != nil {
		u.notifyVerification(ctx, user, verification.Token)
	}

	return entity.NewUserProfile(user, profile), nil
}

// sendVerification issues and stores a verification token, then hands it to the notifier.
// Only issuing and storing can fail the caller.
func (u *AuthUsecase) sendVerification(ctx context.Context, user *entity.User) error {
	tok, err := u.issueStoredToken(ctx, user.ID, entity.PurposeEmailVerification, u.opts.VerificationTTL)
	if err != nil {
		return err
	}
	u.notifyVerification(ctx, user, tok)
	return nil
}

func (u *AuthUsecase) notifyVerification(ctx context.Context, user *entity.User, tok string) {
	if err := u.notifier.SendVerification(ctx, user.Email, user.Username, tok); err != nil {
		slog.Warn("failed to send verification email", "error", err, "user_id", user.ID)
	}
}

// newToken signs a token and builds its unsaved row.
func (u *AuthUsecase) newToken(userID string, purpose entity.Purpose, ttl time.Duration) (*entity.VerificationToken, error) {
	tok, err := u.tokens.Issue(entity.TokenSubject{ID: userID}, purpose, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue %s token: %w", purpose, err)
	}
	now := u.opts.Now()
	return &entity.VerificationToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     tok,
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

func (u *AuthUsecase) issueStoredToken(ctx context.Context, userID string, purpose entity.Purpose, ttl time.Duration) (string, error) {
	record, err := u.newToken(userID, purpose, ttl)
	if err != nil {
		return "", err
	}
	if err := u.store.SaveToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to save %s token: %w", purpose, err)
	}
	return record.Token, nil
}

// issuedByUs tells a stored token that failed verification (it expired) apart
// from a forged or malformed one.
func (u *AuthUsecase) issuedByUs(ctx context.Context, token string, purpose entity.Purpose) bool {
	issued, err := u.store.TokenIssued(ctx, token, purpose)
	if err != nil {
		slog.Warn("failed to look up token", "error", err, "purpose", purpose)
		return false
	}
	return issued
}

// VerifyEmail redeems an email verification token and activates its user.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) error {
	claims, ok := u.tokens.Verify(token)
	if !ok || claims.Purpose != entity.PurposeEmailVerification {
		if !ok && u.issuedByUs(ctx, token, entity.PurposeEmailVerification) {
			return ErrVerificationLinkExpired
		}
		return ErrInvalidVerificationLink
	}
	if err := u.store.ActivateWithToken(ctx, claims.SubjectID, token, u.opts.Now()); err != nil {
		if errors.Is(err, ErrTokenNotRedeemable) {
			return ErrVerificationLinkExpired
		}
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

// ResendVerification sends a fresh verification email to an inactive account.
// It answers the same way whether or not the account exists.
func (u *AuthUsecase) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !u.opts.Policy.RequiresVerification() {
		return nil
	}
	user, err := u.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsActive {
		return nil
	}
	return u.sendVerification(ctx, user)
}

// Login はユーザーを認証し、成功時にセッショントークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// The unverified-account error is only reported after the password matched,
// so it cannot be used to probe which emails are registered.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := u.store.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := u.dummyHash
	if user != nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if user == nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	if u.opts.Policy.RequiresVerification() && !user.IsActive {
		return nil, ErrEmailNotVerified
	}

	token, err := u.tokens.Issue(entity.TokenSubject{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, entity.PurposeSession, u.opts.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := u.opts.Now()
	if err := u.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	view, err := u.store.FindUserProfile(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	view.LastLoginAt = &now

	return &LoginResult{Token: token, User: view}, nil
}

// RequestPasswordReset emails a reset link when the account exists.
// The result is identical for known and unknown emails.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := u.store.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return fmt.Errorf("failed to find user: %w", err)
		}
		// Sign a throwaway token so both paths do comparable work.
		_, _ = u.tokens.Issue(entity.TokenSubject{ID: uuid.NewString()}, entity.PurposePasswordReset, u.opts.ResetTTL)
		return nil
	}

	tok, err := u.issueStoredToken(ctx, user.ID, entity.PurposePasswordReset, u.opts.ResetTTL)
	if err != nil {
		return err
	}
	if err := u.notifier.SendPasswordReset(ctx, user.Email, user.Username, tok); err != nil {
		slog.Warn("failed to send password reset email", "error", err, "user_id", user.ID)
	}
	return nil
}

// ResetPassword redeems a reset token and replaces the password hash.
func (u *AuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrMissingResetFields
	}
	claims, ok := u.tokens.Verify(token)
	if !ok || claims.Purpose != entity.PurposePasswordReset {
		if !ok && u.issuedByUs(ctx, token, entity.PurposePasswordReset) {
			return ErrResetLinkExpired
		}
		return ErrInvalidResetLink
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := u.store.ResetPasswordWithToken(ctx, claims.SubjectID, token, string(hashed), u.opts.Now()); err != nil {
		if errors.Is(err, ErrTokenNotRedeemable) {
			return ErrResetLinkExpired
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
