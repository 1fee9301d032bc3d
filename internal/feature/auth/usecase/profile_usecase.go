package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"skateswap/internal/feature/auth/domain/entity"
)

// ProfileInput carries the editable profile fields. Absent fields are cleared.
type ProfileInput struct {
	PreferredFoot entity.Foot
	ShoeSize      *float64
	Location      *string
}

// PublicProfile is what other users may see. It omits the email address.
type PublicProfile struct {
	ID            string
	Username      string
	CreatedAt     time.Time
	PreferredFoot entity.Foot
	ShoeSize      *float64
	Location      *string
}

// ProfileUsecase reads and edits user profiles.
type ProfileUsecase struct {
	store CredentialStore
	now   func() time.Time
}

// NewProfileUsecase creates a new ProfileUsecase with the given store.
func NewProfileUsecase(store CredentialStore) *ProfileUsecase {
	return &ProfileUsecase{store: store, now: time.Now}
}

// GetProfile returns the caller's own profile view.
func (u *ProfileUsecase) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	view, err := u.store.FindUserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return view, nil
}

// GetPublicProfile looks a user up by username and returns the public projection.
func (u *ProfileUsecase) GetPublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUserNotFound
	}
	user, err := u.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	view, err := u.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		ID:            view.ID,
		Username:      view.Username,
		CreatedAt:     view.CreatedAt,
		PreferredFoot: view.PreferredFoot,
		ShoeSize:      view.ShoeSize,
		Location:      view.Location,
	}, nil
}

// UpdateProfile replaces the profile fields, creating the row if the user has none.
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*entity.UserProfile, error) {
	if err := validateProfileFields(in.PreferredFoot, in.ShoeSize); err != nil {
		return nil, err
	}
	if _, err := u.store.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	location := in.Location
	if location != nil && strings.TrimSpace(*location) == "" {
		location = nil
	}

	now := u.now()
	profile := &entity.Profile{
		ID:            uuid.NewString(),
		UserID:        userID,
		PreferredFoot: in.PreferredFoot.Normalize(),
		ShoeSize:      in.ShoeSize,
		Location:      location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.store.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return u.GetProfile(ctx, userID)
}
