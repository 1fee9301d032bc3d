package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"skateswap/internal/feature/auth/domain/entity"
	"skateswap/internal/feature/auth/transport/http/dto"
	"skateswap/internal/feature/auth/usecase"
	jwtmw "skateswap/internal/platform/jwt"
)

// ProfileUsecase はプロフィール操作のユースケースを定義します。
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error)
	GetPublicProfile(ctx context.Context, username string) (*usecase.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID string, in usecase.ProfileInput) (*entity.UserProfile, error)
}

// ProfileHandler serves the profile endpoints.
// GetProfile and UpdateProfile must run behind jwtmw.AuthRequired.
type ProfileHandler struct {
	profiles ProfileUsecase
}

// NewProfileHandler はProfileHandlerの新しいインスタンスを生成します。
func NewProfileHandler(profiles ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "not authorized, no token"})
		return
	}
	view, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "get profile", err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, dto.ProfileRes{Success: true, User: dto.NewUserRes(view)})
}

// UpdateProfile replaces the authenticated user's profile fields.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "not authorized, no token"})
		return
	}
	var req dto.ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "update profile", err)
		return
	}
	view, err := h.profiles.UpdateProfile(c.Request.Context(), userID, usecase.ProfileInput{
		PreferredFoot: entity.Foot(req.PreferredFoot),
		ShoeSize:      req.ShoeSize,
		Location:      req.Location,
	})
	if err != nil {
		writeError(c, "update profile", err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.ProfileRes{
		Success: true,
		Message: "Profile updated successfully.",
		User:    dto.NewUserRes(view),
	})
}

// GetPublicProfile returns the public projection of the user named in the path.
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.profiles.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, "get public profile", err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, dto.PublicProfileRes{Success: true, User: dto.NewPublicUserRes(profile)})
}
