// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"skateswap/internal/feature/auth/domain/entity"
	"skateswap/internal/feature/auth/transport/http/dto"
	"skateswap/internal/feature/auth/usecase"
)

const (
	msgRegistered         = "Registration successful."
	msgRegisteredVerify   = "Registration successful. Please check your email to verify your account."
	msgEmailVerified      = "Email verified successfully. You can now log in."
	msgVerificationResent = "If that account exists and is not yet verified, a new verification link has been sent."
	msgResetRequested     = "If that email exists, a password reset link has been sent."
	msgPasswordReset      = "Password has been reset successfully. You can now log in."
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.UserProfile, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*usecase.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー・重複時は400を返却
// - 成功時は201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "register", err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		PreferredFoot: entity.Foot(req.PreferredFoot),
		ShoeSize:      req.ShoeSize,
		Location:      req.Location,
	})
	if err != nil {
		writeError(c, "register", err, "registration failed")
		return
	}

	msg := msgRegisteredVerify
	if user.IsActive {
		msg = msgRegistered
	}
	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.RegisterRes{
		Success: true,
		Message: msg,
		User:    dto.NewRegisteredUserRes(user),
	})
}

// VerifyEmail redeems the token in the path.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		writeError(c, "verify email", err, "email verification failed")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: msgEmailVerified})
}

// ResendVerification always answers with the same envelope once the body is valid.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "resend verification", err)
		return
	}
	if err := h.auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		if isValidation(err) {
			writeError(c, "resend verification", err, "")
			return
		}
		slog.Error("resend verification failed", "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: msgVerificationResent})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時は400、成功時はセッショントークン付きで200を返却します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "login", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, "login", err, "login failed")
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{
		Success: true,
		Token:   res.Token,
		User:    dto.NewUserRes(res.User),
	})
}

// ForgotPassword answers identically whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "forgot password", err)
		return
	}
	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if isValidation(err) {
			writeError(c, "forgot password", err, "")
			return
		}
		slog.Error("password reset request failed", "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: msgResetRequested})
}

// ResetPassword redeems a reset token and sets the new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "reset password", err)
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		writeError(c, "reset password", err, "password reset failed")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: msgPasswordReset})
}
