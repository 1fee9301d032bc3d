// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は/auth/registerエンドポイントのリクエストボディを表します。
// Email syntax and password length are checked by the usecase so that its
// messages reach the client unchanged.
type RegisterReq struct {
	Username      string   `json:"username" binding:"required"`
	Email         string   `json:"email" binding:"required"`
	Password      string   `json:"password" binding:"required"`
	PreferredFoot string   `json:"preferredFoot" binding:"omitempty,oneof=left right both unspecified"`
	ShoeSize      *float64 `json:"shoeSize" binding:"omitempty,gt=0,lte=60"`
	Location      *string  `json:"location" binding:"omitempty,max=100"`
}

// LoginReq は/auth/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// EmailReq is the body of /auth/forgot-password and /auth/resend-verification.
type EmailReq struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordReq は/auth/reset-passwordエンドポイントのリクエストボディを表します。
type ResetPasswordReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ProfileReq is the body of POST /auth/profile. Omitted fields are cleared.
type ProfileReq struct {
	PreferredFoot string   `json:"preferredFoot" binding:"omitempty,oneof=left right both unspecified"`
	ShoeSize      *float64 `json:"shoeSize" binding:"omitempty,gt=0,lte=60"`
	Location      *string  `json:"location" binding:"omitempty,max=100"`
}
