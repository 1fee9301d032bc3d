// Package router はHTTPルーティングを構築します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "skateswap/internal/feature/auth/transport/handler"
	platformhandler "skateswap/internal/platform/http/handler"
	jwtmw "skateswap/internal/platform/jwt"
)

// Deps はルーターが必要とするハンドラーと依存関係です。
type Deps struct {
	Auth           *authhandler.AuthHandler
	Profile        *authhandler.ProfileHandler
	Verifier       jwtmw.Verifier
	DB             platformhandler.Pinger
	AllowedOrigins []string
}

// NewRouter はginエンジンを生成し、全ルートを登録します。
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(d.AllowedOrigins)))
	}

	// 認証不要
	// 導通確認用
	health := platformhandler.Health(d.DB)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.GET("/verify-email/:token", d.Auth.VerifyEmail)
		auth.POST("/resend-verification", d.Auth.ResendVerification)
		// ログイン（セッショントークン発行）
		auth.POST("/login", d.Auth.Login)
		auth.POST("/forgot-password", d.Auth.ForgotPassword)
		auth.POST("/reset-password", d.Auth.ResetPassword)
	}

	// 認証必須のルート
	// → Authorization: Bearer <session token> が必要
	me := auth.Group("/profile", jwtmw.AuthRequired(d.Verifier))
	{
		me.GET("", d.Profile.GetProfile)
		me.POST("", d.Profile.UpdateProfile)
	}

	r.GET("/users/profile/:username", d.Profile.GetPublicProfile)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
