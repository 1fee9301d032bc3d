// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"skateswap/internal/feature/auth/usecase"
	"skateswap/internal/platform/db"
	"skateswap/internal/platform/mail"
	"skateswap/internal/platform/redis"
)

const (
	minBcryptCost = 10
	maxBcryptCost = 31
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	FrontendURL        string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	ProfileCacheTTL    time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"5m"`
	TokenSweepInterval time.Duration `env:"TOKEN_SWEEP_INTERVAL" envDefault:"0s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Auth  AuthConfig
	DB    db.Config
	Redis redis.Config
	Mail  mail.Config
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTSecret            string        `env:"JWT_SECRET,required,notEmpty"`
	BcryptCost           int           `env:"BCRYPT_COST" envDefault:"10"`
	VerificationPolicy   string        `env:"VERIFICATION_POLICY" envDefault:"strict"`
	EmailVerificationTTL time.Duration `env:"EMAIL_VERIFICATION_TTL" envDefault:"24h"`
	PasswordResetTTL     time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"168h"`
}

// Load は.envファイル（存在する場合）と環境変数から設定を読み込み、検証します。
func Load() (*Config, error) {
	// .envが無くてもエラーにしない
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.BcryptCost < minBcryptCost || c.Auth.BcryptCost > maxBcryptCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", minBcryptCost, maxBcryptCost, c.Auth.BcryptCost))
	}
	if _, err := usecase.ParseVerificationPolicy(c.Auth.VerificationPolicy); err != nil {
		errs = append(errs, fmt.Errorf("VERIFICATION_POLICY: %w", err))
	}
	for name, d := range map[string]time.Duration{
		"EMAIL_VERIFICATION_TTL": c.Auth.EmailVerificationTTL,
		"PASSWORD_RESET_TTL":     c.Auth.PasswordResetTTL,
		"SESSION_TTL":            c.Auth.SessionTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.TokenSweepInterval < 0 {
		errs = append(errs, errors.New("TOKEN_SWEEP_INTERVAL must not be negative"))
	}
	switch c.Mail.Provider {
	case "log":
	case "postmark":
		if c.Mail.PostmarkServerToken == "" {
			errs = append(errs, errors.New("POSTMARK_SERVER_TOKEN is required when MAIL_PROVIDER=postmark"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER must be postmark or log, got %q", c.Mail.Provider))
	}
	switch c.DB.Driver {
	case db.DriverMySQL, db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be mysql, postgres or sqlite, got %q", c.DB.Driver))
	}
	return errors.Join(errs...)
}

// UsecaseOptions converts the auth settings for usecase.NewAuthUsecase.
func (c *Config) UsecaseOptions() usecase.Options {
	// Validate already rejected unknown policies.
	policy, _ := usecase.ParseVerificationPolicy(c.Auth.VerificationPolicy)
	return usecase.Options{
		Policy:          policy,
		BcryptCost:      c.Auth.BcryptCost,
		VerificationTTL: c.Auth.EmailVerificationTTL,
		ResetTTL:        c.Auth.PasswordResetTTL,
		SessionTTL:      c.Auth.SessionTTL,
	}
}

// NewLogger builds the slog logger selected by LOG_FORMAT and LOG_LEVEL.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
