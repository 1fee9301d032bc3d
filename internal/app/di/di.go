// Package di は設定に応じた実装の選択を提供します。
package di

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "skateswap/internal/feature/auth/adapters"
	"skateswap/internal/feature/auth/usecase"
	"skateswap/internal/platform/cache"
	platformhttp "skateswap/internal/platform/http"
	"skateswap/internal/platform/mail"
)

const mailHTTPTimeout = 10 * time.Second

// NewCredentialStore creates the GORM-backed CredentialStore.
// If Redis is available, profile reads are cached in front of it.
func NewCredentialStore(db *gorm.DB, rdb *redis.Client, profileTTL time.Duration) usecase.CredentialStore {
	store := authadapters.NewCredentialStore(db)
	if rdb == nil {
		return store
	}
	return cache.NewCachingCredentialStore(rdb, profileTTL, store, "profiles")
}

// NewMailSender selects the Sender named by cfg.Provider.
func NewMailSender(cfg mail.Config) (mail.Sender, error) {
	switch cfg.Provider {
	case "postmark":
		return mail.NewPostmarkSender(cfg, platformhttp.NewHTTPClient(mailHTTPTimeout))
	case "", "log":
		return mail.NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
