// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"skateswap/internal/feature/auth/domain/entity"
	"skateswap/internal/feature/auth/usecase"
)

const (
	defaultTTL       = 5 * time.Minute
	defaultNamespace = "profiles"
)

// CachingCredentialStore decorates a CredentialStore with a Redis read-through
// cache for profile views. Every other method goes straight to the inner store.
type CachingCredentialStore struct {
	usecase.CredentialStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CredentialStore = (*CachingCredentialStore)(nil)

// NewCachingCredentialStore decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "profiles".
// A nil rdb disables caching.
func NewCachingCredentialStore(rdb *redis.Client, ttl time.Duration, inner usecase.CredentialStore, namespace string) *CachingCredentialStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingCredentialStore{
		CredentialStore: inner,
		rdb:             rdb,
		ttl:             ttl,
		namespace:       namespace,
	}
}

// FindUserProfile checks the cache first, then falls back to the inner store.
func (c *CachingCredentialStore) FindUserProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.CredentialStore.FindUserProfile(ctx, userID)
	}

	key := c.cacheKey(userID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.UserProfile
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.CredentialStore.FindUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// UpsertProfile writes through and drops the cached view.
func (c *CachingCredentialStore) UpsertProfile(ctx context.Context, p *entity.Profile) error {
	if err := c.CredentialStore.UpsertProfile(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.UserID)
	return nil
}

// TouchLastLogin writes through and drops the cached view.
func (c *CachingCredentialStore) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	if err := c.CredentialStore.TouchLastLogin(ctx, userID, at); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// ActivateWithToken writes through and drops the cached view, whose isActive changed.
func (c *CachingCredentialStore) ActivateWithToken(ctx context.Context, userID, token string, now time.Time) error {
	if err := c.CredentialStore.ActivateWithToken(ctx, userID, token, now); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// invalidate is best effort: a failed delete only leaves a stale entry until its TTL.
func (c *CachingCredentialStore) invalidate(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.cacheKey(userID)).Err()
}

// cacheKey generates the cache key for a user's profile view.
func (c *CachingCredentialStore) cacheKey(userID string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(userID))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
