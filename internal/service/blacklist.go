package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked refresh tokens. Refresh verification consults
// it before accepting a token, so a revoked token is dead even while its
// signature and expiry are still valid.
type TokenBlacklist interface {
	// IsRevoked reports whether the raw token value has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)

	// Revoke marks the raw token value as revoked for ttl, after which the
	// token has expired on its own and the entry can be dropped.
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

const blacklistKeyPrefix = "blacklist:refresh:"

// RedisBlacklist stores revocations in Redis, keyed by a digest of the raw
// token so the token value itself never lands in the store.
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist: exists: %w", err)
	}
	return n > 0, nil
}

func (b *RedisBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist: set: %w", err)
	}
	return nil
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + base64.RawURLEncoding.EncodeToString(sum[:])
}

// NoopBlacklist never revokes anything. Used where no shared store is wired.
type NoopBlacklist struct{}

func (NoopBlacklist) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func (NoopBlacklist) Revoke(context.Context, string, time.Duration) error { return nil }
