// Package cache decorates a store.Store with a Redis read-through for the
// access token blacklist, the one lookup made on every authenticated request.
//
// The database stays authoritative. Redis failures are logged and the lookup
// falls back to the wrapped store.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "auth:"

type Store struct {
	store.Store

	rdb    redis.UniversalClient
	log    *slog.Logger
	prefix string
}

// Wrap returns inner with its blacklist cached in rdb. Transactions opened
// through the returned store are not cached.
func Wrap(inner store.Store, rdb redis.UniversalClient, logger *slog.Logger, prefix string) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{
		Store:  inner,
		rdb:    rdb,
		log:    logger.With("component", "blacklist_cache"),
		prefix: prefix,
	}
}

// PingCache checks the Redis connection. The wrapped store's Ping still
// reports on the database.
func (s *Store) PingCache(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Blacklist() store.Blacklist {
	return &blacklist{
		inner:  s.Store.Blacklist(),
		rdb:    s.rdb,
		log:    s.log,
		prefix: s.prefix,
	}
}

type blacklist struct {
	inner  store.Blacklist
	rdb    redis.UniversalClient
	log    *slog.Logger
	prefix string
}

func (b *blacklist) key(jti string) string {
	return b.prefix + "bl:" + jti
}

func (b *blacklist) AddBlacklistEntry(ctx context.Context, e domain.BlacklistEntry) error {
	if err := b.inner.AddBlacklistEntry(ctx, e); err != nil {
		return err
	}

	ttl := e.ExpiresAt.Sub(e.CreatedAt)
	if ttl <= 0 {
		return nil
	}

	// The value is the entry expiry so lookups honour the caller's clock.
	val := strconv.FormatInt(e.ExpiresAt.UnixMilli(), 10)
	if err := b.rdb.Set(ctx, b.key(e.TokenJTI), val, ttl).Err(); err != nil {
		b.log.WarnContext(ctx, "cache write failed", "jti", e.TokenJTI, "error", err)
	}
	return nil
}

func (b *blacklist) IsBlacklisted(ctx context.Context, jti string, now time.Time) (bool, error) {
	val, err := b.rdb.Get(ctx, b.key(jti)).Result()
	switch {
	case err == nil:
		ms, perr := strconv.ParseInt(val, 10, 64)
		if perr == nil {
			return time.UnixMilli(ms).After(now), nil
		}
		b.log.WarnContext(ctx, "cache entry unreadable", "jti", jti, "error", perr)
	case errors.Is(err, redis.Nil):
		// Miss, fall through to the database.
	default:
		b.log.WarnContext(ctx, "cache read failed", "jti", jti, "error", err)
	}

	return b.inner.IsBlacklisted(ctx, jti, now)
}

func (b *blacklist) DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error) {
	// Cached keys carry their own TTL.
	return b.inner.DeleteExpiredBlacklistEntries(ctx, now)
}
