package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

const lookupKeyPrefix = "inventory:lookup:"

// RedisLookupCache caches item lookups for a short TTL. Redis failures
// degrade to cache misses.
type RedisLookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLookupCache creates a new lookup cache
func NewRedisLookupCache(client *redis.Client, ttl time.Duration) *RedisLookupCache {
	return &RedisLookupCache{client: client, ttl: ttl}
}

func lookupKey(query string, limit int) string {
	return fmt.Sprintf("%s%d:%s", lookupKeyPrefix, limit, strings.ToLower(strings.TrimSpace(query)))
}

func (c *RedisLookupCache) Get(ctx context.Context, query string, limit int) ([]domain.ItemLookup, bool) {
	data, err := c.client.Get(ctx, lookupKey(query, limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Msg("lookup cache read failed")
		}
		return nil, false
	}

	var rows []domain.ItemLookup
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *RedisLookupCache) Set(ctx context.Context, query string, limit int, rows []domain.ItemLookup) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, lookupKey(query, limit), data, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("lookup cache write failed")
	}
}

// Invalidate deletes every lookup entry
func (c *RedisLookupCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, lookupKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("lookup cache scan failed")
		return
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			logger.Warn(ctx).Err(err).Msg("lookup cache invalidation failed")
			return
		}
		logger.Debug(ctx).Int("count", len(keys)).Msg("Lookup cache invalidated")
	}
}

// RedisItemLocker serialises per-item work across API instances
type RedisItemLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

// NewRedisItemLocker creates a new item locker
func NewRedisItemLocker(client *redis.Client) *RedisItemLocker {
	return &RedisItemLocker{locker: redislock.New(client), ttl: 10 * time.Second}
}

// LockItem waits up to two seconds for the lock
func (l *RedisItemLocker) LockItem(ctx context.Context, scope string, itemID uint) (func(), error) {
	key := fmt.Sprintf("lock:%s:item:%d", scope, itemID)
	lock, err := l.locker.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 40),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, apperror.Conflict("Item %d is being updated, retry shortly", itemID)
	}
	if err != nil {
		return nil, err
	}

	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("failed to release lock")
		}
	}, nil
}
