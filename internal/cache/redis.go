package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/lunchmatch/internal/config"
)

// CounterTTL is how long cached counters live without access.
const CounterTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForUnreadCount generates Redis key for a user's unread notification count.
func (c *RedisCache) KeyForUnreadCount(userID uint64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// SetUnreadCount stores the count and refreshes its TTL.
func (c *RedisCache) SetUnreadCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(userID), count, CounterTTL).Err()
}

// GetUnreadCount returns the cached count. ok is false on a cache miss.
func (c *RedisCache) GetUnreadCount(ctx context.Context, userID uint64) (count int64, ok bool, err error) {
	key := c.KeyForUnreadCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// corrupt entry, treat as a miss
		_ = c.Client.Del(ctx, key).Err()
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, CounterTTL).Err()
	return n, true, nil
}

// InvalidateUnreadCount drops cached counts so the next read hits the DB.
func (c *RedisCache) InvalidateUnreadCount(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForUnreadCount(id))
	}
	return c.Client.Del(ctx, keys...).Err()
}
