package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/crush-reveal/internal/config"
)

const (
	participantCountKey = "submissions:count"
	participantCountTTL = 5 * time.Minute
)

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

// GetParticipantCount returns the cached number of submitters.
// ok is false on a cache miss. Reads do not extend the TTL, so a stale
// count expires even while clients keep polling.
func (c *RedisCache) GetParticipantCount(ctx context.Context) (count int64, ok bool, err error) {
	val, err := c.Client.Get(ctx, participantCountKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}

	count, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	return count, true, nil
}

// SetParticipantCount stores the count for participantCountTTL.
func (c *RedisCache) SetParticipantCount(ctx context.Context, count int64) error {
	return c.Client.Set(ctx, participantCountKey, count, participantCountTTL).Err()
}

// InvalidateParticipantCount drops the cached count so the next read
// goes to the database.
func (c *RedisCache) InvalidateParticipantCount(ctx context.Context) error {
	return c.Client.Del(ctx, participantCountKey).Err()
}

// KeyForFeedbackCooldown generates Redis key for a user's feedback cooldown
func (c *RedisCache) KeyForFeedbackCooldown(userID uint64) string {
	return fmt.Sprintf("feedback:cooldown:%d", userID)
}

// AcquireFeedbackSlot claims the user's cooldown slot for ttl.
// It returns false while a previous claim is still live.
func (c *RedisCache) AcquireFeedbackSlot(ctx context.Context, userID uint64, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}
	return c.Client.SetNX(ctx, c.KeyForFeedbackCooldown(userID), 1, ttl).Result()
}

// ReleaseFeedbackSlot frees the slot early, e.g. when storing the feedback failed.
func (c *RedisCache) ReleaseFeedbackSlot(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForFeedbackCooldown(userID)).Err()
}

// FeedbackCooldownRemaining reports how long until the user may send again.
func (c *RedisCache) FeedbackCooldownRemaining(ctx context.Context, userID uint64) (time.Duration, error) {
	ttl, err := c.Client.TTL(ctx, c.KeyForFeedbackCooldown(userID)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
