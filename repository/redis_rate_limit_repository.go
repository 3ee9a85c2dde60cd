package repository

import (
	"context"
	"fmt"
	"time"

	"booknest-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitRepository implements rate limiting using a Redis
// fixed-window counter with key TTL as the window boundary.
type RedisRateLimitRepository struct {
	client *redis.Client
	ctx    context.Context
	logger *logger.Logger
}

// NewRedisRateLimitRepository creates a new Redis rate limit repository
func NewRedisRateLimitRepository(client *redis.Client, logger *logger.Logger) RateLimitRepository {
	return &RedisRateLimitRepository{
		client: client,
		ctx:    context.Background(),
		logger: logger,
	}
}

func rateLimitKey(phoneNumber string) string {
	return fmt.Sprintf("otp_rate_limit:%s", phoneNumber)
}

// Increment records a send attempt and returns the count in the current window
func (r *RedisRateLimitRepository) Increment(phoneNumber string, window time.Duration) (int, error) {
	key := rateLimitKey(phoneNumber)

	pipe := r.client.TxPipeline()
	incrCmd := pipe.Incr(r.ctx, key)
	// NX keeps the window anchored to the first request
	pipe.ExpireNX(r.ctx, key, window)
	if _, err := pipe.Exec(r.ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := int(incrCmd.Val())
	r.logger.Debugw("Rate limit counter incremented",
		"phone_number", phoneNumber,
		"count", count,
		"window", window,
	)

	return count, nil
}

// Count returns the attempt count in the current window
func (r *RedisRateLimitRepository) Count(phoneNumber string) (int, error) {
	key := rateLimitKey(phoneNumber)

	count, err := r.client.Get(r.ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get rate limit counter: %w", err)
	}

	return count, nil
}
