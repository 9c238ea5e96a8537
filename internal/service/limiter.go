package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisVerifyLimiter counts verification misses per operator in redis. The
// counter expires with the window, so a blocked operator is unblocked again
// without any cleanup job.
type RedisVerifyLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisVerifyLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisVerifyLimiter {
	return &RedisVerifyLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func missKey(login string) string {
	return fmt.Sprintf("verify:miss:%s", login)
}

func (l *RedisVerifyLimiter) TooManyMisses(ctx context.Context, login string) (bool, error) {
	count, err := l.client.Get(ctx, missKey(login)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= l.maxAttempts, nil
}

func (l *RedisVerifyLimiter) RecordMiss(ctx context.Context, login string) error {
	key := missKey(login)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

func (l *RedisVerifyLimiter) Reset(ctx context.Context, login string) error {
	return l.client.Del(ctx, missKey(login)).Err()
}
