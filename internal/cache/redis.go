package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when no commentary is cached for a date.
var ErrMiss = errors.New("commentary not cached")

// CommentaryCache stores generated AI commentary keyed by date, so rebuilds
// never re-pay for a date that was already generated.
type CommentaryCache interface {
	Get(ctx context.Context, date string) (string, error)
	Set(ctx context.Context, date string, text string, ttl time.Duration) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the redis instance at the given URL and verifies
// the connection before returning.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: "commentary:",
	}, nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, date string) (string, error) {
	text, err := r.client.Get(ctx, r.prefix+date).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return text, nil
}

func (r *RedisCache) Set(ctx context.Context, date string, text string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+date, text, ttl).Err()
}
