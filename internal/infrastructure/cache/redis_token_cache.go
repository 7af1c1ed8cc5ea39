package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenCache implements TokenCache using Redis
// This is suitable for distributed deployments where multiple instances
// share the same platform token quota
type RedisTokenCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisTokenCache creates a new Redis-based token cache
func NewRedisTokenCache(cfg RedisConfig) (*RedisTokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTokenCache{
		client:    client,
		keyPrefix: "channel:token:",
	}, nil
}

// NewRedisTokenCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisTokenCacheWithClient(client *redis.Client, keyPrefix string) *RedisTokenCache {
	if keyPrefix == "" {
		keyPrefix = "channel:token:"
	}
	return &RedisTokenCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached token, or a miss when absent or expired
func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool, error) {
	token, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read token from redis: %w", err)
	}
	return token, true, nil
}

// Set stores a token with the given TTL
func (c *RedisTokenCache) Set(ctx context.Context, key string, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token in redis: %w", err)
	}
	return nil
}

// Delete drops a token
func (c *RedisTokenCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete token from redis: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisTokenCache) Close() error {
	return c.client.Close()
}
