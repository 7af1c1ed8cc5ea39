package cache

import (
	"context"
	"time"
)

// TokenCache stores short-lived platform access tokens keyed by channel.
// Implementations must treat an expired or missing token identically: a miss.
type TokenCache interface {
	// Get returns the cached token, or ("", false, nil) on a miss.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a token with the given time to live.
	Set(ctx context.Context, key string, token string, ttl time.Duration) error
	// Delete drops a token, used when the platform rejects it before expiry.
	Delete(ctx context.Context, key string) error
}
