package cache

import (
	"context"
	"sync"
	"time"
)

// tokenEntry represents a stored token with expiration
type tokenEntry struct {
	token     string
	expiresAt time.Time
}

// InMemoryTokenCache implements TokenCache using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryTokenCache struct {
	mu      sync.RWMutex
	entries map[string]tokenEntry
}

// NewInMemoryTokenCache creates a new in-memory token cache
func NewInMemoryTokenCache() *InMemoryTokenCache {
	return &InMemoryTokenCache{
		entries: make(map[string]tokenEntry),
	}
}

// Get returns the cached token, or a miss when absent or expired
func (c *InMemoryTokenCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.token, true, nil
}

// Set stores a token with the given TTL
func (c *InMemoryTokenCache) Set(_ context.Context, key string, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = tokenEntry{
		token:     token,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete drops a token
func (c *InMemoryTokenCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}
