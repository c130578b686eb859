package sessioncache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	userID    string
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	byToken map[string]entry
	now     func() time.Time
}

func NewMemory() Cache {
	return &memoryCache{
		byToken: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *memoryCache) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return ErrNotFound
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byToken[token] = entry{
		userID:    userID,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, token string) (string, error) {
	c.mu.RLock()
	e, ok := c.byToken[token]
	c.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	if c.now().After(e.expiresAt) {
		// expiración lazy: se limpia al leer
		c.mu.Lock()
		delete(c.byToken, token)
		c.mu.Unlock()
		return "", ErrNotFound
	}
	return e.userID, nil
}

func (c *memoryCache) Delete(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byToken, token)
	return nil
}
