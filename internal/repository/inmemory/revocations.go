package inmemory

import (
	"context"
	"sync"
	"time"
)

// RevokedTokens is the single-process revocation store used when Redis is
// disabled. Expired entries are dropped on read and on every write.
type RevokedTokens struct {
	mu    sync.RWMutex
	items map[string]time.Time
	now   func() time.Time
}

func NewRevokedTokens() *RevokedTokens {
	return &RevokedTokens{
		items: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (c *RevokedTokens) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	now := c.now()
	c.mu.Lock()
	for id, expiresAt := range c.items {
		if !expiresAt.After(now) {
			delete(c.items, id)
		}
	}
	c.items[tokenID] = now.Add(ttl)
	c.mu.Unlock()
	return nil
}

func (c *RevokedTokens) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	now := c.now()

	c.mu.RLock()
	expiresAt, ok := c.items[tokenID]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if !expiresAt.After(now) {
		c.mu.Lock()
		expiresAt, ok = c.items[tokenID]
		if ok && !expiresAt.After(now) {
			delete(c.items, tokenID)
		}
		c.mu.Unlock()
		return false, nil
	}

	return true, nil
}

func (c *RevokedTokens) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
