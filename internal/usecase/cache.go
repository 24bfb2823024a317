package usecase

import (
	"context"
	"sync"
	"time"

	"MediaMonitor/internal/domain"
)

// MentionCache keeps one loaded snapshot of the store with an expiry
// deadline. It replaces ambient per-process caching with an explicit
// object: consumers call Get, writers call Invalidate after mutating the
// store.
type MentionCache struct {
	mu      sync.Mutex
	load    func(ctx context.Context) ([]domain.Mention, error)
	ttl     time.Duration
	now     func() time.Time
	value   []domain.Mention
	loaded  bool
	expires time.Time
}

// NewMentionCache wraps a loader with a TTL.
func NewMentionCache(load func(ctx context.Context) ([]domain.Mention, error), ttl time.Duration) *MentionCache {
	return &MentionCache{
		load: load,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the cached snapshot, reloading when the deadline has passed.
// A failed reload leaves the cache empty rather than serving stale data.
func (c *MentionCache) Get(ctx context.Context) ([]domain.Mention, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Before(c.expires) {
		return c.value, nil
	}

	value, err := c.load(ctx)
	if err != nil {
		c.value = nil
		c.loaded = false
		return nil, err
	}

	c.value = value
	c.loaded = true
	c.expires = c.now().Add(c.ttl)
	return value, nil
}

// Invalidate drops the snapshot so the next Get reloads.
func (c *MentionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	c.loaded = false
	c.expires = time.Time{}
}
