// Package cache provides a small in-memory TTL cache used in front of the
// store and for resolved search-hit metadata.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the cache configuration.
type Config struct {
	DefaultTTL      time.Duration // TTL applied by Set
	CleanupInterval time.Duration // how often expired entries are swept
	MaxItems        int           // soft cap; oldest entries are evicted past it
	OnEviction      func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
	createdAt time.Time
}

// Cache is a concurrency-safe TTL cache backed by a sync.Map with a
// background janitor goroutine.
type Cache struct {
	config Config
	data   sync.Map
	size   atomic.Int64

	done     chan struct{}
	closeOne sync.Once
}

// New creates a new Cache and starts its janitor.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}

	c := &Cache{
		config: config,
		done:   make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get retrieves a value. Expired entries count as misses.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	value, ok := c.data.Load(key)
	if !ok {
		return nil, false
	}
	it := value.(*item)
	if time.Now().After(it.expiresAt) {
		c.remove(key, it)
		return nil, false
	}
	return it.value, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	now := time.Now()
	it := &item{value: value, expiresAt: now.Add(ttl), createdAt: now}
	if _, loaded := c.data.Swap(key, it); !loaded {
		c.size.Add(1)
	}
	if c.config.MaxItems > 0 && c.size.Load() > int64(c.config.MaxItems) {
		c.evictOldest()
	}
}

// Delete removes a value.
func (c *Cache) Delete(_ context.Context, key string) {
	if value, loaded := c.data.LoadAndDelete(key); loaded {
		c.size.Add(-1)
		c.notifyEviction(key, value.(*item))
	}
}

// Clear removes all values.
func (c *Cache) Clear(_ context.Context) {
	c.data.Range(func(key, value any) bool {
		if _, loaded := c.data.LoadAndDelete(key); loaded {
			c.size.Add(-1)
			c.notifyEviction(key.(string), value.(*item))
		}
		return true
	})
}

// Size returns the current number of entries, including not-yet-swept
// expired ones.
func (c *Cache) Size() int64 {
	return c.size.Load()
}

// Close stops the janitor goroutine.
func (c *Cache) Close() error {
	c.closeOne.Do(func() { close(c.done) })
	return nil
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.data.Range(func(key, value any) bool {
				it := value.(*item)
				if now.After(it.expiresAt) {
					c.remove(key.(string), it)
				}
				return true
			})
		}
	}
}

func (c *Cache) remove(key string, it *item) {
	if _, loaded := c.data.LoadAndDelete(key); loaded {
		c.size.Add(-1)
		c.notifyEviction(key, it)
	}
}

// evictOldest drops the entry with the earliest creation time. Linear scan;
// acceptable at the item counts this cache is configured for.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest *item
	c.data.Range(func(key, value any) bool {
		it := value.(*item)
		if oldest == nil || it.createdAt.Before(oldest.createdAt) {
			oldestKey, oldest = key.(string), it
		}
		return true
	})
	if oldest != nil {
		c.remove(oldestKey, oldest)
	}
}

func (c *Cache) notifyEviction(key string, it *item) {
	if c.config.OnEviction != nil {
		c.config.OnEviction(key, it.value)
	}
}
