// Package cache provides in-memory caching of reproducible simulation results.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/finrisk/internal/metrics"
)

// Key identifies a simulation by kind and a digest of its parameters
type Key struct {
	Kind   string
	Digest string
}

// String returns string representation of cache key
func (k Key) String() string {
	return k.Kind + ":" + k.Digest
}

// KeyFor derives a key from the simulation kind and its parameters. Only
// seeded runs are reproducible, so ok is false when seed is nil.
func KeyFor(kind string, params any, seed *int64) (key Key, ok bool, err error) {
	if seed == nil {
		return Key{}, false, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return Key{}, false, fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return Key{Kind: kind, Digest: hex.EncodeToString(sum[:])}, true, nil
}

// ResultCache holds simulation results of type T by key
type ResultCache[T any] struct {
	cache   *gocache.Cache
	ttl     time.Duration
	maxSize int

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a cache whose entries live for ttl, holding at most maxSize entries
func NewResultCache[T any](ttl time.Duration, maxSize int) *ResultCache[T] {
	return &ResultCache[T]{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached result
func (c *ResultCache[T]) Get(key Key) (T, bool) {
	var zero T
	value, found := c.cache.Get(key.String())
	result, ok := value.(T)
	hit := found && ok

	c.mu.Lock()
	if hit {
		c.hitCount++
	} else {
		c.missCount++
	}
	c.mu.Unlock()
	metrics.RecordCacheLookup(hit)

	if !hit {
		return zero, false
	}
	return result, true
}

// Set stores a result. When the cache is full after dropping expired
// entries the result is not stored.
func (c *ResultCache[T]) Set(key Key, result T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxSize {
			return false
		}
	}
	c.cache.Set(key.String(), result, c.ttl)
	return true
}

// Clear flushes the entire cache
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.hitCount = 0
	c.missCount = 0
}

// Stats returns cache statistics
func (c *ResultCache[T]) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits = c.hitCount
	misses = c.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (c *ResultCache[T]) ItemCount() int {
	return c.cache.ItemCount()
}
