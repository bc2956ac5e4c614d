package landing

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const defaultFeedCacheSize = 256

// FeedCache memoizes remote widget content for a bounded time. Entries are
// evicted by the ARC policy once the cache is full.
type FeedCache[T any] struct {
	ttl   time.Duration
	arc   *lru.ARCCache
	clock func() time.Time
}

type feedEntry[T any] struct {
	value   T
	expires time.Time
}

// NewFeedCache builds a cache holding at most size entries for ttl each.
// A non-positive ttl disables caching.
func NewFeedCache[T any](size int, ttl time.Duration) (*FeedCache[T], error) {
	if size <= 0 {
		size = defaultFeedCacheSize
	}
	arc, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("landing: feed cache: %w", err)
	}
	return &FeedCache[T]{ttl: ttl, arc: arc, clock: time.Now}, nil
}

// GetOrLoad returns the cached value for key or calls load and stores the
// result. Load errors are not cached.
func (c *FeedCache[T]) GetOrLoad(key string, load func() (T, error)) (T, error) {
	if value, ok := c.get(key); ok {
		return value, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	c.set(key, value)
	return value, nil
}

// Len reports the number of entries, expired ones included.
func (c *FeedCache[T]) Len() int {
	if c == nil {
		return 0
	}
	return c.arc.Len()
}

// Purge drops every entry.
func (c *FeedCache[T]) Purge() {
	if c != nil {
		c.arc.Purge()
	}
}

func (c *FeedCache[T]) get(key string) (T, bool) {
	var zero T
	if c == nil || c.ttl <= 0 {
		return zero, false
	}
	raw, ok := c.arc.Get(key)
	if !ok {
		return zero, false
	}
	entry := raw.(feedEntry[T])
	if c.clock().After(entry.expires) {
		c.arc.Remove(key)
		return zero, false
	}
	return entry.value, true
}

func (c *FeedCache[T]) set(key string, value T) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.arc.Add(key, feedEntry[T]{value: value, expires: c.clock().Add(c.ttl)})
}

// FeedKey builds a deterministic cache key from an endpoint and the subset
// of settings that shape the response.
func FeedKey(endpoint string, settings map[string]any) string {
	return endpoint + "#" + settingsHash(settings)
}

func settingsHash(settings map[string]any) string {
	if len(settings) == 0 {
		return "empty"
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
