// Package cache provides a concurrency-safe bounded LRU used to memoize
// expensive relationship queries. Entries are never invalidated: the backing
// dataset is immutable for the process lifetime, so eviction only happens
// under capacity pressure.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a mutex-guarded least-recently-used cache with a fixed capacity.
// Keys are compared byte-exactly; callers that want (A,B) and (B,A) to share
// an entry must canonicalize before keying, which the relationship cache
// deliberately does not do.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type lruEntry[V any] struct {
	key   string
	value V
}

// NewLRU creates an LRU holding at most capacity entries. Capacity values
// below 1 default to 1.
func NewLRU[V any](capacity int) *LRU[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[V]{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached value for key and marks it most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry[V]).value, true
}

// Add stores value under key, evicting the least recently used entry when
// the cache is full. Re-adding an existing key refreshes its value and
// recency.
func (c *LRU[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*lruEntry[V]).value = value
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*lruEntry[V]).key)
		}
	}
	c.entries[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value})
}

// Do returns the cached value for key, or computes, stores and returns it.
// The boolean reports whether the value came from the cache. compute runs
// outside the lock; two concurrent misses on the same key may both compute,
// which is harmless since the result is deterministic and the second write
// is idempotent.
func (c *LRU[V]) Do(key string, compute func() (V, error)) (V, bool, error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.Add(key, value)
	return value, false, nil
}

// Len returns the current number of cached entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
