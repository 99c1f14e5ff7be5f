// Package cache provides a small TTL cache used for generated report text.
// Statistics are never cached: they are recomputed on every query.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// TTL is a bounded cache whose entries expire after a fixed duration. When
// full, the entry closest to expiry is evicted.
type TTL[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]entry[T]
}

func NewTTL[T any](maxSize int, ttl time.Duration) *TTL[T] {
	return &TTL[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]entry[T]),
	}
}

func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

func (c *TTL[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.items[key] = entry[T]{data: data, expiresAt: time.Now().Add(c.ttl)}
}

// Delete drops a single entry. Absent keys are a no-op.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear drops every entry. Called when the underlying ledger mutates.
func (c *TTL[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[T])
}

// CleanExpired removes expired entries and returns how many were dropped.
func (c *TTL[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

func (c *TTL[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTL[T]) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, e := range c.items {
		if !found || e.expiresAt.Before(oldest) {
			oldestKey, oldest, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(c.items, oldestKey)
	}
}
