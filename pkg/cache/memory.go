package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds the in-process cache.
const DefaultMemoryEntries = 64

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a bounded in-process LRU cache.
type MemoryCache struct {
	lru *lru.Cache[string, memoryEntry]
}

// NewMemoryCache creates an LRU cache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	l, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: l}, nil
}

// Get retrieves a value.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// Close purges the cache.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
