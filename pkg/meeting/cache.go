package meeting

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache keeps the per-employee meeting list warm between calendar renders.
// Entries expire on their own; mutations invalidate eagerly.
type Cache interface {
	Get(key string) ([]Meeting, bool)
	Set(key string, meetings []Meeting)
	Invalidate(key string)
}

type LruCache struct {
	lru *expirable.LRU[string, []Meeting]
}

func NewLruCache(size int, ttl time.Duration) *LruCache {
	if size <= 0 {
		size = 128
	}
	return &LruCache{
		lru: expirable.NewLRU[string, []Meeting](size, nil, ttl),
	}
}

func (c *LruCache) Get(key string) ([]Meeting, bool) {
	return c.lru.Get(key)
}

func (c *LruCache) Set(key string, meetings []Meeting) {
	c.lru.Add(key, meetings)
}

func (c *LruCache) Invalidate(key string) {
	c.lru.Remove(key)
}
