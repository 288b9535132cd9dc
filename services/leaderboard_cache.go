package services

import (
	"sync"
	"time"
)

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// leaderboardCache is an in-process key-value store with per-entry TTL.
// Expired entries behave as absent on Get but are retained so that
// GetStale can serve them as a fallback when recomputation fails.
type leaderboardCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

func newLeaderboardCache() *leaderboardCache {
	return &leaderboardCache{items: make(map[string]cacheItem)}
}

// Get returns the live value for key, or ok=false when absent or expired.
func (c *leaderboardCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// GetStale returns the value for key regardless of expiry.
func (c *leaderboardCache) GetStale(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return item.value, true
}

// Set overwrites key and resets its expiry.
func (c *leaderboardCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{value: value, expiresAt: time.Now().Add(ttl)}
}

func (c *leaderboardCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *leaderboardCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
