package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetMissesUnknownKey(t *testing.T) {
	c := newLeaderboardCache()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCacheSetAndGet(t *testing.T) {
	c := newLeaderboardCache()
	c.Set("k", 42, time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCacheExpiredValueIsAbsentButStale(t *testing.T) {
	c := newLeaderboardCache()
	c.Set("k", "old", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)

	v, ok := c.GetStale("k")
	assert.True(t, ok)
	assert.Equal(t, "old", v)
}

func TestCacheSetResetsExpiry(t *testing.T) {
	c := newLeaderboardCache()
	c.Set("k", "old", 10*time.Millisecond)
	c.Set("k", "new", time.Minute)
	time.Sleep(20 * time.Millisecond)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestCacheDelete(t *testing.T) {
	c := newLeaderboardCache()
	c.Set("k", 1, time.Minute)
	c.Delete("k")

	_, ok := c.GetStale("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
