package smbshare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/duopane/engine/pkg/types"
)

func TestCacheHitWithinTTL(t *testing.T) {
	c := newCache(30 * time.Second)
	now := time.Now()
	c.store("host1", types.ShareListResult{AuthMode: types.AuthGuestAllowed}, now)

	result, ok := c.get("host1", now.Add(10*time.Second))
	assert.True(t, ok)
	assert.True(t, result.FromCache)
	assert.Equal(t, types.AuthGuestAllowed, result.AuthMode)
}

func TestCacheMissAfterTTL(t *testing.T) {
	c := newCache(30 * time.Second)
	now := time.Now()
	c.store("host1", types.ShareListResult{}, now)

	_, ok := c.get("host1", now.Add(31*time.Second))
	assert.False(t, ok)
}

func TestCacheMissUnknownHost(t *testing.T) {
	c := newCache(30 * time.Second)
	_, ok := c.get("nope", time.Now())
	assert.False(t, ok)
}
