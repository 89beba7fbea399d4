package dirreader

import (
	"os/user"
	"strconv"
	"sync"
)

// idCache resolves uid/gid to names once and remembers the answer, the way
// the teacher's cache package guards a plain map with a single RWMutex
// (internal/cache/lru.go) rather than a sync.Map, since names and groups
// only ever accumulate and are read far more often than written.
type idCache struct {
	mu     sync.RWMutex
	owners map[uint32]string
	groups map[uint32]string
}

func newIDCache() *idCache {
	return &idCache{
		owners: make(map[uint32]string),
		groups: make(map[uint32]string),
	}
}

func (c *idCache) ownerName(uid uint32) string {
	c.mu.RLock()
	if name, ok := c.owners[uid]; ok {
		c.mu.RUnlock()
		return name
	}
	c.mu.RUnlock()

	name := lookupUserName(uid)
	c.mu.Lock()
	c.owners[uid] = name
	c.mu.Unlock()
	return name
}

func (c *idCache) groupName(gid uint32) string {
	c.mu.RLock()
	if name, ok := c.groups[gid]; ok {
		c.mu.RUnlock()
		return name
	}
	c.mu.RUnlock()

	name := lookupGroupName(gid)
	c.mu.Lock()
	c.groups[gid] = name
	c.mu.Unlock()
	return name
}

func lookupUserName(uid uint32) string {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(uid), 10)
	}
	return u.Username
}

func lookupGroupName(gid uint32) string {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(gid), 10)
	}
	return g.Name
}

// globalIDCache is the process-wide singleton named in the design notes
// (owner/group caches grow unbounded but are bounded in practice by the
// number of distinct UIDs/GIDs on the host).
var globalIDCache = newIDCache()
