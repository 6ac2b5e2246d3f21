// SPDX-License-Identifier: Apache-2.0

package httpauth

import "sync"

// Cache holds the last successfully used scheme per authority for one
// negotiation session, enabling preemptive authentication of later
// requests to the same authority. Entries never expire on their own;
// the cache lives and dies with its session.
//
// The whole map is guarded by one mutex - negotiation events are not
// on the request hot path. A preemptive read racing a concurrent
// eviction may observe the stale entry; the attempt it feeds will
// fail and evict, which is the accepted outcome.
type Cache struct {
	mu      sync.Mutex
	entries map[Authority]Scheme
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Authority]Scheme)}
}

// Put inserts or replaces the scheme cached for authority.
func (c *Cache) Put(authority Authority, s Scheme) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[authority] = s
}

// Get returns the scheme cached for authority, or nil.
func (c *Cache) Get(authority Authority) Scheme {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries[authority]
}

// Remove drops the entry for authority, returning the removed scheme
// or nil when nothing was cached.
func (c *Cache) Remove(authority Authority) Scheme {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.entries[authority]
	delete(c.entries, authority)
	return s
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}
