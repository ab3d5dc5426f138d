package filter

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey ties a cached result to the exact Registry snapshot it was
// computed against. A stale entry from a prior version is simply never
// looked up again — Registry.Version only increases, so old keys age out
// on their own as the LRU evicts them.
type cacheKey struct {
	version uint64
	hash    uint64
}

// Cache bounds the Filter Pipeline's plan-result cache (CACHE_CAPACITY).
// Entries map (registry_version, canonical_plan_hash) to a result bitmap;
// Get clones on the way out so callers can never mutate a cached entry
// through the returned reference. Put stores the bitmap it is given.
type Cache struct {
	lru *lru.Cache[cacheKey, *roaring.Bitmap]
}

// NewCache returns a Cache bounded to capacity entries. A non-positive
// capacity disables caching (Get always misses, Put is a no-op).
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		return &Cache{}
	}
	c, _ := lru.New[cacheKey, *roaring.Bitmap](capacity)
	return &Cache{lru: c}
}

// Get returns a clone of the cached result for (version, hash), if present.
func (c *Cache) Get(version, hash uint64) (*roaring.Bitmap, bool) {
	if c == nil || c.lru == nil {
		return nil, false
	}
	bm, ok := c.lru.Get(cacheKey{version: version, hash: hash})
	if !ok {
		return nil, false
	}
	return bm.Clone(), true
}

// Put stores result under (version, hash). Callers must pass a bitmap they
// will not mutate afterward (Pipeline.Evaluate passes a fresh Clone).
func (c *Cache) Put(version, hash uint64, result *roaring.Bitmap) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(cacheKey{version: version, hash: hash}, result)
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge empties the cache. Publishing a new Registry does not call it:
// entries keyed by an older version are never looked up again and age out
// through LRU eviction, and Purge reclaims that memory immediately.
func (c *Cache) Purge() {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Purge()
}
