package kv

import "github.com/VictoriaMetrics/fastcache"

// CachedStore wraps any Store with a fastcache read-through byte cache, the
// same library go-ethereum uses to cache trie nodes and account/storage
// state (trie.Database's clean-cache layer). A get checks the cache first;
// a miss falls through to the backing Store and populates the cache. Put
// and Delete invalidate the cache entry so reads never observe stale data.
type CachedStore struct {
	backing Store
	cache   *fastcache.Cache
}

// NewCachedStore wraps backing with an in-memory fastcache of maxBytes
// capacity.
func NewCachedStore(backing Store, maxBytes int) *CachedStore {
	return &CachedStore{backing: backing, cache: fastcache.New(maxBytes)}
}

func (c *CachedStore) Get(key []byte) ([]byte, bool) {
	if v, ok := c.cache.HasGet(nil, key); ok {
		return v, true
	}
	v, ok := c.backing.Get(key)
	if ok {
		c.cache.Set(key, v)
	}
	return v, ok
}

func (c *CachedStore) Put(key, value []byte) {
	c.backing.Put(key, value)
	c.cache.Del(key)
}

func (c *CachedStore) Delete(key []byte) {
	c.backing.Delete(key)
	c.cache.Del(key)
}

func (c *CachedStore) Has(key []byte) bool {
	if c.cache.Has(key) {
		return true
	}
	return c.backing.Has(key)
}

func (c *CachedStore) Iterate(prefix []byte, fn func(key, value []byte) bool) {
	// fastcache has no ordered/prefix enumeration; iteration always goes
	// to the backing store, which is the source of truth for existence.
	c.backing.Iterate(prefix, fn)
}
