package store

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// TTLStore expires entries a fixed duration after they were written. Reads
// do not extend an entry's lifetime. Unlike MemoryStore it is safe for
// concurrent use on its own.
type TTLStore[K comparable, V any] struct {
	cache *ttlcache.Cache[K, V]
}

// NewTTL creates a store whose entries expire ttl after each write. The
// expiration worker runs until Stop is called.
func NewTTL[K comparable, V any](ttl time.Duration) *TTLStore[K, V] {
	c := ttlcache.New[K, V](
		ttlcache.WithTTL[K, V](ttl),
		ttlcache.WithDisableTouchOnHit[K, V](),
	)
	go c.Start()
	return &TTLStore[K, V]{cache: c}
}

// Get returns the value for key and whether it was present and unexpired
func (s *TTLStore[K, V]) Get(key K) (V, bool) {
	item := s.cache.Get(key)
	if item == nil {
		var zero V
		return zero, false
	}
	return item.Value(), true
}

// Set writes the value for key and restarts its expiration clock
func (s *TTLStore[K, V]) Set(key K, value V) {
	s.cache.Set(key, value, ttlcache.DefaultTTL)
}

// Delete removes the entry for key and reports whether one existed
func (s *TTLStore[K, V]) Delete(key K) bool {
	if !s.cache.Has(key) {
		return false
	}
	s.cache.Delete(key)
	return true
}

// Flush removes all entries
func (s *TTLStore[K, V]) Flush() {
	s.cache.DeleteAll()
}

// Stop shuts down the background expiration worker
func (s *TTLStore[K, V]) Stop() {
	s.cache.Stop()
}
