// Package replacement provides the replacement strategies a managed cache
// bounds its size with. Lookups flow through the strategy so it can observe
// usage; evictions are driven back through the hydration strategy so
// tracking state stays consistent.
package replacement

import (
	"context"

	"github.com/dailyyoga/cachekit/cache"
)

// NoReplacement never evicts; the cache grows without bound. Every
// operation delegates to the hydration strategy unchanged.
type NoReplacement[K comparable, V any] struct {
	hydrator cache.HydrationStrategy[K, V]
}

// NewNone creates the unbounded replacement strategy
func NewNone[K comparable, V any](hydrator cache.HydrationStrategy[K, V]) (*NoReplacement[K, V], error) {
	if hydrator == nil {
		return nil, ErrNilHydrationStrategy
	}
	return &NoReplacement[K, V]{hydrator: hydrator}, nil
}

// Get retrieves the value for key through the hydration strategy
func (r *NoReplacement[K, V]) Get(ctx context.Context, key K) (cache.CacheLookupResult, V) {
	return r.hydrator.Get(ctx, key)
}

// Invalidate marks the entry for key as invalid
func (r *NoReplacement[K, V]) Invalidate(key K) {
	r.hydrator.Invalidate(key)
}

// Delete removes the entry for key
func (r *NoReplacement[K, V]) Delete(key K) {
	r.hydrator.Delete(key)
}

// Flush removes all entries
func (r *NoReplacement[K, V]) Flush() {
	r.hydrator.Flush()
}
