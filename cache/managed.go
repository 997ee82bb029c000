package cache

import "context"

// managedCache is the default ManagedCache implementation. All operations
// flow through the replacement strategy so it can observe usage.
type managedCache[K comparable, V any] struct {
	replacer ReplacementStrategy[K, V]
}

// NewManagedCache creates a managed cache on top of a replacement strategy.
// Caches that are permitted to grow without bound use replacement.NewNone.
func NewManagedCache[K comparable, V any](replacer ReplacementStrategy[K, V]) (ManagedCache[K, V], error) {
	if replacer == nil {
		return nil, ErrNilReplacementStrategy
	}

	return &managedCache[K, V]{replacer: replacer}, nil
}

// Get retrieves the value for key and reports how the lookup was satisfied
func (c *managedCache[K, V]) Get(ctx context.Context, key K) (CacheLookupResult, V) {
	return c.replacer.Get(ctx, key)
}

// Flush removes all cached entries
func (c *managedCache[K, V]) Flush() {
	c.replacer.Flush()
}

// PurgableCache is a managed cache whose entries can additionally be evicted,
// replaced, or refreshed on demand by the integrator.
type PurgableCache[K comparable, V any] interface {
	ManagedCache[K, V]

	// Evict removes the entry for key without consulting the data source
	Evict(key K)

	// Replace evicts the entry for key, then reloads it
	Replace(ctx context.Context, key K) (CacheLookupResult, V)

	// Refresh invalidates the entry for key, then reloads it
	Refresh(ctx context.Context, key K) (CacheLookupResult, V)

	// Invalidate marks the entry for key as invalid
	Invalidate(key K)
}

type purgableCache[K comparable, V any] struct {
	replacer ReplacementStrategy[K, V]
}

// NewPurgableCache creates a purgable cache on top of a replacement strategy
func NewPurgableCache[K comparable, V any](replacer ReplacementStrategy[K, V]) (PurgableCache[K, V], error) {
	if replacer == nil {
		return nil, ErrNilReplacementStrategy
	}

	return &purgableCache[K, V]{replacer: replacer}, nil
}

func (c *purgableCache[K, V]) Get(ctx context.Context, key K) (CacheLookupResult, V) {
	return c.replacer.Get(ctx, key)
}

func (c *purgableCache[K, V]) Flush() {
	c.replacer.Flush()
}

func (c *purgableCache[K, V]) Evict(key K) {
	c.replacer.Delete(key)
}

func (c *purgableCache[K, V]) Replace(ctx context.Context, key K) (CacheLookupResult, V) {
	c.replacer.Delete(key)
	return c.replacer.Get(ctx, key)
}

func (c *purgableCache[K, V]) Refresh(ctx context.Context, key K) (CacheLookupResult, V) {
	c.replacer.Invalidate(key)
	return c.replacer.Get(ctx, key)
}

func (c *purgableCache[K, V]) Invalidate(key K) {
	c.replacer.Invalidate(key)
}
