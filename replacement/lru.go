package replacement

import (
	"container/list"
	"context"
	"sync"

	"github.com/dailyyoga/cachekit/cache"
)

// LeastRecentlyUsed bounds the cache to a fixed number of entries, evicting
// the entry touched longest ago when the bound is exceeded. Usage order is
// a doubly linked list with a map from key to list element, so a touch is
// a constant-time move-to-front.
//
// Evictions go through the hydration strategy's Delete so the hydrator's
// tracking state is pruned along with the entry.
type LeastRecentlyUsed[K comparable, V any] struct {
	hydrator cache.HydrationStrategy[K, V]
	capacity int

	mu    sync.Mutex
	order *list.List // front is most recently used
	elems map[K]*list.Element
}

// NewLRU creates a least-recently-used replacement strategy bounded to
// capacity entries
func NewLRU[K comparable, V any](hydrator cache.HydrationStrategy[K, V], capacity int) (*LeastRecentlyUsed[K, V], error) {
	if hydrator == nil {
		return nil, ErrNilHydrationStrategy
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &LeastRecentlyUsed[K, V]{
		hydrator: hydrator,
		capacity: capacity,
		order:    list.New(),
		elems:    make(map[K]*list.Element),
	}, nil
}

// Get retrieves the value for key through the hydration strategy. Any
// lookup that leaves an entry present counts as a touch; a touch that
// pushes the cache over capacity evicts the least recently used entry.
func (r *LeastRecentlyUsed[K, V]) Get(ctx context.Context, key K) (cache.CacheLookupResult, V) {
	result, value := r.hydrator.Get(ctx, key)

	if result != cache.NotFound {
		r.mu.Lock()
		r.touch(key)
		r.evictOverCapacity()
		r.mu.Unlock()
	}

	return result, value
}

// touch moves key to the front of the usage order, inserting it if new.
// Callers hold r.mu.
func (r *LeastRecentlyUsed[K, V]) touch(key K) {
	if elem, ok := r.elems[key]; ok {
		r.order.MoveToFront(elem)
		return
	}
	r.elems[key] = r.order.PushFront(key)
}

// evictOverCapacity trims the tail of the usage order down to capacity.
// Callers hold r.mu.
func (r *LeastRecentlyUsed[K, V]) evictOverCapacity() {
	for r.order.Len() > r.capacity {
		tail := r.order.Back()
		key := tail.Value.(K)
		r.order.Remove(tail)
		delete(r.elems, key)
		r.hydrator.Delete(key)
	}
}

// Invalidate marks the entry for key as invalid. The entry stays cached
// and keeps its place in the usage order.
func (r *LeastRecentlyUsed[K, V]) Invalidate(key K) {
	r.hydrator.Invalidate(key)
}

// Delete removes the entry for key and drops it from the usage order
func (r *LeastRecentlyUsed[K, V]) Delete(key K) {
	r.mu.Lock()
	if elem, ok := r.elems[key]; ok {
		r.order.Remove(elem)
		delete(r.elems, key)
	}
	r.mu.Unlock()
	r.hydrator.Delete(key)
}

// Flush removes all entries and clears the usage order
func (r *LeastRecentlyUsed[K, V]) Flush() {
	r.mu.Lock()
	r.order.Init()
	clear(r.elems)
	r.mu.Unlock()
	r.hydrator.Flush()
}
