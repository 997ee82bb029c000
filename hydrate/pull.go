package hydrate

import (
	"context"

	"github.com/dailyyoga/cachekit/cache"
	"github.com/dailyyoga/cachekit/logger"
	"github.com/dailyyoga/cachekit/store"
	"go.uber.org/zap"
)

// PullHydrator populates entries lazily, on read. Every lookup of a present
// entry consults the data source's IsValid check and the entry's invalid
// marker; when either fails the entry is rehydrated in the foreground,
// using the cached value as a fetch hint. Absent entries are fetched
// unconditionally.
//
// A failed rehydration leaves the store and marker state untouched, so the
// stale value remains available under the ReturnStale behavior.
//
// Concurrent lookups of the same key may each contact the source; the last
// write wins. Callers needing request coalescing wrap the data source.
type PullHydrator[K comparable, V any] struct {
	logger      logger.Logger
	store       *store.ValidityOverrideStore[K, V]
	source      cache.DataSource[K, V]
	whenInvalid cache.InvalidCacheEntryBehavior
}

// NewPull creates a pull hydrator over inner. A nil inner store defaults to
// an in-memory store.
func NewPull[K comparable, V any](
	log logger.Logger,
	inner store.Strategy[K, V],
	source cache.DataSource[K, V],
	whenInvalid cache.InvalidCacheEntryBehavior,
) (*PullHydrator[K, V], error) {
	if source == nil {
		return nil, ErrNilDataSource
	}
	if inner == nil {
		inner = store.NewMemory[K, V]()
	}
	if log == nil {
		log = logger.Nop()
	}

	return &PullHydrator[K, V]{
		logger:      log,
		store:       store.NewValidityOverride(inner),
		source:      source,
		whenInvalid: whenInvalid,
	}, nil
}

// Get retrieves the value for key, rehydrating it when absent, no longer
// valid per the source, or marked invalid.
func (h *PullHydrator[K, V]) Get(ctx context.Context, key K) (cache.CacheLookupResult, V) {
	datum, found := h.store.Get(key)
	valid := false
	hydrated := false

	if found {
		valid = h.source.IsValid(key, datum) && !h.store.IsMarkedInvalid(key)
		if !valid {
			if next, ok := cache.Retrieve(ctx, h.source, key, datum); ok {
				h.store.Set(key, next)
				datum = next
				hydrated = true
			} else {
				h.logger.Debug("rehydration failed", zap.Any("key", key))
			}
		}
	} else {
		if next, ok := h.source.Retrieve(ctx, key); ok {
			h.store.Set(key, next)
			datum = next
			hydrated = true
		}
	}

	return cache.ClassifyValue(found, valid, hydrated, h.whenInvalid, datum)
}

// Invalidate marks the entry for key as invalid. The entry is retained and
// the next Get performs a retrieve regardless of the source's IsValid.
func (h *PullHydrator[K, V]) Invalidate(key K) {
	h.store.MarkInvalid(key)
}

// Delete removes the entry for key and clears its invalid marker
func (h *PullHydrator[K, V]) Delete(key K) {
	h.store.Delete(key)
}

// Flush removes all entries and markers
func (h *PullHydrator[K, V]) Flush() {
	h.store.Flush()
}
