// Package hydrate provides the hydration strategies that populate and
// refresh a managed cache from its data source, plus the background task
// primitives that drive them.
//
// Two strategies are provided. PullHydrator validates and rehydrates lazily
// on every read. PollingHydrator hydrates on first read and thereafter
// keeps registered entries fresh from a background poll, so the foreground
// read path never pays for freshness checks.
package hydrate

import (
	"context"
	"sync"
	"time"

	"github.com/dailyyoga/cachekit/cache"
	"github.com/dailyyoga/cachekit/logger"
	"github.com/dailyyoga/cachekit/store"
	"go.uber.org/zap"
)

// PollingHydrator populates entries on first read and refreshes every
// registered entry from a background poll pass. Freshness is defined by the
// last successful poll; the data source's IsValid check is never consulted.
//
// A lookup of a present entry is served from the store alone. A miss
// hydrates in the foreground and registers the key, which puts it in the
// domain of subsequent poll passes. A failed refresh marks the entry
// invalid but never evicts it, so callers choosing the ReturnStale behavior
// keep reading the last good value.
//
// The data source is called without any internal lock held, from both the
// foreground miss path and the background poll. It must be safe for
// concurrent use.
type PollingHydrator[K comparable, V any] struct {
	logger      logger.Logger
	name        string
	source      cache.DataSource[K, V]
	whenInvalid cache.InvalidCacheEntryBehavior
	instrument  cache.Instrumentation

	// mu orders multi-step sequences against each other. The store
	// decorators are individually thread-safe, but a refresh needs
	// registration rechecks and its commit to be atomic with respect to
	// Delete and Flush.
	mu    sync.RWMutex
	store *store.KeyTrackingStore[K, V]

	task *PollingTask
}

// NewPolling creates a polling hydrator over inner and starts its
// background poll worker. A nil inner store defaults to an in-memory store;
// a nil instrumentation callback defaults to a no-op. Callers must Close
// the hydrator to stop the worker.
func NewPolling[K comparable, V any](
	log logger.Logger,
	cfg *PollingConfig,
	inner store.Strategy[K, V],
	source cache.DataSource[K, V],
	whenInvalid cache.InvalidCacheEntryBehavior,
	instrument cache.Instrumentation,
) (*PollingHydrator[K, V], error) {
	if cfg == nil {
		cfg = DefaultPollingConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrNilDataSource
	}
	if inner == nil {
		inner = store.NewMemory[K, V]()
	}
	if instrument == nil {
		instrument = cache.NopInstrumentation
	}
	if log == nil {
		log = logger.Nop()
	}

	h := &PollingHydrator[K, V]{
		logger:      log,
		name:        cfg.Name,
		source:      source,
		whenInvalid: whenInvalid,
		instrument:  instrument,
		store:       store.NewKeyTracking(store.NewValidityOverride(inner)),
	}

	// The task starts polling immediately, so it is created last, once the
	// hydrator is fully initialized.
	task, err := NewPollingTask(log, cfg.Name, cfg.Interval, h.poll)
	if err != nil {
		return nil, err
	}
	h.task = task

	return h, nil
}

// Get retrieves the value for key. A store hit is served as-is; its
// validity is whatever the last poll pass left behind. A miss hydrates in
// the foreground and registers the key for refresh.
func (h *PollingHydrator[K, V]) Get(ctx context.Context, key K) (cache.CacheLookupResult, V) {
	h.mu.RLock()
	datum, found := h.store.Get(key)
	valid := false
	if found {
		valid = !h.store.IsMarkedInvalid(key)
	}
	h.mu.RUnlock()

	hydrated := false
	if !found {
		datum, hydrated = h.tryHydrate(ctx, key)
	}

	return cache.ClassifyValue(found, valid, hydrated, h.whenInvalid, datum)
}

// tryHydrate fetches key in the foreground. The source call happens with no
// lock held; only the commit is exclusive. The commit registers the key and
// clears any invalid marker.
func (h *PollingHydrator[K, V]) tryHydrate(ctx context.Context, key K) (V, bool) {
	value, ok := h.source.Retrieve(ctx, key)
	if !ok {
		var zero V
		return zero, false
	}

	h.mu.Lock()
	h.store.Set(key, value)
	h.mu.Unlock()
	return value, true
}

// poll refreshes every key registered at the start of the pass. Keys
// registered mid-pass are picked up on the next pass. The pass exits early
// between keys when ctx is canceled.
func (h *PollingHydrator[K, V]) poll(ctx context.Context) {
	h.mu.RLock()
	keys := h.store.Keys()
	h.mu.RUnlock()

	for _, key := range keys {
		if ctx.Err() != nil {
			return
		}
		h.tryRefresh(ctx, key)
	}
}

// tryRefresh refreshes one key and reports the classified outcome to the
// instrumentation callback, exactly once, outside any lock.
//
// Registration is rechecked twice: once before fetching, and again before
// committing. A key deleted while its retrieve was in flight must not be
// resurrected by the commit.
func (h *PollingHydrator[K, V]) tryRefresh(ctx context.Context, key K) {
	h.mu.RLock()
	if !h.store.Contains(key) {
		h.mu.RUnlock()
		h.instrument(cache.NotFound)
		return
	}
	previous, found := h.store.Get(key)
	wasValid := found && !h.store.IsMarkedInvalid(key)
	h.mu.RUnlock()

	// No lock held across the source call.
	value, ok := cache.Retrieve(ctx, h.source, key, previous)

	var result cache.CacheLookupResult
	h.mu.Lock()
	switch {
	case !h.store.Contains(key):
		// Deleted during the retrieve; discard the fetched value.
		result = cache.Classify(false, false, false, h.whenInvalid)
	case ok:
		h.store.Set(key, value)
		result = cache.Classify(found, wasValid, true, h.whenInvalid)
	default:
		h.store.MarkInvalid(key)
		result = cache.Classify(found, false, false, h.whenInvalid)
		h.logger.Debug("refresh failed",
			zap.String("hydrator", h.name),
			zap.Any("key", key),
		)
	}
	h.mu.Unlock()

	h.instrument(result)
}

// Invalidate marks the entry for key as invalid. The entry and its
// registration are retained; the next poll pass attempts a rehydration.
func (h *PollingHydrator[K, V]) Invalidate(key K) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store.MarkInvalid(key)
}

// Delete unregisters key, removes its entry and clears its invalid marker
func (h *PollingHydrator[K, V]) Delete(key K) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store.Delete(key)
}

// Flush removes all entries, registrations and markers
func (h *PollingHydrator[K, V]) Flush() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store.Flush()
}

// SetPollingRate updates the poll interval, effective on the next wait
func (h *PollingHydrator[K, V]) SetPollingRate(interval time.Duration) {
	h.task.SetPollingRate(interval)
}

// Close stops the background poll worker and waits for it to exit. An
// in-flight data source call is not aborted, so the worst case wait is the
// source's own latency bound. Safe to call more than once.
func (h *PollingHydrator[K, V]) Close() {
	h.task.Stop()
}
