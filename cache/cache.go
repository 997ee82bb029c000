// Package cache provides a programmable, in-process managed cache.
//
// The cache package follows go-kit conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Uses routine package for safe goroutine execution
// - Structured error handling
//
// A managed cache composes three orthogonal strategies into a single
// value-retrieval pipeline:
//   - a store strategy (where entries live), see the store package
//   - a hydration strategy (how entries are populated and refreshed from an
//     authoritative data source), see the hydrate package
//   - a replacement strategy (which entries are evicted under capacity
//     pressure), see the replacement package
//
// Every lookup reports not just the value but why that value was returned,
// as a CacheLookupResult.
package cache

import (
	"context"
	"time"
)

// DataSource is the authoritative source a cache hydrates from.
//
// Retrieve returning false means the source has no value for the key. The
// cache does not distinguish source absence from source failure; both
// surface as a failed hydration (NotFound, or NotValid/Stale when a cached
// value exists). Integrators who need finer semantics wrap the source.
type DataSource[K comparable, V any] interface {
	// Retrieve performs an unconditional fetch from the source of record
	Retrieve(ctx context.Context, key K) (V, bool)

	// IsValid reports whether a cached value is still acceptable without
	// contacting the source. Only consulted by pull-based hydration.
	IsValid(key K, value V) bool
}

// HintedDataSource is an optional upgrade of DataSource for sources that can
// use the currently cached value to optimize a fetch.
// ex. If building an HTTP cache, and you receive a 304 response, replay the
// current value.
type HintedDataSource[K comparable, V any] interface {
	DataSource[K, V]

	// RetrieveWithHint fetches the value for key, given the currently
	// cached value as a hint
	RetrieveWithHint(ctx context.Context, key K, current V) (V, bool)
}

// Retrieve fetches through the hinted path when the source supports it and
// falls back to a plain Retrieve otherwise. This is the pass-through default
// of the DataSource contract.
func Retrieve[K comparable, V any](ctx context.Context, source DataSource[K, V], key K, current V) (V, bool) {
	if hinted, ok := source.(HintedDataSource[K, V]); ok {
		return hinted.RetrieveWithHint(ctx, key, current)
	}
	return source.Retrieve(ctx, key)
}

// HydrationStrategy populates and refreshes cache entries from a DataSource
type HydrationStrategy[K comparable, V any] interface {
	// Get retrieves the value for key, hydrating it if necessary, and
	// reports how the lookup was satisfied
	Get(ctx context.Context, key K) (CacheLookupResult, V)

	// Invalidate marks the entry for key as invalid, forcing the next
	// lookup or refresh to rehydrate. The entry itself is retained.
	Invalidate(key K)

	// Delete stops tracking key and removes its entry from the store
	Delete(key K)

	// Flush removes all entries and tracking state
	Flush()
}

// RateAdjustable is implemented by hydration strategies whose background
// refresh cadence can be tuned at runtime.
type RateAdjustable interface {
	SetPollingRate(interval time.Duration)
}

// ReplacementStrategy decides which entries are evicted under capacity
// pressure. Lookups flow through it so it can observe usage.
type ReplacementStrategy[K comparable, V any] interface {
	Get(ctx context.Context, key K) (CacheLookupResult, V)

	Invalidate(key K)

	Delete(key K)

	Flush()
}

// ManagedCache is the top-level read surface of a managed cache
type ManagedCache[K comparable, V any] interface {
	// Get retrieves the value for key and reports how the lookup was
	// satisfied
	Get(ctx context.Context, key K) (CacheLookupResult, V)

	// Flush removes all cached entries
	Flush()
}
