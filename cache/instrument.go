package cache

import (
	"context"
	"sync"

	"github.com/dailyyoga/cachekit/logger"
	"github.com/dailyyoga/cachekit/routine"
	"github.com/smallnest/chanx"
)

// Instrumentation observes per-key lookup outcomes published by a hydration
// strategy's background refresh. It is invoked exactly once per key per poll
// pass, outside any internal lock.
//
// Callbacks are for observability only and must not influence control flow.
// The implementer is contractually required to supply a non-panicking
// callback; panics are not caught on the synchronous path.
type Instrumentation func(CacheLookupResult)

// NopInstrumentation discards all lookup outcomes
func NopInstrumentation(CacheLookupResult) {}

// AsyncInstrumentation decouples the observer from the emitter: outcomes are
// buffered through an unbounded channel and the wrapped callback runs on a
// dedicated consumer goroutine, so a slow observer cannot stall a poll pass.
//
// Delivery remains exactly-once per emitted outcome. Close drains the buffer
// before returning.
type AsyncInstrumentation struct {
	log      logger.Logger
	events   *chanx.UnboundedChan[CacheLookupResult]
	cancel   context.CancelFunc
	done     chan struct{}
	closeOne sync.Once
}

// NewAsyncInstrumentation starts the consumer goroutine and returns the
// adapter. Emit is the Instrumentation to hand to the hydrator; initCapacity
// sizes the channel's initial buffer.
func NewAsyncInstrumentation(log logger.Logger, initCapacity int, callback Instrumentation) (*AsyncInstrumentation, error) {
	if callback == nil {
		return nil, ErrNilInstrumentation
	}
	if initCapacity <= 0 {
		initCapacity = 64
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &AsyncInstrumentation{
		log:    log,
		events: chanx.NewUnboundedChan[CacheLookupResult](ctx, initCapacity),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	routine.GoNamed(log, "cache-instrumentation", func() {
		defer close(a.done)
		for result := range a.events.Out {
			callback(result)
		}
	})

	return a, nil
}

// Emit is the Instrumentation to install on the hydrator
func (a *AsyncInstrumentation) Emit(result CacheLookupResult) {
	a.events.In <- result
}

// Close stops accepting outcomes, drains the buffer through the callback and
// waits for the consumer goroutine to exit. Emit must not be called after
// Close; stop the hydrator first.
func (a *AsyncInstrumentation) Close() {
	a.closeOne.Do(func() {
		close(a.events.In)
		<-a.done
		a.cancel()
	})
}
