package cache

import "fmt"

// Predefined errors
var (
	// ErrNilReplacementStrategy is returned when a cache is constructed
	// without a replacement strategy
	ErrNilReplacementStrategy = fmt.Errorf("cache: replacement strategy is nil")
	// ErrNilInstrumentation is returned when an instrumentation adapter is
	// constructed without a callback
	ErrNilInstrumentation = fmt.Errorf("cache: instrumentation callback is nil")
)
