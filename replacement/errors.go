package replacement

import "fmt"

// Predefined errors
var (
	// ErrNilHydrationStrategy is returned when a replacement strategy is
	// constructed without a hydration strategy
	ErrNilHydrationStrategy = fmt.Errorf("replacement: hydration strategy is nil")
	// ErrInvalidCapacity is returned when a bounded strategy is constructed
	// with a non-positive capacity
	ErrInvalidCapacity = fmt.Errorf("replacement: capacity must be positive")
)
