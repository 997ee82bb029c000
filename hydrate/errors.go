package hydrate

import "fmt"

// Predefined errors
var (
	// ErrNilTask is returned when a task is constructed without a body
	ErrNilTask = fmt.Errorf("hydrate: task body is nil")
	// ErrNilDataSource is returned when a hydrator is constructed without a
	// data source
	ErrNilDataSource = fmt.Errorf("hydrate: data source is nil")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("hydrate: invalid config: %s", msg)
}

// ErrInvalidSchedule cron spec could not be parsed
func ErrInvalidSchedule(err error) error {
	return fmt.Errorf("hydrate: invalid cron spec: %w", err)
}
