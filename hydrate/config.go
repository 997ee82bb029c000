package hydrate

import "time"

// PollingConfig is the configuration for a polling hydrator's background
// refresh cadence
type PollingConfig struct {
	// Name identifies the hydrator in logs and goroutine names
	// default: "polling-hydrator"
	Name string `mapstructure:"name"`
	// Interval is the delay between poll passes
	// default: 30 * time.Second
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultPollingConfig returns the default configuration for a polling
// hydrator
func DefaultPollingConfig() *PollingConfig {
	return &PollingConfig{
		Name:     "polling-hydrator",
		Interval: 30 * time.Second,
	}
}

// Validate validates the configuration
func (c *PollingConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig("interval must be positive")
	}
	return nil
}

// MergeDefaults merges the default configuration with the given
// configuration and returns the merged configuration
func (c *PollingConfig) MergeDefaults() *PollingConfig {
	defaults := DefaultPollingConfig()
	if c.Name == "" {
		c.Name = defaults.Name
	}
	if c.Interval == 0 {
		c.Interval = defaults.Interval
	}
	return c
}
