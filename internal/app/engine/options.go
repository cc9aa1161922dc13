package engine

import "time"

// Options represents configuration options for the App.
type Options struct {
	MarketDataInterval time.Duration
	ReadBackoff        time.Duration
}

// DefaultOptions returns the default app options.
func DefaultOptions() *Options {
	return &Options{
		MarketDataInterval: 1 * time.Second,
		ReadBackoff:        100 * time.Millisecond,
	}
}
