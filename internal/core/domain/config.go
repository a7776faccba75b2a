package domain

import (
	"fmt"
	"time"
)

// RunConfig holds the parameters for one list build.
type RunConfig struct {
	// TargetTotal is the global list size. Must be positive.
	TargetTotal int

	// RecencyWindow defines "recent" relative to the run timestamp.
	RecencyWindow time.Duration

	// SplitRatio is the target fraction of each region's quota to be
	// filled from recent records. Must be in [0, 1].
	SplitRatio float64

	// Seed seeds the run's random sources. Zero means derive from the
	// wall clock; any other value makes the run reproducible.
	Seed int64
}

// Validate checks the configuration before any selection happens.
// A failed run config is fatal: no partial list is ever produced.
func (c RunConfig) Validate() error {
	if c.TargetTotal <= 0 {
		return fmt.Errorf("%w: target total must be positive, got %d", ErrConfiguration, c.TargetTotal)
	}
	if c.RecencyWindow < 0 {
		return fmt.Errorf("%w: recency window must not be negative, got %s", ErrConfiguration, c.RecencyWindow)
	}
	if c.SplitRatio < 0 || c.SplitRatio > 1 {
		return fmt.Errorf("%w: split ratio must be in [0,1], got %g", ErrConfiguration, c.SplitRatio)
	}
	return nil
}

// DefaultRunConfig returns the parameters the original nightly job ran
// with: a 4000-record list, a one-day recency window and a 70/30
// recent/historical split.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		TargetTotal:   4000,
		RecencyWindow: 24 * time.Hour,
		SplitRatio:    0.7,
	}
}
