package driving

import (
	"context"
	"time"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// ListBuilder is the pure selection engine: pool and weight table in,
// shuffled target-sized list out. It performs no I/O.
type ListBuilder interface {
	// Build runs the full allocation-and-selection pipeline.
	//
	// The run is all-or-nothing: if ctx expires mid-build no partial
	// result is returned. Configuration problems abort before any
	// selection with domain.ErrConfiguration. An insufficient pool is
	// not an error; the result is shorter than the target and the
	// report carries the shortfall.
	Build(ctx context.Context, pool []domain.Record, weights []domain.RegionWeight, cfg domain.RunConfig, now time.Time) (*domain.SelectionResult, error)
}

// RunOrchestrator executes the complete nightly job: fetch the pool
// and weights, build the list, export it, persist the run report and
// send the status notification.
type RunOrchestrator interface {
	// RunOnce executes one job run. The returned report is non-nil
	// whenever the build itself completed, even if a later step
	// (export, notify) failed.
	RunOnce(ctx context.Context, cfg domain.RunConfig) (*domain.RunReport, error)
}
