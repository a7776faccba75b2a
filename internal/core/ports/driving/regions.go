package driving

import (
	"context"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// RegionMapService manages the area-code to region lookup table.
type RegionMapService interface {
	// ImportCSV loads a mapping CSV (area code, region columns) into
	// the store, replacing the current table. Returns the number of
	// entries imported.
	ImportCSV(ctx context.Context, path string) (int, error)

	// Lookup resolves a single locality signal, for spot checks.
	Lookup(ctx context.Context, signal string) (domain.RegionID, error)

	// Count returns the number of mapped area codes.
	Count(ctx context.Context) (int, error)
}

// RunService exposes run history.
type RunService interface {
	// Get retrieves one run report by ID.
	Get(ctx context.Context, runID string) (*domain.RunReport, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunReport, error)
}
