package driven

import (
	"context"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// RegionMapStore persists the area-code to region lookup table.
// Backed by SQLite, loaded once per run into the resolver.
type RegionMapStore interface {
	// All returns the complete mapping.
	All(ctx context.Context) (map[string]domain.RegionID, error)

	// ReplaceAll atomically swaps the mapping for a new one.
	ReplaceAll(ctx context.Context, table map[string]domain.RegionID) error

	// Put stores or updates a single mapping entry.
	Put(ctx context.Context, areaCode string, region domain.RegionID) error

	// Count returns the number of mapped area codes.
	Count(ctx context.Context) (int, error)
}
