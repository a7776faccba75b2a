package services

import (
	"strings"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// Resolver maps a record's raw locality signal to a canonical region.
// It is a pure lookup over an immutable table: resolution is total and
// never fails, a missing mapping is simply RegionUnresolved.
type Resolver struct {
	regions map[string]domain.RegionID
}

// NewResolver creates a resolver from an area-code to region table.
// The table is copied; later mutation of the argument has no effect.
func NewResolver(table map[string]domain.RegionID) *Resolver {
	regions := make(map[string]domain.RegionID, len(table))
	for code, region := range table {
		regions[normalizeSignal(code)] = region
	}
	return &Resolver{regions: regions}
}

// Resolve returns the canonical region for a locality signal, or
// RegionUnresolved when the signal is malformed, empty or unmapped.
func (r *Resolver) Resolve(signal string) domain.RegionID {
	signal = normalizeSignal(signal)
	if signal == "" {
		return domain.RegionUnresolved
	}
	if region, ok := r.regions[signal]; ok {
		return region
	}
	return domain.RegionUnresolved
}

// Size returns the number of mapped signals.
func (r *Resolver) Size() int {
	return len(r.regions)
}

// normalizeSignal strips everything but digits and keeps the first
// three, so full phone numbers, formatted numbers and bare area codes
// all resolve the same way.
func normalizeSignal(signal string) string {
	var b strings.Builder
	for _, r := range signal {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	return b.String()
}
