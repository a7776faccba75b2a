package services

import (
	"math/rand"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// Reconcile resolves the gap between the aggregate selection and the
// global target.
//
// A shortfall is filled by duplicating historical records, drawn with
// replacement from the spill pool (every region's unselected historical
// records), falling back to already-selected historical records when
// the pool is exhausted. Recent records are never duplicated: that is
// the system's recency-priority guarantee, not an implementation
// detail. Every duplicate is tagged for audit.
//
// An overflow is trimmed uniformly at random across the whole set, so
// no region is systematically favoured by a deterministic trim order.
//
// The second return value is the remaining shortfall when even the
// fallback pool had no historical records to duplicate; the caller
// reports it rather than failing the run.
func Reconcile(selected []domain.Record, targetTotal int, spill []domain.Record, rng *rand.Rand) ([]domain.Record, int) {
	switch {
	case len(selected) > targetTotal:
		return trim(selected, targetTotal, rng), 0
	case len(selected) < targetTotal:
		return fill(selected, targetTotal, spill, rng)
	default:
		return selected, 0
	}
}

// fill appends tagged historical duplicates until the list reaches the
// target or the duplication pools run dry.
func fill(selected []domain.Record, targetTotal int, spill []domain.Record, rng *rand.Rand) ([]domain.Record, int) {
	pool := spill
	if len(pool) == 0 {
		pool = historicalOnly(selected)
	}
	if len(pool) == 0 {
		// Nothing historical anywhere. The universe is simply too
		// small; report the shortfall instead of touching recents.
		return selected, targetTotal - len(selected)
	}

	out := make([]domain.Record, len(selected), targetTotal)
	copy(out, selected)
	for len(out) < targetTotal {
		dup := pool[rng.Intn(len(pool))].Clone()
		dup.Duplicate = true
		out = append(out, dup)
	}
	return out, 0
}

// trim removes the excess uniformly at random across the whole set.
func trim(selected []domain.Record, targetTotal int, rng *rand.Rand) []domain.Record {
	keep := rng.Perm(len(selected))[:targetTotal]
	out := make([]domain.Record, 0, targetTotal)
	for _, i := range keep {
		out = append(out, selected[i])
	}
	return out
}

// historicalOnly filters a selection down to its historical,
// non-duplicate records.
func historicalOnly(records []domain.Record) []domain.Record {
	var out []domain.Record
	for _, rec := range records {
		if !rec.Recent && !rec.Duplicate {
			out = append(out, rec)
		}
	}
	return out
}
