package services

import (
	"math"
	"math/rand"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// Selection is one region's mixed draw and its leftovers.
type Selection struct {
	// Picked is the region's selected records, order unspecified.
	Picked []domain.Record

	// Underfill is how far the region fell short of its quota after
	// exhausting both sub-pools. Resolved globally by the reconciler,
	// never by local duplication.
	Underfill int

	// SpareHistorical is the historical records the region did not
	// select. They feed the reconciler's spill pool.
	SpareHistorical []domain.Record
}

// SelectMixed draws a quota-sized sample from a region's recent and
// historical sub-pools, honouring the configured split ratio.
//
// The recent share is floor(quota x splitRatio). Recency is a priority
// signal, not a hard floor: when the recent pool runs short the deficit
// shifts to the historical draw, and recent records are never
// duplicated to make up the difference. Sampling inside each sub-pool
// is uniform without replacement.
func SelectMixed(recent, historical []domain.Record, quota int, splitRatio float64, rng *rand.Rand) Selection {
	if quota <= 0 {
		return Selection{SpareHistorical: historical}
	}

	wantRecent := int(math.Floor(float64(quota) * splitRatio))
	if wantRecent > len(recent) {
		wantRecent = len(recent)
	}
	wantHistorical := quota - wantRecent
	if wantHistorical > len(historical) {
		wantHistorical = len(historical)
	}

	pickedRecent, spareRecent := sample(recent, wantRecent, rng)
	pickedHistorical, spare := sample(historical, wantHistorical, rng)

	picked := make([]domain.Record, 0, quota)
	picked = append(picked, pickedRecent...)
	picked = append(picked, pickedHistorical...)

	// A historical shortfall backfills from leftover recent records
	// before the region reports an under-fill: a region only falls
	// short when its combined availability is below quota.
	if missing := quota - len(picked); missing > 0 && len(spareRecent) > 0 {
		extra, _ := sample(spareRecent, missing, rng)
		picked = append(picked, extra...)
	}

	return Selection{
		Picked:          picked,
		Underfill:       quota - len(picked),
		SpareHistorical: spare,
	}
}

// sample draws n records uniformly without replacement and also
// returns the records it left behind. n is clamped to availability.
func sample(pool []domain.Record, n int, rng *rand.Rand) (picked, rest []domain.Record) {
	if n <= 0 {
		return nil, pool
	}
	if n >= len(pool) {
		return pool, nil
	}
	idx := rng.Perm(len(pool))
	picked = make([]domain.Record, 0, n)
	rest = make([]domain.Record, 0, len(pool)-n)
	for i, j := range idx {
		if i < n {
			picked = append(picked, pool[j])
		} else {
			rest = append(rest, pool[j])
		}
	}
	return picked, rest
}
