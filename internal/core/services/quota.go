package services

import (
	"fmt"
	"math"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// ComputeQuotas allocates the global target across regions in
// proportion to population weight, with the rounding remainder folded
// into the single largest region. The weight slice order is the stable
// tie-break when several regions share the maximum weight.
//
// Postconditions: the returned quotas sum to exactly targetTotal and
// every quota is non-negative. Violating either is a configuration
// error, never a silent clamp.
func ComputeQuotas(weights []domain.RegionWeight, targetTotal int) (map[domain.RegionID]int, error) {
	if targetTotal <= 0 {
		return nil, fmt.Errorf("%w: target total must be positive, got %d", domain.ErrConfiguration, targetTotal)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty weight table", domain.ErrConfiguration)
	}

	var sum float64
	seen := make(map[domain.RegionID]bool, len(weights))
	for _, w := range weights {
		if w.Weight < 0 {
			return nil, fmt.Errorf("%w: negative weight %g for region %s", domain.ErrConfiguration, w.Weight, w.Region)
		}
		if seen[w.Region] {
			return nil, fmt.Errorf("%w: duplicate weight entry for region %s", domain.ErrConfiguration, w.Region)
		}
		seen[w.Region] = true
		sum += w.Weight
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: weight table sums to zero", domain.ErrConfiguration)
	}

	// Round half-up per region, then settle the remainder on the region
	// with the largest weight. First occurrence wins ties, which keeps
	// the calculator deterministic for a fixed weight order.
	quotas := make(map[domain.RegionID]int, len(weights))
	allocated := 0
	largest := weights[0]
	for _, w := range weights {
		quota := int(math.Floor(w.Weight/sum*float64(targetTotal) + 0.5))
		quotas[w.Region] = quota
		allocated += quota
		if w.Weight > largest.Weight {
			largest = w
		}
	}

	remainder := targetTotal - allocated
	adjusted := quotas[largest.Region] + remainder
	if adjusted < 0 {
		return nil, fmt.Errorf("%w: remainder %d drives quota for region %s negative (target %d too small for %d regions)",
			domain.ErrConfiguration, remainder, largest.Region, targetTotal, len(weights))
	}
	quotas[largest.Region] = adjusted

	return quotas, nil
}
