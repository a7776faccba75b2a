package driven

import (
	"context"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// WeightSource supplies the region population weight table.
// The slice order is preserved into the quota calculator, where it is
// the stable tie-break for remainder assignment.
type WeightSource interface {
	// Weights returns the weight table, one entry per region.
	Weights(ctx context.Context) ([]domain.RegionWeight, error)
}
