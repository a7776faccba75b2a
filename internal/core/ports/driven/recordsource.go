package driven

import (
	"context"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// RecordSource materialises the eligible record pool for one run.
// Upstream systems own eligibility filtering and deduplication; the
// pool arrives already quality-filtered, every record carrying
// {id, locality signal, created-at}.
type RecordSource interface {
	// Fetch returns the full candidate pool.
	Fetch(ctx context.Context) ([]domain.Record, error)
}
