package driven

import (
	"context"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// ListExporter writes the assembled list for downstream consumption.
// The core hands over an in-memory result; formatting and I/O are the
// exporter's concern.
type ListExporter interface {
	// Export writes the list and returns the destination it wrote to,
	// e.g. a file path.
	Export(ctx context.Context, result *domain.SelectionResult) (string, error)
}
