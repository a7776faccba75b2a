package driven

import (
	"context"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// RunStore persists run reports for audit.
type RunStore interface {
	// SaveRun stores a completed run's report.
	SaveRun(ctx context.Context, report *domain.RunReport) error

	// GetRun retrieves a run report by ID.
	GetRun(ctx context.Context, runID string) (*domain.RunReport, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.RunReport, error)
}
