package driven

import (
	"context"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// Notifier delivers the run's status report to operators.
type Notifier interface {
	// Notify sends the step trace and, when the build got far enough
	// to produce one, the run report. Report may be nil on failure.
	Notify(ctx context.Context, trace domain.StepTrace, report *domain.RunReport) error
}
