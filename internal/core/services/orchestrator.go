package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driving"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.RunOrchestrator = (*Orchestrator)(nil)

// Orchestrator runs the complete nightly job around the pure engine:
// fetch inputs, build, export, persist the report and notify.
type Orchestrator struct {
	records   driven.RecordSource
	weights   driven.WeightSource
	regionMap driven.RegionMapStore
	exporter  driven.ListExporter
	notifier  driven.Notifier
	runStore  driven.RunStore

	mu      sync.Mutex
	running bool
}

// NewOrchestrator creates an orchestrator. The notifier and runStore
// parameters are optional (can be nil).
func NewOrchestrator(
	records driven.RecordSource,
	weights driven.WeightSource,
	regionMap driven.RegionMapStore,
	exporter driven.ListExporter,
	notifier driven.Notifier,
	runStore driven.RunStore,
) *Orchestrator {
	return &Orchestrator{
		records:   records,
		weights:   weights,
		regionMap: regionMap,
		exporter:  exporter,
		notifier:  notifier,
		runStore:  runStore,
	}
}

// RunOnce executes one job run. The step trace is delivered to the
// notifier whether the run succeeds or fails, matching the status mail
// the job has always sent.
func (o *Orchestrator) RunOnce(ctx context.Context, cfg domain.RunConfig) (report *domain.RunReport, err error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, domain.ErrBuildInProgress
	}
	o.running = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	var trace domain.StepTrace
	defer func() {
		if o.notifier == nil {
			return
		}
		// Notification failures never mask the run outcome.
		if nerr := o.notifier.Notify(context.WithoutCancel(ctx), trace, report); nerr != nil {
			logger.Warn("Status notification failed: %v", nerr)
		}
	}()

	table, err := o.regionMap.All(ctx)
	if err != nil {
		trace.Fail("Region Mapping Data", err)
		return nil, fmt.Errorf("loading region map: %w", err)
	}
	trace.Succeed("Region Mapping Data")

	weights, err := o.weights.Weights(ctx)
	if err != nil {
		trace.Fail("Population Weight Table", err)
		return nil, fmt.Errorf("loading weight table: %w", err)
	}
	trace.Succeed("Population Weight Table")

	pool, err := o.records.Fetch(ctx)
	if err != nil {
		trace.Fail("Record Pool Fetch", err)
		return nil, fmt.Errorf("fetching record pool: %w", err)
	}
	trace.Succeed("Record Pool Fetch")

	builder := NewBuilder(NewResolver(table))
	result, err := builder.Build(ctx, pool, weights, cfg, time.Now().UTC())
	if err != nil {
		trace.Fail("List Generation", err)
		return nil, fmt.Errorf("building list: %w", err)
	}
	result.Report.RunID = uuid.NewString()
	result.Report.FinishedAt = time.Now().UTC()
	report = &result.Report
	trace.Succeed("List Generation")

	dest, err := o.exporter.Export(ctx, result)
	if err != nil {
		trace.Fail("Export File", err)
		return report, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	trace.Succeed("Export File")
	logger.Info("Exported %d records to %s", report.Selected, dest)

	if o.runStore != nil {
		if err := o.runStore.SaveRun(ctx, report); err != nil {
			// History is best-effort; the list is already on disk.
			trace.Fail("Run History", err)
			logger.Warn("Saving run history failed: %v", err)
		} else {
			trace.Succeed("Run History")
		}
	}

	return report, nil
}
