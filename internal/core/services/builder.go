package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driving"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure Builder implements the interface.
var _ driving.ListBuilder = (*Builder)(nil)

// Builder is the allocation-and-selection engine. It composes the
// resolver, quota calculator, temporal partitioner, mixed selector,
// overflow reconciler and output assembler into one pure, in-memory
// pipeline.
type Builder struct {
	resolver *Resolver
}

// NewBuilder creates a builder over an area-code resolver.
func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// regionState is one region's working state through the pipeline.
type regionState struct {
	region     domain.RegionID
	weight     float64
	quota      domain.Quota
	candidates []domain.Record
	selection  Selection
}

// Build runs the full pipeline: tag regions, compute quotas, then per
// region partition and select concurrently, reconcile the aggregate
// against the target and shuffle the result.
//
// Region workers run in parallel with independently seeded random
// sources, so a run with a fixed seed is reproducible regardless of
// scheduling. The reconciler and assembler only run after the join.
func (b *Builder) Build(
	ctx context.Context,
	pool []domain.Record,
	weights []domain.RegionWeight,
	cfg domain.RunConfig,
	now time.Time,
) (*domain.SelectionResult, error) {
	logger.Section("List Build")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	quotas, err := ComputeQuotas(weights, cfg.TargetTotal)
	if err != nil {
		return nil, err
	}

	states, unresolved, unweighted := b.groupByRegion(pool, weights, quotas)
	logger.Info("Pool: %d records across %d weighted regions (%d unresolved excluded, %d unweighted excluded)",
		len(pool)-unresolved-unweighted, len(states), unresolved, unweighted)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}

	// One worker per region. Each gets its own rand.Rand: sharing one
	// stateful generator across workers would make runs with a fixed
	// seed non-reproducible.
	var wg sync.WaitGroup
	for i := range states {
		wg.Add(1)
		go func(st *regionState, rng *rand.Rand) {
			defer wg.Done()
			recent, historical := Partition(st.candidates, now, cfg.RecencyWindow)
			st.selection = SelectMixed(recent, historical, st.quota.Target, cfg.SplitRatio, rng)
			st.quota.Allocated = len(st.selection.Picked)
		}(&states[i], rand.New(rand.NewSource(seed+int64(i)+1)))
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	var selected, spill []domain.Record
	for i := range states {
		st := &states[i]
		selected = append(selected, st.selection.Picked...)
		spill = append(spill, st.selection.SpareHistorical...)
		if st.selection.Underfill > 0 {
			logger.Debug("Region %s under-filled by %d (quota %d)", st.region, st.selection.Underfill, st.quota.Target)
		}
	}
	logger.Info("Selected %d of %d before reconciliation (spill pool: %d historical)",
		len(selected), cfg.TargetTotal, len(spill))

	reconciled, shortfall := Reconcile(selected, cfg.TargetTotal, spill, rand.New(rand.NewSource(seed)))
	if shortfall > 0 {
		logger.Warn("Pool insufficient: final list short by %d records", shortfall)
	}

	final := Assemble(reconciled, rand.New(rand.NewSource(seed+int64(len(states))+1)))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	report := buildReport(final, cfg.TargetTotal, shortfall, unresolved, unweighted, now)
	return &domain.SelectionResult{Records: final, Report: report}, nil
}

// groupByRegion resolves every record's region and buckets records
// under their quota-bearing region. Records with no usable region are
// excluded and counted, never silently dropped.
func (b *Builder) groupByRegion(
	pool []domain.Record,
	weights []domain.RegionWeight,
	quotas map[domain.RegionID]int,
) (states []regionState, unresolved, unweighted int) {
	states = make([]regionState, len(weights))
	index := make(map[domain.RegionID]int, len(weights))
	for i, w := range weights {
		states[i] = regionState{
			region: w.Region,
			weight: w.Weight,
			quota:  domain.Quota{Region: w.Region, Target: quotas[w.Region]},
		}
		index[w.Region] = i
	}

	for _, rec := range pool {
		rec.Region = b.resolver.Resolve(rec.LocalitySignal)
		i, weighted := index[rec.Region]
		switch {
		case weighted:
			states[i].candidates = append(states[i].candidates, rec)
		case rec.Region.IsUnresolved():
			// Unresolved records join selection only when the weight
			// table carries an explicit UNRESOLVED entry.
			unresolved++
		default:
			unweighted++
		}
	}
	return states, unresolved, unweighted
}

// buildReport derives the audit report from the assembled output.
func buildReport(final []domain.Record, target, shortfall, unresolved, unweighted int, now time.Time) domain.RunReport {
	report := domain.RunReport{
		StartedAt:          now,
		Target:             target,
		Selected:           len(final),
		Shortfall:          shortfall,
		UnresolvedExcluded: unresolved,
		UnweightedExcluded: unweighted,
		PerRegion:          make(map[domain.RegionID]int),
	}
	for _, rec := range final {
		report.PerRegion[rec.Region]++
		if rec.Recent {
			report.RecentCount++
		}
		if rec.Duplicate {
			report.Duplicates++
		}
	}
	return report
}
