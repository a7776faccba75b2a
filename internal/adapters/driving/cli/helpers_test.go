package cli

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driving"
)

// mockOrchestrator returns a canned report.
type mockOrchestrator struct {
	report   *domain.RunReport
	err      error
	lastCfg  domain.RunConfig
	runCalls int
}

func (m *mockOrchestrator) RunOnce(_ context.Context, cfg domain.RunConfig) (*domain.RunReport, error) {
	m.runCalls++
	m.lastCfg = cfg
	return m.report, m.err
}

type mockRegionService struct {
	imported int
	count    int
	region   domain.RegionID
	err      error
}

func (m *mockRegionService) ImportCSV(_ context.Context, _ string) (int, error) {
	return m.imported, m.err
}

func (m *mockRegionService) Lookup(_ context.Context, _ string) (domain.RegionID, error) {
	return m.region, m.err
}

func (m *mockRegionService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

type mockRunService struct {
	reports []domain.RunReport
	err     error
}

func (m *mockRunService) Get(_ context.Context, runID string) (*domain.RunReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.reports {
		if m.reports[i].RunID == runID {
			return &m.reports[i], nil
		}
	}
	return nil, fmt.Errorf("run %s: %w", runID, domain.ErrNotFound)
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.reports) {
		limit = len(m.reports)
	}
	return m.reports[:limit], nil
}

// mapConfigStore is an in-memory ConfigStore for command tests.
type mapConfigStore struct {
	values    map[string]any
	path      string
	loadCalls atomic.Int32
}

func newMapConfigStore() *mapConfigStore {
	return &mapConfigStore{values: make(map[string]any), path: "/tmp/listiq-test/config.toml"}
}

func (s *mapConfigStore) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *mapConfigStore) GetString(key string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

func (s *mapConfigStore) GetInt(key string) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (s *mapConfigStore) GetFloat(key string) float64 {
	switch v := s.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (s *mapConfigStore) GetBool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

func (s *mapConfigStore) GetStringSlice(key string) []string {
	v, _ := s.values[key].([]string)
	return v
}

func (s *mapConfigStore) Set(key string, value any) error {
	s.values[key] = value
	return nil
}

func (s *mapConfigStore) Save() error { return nil }

func (s *mapConfigStore) Load() error {
	s.loadCalls.Add(1)
	return nil
}

func (s *mapConfigStore) Path() string { return s.path }

type mockScheduler struct {
	started bool
	stopped bool
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.started = true
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

// testReport builds a representative run report.
func testRunReport(runID string) domain.RunReport {
	started := time.Date(2025, 3, 14, 4, 0, 0, 0, time.UTC)
	return domain.RunReport{
		RunID:              runID,
		StartedAt:          started,
		FinishedAt:         started.Add(90 * time.Second),
		Target:             4000,
		Selected:           4000,
		Duplicates:         12,
		RecentCount:        2800,
		UnresolvedExcluded: 37,
		UnweightedExcluded: 5,
		PerRegion:          map[domain.RegionID]int{"TX": 2400, "FL": 1600},
	}
}

// setupTestServices wires mock services into the command tree and
// returns the mocks plus a cleanup that restores the previous wiring.
func setupTestServices() (*mockOrchestrator, *mockRegionService, *mockRunService, *mapConfigStore, func()) {
	report := testRunReport("run-1")
	orch := &mockOrchestrator{report: &report}
	regions := &mockRegionService{imported: 300, count: 300, region: "TX"}
	runs := &mockRunService{reports: []domain.RunReport{report}}
	config := newMapConfigStore()

	prev := Services{
		Orchestrator: orchestrator,
		Regions:      regionService,
		Runs:         runService,
		ConfigStore:  configStore,
		NewScheduler: schedulerFn,
	}
	SetServices(Services{
		Orchestrator: orch,
		Regions:      regions,
		Runs:         runs,
		ConfigStore:  config,
		NewScheduler: func() driving.Scheduler { return &mockScheduler{} },
	})

	return orch, regions, runs, config, func() { SetServices(prev) }
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(strings.Builder)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
