package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockRecordSource implements driven.RecordSource for testing.
type mockRecordSource struct {
	pool     []domain.Record
	fetchErr error
}

func (m *mockRecordSource) Fetch(_ context.Context) ([]domain.Record, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.pool, nil
}

// mockWeightSource implements driven.WeightSource for testing.
type mockWeightSource struct {
	weights []domain.RegionWeight
	err     error
}

func (m *mockWeightSource) Weights(_ context.Context) ([]domain.RegionWeight, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.weights, nil
}

// mockRegionMapStore implements driven.RegionMapStore for testing.
type mockRegionMapStore struct {
	table map[string]domain.RegionID
	err   error
}

func (m *mockRegionMapStore) All(_ context.Context) (map[string]domain.RegionID, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.table, nil
}

func (m *mockRegionMapStore) ReplaceAll(_ context.Context, table map[string]domain.RegionID) error {
	m.table = table
	return nil
}

func (m *mockRegionMapStore) Put(_ context.Context, code string, region domain.RegionID) error {
	if m.table == nil {
		m.table = make(map[string]domain.RegionID)
	}
	m.table[code] = region
	return nil
}

func (m *mockRegionMapStore) Count(_ context.Context) (int, error) {
	return len(m.table), nil
}

// mockExporter implements driven.ListExporter for testing.
type mockExporter struct {
	dest     string
	err      error
	exported *domain.SelectionResult
}

func (m *mockExporter) Export(_ context.Context, result *domain.SelectionResult) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.exported = result
	return m.dest, nil
}

// mockNotifier implements driven.Notifier for testing.
type mockNotifier struct {
	trace  domain.StepTrace
	report *domain.RunReport
	called bool
}

func (m *mockNotifier) Notify(_ context.Context, trace domain.StepTrace, report *domain.RunReport) error {
	m.called = true
	m.trace = trace
	m.report = report
	return nil
}

// mockRunStore implements driven.RunStore for testing.
type mockRunStore struct {
	saved   []*domain.RunReport
	saveErr error
	listErr error
}

func (m *mockRunStore) SaveRun(_ context.Context, report *domain.RunReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, report)
	return nil
}

func (m *mockRunStore) GetRun(_ context.Context, runID string) (*domain.RunReport, error) {
	for _, r := range m.saved {
		if r.RunID == runID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunStore) ListRuns(_ context.Context, limit int) ([]domain.RunReport, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.RunReport, 0, limit)
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.saved[i])
	}
	return out, nil
}

// --- Tests ---

func newTestOrchestrator() (*Orchestrator, *mockExporter, *mockNotifier, *mockRunStore) {
	exporter := &mockExporter{dest: "/tmp/GeographicDialer_20250601.csv"}
	notifier := &mockNotifier{}
	runStore := &mockRunStore{}
	orch := NewOrchestrator(
		&mockRecordSource{pool: append(poolFor("512", 50, 100), poolFor("305", 30, 80)...)},
		&mockWeightSource{weights: []domain.RegionWeight{
			{Region: "TX", Weight: 60},
			{Region: "FL", Weight: 40},
		}},
		&mockRegionMapStore{table: buildTable()},
		exporter,
		notifier,
		runStore,
	)
	return orch, exporter, notifier, runStore
}

func TestOrchestrator_RunOnce(t *testing.T) {
	orch, exporter, notifier, runStore := newTestOrchestrator()

	report, err := orch.RunOnce(context.Background(), testConfig(100))
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 100, report.Selected)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.FinishedAt.IsZero())

	require.NotNil(t, exporter.exported)
	assert.Len(t, exporter.exported.Records, 100)

	require.Len(t, runStore.saved, 1)
	assert.Equal(t, report.RunID, runStore.saved[0].RunID)

	assert.True(t, notifier.called)
	assert.False(t, notifier.trace.HasFailure())
	require.NotNil(t, notifier.report)
}

func TestOrchestrator_FetchFailureNotifies(t *testing.T) {
	orch, _, notifier, runStore := newTestOrchestrator()
	orch.records = &mockRecordSource{fetchErr: errors.New("crm unreachable")}

	report, err := orch.RunOnce(context.Background(), testConfig(100))
	require.Error(t, err)
	assert.Nil(t, report)

	assert.True(t, notifier.called)
	assert.True(t, notifier.trace.HasFailure())
	assert.Nil(t, notifier.report)
	assert.Empty(t, runStore.saved)
}

func TestOrchestrator_ExportFailureStillReturnsReport(t *testing.T) {
	orch, exporter, notifier, _ := newTestOrchestrator()
	exporter.err = errors.New("disk full")

	report, err := orch.RunOnce(context.Background(), testConfig(100))
	assert.ErrorIs(t, err, domain.ErrExportFailed)
	require.NotNil(t, report)

	assert.True(t, notifier.trace.HasFailure())
}

func TestOrchestrator_ConfigurationErrorAborts(t *testing.T) {
	orch, exporter, _, _ := newTestOrchestrator()

	cfg := testConfig(100)
	cfg.SplitRatio = 2
	_, err := orch.RunOnce(context.Background(), cfg)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Nil(t, exporter.exported)
}

func TestOrchestrator_RejectsConcurrentRuns(t *testing.T) {
	orch, _, _, _ := newTestOrchestrator()
	orch.running = true

	_, err := orch.RunOnce(context.Background(), testConfig(100))
	assert.ErrorIs(t, err, domain.ErrBuildInProgress)
}

func TestOrchestrator_NilOptionalPorts(t *testing.T) {
	exporter := &mockExporter{dest: "out.csv"}
	orch := NewOrchestrator(
		&mockRecordSource{pool: poolFor("512", 10, 40)},
		&mockWeightSource{weights: []domain.RegionWeight{{Region: "TX", Weight: 1}}},
		&mockRegionMapStore{table: buildTable()},
		exporter,
		nil,
		nil,
	)

	report, err := orch.RunOnce(context.Background(), testConfig(30))
	require.NoError(t, err)
	assert.Equal(t, 30, report.Selected)
}
