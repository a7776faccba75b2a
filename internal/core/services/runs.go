package services

import (
	"context"
	"fmt"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driving"
)

// Ensure RunHistoryService implements the interface.
var _ driving.RunService = (*RunHistoryService)(nil)

// RunHistoryService exposes persisted run reports.
type RunHistoryService struct {
	store driven.RunStore
}

// NewRunHistoryService creates a run history service over a store.
func NewRunHistoryService(store driven.RunStore) *RunHistoryService {
	return &RunHistoryService{store: store}
}

// Get retrieves one run report by ID.
func (s *RunHistoryService) Get(ctx context.Context, runID string) (*domain.RunReport, error) {
	report, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return report, nil
}

// List returns the most recent runs, newest first.
func (s *RunHistoryService) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = 20
	}
	reports, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return reports, nil
}
