package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driving"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure RegionService implements the interface.
var _ driving.RegionMapService = (*RegionService)(nil)

// RegionService manages the area-code to region lookup table.
type RegionService struct {
	store driven.RegionMapStore
}

// NewRegionService creates a region map service over a store.
func NewRegionService(store driven.RegionMapStore) *RegionService {
	return &RegionService{store: store}
}

// ImportCSV loads an area-code mapping CSV into the store, replacing
// the current table. The file needs two columns, area code then region
// identifier; a header row is detected and skipped.
func (s *RegionService) ImportCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening mapping file: %w", err)
	}
	defer f.Close()

	table, err := parseRegionMap(f)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(table) == 0 {
		return 0, fmt.Errorf("%w: no mapping rows in %s", domain.ErrInvalidInput, path)
	}

	if err := s.store.ReplaceAll(ctx, table); err != nil {
		return 0, fmt.Errorf("storing region map: %w", err)
	}
	logger.Info("Imported %d area-code mappings from %s", len(table), path)
	return len(table), nil
}

// Lookup resolves a single locality signal against the stored table.
func (s *RegionService) Lookup(ctx context.Context, signal string) (domain.RegionID, error) {
	table, err := s.store.All(ctx)
	if err != nil {
		return "", fmt.Errorf("loading region map: %w", err)
	}
	return NewResolver(table).Resolve(signal), nil
}

// Count returns the number of mapped area codes.
func (s *RegionService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// parseRegionMap reads area-code,region rows from a CSV stream.
func parseRegionMap(r io.Reader) (map[string]domain.RegionID, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	table := make(map[string]domain.RegionID)
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want 2", domain.ErrInvalidInput, line, len(row))
		}

		code := strings.TrimSpace(row[0])
		region := strings.ToUpper(strings.TrimSpace(row[1]))
		if line == 1 && !isDigits(code) {
			// Header row.
			continue
		}
		if code == "" || region == "" {
			continue
		}
		table[code] = domain.RegionID(region)
	}
	return table, nil
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
