// Package csvfile provides a WeightSource that reads region population
// weights from a census extract CSV.
//
// The expected shape is two columns, region abbreviation then percent
// of population (ST_ABBRV,PER_OF_POP), with an optional header row.
// Weights are raw shares; the quota calculator normalises them, so the
// column does not need to sum to anything in particular.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure WeightSource implements the interface.
var _ driven.WeightSource = (*WeightSource)(nil)

// WeightSource reads the weight table from a CSV file.
// Row order is preserved; it becomes the remainder tie-break order in
// the quota calculator.
type WeightSource struct {
	path string
}

// NewWeightSource creates a CSV-backed weight source for the given file.
func NewWeightSource(path string) *WeightSource {
	return &WeightSource{path: path}
}

// Weights reads and parses the weight file.
func (w *WeightSource) Weights(ctx context.Context) ([]domain.RegionWeight, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("opening weight file: %w", err)
	}
	defer f.Close()

	weights, err := parseWeights(f)
	if err != nil {
		return nil, fmt.Errorf("parsing weight file %s: %w", w.path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("loaded %d region weights from %s", len(weights), w.path)
	return weights, nil
}

// parseWeights reads the CSV stream into an ordered weight slice.
func parseWeights(r io.Reader) ([]domain.RegionWeight, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var weights []domain.RegionWeight
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line+1, err)
		}
		line++

		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: expected region,weight columns: %w", line, domain.ErrInvalidInput)
		}

		region := strings.ToUpper(strings.TrimSpace(row[0]))
		weightField := strings.TrimSpace(row[1])

		weight, err := strconv.ParseFloat(weightField, 64)
		if err != nil {
			// First line may be a header
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: unparseable weight %q: %w", line, weightField, domain.ErrInvalidInput)
		}

		weights = append(weights, domain.RegionWeight{
			Region: domain.RegionID(region),
			Weight: weight,
		})
	}

	if len(weights) == 0 {
		return nil, fmt.Errorf("no weight rows: %w", domain.ErrInvalidInput)
	}

	return weights, nil
}
