// Package csvfile provides a RecordSource that reads the candidate
// pool from a CSV export.
//
// The file must carry a header row. Three columns are required: "id",
// "phone" and "created_at" (case-insensitive). Every other column is
// passed through unchanged in the record payload, so dialer fields the
// core knows nothing about survive the round trip.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// createdAtLayouts are tried in order when parsing the created_at
// column. Upstream exports are not consistent about this.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Source reads the record pool from a CSV file.
type Source struct {
	path string
}

// NewSource creates a CSV-backed record source for the given file.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Fetch reads and parses the whole pool file.
func (s *Source) Fetch(ctx context.Context) ([]domain.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening pool file: %w", err)
	}
	defer f.Close()

	records, err := parsePool(f)
	if err != nil {
		return nil, fmt.Errorf("parsing pool file %s: %w", s.path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("loaded %d pool records from %s", len(records), s.path)
	return records, nil
}

// parsePool reads the CSV stream into domain records.
func parsePool(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty pool file: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idCol, phoneCol, createdCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			idCol = i
		case "phone":
			phoneCol = i
		case "created_at":
			createdCol = i
		}
	}
	if idCol < 0 || phoneCol < 0 || createdCol < 0 {
		return nil, fmt.Errorf("missing required columns id/phone/created_at: %w", domain.ErrInvalidInput)
	}

	var records []domain.Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line+1, err)
		}
		line++

		if idCol >= len(row) || phoneCol >= len(row) || createdCol >= len(row) {
			return nil, fmt.Errorf("line %d: too few columns: %w", line, domain.ErrInvalidInput)
		}

		createdAt, err := parseCreatedAt(row[createdCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		payload := make(map[string]string)
		for i, name := range header {
			if i == idCol || i == createdCol || i >= len(row) {
				continue
			}
			payload[strings.TrimSpace(name)] = row[i]
		}

		records = append(records, domain.Record{
			ID:             row[idCol],
			LocalitySignal: row[phoneCol],
			CreatedAt:      createdAt,
			Payload:        payload,
		})
	}

	return records, nil
}

// parseCreatedAt tries the known upstream timestamp layouts.
func parseCreatedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable created_at %q: %w", s, domain.ErrInvalidInput)
}
