// Package csvfile provides a ListExporter that writes the assembled
// call list as a date-stamped dialer CSV.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.ListExporter = (*Exporter)(nil)

// filenamePrefix is the dialer drop file prefix; the full name is
// GeographicDialer_YYYYMMDD.csv.
const filenamePrefix = "GeographicDialer_"

// Exporter writes selection results to the configured output directory.
type Exporter struct {
	dir string
	now func() time.Time
}

// NewExporter creates a CSV exporter targeting the given directory.
// The directory is created on first export if it does not exist.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

// Export writes the list and returns the file path it wrote.
// Records keep their assembled order; the dialer works the file top to
// bottom. Payload columns are passed through, with region and the
// duplicate flag appended.
func (e *Exporter) Export(ctx context.Context, result *domain.SelectionResult) (string, error) {
	if result == nil {
		return "", domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := filenamePrefix + e.now().Format("20060102") + ".csv"
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	payloadCols := payloadColumns(result.Records)
	header := append([]string{"id"}, payloadCols...)
	header = append(header, "region", "duplicate")
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for _, r := range result.Records {
		row := make([]string, 0, len(header))
		row = append(row, r.ID)
		for _, col := range payloadCols {
			row = append(row, r.Payload[col])
		}
		row = append(row, r.Region.String(), boolField(r.Duplicate))

		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing record %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}

	logger.Info("exported %d records to %s", len(result.Records), path)
	return path, nil
}

// payloadColumns returns the sorted union of payload keys, so the
// header is stable regardless of per-record payload gaps.
func payloadColumns(records []domain.Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r.Payload {
			seen[k] = true
		}
	}

	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// boolField renders a flag the way the dialer expects it.
func boolField(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
