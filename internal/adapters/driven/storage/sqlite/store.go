package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/listiq-labs/listiq-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.listiq/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".listiq", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RegionMapStore returns a RegionMapStore interface backed by this store.
func (s *Store) RegionMapStore() driven.RegionMapStore {
	return &regionMapStore{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Region Map Store ====================

// regionMapStore implements driven.RegionMapStore.
type regionMapStore struct {
	store *Store
}

var _ driven.RegionMapStore = (*regionMapStore)(nil)

// All returns the complete area-code to region mapping.
func (s *regionMapStore) All(ctx context.Context) (map[string]domain.RegionID, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT area_code, region FROM region_map")
	if err != nil {
		return nil, fmt.Errorf("querying region map: %w", err)
	}
	defer rows.Close()

	table := make(map[string]domain.RegionID)
	for rows.Next() {
		var areaCode, region string
		if err := rows.Scan(&areaCode, &region); err != nil {
			return nil, fmt.Errorf("scanning region map entry: %w", err)
		}
		table[areaCode] = domain.RegionID(region)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating region map: %w", err)
	}

	return table, nil
}

// ReplaceAll atomically swaps the mapping for a new one.
func (s *regionMapStore) ReplaceAll(ctx context.Context, table map[string]domain.RegionID) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM region_map"); err != nil {
		return fmt.Errorf("clearing region map: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO region_map (area_code, region, updated_at)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for areaCode, region := range table {
		if _, err := stmt.ExecContext(ctx, areaCode, string(region), now); err != nil {
			return fmt.Errorf("inserting region map entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Put stores or updates a single mapping entry.
func (s *regionMapStore) Put(ctx context.Context, areaCode string, region domain.RegionID) error {
	if areaCode == "" || region == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO region_map (area_code, region, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(area_code) DO UPDATE SET
			region = excluded.region,
			updated_at = excluded.updated_at
	`, areaCode, string(region), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving region map entry: %w", err)
	}
	return nil
}

// Count returns the number of mapped area codes.
func (s *regionMapStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM region_map").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting region map entries: %w", err)
	}
	return count, nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores a completed run's report.
func (s *runStore) SaveRun(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.RunID == "" {
		return domain.ErrInvalidInput
	}

	perRegionJSON, err := json.Marshal(report.PerRegion)
	if err != nil {
		return fmt.Errorf("marshalling per-region counts: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO runs
			(run_id, started_at, finished_at, target, selected, shortfall,
			 duplicates, recent_count, unresolved_excluded, unweighted_excluded, per_region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			target = excluded.target,
			selected = excluded.selected,
			shortfall = excluded.shortfall,
			duplicates = excluded.duplicates,
			recent_count = excluded.recent_count,
			unresolved_excluded = excluded.unresolved_excluded,
			unweighted_excluded = excluded.unweighted_excluded,
			per_region = excluded.per_region
	`, report.RunID,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
		report.Target, report.Selected, report.Shortfall,
		report.Duplicates, report.RecentCount,
		report.UnresolvedExcluded, report.UnweightedExcluded,
		string(perRegionJSON))

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// GetRun retrieves a run report by ID.
func (s *runStore) GetRun(ctx context.Context, runID string) (*domain.RunReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT run_id, started_at, finished_at, target, selected, shortfall,
		       duplicates, recent_count, unresolved_excluded, unweighted_excluded, per_region
		FROM runs WHERE run_id = ?
	`, runID)

	report, err := scanRunReport(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.RunReport, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, started_at, finished_at, target, selected, shortfall,
		       duplicates, recent_count, unresolved_excluded, unweighted_excluded, per_region
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var reports []domain.RunReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		report, err := scanRunReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return reports, nil
}

// scanRunReport scans a run row via the given Scan function, shared
// between single-row and multi-row queries.
func scanRunReport(scan func(dest ...any) error) (*domain.RunReport, error) {
	var report domain.RunReport
	var startedAt, finishedAt, perRegionJSON string

	if err := scan(&report.RunID, &startedAt, &finishedAt,
		&report.Target, &report.Selected, &report.Shortfall,
		&report.Duplicates, &report.RecentCount,
		&report.UnresolvedExcluded, &report.UnweightedExcluded,
		&perRegionJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		report.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
		report.FinishedAt = t
	}

	if perRegionJSON != "" && perRegionJSON != "null" {
		if err := json.Unmarshal([]byte(perRegionJSON), &report.PerRegion); err != nil {
			return nil, fmt.Errorf("unmarshalling per-region counts: %w", err)
		}
	}

	return &report, nil
}
