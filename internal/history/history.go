package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scepter-sec/scepter/internal/model"
)

// dbFileName is the SQLite database file name inside the history directory.
const dbFileName = "scepter.db"

// DB provides SQLite-based storage for scan reports.
//
// Design decision: The full report is stored as a JSON blob next to a few
// queryable summary columns. The summary columns serve listing; everything
// else is only ever read back whole, so normalizing matches into their own
// table would add schema without adding queries.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Open opens or creates the history database in the given directory.
// The directory is created if it does not exist.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY errors without a retry loop.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	h := &DB{db: db, dbPath: dbPath}
	if err := h.migrate(); err != nil {
		_ = db.Close() //nolint:errcheck // Already failing
		return nil, err
	}

	return h, nil
}

// migrate creates the schema if it does not exist.
func (h *DB) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at     TEXT NOT NULL,
	finished_at    TEXT NOT NULL,
	target_count   INTEGER NOT NULL,
	detected_count INTEGER NOT NULL,
	failed_count   INTEGER NOT NULL,
	report         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scans_started_at ON scans(started_at);
`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate history database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (h *DB) Close() error {
	return h.db.Close()
}

// Path returns the path to the database file.
func (h *DB) Path() string {
	return h.dbPath
}

// SaveReport stores a completed scan report and returns its row id.
func (h *DB) SaveReport(ctx context.Context, report *model.ScanReport) (int64, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	res, err := h.db.ExecContext(ctx,
		`INSERT INTO scans (started_at, finished_at, target_count, detected_count, failed_count, report)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.FinishedAt.UTC().Format(time.RFC3339),
		len(report.Results),
		report.DetectedCount(),
		report.FailedCount(),
		string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted scan id: %w", err)
	}
	return id, nil
}

// Summary describes one stored scan for listing.
type Summary struct {
	// ID is the scan's row id, usable with GetReport.
	ID int64

	// StartedAt is when the scan began.
	StartedAt time.Time

	// Targets is the number of scanned URLs.
	Targets int

	// Detected is the number of targets with at least one match.
	Detected int

	// Failed is the number of targets that failed to fetch.
	Failed int
}

// ListScans returns the most recent scans, newest first, up to limit.
func (h *DB) ListScans(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, started_at, target_count, detected_count, failed_count
		 FROM scans ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		var startedAt string
		if err := rows.Scan(&s.ID, &startedAt, &s.Targets, &s.Detected, &s.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		s.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan timestamp %q: %w", startedAt, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return summaries, nil
}

// GetReport loads a stored report by scan id.
func (h *DB) GetReport(ctx context.Context, id int64) (*model.ScanReport, error) {
	var data string
	err := h.db.QueryRowContext(ctx,
		`SELECT report FROM scans WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scan %d: %w", id, err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report %d: %w", id, err)
	}
	return &report, nil
}
