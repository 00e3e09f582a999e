// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot keeps a SQLite ledger of successful pipeline runs: which
// variant ran, when, how many records each section held, and the stamped
// document that was persisted.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/researchmap-site/pkg/types"
)

// ErrNotFound is returned for an unknown run ID.
var ErrNotFound = errors.New("snapshot not found")

const defaultListLimit = 20

// timeLayout has fixed width so recorded_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded pipeline run.
type Run struct {
	ID          string         `json:"id" yaml:"id"`
	Variant     types.Variant  `json:"variant" yaml:"variant"`
	Permalink   string         `json:"permalink" yaml:"permalink"`
	RecordedAt  time.Time      `json:"recorded_at" yaml:"recorded_at"`
	LastUpdated string         `json:"last_updated" yaml:"last_updated"`
	Counts      map[string]int `json:"counts" yaml:"counts"`
}

// Sections returns the section names of Counts in sorted order.
func (r Run) Sections() []string {
	names := make([]string, 0, len(r.Counts))
	for name := range r.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store is the run ledger.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path, creating its directory.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			permalink TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			last_updated TEXT,
			document TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at)`,
		`CREATE TABLE IF NOT EXISTS section_counts (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			section TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, section)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its document. An empty run.ID gets a fresh UUID and
// a zero RecordedAt becomes now. The stored ID is returned.
func (s *Store) Record(ctx context.Context, run Run, document []byte) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, variant, permalink, recorded_at, last_updated, document)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Variant), run.Permalink,
		run.RecordedAt.UTC().Format(timeLayout), run.LastUpdated, string(document),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO section_counts (run_id, section, count) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, section := range run.Sections() {
		if _, err := stmt.ExecContext(ctx, run.ID, section, run.Counts[section]); err != nil {
			return "", fmt.Errorf("inserting count for %s: %w", section, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// List returns up to limit runs, newest first. A non-empty variant filters
// by pipeline. Zero limit uses a default of 20.
func (s *Store) List(ctx context.Context, variant types.Variant, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, variant, permalink, recorded_at, last_updated FROM runs`
	var args []any
	if variant != "" {
		query += ` WHERE variant = ?`
		args = append(args, string(variant))
	}
	query += ` ORDER BY recorded_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			variantStr  string
			recordedAt  string
			lastUpdated sql.NullString
		)
		if err := rows.Scan(&run.ID, &variantStr, &run.Permalink, &recordedAt, &lastUpdated); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Variant = types.Variant(variantStr)
		run.LastUpdated = lastUpdated.String
		if t, err := time.Parse(timeLayout, recordedAt); err == nil {
			run.RecordedAt = t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		counts, err := s.counts(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Counts = counts
	}
	return runs, nil
}

func (s *Store) counts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT section, count FROM section_counts WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying counts for %s: %w", runID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			section string
			n       int
		)
		if err := rows.Scan(&section, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[section] = n
	}
	return counts, rows.Err()
}

// Document returns the stamped document stored with run id.
func (s *Store) Document(ctx context.Context, id string) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM runs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", id, err)
	}
	return []byte(doc), nil
}
