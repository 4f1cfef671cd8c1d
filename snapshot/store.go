// Package snapshot keeps a queryable SQLite history of pipeline runs.
// Every run's datasets are inserted under a run ID, so price and
// availability history can be explored with plain SQL without parsing
// the append-only CSV files.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shopfeed/shopfeed"
)

// Store is a SQLite-backed run history. It implements
// shopfeed.RunRecorder.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dbPath and ensures
// the schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", dbPath, err)
	}
	store := &Store{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for ad-hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ensureSchema() error {
	const runs = `CREATE TABLE IF NOT EXISTS runs (
		run_id      TEXT PRIMARY KEY,
		recorded_at TEXT NOT NULL,
		products    INTEGER NOT NULL,
		variants    INTEGER NOT NULL
	)`
	if _, err := s.db.Exec(runs); err != nil {
		return fmt.Errorf("snapshot: create runs table: %w", err)
	}
	return nil
}

// RecordRun inserts both datasets under the given run ID. Dataset
// tables are created on first use from the dataset's own column
// schema, with every column stored as TEXT plus a leading run_id.
func (s *Store) RecordRun(ctx context.Context, runID string, recordedAt time.Time, products, variants *shopfeed.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshot: begin: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback() }()

	const insertRun = `INSERT INTO runs (run_id, recorded_at, products, variants) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertRun, runID, recordedAt.UTC().Format(time.RFC3339), products.Len(), variants.Len()); err != nil {
		return fmt.Errorf("snapshot: insert run %s: %w", runID, err)
	}

	for _, dataset := range []*shopfeed.Dataset{products, variants} {
		if err := s.insertDataset(ctx, tx, runID, dataset); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot: commit run %s: %w", runID, err)
	}
	return nil
}

func (s *Store) insertDataset(ctx context.Context, tx *sql.Tx, runID string, dataset *shopfeed.Dataset) error {
	if _, err := tx.ExecContext(ctx, createTableQuery(dataset)); err != nil {
		return fmt.Errorf("snapshot: create table %s: %w", dataset.Name(), err)
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery(dataset))
	if err != nil {
		return fmt.Errorf("snapshot: prepare insert for %s: %w", dataset.Name(), err)
	}
	defer stmt.Close()

	for _, record := range dataset.Records() {
		args := make([]any, 0, len(record)+1)
		args = append(args, runID)
		for _, value := range record {
			args = append(args, value)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("snapshot: insert into %s: %w", dataset.Name(), err)
		}
	}
	return nil
}

// createTableQuery builds the CREATE TABLE statement from the
// dataset's column schema.
func createTableQuery(dataset *shopfeed.Dataset) string {
	columns := make([]string, 0, len(dataset.Header())+1)
	columns = append(columns, `"run_id" TEXT NOT NULL`)
	for _, column := range dataset.Header() {
		columns = append(columns, fmt.Sprintf("%q TEXT", column))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", dataset.Name(), strings.Join(columns, ", "))
}

// insertQuery builds the INSERT statement matching createTableQuery's
// column order.
func insertQuery(dataset *shopfeed.Dataset) string {
	columns := make([]string, 0, len(dataset.Header())+1)
	columns = append(columns, `"run_id"`)
	for _, column := range dataset.Header() {
		columns = append(columns, fmt.Sprintf("%q", column))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)", dataset.Name(), strings.Join(columns, ", "), placeholders)
}
