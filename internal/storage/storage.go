// Package storage persists resolution runs in a SQLite database.
//
// Each run keeps its metadata in the runs table and one row per query in
// run_results. The schema is managed with embedded goose migrations and is
// brought up to date when the database is opened. Old runs are rotated out
// once the configured maximum is exceeded.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/rewired-gh/duelresolver/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrRunNotFound is returned when a run ID has no stored run.
var ErrRunNotFound = errors.New("run not found")

// Storage provides run history backed by SQLite
type Storage struct {
	db      *sqlx.DB
	maxRuns int
}

// dbResult is a run_results row.
type dbResult struct {
	RunID      string `db:"run_id"`
	QueryIndex int    `db:"query_index"`
	First      int    `db:"first"`
	Second     int    `db:"second"`
	Count      int64  `db:"count"`
}

// New opens (creating if needed) the database at dbPath and applies pending
// migrations. dbPath may be ":memory:".
func New(dbPath string, maxRuns int) (*Storage, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Storage{db: db, maxRuns: maxRuns}, nil
}

// Close releases the database connection.
func (s *Storage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SaveRun stores a run and all of its results in one transaction.
func (s *Storage) SaveRun(ctx context.Context, run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, symbol_count, candidate_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Source, run.SymbolCount, run.CandidateCount)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	if len(run.Results) > 0 {
		rows := make([]dbResult, len(run.Results))
		for i, res := range run.Results {
			rows[i] = dbResult{
				RunID:      run.ID,
				QueryIndex: res.Index,
				First:      int(res.Query.First),
				Second:     int(res.Query.Second),
				Count:      int64(res.Count),
			}
		}
		for _, chunk := range chunkRows(rows, 150) {
			_, err = tx.NamedExecContext(ctx,
				`INSERT INTO run_results (run_id, query_index, first, second, count)
				 VALUES (:run_id, :query_index, :first, :second, :count)`, chunk)
			if err != nil {
				return fmt.Errorf("failed to insert results for run %s: %w", run.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads a run with its results ordered by query index.
func (s *Storage) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := s.db.GetContext(ctx, &run,
		`SELECT id, created_at, source, symbol_count, candidate_count FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	var rows []dbResult
	err = s.db.SelectContext(ctx, &rows,
		`SELECT query_index, first, second, count FROM run_results WHERE run_id = ? ORDER BY query_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get results for run %s: %w", id, err)
	}

	run.Results = make([]models.QueryResult, len(rows))
	for i, r := range rows {
		run.Results[i] = models.QueryResult{
			Index: r.QueryIndex,
			Query: models.NewPair(r.First, r.Second),
			Count: uint32(r.Count),
		}
	}
	return &run, nil
}

// ListRuns returns up to limit runs, newest first, without their results.
func (s *Storage) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	if limit < 1 {
		return []models.Run{}, nil
	}
	runs := []models.Run{}
	err := s.db.SelectContext(ctx, &runs,
		`SELECT id, created_at, source, symbol_count, candidate_count
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RotateRuns deletes the oldest runs beyond the configured maximum and
// returns how many were removed.
func (s *Storage) RotateRuns(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT ?
		)`, s.maxRuns)
	if err != nil {
		return 0, fmt.Errorf("failed to rotate runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count rotated runs: %w", err)
	}
	return n, nil
}

// chunkRows splits rows to stay under SQLite's bound-parameter limit.
func chunkRows(rows []dbResult, size int) [][]dbResult {
	var chunks [][]dbResult
	for len(rows) > size {
		chunks = append(chunks, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		chunks = append(chunks, rows)
	}
	return chunks
}
