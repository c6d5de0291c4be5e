// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists generated Shield General sequences in a SQLite
// database so earlier runs can be listed, shown and exported.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/prime-shields/pkg/types"
)

const dbFile = "shields.db"

// timeLayout is fixed width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the run archive database.
type Store struct {
	db  *sql.DB
	dir string
	log *zap.Logger

	// now is replaced in tests.
	now func() time.Time
}

// NewStore opens or creates the archive at cfg.Dir/shields.db and creates
// the schema if it does not exist. A nil log discards log output.
func NewStore(cfg types.ArchiveConfig, log *zap.Logger) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "archive"
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:  db,
		dir: dir,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}

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

// Dir returns the archive directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			requested INTEGER NOT NULL,
			mode TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS terms (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			value TEXT NOT NULL,
			pmax INTEGER NOT NULL,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores terms as a new run and returns it with its assigned ID.
func (s *Store) Save(ctx context.Context, requested int, mode types.ShieldMode, terms []types.Term) (types.Run, error) {
	run := types.Run{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Requested: requested,
		Mode:      mode,
		Terms:     terms,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, requested, mode) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Requested, string(run.Mode),
	); err != nil {
		return types.Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO terms (run_id, idx, value, pmax) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return types.Run{}, fmt.Errorf("preparing term insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range terms {
		if _, err := stmt.ExecContext(ctx, run.ID, t.Index, t.Value.String(), int64(t.PMax)); err != nil {
			return types.Run{}, fmt.Errorf("inserting term %d: %w", t.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Run{}, fmt.Errorf("committing run: %w", err)
	}

	s.log.Info("archived run", zap.String("id", run.ID), zap.Int("terms", len(terms)), zap.String("mode", string(mode)))
	return run, nil
}

// List returns every run, newest first, without terms.
func (s *Store) List(ctx context.Context) ([]types.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, requested, mode FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID including its terms. An unknown ID
// yields an error wrapping types.ErrRunNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, requested, mode FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Run{}, fmt.Errorf("%w: %s", types.ErrRunNotFound, id)
	}
	if err != nil {
		return types.Run{}, err
	}

	terms, err := s.terms(ctx, id)
	if err != nil {
		return types.Run{}, err
	}
	run.Terms = terms
	return run, nil
}

func (s *Store) terms(ctx context.Context, runID string) ([]types.Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, value, pmax FROM terms WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying terms: %w", err)
	}
	defer rows.Close()

	terms := []types.Term{}
	for rows.Next() {
		var (
			t     types.Term
			value string
			pmax  int64
		)
		if err := rows.Scan(&t.Index, &value, &pmax); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		v, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, fmt.Errorf("run %s term %d: malformed value %q", runID, t.Index, value)
		}
		t.Value = v
		t.PMax = uint64(pmax)
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (types.Run, error) {
	var (
		run     types.Run
		created string
		mode    string
	)
	if err := sc.Scan(&run.ID, &created, &run.Requested, &mode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Run{}, err
		}
		return types.Run{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return types.Run{}, fmt.Errorf("run %s: parsing created_at: %w", run.ID, err)
	}
	run.CreatedAt = t
	run.Mode = types.ShieldMode(mode)
	return run, nil
}
