// SPDX-License-Identifier: MIT

package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/katalvlaran/recom/partition"
)

// ErrUnknownRun indicates a run id absent from the store.
var ErrUnknownRun = errors.New("record: unknown run")

// Run describes one stored chain.
type Run struct {
	ID      uuid.UUID
	Created time.Time
	Params  json.RawMessage
}

// Step is one stored chain step.
type Step struct {
	Step       int
	Assignment []int
	SelfLoops  int
}

// Store keeps chain runs in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	params BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL REFERENCES runs(id),
	step INTEGER NOT NULL,
	assignment BLOB NOT NULL,
	self_loops INTEGER NOT NULL,
	PRIMARY KEY (run_id, step)
);`

// OpenStore opens (creating if needed) the database at path.
// ":memory:" opens a private in-memory database.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// CreateRun registers a new run with JSON-encoded params.
func (s *Store) CreateRun(ctx context.Context, params any) (Run, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return Run{}, fmt.Errorf("encode params: %w", err)
	}
	run := Run{ID: uuid.New(), Created: time.Now().UTC().Truncate(time.Second), Params: raw}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, params) VALUES (?, ?, ?)`,
		run.ID.String(), run.Created.Unix(), []byte(raw),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	return run, nil
}

// GetRun loads run metadata.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var (
		created int64
		params  []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT created_at, params FROM runs WHERE id = ?`, id.String()).Scan(&created, &params)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", id, ErrUnknownRun)
	}
	if err != nil {
		return Run{}, fmt.Errorf("select run: %w", err)
	}

	return Run{ID: id, Created: time.Unix(created, 0).UTC(), Params: params}, nil
}

// Runs lists all runs in insertion order. created_at has second resolution,
// so rowid orders runs created within the same second.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, params FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var (
			id      string
			created int64
			params  []byte
		)
		if err := rows.Scan(&id, &created, &params); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		out = append(out, Run{ID: parsed, Created: time.Unix(created, 0).UTC(), Params: params})
	}

	return out, rows.Err()
}

// AppendStep stores the Plan emitted at step of run.
func (s *Store) AppendStep(ctx context.Context, run uuid.UUID, step int, p *partition.Plan) error {
	raw, err := json.Marshal(p.Assignment())
	if err != nil {
		return fmt.Errorf("encode assignment: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO steps (run_id, step, assignment, self_loops) VALUES (?, ?, ?, ?)`,
		run.String(), step, raw, p.SelfLoops(),
	); err != nil {
		return fmt.Errorf("insert step %d: %w", step, err)
	}

	return nil
}

// Steps returns every stored step of run in step order.
func (s *Store) Steps(ctx context.Context, run uuid.UUID) ([]Step, error) {
	if _, err := s.GetRun(ctx, run); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, assignment, self_loops FROM steps WHERE run_id = ? ORDER BY step`, run.String())
	if err != nil {
		return nil, fmt.Errorf("select steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Step
	for rows.Next() {
		var (
			st  Step
			raw []byte
		)
		if err := rows.Scan(&st.Step, &raw, &st.SelfLoops); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal(raw, &st.Assignment); err != nil {
			return nil, fmt.Errorf("step %d: %w: %v", st.Step, ErrMalformedRecord, err)
		}
		out = append(out, st)
	}

	return out, rows.Err()
}

// Assignments adapts stored steps for Replay.
func Assignments(steps []Step) iter.Seq2[[]int, error] {
	return func(yield func([]int, error) bool) {
		for _, st := range steps {
			if !yield(st.Assignment, nil) {
				return
			}
		}
	}
}
