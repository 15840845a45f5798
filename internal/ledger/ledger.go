// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists batch runs and their per-item outcomes in a
// SQLite database so a batch report outlives the process that produced it.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/memoria-engine/pkg/types"
)

// SchemaVersion is the ledger schema version, stored in PRAGMA user_version.
const SchemaVersion = 1

// ErrRunNotFound is returned when a run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded batch.
type Run struct {
	ID            string     `json:"id" yaml:"id"`
	Client        string     `json:"client" yaml:"client"`
	ClientBase    string     `json:"client_base" yaml:"client_base"`
	ProyectoMenor bool       `json:"proyecto_menor" yaml:"proyecto_menor"`
	StartedAt     time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

// Store manages the ledger database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
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
			client TEXT NOT NULL,
			client_base TEXT NOT NULL,
			proyecto_menor INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			stage TEXT NOT NULL,
			subject TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			detail TEXT,
			path TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion),
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the schema version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Begin records the start of a batch and returns its run id.
func (s *Store) Begin(ctx context.Context, job types.Job) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, client, client_base, proyecto_menor, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, job.Client, job.ClientBase, job.ProyectoMenor, formatTime(s.now()),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// Record appends an outcome to a run. Outcomes keep the order in which
// they were recorded.
func (s *Store) Record(ctx context.Context, runID string, o types.Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, seq, stage, subject, status, reason, detail, path)
		 SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ? FROM outcomes WHERE run_id = ?`,
		runID, string(o.Stage), o.Subject, string(o.Status), string(o.Reason), o.Detail, o.Path, runID,
	)
	if err != nil {
		return fmt.Errorf("recording outcome for %s: %w", o.Subject, err)
	}
	return nil
}

// Finish stamps the end time of a run.
func (s *Store) Finish(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE id = ?`, formatTime(s.now()), runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// Run returns the run with the given id.
func (s *Store) Run(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client, client_base, proyecto_menor, started_at, finished_at FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return r, err
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client, client_base, proyecto_menor, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return r, err
}

// Outcomes returns the outcomes of a run in recording order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]types.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, subject, status, reason, detail, path FROM outcomes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var out []types.Outcome
	for rows.Next() {
		var o types.Outcome
		var stage, status, reason string
		var detail, path sql.NullString
		if err := rows.Scan(&stage, &o.Subject, &status, &reason, &detail, &path); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Stage = types.Stage(stage)
		o.Status = types.Status(status)
		o.Reason = types.Reason(reason)
		o.Detail = detail.String
		o.Path = path.String
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanRun(row *sql.Row) (Run, error) {
	var r Run
	var started string
	var finished sql.NullString
	if err := row.Scan(&r.ID, &r.Client, &r.ClientBase, &r.ProyectoMenor, &started, &finished); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(timeLayout, started)
	if err != nil {
		return Run{}, fmt.Errorf("parsing start time: %w", err)
	}
	r.StartedAt = t
	if finished.Valid {
		f, err := time.Parse(timeLayout, finished.String)
		if err != nil {
			return Run{}, fmt.Errorf("parsing finish time: %w", err)
		}
		r.FinishedAt = &f
	}
	return r, nil
}

// timeLayout is fixed width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
