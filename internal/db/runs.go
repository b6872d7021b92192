package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/relief/internal/timeutil"
)

// RunKind names the tool that produced a run.
type RunKind string

const (
	KindSample RunKind = "sample"
	KindApply  RunKind = "apply"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	StatusRunning RunStatus = "running"
	StatusOK      RunStatus = "ok"
	StatusFailed  RunStatus = "failed"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of the sampler or the applicator.
type Run struct {
	RunID            string    `json:"run_id"`
	Kind             RunKind   `json:"kind"`
	SourcePath       string    `json:"source_path"`
	OutputPath       string    `json:"output_path"`
	HighRes          bool      `json:"high_res"`
	HeightMultiplier float64   `json:"height_multiplier"`
	Result           RunResult `json:"result"`
	Status           RunStatus `json:"status"`
	Error            string    `json:"error,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at,omitzero"`
}

// RunResult holds what a finished run produced.
type RunResult struct {
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	RowStep     int     `json:"row_step"`
	ColStep     int     `json:"col_step"`
	VertexCount int     `json:"vertex_count"`
	MinHeight   float64 `json:"min_height"`
	MaxHeight   float64 `json:"max_height"`
	MeanHeight  float64 `json:"mean_height"`
}

// Duration returns how long a finished run took, or zero while it runs.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunStore persists runs in the relief_runs table.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewRunStore returns a store over db. A nil clock uses the wall clock.
func NewRunStore(db *sql.DB, clock timeutil.Clock) *RunStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &RunStore{db: db, clock: clock}
}

// Start records run as running. RunID and StartedAt are filled in when
// empty.
func (s *RunStore) Start(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = s.clock.Now()
	}
	run.Status = StatusRunning
	if run.Result.RowStep == 0 {
		run.Result.RowStep = 1
	}
	if run.Result.ColStep == 0 {
		run.Result.ColStep = 1
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO relief_runs (
				run_id, kind, source_path, output_path, row_step, col_step,
				high_res, height_multiplier, status, started_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, string(run.Kind), run.SourcePath, run.OutputPath,
			run.Result.RowStep, run.Result.ColStep,
			run.HighRes, run.HeightMultiplier, string(run.Status), run.StartedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
}

// Finish marks a running run as done with status and stores its result.
func (s *RunStore) Finish(runID string, status RunStatus, errMsg string, res RunResult) error {
	if status != StatusOK && status != StatusFailed {
		return fmt.Errorf("invalid final status %q", status)
	}
	finished := s.clock.Now().UnixNano()

	return retryOnBusy(func() error {
		result, err := s.db.Exec(`
			UPDATE relief_runs SET
				rows = ?, cols = ?, row_step = ?, col_step = ?, vertex_count = ?,
				min_height = ?, max_height = ?, mean_height = ?,
				status = ?, error = ?, finished_at = ?
			WHERE run_id = ?`,
			res.Rows, res.Cols, max(res.RowStep, 1), max(res.ColStep, 1), res.VertexCount,
			res.MinHeight, res.MaxHeight, res.MeanHeight,
			string(status), errMsg, finished, runID,
		)
		if err != nil {
			return fmt.Errorf("update run: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
		}
		return nil
	})
}

const runColumns = `
	run_id, kind, source_path, output_path, rows, cols, row_step, col_step,
	high_res, height_multiplier, vertex_count, min_height, max_height,
	mean_height, status, error, started_at, finished_at`

// Get returns the run with runID.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM relief_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return run, err
}

// List returns up to limit runs, newest first. A non-positive limit returns
// every run.
func (s *RunStore) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM relief_runs
		ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r            Run
		kind, status string
		started      int64
		finished     sql.NullInt64
	)
	err := sc.Scan(
		&r.RunID, &kind, &r.SourcePath, &r.OutputPath,
		&r.Result.Rows, &r.Result.Cols, &r.Result.RowStep, &r.Result.ColStep,
		&r.HighRes, &r.HeightMultiplier, &r.Result.VertexCount,
		&r.Result.MinHeight, &r.Result.MaxHeight, &r.Result.MeanHeight,
		&status, &r.Error, &started, &finished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.Kind = RunKind(kind)
	r.Status = RunStatus(status)
	r.StartedAt = time.Unix(0, started)
	if finished.Valid {
		r.FinishedAt = time.Unix(0, finished.Int64)
	}
	return &r, nil
}
