package db

import (
	"github.com/banshee-data/relief/internal/monitoring"
	"github.com/banshee-data/relief/internal/timeutil"
)

// Tracker records a single run in the history database. A nil *Tracker is
// valid and records nothing, so callers need not check whether history is
// enabled.
type Tracker struct {
	db    *DB
	store *RunStore
	run   *Run
}

// BeginRun opens the database at path and records run as started. An empty
// path disables history and returns a nil Tracker.
func BeginRun(path string, run *Run, clock timeutil.Clock) (*Tracker, error) {
	if path == "" {
		return nil, nil
	}
	database, err := Open(path)
	if err != nil {
		return nil, err
	}
	store := NewRunStore(database.DB, clock)
	if err := store.Start(run); err != nil {
		database.Close()
		return nil, err
	}
	return &Tracker{db: database, store: store, run: run}, nil
}

// RunID returns the id of the tracked run, or "" for a nil Tracker.
func (t *Tracker) RunID() string {
	if t == nil {
		return ""
	}
	return t.run.RunID
}

// End stores the outcome of the run: failed when runErr is non-nil,
// otherwise ok with res, and logs how long the run took. Recording failures are logged, not returned, so
// they never mask runErr.
func (t *Tracker) End(runErr error, res RunResult) {
	if t == nil {
		return
	}
	status, msg := StatusOK, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}
	if err := t.store.Finish(t.run.RunID, status, msg, res); err != nil {
		monitoring.Warnf("failed to record run %s: %v", t.run.RunID, err)
		return
	}
	monitoring.Logf("Recorded %s run %s (%s) after %s",
		t.run.Kind, t.run.RunID, status, t.store.clock.Since(t.run.StartedAt))
}

// Close releases the database.
func (t *Tracker) Close() error {
	if t == nil {
		return nil
	}
	return t.db.Close()
}
