package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/monitoring"
	"github.com/banshee-data/relief/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

var epoch = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return epoch.Add(time.Hour) }

func seed(t *testing.T) (string, []string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	clock := timeutil.NewMockClock(epoch)
	store := db.NewRunStore(database.DB, clock)

	sample := &db.Run{Kind: db.KindSample, SourcePath: "dem.png", OutputPath: "dem.csv"}
	require.NoError(t, store.Start(sample))
	clock.Advance(250 * time.Millisecond)
	require.NoError(t, store.Finish(sample.RunID, db.StatusOK, "", db.RunResult{Rows: 512, Cols: 512, MaxHeight: 1}))

	clock.Advance(time.Minute)
	apply := &db.Run{Kind: db.KindApply, SourcePath: "dem.csv", OutputPath: "dem.obj", HeightMultiplier: 10}
	require.NoError(t, store.Start(apply))
	clock.Advance(2 * time.Second)
	require.NoError(t, store.Finish(apply.RunID, db.StatusFailed, "dimension mismatch", db.RunResult{Rows: 52, Cols: 52}))

	return path, []string{sample.RunID, apply.RunID}
}

func TestRun_Table(t *testing.T) {
	path, ids := seed(t)
	var out bytes.Buffer

	require.NoError(t, run([]string{"-db", path}, &out, fixedNow))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "RUN"))
	assert.True(t, strings.HasPrefix(lines[1], ids[1][:8]), "newest run first")
	assert.Contains(t, lines[1], "failed: dimension mismatch")
	assert.Contains(t, lines[1], "2s")
	assert.Contains(t, lines[2], "512x512")
	assert.Contains(t, lines[2], "250ms")
	assert.Contains(t, lines[2], "ago")
}

func TestRun_JSONAndSingle(t *testing.T) {
	path, ids := seed(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-db", path, "-json", "-limit", "1"}, &out, fixedNow))
	var runs []db.Run
	require.NoError(t, json.Unmarshal(out.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, ids[1], runs[0].RunID)

	out.Reset()
	require.NoError(t, run([]string{"-db", path, "-run", ids[0], "-json"}, &out, fixedNow))
	require.NoError(t, json.Unmarshal(out.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, db.KindSample, runs[0].Kind)

	err := run([]string{"-db", path, "-run", "missing"}, &out, fixedNow)
	assert.ErrorIs(t, err, db.ErrRunNotFound)
}

func TestRun_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, run([]string{"-db", path, "migrate", "up"}, &bytes.Buffer{}, fixedNow))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-db", path}, &out, fixedNow))
	assert.Equal(t, "No runs recorded.\n", out.String())
}

func TestRun_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")

	for _, args := range [][]string{
		{"-db", path},
		{"-db", path, "-run", "abc"},
	} {
		err := run(args, &bytes.Buffer{}, fixedNow)
		require.ErrorIs(t, err, fs.ErrNotExist, "args %v", args)
		assert.ErrorContains(t, err, "no run history")
	}

	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "listing must not create the database")
}

func TestRun_Migrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	var out bytes.Buffer

	require.NoError(t, run([]string{"-db", path, "migrate", "up"}, &out, fixedNow))
	assert.Contains(t, out.String(), "up to date")

	err := run([]string{"-db", path, "rebuild"}, &out, fixedNow)
	assert.True(t, errors.Is(err, errUsage))
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &out, fixedNow))
	assert.True(t, strings.HasPrefix(out.String(), "relief-runs dev"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "01234567", shortID("0123456789"))
}
