package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func memFSWithImage(t *testing.T) *fsutil.MemoryFileSystem {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for i, v := range []uint8{0, 128, 255, 64, 192, 32} {
		img.SetGray(i%3, i/3, color.Gray{Y: v})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("terrain.png", buf.Bytes(), 0o644))
	return fsys
}

func TestRun_WritesCSV(t *testing.T) {
	fsys := memFSWithImage(t)
	var out bytes.Buffer

	require.NoError(t, run([]string{"-in", "terrain.png", "-out", "terrain.csv"}, fsys, &out))

	data, err := fsys.ReadFile("terrain.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "row,col,height", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.0,0.50196"), lines[1])
}

func TestRun_Invert(t *testing.T) {
	fsys := memFSWithImage(t)

	require.NoError(t, run([]string{"-in", "terrain.png", "-out", "inv.csv", "-invert"}, fsys, &bytes.Buffer{}))

	data, err := fsys.ReadFile("inv.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n1.0,")
}

func TestRun_Heatmap(t *testing.T) {
	fsys := memFSWithImage(t)

	require.NoError(t, run([]string{"-in", "terrain.png", "-heatmap", "terrain.png.preview.png"}, fsys, &bytes.Buffer{}))

	data, err := fsys.ReadFile("terrain.png.preview.png")
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.True(t, fsys.Exists("heights.csv"))
}

func TestRun_ConfigAndNestedOutputs(t *testing.T) {
	fsys := memFSWithImage(t)
	require.NoError(t, fsys.WriteFile("relief.json", []byte(`{"invert": true}`), 0o644))

	args := []string{"-in", "terrain.png", "-out", "grids/terrain.csv", "-heatmap", "previews/terrain.svg"}
	require.NoError(t, run(args, fsys, &bytes.Buffer{}))

	assert.Equal(t, []string{
		"grids/terrain.csv",
		"previews/terrain.svg",
		"relief.json",
		"terrain.png",
	}, fsys.Files())
	data, err := fsys.ReadFile("grids/terrain.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n1.0,", "inverted by relief.json")
}

func TestRun_RecordsHistory(t *testing.T) {
	fsys := memFSWithImage(t)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, run([]string{"-in", "terrain.png", "-db", dbPath}, fsys, &bytes.Buffer{}))
	require.Error(t, run([]string{"-in", "missing.png", "-db", dbPath}, fsys, &bytes.Buffer{}))

	database, err := db.Open(dbPath)
	require.NoError(t, err)
	defer database.Close()
	runs, err := db.NewRunStore(database.DB, nil).List(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byStatus := map[db.RunStatus]*db.Run{}
	for _, r := range runs {
		byStatus[r.Status] = r
	}
	require.Contains(t, byStatus, db.StatusOK)
	assert.Equal(t, 2, byStatus[db.StatusOK].Result.Rows)
	assert.Equal(t, 3, byStatus[db.StatusOK].Result.Cols)
	assert.Equal(t, 1.0, byStatus[db.StatusOK].Result.MaxHeight)
	require.Contains(t, byStatus, db.StatusFailed)
	assert.Contains(t, byStatus[db.StatusFailed].Error, "missing.png")
}

func TestRun_UsageErrors(t *testing.T) {
	fsys := memFSWithImage(t)

	err := run(nil, fsys, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)

	err = run([]string{"-in", "terrain.png", "-width", "-4"}, fsys, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)

	err = run([]string{"-bogus"}, fsys, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)

	err = run([]string{"-in", "terrain.png", "-heatmap", "preview.webp"}, fsys, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)
	assert.ErrorContains(t, err, "unsupported image extension")
	assert.False(t, fsys.Exists("heights.csv"), "nothing is sampled after a usage error")

	err = run([]string{"-h"}, fsys, &bytes.Buffer{})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-version"}, fsutil.NewMemoryFileSystem(), &out))
	assert.True(t, strings.HasPrefix(out.String(), "img2csv dev"))
}
