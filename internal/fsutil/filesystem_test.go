package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	osfs := OSFileSystem{}
	path := filepath.Join(dir, "grid.csv")

	w, err := osfs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := io.WriteString(w, "row,col,height\n0,1\n"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !osfs.Exists(path) {
		t.Fatal("expected created file to exist")
	}
	data, err := osfs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "row,col,height\n0,1\n" {
		t.Errorf("unexpected content %q", data)
	}
	if osfs.Exists(filepath.Join(dir, "missing.csv")) {
		t.Error("expected missing file to not exist")
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("/heights.csv", []byte("a,b"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := mfs.ReadFile("/heights.csv")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "a,b" {
		t.Errorf("expected %q, got %q", "a,b", data)
	}

	// Returned slices must not alias the stored file.
	data[0] = 'z'
	again, _ := mfs.ReadFile("/heights.csv")
	if string(again) != "a,b" {
		t.Errorf("stored data was mutated: %q", again)
	}
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("out/mesh.obj")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("v 0 0 0\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, _ := mfs.ReadFile("out/mesh.obj")
	if len(data) != 0 {
		t.Errorf("expected truncated file before Close, got %q", data)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, _ = mfs.ReadFile("out/mesh.obj")
	if string(data) != "v 0 0 0\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestMemoryFileSystem_OpenAndStat(t *testing.T) {
	mfs := NewMemoryFileSystem()
	_ = mfs.WriteFile("img.png", []byte{1, 2, 3}, 0644)

	f, err := mfs.Open("img.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(data) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(data))
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 3 || info.Name() != "img.png" {
		t.Errorf("unexpected info: %s %d", info.Name(), info.Size())
	}
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.Open("nope.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open: expected ErrNotExist, got %v", err)
	}
	if _, err := mfs.ReadFile("nope.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile: expected ErrNotExist, got %v", err)
	}
	if _, err := mfs.Stat("nope.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat: expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_ReadOnly(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.SetReadOnly(true)

	if _, err := mfs.Create("out.csv"); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Create: expected ErrPermission, got %v", err)
	}
	if err := mfs.WriteFile("out.csv", nil, 0644); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("WriteFile: expected ErrPermission, got %v", err)
	}
	if err := mfs.MkdirAll("out", os.ModePerm); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("MkdirAll: expected ErrPermission, got %v", err)
	}
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, dir := range []string{"a", "a/b", "a/b/c"} {
		if !mfs.Exists(dir) {
			t.Errorf("expected %s to exist", dir)
		}
	}
	info, err := mfs.Stat("a/b")
	if err != nil || !info.IsDir() {
		t.Errorf("expected a/b to be a directory, err=%v", err)
	}
}

func TestMemoryFileSystem_Files(t *testing.T) {
	mfs := NewMemoryFileSystem()
	_ = mfs.WriteFile("b.csv", nil, 0644)
	_ = mfs.WriteFile("a.csv", nil, 0644)

	got := mfs.Files()
	if len(got) != 2 || got[0] != "a.csv" || got[1] != "b.csv" {
		t.Errorf("unexpected listing %v", got)
	}
}

func TestCreateAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "meshes", "plane.obj")

	w, err := CreateAll(OSFileSystem{}, path)
	if err != nil {
		t.Fatalf("CreateAll failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Fatalf("expected parent directory, got %v, %v", info, err)
	}

	mfs := NewMemoryFileSystem()
	w, err = CreateAll(mfs, "a/b/c.csv")
	if err != nil {
		t.Fatalf("CreateAll failed: %v", err)
	}
	w.Close()
	if !mfs.Exists("a/b") || !mfs.Exists("a/b/c.csv") {
		t.Errorf("expected directory and file, have %v", mfs.Files())
	}

	mfs.SetReadOnly(true)
	if _, err := CreateAll(mfs, "x/y.csv"); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("expected permission error, got %v", err)
	}
	if _, err := CreateAll(mfs, "flat.csv"); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("expected permission error, got %v", err)
	}
}
