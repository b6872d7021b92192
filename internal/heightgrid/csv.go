package heightgrid

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/relief/internal/fsutil"
)

// ImageHeader is the header record written by the image sampler. It does not
// describe the body, which holds one record of heights per image row; it is
// kept because existing files and tools expect it.
var ImageHeader = []string{"row", "col", "height"}

// Read decodes a height grid from CSV. The first record is always discarded
// as a header whatever it contains. Every remaining field must parse as a
// float64. Records may differ in width; see Grid.Validate.
func Read(r io.Reader) (Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Grid{}, nil
		}
		return nil, asParseError(err)
	}

	var g Grid
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, asParseError(err)
		}

		row := make([]float64, len(rec))
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, &ParseError{Line: line, Column: i + 1, Field: field, Err: err}
			}
			row[i] = v
		}
		g = append(g, row)
	}
	if g == nil {
		g = Grid{}
	}
	return g, nil
}

func asParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return err
}

// ReadFile opens path on fsys and decodes it with Read. Open and I/O
// failures are returned as *FileError, bad fields as *ParseError.
func ReadFile(fsys fsutil.FileSystem, path string) (Grid, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	return g, nil
}

// Write encodes header followed by one record per grid row.
func Write(w io.Writer, g Grid, header []string) error {
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	var rec []string
	for _, row := range g {
		rec = rec[:0]
		for _, v := range row {
			rec = append(rec, FormatHeight(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path on fsys and writes the grid to it.
// A failure part way through leaves whatever was already written.
func WriteFile(fsys fsutil.FileSystem, path string, g Grid, header []string) error {
	f, err := fsutil.CreateAll(fsys, path)
	if err != nil {
		return &FileError{Op: "create", Path: path, Err: err}
	}
	if err := Write(f, g, header); err != nil {
		f.Close()
		return &FileError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// FormatHeight renders v in its shortest round-trip form, always with a
// decimal point or exponent so integral heights read back as floats ("1.0").
func FormatHeight(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
