package heightgrid

import (
	"errors"
	"fmt"
	"io/fs"
)

// FileError reports a source file that cannot be opened, read or decoded,
// or a destination that cannot be written.
type FileError struct {
	Op   string // "open", "create", "read", "write", "decode"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	cause := e.Err
	var pe *fs.PathError
	if errors.As(cause, &pe) {
		cause = pe.Err
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, cause)
}

func (e *FileError) Unwrap() error { return e.Err }

// ParseError reports a CSV field that is not a floating point literal, or a
// record the CSV reader could not tokenise. Line and Column are 1-based.
type ParseError struct {
	Line   int
	Column int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" && e.Column == 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %d: invalid height %q: %v", e.Line, e.Column, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports a row whose width differs from row 0.
type ShapeError struct {
	Row  int
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("row %d has %d columns, want %d", e.Row, e.Got, e.Want)
}
