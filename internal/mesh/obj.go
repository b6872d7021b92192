package mesh

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteOBJ writes g as a Wavefront OBJ object: one "v" line per vertex in
// row-major order followed by one quad "f" line per face.
func WriteOBJ(w io.Writer, g *Grid, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d faces\n", len(g.Vertices), g.ColSubdiv*g.RowSubdiv)
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, v := range g.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", objFloat(v.X), objFloat(v.Y), objFloat(v.Z))
	}
	for _, f := range g.Faces() {
		// OBJ indices are 1-based.
		fmt.Fprintf(bw, "f %d %d %d %d\n", f[0]+1, f[1]+1, f[2]+1, f[3]+1)
	}
	return bw.Flush()
}

func objFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ObjectName derives an OBJ object name from a file path: the base name
// without its extension, with anything other than ASCII letters, digits,
// dot, underscore or dash collapsed to a single underscore.
func ObjectName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	const maxLen = 64
	var b strings.Builder
	lastUnderscore := false
	for _, r := range base {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "relief"
	}
	return out
}
