// Package tabular reads delimited text, XLSX workbooks and Postgres query
// results into a column-addressable Frame with NA placeholders blanked.
package tabular

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMissingColumn is returned by Frame.Require when a required column is absent.
var ErrMissingColumn = eris.New("tabular: missing column")

// Frame is an in-memory table of string cells. Column lookup is
// case-insensitive. Rows may be shorter than the header.
type Frame struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewFrame builds a Frame, trimming header names and stripping a UTF-8 BOM
// from the first one. The first occurrence of a duplicated column wins.
func NewFrame(header []string, rows [][]string) *Frame {
	h := make([]string, len(header))
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		h[i] = name
		key := strings.ToUpper(name)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return &Frame{Header: h, Rows: rows, index: idx}
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Col returns the index of the named column.
func (f *Frame) Col(name string) (int, bool) {
	i, ok := f.index[strings.ToUpper(strings.TrimSpace(name))]
	return i, ok
}

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.Col(name)
	return ok
}

// Require returns the indices of the named columns, or an error wrapping
// ErrMissingColumn listing every absent one.
func (f *Frame) Require(names ...string) ([]int, error) {
	out := make([]int, len(names))
	var missing []string
	for i, n := range names {
		c, ok := f.Col(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		out[i] = c
	}
	if len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingColumn, "%s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Cell returns row[col], or "" when the row is too short or col is negative.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Get returns the value of the named column in row i.
func (f *Frame) Get(i int, name string) string {
	c, ok := f.Col(name)
	if !ok || i < 0 || i >= len(f.Rows) {
		return ""
	}
	return Cell(f.Rows[i], c)
}

// Blank replaces every NA cell with "".
func (f *Frame) Blank(na *NA) {
	for _, row := range f.Rows {
		for j, v := range row {
			if na.Is(v) {
				row[j] = ""
			} else {
				row[j] = strings.TrimSpace(v)
			}
		}
	}
}
