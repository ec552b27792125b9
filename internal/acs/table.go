// Package acs loads the American Community Survey attribute tables and
// merges them onto resolved geographies.
package acs

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/normalize"
	"github.com/zestai/zrp/internal/tabular"
)

// ErrMalformedTable is returned when an attribute table has no GEOID column
// or repeats a GEOID.
var ErrMalformedTable = eris.New("acs: malformed attribute table")

// ColGEOID is the key column of every attribute table.
const ColGEOID = "GEOID"

// keyLen is the GEOID width for each granularity.
var keyLen = map[model.ACSSource]int{
	model.ACSBlockGroup: 12,
	model.ACSTract:      11,
	model.ACSZip:        5,
}

// Table is one granularity's attributes keyed by GEOID. It is read-only
// once built.
type Table struct {
	Source  model.ACSSource
	Columns []string
	rows    map[string]map[string]float64
}

// FromFrame builds a table from f. GEOIDs lose any non-digit characters and
// are left-padded to the granularity's width, which restores the leading
// zero spreadsheets drop. Cells that are NA or not numeric are left out of
// the row's attributes.
func FromFrame(src model.ACSSource, f *tabular.Frame, na *tabular.NA) (*Table, error) {
	key, ok := f.Col(ColGEOID)
	if !ok {
		return nil, eris.Wrapf(ErrMalformedTable, "%s table has no %s column", src, ColGEOID)
	}

	t := &Table{Source: src, rows: make(map[string]map[string]float64, f.Len())}
	for i, h := range f.Header {
		if i != key {
			t.Columns = append(t.Columns, h)
		}
	}

	width := keyLen[src]
	for n, row := range f.Rows {
		id := padKey(normalize.Digits(tabular.Cell(row, key)), width)
		if id == "" {
			continue
		}
		if _, dup := t.rows[id]; dup {
			return nil, eris.Wrapf(ErrMalformedTable, "%s table repeats GEOID %s at row %d", src, id, n+2)
		}
		attrs := make(map[string]float64, len(t.Columns))
		for i, h := range f.Header {
			if i == key {
				continue
			}
			if v, ok := na.Float(tabular.Cell(row, i)); ok {
				attrs[h] = v
			}
		}
		t.rows[id] = attrs
	}
	return t, nil
}

// Load reads src and builds the table.
func Load(ctx context.Context, kind model.ACSSource, src tabular.Source, na *tabular.NA) (*Table, error) {
	f, err := src.Load(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "acs: load %s table from %s", kind, src)
	}
	return FromFrame(kind, f, na)
}

// Get returns a copy of the attributes for geoid.
func (t *Table) Get(geoid string) (map[string]float64, bool) {
	if t == nil || geoid == "" {
		return nil, false
	}
	attrs, ok := t.rows[geoid]
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out, true
}

// Len returns the number of GEOIDs in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

func padKey(s string, width int) string {
	if s == "" || width == 0 || len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
