// Package lookup loads the per-state address-range tables the geographic
// matcher joins against.
package lookup

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/normalize"
	"github.com/zestai/zrp/internal/tabular"
)

// Lookup table column names.
const (
	ColFullName   = "ZEST_FULLNAME"
	ColFromHN     = "FROMHN"
	ColToHN       = "TOHN"
	ColSide       = "SIDE"
	ColZip        = "ZEST_ZIP"
	ColZCTA       = "ZCTA5CE"
	ColStateFP    = "STATEFP"
	ColCountyFP   = "COUNTYFP"
	ColTractCE    = "TRACTCE"
	ColBlockGroup = "BLKGRPCE"
)

// Columns lists every column a lookup table must carry.
var Columns = []string{
	ColFullName, ColFromHN, ColToHN, ColSide, ColZip,
	ColZCTA, ColStateFP, ColCountyFP, ColTractCE, ColBlockGroup,
}

// Table is one state's lookup entries indexed by normalized street name.
// It is read-only once built.
type Table struct {
	StateFIPS string
	entries   []model.LookupEntry
	byStreet  map[string][]int
}

// NewTable indexes entries. Entry order is kept so that votes over the
// candidates of a street see rows in table order.
func NewTable(stateFIPS string, entries []model.LookupEntry) *Table {
	t := &Table{
		StateFIPS: stateFIPS,
		entries:   entries,
		byStreet:  make(map[string][]int),
	}
	for i, e := range entries {
		t.byStreet[e.Street] = append(t.byStreet[e.Street], i)
	}
	return t
}

// FromFrame parses a lookup frame. Street names are cleaned the same way
// record addresses are, and geography codes are zero-padded to their
// Census widths. Rows without a street name are skipped.
func FromFrame(stateFIPS string, f *tabular.Frame) (*Table, error) {
	idx, err := f.Require(Columns...)
	if err != nil {
		return nil, eris.Wrap(err, "lookup: table columns")
	}

	entries := make([]model.LookupEntry, 0, f.Len())
	for _, row := range f.Rows {
		street := normalize.Clean(tabular.Cell(row, idx[0]))
		if street == "" {
			continue
		}
		entries = append(entries, model.LookupEntry{
			Street:       street,
			From:         normalize.ParseHouseNumber(tabular.Cell(row, idx[1])),
			To:           normalize.ParseHouseNumber(tabular.Cell(row, idx[2])),
			Side:         strings.ToUpper(strings.TrimSpace(tabular.Cell(row, idx[3]))),
			Zip:          normalize.Zip(tabular.Cell(row, idx[4])),
			ZCTA:         normalize.Zip(tabular.Cell(row, idx[5])),
			StateFP:      Code(tabular.Cell(row, idx[6]), 2),
			CountyFP:     Code(tabular.Cell(row, idx[7]), 3),
			TractCE:      Code(tabular.Cell(row, idx[8]), 6),
			BlockGroupCE: Code(tabular.Cell(row, idx[9]), 1),
		})
	}
	return NewTable(stateFIPS, entries), nil
}

// Street returns the entries whose normalized street name equals street, in
// table order. The returned slice must not be modified.
func (t *Table) Street(street string) []model.LookupEntry {
	ids := t.byStreet[street]
	if len(ids) == 0 {
		return nil
	}
	out := make([]model.LookupEntry, len(ids))
	for i, id := range ids {
		out[i] = t.entries[id]
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Code left-pads the digits of s with zeros to width. Values with no digits
// return "". Values longer than width are returned as-is.
func Code(s string, width int) string {
	d := normalize.Digits(s)
	if d == "" {
		return ""
	}
	if len(d) < width {
		d = strings.Repeat("0", width-len(d)) + d
	}
	return d
}
