// Package records reads the caller's person records.
package records

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/tabular"
)

// ErrDuplicateID is returned when two records share an id.
var ErrDuplicateID = eris.New("records: duplicate id")

// ErrMissingID is returned when a record has no id.
var ErrMissingID = eris.New("records: missing id")

// row is the CSV shape of an input record.
type row struct {
	ID            string `csv:"id"`
	FirstName     string `csv:"first_name,omitempty"`
	MiddleName    string `csv:"middle_name,omitempty"`
	LastName      string `csv:"last_name,omitempty"`
	HouseNumber   string `csv:"house_number,omitempty"`
	StreetAddress string `csv:"street_address,omitempty"`
	City          string `csv:"city,omitempty"`
	State         string `csv:"state,omitempty"`
	Zip           string `csv:"zip_code,omitempty"`
	CensusTract   string `csv:"census_tract,omitempty"`
	BlockGroup    string `csv:"block_group,omitempty"`
}

func (r row) record() model.InputRecord {
	return model.InputRecord(r)
}

// aliases maps common alternative headers onto the canonical names.
var aliases = map[string]string{
	"zest_key":   "id",
	"key":        "id",
	"first":      "first_name",
	"firstname":  "first_name",
	"middle":     "middle_name",
	"middlename": "middle_name",
	"last":       "last_name",
	"lastname":   "last_name",
	"surname":    "last_name",
	"address":    "street_address",
	"street":     "street_address",
	"zip":        "zip_code",
	"zipcode":    "zip_code",
	"zcta":       "zip_code",
	"tract":      "census_tract",
	"blockgroup": "block_group",
}

// Canonical lower-cases a header, turns spaces and dashes into underscores
// and resolves known aliases.
func Canonical(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	if a, ok := aliases[h]; ok {
		return a
	}
	return h
}

// ReadCSV decodes records from r. Unknown columns are ignored.
func ReadCSV(r io.Reader) ([]model.InputRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("records: empty input")
		}
		return nil, eris.Wrap(err, "records: read header")
	}
	for i, h := range header {
		header[i] = Canonical(h)
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, eris.Wrap(err, "records: decoder")
	}

	var out []model.InputRecord
	for {
		var rw row
		if err := dec.Decode(&rw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "records: decode row %d", len(out)+2)
		}
		out = append(out, rw.record())
	}
	return out, nil
}

// FromFrame maps a tabular frame onto records.
func FromFrame(f *tabular.Frame) []model.InputRecord {
	cols := make(map[string]int, len(f.Header))
	for i, h := range f.Header {
		if _, seen := cols[Canonical(h)]; !seen {
			cols[Canonical(h)] = i
		}
	}
	get := func(r []string, name string) string {
		if i, ok := cols[name]; ok {
			return tabular.Cell(r, i)
		}
		return ""
	}

	out := make([]model.InputRecord, len(f.Rows))
	for n, r := range f.Rows {
		out[n] = model.InputRecord{
			ID:            get(r, "id"),
			FirstName:     get(r, "first_name"),
			MiddleName:    get(r, "middle_name"),
			LastName:      get(r, "last_name"),
			HouseNumber:   get(r, "house_number"),
			StreetAddress: get(r, "street_address"),
			City:          get(r, "city"),
			State:         get(r, "state"),
			Zip:           get(r, "zip_code"),
			CensusTract:   get(r, "census_tract"),
			BlockGroup:    get(r, "block_group"),
		}
	}
	return out
}

// ReadFile reads records from a .csv file with csvutil, or from any other
// format tabular understands.
func ReadFile(ctx context.Context, path string) ([]model.InputRecord, error) {
	var (
		recs []model.InputRecord
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		recs, err = readCSVFile(path)
	} else {
		var f *tabular.Frame
		f, err = tabular.ReadFile(ctx, path, tabular.Options{})
		if err == nil {
			recs = FromFrame(f)
		}
	}
	if err != nil {
		return nil, eris.Wrapf(err, "records: read %s", path)
	}
	if err := Validate(recs); err != nil {
		return nil, err
	}

	zap.L().With(zap.String("component", "records")).Info("records loaded",
		zap.String("path", path),
		zap.Int("records", len(recs)),
	)
	return recs, nil
}

func readCSVFile(path string) ([]model.InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return ReadCSV(f)
}

// Validate checks that every record has a unique, non-blank id.
func Validate(recs []model.InputRecord) error {
	seen := make(map[string]int, len(recs))
	for i, r := range recs {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return eris.Wrapf(ErrMissingID, "record %d", i+1)
		}
		if j, dup := seen[id]; dup {
			return eris.Wrapf(ErrDuplicateID, "%q at records %d and %d", id, j+1, i+1)
		}
		seen[id] = i
	}
	return nil
}
