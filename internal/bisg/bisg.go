// Package bisg implements Bayesian Improved Surname Geocoding: the race
// distribution of a surname updated with the race composition of a ZCTA.
package bisg

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/normalize"
	"github.com/zestai/zrp/internal/proxy"
	"github.com/zestai/zrp/internal/tabular"
)

// ClassOther is the multiracial class. It takes part in the posterior but is
// not reported.
const ClassOther = "OTHER"

// classAliases maps the column names used by published surname and ZCTA
// tables to classes.
var classAliases = map[string]string{
	"AAPI": "AAPI", "API": "AAPI", "PCTAPI": "AAPI", "ASIAN": "AAPI",
	"AIAN": "AIAN", "NATIVE": "AIAN", "PCTAIAN": "AIAN",
	"BLACK": "BLACK", "PCTBLACK": "BLACK",
	"HISPANIC": "HISPANIC", "PCTHISPANIC": "HISPANIC",
	"WHITE": "WHITE", "PCTWHITE": "WHITE",
	"OTHER": ClassOther, "MULTIPLE": ClassOther, "PCT2PRACE": ClassOther,
}

var (
	surnameKeys = []string{"NAME", "SURNAME", "LAST_NAME"}
	zctaKeys    = []string{"ZCTA5", "ZCTA5CE", "ZCTA", "GEOID", "ZIP", "ZIP_CODE"}
)

var _ proxy.Classifier = (*Model)(nil)

// Model holds P(race | surname) and P(zcta | race). It is read-only once
// built and safe for concurrent use.
type Model struct {
	classes  []string
	surnames map[string][]float64
	zctas    map[string][]float64
}

// New builds a model from a surname table and a ZCTA table. Both carry one
// column per class. Surname rows may be probabilities or percentages since
// the posterior is normalized per record. ZCTA rows may be counts or P(zcta | race) since
// each class column is normalized to sum to one.
func New(surnames, zctas *tabular.Frame, na *tabular.NA) (*Model, error) {
	sKey, sCols, err := columns(surnames, surnameKeys)
	if err != nil {
		return nil, eris.Wrap(err, "bisg: surname table")
	}
	zKey, zCols, err := columns(zctas, zctaKeys)
	if err != nil {
		return nil, eris.Wrap(err, "bisg: zcta table")
	}

	var classes []string
	for c := range sCols {
		if _, ok := zCols[c]; ok {
			classes = append(classes, c)
		}
	}
	classes = ordered(classes)
	if len(classes) == 0 {
		return nil, eris.New("bisg: surname and zcta tables share no class columns")
	}

	m := &Model{
		classes:  classes,
		surnames: make(map[string][]float64, surnames.Len()),
		zctas:    make(map[string][]float64, zctas.Len()),
	}

	for _, row := range surnames.Rows {
		name := Surname(tabular.Cell(row, sKey))
		if name == "" {
			continue
		}
		m.surnames[name] = values(row, classes, sCols, na)
	}

	totals := make([]float64, len(classes))
	for _, row := range zctas.Rows {
		zip := normalize.Zip(tabular.Cell(row, zKey))
		if zip == "" {
			continue
		}
		v := values(row, classes, zCols, na)
		m.zctas[zip] = v
		for i := range v {
			totals[i] += v[i]
		}
	}
	for _, v := range m.zctas {
		for i := range v {
			if totals[i] > 0 {
				v[i] /= totals[i]
			}
		}
	}

	zap.L().With(zap.String("component", "bisg.model")).Info("bisg model built",
		zap.Int("surnames", len(m.surnames)),
		zap.Int("zctas", len(m.zctas)),
		zap.Strings("classes", classes),
	)
	return m, nil
}

// Load reads both tables and builds the model.
func Load(ctx context.Context, surnames, zctas tabular.Source, na *tabular.NA) (*Model, error) {
	sf, err := surnames.Load(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "bisg: load surnames from %s", surnames)
	}
	zf, err := zctas.Load(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "bisg: load zctas from %s", zctas)
	}
	return New(sf, zf, na)
}

// Probabilities returns the posterior over the reported classes, or nil
// when the surname or zip is unknown. Zips shorter than five digits are
// never known. OTHER is dropped after normalization, so the result can sum
// to less than one.
func (m *Model) Probabilities(surname, zip string) map[string]float64 {
	z := normalize.Digits(zip)
	if len(z) != 5 {
		return nil
	}
	s, ok := m.surnames[Surname(surname)]
	if !ok {
		return nil
	}
	g, ok := m.zctas[z]
	if !ok {
		return nil
	}

	joint := make([]float64, len(m.classes))
	var sum float64
	for i := range m.classes {
		joint[i] = s[i] * g[i]
		sum += joint[i]
	}
	if sum == 0 {
		return nil
	}

	out := make(map[string]float64, len(model.Classes))
	for i, c := range m.classes {
		if c == ClassOther {
			continue
		}
		out[c] = joint[i] / sum
	}
	return out
}

// Predict scores rows by last name and zip. The mode is ignored. Rows that
// cannot be scored get a nil distribution.
func (m *Model) Predict(ctx context.Context, _ proxy.Mode, rows []proxy.Features) ([]proxy.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "bisg: predict")
	}
	out := make([]proxy.Prediction, len(rows))
	misses := 0
	for i, r := range rows {
		out[i] = proxy.Prediction{ID: r.ID, Probabilities: m.Probabilities(r.LastName, r.Zip)}
		if out[i].Probabilities == nil {
			misses++
		}
	}
	zap.L().With(zap.String("component", "bisg.model")).Debug("bisg scored",
		zap.Int("rows", len(rows)),
		zap.Int("unscored", misses),
	)
	return out, nil
}

// Surname cleans a last name the way the surname table is keyed: letters
// only, no spaces.
func Surname(s string) string {
	return strings.ReplaceAll(normalize.Name(s), " ", "")
}

// columns finds the key column and the class columns of f.
func columns(f *tabular.Frame, keys []string) (int, map[string]int, error) {
	key := -1
	for _, k := range keys {
		if i, ok := f.Col(k); ok {
			key = i
			break
		}
	}
	if key < 0 {
		return 0, nil, eris.Errorf("no key column (want one of %s)", strings.Join(keys, ", "))
	}
	cols := make(map[string]int)
	for i, h := range f.Header {
		if c, ok := classAliases[strings.ToUpper(strings.TrimSpace(h))]; ok {
			if _, seen := cols[c]; !seen {
				cols[c] = i
			}
		}
	}
	return key, cols, nil
}

func values(row []string, classes []string, cols map[string]int, na *tabular.NA) []float64 {
	out := make([]float64, len(classes))
	for i, c := range classes {
		if v, ok := na.Float(tabular.Cell(row, cols[c])); ok && v > 0 {
			out[i] = v
		}
	}
	return out
}

// ordered returns classes in output order with OTHER last.
func ordered(classes []string) []string {
	have := make(map[string]bool, len(classes))
	for _, c := range classes {
		have[c] = true
	}
	var out []string
	for _, c := range append(append([]string(nil), model.Classes...), ClassOther) {
		if have[c] {
			out = append(out, c)
		}
	}
	return out
}
