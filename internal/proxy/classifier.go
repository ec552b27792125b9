// Package proxy decides, for every enriched record, which prediction path
// produces its race/ethnicity proxy and runs the matching classifiers.
package proxy

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/zestai/zrp/internal/model"
)

var (
	// ErrMissingClassifier is returned when a non-empty bucket has no
	// classifier configured.
	ErrMissingClassifier = eris.New("proxy: missing classifier")
	// ErrPredictionMismatch is returned when a classifier does not return
	// exactly one prediction per input row.
	ErrPredictionMismatch = eris.New("proxy: prediction count or ids do not match input")
)

// Mode tells a classifier which feature set it is given.
type Mode string

// Classifier modes.
const (
	ModeFull     Mode = "full"
	ModeGeoOnly  Mode = "geo_only"
	ModeNameOnly Mode = "name_only"
)

// Features is one classifier input row.
type Features struct {
	ID         string             `json:"id"`
	FirstName  string             `json:"first_name,omitempty"`
	MiddleName string             `json:"middle_name,omitempty"`
	LastName   string             `json:"last_name,omitempty"`
	GEOID      string             `json:"geoid,omitempty"`
	Zip        string             `json:"zip_code,omitempty"`
	Attributes map[string]float64 `json:"attributes,omitempty"`
}

// Prediction is one classifier output row. A nil Probabilities means the
// classifier could not score the row.
type Prediction struct {
	ID            string             `json:"id"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// Classifier scores a batch of rows. It must return one prediction per row.
type Classifier interface {
	Predict(ctx context.Context, mode Mode, rows []Features) ([]Prediction, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, mode Mode, rows []Features) ([]Prediction, error)

// Predict calls f.
func (f ClassifierFunc) Predict(ctx context.Context, mode Mode, rows []Features) ([]Prediction, error) {
	return f(ctx, mode, rows)
}

// ModelSpec pairs a classifier with the attribute columns it reads. An
// empty Columns passes every attribute through.
type ModelSpec struct {
	Classifier Classifier
	Columns    []string
}

// Features builds the input row for r in the given mode. Geo-only rows
// carry no names and name-only rows carry no geography or attributes.
func (s ModelSpec) Features(r model.EnrichedRecord, mode Mode) Features {
	f := Features{ID: r.Record.ID}
	if mode != ModeGeoOnly {
		f.FirstName = r.Record.FirstName
		f.MiddleName = r.Record.MiddleName
		f.LastName = r.Record.LastName
	}
	if mode == ModeNameOnly {
		return f
	}
	f.GEOID = r.Geography.GEOID
	f.Zip = r.Geography.GEOIDZip
	f.Attributes = s.restrict(r.Attributes)
	return f
}

func (s ModelSpec) restrict(attrs map[string]float64) map[string]float64 {
	if len(s.Columns) == 0 {
		out := make(map[string]float64, len(attrs))
		for k, v := range attrs {
			out[k] = v
		}
		return out
	}
	out := make(map[string]float64, len(s.Columns))
	for _, c := range s.Columns {
		if v, ok := attrs[c]; ok {
			out[c] = v
		}
	}
	return out
}

// checkPredictions pairs predictions with rows by id.
func checkPredictions(rows []Features, preds []Prediction) (map[string]map[string]float64, error) {
	if len(preds) != len(rows) {
		return nil, eris.Wrapf(ErrPredictionMismatch, "%d rows, %d predictions", len(rows), len(preds))
	}
	byID := make(map[string]map[string]float64, len(preds))
	for _, p := range preds {
		if _, dup := byID[p.ID]; dup {
			return nil, eris.Wrapf(ErrPredictionMismatch, "duplicate prediction for %q", p.ID)
		}
		byID[p.ID] = p.Probabilities
	}
	for _, r := range rows {
		if _, ok := byID[r.ID]; !ok {
			return nil, eris.Wrapf(ErrPredictionMismatch, "no prediction for %q", r.ID)
		}
	}
	return byID, nil
}
