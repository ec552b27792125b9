package proxy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zestai/zrp/internal/model"
)

// fakeClassifier returns a fixed distribution for every row except those
// listed in miss, and records each call.
type fakeClassifier struct {
	name  string
	probs map[string]float64
	miss  map[string]bool
	err   error

	mu    sync.Mutex
	calls []call
}

type call struct {
	mode Mode
	rows []Features
}

func newFake(name string, label string) *fakeClassifier {
	probs := map[string]float64{}
	for _, c := range model.Classes {
		probs[c] = 0.1
	}
	probs[label] = 0.6
	return &fakeClassifier{name: name, probs: probs, miss: map[string]bool{}}
}

func (f *fakeClassifier) Predict(_ context.Context, mode Mode, rows []Features) ([]Prediction, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{mode: mode, rows: rows})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Prediction, len(rows))
	for i, r := range rows {
		out[i] = Prediction{ID: r.ID}
		if !f.miss[r.ID] {
			out[i].Probabilities = f.probs
		}
	}
	return out, nil
}

func (f *fakeClassifier) modes() []Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Mode
	for _, c := range f.calls {
		out = append(out, c.mode)
	}
	return out
}

type fakes struct {
	bg, ct, zip, bisg *fakeClassifier
}

func newModels() (Models, fakes) {
	f := fakes{
		bg:   newFake("bg", "WHITE"),
		ct:   newFake("ct", "BLACK"),
		zip:  newFake("zip", "HISPANIC"),
		bisg: newFake("bisg", "AAPI"),
	}
	m := Models{
		BlockGroup:  ModelSpec{Classifier: f.bg, Columns: []string{"B01"}},
		CensusTract: ModelSpec{Classifier: f.ct},
		ZipCode:     ModelSpec{Classifier: f.zip},
		BISG:        f.bisg,
	}
	return m, f
}

func enriched(id string, src model.ACSSource, first, last, zip string) model.EnrichedRecord {
	r := model.EnrichedRecord{
		Record:    model.InputRecord{ID: id, FirstName: first, LastName: last, Zip: zip},
		ACSSource: src,
	}
	if src != model.ACSNone {
		r.Attributes = map[string]float64{"B01": 1, "B02": 2}
		r.Geography = model.ResolvedGeography{ID: id, GEOID: "34017018400", GEOIDZip: "07030"}
	}
	return r
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name string
		rec  model.EnrichedRecord
		want model.Source
	}{
		{"bg named", enriched("1", model.ACSBlockGroup, "ANA", "", ""), model.SourceBlockGroup},
		{"ct named", enriched("2", model.ACSTract, "", "LEE", ""), model.SourceCensusTract},
		{"zip named", enriched("3", model.ACSZip, "ANA", "LEE", "07030"), model.SourceZipCode},
		{"bg geo only", enriched("4", model.ACSBlockGroup, "", "", "07030"), model.SourceBlockGroupGeoOnly},
		{"ct geo only", enriched("5", model.ACSTract, "NULL", "N/A", ""), model.SourceCensusTractGeoOnly},
		{"zip geo only", enriched("6", model.ACSZip, "", "", ""), model.SourceZipCodeGeoOnly},
		{"bisg", enriched("7", model.ACSNone, "", "LEE", "07030"), model.SourceBISG},
		{"surname without zip", enriched("8", model.ACSNone, "", "LEE", ""), model.SourceNameOnly},
		{"first name only", enriched("9", model.ACSNone, "ANA", "", "07030"), model.SourceNameOnly},
		{"nothing", enriched("10", model.ACSNone, "", "", "07030"), model.SourceNoProxy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assign(tt.rec))
		})
	}
}

func TestPartition_Complete(t *testing.T) {
	srcs := []model.ACSSource{model.ACSNone, model.ACSBlockGroup, model.ACSTract, model.ACSZip}
	names := []string{"", "NONE", "LEE"}
	zips := []string{"", "07030"}

	var recs []model.EnrichedRecord
	for _, s := range srcs {
		for _, first := range names {
			for _, last := range names {
				for _, z := range zips {
					recs = append(recs, enriched(fmt.Sprint(len(recs)), s, first, last, z))
				}
			}
		}
	}

	parts := Partition(recs)
	seen := make(map[int]int)
	for src, idx := range parts {
		assert.Contains(t, model.Sources, src)
		for _, i := range idx {
			seen[i]++
		}
	}
	require.Len(t, seen, len(recs))
	for i, n := range seen {
		assert.Equal(t, 1, n, "record %d in %d buckets", i, n)
	}
}

func TestResolve_EveryRecordOneResult(t *testing.T) {
	m, f := newModels()
	recs := []model.EnrichedRecord{
		enriched("bg", model.ACSBlockGroup, "ANA", "LEE", "07030"),
		enriched("ct", model.ACSTract, "ANA", "", ""),
		enriched("zip", model.ACSZip, "", "LEE", ""),
		enriched("bg-geo", model.ACSBlockGroup, "", "", ""),
		enriched("ct-geo", model.ACSTract, "", "", ""),
		enriched("zip-geo", model.ACSZip, "", "", ""),
		enriched("bisg", model.ACSNone, "", "LEE", "07030"),
		enriched("name", model.ACSNone, "ANA", "", ""),
		enriched("none", model.ACSNone, "", "", ""),
	}

	got, err := NewCascade(m, 3).Resolve(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, got, len(recs))

	want := []struct {
		src   model.Source
		label string
	}{
		{model.SourceBlockGroup, "WHITE"},
		{model.SourceCensusTract, "BLACK"},
		{model.SourceZipCode, "HISPANIC"},
		{model.SourceBlockGroupGeoOnly, "WHITE"},
		{model.SourceCensusTractGeoOnly, "BLACK"},
		{model.SourceZipCodeGeoOnly, "HISPANIC"},
		{model.SourceBISG, "AAPI"},
		{model.SourceNameOnly, "WHITE"},
		{model.SourceNoProxy, ""},
	}
	for i, w := range want {
		assert.Equal(t, recs[i].Record.ID, got[i].ID)
		assert.Equal(t, w.src, got[i].Source, got[i].ID)
		assert.Equal(t, w.label, got[i].Label, got[i].ID)
	}
	assert.Nil(t, got[8].Probabilities)

	// Each classifier is called once per bucket it serves.
	assert.ElementsMatch(t, []Mode{ModeFull, ModeGeoOnly, ModeNameOnly}, f.bg.modes())
	assert.ElementsMatch(t, []Mode{ModeFull, ModeGeoOnly}, f.ct.modes())
	assert.ElementsMatch(t, []Mode{ModeFull, ModeGeoOnly}, f.zip.modes())
	assert.Equal(t, []Mode{ModeFull}, f.bisg.modes())
}

func TestResolve_FeaturesRestricted(t *testing.T) {
	m, f := newModels()
	recs := []model.EnrichedRecord{
		enriched("bg", model.ACSBlockGroup, "ANA", "LEE", "07030"),
		enriched("bg-geo", model.ACSBlockGroup, "", "", ""),
		enriched("name", model.ACSNone, "ANA", "", ""),
	}
	_, err := NewCascade(m, 1).Resolve(context.Background(), recs)
	require.NoError(t, err)

	byMode := map[Mode][]Features{}
	for _, c := range f.bg.calls {
		byMode[c.mode] = c.rows
	}

	full := byMode[ModeFull][0]
	assert.Equal(t, "ANA", full.FirstName)
	assert.Equal(t, map[string]float64{"B01": 1}, full.Attributes, "only the model's columns")
	assert.Equal(t, "34017018400", full.GEOID)

	geo := byMode[ModeGeoOnly][0]
	assert.Empty(t, geo.FirstName)
	assert.Empty(t, geo.LastName)
	assert.Equal(t, map[string]float64{"B01": 1}, geo.Attributes)

	name := byMode[ModeNameOnly][0]
	assert.Equal(t, "ANA", name.FirstName)
	assert.Empty(t, name.GEOID)
	assert.Nil(t, name.Attributes)
}

func TestResolve_GeoOnlyWithoutNames(t *testing.T) {
	m, _ := newModels()
	recs := []model.EnrichedRecord{enriched("r", model.ACSTract, "", "", "07030")}

	got, err := NewCascade(m, 2).Resolve(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, model.SourceCensusTractGeoOnly, got[0].Source)
	assert.NotEqual(t, model.SourceCensusTract, got[0].Source)
}

func TestResolve_BISGMissFallsThrough(t *testing.T) {
	t.Run("to name only", func(t *testing.T) {
		m, f := newModels()
		f.bisg.miss["r"] = true
		recs := []model.EnrichedRecord{enriched("r", model.ACSNone, "", "LEE", "99999")}

		got, err := NewCascade(m, 2).Resolve(context.Background(), recs)
		require.NoError(t, err)
		assert.Equal(t, model.SourceNameOnly, got[0].Source)
		assert.Equal(t, "WHITE", got[0].Label)
	})

	t.Run("to no proxy when name-only also misses", func(t *testing.T) {
		m, f := newModels()
		f.bisg.miss["r"] = true
		f.bg.miss["r"] = true
		recs := []model.EnrichedRecord{enriched("r", model.ACSNone, "", "LEE", "99999")}

		got, err := NewCascade(m, 2).Resolve(context.Background(), recs)
		require.NoError(t, err)
		assert.Equal(t, model.NoProxy("r"), got[0])
	})

	t.Run("name-only runs once with both groups", func(t *testing.T) {
		m, f := newModels()
		f.bisg.miss["b"] = true
		recs := []model.EnrichedRecord{
			enriched("a", model.ACSNone, "ANA", "", ""),
			enriched("b", model.ACSNone, "", "LEE", "07030"),
		}

		_, err := NewCascade(m, 2).Resolve(context.Background(), recs)
		require.NoError(t, err)
		require.Len(t, f.bg.calls, 1)
		ids := []string{f.bg.calls[0].rows[0].ID, f.bg.calls[0].rows[1].ID}
		assert.Equal(t, []string{"a", "b"}, ids)
	})
}

func TestResolve_GeoMissWithoutName(t *testing.T) {
	m, f := newModels()
	f.zip.miss["r"] = true
	recs := []model.EnrichedRecord{enriched("r", model.ACSZip, "", "", "")}

	got, err := NewCascade(m, 1).Resolve(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, model.SourceNoProxy, got[0].Source)
}

func TestResolve_MissingClassifier(t *testing.T) {
	m, _ := newModels()
	m.BISG = nil
	recs := []model.EnrichedRecord{enriched("r", model.ACSNone, "", "LEE", "07030")}

	_, err := NewCascade(m, 1).Resolve(context.Background(), recs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingClassifier))

	// Unused buckets may be unconfigured.
	got, err := NewCascade(Models{}, 1).Resolve(context.Background(), []model.EnrichedRecord{
		enriched("n", model.ACSNone, "", "", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SourceNoProxy, got[0].Source)
}

func TestResolve_PredictionMismatch(t *testing.T) {
	short := ClassifierFunc(func(_ context.Context, _ Mode, rows []Features) ([]Prediction, error) {
		return []Prediction{{ID: rows[0].ID}}, nil
	})
	wrongID := ClassifierFunc(func(_ context.Context, _ Mode, rows []Features) ([]Prediction, error) {
		out := make([]Prediction, len(rows))
		for i := range rows {
			out[i] = Prediction{ID: "x"}
		}
		return out, nil
	})

	recs := []model.EnrichedRecord{
		enriched("a", model.ACSTract, "ANA", "", ""),
		enriched("b", model.ACSTract, "BO", "", ""),
	}
	for name, c := range map[string]Classifier{"short": short, "wrong id": wrongID} {
		t.Run(name, func(t *testing.T) {
			m, _ := newModels()
			m.CensusTract.Classifier = c
			_, err := NewCascade(m, 1).Resolve(context.Background(), recs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrPredictionMismatch))
		})
	}
}

func TestResolve_ClassifierError(t *testing.T) {
	m, f := newModels()
	f.ct.err = errors.New("model server down")
	recs := []model.EnrichedRecord{enriched("a", model.ACSTract, "ANA", "", "")}

	_, err := NewCascade(m, 1).Resolve(context.Background(), recs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model server down")
}
