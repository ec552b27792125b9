package geoid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zestai/zrp/internal/model"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		rec     model.InputRecord
		geo     model.ResolvedGeography
		wantBG  string
		wantCT  string
		wantZip string
		want    string
	}{
		{
			name:    "full match",
			rec:     model.InputRecord{Zip: "07030"},
			geo:     model.ResolvedGeography{StateFP: "34", CountyFP: "017", TractCE: "018400", BlockGroupCE: "1", ZCTA: "07030"},
			wantBG:  "340170184001",
			wantCT:  "34017018400",
			wantZip: "07030",
			want:    "340170184001",
		},
		{
			name:   "tract without block group",
			geo:    model.ResolvedGeography{StateFP: "34", CountyFP: "017", TractCE: "018400"},
			wantCT: "34017018400",
			want:   "34017018400",
		},
		{
			name:    "short tract rejected",
			rec:     model.InputRecord{Zip: "7030"},
			geo:     model.ResolvedGeography{StateFP: "34", CountyFP: "17", TractCE: "018400", BlockGroupCE: "1"},
			wantZip: "07030",
			want:    "07030",
		},
		{
			name:   "long block group rejected",
			geo:    model.ResolvedGeography{StateFP: "34", CountyFP: "017", TractCE: "018400", BlockGroupCE: "12"},
			wantCT: "34017018400",
			want:   "34017018400",
		},
		{
			name:    "zip falls back to record",
			rec:     model.InputRecord{Zip: "07030-1234"},
			geo:     model.ResolvedGeography{StateFP: "34", CountyFP: "017"},
			wantZip: "07030",
			want:    "07030",
		},
		{
			name: "nothing",
			rec:  model.InputRecord{Zip: "NULL"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.rec, tt.geo)
			assert.Equal(t, tt.wantBG, got.GEOIDBlockGroup)
			assert.Equal(t, tt.wantCT, got.GEOIDTract)
			assert.Equal(t, tt.wantZip, got.GEOIDZip)
			assert.Equal(t, tt.want, got.GEOID)
		})
	}
}

func TestBuild_Monotonic(t *testing.T) {
	// Whatever codes come in, a block group implies its tract, and GEOID is
	// always the most specific non-empty level.
	codes := []string{"", "1", "34", "017", "018400", "0184000"}
	for _, st := range codes {
		for _, co := range codes {
			for _, tr := range codes {
				for _, bg := range []string{"", "1", "12"} {
					g := Build(model.InputRecord{Zip: "07030"}, model.ResolvedGeography{
						StateFP: st, CountyFP: co, TractCE: tr, BlockGroupCE: bg,
					})
					if g.GEOIDBlockGroup != "" {
						assert.Len(t, g.GEOIDBlockGroup, BlockGroupLen)
						assert.Equal(t, g.GEOIDTract, g.GEOIDBlockGroup[:TractLen])
						assert.Equal(t, g.GEOIDBlockGroup, g.GEOID)
					} else if g.GEOIDTract != "" {
						assert.Len(t, g.GEOIDTract, TractLen)
						assert.Equal(t, g.GEOIDTract, g.GEOID)
					} else {
						assert.Equal(t, g.GEOIDZip, g.GEOID)
					}
				}
			}
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	rec := model.InputRecord{Zip: "07030"}
	g := Build(rec, model.ResolvedGeography{StateFP: "34", CountyFP: "017", TractCE: "018400", BlockGroupCE: "1"})
	assert.Equal(t, g, Build(rec, g))
}

func TestOverride(t *testing.T) {
	g, ok := Override(model.InputRecord{ID: "a", BlockGroup: "340170184001"})
	assert.True(t, ok)
	assert.Equal(t, model.MatchOverride, g.Level)
	assert.Equal(t, "34", g.StateFP)
	assert.Equal(t, "017", g.CountyFP)
	assert.Equal(t, "018400", g.TractCE)
	assert.Equal(t, "1", g.BlockGroupCE)

	g, ok = Override(model.InputRecord{ID: "b", CensusTract: "34017018400"})
	assert.True(t, ok)
	assert.Equal(t, "018400", g.TractCE)
	assert.Empty(t, g.BlockGroupCE)
	assert.Equal(t, "34017018400", Build(model.InputRecord{}, g).GEOID)

	_, ok = Override(model.InputRecord{CensusTract: "3401701840"})
	assert.False(t, ok)
	_, ok = Override(model.InputRecord{})
	assert.False(t, ok)
}
