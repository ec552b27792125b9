package acs

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/tabular"
)

// Tables holds the three attribute granularities. A nil table skips its
// pass.
type Tables struct {
	BlockGroup  *Table
	CensusTract *Table
	ZipCode     *Table
}

// Sources names where each granularity is read from. A nil source leaves
// that table unset.
type Sources struct {
	BlockGroup  tabular.Source
	CensusTract tabular.Source
	ZipCode     tabular.Source
}

// LoadAll reads the three tables concurrently.
func LoadAll(ctx context.Context, srcs Sources, na *tabular.NA) (Tables, error) {
	var out Tables
	eg, gCtx := errgroup.WithContext(ctx)

	load := func(kind model.ACSSource, src tabular.Source, dst **Table) {
		if src == nil {
			return
		}
		eg.Go(func() error {
			t, err := Load(gCtx, kind, src, na)
			if err != nil {
				return err
			}
			*dst = t
			return nil
		})
	}
	load(model.ACSBlockGroup, srcs.BlockGroup, &out.BlockGroup)
	load(model.ACSTract, srcs.CensusTract, &out.CensusTract)
	load(model.ACSZip, srcs.ZipCode, &out.ZipCode)

	if err := eg.Wait(); err != nil {
		return Tables{}, err
	}
	return out, nil
}

// Merge joins attributes onto each record in three passes: block group on
// GEOID_BG, then tract on GEOID_CT, then zip on GEOID_ZIP. A record leaves
// the cascade at its first hit, so it carries attributes from exactly one
// granularity. Records that never hit keep empty attributes and ACSNone.
// recs and geos are parallel slices.
func Merge(recs []model.InputRecord, geos []model.ResolvedGeography, t Tables) ([]model.EnrichedRecord, error) {
	if len(recs) != len(geos) {
		return nil, eris.Errorf("acs: %d records but %d geographies", len(recs), len(geos))
	}
	log := zap.L().With(zap.String("component", "acs.merge"))

	out := make([]model.EnrichedRecord, len(recs))
	pending := make([]int, len(recs))
	for i := range recs {
		out[i] = model.EnrichedRecord{Record: recs[i], Geography: geos[i], ACSSource: model.ACSNone}
		pending[i] = i
	}

	passes := []struct {
		table *Table
		src   model.ACSSource
		key   func(model.ResolvedGeography) string
	}{
		{t.BlockGroup, model.ACSBlockGroup, func(g model.ResolvedGeography) string { return g.GEOIDBlockGroup }},
		{t.CensusTract, model.ACSTract, func(g model.ResolvedGeography) string { return g.GEOIDTract }},
		{t.ZipCode, model.ACSZip, func(g model.ResolvedGeography) string { return g.GEOIDZip }},
	}

	for _, p := range passes {
		if p.table == nil {
			continue
		}
		var rest []int
		for _, i := range pending {
			attrs, ok := p.table.Get(p.key(geos[i]))
			if !ok {
				rest = append(rest, i)
				continue
			}
			out[i].Attributes = attrs
			out[i].ACSSource = p.src
		}
		log.Info("attribute pass done",
			zap.String("source", string(p.src)),
			zap.Int("matched", len(pending)-len(rest)),
			zap.Int("remaining", len(rest)),
		)
		pending = rest
	}
	return out, nil
}

// Counts tallies enriched records by attribute source.
func Counts(recs []model.EnrichedRecord) map[model.ACSSource]int {
	out := make(map[model.ACSSource]int)
	for _, r := range recs {
		out[r.ACSSource]++
	}
	return out
}
