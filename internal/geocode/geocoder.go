package geocode

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zestai/zrp/internal/geoid"
	"github.com/zestai/zrp/internal/lookup"
	"github.com/zestai/zrp/internal/model"
)

// Geocoder runs a Matcher over a batch of records, one worker per state.
type Geocoder struct {
	catalog     *lookup.Catalog
	matcher     Matcher
	concurrency int
}

// NewGeocoder returns a Geocoder. Concurrency below one is treated as one.
func NewGeocoder(catalog *lookup.Catalog, matcher Matcher, concurrency int) *Geocoder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Geocoder{catalog: catalog, matcher: matcher, concurrency: concurrency}
}

// Geocode resolves every record and returns one geography per record, in
// input order, with GEOIDs built. Records carrying a tract or block-group
// override skip matching. Records with an unknown state come back
// ungeocoded. A known state with no lookup table is a configuration error
// and fails the whole batch before any matching starts.
func (g *Geocoder) Geocode(ctx context.Context, recs []model.InputRecord) ([]model.ResolvedGeography, error) {
	log := zap.L().With(zap.String("component", "geocode.geocoder"))

	out := make([]model.ResolvedGeography, len(recs))
	byState := make(map[string][]int)
	for i, r := range recs {
		if o, ok := geoid.Override(r); ok {
			out[i] = o
			continue
		}
		out[i] = model.ResolvedGeography{ID: r.ID, Level: model.MatchNone, Rank: -1}
		if fips, ok := lookup.StateFIPS(r.State); ok {
			byState[fips] = append(byState[fips], i)
		}
	}

	states := make([]string, 0, len(byState))
	for fips := range byState {
		if !g.catalog.Has(fips) {
			return nil, eris.Wrapf(lookup.ErrMissingTable, "geocode: state %s (%d records)", fips, len(byState[fips]))
		}
		states = append(states, fips)
	}
	sort.Strings(states)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for _, fips := range states {
		fips := fips
		idx := byState[fips]
		eg.Go(func() error {
			tbl, err := g.catalog.Table(gCtx, fips)
			if err != nil {
				return err
			}
			matched := 0
			for _, i := range idx {
				if err := gCtx.Err(); err != nil {
					return eris.Wrap(err, "geocode: cancelled")
				}
				out[i] = g.matcher.Match(recs[i], tbl)
				if out[i].Level.Geocoded() {
					matched++
				}
			}
			log.Info("state geocoded",
				zap.String("state", fips),
				zap.Int("records", len(idx)),
				zap.Int("geocoded", matched),
			)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i] = geoid.Build(recs[i], out[i])
	}
	return out, nil
}

// Counts tallies geographies by match level.
func Counts(geos []model.ResolvedGeography) map[model.MatchLevel]int {
	out := make(map[model.MatchLevel]int)
	for _, g := range geos {
		out[g.Level]++
	}
	return out
}
