// Package pipeline runs records through normalization, geocoding, the
// attribute merge and the proxy resolver, and records each run.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/acs"
	"github.com/zestai/zrp/internal/geocode"
	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/normalize"
	"github.com/zestai/zrp/internal/proxy"
	"github.com/zestai/zrp/internal/records"
	"github.com/zestai/zrp/internal/store"
)

// Commands recorded in the run store.
const (
	CommandRun     = "run"
	CommandGeocode = "geocode"
)

// Deps are the stages a Pipeline is assembled from. Store may be nil, in
// which case runs are not recorded. Tables and Resolver are only needed by
// Run.
type Deps struct {
	Normalizer *normalize.AddressNormalizer
	Geocoder   *geocode.Geocoder
	Tables     acs.Tables
	Resolver   proxy.Resolver
	Store      store.Store
}

// Pipeline orchestrates the stages over one batch of records.
type Pipeline struct {
	normalizer *normalize.AddressNormalizer
	geocoder   *geocode.Geocoder
	tables     acs.Tables
	resolver   proxy.Resolver
	store      store.Store
}

// New returns a Pipeline. A nil normalizer uses the default mappings.
func New(d Deps) *Pipeline {
	if d.Normalizer == nil {
		d.Normalizer = normalize.New(nil)
	}
	return &Pipeline{
		normalizer: d.Normalizer,
		geocoder:   d.Geocoder,
		tables:     d.Tables,
		resolver:   d.Resolver,
		store:      d.Store,
	}
}

// Result is everything a run produced, in input order.
type Result struct {
	RunID       string
	Records     []model.InputRecord
	Geographies []model.ResolvedGeography
	Enriched    []model.EnrichedRecord
	Proxies     []model.ProxyResult
	Readout     *model.Readout
}

// Run normalizes, geocodes, enriches and scores recs. input names the
// batch in the run store.
func (p *Pipeline) Run(ctx context.Context, input string, recs []model.InputRecord) (*Result, error) {
	if p.resolver == nil {
		return nil, eris.New("pipeline: no resolver configured")
	}
	return p.track(ctx, CommandRun, input, func(res *Result) error {
		enriched, err := acs.Merge(res.Records, res.Geographies, p.tables)
		if err != nil {
			return eris.Wrap(err, "pipeline: attribute merge")
		}
		res.Enriched = enriched

		proxies, err := p.resolver.Resolve(ctx, enriched)
		if err != nil {
			return eris.Wrap(err, "pipeline: resolve proxies")
		}
		res.Proxies = proxies
		return nil
	}, recs)
}

// Geocode normalizes and geocodes recs without scoring them.
func (p *Pipeline) Geocode(ctx context.Context, input string, recs []model.InputRecord) (*Result, error) {
	return p.track(ctx, CommandGeocode, input, nil, recs)
}

// track runs the shared front half of the pipeline, then rest, and records
// the outcome.
func (p *Pipeline) track(ctx context.Context, command, input string, rest func(*Result) error, recs []model.InputRecord) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("command", command))

	if p.geocoder == nil {
		return nil, eris.New("pipeline: no geocoder configured")
	}
	if err := records.Validate(recs); err != nil {
		return nil, err
	}

	res := &Result{}
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, command, input)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		res.RunID = run.ID
	}

	err := p.stages(ctx, res, rest, recs)
	if err != nil {
		log.Error("run failed", zap.String("run_id", res.RunID), zap.Error(err))
		if p.store != nil {
			if ferr := p.store.FailRun(ctx, res.RunID, err); ferr != nil {
				log.Warn("failed to record run failure", zap.Error(ferr))
			}
		}
		return nil, err
	}

	res.Readout = BuildReadout(res.Records, res.Geographies, res.Enriched, res.Proxies)
	LogReadout(log, res.Readout)

	if p.store != nil {
		if err := p.store.CompleteRun(ctx, res.RunID, res.Readout); err != nil {
			return nil, eris.Wrap(err, "pipeline: complete run")
		}
	}
	log.Info("run complete", zap.String("run_id", res.RunID), zap.Int("records", len(recs)))
	return res, nil
}

func (p *Pipeline) stages(ctx context.Context, res *Result, rest func(*Result) error, recs []model.InputRecord) error {
	res.Records = make([]model.InputRecord, len(recs))
	for i, r := range recs {
		res.Records[i] = p.normalizer.Record(r)
	}

	geos, err := p.geocoder.Geocode(ctx, res.Records)
	if err != nil {
		return eris.Wrap(err, "pipeline: geocode")
	}
	res.Geographies = geos

	if rest == nil {
		return nil
	}
	return rest(res)
}
