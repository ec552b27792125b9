package proxy

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zestai/zrp/internal/model"
)

// Resolver turns enriched records into proxy results, one per record, in
// input order.
type Resolver interface {
	Resolve(ctx context.Context, recs []model.EnrichedRecord) ([]model.ProxyResult, error)
}

// Models holds the classifiers the cascade calls. The block-group model
// also serves name-only rows.
type Models struct {
	BlockGroup  ModelSpec
	CensusTract ModelSpec
	ZipCode     ModelSpec
	BISG        Classifier
}

// Cascade is the nine-way resolver. Buckets one through seven are scored
// concurrently; name-only rows are scored after BISG so that BISG misses
// can join them.
type Cascade struct {
	models      Models
	concurrency int
}

// NewCascade returns a Cascade. Concurrency below one is treated as one.
func NewCascade(m Models, concurrency int) *Cascade {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Cascade{models: m, concurrency: concurrency}
}

// Assign returns the bucket a record starts in. SourceNameOnly and
// SourceNoProxy are also reached later by records whose BISG or geography
// prediction comes back empty.
func Assign(r model.EnrichedRecord) model.Source {
	named := r.Record.HasAnyName()
	switch r.ACSSource {
	case model.ACSBlockGroup:
		if named {
			return model.SourceBlockGroup
		}
		return model.SourceBlockGroupGeoOnly
	case model.ACSTract:
		if named {
			return model.SourceCensusTract
		}
		return model.SourceCensusTractGeoOnly
	case model.ACSZip:
		if named {
			return model.SourceZipCode
		}
		return model.SourceZipCodeGeoOnly
	}
	if r.Record.HasSurname() && !model.IsMissing(r.Record.Zip) {
		return model.SourceBISG
	}
	if named {
		return model.SourceNameOnly
	}
	return model.SourceNoProxy
}

// Partition groups record indexes by starting bucket, keeping input order
// within each bucket.
func Partition(recs []model.EnrichedRecord) map[model.Source][]int {
	out := make(map[model.Source][]int, len(model.Sources))
	for i, r := range recs {
		s := Assign(r)
		out[s] = append(out[s], i)
	}
	return out
}

// bucket describes how one source is scored.
type bucket struct {
	source     model.Source
	mode       Mode
	features   func(model.EnrichedRecord) Features
	classifier Classifier
}

func (c *Cascade) buckets() map[model.Source]bucket {
	m := c.models
	geo := func(s model.Source, spec ModelSpec, mode Mode) bucket {
		return bucket{
			source:     s,
			mode:       mode,
			classifier: spec.Classifier,
			features:   func(r model.EnrichedRecord) Features { return spec.Features(r, mode) },
		}
	}
	return map[model.Source]bucket{
		model.SourceBlockGroup:         geo(model.SourceBlockGroup, m.BlockGroup, ModeFull),
		model.SourceCensusTract:        geo(model.SourceCensusTract, m.CensusTract, ModeFull),
		model.SourceZipCode:            geo(model.SourceZipCode, m.ZipCode, ModeFull),
		model.SourceBlockGroupGeoOnly:  geo(model.SourceBlockGroupGeoOnly, m.BlockGroup, ModeGeoOnly),
		model.SourceCensusTractGeoOnly: geo(model.SourceCensusTractGeoOnly, m.CensusTract, ModeGeoOnly),
		model.SourceZipCodeGeoOnly:     geo(model.SourceZipCodeGeoOnly, m.ZipCode, ModeGeoOnly),
		model.SourceNameOnly:           geo(model.SourceNameOnly, m.BlockGroup, ModeNameOnly),
		model.SourceBISG: {
			source:     model.SourceBISG,
			mode:       ModeFull,
			classifier: m.BISG,
			features: func(r model.EnrichedRecord) Features {
				return Features{ID: r.Record.ID, LastName: r.Record.LastName, Zip: r.Record.Zip}
			},
		},
	}
}

// Resolve scores every record. A record whose classifier returns no
// probabilities falls back to name-only when it has a name and to the
// all-null sentinel otherwise, so every record gets exactly one result.
// Configuration problems (a missing classifier, a classifier returning the
// wrong rows) fail the whole batch.
func (c *Cascade) Resolve(ctx context.Context, recs []model.EnrichedRecord) ([]model.ProxyResult, error) {
	log := zap.L().With(zap.String("component", "proxy.resolver"))

	parts := Partition(recs)
	buckets := c.buckets()
	for _, s := range model.Sources {
		if s == model.SourceNoProxy || len(parts[s]) == 0 {
			continue
		}
		if buckets[s].classifier == nil {
			return nil, eris.Wrapf(ErrMissingClassifier, "%s (%d records)", s, len(parts[s]))
		}
	}

	out := make([]model.ProxyResult, len(recs))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.concurrency)
	// Sources is in priority order; the first seven are independent.
	first := model.Sources[:7]
	missed := make([][]int, len(first))
	for n, s := range first {
		n, s := n, s
		idx := parts[s]
		if len(idx) == 0 {
			continue
		}
		b := buckets[s]
		eg.Go(func() error {
			m, err := c.score(gCtx, b, recs, idx, out)
			if err != nil {
				return err
			}
			missed[n] = m
			log.Info("bucket resolved",
				zap.String("source", string(s)),
				zap.Int("records", len(idx)),
				zap.Int("fallback", len(m)),
			)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	nameOnly := append([]int(nil), parts[model.SourceNameOnly]...)
	noProxy := append([]int(nil), parts[model.SourceNoProxy]...)
	for _, m := range missed {
		for _, i := range m {
			if recs[i].Record.HasAnyName() {
				nameOnly = append(nameOnly, i)
			} else {
				noProxy = append(noProxy, i)
			}
		}
	}

	if len(nameOnly) > 0 {
		b := buckets[model.SourceNameOnly]
		if b.classifier == nil {
			return nil, eris.Wrapf(ErrMissingClassifier, "%s (%d records)", model.SourceNameOnly, len(nameOnly))
		}
		sort.Ints(nameOnly)
		m, err := c.score(ctx, b, recs, nameOnly, out)
		if err != nil {
			return nil, err
		}
		log.Info("bucket resolved",
			zap.String("source", string(model.SourceNameOnly)),
			zap.Int("records", len(nameOnly)),
			zap.Int("fallback", len(m)),
		)
		noProxy = append(noProxy, m...)
	}

	for _, i := range noProxy {
		out[i] = model.NoProxy(recs[i].Record.ID)
	}
	log.Info("records resolved", zap.Int("records", len(recs)), zap.Int("no_proxy", len(noProxy)))
	return out, nil
}

// score runs one bucket through its classifier and fills out. It returns
// the indexes whose prediction came back empty.
func (c *Cascade) score(ctx context.Context, b bucket, recs []model.EnrichedRecord, idx []int, out []model.ProxyResult) ([]int, error) {
	rows := make([]Features, len(idx))
	for n, i := range idx {
		rows[n] = b.features(recs[i])
	}

	preds, err := b.classifier.Predict(ctx, b.mode, rows)
	if err != nil {
		return nil, eris.Wrapf(err, "proxy: predict %s", b.source)
	}
	byID, err := checkPredictions(rows, preds)
	if err != nil {
		return nil, eris.Wrapf(err, "proxy: %s", b.source)
	}

	var missed []int
	for n, i := range idx {
		probs := byID[rows[n].ID]
		if len(probs) == 0 {
			missed = append(missed, i)
			continue
		}
		out[i] = model.NewProxyResult(rows[n].ID, probs, b.source)
	}
	return missed, nil
}
