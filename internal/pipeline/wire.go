package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/acs"
	"github.com/zestai/zrp/internal/bisg"
	"github.com/zestai/zrp/internal/config"
	"github.com/zestai/zrp/internal/db"
	"github.com/zestai/zrp/internal/geocode"
	"github.com/zestai/zrp/internal/lookup"
	"github.com/zestai/zrp/internal/normalize"
	"github.com/zestai/zrp/internal/proxy"
	"github.com/zestai/zrp/internal/resilience"
	"github.com/zestai/zrp/internal/store"
	"github.com/zestai/zrp/internal/tabular"
	"github.com/zestai/zrp/pkg/modelclient"
)

// FromConfig assembles a Pipeline for command from cfg. Lookup and
// attribute tables come from Postgres when geo.database_url is set and from
// files otherwise. For CommandGeocode only the matcher is built. The
// returned close func releases the database pool and is never nil.
func FromConfig(ctx context.Context, cfg *config.Config, command string, st store.Store) (*Pipeline, func(), error) {
	log := zap.L().With(zap.String("component", "pipeline.wire"))
	noop := func() {}

	if err := cfg.Validate(command); err != nil {
		return nil, noop, err
	}

	na := tabular.NewNA(cfg.NAValues...)
	mappings, err := normalize.LoadMappings(cfg.Geo.MappingFile)
	if err != nil {
		return nil, noop, err
	}
	norm := normalize.New(mappings)

	var pool db.Pool
	closeFn := noop
	if cfg.Geo.DatabaseURL != "" {
		pgPool, err := db.Connect(ctx, cfg.Geo.DatabaseURL)
		if err != nil {
			return nil, noop, eris.Wrap(err, "pipeline: connect lookup database")
		}
		pool = pgPool
		closeFn = pgPool.Close
	}

	var catalog *lookup.Catalog
	if pool != nil {
		catalog = lookup.PostgresCatalog(pool, cfg.Geo.TablePrefix, lookup.AllStateFIPS(), na)
	} else {
		catalog, err = lookup.DiscoverDir(cfg.Geo.LookupDir, cfg.Geo.Year, na)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
	}
	log.Info("lookup catalog ready", zap.Strings("states", catalog.States()))

	d := Deps{
		Normalizer: norm,
		Geocoder:   geocode.NewGeocoder(catalog, geocode.NewRangeMatcher(norm), cfg.Geo.Concurrency),
		Store:      st,
	}
	if command == CommandGeocode {
		return New(d), closeFn, nil
	}

	d.Tables, err = acs.LoadAll(ctx, acs.Sources{
		BlockGroup:  tabular.SourceFor(cfg.ACS.BlockGroupPath, cfg.ACS.BlockGroupTable, pool, na),
		CensusTract: tabular.SourceFor(cfg.ACS.CensusTractPath, cfg.ACS.CensusTractTable, pool, na),
		ZipCode:     tabular.SourceFor(cfg.ACS.ZipCodePath, cfg.ACS.ZipCodeTable, pool, na),
	}, na)
	if err != nil {
		closeFn()
		return nil, noop, err
	}

	bisgModel, err := bisg.Load(ctx,
		tabular.FilePath{Path: cfg.BISG.SurnamePath, NA: na},
		tabular.FilePath{Path: cfg.BISG.GeographyPath, NA: na},
		na,
	)
	if err != nil {
		closeFn()
		return nil, noop, err
	}

	d.Resolver = proxy.NewCascade(proxy.Models{
		BlockGroup:  modelSpec("block_group", cfg.Models.BlockGroup, cfg.Models),
		CensusTract: modelSpec("census_tract", cfg.Models.CensusTract, cfg.Models),
		ZipCode:     modelSpec("zip_code", cfg.Models.ZipCode, cfg.Models),
		BISG:        bisgModel,
	}, cfg.Resolver.Concurrency)

	return New(d), closeFn, nil
}

func modelSpec(name string, mc config.ModelConfig, shared config.ModelsConfig) proxy.ModelSpec {
	timeout := time.Duration(shared.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := modelclient.New(mc.URL,
		modelclient.WithName(name),
		modelclient.WithHTTPClient(&http.Client{Timeout: timeout}),
		modelclient.WithBatchSize(shared.BatchSize),
		modelclient.WithRateLimit(shared.RPS),
		modelclient.WithRetry(resilience.DefaultPolicy().WithAttempts(shared.MaxRetries)),
	)
	return proxy.ModelSpec{Classifier: client, Columns: mc.Features}
}
