package lookup

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/db"
	"github.com/zestai/zrp/internal/tabular"
)

// ErrMissingTable is returned when a state present in the input has no
// lookup table registered.
var ErrMissingTable = eris.New("lookup: no lookup table for state")

// reFileName matches Zest_Geo_Lookup_{year}_State_{fips}.{ext}.
var reFileName = regexp.MustCompile(`(?i)^Zest_Geo_Lookup_(\d{4})_State_(\d{1,2})\.(csv|txt|tsv|xlsx)$`)

// Catalog resolves per-state lookup tables. Each table is loaded at most
// once, on first use, and shared read-only afterwards.
type Catalog struct {
	mu      sync.Mutex
	entries map[string]*catalogEntry
}

type catalogEntry struct {
	src   tabular.Source
	once  sync.Once
	table *Table
	err   error
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*catalogEntry)}
}

// Register sets the source for a state. Registering a state twice replaces
// the earlier source.
func (c *Catalog) Register(stateFIPS string, src tabular.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stateFIPS] = &catalogEntry{src: src}
}

// States returns the registered state FIPS codes, sorted.
func (c *Catalog) States() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether a source is registered for the state.
func (c *Catalog) Has(stateFIPS string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[stateFIPS]
	return ok
}

// Table returns the state's lookup table, loading it on first call. An
// unregistered state returns an error wrapping ErrMissingTable.
func (c *Catalog) Table(ctx context.Context, stateFIPS string) (*Table, error) {
	c.mu.Lock()
	e, ok := c.entries[stateFIPS]
	c.mu.Unlock()
	if !ok {
		return nil, eris.Wrapf(ErrMissingTable, "state %s", stateFIPS)
	}

	e.once.Do(func() {
		log := zap.L().With(
			zap.String("component", "lookup.catalog"),
			zap.String("state", stateFIPS),
			zap.String("source", e.src.String()),
		)
		f, err := e.src.Load(ctx)
		if err != nil {
			e.err = eris.Wrapf(err, "lookup: load state %s", stateFIPS)
			return
		}
		e.table, e.err = FromFrame(stateFIPS, f)
		if e.err == nil {
			log.Info("lookup table loaded", zap.Int("entries", e.table.Len()))
		}
	})
	return e.table, e.err
}

// DiscoverDir registers every lookup file for year found in dir. A year of
// zero accepts any year; when several years exist for a state the latest
// wins.
func DiscoverDir(dir string, year int, na *tabular.NA) (*Catalog, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: read dir %s", dir)
	}

	type found struct {
		year int
		path string
	}
	best := make(map[string]found)
	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}
		m := reFileName.FindStringSubmatch(ent.Name())
		if m == nil {
			continue
		}
		y, _ := strconv.Atoi(m[1])
		if year != 0 && y != year {
			continue
		}
		fips := Code(m[2], 2)
		if cur, ok := best[fips]; ok && cur.year >= y {
			continue
		}
		best[fips] = found{year: y, path: filepath.Join(dir, ent.Name())}
	}

	c := NewCatalog()
	for fips, f := range best {
		c.Register(fips, tabular.FilePath{Path: f.path, NA: na})
	}
	return c, nil
}

// PostgresCatalog registers one table per state, named {prefix}_{fips}.
func PostgresCatalog(pool db.Pool, prefix string, states []string, na *tabular.NA) *Catalog {
	c := NewCatalog()
	for _, fips := range states {
		c.Register(fips, tabular.PostgresTable{Pool: pool, Table: prefix + "_" + fips, NA: na})
	}
	return c
}
