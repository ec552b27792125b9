// Package output writes proxy results and resolved geographies.
package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/zestai/zrp/internal/model"
)

// ProxyHeader returns the proxy output columns: id, one per class, label
// and source.
func ProxyHeader() []string {
	h := make([]string, 0, len(model.Classes)+3)
	h = append(h, "id")
	h = append(h, model.Classes...)
	return append(h, "label", "source")
}

// WriteProxies writes results as CSV in the order given. Classes without a
// probability, and every class of the all-null sentinel, are left empty.
func WriteProxies(w io.Writer, results []model.ProxyResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ProxyHeader()); err != nil {
		return eris.Wrap(err, "output: write header")
	}
	for _, r := range results {
		if err := cw.Write(proxyRow(r)); err != nil {
			return eris.Wrapf(err, "output: write row %s", r.ID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "output: flush")
}

// WriteProxiesFile creates path and writes results to it.
func WriteProxiesFile(path string, results []model.ProxyResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "output: create %s", path)
	}
	if err := WriteProxies(f, results); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "output: close %s", path)
}

func proxyRow(r model.ProxyResult) []string {
	row := make([]string, 0, len(model.Classes)+3)
	row = append(row, r.ID)
	for _, c := range model.Classes {
		p, ok := r.Probabilities[c]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, strconv.FormatFloat(p, 'f', -1, 64))
	}
	return append(row, r.Label, string(r.Source))
}

type geographyRow struct {
	ID              string `csv:"id"`
	Level           string `csv:"match_level"`
	Rank            int    `csv:"variant_rank"`
	StateFP         string `csv:"statefp"`
	CountyFP        string `csv:"countyfp"`
	TractCE         string `csv:"tractce"`
	BlockGroupCE    string `csv:"blkgrpce"`
	ZCTA            string `csv:"zcta5ce"`
	GEOIDBlockGroup string `csv:"geoid_bg"`
	GEOIDTract      string `csv:"geoid_ct"`
	GEOIDZip        string `csv:"geoid_zip"`
	GEOID           string `csv:"geoid"`
}

// WriteGeographies writes one CSV row per resolved geography. The header is
// written even when geos is empty.
func WriteGeographies(w io.Writer, geos []model.ResolvedGeography) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(geographyRow{}); err != nil {
		return eris.Wrap(err, "output: write geography header")
	}
	for _, g := range geos {
		row := geographyRow{
			ID:              g.ID,
			Level:           g.Level.String(),
			Rank:            g.Rank,
			StateFP:         g.StateFP,
			CountyFP:        g.CountyFP,
			TractCE:         g.TractCE,
			BlockGroupCE:    g.BlockGroupCE,
			ZCTA:            g.ZCTA,
			GEOIDBlockGroup: g.GEOIDBlockGroup,
			GEOIDTract:      g.GEOIDTract,
			GEOIDZip:        g.GEOIDZip,
			GEOID:           g.GEOID,
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "output: write geography %s", g.ID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "output: flush geographies")
}

// WriteGeographiesFile creates path and writes geos to it.
func WriteGeographiesFile(path string, geos []model.ResolvedGeography) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "output: create %s", path)
	}
	if err := WriteGeographies(f, geos); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "output: close %s", path)
}
