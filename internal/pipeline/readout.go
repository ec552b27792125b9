package pipeline

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/acs"
	"github.com/zestai/zrp/internal/geocode"
	"github.com/zestai/zrp/internal/model"
)

// MissingWarnPercent is the share of missing values above which a field is
// reported as a data quality warning.
const MissingWarnPercent = 10.0

// ReadoutFields are the input fields whose missing share is reported.
var ReadoutFields = []string{
	"first_name", "middle_name", "last_name", "house_number",
	"street_address", "city", "state", "zip_code",
}

func fieldValue(r model.InputRecord, field string) string {
	switch field {
	case "first_name":
		return r.FirstName
	case "middle_name":
		return r.MiddleName
	case "last_name":
		return r.LastName
	case "house_number":
		return r.HouseNumber
	case "street_address":
		return r.StreetAddress
	case "city":
		return r.City
	case "state":
		return r.State
	case "zip_code":
		return r.Zip
	}
	return ""
}

// MissingPercent returns the percentage of recs missing each readout field,
// rounded to two decimals. An empty batch reports nothing.
func MissingPercent(recs []model.InputRecord) map[string]float64 {
	out := make(map[string]float64, len(ReadoutFields))
	if len(recs) == 0 {
		return out
	}
	for _, f := range ReadoutFields {
		n := 0
		for _, r := range recs {
			if model.IsMissing(fieldValue(r, f)) {
				n++
			}
		}
		out[f] = math.Round(10000*float64(n)/float64(len(recs))) / 100
	}
	return out
}

// BuildReadout summarizes a run. enriched and proxies may be nil for a
// geocode-only run.
func BuildReadout(recs []model.InputRecord, geos []model.ResolvedGeography, enriched []model.EnrichedRecord, proxies []model.ProxyResult) *model.Readout {
	r := &model.Readout{
		Records:     len(recs),
		Missing:     MissingPercent(recs),
		MatchLevels: make(map[string]int),
	}
	for level, n := range geocode.Counts(geos) {
		r.MatchLevels[level.String()] = n
	}
	if enriched != nil {
		r.ACSSources = make(map[string]int)
		for src, n := range acs.Counts(enriched) {
			key := string(src)
			if src == model.ACSNone {
				key = "none"
			}
			r.ACSSources[key] = n
		}
	}
	if proxies != nil {
		r.Sources = make(map[string]int)
		for _, p := range proxies {
			r.Sources[string(p.Source)]++
		}
	}
	return r
}

// Warnings returns the readout fields missing in more than
// MissingWarnPercent of records, sorted by name.
func Warnings(r *model.Readout) []string {
	var out []string
	for f, pct := range r.Missing {
		if pct > MissingWarnPercent {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// LogReadout writes the readout at info level and one warning per field
// over the missing threshold.
func LogReadout(log *zap.Logger, r *model.Readout) {
	for _, f := range Warnings(r) {
		log.Warn("field frequently missing",
			zap.String("field", f),
			zap.Float64("missing_pct", r.Missing[f]),
		)
	}
	log.Info("readout",
		zap.Int("records", r.Records),
		zap.Any("match_levels", r.MatchLevels),
		zap.Any("acs_sources", r.ACSSources),
		zap.Any("sources", r.Sources),
	)
}
