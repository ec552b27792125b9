package model

import (
	"math"
	"sort"
)

// Source identifies which prediction path produced a ProxyResult.
type Source string

// Proxy sources, listed in resolver priority order.
const (
	SourceBlockGroup         Source = "source_zrp_block_group"
	SourceCensusTract        Source = "source_zrp_census_tract"
	SourceZipCode            Source = "source_zrp_zip_code"
	SourceBlockGroupGeoOnly  Source = "source_zrp_block_group_geo_only"
	SourceCensusTractGeoOnly Source = "source_zrp_census_tract_geo_only"
	SourceZipCodeGeoOnly     Source = "source_zrp_zip_code_geo_only"
	SourceBISG               Source = "source_bisg"
	SourceNameOnly           Source = "source_zrp_name_only"
	SourceNoProxy            Source = "source_no_proxy"
)

// Sources lists every proxy source in priority order.
var Sources = []Source{
	SourceBlockGroup,
	SourceCensusTract,
	SourceZipCode,
	SourceBlockGroupGeoOnly,
	SourceCensusTractGeoOnly,
	SourceZipCodeGeoOnly,
	SourceBISG,
	SourceNameOnly,
	SourceNoProxy,
}

// Classes are the target race/ethnicity classes, in output column order.
var Classes = []string{"AAPI", "AIAN", "BLACK", "HISPANIC", "WHITE"}

// ProxyResult is the final decision for one input record. Probabilities is
// nil for the all-null sentinel.
type ProxyResult struct {
	ID            string             `json:"id"`
	Probabilities map[string]float64 `json:"probabilities"`
	Label         string             `json:"label"`
	Source        Source             `json:"source"`
}

// NewProxyResult builds a result and derives its label from probs.
func NewProxyResult(id string, probs map[string]float64, src Source) ProxyResult {
	return ProxyResult{
		ID:            id,
		Probabilities: probs,
		Label:         ArgMax(probs),
		Source:        src,
	}
}

// NoProxy returns the all-null sentinel result for id.
func NoProxy(id string) ProxyResult {
	return ProxyResult{ID: id, Source: SourceNoProxy}
}

// ArgMax returns the class with the highest probability. Known classes are
// checked in Classes order, then any others alphabetically; the first one
// wins a tie. NaN values are ignored. Returns "" when probs is empty.
func ArgMax(probs map[string]float64) string {
	if len(probs) == 0 {
		return ""
	}

	order := make([]string, 0, len(probs))
	known := make(map[string]bool, len(Classes))
	for _, c := range Classes {
		known[c] = true
		if _, ok := probs[c]; ok {
			order = append(order, c)
		}
	}
	var extra []string
	for k := range probs {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	best := ""
	bestP := math.Inf(-1)
	for _, c := range order {
		p := probs[c]
		if math.IsNaN(p) {
			continue
		}
		if p > bestP {
			best, bestP = c, p
		}
	}
	return best
}
