// Package geocode links normalized addresses to Census geographies by
// joining street variants against per-state address-range tables.
package geocode

import (
	"github.com/zestai/zrp/internal/lookup"
	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/normalize"
)

// Matcher resolves one normalized record against one state's lookup table.
// Implementations are pure: the same inputs always give the same result.
type Matcher interface {
	Match(rec model.InputRecord, t *lookup.Table) model.ResolvedGeography
}

// Candidate is a lookup entry joined to a record, with the outcome of each
// match tier.
type Candidate struct {
	Entry  model.LookupEntry
	Zip    bool
	HN     bool
	Parity bool
}

// RangeMatcher matches on street name, then zip, then house-number range,
// then parity.
type RangeMatcher struct {
	norm normalize.Normalizer
}

// NewRangeMatcher returns a matcher that expands streets with n.
func NewRangeMatcher(n normalize.Normalizer) *RangeMatcher {
	return &RangeMatcher{norm: n}
}

// Match tries each street variant in rank order. The first variant that
// reaches the house-number tier wins outright. Otherwise the strongest tier
// reached by any variant wins, and among equals the lowest rank.
func (m *RangeMatcher) Match(rec model.InputRecord, t *lookup.Table) model.ResolvedGeography {
	ungeocoded := model.ResolvedGeography{ID: rec.ID, Level: model.MatchNone, Rank: -1}
	if t == nil {
		return ungeocoded
	}

	hn := normalize.ParseHouseNumber(rec.HouseNumber)

	var (
		bestLevel = model.MatchNone
		bestRows  []model.LookupEntry
		bestRank  = -1
	)
	for _, v := range m.norm.Variants(rec.StreetAddress) {
		entries := t.Street(v.Street)
		if len(entries) == 0 {
			continue
		}
		level, rows := Bucket(Join(entries, rec.Zip, hn))
		if level >= model.MatchHouseNumber {
			return Resolve(rec.ID, level, v.Rank, rows)
		}
		if level > bestLevel {
			bestLevel, bestRows, bestRank = level, rows, v.Rank
		}
	}

	if bestLevel == model.MatchNone {
		return ungeocoded
	}
	return Resolve(rec.ID, bestLevel, bestRank, bestRows)
}

// Join evaluates the zip, house-number and parity tiers for each entry. The
// house-number tier only applies to zip-matched entries and parity only to
// house-number matches.
func Join(entries []model.LookupEntry, zip string, hn model.HouseNumber) []Candidate {
	out := make([]Candidate, len(entries))
	for i, e := range entries {
		c := Candidate{Entry: e}
		c.Zip = zip != "" && (zip == e.Zip || zip == e.ZCTA)
		if c.Zip {
			c.HN = InRange(hn, e)
		}
		if c.HN {
			c.Parity = hn.Number%2 == e.Low().Number%2
		}
		out[i] = c
	}
	return out
}

// InRange reports whether hn lies within the entry's range and carries the
// same non-numeric prefix.
func InRange(hn model.HouseNumber, e model.LookupEntry) bool {
	lo, hi := e.Low(), e.High()
	if !hn.Valid || !lo.Valid || !hi.Valid {
		return false
	}
	if hn.Prefix != lo.Prefix {
		return false
	}
	return lo.Number <= hn.Number && hn.Number <= hi.Number
}

// Bucket returns the strongest non-empty tier: parity, house number, zip,
// or street only.
func Bucket(cands []Candidate) (model.MatchLevel, []model.LookupEntry) {
	var parity, hn, zip []model.LookupEntry
	street := make([]model.LookupEntry, 0, len(cands))
	for _, c := range cands {
		street = append(street, c.Entry)
		if c.Zip {
			zip = append(zip, c.Entry)
		}
		if c.HN {
			hn = append(hn, c.Entry)
		}
		if c.Parity {
			parity = append(parity, c.Entry)
		}
	}
	switch {
	case len(parity) > 0:
		return model.MatchParity, parity
	case len(hn) > 0:
		return model.MatchHouseNumber, hn
	case len(zip) > 0:
		return model.MatchZip, zip
	case len(street) > 0:
		return model.MatchStreet, street
	default:
		return model.MatchNone, nil
	}
}

// Resolve collapses a bucket to one geography by majority vote. County is
// voted first, tract only among rows in the winning county and block group
// only among rows in the winning tract, so the result never pairs a tract
// with a county it does not belong to. House-number tiers yield block
// group, tract and zip; the zip tier yields zip and county; the street tier
// yields county only.
func Resolve(id string, level model.MatchLevel, rank int, rows []model.LookupEntry) model.ResolvedGeography {
	g := model.ResolvedGeography{ID: id, Level: level, Rank: rank}
	if len(rows) == 0 {
		g.Level, g.Rank = model.MatchNone, -1
		return g
	}

	g.StateFP = Vote(rows, func(e model.LookupEntry) string { return e.StateFP })
	inState := filter(rows, func(e model.LookupEntry) bool { return e.StateFP == g.StateFP })
	g.CountyFP = Vote(inState, func(e model.LookupEntry) string { return e.CountyFP })

	if level >= model.MatchZip {
		g.ZCTA = Vote(rows, func(e model.LookupEntry) string { return e.ZCTA })
	}
	if level >= model.MatchHouseNumber && g.CountyFP != "" {
		inCounty := filter(inState, func(e model.LookupEntry) bool { return e.CountyFP == g.CountyFP })
		g.TractCE = Vote(inCounty, func(e model.LookupEntry) string { return e.TractCE })
		if g.TractCE != "" {
			inTract := filter(inCounty, func(e model.LookupEntry) bool { return e.TractCE == g.TractCE })
			g.BlockGroupCE = Vote(inTract, func(e model.LookupEntry) string { return e.BlockGroupCE })
		}
	}
	return g
}

// Vote returns the most frequent non-empty value of field across rows. Ties
// go to the value seen first.
func Vote(rows []model.LookupEntry, field func(model.LookupEntry) string) string {
	counts := make(map[string]int, len(rows))
	var order []string
	for _, r := range rows {
		v := field(r)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestN := "", 0
	for _, v := range order {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best
}

func filter(rows []model.LookupEntry, keep func(model.LookupEntry) bool) []model.LookupEntry {
	out := make([]model.LookupEntry, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
