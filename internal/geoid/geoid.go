// Package geoid assembles Census GEOIDs from matched geography codes.
package geoid

import (
	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/normalize"
)

// GEOID widths.
const (
	TractLen      = 11 // state(2) + county(3) + tract(6)
	BlockGroupLen = 12 // tract + block group(1)
	ZipLen        = 5
)

// Build fills the GEOID fields of g. A tract GEOID is kept only when it is
// exactly 11 characters and a block-group GEOID only when it is exactly 12
// and extends the tract. The zip GEOID falls back to the record's own zip.
// GEOID is the first non-empty of block group, tract and zip.
func Build(rec model.InputRecord, g model.ResolvedGeography) model.ResolvedGeography {
	g.GEOIDTract, g.GEOIDBlockGroup, g.GEOIDZip, g.GEOID = "", "", "", ""

	if g.StateFP != "" && g.CountyFP != "" && g.TractCE != "" {
		if ct := g.StateFP + g.CountyFP + g.TractCE; len(ct) == TractLen {
			g.GEOIDTract = ct
			if bg := ct + g.BlockGroupCE; g.BlockGroupCE != "" && len(bg) == BlockGroupLen {
				g.GEOIDBlockGroup = bg
			}
		}
	}

	switch {
	case len(g.ZCTA) == ZipLen:
		g.GEOIDZip = g.ZCTA
	default:
		if z := normalize.Zip(rec.Zip); len(z) == ZipLen {
			g.GEOIDZip = z
		}
	}

	switch {
	case g.GEOIDBlockGroup != "":
		g.GEOID = g.GEOIDBlockGroup
	case g.GEOIDTract != "":
		g.GEOID = g.GEOIDTract
	default:
		g.GEOID = g.GEOIDZip
	}
	return g
}

// Override returns the geography a record supplies itself: a 12-digit block
// group or an 11-digit census tract. ok is false when neither is usable.
func Override(rec model.InputRecord) (model.ResolvedGeography, bool) {
	g := model.ResolvedGeography{ID: rec.ID, Level: model.MatchOverride, Rank: -1}

	if bg := normalize.Digits(rec.BlockGroup); len(bg) == BlockGroupLen {
		g.StateFP, g.CountyFP, g.TractCE, g.BlockGroupCE = bg[:2], bg[2:5], bg[5:11], bg[11:]
		return g, true
	}
	if ct := normalize.Digits(rec.CensusTract); len(ct) == TractLen {
		g.StateFP, g.CountyFP, g.TractCE = ct[:2], ct[2:5], ct[5:]
		return g, true
	}
	return model.ResolvedGeography{}, false
}
