package tabular

import (
	"math"
	"strconv"
	"strings"

	"github.com/zestai/zrp/internal/model"
)

// acsSentinels are the annotation values the Census API puts in numeric cells.
var acsSentinels = map[string]bool{
	"-666666666": true, "-999999999": true, "-888888888": true,
	"-222222222": true, "-333333333": true, "-555555555": true,
	"-666666666.0": true, "-999999999.0": true, "-888888888.0": true,
}

// NA recognizes missing-value placeholders: the built-in list, Census
// sentinels and any caller-supplied extras.
type NA struct {
	extra map[string]bool
}

// NewNA returns an NA matcher with extra placeholder values.
func NewNA(extra ...string) *NA {
	m := make(map[string]bool, len(extra))
	for _, v := range extra {
		m[strings.ToUpper(strings.TrimSpace(v))] = true
	}
	return &NA{extra: m}
}

// Is reports whether v should be treated as missing. A nil NA only applies
// the built-in list.
func (n *NA) Is(v string) bool {
	if model.IsMissing(v) {
		return true
	}
	t := strings.ToUpper(strings.TrimSpace(v))
	if acsSentinels[t] {
		return true
	}
	return n != nil && n.extra[t]
}

// Float parses v as a number. ok is false for NA values, non-numeric text,
// NaN and infinities.
func (n *NA) Float(v string) (float64, bool) {
	if n.Is(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
