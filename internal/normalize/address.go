// Package normalize cleans caller-supplied addresses and names and expands a
// street address into ranked variants for the geographic matcher.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/zestai/zrp/internal/model"
)

// Variant ranks. Lower ranks lose less information and are tried first.
const (
	RankBase        = 0
	RankMapped      = 10
	RankTrimmed     = 15
	RankStripped    = 20
	RankDirectional = 100
)

// Variant is one candidate spelling of a street address.
type Variant struct {
	Street string
	Rank   int
}

// Normalizer expands a street address into ranked variants.
type Normalizer interface {
	Variants(street string) []Variant
}

// AddressNormalizer applies USPS token mappings to produce variants. It is
// safe for concurrent use once constructed.
type AddressNormalizer struct {
	m     *Mappings
	units map[string]bool
}

// New returns an AddressNormalizer backed by m. A nil m uses DefaultMappings.
func New(m *Mappings) *AddressNormalizer {
	if m == nil {
		m = DefaultMappings()
	}
	units := make(map[string]bool, len(unitTokens)+len(m.UnitDesignators))
	for k := range unitTokens {
		units[k] = true
	}
	for _, v := range m.UnitDesignators {
		units[v] = true
	}
	return &AddressNormalizer{m: m, units: units}
}

var (
	reAttachedNumber = regexp.MustCompile(`^[0-9]{1,6}[A-Z]{1,3}`)
	reLongNumber     = regexp.MustCompile(` [0-9]{4,7} `)
)

// Variants returns the ranked variants of street, lowest rank first. The
// cleaned base form is always first. Duplicates keep their lowest rank.
func (n *AddressNormalizer) Variants(street string) []Variant {
	base := Clean(street)
	if base == "" {
		return nil
	}

	head := street
	if i := strings.Index(street, "-"); i > 0 {
		head = street[:i]
	}
	mapped := n.mapTokens(base)
	split := n.mapTokens(Clean(head))
	trimmed := n.dropUnit(n.mapTokens(Clean(markUnits(head))))

	forms := []Variant{
		{Street: base, Rank: RankBase},
		{Street: mapped, Rank: RankMapped},
		{Street: split, Rank: RankMapped},
		{Street: trimmed, Rank: RankTrimmed},
		{Street: StripNumbers(trimmed), Rank: RankStripped},
	}

	out := make([]Variant, 0, len(forms)*2)
	seen := make(map[string]bool, len(forms)*2)
	add := func(s string, rank int) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, Variant{Street: s, Rank: rank})
	}
	for _, f := range forms {
		add(f.Street, f.Rank)
	}
	for _, f := range forms {
		add(n.mapDirections(f.Street), f.Rank+RankDirectional)
	}
	return out
}

// State returns the USPS abbreviation for a state name or abbreviation.
// Unknown values are returned cleaned, missing values as "".
func (n *AddressNormalizer) State(s string) string {
	if model.IsMissing(s) {
		return ""
	}
	c := Clean(s)
	if abbr, ok := n.m.States[c]; ok {
		return abbr
	}
	return c
}

func (n *AddressNormalizer) mapTokens(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if v, ok := n.m.UnitDesignators[tok]; ok {
			tokens[i] = v
		} else if v, ok := n.m.StreetSuffixes[tok]; ok {
			tokens[i] = v
		}
	}
	return strings.Join(tokens, " ")
}

func (n *AddressNormalizer) mapDirections(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if v, ok := n.m.Directionals[tok]; ok {
			tokens[i] = v
		}
	}
	return strings.Join(tokens, " ")
}

// markUnits turns a bare "#" into a UNIT token so "MAIN ST #4" trims like
// "MAIN ST UNIT 4".
func markUnits(s string) string {
	return strings.ReplaceAll(s, "#", " UNIT ")
}

// dropUnit removes a trailing unit segment ("APT 4B") but never the first token.
func (n *AddressNormalizer) dropUnit(s string) string {
	tokens := strings.Fields(s)
	for i := 1; i < len(tokens); i++ {
		if n.units[tokens[i]] {
			return strings.Join(tokens[:i], " ")
		}
	}
	return s
}

// StripNumbers removes numbers that are not part of the street name: a
// leading number with a short letter suffix and standalone 4-7 digit tokens.
func StripNumbers(s string) string {
	s = reAttachedNumber.ReplaceAllString(s, "")
	s = reLongNumber.ReplaceAllString(" "+s+" ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Clean uppercases s, folds accents, drops apostrophes and replaces any
// other non-alphanumeric character with a space. Whitespace is collapsed.
func Clean(s string) string {
	return clean(s, true)
}

// Name cleans a person name. Digits are removed as well. Placeholder values
// return "".
func Name(s string) string {
	if model.IsMissing(s) {
		return ""
	}
	return clean(s, false)
}

func clean(s string, digits bool) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = strings.ToUpper(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\'' || r == '’':
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case digits && r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
