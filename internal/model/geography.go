package model

// HouseNumber is a parsed house number. "N123A" has Prefix "N", Number 123
// and Qualifier "A". Valid is false when no digits were found.
type HouseNumber struct {
	Raw       string
	Prefix    string
	Number    int
	Qualifier string
	Valid     bool
}

// LookupEntry is one row of a state's address-range lookup table.
type LookupEntry struct {
	Street       string
	From         HouseNumber
	To           HouseNumber
	Side         string // "L" or "R"
	Zip          string
	ZCTA         string
	StateFP      string
	CountyFP     string
	TractCE      string
	BlockGroupCE string
}

// Low returns the smaller bound of the entry's house-number range.
func (e LookupEntry) Low() HouseNumber {
	if e.From.Number > e.To.Number {
		return e.To
	}
	return e.From
}

// High returns the larger bound of the entry's house-number range.
func (e LookupEntry) High() HouseNumber {
	if e.From.Number > e.To.Number {
		return e.From
	}
	return e.To
}

// MatchLevel records how far down the matcher's tiers a record got.
type MatchLevel int

// Match levels from weakest to strongest.
const (
	MatchNone MatchLevel = iota
	MatchStreet
	MatchZip
	MatchHouseNumber
	MatchParity
	MatchOverride
)

func (l MatchLevel) String() string {
	switch l {
	case MatchStreet:
		return "street"
	case MatchZip:
		return "zip"
	case MatchHouseNumber:
		return "house_number"
	case MatchParity:
		return "parity"
	case MatchOverride:
		return "override"
	default:
		return "none"
	}
}

// Geocoded reports whether the level is precise enough to place a record in
// a tract.
func (l MatchLevel) Geocoded() bool {
	return l == MatchHouseNumber || l == MatchParity || l == MatchOverride
}

// ResolvedGeography is the single geography decided for one input record.
// GEOID fields are empty when unknown.
type ResolvedGeography struct {
	ID           string     `json:"id"`
	Level        MatchLevel `json:"level"`
	Rank         int        `json:"rank"` // variant rank that produced the match, -1 if none
	StateFP      string     `json:"statefp,omitempty"`
	CountyFP     string     `json:"countyfp,omitempty"`
	TractCE      string     `json:"tractce,omitempty"`
	BlockGroupCE string     `json:"blkgrpce,omitempty"`
	ZCTA         string     `json:"zcta5ce,omitempty"`

	GEOIDBlockGroup string `json:"geoid_bg,omitempty"`
	GEOIDTract      string `json:"geoid_ct,omitempty"`
	GEOIDZip        string `json:"geoid_zip,omitempty"`
	GEOID           string `json:"geoid,omitempty"`
}

// ACSSource tags which granularity supplied a record's attributes.
type ACSSource string

// Attribute granularities. ACSNone means no attribute table matched.
const (
	ACSNone       ACSSource = ""
	ACSBlockGroup ACSSource = "BG"
	ACSTract      ACSSource = "CT"
	ACSZip        ACSSource = "ZIP"
)

// EnrichedRecord is an input record joined with its geography and the
// attributes of exactly one granularity.
type EnrichedRecord struct {
	Record     InputRecord
	Geography  ResolvedGeography
	Attributes map[string]float64
	ACSSource  ACSSource
}
