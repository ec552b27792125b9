// Package model defines the records that flow through the proxy pipeline:
// caller input, lookup rows, resolved geographies, enriched records, and
// the final proxy results.
package model

import "strings"

// InputRecord is one person record as supplied by the caller. Empty strings
// mean the value is missing. Records are never mutated after normalization.
type InputRecord struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	HouseNumber   string `json:"house_number,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Zip           string `json:"zip_code,omitempty"`

	// CensusTract and BlockGroup are optional user-supplied overrides in full
	// GEOID form (11 and 12 characters). When present, geocoding is skipped.
	CensusTract string `json:"census_tract,omitempty"`
	BlockGroup  string `json:"block_group,omitempty"`
}

// placeholders are values that stand in for "missing" in caller data.
var placeholders = map[string]bool{
	"NONE": true, "NULL": true, "NAN": true, "-NAN": true, "NA": true,
	"N/A": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "<NA>": true,
	"-1.#IND": true, "1.#IND": true, "-1.#QNAN": true, "1.#QNAN": true,
	"(X)": true, "-": true,
}

// IsMissing reports whether s is blank or one of the known NA placeholders.
func IsMissing(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return true
	}
	return placeholders[strings.ToUpper(t)]
}

// HasAnyName reports whether at least one of first/middle/last name is present.
func (r InputRecord) HasAnyName() bool {
	return !IsMissing(r.FirstName) || !IsMissing(r.MiddleName) || !IsMissing(r.LastName)
}

// HasSurname reports whether the last name is present.
func (r InputRecord) HasSurname() bool {
	return !IsMissing(r.LastName)
}
