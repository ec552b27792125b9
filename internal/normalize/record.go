package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zestai/zrp/internal/model"
)

var (
	reHouseNumber   = regexp.MustCompile(`^([A-Z]*)[\s\-]*([0-9]+)[\s\-]*([A-Z]*)`)
	reLeadingNumber = regexp.MustCompile(`^\s*([A-Za-z]?[0-9]+[A-Za-z]?)\s+(.+)$`)
)

// ParseHouseNumber splits a house number into prefix, numeric component and
// qualifier. "N123" gives prefix "N" and 123; "12A" gives 12 and qualifier
// "A". Values without digits come back with Valid false.
func ParseHouseNumber(s string) model.HouseNumber {
	if model.IsMissing(s) {
		return model.HouseNumber{}
	}
	raw := strings.ToUpper(strings.TrimSpace(s))
	hn := model.HouseNumber{Raw: raw}

	m := reHouseNumber.FindStringSubmatch(raw)
	if m == nil || len(m[2]) > 9 {
		return hn
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return hn
	}
	hn.Prefix = m[1]
	hn.Number = n
	hn.Qualifier = m[3]
	hn.Valid = true
	return hn
}

// SplitLeadingNumber separates a house number written at the front of a
// street line ("123 MAIN ST") from the rest. ok is false when the line does
// not start with a number.
func SplitLeadingNumber(street string) (number, rest string, ok bool) {
	m := reLeadingNumber.FindStringSubmatch(street)
	if m == nil {
		return "", street, false
	}
	return m[1], m[2], true
}

// Zip keeps the digits of s, left-pads to five and truncates ZIP+4 to the
// five-digit zip. Missing values return "".
func Zip(s string) string {
	if model.IsMissing(s) {
		return ""
	}
	d := Digits(s)
	switch {
	case d == "":
		return ""
	case len(d) < 5:
		return strings.Repeat("0", 5-len(d)) + d
	default:
		return d[:5]
	}
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Record returns a cleaned copy of r. Placeholders become "", names and city
// are cleaned, state is mapped to its USPS abbreviation and zip is reduced
// to five digits. A house number embedded in the street line is split out
// when the house number field is empty. The street itself is kept as given;
// Variants expands it later.
func (n *AddressNormalizer) Record(r model.InputRecord) model.InputRecord {
	out := model.InputRecord{
		ID:            strings.TrimSpace(r.ID),
		FirstName:     Name(r.FirstName),
		MiddleName:    Name(r.MiddleName),
		LastName:      Name(r.LastName),
		HouseNumber:   missingToEmpty(r.HouseNumber),
		StreetAddress: missingToEmpty(r.StreetAddress),
		City:          missingToEmpty(r.City),
		State:         n.State(r.State),
		Zip:           Zip(r.Zip),
		CensusTract:   Digits(missingToEmpty(r.CensusTract)),
		BlockGroup:    Digits(missingToEmpty(r.BlockGroup)),
	}
	if out.City != "" {
		out.City = Clean(out.City)
	}
	if out.HouseNumber == "" && out.StreetAddress != "" {
		if num, rest, ok := SplitLeadingNumber(out.StreetAddress); ok {
			out.HouseNumber = strings.ToUpper(num)
			out.StreetAddress = rest
		}
	}
	return out
}

func missingToEmpty(s string) string {
	if model.IsMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
