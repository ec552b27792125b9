package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zestai/zrp/internal/model"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  O'Brien-Smith  Rd. ", "OBRIEN SMITH RD"},
		{"Calle José Martí #5", "CALLE JOSE MARTI 5"},
		{"main   street", "MAIN STREET"},
		{"St. John’s Pl", "ST JOHNS PL"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Clean(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Clean(got), "clean is idempotent")
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "JOSE", Name("José"))
	assert.Equal(t, "ONEIL", Name("O'Neil"))
	assert.Equal(t, "MARY ANN", Name("Mary-Ann"))
	assert.Equal(t, "", Name("NULL"))
	assert.Equal(t, "", Name("  "))
}

func TestVariants(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name string
		in   string
		want []Variant
	}{
		{
			name: "suffix and unit",
			in:   "Main Street Apt 4",
			want: []Variant{
				{Street: "MAIN STREET APT 4", Rank: RankBase},
				{Street: "MAIN ST APT 4", Rank: RankMapped},
				{Street: "MAIN ST", Rank: RankTrimmed},
			},
		},
		{
			name: "directional",
			in:   "North Main Street",
			want: []Variant{
				{Street: "NORTH MAIN STREET", Rank: RankBase},
				{Street: "NORTH MAIN ST", Rank: RankMapped},
				{Street: "N MAIN STREET", Rank: RankBase + RankDirectional},
				{Street: "N MAIN ST", Rank: RankMapped + RankDirectional},
			},
		},
		{
			name: "segment after hyphen",
			in:   "Elm St - Unit 5",
			want: []Variant{
				{Street: "ELM ST UNIT 5", Rank: RankBase},
				{Street: "ELM ST", Rank: RankMapped},
			},
		},
		{
			name: "hyphen keeps mapped rank over unit trim",
			in:   "Main Street - Apt 4",
			want: []Variant{
				{Street: "MAIN STREET APT 4", Rank: RankBase},
				{Street: "MAIN ST APT 4", Rank: RankMapped},
				{Street: "MAIN ST", Rank: RankMapped},
			},
		},
		{
			name: "pound sign marks a unit",
			in:   "Main St #4",
			want: []Variant{
				{Street: "MAIN ST 4", Rank: RankBase},
				{Street: "MAIN ST", Rank: RankTrimmed},
			},
		},
		{
			name: "pound sign with designator",
			in:   "Oak Avenue # 12B",
			want: []Variant{
				{Street: "OAK AVENUE 12B", Rank: RankBase},
				{Street: "OAK AVE 12B", Rank: RankMapped},
				{Street: "OAK AVE", Rank: RankTrimmed},
			},
		},
		{
			name: "spanish directional",
			in:   "Calle Noreste",
			want: []Variant{
				{Street: "CALLE NORESTE", Rank: RankBase},
				{Street: "CALLE NE", Rank: RankBase + RankDirectional},
			},
		},
		{
			name: "blank",
			in:   "  ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Variants(tt.in))
		})
	}
}

func TestVariants_BaseFirstAndRanksAscending(t *testing.T) {
	n := New(nil)
	for _, in := range []string{"12th Avenue South Suite 200", "W Broadway", "Avenue of the Americas - Fl 3", "Main St #4"} {
		vs := n.Variants(in)
		require.NotEmpty(t, vs)
		assert.Equal(t, Clean(in), vs[0].Street)
		assert.Equal(t, RankBase, vs[0].Rank)
		seen := map[string]bool{}
		for i, v := range vs {
			assert.False(t, seen[v.Street], "duplicate variant %q", v.Street)
			seen[v.Street] = true
			if i > 0 {
				assert.GreaterOrEqual(t, v.Rank, vs[i-1].Rank)
			}
		}
	}
}

func TestStripNumbers(t *testing.T) {
	assert.Equal(t, "AVE", StripNumbers("12TH AVE"))
	assert.Equal(t, "MAIN ST", StripNumbers("MAIN 12345 ST"))
	assert.Equal(t, "MAIN ST", StripNumbers("MAIN ST"))
	assert.Equal(t, "ROUTE 9", StripNumbers("ROUTE 9"))
}

func TestParseHouseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want model.HouseNumber
	}{
		{"12A", model.HouseNumber{Raw: "12A", Number: 12, Qualifier: "A", Valid: true}},
		{"N123", model.HouseNumber{Raw: "N123", Prefix: "N", Number: 123, Valid: true}},
		{"w 100", model.HouseNumber{Raw: "W 100", Prefix: "W", Number: 100, Valid: true}},
		{"123-125", model.HouseNumber{Raw: "123-125", Number: 123, Valid: true}},
		{"0042", model.HouseNumber{Raw: "0042", Number: 42, Valid: true}},
		{"abc", model.HouseNumber{Raw: "ABC"}},
		{"", model.HouseNumber{}},
		{"NULL", model.HouseNumber{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHouseNumber(tt.in))
		})
	}
}

func TestSplitLeadingNumber(t *testing.T) {
	num, rest, ok := SplitLeadingNumber("123 Main St")
	assert.True(t, ok)
	assert.Equal(t, "123", num)
	assert.Equal(t, "Main St", rest)

	num, rest, ok = SplitLeadingNumber("12B Oak Ave")
	assert.True(t, ok)
	assert.Equal(t, "12B", num)
	assert.Equal(t, "Oak Ave", rest)

	_, rest, ok = SplitLeadingNumber("Main St")
	assert.False(t, ok)
	assert.Equal(t, "Main St", rest)
}

func TestZip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7030", "07030"},
		{"07030-1234", "07030"},
		{"070301234", "07030"},
		{"90210", "90210"},
		{"", ""},
		{"N/A", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Zip(tt.in))
		})
	}
}

func TestState(t *testing.T) {
	n := New(nil)
	assert.Equal(t, "NJ", n.State("New Jersey"))
	assert.Equal(t, "NJ", n.State("nj"))
	assert.Equal(t, "DC", n.State("District of Columbia"))
	assert.Equal(t, "", n.State("NULL"))
}

func TestRecord(t *testing.T) {
	n := New(nil)
	in := model.InputRecord{
		ID:            " 1 ",
		FirstName:     "José",
		LastName:      "O'Neil",
		StreetAddress: "12 Main St",
		City:          "Hoboken.",
		State:         "new jersey",
		Zip:           "7030",
		CensusTract:   "NONE",
	}

	got := n.Record(in)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "JOSE", got.FirstName)
	assert.Equal(t, "ONEIL", got.LastName)
	assert.Equal(t, "12", got.HouseNumber)
	assert.Equal(t, "Main St", got.StreetAddress)
	assert.Equal(t, "HOBOKEN", got.City)
	assert.Equal(t, "NJ", got.State)
	assert.Equal(t, "07030", got.Zip)
	assert.Empty(t, got.CensusTract)

	assert.Equal(t, got, n.Record(got), "record normalization is idempotent")
}

func TestLoadMappings(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		m, err := LoadMappings("")
		require.NoError(t, err)
		assert.Equal(t, "ST", m.StreetSuffixes["STREET"])
	})

	t.Run("file entries layered over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mappings.yaml")
		yaml := `
street_suffixes:
  calle: cl
states:
  "guam": gu
`
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

		m, err := LoadMappings(path)
		require.NoError(t, err)
		assert.Equal(t, "CL", m.StreetSuffixes["CALLE"])
		assert.Equal(t, "ST", m.StreetSuffixes["STREET"])
		assert.Equal(t, "GU", m.States["GUAM"])

		vs := New(m).Variants("Calle Sol")
		require.Len(t, vs, 2)
		assert.Equal(t, "CL SOL", vs[1].Street)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadMappings(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("street_suffixes: [oops"), 0o644))
		_, err := LoadMappings(path)
		assert.Error(t, err)
	})

	t.Run("defaults are not shared", func(t *testing.T) {
		a := DefaultMappings()
		a.StreetSuffixes["STREET"] = "X"
		assert.Equal(t, "ST", DefaultMappings().StreetSuffixes["STREET"])
	})
}
