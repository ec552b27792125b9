package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"NONE", true},
		{"none", true},
		{"N/A", true},
		{"#N/A", true},
		{"(X)", true},
		{"-", true},
		{"SMITH", false},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.in))
		})
	}
}

func TestInputRecord_HasAnyName(t *testing.T) {
	assert.False(t, InputRecord{}.HasAnyName())
	assert.False(t, InputRecord{FirstName: "NONE", LastName: " "}.HasAnyName())
	assert.True(t, InputRecord{MiddleName: "ANN"}.HasAnyName())
	assert.True(t, InputRecord{LastName: "GARCIA"}.HasSurname())
	assert.False(t, InputRecord{FirstName: "ANN"}.HasSurname())
}

func TestLookupEntry_Bounds(t *testing.T) {
	e := LookupEntry{
		From: HouseNumber{Number: 98, Valid: true},
		To:   HouseNumber{Number: 10, Valid: true},
	}
	assert.Equal(t, 10, e.Low().Number)
	assert.Equal(t, 98, e.High().Number)
}

func TestMatchLevel(t *testing.T) {
	assert.Equal(t, "parity", MatchParity.String())
	assert.Equal(t, "none", MatchNone.String())
	assert.True(t, MatchHouseNumber.Geocoded())
	assert.True(t, MatchOverride.Geocoded())
	assert.False(t, MatchZip.Geocoded())
	assert.False(t, MatchStreet.Geocoded())
}

func TestArgMax(t *testing.T) {
	t.Run("picks highest", func(t *testing.T) {
		got := ArgMax(map[string]float64{"AAPI": 0.1, "BLACK": 0.6, "WHITE": 0.3})
		assert.Equal(t, "BLACK", got)
	})

	t.Run("tie goes to class order", func(t *testing.T) {
		got := ArgMax(map[string]float64{"WHITE": 0.5, "AIAN": 0.5})
		assert.Equal(t, "AIAN", got)
	})

	t.Run("ignores NaN", func(t *testing.T) {
		got := ArgMax(map[string]float64{"AAPI": math.NaN(), "HISPANIC": 0.2})
		assert.Equal(t, "HISPANIC", got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", ArgMax(nil))
	})
}

func TestNoProxy(t *testing.T) {
	r := NoProxy("k1")
	assert.Equal(t, SourceNoProxy, r.Source)
	assert.Nil(t, r.Probabilities)
	assert.Empty(t, r.Label)
}

func TestSources_Order(t *testing.T) {
	assert.Len(t, Sources, 9)
	assert.Equal(t, SourceBlockGroup, Sources[0])
	assert.Equal(t, SourceNoProxy, Sources[len(Sources)-1])
}
