package bisg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zestai/zrp/internal/model"
	"github.com/zestai/zrp/internal/proxy"
	"github.com/zestai/zrp/internal/tabular"
)

func surnameFrame() *tabular.Frame {
	return tabular.NewFrame(
		[]string{"name", "pctwhite", "pctblack", "pctapi", "pctaian", "pct2prace", "pcthispanic"},
		[][]string{
			{"GARCIA", "5", "0.5", "1.5", "0.5", "0.5", "92"},
			{"SMITH", "70", "23", "1", "1", "2.5", "2.5"},
			{"DELACRUZ", "(S)", "1", "10", "1", "1", "87"},
		},
	)
}

func zctaFrame() *tabular.Frame {
	return tabular.NewFrame(
		[]string{"zcta5", "white", "black", "api", "native", "multiple", "hispanic"},
		[][]string{
			{"7030", "100", "100", "100", "100", "100", "100"},
			{"07001", "300", "100", "100", "100", "100", "100"},
		},
	)
}

func testModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(surnameFrame(), zctaFrame(), tabular.NewNA())
	require.NoError(t, err)
	return m
}

func TestProbabilities(t *testing.T) {
	m := testModel(t)

	got := m.Probabilities("Garcia", "07030")
	require.NotNil(t, got)
	assert.Len(t, got, 5)
	assert.NotContains(t, got, ClassOther)

	// P(07030|white) = 100/400, every other class 100/200.
	const sum = 1.5*0.5 + 0.5*0.5 + 0.5*0.5 + 92*0.5 + 5*0.25 + 0.5*0.5
	assert.InDelta(t, 92*0.5/sum, got["HISPANIC"], 1e-9)
	assert.InDelta(t, 5*0.25/sum, got["WHITE"], 1e-9)
	assert.InDelta(t, 1.5*0.5/sum, got["AAPI"], 1e-9)

	var total float64
	for _, p := range got {
		total += p
	}
	assert.InDelta(t, 1-0.5*0.5/sum, total, 1e-9, "OTHER is dropped without renormalizing")
	assert.Equal(t, "HISPANIC", model.ArgMax(got))
}

func TestProbabilities_GeographyShiftsPosterior(t *testing.T) {
	m := testModel(t)
	a := m.Probabilities("SMITH", "07030")
	b := m.Probabilities("SMITH", "07001")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Greater(t, b["WHITE"], a["WHITE"])
}

func TestProbabilities_Unscored(t *testing.T) {
	m := testModel(t)
	tests := []struct {
		name    string
		surname string
		zip     string
	}{
		{"unseen surname", "ZZYZX", "07030"},
		{"unseen zip", "GARCIA", "90210"},
		{"short zip", "GARCIA", "7030"},
		{"blank zip", "GARCIA", ""},
		{"blank surname", "", "07030"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, m.Probabilities(tt.surname, tt.zip))
		})
	}
}

func TestProbabilities_SuppressedCell(t *testing.T) {
	m := testModel(t)
	got := m.Probabilities("De la Cruz", "07001")
	require.NotNil(t, got)
	assert.InDelta(t, 0, got["WHITE"], 1e-9)
	assert.Equal(t, "HISPANIC", model.ArgMax(got))
}

func TestSurname(t *testing.T) {
	assert.Equal(t, "DELACRUZ", Surname("de la Cruz"))
	assert.Equal(t, "OBRIEN", Surname("O'Brien"))
	assert.Equal(t, "", Surname("NULL"))
}

func TestPredict(t *testing.T) {
	m := testModel(t)
	rows := []proxy.Features{
		{ID: "1", LastName: "Garcia", Zip: "07030"},
		{ID: "2", LastName: "Garcia", Zip: "123"},
		{ID: "3", LastName: "Smith", Zip: "07001"},
	}

	preds, err := m.Predict(context.Background(), proxy.ModeFull, rows)
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, "1", preds[0].ID)
	assert.NotNil(t, preds[0].Probabilities)
	assert.Equal(t, "2", preds[1].ID)
	assert.Nil(t, preds[1].Probabilities)
	assert.NotNil(t, preds[2].Probabilities)
}

func TestPredict_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testModel(t).Predict(ctx, proxy.ModeFull, nil)
	assert.Error(t, err)
}

func TestNew_Errors(t *testing.T) {
	t.Run("no surname key", func(t *testing.T) {
		f := tabular.NewFrame([]string{"who", "white"}, [][]string{{"SMITH", "1"}})
		_, err := New(f, zctaFrame(), nil)
		assert.Error(t, err)
	})

	t.Run("no shared classes", func(t *testing.T) {
		s := tabular.NewFrame([]string{"name", "white"}, [][]string{{"SMITH", "1"}})
		z := tabular.NewFrame([]string{"zcta5", "black"}, [][]string{{"07030", "1"}})
		_, err := New(s, z, nil)
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	m, err := Load(context.Background(),
		tabular.InMemory{Frame: surnameFrame()},
		tabular.InMemory{Frame: zctaFrame()},
		nil,
	)
	require.NoError(t, err)
	assert.NotNil(t, m.Probabilities("SMITH", "07030"))

	_, err = Load(context.Background(), tabular.InMemory{}, tabular.InMemory{Frame: zctaFrame()}, nil)
	assert.Error(t, err)
}
