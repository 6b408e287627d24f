package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fipe-cli/internal/failure"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"brand", "gear", "avg_price_brl", "engine_size"},
		[][]string{
			{"Fiat", "manual", "10000.5", "1,0"},
			{"VW", "", "NaN", "1,6"},
			{"Fiat", "automatic", "30000", ""},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestNew_InfersKinds(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"brand", "gear", "avg_price_brl", "engine_size"}, tbl.Names())

	price, err := tbl.Column("avg_price_brl")
	require.NoError(t, err)
	assert.True(t, price.IsNumeric())
	assert.InDelta(t, 10000.5, price.Float(0), 1e-9)
	assert.True(t, math.IsNaN(price.Float(1)))

	brand, err := tbl.Column("brand")
	require.NoError(t, err)
	assert.False(t, brand.IsNumeric())
	assert.True(t, math.IsNaN(brand.Float(0)))

	engine, err := tbl.Column("engine_size")
	require.NoError(t, err)
	assert.False(t, engine.IsNumeric(), "decimal comma is not a float")
}

func TestNew_MissingCells(t *testing.T) {
	tbl := sampleTable(t)

	gear, _ := tbl.Column("gear")
	price, _ := tbl.Column("avg_price_brl")
	engine, _ := tbl.Column("engine_size")

	assert.Equal(t, 1, gear.MissingCount())
	assert.Equal(t, 1, price.MissingCount())
	assert.Equal(t, 1, engine.MissingCount())
	assert.Equal(t, []bool{false, true, false}, gear.Missing)
}

func TestNew_RaggedRow(t *testing.T) {
	_, err := New([]string{"a", "b"}, [][]string{{"1"}})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindParse))
}

func TestNew_NoHeader(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindParse))
}

func TestNew_DuplicateHeaders(t *testing.T) {
	tbl, err := New([]string{"a", "a", "a"}, [][]string{{"1", "2", "3"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "a.2"}, tbl.Names())
}

func TestColumn_Missing(t *testing.T) {
	_, err := sampleTable(t).Column("fipe_code")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindMissingColumn))
}

func TestIsMissing(t *testing.T) {
	for _, tok := range []string{"", "NA", "N/A", "nan", "NULL", "None", "<NA>"} {
		assert.True(t, IsMissing(tok), tok)
	}
	for _, tok := range []string{"0", "-", "Fiat", " "} {
		assert.False(t, IsMissing(tok), tok)
	}
}

func TestClone_Independent(t *testing.T) {
	tbl := sampleTable(t)
	cp := tbl.Clone()

	require.NoError(t, cp.SetCodes("brand", []int{0, 1, 0}))

	orig, _ := tbl.Column("brand")
	assert.Equal(t, "Fiat", orig.Values[0])
	assert.False(t, orig.IsNumeric())

	enc, _ := cp.Column("brand")
	assert.True(t, enc.IsNumeric())
	assert.Equal(t, []float64{0, 1, 0}, enc.Floats())
}

func TestSetCodes_Errors(t *testing.T) {
	tbl := sampleTable(t)
	assert.Error(t, tbl.SetCodes("nope", []int{0, 0, 0}))
	assert.Error(t, tbl.SetCodes("brand", []int{0}))
}

func TestDrop(t *testing.T) {
	tbl := sampleTable(t)

	out, err := tbl.Drop("avg_price_brl", "gear")
	require.NoError(t, err)
	assert.Equal(t, []string{"brand", "engine_size"}, out.Names())
	assert.Equal(t, 3, out.Len())
	assert.True(t, tbl.Has("gear"))

	_, err = tbl.Drop("fipe_code")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindMissingColumn))
}

func TestRow(t *testing.T) {
	assert.Equal(t, []string{"VW", "", "NaN", "1,6"}, sampleTable(t).Row(1))
}

func TestMonthIndex(t *testing.T) {
	i, ok := MonthIndex("March")
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = MonthIndex("march")
	assert.False(t, ok)
	assert.Len(t, Months, 12)
}

func TestNew_NATokensKeepColumnNumeric(t *testing.T) {
	tbl, err := New(
		[]string{"year_model", "avg_price_brl", "fuel"},
		[][]string{
			{"2019", "null", "Gasoline"},
			{"N/A", "15000.25", "None"},
			{"2021", "9000", "Diesel"},
		},
	)
	require.NoError(t, err)

	year, _ := tbl.Column("year_model")
	assert.True(t, year.IsNumeric())
	assert.InDelta(t, 2019.0, year.Float(0), 1e-9)
	assert.True(t, math.IsNaN(year.Float(1)))
	assert.Equal(t, "N/A", year.Values[1])

	price, _ := tbl.Column("avg_price_brl")
	assert.True(t, price.IsNumeric())
	assert.Equal(t, []bool{true, false, false}, price.Missing)

	fuel, _ := tbl.Column("fuel")
	assert.False(t, fuel.IsNumeric())
	assert.Equal(t, 1, fuel.MissingCount())
}

func TestNew_HeaderOnly(t *testing.T) {
	tbl, err := New([]string{"brand", "avg_price_brl"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, []string{"brand", "avg_price_brl"}, tbl.Names())
}
