package analysis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/failure"
)

func listingTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(
		[]string{"brand", "gear", "year_model", "avg_price_brl"},
		[][]string{
			{"VW", "manual", "2010", "20000"},
			{"Fiat", "manual", "2012", ""},
			{"Fiat", "", "2015", "35000"},
			{"VW", "manual", "2010", "20000"},
			{"GM", "automatic", "", "50000"},
			{"Fiat", "", "2015", "35000"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestRun(t *testing.T) {
	s, err := Run(listingTable(t))
	require.NoError(t, err)

	assert.Equal(t, 6, s.Rows)
	assert.Equal(t, []MissingCount{
		{Column: "brand", Count: 0},
		{Column: "gear", Count: 2},
		{Column: "year_model", Count: 1},
		{Column: "avg_price_brl", Count: 1},
	}, s.Missing)
	assert.Equal(t, 4, s.TotalMissing())
	assert.Equal(t, 2, s.Duplicates)

	require.Len(t, s.Describe, 2)
	assert.Equal(t, "year_model", s.Describe[0].Column)
	assert.Equal(t, 5, s.Describe[0].Count)
	assert.Equal(t, "avg_price_brl", s.Describe[1].Column)
	assert.InDelta(t, 32000.0, s.Describe[1].Mean, 1e-9)

	assert.Equal(t, []ValueCount{
		{Value: "Fiat", Count: 3},
		{Value: "VW", Count: 2},
		{Value: "GM", Count: 1},
	}, s.BrandCounts)
}

func TestRun_MissingBrand(t *testing.T) {
	tbl, err := dataset.New([]string{"gear"}, [][]string{{"manual"}})
	require.NoError(t, err)

	_, err = Run(tbl)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindMissingColumn))
}

func TestMissingCounts_MatchesEmptyCells(t *testing.T) {
	header := []string{"a", "b", "c"}
	rows := [][]string{
		{"", "x", "NA"},
		{"1", "", "2"},
		{"", "", ""},
		{"3", "y", "NaN"},
	}
	tbl, err := dataset.New(header, rows)
	require.NoError(t, err)

	want := make([]int, len(header))
	for _, r := range rows {
		for j, v := range r {
			if dataset.IsMissing(v) {
				want[j]++
			}
		}
	}
	for j, m := range MissingCounts(tbl) {
		assert.Equal(t, want[j], m.Count, m.Column)
	}
}

func TestCountDuplicates_MissingEqual(t *testing.T) {
	tbl, err := dataset.New([]string{"a", "b"}, [][]string{
		{"", "1"},
		{"NA", "1"},
		{"x", "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, CountDuplicates(tbl))
}

func TestValueCounts_TiesKeepFirstSeen(t *testing.T) {
	tbl, err := dataset.New([]string{"brand"}, [][]string{{"Renault"}, {"Ford"}, {""}, {"Ford"}, {"Renault"}, {"Kia"}})
	require.NoError(t, err)
	c, _ := tbl.Column("brand")

	assert.Equal(t, []ValueCount{
		{Value: "Renault", Count: 2},
		{Value: "Ford", Count: 2},
		{Value: "Kia", Count: 1},
	}, ValueCounts(c))
}

func TestPrint(t *testing.T) {
	s, err := Run(listingTable(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Valores faltantes:")
	assert.Contains(t, out, "Valores duplicados: 2")
	assert.Contains(t, out, "Estatísticas das variáveis numéricas:")
	assert.Contains(t, out, "Contagem de marcas:")
	assert.Contains(t, out, "year_model")
	assert.Contains(t, out, "Fiat")
	assert.Contains(t, out, "75%")
}
