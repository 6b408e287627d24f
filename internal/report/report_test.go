package report

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/fipe-cli/internal/analysis"
	"github.com/sells-group/fipe-cli/internal/failure"
	"github.com/sells-group/fipe-cli/internal/model"
	"github.com/sells-group/fipe-cli/internal/stats"
	"github.com/sells-group/fipe-cli/internal/train"
)

func sampleSummary() *analysis.Summary {
	return &analysis.Summary{
		Rows:       4,
		Missing:    []analysis.MissingCount{{Column: "brand", Count: 0}, {Column: "gear", Count: 1}},
		Duplicates: 1,
		Describe: []analysis.ColumnStats{
			{Column: "avg_price_brl", Description: stats.Describe([]float64{10, 20, 30})},
			{Column: "year_model", Description: stats.Describe([]float64{2010})},
		},
		BrandCounts: []analysis.ValueCount{{Value: "Fiat", Count: 3}, {Value: "VW", Count: 1}},
	}
}

func sampleReport() *train.Report {
	return &train.Report{
		Results: []train.Result{
			{Name: "RandomForest", MAE: 10, MSE: 150, R2: 0.8},
			{Name: "XGBoost", MAE: 8, MSE: 120, R2: 0.91},
		},
		Winner: "XGBoost",
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatorio.xlsx")
	require.NoError(t, WriteXLSX(path, sampleSummary(), sampleReport()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	for _, name := range []string{SheetMissing, SheetStats, SheetBrands, SheetModels} {
		_, ok := f.Sheet[name]
		assert.True(t, ok, name)
	}

	models := f.Sheet[SheetModels]
	require.Len(t, models.Rows, 3)
	assert.Equal(t, "XGBoost", models.Rows[2].Cells[0].String())
	assert.True(t, models.Rows[2].Cells[4].Bool())
	assert.False(t, models.Rows[1].Cells[4].Bool())

	brands := f.Sheet[SheetBrands]
	require.Len(t, brands.Rows, 3)
	assert.Equal(t, "Fiat", brands.Rows[1].Cells[0].String())

	statsSheet := f.Sheet[SheetStats]
	require.Len(t, statsSheet.Rows, 3)
	assert.Equal(t, "NaN", statsSheet.Rows[2].Cells[3].String(), "std of one value")
}

func TestWriteXLSX_NaNSpelling(t *testing.T) {
	rep := sampleReport()
	rep.Results[0].R2 = math.NaN()
	path := filepath.Join(t.TempDir(), "relatorio.xlsx")
	require.NoError(t, WriteXLSX(path, sampleSummary(), rep))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	// Describe cells match the console describe table, metrics match the results line.
	assert.Equal(t, analysis.NaNLabel, f.Sheet[SheetStats].Rows[2].Cells[3].String())
	assert.Equal(t, "nan", f.Sheet[SheetModels].Rows[1].Cells[3].String())

	var buf bytes.Buffer
	sampleSummary().Print(&buf)
	assert.Contains(t, buf.String(), analysis.NaNLabel)
}

func TestWriteXLSX_WithoutModels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatorio.xlsx")
	require.NoError(t, WriteXLSX(path, sampleSummary(), nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	_, ok := f.Sheet[SheetModels]
	assert.False(t, ok)
}

func TestWriteXLSX_BadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "relatorio.xlsx")
	err := WriteXLSX(path, sampleSummary(), nil)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindIO))
}

func TestYAMLRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &model.Run{
		ID:      "5b0c9d2e-0000-4000-8000-000000000000",
		Dataset: "precos_carros_brasil.csv",
		Status:  model.RunStatusComplete,
		Result: &model.RunResult{
			Rows:   100,
			Scores: sampleReport().Results,
			Winner: "XGBoost",
			Charts: []string{"grafico_marcas.png"},
		},
		CreatedAt: now,
		UpdatedAt: now.Add(time.Minute),
	}

	path := filepath.Join(t.TempDir(), "resumo.yaml")
	require.NoError(t, WriteYAML(path, run))

	got, err := ReadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestReadYAML_Errors(t *testing.T) {
	_, err := ReadYAML(filepath.Join(t.TempDir(), "none.yaml"))
	assert.True(t, failure.Is(err, failure.KindIO))
}
