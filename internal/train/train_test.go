package train

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/ensemble"
	"github.com/sells-group/fipe-cli/internal/failure"
)

var header = []string{
	"year_of_reference", "month_of_reference", "fipe_code", "authentication",
	"brand", "model", "fuel", "gear", "engine_size", "year_model", "avg_price_brl",
}

// listings generates n rows whose price depends on brand, engine and year.
func listings(t *testing.T, n int) *dataset.Table {
	t.Helper()
	r := rand.New(rand.NewSource(99))
	brands := []string{"Fiat", "VW", "GM", "Toyota"}
	months := []string{"January", "March", "June", "December"}
	rows := make([][]string, n)
	for i := range rows {
		b := r.Intn(len(brands))
		engine := 1 + r.Intn(3)
		year := 2000 + r.Intn(20)
		price := 5000 + 3000*float64(b) + 8000*float64(engine) + 1500*float64(year-2000) + r.NormFloat64()*500
		priceCell := fmt.Sprintf("%.2f", price)
		if i%17 == 0 {
			priceCell = ""
		}
		gear := "manual"
		if engine == 3 {
			gear = "automatic"
		}
		rows[i] = []string{
			"2021", months[r.Intn(len(months))], fmt.Sprintf("%06d-%d", i, b), "auth" + fmt.Sprint(i),
			brands[b], fmt.Sprintf("%s %d", brands[b], engine), "Gasoline", gear,
			fmt.Sprintf("%d.0", engine), fmt.Sprint(year), priceCell,
		}
	}
	tbl, err := dataset.New(header, rows)
	require.NoError(t, err)
	return tbl
}

func smallOptions() Options {
	return Options{
		TestSize: 0.25,
		Seed:     42,
		Forest:   ensemble.Params{Estimators: 15},
		Boost:    ensemble.Params{Estimators: 30, MaxDepth: 6, LearningRate: 0.3, Lambda: 1},
	}
}

func TestPrepare(t *testing.T) {
	tbl := listings(t, 100)
	p, err := Prepare(tbl, 0.25, 42)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"year_of_reference", "month_of_reference", "brand", "model", "fuel", "gear", "engine_size", "year_model",
	}, p.Features)
	assert.Len(t, p.YTest, 25)
	assert.Len(t, p.YTrain, 75)
	r, c := p.XTrain.Dims()
	assert.Equal(t, 75, r)
	assert.Equal(t, 8, c)

	for _, y := range append(p.YTrain, p.YTest...) {
		assert.False(t, math.IsNaN(y), "target imputed")
	}
	assert.Contains(t, p.Encoders, "brand")
	assert.Equal(t, []string{"Fiat", "GM", "Toyota", "VW"}, p.Encoders["brand"].Classes)
}

func TestPrepare_MissingColumn(t *testing.T) {
	tbl, err := dataset.New([]string{"brand", "avg_price_brl"}, [][]string{{"Fiat", "1"}, {"VW", "2"}})
	require.NoError(t, err)

	_, err = Prepare(tbl, 0.25, 42)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindMissingColumn))
}

func TestPrepare_NonNumericFeature(t *testing.T) {
	tbl := listings(t, 20)
	rows := make([][]string, tbl.Len())
	for i := range rows {
		rows[i] = append(tbl.Row(i), "x")
	}
	withText, err := dataset.New(append(append([]string(nil), header...), "color"), rows)
	require.NoError(t, err)

	_, err = Prepare(withText, 0.25, 42)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindParse))
}

func TestRun(t *testing.T) {
	rep, err := Run(context.Background(), listings(t, 160), smallOptions())
	require.NoError(t, err)

	require.Len(t, rep.Results, 2)
	assert.Equal(t, "RandomForest", rep.Results[0].Name)
	assert.Equal(t, "XGBoost", rep.Results[1].Name)
	assert.Equal(t, 120, rep.TrainRows)
	assert.Equal(t, 40, rep.TestRows)
	for _, res := range rep.Results {
		assert.Greater(t, res.R2, 0.5, res.Name)
		assert.Greater(t, res.MSE, 0.0, res.Name)
	}
	assert.Contains(t, []string{"RandomForest", "XGBoost"}, rep.Winner)
}

func TestRun_Deterministic(t *testing.T) {
	tbl := listings(t, 120)
	a, err := Run(context.Background(), tbl, smallOptions())
	require.NoError(t, err)

	opts := smallOptions()
	opts.Forest.Workers = 1
	opts.Boost.Workers = 1
	b, err := Run(context.Background(), tbl, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.Winner, b.Winner)
}

func TestRun_UnavailableModel(t *testing.T) {
	opts := smallOptions()
	opts.Kinds = []ensemble.Kind{ensemble.KindForest, "LightGBM"}

	_, err := Run(context.Background(), listings(t, 40), opts)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindMissingCapability))
}

func TestEvaluate(t *testing.T) {
	res := Evaluate("m", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 6})
	assert.Equal(t, "m", res.Name)
	assert.InDelta(t, 0.5, res.MAE, 1e-12)
	assert.InDelta(t, 1.0, res.MSE, 1e-12)
	// SSres 4, SStot 5.
	assert.InDelta(t, 0.2, res.R2, 1e-12)
}

func TestEvaluate_ConstantTruth(t *testing.T) {
	assert.Equal(t, 1.0, Evaluate("m", []float64{3, 3}, []float64{3, 3}).R2)
	assert.Equal(t, 0.0, Evaluate("m", []float64{3, 3}, []float64{2, 3}).R2)
}

func TestEvaluate_SingleSample(t *testing.T) {
	res := Evaluate("m", []float64{42000}, []float64{41000})
	assert.InDelta(t, 1000.0, res.MAE, 1e-9)
	assert.InDelta(t, 1e6, res.MSE, 1e-6)
	assert.True(t, math.IsNaN(res.R2))

	assert.True(t, math.IsNaN(Evaluate("m", []float64{5}, []float64{5}).R2))
}

func TestWinner_SingleHeldOutRow(t *testing.T) {
	results := []Result{
		Evaluate("RandomForest", []float64{10}, []float64{9}),
		Evaluate("XGBoost", []float64{10}, []float64{10}),
	}
	assert.Equal(t, "RandomForest", Winner(results))
}

func TestWinner(t *testing.T) {
	assert.Equal(t, "B", Winner([]Result{{Name: "A", R2: 0.8}, {Name: "B", R2: 0.91}}))
	assert.Equal(t, "A", Winner([]Result{{Name: "A", R2: 0.9}, {Name: "B", R2: 0.9}}))
	assert.Equal(t, "B", Winner([]Result{{Name: "A", R2: math.NaN()}, {Name: "B", R2: -3}}))
	assert.Equal(t, "", Winner(nil))
}

func TestPrint(t *testing.T) {
	rep := &Report{
		Results: []Result{
			{Name: "RandomForest", MAE: 1234.5, MSE: 98765432.25, R2: 0.9},
			{Name: "XGBoost", MAE: 1000, MSE: 5e7, R2: 0.95},
		},
		Winner: "XGBoost",
	}
	var buf bytes.Buffer
	rep.Print(&buf)

	assert.Equal(t, "\nResultados da Avaliação dos Modelos:\n"+
		"RandomForest - MAE: 1234.5, MSE: 98765432.25, R²: 0.9\n"+
		"XGBoost - MAE: 1000.0, MSE: 50000000.0, R²: 0.95\n"+
		"\nMelhor modelo: XGBoost\n", buf.String())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.0", FormatFloat(0))
	assert.Equal(t, "-2.5", FormatFloat(-2.5))
	assert.Equal(t, "1e-05", FormatFloat(0.00001))
	assert.Equal(t, "nan", FormatFloat(math.NaN()))
}
