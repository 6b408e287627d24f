package train

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/fipe-cli/internal/model"
)

// Result holds the held-out metrics of one model.
type Result = model.Score

// Evaluate scores predictions against the true values. R² is undefined
// (NaN) for fewer than two samples, 1 for a perfect fit of a constant
// target and 0 for an imperfect one.
func Evaluate(name string, truth, pred []float64) Result {
	n := float64(len(truth))
	mae := floats.Distance(truth, pred, 1) / n
	d := floats.Distance(truth, pred, 2)
	mse := d * d / n

	var r2 float64
	switch {
	case len(truth) < 2:
		r2 = math.NaN()
	case stat.Variance(truth, nil) == 0:
		if mse == 0 {
			r2 = 1
		}
	default:
		r2 = stat.RSquaredFrom(pred, truth, nil)
	}
	return Result{Name: name, MAE: mae, MSE: mse, R2: r2}
}

// Winner returns the name of the result with the highest R². Ties go to
// the earlier result. NaN scores never beat a finite one; when every score
// is NaN the first result wins. Empty input returns "".
func Winner(results []Result) string {
	best := -1
	for i, r := range results {
		if math.IsNaN(r.R2) {
			continue
		}
		if best < 0 || r.R2 > results[best].R2 {
			best = i
		}
	}
	switch {
	case best >= 0:
		return results[best].Name
	case len(results) > 0:
		return results[0].Name
	default:
		return ""
	}
}
