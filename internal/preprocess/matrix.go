package preprocess

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"

	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/failure"
)

// Matrix builds the rows of t listed in rows into a dense matrix, one column
// per table column. Missing cells become NaN. Every column must be numeric.
func Matrix(t *dataset.Table, rows []int) (*mat.Dense, error) {
	cols := t.Columns()
	for _, c := range cols {
		if !c.IsNumeric() {
			return nil, failure.New(failure.KindParse,
				eris.Errorf("preprocess: feature column %q is not numeric", c.Name))
		}
	}
	if len(rows) == 0 || len(cols) == 0 {
		return nil, eris.New("preprocess: empty feature matrix")
	}

	m := mat.NewDense(len(rows), len(cols), nil)
	for j, c := range cols {
		for i, r := range rows {
			m.Set(i, j, c.Float(r))
		}
	}
	return m, nil
}

// Select returns xs at the given indices.
func Select(xs []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, k := range idx {
		out[i] = xs[k]
	}
	return out
}

// FillNaN returns a copy of m with NaN entries replaced by v.
func FillNaN(m mat.Matrix, v float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	r, c := out.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(out.At(i, j)) {
				out.Set(i, j, v)
			}
		}
	}
	return out
}
