// Package ensemble implements the tree-ensemble regressors compared by the
// training stage: a bagged random forest and a gradient-boosted ensemble.
package ensemble

import (
	"context"
	"runtime"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
)

// Kind names a regressor family. The value is the display name.
type Kind string

const (
	KindForest  Kind = "RandomForest"
	KindBoosted Kind = "XGBoost"
)

// Params holds the hyperparameters shared by both families. Fields a
// family does not use are ignored.
type Params struct {
	Estimators     int
	MaxDepth       int // 0 means unlimited
	MinSamplesLeaf int
	LearningRate   float64
	Lambda         float64
	Subsample      float64
	Seed           int64
	Workers        int // 0 means GOMAXPROCS
}

func (p Params) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Regressor is a fitted-in-place regression model.
type Regressor interface {
	Name() string
	Fit(ctx context.Context, x mat.Matrix, y []float64) error
	Predict(x mat.Matrix) ([]float64, error)
}

// Factory builds an unfitted regressor.
type Factory func(Params) Regressor

var registry = map[Kind]Factory{}

func register(k Kind, f Factory) {
	registry[k] = f
}

// Lookup returns the factory for k and whether it is compiled in.
func Lookup(k Kind) (Factory, bool) {
	f, ok := registry[k]
	return f, ok
}

// Available lists the compiled-in kinds in sorted order.
func Available() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func init() {
	register(KindForest, func(p Params) Regressor { return NewRandomForest(p) })
}

// columns converts x to feature-major slices.
func columns(x mat.Matrix) [][]float64 {
	_, c := x.Dims()
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = mat.Col(nil, j, x)
	}
	return cols
}

func checkFit(x mat.Matrix, y []float64) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return eris.New("ensemble: empty training matrix")
	}
	if r != len(y) {
		return eris.Errorf("ensemble: %d rows but %d targets", r, len(y))
	}
	return nil
}

func checkPredict(x mat.Matrix, features int) error {
	if features == 0 {
		return eris.New("ensemble: model is not fitted")
	}
	if _, c := x.Dims(); c != features {
		return eris.Errorf("ensemble: %d features, model fitted on %d", c, features)
	}
	return nil
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
