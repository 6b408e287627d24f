package ensemble

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// GradientBoosting fits trees sequentially to the residuals of the running
// prediction under squared error, with L2-regularised leaf weights.
type GradientBoosting struct {
	params   Params
	base     float64
	trees    []*Tree
	features int
}

// NewGradientBoosting returns an unfitted boosted ensemble.
func NewGradientBoosting(p Params) *GradientBoosting {
	if p.Estimators <= 0 {
		p.Estimators = 100
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = 6
	}
	if p.LearningRate <= 0 {
		p.LearningRate = 0.3
	}
	if p.Lambda < 0 {
		p.Lambda = 1
	}
	if p.Subsample <= 0 || p.Subsample > 1 {
		p.Subsample = 1
	}
	if p.MinSamplesLeaf <= 0 {
		p.MinSamplesLeaf = 1
	}
	return &GradientBoosting{params: p}
}

// Name implements Regressor.
func (gb *GradientBoosting) Name() string { return string(KindBoosted) }

// Base returns the fitted base score.
func (gb *GradientBoosting) Base() float64 { return gb.base }

// Trees returns the fitted trees.
func (gb *GradientBoosting) Trees() []*Tree { return gb.trees }

// Fit boosts from the target mean. Split search inside each tree runs
// across features concurrently for large nodes.
func (gb *GradientBoosting) Fit(ctx context.Context, x mat.Matrix, y []float64) error {
	if err := checkFit(x, y); err != nil {
		return err
	}
	start := time.Now()

	cols := columns(x)
	n := len(y)
	gb.base = stat.Mean(y, nil)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = gb.base
	}
	residual := make([]float64, n)
	all := allIndices(n)
	r := rand.New(rand.NewSource(gb.params.Seed)) //nolint:gosec

	cfg := treeConfig{
		maxDepth: gb.params.MaxDepth,
		minLeaf:  gb.params.MinSamplesLeaf,
		lambda:   gb.params.Lambda,
		workers:  gb.params.workers(),
	}

	trees := make([]*Tree, 0, gb.params.Estimators)
	for t := 0; t < gb.params.Estimators; t++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}
		idx := all
		if gb.params.Subsample < 1 {
			idx = subsample(r, n, gb.params.Subsample)
		}

		tree := buildTree(cols, residual, idx, cfg)
		for i := range pred {
			pred[i] += gb.params.LearningRate * tree.predict(func(j int) float64 { return cols[j][i] })
		}
		trees = append(trees, tree)
	}

	gb.trees = trees
	gb.features = len(cols)
	zap.L().Info("ensemble: boosting fitted",
		zap.Int("trees", len(trees)),
		zap.Int("rows", n),
		zap.Int("leaves", totalLeaves(trees)),
		zap.Float64("base", gb.base),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Predict returns base + learning rate times the sum of tree outputs.
func (gb *GradientBoosting) Predict(x mat.Matrix) ([]float64, error) {
	if err := checkPredict(x, gb.features); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	out := make([]float64, r)
	for i := range out {
		at := func(j int) float64 { return x.At(i, j) }
		v := gb.base
		for _, t := range gb.trees {
			v += gb.params.LearningRate * t.predict(at)
		}
		out[i] = v
	}
	return out, nil
}

// subsample draws round(frac*n) distinct row indices, at least one.
func subsample(r *rand.Rand, n int, frac float64) []int {
	k := int(frac*float64(n) + 0.5)
	if k < 1 {
		k = 1
	}
	perm := r.Perm(n)
	return perm[:k]
}
