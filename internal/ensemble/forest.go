package ensemble

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// RandomForest averages trees grown on bootstrap samples. Every split
// considers all features.
type RandomForest struct {
	params   Params
	trees    []*Tree
	features int
}

// NewRandomForest returns an unfitted forest.
func NewRandomForest(p Params) *RandomForest {
	if p.Estimators <= 0 {
		p.Estimators = 100
	}
	if p.MinSamplesLeaf <= 0 {
		p.MinSamplesLeaf = 1
	}
	return &RandomForest{params: p}
}

// Name implements Regressor.
func (rf *RandomForest) Name() string { return string(KindForest) }

// Trees returns the fitted trees.
func (rf *RandomForest) Trees() []*Tree { return rf.trees }

// Fit grows the trees concurrently. Each tree draws its bootstrap sample
// from its own seed, so the result does not depend on scheduling.
func (rf *RandomForest) Fit(ctx context.Context, x mat.Matrix, y []float64) error {
	if err := checkFit(x, y); err != nil {
		return err
	}
	start := time.Now()

	cols := columns(x)
	n := len(y)
	seeds := make([]int64, rf.params.Estimators)
	master := rand.New(rand.NewSource(rf.params.Seed)) //nolint:gosec
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	cfg := treeConfig{
		maxDepth: rf.params.MaxDepth,
		minLeaf:  rf.params.MinSamplesLeaf,
		workers:  1,
	}

	trees := make([]*Tree, rf.params.Estimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rf.params.workers())
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := rand.New(rand.NewSource(seeds[i])) //nolint:gosec
			sample := make([]int, n)
			for k := range sample {
				sample[k] = r.Intn(n)
			}
			trees[i] = buildTree(cols, y, sample, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rf.trees = trees
	rf.features = len(cols)
	zap.L().Info("ensemble: forest fitted",
		zap.Int("trees", len(trees)),
		zap.Int("rows", n),
		zap.Int("leaves", totalLeaves(trees)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Predict returns the mean tree prediction for each row of x.
func (rf *RandomForest) Predict(x mat.Matrix) ([]float64, error) {
	if err := checkPredict(x, rf.features); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	out := make([]float64, r)
	for i := range out {
		at := func(j int) float64 { return x.At(i, j) }
		sum := 0.0
		for _, t := range rf.trees {
			sum += t.predict(at)
		}
		out[i] = sum / float64(len(rf.trees))
	}
	return out, nil
}
