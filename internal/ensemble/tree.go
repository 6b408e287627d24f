package ensemble

import (
	"cmp"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Split search over features runs concurrently only for nodes this large.
const parallelSplitMin = 4096

// gainTol is the minimum gain, relative to the node's sum of squares,
// for a split to be taken.
const gainTol = 1e-10

type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

// Tree is a fitted binary regression tree.
type Tree struct {
	nodes []node
}

// predict walks the tree for the row whose feature j is at(j).
func (t *Tree) predict(at func(j int) float64) float64 {
	n := &t.nodes[0]
	for !n.leaf {
		if at(n.feature) <= n.threshold {
			n = &t.nodes[n.left]
		} else {
			n = &t.nodes[n.right]
		}
	}
	return n.value
}

// Leaves returns the number of leaf nodes.
func (t *Tree) Leaves() int {
	n := 0
	for _, nd := range t.nodes {
		if nd.leaf {
			n++
		}
	}
	return n
}

func totalLeaves(trees []*Tree) int {
	n := 0
	for _, t := range trees {
		n += t.Leaves()
	}
	return n
}

// treeConfig controls one tree. A leaf predicts sum/(n+lambda) of its
// targets; a split maximises sumL²/(nL+lambda) + sumR²/(nR+lambda).
// With lambda 0 that is the squared-error criterion.
type treeConfig struct {
	maxDepth int
	minLeaf  int
	lambda   float64
	workers  int
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

type builder struct {
	cols   [][]float64
	target []float64
	cfg    treeConfig
	nodes  []node
}

// buildTree fits a tree on the samples idx of the feature-major matrix cols.
func buildTree(cols [][]float64, target []float64, idx []int, cfg treeConfig) *Tree {
	if cfg.minLeaf < 1 {
		cfg.minLeaf = 1
	}
	b := &builder{cols: cols, target: target, cfg: cfg}
	b.grow(slices.Clone(idx), 0)
	return &Tree{nodes: b.nodes}
}

func (b *builder) grow(idx []int, depth int) int {
	id := len(b.nodes)

	sum := 0.0
	for _, i := range idx {
		sum += b.target[i]
	}
	n := float64(len(idx))
	b.nodes = append(b.nodes, node{leaf: true, value: sum / (n + b.cfg.lambda)})

	if b.cfg.maxDepth > 0 && depth >= b.cfg.maxDepth {
		return id
	}
	if len(idx) < 2*b.cfg.minLeaf {
		return id
	}

	// Centering is exact for lambda 0 and keeps the sums well conditioned.
	shift := 0.0
	if b.cfg.lambda == 0 {
		shift = sum / n
	}
	scale := 0.0
	for _, i := range idx {
		d := b.target[i] - shift
		scale += d * d
	}
	if scale == 0 {
		return id
	}

	s, ok := b.bestSplit(idx, shift)
	if !ok || s.gain <= gainTol*scale {
		return id
	}

	k := partition(idx, b.cols[s.feature], s.threshold)
	left := b.grow(idx[:k], depth+1)
	right := b.grow(idx[k:], depth+1)
	b.nodes[id] = node{feature: s.feature, threshold: s.threshold, left: left, right: right}
	return id
}

func (b *builder) bestSplit(idx []int, shift float64) (split, bool) {
	results := make([]split, len(b.cols))
	if b.cfg.workers > 1 && len(idx) >= parallelSplitMin {
		var g errgroup.Group
		g.SetLimit(b.cfg.workers)
		for f := range b.cols {
			g.Go(func() error {
				results[f] = b.scanFeature(f, idx, shift)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for f := range b.cols {
			results[f] = b.scanFeature(f, idx, shift)
		}
	}

	best := split{feature: -1}
	for _, s := range results {
		if s.feature >= 0 && s.gain > best.gain {
			best = s
		}
	}
	return best, best.feature >= 0
}

func (b *builder) scanFeature(f int, idx []int, shift float64) split {
	col := b.cols[f]
	order := slices.Clone(idx)
	slices.SortFunc(order, func(a, c int) int { return cmp.Compare(col[a], col[c]) })

	total := 0.0
	for _, i := range order {
		total += b.target[i] - shift
	}
	n := len(order)
	lambda := b.cfg.lambda
	parent := total * total / (float64(n) + lambda)

	best := split{feature: -1}
	left := 0.0
	for k := 0; k < n-1; k++ {
		left += b.target[order[k]] - shift
		nl := k + 1
		if nl < b.cfg.minLeaf || n-nl < b.cfg.minLeaf {
			continue
		}
		lo, hi := col[order[k]], col[order[k+1]]
		if lo == hi {
			continue
		}
		right := total - left
		gain := left*left/(float64(nl)+lambda) + right*right/(float64(n-nl)+lambda) - parent
		if gain > best.gain {
			threshold := lo + (hi-lo)/2
			if threshold == hi {
				threshold = lo
			}
			best = split{feature: f, threshold: threshold, gain: gain}
		}
	}
	return best
}

// partition reorders idx so samples with col <= threshold come first and
// returns their count.
func partition(idx []int, col []float64, threshold float64) int {
	k := 0
	for i, s := range idx {
		if col[s] <= threshold {
			idx[i], idx[k] = idx[k], idx[i]
			k++
		}
	}
	return k
}
