package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree_StepFunction(t *testing.T) {
	cols := [][]float64{{1, 2, 3, 10, 11, 12}}
	y := []float64{5, 5, 5, 20, 20, 20}

	tree := buildTree(cols, y, allIndices(6), treeConfig{minLeaf: 1})
	assert.Equal(t, 2, tree.Leaves())

	at := func(v float64) func(int) float64 { return func(int) float64 { return v } }
	assert.Equal(t, 5.0, tree.predict(at(0)))
	assert.Equal(t, 5.0, tree.predict(at(6)))
	assert.Equal(t, 20.0, tree.predict(at(7)))
	assert.Equal(t, 20.0, tree.predict(at(100)))
}

func TestBuildTree_PureNodeIsLeaf(t *testing.T) {
	cols := [][]float64{{1, 2, 3}}
	tree := buildTree(cols, []float64{4, 4, 4}, allIndices(3), treeConfig{minLeaf: 1})
	assert.Equal(t, 1, tree.Leaves())
}

func TestBuildTree_ConstantFeature(t *testing.T) {
	cols := [][]float64{{7, 7, 7, 7}}
	tree := buildTree(cols, []float64{1, 2, 3, 4}, allIndices(4), treeConfig{minLeaf: 1})
	require.Equal(t, 1, tree.Leaves())
	assert.InDelta(t, 2.5, tree.predict(func(int) float64 { return 7 }), 1e-12)
}

func TestBuildTree_MaxDepth(t *testing.T) {
	cols := [][]float64{{1, 2, 3, 4, 5, 6, 7, 8}}
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	assert.Equal(t, 8, buildTree(cols, y, allIndices(8), treeConfig{minLeaf: 1}).Leaves())
	assert.Equal(t, 2, buildTree(cols, y, allIndices(8), treeConfig{minLeaf: 1, maxDepth: 1}).Leaves())
	assert.Equal(t, 4, buildTree(cols, y, allIndices(8), treeConfig{minLeaf: 1, maxDepth: 2}).Leaves())
}

func TestBuildTree_MinLeaf(t *testing.T) {
	cols := [][]float64{{1, 2, 3, 4, 5, 6}}
	y := []float64{1, 2, 3, 4, 5, 6}
	tree := buildTree(cols, y, allIndices(6), treeConfig{minLeaf: 3})
	assert.Equal(t, 2, tree.Leaves())
}

func TestBuildTree_LambdaShrinksLeaves(t *testing.T) {
	cols := [][]float64{{1, 2}}
	tree := buildTree(cols, []float64{3, 3}, allIndices(2), treeConfig{minLeaf: 1, lambda: 1})
	// sum 6 over n+lambda = 3.
	assert.InDelta(t, 2.0, tree.predict(func(int) float64 { return 1 }), 1e-12)
}

func TestBuildTree_PicksInformativeFeature(t *testing.T) {
	cols := [][]float64{
		{3, 1, 4, 1, 5, 9, 2, 6},
		{0, 0, 0, 0, 1, 1, 1, 1},
	}
	y := []float64{10, 10, 10, 10, 50, 50, 50, 50}
	tree := buildTree(cols, y, allIndices(8), treeConfig{minLeaf: 1})

	require.False(t, tree.nodes[0].leaf)
	assert.Equal(t, 1, tree.nodes[0].feature)
	assert.InDelta(t, 0.5, tree.nodes[0].threshold, 1e-12)
}

func TestPartition(t *testing.T) {
	col := []float64{5, 1, 4, 2}
	idx := []int{0, 1, 2, 3}
	k := partition(idx, col, 3)
	assert.Equal(t, 2, k)
	assert.ElementsMatch(t, []int{1, 3}, idx[:k])
	assert.ElementsMatch(t, []int{0, 2}, idx[k:])
}

func TestTotalLeaves(t *testing.T) {
	cols := [][]float64{{1, 2, 3, 4, 5, 6, 7, 8}}
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	stump := buildTree(cols, y, allIndices(8), treeConfig{minLeaf: 1, maxDepth: 1})
	deep := buildTree(cols, y, allIndices(8), treeConfig{minLeaf: 1, maxDepth: 2})

	assert.Equal(t, 6, totalLeaves([]*Tree{stump, deep}))
	assert.Zero(t, totalLeaves(nil))
}
