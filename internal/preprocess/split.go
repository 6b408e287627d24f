package preprocess

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
)

// Split shuffles the indices 0..n-1 with seed and partitions them into a
// training set and a held-out set of ceil(testSize*n) indices.
func Split(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, eris.Errorf("preprocess: test size %v must be in (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTrain <= 0 || nTest <= 0 {
		return nil, nil, eris.Errorf("preprocess: %d rows cannot be split with test size %v", n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n) //nolint:gosec
	return perm[nTest:], perm[:nTest], nil
}
