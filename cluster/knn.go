package cluster

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// KNNGraph is the default NeighborGrapher: brute-force Euclidean
// k-nearest neighbors, symmetrized (i~j whenever either is among the
// other's k nearest). Quadratic in the row count.
type KNNGraph struct{}

// Neighbors implements NeighborGrapher.
// Errors: ErrNilFeatures, ErrNoRows, ErrBadNeighbors.
// Complexity: O(n² · dims + n² log n).
func (KNNGraph) Neighbors(x *mat.Dense, k int) (*Graph, error) {
	if x == nil {
		return nil, ErrNilFeatures
	}
	n, _ := x.Dims()
	if n == 0 {
		return nil, ErrNoRows
	}
	if k < 1 {
		return nil, fmt.Errorf("k=%d: %w", k, ErrBadNeighbors)
	}
	if k > n-1 {
		k = n - 1 // cannot have more neighbors than other rows
	}

	type cand struct {
		j int
		d float64
	}
	adjSet := make([]map[int]struct{}, n)
	for i := range adjSet {
		adjSet[i] = make(map[int]struct{}, k)
	}

	cands := make([]cand, 0, n-1)
	for i := 0; i < n; i++ {
		cands = cands[:0]
		row := x.RawRowView(i)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			cands = append(cands, cand{j: j, d: sqDist(row, x.RawRowView(j))})
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].d != cands[b].d {
				return cands[a].d < cands[b].d
			}
			return cands[a].j < cands[b].j // tie-break for determinism
		})
		for _, c := range cands[:k] {
			adjSet[i][c.j] = struct{}{}
			adjSet[c.j][i] = struct{}{} // symmetrize
		}
	}

	g := &Graph{Adj: make([][]int, n)}
	for i, set := range adjSet {
		for j := range set {
			g.Adj[i] = append(g.Adj[i], j)
		}
		sort.Ints(g.Adj[i])
	}

	return g, nil
}
