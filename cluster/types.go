package cluster

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNilFeatures indicates a nil feature matrix.
	ErrNilFeatures = errors.New("cluster: nil feature matrix")

	// ErrNoRows indicates a feature matrix with zero rows.
	ErrNoRows = errors.New("cluster: feature matrix has no rows")

	// ErrBadK indicates a cluster count below 1 or above the row count.
	ErrBadK = errors.New("cluster: invalid number of clusters")

	// ErrBadNeighbors indicates a neighbor count below 1.
	ErrBadNeighbors = errors.New("cluster: neighbor count must be >= 1")
)

// Clusterer assigns one small-integer label per row of a feature matrix.
// Labels must be compact: 0..C-1 in order of first appearance.
type Clusterer interface {
	Cluster(x *mat.Dense) ([]int, error)
}

// Graph is a sparse neighbor adjacency: Adj[i] lists the neighbors of row
// i, ascending, self excluded.
type Graph struct {
	Adj [][]int
}

// NumNodes returns the number of rows the graph was built over.
func (g *Graph) NumNodes() int { return len(g.Adj) }

// NeighborGrapher produces a k-nearest-neighbor adjacency over the rows of
// a feature matrix.
type NeighborGrapher interface {
	Neighbors(x *mat.Dense, k int) (*Graph, error)
}

// compactLabels renumbers labels to 0..C-1 in order of first appearance.
func compactLabels(labels []int) []int {
	next := 0
	remap := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		m, ok := remap[l]
		if !ok {
			m = next
			remap[l] = m
			next++
		}
		out[i] = m
	}

	return out
}
