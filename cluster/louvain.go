package cluster

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Default Louvain parameters.
const (
	// DefaultLouvainNeighbors is the k for the underlying KNN graph.
	DefaultLouvainNeighbors = 20

	// DefaultLouvainResolution trades cluster granularity: higher values
	// yield more, smaller clusters.
	DefaultLouvainResolution = 0.1

	// DefaultLouvainMaxIter bounds local-moving sweeps.
	DefaultLouvainMaxIter = 100
)

// Louvain is a graph/resolution-based clusterer: it builds a
// k-nearest-neighbor graph over the feature rows and runs modularity
// local moving. The number of clusters emerges from the data and the
// Resolution parameter.
//
//	– Neighbors:  KNN parameter; <= 0 means DefaultLouvainNeighbors.
//	– Resolution: modularity resolution; <= 0 means DefaultLouvainResolution.
//	– MaxIter:    sweep cap; <= 0 means DefaultLouvainMaxIter.
//	– Grapher:    neighbor-graph capability; nil means KNNGraph{}.
//
// Nodes are swept in index order, so output is deterministic.
type Louvain struct {
	Neighbors  int
	Resolution float64
	MaxIter    int
	Grapher    NeighborGrapher
}

// Cluster implements Clusterer.
// Errors: ErrNilFeatures, ErrNoRows, plus anything the grapher returns.
func (lv *Louvain) Cluster(x *mat.Dense) ([]int, error) {
	if x == nil {
		return nil, ErrNilFeatures
	}
	n, _ := x.Dims()
	if n == 0 {
		return nil, ErrNoRows
	}

	kn := lv.Neighbors
	if kn <= 0 {
		kn = DefaultLouvainNeighbors
	}
	res := lv.Resolution
	if res <= 0 {
		res = DefaultLouvainResolution
	}
	maxIter := lv.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultLouvainMaxIter
	}
	grapher := lv.Grapher
	if grapher == nil {
		grapher = KNNGraph{}
	}

	g, err := grapher.Neighbors(x, kn)
	if err != nil {
		return nil, fmt.Errorf("Louvain: %w", err)
	}
	if g.NumNodes() != n {
		return nil, fmt.Errorf("Louvain: grapher returned %d nodes for %d rows: %w", g.NumNodes(), n, ErrNoRows)
	}

	return compactLabels(localMoving(g, res, maxIter)), nil
}

// localMoving runs single-level modularity optimization: every node starts
// in its own community and is repeatedly moved to the neighboring community
// with the best positive modularity gain, until a full sweep makes no move.
func localMoving(g *Graph, resolution float64, maxIter int) []int {
	n := g.NumNodes()
	comm := make([]int, n)
	degree := make([]float64, n)
	commWeight := make([]float64, n) // total degree per community
	for i := range comm {
		comm[i] = i
		degree[i] = float64(len(g.Adj[i]))
		commWeight[i] = degree[i]
	}

	m2 := 0.0 // 2m, twice the edge count
	for i := range degree {
		m2 += degree[i]
	}
	if m2 == 0 {
		// No edges at all: every node is its own cluster.
		return comm
	}

	links := make(map[int]float64) // links from the current node to each community
	var touched []int              // communities adjacent to the current node, sorted
	for iter := 0; iter < maxIter; iter++ {
		moved := false
		for v := 0; v < n; v++ {
			for c := range links {
				delete(links, c)
			}
			touched = touched[:0]
			for _, w := range g.Adj[v] {
				c := comm[w]
				if _, seen := links[c]; !seen {
					touched = append(touched, c)
				}
				links[c]++
			}
			sort.Ints(touched) // fixed evaluation order, independent of map order

			// Remove v from its community for gain evaluation.
			cur := comm[v]
			commWeight[cur] -= degree[v]

			bestComm, bestGain := cur, 0.0
			for _, c := range touched {
				// Modularity gain of joining c:
				// l/m − resolution · k_v · Σ_c / (2m²), scaled by 2m.
				gain := links[c] - resolution*degree[v]*commWeight[c]/m2
				if gain > bestGain {
					bestComm, bestGain = c, gain
				}
			}

			commWeight[bestComm] += degree[v]
			if bestComm != cur {
				comm[v] = bestComm
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	return comm
}
