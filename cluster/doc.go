// Package cluster defines the clustering and neighbor-graph capabilities
// used by terminal-class discovery, plus deterministic default
// implementations.
//
// The core pipeline never commits to a concrete clustering algorithm: it
// accepts any Clusterer (row features in, one small-integer label per row
// out) and any NeighborGrapher (row features in, k-nearest-neighbor
// adjacency out). The defaults shipped here are:
//
//	– KMeans   — kmeans++ seeding followed by Lloyd iterations; fixed-k
//	  partition clustering. Deterministic for a fixed Seed.
//	– Louvain  — builds a k-nearest-neighbor graph and runs modularity
//	  local moving with a resolution parameter; the number of clusters
//	  emerges from the data.
//	– KNNGraph — brute-force Euclidean k-nearest-neighbor adjacency,
//	  symmetrized. Quadratic, intended for the moderate N this pipeline
//	  handles in one process.
//
// Labels are always compacted to 0..C-1 in order of first appearance, so
// output is stable across identical runs.
//
// Errors (sentinel):
//
//	– ErrNilFeatures  — nil feature matrix.
//	– ErrNoRows       — feature matrix with zero rows.
//	– ErrBadK         — k < 1, or k exceeding what the data supports.
//	– ErrBadNeighbors — neighbor count < 1.
package cluster
