// Package fate models a measured population as a time-homogeneous,
// discrete-state Markov chain and maps every state to its eventual fate.
//
// 🚀 What is fate?
//
//	A library for absorbing-Markov-chain analysis over an externally
//	precomputed, row-stochastic transition matrix:
//		• Communication classes: recurrent vs. transient partitioning (Tarjan SCC)
//		• Spectral analysis: truncated left/right eigendecomposition + eigengap
//		• Terminal classes: filter & cluster states in eigenvector space
//		• Absorption: fundamental-matrix solve for per-lineage fate probabilities
//		• Plasticity: entropy of fate distributions (differentiation potential)
//
// ✨ Why choose fate?
//
//   - Explicit sessions – all derived state lives on one markov.Chain, each
//     compute step is atomic (commit on success, untouched on failure)
//   - Pluggable capabilities – clustering, neighbor graphs and statistical
//     tests are interfaces, swappable for deterministic fakes in tests
//   - Sparse-aware – CSR storage with a truncated eigensolver, dense only
//     where the math demands it (the absorption solve)
//
// Everything is organized under per-concern subpackages:
//
//	stoch/     — row-stochastic matrix storage (dense & CSR), validation
//	partition/ — recurrent/transient communication classes, irreducibility
//	eigen/     — truncated eigendecomposition, eigengap, recurrence scores
//	cluster/   — clustering & neighbor-graph capabilities (kmeans, louvain, knn)
//	stats/     — entropy, z-scores, quantiles, Wilcoxon rank-sum
//	lineage/   — named & colored probability-matrix abstraction
//	classes/   — terminal-class discovery and labeling
//	absorb/    — absorption probabilities & differentiation potential
//	markov/    — the estimator session tying it all together
//
// Data flows transition matrix → partition/eigen → classes → absorb → lineage.
//
//	go get github.com/katalvlaran/fate
package fate
