// Package eigen computes truncated left/right eigendecompositions of a
// transition matrix, the eigengap heuristic, and per-state recurrence
// scores.
//
// Two solver paths sit behind one facade:
//
//	– Dense: a full nonsymmetric factorization (gonum mat.Eigen with
//	  EigenBoth), after which the top K pairs by the requested criterion
//	  are selected. Left and right vectors come from the same
//	  factorization and are aligned by construction.
//	– Sparse: Rayleigh–Ritz subspace iteration over CSR mat-vec products,
//	  run independently for T (right vectors) and Tᵀ (left vectors); the
//	  two runs are paired positionally after sorting by the criterion.
//	  Chosen automatically when the matrix is sparse and K is small
//	  relative to N.
//
// Eigenvalues of a general transition matrix are complex; Values, Left and
// Right are therefore complex-valued. Sorting criteria:
//
//	– LargestReal      — descending real part (the default; the stationary
//	  eigenvalue 1 sorts first for a stochastic matrix).
//	– LargestMagnitude — descending |λ|.
//
// The eigengap re-scores each eigenvalue as 1 − α·(1 − Re λ), penalizing
// deviation from the unit eigenvalue by the weight α, sorts the scores
// descending, and reports the 0-based index of the largest consecutive
// gap. Downstream that index is the last informative eigenvector.
//
// Errors (sentinel):
//
//	– ErrNilMatrix         — nil input matrix.
//	– ErrBadK              — K < 1 or K >= N; lower K or use a larger chain.
//	– ErrEigenFailed       — the factorization or iteration did not
//	  converge; lower K or switch the criterion.
//	– ErrVectorRange       — a requested eigenvector index is outside the
//	  computed K; recompute with a larger K.
//	– ErrNilDecomposition  — nil *Decomposition receiver/argument.
package eigen
