// Package stoch stores and validates row-stochastic transition matrices.
//
// A transition matrix is square (N×N), non-negative, and every row sums
// to 1 within a numeric tolerance. Two concrete representations are
// provided behind the Matrix interface:
//
//   - Dense — flat row-major float64 storage; O(N²) memory.
//   - CSR   — compressed sparse row storage for matrices with few
//     non-zeros per row; O(NNZ) memory, fast mat-vec products.
//
// The package owns ingestion (DenseFromRows, CSRFromTriplets), validation
// (Validate), and row normalization (NormalizeRows). Downstream packages
// treat a Matrix as read-only.
//
// Errors (sentinel, matched via errors.Is):
//
//	– ErrBadShape    — non-positive dimension requested.
//	– ErrNonSquare   — ragged or non-square ingestion input.
//	– ErrOutOfRange  — triplet index outside [0, N).
//	– ErrNilMatrix   — nil Matrix passed where a value is required.
//	– ErrNegative    — negative entry where probabilities are required.
//	– ErrNaNInf      — NaN or ±Inf entry encountered.
//	– ErrRowSum      — a row does not sum to 1 within the tolerance.
//	– ErrZeroRow     — a row of all zeros cannot be normalized.
//	– ErrLengthMismatch — triplet slices of unequal length.
//
// Indexing note: At and EachInRow panic on out-of-range indices, like
// gonum/mat. Indices originate from validated loops over [0, N); an
// out-of-range index is a programmer error, not a user error.
package stoch
