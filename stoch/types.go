// Package stoch: the Matrix interface shared by Dense and CSR.

package stoch

// Matrix is a read-only view of a square N×N transition matrix.
//
// At and EachInRow panic on out-of-range indices (see package doc).
// Dense materializes the matrix as dense storage; for a *Dense receiver
// it returns the receiver itself, for a *CSR it allocates.
type Matrix interface {
	// N returns the number of states (rows == columns).
	N() int

	// At returns the entry at (i, j).
	At(i, j int) float64

	// EachInRow calls fn(j, v) for every structurally stored entry of row i
	// in ascending column order. Dense visits all N columns; CSR visits only
	// non-zeros.
	EachInRow(i int, fn func(j int, v float64))

	// Dense returns a dense view of the matrix. Mutating the result of a
	// *Dense receiver mutates the matrix itself; CSR receivers allocate.
	Dense() *Dense

	// Sparse reports whether the underlying storage is sparse.
	Sparse() bool

	// Clone returns a deep copy with the same concrete representation.
	Clone() Matrix
}
