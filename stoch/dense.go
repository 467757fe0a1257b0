// Package stoch: Dense is a row-major square matrix backed by a flat slice,
// stored contiguously for cache friendliness.

package stoch

import (
	"fmt"
	"math"
)

// Dense is a square row-major matrix of float64 values.
// n is the state count and data holds n*n elements in row-major order.
type Dense struct {
	n    int       // number of states (rows == columns)
	data []float64 // flat backing storage, length == n*n
}

// NewDense creates an n×n Dense matrix initialized to zeros.
// Returns ErrBadShape if n <= 0.
// Complexity: O(n²) time and memory.
func NewDense(n int) (*Dense, error) {
	if n <= 0 {
		return nil, ErrBadShape
	}

	return &Dense{n: n, data: make([]float64, n*n)}, nil
}

// DenseFromRows builds a Dense matrix from a slice of rows.
// Every row must have length len(rows); entries must be finite.
// Errors: ErrBadShape (empty input), ErrNonSquare (ragged rows),
// ErrNaNInf (non-finite entry).
// Complexity: O(n²).
func DenseFromRows(rows [][]float64) (*Dense, error) {
	n := len(rows)
	if n == 0 {
		return nil, ErrBadShape
	}

	d := &Dense{n: n, data: make([]float64, n*n)}
	var i, j int
	for i = 0; i < n; i++ {
		if len(rows[i]) != n {
			return nil, fmt.Errorf("row %d has length %d, want %d: %w", i, len(rows[i]), n, ErrNonSquare)
		}
		for j = 0; j < n; j++ {
			v := rows[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("entry (%d,%d): %w", i, j, ErrNaNInf)
			}
			d.data[i*n+j] = v
		}
	}

	return d, nil
}

// N returns the number of states.
func (d *Dense) N() int { return d.n }

// At returns the entry at (i, j). Panics on out-of-range indices.
func (d *Dense) At(i, j int) float64 {
	d.check(i, j)

	return d.data[i*d.n+j]
}

// Set assigns v at (i, j). Panics on out-of-range indices.
func (d *Dense) Set(i, j int, v float64) {
	d.check(i, j)
	d.data[i*d.n+j] = v
}

// Row returns a mutable view of row i (no copy).
func (d *Dense) Row(i int) []float64 {
	d.check(i, 0)

	return d.data[i*d.n : (i+1)*d.n]
}

// EachInRow calls fn(j, v) for every column j of row i in ascending order.
func (d *Dense) EachInRow(i int, fn func(j int, v float64)) {
	row := d.Row(i)
	for j, v := range row {
		fn(j, v)
	}
}

// Dense returns the receiver itself (no copy).
func (d *Dense) Dense() *Dense { return d }

// Sparse reports false: Dense storage is dense.
func (d *Dense) Sparse() bool { return false }

// Raw returns the flat row-major backing slice (no copy). Callers that need
// an independent buffer must copy it themselves.
func (d *Dense) Raw() []float64 { return d.data }

// Clone returns a deep copy of the matrix.
// Complexity: O(n²).
func (d *Dense) Clone() Matrix {
	data := make([]float64, len(d.data))
	copy(data, d.data)

	return &Dense{n: d.n, data: data}
}

// check panics when (i, j) is outside [0, n) × [0, n).
// Out-of-range indices are programmer errors here (see package doc).
func (d *Dense) check(i, j int) {
	if i < 0 || i >= d.n || j < 0 || j >= d.n {
		panic(fmt.Sprintf("stoch: index (%d,%d) out of range for %d×%d matrix", i, j, d.n, d.n))
	}
}

// String implements fmt.Stringer for debugging.
func (d *Dense) String() string {
	var s string
	var i, j int
	for i = 0; i < d.n; i++ {
		s += "["
		for j = 0; j < d.n; j++ {
			s += fmt.Sprintf("%g", d.data[i*d.n+j])
			if j < d.n-1 {
				s += ", "
			}
		}
		s += "]\n"
	}

	return s
}
