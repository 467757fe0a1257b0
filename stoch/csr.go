// Package stoch: CSR is a compressed-sparse-row square matrix.
// Suited to transition matrices with few non-zeros per row (e.g. built from
// k-nearest-neighbor kernels); mat-vec products run in O(NNZ).

package stoch

import (
	"fmt"
	"math"
	"sort"
)

// CSR is a square matrix in compressed-sparse-row form.
// indptr has length n+1; indices/data hold the column index and value of
// every stored entry, row by row, columns ascending within a row.
type CSR struct {
	n      int
	indptr []int
	cols   []int
	data   []float64
}

// CSRFromTriplets builds a CSR matrix from coordinate-form input.
// Duplicate (i, j) entries are summed, matching the usual sparse convention.
//
// Errors: ErrBadShape (n <= 0), ErrLengthMismatch (slice lengths differ),
// ErrOutOfRange (index outside [0, n)), ErrNaNInf (non-finite value).
// Complexity: O(nnz log nnz) for the per-row column sort.
func CSRFromTriplets(n int, rows, cols []int, vals []float64) (*CSR, error) {
	if n <= 0 {
		return nil, ErrBadShape
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, fmt.Errorf("rows=%d cols=%d vals=%d: %w", len(rows), len(cols), len(vals), ErrLengthMismatch)
	}

	// Validate entries before any allocation beyond counts.
	counts := make([]int, n+1)
	var k int
	for k = 0; k < len(rows); k++ {
		if rows[k] < 0 || rows[k] >= n || cols[k] < 0 || cols[k] >= n {
			return nil, fmt.Errorf("triplet %d at (%d,%d): %w", k, rows[k], cols[k], ErrOutOfRange)
		}
		if math.IsNaN(vals[k]) || math.IsInf(vals[k], 0) {
			return nil, fmt.Errorf("triplet %d: %w", k, ErrNaNInf)
		}
		counts[rows[k]+1]++
	}

	// Prefix sums give provisional row pointers.
	for i := 1; i <= n; i++ {
		counts[i] += counts[i-1]
	}

	// Scatter triplets into row buckets.
	m := &CSR{
		n:      n,
		indptr: counts,
		cols:   make([]int, len(rows)),
		data:   make([]float64, len(rows)),
	}
	next := make([]int, n)
	copy(next, counts[:n])
	for k = 0; k < len(rows); k++ {
		p := next[rows[k]]
		m.cols[p] = cols[k]
		m.data[p] = vals[k]
		next[rows[k]]++
	}

	// Sort each row by column and merge duplicates in place.
	m.compact()

	return m, nil
}

// compact sorts every row by column index and sums duplicate entries.
// Output goes into fresh slices: appending over the input arrays would
// clobber entries the permutation loop has yet to read.
func (m *CSR) compact() {
	outCols := make([]int, 0, len(m.cols))
	outData := make([]float64, 0, len(m.data))
	newPtr := make([]int, m.n+1)

	var i int
	for i = 0; i < m.n; i++ {
		lo, hi := m.indptr[i], m.indptr[i+1]
		row := make([]int, hi-lo)
		for k := range row {
			row[k] = k
		}
		sort.Slice(row, func(a, b int) bool { return m.cols[lo+row[a]] < m.cols[lo+row[b]] })

		prev := -1
		for _, k := range row {
			c, v := m.cols[lo+k], m.data[lo+k]
			if c == prev {
				outData[len(outData)-1] += v
				continue
			}
			outCols = append(outCols, c)
			outData = append(outData, v)
			prev = c
		}
		newPtr[i+1] = len(outCols)
	}

	m.cols = outCols
	m.data = outData
	m.indptr = newPtr
}

// N returns the number of states.
func (m *CSR) N() int { return m.n }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// At returns the entry at (i, j), zero when not stored.
// Panics on out-of-range indices. Complexity: O(log nnz(row i)).
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("stoch: index (%d,%d) out of range for %d×%d matrix", i, j, m.n, m.n))
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	p := lo + sort.SearchInts(m.cols[lo:hi], j)
	if p < hi && m.cols[p] == j {
		return m.data[p]
	}

	return 0
}

// EachInRow calls fn(j, v) for every stored entry of row i, columns ascending.
func (m *CSR) EachInRow(i int, fn func(j int, v float64)) {
	if i < 0 || i >= m.n {
		panic(fmt.Sprintf("stoch: row %d out of range for %d×%d matrix", i, m.n, m.n))
	}
	for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
		fn(m.cols[p], m.data[p])
	}
}

// Dense materializes the matrix as a fresh Dense.
// Complexity: O(n² + nnz).
func (m *CSR) Dense() *Dense {
	d := &Dense{n: m.n, data: make([]float64, m.n*m.n)}
	var i int
	for i = 0; i < m.n; i++ {
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			d.data[i*m.n+m.cols[p]] = m.data[p]
		}
	}

	return d
}

// Sparse reports true: CSR storage is sparse.
func (m *CSR) Sparse() bool { return true }

// MatVec computes y = M·x. Both slices must have length N.
// Complexity: O(nnz).
func (m *CSR) MatVec(x, y []float64) {
	var i int
	for i = 0; i < m.n; i++ {
		sum := 0.0
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			sum += m.data[p] * x[m.cols[p]]
		}
		y[i] = sum
	}
}

// MatTVec computes y = Mᵀ·x. Both slices must have length N.
// Complexity: O(nnz).
func (m *CSR) MatTVec(x, y []float64) {
	for i := range y {
		y[i] = 0
	}
	var i int
	for i = 0; i < m.n; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			y[m.cols[p]] += m.data[p] * xi
		}
	}
}

// Clone returns a deep copy of the matrix.
func (m *CSR) Clone() Matrix {
	c := &CSR{
		n:      m.n,
		indptr: make([]int, len(m.indptr)),
		cols:   make([]int, len(m.cols)),
		data:   make([]float64, len(m.data)),
	}
	copy(c.indptr, m.indptr)
	copy(c.cols, m.cols)
	copy(c.data, m.data)

	return c
}
