// Package stoch: fail-fast validation and row normalization.
// Validation walks stored entries only, so CSR matrices validate in O(NNZ).

package stoch

import (
	"fmt"
	"math"
)

// DefaultEps is the tolerance for the row-sum check in Validate.
const DefaultEps = 1e-8

// ValidateOptions configures Validate.
//
//	– Eps:          tolerance for |rowSum − 1|. Defaults to DefaultEps if <= 0.
//	– SkipRowSums:  only check non-negativity and finiteness. Used for
//	  sub-matrices (e.g. the transient restriction Q) whose rows legitimately
//	  sum to less than one.
type ValidateOptions struct {
	Eps         float64
	SkipRowSums bool
}

// Validate checks that m is a well-formed row-stochastic matrix:
// all entries finite and non-negative, every row summing to 1 within Eps.
//
// Errors: ErrNilMatrix, ErrNegative, ErrNaNInf, ErrRowSum — each wrapped
// with the offending (row, col) position for direct diagnosis.
// Complexity: O(n²) dense, O(nnz) sparse.
func Validate(m Matrix, opts *ValidateOptions) error {
	if m == nil {
		return ErrNilMatrix
	}

	eps := DefaultEps
	skipSums := false
	if opts != nil {
		if opts.Eps > 0 {
			eps = opts.Eps
		}
		skipSums = opts.SkipRowSums
	}

	n := m.N()
	var err error
	var i int
	for i = 0; i < n; i++ {
		sum := 0.0
		m.EachInRow(i, func(j int, v float64) {
			if err != nil {
				return
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				err = fmt.Errorf("entry (%d,%d): %w", i, j, ErrNaNInf)
				return
			}
			if v < 0 {
				err = fmt.Errorf("entry (%d,%d) = %g: %w", i, j, v, ErrNegative)
				return
			}
			sum += v
		})
		if err != nil {
			return err
		}
		if !skipSums && math.Abs(sum-1) > eps {
			return fmt.Errorf("row %d sums to %g: %w", i, sum, ErrRowSum)
		}
	}

	return nil
}

// NormalizeRows rescales every row of m in place so that it sums to 1.
// Returns ErrZeroRow if any row has no mass, ErrNegative/ErrNaNInf on
// malformed entries (the matrix is left partially normalized only past the
// offending row — callers should discard it on error).
// Complexity: O(n²) dense, O(nnz) sparse.
func NormalizeRows(m Matrix) error {
	if m == nil {
		return ErrNilMatrix
	}

	n := m.N()
	var i int
	for i = 0; i < n; i++ {
		var err error
		sum := 0.0
		m.EachInRow(i, func(j int, v float64) {
			if err != nil {
				return
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				err = fmt.Errorf("entry (%d,%d): %w", i, j, ErrNaNInf)
				return
			}
			if v < 0 {
				err = fmt.Errorf("entry (%d,%d) = %g: %w", i, j, v, ErrNegative)
				return
			}
			sum += v
		})
		if err != nil {
			return err
		}
		if sum == 0 {
			return fmt.Errorf("row %d: %w", i, ErrZeroRow)
		}

		switch t := m.(type) {
		case *Dense:
			row := t.Row(i)
			for j := range row {
				row[j] /= sum
			}
		case *CSR:
			for p := t.indptr[i]; p < t.indptr[i+1]; p++ {
				t.data[p] /= sum
			}
		default:
			return fmt.Errorf("NormalizeRows: %T: %w", m, ErrUnsupported)
		}
	}

	return nil
}
