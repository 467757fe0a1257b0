// Package eigen: per-state recurrence scores from the left eigenvectors.

package eigen

import (
	"fmt"
	"math"
)

// DefaultUse returns the eigenvector columns selected by the eigengap
// heuristic: indices 0 through Eigengap inclusive.
func (d *Decomposition) DefaultUse() []int {
	use := make([]int, d.Eigengap+1)
	for i := range use {
		use[i] = i
	}

	return use
}

// RecurrenceScore aggregates the selected left eigenvectors into one
// non-negative score per state, normalized so the maximum is 1. High
// scores mark states that the chain keeps returning to.
//
// Per selected column j: take |Re L[:,j]|, shift so the column minimum is
// zero, scale so the column maximum is one (a constant column becomes
// zero), then divide by Re Values[j] to down-weight columns of faster
// decaying modes. The per-state score is the row sum over the selected
// columns, divided by the global maximum.
//
// A nil use selects DefaultUse. Errors: ErrNilDecomposition,
// ErrVectorRange (an index outside [0, K)).
func (d *Decomposition) RecurrenceScore(use []int) ([]float64, error) {
	if d == nil || d.Left == nil {
		return nil, ErrNilDecomposition
	}
	if use == nil {
		use = d.DefaultUse()
	}
	for _, j := range use {
		if j < 0 || j >= d.K() {
			return nil, fmt.Errorf("column %d of k=%d: %w", j, d.K(), ErrVectorRange)
		}
	}

	n := d.N()
	score := make([]float64, n)
	col := make([]float64, n)
	for _, j := range use {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < n; i++ {
			col[i] = math.Abs(real(d.Left.At(i, j)))
			lo = math.Min(lo, col[i])
			hi = math.Max(hi, col[i])
		}

		span := hi - lo
		lambda := real(d.Values[j])
		for i := 0; i < n; i++ {
			if span == 0 {
				col[i] = 0
				continue
			}
			col[i] = (col[i] - lo) / span / lambda
		}
		for i := 0; i < n; i++ {
			score[i] += col[i]
		}
	}

	var top float64
	for _, s := range score {
		top = math.Max(top, s)
	}
	if top > 0 {
		for i := range score {
			score[i] /= top
		}
	}

	return score, nil
}
