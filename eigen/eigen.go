package eigen

import (
	"fmt"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/fate/stoch"
)

// Compute returns the truncated eigendecomposition of t: the top opts.K
// eigenpairs by opts.Which, with aligned left and right eigenvectors and
// the eigengap index.
//
// The sparse path is taken when t is sparse and the required subspace is
// small relative to N; otherwise the matrix is densified and factorized
// fully. Deterministic for fixed (t, opts): the sparse path seeds its
// iteration subspace from a fixed PRNG stream, the dense path is exact.
//
// Errors: ErrNilMatrix, ErrBadK, ErrEigenFailed.
func Compute(t stoch.Matrix, opts *Options) (*Decomposition, error) {
	if t == nil {
		return nil, ErrNilMatrix
	}

	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.K == 0 {
		o.K = DefaultK
	}
	if o.Alpha <= 0 {
		o.Alpha = DefaultAlpha
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}

	n := t.N()
	if o.K < 1 || o.K >= n {
		return nil, fmt.Errorf("k=%d, n=%d: %w", o.K, n, ErrBadK)
	}

	var (
		vals        []complex128
		left, right *mat.CDense
		err         error
	)
	if csr, ok := t.(*stoch.CSR); ok && !o.ForceDense && sparseWorthwhile(o.K, n) {
		vals, left, right, err = truncatedBoth(csr, &o)
	} else {
		vals, left, right, err = denseBoth(t, &o)
	}
	if err != nil {
		return nil, err
	}

	return &Decomposition{
		Values:   vals,
		Left:     left,
		Right:    right,
		Eigengap: eigengap(vals, o.Alpha),
		Which:    o.Which,
		Alpha:    o.Alpha,
	}, nil
}

// sparseWorthwhile reports whether the truncated solver pays off: the
// iteration subspace must still be much smaller than the full problem.
func sparseWorthwhile(k, n int) bool {
	return 2*subspaceSize(k, n) <= n
}

// subspaceSize is the working-subspace width of the sparse path: a margin
// above k stabilizes convergence of the trailing wanted pairs.
func subspaceSize(k, n int) int {
	m := 2*k + 8
	if m > n {
		m = n
	}

	return m
}

// denseBoth factorizes the densified matrix fully and selects the top K
// pairs. Left and right vectors share one factorization, so their columns
// are aligned exactly.
func denseBoth(t stoch.Matrix, o *Options) ([]complex128, *mat.CDense, *mat.CDense, error) {
	n := t.N()
	raw := t.Dense().Raw()
	a := mat.NewDense(n, n, append([]float64(nil), raw...))

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenBoth); !ok {
		return nil, nil, nil, fmt.Errorf("dense factorization: %w", ErrEigenFailed)
	}

	allVals := eig.Values(nil)
	vl := mat.NewCDense(n, n, nil)
	eig.LeftVectorsTo(vl)
	vr := mat.NewCDense(n, n, nil)
	eig.VectorsTo(vr)

	order := sortIndices(allVals, o.Which)
	top := order[:o.K]

	vals := make([]complex128, o.K)
	left := mat.NewCDense(n, o.K, nil)
	right := mat.NewCDense(n, o.K, nil)
	for c, idx := range top {
		vals[c] = allVals[idx]
		for i := 0; i < n; i++ {
			left.Set(i, c, vl.At(i, idx))
			right.Set(i, c, vr.At(i, idx))
		}
	}

	return vals, left, right, nil
}

// truncatedBoth runs the sparse solver for T (right vectors) and Tᵀ (left
// vectors) and pairs the two runs positionally, the eigenvalue sets being
// identical up to solver tolerance.
func truncatedBoth(csr *stoch.CSR, o *Options) ([]complex128, *mat.CDense, *mat.CDense, error) {
	vals, right, err := truncated(csr.MatVec, csr.N(), o)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("right vectors: %w", err)
	}
	_, left, err := truncated(csr.MatTVec, csr.N(), o)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("left vectors: %w", err)
	}

	return vals, left, right, nil
}

// sortIndices returns value indices ordered descending by the criterion,
// ties broken by ascending index for determinism.
func sortIndices(vals []complex128, which Criterion) []int {
	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}
	key := func(i int) float64 {
		if which == LargestMagnitude {
			return cmplx.Abs(vals[i])
		}
		return real(vals[i])
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := key(order[a]), key(order[b])
		if ka != kb {
			return ka > kb
		}
		return order[a] < order[b]
	})

	return order
}

// eigengap re-scores eigenvalues as 1 − α(1 − Re λ), sorts descending and
// returns the 0-based index of the largest consecutive gap. A single
// eigenvalue has no gap; index 0 is returned.
func eigengap(vals []complex128, alpha float64) int {
	if len(vals) < 2 {
		return 0
	}
	scores := make([]float64, len(vals))
	for i, v := range vals {
		// Equivalent to ranking by |1 − α(1 − Re λ)|: the score is
		// nonnegative on the leading spectrum (Re λ ≤ 1, α ≤ 1).
		scores[i] = 1 - alpha*(1-real(v))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	best, bestIdx := scores[0]-scores[1], 0
	for i := 1; i < len(scores)-1; i++ {
		if gap := scores[i] - scores[i+1]; gap > best {
			best, bestIdx = gap, i
		}
	}

	return bestIdx
}
