package eigen_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fate/eigen"
	"github.com/katalvlaran/fate/stoch"
)

func mustDense(t *testing.T, rows [][]float64) *stoch.Dense {
	t.Helper()
	d, err := stoch.DenseFromRows(rows)
	require.NoError(t, err)

	return d
}

// fourState is a chain with absorbing states 0 and 1 fed by transient
// states 2 and 3. Spectrum {1, 1, 0, 0}.
func fourState(t *testing.T) *stoch.Dense {
	t.Helper()

	return mustDense(t, [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.5, 0.5, 0, 0},
		{0.25, 0, 0.75, 0},
	})
}

// ringCSR builds an n-state lazy cycle, 0.5 self-loop and 0.5 forward step.
func ringCSR(t *testing.T, n int) *stoch.CSR {
	t.Helper()
	rows := make([]int, 0, 2*n)
	cols := make([]int, 0, 2*n)
	vals := make([]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		rows = append(rows, i, i)
		cols = append(cols, i, (i+1)%n)
		vals = append(vals, 0.5, 0.5)
	}
	m, err := stoch.CSRFromTriplets(n, rows, cols, vals)
	require.NoError(t, err)

	return m
}

func TestCompute_NilMatrix(t *testing.T) {
	_, err := eigen.Compute(nil, nil)
	assert.ErrorIs(t, err, eigen.ErrNilMatrix)
}

func TestCompute_BadK(t *testing.T) {
	d := fourState(t)

	for _, k := range []int{-1, 4, 17} {
		_, err := eigen.Compute(d, &eigen.Options{K: k})
		assert.ErrorIs(t, err, eigen.ErrBadK, "k=%d", k)
	}
}

// TestCompute_DenseTopEigenvalue verifies the stationary eigenvalue 1
// sorts first under both criteria and the pair count matches K.
func TestCompute_DenseTopEigenvalue(t *testing.T) {
	d := fourState(t)

	for _, which := range []eigen.Criterion{eigen.LargestReal, eigen.LargestMagnitude} {
		dec, err := eigen.Compute(d, &eigen.Options{K: 3, Which: which})
		require.NoError(t, err, which.String())
		require.Equal(t, 3, dec.K())
		assert.InDelta(t, 1.0, real(dec.Values[0]), 1e-10)
		assert.InDelta(t, 0.0, imag(dec.Values[0]), 1e-10)
	}
}

// TestCompute_ValuesSortedDescending checks the ordering invariant for
// the default criterion.
func TestCompute_ValuesSortedDescending(t *testing.T) {
	dec, err := eigen.Compute(fourState(t), &eigen.Options{K: 3})
	require.NoError(t, err)

	for j := 1; j < dec.K(); j++ {
		assert.GreaterOrEqual(t, real(dec.Values[j-1]), real(dec.Values[j])-1e-12)
	}
}

// TestCompute_PairsAligned verifies T·r = λ·r and Tᵀ·l = λ·l column by
// column, i.e. left and right vectors belong to the same eigenvalue.
func TestCompute_PairsAligned(t *testing.T) {
	d := fourState(t)
	dec, err := eigen.Compute(d, &eigen.Options{K: 2})
	require.NoError(t, err)

	n := d.N()
	for j := 0; j < dec.K(); j++ {
		lambda := dec.Values[j]
		for i := 0; i < n; i++ {
			var tr, tl complex128
			for p := 0; p < n; p++ {
				tr += complex(d.At(i, p), 0) * dec.Right.At(p, j)
				tl += complex(d.At(p, i), 0) * dec.Left.At(p, j)
			}
			assert.InDelta(t, 0, cmplx.Abs(tr-lambda*dec.Right.At(i, j)), 1e-8)
			assert.InDelta(t, 0, cmplx.Abs(tl-lambda*dec.Left.At(i, j)), 1e-8)
		}
	}
}

// TestCompute_Eigengap places the gap after the two unit eigenvalues of
// the absorbing chain.
func TestCompute_Eigengap(t *testing.T) {
	dec, err := eigen.Compute(fourState(t), &eigen.Options{K: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, dec.Eigengap)
	assert.Equal(t, []int{0, 1}, dec.DefaultUse())
}

// TestCompute_SparsePath runs the truncated solver on a 30-state lazy
// cycle and cross-checks against the dense factorization.
func TestCompute_SparsePath(t *testing.T) {
	m := ringCSR(t, 30)

	sparse, err := eigen.Compute(m, &eigen.Options{K: 1})
	require.NoError(t, err)
	dense, err := eigen.Compute(m, &eigen.Options{K: 1, ForceDense: true})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, real(sparse.Values[0]), 1e-6)
	assert.InDelta(t, real(dense.Values[0]), real(sparse.Values[0]), 1e-6)

	// The stationary right vector of an irreducible chain is constant.
	first := cmplx.Abs(sparse.Right.At(0, 0))
	for i := 1; i < m.N(); i++ {
		assert.InDelta(t, first, cmplx.Abs(sparse.Right.At(i, 0)), 1e-6)
	}
}

// TestCompute_SparseDeterministic reruns the truncated solver and expects
// bit-identical output.
func TestCompute_SparseDeterministic(t *testing.T) {
	m := ringCSR(t, 30)

	a, err := eigen.Compute(m, &eigen.Options{K: 1})
	require.NoError(t, err)
	b, err := eigen.Compute(m, &eigen.Options{K: 1})
	require.NoError(t, err)

	assert.Equal(t, a.Values, b.Values)
	for i := 0; i < m.N(); i++ {
		assert.Equal(t, a.Right.At(i, 0), b.Right.At(i, 0))
		assert.Equal(t, a.Left.At(i, 0), b.Left.At(i, 0))
	}
}

// TestRecurrenceScore_HighlightsRecurrent expects transient states to
// score zero when only the unit-eigenvalue columns are used: those left
// eigenvectors are supported on the absorbing states alone.
func TestRecurrenceScore_HighlightsRecurrent(t *testing.T) {
	dec, err := eigen.Compute(fourState(t), &eigen.Options{K: 3})
	require.NoError(t, err)

	score, err := dec.RecurrenceScore([]int{0, 1})
	require.NoError(t, err)
	require.Len(t, score, 4)

	assert.InDelta(t, 0, score[2], 1e-9)
	assert.InDelta(t, 0, score[3], 1e-9)

	top := math.Max(score[0], score[1])
	assert.InDelta(t, 1.0, top, 1e-12)
	for _, s := range score {
		assert.GreaterOrEqual(t, s, -1e-12)
		assert.LessOrEqual(t, s, 1.0+1e-12)
	}
}

func TestRecurrenceScore_NilUseMeansDefault(t *testing.T) {
	dec, err := eigen.Compute(fourState(t), &eigen.Options{K: 3})
	require.NoError(t, err)

	byDefault, err := dec.RecurrenceScore(nil)
	require.NoError(t, err)
	explicit, err := dec.RecurrenceScore(dec.DefaultUse())
	require.NoError(t, err)
	assert.Equal(t, explicit, byDefault)
}

func TestRecurrenceScore_VectorRange(t *testing.T) {
	dec, err := eigen.Compute(fourState(t), &eigen.Options{K: 2})
	require.NoError(t, err)

	_, err = dec.RecurrenceScore([]int{0, 5})
	assert.ErrorIs(t, err, eigen.ErrVectorRange)

	_, err = dec.RecurrenceScore([]int{-1})
	assert.ErrorIs(t, err, eigen.ErrVectorRange)
}

func TestDecomposition_Clone(t *testing.T) {
	dec, err := eigen.Compute(fourState(t), &eigen.Options{K: 2})
	require.NoError(t, err)

	cp := dec.Clone()
	cp.Values[0] = 42
	cp.Left.Set(0, 0, 7)

	assert.InDelta(t, 1.0, real(dec.Values[0]), 1e-10)
	assert.NotEqual(t, complex(7, 0), dec.Left.At(0, 0))
}
