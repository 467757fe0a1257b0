package absorb_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fate/absorb"
	"github.com/katalvlaran/fate/classes"
	"github.com/katalvlaran/fate/stoch"
)

func mustDense(t *testing.T, rows [][]float64) *stoch.Dense {
	t.Helper()
	d, err := stoch.DenseFromRows(rows)
	require.NoError(t, err)

	return d
}

// fourState absorbs at 0 (class A) and 1 (class B); 2 and 3 are transient.
func fourState(t *testing.T) (*stoch.Dense, *classes.Labeling) {
	t.Helper()
	d := mustDense(t, [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.5, 0.5, 0, 0},
		{0.25, 0, 0.75, 0},
	})
	lab, err := classes.NewLabeling([]int{0, 1, -1, -1}, []string{"A", "B"}, nil, nil)
	require.NoError(t, err)

	return d, lab
}

func TestCompute_NilInputs(t *testing.T) {
	d, lab := fourState(t)

	_, _, err := absorb.Compute(nil, lab, nil)
	assert.ErrorIs(t, err, absorb.ErrNilMatrix)

	_, _, err = absorb.Compute(d, nil, nil)
	assert.ErrorIs(t, err, absorb.ErrNilLabeling)
}

func TestCompute_ShapeMismatch(t *testing.T) {
	d, _ := fourState(t)
	lab, err := classes.NewLabeling([]int{0, -1}, []string{"A"}, nil, nil)
	require.NoError(t, err)

	_, _, err = absorb.Compute(d, lab, nil)
	assert.ErrorIs(t, err, absorb.ErrShapeMismatch)
}

// TestCompute_FourStateExact pins the hand-solved absorption
// probabilities: state 2 → [0.5, 0.5], state 3 → [0.625, 0.375].
func TestCompute_FourStateExact(t *testing.T) {
	d, lab := fourState(t)

	lin, dp, err := absorb.Compute(d, lab, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, lin.Names())

	// Absorbing states are one-hot with zero potential.
	assert.InDelta(t, 1.0, lin.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, lin.At(0, 1), 1e-12)
	assert.InDelta(t, 0.0, lin.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0, lin.At(1, 1), 1e-12)
	assert.InDelta(t, 0.0, dp[0], 1e-12)
	assert.InDelta(t, 0.0, dp[1], 1e-12)

	assert.InDelta(t, 0.5, lin.At(2, 0), 1e-12)
	assert.InDelta(t, 0.5, lin.At(2, 1), 1e-12)
	assert.InDelta(t, 0.625, lin.At(3, 0), 1e-12)
	assert.InDelta(t, 0.375, lin.At(3, 1), 1e-12)

	// Even split has maximal two-class entropy ln 2.
	assert.InDelta(t, math.Log(2), dp[2], 1e-12)
	assert.Greater(t, dp[2], dp[3])
}

// TestCompute_RowsAreDistributions verifies rows sum to one within
// tolerance on a denser example.
func TestCompute_RowsAreDistributions(t *testing.T) {
	d := mustDense(t, [][]float64{
		{1, 0, 0, 0, 0},
		{0, 1, 0, 0, 0},
		{0.2, 0.3, 0.1, 0.2, 0.2},
		{0.1, 0.1, 0.3, 0.2, 0.3},
		{0.4, 0.1, 0.2, 0.2, 0.1},
	})
	lab, err := classes.NewLabeling([]int{0, 1, -1, -1, -1}, []string{"A", "B"}, nil, nil)
	require.NoError(t, err)

	lin, dp, err := absorb.Compute(d, lab, nil)
	require.NoError(t, err)
	require.Len(t, dp, 5)

	for i := 0; i < 5; i++ {
		sum := lin.At(i, 0) + lin.At(i, 1)
		assert.InDelta(t, 1.0, sum, 1e-6, "row %d", i)
		assert.GreaterOrEqual(t, lin.At(i, 0), 0.0)
		assert.GreaterOrEqual(t, lin.At(i, 1), 0.0)
	}
}

// TestCompute_SingleClass yields an all-ones column, zero entropy, and an
// advisory.
func TestCompute_SingleClass(t *testing.T) {
	d, _ := fourState(t)
	lab, err := classes.NewLabeling([]int{0, 0, -1, -1}, []string{"End"}, nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	lin, dp, err := absorb.Compute(d, lab, &absorb.Options{
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.InDelta(t, 1.0, lin.At(i, 0), 1e-12)
		assert.InDelta(t, 0.0, dp[i], 1e-12)
	}
	assert.Contains(t, buf.String(), "only one recurrent class")
}

func TestCompute_Keys(t *testing.T) {
	// Deselecting A must leave a well-posed system, so state 0 (class A)
	// keeps an escape route toward B here.
	d := mustDense(t, [][]float64{
		{0.5, 0.5, 0, 0},
		{0, 1, 0, 0},
		{0.5, 0.5, 0, 0},
		{0.25, 0, 0.75, 0},
	})
	lab, err := classes.NewLabeling([]int{0, 1, -1, -1}, []string{"A", "B"}, nil, nil)
	require.NoError(t, err)

	lin, _, err := absorb.Compute(d, lab, &absorb.Options{Keys: []string{"B"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, lin.Names())
	// Everything eventually reaches B, the only selected target.
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 1.0, lin.At(i, 0), 1e-9, "state %d", i)
	}

	_, _, err = absorb.Compute(d, lab, &absorb.Options{Keys: []string{"C"}})
	assert.ErrorIs(t, err, absorb.ErrUnknownKey)
}

// TestCompute_SingularWithDeselectedSink: deselecting a class that is a
// true sink leaves a transient set the chain cannot escape from.
func TestCompute_SingularWithDeselectedSink(t *testing.T) {
	d, lab := fourState(t)

	_, _, err := absorb.Compute(d, lab, &absorb.Options{Keys: []string{"B"}})
	assert.ErrorIs(t, err, absorb.ErrSingular)
}

// TestCompute_NormalizeBySize divides class columns by their member count
// before renormalization.
func TestCompute_NormalizeBySize(t *testing.T) {
	// Class A has two absorbing states, class B one; state 3 reaches all
	// three evenly.
	d := mustDense(t, [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{1.0 / 3, 1.0 / 3, 1.0 / 3, 0},
	})
	lab, err := classes.NewLabeling([]int{0, 0, 1, -1}, []string{"A", "B"}, nil, nil)
	require.NoError(t, err)

	plain, _, err := absorb.Compute(d, lab, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, plain.At(3, 0), 1e-12)
	assert.InDelta(t, 1.0/3, plain.At(3, 1), 1e-12)

	sized, _, err := absorb.Compute(d, lab, &absorb.Options{NormalizeBySize: true})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sized.At(3, 0), 1e-12)
	assert.InDelta(t, 0.5, sized.At(3, 1), 1e-12)
}

func TestCompute_NoRecurrent(t *testing.T) {
	d, _ := fourState(t)
	lab, err := classes.NewLabeling([]int{-1, -1, -1, -1}, nil, nil, nil)
	require.NoError(t, err)

	_, _, err = absorb.Compute(d, lab, nil)
	assert.ErrorIs(t, err, absorb.ErrNoRecurrent)
}

// TestCompute_CheckIrreducible warns when the transient restriction
// splits into several communication classes.
func TestCompute_CheckIrreducible(t *testing.T) {
	// States 2 and 3 never communicate with each other.
	d := mustDense(t, [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.5, 0.5, 0, 0},
		{0.5, 0.5, 0, 0},
	})
	lab, err := classes.NewLabeling([]int{0, 1, -1, -1}, []string{"A", "B"}, nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, _, err = absorb.Compute(d, lab, &absorb.Options{
		CheckIrreducible: true,
		Logger:           slog.New(slog.NewTextHandler(&buf, nil)),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "not irreducible")
}

// TestCompute_CSRInput accepts sparse matrices by densifying internally.
func TestCompute_CSRInput(t *testing.T) {
	m, err := stoch.CSRFromTriplets(4,
		[]int{0, 1, 2, 2, 3, 3},
		[]int{0, 1, 0, 1, 0, 2},
		[]float64{1, 1, 0.5, 0.5, 0.25, 0.75})
	require.NoError(t, err)
	lab, err := classes.NewLabeling([]int{0, 1, -1, -1}, []string{"A", "B"}, nil, nil)
	require.NoError(t, err)

	lin, _, err := absorb.Compute(m, lab, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.625, lin.At(3, 0), 1e-12)
	assert.InDelta(t, 0.375, lin.At(3, 1), 1e-12)
}
