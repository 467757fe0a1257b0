package classes_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/fate/classes"
	"github.com/katalvlaran/fate/cluster"
	"github.com/katalvlaran/fate/eigen"
	"github.com/katalvlaran/fate/stoch"
)

// fourStateEig decomposes the absorbing 4-state chain used across the
// labeling tests: states 0 and 1 absorb, 2 and 3 are transient.
func fourStateEig(t *testing.T) *eigen.Decomposition {
	t.Helper()
	d, err := stoch.DenseFromRows([][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.5, 0.5, 0, 0},
		{0.25, 0, 0.75, 0},
	})
	require.NoError(t, err)

	dec, err := eigen.Compute(d, &eigen.Options{K: 3})
	require.NoError(t, err)

	return dec
}

func TestParseMethod(t *testing.T) {
	m, err := classes.ParseMethod("KMeans")
	require.NoError(t, err)
	assert.Equal(t, classes.MethodKMeans, m)

	m, err = classes.ParseMethod(" louvain ")
	require.NoError(t, err)
	assert.Equal(t, classes.MethodLouvain, m)

	_, err = classes.ParseMethod("spectral")
	assert.ErrorIs(t, err, classes.ErrBadMethod)
}

func TestNewLabeling_Validation(t *testing.T) {
	_, err := classes.NewLabeling([]int{0, 2}, []string{"a", "b"}, nil, nil)
	assert.ErrorIs(t, err, classes.ErrBadAssignment)

	_, err = classes.NewLabeling([]int{0}, []string{"a", "a"}, nil, nil)
	assert.ErrorIs(t, err, classes.ErrUnknownClass)

	_, err = classes.NewLabeling([]int{0}, []string{"a"}, []string{"#111", "#222"}, nil)
	assert.ErrorIs(t, err, classes.ErrLengthMismatch)

	_, err = classes.NewLabeling([]int{0, 1}, []string{"a", "b"}, nil, []float64{0.5})
	assert.ErrorIs(t, err, classes.ErrLengthMismatch)
}

func TestLabeling_Accessors(t *testing.T) {
	lab, err := classes.NewLabeling(
		[]int{0, 1, -1, 0}, []string{"a", "b"}, nil, []float64{1, 1, 0.2, 0.9})
	require.NoError(t, err)

	assert.Equal(t, 4, lab.N())
	assert.Equal(t, 2, lab.NumClasses())
	assert.Equal(t, []bool{true, true, false, true}, lab.Mask())
	assert.Equal(t, []int{2, 1}, lab.Counts())

	members, err := lab.Members("a")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, members)

	_, err = lab.Members("zzz")
	assert.ErrorIs(t, err, classes.ErrUnknownClass)

	// Palette colors are filled in when none are given.
	assert.Len(t, lab.Colors(), 2)
	assert.NotEmpty(t, lab.Colors()[0])
}

func TestLabeling_CloneIndependent(t *testing.T) {
	lab, err := classes.NewLabeling([]int{0, -1}, []string{"a"}, nil, nil)
	require.NoError(t, err)

	cp := lab.Clone()
	cpAssign := cp.Assign()
	cpAssign[0] = -1
	assert.Equal(t, 0, lab.ClassOf(0))
}

func TestSet_FromGroups(t *testing.T) {
	lab, err := classes.Set(4, nil, classes.Source{
		Groups: map[string][]int{"beta": {1}, "alpha": {0, 3}},
	}, nil)
	require.NoError(t, err)

	// Group names are taken in sorted order for determinism.
	assert.ElementsMatch(t, []string{"alpha", "beta"}, lab.Names())
	members, err := lab.Members("alpha")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, members)
	assert.Equal(t, classes.Unassigned, lab.ClassOf(2))
}

func TestSet_FromLabels(t *testing.T) {
	lab, err := classes.Set(3, nil, classes.Source{
		Labels: []int{1, -1, 0},
		Names:  []string{"x", "y"},
	}, nil)
	require.NoError(t, err)

	// Classes are renumbered by first appearance; names follow.
	assert.Equal(t, []string{"y", "x"}, lab.Names())
	assert.Equal(t, 0, lab.ClassOf(0))
	assert.Equal(t, 1, lab.ClassOf(2))
}

func TestSet_BadSource(t *testing.T) {
	_, err := classes.Set(2, nil, classes.Source{}, nil)
	assert.ErrorIs(t, err, classes.ErrBadSource)

	_, err = classes.Set(2, nil, classes.Source{
		Labels: []int{0, 0},
		Groups: map[string][]int{"a": {0}},
	}, nil)
	assert.ErrorIs(t, err, classes.ErrBadSource)
}

func TestSet_AddToExisting(t *testing.T) {
	prev, err := classes.Set(4, nil, classes.Source{
		Groups: map[string][]int{"old": {0, 1}},
	}, nil)
	require.NoError(t, err)

	// Overlap on state 1: the incoming class wins.
	merged, err := classes.Set(4, prev, classes.Source{
		Groups: map[string][]int{"new": {1, 2}},
	}, &classes.SetOptions{AddToExisting: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"old", "new"}, merged.Names())
	mOld, err := merged.Members("old")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, mOld)
	mNew, err := merged.Members("new")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, mNew)
}

func TestSet_AddToExisting_DropsEmptied(t *testing.T) {
	prev, err := classes.Set(2, nil, classes.Source{
		Groups: map[string][]int{"old": {0}},
	}, nil)
	require.NoError(t, err)

	merged, err := classes.Set(2, prev, classes.Source{
		Groups: map[string][]int{"new": {0, 1}},
	}, &classes.SetOptions{AddToExisting: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, merged.Names())
}

func TestSet_NoExisting(t *testing.T) {
	_, err := classes.Set(2, nil, classes.Source{
		Groups: map[string][]int{"a": {0}},
	}, &classes.SetOptions{AddToExisting: true})
	assert.ErrorIs(t, err, classes.ErrNoExisting)
}

// TestSet_ClusterKeyNaming renames classes by majority external group,
// falls back to Unknown for a mixed class, and disambiguates duplicates.
func TestSet_ClusterKeyNaming(t *testing.T) {
	// Class 0 = {0,1} pure "Ngn3", class 1 = {2,3} pure "Ngn3",
	// class 2 = {4,5} an even two-group mix (entropy ln 2 > 0.5).
	lab, err := classes.Set(6, nil, classes.Source{
		Labels: []int{0, 0, 1, 1, 2, 2},
	}, &classes.SetOptions{
		ClusterKey:    []string{"Ngn3", "Ngn3", "Ngn3", "Ngn3", "Alpha", "Beta"},
		EntropyCutoff: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ngn3", "Ngn3_1", "Unknown"}, lab.Names())
}

func TestSet_ClusterKeyLengthMismatch(t *testing.T) {
	_, err := classes.Set(3, nil, classes.Source{
		Labels: []int{0, 0, -1},
	}, &classes.SetOptions{ClusterKey: []string{"a"}})
	assert.ErrorIs(t, err, classes.ErrLengthMismatch)
}

// TestSet_CellCycleWarning expects an advisory when a class ranks
// significantly higher on a cell-cycle score.
func TestSet_CellCycleWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := classes.Set(4, nil, classes.Source{
		Labels: []int{0, 0, -1, -1},
	}, &classes.SetOptions{
		G2M:     []float64{9, 9, 0, 0},
		PThresh: 1e-15,
		RankSum: func(x, y []float64) (float64, float64) { return 2.5, 1e-20 },
		Logger:  logger,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cell-cycle")
	assert.Contains(t, buf.String(), "G2M")
}

func TestCompute_NilDecomposition(t *testing.T) {
	_, err := classes.Compute(nil, nil)
	assert.ErrorIs(t, err, eigen.ErrNilDecomposition)
}

func TestCompute_BadInputs(t *testing.T) {
	dec := fourStateEig(t)

	opts := classes.DefaultOptions()
	opts.Use = []int{0, 9}
	_, err := classes.Compute(dec, &opts)
	assert.ErrorIs(t, err, eigen.ErrVectorRange)

	opts = classes.DefaultOptions()
	opts.Percentile = 101
	_, err = classes.Compute(dec, &opts)
	assert.ErrorIs(t, err, classes.ErrBadPercentile)
}

// TestCompute_PercentileZeroKeepsAll labels every state when filtering is
// disabled.
func TestCompute_PercentileZeroKeepsAll(t *testing.T) {
	dec := fourStateEig(t)

	opts := classes.DefaultOptions()
	opts.Use = []int{0, 1}
	opts.Percentile = 0
	opts.KMeansClusters = 2
	lab, err := classes.Compute(dec, &opts)
	require.NoError(t, err)

	assert.Equal(t, 4, lab.N())
	assert.Equal(t, 2, lab.NumClasses())
	for i := 0; i < 4; i++ {
		assert.NotEqual(t, classes.Unassigned, lab.ClassOf(i), "state %d", i)
	}

	// Transient states carry no recurrence weight on the unit columns.
	probs := lab.Probs()
	require.Len(t, probs, 4)
	assert.InDelta(t, 0, probs[2], 1e-9)
	assert.InDelta(t, 0, probs[3], 1e-9)
}

// TestCompute_PercentileHundredKeepsNone returns an empty labeling, not
// an error.
func TestCompute_PercentileHundredKeepsNone(t *testing.T) {
	dec := fourStateEig(t)

	opts := classes.DefaultOptions()
	opts.Percentile = 100
	lab, err := classes.Compute(dec, &opts)
	require.NoError(t, err)

	assert.Equal(t, 0, lab.NumClasses())
	for i := 0; i < 4; i++ {
		assert.Equal(t, classes.Unassigned, lab.ClassOf(i))
	}
	assert.Len(t, lab.Probs(), 4)
}

// TestCompute_PercentileFiltersTransient drops the transient states: the
// unit-eigenvalue left vectors put all weight on the absorbing pair.
func TestCompute_PercentileFiltersTransient(t *testing.T) {
	dec := fourStateEig(t)

	opts := classes.DefaultOptions()
	opts.Use = []int{0, 1}
	opts.KMeansClusters = 1
	lab, err := classes.Compute(dec, &opts)
	require.NoError(t, err)

	assert.Equal(t, classes.Unassigned, lab.ClassOf(2))
	assert.Equal(t, classes.Unassigned, lab.ClassOf(3))
	assert.GreaterOrEqual(t, lab.NumClasses(), 1)
}

func TestCompute_EmbeddingLengthMismatch(t *testing.T) {
	dec := fourStateEig(t)

	opts := classes.DefaultOptions()
	opts.Percentile = 0
	opts.Embedding = matDense(2, 2)
	_, err := classes.Compute(dec, &opts)
	assert.ErrorIs(t, err, classes.ErrLengthMismatch)
}

// TestCompute_MinMatchesFilter unassigns every state when the consistency
// bar is out of reach, leaving an empty labeling.
func TestCompute_MinMatchesFilter(t *testing.T) {
	dec := fourStateEig(t)

	opts := classes.DefaultOptions()
	opts.Use = []int{0, 1}
	opts.Percentile = 0
	opts.KMeansClusters = 2
	opts.MinMatches = 10
	opts.FilterNeighbors = 2
	lab, err := classes.Compute(dec, &opts)
	require.NoError(t, err)

	assert.Equal(t, 0, lab.NumClasses())
	for i := 0; i < 4; i++ {
		assert.Equal(t, classes.Unassigned, lab.ClassOf(i))
	}
}

// TestCompute_CustomClusterer routes clustering through the caller's
// implementation.
func TestCompute_CustomClusterer(t *testing.T) {
	dec := fourStateEig(t)

	opts := classes.DefaultOptions()
	opts.Percentile = 0
	opts.Clusterer = constantClusterer{}
	lab, err := classes.Compute(dec, &opts)
	require.NoError(t, err)
	assert.Equal(t, 1, lab.NumClasses())
}

// matDense builds an r×c zero matrix.
func matDense(r, c int) *mat.Dense { return mat.NewDense(r, c, nil) }

type constantClusterer struct{}

func (constantClusterer) Cluster(x *mat.Dense) ([]int, error) {
	r, _ := x.Dims()

	return make([]int, r), nil
}

var _ cluster.Clusterer = constantClusterer{}
