package stats_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/fate/stats"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// TestEntropy_OneHot verifies that a deterministic distribution has zero entropy.
func TestEntropy_OneHot(t *testing.T) {
	assert.Equal(t, 0.0, stats.Entropy([]float64{0, 1, 0}))
}

// TestEntropy_Uniform verifies the uniform distribution reaches ln(k).
func TestEntropy_Uniform(t *testing.T) {
	h := stats.Entropy([]float64{0.25, 0.25, 0.25, 0.25})
	assert.InDelta(t, math.Log(4), h, 1e-12)
}

// TestEntropy_Unnormalized verifies input is normalized by its sum first.
func TestEntropy_Unnormalized(t *testing.T) {
	assert.InDelta(t, math.Log(2), stats.Entropy([]float64{3, 3}), 1e-12)
}

// TestEntropy_NoMass yields NaN for empty or zero vectors.
func TestEntropy_NoMass(t *testing.T) {
	assert.True(t, math.IsNaN(stats.Entropy(nil)))
	assert.True(t, math.IsNaN(stats.Entropy([]float64{0, 0})))
	assert.True(t, math.IsNaN(stats.Entropy([]float64{math.NaN(), 1})))
}

// TestZScoreColumns_Standardizes checks mean 0 / unit population variance.
func TestZScoreColumns_Standardizes(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})
	stats.ZScoreColumns(x)

	col := make([]float64, 4)
	mat.Col(col, 0, x)
	mean := 0.0
	for _, v := range col {
		mean += v
	}
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, -1.3416407864998738, col[0], 1e-9)

	// Constant column becomes all zeros, not NaN.
	mat.Col(col, 1, x)
	assert.Equal(t, []float64{0, 0, 0, 0}, col)
}

// TestQuantile_Boundaries pins min at q=0 and max at q=1.
func TestQuantile_Boundaries(t *testing.T) {
	xs := []float64{5, 1, 3}
	assert.Equal(t, 1.0, stats.Quantile(xs, 0))
	assert.Equal(t, 5.0, stats.Quantile(xs, 1))
	assert.Equal(t, 3.0, stats.Quantile(xs, 0.5))
	assert.Equal(t, []float64{5, 1, 3}, xs, "input must not be reordered")
}

// TestQuantile_Empty yields NaN.
func TestQuantile_Empty(t *testing.T) {
	assert.True(t, math.IsNaN(stats.Quantile(nil, 0.5)))
}

// TestRankSum_Separated verifies sign and significance for fully separated samples.
func TestRankSum_Separated(t *testing.T) {
	x := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	y := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	s, p := stats.RankSum(x, y)
	assert.Positive(t, s, "higher first sample must give a positive statistic")
	assert.Less(t, p, 0.01)

	// Swapping the samples flips the sign.
	s2, p2 := stats.RankSum(y, x)
	assert.InDelta(t, -s, s2, 1e-12)
	assert.InDelta(t, p, p2, 1e-12)
}

// TestRankSum_Identical gives a near-zero statistic and a large p-value.
func TestRankSum_Identical(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	s, p := stats.RankSum(x, x)
	assert.InDelta(t, 0, s, 1e-12)
	assert.InDelta(t, 1, p, 1e-12)
}

// TestRankSum_Empty returns the no-evidence pair (0, 1).
func TestRankSum_Empty(t *testing.T) {
	s, p := stats.RankSum(nil, []float64{1})
	assert.Equal(t, 0.0, s)
	assert.Equal(t, 1.0, p)
}
