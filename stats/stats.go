package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RankSumFunc is the capability signature for a two-sample rank test.
// It returns the test statistic and a two-sided p-value. A positive
// statistic means the first sample ranks higher than the second.
type RankSumFunc func(x, y []float64) (statistic, pvalue float64)

// Entropy returns the Shannon entropy, in nats, of the distribution
// proportional to p. Entries <= 0 contribute nothing; p is normalized by
// its sum first, so callers may pass unnormalized non-negative weights.
// A vector with no mass (or containing NaN) yields NaN.
func Entropy(p []float64) float64 {
	sum := 0.0
	for _, v := range p {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v > 0 {
			sum += v
		}
	}
	if sum == 0 {
		return math.NaN()
	}

	h := 0.0
	for _, v := range p {
		if v > 0 {
			q := v / sum
			h -= q * math.Log(q)
		}
	}

	return h
}

// ZScoreColumns standardizes every column of x in place to mean 0 and unit
// population variance. A zero-variance column is set to all zeros rather
// than dividing by zero.
func ZScoreColumns(x *mat.Dense) {
	r, c := x.Dims()
	col := make([]float64, r)
	var j, i int
	for j = 0; j < c; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		for i = 0; i < r; i++ {
			if std == 0 {
				x.Set(i, j, 0)
			} else {
				x.Set(i, j, (col[i]-mean)/std)
			}
		}
	}
}

// Quantile returns the q-th quantile of xs, q in [0, 1], interpolating
// linearly between order statistics at fractional index q·(len−1). This is
// numpy.percentile's default convention: q=0 is the minimum, q=1 the
// maximum. xs is not modified. Empty input yields NaN.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 || math.IsNaN(q) {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	fidx := q * float64(len(sorted)-1)
	lo := int(math.Floor(fidx))
	if lo < 0 {
		return sorted[0]
	}
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := fidx - float64(lo)

	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// RankSum performs the Wilcoxon rank-sum test on two independent samples
// using the large-sample normal approximation. Ties receive average ranks.
// Returns (0, 1) when either sample is empty: no evidence either way.
func RankSum(x, y []float64) (statistic, pvalue float64) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return 0, 1
	}
	n := n1 + n2

	type obs struct {
		v     float64
		first bool
	}
	all := make([]obs, 0, n)
	for _, v := range x {
		all = append(all, obs{v: v, first: true})
	}
	for _, v := range y {
		all = append(all, obs{v: v})
	}
	sort.Slice(all, func(a, b int) bool { return all[a].v < all[b].v })

	// Sum the (average, tie-shared) ranks of the first sample.
	r1 := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && all[j].v == all[i].v {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based: (i+1 + j) / 2
		for k := i; k < j; k++ {
			if all[k].first {
				r1 += avgRank
			}
		}
		i = j
	}

	expected := float64(n1) * float64(n+1) / 2
	sigma := math.Sqrt(float64(n1) * float64(n2) * float64(n+1) / 12)
	if sigma == 0 {
		return 0, 1
	}
	z := (r1 - expected) / sigma

	norm := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * norm.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}

	return z, p
}
