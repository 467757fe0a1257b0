// Package classes: unsupervised detection of approximate recurrent classes.

package classes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/fate/cluster"
	"github.com/katalvlaran/fate/eigen"
	"github.com/katalvlaran/fate/stats"
)

// Compute finds approximate recurrent classes from an eigendecomposition.
//
// The left eigenvectors locate recurrent states: a state is kept when its
// absolute weight reaches the Percentile cutoff in at least one selected
// column. The kept states are then clustered in the space of the real
// parts of the right eigenvectors, optionally joined with embedding
// coordinates. Cluster labels become classes; states filtered out stay
// Unassigned. The per-state recurrence score is attached as Probs.
//
// Errors: eigen.ErrNilDecomposition, eigen.ErrVectorRange,
// ErrBadPercentile, ErrLengthMismatch, plus clustering errors from the
// cluster package.
func Compute(d *eigen.Decomposition, opts *Options) (*Labeling, error) {
	if d == nil {
		return nil, eigen.ErrNilDecomposition
	}

	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.NComps <= 0 {
		o.NComps = DefaultNComps
	}
	if o.FilterNeighbors <= 0 {
		o.FilterNeighbors = DefaultFilterNeighbors
	}

	use := o.Use
	if use == nil {
		use = d.DefaultUse()
	}
	for _, j := range use {
		if j < 0 || j >= d.K() {
			return nil, fmt.Errorf("column %d of k=%d: %w", j, d.K(), eigen.ErrVectorRange)
		}
	}
	if o.Percentile < 0 || o.Percentile > 100 {
		return nil, fmt.Errorf("%v: %w", o.Percentile, ErrBadPercentile)
	}

	n := d.N()

	probs, err := d.RecurrenceScore(use)
	if err != nil {
		return nil, fmt.Errorf("recurrence score: %w", err)
	}

	features, err := buildFeatures(d, use, o.Embedding, o.NComps)
	if err != nil {
		return nil, err
	}

	keep := percentileKeep(d, use, o.Percentile)
	if len(keep) == 0 {
		// Every state filtered out: an empty labeling, not an error.
		return finishLabeling(n, 0, nil, probs, o.Naming, emptyAssign(n))
	}

	sub := subsetRows(features, keep)
	if o.Scale {
		stats.ZScoreColumns(sub)
	}

	clusterer := o.Clusterer
	if clusterer == nil {
		clusterer, err = defaultClusterer(&o, len(use))
		if err != nil {
			return nil, err
		}
	}
	labels, err := clusterer.Cluster(sub)
	if err != nil {
		return nil, fmt.Errorf("clustering: %w", err)
	}

	assign := emptyAssign(n)
	nclasses := 0
	for p, i := range keep {
		assign[i] = labels[p]
		if labels[p] >= nclasses {
			nclasses = labels[p] + 1
		}
	}

	if o.MinMatches > 0 {
		if err = filterByNeighbors(assign, features, &o); err != nil {
			return nil, err
		}
		assign, nclasses = compactClasses(assign)
	}

	return finishLabeling(n, nclasses, nil, probs, o.Naming, assign)
}

// buildFeatures concatenates the real parts of the selected right
// eigenvectors with the first nComps embedding columns.
func buildFeatures(d *eigen.Decomposition, use []int, embedding *mat.Dense, nComps int) (*mat.Dense, error) {
	n := d.N()
	embCols := 0
	if embedding != nil {
		er, ec := embedding.Dims()
		if er != n {
			return nil, fmt.Errorf("embedding rows=%d states=%d: %w", er, n, ErrLengthMismatch)
		}
		embCols = ec
		if embCols > nComps {
			embCols = nComps
		}
	}

	x := mat.NewDense(n, len(use)+embCols, nil)
	for c, j := range use {
		for i := 0; i < n; i++ {
			x.Set(i, c, real(d.Right.At(i, j)))
		}
	}
	for c := 0; c < embCols; c++ {
		for i := 0; i < n; i++ {
			x.Set(i, len(use)+c, embedding.At(i, c))
		}
	}

	return x, nil
}

// percentileKeep returns the states whose absolute left-eigenvector
// weight reaches the per-column percentile cutoff in at least one
// selected column. Percentile 100 keeps nothing: no weight exceeds the
// column maximum.
func percentileKeep(d *eigen.Decomposition, use []int, percentile float64) []int {
	n := d.N()
	if percentile == 100 {
		return nil
	}

	absCol := make([][]float64, len(use))
	cutoff := make([]float64, len(use))
	for c, j := range use {
		absCol[c] = make([]float64, n)
		for i := 0; i < n; i++ {
			absCol[c][i] = math.Abs(real(d.Left.At(i, j)))
		}
		cutoff[c] = stats.Quantile(absCol[c], percentile/100)
	}

	var keep []int
	for i := 0; i < n; i++ {
		for c := range use {
			if absCol[c][i] >= cutoff[c] {
				keep = append(keep, i)
				break
			}
		}
	}

	return keep
}

// subsetRows copies the listed rows of x into a fresh matrix.
func subsetRows(x *mat.Dense, rows []int) *mat.Dense {
	_, c := x.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for p, i := range rows {
		for j := 0; j < c; j++ {
			out.Set(p, j, x.At(i, j))
		}
	}

	return out
}

// defaultClusterer builds the clusterer selected by o.Method.
func defaultClusterer(o *Options, nUse int) (cluster.Clusterer, error) {
	switch o.Method {
	case MethodKMeans:
		k := o.KMeansClusters
		if k <= 0 {
			k = nUse + 1
		}

		return &cluster.KMeans{K: k, Seed: o.Seed}, nil
	case MethodLouvain:
		return &cluster.Louvain{
			Neighbors:  o.LouvainNeighbors,
			Resolution: o.LouvainResolution,
			Grapher:    o.Grapher,
		}, nil
	default:
		return nil, fmt.Errorf("%v: %w", o.Method, ErrBadMethod)
	}
}

// filterByNeighbors unassigns states with fewer than o.MinMatches
// same-class neighbors among their o.FilterNeighbors nearest, measured on
// the full feature matrix.
func filterByNeighbors(assign []int, features *mat.Dense, o *Options) error {
	grapher := o.Grapher
	if grapher == nil {
		grapher = cluster.KNNGraph{}
	}
	g, err := grapher.Neighbors(features, o.FilterNeighbors)
	if err != nil {
		return fmt.Errorf("neighbor filter: %w", err)
	}

	drop := make([]bool, len(assign))
	for i, a := range assign {
		if a == Unassigned {
			continue
		}
		matches := 0
		for _, j := range g.Adj[i] {
			if assign[j] == a {
				matches++
			}
		}
		drop[i] = matches < o.MinMatches
	}
	for i, d := range drop {
		if d {
			assign[i] = Unassigned
		}
	}

	return nil
}

// compactClasses renumbers class indices to 0..C-1 in order of first
// appearance, dropping classes that lost every member.
func compactClasses(assign []int) ([]int, int) {
	remap := make(map[int]int)
	next := 0
	out := make([]int, len(assign))
	for i, a := range assign {
		if a == Unassigned {
			out[i] = Unassigned
			continue
		}
		m, ok := remap[a]
		if !ok {
			m = next
			remap[a] = m
			next++
		}
		out[i] = m
	}

	return out, next
}

// emptyAssign returns an all-Unassigned vector of length n.
func emptyAssign(n int) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = Unassigned
	}

	return a
}
