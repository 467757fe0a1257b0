package absorb

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/fate/classes"
	"github.com/katalvlaran/fate/lineage"
	"github.com/katalvlaran/fate/partition"
	"github.com/katalvlaran/fate/stats"
	"github.com/katalvlaran/fate/stoch"
)

// Sentinel errors returned by this package.
var (
	// ErrNilMatrix indicates a nil transition matrix.
	ErrNilMatrix = errors.New("absorb: matrix is nil")

	// ErrNilLabeling indicates a nil labeling.
	ErrNilLabeling = errors.New("absorb: labeling is nil")

	// ErrShapeMismatch indicates a labeling whose state count differs
	// from the matrix dimension.
	ErrShapeMismatch = errors.New("absorb: labeling and matrix state counts differ")

	// ErrNoRecurrent indicates that no state belongs to a selected class.
	ErrNoRecurrent = errors.New("absorb: no labeled recurrent states")

	// ErrUnknownKey indicates a Keys entry that names no class.
	ErrUnknownKey = errors.New("absorb: unknown class key")

	// ErrSingular indicates a singular fundamental-matrix system.
	ErrSingular = errors.New("absorb: linear system is singular")
)

// Options configures Compute.
//
//	– Keys:             class names to absorb into; nil selects every
//	  class. Explicit keys are deduplicated and sorted; states of
//	  deselected classes count as transient.
//	– CheckIrreducible: partition the transient restriction Q and warn
//	  when it is reducible.
//	– NormalizeBySize:  divide each class column by its member count
//	  before row normalization, compensating for unevenly sized classes.
//	– Logger:           advisory sink; nil means slog.Default.
type Options struct {
	Keys             []string
	CheckIrreducible bool
	NormalizeBySize  bool
	Logger           *slog.Logger
}

// Compute returns the per-state lineage probabilities toward the selected
// classes and the per-state differentiation potential.
//
// Errors: ErrNilMatrix, ErrNilLabeling, ErrShapeMismatch, ErrUnknownKey,
// ErrNoRecurrent, ErrSingular.
func Compute(t stoch.Matrix, lab *classes.Labeling, opts *Options) (*lineage.Lineage, []float64, error) {
	if t == nil {
		return nil, nil, ErrNilMatrix
	}
	if lab == nil {
		return nil, nil, ErrNilLabeling
	}

	var o Options
	if opts != nil {
		o = *opts
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	n := t.N()
	if lab.N() != n {
		return nil, nil, fmt.Errorf("labeling=%d matrix=%d: %w", lab.N(), n, ErrShapeMismatch)
	}

	sel, err := selectClasses(lab, o.Keys)
	if err != nil {
		return nil, nil, err
	}

	// Split states: selected-class members absorb, the rest are transient.
	classOf := make([]int, n) // column index per state, -1 transient
	for i := range classOf {
		classOf[i] = -1
	}
	assign := lab.Assign()
	var rec, trans []int
	for i := 0; i < n; i++ {
		if col, ok := sel.column[assign[i]]; ok {
			classOf[i] = col
			rec = append(rec, i)
		} else {
			trans = append(trans, i)
		}
	}
	if len(rec) == 0 {
		return nil, nil, ErrNoRecurrent
	}
	if len(sel.names) == 1 {
		logger.Warn("only one recurrent class; every state absorbs there with probability 1",
			"class", sel.names[0])
	}

	td := t.Dense()

	if o.CheckIrreducible {
		warnReducible(td, trans, logger)
	}

	agg, err := transientAbsorption(td, trans, rec, classOf, len(sel.names), &o, logger)
	if err != nil {
		return nil, nil, err
	}

	// Assemble the full matrix: solved rows for transient states, one-hot
	// rows for the absorbing ones.
	x := mat.NewDense(n, len(sel.names), nil)
	for p, i := range trans {
		for c := 0; c < len(sel.names); c++ {
			x.Set(i, c, agg.At(p, c))
		}
	}
	for _, i := range rec {
		x.Set(i, classOf[i], 1)
	}

	dp := make([]float64, n)
	row := make([]float64, len(sel.names))
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		dp[i] = stats.Entropy(row)
	}

	lin, err := lineage.New(x, sel.names, sel.colors)
	if err != nil {
		return nil, nil, fmt.Errorf("assembling lineage: %w", err)
	}

	return lin, dp, nil
}

// selection maps the chosen classes to lineage columns.
type selection struct {
	names  []string
	colors []string
	column map[int]int // labeling class index → lineage column
}

// selectClasses resolves Keys against the labeling. Nil keys select every
// class in labeling order; explicit keys are deduplicated and sorted.
func selectClasses(lab *classes.Labeling, keys []string) (*selection, error) {
	names := lab.Names()
	colors := lab.Colors()

	if keys == nil {
		s := &selection{names: names, colors: colors, column: make(map[int]int, len(names))}
		for c := range names {
			s.column[c] = c
		}

		return s, nil
	}

	uniq := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		uniq[k] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for k := range uniq {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	idx := make(map[string]int, len(names))
	for c, nm := range names {
		idx[nm] = c
	}

	s := &selection{column: make(map[int]int, len(sorted))}
	for col, k := range sorted {
		c, ok := idx[k]
		if !ok {
			return nil, fmt.Errorf("%q: %w", k, ErrUnknownKey)
		}
		s.names = append(s.names, k)
		s.colors = append(s.colors, colors[c])
		s.column[c] = col
	}

	return s, nil
}

// warnReducible partitions the transient restriction and logs when it
// splits into more than one communication class.
func warnReducible(td *stoch.Dense, trans []int, logger *slog.Logger) {
	if len(trans) == 0 {
		return
	}
	rows := make([][]float64, len(trans))
	for p, i := range trans {
		rows[p] = make([]float64, len(trans))
		for q, j := range trans {
			rows[p][q] = td.At(i, j)
		}
	}
	qm, err := stoch.DenseFromRows(rows)
	if err != nil {
		return
	}
	part, err := partition.Compute(qm)
	if err == nil && !part.Irreducible {
		logger.Warn("transient restriction Q is not irreducible")
	}
}

// transientAbsorption solves (I−Q)·B = R and aggregates the per-state
// columns of B into per-class columns, normalized per row.
func transientAbsorption(td *stoch.Dense, trans, rec, classOf []int, nclasses int, o *Options, logger *slog.Logger) (*mat.Dense, error) {
	nt, nr := len(trans), len(rec)

	if nt == 0 {
		return mat.NewDense(1, nclasses, nil), nil
	}
	agg := mat.NewDense(nt, nclasses, nil)

	a := mat.NewDense(nt, nt, nil)
	r := mat.NewDense(nt, nr, nil)
	for p, i := range trans {
		for q, j := range trans {
			v := -td.At(i, j)
			if p == q {
				v++
			}
			a.Set(p, q, v)
		}
		for q, j := range rec {
			r.Set(p, q, td.At(i, j))
		}
	}

	var b mat.Dense
	if err := b.Solve(a, r); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("solving (I-Q)B = R: %w", ErrSingular)
		}
		logger.Warn("fundamental-matrix system is ill-conditioned", "condition", float64(cond))
	}

	// Sum columns of B per class, then optionally divide by class size.
	size := make([]float64, nclasses)
	for p := 0; p < nt; p++ {
		for q, j := range rec {
			c := classOf[j]
			agg.Set(p, c, agg.At(p, c)+b.At(p, q))
			if p == 0 {
				size[c]++
			}
		}
	}
	if o.NormalizeBySize {
		for p := 0; p < nt; p++ {
			for c := 0; c < nclasses; c++ {
				agg.Set(p, c, agg.At(p, c)/size[c])
			}
		}
	}

	// Row normalization: probabilities over classes.
	for p := 0; p < nt; p++ {
		sum := 0.0
		for c := 0; c < nclasses; c++ {
			sum += agg.At(p, c)
		}
		if sum > 0 {
			for c := 0; c < nclasses; c++ {
				agg.Set(p, c, agg.At(p, c)/sum)
			}
		}
	}

	return agg, nil
}
