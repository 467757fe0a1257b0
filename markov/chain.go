package markov

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/fate/absorb"
	"github.com/katalvlaran/fate/classes"
	"github.com/katalvlaran/fate/eigen"
	"github.com/katalvlaran/fate/lineage"
	"github.com/katalvlaran/fate/partition"
	"github.com/katalvlaran/fate/stoch"
)

// Chain is an analysis session over one transition matrix.
// The matrix is treated as read-only for the session's lifetime.
type Chain struct {
	t      stoch.Matrix
	n      int
	logger *slog.Logger

	embedding  *mat.Dense
	clusterKey []string
	g2m, s     []float64

	part     *partition.Partition
	eig      *eigen.Decomposition
	rcs      *classes.Labeling
	rcsProbs []float64
	lin      *lineage.Lineage
	dp       []float64
}

// New validates t as a row-stochastic matrix and opens a session over it.
//
// Errors: stoch validation errors (ErrNilMatrix, ErrNegative, ErrNaNInf,
// ErrRowSum), ErrLengthMismatch for per-state session inputs.
func New(t stoch.Matrix, opts ...Option) (*Chain, error) {
	if err := stoch.Validate(t, nil); err != nil {
		return nil, fmt.Errorf("transition matrix: %w", err)
	}

	c := &Chain{t: t, n: t.N()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.embedding != nil {
		if r, _ := c.embedding.Dims(); r != c.n {
			return nil, fmt.Errorf("embedding rows=%d states=%d: %w", r, c.n, ErrLengthMismatch)
		}
	}
	for name, l := range map[string]int{
		"cluster key": len(c.clusterKey),
		"G2M scores":  len(c.g2m),
		"S scores":    len(c.s),
	} {
		if l != 0 && l != c.n {
			return nil, fmt.Errorf("%s length=%d states=%d: %w", name, l, c.n, ErrLengthMismatch)
		}
	}

	return c, nil
}

// N returns the number of states.
func (c *Chain) N() int { return c.n }

// T returns the session's transition matrix. Callers must not mutate it.
func (c *Chain) T() stoch.Matrix { return c.t }

// ComputePartition finds the exact communication classes of the chain.
func (c *Chain) ComputePartition() (*partition.Partition, error) {
	p, err := partition.Compute(c.t)
	if err != nil {
		return nil, err
	}

	if p.Irreducible {
		c.logger.Warn("the transition matrix is irreducible; nothing to partition")
	} else {
		c.logger.Info("partitioned the chain",
			"recurrent", len(p.Recurrent), "transient", len(p.Transient))
	}
	c.part = p

	return p, nil
}

// ComputeEig computes the truncated eigendecomposition, replacing any
// previous one. A nil opts takes eigen.DefaultOptions.
func (c *Chain) ComputeEig(opts *eigen.Options) (*eigen.Decomposition, error) {
	d, err := eigen.Compute(c.t, opts)
	if err != nil {
		return nil, err
	}

	c.logger.Info("computed eigendecomposition",
		"k", d.K(), "which", d.Which.String(), "eigengap", d.Eigengap)
	c.eig = d

	return d, nil
}

// ComputeApproxRCs detects approximate recurrent classes from the
// eigendecomposition. Session inputs (embedding, cluster key, cell-cycle
// scores, logger) fill any naming options the caller leaves unset.
//
// Errors: ErrNoEig, plus everything classes.Compute returns.
func (c *Chain) ComputeApproxRCs(opts *classes.Options) (*classes.Labeling, error) {
	if c.eig == nil {
		return nil, ErrNoEig
	}

	o := classes.DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.Embedding == nil {
		o.Embedding = c.embedding
	}
	o.Naming = c.fillNaming(o.Naming)

	lab, err := classes.Compute(c.eig, &o)
	if err != nil {
		return nil, err
	}

	c.logger.Info("computed approximate recurrent classes",
		"classes", lab.NumClasses(), "labeled", labeledCount(lab))
	c.rcs = lab
	c.rcsProbs = lab.Probs()

	return lab, nil
}

// SetApproxRCs installs a-priori recurrent classes, optionally merging
// into the current ones (opts.AddToExisting).
//
// Errors: classes.ErrNoExisting and the other classes.Set errors.
func (c *Chain) SetApproxRCs(src classes.Source, opts *classes.SetOptions) (*classes.Labeling, error) {
	lab, err := classes.Set(c.n, c.rcs, src, c.fillNaming(opts))
	if err != nil {
		return nil, err
	}

	c.logger.Info("set approximate recurrent classes",
		"classes", lab.NumClasses(), "labeled", labeledCount(lab))
	c.rcs = lab
	if p := lab.Probs(); p != nil {
		c.rcsProbs = p
	}

	return lab, nil
}

// ComputeLinProbs computes lineage probabilities and the differentiation
// potential from the current labeling. Both commit together.
//
// Errors: ErrNoClasses, plus everything absorb.Compute returns.
func (c *Chain) ComputeLinProbs(opts *absorb.Options) (*lineage.Lineage, []float64, error) {
	if c.rcs == nil {
		return nil, nil, ErrNoClasses
	}

	var o absorb.Options
	if opts != nil {
		o = *opts
	}
	if o.Logger == nil {
		o.Logger = c.logger
	}

	lin, dp, err := absorb.Compute(c.t, c.rcs, &o)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Info("computed lineage probabilities", "lineages", lin.Len())
	c.lin = lin
	c.dp = dp

	return lin, dp, nil
}

// Partition returns the communication classes, nil before
// ComputePartition.
func (c *Chain) Partition() *partition.Partition { return c.part }

// Eig returns the eigendecomposition, nil before ComputeEig.
func (c *Chain) Eig() *eigen.Decomposition { return c.eig }

// ApproxRCs returns the recurrent-class labeling, nil before
// ComputeApproxRCs/SetApproxRCs.
func (c *Chain) ApproxRCs() *classes.Labeling { return c.rcs }

// ApproxRCsProbs returns a copy of the per-state recurrence scores, nil
// when none were computed.
func (c *Chain) ApproxRCsProbs() []float64 {
	return append([]float64(nil), c.rcsProbs...)
}

// LinProbs returns the lineage probabilities, nil before ComputeLinProbs.
func (c *Chain) LinProbs() *lineage.Lineage { return c.lin }

// DiffPotential returns a copy of the per-state differentiation
// potential, nil before ComputeLinProbs.
func (c *Chain) DiffPotential() []float64 {
	return append([]float64(nil), c.dp...)
}

// Irreducible reports whether the chain is irreducible; ok is false
// before ComputePartition.
func (c *Chain) Irreducible() (irreducible, ok bool) {
	if c.part == nil {
		return false, false
	}

	return c.part.Irreducible, true
}

// Copy returns an independently mutable session with all derived state
// deep-copied. With shareMatrix the transition matrix (read-only by
// contract) is shared; otherwise it is cloned too.
func (c *Chain) Copy(shareMatrix bool) *Chain {
	cp := &Chain{
		t:          c.t,
		n:          c.n,
		logger:     c.logger,
		clusterKey: append([]string(nil), c.clusterKey...),
		g2m:        append([]float64(nil), c.g2m...),
		s:          append([]float64(nil), c.s...),
		rcsProbs:   append([]float64(nil), c.rcsProbs...),
		dp:         append([]float64(nil), c.dp...),
	}
	if !shareMatrix {
		cp.t = c.t.Clone()
	}
	if c.embedding != nil {
		cp.embedding = mat.DenseCopyOf(c.embedding)
	}
	if c.part != nil {
		cp.part = c.part.Clone()
	}
	if c.eig != nil {
		cp.eig = c.eig.Clone()
	}
	if c.rcs != nil {
		cp.rcs = c.rcs.Clone()
	}
	if c.lin != nil {
		cp.lin = c.lin.Clone()
	}

	return cp
}

// fillNaming overlays the session inputs on naming options the caller
// left unset.
func (c *Chain) fillNaming(so *classes.SetOptions) *classes.SetOptions {
	var o classes.SetOptions
	if so != nil {
		o = *so
	}
	if o.ClusterKey == nil {
		o.ClusterKey = c.clusterKey
	}
	if o.G2M == nil {
		o.G2M = c.g2m
	}
	if o.S == nil {
		o.S = c.s
	}
	if o.Logger == nil {
		o.Logger = c.logger
	}

	return &o
}

func labeledCount(lab *classes.Labeling) int {
	n := 0
	for _, assigned := range lab.Mask() {
		if assigned {
			n++
		}
	}

	return n
}
