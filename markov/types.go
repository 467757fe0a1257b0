package markov

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors returned by this package.
var (
	// ErrNoEig indicates a stage that needs the eigendecomposition;
	// compute it first with ComputeEig.
	ErrNoEig = errors.New("markov: compute eigendecomposition first as ComputeEig")

	// ErrNoClasses indicates a stage that needs recurrent classes;
	// compute them first with ComputeApproxRCs or SetApproxRCs.
	ErrNoClasses = errors.New("markov: compute approximate recurrent classes first as ComputeApproxRCs")

	// ErrNoLinProbs indicates a stage that needs lineage probabilities;
	// compute them first with ComputeLinProbs.
	ErrNoLinProbs = errors.New("markov: compute lineage probabilities first as ComputeLinProbs")

	// ErrNoClusterKey indicates a group restriction without a cluster key
	// attached to the session.
	ErrNoClusterKey = errors.New("markov: no cluster key attached; construct with WithClusterKey")

	// ErrUnknownGroup indicates a group name absent from the cluster key.
	ErrUnknownGroup = errors.New("markov: unknown cluster-key group")

	// ErrLengthMismatch indicates a session input whose length differs
	// from the state count.
	ErrLengthMismatch = errors.New("markov: per-state length mismatch")
)

// Option configures a Chain at construction.
type Option func(*Chain)

// WithLogger routes the session's advisories and progress messages.
// Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chain) { c.logger = l }
}

// WithEmbedding attaches per-state coordinates (states × dims) used as
// additional clustering features by ComputeApproxRCs.
func WithEmbedding(x *mat.Dense) Option {
	return func(c *Chain) { c.embedding = x }
}

// WithClusterKey attaches external per-state group names, used to name
// recurrent classes and to restrict LineageDrivers.
func WithClusterKey(groups []string) Option {
	return func(c *Chain) { c.clusterKey = append([]string(nil), groups...) }
}

// WithCellCycleScores attaches per-state G2M and S phase scores; class
// assignment then warns about classes that look cell-cycle driven.
// Either slice may be nil.
func WithCellCycleScores(g2m, s []float64) Option {
	return func(c *Chain) {
		c.g2m = append([]float64(nil), g2m...)
		c.s = append([]float64(nil), s...)
	}
}
