package classes

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/fate/cluster"
	"github.com/katalvlaran/fate/stats"
)

// Default Compute parameters.
const (
	// DefaultPercentile filters out states below the 98th percentile of
	// eigenvector weight in every selected column.
	DefaultPercentile = 98.0

	// DefaultNComps is the number of embedding columns joined to the
	// eigenvector features.
	DefaultNComps = 5

	// DefaultFilterNeighbors is the neighborhood size of the
	// label-consistency filter.
	DefaultFilterNeighbors = 15

	// DefaultEntropyCutoff is the mixing threshold above which a class
	// named from an external grouping becomes UnknownClass.
	DefaultEntropyCutoff = 0.7

	// DefaultPThresh is the significance level of the advisory cell-cycle
	// rank-sum test.
	DefaultPThresh = 1e-15
)

// Options configures Compute.
//
//	– Use:             eigenvector column indices to use as features; nil
//	  selects 0..Eigengap via the eigengap heuristic.
//	– Percentile:      cutoff in [0, 100] for dropping likely-transient
//	  states; 0 keeps every state, 100 keeps none. Negative or > 100 is
//	  ErrBadPercentile.
//	– Method:          clustering algorithm when Clusterer is nil.
//	– Clusterer:       custom clusterer; overrides Method when non-nil.
//	– KMeansClusters:  k for MethodKMeans; 0 means len(Use)+1.
//	– LouvainNeighbors, LouvainResolution: MethodLouvain parameters; zero
//	  values take the cluster package defaults.
//	– Seed:            PRNG seed for MethodKMeans.
//	– Embedding:       optional per-state coordinates appended to the
//	  features; row count must equal the state count.
//	– NComps:          embedding columns used; <= 0 means DefaultNComps.
//	– Scale:           z-score the feature columns before clustering.
//	  Recommended when Embedding is set.
//	– MinMatches:      when > 0, unassign states with fewer than this many
//	  same-class neighbors among FilterNeighbors nearest.
//	– FilterNeighbors: neighborhood size for the MinMatches filter; <= 0
//	  means DefaultFilterNeighbors.
//	– Grapher:         neighbor-graph builder for the MinMatches filter;
//	  nil means cluster.KNNGraph.
//	– Naming:          label-finishing options shared with Set.
type Options struct {
	Use        []int
	Percentile float64

	Method    Method
	Clusterer cluster.Clusterer

	KMeansClusters    int
	LouvainNeighbors  int
	LouvainResolution float64
	Seed              int64

	Embedding *mat.Dense
	NComps    int
	Scale     bool

	MinMatches      int
	FilterNeighbors int
	Grapher         cluster.NeighborGrapher

	Naming *SetOptions
}

// DefaultOptions returns Options with package defaults filled in.
func DefaultOptions() Options {
	return Options{
		Percentile:      DefaultPercentile,
		Method:          MethodKMeans,
		NComps:          DefaultNComps,
		FilterNeighbors: DefaultFilterNeighbors,
	}
}

// SetOptions configures Set and the label-finishing stage of Compute.
//
//	– Names:         explicit class names; wrong length is
//	  ErrLengthMismatch. Defaults to "0", "1", ... per class.
//	– Colors:        explicit per-class colors; nil draws from
//	  lineage.Palette.
//	– ClusterKey:    external per-state group names; when set, each class
//	  is renamed to the majority group of its members, or UnknownClass
//	  when the Shannon entropy of the group distribution exceeds
//	  EntropyCutoff. Duplicates get _1, _2, ... suffixes.
//	– EntropyCutoff: mixing threshold for ClusterKey naming; <= 0 means
//	  DefaultEntropyCutoff.
//	– G2M, S:        optional per-state cell-cycle scores. When present, a
//	  rank-sum test of each class against the rest warns (via Logger) when
//	  the statistic is positive and the p-value falls below PThresh.
//	– PThresh:       significance level for the advisory; <= 0 means
//	  DefaultPThresh.
//	– RankSum:       rank-test implementation; nil means stats.RankSum.
//	– AddToExisting: Set only — merge into the previous labeling instead
//	  of replacing it; requires one (ErrNoExisting).
//	– Logger:        advisory sink; nil means slog.Default.
type SetOptions struct {
	Names  []string
	Colors []string

	ClusterKey    []string
	EntropyCutoff float64

	G2M     []float64
	S       []float64
	PThresh float64
	RankSum stats.RankSumFunc

	AddToExisting bool
	Logger        *slog.Logger
}

// DefaultSetOptions returns SetOptions with package defaults filled in.
func DefaultSetOptions() SetOptions {
	return SetOptions{
		EntropyCutoff: DefaultEntropyCutoff,
		PThresh:       DefaultPThresh,
	}
}

func (o *SetOptions) logger() *slog.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}

	return slog.Default()
}
