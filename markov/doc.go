// Package markov ties the analysis pipeline together: one Chain session
// owns a validated transition matrix and accumulates derived results.
//
// The canonical workflow:
//
//	c, err := markov.New(T)
//	_, err = c.ComputePartition()          // exact communication classes
//	_, err = c.ComputeEig(nil)             // truncated eigendecomposition
//	_, err = c.ComputeApproxRCs(nil)       // approximate recurrent classes
//	lin, dp, err := c.ComputeLinProbs(nil) // lineage probabilities
//
// Operations are atomic: each computes its result locally and commits it
// to the session only on success, so a failed call never leaves partial
// state behind. Later stages require earlier ones and say so through
// sentinel errors (ErrNoEig, ErrNoClasses, ErrNoLinProbs). Recomputing a
// stage replaces its previous result; downstream results are kept as-is
// and reflect the inputs they were computed from.
//
// A Chain is not safe for concurrent use; Copy yields an independently
// mutable session, optionally sharing the (read-only) transition matrix.
//
// Session-level inputs attach at construction: an embedding for
// clustering features (WithEmbedding), external per-state group names for
// class naming (WithClusterKey), and cell-cycle scores for the advisory
// rank-sum check (WithCellCycleScores). Operations pick these up
// automatically unless their options override them.
package markov
