// Package absorb computes absorption probabilities toward labeled
// recurrent classes and the per-state differentiation potential.
//
// Given a transition matrix and a Labeling, the chain is split into
// absorbing targets (states of the selected classes) and transient states
// (everything else, including states of classes deselected via Keys). The
// fundamental-matrix system
//
//	(I − Q)·B = R
//
// is solved densely, where Q is the transient-transient restriction and R
// the transient-recurrent one. Per-state absorption probabilities are
// aggregated into per-class lineage columns, optionally divided by class
// size, and row-normalized. States of a selected class absorb into it with
// probability one. The differentiation potential of a state is the
// Shannon entropy (nats) of its row: zero for committed states, maximal
// for states torn evenly between fates.
//
// Advisories are logged, never returned: a single selected class (every
// state absorbs there), an ill-conditioned system, and — when requested —
// a reducible transient restriction.
//
// Errors (sentinel):
//
//	– ErrNilMatrix    — nil transition matrix.
//	– ErrNilLabeling  — nil labeling.
//	– ErrShapeMismatch— labeling and matrix disagree on the state count.
//	– ErrNoRecurrent  — no state belongs to any selected class.
//	– ErrUnknownKey   — a Keys entry names no class.
//	– ErrSingular     — the linear system is singular.
package absorb
