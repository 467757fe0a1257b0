// Package classes identifies approximate recurrent classes of a Markov
// chain and manages their labels.
//
// Two entry points populate a Labeling:
//
//	– Compute — unsupervised detection: cluster states in the space of the
//	  leading right eigenvectors (optionally joined with embedding
//	  coordinates), after filtering out likely-transient states whose left
//	  eigenvector weight falls below a percentile cutoff in every selected
//	  column.
//	– Set — a-priori labels: accept a ready assignment vector or a
//	  name → members map, optionally merged into an existing labeling.
//
// Both paths share the finishing machinery: class naming from an external
// per-state grouping (majority vote, falling back to "Unknown" when the
// group distribution is too mixed), color assignment, and an advisory
// rank-sum check that warns when a class looks driven by cell-cycle
// scores rather than fate.
//
// A Labeling maps every state to at most one class: assignment −1 marks an
// unlabeled (transient) state. Class names are unique; colors align with
// names by index.
//
// Errors (sentinel):
//
//	– ErrBadMethod      — unknown clustering method name.
//	– ErrBadPercentile  — percentile outside [0, 100].
//	– ErrNoExisting     — merge requested with no existing labeling.
//	– ErrBadSource      — a Source with neither or both inputs set.
//	– ErrUnknownClass   — class name not present in the labeling.
//	– ErrLengthMismatch — per-state slice with the wrong length.
//	– ErrBadAssignment  — assignment index outside [−1, classes).
//
// Percentile filtering, eigenvector selection and index validation defer
// to package eigen; clustering defers to package cluster.
package classes
