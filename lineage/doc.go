// Package lineage provides the named, colored probability-matrix
// abstraction produced by the absorption solver.
//
// A Lineage is an N×L column-major probability matrix: row i is state i's
// fate distribution over L terminal classes ("lineages"). Every column
// carries a unique, order-preserving name and a display color. The value
// is immutable through this API: subsetting operations allocate fresh
// matrices and never alias the receiver's storage.
//
// Operations:
//
//	– Sub(names...)  — column subset by name, order as requested.
//	– RowSubset(idx) — row subset by index list.
//	– Mask(keep)     — row subset by boolean mask.
//	– Col(name)      — one column as a plain slice.
//
// Palette generates deterministic categorical hex colors for classes that
// arrive without colors of their own.
//
// Errors (sentinel):
//
//	– ErrNilData        — nil or empty backing matrix.
//	– ErrNameCount      — name or color count differs from column count.
//	– ErrDupName        — duplicate column name.
//	– ErrUnknownName    — Sub/Col referenced a name that does not exist.
//	– ErrOutOfRange     — row index outside [0, N).
//	– ErrLengthMismatch — boolean mask of the wrong length.
//	– ErrEmptySelection — a row subset that keeps nothing.
package lineage
