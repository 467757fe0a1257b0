// Package stoch: sentinel error set.
// All routines in this package return these sentinels (possibly wrapped with
// fmt.Errorf("ctx: %w", ErrX)); callers match via errors.Is. No routine
// panics on user-triggered conditions; panics are reserved for out-of-range
// indices in hot-path accessors (programmer errors).

package stoch

import "errors"

var (
	// ErrBadShape is returned when a requested dimension is non-positive.
	ErrBadShape = errors.New("stoch: dimension must be > 0")

	// ErrNonSquare signals that ingestion input is ragged or not square.
	ErrNonSquare = errors.New("stoch: matrix is not square")

	// ErrOutOfRange indicates a triplet index outside the valid [0, N) range.
	ErrOutOfRange = errors.New("stoch: index out of range")

	// ErrNilMatrix indicates that a nil Matrix was passed as an argument.
	ErrNilMatrix = errors.New("stoch: nil matrix")

	// ErrNegative signals a negative entry where probabilities are required.
	ErrNegative = errors.New("stoch: negative entry")

	// ErrNaNInf signals that a NaN or ±Inf value was encountered where finite
	// values are required.
	ErrNaNInf = errors.New("stoch: NaN or Inf encountered")

	// ErrRowSum signals that a row does not sum to 1 within the tolerance.
	ErrRowSum = errors.New("stoch: row does not sum to one")

	// ErrZeroRow signals that a row of all zeros cannot be normalized.
	ErrZeroRow = errors.New("stoch: zero row cannot be normalized")

	// ErrLengthMismatch signals triplet slices of unequal length.
	ErrLengthMismatch = errors.New("stoch: slice lengths differ")

	// ErrUnsupported marks a Matrix implementation outside this package that
	// a mutating routine cannot handle.
	ErrUnsupported = errors.New("stoch: unsupported matrix implementation")
)
