package eigen

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors returned by this package.
var (
	// ErrNilMatrix indicates a nil transition matrix.
	ErrNilMatrix = errors.New("eigen: matrix is nil")

	// ErrBadK indicates K < 1 or K >= N.
	ErrBadK = errors.New("eigen: k must satisfy 1 <= k < n")

	// ErrEigenFailed indicates that the solver did not converge; lower k
	// or switch the sorting criterion.
	ErrEigenFailed = errors.New("eigen: decomposition failed to converge")

	// ErrVectorRange indicates an eigenvector index >= the computed K;
	// recompute the decomposition with a larger k.
	ErrVectorRange = errors.New("eigen: eigenvector index exceeds computed k; recompute with larger k")

	// ErrNilDecomposition indicates a nil *Decomposition.
	ErrNilDecomposition = errors.New("eigen: nil decomposition")
)

// Criterion selects how eigenvalues are ordered (descending).
type Criterion int

const (
	// LargestReal orders by descending real part.
	LargestReal Criterion = iota

	// LargestMagnitude orders by descending |λ|.
	LargestMagnitude
)

// String implements fmt.Stringer.
func (c Criterion) String() string {
	switch c {
	case LargestReal:
		return "largest-real"
	case LargestMagnitude:
		return "largest-magnitude"
	default:
		return "unknown"
	}
}

// Default solver parameters.
const (
	// DefaultK is the number of eigenpairs requested when unset.
	DefaultK = 20

	// DefaultAlpha is the eigengap weight for deviation from the unit
	// eigenvalue.
	DefaultAlpha = 1.0

	// DefaultTol is the residual tolerance of the sparse path.
	DefaultTol = 1e-8

	// DefaultMaxIter bounds subspace-iteration sweeps on the sparse path.
	DefaultMaxIter = 500
)

// Options configures Compute.
//
//	– K:          number of eigenpairs, 1 <= K < N. 0 means DefaultK.
//	– Which:      sorting criterion (LargestReal default).
//	– Alpha:      eigengap weight for |1 − λ| deviation; <= 0 means
//	  DefaultAlpha.
//	– Tol:        sparse-path residual tolerance; <= 0 means DefaultTol.
//	– MaxIter:    sparse-path iteration cap; <= 0 means DefaultMaxIter.
//	– ForceDense: always use the dense factorization, even for CSR input.
type Options struct {
	K          int
	Which      Criterion
	Alpha      float64
	Tol        float64
	MaxIter    int
	ForceDense bool
}

// DefaultOptions returns Options with package defaults filled in.
func DefaultOptions() Options {
	return Options{
		K:       DefaultK,
		Which:   LargestReal,
		Alpha:   DefaultAlpha,
		Tol:     DefaultTol,
		MaxIter: DefaultMaxIter,
	}
}

// Decomposition is a truncated eigendecomposition: exactly K eigenvalues
// sorted descending by Which, with the matching left and right
// eigenvectors as columns (N×K). Left column j and right column j belong
// to Values[j].
type Decomposition struct {
	Values   []complex128
	Left     *mat.CDense
	Right    *mat.CDense
	Eigengap int
	Which    Criterion
	Alpha    float64
}

// K returns the number of computed eigenpairs.
func (d *Decomposition) K() int { return len(d.Values) }

// N returns the number of states.
func (d *Decomposition) N() int {
	r, _ := d.Left.Dims()

	return r
}

// Clone returns a deep copy of the decomposition.
func (d *Decomposition) Clone() *Decomposition {
	if d == nil {
		return nil
	}

	return &Decomposition{
		Values:   append([]complex128(nil), d.Values...),
		Left:     copyCDense(d.Left),
		Right:    copyCDense(d.Right),
		Eigengap: d.Eigengap,
		Which:    d.Which,
		Alpha:    d.Alpha,
	}
}

// copyCDense deep-copies a complex matrix.
func copyCDense(src *mat.CDense) *mat.CDense {
	if src == nil {
		return nil
	}
	r, c := src.Dims()
	dst := mat.NewCDense(r, c, nil)
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			dst.Set(i, j, src.At(i, j))
		}
	}

	return dst
}
