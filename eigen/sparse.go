// Package eigen: truncated solver for sparse transition matrices.
// Rayleigh–Ritz subspace iteration driven purely by mat-vec products, so a
// CSR matrix is never densified on this path.

package eigen

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// sparseSeed fixes the starting subspace so repeated runs on the same
// matrix produce identical decompositions.
const sparseSeed = 1

// truncated computes the top o.K eigenpairs of the operator given by
// matvec using subspace iteration with Rayleigh–Ritz extraction.
//
// Each sweep projects the operator onto the current orthonormal subspace,
// solves the small dense eigenproblem, and tests the Ritz residuals
// ‖A·w − θ·w‖ ≤ tol·max(1, |θ|) for every wanted pair. The subspace is
// then replaced by the orthonormalized image A·V and the sweep repeats.
//
// Returns ErrEigenFailed when o.MaxIter sweeps pass without convergence.
func truncated(matvec func(x, y []float64), n int, o *Options) ([]complex128, *mat.CDense, error) {
	m := subspaceSize(o.K, n)

	// Deterministic random start, orthonormalized column by column.
	rng := rand.New(rand.NewSource(sparseSeed))
	v := make([][]float64, m)
	for c := range v {
		v[c] = make([]float64, n)
		for i := range v[c] {
			v[c][i] = rng.NormFloat64()
		}
	}
	orthonormalize(v)

	av := make([][]float64, m)
	for c := range av {
		av[c] = make([]float64, n)
	}

	for iter := 0; iter < o.MaxIter; iter++ {
		for c := range v {
			matvec(v[c], av[c])
		}

		// Projected operator B = Vᵀ(A·V), m×m.
		b := mat.NewDense(m, m, nil)
		for r := 0; r < m; r++ {
			for c := 0; c < m; c++ {
				b.Set(r, c, dot(v[r], av[c]))
			}
		}

		var small mat.Eigen
		if ok := small.Factorize(b, mat.EigenRight); !ok {
			return nil, nil, fmt.Errorf("projected factorization: %w", ErrEigenFailed)
		}
		theta := small.Values(nil)
		s := mat.NewCDense(m, m, nil)
		small.VectorsTo(s)

		order := sortIndices(theta, o.Which)

		// Ritz vectors for the wanted pairs: w = V·s, normalized.
		vals := make([]complex128, o.K)
		ritz := mat.NewCDense(n, o.K, nil)
		for c, idx := range order[:o.K] {
			vals[c] = theta[idx]
			for i := 0; i < n; i++ {
				var sum complex128
				for j := 0; j < m; j++ {
					sum += complex(v[j][i], 0) * s.At(j, idx)
				}
				ritz.Set(i, c, sum)
			}
			normalizeColumn(ritz, c)
		}

		if residualsConverged(matvec, ritz, vals, n, o.Tol) {
			return vals, ritz, nil
		}

		// Subspace iteration step: next basis spans A·V.
		for c := range v {
			copy(v[c], av[c])
		}
		orthonormalize(v)
	}

	return nil, nil, fmt.Errorf("no convergence after %d sweeps: %w", o.MaxIter, ErrEigenFailed)
}

// residualsConverged checks ‖A·w − θ·w‖ ≤ tol·max(1, |θ|) for every pair.
// A is real, so A·w splits into products with the real and imaginary parts.
func residualsConverged(matvec func(x, y []float64), w *mat.CDense, vals []complex128, n int, tol float64) bool {
	re := make([]float64, n)
	im := make([]float64, n)
	are := make([]float64, n)
	aim := make([]float64, n)

	for c, theta := range vals {
		for i := 0; i < n; i++ {
			wi := w.At(i, c)
			re[i], im[i] = real(wi), imag(wi)
		}
		matvec(re, are)
		matvec(im, aim)

		var norm2 float64
		for i := 0; i < n; i++ {
			r := complex(are[i], aim[i]) - theta*w.At(i, c)
			norm2 += real(r)*real(r) + imag(r)*imag(r)
		}
		if math.Sqrt(norm2) > tol*math.Max(1, cmplx.Abs(theta)) {
			return false
		}
	}

	return true
}

// orthonormalize runs modified Gram-Schmidt over the columns in place.
// A column that collapses below numerical rank is replaced by a fresh unit
// coordinate direction so the basis keeps full width.
func orthonormalize(v [][]float64) {
	const rankEps = 1e-12

	for c := range v {
		for p := 0; p < c; p++ {
			proj := dot(v[p], v[c])
			axpy(-proj, v[p], v[c])
		}
		nrm := math.Sqrt(dot(v[c], v[c]))
		if nrm < rankEps {
			for i := range v[c] {
				v[c][i] = 0
			}
			v[c][c%len(v[c])] = 1
			for p := 0; p < c; p++ {
				proj := dot(v[p], v[c])
				axpy(-proj, v[p], v[c])
			}
			nrm = math.Sqrt(dot(v[c], v[c]))
			if nrm < rankEps {
				continue
			}
		}
		scale(1/nrm, v[c])
	}
}

// normalizeColumn scales column c of w to unit Euclidean norm.
func normalizeColumn(w *mat.CDense, c int) {
	n, _ := w.Dims()
	var norm2 float64
	for i := 0; i < n; i++ {
		x := w.At(i, c)
		norm2 += real(x)*real(x) + imag(x)*imag(x)
	}
	nrm := math.Sqrt(norm2)
	if nrm == 0 {
		return
	}
	inv := complex(1/nrm, 0)
	for i := 0; i < n; i++ {
		w.Set(i, c, w.At(i, c)*inv)
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}

func axpy(alpha float64, x, y []float64) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}

func scale(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}
