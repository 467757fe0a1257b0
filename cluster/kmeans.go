package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Default KMeans parameters.
const (
	// DefaultKMeansMaxIter bounds Lloyd iterations.
	DefaultKMeansMaxIter = 100

	// DefaultKMeansTol stops early when centroids move less than this
	// (squared Euclidean) between iterations.
	DefaultKMeansTol = 1e-9
)

// KMeans is a fixed-k partition clusterer: kmeans++ seeding followed by
// Lloyd iterations. Deterministic for a fixed Seed.
//
//	– K:       number of clusters, required, 1 <= K <= rows.
//	– MaxIter: Lloyd iteration cap; <= 0 means DefaultKMeansMaxIter.
//	– Tol:     convergence threshold on centroid movement; <= 0 means
//	  DefaultKMeansTol.
//	– Seed:    PRNG seed for kmeans++ sampling.
type KMeans struct {
	K       int
	MaxIter int
	Tol     float64
	Seed    int64
}

// Cluster implements Clusterer.
// Errors: ErrNilFeatures, ErrNoRows, ErrBadK.
// Complexity: O(MaxIter · rows · K · dims).
func (km *KMeans) Cluster(x *mat.Dense) ([]int, error) {
	if x == nil {
		return nil, ErrNilFeatures
	}
	n, d := x.Dims()
	if n == 0 {
		return nil, ErrNoRows
	}
	if km.K < 1 || km.K > n {
		return nil, fmt.Errorf("k=%d with %d rows: %w", km.K, n, ErrBadK)
	}

	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultKMeansMaxIter
	}
	tol := km.Tol
	if tol <= 0 {
		tol = DefaultKMeansTol
	}

	rng := rand.New(rand.NewSource(km.Seed))
	centroids := kmeansPlusPlus(x, km.K, rng)

	labels := make([]int, n)
	counts := make([]int, km.K)
	next := make([][]float64, km.K)
	for c := range next {
		next[c] = make([]float64, d)
	}

	for iter := 0; iter < maxIter; iter++ {
		// Assignment step.
		for i := 0; i < n; i++ {
			labels[i] = nearestCentroid(x.RawRowView(i), centroids)
		}

		// Update step.
		for c := range next {
			counts[c] = 0
			for j := range next[c] {
				next[c][j] = 0
			}
		}
		for i := 0; i < n; i++ {
			c := labels[i]
			counts[c]++
			row := x.RawRowView(i)
			for j, v := range row {
				next[c][j] += v
			}
		}

		shift := 0.0
		for c := range next {
			if counts[c] == 0 {
				// Empty cluster: re-seed at the point farthest from its centroid.
				copy(next[c], x.RawRowView(farthestRow(x, centroids)))
				counts[c] = 1
			} else {
				for j := range next[c] {
					next[c][j] /= float64(counts[c])
				}
			}
			shift += sqDist(centroids[c], next[c])
			copy(centroids[c], next[c])
		}
		if shift < tol {
			break
		}
	}

	// Final assignment against converged centroids.
	for i := 0; i < n; i++ {
		labels[i] = nearestCentroid(x.RawRowView(i), centroids)
	}

	return compactLabels(labels), nil
}

// kmeansPlusPlus seeds k centroids: first uniform, the rest sampled with
// probability proportional to squared distance from the nearest chosen seed.
func kmeansPlusPlus(x *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, d := x.Dims()
	centroids := make([][]float64, 0, k)

	first := rng.Intn(n)
	centroids = append(centroids, append([]float64(nil), x.RawRowView(first)...))

	dist := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i := 0; i < n; i++ {
			best := math.Inf(1)
			row := x.RawRowView(i)
			for _, c := range centroids {
				if sd := sqDist(row, c); sd < best {
					best = sd
				}
			}
			dist[i] = best
			total += best
		}

		var pick int
		if total == 0 {
			// All points coincide with existing seeds; any row works.
			pick = rng.Intn(n)
		} else {
			r := rng.Float64() * total
			acc := 0.0
			pick = n - 1
			for i := 0; i < n; i++ {
				acc += dist[i]
				if acc >= r {
					pick = i
					break
				}
			}
		}
		c := make([]float64, d)
		copy(c, x.RawRowView(pick))
		centroids = append(centroids, c)
	}

	return centroids
}

// nearestCentroid returns the index of the centroid closest to row.
// Ties break toward the lower index for determinism.
func nearestCentroid(row []float64, centroids [][]float64) int {
	best, bestIdx := math.Inf(1), 0
	for c, cen := range centroids {
		if sd := sqDist(row, cen); sd < best {
			best, bestIdx = sd, c
		}
	}

	return bestIdx
}

// farthestRow returns the row with the largest distance to its nearest centroid.
func farthestRow(x *mat.Dense, centroids [][]float64) int {
	n, _ := x.Dims()
	best, bestIdx := -1.0, 0
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		near := math.Inf(1)
		for _, c := range centroids {
			if sd := sqDist(row, c); sd < near {
				near = sd
			}
		}
		if near > best {
			best, bestIdx = near, i
		}
	}

	return bestIdx
}

// sqDist returns the squared Euclidean distance between equal-length vectors.
func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}

	return s
}
