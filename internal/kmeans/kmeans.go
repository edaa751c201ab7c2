// Package kmeans implements centroid-based partitioning over normalized
// feature vectors. Centroids are frozen after fit; prediction is a pure
// nearest-centroid lookup.
package kmeans

import (
	"fmt"
	"math/rand"
)

// DefaultMaxIter caps Lloyd iterations during fit.
const DefaultMaxIter = 100

// Model holds the fitted centroids in normalized feature space.
type Model struct {
	Centroids [][]float64
}

// Fit partitions X into k clusters. Initialization is seeded k-means++, so a
// fixed seed gives a reproducible fit. Returns the model and the cluster
// assignment of every input row.
func Fit(X [][]float64, k int, seed int64, maxIter int) (*Model, []int, error) {
	if k <= 0 {
		return nil, nil, fmt.Errorf("fit kmeans: k must be positive, got %d", k)
	}
	if len(X) < k {
		return nil, nil, fmt.Errorf("fit kmeans: %d rows for k=%d", len(X), k)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	dims := len(X[0])
	for i, row := range X {
		if len(row) != dims {
			return nil, nil, fmt.Errorf("fit kmeans: ragged row %d (want %d features, got %d)", i, dims, len(row))
		}
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := initPlusPlus(X, k, rng)

	labels := make([]int, len(X))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, row := range X {
			c := nearest(centroids, row)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		// Recompute centroids as the mean of assigned rows. An empty cluster
		// keeps its previous centroid.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, row := range X {
			c := labels[i]
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	return &Model{Centroids: centroids}, labels, nil
}

// Predict returns the index of the nearest centroid for one normalized row,
// ties broken by lowest index. Centroids are never updated here, so a row
// receives the same assignment it would have had at fit time.
func (m *Model) Predict(x []float64) (int, error) {
	if len(m.Centroids) == 0 {
		return 0, fmt.Errorf("predict: model has no centroids")
	}
	if len(x) != len(m.Centroids[0]) {
		return 0, fmt.Errorf("predict: want %d features, got %d", len(m.Centroids[0]), len(x))
	}
	return nearest(m.Centroids, x), nil
}

// nearest returns the index of the centroid closest to x. Strict comparison
// keeps the lowest index on ties.
func nearest(centroids [][]float64, x []float64) int {
	best := 0
	bestDist := dist2(centroids[0], x)
	for c := 1; c < len(centroids); c++ {
		if d := dist2(centroids[c], x); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// dist2 is squared Euclidean distance.
func dist2(a, b []float64) float64 {
	var sum float64
	for j := range a {
		d := a[j] - b[j]
		sum += d * d
	}
	return sum
}

// initPlusPlus seeds k centroids with the k-means++ scheme: first uniform,
// the rest weighted by squared distance to the nearest chosen centroid.
func initPlusPlus(X [][]float64, k int, rng *rand.Rand) [][]float64 {
	dims := len(X[0])
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(X[rng.Intn(len(X))], dims))

	dists := make([]float64, len(X))
	for len(centroids) < k {
		var total float64
		for i, row := range X {
			d := dist2(centroids[0], row)
			for _, c := range centroids[1:] {
				if dc := dist2(c, row); dc < d {
					d = dc
				}
			}
			dists[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with chosen centroids.
			centroids = append(centroids, cloneRow(X[rng.Intn(len(X))], dims))
			continue
		}

		target := rng.Float64() * total
		idx := 0
		for i, d := range dists {
			target -= d
			if target <= 0 {
				idx = i
				break
			}
		}
		centroids = append(centroids, cloneRow(X[idx], dims))
	}
	return centroids
}

func cloneRow(row []float64, dims int) []float64 {
	out := make([]float64, dims)
	copy(out, row)
	return out
}
