// Package scaler implements the standard-score normalization transform shared
// by training and prediction.
package scaler

import (
	"fmt"
	"math"
)

// Transform holds per-feature mean and standard deviation, fitted once over
// the training dataset. Parameters are immutable after fit; a transform is
// only valid together with the cluster model fitted on its output.
type Transform struct {
	Means []float64
	Stds  []float64
}

// Fit computes per-feature mean and population standard deviation over X and
// returns the transform plus the z-scored copy of X.
func Fit(X [][]float64) (*Transform, [][]float64, error) {
	if len(X) == 0 {
		return nil, nil, fmt.Errorf("fit scaler: empty dataset")
	}
	dims := len(X[0])

	means := make([]float64, dims)
	for _, row := range X {
		if len(row) != dims {
			return nil, nil, fmt.Errorf("fit scaler: ragged row (want %d features, got %d)", dims, len(row))
		}
		for j, v := range row {
			means[j] += v
		}
	}
	n := float64(len(X))
	for j := range means {
		means[j] /= n
	}

	stds := make([]float64, dims)
	for _, row := range X {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
	}

	t := &Transform{Means: means, Stds: stds}
	Z := make([][]float64, len(X))
	for i, row := range X {
		z, err := t.Apply(row)
		if err != nil {
			return nil, nil, err
		}
		Z[i] = z
	}
	return t, Z, nil
}

// Apply z-scores one row using the stored parameters. A zero standard
// deviation (constant training column) is treated as 1, so the feature maps
// to a constant 0 instead of propagating NaN.
func (t *Transform) Apply(x []float64) ([]float64, error) {
	if len(x) != len(t.Means) {
		return nil, fmt.Errorf("apply scaler: want %d features, got %d", len(t.Means), len(x))
	}
	z := make([]float64, len(x))
	for j, v := range x {
		std := t.Stds[j]
		if std == 0 {
			std = 1
		}
		z[j] = (v - t.Means[j]) / std
	}
	return z, nil
}
