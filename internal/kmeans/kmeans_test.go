package kmeans

import (
	"reflect"
	"testing"
)

// two well-separated blobs plus one outlier pair
var blobs = [][]float64{
	{0.0, 0.1}, {0.1, 0.0}, {0.1, 0.1}, {-0.1, 0.0},
	{5.0, 5.1}, {5.1, 5.0}, {4.9, 5.0}, {5.0, 4.9},
}

func TestFitSeparatesBlobs(t *testing.T) {
	m, labels, err := Fit(blobs, 2, 42, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(m.Centroids) != 2 {
		t.Fatalf("got %d centroids, want 2", len(m.Centroids))
	}
	// all rows in the first blob share a label, all in the second share the other
	first := labels[0]
	for i := 1; i < 4; i++ {
		if labels[i] != first {
			t.Fatalf("row %d labeled %d, want %d", i, labels[i], first)
		}
	}
	second := labels[4]
	if second == first {
		t.Fatalf("blobs collapsed into one cluster")
	}
	for i := 5; i < 8; i++ {
		if labels[i] != second {
			t.Fatalf("row %d labeled %d, want %d", i, labels[i], second)
		}
	}
}

func TestFitDeterministicForSeed(t *testing.T) {
	m1, l1, err := Fit(blobs, 2, 7, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	m2, l2, err := Fit(blobs, 2, 7, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !reflect.DeepEqual(l1, l2) {
		t.Fatalf("labels differ for identical seed: %v vs %v", l1, l2)
	}
	if !reflect.DeepEqual(m1.Centroids, m2.Centroids) {
		t.Fatalf("centroids differ for identical seed")
	}
}

func TestPredictMatchesFitAssignments(t *testing.T) {
	m, labels, err := Fit(blobs, 2, 42, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i, row := range blobs {
		got, err := m.Predict(row)
		if err != nil {
			t.Fatalf("Predict row %d: %v", i, err)
		}
		if got != labels[i] {
			t.Fatalf("row %d: Predict=%d, fit label=%d", i, got, labels[i])
		}
	}
}

func TestPredictTieBreaksLow(t *testing.T) {
	m := &Model{Centroids: [][]float64{{-1, 0}, {1, 0}}}
	// equidistant from both centroids
	got, err := m.Predict([]float64{0, 0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 0 {
		t.Fatalf("tie broke to %d, want 0", got)
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	m := &Model{Centroids: [][]float64{{0, 0}}}
	if _, err := m.Predict([]float64{1, 2, 3}); err == nil {
		t.Fatalf("expected dimension error")
	}
}

func TestFitRejectsBadInputs(t *testing.T) {
	if _, _, err := Fit(blobs, 0, 1, 0); err == nil {
		t.Fatalf("expected error for k=0")
	}
	if _, _, err := Fit(blobs[:1], 2, 1, 0); err == nil {
		t.Fatalf("expected error for fewer rows than k")
	}
	ragged := [][]float64{{1, 2}, {3}}
	if _, _, err := Fit(ragged, 1, 1, 0); err == nil {
		t.Fatalf("expected error for ragged rows")
	}
}
