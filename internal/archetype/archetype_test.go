package archetype

import (
	"errors"
	"testing"

	"github.com/riftcoach/riftcoach/internal/model"
	"github.com/riftcoach/riftcoach/internal/storage"
)

func validBundle() *storage.Bundle {
	means := make([]float64, model.FeatureCount)
	stds := make([]float64, model.FeatureCount)
	for i := range stds {
		stds[i] = 1
	}
	centroids := make([][]float64, K)
	for c := range centroids {
		centroids[c] = make([]float64, model.FeatureCount)
		centroids[c][0] = float64(c * 10) // spread along kills axis
	}
	return &storage.Bundle{
		Features:          append([]string(nil), model.FeatureColumns...),
		Means:             means,
		Stds:              stds,
		K:                 K,
		Centroids:         centroids,
		EnrichmentVersion: EnrichmentVersion,
	}
}

func TestLookupIsTotal(t *testing.T) {
	for c := 0; c < K; c++ {
		if e := Lookup(c); e.Label == "" || e.Label == "Unknown" {
			t.Fatalf("cluster %d has no label", c)
		}
	}
	for _, c := range []int{-1, K, 42} {
		e := Lookup(c)
		if e.Label != "Unknown" || e.ArchetypeDescription != "" || e.Advice != "" {
			t.Fatalf("cluster %d: got %+v, want Unknown entry", c, e)
		}
	}
}

func TestNewScorerNilBundle(t *testing.T) {
	if _, err := NewScorer(nil); !errors.Is(err, ErrMissingArtifact) {
		t.Fatalf("got %v, want ErrMissingArtifact", err)
	}
}

func TestNewScorerRejectsMismatches(t *testing.T) {
	cases := map[string]func(*storage.Bundle){
		"feature order": func(b *storage.Bundle) {
			b.Features[0], b.Features[1] = b.Features[1], b.Features[0]
		},
		"feature count": func(b *storage.Bundle) { b.Features = b.Features[:5] },
		"k":             func(b *storage.Bundle) { b.K = 5 },
		"enrichment":    func(b *storage.Bundle) { b.EnrichmentVersion = "absolute-v0" },
	}
	for name, mutate := range cases {
		b := validBundle()
		mutate(b)
		if _, err := NewScorer(b); !errors.Is(err, ErrBundleMismatch) {
			t.Fatalf("%s: got %v, want ErrBundleMismatch", name, err)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	s, err := NewScorer(validBundle())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	row := &model.MatchRow{
		Kills: 12, Deaths: 1, Assists: 2, KDA: 6, CSPerMin: 9,
		GoldEarned: 6000, GoldSpent: 5000, GameDuration: 1000,
		VisionScore: 60, TurretTakedowns: 6,
	}
	first, err := s.Score(row)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := s.Score(row)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if got.Cluster != first.Cluster {
			t.Fatalf("cluster drifted: %d vs %d", got.Cluster, first.Cluster)
		}
	}
	// centroids spread along kills put 12 kills closest to cluster 1
	if first.Cluster != 1 {
		t.Fatalf("got cluster %d, want 1", first.Cluster)
	}
	if first.Label != Lookup(first.Cluster).Label {
		t.Fatalf("label %q does not match enrichment for cluster %d", first.Label, first.Cluster)
	}
	if first.Description == "" {
		t.Fatalf("expected rule-based description")
	}
}

func TestSummaries(t *testing.T) {
	raw := [][]float64{
		rowVec(10, 1800), rowVec(14, 1800), // cluster 0
		rowVec(2, 1800), // cluster 1
	}
	labels := []int{0, 0, 1}
	sums, err := Summaries(raw, labels, 3)
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("got %d summaries, want 3", len(sums))
	}
	if sums[0].Count != 2 || sums[0].Means[0] != 12 {
		t.Fatalf("cluster 0: count=%d mean kills=%v", sums[0].Count, sums[0].Means[0])
	}
	if sums[1].Count != 1 || sums[1].Means[0] != 2 {
		t.Fatalf("cluster 1: count=%d mean kills=%v", sums[1].Count, sums[1].Means[0])
	}
	if sums[2].Count != 0 {
		t.Fatalf("empty cluster count=%d", sums[2].Count)
	}
	if sums[0].Enrichment.Label != Lookup(0).Label {
		t.Fatalf("enrichment not attached")
	}
}

func TestSummariesRejectsBadLabels(t *testing.T) {
	if _, err := Summaries([][]float64{rowVec(1, 1800)}, []int{5}, 3); err == nil {
		t.Fatalf("expected out-of-range label error")
	}
	if _, err := Summaries([][]float64{rowVec(1, 1800)}, []int{0, 1}, 3); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func rowVec(kills float64, duration float64) []float64 {
	v := make([]float64, model.FeatureCount)
	v[0] = kills
	v[model.FeatureCount-1] = duration
	return v
}
