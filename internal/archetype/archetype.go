// Package archetype maps cluster indices to human-readable archetypes and
// orchestrates the online scoring path over a persisted model bundle.
package archetype

import (
	"errors"
	"fmt"

	"github.com/riftcoach/riftcoach/internal/interpret"
	"github.com/riftcoach/riftcoach/internal/kmeans"
	"github.com/riftcoach/riftcoach/internal/model"
	"github.com/riftcoach/riftcoach/internal/scaler"
	"github.com/riftcoach/riftcoach/internal/storage"
)

// K is the number of archetypes the enrichment table covers. Training fits
// exactly this many clusters so every cluster id has an enrichment entry.
const K = 8

// EnrichmentVersion names the table below. A persisted bundle carries the
// version it was trained against; a mismatch rejects the bundle rather than
// serving stale labels.
const EnrichmentVersion = "perminute-v1"

var (
	// ErrMissingArtifact is returned when scoring is requested before any
	// trained model bundle has been persisted.
	ErrMissingArtifact = errors.New("no trained model artifact available")
	// ErrBundleMismatch is returned when a persisted bundle does not match
	// this build's feature layout, K, or enrichment version.
	ErrBundleMismatch = errors.New("model artifact incompatible with this build")
)

// Enrichment is the static description of one archetype.
type Enrichment struct {
	Label                string
	ArchetypeDescription string
	Advice               string
}

var table = [K]Enrichment{
	{
		Label:                "Struggling Laner",
		ArchetypeDescription: "Average farm and kills but poor vision control in lane.",
		Advice:               "Improve ward coverage and focus on objectives to regain lane control.",
	},
	{
		Label:                "Overextended Duelist",
		ArchetypeDescription: "High damage potential but frequently dies due to risky plays.",
		Advice:               "Prioritize safety and only engage when you have vision and support.",
	},
	{
		Label:                "Visionary Support",
		ArchetypeDescription: "Exceptional vision control with high assist counts enabling team plays.",
		Advice:               "Maintain deep ward coverage and coordinate engages to maximize impact.",
	},
	{
		Label:                "High-Impact Carry",
		ArchetypeDescription: "Massive damage output and kill counts driving team fights.",
		Advice:               "Position carefully to deal damage safely and secure key objectives.",
	},
	{
		Label:                "Frontline Bruiser",
		ArchetypeDescription: "Durable initiator who soaks damage and contributes solid kills.",
		Advice:               "Lead engages and build resistances to protect your team.",
	},
	{
		Label:                "Minimal Impact",
		ArchetypeDescription: "Low kills, assists, and vision; struggles to influence games early.",
		Advice:               "Work on fundamental farming and warding to scale into mid-game.",
	},
	{
		Label:                "Flawless Performer",
		ArchetypeDescription: "Near-perfect KDA and win rate showcasing exceptional execution.",
		Advice:               "Review your decision-making in these games to replicate success.",
	},
	{
		Label:                "Roaming Support",
		ArchetypeDescription: "High assist and vision scores emphasizing map presence and rotations.",
		Advice:               "Coordinate roams with laners and secure key objectives with timely wards.",
	},
}

// Lookup returns the enrichment for a cluster id. Total over all ints:
// anything outside [0,K) gets the Unknown entry.
func Lookup(cluster int) Enrichment {
	if cluster < 0 || cluster >= K {
		return Enrichment{Label: "Unknown"}
	}
	return table[cluster]
}

// Scorer applies a frozen model bundle to individual match rows.
type Scorer struct {
	bundle    *storage.Bundle
	transform *scaler.Transform
	clusters  *kmeans.Model
}

// NewScorer validates a loaded bundle against this build's feature contract.
// A nil bundle means nothing has been trained yet.
func NewScorer(b *storage.Bundle) (*Scorer, error) {
	if b == nil {
		return nil, ErrMissingArtifact
	}
	if len(b.Features) != model.FeatureCount {
		return nil, fmt.Errorf("%w: %d features, want %d", ErrBundleMismatch, len(b.Features), model.FeatureCount)
	}
	for i, name := range b.Features {
		if name != model.FeatureColumns[i] {
			return nil, fmt.Errorf("%w: feature %d is %q, want %q", ErrBundleMismatch, i, name, model.FeatureColumns[i])
		}
	}
	if b.K != K || len(b.Centroids) != K {
		return nil, fmt.Errorf("%w: k=%d with %d centroids, want %d", ErrBundleMismatch, b.K, len(b.Centroids), K)
	}
	if b.EnrichmentVersion != EnrichmentVersion {
		return nil, fmt.Errorf("%w: enrichment %q, want %q", ErrBundleMismatch, b.EnrichmentVersion, EnrichmentVersion)
	}
	return &Scorer{
		bundle:    b,
		transform: &scaler.Transform{Means: b.Means, Stds: b.Stds},
		clusters:  &kmeans.Model{Centroids: b.Centroids},
	}, nil
}

// Score normalizes one raw match row, assigns it to its archetype cluster,
// and merges enrichment with the rule-based description of the raw row.
func (s *Scorer) Score(row *model.MatchRow) (*model.ScoringResult, error) {
	raw := row.FeatureVector()
	scaled, err := s.transform.Apply(raw)
	if err != nil {
		return nil, err
	}
	cluster, err := s.clusters.Predict(scaled)
	if err != nil {
		return nil, err
	}
	e := Lookup(cluster)
	return &model.ScoringResult{
		Cluster:              cluster,
		Label:                e.Label,
		ArchetypeDescription: e.ArchetypeDescription,
		Description:          interpret.DescribeRow(row),
		Advice:               e.Advice,
	}, nil
}

// ClusterSummary is one row of the descriptive training export: per-cluster
// means of the raw features, described by the same rule table used for
// scoring, plus the cluster's enrichment.
type ClusterSummary struct {
	Cluster     int
	Count       int
	Means       []float64 // raw feature space, model.FeatureColumns order
	Description string
	Enrichment  Enrichment
}

// Summaries computes per-cluster raw-feature means for labeled training rows.
// Clusters with no rows still appear, with zero means.
func Summaries(raw [][]float64, labels []int, k int) ([]ClusterSummary, error) {
	if len(raw) != len(labels) {
		return nil, fmt.Errorf("summaries: %d rows but %d labels", len(raw), len(labels))
	}
	out := make([]ClusterSummary, k)
	for c := range out {
		out[c] = ClusterSummary{Cluster: c, Means: make([]float64, model.FeatureCount)}
	}
	for i, row := range raw {
		c := labels[i]
		if c < 0 || c >= k {
			return nil, fmt.Errorf("summaries: label %d out of range for k=%d", c, k)
		}
		out[c].Count++
		for j, v := range row {
			out[c].Means[j] += v
		}
	}
	for c := range out {
		if out[c].Count > 0 {
			for j := range out[c].Means {
				out[c].Means[j] /= float64(out[c].Count)
			}
		}
		out[c].Description = interpret.Describe(out[c].Means)
		out[c].Enrichment = Lookup(c)
	}
	return out, nil
}
