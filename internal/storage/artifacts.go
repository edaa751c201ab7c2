package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Bundle is one atomically versioned set of fitted model artifacts: the
// normalization transform, the cluster centroids, and the enrichment table
// version they were authored against. A transform is never valid with
// centroids from a different fit.
type Bundle struct {
	ID                string
	CreatedAt         time.Time
	Features          []string
	Means             []float64
	Stds              []float64
	K                 int
	Centroids         [][]float64
	EnrichmentVersion string
}

// SaveBundle persists a bundle as one row.
func (db *DB) SaveBundle(b *Bundle) error {
	features, err := json.Marshal(b.Features)
	if err != nil {
		return err
	}
	means, err := json.Marshal(b.Means)
	if err != nil {
		return err
	}
	stds, err := json.Marshal(b.Stds)
	if err != nil {
		return err
	}
	centroids, err := json.Marshal(b.Centroids)
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(`
		INSERT OR REPLACE INTO model_artifacts(
			bundle_id, created_at, features, means, stds, k, centroids, enrichment_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(features), string(means), string(stds),
		b.K, string(centroids), b.EnrichmentVersion,
	)
	if err != nil {
		return fmt.Errorf("save bundle %s: %w", b.ID, err)
	}
	return nil
}

// LoadLatestBundle returns the most recently persisted bundle, or nil if no
// fit has been persisted yet.
func (db *DB) LoadLatestBundle() (*Bundle, error) {
	var (
		b         Bundle
		createdAt string
		features  string
		means     string
		stds      string
		centroids string
	)
	err := db.conn.QueryRow(`
		SELECT bundle_id, created_at, features, means, stds, k, centroids, enrichment_version
		FROM model_artifacts ORDER BY created_at DESC LIMIT 1`).
		Scan(&b.ID, &createdAt, &features, &means, &stds, &b.K, &centroids, &b.EnrichmentVersion)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if b.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("bundle %s: bad created_at: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(features), &b.Features); err != nil {
		return nil, fmt.Errorf("bundle %s: features: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(means), &b.Means); err != nil {
		return nil, fmt.Errorf("bundle %s: means: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(stds), &b.Stds); err != nil {
		return nil, fmt.Errorf("bundle %s: stds: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(centroids), &b.Centroids); err != nil {
		return nil, fmt.Errorf("bundle %s: centroids: %w", b.ID, err)
	}
	return &b, nil
}
