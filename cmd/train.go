package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/riftcoach/riftcoach/internal/archetype"
	"github.com/riftcoach/riftcoach/internal/dataset"
	"github.com/riftcoach/riftcoach/internal/kmeans"
	"github.com/riftcoach/riftcoach/internal/model"
	"github.com/riftcoach/riftcoach/internal/report"
	"github.com/riftcoach/riftcoach/internal/scaler"
	"github.com/riftcoach/riftcoach/internal/storage"
)

var (
	trainOut  string
	trainSeed int64
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the normalizer and archetype clusters from cached matches",
	Long: `Run the training pipeline over every cached match row: z-score the feature
columns, partition players into archetype clusters, persist the fitted model
as one versioned bundle, and emit the dataset exports
(training_dataset.csv, normalized_dataset.csv, labeled_data.csv,
labeled_raw_data.csv, descriptive_data.csv).`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&trainOut, "out", "", "output directory for CSV exports (overrides config)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", -1, "clustering seed (overrides config)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outDir := cfg.OutDir
	if trainOut != "" {
		outDir = trainOut
	}
	seed := cfg.Seed
	if trainSeed >= 0 {
		seed = trainSeed
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.ExportAllMatchRows()
	if err != nil {
		return fmt.Errorf("bulk export: %w", err)
	}
	if len(rows) < archetype.K {
		return fmt.Errorf("only %d cached matches, need at least %d to fit %d clusters",
			len(rows), archetype.K, archetype.K)
	}

	header, records, err := dataset.Build(rows, dataset.DefaultDropColumns)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(filepath.Join(outDir, "training_dataset.csv"), header, records); err != nil {
		return err
	}

	X := dataset.FeatureMatrix(rows)
	transform, scaled, err := scaler.Fit(X)
	if err != nil {
		return fmt.Errorf("fit normalizer: %w", err)
	}

	km, labels, err := kmeans.Fit(scaled, archetype.K, seed, kmeans.DefaultMaxIter)
	if err != nil {
		return fmt.Errorf("fit clusters: %w", err)
	}

	bundle := &storage.Bundle{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		Features:          append([]string(nil), model.FeatureColumns...),
		Means:             transform.Means,
		Stds:              transform.Stds,
		K:                 archetype.K,
		Centroids:         km.Centroids,
		EnrichmentVersion: archetype.EnrichmentVersion,
	}
	if err := db.SaveBundle(bundle); err != nil {
		return err
	}

	if err := writeNormalized(outDir, rows, scaled, labels); err != nil {
		return err
	}
	if err := writeLabeledRaw(outDir, rows, labels); err != nil {
		return err
	}

	sums, err := archetype.Summaries(X, labels, archetype.K)
	if err != nil {
		return err
	}
	if err := writeDescriptive(outDir, sums); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "trained on %d matches (seed %d), bundle %s\n\n", len(rows), seed, bundle.ID)
	report.PrintClusterTable(os.Stdout, sums)
	return nil
}

// writeNormalized emits the z-scored dataset with row identity re-attached,
// both unlabeled and with cluster ids.
func writeNormalized(outDir string, rows []model.MatchRow, scaled [][]float64, labels []int) error {
	header := append([]string{"puuid", "matchId"}, model.FeatureColumns...)

	records := make([][]string, len(rows))
	for i := range rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, rows[i].PUUID, rows[i].MatchID)
		for _, v := range scaled[i] {
			rec = append(rec, dataset.FormatFloat(v))
		}
		records[i] = rec
	}
	if err := dataset.WriteCSV(filepath.Join(outDir, "normalized_dataset.csv"), header, records); err != nil {
		return err
	}

	labeledHeader := append(append([]string(nil), header...), "cluster")
	labeled := make([][]string, len(records))
	for i, rec := range records {
		labeled[i] = append(append([]string(nil), rec...), strconv.Itoa(labels[i]))
	}
	return dataset.WriteCSV(filepath.Join(outDir, "labeled_data.csv"), labeledHeader, labeled)
}

// writeLabeledRaw emits the raw (pre-normalization) dataset plus cluster ids.
func writeLabeledRaw(outDir string, rows []model.MatchRow, labels []int) error {
	header, records, err := dataset.Build(rows, nil)
	if err != nil {
		return err
	}
	header = append(header, "cluster")
	for i := range records {
		records[i] = append(records[i], strconv.Itoa(labels[i]))
	}
	return dataset.WriteCSV(filepath.Join(outDir, "labeled_raw_data.csv"), header, records)
}

// writeDescriptive emits per-cluster mean stats with interpretation and
// enrichment.
func writeDescriptive(outDir string, sums []archetype.ClusterSummary) error {
	header := append([]string{"cluster", "count"}, model.FeatureColumns...)
	header = append(header, "description", "label", "archetype_description", "advice")

	records := make([][]string, len(sums))
	for i, s := range sums {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(s.Cluster), strconv.Itoa(s.Count))
		for _, v := range s.Means {
			rec = append(rec, dataset.FormatFloat(v))
		}
		rec = append(rec, s.Description, s.Enrichment.Label, s.Enrichment.ArchetypeDescription, s.Enrichment.Advice)
		records[i] = rec
	}
	return dataset.WriteCSV(filepath.Join(outDir, "descriptive_data.csv"), header, records)
}
