package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftcoach/riftcoach/internal/archetype"
	"github.com/riftcoach/riftcoach/internal/dataset"
	"github.com/riftcoach/riftcoach/internal/report"
	"github.com/riftcoach/riftcoach/internal/storage"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Show archetype clusters under the current model",
	Long:  "Assign every cached match to its archetype cluster using the persisted model bundle and print per-cluster mean stats with interpretation.",
	Args:  cobra.NoArgs,
	RunE:  runClusters,
}

func runClusters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	bundle, err := db.LoadLatestBundle()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	scorer, err := archetype.NewScorer(bundle)
	if err != nil {
		return err
	}

	rows, err := db.ExportAllMatchRows()
	if err != nil {
		return fmt.Errorf("bulk export: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no cached matches")
	}

	X := dataset.FeatureMatrix(rows)
	labels := make([]int, len(rows))
	for i := range rows {
		res, err := scorer.Score(&rows[i])
		if err != nil {
			return fmt.Errorf("score %s/%s: %w", rows[i].PUUID, rows[i].MatchID, err)
		}
		labels[i] = res.Cluster
	}

	sums, err := archetype.Summaries(X, labels, archetype.K)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "bundle %s (created %s), %d matches\n\n",
		bundle.ID, bundle.CreatedAt.Format("2006-01-02 15:04"), len(rows))
	report.PrintClusterTable(os.Stdout, sums)
	return nil
}
