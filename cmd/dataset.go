package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/riftcoach/riftcoach/internal/dataset"
	"github.com/riftcoach/riftcoach/internal/storage"
)

var (
	datasetOut  string
	datasetDrop []string
	datasetFull bool
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Export cached matches as a flat training CSV",
	Long: `Bulk-export every cached match row into training_dataset.csv. Non-feature
context columns are dropped by default; use --full to keep all columns or
--drop to choose your own.`,
	Args: cobra.NoArgs,
	RunE: runDataset,
}

func init() {
	datasetCmd.Flags().StringVar(&datasetOut, "out", "", "output directory (overrides config)")
	datasetCmd.Flags().StringSliceVar(&datasetDrop, "drop", nil, "columns to drop instead of the defaults")
	datasetCmd.Flags().BoolVar(&datasetFull, "full", false, "keep every column")
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outDir := cfg.OutDir
	if datasetOut != "" {
		outDir = datasetOut
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
	if len(rows) == 0 {
		return fmt.Errorf("no cached matches: run 'riftcoach crawl' first")
	}

	drop := dataset.DefaultDropColumns
	switch {
	case datasetFull:
		drop = nil
	case len(datasetDrop) > 0:
		drop = datasetDrop
	}

	header, records, err := dataset.Build(rows, drop)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, "training_dataset.csv")
	if err := dataset.WriteCSV(path, header, records); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %d rows (%d columns) to %s\n", len(records), len(header), path)
	return nil
}
