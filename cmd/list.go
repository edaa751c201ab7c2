package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftcoach/riftcoach/internal/report"
	"github.com/riftcoach/riftcoach/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached players",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players cached yet. Run 'riftcoach crawl' or 'riftcoach player <name#tag>' to add some.")
		return nil
	}

	report.PrintPlayerTable(os.Stdout, players)

	matches, err := db.CountMatches()
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n%d players, %d cached match rows\n", len(players), matches)
	return nil
}
