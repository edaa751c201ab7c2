package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riftcoach/riftcoach/internal/crawler"
	"github.com/riftcoach/riftcoach/internal/riot"
	"github.com/riftcoach/riftcoach/internal/storage"
)

var (
	playerRegion string
	playerAPIKey string
)

var playerCmd = &cobra.Command{
	Use:   "player <gameName#tagLine>",
	Short: "Cache one player's recent ranked matches",
	Long:  "Resolve a Riot ID and cache that player's recent ranked solo-queue matches, without running a full crawl.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerRegion, "region", "na1", "platform region the player queues on")
	playerCmd.Flags().StringVar(&playerAPIKey, "api-key", "", "Riot API key (falls back to config / $RIOT_API_KEY)")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	gameName, tagLine, ok := strings.Cut(args[0], "#")
	if !ok || gameName == "" || tagLine == "" {
		return fmt.Errorf("invalid Riot ID %q: want gameName#tagLine", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playerAPIKey != "" {
		cfg.RiotAPIKey = playerAPIKey
	}
	if cfg.RiotAPIKey == "" {
		return fmt.Errorf("no Riot API key: set RIOT_API_KEY or use --api-key")
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	c := crawler.New(riot.NewClient(cfg.RiotAPIKey), db)
	c.MatchesPerPlayer = cfg.MatchesPerPlayer

	n, err := c.CacheIdentity(cmd.Context(), gameName, tagLine, playerRegion)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "cached %d new match rows for %s#%s (%s)\n", n, gameName, tagLine, playerRegion)
	return nil
}
