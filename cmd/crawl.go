package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftcoach/riftcoach/internal/crawler"
	"github.com/riftcoach/riftcoach/internal/riot"
	"github.com/riftcoach/riftcoach/internal/storage"
)

var (
	crawlRegions []string
	crawlTiers   []string
	crawlMatches int
	crawlAPIKey  string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Discover ranked players and cache their recent matches",
	Long: `Walk the configured ranked tiers across the configured platform regions,
resolve each discovered player's Riot ID, and cache their recent ranked
solo-queue matches. Already-ingested players are skipped, so reruns are cheap
and resumable. Expect long runs: requests are throttled to respect rate limits.`,
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringSliceVar(&crawlRegions, "regions", nil, "platform regions to crawl (overrides config)")
	crawlCmd.Flags().StringSliceVar(&crawlTiers, "tiers", nil, "ranked tiers to crawl (overrides config)")
	crawlCmd.Flags().IntVar(&crawlMatches, "matches", 0, "recent matches to cache per player (overrides config)")
	crawlCmd.Flags().StringVar(&crawlAPIKey, "api-key", "", "Riot API key (falls back to config / $RIOT_API_KEY)")
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if crawlAPIKey != "" {
		cfg.RiotAPIKey = crawlAPIKey
	}
	if cfg.RiotAPIKey == "" {
		return fmt.Errorf("no Riot API key: set RIOT_API_KEY or use --api-key")
	}
	regions := cfg.Regions
	if len(crawlRegions) > 0 {
		regions = crawlRegions
	}
	tiers := cfg.Tiers
	if len(crawlTiers) > 0 {
		tiers = crawlTiers
	}
	for _, tier := range tiers {
		if !validTier(tier) {
			return fmt.Errorf("unknown tier %q", tier)
		}
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	c := crawler.New(riot.NewClient(cfg.RiotAPIKey), db)
	c.MatchesPerPlayer = cfg.MatchesPerPlayer
	if crawlMatches > 0 {
		c.MatchesPerPlayer = crawlMatches
	}

	sum, err := c.Run(cmd.Context(), regions, tiers)
	if sum != nil {
		fmt.Fprintf(os.Stdout, "discovered %d, cached %d, skipped %d, failed %d, %d match rows\n",
			sum.Discovered, sum.Cached, sum.Skipped, sum.Failed, sum.Matches)
	}
	return err
}

func validTier(tier string) bool {
	for _, t := range riot.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}
