package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftcoach/riftcoach/internal/advice"
	"github.com/riftcoach/riftcoach/internal/archetype"
	"github.com/riftcoach/riftcoach/internal/interpret"
	"github.com/riftcoach/riftcoach/internal/model"
	"github.com/riftcoach/riftcoach/internal/report"
	"github.com/riftcoach/riftcoach/internal/storage"
)

var (
	scoreAdvice bool
	scoreJSON   bool
	scoreLegacy bool
	scoreModel  string
	scoreAPIKey string
)

var scoreCmd = &cobra.Command{
	Use:   "score <match.json|->",
	Short: "Score one match against the trained archetype model",
	Long: `Score a single match row (JSON file, or '-' for stdin) with the persisted
model bundle: assign its archetype cluster and produce the rule-based
breakdown. With --advice, send the scored match to the Anthropic API for
tailored coaching text.

The JSON object must contain every feature column (kills, deaths, assists,
goldEarned, goldSpent, csPerMin, kda, visionScore, wardsPlaced, wardsKilled,
damageDealtToChampions, totalDamageTaken, totalMinionsKilled,
neutralMinionsKilled, turretTakedowns, inhibitorTakedowns, gameDuration) and
may carry optional context: championName, teamPosition, role, playerRank,
buildItemNames.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreAdvice, "advice", false, "generate tailored advice via the Anthropic API")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the result as JSON")
	scoreCmd.Flags().BoolVar(&scoreLegacy, "legacy-rules", false, "use the absolute-threshold rule table for the breakdown")
	scoreCmd.Flags().StringVar(&scoreModel, "model", "", "Anthropic model for --advice (overrides config)")
	scoreCmd.Flags().StringVar(&scoreAPIKey, "api-key", "", "Anthropic API key (falls back to config / $ANTHROPIC_API_KEY)")
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	req, err := model.DecodeScoreRequest(data)
	if err != nil {
		return err
	}

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

	res, err := scorer.Score(&req.Row)
	if err != nil {
		return err
	}
	if scoreLegacy {
		res.Description = interpret.DescribeAbsolute(req.Row.FeatureVector())
	}

	if scoreAdvice {
		apiKey := cfg.AnthropicAPIKey
		if scoreAPIKey != "" {
			apiKey = scoreAPIKey
		}
		modelID := cfg.AnthropicModel
		if scoreModel != "" {
			modelID = scoreModel
		}
		enriched, err := advice.Generate(cmd.Context(), apiKey, modelID, advice.Input{
			Result:         res,
			ChampionName:   req.ChampionName,
			TeamPosition:   req.TeamPosition,
			Role:           req.Role,
			PlayerRank:     req.PlayerRank,
			BuildItemNames: req.BuildItemNames,
		})
		if err != nil {
			return err
		}
		res = enriched
	}

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	report.PrintScoringResult(os.Stdout, res)
	return nil
}

func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}
	return data, nil
}
