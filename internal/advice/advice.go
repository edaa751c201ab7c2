// Package advice turns a scored match into coaching text via the Anthropic
// API. The model is asked to reply with a single JSON object matching the
// scoring-result schema; the reply is parsed, never trusted as free text.
package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/riftcoach/riftcoach/internal/model"
)

// ErrMalformedResponse is returned when the model's reply cannot be parsed
// into the expected schema. Surfaced to the caller, not retried.
var ErrMalformedResponse = errors.New("malformed model response")

const systemPrompt = `You are a League of Legends performance coach. You are given one ranked
solo-queue match already scored by a clustering model: the player's archetype
cluster, its label and description, and a rule-based breakdown of the match.

Rules:
- Ground every claim in the data provided. Never invent statistics.
- Keep the advice specific to this match and archetype, not generic tips.
- Reply with EXACTLY one JSON object, no prose before or after, matching:
  {"cluster": int, "label": string, "archetype_description": string,
   "description": string, "advice": string}
- Keep cluster, label and archetype_description unchanged from the input.
- Rewrite "advice" as 2-4 concrete sentences tailored to the match data.`

// Input carries the scored match plus optional player context.
type Input struct {
	Result *model.ScoringResult

	ChampionName   string
	TeamPosition   string
	Role           string
	PlayerRank     string
	BuildItemNames []string
}

// BuildPrompt serialises the scored match and context into the user message.
func BuildPrompt(in Input) (string, error) {
	doc := map[string]interface{}{
		"cluster":               in.Result.Cluster,
		"label":                 in.Result.Label,
		"archetype_description": in.Result.ArchetypeDescription,
		"match_breakdown":       in.Result.Description,
		"baseline_advice":       in.Result.Advice,
	}
	if in.ChampionName != "" {
		doc["champion"] = in.ChampionName
	}
	if in.TeamPosition != "" {
		doc["position"] = in.TeamPosition
	}
	if in.Role != "" {
		doc["role"] = in.Role
	}
	if in.PlayerRank != "" {
		doc["rank"] = in.PlayerRank
	}
	if len(in.BuildItemNames) > 0 {
		doc["build_items"] = in.BuildItemNames
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}
	return fmt.Sprintf("MATCH:\n%s\n\nReply with the JSON object only.", b), nil
}

// ParseReply strips an optional surrounding code fence and decodes the rest
// as a scoring result.
func ParseReply(text string) (*model.ScoringResult, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		// drop the opening fence line, with or without a language tag
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	var res model.ScoringResult
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if res.Label == "" || res.Advice == "" {
		return nil, fmt.Errorf("%w: missing label or advice", ErrMalformedResponse)
	}
	return &res, nil
}

// Generate sends the scored match to the Anthropic API and parses the reply.
func Generate(ctx context.Context, apiKey, modelID string, in Input) (*model.ScoringResult, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	userMsg, err := BuildPrompt(in)
	if err != nil {
		return nil, err
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})
	if err != nil {
		if strings.Contains(err.Error(), "401") || strings.Contains(err.Error(), "authentication") {
			return nil, fmt.Errorf("API authentication failed — check your API key")
		}
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return ParseReply(sb.String())
}
