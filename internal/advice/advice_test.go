package advice

import (
	"errors"
	"strings"
	"testing"

	"github.com/riftcoach/riftcoach/internal/model"
)

const replyJSON = `{"cluster": 3, "label": "High-Impact Carry",
"archetype_description": "Massive damage output and kill counts driving team fights.",
"description": "carry performance, very high damage",
"advice": "Your damage carried but positioning cost you two deaths; play behind your frontline."}`

func TestParseReplyBareJSON(t *testing.T) {
	res, err := ParseReply(replyJSON)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if res.Cluster != 3 || res.Label != "High-Impact Carry" {
		t.Fatalf("got %+v", res)
	}
}

func TestParseReplyStripsFences(t *testing.T) {
	for _, wrap := range []string{
		"```\n" + replyJSON + "\n```",
		"```json\n" + replyJSON + "\n```",
		"  ```json\n" + replyJSON + "\n```  \n",
	} {
		res, err := ParseReply(wrap)
		if err != nil {
			t.Fatalf("ParseReply(%q...): %v", wrap[:10], err)
		}
		if res.Cluster != 3 {
			t.Fatalf("got cluster %d, want 3", res.Cluster)
		}
	}
}

func TestParseReplyMalformed(t *testing.T) {
	for _, text := range []string{
		"Sorry, I can't help with that.",
		"```json\nnot json\n```",
		`{"cluster": 1}`, // parses but missing required text fields
		"",
	} {
		if _, err := ParseReply(text); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("ParseReply(%q): got %v, want ErrMalformedResponse", text, err)
		}
	}
}

func TestBuildPromptIncludesContext(t *testing.T) {
	in := Input{
		Result: &model.ScoringResult{
			Cluster: 2, Label: "Visionary Support",
			ArchetypeDescription: "Exceptional vision control.",
			Description:          "excellent map awareness",
			Advice:               "Maintain deep ward coverage.",
		},
		ChampionName:   "Thresh",
		TeamPosition:   "UTILITY",
		PlayerRank:     "GOLD II",
		BuildItemNames: []string{"Locket of the Iron Solari"},
	}
	prompt, err := BuildPrompt(in)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	for _, want := range []string{"Visionary Support", "Thresh", "UTILITY", "GOLD II", "Locket"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptOmitsEmptyContext(t *testing.T) {
	prompt, err := BuildPrompt(Input{Result: &model.ScoringResult{Label: "x", Advice: "y"}})
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	for _, absent := range []string{"champion", "rank", "build_items", "position"} {
		if strings.Contains(prompt, `"`+absent+`"`) {
			t.Fatalf("prompt should omit %q when empty:\n%s", absent, prompt)
		}
	}
}
