// Package model defines the match record, the feature-vector contract shared
// by training and scoring, and the scoring request/response shapes.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FeatureColumns is the fixed feature-vector layout. Order matters: the
// normalization transform and the cluster centroids are fitted against this
// exact ordering, and a persisted model is only valid for it.
var FeatureColumns = []string{
	"kills", "deaths", "assists", "goldEarned", "goldSpent",
	"csPerMin", "kda", "visionScore", "wardsPlaced", "wardsKilled",
	"damageDealtToChampions", "totalDamageTaken", "totalMinionsKilled",
	"neutralMinionsKilled", "turretTakedowns", "inhibitorTakedowns", "gameDuration",
}

// FeatureCount is the length of FeatureColumns.
const FeatureCount = 17

// ErrMissingFeature reports a scoring row that lacks a required feature field.
var ErrMissingFeature = errors.New("missing required feature")

// MatchRow is one cached (player, match) record, as stored and as exported in
// the training dataset.
type MatchRow struct {
	PUUID        string
	MatchID      string
	ChampionName string
	TeamPosition string
	Win          bool

	Kills      int
	Deaths     int
	Assists    int
	GoldEarned int
	GoldSpent  int

	CSPerMin float64
	KDA      float64

	VisionScore            int
	WardsPlaced            int
	WardsKilled            int
	DamageDealtToChampions int
	TotalDamageTaken       int

	GameMode     string
	QueueID      int
	GameDuration int64 // seconds

	TotalMinionsKilled   int
	NeutralMinionsKilled int
	TurretTakedowns      int
	InhibitorTakedowns   int
	GameStartTimestamp   int64
}

// FeatureVector returns the row's features in FeatureColumns order.
func (r *MatchRow) FeatureVector() []float64 {
	return []float64{
		float64(r.Kills), float64(r.Deaths), float64(r.Assists),
		float64(r.GoldEarned), float64(r.GoldSpent),
		r.CSPerMin, r.KDA,
		float64(r.VisionScore), float64(r.WardsPlaced), float64(r.WardsKilled),
		float64(r.DamageDealtToChampions), float64(r.TotalDamageTaken),
		float64(r.TotalMinionsKilled), float64(r.NeutralMinionsKilled),
		float64(r.TurretTakedowns), float64(r.InhibitorTakedowns),
		float64(r.GameDuration),
	}
}

// DeriveKDA computes (kills+assists)/max(1,deaths).
func DeriveKDA(kills, deaths, assists int) float64 {
	d := deaths
	if d < 1 {
		d = 1
	}
	return float64(kills+assists) / float64(d)
}

// DeriveCSPerMin computes creep score per minute over the game duration.
// Returns 0 for a zero-length game.
func DeriveCSPerMin(totalCS int, durationSec int64) float64 {
	if durationSec <= 0 {
		return 0
	}
	return float64(totalCS) / (float64(durationSec) / 60.0)
}

// ScoreRequest is one inbound scoring row: the 17 features plus optional
// context fields forwarded to the advice synthesizer.
type ScoreRequest struct {
	Row MatchRow

	ChampionName   string
	TeamPosition   string
	Role           string
	PlayerRank     string
	BuildItemNames []string
}

// DecodeScoreRequest parses a scoring request from JSON. Every feature in
// FeatureColumns must be present; a missing one fails the row with
// ErrMissingFeature. Context fields are optional.
func DecodeScoreRequest(data []byte) (*ScoreRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode score request: %w", err)
	}

	vals := make(map[string]float64, FeatureCount)
	for _, col := range FeatureColumns {
		msg, ok := raw[col]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingFeature, col)
		}
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, fmt.Errorf("feature %q: %w", col, err)
		}
		vals[col] = v
	}

	req := &ScoreRequest{
		Row: MatchRow{
			Kills:                  int(vals["kills"]),
			Deaths:                 int(vals["deaths"]),
			Assists:                int(vals["assists"]),
			GoldEarned:             int(vals["goldEarned"]),
			GoldSpent:              int(vals["goldSpent"]),
			CSPerMin:               vals["csPerMin"],
			KDA:                    vals["kda"],
			VisionScore:            int(vals["visionScore"]),
			WardsPlaced:            int(vals["wardsPlaced"]),
			WardsKilled:            int(vals["wardsKilled"]),
			DamageDealtToChampions: int(vals["damageDealtToChampions"]),
			TotalDamageTaken:       int(vals["totalDamageTaken"]),
			TotalMinionsKilled:     int(vals["totalMinionsKilled"]),
			NeutralMinionsKilled:   int(vals["neutralMinionsKilled"]),
			TurretTakedowns:        int(vals["turretTakedowns"]),
			InhibitorTakedowns:     int(vals["inhibitorTakedowns"]),
			GameDuration:           int64(vals["gameDuration"]),
		},
	}

	stringField := func(key string) string {
		msg, ok := raw[key]
		if !ok {
			return ""
		}
		var s string
		if json.Unmarshal(msg, &s) != nil {
			return ""
		}
		return s
	}
	req.ChampionName = stringField("championName")
	req.TeamPosition = stringField("teamPosition")
	req.Role = stringField("role")
	req.PlayerRank = stringField("playerRank")
	if msg, ok := raw["buildItemNames"]; ok {
		_ = json.Unmarshal(msg, &req.BuildItemNames)
	}
	return req, nil
}

// ScoringResult is the per-request output of the scoring path. It is also the
// schema the advice synthesizer asks the text service to reply with.
type ScoringResult struct {
	Cluster              int    `json:"cluster"`
	Label                string `json:"label"`
	ArchetypeDescription string `json:"archetype_description"`
	Description          string `json:"description"`
	Advice               string `json:"advice"`
}
