// Package interpret turns a single match-statistics row into a short
// comma-joined play-style description. Rules are declarative and evaluated in
// a fixed order; each contributes at most one tag. The same rule tables
// describe both live scoring rows and per-cluster centroid means, so training
// summaries and online scoring never drift apart.
package interpret

import (
	"strings"

	"github.com/riftcoach/riftcoach/internal/model"
)

// InvalidDuration is returned instead of tags for a zero-length game.
const InvalidDuration = "Invalid game duration"

// Feature indices into a vector laid out per model.FeatureColumns.
const (
	idxKills = iota
	idxDeaths
	idxAssists
	idxGoldEarned
	idxGoldSpent
	idxCSPerMin
	idxKDA
	idxVisionScore
	idxWardsPlaced
	idxWardsKilled
	idxDamageDealt
	idxDamageTaken
	idxTotalMinions
	idxNeutralMinions
	idxTurrets
	idxInhibitors
	idxGameDuration
)

// Rule tags a metric when it crosses a high or low threshold. The mid-range
// contributes nothing. An empty tag disables that side.
type Rule struct {
	Name  string
	Value func(v []float64, minutes float64) float64

	High    float64
	HighTag string

	Low    float64
	LowTag string

	// LowExact fires the low tag only on exact equality (the "==0" rules);
	// LowStrict fires strictly below the threshold instead of at-or-below.
	LowExact  bool
	LowStrict bool
}

func at(i int) func([]float64, float64) float64 {
	return func(v []float64, _ float64) float64 { return v[i] }
}

func perMin(i int) func([]float64, float64) float64 {
	return func(v []float64, minutes float64) float64 {
		if minutes < 1 {
			minutes = 1
		}
		return v[i] / minutes
	}
}

// PerMinuteRules is the canonical rule table: rate metrics are normalized by
// game length, so the same thresholds hold for a 20-minute stomp and a
// 45-minute slugfest.
var PerMinuteRules = []Rule{
	{Name: "gameDuration", Value: at(idxGameDuration),
		High: 2700, HighTag: "very long game", Low: 1200, LowTag: "short stomp"},
	{Name: "killsPerMin", Value: perMin(idxKills),
		High: 0.3, HighTag: "carry performance", Low: 0.1, LowTag: "low kill participation"},
	{Name: "deathsPerMin", Value: perMin(idxDeaths),
		High: 0.3, HighTag: "frequent deaths", Low: 0.07, LowTag: "very low deaths"},
	{Name: "assistsPerMin", Value: perMin(idxAssists),
		High: 0.5, HighTag: "heavy team support", Low: 0.1, LowTag: "low team involvement"},
	{Name: "kda", Value: at(idxKDA),
		High: 5, HighTag: "high KDA (clean execution)", Low: 1.5, LowTag: "low KDA (high risk or feeding)"},
	{Name: "goldPerMin", Value: perMin(idxGoldEarned),
		High: 500, HighTag: "gold fed", Low: 233, LowTag: "gold-starved"},
	{Name: "spendEfficiency", Value: spendGap,
		Low: 0, LowTag: "inefficient spending", LowStrict: true},
	{Name: "csPerMin", Value: at(idxCSPerMin),
		High: 8.5, HighTag: "elite farming", Low: 4.5, LowTag: "low CS rate"},
	{Name: "totalCS", Value: totalCS,
		High: 300, HighTag: "farm-heavy role (mid/ADC)", Low: 80, LowTag: "low minion control"},
	{Name: "damagePerMin", Value: perMin(idxDamageDealt),
		High: 2000, HighTag: "very high damage", Low: 500, LowTag: "low damage output"},
	{Name: "damageTakenPerMin", Value: perMin(idxDamageTaken),
		High: 1333, HighTag: "frontline tanking", Low: 333, LowTag: "avoids frontline or squishy"},
	{Name: "visionScore", Value: at(idxVisionScore),
		High: 50, HighTag: "excellent map awareness", Low: 15, LowTag: "poor vision control"},
	{Name: "wardsPlaced", Value: at(idxWardsPlaced),
		High: 30, HighTag: "vision-focused role (support)", Low: 5, LowTag: "no warding"},
	{Name: "wardsKilled", Value: at(idxWardsKilled),
		High: 7, HighTag: "vision denial expert", Low: 1, LowTag: "poor enemy vision control"},
	{Name: "turretTakedowns", Value: at(idxTurrets),
		High: 5, HighTag: "strong objective pressure", Low: 0, LowTag: "no turret participation", LowExact: true},
	{Name: "inhibitorTakedowns", Value: at(idxInhibitors),
		High: 2, HighTag: "closes games", Low: 0, LowTag: "never reached inhib", LowExact: true},
}

// AbsoluteRules is the legacy raw-count table. Thresholds assume a roughly
// average game length, which is why the per-minute table replaced it.
var AbsoluteRules = []Rule{
	{Name: "kills", Value: at(idxKills),
		High: 10, HighTag: "carry performance", Low: 2, LowTag: "low kill participation"},
	{Name: "deaths", Value: at(idxDeaths),
		High: 10, HighTag: "frequent deaths", Low: 2, LowTag: "very low deaths"},
	{Name: "assists", Value: at(idxAssists),
		High: 15, HighTag: "heavy team support", Low: 3, LowTag: "low team involvement"},
	{Name: "kda", Value: at(idxKDA),
		High: 5, HighTag: "high KDA (clean execution)", Low: 1.5, LowTag: "low KDA (high risk or feeding)"},
	{Name: "goldEarned", Value: at(idxGoldEarned),
		High: 15000, HighTag: "gold fed", Low: 7000, LowTag: "gold-starved"},
	{Name: "spendEfficiency", Value: spendGap,
		Low: 0, LowTag: "inefficient spending", LowStrict: true},
	{Name: "csPerMin", Value: at(idxCSPerMin),
		High: 8.5, HighTag: "elite farming", Low: 4.5, LowTag: "low CS rate"},
	{Name: "totalCS", Value: totalCS,
		High: 300, HighTag: "farm-heavy role (mid/ADC)", Low: 80, LowTag: "low minion control"},
	{Name: "damageDealtToChampions", Value: at(idxDamageDealt),
		High: 35000, HighTag: "very high damage", Low: 10000, LowTag: "low damage output"},
	{Name: "totalDamageTaken", Value: at(idxDamageTaken),
		High: 40000, HighTag: "frontline tanking", Low: 10000, LowTag: "avoids frontline or squishy"},
	{Name: "visionScore", Value: at(idxVisionScore),
		High: 50, HighTag: "excellent map awareness", Low: 15, LowTag: "poor vision control"},
	{Name: "wardsPlaced", Value: at(idxWardsPlaced),
		High: 30, HighTag: "vision-focused role (support)", Low: 5, LowTag: "no warding"},
	{Name: "wardsKilled", Value: at(idxWardsKilled),
		High: 7, HighTag: "vision denial expert", Low: 1, LowTag: "poor enemy vision control"},
	{Name: "turretTakedowns", Value: at(idxTurrets),
		High: 5, HighTag: "strong objective pressure", Low: 0, LowTag: "no turret participation", LowExact: true},
	{Name: "inhibitorTakedowns", Value: at(idxInhibitors),
		High: 2, HighTag: "closes games", Low: 0, LowTag: "never reached inhib", LowExact: true},
	{Name: "gameDuration", Value: at(idxGameDuration),
		High: 2200, HighTag: "very long game", Low: 1500, LowTag: "short stomp"},
}

// spent falling short of 80% of earnings reads as sitting on gold.
func spendGap(v []float64, _ float64) float64 {
	return v[idxGoldSpent] - v[idxGoldEarned]*0.8
}

func totalCS(v []float64, _ float64) float64 {
	return v[idxTotalMinions] + v[idxNeutralMinions]
}

// Describe evaluates the canonical per-minute table against one feature
// vector in model.FeatureColumns order.
func Describe(v []float64) string {
	minutes := v[idxGameDuration] / 60.0
	if minutes == 0 {
		return InvalidDuration
	}
	return apply(PerMinuteRules, v, minutes)
}

// DescribeAbsolute evaluates the legacy raw-count table.
func DescribeAbsolute(v []float64) string {
	return apply(AbsoluteRules, v, v[idxGameDuration]/60.0)
}

// DescribeRow is Describe over a match row.
func DescribeRow(r *model.MatchRow) string {
	return Describe(r.FeatureVector())
}

func apply(rules []Rule, v []float64, minutes float64) string {
	var tags []string
	for _, r := range rules {
		val := r.Value(v, minutes)
		switch {
		case r.HighTag != "" && val >= r.High:
			tags = append(tags, r.HighTag)
		case r.LowTag != "" && lowHit(r, val):
			tags = append(tags, r.LowTag)
		}
	}
	return strings.Join(tags, ", ")
}

func lowHit(r Rule, val float64) bool {
	switch {
	case r.LowExact:
		return val == r.Low
	case r.LowStrict:
		return val < r.Low
	default:
		return val <= r.Low
	}
}
