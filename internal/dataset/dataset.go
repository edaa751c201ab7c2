// Package dataset flattens cached match rows into the CSV exports the
// training pipeline consumes and emits.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/riftcoach/riftcoach/internal/model"
)

// AllColumns is the fixed bulk-export column order: identity and context
// columns first, the feature columns among them, timestamps last.
var AllColumns = []string{
	"puuid", "matchId", "championName", "teamPosition", "win",
	"kills", "deaths", "assists", "goldEarned", "goldSpent",
	"csPerMin", "kda", "visionScore", "wardsPlaced", "wardsKilled",
	"damageDealtToChampions", "totalDamageTaken",
	"gameMode", "queueId", "gameDuration",
	"totalMinionsKilled", "neutralMinionsKilled", "turretTakedowns", "inhibitorTakedowns",
	"gameStartTimestamp",
}

// DefaultDropColumns are the non-feature context columns removed when
// building the training dataset. puuid and matchId stay: downstream exports
// re-attach them as row identity.
var DefaultDropColumns = []string{
	"championName", "teamPosition", "win", "gameMode", "queueId", "gameStartTimestamp",
}

// Record formats one match row in AllColumns order.
func Record(r *model.MatchRow) []string {
	return []string{
		r.PUUID, r.MatchID, r.ChampionName, r.TeamPosition, strconv.FormatBool(r.Win),
		strconv.Itoa(r.Kills), strconv.Itoa(r.Deaths), strconv.Itoa(r.Assists),
		strconv.Itoa(r.GoldEarned), strconv.Itoa(r.GoldSpent),
		FormatFloat(r.CSPerMin), FormatFloat(r.KDA),
		strconv.Itoa(r.VisionScore), strconv.Itoa(r.WardsPlaced), strconv.Itoa(r.WardsKilled),
		strconv.Itoa(r.DamageDealtToChampions), strconv.Itoa(r.TotalDamageTaken),
		r.GameMode, strconv.Itoa(r.QueueID), strconv.FormatInt(r.GameDuration, 10),
		strconv.Itoa(r.TotalMinionsKilled), strconv.Itoa(r.NeutralMinionsKilled),
		strconv.Itoa(r.TurretTakedowns), strconv.Itoa(r.InhibitorTakedowns),
		strconv.FormatInt(r.GameStartTimestamp, 10),
	}
}

// FormatFloat renders a float without trailing zero padding.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Build turns match rows into a header and records, dropping the named
// columns. Unknown drop names are an error so a typo doesn't silently keep a
// column in the training data.
func Build(rows []model.MatchRow, drop []string) ([]string, [][]string, error) {
	keep := make([]int, 0, len(AllColumns))
	dropSet := make(map[string]bool, len(drop))
	for _, name := range drop {
		dropSet[name] = true
	}
	for i, name := range AllColumns {
		if dropSet[name] {
			delete(dropSet, name)
			continue
		}
		keep = append(keep, i)
	}
	for name := range dropSet {
		return nil, nil, fmt.Errorf("build dataset: unknown column %q", name)
	}

	header := make([]string, len(keep))
	for j, i := range keep {
		header[j] = AllColumns[i]
	}
	records := make([][]string, len(rows))
	for n := range rows {
		full := Record(&rows[n])
		rec := make([]string, len(keep))
		for j, i := range keep {
			rec[j] = full[i]
		}
		records[n] = rec
	}
	return header, records, nil
}

// FeatureMatrix extracts the feature vectors of all rows, in input order.
func FeatureMatrix(rows []model.MatchRow) [][]float64 {
	X := make([][]float64, len(rows))
	for i := range rows {
		X[i] = rows[i].FeatureVector()
	}
	return X
}

// WriteCSV writes a header plus records to path, creating or truncating it.
func WriteCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
