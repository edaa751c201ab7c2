package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/riftcoach/riftcoach/internal/model"
)

func sampleRows() []model.MatchRow {
	return []model.MatchRow{
		{
			PUUID: "p1", MatchID: "NA1_100", ChampionName: "Jinx", TeamPosition: "BOTTOM", Win: true,
			Kills: 7, Deaths: 2, Assists: 9, GoldEarned: 12000, GoldSpent: 11500,
			CSPerMin: 8.0, KDA: 8, VisionScore: 22, WardsPlaced: 9, WardsKilled: 3,
			DamageDealtToChampions: 24000, TotalDamageTaken: 15000,
			GameMode: "CLASSIC", QueueID: 420, GameDuration: 1800,
			TotalMinionsKilled: 230, NeutralMinionsKilled: 10,
			TurretTakedowns: 3, InhibitorTakedowns: 1, GameStartTimestamp: 1756700000000,
		},
		{PUUID: "p2", MatchID: "NA1_101", QueueID: 420, GameDuration: 1500},
	}
}

func TestBuildKeepsColumnOrder(t *testing.T) {
	header, records, err := Build(sampleRows(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(header, AllColumns) {
		t.Fatalf("header mismatch: %v", header)
	}
	if len(records) != 2 || len(records[0]) != len(AllColumns) {
		t.Fatalf("records shape %dx%d", len(records), len(records[0]))
	}
	if records[0][0] != "p1" || records[0][1] != "NA1_100" || records[0][5] != "7" {
		t.Fatalf("record values: %v", records[0])
	}
}

func TestBuildDropsContextColumns(t *testing.T) {
	header, records, err := Build(sampleRows(), DefaultDropColumns)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := len(AllColumns) - len(DefaultDropColumns)
	if len(header) != want {
		t.Fatalf("got %d columns, want %d", len(header), want)
	}
	for _, h := range header {
		for _, dropped := range DefaultDropColumns {
			if h == dropped {
				t.Fatalf("column %q not dropped", h)
			}
		}
	}
	// identity columns survive for re-attachment downstream
	if header[0] != "puuid" || header[1] != "matchId" {
		t.Fatalf("identity columns missing: %v", header[:2])
	}
	if len(records[0]) != want {
		t.Fatalf("record width %d, want %d", len(records[0]), want)
	}
}

func TestBuildRejectsUnknownDrop(t *testing.T) {
	if _, _, err := Build(sampleRows(), []string{"nonesuch"}); err == nil {
		t.Fatalf("expected error for unknown drop column")
	}
}

func TestFeatureMatrixShape(t *testing.T) {
	X := FeatureMatrix(sampleRows())
	if len(X) != 2 || len(X[0]) != model.FeatureCount {
		t.Fatalf("matrix shape %dx%d", len(X), len(X[0]))
	}
	if X[0][0] != 7 { // kills
		t.Fatalf("kills = %v", X[0][0])
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	header, records, err := Build(sampleRows(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := WriteCSV(path, header, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(all) != 3 { // header + 2 rows
		t.Fatalf("got %d lines, want 3", len(all))
	}
	if !reflect.DeepEqual(all[0], AllColumns) {
		t.Fatalf("header mismatch: %v", all[0])
	}
	if !reflect.DeepEqual(all[1], records[0]) {
		t.Fatalf("row mismatch: %v", all[1])
	}
}
