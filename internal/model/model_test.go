package model

import (
	"errors"
	"strings"
	"testing"
)

const fullRequest = `{
	"kills": 12, "deaths": 1, "assists": 2,
	"goldEarned": 6000, "goldSpent": 5000,
	"csPerMin": 9.0, "kda": 6.0,
	"visionScore": 60, "wardsPlaced": 2, "wardsKilled": 0,
	"damageDealtToChampions": 100000, "totalDamageTaken": 100000,
	"totalMinionsKilled": 0, "neutralMinionsKilled": 0,
	"turretTakedowns": 6, "inhibitorTakedowns": 0,
	"gameDuration": 1000,
	"championName": "Zed", "teamPosition": "MIDDLE",
	"playerRank": "DIAMOND IV",
	"buildItemNames": ["Duskblade of Draktharr"]
}`

func TestDecodeScoreRequest(t *testing.T) {
	req, err := DecodeScoreRequest([]byte(fullRequest))
	if err != nil {
		t.Fatalf("DecodeScoreRequest: %v", err)
	}
	if req.Row.Kills != 12 || req.Row.GameDuration != 1000 || req.Row.KDA != 6 {
		t.Fatalf("row: %+v", req.Row)
	}
	if req.ChampionName != "Zed" || req.PlayerRank != "DIAMOND IV" {
		t.Fatalf("context: %+v", req)
	}
	if len(req.BuildItemNames) != 1 {
		t.Fatalf("build items: %v", req.BuildItemNames)
	}
}

func TestDecodeScoreRequestMissingFeature(t *testing.T) {
	for _, col := range FeatureColumns {
		var parts []string
		for _, other := range FeatureColumns {
			if other != col {
				parts = append(parts, `"`+other+`": 1`)
			}
		}
		body := "{" + strings.Join(parts, ",") + "}"
		_, err := DecodeScoreRequest([]byte(body))
		if !errors.Is(err, ErrMissingFeature) {
			t.Fatalf("without %q: got %v, want ErrMissingFeature", col, err)
		}
	}
}

func TestDecodeScoreRequestBadJSON(t *testing.T) {
	if _, err := DecodeScoreRequest([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFeatureVectorOrder(t *testing.T) {
	r := MatchRow{Kills: 1, Deaths: 2, Assists: 3, GoldEarned: 4, GoldSpent: 5,
		CSPerMin: 6, KDA: 7, VisionScore: 8, WardsPlaced: 9, WardsKilled: 10,
		DamageDealtToChampions: 11, TotalDamageTaken: 12, TotalMinionsKilled: 13,
		NeutralMinionsKilled: 14, TurretTakedowns: 15, InhibitorTakedowns: 16,
		GameDuration: 17}
	v := r.FeatureVector()
	if len(v) != FeatureCount {
		t.Fatalf("vector length %d", len(v))
	}
	for i, want := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17} {
		if v[i] != want {
			t.Fatalf("v[%d] (%s) = %v, want %v", i, FeatureColumns[i], v[i], want)
		}
	}
}

func TestDeriveStats(t *testing.T) {
	if got := DeriveKDA(7, 2, 9); got != 8 {
		t.Fatalf("DeriveKDA = %v", got)
	}
	if got := DeriveKDA(3, 0, 4); got != 7 { // zero deaths floor to 1
		t.Fatalf("DeriveKDA zero deaths = %v", got)
	}
	if got := DeriveCSPerMin(240, 1800); got != 8 {
		t.Fatalf("DeriveCSPerMin = %v", got)
	}
	if got := DeriveCSPerMin(100, 0); got != 0 {
		t.Fatalf("DeriveCSPerMin zero duration = %v", got)
	}
}
