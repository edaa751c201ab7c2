package storage

import (
	"fmt"
	"time"

	"github.com/riftcoach/riftcoach/internal/model"
)

// PlayerRecord is one crawled identity.
type PlayerRecord struct {
	PUUID          string
	GameName       string
	TagLine        string
	PlatformRegion string
}

// PlayerExists returns true if a player with the given puuid is already stored.
func (db *DB) PlayerExists(puuid string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM players WHERE puuid = ?", puuid).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertPlayer inserts or replaces a player record.
func (db *DB) UpsertPlayer(p PlayerRecord) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO players(puuid, game_name, tag_line, platform_region, ingested_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.PUUID, p.GameName, p.TagLine, p.PlatformRegion,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListPlayers returns all stored player records ordered by puuid.
func (db *DB) ListPlayers() ([]PlayerRecord, error) {
	rows, err := db.conn.Query(`
		SELECT puuid, game_name, tag_line, platform_region
		FROM players ORDER BY puuid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerRecord
	for rows.Next() {
		var p PlayerRecord
		if err := rows.Scan(&p.PUUID, &p.GameName, &p.TagLine, &p.PlatformRegion); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MatchExists returns true if a (puuid, match) row is already cached.
func (db *DB) MatchExists(puuid, matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(1) FROM matches WHERE puuid = ? AND match_id = ?",
		puuid, matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatchRows bulk-inserts match rows in a transaction. Uses INSERT OR
// REPLACE so re-caching the same match is idempotent.
func (db *DB) InsertMatchRows(rowsIn []model.MatchRow) error {
	if len(rowsIn) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			puuid, match_id, champion_name, team_position, win,
			kills, deaths, assists, gold_earned, gold_spent,
			cs_per_min, kda, vision_score, wards_placed, wards_killed,
			damage_dealt_to_champions, total_damage_taken,
			game_mode, queue_id, game_duration,
			total_minions_killed, neutral_minions_killed,
			turret_takedowns, inhibitor_takedowns, game_start_timestamp
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rowsIn {
		_, err = stmt.Exec(
			r.PUUID, r.MatchID, r.ChampionName, r.TeamPosition, boolInt(r.Win),
			r.Kills, r.Deaths, r.Assists, r.GoldEarned, r.GoldSpent,
			r.CSPerMin, r.KDA, r.VisionScore, r.WardsPlaced, r.WardsKilled,
			r.DamageDealtToChampions, r.TotalDamageTaken,
			r.GameMode, r.QueueID, r.GameDuration,
			r.TotalMinionsKilled, r.NeutralMinionsKilled,
			r.TurretTakedowns, r.InhibitorTakedowns, r.GameStartTimestamp,
		)
		if err != nil {
			return fmt.Errorf("insert match %s/%s: %w", r.PUUID, r.MatchID, err)
		}
	}
	return tx.Commit()
}

// CountMatches returns the number of cached match rows.
func (db *DB) CountMatches() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches").Scan(&n)
	return n, err
}

// ExportAllMatchRows returns every cached match row in a stable order. This
// is the bulk export consumed by the dataset builder; failures propagate.
func (db *DB) ExportAllMatchRows() ([]model.MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT puuid, match_id, champion_name, team_position, win,
		       kills, deaths, assists, gold_earned, gold_spent,
		       cs_per_min, kda, vision_score, wards_placed, wards_killed,
		       damage_dealt_to_champions, total_damage_taken,
		       game_mode, queue_id, game_duration,
		       total_minions_killed, neutral_minions_killed,
		       turret_takedowns, inhibitor_takedowns, game_start_timestamp
		FROM matches ORDER BY puuid, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRow
	for rows.Next() {
		var r model.MatchRow
		var winInt int
		if err := rows.Scan(
			&r.PUUID, &r.MatchID, &r.ChampionName, &r.TeamPosition, &winInt,
			&r.Kills, &r.Deaths, &r.Assists, &r.GoldEarned, &r.GoldSpent,
			&r.CSPerMin, &r.KDA, &r.VisionScore, &r.WardsPlaced, &r.WardsKilled,
			&r.DamageDealtToChampions, &r.TotalDamageTaken,
			&r.GameMode, &r.QueueID, &r.GameDuration,
			&r.TotalMinionsKilled, &r.NeutralMinionsKilled,
			&r.TurretTakedowns, &r.InhibitorTakedowns, &r.GameStartTimestamp,
		); err != nil {
			return nil, err
		}
		r.Win = winInt != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// DropAll clears crawled players, cached matches, and persisted artifacts.
func (db *DB) DropAll() error {
	for _, table := range []string{"matches", "players", "model_artifacts"} {
		if _, err := db.conn.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// QueryRaw runs an arbitrary query and returns column names plus all rows
// rendered as strings. Backs the sql inspection command.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				rec[i] = "NULL"
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
