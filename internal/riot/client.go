// Package riot provides a minimal client for the Riot account, league and
// match APIs, with capped exponential backoff on rate limits.
package riot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riftcoach/riftcoach/internal/model"
)

const (
	// backoffStart is the first retry delay after a 429 response.
	backoffStart = 1 * time.Second
	// backoffCap bounds the doubling retry delay.
	backoffCap = 16 * time.Second
)

// StatusError is a non-200, non-429 response from a Riot endpoint. It is a
// permanent failure for the item being fetched.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Status)
}

// Client is a minimal Riot API client. Rate-limited (429) responses are
// retried with exponential backoff until a different status arrives.
type Client struct {
	apiKey string
	http   *http.Client

	// base is a format string taking a region subdomain; overridable in tests.
	base string
	// sleep is called for backoff delays; overridable in tests.
	sleep func(time.Duration)
}

// NewClient returns a Riot API client authenticated with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
		base:   "https://%s.api.riotgames.com",
		sleep:  time.Sleep,
	}
}

// get performs an authenticated GET against a regional Riot host and decodes
// the response into out. 429 responses sleep and retry with a doubling,
// capped delay; any other non-200 returns a *StatusError.
func (c *Client) get(region, path string, out interface{}) error {
	delay := backoffStart
	for {
		req, err := http.NewRequest("GET", fmt.Sprintf(c.base, region)+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			c.sleep(delay)
			delay *= 2
			if delay > backoffCap {
				delay = backoffCap
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return &StatusError{Path: path, Status: resp.StatusCode}
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		return err
	}
}

// leagueEntry is one player entry in a league-v4 response.
type leagueEntry struct {
	PUUID string `json:"puuid"`
}

// LeaguePUUIDs returns the puuids competing in ranked solo queue at the given
// tier on a platform region. Apex tiers come from the full league list; all
// other tiers read the first page of division I entries.
func (c *Client) LeaguePUUIDs(platform, tier string) ([]string, error) {
	var entries []leagueEntry
	if league, ok := apexTiers[tier]; ok {
		var resp struct {
			Entries []leagueEntry `json:"entries"`
		}
		path := fmt.Sprintf("/lol/league/v4/%s/by-queue/RANKED_SOLO_5x5", league)
		if err := c.get(platform, path, &resp); err != nil {
			return nil, err
		}
		entries = resp.Entries
	} else {
		path := fmt.Sprintf("/lol/league/v4/entries/RANKED_SOLO_5x5/%s/I?page=1", tier)
		if err := c.get(platform, path, &entries); err != nil {
			return nil, err
		}
	}

	puuids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.PUUID != "" {
			puuids = append(puuids, e.PUUID)
		}
	}
	return puuids, nil
}

// Account is the subset of account-v1 fields we need.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// AccountByPUUID resolves a puuid to its Riot ID on the routing region.
func (c *Client) AccountByPUUID(routing, puuid string) (*Account, error) {
	var a Account
	if err := c.get(routing, "/riot/account/v1/accounts/by-puuid/"+puuid, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AccountByRiotID resolves a (gameName, tagLine) pair on the routing region.
func (c *Client) AccountByRiotID(routing, gameName, tagLine string) (*Account, error) {
	var a Account
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s", gameName, tagLine)
	if err := c.get(routing, path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// MatchIDs returns up to count recent ranked solo-queue match ids for a puuid.
func (c *Client) MatchIDs(routing, puuid string, count int) ([]string, error) {
	var ids []string
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?queue=420&start=0&count=%d", puuid, count)
	if err := c.get(routing, path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Participant is the subset of match-v5 participant fields we cache.
type Participant struct {
	PUUID                  string `json:"puuid"`
	ChampionName           string `json:"championName"`
	TeamPosition           string `json:"teamPosition"`
	Win                    bool   `json:"win"`
	Kills                  int    `json:"kills"`
	Deaths                 int    `json:"deaths"`
	Assists                int    `json:"assists"`
	GoldEarned             int    `json:"goldEarned"`
	GoldSpent              int    `json:"goldSpent"`
	VisionScore            int    `json:"visionScore"`
	WardsPlaced            int    `json:"wardsPlaced"`
	WardsKilled            int    `json:"wardsKilled"`
	DamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	TotalDamageTaken       int    `json:"totalDamageTaken"`
	TotalMinionsKilled     int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled   int    `json:"neutralMinionsKilled"`
	TurretTakedowns        int    `json:"turretTakedowns"`
	InhibitorTakedowns     int    `json:"inhibitorTakedowns"`
}

// MatchDetail holds the fields we need from /lol/match/v5/matches/{id}.
type MatchDetail struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameMode           string        `json:"gameMode"`
		QueueID            int           `json:"queueId"`
		GameDuration       int64         `json:"gameDuration"`
		GameStartTimestamp int64         `json:"gameStartTimestamp"`
		Participants       []Participant `json:"participants"`
	} `json:"info"`
}

// Match returns details for a single match id on the routing region.
func (c *Client) Match(routing, matchID string) (*MatchDetail, error) {
	var m MatchDetail
	if err := c.get(routing, "/lol/match/v5/matches/"+matchID, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// RowFor extracts the MatchRow for one participant, deriving kda and
// csPerMin. Returns false if the puuid did not play in the match.
func (m *MatchDetail) RowFor(puuid string) (model.MatchRow, bool) {
	for _, p := range m.Info.Participants {
		if !strings.EqualFold(p.PUUID, puuid) {
			continue
		}
		totalCS := p.TotalMinionsKilled + p.NeutralMinionsKilled
		return model.MatchRow{
			PUUID:                  p.PUUID,
			MatchID:                m.Metadata.MatchID,
			ChampionName:           p.ChampionName,
			TeamPosition:           p.TeamPosition,
			Win:                    p.Win,
			Kills:                  p.Kills,
			Deaths:                 p.Deaths,
			Assists:                p.Assists,
			GoldEarned:             p.GoldEarned,
			GoldSpent:              p.GoldSpent,
			CSPerMin:               model.DeriveCSPerMin(totalCS, m.Info.GameDuration),
			KDA:                    model.DeriveKDA(p.Kills, p.Deaths, p.Assists),
			VisionScore:            p.VisionScore,
			WardsPlaced:            p.WardsPlaced,
			WardsKilled:            p.WardsKilled,
			DamageDealtToChampions: p.DamageDealtToChampions,
			TotalDamageTaken:       p.TotalDamageTaken,
			GameMode:               m.Info.GameMode,
			QueueID:                m.Info.QueueID,
			GameDuration:           m.Info.GameDuration,
			TotalMinionsKilled:     p.TotalMinionsKilled,
			NeutralMinionsKilled:   p.NeutralMinionsKilled,
			TurretTakedowns:        p.TurretTakedowns,
			InhibitorTakedowns:     p.InhibitorTakedowns,
			GameStartTimestamp:     m.Info.GameStartTimestamp,
		}, true
	}
	return model.MatchRow{}, false
}
