package crawler

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/riftcoach/riftcoach/internal/model"
	"github.com/riftcoach/riftcoach/internal/riot"
	"github.com/riftcoach/riftcoach/internal/storage"
)

type fakeAPI struct {
	leagues map[string][]string // "platform/tier" -> puuids
	fail    map[string]error    // "platform/tier" -> discovery error

	resolveCalls int
	cacheCalls   int
	matchCalls   int
}

func (f *fakeAPI) LeaguePUUIDs(platform, tier string) ([]string, error) {
	key := platform + "/" + tier
	if err, ok := f.fail[key]; ok {
		return nil, err
	}
	return f.leagues[key], nil
}

func (f *fakeAPI) AccountByPUUID(routing, puuid string) (*riot.Account, error) {
	f.resolveCalls++
	return &riot.Account{PUUID: puuid, GameName: "name-" + puuid, TagLine: "TAG"}, nil
}

func (f *fakeAPI) AccountByRiotID(routing, gameName, tagLine string) (*riot.Account, error) {
	f.cacheCalls++
	return &riot.Account{PUUID: gameName[len("name-"):], GameName: gameName, TagLine: tagLine}, nil
}

func (f *fakeAPI) MatchIDs(routing, puuid string, count int) ([]string, error) {
	return []string{"M1_" + puuid, "M2_" + puuid}, nil
}

func (f *fakeAPI) Match(routing, matchID string) (*riot.MatchDetail, error) {
	f.matchCalls++
	puuid := matchID[len("Mx_"):]
	d := &riot.MatchDetail{}
	d.Metadata.MatchID = matchID
	d.Info.GameDuration = 1800
	d.Info.QueueID = 420
	d.Info.Participants = []riot.Participant{{PUUID: puuid, Kills: 4, TotalMinionsKilled: 120}}
	return d, nil
}

type fakeStore struct {
	players map[string]storage.PlayerRecord
	matches map[string]model.MatchRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players: make(map[string]storage.PlayerRecord),
		matches: make(map[string]model.MatchRow),
	}
}

func (s *fakeStore) PlayerExists(puuid string) (bool, error) {
	_, ok := s.players[puuid]
	return ok, nil
}

func (s *fakeStore) UpsertPlayer(p storage.PlayerRecord) error {
	s.players[p.PUUID] = p
	return nil
}

func (s *fakeStore) MatchExists(puuid, matchID string) (bool, error) {
	_, ok := s.matches[puuid+"/"+matchID]
	return ok, nil
}

func (s *fakeStore) InsertMatchRows(rows []model.MatchRow) error {
	for _, r := range rows {
		s.matches[r.PUUID+"/"+r.MatchID] = r
	}
	return nil
}

func testCrawler(api RiotAPI, store Store) (*Crawler, *[]time.Duration) {
	c := New(api, store)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.logw = io.Discard
	var sleeps []time.Duration
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestRunCachesDiscoveredPlayers(t *testing.T) {
	api := &fakeAPI{leagues: map[string][]string{
		"na1/GOLD":   {"p1", "p2"},
		"na1/SILVER": {"p2", "p3"}, // p2 repeats across tiers
	}}
	store := newFakeStore()
	c, _ := testCrawler(api, store)

	sum, err := c.Run(context.Background(), []string{"na1"}, []string{"GOLD", "SILVER"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Discovered != 3 {
		t.Fatalf("discovered %d, want 3 after dedupe", sum.Discovered)
	}
	if sum.Cached != 3 || sum.Skipped != 0 || sum.Failed != 0 {
		t.Fatalf("summary %+v", sum)
	}
	if len(store.players) != 3 {
		t.Fatalf("stored %d players, want 3", len(store.players))
	}
	if sum.Matches != 6 {
		t.Fatalf("inserted %d match rows, want 6", sum.Matches)
	}
}

func TestRerunSkipsIngested(t *testing.T) {
	api := &fakeAPI{leagues: map[string][]string{"na1/GOLD": {"p1", "p2"}}}
	store := newFakeStore()
	c, _ := testCrawler(api, store)

	if _, err := c.Run(context.Background(), []string{"na1"}, []string{"GOLD"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstCacheCalls := api.cacheCalls

	sum, err := c.Run(context.Background(), []string{"na1"}, []string{"GOLD"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.Skipped != 2 || sum.Cached != 0 {
		t.Fatalf("second run summary %+v", sum)
	}
	if api.cacheCalls != firstCacheCalls {
		t.Fatalf("second run triggered %d extra cache calls", api.cacheCalls-firstCacheCalls)
	}
}

func TestDiscoveryFailureSkipsTierRegion(t *testing.T) {
	api := &fakeAPI{
		leagues: map[string][]string{"na1/GOLD": {"p1"}},
		fail:    map[string]error{"euw1/GOLD": fmt.Errorf("boom")},
	}
	store := newFakeStore()
	c, _ := testCrawler(api, store)

	sum, err := c.Run(context.Background(), []string{"na1", "euw1"}, []string{"GOLD"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Discovered != 1 || sum.Cached != 1 {
		t.Fatalf("summary %+v", sum)
	}
}

func TestBatchPauseEvery95(t *testing.T) {
	puuids := make([]string, 96)
	for i := range puuids {
		puuids[i] = fmt.Sprintf("p%03d", i)
	}
	api := &fakeAPI{leagues: map[string][]string{"na1/IRON": puuids}}
	store := newFakeStore()
	c, sleeps := testCrawler(api, store)

	if _, err := c.Run(context.Background(), []string{"na1"}, []string{"IRON"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var pauses int
	for _, d := range *sleeps {
		if d == batchPause {
			pauses++
		}
	}
	if pauses != 1 {
		t.Fatalf("got %d batch pauses for 96 identifiers, want 1", pauses)
	}
}

func TestUnknownPlatformRejected(t *testing.T) {
	c, _ := testCrawler(&fakeAPI{}, newFakeStore())
	if _, err := c.Run(context.Background(), []string{"xx9"}, []string{"GOLD"}); err == nil {
		t.Fatalf("expected error for unknown platform")
	}
}

func TestCacheIdentitySkipsCachedMatches(t *testing.T) {
	api := &fakeAPI{}
	store := newFakeStore()
	c, _ := testCrawler(api, store)

	if _, err := c.CacheIdentity(context.Background(), "name-p1", "TAG", "na1"); err != nil {
		t.Fatalf("CacheIdentity: %v", err)
	}
	fetched := api.matchCalls

	n, err := c.CacheIdentity(context.Background(), "name-p1", "TAG", "na1")
	if err != nil {
		t.Fatalf("CacheIdentity rerun: %v", err)
	}
	if n != 0 {
		t.Fatalf("rerun inserted %d rows, want 0", n)
	}
	if api.matchCalls != fetched {
		t.Fatalf("rerun refetched %d match details", api.matchCalls-fetched)
	}
}
