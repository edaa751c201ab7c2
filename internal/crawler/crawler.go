// Package crawler discovers ranked players across tiers and regions, resolves
// their identities, and caches their recent ranked matches. Item-level
// failures are logged and skipped so a long crawl always makes progress;
// rerunning converges on the already-ingested state.
package crawler

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/riftcoach/riftcoach/internal/model"
	"github.com/riftcoach/riftcoach/internal/riot"
	"github.com/riftcoach/riftcoach/internal/storage"
)

const (
	// DefaultMatchesPerPlayer is how many recent ranked matches are cached
	// per newly discovered player.
	DefaultMatchesPerPlayer = 20

	// identSpacing is the unconditional delay between successive
	// identifiers; batchSize/batchPause add a long sleep every batch to
	// stay under the upstream's rolling rate window.
	identSpacing = 500 * time.Millisecond
	batchSize    = 95
	batchPause   = 60 * time.Second
)

// RiotAPI is the slice of the Riot client the crawler needs.
type RiotAPI interface {
	LeaguePUUIDs(platform, tier string) ([]string, error)
	AccountByPUUID(routing, puuid string) (*riot.Account, error)
	AccountByRiotID(routing, gameName, tagLine string) (*riot.Account, error)
	MatchIDs(routing, puuid string, count int) ([]string, error)
	Match(routing, matchID string) (*riot.MatchDetail, error)
}

// Store is the persistence surface the crawler writes through.
type Store interface {
	PlayerExists(puuid string) (bool, error)
	UpsertPlayer(p storage.PlayerRecord) error
	MatchExists(puuid, matchID string) (bool, error)
	InsertMatchRows(rows []model.MatchRow) error
}

// Summary reports what one crawl run did.
type Summary struct {
	Discovered int // unique (puuid, region) pairs found
	Skipped    int // already ingested
	Cached     int // newly resolved and cached
	Failed     int // permanent per-item failures
	Matches    int // match rows inserted
}

type Crawler struct {
	api   RiotAPI
	store Store

	limiter *rate.Limiter
	sleep   func(time.Duration)
	logw    io.Writer

	MatchesPerPlayer int
}

func New(api RiotAPI, store Store) *Crawler {
	return &Crawler{
		api:              api,
		store:            store,
		limiter:          rate.NewLimiter(rate.Every(identSpacing), 1),
		sleep:            time.Sleep,
		logw:             os.Stderr,
		MatchesPerPlayer: DefaultMatchesPerPlayer,
	}
}

type ident struct {
	puuid    string
	platform string
}

// Run crawls the given platform regions and ranked tiers. Discovery failures
// for one (tier, region) never abort the run; neither do per-identifier
// failures downstream.
func (c *Crawler) Run(ctx context.Context, platforms, tiers []string) (*Summary, error) {
	seen := make(map[ident]struct{})
	var order []ident
	for _, platform := range platforms {
		if _, err := riot.RoutingRegion(platform); err != nil {
			return nil, err
		}
		for _, tier := range tiers {
			puuids, err := c.api.LeaguePUUIDs(platform, tier)
			if err != nil {
				fmt.Fprintf(c.logw, "[skip] discovery %s/%s: %v\n", platform, tier, err)
				continue
			}
			for _, puuid := range puuids {
				id := ident{puuid: puuid, platform: platform}
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				order = append(order, id)
			}
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].platform != order[j].platform {
			return order[i].platform < order[j].platform
		}
		return order[i].puuid < order[j].puuid
	})

	sum := &Summary{Discovered: len(order)}
	processed := 0
	for _, id := range order {
		if err := c.limiter.Wait(ctx); err != nil {
			return sum, err
		}

		if err := c.processOne(ctx, id, sum); err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			fmt.Fprintf(c.logw, "[error] %s (%s): %v\n", id.puuid, id.platform, err)
			sum.Failed++
			continue
		}

		// the long pause counts skips too: the existence check itself
		// consumed upstream quota
		processed++
		if processed%batchSize == 0 {
			fmt.Fprintf(c.logw, "[throttle] %d identifiers processed, pausing %s\n", processed, batchPause)
			c.sleep(batchPause)
		}
	}
	return sum, nil
}

func (c *Crawler) processOne(ctx context.Context, id ident, sum *Summary) error {
	exists, err := c.store.PlayerExists(id.puuid)
	if err != nil {
		return fmt.Errorf("existence check: %w", err)
	}
	if exists {
		fmt.Fprintf(c.logw, "[skip] %s already ingested\n", id.puuid)
		sum.Skipped++
		return nil
	}

	routing, err := riot.RoutingRegion(id.platform)
	if err != nil {
		return err
	}
	account, err := c.api.AccountByPUUID(routing, id.puuid)
	if err != nil {
		return fmt.Errorf("resolve identity: %w", err)
	}

	inserted, err := c.CacheIdentity(ctx, account.GameName, account.TagLine, id.platform)
	if err != nil {
		return err
	}
	sum.Cached++
	sum.Matches += inserted
	return nil
}

// CacheIdentity resolves a (gameName, tagLine) identity to its canonical
// puuid, records the player, and caches their recent ranked matches. Returns
// the number of match rows inserted. Also the entry point for caching a
// single player on demand.
func (c *Crawler) CacheIdentity(ctx context.Context, gameName, tagLine, platform string) (int, error) {
	routing, err := riot.RoutingRegion(platform)
	if err != nil {
		return 0, err
	}
	account, err := c.api.AccountByRiotID(routing, gameName, tagLine)
	if err != nil {
		return 0, fmt.Errorf("resolve %s#%s: %w", gameName, tagLine, err)
	}

	err = c.store.UpsertPlayer(storage.PlayerRecord{
		PUUID:          account.PUUID,
		GameName:       account.GameName,
		TagLine:        account.TagLine,
		PlatformRegion: platform,
	})
	if err != nil {
		return 0, fmt.Errorf("record player: %w", err)
	}

	ids, err := c.api.MatchIDs(routing, account.PUUID, c.MatchesPerPlayer)
	if err != nil {
		return 0, fmt.Errorf("list matches: %w", err)
	}

	inserted := 0
	for _, matchID := range ids {
		if ctx.Err() != nil {
			return inserted, ctx.Err()
		}
		cached, err := c.store.MatchExists(account.PUUID, matchID)
		if err != nil {
			return inserted, fmt.Errorf("match existence check: %w", err)
		}
		if cached {
			continue
		}
		detail, err := c.api.Match(routing, matchID)
		if err != nil {
			fmt.Fprintf(c.logw, "[error] match %s: %v\n", matchID, err)
			continue
		}
		row, ok := detail.RowFor(account.PUUID)
		if !ok {
			fmt.Fprintf(c.logw, "[skip] match %s has no participant %s\n", matchID, account.PUUID)
			continue
		}
		if err := c.store.InsertMatchRows([]model.MatchRow{row}); err != nil {
			return inserted, fmt.Errorf("insert match %s: %w", matchID, err)
		}
		inserted++
	}
	return inserted, nil
}
