package nba

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"nbacorpus/logger"
	"nbacorpus/season"
	"nbacorpus/utils"
)

type CommonAllPlayer struct {
	PersonID         *float64
	DisplayLastFirst *string
	DisplayFirstLast *string
	RosterStatus     *float64
	FromYear         *string
	ToYear           *string
	PlayerCode       *string
	PlayerSlug       *string
	TeamID           *float64
	TeamCity         *string
	TeamName         *string
	TeamAbbreviation *string
}

// Player is a search hit.
type Player struct {
	ID       int
	Name     string
	IsActive bool
}

// CommonAllPlayers returns every player in league history. The list is
// reused until the players TTL expires.
func (c *Client) CommonAllPlayers(ctx context.Context) ([]CommonAllPlayer, error) {
	c.playersMu.RLock()
	if c.players != nil && c.now().Sub(c.playersAt) < c.playersTTL {
		players := c.players
		c.playersMu.RUnlock()
		return players, nil
	}
	c.playersMu.RUnlock()

	resp, err := c.get(ctx, "commonallplayers", map[string]string{
		"LeagueID":            c.leagueID,
		"Season":              season.Current(c.now()),
		"IsOnlyCurrentSeason": "0",
	})
	if err != nil {
		return nil, err
	}
	if len(resp.ResultSets) == 0 {
		return nil, utils.ErrorWithTrace(ErrMalformedResponse)
	}

	players := make([]CommonAllPlayer, len(resp.ResultSets[0].RowSet))
	for i, raw := range resp.ResultSets[0].RowSet {
		players[i] = CommonAllPlayer{
			PersonID:         maybe[float64](at(raw, 0)),
			DisplayLastFirst: maybe[string](at(raw, 1)),
			DisplayFirstLast: maybe[string](at(raw, 2)),
			RosterStatus:     maybe[float64](at(raw, 3)),
			FromYear:         maybe[string](at(raw, 4)),
			ToYear:           maybe[string](at(raw, 5)),
			PlayerCode:       maybe[string](at(raw, 6)),
			PlayerSlug:       maybe[string](at(raw, 7)),
			TeamID:           maybe[float64](at(raw, 8)),
			TeamCity:         maybe[string](at(raw, 9)),
			TeamName:         maybe[string](at(raw, 10)),
			TeamAbbreviation: maybe[string](at(raw, 11)),
		}
	}

	c.playersMu.Lock()
	c.players = players
	c.playersAt = c.now()
	c.playersMu.Unlock()
	return players, nil
}

func at(raw []interface{}, i int) interface{} {
	if i < len(raw) {
		return raw[i]
	}
	return nil
}

// SearchPlayers finds players whose full name contains name, ignoring case
// and accents. Hits are ordered by Jaro-Winkler similarity to name, best
// first.
func (c *Client) SearchPlayers(ctx context.Context, name string) ([]Player, error) {
	query := foldName(name)
	if query == "" {
		return nil, nil
	}
	all, err := c.CommonAllPlayers(ctx)
	if err != nil {
		return nil, err
	}

	type hit struct {
		player Player
		score  float64
	}
	hits := []hit{}
	for _, p := range all {
		if p.PersonID == nil || p.DisplayFirstLast == nil {
			continue
		}
		folded := foldName(*p.DisplayFirstLast)
		if !strings.Contains(folded, query) {
			continue
		}
		hits = append(hits, hit{
			player: Player{
				ID:       int(*p.PersonID),
				Name:     *p.DisplayFirstLast,
				IsActive: p.RosterStatus != nil && *p.RosterStatus == 1,
			},
			score: matchr.JaroWinkler(query, folded, false),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]Player, len(hits))
	for i, h := range hits {
		out[i] = h.player
	}
	return out, nil
}

// PlayerCacheJanitor drops the cached players list once it expires so a
// long-running process does not keep stale rosters around.
func (c *Client) PlayerCacheJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.playersMu.Lock()
			if c.players != nil && c.now().Sub(c.playersAt) >= c.playersTTL {
				c.log.Info(ctx, "clearing cached players list", logger.Duration("age", c.now().Sub(c.playersAt)))
				c.players = nil
			}
			c.playersMu.Unlock()
		}
	}
}

func foldName(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
