package nba

import (
	"context"
	"strconv"
	"time"

	"nbacorpus/season"
	"nbacorpus/table"
)

type GameLogQuery struct {
	PlayerID   int
	Season     string
	SeasonType season.Type
	// Optional window; zero values are sent empty.
	DateFrom time.Time
	DateTo   time.Time
}

// PlayerGameLog returns one row per game the player appeared in.
func (c *Client) PlayerGameLog(ctx context.Context, q GameLogQuery) (*table.Table, error) {
	resp, err := c.get(ctx, "playergamelog", map[string]string{
		"PlayerID":   strconv.Itoa(q.PlayerID),
		"Season":     q.Season,
		"SeasonType": q.SeasonType.String(),
		"LeagueID":   c.leagueID,
		"DateFrom":   formatDate(q.DateFrom),
		"DateTo":     formatDate(q.DateTo),
	})
	if err != nil {
		return nil, err
	}
	return resp.resultTable("playergamelog", "PlayerGameLog")
}

// CommonPlayerInfo returns the biographical row for a player.
func (c *Client) CommonPlayerInfo(ctx context.Context, playerID int) (*table.Table, error) {
	resp, err := c.get(ctx, "commonplayerinfo", map[string]string{
		"PlayerID": strconv.Itoa(playerID),
		"LeagueID": c.leagueID,
	})
	if err != nil {
		return nil, err
	}
	return resp.resultTable("commonplayerinfo", "CommonPlayerInfo")
}

// LeagueGameFinder returns every team game between from and to, inclusive.
// An empty leagueID falls back to the client's league.
func (c *Client) LeagueGameFinder(ctx context.Context, from, to time.Time, leagueID string) (*table.Table, error) {
	if leagueID == "" {
		leagueID = c.leagueID
	}
	resp, err := c.get(ctx, "leaguegamefinder", map[string]string{
		"PlayerOrTeam": "T",
		"DateFrom":     formatDate(from),
		"DateTo":       formatDate(to),
		"LeagueID":     leagueID,
	})
	if err != nil {
		return nil, err
	}
	return resp.resultTable("leaguegamefinder", "LeagueGameFinderResults")
}
