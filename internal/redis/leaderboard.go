package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Board names a leaderboard.
type Board string

const (
	BoardPvP     Board = "pvp"
	BoardMonster Board = "monster"
	BoardDeaths  Board = "deaths"
)

// LeaderboardEntry represents a player's position and stats on the leaderboard
type LeaderboardEntry struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      float64 `json:"score"`
	Rank       int64   `json:"rank"`
}

const (
	// Leaderboard keys
	leaderboardPvPKey     = "leaderboard:pvp"
	leaderboardMonsterKey = "leaderboard:monster"
	leaderboardDeathsKey  = "leaderboard:deaths"
	leaderboardNamesKey   = "leaderboard:names"
)

func boardKey(b Board) (string, error) {
	switch b {
	case BoardPvP:
		return leaderboardPvPKey, nil
	case BoardMonster:
		return leaderboardMonsterKey, nil
	case BoardDeaths:
		return leaderboardDeathsKey, nil
	}
	return "", fmt.Errorf("unknown leaderboard %q", b)
}

// RecordMonsterKill increments the monster kills for a player
func (c *Client) RecordMonsterKill(ctx context.Context, playerID, name string) error {
	pipe := c.Pipeline()
	pipe.ZIncrBy(ctx, leaderboardMonsterKey, 1, playerID)
	pipe.HSet(ctx, leaderboardNamesKey, playerID, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record monster kill: %w", err)
	}
	return nil
}

// RecordDeath increments the deaths for a player
func (c *Client) RecordDeath(ctx context.Context, playerID, name string) error {
	pipe := c.Pipeline()
	pipe.ZIncrBy(ctx, leaderboardDeathsKey, 1, playerID)
	pipe.HSet(ctx, leaderboardNamesKey, playerID, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record death: %w", err)
	}
	return nil
}

// RecordDuel updates both the winner's PvP wins and the loser's deaths
func (c *Client) RecordDuel(ctx context.Context, winnerID, winnerName, loserID, loserName string) error {
	pipe := c.Pipeline()

	// Increment winner's PvP wins
	pipe.ZIncrBy(ctx, leaderboardPvPKey, 1, winnerID)
	// Increment loser's deaths
	pipe.ZIncrBy(ctx, leaderboardDeathsKey, 1, loserID)
	pipe.HSet(ctx, leaderboardNamesKey, winnerID, winnerName, loserID, loserName)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record duel: %w", err)
	}
	return nil
}

// Top returns the top N players of a board, highest score first
func (c *Client) Top(ctx context.Context, board Board, limit int64) ([]LeaderboardEntry, error) {
	key, err := boardKey(board)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	players, err := c.ZRevRangeWithScores(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get top %s players: %w", board, err)
	}
	if len(players) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]string, len(players))
	for i, z := range players {
		ids[i] = fmt.Sprint(z.Member)
	}
	names, err := c.HMGet(ctx, leaderboardNamesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player names: %w", err)
	}

	entries := make([]LeaderboardEntry, len(players))
	for i, z := range players {
		entries[i] = LeaderboardEntry{PlayerID: ids[i], Score: z.Score, Rank: int64(i) + 1}
		if name, ok := names[i].(string); ok {
			entries[i].PlayerName = name
		}
	}
	return entries, nil
}

// Rank returns the 1-based rank and score of a player on a board
func (c *Client) Rank(ctx context.Context, board Board, playerID string) (*LeaderboardEntry, error) {
	key, err := boardKey(board)
	if err != nil {
		return nil, err
	}

	score, err := c.ZScore(ctx, key, playerID).Result()
	if err != nil {
		return nil, fmt.Errorf("player not found in leaderboard: %w", err)
	}

	// ZRevRank returns 0-based rank, so add 1 for 1-based ranking
	rank, err := c.ZRevRank(ctx, key, playerID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}

	name, err := c.HGet(ctx, leaderboardNamesKey, playerID).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get player name: %w", err)
	}

	return &LeaderboardEntry{PlayerID: playerID, PlayerName: name, Score: score, Rank: rank + 1}, nil
}

// RemovePlayer removes a player from all leaderboards
func (c *Client) RemovePlayer(ctx context.Context, playerID string) error {
	pipe := c.Pipeline()

	pipe.ZRem(ctx, leaderboardPvPKey, playerID)
	pipe.ZRem(ctx, leaderboardMonsterKey, playerID)
	pipe.ZRem(ctx, leaderboardDeathsKey, playerID)
	pipe.HDel(ctx, leaderboardNamesKey, playerID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove player from leaderboards: %w", err)
	}
	return nil
}

// ClearAllLeaderboards removes all leaderboard data (use with caution)
func (c *Client) ClearAllLeaderboards(ctx context.Context) error {
	pipe := c.Pipeline()

	pipe.Del(ctx, leaderboardPvPKey)
	pipe.Del(ctx, leaderboardMonsterKey)
	pipe.Del(ctx, leaderboardDeathsKey)
	pipe.Del(ctx, leaderboardNamesKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear leaderboards: %w", err)
	}
	return nil
}
