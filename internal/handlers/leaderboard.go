package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/omega-realm/arena/internal/middleware"
	"github.com/omega-realm/arena/internal/redis"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// Rankings reads the redis leaderboards; *redis.Client satisfies it.
type Rankings interface {
	Top(ctx context.Context, board redis.Board, limit int64) ([]redis.LeaderboardEntry, error)
	Rank(ctx context.Context, board redis.Board, playerID string) (*redis.LeaderboardEntry, error)
}

type LeaderboardHandler struct {
	rankings Rankings
}

// NewLeaderboardHandler accepts a nil Rankings when redis is disabled.
func NewLeaderboardHandler(r Rankings) *LeaderboardHandler {
	return &LeaderboardHandler{rankings: r}
}

// LeaderboardResponse is one board page plus the caller's own position
type LeaderboardResponse struct {
	Board   redis.Board              `json:"board"`
	Entries []redis.LeaderboardEntry `json:"entries"`
	Me      *redis.LeaderboardEntry  `json:"me,omitempty"`
}

func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if h.rankings == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "Leaderboards are disabled")
		return
	}

	q := r.URL.Query()
	board := redis.Board(q.Get("board"))
	switch board {
	case "":
		board = redis.BoardPvP
	case redis.BoardPvP, redis.BoardMonster, redis.BoardDeaths:
	default:
		writeErrorMessage(w, http.StatusBadRequest, "board must be one of pvp, monster, deaths")
		return
	}

	limit := int64(defaultLeaderboardLimit)
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			writeErrorMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	entries, err := h.rankings.Top(r.Context(), board, limit)
	if err != nil {
		log.Printf("[API] Failed to read leaderboard %s: %v", board, err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to read leaderboard")
		return
	}

	resp := LeaderboardResponse{Board: board, Entries: entries}
	if playerID, ok := middleware.PlayerID(r); ok {
		// Unranked players simply get no "me" entry.
		if me, err := h.rankings.Rank(r.Context(), board, playerID); err == nil {
			resp.Me = me
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
