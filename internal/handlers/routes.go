package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/omega-realm/arena/internal/auth"
	"github.com/omega-realm/arena/internal/game"
	"github.com/omega-realm/arena/internal/middleware"
)

// Deps are the collaborators the HTTP surface needs. Rankings may be nil.
type Deps struct {
	Auth     *auth.Manager
	Service  *game.Service
	Hub      *DuelHub
	Rankings Rankings
}

// Register mounts every route on mux.
func Register(mux *http.ServeMux, d Deps) {
	authHandler := NewAuthHandler(d.Auth)
	playerHandler := NewPlayerHandler(d.Service)
	gameHandler := NewGameHandler(d.Service)
	leaderboardHandler := NewLeaderboardHandler(d.Rankings)
	requireAuth := middleware.RequireAuth(d.Auth)

	// Public routes
	mux.HandleFunc("/health", Health)
	mux.HandleFunc("/api/auth/token", authHandler.IssueToken)
	mux.HandleFunc("/api/auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("/api/classes", GetClasses)
	mux.HandleFunc("/api/casino/games", CasinoGames)

	// Protected routes
	mux.HandleFunc("/api/players", requireAuth(playerHandler.Register))
	mux.HandleFunc("/api/players/me", requireAuth(playerHandler.GetMe))
	mux.HandleFunc("/api/players/class", requireAuth(playerHandler.ChooseClass))
	mux.HandleFunc("/api/players/achievements", requireAuth(playerHandler.GetAchievements))

	mux.HandleFunc("/api/adventure", requireAuth(gameHandler.Adventure))
	mux.HandleFunc("/api/adventure/action", requireAuth(gameHandler.AdventureAction))

	mux.HandleFunc("/api/duels/requests", requireAuth(gameHandler.Challenge))
	mux.HandleFunc("/api/duels/requests/respond", requireAuth(gameHandler.Respond))
	mux.HandleFunc("/api/duels/requests/cancel", requireAuth(gameHandler.CancelChallenge))
	mux.HandleFunc("/api/duels/action", requireAuth(gameHandler.DuelAction))
	mux.HandleFunc("/api/duels/current", requireAuth(gameHandler.CurrentDuel))
	if d.Hub != nil {
		mux.HandleFunc("/api/duels/stream", requireAuth(d.Hub.Stream))
	}

	mux.HandleFunc("/api/quests", requireAuth(gameHandler.Quests))
	mux.HandleFunc("/api/quests/new", requireAuth(gameHandler.NewQuest))
	mux.HandleFunc("/api/casino/play", requireAuth(gameHandler.Casino))
	mux.HandleFunc("/api/daily", requireAuth(gameHandler.Daily))
	mux.HandleFunc("/api/clans", requireAuth(gameHandler.Clans))
	mux.HandleFunc("/api/leaderboard", requireAuth(leaderboardHandler.GetLeaderboard))
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}
