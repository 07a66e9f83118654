package handlers

import (
	"net/http"
	"strings"

	"github.com/omega-realm/arena/internal/game"
	"github.com/omega-realm/arena/internal/models"
)

// NewQuestRequest starts a fixed quest, or a generated one when empty
type NewQuestRequest struct {
	TemplateID string `json:"template_id"`
}

// CasinoRequest is a single bet
type CasinoRequest struct {
	Game string `json:"game"`
	Bet  int    `json:"bet"`
}

// ClanRequest drives the clan commands
type ClanRequest struct {
	Action string `json:"action"`
	Name   string `json:"name"`
}

// Quests lists the caller's quests
func (h *GameHandler) Quests(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	list, err := h.svc.ListQuests(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quests": list})
}

// NewQuest starts a quest for the caller
func (h *GameHandler) NewQuest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req NewQuestRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	var (
		q   *models.Quest
		err error
	)
	if id := strings.TrimSpace(req.TemplateID); id != "" {
		q, err = h.svc.StartQuest(r.Context(), playerID, id)
	} else {
		q, err = h.svc.StartRandomQuest(r.Context(), playerID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"quest": q})
}

// CasinoGames lists the available games
func CasinoGames(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": game.CasinoGames()})
}

// Casino places a bet
func (h *GameHandler) Casino(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req CasinoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.PlayCasino(r.Context(), playerID, req.Game, req.Bet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": res,
		"text":   res.String(),
	})
}

// Daily claims the daily reward
func (h *GameHandler) Daily(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	res, err := h.svc.ClaimDaily(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Clans handles create, join and leave. GET looks a clan up by name.
func (h *GameHandler) Clans(w http.ResponseWriter, r *http.Request) {
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		clan, err := h.svc.GetClan(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, clan)
		return
	}
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req ClanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch strings.ToLower(req.Action) {
	case "create":
		res, err := h.svc.CreateClan(r.Context(), playerID, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	case "join":
		clan, err := h.svc.JoinClan(r.Context(), playerID, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, clan)
	case "leave":
		if err := h.svc.LeaveClan(r.Context(), playerID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Left clan"})
	default:
		writeErrorMessage(w, http.StatusBadRequest, "action must be one of create, join, leave")
	}
}
