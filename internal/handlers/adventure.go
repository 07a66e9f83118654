package handlers

import (
	"net/http"

	"github.com/omega-realm/arena/internal/combat"
	"github.com/omega-realm/arena/internal/game"
)

// GameHandler exposes player actions on the game service
type GameHandler struct {
	svc *game.Service
}

func NewGameHandler(svc *game.Service) *GameHandler {
	return &GameHandler{svc: svc}
}

// ActionRequest carries a combat command name
type ActionRequest struct {
	Action string `json:"action"`
}

// Adventure rolls a new adventure event, or returns the open encounter on GET
func (h *GameHandler) Adventure(w http.ResponseWriter, r *http.Request) {
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		enc, err := h.svc.ActiveEncounter(r.Context(), playerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"encounter": enc})
	case http.MethodPost:
		res, err := h.svc.StartAdventure(r.Context(), playerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// AdventureAction resolves one combat action against the open encounter
func (h *GameHandler) AdventureAction(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req ActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	action, err := combat.ParseAction(req.Action)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.ResolveSoloAction(r.Context(), playerID, action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
