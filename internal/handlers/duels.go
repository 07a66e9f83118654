package handlers

import (
	"net/http"

	"github.com/omega-realm/arena/internal/combat"
)

// DuelChallengeRequest names the player being challenged
type DuelChallengeRequest struct {
	TargetID string `json:"target_id"`
}

// DuelRespondRequest answers a pending challenge
type DuelRespondRequest struct {
	RequestID string `json:"request_id"`
	Accept    bool   `json:"accept"`
}

// DuelCancelRequest withdraws a pending challenge
type DuelCancelRequest struct {
	RequestID string `json:"request_id"`
}

// DuelActionRequest is one move in the caller's active duel
type DuelActionRequest struct {
	Action string `json:"action"`
}

// Challenge creates a duel request
func (h *GameHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req DuelChallengeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TargetID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "target_id is required")
		return
	}

	dr, err := h.svc.CreateDuelRequest(r.Context(), playerID, req.TargetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dr)
}

// Respond accepts or declines a duel request addressed to the caller
func (h *GameHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req DuelRespondRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.RespondToDuelRequest(r.Context(), req.RequestID, playerID, req.Accept)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CancelChallenge withdraws a request the caller made
func (h *GameHandler) CancelChallenge(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req DuelCancelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dr, err := h.svc.CancelDuelRequest(r.Context(), req.RequestID, playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dr)
}

// DuelAction plays a move in the caller's active duel
func (h *GameHandler) DuelAction(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req DuelActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	action, err := combat.ParseAction(req.Action)
	if err != nil {
		writeError(w, err)
		return
	}

	current, err := h.svc.ActiveDuel(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.PerformDuelAction(r.Context(), current.ID, playerID, action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": res,
		"text":   res.Text(),
	})
}

// CurrentDuel returns a snapshot of the caller's active duel
func (h *GameHandler) CurrentDuel(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	view, err := h.svc.ActiveDuel(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
