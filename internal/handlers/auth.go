package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/omega-realm/arena/internal/auth"
)

type AuthHandler struct {
	auth *auth.Manager
}

func NewAuthHandler(m *auth.Manager) *AuthHandler {
	return &AuthHandler{auth: m}
}

// TokenRequest is sent by the chat gateway to act on behalf of a player
type TokenRequest struct {
	GatewayKey string `json:"gateway_key"`
	PlayerID   string `json:"player_id"`
}

// RefreshTokenRequest represents the refresh token request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	PlayerID     string `json:"player_id"`
}

// IssueToken verifies the gateway key and issues tokens for a player id
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req TokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "player_id is required")
		return
	}

	if err := h.auth.VerifyGatewayKey(req.GatewayKey); err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, "Invalid gateway key")
		return
	}

	h.issue(w, req.PlayerID)
	log.Printf("[Auth] Token issued for player %s", req.PlayerID)
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req RefreshTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	playerID, err := h.auth.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	h.issue(w, playerID)
	log.Printf("[Auth] Token refreshed for player %s", playerID)
}

func (h *AuthHandler) issue(w http.ResponseWriter, playerID string) {
	accessToken, err := h.auth.GenerateAccessToken(playerID)
	if err != nil {
		log.Printf("[Auth] Failed to generate access token: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := h.auth.GenerateRefreshToken(playerID)
	if err != nil {
		log.Printf("[Auth] Failed to generate refresh token: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		PlayerID:     playerID,
	})
}
