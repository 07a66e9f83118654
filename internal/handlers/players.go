package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/omega-realm/arena/internal/game"
	"github.com/omega-realm/arena/internal/models"
)

type PlayerHandler struct {
	svc *game.Service
}

func NewPlayerHandler(svc *game.Service) *PlayerHandler {
	return &PlayerHandler{svc: svc}
}

// RegisterPlayerRequest represents the request body for player registration
type RegisterPlayerRequest struct {
	Name string `json:"name"`
}

// ChooseClassRequest represents the request body for class selection
type ChooseClassRequest struct {
	Class string `json:"class"`
}

// PlayerSuccessResponse represents a success response with player data
type PlayerSuccessResponse struct {
	Message string         `json:"message"`
	Player  *models.Player `json:"player"`
}

// Register creates the authenticated player's record
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req RegisterPlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validatePlayerName(req.Name); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.RegisterPlayer(r.Context(), playerID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PlayerSuccessResponse{
		Message: "Player created successfully",
		Player:  p,
	})
	log.Printf("[API] Player registered: %s (ID: %s)", p.Name, p.ID)
}

// GetMe returns the authenticated player's record
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetPlayer(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"player": p,
		"stats":  p.EffectiveStats(),
	})
}

// ChooseClass sets the authenticated player's class
func (h *PlayerHandler) ChooseClass(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	var req ChooseClassRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.ChooseClass(r.Context(), playerID, req.Class)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetAchievements lists the catalog with the player's earn times
func (h *PlayerHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	list, err := h.svc.ListAchievements(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": list})
}

// GetClasses returns all selectable classes
func GetClasses(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"classes": models.GetAllClasses(),
	})
}

// validatePlayerName validates the display name
func validatePlayerName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 3 {
		return fmt.Errorf("player name must be at least 3 characters long")
	}
	if n > 32 {
		return fmt.Errorf("player name must not exceed 32 characters")
	}

	// Letters, numbers, spaces, underscores and hyphens
	for _, char := range name {
		if !isValidPlayerNameChar(char) {
			return fmt.Errorf("player name contains invalid characters. Only letters, numbers, spaces, underscores, and hyphens are allowed")
		}
	}
	return nil
}

func isValidPlayerNameChar(char rune) bool {
	return unicode.IsLetter(char) ||
		unicode.IsDigit(char) ||
		char == ' ' ||
		char == '_' ||
		char == '-'
}
