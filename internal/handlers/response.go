package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/middleware"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error    string            `json:"error"`
	Code     apperrors.Code    `json:"code,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeError maps domain errors to their HTTP status and hides anything else
// behind a 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Code.HTTPStatus(), ErrorResponse{
			Error:    appErr.Message,
			Code:     appErr.Code,
			Metadata: appErr.Metadata,
		})
		return
	}
	log.Printf("[API] Internal error: %v", err)
	writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func authenticatedPlayer(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.PlayerID(r)
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return id, true
}
