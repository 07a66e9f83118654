package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/omega-realm/arena/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// PlayerContextKey is the key for storing player claims in request context
	PlayerContextKey contextKey = "player"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.CustomClaims, error)
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

// RequireAuth returns a middleware that validates JWT bearer tokens
func RequireAuth(v TokenValidator) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, msg)
				return
			}

			claims, err := v.ValidateToken(token)
			if err != nil {
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), PlayerContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// websocket upgrades, so GET requests may pass access_token instead.
func bearerToken(r *http.Request) (string, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if r.Method == http.MethodGet {
			if t := r.URL.Query().Get("access_token"); t != "" {
				return t, ""
			}
		}
		return "", "Missing authorization header"
	}

	// Check if header has Bearer prefix
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization header format. Use: Bearer <token>"
	}
	return parts[1], ""
}

// GetPlayerClaims extracts player claims from request context
func GetPlayerClaims(r *http.Request) (*auth.CustomClaims, bool) {
	claims, ok := r.Context().Value(PlayerContextKey).(*auth.CustomClaims)
	return claims, ok
}

// PlayerID returns the authenticated player id.
func PlayerID(r *http.Request) (string, bool) {
	claims, ok := GetPlayerClaims(r)
	if !ok {
		return "", false
	}
	return claims.PlayerID, true
}

// CORS adds CORS headers to all responses
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
