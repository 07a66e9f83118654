package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/omega-realm/arena/internal/config"
)

const issuer = "omega-realm-arena"

// Config holds token signing and gateway settings.
type Config struct {
	Secret               string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	AccessTokenDuration  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	RefreshTokenDuration time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	// GatewayKeyHash is the bcrypt hash of the key the chat gateway presents.
	GatewayKeyHash string `env:"GATEWAY_KEY_HASH"`
	// GatewayKey is hashed at startup when no hash is configured.
	GatewayKey string `env:"GATEWAY_KEY"`
}

// LoadConfigFromEnv loads auth configuration from environment variables
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

// Manager issues and validates tokens for one signing secret.
type Manager struct {
	secret         []byte
	accessTTL      time.Duration
	refreshTTL     time.Duration
	gatewayKeyHash []byte
	now            func() time.Time
}

// NewManager builds a Manager from cfg. A plain GatewayKey is hashed here so
// the key itself is never kept in memory past startup.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	m := &Manager{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenDuration,
		refreshTTL: cfg.RefreshTokenDuration,
		now:        time.Now,
	}
	switch {
	case cfg.GatewayKeyHash != "":
		m.gatewayKeyHash = []byte(cfg.GatewayKeyHash)
	case cfg.GatewayKey != "":
		hash, err := HashGatewayKey(cfg.GatewayKey)
		if err != nil {
			return nil, err
		}
		m.gatewayKeyHash = []byte(hash)
	}
	return m, nil
}

// GenerateAccessToken creates a new access token for a player
func (m *Manager) GenerateAccessToken(playerID string) (string, error) {
	now := m.now()
	claims := CustomClaims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   playerID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// GenerateRefreshToken creates a new refresh token for a player
func (m *Manager) GenerateRefreshToken(playerID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   playerID,
		ID:        "refresh",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, nil
}

func (m *Manager) keyFunc(token *jwt.Token) (interface{}, error) {
	// Validate the signing method
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return m.secret, nil
}

func (m *Manager) parserOptions() []jwt.ParserOption {
	return []jwt.ParserOption{jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now)}
}

// ValidateToken validates an access token and returns the claims
func (m *Manager) ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, m.keyFunc, m.parserOptions()...)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid && claims.PlayerID != "" {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ValidateRefreshToken validates a refresh token and returns the player id
func (m *Manager) ValidateRefreshToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, m.keyFunc, m.parserOptions()...)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.ID != "refresh" || claims.Subject == "" {
		return "", errors.New("invalid refresh token")
	}
	return claims.Subject, nil
}
