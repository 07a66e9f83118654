package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrGatewayKey is returned for a missing or wrong gateway key.
var ErrGatewayKey = errors.New("invalid gateway key")

// HashGatewayKey returns the bcrypt hash to store in GATEWAY_KEY_HASH.
func HashGatewayKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("gateway key is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash gateway key: %w", err)
	}
	return string(hash), nil
}

// VerifyGatewayKey checks key against the configured hash. With no hash
// configured every key is rejected.
func (m *Manager) VerifyGatewayKey(key string) error {
	if len(m.gatewayKeyHash) == 0 || key == "" {
		return ErrGatewayKey
	}
	if err := bcrypt.CompareHashAndPassword(m.gatewayKeyHash, []byte(key)); err != nil {
		return ErrGatewayKey
	}
	return nil
}
