package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
)

const activeEncountersKey = "active_encounters"

// EncounterStore keeps in-progress solo encounters in Redis with a TTL, so an
// abandoned encounter expires on its own.
type EncounterStore struct {
	client *Client
	ttl    time.Duration
}

// NewEncounterStore returns an EncounterStore writing keys with ttl.
func NewEncounterStore(client *Client, ttl time.Duration) *EncounterStore {
	return &EncounterStore{client: client, ttl: ttl}
}

func encounterKey(playerID string) string {
	return fmt.Sprintf("encounter:%s", playerID)
}

// Save stores the encounter for playerID, resetting its TTL
func (s *EncounterStore) Save(ctx context.Context, playerID string, enc *combat.Encounter) error {
	data, err := json.Marshal(enc)
	if err != nil {
		return fmt.Errorf("failed to marshal encounter: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, encounterKey(playerID), data, s.ttl)
	pipe.SAdd(ctx, activeEncountersKey, playerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save encounter: %w", err)
	}
	return nil
}

// Load returns the encounter for playerID or ErrNoEncounter
func (s *EncounterStore) Load(ctx context.Context, playerID string) (*combat.Encounter, error) {
	data, err := s.client.Get(ctx, encounterKey(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired keys leave a stale set member behind.
		s.client.SRem(ctx, activeEncountersKey, playerID)
		return nil, apperrors.ErrNoEncounter
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load encounter: %w", err)
	}

	var enc combat.Encounter
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal encounter: %w", err)
	}
	return &enc, nil
}

// Delete removes the encounter for playerID
func (s *EncounterStore) Delete(ctx context.Context, playerID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, encounterKey(playerID))
	pipe.SRem(ctx, activeEncountersKey, playerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete encounter: %w", err)
	}
	return nil
}

// ActiveCount returns how many players were last seen in an encounter
func (s *EncounterStore) ActiveCount(ctx context.Context) (int64, error) {
	count, err := s.client.SCard(ctx, activeEncountersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count active encounters: %w", err)
	}
	return count, nil
}
