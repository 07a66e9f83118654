package game

import (
	"context"
	"sync"
	"time"

	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
)

// EncounterStore keeps the one in-progress solo encounter per player.
// Load returns ErrNoEncounter when the player has none.
type EncounterStore interface {
	Save(ctx context.Context, playerID string, enc *combat.Encounter) error
	Load(ctx context.Context, playerID string) (*combat.Encounter, error)
	Delete(ctx context.Context, playerID string) error
}

type storedEncounter struct {
	enc     combat.Encounter
	expires time.Time
}

// MemoryEncounters is an in-process EncounterStore. Entries older than ttl
// are dropped on access; a zero ttl keeps them until deleted.
type MemoryEncounters struct {
	mu    sync.Mutex
	items map[string]storedEncounter
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryEncounters returns an empty store.
func NewMemoryEncounters(ttl time.Duration) *MemoryEncounters {
	return &MemoryEncounters{items: make(map[string]storedEncounter), ttl: ttl, now: time.Now}
}

func (m *MemoryEncounters) Save(_ context.Context, playerID string, enc *combat.Encounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := storedEncounter{enc: copyEncounter(enc)}
	if m.ttl > 0 {
		stored.expires = m.now().Add(m.ttl)
	}
	m.items[playerID] = stored
	return nil
}

func (m *MemoryEncounters) Load(_ context.Context, playerID string) (*combat.Encounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[playerID]
	if !ok {
		return nil, apperrors.ErrNoEncounter
	}
	if !stored.expires.IsZero() && !m.now().Before(stored.expires) {
		delete(m.items, playerID)
		return nil, apperrors.ErrNoEncounter
	}
	enc := copyEncounter(&stored.enc)
	return &enc, nil
}

func (m *MemoryEncounters) Delete(_ context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, playerID)
	return nil
}

func copyEncounter(enc *combat.Encounter) combat.Encounter {
	c := *enc
	if enc.Enemy != nil {
		e := *enc.Enemy
		c.Enemy = &e
	}
	return c
}
