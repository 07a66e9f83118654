// Package storage defines the persistence boundary for player and clan
// records.
package storage

import (
	"context"

	"github.com/omega-realm/arena/internal/models"
)

// Batch is the set of writes one action commits together.
type Batch struct {
	Players []*models.Player
	// NewClans are inserted and fail with ErrClanExists when the name is taken.
	NewClans    []*models.Clan
	Clans       []*models.Clan
	DeleteClans []string
}

// Empty reports whether the batch has nothing to write.
func (b Batch) Empty() bool {
	return len(b.Players) == 0 && len(b.NewClans) == 0 && len(b.Clans) == 0 && len(b.DeleteClans) == 0
}

// Store persists keyed player and clan records. Get methods return private
// copies and ErrNotFound for missing keys. Commit applies a batch atomically.
type Store interface {
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	GetClan(ctx context.Context, name string) (*models.Clan, error)
	Commit(ctx context.Context, b Batch) error
	Close() error
}
