// Package memory provides an in-process storage.Store.
package memory

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/storage"
)

// Store keeps records in maps guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	players map[string]*models.Player
	clans   map[string]*models.Clan
}

// New returns an empty store.
func New() *Store {
	return &Store{
		players: make(map[string]*models.Player),
		clans:   make(map[string]*models.Clan),
	}
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := p.Clone()
	c.Normalize()
	return c, nil
}

func (s *Store) GetClan(ctx context.Context, name string) (*models.Clan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clans[name]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *Store) Commit(ctx context.Context, b storage.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range b.NewClans {
		if _, taken := s.clans[c.Name]; taken {
			return apperrors.WithMetadata(apperrors.CodeClanExists,
				fmt.Sprintf("clan %q already exists", c.Name), map[string]string{"clan": c.Name})
		}
	}
	for _, p := range b.Players {
		s.players[p.ID] = p.Clone()
	}
	for _, c := range b.NewClans {
		s.clans[c.Name] = c.Clone()
	}
	for _, c := range b.Clans {
		s.clans[c.Name] = c.Clone()
	}
	for _, name := range b.DeleteClans {
		delete(s.clans, name)
	}
	return nil
}

func (s *Store) Close() error { return nil }

var _ storage.Store = (*Store)(nil)
