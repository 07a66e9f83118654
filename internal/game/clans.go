package game

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/omega-realm/arena/internal/achievements"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
	"github.com/omega-realm/arena/internal/storage"
)

// Clan name length limits, in runes.
const (
	MinClanName = 3
	MaxClanName = 24
)

// ClanResult describes a founded clan.
type ClanResult struct {
	Clan         *models.Clan         `json:"clan"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
}

func validClanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinClanName || n > MaxClanName {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"clan names are 3-24 characters", map[string]string{"field": "name"})
	}
	return name, nil
}

// Lock order for clan operations is the player first, then the clan. No
// operation takes a player lock while holding a clan lock.

// CreateClan founds a clan led by playerID.
func (s *Service) CreateClan(ctx context.Context, playerID, name string) (res ClanResult, err error) {
	ctx, span := s.startSpan(ctx, "CreateClan", playerID)
	defer func() { endSpan(span, err) }()

	name, err = validClanName(name)
	if err != nil {
		return ClanResult{}, err
	}

	unlockPlayer := s.locks.lock(playerKey(playerID))
	defer unlockPlayer()
	unlockClan := s.locks.lock(clanKey(name))
	defer unlockClan()

	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return ClanResult{}, err
	}
	if p.Clan != "" {
		return ClanResult{}, apperrors.ErrAlreadyInClan
	}
	now := s.now()

	clan := &models.Clan{Name: name, LeaderID: p.ID, Members: []string{p.ID}, Level: 1, CreatedAt: now}
	p.Clan = name
	res.Achievements = achievements.Settle(p, achievements.Check(p, achievements.TriggerClanCreated, now))
	res.Levels = progression.ApplyLevelUps(p)

	if err := s.store.Commit(ctx, storage.Batch{Players: []*models.Player{p}, NewClans: []*models.Clan{clan}}); err != nil {
		return ClanResult{}, err
	}
	log.Printf("[Game] Player %s founded clan %q", p.ID, name)
	res.Clan = clan
	return res, nil
}

// JoinClan adds playerID to an existing clan.
func (s *Service) JoinClan(ctx context.Context, playerID, name string) (clan *models.Clan, err error) {
	ctx, span := s.startSpan(ctx, "JoinClan", playerID)
	defer func() { endSpan(span, err) }()

	name = strings.TrimSpace(name)
	unlockPlayer := s.locks.lock(playerKey(playerID))
	defer unlockPlayer()
	unlockClan := s.locks.lock(clanKey(name))
	defer unlockClan()

	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p.Clan != "" {
		return nil, apperrors.ErrAlreadyInClan
	}
	clan, err = s.store.GetClan(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(clan.Members) >= models.MaxClanMembers {
		return nil, apperrors.ErrClanFull
	}

	clan.Members = append(clan.Members, p.ID)
	p.Clan = clan.Name
	if err := s.store.Commit(ctx, storage.Batch{Players: []*models.Player{p}, Clans: []*models.Clan{clan}}); err != nil {
		return nil, err
	}
	return clan, nil
}

// LeaveClan removes playerID from its clan. Leadership passes to the next
// member and an empty clan is deleted.
func (s *Service) LeaveClan(ctx context.Context, playerID string) (err error) {
	ctx, span := s.startSpan(ctx, "LeaveClan", playerID)
	defer func() { endSpan(span, err) }()

	unlockPlayer := s.locks.lock(playerKey(playerID))
	defer unlockPlayer()

	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if p.Clan == "" {
		return apperrors.ErrNotInClan
	}

	unlockClan := s.locks.lock(clanKey(p.Clan))
	defer unlockClan()

	batch := storage.Batch{Players: []*models.Player{p}}
	clan, err := s.store.GetClan(ctx, p.Clan)
	switch {
	case err == nil:
		clan.RemoveMember(p.ID)
		if len(clan.Members) == 0 {
			batch.DeleteClans = []string{clan.Name}
		} else {
			batch.Clans = []*models.Clan{clan}
		}
	case apperrors.CodeOf(err) == apperrors.CodeNotFound:
		// Dangling membership; only the player record needs fixing.
	default:
		return err
	}
	p.Clan = ""
	return s.store.Commit(ctx, batch)
}

// GetClan returns the stored clan record.
func (s *Service) GetClan(ctx context.Context, name string) (*models.Clan, error) {
	return s.store.GetClan(ctx, strings.TrimSpace(name))
}
