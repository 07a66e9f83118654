// Package game is the orchestration and persistence boundary of the arena.
//
// Every exported operation runs as one unit: it takes the per-player locks it
// needs, loads private copies of the records, applies the engine packages to
// them and commits the changed records in a single storage batch. A failed
// operation commits nothing.
package game

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omega-realm/arena/internal/achievements"
	"github.com/omega-realm/arena/internal/combat"
	"github.com/omega-realm/arena/internal/duel"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
	"github.com/omega-realm/arena/internal/quests"
	"github.com/omega-realm/arena/internal/storage"
)

const tracerName = "github.com/omega-realm/arena/internal/game"

// Leaderboard receives ranking events. Failures are logged, never returned.
type Leaderboard interface {
	RecordMonsterKill(ctx context.Context, playerID, name string) error
	RecordDeath(ctx context.Context, playerID, name string) error
	RecordDuel(ctx context.Context, winnerID, winnerName, loserID, loserName string) error
}

// Notifier is told about every duel state change.
type Notifier interface {
	DuelUpdated(view duel.View)
}

// Options configures a Service. Zero values select in-process defaults.
type Options struct {
	Encounters  EncounterStore
	Leaderboard Leaderboard
	Notifier    Notifier
	Rand        combat.Roller
	NewID       func() string
	Now         func() time.Time
}

// Service runs game operations against a storage.Store.
type Service struct {
	store      storage.Store
	encounters EncounterStore
	duels      *duel.Manager
	board      Leaderboard
	notifier   Notifier

	rng    combat.Roller
	newID  func() string
	now    func() time.Time
	locks  *keyedLocks
	tracer trace.Tracer
}

// NewService wires a Service over store.
func NewService(store storage.Store, opts Options) (*Service, error) {
	if opts.Rand == nil {
		seed, err := combat.NewSeed()
		if err != nil {
			return nil, err
		}
		opts.Rand = combat.NewSharedRand(seed)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Encounters == nil {
		opts.Encounters = NewMemoryEncounters(0)
	}

	return &Service{
		store:      store,
		encounters: opts.Encounters,
		duels:      duel.NewManager(opts.Rand, opts.NewID, opts.Now),
		board:      opts.Leaderboard,
		notifier:   opts.Notifier,
		rng:        opts.Rand,
		newID:      opts.NewID,
		now:        opts.Now,
		locks:      newKeyedLocks(),
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// SetNotifier replaces the duel notifier. Call it before serving requests.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Duels exposes the duel manager for read-only queries.
func (s *Service) Duels() *duel.Manager {
	return s.duels
}

func (s *Service) startSpan(ctx context.Context, name, playerID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "game."+name, trace.WithAttributes(attribute.String("player.id", playerID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func playerKey(id string) string { return "player:" + id }

// Clan names are case-sensitive in every store, so the lock key is too.
func clanKey(name string) string { return "clan:" + name }

// update loads playerID under its lock, applies fn and commits the player
// when fn succeeds.
func (s *Service) update(ctx context.Context, playerID string, fn func(p *models.Player, now time.Time) error) (*models.Player, error) {
	unlock := s.locks.lock(playerKey(playerID))
	defer unlock()

	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := fn(p, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Commit(ctx, storage.Batch{Players: []*models.Player{p}}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) notify(view duel.View) {
	if s.notifier != nil {
		s.notifier.DuelUpdated(view)
	}
}

// RegisterPlayer creates a new level 1 player.
func (s *Service) RegisterPlayer(ctx context.Context, playerID, name string) (p *models.Player, err error) {
	ctx, span := s.startSpan(ctx, "RegisterPlayer", playerID)
	defer func() { endSpan(span, err) }()

	name = strings.TrimSpace(name)
	if playerID == "" || name == "" || len(name) > 32 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"player id and a name of 1-32 characters are required", map[string]string{"field": "name"})
	}

	unlock := s.locks.lock(playerKey(playerID))
	defer unlock()

	if _, err := s.store.GetPlayer(ctx, playerID); err == nil {
		return nil, apperrors.New(apperrors.CodeAlreadyExists, "player already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	p = models.NewPlayer(playerID, name, s.now())
	if err := s.store.Commit(ctx, storage.Batch{Players: []*models.Player{p}}); err != nil {
		return nil, err
	}
	log.Printf("[Game] Registered player %s (%s)", playerID, name)
	return p, nil
}

// GetPlayer returns the stored player record.
func (s *Service) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	return s.store.GetPlayer(ctx, playerID)
}

// ClassResult describes a class selection.
type ClassResult struct {
	Player       *models.Player       `json:"player"`
	StarterQuest *models.Quest        `json:"starter_quest"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
}

// ChooseClass sets the class once, grants the starter quest and runs the
// level and gold achievement checks.
func (s *Service) ChooseClass(ctx context.Context, playerID, className string) (res ClassResult, err error) {
	ctx, span := s.startSpan(ctx, "ChooseClass", playerID)
	defer func() { endSpan(span, err) }()

	class, ok := models.ParseClass(className)
	if !ok {
		return ClassResult{}, apperrors.WithMetadata(apperrors.CodeInvalidClass,
			"unknown class "+className, map[string]string{"class": className})
	}

	p, err := s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		if p.Class != models.ClassNone {
			return apperrors.ErrClassAlreadySet
		}
		p.ApplyClass(class)
		res.StarterQuest = quests.GrantStarter(p, now)
		earned := achievements.CheckAll(p, now, achievements.TriggerLevel, achievements.TriggerGold)
		res.Achievements = achievements.Settle(p, earned)
		res.Levels = progression.ApplyLevelUps(p)
		return nil
	})
	if err != nil {
		return ClassResult{}, err
	}
	res.Player = p
	return res, nil
}
