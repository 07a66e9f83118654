package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/omega-realm/arena/internal/achievements"
	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
	"github.com/omega-realm/arena/internal/quests"
	"github.com/omega-realm/arena/internal/rewards"
	"github.com/omega-realm/arena/internal/storage"
)

// AdventureCooldown is the rest time between adventures.
const AdventureCooldown = 6 * time.Second

// CompanionFindChance is the chance a companion event yields a companion.
const CompanionFindChance = 0.1

// Event is what an adventure turned up.
type Event string

const (
	EventFight     Event = "fight"
	EventGold      Event = "gold"
	EventTreasure  Event = "treasure"
	EventCompanion Event = "companion"
)

// eventWeights makes a fight the most likely outcome.
var eventWeights = []struct {
	event  Event
	weight int
}{
	{EventFight, 4},
	{EventGold, 2},
	{EventTreasure, 1},
	{EventCompanion, 1},
}

func rollEvent(r combat.Roller) Event {
	total := 0
	for _, w := range eventWeights {
		total += w.weight
	}
	n := r.Intn(total)
	for _, w := range eventWeights {
		if n < w.weight {
			return w.event
		}
		n -= w.weight
	}
	return EventFight
}

// AdventureResult describes one adventure.
type AdventureResult struct {
	Event        Event                `json:"event"`
	Text         string               `json:"text"`
	Encounter    *combat.Encounter    `json:"encounter,omitempty"`
	Gold         int                  `json:"gold,omitempty"`
	Companion    string               `json:"companion,omitempty"`
	Rewards      *rewards.Outcome     `json:"rewards,omitempty"`
	Quests       quests.Updates       `json:"quests,omitempty"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
}

func cooldownLeft(last *time.Time, cooldown time.Duration, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	return cooldown - now.Sub(*last)
}

// StartAdventure rolls a random event. A fight opens an encounter that
// ResolveSoloAction continues.
func (s *Service) StartAdventure(ctx context.Context, playerID string) (res AdventureResult, err error) {
	ctx, span := s.startSpan(ctx, "StartAdventure", playerID)
	defer func() { endSpan(span, err) }()

	unlock := s.locks.lock(playerKey(playerID))
	defer unlock()

	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return AdventureResult{}, err
	}
	now := s.now()

	if s.duels.InDuel(playerID) {
		return AdventureResult{}, apperrors.ErrBusy
	}
	if _, err := s.encounters.Load(ctx, playerID); err == nil {
		return AdventureResult{}, apperrors.ErrEncounterActive
	} else if !errors.Is(err, apperrors.ErrNoEncounter) {
		return AdventureResult{}, err
	}
	if left := cooldownLeft(p.LastAdventure, AdventureCooldown, now); left > 0 {
		return AdventureResult{}, apperrors.Cooldown(left)
	}
	p.LastAdventure = &now

	res.Event = rollEvent(s.rng)
	switch res.Event {
	case EventFight:
		res.Encounter = combat.NewEncounter(s.rng, p.Level, now)
		e := res.Encounter.Enemy
		res.Text = fmt.Sprintf("A wild %s attacks! (%d HP, attack %d, defense %d)", e.Name, e.HP, e.Attack, e.Defense)
	case EventGold:
		res.Gold = combat.Between(s.rng, 10, 25)
		p.Gold += res.Gold
		res.Quests = quests.Advance(p, quests.TargetGoldEarned, res.Gold, now)
		res.Achievements = achievements.Settle(p, achievements.Check(p, achievements.TriggerGold, now))
		res.Levels = progression.ApplyLevelUps(p)
		res.Text = fmt.Sprintf("You found a pouch of gold: +%d gold.", res.Gold)
	case EventTreasure:
		reward := models.Reward{Gold: combat.Between(s.rng, 30, 60), XP: combat.Between(s.rng, 20, 40)}
		outcome := rewards.Grant(p, reward, now)
		res.Rewards = &outcome
		res.Gold = reward.Gold
		res.Quests = quests.Advance(p, quests.TargetGoldEarned, reward.Gold, now)
		res.Text = "Treasure! " + outcome.String()
	case EventCompanion:
		res.Text = s.findCompanion(p, &res, now)
	}

	if err := s.store.Commit(ctx, storage.Batch{Players: []*models.Player{p}}); err != nil {
		return AdventureResult{}, err
	}
	if res.Encounter != nil {
		if err := s.encounters.Save(ctx, playerID, res.Encounter); err != nil {
			return AdventureResult{}, err
		}
	}
	res.Text += res.Quests.String()
	return res, nil
}

func (s *Service) findCompanion(p *models.Player, res *AdventureResult, now time.Time) string {
	if s.rng.Float64() >= CompanionFindChance {
		return "You spotted a wild animal, but it ran away."
	}
	var unowned []string
	for _, id := range models.CompanionIDs {
		if !p.HasCompanion(id) {
			unowned = append(unowned, id)
		}
	}
	if len(unowned) == 0 {
		return "You already have every companion there is."
	}
	id := unowned[s.rng.Intn(len(unowned))]
	p.AddCompanion(id)
	res.Companion = id
	res.Achievements = achievements.Settle(p, achievements.Check(p, achievements.TriggerCompanion, now))
	res.Levels = progression.ApplyLevelUps(p)

	text := "A companion joins you: " + id + "!"
	for _, a := range res.Achievements {
		text += a.String()
	}
	return text + res.Levels.String()
}

// ResolveSoloAction applies one action to the player's open encounter.
// Rejected actions change neither the player nor the encounter.
func (s *Service) ResolveSoloAction(ctx context.Context, playerID string, action combat.Action) (res combat.SoloResult, err error) {
	ctx, span := s.startSpan(ctx, "ResolveSoloAction", playerID)
	defer func() { endSpan(span, err) }()

	unlock := s.locks.lock(playerKey(playerID))
	defer unlock()

	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return combat.SoloResult{}, err
	}
	enc, err := s.encounters.Load(ctx, playerID)
	if err != nil {
		return combat.SoloResult{}, err
	}

	before := copyEncounter(enc)
	res, err = combat.ResolveSolo(p, enc, action, s.rng, s.now())
	if err != nil {
		return combat.SoloResult{}, err
	}

	// The encounter moves first: once a victory is paid out the enemy must
	// already be gone, and a failed player commit puts it back.
	if res.Ended {
		err = s.encounters.Delete(ctx, playerID)
	} else {
		err = s.encounters.Save(ctx, playerID, enc)
	}
	if err != nil {
		return combat.SoloResult{}, err
	}
	if err := s.store.Commit(ctx, storage.Batch{Players: []*models.Player{p}}); err != nil {
		if rerr := s.encounters.Save(ctx, playerID, &before); rerr != nil {
			log.Printf("[Game] Failed to restore encounter for %s: %v", playerID, rerr)
		}
		return combat.SoloResult{}, err
	}

	if s.board != nil {
		switch res.Outcome {
		case combat.OutcomeVictory:
			if err := s.board.RecordMonsterKill(ctx, p.ID, p.Name); err != nil {
				log.Printf("[Game] Failed to record monster kill for %s: %v", p.ID, err)
			}
		case combat.OutcomeDefeat:
			if err := s.board.RecordDeath(ctx, p.ID, p.Name); err != nil {
				log.Printf("[Game] Failed to record death for %s: %v", p.ID, err)
			}
		}
	}
	return res, nil
}

// ActiveEncounter returns the player's open encounter, if any.
func (s *Service) ActiveEncounter(ctx context.Context, playerID string) (*combat.Encounter, error) {
	return s.encounters.Load(ctx, playerID)
}
