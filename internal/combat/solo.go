package combat

import (
	"fmt"
	"time"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/quests"
	"github.com/omega-realm/arena/internal/rewards"
)

// Solo encounter constants.
const (
	FleeChance     = 0.6
	DefeatGoldLoss = 10
)

// Encounter is an in-progress solo battle.
type Encounter struct {
	Enemy       *Enemy    `json:"enemy"`
	AbilityUsed bool      `json:"ability_used"`
	StartedAt   time.Time `json:"started_at"`
}

// NewEncounter generates an enemy for the player's level.
func NewEncounter(r Roller, level int, now time.Time) *Encounter {
	return &Encounter{Enemy: GenerateEnemy(r, level), StartedAt: now}
}

// Outcome is how a solo action left the encounter.
type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeFled    Outcome = "fled"
)

// SoloResult describes one resolved solo action.
type SoloResult struct {
	Log      []string         `json:"log"`
	Outcome  Outcome          `json:"outcome"`
	Ended    bool             `json:"ended"`
	Rewards  *rewards.Outcome `json:"rewards,omitempty"`
	Quests   quests.Updates   `json:"quests,omitempty"`
	GoldLost int              `json:"gold_lost,omitempty"`
}

// Text joins the log with the reward and quest text.
func (r SoloResult) Text() string {
	s := ""
	for i, line := range r.Log {
		if i > 0 {
			s += "\n"
		}
		s += line
	}
	if r.Rewards != nil {
		s += " " + r.Rewards.String()
	}
	return s + r.Quests.String()
}

// ResolveSolo applies action to the encounter and the player. Rejected
// actions return an error and leave both untouched.
func ResolveSolo(p *models.Player, enc *Encounter, action Action, r Roller, now time.Time) (SoloResult, error) {
	if enc == nil || enc.Enemy == nil {
		return SoloResult{}, apperrors.ErrNoEncounter
	}
	enemy := enc.Enemy
	stats := p.EffectiveStats()

	switch action {
	case ActionAbility:
		if enc.AbilityUsed {
			return SoloResult{}, apperrors.ErrAbilityUsed
		}
	case ActionPotion:
		if p.ItemCount(models.ItemSmallPotion) == 0 {
			return SoloResult{}, apperrors.WithMetadata(apperrors.CodeInsufficientInventory,
				"no "+models.ItemSmallPotion+" left", map[string]string{"item": models.ItemSmallPotion})
		}
	case ActionAttack, ActionFlee:
	default:
		return SoloResult{}, apperrors.WithMetadata(apperrors.CodeInvalidAction,
			fmt.Sprintf("%s is not allowed against monsters", action), map[string]string{"action": action.String()})
	}

	res := SoloResult{Outcome: OutcomeOngoing}
	switch action {
	case ActionAttack:
		dmg := Damage(r, stats.Attack, enemy.Defense)
		enemy.HP = max(0, enemy.HP-dmg)
		res.Log = append(res.Log, fmt.Sprintf("You hit %s for %d damage.", enemy.Name, dmg))
	case ActionAbility:
		dmg := AbilityDamage(r, p.Class, stats.Attack, enemy.Defense)
		enemy.HP = max(0, enemy.HP-dmg)
		enc.AbilityUsed = true
		res.Log = append(res.Log, fmt.Sprintf("You use %s and deal %d damage!", AbilityName(p.Class), dmg))
	case ActionPotion:
		p.ConsumeItem(models.ItemSmallPotion, 1)
		healed := p.Heal(models.SmallPotionHealing)
		res.Log = append(res.Log, fmt.Sprintf("You drink a potion and recover %d HP.", healed))
	case ActionFlee:
		if r.Float64() < FleeChance {
			res.Log = append(res.Log, "You escaped from the battle.")
			res.Outcome = OutcomeFled
			res.Ended = true
			return res, nil
		}
		res.Log = append(res.Log, "You failed to escape!")
	}

	if enemy.HP <= 0 {
		res.Log = append(res.Log, fmt.Sprintf("You defeated %s!", enemy.Name))
		outcome := rewards.Grant(p, enemy.Reward(), now)
		res.Rewards = &outcome
		res.Quests = append(res.Quests, quests.UpdateOnKill(p, enemy.Type, now)...)
		res.Quests = append(res.Quests, quests.Advance(p, quests.TargetGoldEarned, enemy.Gold, now)...)
		if enemy.Loot != "" {
			res.Quests = append(res.Quests, quests.Advance(p, quests.TargetItemsFound, 1, now)...)
		}
		res.Outcome = OutcomeVictory
		res.Ended = true
		return res, nil
	}

	dmg := Damage(r, enemy.Attack, stats.Defense)
	p.HP -= dmg
	res.Log = append(res.Log, fmt.Sprintf("%s attacks you for %d damage.", enemy.Name, dmg))

	if p.HP <= 0 {
		lost := min(DefeatGoldLoss, p.Gold)
		p.Gold -= lost
		p.HP = max(1, p.MaxHP/2)
		res.GoldLost = lost
		res.Log = append(res.Log, fmt.Sprintf("You fell in battle and lost %d gold. You wake up with %d/%d HP.", lost, p.HP, p.MaxHP))
		res.Outcome = OutcomeDefeat
		res.Ended = true
	}
	return res, nil
}
