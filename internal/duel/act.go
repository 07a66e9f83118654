package duel

import (
	"fmt"

	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
)

// ActResult describes one resolved duel action.
type ActResult struct {
	Entry     string `json:"entry"`
	Damage    int    `json:"damage,omitempty"`
	Healed    int    `json:"healed,omitempty"`
	Fizzled   bool   `json:"fizzled,omitempty"`
	Ended     bool   `json:"ended"`
	WinnerID  string `json:"winner_id,omitempty"`
	LoserID   string `json:"loser_id,omitempty"`
	Surrender bool   `json:"surrender,omitempty"`
	View      View   `json:"view"`
}

// CommitFunc persists the effects of a resolved action. It runs while the
// duel is locked and before the duel changes; an error leaves the duel as it
// was. View is not yet filled in.
type CommitFunc func(res ActResult) error

// Act applies action for actorID without a persistence step.
func (m *Manager) Act(duelID, actorID string, action combat.Action, actor *models.Player) (ActResult, error) {
	return m.ActAndCommit(duelID, actorID, action, actor, nil)
}

// ActAndCommit applies action for actorID. actor is the acting player's
// persistent record; potions are taken from its inventory. Surrender is
// accepted out of turn; every other action requires the actor's turn.
//
// The outcome is computed first and handed to commit. Only when commit
// succeeds are the sides, log and turn updated; when a side dropped to zero
// hp the duel concludes and both players leave the exclusion map.
func (m *Manager) ActAndCommit(duelID, actorID string, action combat.Action, actor *models.Player, commit CommitFunc) (ActResult, error) {
	d, err := m.get(duelID)
	if err != nil {
		return ActResult{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.concluded {
		return ActResult{}, apperrors.ErrDuelNotFound
	}
	me := d.index(actorID)
	if me < 0 {
		return ActResult{}, apperrors.ErrNotParticipant
	}
	if actor == nil || actor.ID != actorID {
		return ActResult{}, apperrors.ErrNotParticipant
	}
	if action != combat.ActionSurrender && d.turn != me {
		return ActResult{}, apperrors.ErrNotYourTurn
	}
	opp := 1 - me
	sides := d.sides
	self, other := &sides[me], &sides[opp]
	name := d.players[me].Name

	var res ActResult
	switch action {
	case combat.ActionAttack:
		res.Damage = combat.Damage(m.rng, self.Attack, other.Defense)
		other.HP = max(0, other.HP-res.Damage)
		res.Entry = fmt.Sprintf("%s attacks and deals %d damage.", name, res.Damage)
	case combat.ActionAbility:
		if self.AbilityUsed {
			return ActResult{}, apperrors.ErrAbilityUsed
		}
		res.Damage = combat.AbilityDamage(m.rng, d.players[me].Class, self.Attack, other.Defense)
		other.HP = max(0, other.HP-res.Damage)
		self.AbilityUsed = true
		res.Entry = fmt.Sprintf("%s uses %s and deals %d damage!", name, combat.AbilityName(d.players[me].Class), res.Damage)
	case combat.ActionPotion:
		if actor.ConsumeItem(models.ItemSmallPotion, 1) {
			res.Healed = min(models.SmallPotionHealing, self.MaxHP-self.HP)
			self.HP += res.Healed
			res.Entry = fmt.Sprintf("%s drinks a potion (+%d HP).", name, res.Healed)
		} else {
			res.Fizzled = true
			res.Entry = fmt.Sprintf("%s reaches for a potion but has none.", name)
		}
	case combat.ActionSurrender:
		self.HP = 0
		res.Surrender = true
		res.Entry = fmt.Sprintf("%s surrenders!", name)
	default:
		return ActResult{}, apperrors.WithMetadata(apperrors.CodeInvalidAction,
			fmt.Sprintf("%s is not allowed in a duel", action), map[string]string{"action": action.String()})
	}

	winner, loser := me, opp
	if self.HP <= 0 {
		winner, loser = opp, me
	}
	if other.HP <= 0 || self.HP <= 0 {
		res.Ended = true
		res.WinnerID = d.players[winner].ID
		res.LoserID = d.players[loser].ID
	}

	if commit != nil {
		if err := commit(res); err != nil {
			return ActResult{}, err
		}
	}

	d.sides = sides
	d.addLog("%s", res.Entry)
	if res.Ended {
		d.concluded = true
		d.addLog("%s wins the duel!", d.players[winner].Name)
		m.release(d)
	} else {
		d.turn = opp
	}
	res.View = d.viewLocked()
	return res, nil
}
