package duel

import (
	"fmt"
	"time"

	"github.com/omega-realm/arena/internal/achievements"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
)

// Rewards paid when a duel concludes.
const (
	WinnerGold = 50
	WinnerXP   = 100
	LoserXP    = 20
)

// Conclusion records the rewards a finished duel paid out.
type Conclusion struct {
	WinnerID     string               `json:"winner_id"`
	LoserID      string               `json:"loser_id"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	WinnerLevels progression.LevelUps `json:"winner_levels,omitempty"`
	LoserLevels  progression.LevelUps `json:"loser_levels,omitempty"`
}

func (c Conclusion) String() string {
	s := fmt.Sprintf("Duel over! Winner: +%d gold, +%d XP. Loser: +%d XP.", WinnerGold, WinnerXP, LoserXP)
	for _, a := range c.Achievements {
		s += a.String()
	}
	return s + c.WinnerLevels.String()
}

// Conclude applies the pvp rewards to the persistent records.
func Conclude(winner, loser *models.Player, now time.Time) Conclusion {
	winner.Gold += WinnerGold
	winner.XP += WinnerXP
	winner.PvPWins++
	loser.XP += LoserXP
	loser.PvPLosses++

	earned := achievements.Check(winner, achievements.TriggerPvPWin, now)
	c := Conclusion{
		WinnerID:     winner.ID,
		LoserID:      loser.ID,
		Achievements: achievements.Settle(winner, earned),
	}
	c.WinnerLevels = progression.ApplyLevelUps(winner)
	c.LoserLevels = progression.ApplyLevelUps(loser)
	return c
}
