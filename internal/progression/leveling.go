// Package progression implements the experience curve and stat growth.
package progression

import (
	"fmt"
	"strings"

	"github.com/omega-realm/arena/internal/models"
)

// Growth applied per level gained.
const (
	MaxHPPerLevel   = 8
	AttackPerLevel  = 1
	DefensePerLevel = 1 // even levels only
)

// XPThreshold returns the xp needed to advance from level to level+1.
func XPThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 + (level-1)*50
}

// LevelUps lists the levels gained by one ApplyLevelUps call, in order.
type LevelUps []int

// String renders one line per level gained; empty when none.
func (l LevelUps) String() string {
	if len(l) == 0 {
		return ""
	}
	var b strings.Builder
	for _, level := range l {
		fmt.Fprintf(&b, "\nLevel up! You are now level %d. HP restored.", level)
	}
	return b.String()
}

// ApplyLevelUps consumes xp for as many thresholds as it covers. Every level
// grants max hp and attack, even levels also grant defense, and the player is
// fully healed after each one.
func ApplyLevelUps(p *models.Player) LevelUps {
	var gained LevelUps
	for p.XP >= XPThreshold(p.Level) {
		p.XP -= XPThreshold(p.Level)
		p.Level++
		p.MaxHP += MaxHPPerLevel
		p.Attack += AttackPerLevel
		if p.Level%2 == 0 {
			p.Defense += DefensePerLevel
		}
		p.HP = p.MaxHP
		gained = append(gained, p.Level)
	}
	return gained
}
