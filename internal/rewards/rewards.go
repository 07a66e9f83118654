// Package rewards applies reward bundles and settles the achievement and
// leveling work they trigger.
package rewards

import (
	"fmt"
	"strings"
	"time"

	"github.com/omega-realm/arena/internal/achievements"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
)

// grantTriggers are evaluated on every grant, in this order.
var grantTriggers = []achievements.Trigger{
	achievements.TriggerKill,
	achievements.TriggerGold,
	achievements.TriggerLevel,
}

// Outcome describes everything a single Grant changed.
type Outcome struct {
	Base         models.Reward        `json:"base"`
	Loot         string               `json:"loot,omitempty"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	// BonusLevels are reached through achievement xp.
	BonusLevels progression.LevelUps `json:"bonus_levels,omitempty"`
}

// String renders base gain, loot, level-ups and achievements in that order,
// followed by any levels the achievements themselves paid for.
func (o Outcome) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "+%d XP, +%d gold.", o.Base.XP, o.Base.Gold)
	if o.Loot != "" {
		fmt.Fprintf(&b, "\nLoot: %s", o.Loot)
	}
	b.WriteString(o.Levels.String())
	for _, a := range o.Achievements {
		b.WriteString(a.String())
	}
	b.WriteString(o.BonusLevels.String())
	return b.String()
}

// Grant credits xp, gold and the optional item, then evaluates the kill, gold
// and level achievements, applies level-ups and pays the newly earned
// achievement rewards. Achievement rewards are paid directly and never
// re-evaluate achievements; leveling runs once more afterwards so the xp
// invariant holds when Grant returns.
func Grant(p *models.Player, r models.Reward, now time.Time) Outcome {
	out := Outcome{Base: models.Reward{XP: r.XP, Gold: r.Gold}}

	p.XP += r.XP
	p.Gold += r.Gold
	if r.Item != "" {
		p.AddItem(r.Item, 1)
		out.Loot = r.Item
	}

	earned := achievements.CheckAll(p, now, grantTriggers...)
	out.Levels = progression.ApplyLevelUps(p)
	out.Achievements = achievements.Settle(p, earned)
	out.BonusLevels = progression.ApplyLevelUps(p)
	return out
}
