package quests

import (
	"fmt"

	"github.com/omega-realm/arena/internal/models"
)

// Target types a quest can count.
const (
	TargetRat           = "rat"
	TargetGoblin        = "goblin"
	TargetWolf          = "wolf"
	TargetEnemiesKilled = "enemies_killed" // matches any kill
	TargetItemsFound    = "items_found"
	TargetGoldEarned    = "gold_earned"
	TargetCasinoPlays   = "casino_plays"
)

// StarterID is the quest granted on class selection.
const StarterID = "rat_hunter"

// MaxActive caps simultaneously active quests.
const MaxActive = 3

// Template is a fixed quest definition.
type Template struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	TargetType  string        `json:"target_type"`
	Required    int           `json:"required"`
	Reward      models.Reward `json:"reward"`
}

var templates = map[string]Template{
	"rat_hunter": {
		ID: "rat_hunter", Title: "Rat Catcher", Description: "Kill 3 rats around town.",
		TargetType: TargetRat, Required: 3,
		Reward: models.Reward{XP: 100, Gold: 30, Item: models.ItemSmallPotion},
	},
	"goblin_slayer": {
		ID: "goblin_slayer", Title: "Goblin Slayer", Description: "Defeat 5 goblins.",
		TargetType: TargetGoblin, Required: 5,
		Reward: models.Reward{XP: 150, Gold: 50, Item: models.ItemStrengthRune},
	},
	"wolf_hunter": {
		ID: "wolf_hunter", Title: "Wolf Hunter", Description: "Kill 4 wolves.",
		TargetType: TargetWolf, Required: 4,
		Reward: models.Reward{XP: 200, Gold: 75, Item: models.ItemLeatherArmor},
	},
	"casino_regular": {
		ID: "casino_regular", Title: "Casino Regular", Description: "Play 10 casino games.",
		TargetType: TargetCasinoPlays, Required: 10,
		Reward: models.Reward{XP: 120, Gold: 100, Item: models.ItemLuckElixir},
	},
}

// LookupTemplate returns the fixed template with id.
func LookupTemplate(id string) (Template, bool) {
	t, ok := templates[id]
	return t, ok
}

// randomTemplate scales a generated quest with the player's level.
type randomTemplate struct {
	title      string
	desc       string
	targetType string
	required   func(r Roller, level int) int
	reward     func(level int) models.Reward
}

var randomTemplates = []randomTemplate{
	{
		title: "Scavenger", desc: "Find %d items while adventuring.",
		targetType: TargetItemsFound,
		required:   func(r Roller, level int) int { return between(r, 3, 5+level/2) },
		reward: func(level int) models.Reward {
			return models.Reward{XP: 50 + level*10, Gold: 20 + level*5, Item: models.ItemSmallPotion}
		},
	},
	{
		title: "Monster Hunter", desc: "Defeat %d enemies of any kind.",
		targetType: TargetEnemiesKilled,
		required:   func(r Roller, level int) int { return between(r, 5, 8+level) },
		reward: func(level int) models.Reward {
			return models.Reward{XP: 80 + level*15, Gold: 30 + level*8, Item: models.ItemStrengthRune}
		},
	},
	{
		title: "Prospector", desc: "Earn %d gold.",
		targetType: TargetGoldEarned,
		required:   func(r Roller, level int) int { return between(r, 50, 100+level*20) },
		reward: func(level int) models.Reward {
			return models.Reward{XP: 60 + level*12, Gold: 40 + level*10, Item: models.ItemLuckElixir}
		},
	},
}

// between returns a uniform integer in [lo, hi].
func between(r Roller, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// GenerateRandom draws a random template uniformly and scales it to level.
// The returned template has no ID; StartRandom assigns one.
func GenerateRandom(r Roller, level int) Template {
	if level < 1 {
		level = 1
	}
	chosen := randomTemplates[r.Intn(len(randomTemplates))]
	required := chosen.required(r, level)
	return Template{
		Title:       chosen.title,
		Description: fmt.Sprintf(chosen.desc, required),
		TargetType:  chosen.targetType,
		Required:    required,
		Reward:      chosen.reward(level),
	}
}
