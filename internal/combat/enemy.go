package combat

import "github.com/omega-realm/arena/internal/models"

// Enemy is a generated opponent for a single encounter.
type Enemy struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	XP      int    `json:"xp"`
	Gold    int    `json:"gold"`
	Loot    string `json:"loot,omitempty"`
}

// Reward returns the bundle granted for defeating the enemy.
func (e *Enemy) Reward() models.Reward {
	return models.Reward{XP: e.XP, Gold: e.Gold, Item: e.Loot}
}

type archetype struct {
	kind    string
	name    string
	hp      int
	attack  int
	defense int
	xp      int
	goldMin int
	goldMax int
	loot    []string // "" means no loot
}

var archetypes = []archetype{
	{kind: "rat", name: "Rat", hp: 30, attack: 4, defense: 1, xp: 25, goldMin: 5, goldMax: 10,
		loot: []string{"", "", models.ItemSmallPotion}},
	{kind: "goblin", name: "Goblin", hp: 45, attack: 6, defense: 2, xp: 40, goldMin: 8, goldMax: 18,
		loot: []string{"", models.ItemSmallPotion, models.ItemStrengthRune}},
	{kind: "wolf", name: "Wolf", hp: 55, attack: 7, defense: 3, xp: 55, goldMin: 10, goldMax: 20,
		loot: []string{"", models.ItemSmallPotion}},
}

// EnemyTypes lists the archetype tags in generation order.
func EnemyTypes() []string {
	out := make([]string, len(archetypes))
	for i, a := range archetypes {
		out[i] = a.kind
	}
	return out
}

// GenerateEnemy picks an archetype uniformly and scales it to level.
func GenerateEnemy(r Roller, level int) *Enemy {
	a := archetypes[r.Intn(len(archetypes))]
	step := max(0, level-1)
	hp := a.hp + 5*step
	return &Enemy{
		Type:    a.kind,
		Name:    a.name,
		HP:      hp,
		MaxHP:   hp,
		Attack:  a.attack + 2*step,
		Defense: a.defense + step/2,
		XP:      a.xp + 10*step,
		Gold:    Between(r, a.goldMin, a.goldMax) + 2*step,
		Loot:    a.loot[r.Intn(len(a.loot))],
	}
}
