package models

// Item names used by the engine.
const (
	ItemSmallPotion    = "Small Healing Potion"
	ItemLargePotion    = "Large Healing Potion"
	ItemStrengthRune   = "Rune of Strength"
	ItemLeatherArmor   = "Leather Armor"
	ItemLuckElixir     = "Elixir of Luck"
	ItemTeleportScroll = "Teleport Scroll"
	ItemAmulet         = "Amulet of Protection"
	ItemDragonSword    = "Dragon Sword"
)

// Healing amounts for potions.
const (
	SmallPotionHealing = 35
	LargePotionHealing = 70
)

// Item describes a catalog item.
type Item struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Heal  int    `json:"heal,omitempty"`
}

var itemCatalog = map[string]Item{
	ItemSmallPotion:    {Name: ItemSmallPotion, Price: 15, Heal: SmallPotionHealing},
	ItemLargePotion:    {Name: ItemLargePotion, Price: 35, Heal: LargePotionHealing},
	ItemStrengthRune:   {Name: ItemStrengthRune, Price: 30},
	ItemLeatherArmor:   {Name: ItemLeatherArmor, Price: 30},
	ItemLuckElixir:     {Name: ItemLuckElixir, Price: 50},
	ItemTeleportScroll: {Name: ItemTeleportScroll, Price: 25},
	ItemAmulet:         {Name: ItemAmulet, Price: 100},
	ItemDragonSword:    {Name: ItemDragonSword, Price: 200},
}

// LookupItem returns the catalog entry for name.
func LookupItem(name string) (Item, bool) {
	it, ok := itemCatalog[name]
	return it, ok
}

// Companion is a pet that grants passive stat bonuses.
type Companion struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rarity  string `json:"rarity"`
	Attack  int    `json:"attack,omitempty"`
	Defense int    `json:"defense,omitempty"`
	HP      int    `json:"hp,omitempty"`
	Luck    int    `json:"luck,omitempty"`
}

// CompanionIDs lists every companion in catalog order.
var CompanionIDs = []string{"cat", "rabbit", "owl", "wolf", "phoenix", "dragon"}

var companionCatalog = map[string]Companion{
	"cat":     {ID: "cat", Name: "Cat", Rarity: "common", Luck: 2},
	"rabbit":  {ID: "rabbit", Name: "Rabbit", Rarity: "common"},
	"owl":     {ID: "owl", Name: "Owl", Rarity: "rare"},
	"wolf":    {ID: "wolf", Name: "Wolf", Rarity: "rare", Attack: 3},
	"phoenix": {ID: "phoenix", Name: "Phoenix", Rarity: "legendary", HP: 50},
	"dragon":  {ID: "dragon", Name: "Dragon", Rarity: "legendary", Attack: 5, Defense: 3},
}

// LookupCompanion returns the catalog entry for id.
func LookupCompanion(id string) (Companion, bool) {
	c, ok := companionCatalog[id]
	return c, ok
}

// Stats are a player's effective combat values.
type Stats struct {
	HP      int `json:"hp"`
	MaxHP   int `json:"max_hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Luck    int `json:"luck"`
}

// EffectiveStats returns base stats plus companion bonuses.
func (p *Player) EffectiveStats() Stats {
	s := Stats{
		HP:      p.HP,
		MaxHP:   p.MaxHP,
		Attack:  p.Attack,
		Defense: p.Defense,
		Luck:    p.Luck,
	}
	for _, id := range p.Companions {
		c, ok := companionCatalog[id]
		if !ok {
			continue
		}
		s.Attack += c.Attack
		s.Defense += c.Defense
		s.MaxHP += c.HP
		s.Luck += c.Luck
	}
	return s
}
