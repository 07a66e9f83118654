package models

import (
	"sort"
	"time"
)

// Starting values for a freshly registered player, before class selection.
const (
	StartingHP      = 100
	StartingAttack  = 5
	StartingDefense = 2
	StartingGold    = 50
	StartingPotions = 2
)

// Player represents a persistent player record.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Class   Class  `json:"class"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Luck    int    `json:"luck"`
	Gold    int    `json:"gold"`

	Inventory map[string]int `json:"inventory"`
	// Companions holds owned companion ids in acquisition order.
	Companions   []string             `json:"companions"`
	Quests       map[string]*Quest    `json:"quests"`
	Achievements map[string]time.Time `json:"achievements"`
	Clan         string               `json:"clan,omitempty"`
	Businesses   map[string]int       `json:"businesses,omitempty"`

	PvPWins         int `json:"pvp_wins"`
	PvPLosses       int `json:"pvp_losses"`
	CasinoWinStreak int `json:"casino_win_streak"`
	CasinoTotalWins int `json:"casino_total_wins"`
	DailyStreak     int `json:"daily_streak"`

	LastAdventure   *time.Time `json:"last_adventure,omitempty"`
	LastCasinoPlay  *time.Time `json:"last_casino_play,omitempty"`
	LastDailyReward *time.Time `json:"last_daily_reward,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewPlayer returns a level 1 player with the starting kit.
func NewPlayer(id, name string, now time.Time) *Player {
	p := &Player{
		ID:        id,
		Name:      name,
		Level:     1,
		HP:        StartingHP,
		MaxHP:     StartingHP,
		Attack:    StartingAttack,
		Defense:   StartingDefense,
		Gold:      StartingGold,
		CreatedAt: now,
	}
	p.Normalize()
	p.Inventory[ItemSmallPotion] = StartingPotions
	return p
}

// Normalize fills missing optional fields and clamps values back inside
// their invariants. Stores call it on every load.
func (p *Player) Normalize() {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XP < 0 {
		p.XP = 0
	}
	if p.MaxHP < 1 {
		p.MaxHP = StartingHP
	}
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	if p.HP < 0 {
		p.HP = 0
	}
	if p.Gold < 0 {
		p.Gold = 0
	}
	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	for item, count := range p.Inventory {
		if count <= 0 {
			delete(p.Inventory, item)
		}
	}
	if p.Quests == nil {
		p.Quests = make(map[string]*Quest)
	}
	if p.Achievements == nil {
		p.Achievements = make(map[string]time.Time)
	}
	if p.Businesses == nil {
		p.Businesses = make(map[string]int)
	}
	if p.Companions == nil {
		p.Companions = []string{}
	}
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Inventory = make(map[string]int, len(p.Inventory))
	for k, v := range p.Inventory {
		c.Inventory[k] = v
	}
	c.Companions = append([]string(nil), p.Companions...)
	c.Quests = make(map[string]*Quest, len(p.Quests))
	for k, q := range p.Quests {
		qc := *q
		c.Quests[k] = &qc
	}
	c.Achievements = make(map[string]time.Time, len(p.Achievements))
	for k, v := range p.Achievements {
		c.Achievements[k] = v
	}
	c.Businesses = make(map[string]int, len(p.Businesses))
	for k, v := range p.Businesses {
		c.Businesses[k] = v
	}
	c.LastAdventure = cloneTime(p.LastAdventure)
	c.LastCasinoPlay = cloneTime(p.LastCasinoPlay)
	c.LastDailyReward = cloneTime(p.LastDailyReward)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// AddItem adds count units of item to the inventory.
func (p *Player) AddItem(item string, count int) {
	if item == "" || count <= 0 {
		return
	}
	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	p.Inventory[item] += count
}

// ConsumeItem removes count units of item, reporting false when not enough are held.
func (p *Player) ConsumeItem(item string, count int) bool {
	if count <= 0 {
		return true
	}
	have := p.Inventory[item]
	if have < count {
		return false
	}
	if have == count {
		delete(p.Inventory, item)
		return true
	}
	p.Inventory[item] = have - count
	return true
}

// ItemCount returns how many units of item the player holds.
func (p *Player) ItemCount(item string) int {
	return p.Inventory[item]
}

// Heal restores up to amount hp without exceeding MaxHP and returns the hp gained.
func (p *Player) Heal(amount int) int {
	before := p.HP
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return p.HP - before
}

// HasCompanion reports whether the companion is owned.
func (p *Player) HasCompanion(id string) bool {
	for _, c := range p.Companions {
		if c == id {
			return true
		}
	}
	return false
}

// AddCompanion records a companion, ignoring duplicates.
func (p *Player) AddCompanion(id string) bool {
	if p.HasCompanion(id) {
		return false
	}
	p.Companions = append(p.Companions, id)
	return true
}

// HasAchievement reports whether the achievement was already earned.
func (p *Player) HasAchievement(id string) bool {
	_, ok := p.Achievements[id]
	return ok
}

// ActiveQuests returns the active quest instances ordered by id.
func (p *Player) ActiveQuests() []*Quest {
	return p.questsWithStatus(QuestActive)
}

// CompletedQuestCount returns how many quests the player finished.
func (p *Player) CompletedQuestCount() int {
	return len(p.questsWithStatus(QuestCompleted))
}

func (p *Player) questsWithStatus(status QuestStatus) []*Quest {
	out := make([]*Quest, 0, len(p.Quests))
	for _, q := range p.Quests {
		if q.Status == status {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reward is a bundle of xp, gold and an optional item.
type Reward struct {
	XP   int    `json:"xp"`
	Gold int    `json:"gold"`
	Item string `json:"item,omitempty"`
}

// QuestStatus is the lifecycle state of a quest instance.
type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
)

// Quest represents a quest instance held by a player
type Quest struct {
	ID          string      `json:"id"`
	TemplateID  string      `json:"template_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	TargetType  string      `json:"target_type"`
	Required    int         `json:"required"`
	Progress    int         `json:"progress"`
	Status      QuestStatus `json:"status"`
	Reward      Reward      `json:"reward"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// MaxClanMembers caps clan size.
const MaxClanMembers = 20

// Clan represents a player clan
type Clan struct {
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader_id"`
	Members   []string  `json:"members"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether playerID belongs to the clan.
func (c *Clan) HasMember(playerID string) bool {
	for _, m := range c.Members {
		if m == playerID {
			return true
		}
	}
	return false
}

// RemoveMember drops playerID and hands leadership to the next member.
func (c *Clan) RemoveMember(playerID string) {
	out := c.Members[:0]
	for _, m := range c.Members {
		if m != playerID {
			out = append(out, m)
		}
	}
	c.Members = out
	if c.LeaderID == playerID && len(c.Members) > 0 {
		c.LeaderID = c.Members[0]
	}
}

// Clone returns a deep copy of the clan.
func (c *Clan) Clone() *Clan {
	if c == nil {
		return nil
	}
	cc := *c
	cc.Members = append([]string(nil), c.Members...)
	return &cc
}
