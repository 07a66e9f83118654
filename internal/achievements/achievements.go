// Package achievements holds the achievement catalog and its set-once checks.
//
// Each achievement listens to exactly one Trigger. Check only evaluates the
// achievements bound to the trigger it receives, never the whole catalog, and
// skips anything already earned. Check records the earn timestamp and returns
// the newly earned ids; applying the reward is left to the caller so several
// triggers fired by one action can feed a single reward pass.
package achievements

import (
	"fmt"
	"time"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
)

// ID identifies an achievement.
type ID string

// Achievement ids.
const (
	FirstBlood         ID = "first_blood"
	CasinoKing         ID = "casino_king"
	RichPlayer         ID = "rich_player"
	LevelMaster        ID = "level_master"
	QuestHunter        ID = "quest_hunter"
	PvPChampion        ID = "pvp_champion"
	PetLover           ID = "pet_lover"
	ClanLeader         ID = "clan_leader"
	BusinessTycoon     ID = "business_tycoon"
	DailyMaster        ID = "daily_master"
	CasinoProfessional ID = "casino_professional"
	InventoryCollector ID = "inventory_collector"
)

// Trigger tags the action that may earn an achievement.
type Trigger string

// Triggers.
const (
	TriggerKill          Trigger = "kill"
	TriggerCasinoWin     Trigger = "casino_win"
	TriggerGold          Trigger = "gold"
	TriggerLevel         Trigger = "level"
	TriggerQuestComplete Trigger = "quest_complete"
	TriggerPvPWin        Trigger = "pvp_win"
	TriggerCompanion     Trigger = "companion"
	TriggerClanCreated   Trigger = "clan_created"
	TriggerBusiness      Trigger = "business"
	TriggerDaily         Trigger = "daily"
	TriggerInventory     Trigger = "inventory"
)

// Thresholds used by the catalog predicates.
const (
	CasinoStreakThreshold    = 5
	GoldThreshold            = 1000
	LevelThreshold           = 10
	QuestCountThreshold      = 10
	PvPWinThreshold          = 20
	CompanionThreshold       = 3
	BusinessThreshold        = 3
	DailyStreakThreshold     = 7
	CasinoTotalWinsThreshold = 50
	DistinctItemsThreshold   = 10
)

// Definition is a static catalog entry.
type Definition struct {
	ID          ID            `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Trigger     Trigger       `json:"trigger"`
	Reward      models.Reward `json:"reward"`

	met func(p *models.Player) bool
}

var catalog = []Definition{
	{
		ID: FirstBlood, Name: "First Blood", Description: "Defeat your first enemy",
		Trigger: TriggerKill, Reward: models.Reward{Gold: 20, XP: 50},
		met: func(*models.Player) bool { return true },
	},
	{
		ID: CasinoKing, Name: "Casino King", Description: "Win 5 casino games in a row",
		Trigger: TriggerCasinoWin, Reward: models.Reward{Gold: 100, XP: 200},
		met: func(p *models.Player) bool { return p.CasinoWinStreak >= CasinoStreakThreshold },
	},
	{
		ID: CasinoProfessional, Name: "Casino Professional", Description: "Win 50 casino games",
		Trigger: TriggerCasinoWin, Reward: models.Reward{Gold: 500, XP: 800},
		met: func(p *models.Player) bool { return p.CasinoTotalWins >= CasinoTotalWinsThreshold },
	},
	{
		ID: RichPlayer, Name: "Rich Player", Description: "Hold 1000 gold",
		Trigger: TriggerGold, Reward: models.Reward{Gold: 200, XP: 300},
		met: func(p *models.Player) bool { return p.Gold >= GoldThreshold },
	},
	{
		ID: LevelMaster, Name: "Level Master", Description: "Reach level 10",
		Trigger: TriggerLevel, Reward: models.Reward{Gold: 500, XP: 1000},
		met: func(p *models.Player) bool { return p.Level >= LevelThreshold },
	},
	{
		ID: QuestHunter, Name: "Quest Hunter", Description: "Complete 10 quests",
		Trigger: TriggerQuestComplete, Reward: models.Reward{Gold: 300, XP: 400},
		met: func(p *models.Player) bool { return p.CompletedQuestCount() >= QuestCountThreshold },
	},
	{
		ID: PvPChampion, Name: "PvP Champion", Description: "Win 20 duels",
		Trigger: TriggerPvPWin, Reward: models.Reward{Gold: 400, XP: 500},
		met: func(p *models.Player) bool { return p.PvPWins >= PvPWinThreshold },
	},
	{
		ID: PetLover, Name: "Pet Lover", Description: "Own 3 companions",
		Trigger: TriggerCompanion, Reward: models.Reward{Gold: 150, XP: 200},
		met: func(p *models.Player) bool { return len(p.Companions) >= CompanionThreshold },
	},
	{
		ID: ClanLeader, Name: "Clan Leader", Description: "Found a clan",
		Trigger: TriggerClanCreated, Reward: models.Reward{Gold: 250, XP: 300},
		met: func(*models.Player) bool { return true },
	},
	{
		ID: BusinessTycoon, Name: "Business Tycoon", Description: "Own 3 businesses",
		Trigger: TriggerBusiness, Reward: models.Reward{Gold: 300, XP: 400},
		met: func(p *models.Player) bool { return len(p.Businesses) >= BusinessThreshold },
	},
	{
		ID: DailyMaster, Name: "Daily Master", Description: "Claim 7 daily rewards in a row",
		Trigger: TriggerDaily, Reward: models.Reward{Gold: 400, XP: 600},
		met: func(p *models.Player) bool { return p.DailyStreak >= DailyStreakThreshold },
	},
	{
		ID: InventoryCollector, Name: "Collector", Description: "Hold 10 different items",
		Trigger: TriggerInventory, Reward: models.Reward{Gold: 200, XP: 300},
		met: func(p *models.Player) bool { return len(p.Inventory) >= DistinctItemsThreshold },
	},
}

var byID = func() map[ID]Definition {
	m := make(map[ID]Definition, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// All returns the catalog in display order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for id.
func Lookup(id ID) (Definition, error) {
	d, ok := byID[id]
	if !ok {
		return Definition{}, apperrors.WithMetadata(apperrors.CodeUnknownAchievement,
			fmt.Sprintf("unknown achievement %q", id), map[string]string{"id": string(id)})
	}
	return d, nil
}

// Check evaluates the achievements bound to trigger and records the ones the
// player now meets. Already earned achievements are skipped without evaluation.
func Check(p *models.Player, trigger Trigger, now time.Time) []ID {
	var earned []ID
	for _, d := range catalog {
		if d.Trigger != trigger || p.HasAchievement(string(d.ID)) {
			continue
		}
		if !d.met(p) {
			continue
		}
		if p.Achievements == nil {
			p.Achievements = make(map[string]time.Time)
		}
		p.Achievements[string(d.ID)] = now
		earned = append(earned, d.ID)
	}
	return earned
}

// CheckAll runs Check for each trigger in order and concatenates the results.
func CheckAll(p *models.Player, now time.Time, triggers ...Trigger) []ID {
	var earned []ID
	for _, t := range triggers {
		earned = append(earned, Check(p, t, now)...)
	}
	return earned
}

// ApplyReward credits the reward bundle of id directly to the player. It does
// not evaluate achievements or leveling, so it can never cascade.
func ApplyReward(p *models.Player, id ID) (models.Reward, error) {
	d, err := Lookup(id)
	if err != nil {
		return models.Reward{}, err
	}
	p.Gold += d.Reward.Gold
	p.XP += d.Reward.XP
	p.AddItem(d.Reward.Item, 1)
	return d.Reward, nil
}

// Award is an earned achievement together with the reward it paid out.
type Award struct {
	ID     ID            `json:"id"`
	Name   string        `json:"name"`
	Reward models.Reward `json:"reward"`
}

// String renders the award line shown after an action.
func (a Award) String() string {
	return fmt.Sprintf("\nAchievement %s: +%d gold +%d XP", a.Name, a.Reward.Gold, a.Reward.XP)
}

// Settle applies the rewards of every id and returns the matching awards.
func Settle(p *models.Player, ids []ID) []Award {
	awards := make([]Award, 0, len(ids))
	for _, id := range ids {
		reward, err := ApplyReward(p, id)
		if err != nil {
			continue
		}
		awards = append(awards, Award{ID: id, Name: byID[id].Name, Reward: reward})
	}
	return awards
}
