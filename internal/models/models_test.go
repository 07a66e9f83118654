package models

import (
	"testing"
	"time"
)

func TestNewPlayerStartingKit(t *testing.T) {
	p := NewPlayer("42", "Ayla", time.Unix(0, 0))
	if p.Level != 1 || p.HP != StartingHP || p.MaxHP != StartingHP {
		t.Fatalf("unexpected starting vitals: level %d hp %d/%d", p.Level, p.HP, p.MaxHP)
	}
	if p.Gold != StartingGold {
		t.Fatalf("gold = %d, want %d", p.Gold, StartingGold)
	}
	if got := p.ItemCount(ItemSmallPotion); got != StartingPotions {
		t.Fatalf("potions = %d, want %d", got, StartingPotions)
	}
	if p.Class != ClassNone {
		t.Fatalf("class = %q, want unset", p.Class)
	}
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	p := &Player{ID: "1", HP: 500, MaxHP: 100, Gold: -3, Inventory: map[string]int{"Rock": 0}}
	p.Normalize()

	if p.Level != 1 {
		t.Fatalf("level = %d, want 1", p.Level)
	}
	if p.HP != 100 {
		t.Fatalf("hp = %d, want clamp to 100", p.HP)
	}
	if p.Gold != 0 {
		t.Fatalf("gold = %d, want 0", p.Gold)
	}
	if _, ok := p.Inventory["Rock"]; ok {
		t.Fatal("expected zero-count entry removed")
	}
	if p.Quests == nil || p.Achievements == nil || p.Businesses == nil || p.Companions == nil {
		t.Fatal("expected collections initialised")
	}
}

func TestConsumeItem(t *testing.T) {
	p := NewPlayer("1", "a", time.Now())

	if !p.ConsumeItem(ItemSmallPotion, 1) {
		t.Fatal("expected first potion consumed")
	}
	if got := p.ItemCount(ItemSmallPotion); got != 1 {
		t.Fatalf("potions = %d, want 1", got)
	}
	if !p.ConsumeItem(ItemSmallPotion, 1) {
		t.Fatal("expected second potion consumed")
	}
	if _, ok := p.Inventory[ItemSmallPotion]; ok {
		t.Fatal("expected entry removed at zero")
	}
	if p.ConsumeItem(ItemSmallPotion, 1) {
		t.Fatal("expected consume to fail on empty inventory")
	}
}

func TestHealCapsAtMax(t *testing.T) {
	p := NewPlayer("1", "a", time.Now())
	p.HP = 90
	if got := p.Heal(35); got != 10 {
		t.Fatalf("healed = %d, want 10", got)
	}
	if p.HP != p.MaxHP {
		t.Fatalf("hp = %d, want %d", p.HP, p.MaxHP)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := NewPlayer("1", "a", time.Now())
	p.Quests["q"] = &Quest{ID: "q", Progress: 1, Status: QuestActive}
	p.AddCompanion("cat")

	c := p.Clone()
	c.Inventory[ItemSmallPotion] = 99
	c.Quests["q"].Progress = 3
	c.Companions[0] = "dragon"

	if p.ItemCount(ItemSmallPotion) != StartingPotions {
		t.Fatal("inventory shared with clone")
	}
	if p.Quests["q"].Progress != 1 {
		t.Fatal("quest shared with clone")
	}
	if p.Companions[0] != "cat" {
		t.Fatal("companions shared with clone")
	}
}

func TestEffectiveStatsAddsCompanions(t *testing.T) {
	p := NewPlayer("1", "a", time.Now())
	p.ApplyClass(ClassWarrior)
	p.AddCompanion("dragon")
	p.AddCompanion("phoenix")
	p.AddCompanion("dragon")

	s := p.EffectiveStats()
	if s.Attack != 12 || s.Defense != 7 || s.MaxHP != 160 {
		t.Fatalf("stats = %+v, want attack 12 defense 7 max hp 160", s)
	}
	if p.Attack != 7 {
		t.Fatalf("base attack mutated to %d", p.Attack)
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		in   string
		want Class
		ok   bool
	}{
		{"Warrior", ClassWarrior, true},
		{" mage ", ClassMage, true},
		{"rogue", ClassRogue, true},
		{"bard", Class("bard"), false},
	}
	for _, tt := range tests {
		got, ok := ParseClass(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseClass(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClanRemoveMemberPassesLeadership(t *testing.T) {
	c := &Clan{Name: "Wolves", LeaderID: "1", Members: []string{"1", "2", "3"}}
	c.RemoveMember("1")
	if c.LeaderID != "2" {
		t.Fatalf("leader = %s, want 2", c.LeaderID)
	}
	if c.HasMember("1") || len(c.Members) != 2 {
		t.Fatalf("members = %v", c.Members)
	}
}
