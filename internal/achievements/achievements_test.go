package achievements

import (
	"errors"
	"strconv"
	"testing"
	"time"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
)

func newPlayer() *models.Player {
	return models.NewPlayer("1", "tester", time.Unix(0, 0))
}

func TestCheckIsSetOnce(t *testing.T) {
	p := newPlayer()
	now := time.Unix(100, 0)

	first := Check(p, TriggerKill, now)
	if len(first) != 1 || first[0] != FirstBlood {
		t.Fatalf("earned = %v, want [first_blood]", first)
	}
	if got := p.Achievements[string(FirstBlood)]; !got.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", got, now)
	}

	second := Check(p, TriggerKill, now.Add(time.Hour))
	if len(second) != 0 {
		t.Fatalf("earned again = %v", second)
	}
	if got := p.Achievements[string(FirstBlood)]; !got.Equal(now) {
		t.Fatal("timestamp overwritten on second check")
	}
}

func TestCheckScopedToTrigger(t *testing.T) {
	p := newPlayer()
	p.Gold = 5000
	p.Level = 12

	if got := Check(p, TriggerKill, time.Now()); len(got) != 1 || got[0] != FirstBlood {
		t.Fatalf("kill earned = %v, want only first_blood", got)
	}
	if p.HasAchievement(string(RichPlayer)) || p.HasAchievement(string(LevelMaster)) {
		t.Fatal("unrelated achievements evaluated on kill trigger")
	}
}

func TestCheckThresholds(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		setup   func(p *models.Player)
		want    []ID
	}{
		{"gold below", TriggerGold, func(p *models.Player) { p.Gold = 999 }, nil},
		{"gold at", TriggerGold, func(p *models.Player) { p.Gold = 1000 }, []ID{RichPlayer}},
		{"level at", TriggerLevel, func(p *models.Player) { p.Level = 10 }, []ID{LevelMaster}},
		{"pvp at", TriggerPvPWin, func(p *models.Player) { p.PvPWins = 20 }, []ID{PvPChampion}},
		{"pvp below", TriggerPvPWin, func(p *models.Player) { p.PvPWins = 19 }, nil},
		{"streak", TriggerCasinoWin, func(p *models.Player) { p.CasinoWinStreak = 5 }, []ID{CasinoKing}},
		{"streak and total", TriggerCasinoWin, func(p *models.Player) {
			p.CasinoWinStreak = 5
			p.CasinoTotalWins = 50
		}, []ID{CasinoKing, CasinoProfessional}},
		{"total only", TriggerCasinoWin, func(p *models.Player) { p.CasinoTotalWins = 50 }, []ID{CasinoProfessional}},
		{"companions", TriggerCompanion, func(p *models.Player) {
			p.AddCompanion("cat")
			p.AddCompanion("owl")
			p.AddCompanion("wolf")
		}, []ID{PetLover}},
		{"clan", TriggerClanCreated, func(*models.Player) {}, []ID{ClanLeader}},
		{"business", TriggerBusiness, func(p *models.Player) {
			p.Businesses = map[string]int{"stall": 1, "shop": 1, "farm": 1}
		}, []ID{BusinessTycoon}},
		{"daily", TriggerDaily, func(p *models.Player) { p.DailyStreak = 7 }, []ID{DailyMaster}},
		{"inventory", TriggerInventory, func(p *models.Player) {
			for i := 0; i < 10; i++ {
				p.AddItem("item-"+strconv.Itoa(i), 1)
			}
		}, []ID{InventoryCollector}},
		{"quests", TriggerQuestComplete, func(p *models.Player) {
			for i := 0; i < 10; i++ {
				id := "q" + strconv.Itoa(i)
				p.Quests[id] = &models.Quest{ID: id, Status: models.QuestCompleted}
			}
		}, []ID{QuestHunter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer()
			tt.setup(p)
			got := Check(p, tt.trigger, time.Now())
			if len(got) != len(tt.want) {
				t.Fatalf("earned = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("earned = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestApplyRewardDoesNotCascade(t *testing.T) {
	p := newPlayer()
	p.Gold = 900

	reward, err := ApplyReward(p, RichPlayer)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if reward.Gold != 200 || p.Gold != 1100 {
		t.Fatalf("gold = %d, reward %+v", p.Gold, reward)
	}
	if p.HasAchievement(string(RichPlayer)) {
		t.Fatal("ApplyReward must not evaluate achievements")
	}
	if p.Level != 1 || p.XP != 300 {
		t.Fatalf("level %d xp %d, want level 1 xp 300 (no leveling)", p.Level, p.XP)
	}
}

func TestApplyRewardUnknown(t *testing.T) {
	_, err := ApplyReward(newPlayer(), ID("nope"))
	if !errors.Is(err, apperrors.ErrUnknownAchievement) {
		t.Fatalf("error = %v, want unknown achievement", err)
	}
}

func TestSettle(t *testing.T) {
	p := newPlayer()
	awards := Settle(p, []ID{FirstBlood, ID("ghost"), ClanLeader})
	if len(awards) != 2 {
		t.Fatalf("awards = %v, want 2", awards)
	}
	if p.Gold != models.StartingGold+20+250 {
		t.Fatalf("gold = %d", p.Gold)
	}
	if awards[0].String() == "" {
		t.Fatal("expected award text")
	}
}
