package progression

import (
	"strings"
	"testing"
	"time"

	"github.com/omega-realm/arena/internal/models"
)

func TestXPThreshold(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 150},
		{3, 200},
		{10, 550},
	}
	for _, tt := range tests {
		if got := XPThreshold(tt.level); got != tt.want {
			t.Fatalf("XPThreshold(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
	for level := 1; level < 200; level++ {
		if XPThreshold(level+1) <= XPThreshold(level) {
			t.Fatalf("threshold not strictly increasing at level %d", level)
		}
	}
}

func TestApplyLevelUpsExactThreshold(t *testing.T) {
	p := models.NewPlayer("1", "a", time.Now())
	p.HP = 10
	p.XP = 100

	got := ApplyLevelUps(p)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("levels = %v, want [2]", got)
	}
	if p.Level != 2 || p.XP != 0 {
		t.Fatalf("level %d xp %d, want level 2 xp 0", p.Level, p.XP)
	}
	if p.MaxHP != models.StartingHP+MaxHPPerLevel || p.HP != p.MaxHP {
		t.Fatalf("hp %d/%d, want full heal to %d", p.HP, p.MaxHP, models.StartingHP+MaxHPPerLevel)
	}
	if p.Attack != models.StartingAttack+1 || p.Defense != models.StartingDefense+1 {
		t.Fatalf("attack %d defense %d", p.Attack, p.Defense)
	}
}

func TestApplyLevelUpsMultipleThresholds(t *testing.T) {
	p := models.NewPlayer("1", "a", time.Now())
	p.XP = 250

	got := ApplyLevelUps(p)
	if p.Level != 3 || p.XP != 0 {
		t.Fatalf("level %d xp %d, want level 3 xp 0", p.Level, p.XP)
	}
	text := got.String()
	if !strings.Contains(text, "level 2") || !strings.Contains(text, "level 3") {
		t.Fatalf("text %q should mention level 2 and level 3", text)
	}
	if strings.Index(text, "level 2") > strings.Index(text, "level 3") {
		t.Fatalf("levels out of order in %q", text)
	}
	// Defense grows on level 2 only; level 3 is odd.
	if p.Defense != models.StartingDefense+1 {
		t.Fatalf("defense = %d, want %d", p.Defense, models.StartingDefense+1)
	}
}

func TestApplyLevelUpsIdempotentBelowThreshold(t *testing.T) {
	p := models.NewPlayer("1", "a", time.Now())
	p.XP = 99
	before := *p

	if got := ApplyLevelUps(p); len(got) != 0 {
		t.Fatalf("levels = %v, want none", got)
	}
	if got := ApplyLevelUps(p); got.String() != "" {
		t.Fatalf("text = %q, want empty", got.String())
	}
	if p.Level != before.Level || p.XP != before.XP || p.MaxHP != before.MaxHP {
		t.Fatal("player changed below threshold")
	}
}
