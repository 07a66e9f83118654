package duel

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
)

// fixedRand always draws zero, so the challenger moves first.
type fixedRand struct{}

func (fixedRand) Intn(int) int     { return 0 }
func (fixedRand) Float64() float64 { return 0 }

func newManager() *Manager {
	var mu sync.Mutex
	n := 0
	return NewManager(fixedRand{}, func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "duel-" + strconv.Itoa(n)
	}, func() time.Time { return time.Unix(1000, 0) })
}

func player(id string, level int) *models.Player {
	p := models.NewPlayer(id, "p"+id, time.Unix(0, 0))
	p.ApplyClass(models.ClassWarrior)
	p.Level = level
	return p
}

func TestCreateRequestSelfTarget(t *testing.T) {
	m := newManager()
	a := player("a", 1)
	if _, err := m.CreateRequest(a, a); !errors.Is(err, apperrors.ErrSelfTarget) {
		t.Fatalf("error = %v, want self target", err)
	}
}

func TestDeclineAndCancel(t *testing.T) {
	m := newManager()
	a, b := player("a", 1), player("b", 1)

	req, err := m.CreateRequest(a, b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Decline(req.ID, a.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("challenger decline error = %v, want forbidden", err)
	}
	if _, err := m.Cancel(req.ID, b.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("target cancel error = %v, want forbidden", err)
	}
	got, err := m.Decline(req.ID, b.ID)
	if err != nil || got.Status != StatusDeclined {
		t.Fatalf("decline = %+v, %v", got, err)
	}
	if _, err := m.Request(req.ID); !errors.Is(err, apperrors.ErrRequestNotFound) {
		t.Fatalf("declined request still resolves: %v", err)
	}

	req, _ = m.CreateRequest(a, b)
	if got, err := m.Cancel(req.ID, a.ID); err != nil || got.Status != StatusCancelled {
		t.Fatalf("cancel = %+v, %v", got, err)
	}
	if _, err := m.Accept(req.ID, b.ID, a, b); !errors.Is(err, apperrors.ErrRequestNotFound) {
		t.Fatalf("accept after cancel error = %v", err)
	}
}

func TestAcceptWhileBusyKeepsRequestPending(t *testing.T) {
	m := newManager()
	a, b, c := player("a", 1), player("b", 1), player("c", 1)

	first, _ := m.CreateRequest(a, b)
	second, _ := m.CreateRequest(c, b)

	if _, err := m.Accept(first.ID, b.ID, a, b); err != nil {
		t.Fatalf("accept first: %v", err)
	}
	if _, err := m.Accept(second.ID, b.ID, c, b); !errors.Is(err, apperrors.ErrBusy) {
		t.Fatalf("accept second error = %v, want busy", err)
	}
	req, err := m.Request(second.ID)
	if err != nil || req.Status != StatusPending {
		t.Fatalf("second request = %+v, %v; want pending", req, err)
	}
	if _, err := m.Accept(first.ID, b.ID, a, b); !errors.Is(err, apperrors.ErrAlreadyResolved) {
		t.Fatalf("re-accept error = %v, want already resolved", err)
	}
	if _, err := m.CreateRequest(c, a); !errors.Is(err, apperrors.ErrBusy) {
		t.Fatalf("challenge busy player error = %v, want busy", err)
	}
}

func TestExclusionUnderConcurrentAccepts(t *testing.T) {
	m := newManager()
	target := player("t", 1)
	const n = 20
	ids := make([]string, n)
	challengers := make([]*models.Player, n)
	for i := range ids {
		challengers[i] = player("c"+strconv.Itoa(i), 1)
		req, err := m.CreateRequest(challengers[i], target)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids[i] = req.ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := m.Accept(ids[i], target.ID, challengers[i], target); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("accepted = %d, want exactly 1", accepted)
	}
	if m.ActiveCount() != 1 {
		t.Fatalf("active duels = %d, want 1", m.ActiveCount())
	}
}

func TestActTurnRules(t *testing.T) {
	m := newManager()
	a, b := player("a", 1), player("b", 1)
	req, _ := m.CreateRequest(a, b)
	v, err := m.Accept(req.ID, b.ID, a, b)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if v.TurnID != a.ID {
		t.Fatalf("turn = %s, want %s", v.TurnID, a.ID)
	}

	if _, err := m.Act(v.ID, b.ID, combat.ActionAttack, b); !errors.Is(err, apperrors.ErrNotYourTurn) {
		t.Fatalf("error = %v, want not your turn", err)
	}
	if _, err := m.Act(v.ID, "z", combat.ActionAttack, player("z", 1)); !errors.Is(err, apperrors.ErrNotParticipant) {
		t.Fatalf("error = %v, want not participant", err)
	}
	if _, err := m.Act(v.ID, a.ID, combat.ActionFlee, a); !errors.Is(err, apperrors.ErrInvalidAction) {
		t.Fatalf("error = %v, want invalid action", err)
	}

	res, err := m.Act(v.ID, a.ID, combat.ActionAbility, a)
	if err != nil {
		t.Fatalf("ability: %v", err)
	}
	// Warrior 7 attack vs warrior 4 defense: (7-2) doubled.
	if res.Damage != 10 || res.View.Sides[1].HP != 100 || res.View.TurnID != b.ID {
		t.Fatalf("result = %+v", res)
	}

	// A potion with none in stock still passes the turn.
	b.ConsumeItem(models.ItemSmallPotion, models.StartingPotions)
	res, err = m.Act(v.ID, b.ID, combat.ActionPotion, b)
	if err != nil {
		t.Fatalf("potion: %v", err)
	}
	if !res.Fizzled || res.View.TurnID != a.ID {
		t.Fatalf("result = %+v, want fizzled potion and turn back to a", res)
	}

	if _, err := m.Act(v.ID, a.ID, combat.ActionAbility, a); !errors.Is(err, apperrors.ErrAbilityUsed) {
		t.Fatalf("error = %v, want ability used", err)
	}
	if view, _ := m.View(v.ID); view.TurnID != a.ID {
		t.Fatal("rejected ability flipped the turn")
	}
}

func TestDuelLogIsBounded(t *testing.T) {
	m := newManager()
	a, b := player("a", 1), player("b", 1)
	a.AddItem(models.ItemSmallPotion, 10)
	b.AddItem(models.ItemSmallPotion, 10)
	req, _ := m.CreateRequest(a, b)
	v, _ := m.Accept(req.ID, b.ID, a, b)

	actors := []*models.Player{a, b}
	for i := 0; i < 10; i++ {
		p := actors[i%2]
		if _, err := m.Act(v.ID, p.ID, combat.ActionPotion, p); err != nil {
			t.Fatalf("potion %d: %v", i, err)
		}
	}
	view, _ := m.View(v.ID)
	if len(view.Log) != LogSize {
		t.Fatalf("log length = %d, want %d", len(view.Log), LogSize)
	}
}

func TestDuelEndToEnd(t *testing.T) {
	m := newManager()
	a, b := player("a", 5), player("b", 5)
	goldA, xpA, xpB := a.Gold, a.XP, b.XP

	req, _ := m.CreateRequest(a, b)
	v, err := m.Accept(req.ID, b.ID, a, b)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	var res ActResult
	turn := []*models.Player{a, b}
	for i := 0; !res.Ended; i++ {
		if i > 100 {
			t.Fatal("duel did not end")
		}
		actor := turn[i%2]
		action := combat.ActionAttack
		if actor == b {
			// b only drinks potions (two of them) and then waits.
			action = combat.ActionPotion
		}
		res, err = m.Act(v.ID, actor.ID, action, actor)
		if err != nil {
			t.Fatalf("act %d: %v", i, err)
		}
	}
	if res.WinnerID != a.ID || res.LoserID != b.ID {
		t.Fatalf("winner %s loser %s", res.WinnerID, res.LoserID)
	}

	c := Conclude(a, b, time.Now())
	if a.Gold != goldA+WinnerGold || a.XP != xpA+WinnerXP || a.PvPWins != 1 {
		t.Fatalf("winner gold %d xp %d wins %d", a.Gold, a.XP, a.PvPWins)
	}
	if b.XP != xpB+LoserXP || b.PvPLosses != 1 {
		t.Fatalf("loser xp %d losses %d", b.XP, b.PvPLosses)
	}
	if len(c.Achievements) != 0 {
		t.Fatalf("achievements = %+v", c.Achievements)
	}
	if m.InDuel(a.ID) || m.InDuel(b.ID) {
		t.Fatal("players still in the exclusion map")
	}
	if _, err := m.View(v.ID); !errors.Is(err, apperrors.ErrDuelNotFound) {
		t.Fatalf("view error = %v, want duel not found", err)
	}
	if _, err := m.Act(v.ID, a.ID, combat.ActionAttack, a); !errors.Is(err, apperrors.ErrDuelNotFound) {
		t.Fatalf("act error = %v, want duel not found", err)
	}
	if _, err := m.Request(req.ID); !errors.Is(err, apperrors.ErrRequestNotFound) {
		t.Fatal("accepted request outlived the duel")
	}
}

func TestSurrenderOutOfTurn(t *testing.T) {
	m := newManager()
	a, b := player("a", 1), player("b", 1)
	req, _ := m.CreateRequest(a, b)
	v, _ := m.Accept(req.ID, b.ID, a, b)

	res, err := m.Act(v.ID, b.ID, combat.ActionSurrender, b)
	if err != nil {
		t.Fatalf("surrender: %v", err)
	}
	if !res.Ended || !res.Surrender || res.WinnerID != a.ID {
		t.Fatalf("result = %+v", res)
	}
}

func TestConcludePvPChampion(t *testing.T) {
	a, b := player("a", 5), player("b", 5)
	a.PvPWins = 19
	c := Conclude(a, b, time.Now())
	if len(c.Achievements) != 1 || a.PvPWins != 20 {
		t.Fatalf("achievements = %+v wins %d", c.Achievements, a.PvPWins)
	}
}

func TestAcceptFreezesEffectiveStats(t *testing.T) {
	m := newManager()
	a, b := player("a", 1), player("b", 1)
	a.AddCompanion("dragon")
	a.AddCompanion("phoenix")

	req, _ := m.CreateRequest(a, b)
	v, err := m.Accept(req.ID, b.ID, a, b)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	want := Side{HP: 160, MaxHP: 160, Attack: 12, Defense: 7}
	if v.Sides[0] != want {
		t.Fatalf("challenger side = %+v, want %+v", v.Sides[0], want)
	}
	if plain := (Side{HP: 110, MaxHP: 110, Attack: 7, Defense: 4}); v.Sides[1] != plain {
		t.Fatalf("target side = %+v, want %+v", v.Sides[1], plain)
	}

	a.AddCompanion("wolf")
	a.Attack += 10
	a.MaxHP += 50
	b.Defense += 5

	got, err := m.View(v.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got.Sides != v.Sides {
		t.Fatalf("sides changed after acceptance: %+v, want %+v", got.Sides, v.Sides)
	}
}

func TestActAndCommitFailureLeavesDuel(t *testing.T) {
	m := newManager()
	a, b := player("a", 1), player("b", 1)
	req, _ := m.CreateRequest(a, b)
	v, err := m.Accept(req.ID, b.ID, a, b)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	diskFull := errors.New("disk full")
	_, err = m.ActAndCommit(v.ID, b.ID, combat.ActionSurrender, b, func(res ActResult) error {
		if !res.Ended || res.WinnerID != a.ID {
			t.Fatalf("commit saw %+v, want a ended duel won by a", res)
		}
		return diskFull
	})
	if !errors.Is(err, diskFull) {
		t.Fatalf("error = %v, want disk full", err)
	}
	if !m.InDuel(a.ID) || !m.InDuel(b.ID) {
		t.Fatal("players released after failed commit")
	}
	got, err := m.View(v.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got.Concluded || got.Sides != v.Sides || len(got.Log) != len(v.Log) || got.TurnID != v.TurnID {
		t.Fatalf("duel changed after failed commit: %+v", got)
	}

	res, err := m.ActAndCommit(v.ID, b.ID, combat.ActionSurrender, b, func(ActResult) error { return nil })
	if err != nil || !res.Ended {
		t.Fatalf("retry = %+v, %v", res, err)
	}
	if m.InDuel(a.ID) || m.InDuel(b.ID) {
		t.Fatal("players still mapped after conclusion")
	}
}
