package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&Config{Host: mr.Host(), Port: mr.Port(), PoolSize: 2, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_PORT", "6380")
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "localhost" || cfg.Port != "6380" || cfg.PoolSize != 10 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestNewClientUnreachable(t *testing.T) {
	_, err := NewClient(&Config{Host: "127.0.0.1", Port: "1", DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.RecordMonsterKill(ctx, "a", "Ayla"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := c.RecordMonsterKill(ctx, "b", "Bran"); err != nil {
		t.Fatalf("record: %v", err)
	}

	top, err := c.Top(ctx, BoardMonster, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].PlayerID != "a" || top[0].Score != 3 || top[0].Rank != 1 {
		t.Fatalf("top = %+v", top)
	}
	if top[0].PlayerName != "Ayla" || top[1].PlayerName != "Bran" {
		t.Fatalf("names = %q, %q", top[0].PlayerName, top[1].PlayerName)
	}
}

func TestRecordDuel(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if err := c.RecordDuel(ctx, "w", "Winner", "l", "Loser"); err != nil {
		t.Fatalf("record: %v", err)
	}
	win, err := c.Rank(ctx, BoardPvP, "w")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if win.Score != 1 || win.Rank != 1 || win.PlayerName != "Winner" {
		t.Fatalf("winner = %+v", win)
	}
	if _, err := c.Rank(ctx, BoardPvP, "l"); err == nil {
		t.Fatal("loser should not be on the pvp board")
	}
	deaths, err := c.Top(ctx, BoardDeaths, 5)
	if err != nil || len(deaths) != 1 || deaths[0].PlayerID != "l" {
		t.Fatalf("deaths = %+v, %v", deaths, err)
	}

	if err := c.RemovePlayer(ctx, "w"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if top, _ := c.Top(ctx, BoardPvP, 5); len(top) != 0 {
		t.Fatalf("top after remove = %+v", top)
	}
}

func TestTopUnknownBoard(t *testing.T) {
	c, _ := newTestClient(t)
	if _, err := c.Top(context.Background(), Board("gold"), 5); err == nil {
		t.Fatal("expected error for unknown board")
	}
}

func TestEncounterStoreRoundTrip(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	s := NewEncounterStore(c, time.Minute)

	enc := &combat.Encounter{Enemy: &combat.Enemy{Type: "rat", Name: "Rat", HP: 12, MaxHP: 30}, AbilityUsed: true}
	if err := s.Save(ctx, "p1", enc); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Enemy.HP != 12 || !got.AbilityUsed {
		t.Fatalf("encounter = %+v", got)
	}
	if n, _ := s.ActiveCount(ctx); n != 1 {
		t.Fatalf("active = %d, want 1", n)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := s.Load(ctx, "p1"); !errors.Is(err, apperrors.ErrNoEncounter) {
		t.Fatalf("error = %v, want no encounter after ttl", err)
	}
	if n, _ := s.ActiveCount(ctx); n != 0 {
		t.Fatalf("active = %d after expiry, want 0", n)
	}
}

func TestEncounterStoreDelete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	s := NewEncounterStore(c, time.Minute)

	_ = s.Save(ctx, "p1", &combat.Encounter{Enemy: &combat.Enemy{Type: "wolf"}})
	if err := s.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Load(ctx, "p1"); !errors.Is(err, apperrors.ErrNoEncounter) {
		t.Fatalf("error = %v, want no encounter", err)
	}
}
