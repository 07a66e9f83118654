package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/storage"
)

func openTempStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPlayerRoundTrip(t *testing.T) {
	store := openTempStore(t, filepath.Join(t.TempDir(), "arena.db"))
	ctx := context.Background()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	p := models.NewPlayer("42", "Ayla", now)
	p.ApplyClass(models.ClassMage)
	p.AddCompanion("owl")
	p.Quests["rat_hunter"] = &models.Quest{ID: "rat_hunter", TargetType: "rat", Required: 3, Progress: 2, Status: models.QuestActive}
	p.Achievements["first_blood"] = now
	p.LastAdventure = &now

	if err := store.Commit(ctx, storage.Batch{Players: []*models.Player{p}}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err := store.GetPlayer(ctx, "42")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Class != models.ClassMage || got.MaxHP != 95 || !got.HasCompanion("owl") {
		t.Fatalf("player = %+v", got)
	}
	if got.Quests["rat_hunter"].Progress != 2 {
		t.Fatalf("quest progress = %d, want 2", got.Quests["rat_hunter"].Progress)
	}
	if !got.Achievements["first_blood"].Equal(now) {
		t.Fatalf("achievement time = %v, want %v", got.Achievements["first_blood"], now)
	}
	if got.LastAdventure == nil || !got.LastAdventure.Equal(now) {
		t.Fatalf("last adventure = %v", got.LastAdventure)
	}

	p.Gold = 7
	if err := store.Commit(ctx, storage.Batch{Players: []*models.Player{p}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := store.GetPlayer(ctx, "42"); got.Gold != 7 {
		t.Fatalf("gold = %d, want 7", got.Gold)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTempStore(t, filepath.Join(t.TempDir(), "arena.db"))
	if _, err := store.GetPlayer(context.Background(), "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
	if _, err := store.GetClan(context.Background(), "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestNewClanConflictRollsBack(t *testing.T) {
	store := openTempStore(t, filepath.Join(t.TempDir(), "arena.db"))
	ctx := context.Background()
	clan := &models.Clan{Name: "Wolves", LeaderID: "1", Members: []string{"1"}, Level: 1}

	if err := store.Commit(ctx, storage.Batch{NewClans: []*models.Clan{clan}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	p := models.NewPlayer("2", "b", time.Now())
	p.Clan = "Wolves"
	err := store.Commit(ctx, storage.Batch{Players: []*models.Player{p}, NewClans: []*models.Clan{clan}})
	if !errors.Is(err, apperrors.ErrClanExists) {
		t.Fatalf("error = %v, want clan exists", err)
	}
	if _, err := store.GetPlayer(ctx, "2"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatal("player written by a rolled back batch")
	}

	clan.Members = append(clan.Members, "3")
	if err := store.Commit(ctx, storage.Batch{Clans: []*models.Clan{clan}}); err != nil {
		t.Fatalf("update clan: %v", err)
	}
	got, err := store.GetClan(ctx, "Wolves")
	if err != nil || len(got.Members) != 2 {
		t.Fatalf("clan = %+v, %v", got, err)
	}
	if err := store.Commit(ctx, storage.Batch{DeleteClans: []string{"Wolves"}}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetClan(ctx, "Wolves"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := models.NewPlayer("1", "a", time.Now())
	if err := first.Commit(context.Background(), storage.Batch{Players: []*models.Player{p}}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := openTempStore(t, path)
	if _, err := second.GetPlayer(context.Background(), "1"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestExtractUp(t *testing.T) {
	got := extractUp("-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;")
	if got != "\nCREATE TABLE a (x);\n" {
		t.Fatalf("extractUp = %q", got)
	}
}
