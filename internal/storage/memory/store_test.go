package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/storage"
)

func TestGetPlayerNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetPlayer(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestCommitStoresCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := models.NewPlayer("1", "a", time.Unix(0, 0))

	if err := s.Commit(ctx, storage.Batch{Players: []*models.Player{p}}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	p.Gold = 999

	got, err := s.GetPlayer(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Gold != models.StartingGold {
		t.Fatalf("gold = %d, stored record aliased the caller's", got.Gold)
	}
	got.Inventory["x"] = 1
	again, _ := s.GetPlayer(ctx, "1")
	if again.ItemCount("x") != 0 {
		t.Fatal("get returned a shared record")
	}
}

func TestCommitClanLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	clan := &models.Clan{Name: "Wolves", LeaderID: "1", Members: []string{"1"}}

	if err := s.Commit(ctx, storage.Batch{NewClans: []*models.Clan{clan}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	p := models.NewPlayer("2", "b", time.Unix(0, 0))
	err := s.Commit(ctx, storage.Batch{Players: []*models.Player{p}, NewClans: []*models.Clan{clan}})
	if !errors.Is(err, apperrors.ErrClanExists) {
		t.Fatalf("error = %v, want clan exists", err)
	}
	if _, err := s.GetPlayer(ctx, "2"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatal("failed batch partially applied")
	}

	if err := s.Commit(ctx, storage.Batch{DeleteClans: []string{"Wolves"}}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetClan(ctx, "Wolves"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}
