package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/vovakirdan/ichi/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewWithSetup(":memory:", Migrate)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 || user.Username != "alice" || user.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := s.CreateUser(ctx, "alice", "other"); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUserByUsername(context.Background(), "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordGameUpdatesStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, u := range []string{"alice", "bob"} {
		if _, err := s.CreateUser(ctx, u, "hash"); err != nil {
			t.Fatalf("create user %s: %v", u, err)
		}
	}

	games := []struct {
		players []string
		winner  string
	}{
		{[]string{"alice", "bob"}, "alice"},
		{[]string{"alice", "bob", "guest_x"}, "guest_x"},
		{[]string{"bob", "alice"}, "alice"},
	}
	for _, g := range games {
		if err := s.RecordGame(ctx, g.players, g.winner); err != nil {
			t.Fatalf("record game: %v", err)
		}
	}

	tests := []struct {
		name        string
		played, won int
	}{
		{"alice", 3, 2},
		{"bob", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := s.GetStats(ctx, tt.name)
			if err != nil {
				t.Fatalf("get stats: %v", err)
			}
			if stats.GamesPlayed != tt.played || stats.GamesWon != tt.won {
				t.Fatalf("expected %d/%d, got %+v", tt.played, tt.won, stats)
			}
		})
	}

	if _, err := s.GetStats(ctx, "guest_x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unregistered player, got %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	err := Migrate(s.db)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil && !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("count users: %v", err)
	}
}
