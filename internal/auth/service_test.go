package auth

import (
	"context"
	"errors"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/ichi/internal/store/sqlite"
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newTestAuthService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", sqlite.Migrate)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return NewService(st, st)
}

func TestCreateAccount_RejectsMalformedCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	for _, tc := range [][2]string{{"", "pw"}, {"alice", ""}, {"al ice", "pw"}, {"alice", "p w"}} {
		if err := svc.CreateAccount(ctx, tc[0], tc[1]); !errors.Is(err, ErrMalformedCredentials) {
			t.Fatalf("CreateAccount(%q, %q): expected ErrMalformedCredentials, got %v", tc[0], tc[1], err)
		}
	}
}

func TestCreateAccount_RejectsDuplicate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.CreateAccount(ctx, "alice", "password123"); err != nil {
		t.Fatalf("expected registration success, got %v", err)
	}
	if err := svc.CreateAccount(ctx, "alice", "password123"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.CreateAccount(ctx, "alice", "password123"); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if err := svc.Login(ctx, "alice", "password123"); err != nil {
		t.Fatalf("expected login success, got %v", err)
	}
	if err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.Login(ctx, "nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestStatisticsAfterGames(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.CreateAccount(ctx, "alice", "pw"); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if err := svc.RecordGame(ctx, []string{"alice", "guest_1"}, "alice"); err != nil {
		t.Fatalf("record game: %v", err)
	}

	stats, err := svc.Statistics(ctx, "alice")
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.GamesPlayed != 1 || stats.GamesWon != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if _, err := svc.Statistics(ctx, "guest_1"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}
