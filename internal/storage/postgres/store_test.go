package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

func mustOpenMigrated(t *testing.T) *Store {
	t.Helper()
	dsn := getTestDSN(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(s.Close)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Migrations are idempotent
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
	return s
}

// uniqueName avoids collisions with rows left by other runs.
func uniqueName(prefix string) string { return prefix + "-" + uuid.NewString() }

func TestStore_Accounts(t *testing.T) {
	s := mustOpenMigrated(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Ready(ctx); err != nil {
		t.Fatalf("ready: %v", err)
	}

	name := uniqueName("alice")
	a, err := s.CreateAccount(ctx, name, "pass1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.AccountID == 0 {
		t.Fatalf("expected generated id")
	}
	if _, err := s.CreateAccount(ctx, name, "pass2"); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got, err := s.AccountByUsername(ctx, name); err != nil || got != a {
		t.Fatalf("by username: %+v %v", got, err)
	}
	if got, err := s.AccountByID(ctx, a.AccountID); err != nil || got != a {
		t.Fatalf("by id: %+v %v", got, err)
	}
	if got, err := s.AccountByCredentials(ctx, name, "pass1"); err != nil || got != a {
		t.Fatalf("credentials: %+v %v", got, err)
	}
	if _, err := s.AccountByCredentials(ctx, name, "nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if ok, err := s.AccountExists(ctx, a.AccountID); err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}
	if ok, err := s.AccountExists(ctx, -1); err != nil || ok {
		t.Fatalf("exists(-1): %v %v", ok, err)
	}

	renamed := a
	renamed.Username = uniqueName("alice-renamed")
	if _, err := s.UpdateAccount(ctx, renamed); err != nil {
		t.Fatalf("update: %v", err)
	}
	other, _ := s.CreateAccount(ctx, uniqueName("bob"), "pass")
	other.Username = renamed.Username
	if _, err := s.UpdateAccount(ctx, other); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict on rename, got %v", err)
	}
	list, err := s.ListAccounts(ctx)
	if err != nil || len(list) < 2 {
		t.Fatalf("list: %d %v", len(list), err)
	}
	if err := s.DeleteAccount(ctx, other.AccountID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteAccount(ctx, other.AccountID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStore_Messages(t *testing.T) {
	s := mustOpenMigrated(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	author, err := s.CreateAccount(ctx, uniqueName("author"), "pass")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	m, err := s.CreateMessage(ctx, social.Message{PostedBy: author.AccountID, MessageText: "hello", TimePostedEpoch: 1669947792})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if m.MessageID == 0 || m.MessageText != "hello" || m.TimePostedEpoch != 1669947792 {
		t.Fatalf("unexpected created: %+v", m)
	}
	second, _ := s.CreateMessage(ctx, social.Message{PostedBy: author.AccountID, MessageText: "again"})

	byAcc, err := s.MessagesByAccountID(ctx, author.AccountID)
	if err != nil || len(byAcc) != 2 || byAcc[0].MessageID != m.MessageID {
		t.Fatalf("by account: %+v %v", byAcc, err)
	}
	empty, err := s.MessagesByAccountID(ctx, -1)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty slice, got %#v %v", empty, err)
	}
	all, err := s.ListMessages(ctx)
	if err != nil || len(all) < 2 {
		t.Fatalf("list: %d %v", len(all), err)
	}

	upd, err := s.UpdateMessageText(ctx, m.MessageID, "edited")
	if err != nil || upd.MessageText != "edited" || upd.PostedBy != author.AccountID {
		t.Fatalf("update: %+v %v", upd, err)
	}
	if _, err := s.UpdateMessageText(ctx, -1, "x"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	del, err := s.DeleteMessage(ctx, second.MessageID)
	if err != nil || del != second {
		t.Fatalf("delete: %+v %v", del, err)
	}
	if _, err := s.MessageByID(ctx, second.MessageID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := s.DeleteMessage(ctx, second.MessageID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStore_ConcurrentRegistrationSingleWinner(t *testing.T) {
	s := mustOpenMigrated(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := uniqueName("race")
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateAccount(ctx, name, "pass")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, errs.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()
	if wins != 1 || conflicts != 7 {
		t.Fatalf("expected 1 win and 7 conflicts, got %d/%d", wins, conflicts)
	}
}
