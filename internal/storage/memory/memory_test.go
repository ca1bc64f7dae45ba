package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

func TestStore_Accounts(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.CreateAccount(ctx, "alice", "pass1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.AccountID != 1 {
		t.Fatalf("expected first id 1, got %d", a.AccountID)
	}
	if _, err := s.CreateAccount(ctx, "alice", "other"); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got, err := s.AccountByUsername(ctx, "alice"); err != nil || got != a {
		t.Fatalf("by username: %+v %v", got, err)
	}
	if got, err := s.AccountByID(ctx, a.AccountID); err != nil || got != a {
		t.Fatalf("by id: %+v %v", got, err)
	}
	if _, err := s.AccountByID(ctx, 99); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if ok, _ := s.AccountExists(ctx, a.AccountID); !ok {
		t.Fatalf("expected account to exist")
	}
	if _, err := s.AccountByCredentials(ctx, "alice", "wrong"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected credential miss, got %v", err)
	}
	if got, err := s.AccountByCredentials(ctx, "alice", "pass1"); err != nil || got.AccountID != a.AccountID {
		t.Fatalf("credentials: %+v %v", got, err)
	}

	b, _ := s.CreateAccount(ctx, "bob", "secret")
	if _, err := s.UpdateAccount(ctx, social.Account{AccountID: b.AccountID, Username: "alice", Password: "x"}); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected rename conflict, got %v", err)
	}
	if _, err := s.UpdateAccount(ctx, social.Account{AccountID: b.AccountID, Username: "robert", Password: "secret"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.AccountByUsername(ctx, "bob"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("old username should be released")
	}
	list, _ := s.ListAccounts(ctx)
	if len(list) != 2 || list[0].AccountID != 1 || list[1].Username != "robert" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := s.DeleteAccount(ctx, b.AccountID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteAccount(ctx, b.AccountID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStore_Messages(t *testing.T) {
	ctx := context.Background()
	s := New()

	m1, _ := s.CreateMessage(ctx, social.Message{PostedBy: 1, MessageText: "first", TimePostedEpoch: 100})
	m2, _ := s.CreateMessage(ctx, social.Message{PostedBy: 2, MessageText: "second"})
	m3, _ := s.CreateMessage(ctx, social.Message{PostedBy: 1, MessageText: "third"})
	if m1.MessageID != 1 || m2.MessageID != 2 || m3.MessageID != 3 {
		t.Fatalf("unexpected ids %d %d %d", m1.MessageID, m2.MessageID, m3.MessageID)
	}

	all, _ := s.ListMessages(ctx)
	if len(all) != 3 || all[0].MessageID != 1 || all[2].MessageID != 3 {
		t.Fatalf("unexpected list: %+v", all)
	}
	byAcc, _ := s.MessagesByAccountID(ctx, 1)
	if len(byAcc) != 2 || byAcc[0].MessageText != "first" || byAcc[1].MessageText != "third" {
		t.Fatalf("unexpected by account: %+v", byAcc)
	}
	none, _ := s.MessagesByAccountID(ctx, 42)
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}

	upd, err := s.UpdateMessageText(ctx, m1.MessageID, "edited")
	if err != nil || upd.MessageText != "edited" || upd.PostedBy != 1 || upd.TimePostedEpoch != 100 {
		t.Fatalf("update: %+v %v", upd, err)
	}
	if _, err := s.UpdateMessageText(ctx, 99, "x"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	del, err := s.DeleteMessage(ctx, m2.MessageID)
	if err != nil || del != m2 {
		t.Fatalf("delete: %+v %v", del, err)
	}
	if _, err := s.DeleteMessage(ctx, m2.MessageID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := s.MessageByID(ctx, m2.MessageID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected deleted message to be gone")
	}
}

func TestStore_ConcurrentRegistrationSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateAccount(ctx, "race", "pass"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestStore_ConcurrentDeleteReturnsRowOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	m, _ := s.CreateMessage(ctx, social.Message{PostedBy: 1, MessageText: "bye"})
	var wg sync.WaitGroup
	var mu sync.Mutex
	got := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.DeleteMessage(ctx, m.MessageID); err == nil {
				mu.Lock()
				got++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if got != 1 {
		t.Fatalf("expected the row to be returned once, got %d", got)
	}
}
