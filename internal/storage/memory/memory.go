package memory

// Package memory provides a simple in-memory implementation used for development and tests.
// Ids are assigned from per-table sequences starting at 1, like a SERIAL column.
import (
	"context"
	"sort"
	"sync"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

// Store is an in-memory implementation of the account and message stores.
// It is guarded by an RWMutex; every check-and-mutate runs under the write lock.
type Store struct {
	mu       sync.RWMutex
	accounts map[int64]social.Account
	// username -> account id, enforces uniqueness
	usernames     map[string]int64
	messages      map[int64]social.Message
	nextAccountID int64
	nextMessageID int64
}

// New constructs an empty in-memory store.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset drops all rows and restarts the id sequences.
func (s *Store) Reset() {
	s.mu.Lock()
	s.accounts = map[int64]social.Account{}
	s.usernames = map[string]int64{}
	s.messages = map[int64]social.Message{}
	s.nextAccountID = 1
	s.nextMessageID = 1
	s.mu.Unlock()
}

// Ready always succeeds; there is nothing to connect to.
func (s *Store) Ready(context.Context) error { return nil }

// --- Account reads ---

func (s *Store) AccountByUsername(_ context.Context, username string) (social.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[username]
	if !ok {
		return social.Account{}, errs.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) AccountByID(_ context.Context, accountID int64) (social.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return social.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (s *Store) AccountExists(_ context.Context, accountID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[accountID]
	return ok, nil
}

func (s *Store) AccountByCredentials(_ context.Context, username, password string) (social.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[username]
	if !ok || s.accounts[id].Password != password {
		return social.Account{}, errs.ErrNotFound
	}
	return s.accounts[id], nil
}

// ListAccounts returns all accounts ordered by id.
func (s *Store) ListAccounts(_ context.Context) ([]social.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]social.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

// --- Account writes ---

// CreateAccount inserts an account, failing with errs.ErrConflict on a taken username.
func (s *Store) CreateAccount(_ context.Context, username, password string) (social.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernames[username]; taken {
		return social.Account{}, errs.ErrConflict
	}
	a := social.Account{AccountID: s.nextAccountID, Username: username, Password: password}
	s.nextAccountID++
	s.accounts[a.AccountID] = a
	s.usernames[username] = a.AccountID
	return a, nil
}

// UpdateAccount replaces username and password of an existing account.
func (s *Store) UpdateAccount(_ context.Context, a social.Account) (social.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[a.AccountID]
	if !ok {
		return social.Account{}, errs.ErrNotFound
	}
	if owner, taken := s.usernames[a.Username]; taken && owner != a.AccountID {
		return social.Account{}, errs.ErrConflict
	}
	delete(s.usernames, current.Username)
	s.usernames[a.Username] = a.AccountID
	s.accounts[a.AccountID] = a
	return a, nil
}

// DeleteAccount removes an account. Messages it posted are kept.
func (s *Store) DeleteAccount(_ context.Context, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return errs.ErrNotFound
	}
	delete(s.usernames, a.Username)
	delete(s.accounts, accountID)
	return nil
}

// --- Message reads ---

func (s *Store) ListMessages(_ context.Context) ([]social.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedMessagesLocked(func(social.Message) bool { return true }), nil
}

func (s *Store) MessageByID(_ context.Context, messageID int64) (social.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[messageID]
	if !ok {
		return social.Message{}, errs.ErrNotFound
	}
	return m, nil
}

func (s *Store) MessagesByAccountID(_ context.Context, accountID int64) ([]social.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedMessagesLocked(func(m social.Message) bool { return m.PostedBy == accountID }), nil
}

// --- Message writes ---

func (s *Store) CreateMessage(_ context.Context, m social.Message) (social.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.MessageID = s.nextMessageID
	s.nextMessageID++
	s.messages[m.MessageID] = m
	return m, nil
}

func (s *Store) UpdateMessageText(_ context.Context, messageID int64, text string) (social.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[messageID]
	if !ok {
		return social.Message{}, errs.ErrNotFound
	}
	m.MessageText = text
	s.messages[messageID] = m
	return m, nil
}

func (s *Store) DeleteMessage(_ context.Context, messageID int64) (social.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[messageID]
	if !ok {
		return social.Message{}, errs.ErrNotFound
	}
	delete(s.messages, messageID)
	return m, nil
}

// sortedMessagesLocked returns matching messages ordered by id. Caller must hold s.mu.
func (s *Store) sortedMessagesLocked(keep func(social.Message) bool) []social.Message {
	out := make([]social.Message, 0)
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageID < out[j].MessageID })
	return out
}
