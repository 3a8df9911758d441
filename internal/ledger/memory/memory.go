// Package memory provides an in-process ledger backend. It backs the
// "memory" data backend for local development and doubles as the test
// store; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tally/internal/core"
	"tally/internal/ledger"
)

type Store struct {
	mu           sync.Mutex
	nextTxID     int64
	nextUserID   int64
	transactions []core.Transaction
	users        []ledger.User
}

func NewStore() *Store {
	return &Store{nextTxID: 1, nextUserID: 1}
}

var (
	_ ledger.TransactionStore = (*Store)(nil)
	_ ledger.UserStore        = (*Store)(nil)
)

func (s *Store) ListByOwner(ctx context.Context, ownerID int64, opts ledger.ListOptions) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if opts.DatePrefix != "" && !strings.HasPrefix(t.Date, opts.DatePrefix) {
			continue
		}
		out = append(out, t)
	}

	// Records are held in insertion (id) order, so a stable sort keeps
	// id order for equal dates in both directions.
	if opts.Order == ledger.OrderDesc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, ownerID int64, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextTxID
	t.OwnerID = ownerID
	s.nextTxID++
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) DeleteByID(ctx context.Context, ownerID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID == id && t.OwnerID == ownerID {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (ledger.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return ledger.User{}, ledger.ErrUsernameTaken
		}
	}
	u := ledger.User{ID: s.nextUserID, Username: username, PasswordHash: passwordHash}
	s.nextUserID++
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (ledger.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return ledger.User{}, ledger.ErrNoSuchUser
}
