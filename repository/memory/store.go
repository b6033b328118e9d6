// Package memory is an in-process implementation of the service repositories.
// A unit of work buffers its writes and applies them atomically on Commit.
// LockForUpdate and Create take a per-account lock that is held until the
// unit of work ends, which gives the same exclusion as SELECT ... FOR UPDATE.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"wheelhouse/events"
	"wheelhouse/models"
	"wheelhouse/service"
)

// Store holds committed state shared by every unit of work
type Store struct {
	mu          sync.RWMutex
	accounts    map[int64]*models.Account
	entries     map[int64][]*models.LedgerEntry
	spins       map[int64][]*models.SpinRecord
	nextEntryID int64

	locksMu sync.Mutex
	locks   map[int64]chan struct{}

	bus *events.Bus
	now func() time.Time
}

// NewStore creates an empty store. Committed events go to bus, which may be nil.
func NewStore(bus *events.Bus) *Store {
	return &Store{
		accounts: make(map[int64]*models.Account),
		entries:  make(map[int64][]*models.LedgerEntry),
		spins:    make(map[int64][]*models.SpinRecord),
		locks:    make(map[int64]chan struct{}),
		bus:      bus,
		now:      time.Now,
	}
}

// NewUnitOfWorkFactory returns a factory whose units of work share s
func NewUnitOfWorkFactory(s *Store) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{store: s}
}

type unitOfWorkFactory struct {
	store *Store
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		store: f.store,
		bus:   events.NewTransactionalBus(f.store.bus),
	}
}

func (s *Store) lockAccount(ctx context.Context, accountID int64) error {
	s.locksMu.Lock()
	l, ok := s.locks[accountID]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[accountID] = l
	}
	s.locksMu.Unlock()

	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for account %d lock: %w", accountID, ctx.Err())
	}
}

func (s *Store) unlockAccount(accountID int64) {
	s.locksMu.Lock()
	l := s.locks[accountID]
	s.locksMu.Unlock()
	<-l
}

func (s *Store) account(accountID int64) *models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[accountID]; ok {
		clone := *a
		return &clone
	}
	return nil
}

func (s *Store) balance(accountID int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for _, e := range s.entries[accountID] {
		sum += e.Amount
	}
	return sum
}

func (s *Store) ledger(accountID int64) []*models.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.LedgerEntry, 0, len(s.entries[accountID]))
	for _, e := range s.entries[accountID] {
		out = append(out, copyEntry(e))
	}
	return out
}

func (s *Store) spinHistory(accountID int64) []*models.SpinRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.SpinRecord, 0, len(s.spins[accountID]))
	for _, sp := range s.spins[accountID] {
		out = append(out, copySpin(sp))
	}
	return out
}

// copyEntry detaches e from the store so callers cannot rewrite history
func copyEntry(e *models.LedgerEntry) *models.LedgerEntry {
	c := *e
	c.Metadata = maps.Clone(e.Metadata)
	if e.RelatedSpinID != nil {
		id := *e.RelatedSpinID
		c.RelatedSpinID = &id
	}
	return &c
}

func copySpin(sp *models.SpinRecord) *models.SpinRecord {
	c := *sp
	c.Outcomes = slices.Clone(sp.Outcomes)
	return &c
}

func (s *Store) allBalances() []*models.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board := make([]*models.LeaderboardEntry, 0, len(s.accounts))
	for id, a := range s.accounts {
		var sum int64
		for _, e := range s.entries[id] {
			sum += e.Amount
		}
		board = append(board, &models.LeaderboardEntry{AccountID: id, Username: a.Username, Balance: sum})
	}
	slices.SortFunc(board, func(a, b *models.LeaderboardEntry) int {
		if c := cmp.Compare(b.Balance, a.Balance); c != 0 {
			return c
		}
		return cmp.Compare(a.AccountID, b.AccountID)
	})
	return board
}

func (s *Store) allocateEntryID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEntryID++
	return s.nextEntryID
}

// apply publishes a unit of work's buffered writes in one step
func (s *Store) apply(accounts []*models.Account, entries []*models.LedgerEntry, spins []*models.SpinRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	for _, e := range entries {
		s.entries[e.AccountID] = append(s.entries[e.AccountID], e)
	}
	for _, sp := range spins {
		s.spins[sp.AccountID] = append(s.spins[sp.AccountID], sp)
	}
}
