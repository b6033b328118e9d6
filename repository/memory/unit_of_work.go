package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"wheelhouse/events"
	"wheelhouse/models"
	"wheelhouse/service"
)

type unitOfWork struct {
	store   *Store
	bus     *events.TransactionalBus
	ctx     context.Context
	started bool

	held       map[int64]bool
	accounts   []*models.Account
	entries    []*models.LedgerEntry
	spins      []*models.SpinRecord
	savepoints map[string]savepoint
}

// savepoint records buffer lengths to truncate back to
type savepoint struct {
	accounts, entries, spins, events int
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.started {
		return fmt.Errorf("transaction already started")
	}
	u.started = true
	u.ctx = ctx
	u.held = make(map[int64]bool)
	u.savepoints = make(map[string]savepoint)
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.started {
		return fmt.Errorf("no transaction to commit")
	}
	u.store.apply(u.accounts, u.entries, u.spins)
	u.end()
	u.bus.Flush(u.ctx)
	return nil
}

// Rollback drops buffered writes. No-op after Commit or a previous Rollback.
func (u *unitOfWork) Rollback() error {
	if !u.started {
		return nil
	}
	u.end()
	u.bus.Discard()
	return nil
}

func (u *unitOfWork) end() {
	for id := range u.held {
		u.store.unlockAccount(id)
	}
	u.held = nil
	u.savepoints = nil
	u.accounts, u.entries, u.spins = nil, nil, nil
	u.started = false
}

func (u *unitOfWork) Savepoint(_ context.Context, name string) error {
	if !u.started {
		return fmt.Errorf("no transaction for savepoint %s", name)
	}
	u.savepoints[name] = savepoint{
		accounts: len(u.accounts),
		entries:  len(u.entries),
		spins:    len(u.spins),
		events:   u.bus.Mark(),
	}
	return nil
}

// RollbackToSavepoint drops writes buffered since the savepoint. Account locks stay held.
func (u *unitOfWork) RollbackToSavepoint(_ context.Context, name string) error {
	sp, ok := u.savepoints[name]
	if !u.started || !ok {
		return fmt.Errorf("unknown savepoint %s", name)
	}
	u.accounts = u.accounts[:sp.accounts]
	u.entries = u.entries[:sp.entries]
	u.spins = u.spins[:sp.spins]
	u.bus.DiscardFrom(sp.events)
	return nil
}

func (u *unitOfWork) lock(ctx context.Context, accountID int64) error {
	if u.held[accountID] {
		return nil
	}
	if err := u.store.lockAccount(ctx, accountID); err != nil {
		return err
	}
	u.held[accountID] = true
	return nil
}

func (u *unitOfWork) requireLock(accountID int64) error {
	if !u.held[accountID] {
		return fmt.Errorf("account %d is not locked by this unit of work", accountID)
	}
	return nil
}

func (u *unitOfWork) pendingAccount(accountID int64) *models.Account {
	for _, a := range u.accounts {
		if a.ID == accountID {
			clone := *a
			return &clone
		}
	}
	return nil
}

func (u *unitOfWork) AccountRepository() service.AccountRepository { return accountRepo{u} }
func (u *unitOfWork) LedgerRepository() service.LedgerRepository   { return ledgerRepo{u} }
func (u *unitOfWork) SpinRepository() service.SpinRepository       { return spinRepo{u} }
func (u *unitOfWork) EventBus() service.EventPublisher             { return u.bus }

type accountRepo struct{ u *unitOfWork }

func (r accountRepo) GetByID(_ context.Context, accountID int64) (*models.Account, error) {
	if a := r.u.pendingAccount(accountID); a != nil {
		return a, nil
	}
	return r.u.store.account(accountID), nil
}

func (r accountRepo) Create(ctx context.Context, accountID int64, username string) (*models.Account, error) {
	if err := r.u.lock(ctx, accountID); err != nil {
		return nil, err
	}
	if existing, _ := r.GetByID(ctx, accountID); existing != nil {
		return nil, nil
	}

	now := r.u.store.now()
	account := &models.Account{ID: accountID, Username: username, CreatedAt: now, UpdatedAt: now}
	r.u.accounts = append(r.u.accounts, account)

	clone := *account
	return &clone, nil
}

func (r accountRepo) LockForUpdate(ctx context.Context, accountID int64) (*models.Account, error) {
	wasHeld := r.u.held[accountID]
	if err := r.u.lock(ctx, accountID); err != nil {
		return nil, err
	}
	account, _ := r.GetByID(ctx, accountID)
	if account == nil && !wasHeld {
		delete(r.u.held, accountID)
		r.u.store.unlockAccount(accountID)
	}
	return account, nil
}

type ledgerRepo struct{ u *unitOfWork }

func (r ledgerRepo) Append(_ context.Context, entry *models.LedgerEntry) error {
	if err := r.u.requireLock(entry.AccountID); err != nil {
		return err
	}
	entry.ID = r.u.store.allocateEntryID()
	entry.CreatedAt = r.u.store.now()

	r.u.entries = append(r.u.entries, copyEntry(entry))
	return nil
}

func (r ledgerRepo) GetBalance(_ context.Context, accountID int64) (int64, error) {
	balance := r.u.store.balance(accountID)
	for _, e := range r.u.entries {
		if e.AccountID == accountID {
			balance += e.Amount
		}
	}
	return balance, nil
}

func (r ledgerRepo) GetByAccount(_ context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error) {
	entries := r.u.store.ledger(accountID)
	for _, e := range r.u.entries {
		if e.AccountID == accountID {
			entries = append(entries, copyEntry(e))
		}
	}
	slices.Reverse(entries)
	return clip(entries, limit), nil
}

func (r ledgerRepo) GetLeaderboard(_ context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	return clip(r.u.store.allBalances(), limit), nil
}

type spinRepo struct{ u *unitOfWork }

func (r spinRepo) Create(_ context.Context, spin *models.SpinRecord) error {
	if err := r.u.requireLock(spin.AccountID); err != nil {
		return err
	}
	spin.CreatedAt = r.u.store.now()

	r.u.spins = append(r.u.spins, copySpin(spin))
	return nil
}

func (r spinRepo) history(accountID int64) []*models.SpinRecord {
	spins := r.u.store.spinHistory(accountID)
	for _, s := range r.u.spins {
		if s.AccountID == accountID {
			spins = append(spins, copySpin(s))
		}
	}
	return spins
}

func (r spinRepo) GetByAccount(_ context.Context, accountID int64, limit int) ([]*models.SpinRecord, error) {
	spins := r.history(accountID)
	slices.Reverse(spins)
	return clip(spins, limit), nil
}

func (r spinRepo) GetStakedSince(_ context.Context, accountID int64, since time.Time) (int64, error) {
	var staked int64
	for _, s := range r.history(accountID) {
		if !s.CreatedAt.Before(since) {
			staked += s.TotalStaked
		}
	}
	return staked, nil
}

func (r spinRepo) GetStats(_ context.Context, accountID int64) (*models.SpinStats, error) {
	stats := &models.SpinStats{}
	for _, s := range r.history(accountID) {
		stats.TotalSpins++
		stats.TotalStaked += s.TotalStaked
		stats.TotalPayout += s.TotalPayout
		switch {
		case s.Net > 0:
			stats.TotalWins++
			stats.BiggestWin = max(stats.BiggestWin, s.Net)
		case s.Net < 0:
			stats.TotalLosses++
			stats.BiggestLoss = max(stats.BiggestLoss, -s.Net)
		}
	}
	return stats, nil
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}
