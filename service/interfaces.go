package service

import (
	"context"
	"time"

	"wheelhouse/events"
	"wheelhouse/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account, or nil if it does not exist
	GetByID(ctx context.Context, accountID int64) (*models.Account, error)

	// Create inserts a new account. Returns nil, nil if it already exists.
	Create(ctx context.Context, accountID int64, username string) (*models.Account, error)

	// LockForUpdate retrieves an account and holds an exclusive lock on it
	// until the unit of work ends. Returns nil if it does not exist.
	LockForUpdate(ctx context.Context, accountID int64) (*models.Account, error)
}

// LedgerRepository defines the interface for the append-only balance ledger
type LedgerRepository interface {
	// Append records a new entry, filling in ID and CreatedAt
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// GetBalance returns the sum of all entries for an account
	GetBalance(ctx context.Context, accountID int64) (int64, error)

	// GetByAccount returns the newest entries for an account first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error)

	// GetLeaderboard returns accounts ordered by derived balance, highest first
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// SpinRepository defines the interface for settled spin history
type SpinRepository interface {
	// Create persists a settled spin
	Create(ctx context.Context, spin *models.SpinRecord) error

	// GetByAccount returns the most recent spins for an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.SpinRecord, error)

	// GetStakedSince returns the total staked by an account since a point in time
	GetStakedSince(ctx context.Context, accountID int64, since time.Time) (int64, error)

	// GetStats returns spin statistics for an account
	GetStats(ctx context.Context, accountID int64) (*models.SpinStats, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction. No-op after Commit.
	Rollback() error

	// Savepoint marks a point inside the transaction. RollbackToSavepoint
	// undoes writes and queued events since that point and keeps the
	// transaction, and its locks, open.
	Savepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error

	// Repository getters
	AccountRepository() AccountRepository
	LedgerRepository() LedgerRepository
	SpinRepository() SpinRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// AccountService defines the interface for account and balance operations
type AccountService interface {
	// GetOrCreateAccount retrieves an account or creates it with the starting grant
	GetOrCreateAccount(ctx context.Context, accountID int64, username string) (*models.Account, error)

	// GetBalance returns the current derived balance
	GetBalance(ctx context.Context, accountID int64) (int64, error)

	// GetLedger returns the most recent ledger entries, newest first
	GetLedger(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error)

	// Grant appends an administrative adjustment and returns the new balance
	Grant(ctx context.Context, accountID int64, amount int64, reason string) (int64, error)
}

// SpinService defines the interface for playing the wheel
type SpinService interface {
	// PlaySpin validates, draws, settles and applies one spin
	PlaySpin(ctx context.Context, accountID int64, wagers []models.WagerRequest) (*models.SpinOutcome, error)

	// GetHistory returns recent settled spins for an account
	GetHistory(ctx context.Context, accountID int64, limit int) ([]*models.SpinRecord, error)
}

// StatsService defines the interface for statistics operations
type StatsService interface {
	// GetLeaderboard returns the top accounts by balance
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// GetAccountStats returns detailed statistics for an account
	GetAccountStats(ctx context.Context, accountID int64) (*models.AccountStats, error)
}
