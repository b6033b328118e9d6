package repository

import (
	"context"
	"errors"
	"fmt"

	"wheelhouse/database"
	"wheelhouse/events"
	"wheelhouse/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements service.UnitOfWork over a single pgx transaction
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	ledgerRepo       service.LedgerRepository
	spinRepo         service.SpinRepository
	savepoints       map[string]int
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return wrapError(err, "failed to begin transaction")
	}

	u.tx = tx
	u.ctx = ctx
	u.savepoints = make(map[string]int)

	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)
	u.spinRepo = newSpinRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		u.transactionalBus.Discard()
		return wrapError(err, "failed to commit transaction")
	}

	u.transactionalBus.Flush(u.ctx)
	return nil
}

// Rollback rolls back the transaction. Safe to call after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Savepoint creates a named savepoint inside the open transaction
func (u *unitOfWork) Savepoint(ctx context.Context, name string) error {
	if u.tx == nil {
		return fmt.Errorf("no transaction for savepoint %s", name)
	}
	if _, err := u.tx.Exec(ctx, "SAVEPOINT "+pgx.Identifier{name}.Sanitize()); err != nil {
		return wrapError(err, "failed to create savepoint %s", name)
	}
	u.savepoints[name] = u.transactionalBus.Mark()
	return nil
}

// RollbackToSavepoint undoes everything since the named savepoint. Row locks
// taken before it are kept.
func (u *unitOfWork) RollbackToSavepoint(ctx context.Context, name string) error {
	mark, ok := u.savepoints[name]
	if u.tx == nil || !ok {
		return fmt.Errorf("unknown savepoint %s", name)
	}
	if _, err := u.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+pgx.Identifier{name}.Sanitize()); err != nil {
		return wrapError(err, "failed to roll back to savepoint %s", name)
	}
	u.transactionalBus.DiscardFrom(mark)
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// SpinRepository returns the spin repository for this unit of work
func (u *unitOfWork) SpinRepository() service.SpinRepository {
	if u.spinRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.spinRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
