package service

import (
	"context"
	"fmt"
	"math"

	"wheelhouse/config"
	"wheelhouse/models"

	log "github.com/sirupsen/logrus"
)

// accountService implements the AccountService interface
type accountService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, cfg *config.Config) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// GetOrCreateAccount retrieves an existing account or creates one with the starting grant
func (s *accountService) GetOrCreateAccount(ctx context.Context, accountID int64, username string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, err = uow.AccountRepository().Create(ctx, accountID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if account == nil {
		// Lost a creation race; the winner recorded the grant
		uow.Rollback()
		return s.getAccount(ctx, accountID)
	}

	if s.config.StartingBalance > 0 {
		entry := &models.LedgerEntry{
			AccountID: accountID,
			Amount:    s.config.StartingBalance,
			Kind:      models.EntryKindInitial,
			Metadata: map[string]any{
				"username": username,
			},
		}
		if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
			return nil, fmt.Errorf("failed to record starting balance: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"account":  accountID,
		"username": username,
		"balance":  s.config.StartingBalance,
	}).Info("Account created")
	return account, nil
}

func (s *accountService) getAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// GetBalance returns the sum of the account's ledger
func (s *accountService) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, ErrAccountNotFound
	}

	balance, err := uow.LedgerRepository().GetBalance(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// GetLedger returns recent ledger entries, newest first
func (s *accountService) GetLedger(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.LedgerRepository().GetByAccount(ctx, accountID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return entries, nil
}

// Grant appends an adjustment entry. The resulting balance must stay within
// [0, MaxInt64].
func (s *accountService) Grant(ctx context.Context, accountID int64, amount int64, reason string) (int64, error) {
	if amount == 0 {
		return 0, reject(ErrValidation, -1, "grant amount cannot be zero")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().LockForUpdate(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return 0, ErrAccountNotFound
	}

	balance, err := uow.LedgerRepository().GetBalance(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	if amount < 0 && balance+amount < 0 {
		return 0, reject(ErrInsufficientFunds, -1, "insufficient balance: have %d, need %d", balance, -amount)
	}
	if amount > 0 && balance > math.MaxInt64-amount {
		return 0, reject(ErrValidation, -1, "grant of %d would overflow balance %d", amount, balance)
	}

	entry := &models.LedgerEntry{
		AccountID: accountID,
		Amount:    amount,
		Kind:      models.EntryKindAdjustment,
		Metadata: map[string]any{
			"reason": reason,
		},
	}
	if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
		return 0, fmt.Errorf("failed to record adjustment: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entry.BalanceAfter, nil
}
