package service

import (
	"context"
	"fmt"

	"wheelhouse/events"
	"wheelhouse/models"

	"github.com/google/uuid"
)

// RecordLedgerEntry appends a ledger entry and emits the matching events.
// This is the single entry point for all balance changes in the system; the
// caller must hold the account lock inside uow.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry) error {
	before, err := uow.LedgerRepository().GetBalance(ctx, entry.AccountID)
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	entry.BalanceBefore = before
	entry.BalanceAfter = before + entry.Amount

	// Flushed after the transaction commits
	event := events.BalanceChangeEvent{
		AccountID:    entry.AccountID,
		OldBalance:   entry.BalanceBefore,
		NewBalance:   entry.BalanceAfter,
		Kind:         entry.Kind,
		ChangeAmount: entry.Amount,
	}
	if entry.RelatedSpinID != nil {
		event.RelatedSpinID = entry.RelatedSpinID.String()
	}
	uow.EventBus().Publish(event)

	if entry.Kind == models.EntryKindInitial {
		username, _ := entry.Metadata["username"].(string)
		uow.EventBus().Publish(events.AccountCreatedEvent{
			AccountID:      entry.AccountID,
			Username:       username,
			InitialBalance: entry.BalanceAfter,
		})
	}

	return nil
}

// ApplyNet records a spin's signed net result as one ledger entry and
// returns the new balance. Stakes and payouts are never applied separately.
func ApplyNet(ctx context.Context, uow UnitOfWork, accountID, net int64, spinID uuid.UUID, metadata map[string]any) (int64, error) {
	entry := &models.LedgerEntry{
		AccountID:     accountID,
		Amount:        net,
		Kind:          models.SpinEntryKind(net),
		Metadata:      metadata,
		RelatedSpinID: &spinID,
	}
	if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
		return 0, err
	}
	return entry.BalanceAfter, nil
}
