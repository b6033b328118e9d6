package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind represents the reason for a ledger entry
type EntryKind string

const (
	EntryKindInitial    EntryKind = "initial"
	EntryKindSpinWin    EntryKind = "spin_win"
	EntryKindSpinLoss   EntryKind = "spin_loss"
	EntryKindSpinPush   EntryKind = "spin_push"
	EntryKindAdjustment EntryKind = "adjustment"
)

// SpinEntryKind returns the ledger kind for a spin with the given net result
func SpinEntryKind(net int64) EntryKind {
	switch {
	case net > 0:
		return EntryKindSpinWin
	case net < 0:
		return EntryKindSpinLoss
	default:
		return EntryKindSpinPush
	}
}

// LedgerEntry is one append-only signed change to an account's balance.
// An account's balance is the sum of Amount over all of its entries.
type LedgerEntry struct {
	ID            int64          `db:"id" json:"id"`
	AccountID     int64          `db:"account_id" json:"account_id"`
	Amount        int64          `db:"amount" json:"amount"`
	Kind          EntryKind      `db:"kind" json:"kind"`
	Metadata      map[string]any `db:"metadata" json:"metadata,omitempty"`
	RelatedSpinID *uuid.UUID     `db:"related_spin_id" json:"related_spin_id,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`

	// BalanceBefore/BalanceAfter are not stored; they are filled in when the
	// entry is appended so events can report them.
	BalanceBefore int64 `db:"-" json:"-"`
	BalanceAfter  int64 `db:"-" json:"-"`
}
