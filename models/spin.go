package models

import (
	"time"

	"github.com/google/uuid"
)

// SpinResult is a drawn pocket and its table attributes. Immutable once drawn.
type SpinResult struct {
	Pocket int    `json:"pocket"`
	Color  Color  `json:"color"`
	Parity Parity `json:"parity"`
	// Dozen and Column are 0 when the pocket is zero
	Dozen  int `json:"dozen"`
	Column int `json:"column"`
}

// NewSpinResult derives the attributes of pocket n
func NewSpinResult(n int) SpinResult {
	return SpinResult{
		Pocket: n,
		Color:  PocketColor(n),
		Parity: PocketParity(n),
		Dozen:  PocketDozen(n),
		Column: PocketColumnBet(n),
	}
}

// SpinOutcome is what a settled spin returns to the caller
type SpinOutcome struct {
	SpinID uuid.UUID  `json:"spin_id"`
	Result SpinResult `json:"result"`
	Settlement
	Balance int64 `json:"balance"`
}

// SpinRecord is the persisted history row for one settled spin
type SpinRecord struct {
	ID           uuid.UUID      `db:"id"`
	AccountID    int64          `db:"account_id"`
	Pocket       int            `db:"pocket"`
	Color        Color          `db:"color"`
	Outcomes     []WagerOutcome `db:"wagers"`
	TotalStaked  int64          `db:"total_staked"`
	TotalPayout  int64          `db:"total_payout"`
	Net          int64          `db:"net"`
	BalanceAfter int64          `db:"balance_after"`
	CreatedAt    time.Time      `db:"created_at"`
}
