package testutil

import (
	"time"

	"wheelhouse/models"

	"github.com/google/uuid"
)

// CreateTestLedgerEntry creates an entry with test metadata
func CreateTestLedgerEntry(accountID, amount int64, kind models.EntryKind) *models.LedgerEntry {
	return &models.LedgerEntry{
		AccountID: accountID,
		Amount:    amount,
		Kind:      kind,
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestSpinRecord creates a settled single-wager spin on the given pocket.
// The wager is a straight-up on stakePocket.
func CreateTestSpinRecord(accountID int64, pocket, stakePocket int, stake, balanceAfter int64) *models.SpinRecord {
	won := pocket == stakePocket
	var payout int64
	if won {
		payout = stake * (models.WagerTypeStraight.PayoutRatio() + 1)
	}
	return &models.SpinRecord{
		ID:        uuid.New(),
		AccountID: accountID,
		Pocket:    pocket,
		Color:     models.PocketColor(pocket),
		Outcomes: []models.WagerOutcome{{
			Wager: models.Wager{
				Type:        models.WagerTypeStraight,
				Stake:       stake,
				Pockets:     []int{stakePocket},
				PayoutRatio: models.WagerTypeStraight.PayoutRatio(),
			},
			Won:    won,
			Payout: payout,
		}},
		TotalStaked:  stake,
		TotalPayout:  payout,
		Net:          payout - stake,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now(),
	}
}
