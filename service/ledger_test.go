package service

import (
	"context"
	"testing"

	"wheelhouse/events"
	"wheelhouse/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyNet_KindFollowsSign(t *testing.T) {
	tests := []struct {
		net  int64
		kind models.EntryKind
	}{
		{350, models.EntryKindSpinWin},
		{-20, models.EntryKindSpinLoss},
		{0, models.EntryKindSpinPush},
	}
	for _, tt := range tests {
		ctx := context.Background()
		uow := new(MockUnitOfWork)
		ledger := new(MockLedgerRepository)
		bus := events.NewTransactionalBus(nil)
		uow.SetRepositories(nil, ledger, nil)
		uow.SetEventBus(bus)

		spinID := uuid.New()
		ledger.On("GetBalance", ctx, testAccountID).Return(int64(100), nil)
		ledger.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
			return e.Amount == tt.net && e.Kind == tt.kind && *e.RelatedSpinID == spinID
		})).Return(nil)

		balance, err := ApplyNet(ctx, uow, testAccountID, tt.net, spinID, nil)
		require.NoError(t, err)
		assert.Equal(t, 100+tt.net, balance)

		pending := bus.Pending()
		require.Len(t, pending, 1)
		change := pending[0].(events.BalanceChangeEvent)
		assert.Equal(t, tt.kind, change.Kind)
		assert.Equal(t, spinID.String(), change.RelatedSpinID)
	}
}

func TestRecordLedgerEntry_AppendFailurePublishesNothing(t *testing.T) {
	ctx := context.Background()
	uow := new(MockUnitOfWork)
	ledger := new(MockLedgerRepository)
	bus := events.NewTransactionalBus(nil)
	uow.SetRepositories(nil, ledger, nil)
	uow.SetEventBus(bus)

	ledger.On("GetBalance", ctx, testAccountID).Return(int64(100), nil)
	ledger.On("Append", ctx, mock.Anything).Return(ErrConcurrencyConflict)

	err := RecordLedgerEntry(ctx, uow, &models.LedgerEntry{AccountID: testAccountID, Amount: 5, Kind: models.EntryKindAdjustment})
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Empty(t, bus.Pending())
}
