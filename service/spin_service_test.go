package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"wheelhouse/config"
	"wheelhouse/events"
	"wheelhouse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAccountID = int64(123456)

type spinFixture struct {
	factory  *MockUnitOfWorkFactory
	uow      *MockUnitOfWork
	accounts *MockAccountRepository
	ledger   *MockLedgerRepository
	spins    *MockSpinRepository
	bus      *events.TransactionalBus
	cfg      *config.Config
	account  *models.Account
	draws    int
}

func newSpinFixture() *spinFixture {
	f := &spinFixture{
		factory:  new(MockUnitOfWorkFactory),
		uow:      new(MockUnitOfWork),
		accounts: new(MockAccountRepository),
		ledger:   new(MockLedgerRepository),
		spins:    new(MockSpinRepository),
		bus:      events.NewTransactionalBus(nil),
		cfg:      config.NewTestConfig(),
		account:  &models.Account{ID: testAccountID, Username: "testuser"},
	}
	f.uow.SetRepositories(f.accounts, f.ledger, f.spins)
	f.uow.SetEventBus(f.bus)

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit").Return(nil).Maybe()
	f.uow.On("Rollback").Return(nil)
	f.uow.On("Savepoint", mock.Anything, applySavepoint).Return(nil).Maybe()
	f.uow.On("RollbackToSavepoint", mock.Anything, applySavepoint).Return(nil).Maybe()
	return f
}

func (f *spinFixture) service(pocket int) SpinService {
	src := SourceFunc(func(int) (int, error) {
		f.draws++
		return pocket, nil
	})
	return NewSpinService(f.factory, NewWheel(src), f.cfg)
}

// expectSettlement sets up a full successful spin from the given balance
func (f *spinFixture) expectSettlement(balance int64) {
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(balance, nil)
	f.ledger.On("Append", mock.Anything, mock.AnythingOfType("*models.LedgerEntry")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.LedgerEntry).ID = 99
	})
	f.spins.On("Create", mock.Anything, mock.AnythingOfType("*models.SpinRecord")).Return(nil)
}

func (f *spinFixture) assertExpectations(t *testing.T) {
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.accounts.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
	f.spins.AssertExpectations(t)
}

func TestSpinService_PlaySpin_StraightWin(t *testing.T) {
	ctx := context.Background()
	f := newSpinFixture()
	f.expectSettlement(100)

	outcome, err := f.service(17).PlaySpin(ctx, testAccountID, []models.WagerRequest{
		{Type: models.WagerTypeStraight, Stake: 10, Numbers: []int{17}},
	})

	require.NoError(t, err)
	assert.Equal(t, 17, outcome.Result.Pocket)
	require.Len(t, outcome.Outcomes, 1)
	assert.True(t, outcome.Outcomes[0].Won)
	assert.Equal(t, int64(360), outcome.Outcomes[0].Payout)
	assert.Equal(t, int64(350), outcome.Net)
	assert.Equal(t, int64(450), outcome.Balance)

	f.ledger.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.AccountID == testAccountID &&
			e.Amount == 350 &&
			e.Kind == models.EntryKindSpinWin &&
			e.RelatedSpinID != nil && *e.RelatedSpinID == outcome.SpinID
	}))
	f.spins.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(r *models.SpinRecord) bool {
		return r.ID == outcome.SpinID && r.Pocket == 17 && r.Net == 350 && r.BalanceAfter == 450
	}))
	f.uow.AssertCalled(t, "Commit")
	f.assertExpectations(t)
}

func TestSpinService_PlaySpin_RedOnZeroLoses(t *testing.T) {
	ctx := context.Background()
	f := newSpinFixture()
	f.expectSettlement(100)

	outcome, err := f.service(0).PlaySpin(ctx, testAccountID, []models.WagerRequest{
		{Type: models.WagerTypeRed, Stake: 20, Target: "red"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ColorGreen, outcome.Result.Color)
	assert.False(t, outcome.Outcomes[0].Won)
	assert.Equal(t, int64(0), outcome.Outcomes[0].Payout)
	assert.Equal(t, int64(-20), outcome.Net)
	assert.Equal(t, int64(80), outcome.Balance)

	f.ledger.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Amount == -20 && e.Kind == models.EntryKindSpinLoss
	}))
}

func TestSpinService_PlaySpin_SingleLedgerEntryAndEvents(t *testing.T) {
	f := newSpinFixture()
	f.expectSettlement(1000)

	_, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Numbers: []int{17}},
		{Stake: 20, Target: "red"},
		{Stake: 30, Target: "odd"},
	})
	require.NoError(t, err)

	f.ledger.AssertNumberOfCalls(t, "Append", 1)

	pending := f.bus.Pending()
	require.Len(t, pending, 2)
	balanceEvent, ok := pending[0].(events.BalanceChangeEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1000), balanceEvent.OldBalance)
	// 360 + 0 + 60 - 60
	assert.Equal(t, int64(1360), balanceEvent.NewBalance)

	spinEvent, ok := pending[1].(events.SpinSettledEvent)
	require.True(t, ok)
	assert.Equal(t, 17, spinEvent.Pocket)
	assert.Equal(t, int64(360), spinEvent.Net)
	assert.Len(t, spinEvent.Outcomes, 3)
}

func TestSpinService_PlaySpin_PushStillRecorded(t *testing.T) {
	f := newSpinFixture()
	f.expectSettlement(100)

	// red and black on a red pocket: one pays 20, the other loses 10
	outcome, err := f.service(1).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Target: "red"},
		{Stake: 10, Target: "black"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), outcome.Net)
	assert.Equal(t, int64(100), outcome.Balance)

	f.ledger.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Amount == 0 && e.Kind == models.EntryKindSpinPush
	}))
}

func TestSpinService_PlaySpin_Validation(t *testing.T) {
	tests := []struct {
		name     string
		wagers   []models.WagerRequest
		sentinel error
		index    int
	}{
		{"empty list", nil, ErrValidation, -1},
		{"zero stake", []models.WagerRequest{{Stake: 10, Target: "red"}, {Stake: 0, Target: "black"}}, ErrValidation, 1},
		{"negative stake", []models.WagerRequest{{Stake: -5, Numbers: []int{1}}}, ErrValidation, 0},
		{"bad shape", []models.WagerRequest{{Stake: 5, Numbers: []int{3, 4}}}, ErrShapeRejected, 0},
		{"tampered type", []models.WagerRequest{{Type: models.WagerTypeStraight, Stake: 5, Numbers: []int{1, 2}}}, ErrTypeMismatch, 0},
		{"unknown type", []models.WagerRequest{{Type: "basket", Stake: 5, Numbers: []int{1}}}, ErrValidation, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSpinFixture()

			_, err := f.service(1).PlaySpin(context.Background(), testAccountID, tt.wagers)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.True(t, IsRejection(err))

			var rej *RejectionError
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tt.index, rej.WagerIndex)

			f.factory.AssertNotCalled(t, "Create")
			assert.Zero(t, f.draws)
		})
	}
}

func TestSpinService_PlaySpin_TooManyWagers(t *testing.T) {
	f := newSpinFixture()
	f.cfg.MaxWagersPerSpin = 2

	_, err := f.service(1).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 1, Target: "red"}, {Stake: 1, Target: "black"}, {Stake: 1, Target: "odd"},
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "at most 2 wagers")
}

func TestSpinService_PlaySpin_StakeAboveTableMaximum(t *testing.T) {
	f := newSpinFixture()
	f.cfg.MaxStakePerWager = 50

	_, err := f.service(1).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 51, Target: "red"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSpinService_PlaySpin_InsufficientFundsAtSnapshot(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(100), nil)

	_, err := f.service(1).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 60, Target: "red"},
		{Stake: 50, Target: "black"},
	})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "insufficient balance: have 100, need 110", err.Error())
	f.accounts.AssertNotCalled(t, "LockForUpdate", mock.Anything, mock.Anything)
	assert.Zero(t, f.draws)
}

func TestSpinService_PlaySpin_InsufficientFundsUnderLock(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	// another spin drained the account between the snapshot and the lock
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(100), nil).Once()
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(0), nil).Once()

	_, err := f.service(1).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 100, Target: "red"},
	})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
	assert.Zero(t, f.draws)
}

func TestSpinService_PlaySpin_AccountNotFound(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(nil, nil)

	_, err := f.service(1).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 1, Target: "red"},
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSpinService_PlaySpin_DailyLimit(t *testing.T) {
	f := newSpinFixture()
	f.cfg.DailyStakeLimit = 100
	f.cfg.DailyLimitResetHour = 12
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(1000), nil)

	now := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	periodStart := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	f.spins.On("GetStakedSince", mock.Anything, testAccountID, periodStart).Return(int64(95), nil)

	svc := f.service(1).(*spinService)
	svc.now = func() time.Time { return now }

	_, err := svc.PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Target: "red"},
	})

	assert.ErrorIs(t, err, ErrDailyLimit)
	assert.Contains(t, err.Error(), "5 remaining")
	assert.Zero(t, f.draws)
	f.spins.AssertExpectations(t)
}

func TestSpinService_PlaySpin_DailyLimitPeriodBoundary(t *testing.T) {
	resetAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		since time.Time
	}{
		{"just before reset", resetAt.Add(-time.Second), resetAt.AddDate(0, 0, -1)},
		{"exactly at reset", resetAt, resetAt},
		{"just after reset", resetAt.Add(time.Second), resetAt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSpinFixture()
			f.cfg.DailyStakeLimit = 100
			f.cfg.DailyLimitResetHour = 12
			f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
			f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
			f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(1000), nil)
			f.spins.On("GetStakedSince", mock.Anything, testAccountID, tt.since).Return(int64(100), nil)

			svc := f.service(1).(*spinService)
			svc.now = func() time.Time { return tt.now }

			_, err := svc.PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
				{Stake: 10, Target: "red"},
			})

			assert.ErrorIs(t, err, ErrDailyLimit)
			assert.Contains(t, err.Error(), "resets at 12:00 UTC")
			f.spins.AssertExpectations(t)
		})
	}
}

func TestSpinService_PlaySpin_RetriesConflictWithoutRedrawing(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(100), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).Return(ErrConcurrencyConflict).Once()
	f.ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	f.spins.On("Create", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Numbers: []int{17}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(450), outcome.Balance)
	assert.Equal(t, 1, f.draws)
	f.ledger.AssertNumberOfCalls(t, "Append", 2)
	f.uow.AssertNumberOfCalls(t, "RollbackToSavepoint", 1)
	f.uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestSpinService_PlaySpin_DrawnSpinIsNotRecheckedAfterConflict(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	// snapshot, locked check and first apply see 100; a second funds check would see 5
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(100), nil).Times(3)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(5), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).Return(ErrConcurrencyConflict).Once()
	f.ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	f.spins.On("Create", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Numbers: []int{17}},
	})

	require.NoError(t, err)
	assert.Equal(t, 17, outcome.Result.Pocket)
	assert.Equal(t, int64(350), outcome.Net)
	assert.Equal(t, 1, f.draws)
	f.uow.AssertNumberOfCalls(t, "Begin", 1)
	f.accounts.AssertNumberOfCalls(t, "LockForUpdate", 1)
	f.uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestSpinService_PlaySpin_ApplyConflictsExhaustedIsBusy(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(100), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).Return(ErrConcurrencyConflict)

	_, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Numbers: []int{17}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceBusy)
	assert.False(t, IsRejection(err))
	assert.Equal(t, 1, f.draws)
	f.ledger.AssertNumberOfCalls(t, "Append", f.cfg.SettleMaxRetries)
	f.accounts.AssertNumberOfCalls(t, "LockForUpdate", 1)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestSpinService_PlaySpin_CommitFailureAfterDrawIsBusy(t *testing.T) {
	f := newSpinFixture()
	f.expectSettlement(100)
	f.uow.ExpectedCalls = nil
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.uow.On("Savepoint", mock.Anything, applySavepoint).Return(nil)
	f.uow.On("Commit").Return(errors.New("connection reset"))

	_, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Target: "red"},
	})

	assert.ErrorIs(t, err, ErrServiceBusy)
	assert.False(t, IsRejection(err))
	assert.Equal(t, 1, f.draws)
}

func TestSpinService_PlaySpin_LockConflictRetriesExhausted(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(nil, ErrConcurrencyConflict)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(100), nil)

	_, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Numbers: []int{17}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceBusy)
	assert.False(t, IsRejection(err))
	assert.Zero(t, f.draws)
	f.accounts.AssertNumberOfCalls(t, "LockForUpdate", f.cfg.SettleMaxRetries)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestSpinService_PlaySpin_StakeOverflowRejected(t *testing.T) {
	f := newSpinFixture()

	_, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: MaxStake, Target: "red"},
		{Stake: 1, Target: "black"},
	})

	assert.ErrorIs(t, err, ErrValidation)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, 1, rej.WagerIndex)
	f.factory.AssertNotCalled(t, "Create")
}

func TestSpinService_PlaySpin_BalanceTooLargeForWin(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(math.MaxInt64-100), nil)

	_, err := f.service(17).PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Numbers: []int{17}},
	})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.draws)
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSpinService_PlaySpin_EntropyFailureTouchesNoFunds(t *testing.T) {
	f := newSpinFixture()
	f.accounts.On("GetByID", mock.Anything, testAccountID).Return(f.account, nil)
	f.accounts.On("LockForUpdate", mock.Anything, testAccountID).Return(f.account, nil)
	f.ledger.On("GetBalance", mock.Anything, testAccountID).Return(int64(100), nil)

	broken := SourceFunc(func(int) (int, error) { return 0, errors.New("entropy pool exhausted") })
	svc := NewSpinService(f.factory, NewWheel(broken), f.cfg)

	_, err := svc.PlaySpin(context.Background(), testAccountID, []models.WagerRequest{
		{Stake: 10, Target: "red"},
	})

	assert.ErrorIs(t, err, ErrEntropyFailure)
	assert.False(t, IsRejection(err))
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestSpinService_PlaySpin_CompletesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newSpinFixture()
	f.expectSettlement(100)

	f.spins.ExpectedCalls = nil
	f.spins.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		cancel()
		assert.NoError(t, args.Get(0).(context.Context).Err())
	})

	outcome, err := f.service(17).PlaySpin(ctx, testAccountID, []models.WagerRequest{
		{Stake: 10, Numbers: []int{17}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(450), outcome.Balance)
}

func TestSpinService_GetHistory(t *testing.T) {
	f := newSpinFixture()
	records := []*models.SpinRecord{{AccountID: testAccountID, Pocket: 3}}
	f.spins.On("GetByAccount", mock.Anything, testAccountID, 20).Return(records, nil)
	f.spins.On("GetByAccount", mock.Anything, testAccountID, 100).Return(records, nil)

	svc := f.service(0)
	got, err := svc.GetHistory(context.Background(), testAccountID, 0)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = svc.GetHistory(context.Background(), testAccountID, 5000)
	require.NoError(t, err)
	f.spins.AssertExpectations(t)
}
