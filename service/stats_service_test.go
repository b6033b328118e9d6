package service

import (
	"context"
	"testing"

	"wheelhouse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupStatsService() (StatsService, *MockAccountRepository, *MockLedgerRepository, *MockSpinRepository) {
	factory := new(MockUnitOfWorkFactory)
	uow := new(MockUnitOfWork)
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	spins := new(MockSpinRepository)

	uow.SetRepositories(accounts, ledger, spins)
	factory.On("Create").Return(uow)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)

	return NewStatsService(factory), accounts, ledger, spins
}

func TestStatsService_GetLeaderboard_AssignsRanks(t *testing.T) {
	ctx := context.Background()
	svc, _, ledger, _ := setupStatsService()

	ledger.On("GetLeaderboard", ctx, 10).Return([]*models.LeaderboardEntry{
		{AccountID: 1, Username: "alice", Balance: 5000},
		{AccountID: 2, Username: "bob", Balance: 1200},
		{AccountID: 3, Username: "carol", Balance: 80},
	}, nil)

	board, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	for i, entry := range board {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, "alice", board[0].Username)
}

func TestStatsService_GetAccountStats(t *testing.T) {
	ctx := context.Background()
	svc, accounts, ledger, spins := setupStatsService()

	account := &models.Account{ID: testAccountID, Username: "testuser"}
	accounts.On("GetByID", ctx, testAccountID).Return(account, nil)
	ledger.On("GetBalance", ctx, testAccountID).Return(int64(1350), nil)
	spins.On("GetStats", ctx, testAccountID).Return(&models.SpinStats{
		TotalSpins:  8,
		TotalWins:   2,
		TotalLosses: 6,
		TotalStaked: 400,
		TotalPayout: 750,
		BiggestWin:  350,
		BiggestLoss: 100,
	}, nil)

	stats, err := svc.GetAccountStats(ctx, testAccountID)
	require.NoError(t, err)

	assert.Equal(t, account, stats.Account)
	assert.Equal(t, int64(1350), stats.Balance)
	assert.Equal(t, 25.0, stats.WinPercentage)
	assert.Equal(t, int64(350), stats.NetProfit)
	assert.Equal(t, int64(350), stats.BiggestWin)
}

func TestStatsService_GetAccountStats_NoSpins(t *testing.T) {
	ctx := context.Background()
	svc, accounts, ledger, spins := setupStatsService()

	accounts.On("GetByID", ctx, testAccountID).Return(&models.Account{ID: testAccountID}, nil)
	ledger.On("GetBalance", ctx, testAccountID).Return(int64(1000), nil)
	spins.On("GetStats", ctx, testAccountID).Return(&models.SpinStats{}, nil)

	stats, err := svc.GetAccountStats(ctx, testAccountID)
	require.NoError(t, err)
	assert.Zero(t, stats.WinPercentage)
	assert.Zero(t, stats.NetProfit)
}

func TestStatsService_GetAccountStats_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _, _ := setupStatsService()

	accounts.On("GetByID", ctx, testAccountID).Return(nil, nil)

	_, err := svc.GetAccountStats(ctx, testAccountID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
