package service

import (
	"context"
	"fmt"

	"wheelhouse/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// GetLeaderboard returns the top accounts by derived balance
func (s *statsService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.LedgerRepository().GetLeaderboard(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	for i, entry := range entries {
		entry.Rank = i + 1
	}
	return entries, nil
}

// GetAccountStats returns detailed statistics for an account
func (s *statsService) GetAccountStats(ctx context.Context, accountID int64) (*models.AccountStats, error) {
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

	balance, err := uow.LedgerRepository().GetBalance(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	spinStats, err := uow.SpinRepository().GetStats(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get spin stats: %w", err)
	}

	stats := &models.AccountStats{
		Account:     account,
		Balance:     balance,
		TotalSpins:  spinStats.TotalSpins,
		TotalWins:   spinStats.TotalWins,
		TotalLosses: spinStats.TotalLosses,
		TotalStaked: spinStats.TotalStaked,
		TotalPayout: spinStats.TotalPayout,
		NetProfit:   spinStats.TotalPayout - spinStats.TotalStaked,
		BiggestWin:  spinStats.BiggestWin,
		BiggestLoss: spinStats.BiggestLoss,
	}
	if spinStats.TotalSpins > 0 {
		stats.WinPercentage = float64(spinStats.TotalWins) / float64(spinStats.TotalSpins) * 100
	}
	return stats, nil
}
