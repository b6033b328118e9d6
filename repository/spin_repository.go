package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wheelhouse/database"
	"wheelhouse/models"
)

// SpinRepository implements service.SpinRepository
type SpinRepository struct {
	q queryable
}

// NewSpinRepository creates a new spin repository
func NewSpinRepository(db *database.DB) *SpinRepository {
	return &SpinRepository{q: db.Pool}
}

// newSpinRepositoryWithTx creates a new spin repository with a transaction
func newSpinRepositoryWithTx(tx queryable) *SpinRepository {
	return &SpinRepository{q: tx}
}

// Create persists a settled spin
func (r *SpinRepository) Create(ctx context.Context, spin *models.SpinRecord) error {
	wagersJSON, err := json.Marshal(spin.Outcomes)
	if err != nil {
		return fmt.Errorf("failed to marshal spin wagers: %w", err)
	}

	query := `
		INSERT INTO spins (id, account_id, pocket, color, total_staked, total_payout, net, balance_after, wagers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err = r.q.QueryRow(ctx, query,
		spin.ID,
		spin.AccountID,
		spin.Pocket,
		spin.Color,
		spin.TotalStaked,
		spin.TotalPayout,
		spin.Net,
		spin.BalanceAfter,
		wagersJSON,
	).Scan(&spin.CreatedAt)
	if err != nil {
		return wrapError(err, "failed to record spin %s", spin.ID)
	}
	return nil
}

// GetByAccount returns the most recent spins for an account
func (r *SpinRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.SpinRecord, error) {
	query := `
		SELECT id, account_id, pocket, color, wagers, total_staked, total_payout, net, balance_after, created_at
		FROM spins
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, wrapError(err, "failed to get spins for account %d", accountID)
	}
	defer rows.Close()

	var spins []*models.SpinRecord
	for rows.Next() {
		var spin models.SpinRecord
		var wagersJSON []byte
		err := rows.Scan(
			&spin.ID,
			&spin.AccountID,
			&spin.Pocket,
			&spin.Color,
			&wagersJSON,
			&spin.TotalStaked,
			&spin.TotalPayout,
			&spin.Net,
			&spin.BalanceAfter,
			&spin.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spin: %w", err)
		}
		if err := json.Unmarshal(wagersJSON, &spin.Outcomes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal spin wagers: %w", err)
		}
		spins = append(spins, &spin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spins: %w", err)
	}
	return spins, nil
}

// GetStakedSince sums total_staked for spins at or after since
func (r *SpinRepository) GetStakedSince(ctx context.Context, accountID int64, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(total_staked), 0)::BIGINT
		FROM spins
		WHERE account_id = $1 AND created_at >= $2
	`
	var staked int64
	if err := r.q.QueryRow(ctx, query, accountID, since).Scan(&staked); err != nil {
		return 0, wrapError(err, "failed to get staked total for account %d", accountID)
	}
	return staked, nil
}

// GetStats aggregates spin history for an account
func (r *SpinRepository) GetStats(ctx context.Context, accountID int64) (*models.SpinStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE net > 0),
			COUNT(*) FILTER (WHERE net < 0),
			COALESCE(SUM(total_staked), 0)::BIGINT,
			COALESCE(SUM(total_payout), 0)::BIGINT,
			COALESCE(MAX(net) FILTER (WHERE net > 0), 0)::BIGINT,
			COALESCE(-MIN(net) FILTER (WHERE net < 0), 0)::BIGINT
		FROM spins
		WHERE account_id = $1
	`
	var stats models.SpinStats
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&stats.TotalSpins,
		&stats.TotalWins,
		&stats.TotalLosses,
		&stats.TotalStaked,
		&stats.TotalPayout,
		&stats.BiggestWin,
		&stats.BiggestLoss,
	)
	if err != nil {
		return nil, wrapError(err, "failed to get spin stats for account %d", accountID)
	}
	return &stats, nil
}
