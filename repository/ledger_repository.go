package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"wheelhouse/database"
	"wheelhouse/models"
)

// LedgerRepository implements service.LedgerRepository over ledger_entries
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append records a new entry
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	var metadataJSON []byte
	if entry.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger metadata: %w", err)
		}
	}

	query := `
		INSERT INTO ledger_entries (account_id, amount, kind, metadata, related_spin_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Amount,
		entry.Kind,
		metadataJSON,
		entry.RelatedSpinID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return wrapError(err, "failed to append ledger entry for account %d", entry.AccountID)
	}
	return nil
}

// GetBalance sums every entry for the account
func (r *LedgerRepository) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::BIGINT FROM ledger_entries WHERE account_id = $1`

	var balance int64
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return 0, wrapError(err, "failed to get balance for account %d", accountID)
	}
	return balance, nil
}

// GetByAccount returns recent entries, newest first
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, amount, kind, metadata, related_spin_id, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, wrapError(err, "failed to get ledger for account %d", accountID)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Amount,
			&entry.Kind,
			&metadataJSON,
			&entry.RelatedSpinID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal ledger metadata: %w", err)
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

// GetLeaderboard returns accounts ordered by derived balance
func (r *LedgerRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT a.id, a.username, COALESCE(SUM(l.amount), 0)::BIGINT AS balance
		FROM accounts a
		LEFT JOIN ledger_entries l ON l.account_id = a.id
		GROUP BY a.id, a.username
		ORDER BY balance DESC, a.id
		LIMIT $1
	`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, wrapError(err, "failed to get leaderboard")
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.AccountID, &entry.Username, &entry.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}
