package repository

import (
	"context"
	"errors"
	"fmt"

	"wheelhouse/database"
	"wheelhouse/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements service.AccountRepository
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByID retrieves an account, or nil if it does not exist
func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (*models.Account, error) {
	query := `
		SELECT id, username, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanOne(ctx, query, accountID)
}

// LockForUpdate retrieves an account and holds its row lock until the
// surrounding transaction ends
func (r *AccountRepository) LockForUpdate(ctx context.Context, accountID int64) (*models.Account, error) {
	query := `
		SELECT id, username, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanOne(ctx, query, accountID)
}

// Create inserts a new account, returning nil if the ID is already taken
func (r *AccountRepository) Create(ctx context.Context, accountID int64, username string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
		RETURNING id, username, created_at, updated_at
	`
	account, err := r.scanOne(ctx, query, accountID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %d: %w", accountID, err)
	}
	return account, nil
}

func (r *AccountRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&account.ID,
		&account.Username,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err, "failed to get account %v", args[0])
	}
	return &account, nil
}
