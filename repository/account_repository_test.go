package repository

import (
	"context"
	"testing"

	"wheelhouse/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("account not found", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("account found", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, "testuser")
		require.NoError(t, err)
		require.NotNil(t, created)

		account, err := repo.GetByID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "testuser", account.Username)
		assert.Equal(t, created.CreatedAt, account.CreatedAt)
	})
}

func TestAccountRepository_CreateDuplicateReturnsNil(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 42, "first")
	require.NoError(t, err)

	account, err := repo.Create(ctx, 42, "second")
	require.NoError(t, err)
	assert.Nil(t, account)

	stored, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Username)
}
