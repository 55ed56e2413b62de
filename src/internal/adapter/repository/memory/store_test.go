package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

func openAccount(t *testing.T, store *Store, userID int64) domain.Account {
	t.Helper()

	var account domain.Account
	err := store.Do(context.Background(), func(ctx context.Context, repos repo_interfaces.Repositories) error {
		var err error
		account, err = repos.Accounts.Create(ctx, domain.Account{
			UserID:  userID,
			Balance: decimal.Zero,
			Status:  domain.AccountStatus{Code: 1, Description: domain.AccountStatusActive},
		})
		return err
	})
	require.NoError(t, err)
	return account
}

func TestStoreFailedUnitLeavesNoTrace(t *testing.T) {
	store := NewStore()
	account := openAccount(t, store, 1)
	boom := errors.New("boom")

	err := store.Do(context.Background(), func(ctx context.Context, repos repo_interfaces.Repositories) error {
		locked, err := repos.Accounts.LockByID(ctx, account.ID)
		require.NoError(t, err)

		locked.Balance = decimal.NewFromInt(50)
		_, err = repos.Accounts.Update(ctx, locked)
		require.NoError(t, err)
		_, err = repos.Movements.Create(ctx, domain.Movement{AccountID: account.ID, Amount: decimal.NewFromInt(50), Type: domain.MovementTypeDeposit})
		require.NoError(t, err)
		_, err = repos.Positions.Apply(ctx, account.ID, 1, 3)
		require.NoError(t, err)

		staged, err := repos.Positions.GetQuantity(ctx, account.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), staged)

		return boom
	})
	require.ErrorIs(t, err, boom)

	repos := store.Repositories()
	current, err := repos.Accounts.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, current.Balance.IsZero())

	movements, err := repos.Movements.ListByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)

	quantity, err := repos.Positions.GetQuantity(context.Background(), account.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, quantity)
}

func TestStoreWritesRequireLock(t *testing.T) {
	store := NewStore()
	account := openAccount(t, store, 1)

	err := store.Do(context.Background(), func(ctx context.Context, repos repo_interfaces.Repositories) error {
		_, err := repos.Accounts.Update(ctx, account)
		return err
	})
	assert.ErrorIs(t, err, errAccountNotLocked)

	_, err = store.Repositories().Movements.Create(context.Background(), domain.Movement{AccountID: account.ID})
	assert.ErrorIs(t, err, errOutsideUnitOfWork)
}

func TestStorePositionCannotGoNegative(t *testing.T) {
	store := NewStore()
	account := openAccount(t, store, 1)

	err := store.Do(context.Background(), func(ctx context.Context, repos repo_interfaces.Repositories) error {
		if _, err := repos.Accounts.LockByID(ctx, account.ID); err != nil {
			return err
		}
		if _, err := repos.Positions.Apply(ctx, account.ID, 2, 4); err != nil {
			return err
		}
		_, err := repos.Positions.Apply(ctx, account.ID, 2, -5)
		return err
	})
	assert.ErrorIs(t, err, commons.ErrNegativeQuantity)

	open, err := store.Repositories().Positions.HasOpenPosition(context.Background(), account.ID)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestStoreRejectsNegativeBalance(t *testing.T) {
	store := NewStore()
	account := openAccount(t, store, 1)

	err := store.Do(context.Background(), func(ctx context.Context, repos repo_interfaces.Repositories) error {
		locked, err := repos.Accounts.LockByID(ctx, account.ID)
		if err != nil {
			return err
		}
		locked.Balance = decimal.NewFromInt(-1)
		_, err = repos.Accounts.Update(ctx, locked)
		return err
	})
	assert.ErrorIs(t, err, commons.ErrInsufficientBalance)
}

func TestStoreSeedsReferenceData(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()

	statuses, err := repos.Statuses.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, statuses, 3)

	stocks, err := repos.Stocks.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, len(DefaultStockSymbols))
	assert.Equal(t, "AAPL", stocks[0].Symbol)

	_, err = repos.Stocks.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, commons.ErrStockNotFound)
}
