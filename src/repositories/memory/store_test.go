package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mfportal/src/models"
	"mfportal/src/repositories"
	"mfportal/src/repositories/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store *memory.Store, balance string) (*models.User, *models.BankAccount) {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Username: "ravi", Role: models.RoleCustomer}
	require.NoError(t, store.Users().Create(ctx, user))
	account := &models.BankAccount{
		UserID:        user.ID,
		AccountNumber: "9988776655",
		IFSCCode:      "SBIN0000001",
		BankName:      "SBI",
		Balance:       decimal.RequireFromString(balance),
	}
	require.NoError(t, store.BankAccounts().Create(ctx, account))
	return user, account
}

func TestWithTxCommitsOnlyOnSuccess(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user, account := seedAccount(t, store, "500.00")

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx repositories.LedgerTx) error {
		a, err := tx.GetBankAccountByUserForUpdate(ctx, user.ID)
		require.NoError(t, err)
		a.Balance = decimal.Zero
		require.NoError(t, tx.UpdateBankAccountBalance(ctx, a))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reloaded, err := store.BankAccounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "500", reloaded.Balance.String())
	assert.Equal(t, "ravi", reloaded.Username)

	err = store.WithTx(ctx, func(tx repositories.LedgerTx) error {
		a, err := tx.GetBankAccountByIDForUpdate(ctx, account.ID)
		if err != nil {
			return err
		}
		a.Balance = a.Balance.Sub(decimal.NewFromInt(200))
		return tx.UpdateBankAccountBalance(ctx, a)
	})
	require.NoError(t, err)

	reloaded, err = store.BankAccounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "300", reloaded.Balance.String())
}

func TestWithTxReleasesLockOnPanic(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user, _ := seedAccount(t, store, "10")

	assert.Panics(t, func() {
		_ = store.WithTx(ctx, func(tx repositories.LedgerTx) error {
			_, err := tx.GetBankAccountByUserForUpdate(ctx, user.ID)
			require.NoError(t, err)
			panic("unexpected")
		})
	})

	timeout, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	err := store.WithTx(timeout, func(tx repositories.LedgerTx) error {
		_, err := tx.GetBankAccountByUserForUpdate(timeout, user.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestAccountLockBlocksSecondUnitOfWork(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user, _ := seedAccount(t, store, "10")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.WithTx(ctx, func(tx repositories.LedgerTx) error {
			if _, err := tx.GetBankAccountByUserForUpdate(ctx, user.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	waiting, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := store.WithTx(waiting, func(tx repositories.LedgerTx) error {
		_, err := tx.GetBankAccountByUserForUpdate(waiting, user.ID)
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
}

func TestUpdateBalanceRejectsNegative(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user, _ := seedAccount(t, store, "10")

	err := store.WithTx(ctx, func(tx repositories.LedgerTx) error {
		a, err := tx.GetBankAccountByUserForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		a.Balance = decimal.NewFromInt(-1)
		return tx.UpdateBankAccountBalance(ctx, a)
	})
	assert.ErrorIs(t, err, memory.ErrCheckViolation)
}

func TestAddToPortfolioAccumulates(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user, _ := seedAccount(t, store, "10")
	scheme := &models.MutualFundScheme{Name: "Gilt", SchemeCode: "G1", NAV: decimal.NewFromInt(10), IsActive: true}
	require.NoError(t, store.Schemes().Create(ctx, scheme))

	add := func(units, amount string) *models.Portfolio {
		var p *models.Portfolio
		require.NoError(t, store.WithTx(ctx, func(tx repositories.LedgerTx) error {
			var err error
			p, err = tx.AddToPortfolio(ctx, user.ID, scheme.ID,
				decimal.RequireFromString(units), decimal.RequireFromString(amount))
			return err
		}))
		return p
	}

	first := add("1.5", "15")
	second := add("2.25", "22.50")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "3.75", second.Units.String())
	assert.Equal(t, "37.5", second.InvestedAmount.String())

	positions, err := store.Portfolios().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "Gilt", positions[0].SchemeName)
	assert.Equal(t, "3.75", positions[0].Units.String())
}

func TestUniqueConstraints(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user, _ := seedAccount(t, store, "10")

	assert.ErrorIs(t, store.Users().Create(ctx, &models.User{Username: "ravi"}), repositories.ErrConflict)

	second := &models.BankAccount{UserID: user.ID, AccountNumber: "1", IFSCCode: "X", BankName: "Y"}
	assert.ErrorIs(t, store.BankAccounts().Create(ctx, second), repositories.ErrConflict)

	require.NoError(t, store.Schemes().Create(ctx, &models.MutualFundScheme{Name: "A", SchemeCode: "A1", NAV: decimal.NewFromInt(1)}))
	err := store.Schemes().Create(ctx, &models.MutualFundScheme{Name: "B", SchemeCode: "A1", NAV: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, repositories.ErrConflict)
}
