package repositories

import (
	"context"

	"mfportal/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerTx is the set of operations available inside one atomic unit of work
// over bank accounts, transactions and portfolios.
type LedgerTx interface {
	// GetBankAccountByUserForUpdate locks the account row until the unit ends.
	GetBankAccountByUserForUpdate(ctx context.Context, userID uint) (*models.BankAccount, error)
	GetBankAccountByIDForUpdate(ctx context.Context, id uint) (*models.BankAccount, error)
	UpdateBankAccountBalance(ctx context.Context, account *models.BankAccount) error
	GetActiveScheme(ctx context.Context, schemeID uint) (*models.MutualFundScheme, error)
	CreateTransaction(ctx context.Context, t *models.MFTransaction) error
	AddToPortfolio(ctx context.Context, userID, schemeID uint, units, amount decimal.Decimal) (*models.Portfolio, error)
}

type LedgerStore interface {
	// WithTx runs fn in a single database transaction. The transaction is
	// committed only if fn returns nil; any error or panic rolls it back and
	// releases every lock taken inside fn.
	WithTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

type ledgerStore struct {
	db           *pgxpool.Pool
	accounts     *bankAccountRepo
	schemes      *schemeRepo
	portfolios   *portfolioRepo
	transactions *transactionRepo
}

func NewLedgerStore(db *pgxpool.Pool) LedgerStore {
	return &ledgerStore{
		db:           db,
		accounts:     &bankAccountRepo{db: db},
		schemes:      &schemeRepo{db: db},
		portfolios:   &portfolioRepo{db: db},
		transactions: &transactionRepo{db: db},
	}
}

func (s *ledgerStore) WithTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			// the request context may already be cancelled
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err := fn(&ledgerTx{store: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

type ledgerTx struct {
	store *ledgerStore
	tx    pgx.Tx
}

func (l *ledgerTx) GetBankAccountByUserForUpdate(ctx context.Context, userID uint) (*models.BankAccount, error) {
	return l.store.accounts.getByUserForUpdate(ctx, l.tx, userID)
}

func (l *ledgerTx) GetBankAccountByIDForUpdate(ctx context.Context, id uint) (*models.BankAccount, error) {
	return l.store.accounts.getByIDForUpdate(ctx, l.tx, id)
}

func (l *ledgerTx) UpdateBankAccountBalance(ctx context.Context, account *models.BankAccount) error {
	return l.store.accounts.updateBalance(ctx, l.tx, account)
}

func (l *ledgerTx) GetActiveScheme(ctx context.Context, schemeID uint) (*models.MutualFundScheme, error) {
	return l.store.schemes.getActive(ctx, l.tx, schemeID)
}

func (l *ledgerTx) CreateTransaction(ctx context.Context, t *models.MFTransaction) error {
	return l.store.transactions.create(ctx, l.tx, t)
}

func (l *ledgerTx) AddToPortfolio(ctx context.Context, userID, schemeID uint, units, amount decimal.Decimal) (*models.Portfolio, error) {
	return l.store.portfolios.addToPosition(ctx, l.tx, userID, schemeID, units, amount)
}
