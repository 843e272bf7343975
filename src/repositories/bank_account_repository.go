package repositories

import (
	"context"

	"mfportal/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BankAccountRepository interface {
	List(ctx context.Context) ([]models.BankAccount, error)
	GetByID(ctx context.Context, id uint) (*models.BankAccount, error)
	GetByUserID(ctx context.Context, userID uint) (*models.BankAccount, error)
	Create(ctx context.Context, a *models.BankAccount) error
	UpdateDetails(ctx context.Context, a *models.BankAccount) error
}

type bankAccountRepo struct {
	db *pgxpool.Pool
}

func NewBankAccountRepository(db *pgxpool.Pool) BankAccountRepository {
	return &bankAccountRepo{db: db}
}

const bankAccountColumns = `
	b.id, b.user_id, u.username, b.account_number, b.ifsc_code, b.bank_name,
	b.balance::text, b.created_at, b.updated_at`

func scanBankAccount(row pgx.Row) (*models.BankAccount, error) {
	var a models.BankAccount
	err := row.Scan(&a.ID, &a.UserID, &a.Username, &a.AccountNumber, &a.IFSCCode, &a.BankName,
		&a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *bankAccountRepo) List(ctx context.Context) ([]models.BankAccount, error) {
	rows, err := r.db.Query(ctx, `SELECT`+bankAccountColumns+`
		FROM bank_accounts b JOIN users u ON u.id = b.user_id
		ORDER BY b.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *bankAccountRepo) GetByID(ctx context.Context, id uint) (*models.BankAccount, error) {
	return scanBankAccount(r.db.QueryRow(ctx, `SELECT`+bankAccountColumns+`
		FROM bank_accounts b JOIN users u ON u.id = b.user_id
		WHERE b.id = $1`, id))
}

func (r *bankAccountRepo) GetByUserID(ctx context.Context, userID uint) (*models.BankAccount, error) {
	return scanBankAccount(r.db.QueryRow(ctx, `SELECT`+bankAccountColumns+`
		FROM bank_accounts b JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1`, userID))
}

func (r *bankAccountRepo) Create(ctx context.Context, a *models.BankAccount) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO bank_accounts (user_id, account_number, ifsc_code, bank_name, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		a.UserID, a.AccountNumber, a.IFSCCode, a.BankName, a.Balance.String(),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *bankAccountRepo) UpdateDetails(ctx context.Context, a *models.BankAccount) error {
	err := r.db.QueryRow(ctx, `
		UPDATE bank_accounts
		SET account_number = $1, ifsc_code = $2, bank_name = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		a.AccountNumber, a.IFSCCode, a.BankName, a.ID,
	).Scan(&a.UpdatedAt)
	return translate(err)
}

// getByUserForUpdate takes the row lock that serializes every balance
// mutation of the account until tx ends.
func (r *bankAccountRepo) getByUserForUpdate(ctx context.Context, tx pgx.Tx, userID uint) (*models.BankAccount, error) {
	return scanBankAccount(pick(r.db, tx).QueryRow(ctx, `SELECT`+bankAccountColumns+`
		FROM bank_accounts b JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1
		FOR UPDATE OF b`, userID))
}

func (r *bankAccountRepo) getByIDForUpdate(ctx context.Context, tx pgx.Tx, id uint) (*models.BankAccount, error) {
	return scanBankAccount(pick(r.db, tx).QueryRow(ctx, `SELECT`+bankAccountColumns+`
		FROM bank_accounts b JOIN users u ON u.id = b.user_id
		WHERE b.id = $1
		FOR UPDATE OF b`, id))
}

func (r *bankAccountRepo) updateBalance(ctx context.Context, tx pgx.Tx, a *models.BankAccount) error {
	err := pick(r.db, tx).QueryRow(ctx, `
		UPDATE bank_accounts SET balance = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at`,
		a.Balance.String(), a.ID,
	).Scan(&a.UpdatedAt)
	return translate(err)
}
