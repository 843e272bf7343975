package repositories

import (
	"context"

	"mfportal/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository interface {
	List(ctx context.Context) ([]models.TransactionWithDetails, error)
	ListByUser(ctx context.Context, userID uint) ([]models.TransactionWithDetails, error)
	GetByID(ctx context.Context, id uint) (*models.TransactionWithDetails, error)
}

type transactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

const transactionWithDetailsQuery = `
	SELECT t.id, t.reference, t.user_id, t.scheme_id, t.transaction_type, t.units::text,
		t.nav_at_transaction::text, t.amount::text, t.transaction_date, u.username, s.name
	FROM mf_transactions t
	JOIN users u ON u.id = t.user_id
	JOIN mutual_fund_schemes s ON s.id = t.scheme_id`

// Newest first; id breaks ties between rows stamped in the same instant.
const transactionOrder = ` ORDER BY t.transaction_date DESC, t.id DESC`

func scanTransaction(row pgx.Row) (*models.TransactionWithDetails, error) {
	var t models.TransactionWithDetails
	err := row.Scan(&t.ID, &t.Reference, &t.UserID, &t.SchemeID, &t.TransactionType, &t.Units,
		&t.NAVAtTransaction, &t.Amount, &t.TransactionDate, &t.Username, &t.SchemeName)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *transactionRepo) query(ctx context.Context, sql string, args ...any) ([]models.TransactionWithDetails, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.TransactionWithDetails{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (r *transactionRepo) List(ctx context.Context) ([]models.TransactionWithDetails, error) {
	return r.query(ctx, transactionWithDetailsQuery+transactionOrder)
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID uint) ([]models.TransactionWithDetails, error) {
	return r.query(ctx, transactionWithDetailsQuery+` WHERE t.user_id = $1`+transactionOrder, userID)
}

func (r *transactionRepo) GetByID(ctx context.Context, id uint) (*models.TransactionWithDetails, error) {
	return scanTransaction(r.db.QueryRow(ctx, transactionWithDetailsQuery+` WHERE t.id = $1`, id))
}

// create appends a transaction. Rows are never updated or deleted.
func (r *transactionRepo) create(ctx context.Context, tx pgx.Tx, t *models.MFTransaction) error {
	if t.Reference == uuid.Nil {
		t.Reference = uuid.New()
	}
	err := pick(r.db, tx).QueryRow(ctx, `
		INSERT INTO mf_transactions (reference, user_id, scheme_id, transaction_type, units, nav_at_transaction, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, transaction_date`,
		t.Reference, t.UserID, t.SchemeID, t.TransactionType, t.Units.String(), t.NAVAtTransaction.String(),
		t.Amount.String(),
	).Scan(&t.ID, &t.TransactionDate)
	return translate(err)
}
