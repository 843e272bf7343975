package repositories

import (
	"context"

	"mfportal/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PortfolioRepository interface {
	List(ctx context.Context) ([]models.PortfolioWithScheme, error)
	ListByUser(ctx context.Context, userID uint) ([]models.PortfolioWithScheme, error)
	GetByID(ctx context.Context, id uint) (*models.PortfolioWithScheme, error)
	ListUserIDs(ctx context.Context) ([]uint, error)
}

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) PortfolioRepository {
	return &portfolioRepo{db: db}
}

const portfolioWithSchemeQuery = `
	SELECT p.id, p.user_id, p.scheme_id, p.units::text, p.invested_amount::text, p.created_at, p.updated_at,
		s.name, s.scheme_code, s.nav::text
	FROM portfolios p
	JOIN mutual_fund_schemes s ON s.id = p.scheme_id`

func scanPortfolioWithScheme(row pgx.Row) (*models.PortfolioWithScheme, error) {
	var p models.PortfolioWithScheme
	err := row.Scan(&p.ID, &p.UserID, &p.SchemeID, &p.Units, &p.InvestedAmount, &p.CreatedAt, &p.UpdatedAt,
		&p.SchemeName, &p.SchemeCode, &p.CurrentNAV)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *portfolioRepo) query(ctx context.Context, sql string, args ...any) ([]models.PortfolioWithScheme, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := []models.PortfolioWithScheme{}
	for rows.Next() {
		p, err := scanPortfolioWithScheme(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, *p)
	}
	return positions, rows.Err()
}

func (r *portfolioRepo) List(ctx context.Context) ([]models.PortfolioWithScheme, error) {
	return r.query(ctx, portfolioWithSchemeQuery+` ORDER BY p.user_id, p.id`)
}

func (r *portfolioRepo) ListByUser(ctx context.Context, userID uint) ([]models.PortfolioWithScheme, error) {
	return r.query(ctx, portfolioWithSchemeQuery+` WHERE p.user_id = $1 ORDER BY p.id`, userID)
}

func (r *portfolioRepo) GetByID(ctx context.Context, id uint) (*models.PortfolioWithScheme, error) {
	return scanPortfolioWithScheme(r.db.QueryRow(ctx, portfolioWithSchemeQuery+` WHERE p.id = $1`, id))
}

func (r *portfolioRepo) ListUserIDs(ctx context.Context) ([]uint, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT user_id FROM portfolios ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// addToPosition creates the (user, scheme) row on first purchase and adds to
// it afterwards. The unique index makes the upsert safe without a lock.
func (r *portfolioRepo) addToPosition(ctx context.Context, tx pgx.Tx, userID, schemeID uint, units, amount decimal.Decimal) (*models.Portfolio, error) {
	var p models.Portfolio
	err := pick(r.db, tx).QueryRow(ctx, `
		INSERT INTO portfolios (user_id, scheme_id, units, invested_amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, scheme_id) DO UPDATE SET
			units = portfolios.units + EXCLUDED.units,
			invested_amount = portfolios.invested_amount + EXCLUDED.invested_amount,
			updated_at = NOW()
		RETURNING id, user_id, scheme_id, units::text, invested_amount::text, created_at, updated_at`,
		userID, schemeID, units.String(), amount.String(),
	).Scan(&p.ID, &p.UserID, &p.SchemeID, &p.Units, &p.InvestedAmount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
