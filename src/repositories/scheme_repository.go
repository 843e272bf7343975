package repositories

import (
	"context"

	"mfportal/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SchemeRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.MutualFundScheme, error)
	GetByID(ctx context.Context, id uint) (*models.MutualFundScheme, error)
	Create(ctx context.Context, s *models.MutualFundScheme) error
	Update(ctx context.Context, s *models.MutualFundScheme) error
	UpdateNAV(ctx context.Context, id uint, nav decimal.Decimal) (*models.MutualFundScheme, error)
	Delete(ctx context.Context, id uint) error
}

type schemeRepo struct {
	db *pgxpool.Pool
}

func NewSchemeRepository(db *pgxpool.Pool) SchemeRepository {
	return &schemeRepo{db: db}
}

const schemeColumns = `id, name, scheme_code, description, category, nav::text, is_active, created_at, updated_at`

func scanScheme(row pgx.Row) (*models.MutualFundScheme, error) {
	var s models.MutualFundScheme
	err := row.Scan(&s.ID, &s.Name, &s.SchemeCode, &s.Description, &s.Category, &s.NAV, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *schemeRepo) List(ctx context.Context, activeOnly bool) ([]models.MutualFundScheme, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+schemeColumns+`
		FROM mutual_fund_schemes
		WHERE is_active OR NOT $1
		ORDER BY name`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schemes := []models.MutualFundScheme{}
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, *s)
	}
	return schemes, rows.Err()
}

func (r *schemeRepo) GetByID(ctx context.Context, id uint) (*models.MutualFundScheme, error) {
	return scanScheme(r.db.QueryRow(ctx, `SELECT `+schemeColumns+` FROM mutual_fund_schemes WHERE id = $1`, id))
}

func (r *schemeRepo) Create(ctx context.Context, s *models.MutualFundScheme) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO mutual_fund_schemes (name, scheme_code, description, category, nav, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		s.Name, s.SchemeCode, s.Description, s.Category, s.NAV.String(), s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

func (r *schemeRepo) Update(ctx context.Context, s *models.MutualFundScheme) error {
	err := r.db.QueryRow(ctx, `
		UPDATE mutual_fund_schemes
		SET name = $1, scheme_code = $2, description = $3, category = $4, nav = $5, is_active = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING created_at, updated_at`,
		s.Name, s.SchemeCode, s.Description, s.Category, s.NAV.String(), s.IsActive, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

func (r *schemeRepo) UpdateNAV(ctx context.Context, id uint, nav decimal.Decimal) (*models.MutualFundScheme, error) {
	return scanScheme(r.db.QueryRow(ctx, `
		UPDATE mutual_fund_schemes SET nav = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+schemeColumns, nav.String(), id))
}

func (r *schemeRepo) Delete(ctx context.Context, id uint) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM mutual_fund_schemes WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// getActive does not lock the scheme row: a NAV update racing a purchase is
// resolved by whichever value the purchase read.
func (r *schemeRepo) getActive(ctx context.Context, tx pgx.Tx, id uint) (*models.MutualFundScheme, error) {
	return scanScheme(pick(r.db, tx).QueryRow(ctx, `
		SELECT `+schemeColumns+`
		FROM mutual_fund_schemes
		WHERE id = $1 AND is_active`, id))
}
