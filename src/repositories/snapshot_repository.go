package repositories

import (
	"context"

	"mfportal/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SnapshotRepository interface {
	Upsert(ctx context.Context, s *models.PortfolioSnapshot) error
	ListByUser(ctx context.Context, userID uint) ([]models.PortfolioSnapshot, error)
}

type snapshotRepo struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepo{db: db}
}

// Upsert keeps a single snapshot per user and day; re-running the job on the
// same day overwrites it.
func (r *snapshotRepo) Upsert(ctx context.Context, s *models.PortfolioSnapshot) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO portfolio_snapshots (user_id, snapshot_date, total_invested, total_current_value, total_profit_loss)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, snapshot_date) DO UPDATE SET
			total_invested = EXCLUDED.total_invested,
			total_current_value = EXCLUDED.total_current_value,
			total_profit_loss = EXCLUDED.total_profit_loss
		RETURNING id, created_at`,
		s.UserID, s.SnapshotDate, s.TotalInvested.String(), s.TotalCurrentValue.String(), s.TotalProfitLoss.String(),
	).Scan(&s.ID, &s.CreatedAt)
	return translate(err)
}

func (r *snapshotRepo) ListByUser(ctx context.Context, userID uint) ([]models.PortfolioSnapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, snapshot_date, total_invested::text, total_current_value::text,
			total_profit_loss::text, created_at
		FROM portfolio_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.PortfolioSnapshot{}
	for rows.Next() {
		var s models.PortfolioSnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.SnapshotDate, &s.TotalInvested, &s.TotalCurrentValue,
			&s.TotalProfitLoss, &s.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
