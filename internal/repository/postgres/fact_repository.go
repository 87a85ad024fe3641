package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/repository"
)

type factRepository struct {
	db *DB
}

func NewFactRepository(db *DB) repository.FactRepository {
	return &factRepository{db: db}
}

func (r *factRepository) SaveFacts(ctx context.Context, facts []domain.Fact) error {
	if len(facts) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO facts (
				department, team, metric, plan, actual, variance, unit, report_date, fy
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (department, team, metric, report_date)
			DO UPDATE SET
				plan = EXCLUDED.plan,
				actual = EXCLUDED.actual,
				variance = EXCLUDED.variance,
				unit = EXCLUDED.unit,
				fy = EXCLUDED.fy,
				updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare fact upsert: %w", err)
		}
		defer stmt.Close()

		for _, f := range facts {
			_, err := stmt.ExecContext(
				ctx,
				f.Department,
				f.Team,
				f.Metric,
				f.Plan,
				f.Actual,
				f.Variance,
				f.Unit,
				f.ReportDate,
				f.FY,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert fact %s: %w", f.Key(), err)
			}
		}

		return nil
	})
}

func (r *factRepository) ListFacts(ctx context.Context, filter repository.FactFilter) ([]domain.Fact, error) {
	query := `
		SELECT id, department, team, metric, plan, actual, variance, unit, report_date, fy
		FROM facts
		WHERE ($1 = '' OR department = $1)
		  AND ($2 = '' OR team = $2)
		  AND ($3 = '' OR metric = $3)
		  AND ($4 = '' OR report_date = $4)
		  AND ($5 = '' OR fy = $5)
		ORDER BY department, team, metric, report_date
	`

	var facts []domain.Fact
	err := sqlx.SelectContext(ctx, r.db, &facts, query,
		filter.Department, filter.Team, filter.Metric, filter.ReportDate, filter.FY)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}

	return facts, nil
}

func (r *factRepository) DeleteByReportDate(ctx context.Context, reportDate string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facts WHERE report_date = $1`, reportDate)
	if err != nil {
		return 0, fmt.Errorf("failed to delete facts for %s: %w", reportDate, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
