package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/repository"
)

type reportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

// reportKey scopes one stored view, e.g. "finance:2025-10" (month 0-based).
func reportKey(kind string, month, year int) string {
	return fmt.Sprintf("%s:%d-%02d", kind, year, month)
}

func (r *reportRepository) save(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report %s: %w", key, err)
	}
	query := `
		INSERT INTO reports (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, key, data); err != nil {
		return fmt.Errorf("failed to save report %s: %w", key, err)
	}
	return nil
}

func (r *reportRepository) load(ctx context.Context, key string, out any) (bool, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM reports WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load report %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal report %s: %w", key, err)
	}
	return true, nil
}

func (r *reportRepository) SaveFinance(ctx context.Context, report *domain.FinanceReport) error {
	return r.save(ctx, reportKey("finance", report.Month, report.Year), report)
}

func (r *reportRepository) GetFinance(ctx context.Context, month, year int) (*domain.FinanceReport, error) {
	var report domain.FinanceReport
	found, err := r.load(ctx, reportKey("finance", month, year), &report)
	if err != nil || !found {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) SaveProduction(ctx context.Context, report *domain.ProductionReport) error {
	return r.save(ctx, reportKey("production", report.Month, report.Year), report)
}

func (r *reportRepository) GetProduction(ctx context.Context, month, year int) (*domain.ProductionReport, error) {
	var report domain.ProductionReport
	found, err := r.load(ctx, reportKey("production", month, year), &report)
	if err != nil || !found {
		return nil, err
	}
	return &report, nil
}
