// Package repository defines the persistence contracts the services depend
// on. Implementations live in the postgres subpackage.
package repository

import (
	"context"

	"github.com/pharmops/mrep/backend-go/internal/domain"
)

// FactFilter narrows fact queries. Zero values mean "any".
type FactFilter struct {
	Department string
	Team       string
	Metric     string
	ReportDate string
	FY         string
}

// FactRepository stores the flat fact records the extractors emit.
type FactRepository interface {
	// SaveFacts upserts facts by their natural key. The write must be
	// acknowledged before any cached view is refreshed.
	SaveFacts(ctx context.Context, facts []domain.Fact) error
	ListFacts(ctx context.Context, filter FactFilter) ([]domain.Fact, error)
	// DeleteByReportDate clears one report date, e.g. before re-importing a
	// corrected master file.
	DeleteByReportDate(ctx context.Context, reportDate string) (int64, error)
}

// ReportRepository stores the monthly finance and production views as
// payload blobs keyed by report kind and month.
type ReportRepository interface {
	SaveFinance(ctx context.Context, report *domain.FinanceReport) error
	GetFinance(ctx context.Context, month, year int) (*domain.FinanceReport, error)
	SaveProduction(ctx context.Context, report *domain.ProductionReport) error
	GetProduction(ctx context.Context, month, year int) (*domain.ProductionReport, error)
}
