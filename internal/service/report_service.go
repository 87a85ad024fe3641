// Package service orchestrates the import pipeline, the report store, the
// read caches and the daily automation cycle.
package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmops/mrep/backend-go/internal/cache"
	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/pipeline"
	"github.com/pharmops/mrep/backend-go/internal/repository"
	"github.com/pharmops/mrep/backend-go/internal/storage"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

// ReportService is the single entry point for imports and reads. Writes go
// pipeline -> postgres -> cache invalidation, in that order: the cache is
// only cleared after the store has acknowledged the write, so a crash in
// between leaves stale-but-consistent reads rather than phantom data.
type ReportService struct {
	runner  *pipeline.Runner
	facts   repository.FactRepository
	reports repository.ReportRepository
	cache   cache.SummaryCache
	archive storage.ObjectStorage
	log     zerolog.Logger
}

func NewReportService(
	runner *pipeline.Runner,
	facts repository.FactRepository,
	reports repository.ReportRepository,
	summaryCache cache.SummaryCache,
	archive storage.ObjectStorage,
) *ReportService {
	return &ReportService{
		runner:  runner,
		facts:   facts,
		reports: reports,
		cache:   summaryCache,
		archive: archive,
		log:     logger.With("report-service"),
	}
}

// ImportBatch runs the batch through the pipeline and persists whatever
// survived. Partial batches persist their good files; the caller sees the
// per-file errors in the returned batch.
func (s *ReportService) ImportBatch(ctx context.Context, jobs []pipeline.Job, opts pipeline.Options) (*pipeline.Batch, error) {
	batch, err := s.runner.Run(ctx, jobs, opts)
	if err != nil {
		return batch, err
	}

	if err := s.persist(ctx, batch); err != nil {
		return batch, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidation failed")
	}

	s.archiveFiles(ctx, jobs, opts)

	return batch, nil
}

func (s *ReportService) persist(ctx context.Context, batch *pipeline.Batch) error {
	if len(batch.Facts) > 0 {
		if err := s.facts.SaveFacts(ctx, batch.Facts); err != nil {
			return fmt.Errorf("failed to save facts: %w", err)
		}
	}
	if batch.Finance != nil {
		if err := s.reports.SaveFinance(ctx, batch.Finance); err != nil {
			return fmt.Errorf("failed to save finance report: %w", err)
		}
	}
	if batch.Production != nil {
		if err := s.reports.SaveProduction(ctx, batch.Production); err != nil {
			return fmt.Errorf("failed to save production report: %w", err)
		}
	}
	return nil
}

// archiveFiles copies the raw upload bytes into the object store. Best
// effort: archive failures are logged, never surfaced, since the import has
// already been acknowledged.
func (s *ReportService) archiveFiles(ctx context.Context, jobs []pipeline.Job, opts pipeline.Options) {
	prefix := fmt.Sprintf("uploads/%d-%02d", opts.Year, int(opts.Month)-1)
	for _, job := range jobs {
		if job.Path == "" {
			continue
		}
		data, err := os.ReadFile(job.Path)
		if err != nil {
			s.log.Warn().Str("file", job.Filename).Err(err).Msg("archive read failed")
			continue
		}
		key := path.Join(prefix, fmt.Sprintf("%d-%s", time.Now().Unix(), job.Filename))
		if err := s.archive.UploadObject(ctx, key, data); err != nil {
			s.log.Warn().Str("file", job.Filename).Err(err).Msg("archive upload failed")
		}
	}
}

// Facts returns stored facts matching the filter.
func (s *ReportService) Facts(ctx context.Context, filter repository.FactFilter) ([]domain.Fact, error) {
	return s.facts.ListFacts(ctx, filter)
}

// DeleteReportDate clears one report date ahead of a corrected re-import.
func (s *ReportService) DeleteReportDate(ctx context.Context, reportDate string) (int64, error) {
	n, err := s.facts.DeleteByReportDate(ctx, reportDate)
	if err != nil {
		return 0, err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidation failed")
	}
	return n, nil
}

// FinanceReport returns the stored finance view for a month (0-based), nil
// when none has been imported yet.
func (s *ReportService) FinanceReport(ctx context.Context, month, year int) (*domain.FinanceReport, error) {
	return s.reports.GetFinance(ctx, month, year)
}

// ProductionReport returns the stored production view for a month (0-based).
func (s *ReportService) ProductionReport(ctx context.Context, month, year int) (*domain.ProductionReport, error) {
	return s.reports.GetProduction(ctx, month, year)
}
