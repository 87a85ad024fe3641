package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/extract"
	"github.com/pharmops/mrep/backend-go/internal/merge"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

// ErrEmptyBatch is returned when the run produced nothing at all: every file
// failed and no facts or reports survived. Partial results never trigger it.
var ErrEmptyBatch = errors.New("batch produced no data: all files failed")

const defaultWorkers = 4

// Runner executes batch runs with a bounded worker pool.
type Runner struct {
	workers int
	log     zerolog.Logger
}

func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Runner{
		workers: workers,
		log:     logger.With("pipeline"),
	}
}

// fileResult holds one file's output until the barrier. Results are merged
// in job order, not completion order, so reruns of the same batch are
// deterministic.
type fileResult struct {
	facts      []domain.Fact
	finance    *domain.FinanceReport
	production *domain.ProductionReport
	err        error
}

// Run parses every job concurrently, then merges the results. Facts from
// later jobs overwrite earlier ones per natural key; finance and production
// reports fold together by category and product line.
func (r *Runner) Run(ctx context.Context, jobs []Job, opts Options) (*Batch, error) {
	start := time.Now()
	r.log.Info().Int("files", len(jobs)).Int("workers", r.workers).
		Int("month", int(opts.Month)).Int("year", opts.Year).
		Msg("starting batch run")

	results := make([]fileResult, len(jobs))

	jobChan := make(chan int, len(jobs))
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				select {
				case <-ctx.Done():
					results[i].err = ctx.Err()
					continue
				default:
				}
				results[i] = r.processFile(jobs[i], opts)
			}
		}()
	}
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()

	batch := &Batch{ProcessedAt: time.Now()}
	var factSets [][]domain.Fact
	for i, res := range results {
		if res.err != nil {
			r.log.Warn().Str("file", jobs[i].Filename).Err(res.err).Msg("file failed")
			batch.FileErrors = append(batch.FileErrors, domain.FileError{
				Filename: jobs[i].Filename,
				Message:  res.err.Error(),
			})
			continue
		}
		batch.FilesOK++
		if len(res.facts) > 0 {
			factSets = append(factSets, res.facts)
		}
		if res.finance != nil {
			batch.Finance = merge.Finance(batch.Finance, res.finance)
		}
		if res.production != nil {
			batch.Production = merge.Production(batch.Production, res.production)
		}
	}
	batch.Facts = merge.Facts(factSets...)

	if len(batch.Facts) == 0 && batch.Finance == nil && batch.Production == nil && len(batch.FileErrors) > 0 {
		return batch, ErrEmptyBatch
	}

	r.log.Info().Int("ok", batch.FilesOK).Int("failed", len(batch.FileErrors)).
		Int("facts", len(batch.Facts)).Dur("took", time.Since(start)).
		Msg("batch run finished")
	return batch, nil
}

func (r *Runner) processFile(job Job, opts Options) fileResult {
	grid, err := r.loadGrid(job)
	if err != nil {
		return fileResult{err: err}
	}

	switch job.Slot {
	case SlotFinance:
		report, err := extract.Finance(grid, extract.FinanceOptions{
			Filename: job.Filename, Month: opts.Month, Year: opts.Year,
		})
		return fileResult{finance: report, err: err}

	case SlotProduction:
		report, facts, err := extract.Production(grid, extract.ProductionOptions{
			Filename: job.Filename, Month: opts.Month, Year: opts.Year,
		})
		return fileResult{production: report, facts: facts, err: err}

	case SlotTrade, SlotTradeMaster:
		facts, err := extract.Trade(grid, extract.TradeOptions{
			Filename: job.Filename, Month: opts.Month, Year: opts.Year,
			IsMaster: job.Slot == SlotTradeMaster,
		})
		return fileResult{facts: facts, err: err}

	case SlotSales, SlotSalesMaster, SlotTerritory:
		facts, err := extract.Sales(grid, extract.SalesOptions{
			Filename: job.Filename, Month: opts.Month, Year: opts.Year,
			IsMaster:    job.Slot == SlotSalesMaster,
			IsTerritory: job.Slot == SlotTerritory,
			Unit:        opts.Unit,
		})
		return fileResult{facts: facts, err: err}

	default:
		res, err := extract.Auto(grid, extract.AutoOptions{
			Filename: job.Filename, Month: opts.Month, Year: opts.Year,
		})
		if err != nil {
			return fileResult{err: err}
		}
		return fileResult{facts: res.Facts, finance: res.Finance, production: res.Production}
	}
}

func (r *Runner) loadGrid(job Job) (sheet.Grid, error) {
	keyword := job.Slot.sheetKeyword()
	if job.Reader != nil {
		return sheet.Load(job.Reader, keyword)
	}
	return sheet.LoadFile(job.Path, keyword)
}
