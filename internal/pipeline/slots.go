// Package pipeline fans a batch of uploaded workbooks out to a worker pool,
// routes each file to its extractor, and merges the surviving results after
// the barrier. Every file is isolated: a structural failure in one never
// aborts the batch.
package pipeline

import (
	"io"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/domain"
)

// Slot identifies the upload slot a file arrived through. Mode flags come
// from the slot; SlotAuto defers to content sniffing instead.
type Slot int

const (
	SlotAuto Slot = iota
	SlotSales
	SlotSalesMaster
	SlotTerritory
	SlotTrade
	SlotTradeMaster
	SlotFinance
	SlotProduction
)

func (s Slot) String() string {
	switch s {
	case SlotSales:
		return "sales"
	case SlotSalesMaster:
		return "sales-master"
	case SlotTerritory:
		return "territory"
	case SlotTrade:
		return "trade"
	case SlotTradeMaster:
		return "trade-master"
	case SlotFinance:
		return "finance"
	case SlotProduction:
		return "production"
	default:
		return "auto"
	}
}

// sheetKeyword picks the workbook sheet for the slot, falling back to the
// first sheet when no name matches.
func (s Slot) sheetKeyword() string {
	switch s {
	case SlotSales, SlotSalesMaster, SlotTerritory:
		return "sales"
	case SlotTrade, SlotTradeMaster:
		return "trade"
	case SlotFinance:
		return "finance"
	case SlotProduction:
		return "production"
	default:
		return ""
	}
}

// Job is one workbook queued for a batch run. Reader wins over Path when
// both are set; upload handlers pass the multipart stream directly, the
// drive poller and CLI pass paths.
type Job struct {
	Filename string
	Path     string
	Reader   io.Reader
	Slot     Slot
}

// Options scope one batch run.
type Options struct {
	Month   time.Month
	Year    int
	Workers int
	Unit    string
}

// Batch is the merged outcome of one run.
type Batch struct {
	Facts       []domain.Fact
	Finance     *domain.FinanceReport
	Production  *domain.ProductionReport
	FilesOK     int
	FileErrors  []domain.FileError
	ProcessedAt time.Time
}

// Result converts the batch to the API-facing summary shape.
func (b *Batch) Result() domain.BatchResult {
	return domain.BatchResult{
		Facts:       b.Facts,
		FilesOK:     b.FilesOK,
		FileErrors:  b.FileErrors,
		ProcessedAt: b.ProcessedAt,
	}
}
