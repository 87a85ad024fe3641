package extract

import (
	"strings"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

// Format is the sheet family the detector resolved a dropped file to.
type Format int

const (
	FormatUnknown Format = iota
	FormatSales
	FormatTrade
	FormatFinance
	FormatProduction
)

func (f Format) String() string {
	switch f {
	case FormatSales:
		return "sales"
	case FormatTrade:
		return "trade"
	case FormatFinance:
		return "finance"
	case FormatProduction:
		return "production"
	default:
		return "unknown"
	}
}

// AutoOptions configures the auto-detect ingest path, where a file arrives
// without an explicit upload-slot mode flag.
type AutoOptions struct {
	Filename string
	Month    time.Month
	Year     int
}

// Result carries whatever the routed extractor produced. Facts is set for
// every family; the report pointers only for their family.
type Result struct {
	Format     Format
	Facts      []domain.Fact
	Finance    *domain.FinanceReport
	Production *domain.ProductionReport
}

// DetectFormat sniffs header tokens within the scan limit and classifies the
// grid. Finance wins first (its "particulars" token is unambiguous), then
// trade ("row labels" pivots would otherwise shadow production), then
// production, then sales, whose token set is the broadest.
func DetectFormat(g sheet.Grid) Format {
	if row := sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, "particulars")
	}); row >= 0 {
		if sheet.RowHasToken(g[row], sheet.Synonyms[sheet.ColProduct]...) {
			return FormatProduction
		}
		return FormatFinance
	}
	if sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, tradeHeaderTokens...)
	}) >= 0 {
		return FormatTrade
	}
	if sheet.FindRow(g, func(row []string) bool {
		if !sheet.RowHasToken(row, sheet.Synonyms[sheet.ColProduct]...) {
			return false
		}
		return sheet.RowHasToken(row, planTokens...) || rowHasDateCell(row)
	}) >= 0 {
		if sheet.FindRow(g, func(row []string) bool {
			return sheet.RowHasToken(row, sheet.Synonyms[sheet.ColTeam]...)
		}) >= 0 {
			return FormatSales
		}
		return FormatProduction
	}
	if sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, salesHeaderTokens...)
	}) >= 0 {
		return FormatSales
	}
	return FormatUnknown
}

// Auto routes a grid to the extractor its structure matches. The sales
// master flag is sniffed from structure and filename: a sales grid with a
// target column but no date columns for the requested month, or a filename
// carrying "master", is treated as a monthly plan upload.
func Auto(g sheet.Grid, opts AutoOptions) (*Result, error) {
	switch DetectFormat(g) {
	case FormatFinance:
		report, err := Finance(g, FinanceOptions{Filename: opts.Filename, Month: opts.Month, Year: opts.Year})
		if err != nil {
			return nil, err
		}
		return &Result{Format: FormatFinance, Finance: report}, nil

	case FormatProduction:
		report, facts, err := Production(g, ProductionOptions{Filename: opts.Filename, Month: opts.Month, Year: opts.Year})
		if err != nil {
			return nil, err
		}
		return &Result{Format: FormatProduction, Production: report, Facts: facts}, nil

	case FormatTrade:
		facts, err := Trade(g, TradeOptions{
			Filename: opts.Filename,
			Month:    opts.Month,
			Year:     opts.Year,
			IsMaster: sniffMaster(g, opts),
		})
		if err != nil {
			return nil, err
		}
		return &Result{Format: FormatTrade, Facts: facts}, nil

	case FormatSales:
		facts, err := Sales(g, SalesOptions{
			Filename:    opts.Filename,
			Month:       opts.Month,
			Year:        opts.Year,
			IsMaster:    sniffMaster(g, opts),
			IsTerritory: sniffTerritory(g),
		})
		if err != nil {
			return nil, err
		}
		return &Result{Format: FormatSales, Facts: facts}, nil

	default:
		return nil, &UnknownFormatError{Filename: opts.Filename}
	}
}

func sniffMaster(g sheet.Grid, opts AutoOptions) bool {
	if strings.Contains(strings.ToLower(opts.Filename), "master") {
		return true
	}
	headerRow := sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, salesHeaderTokens...)
	})
	if headerRow < 0 {
		return false
	}
	cols := sheet.ResolveColumns(g[headerRow], sheet.ColTarget)
	if cols.Index(sheet.ColTarget) < 0 {
		return false
	}
	return len(sheet.DateColumns(g, headerRow, opts.Month, opts.Year)) == 0
}

func sniffTerritory(g sheet.Grid) bool {
	headerRow := sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, salesHeaderTokens...)
	})
	if headerRow < 0 {
		return false
	}
	cols := sheet.ResolveColumns(g[headerRow], sheet.ColTerritory, sheet.ColProduct)
	return cols.Index(sheet.ColTerritory) >= 0 && cols.Index(sheet.ColProduct) < 0
}
