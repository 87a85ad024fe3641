package extract

import (
	"sort"
	"strings"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

var tradeHeaderTokens = []string{"row labels", "customer", "customer name", "trade"}

// TradeOptions selects the dialect of a TRADE upload. TRADE sheets are
// pivot-style customer exports: one row per customer category, value columns
// per day or a single target column.
type TradeOptions struct {
	Filename string
	Month    time.Month
	Year     int
	IsMaster bool
}

// Trade extracts TRADE department facts. Unlike sales sheets there is no
// team grouping; the customer label is the metric and the July-to-June
// financial-year label is attached to every fact.
func Trade(g sheet.Grid, opts TradeOptions) ([]domain.Fact, error) {
	headerRow := sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, tradeHeaderTokens...)
	})
	if headerRow < 0 {
		return nil, &MissingHeaderError{Filename: opts.Filename, Tokens: tradeHeaderTokens}
	}

	cols := sheet.ResolveColumns(g[headerRow], sheet.ColProduct, sheet.ColTarget)
	labelCol := cols.Index(sheet.ColProduct)
	if labelCol < 0 {
		labelCol = 0
	}

	var targetCol int
	var days []int
	dateCols := map[int]int{}
	if opts.IsMaster {
		targetCol = cols.Index(sheet.ColTarget)
		if targetCol < 0 {
			return nil, &MissingHeaderError{Filename: opts.Filename, Tokens: sheet.Synonyms[sheet.ColTarget]}
		}
	} else {
		dateCols = sheet.DateColumns(g, headerRow, opts.Month, opts.Year)
		if len(dateCols) == 0 {
			return nil, &NoDateColumnsError{Filename: opts.Filename, Month: opts.Month, Year: opts.Year}
		}
		for d := range dateCols {
			days = append(days, d)
		}
		sort.Ints(days)
	}

	fy := domain.FYLabel(opts.Month, opts.Year)

	var facts []domain.Fact
	for r := headerRow + 1; r < len(g); r++ {
		label := strings.TrimSpace(g.Cell(r, labelCol))
		if label == "" || strings.Contains(strings.ToLower(label), "total") {
			continue
		}

		emit := func(value float64, reportDate string) {
			fact := domain.Fact{
				Department: domain.DepartmentTrade,
				Metric:     label,
				Unit:       "PKR",
				ReportDate: reportDate,
				FY:         fy,
			}
			if opts.IsMaster {
				fact.Plan = value
				fact.Variance = -value
			} else {
				fact.Actual = value
				fact.Variance = value
			}
			facts = append(facts, fact)
		}

		if opts.IsMaster {
			emit(sheet.Number(g.Cell(r, targetCol)), domain.MasterSentinel(opts.Month, opts.Year))
			continue
		}
		for _, day := range days {
			v := sheet.Number(g.Cell(r, dateCols[day]))
			if v == 0 {
				continue
			}
			emit(v, domain.DayLabel(opts.Month, day, opts.Year))
		}
	}

	if len(facts) == 0 {
		return nil, &NoValidDataError{Filename: opts.Filename}
	}
	return facts, nil
}
