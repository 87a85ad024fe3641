package extract

import (
	"sort"
	"strings"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/allocate"
	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

var planTokens = []string{"plan", "monthly plan", "plan units"}

type ProductionOptions struct {
	Filename string
	Month    time.Month
	Year     int
}

// Production parses a daily production sheet: one row per product line with
// a monthly plan column and day-of-month achievement columns. Returns the
// per-month report plus one Production fact per nonzero (product, day).
func Production(g sheet.Grid, opts ProductionOptions) (*domain.ProductionReport, []domain.Fact, error) {
	headerRow := sheet.FindRow(g, func(row []string) bool {
		if !sheet.RowHasToken(row, sheet.Synonyms[sheet.ColProduct]...) {
			return false
		}
		return sheet.RowHasToken(row, planTokens...) || rowHasDateCell(row)
	})
	if headerRow < 0 {
		return nil, nil, &MissingHeaderError{Filename: opts.Filename, Tokens: append([]string{"product"}, planTokens...)}
	}

	cols := sheet.ResolveColumns(g[headerRow], sheet.ColProduct)
	productCol := cols.Index(sheet.ColProduct)
	if productCol < 0 {
		productCol = 0
	}

	planCol := -1
	for idx, cell := range g[headerRow] {
		c := strings.ToLower(strings.TrimSpace(cell))
		for _, t := range planTokens {
			if c == t {
				planCol = idx
				break
			}
		}
		if planCol >= 0 {
			break
		}
	}

	dateCols := sheet.DateColumns(g, headerRow, opts.Month, opts.Year)
	if len(dateCols) == 0 {
		return nil, nil, &NoDateColumnsError{Filename: opts.Filename, Month: opts.Month, Year: opts.Year}
	}
	var days []int
	for d := range dateCols {
		days = append(days, d)
	}
	sort.Ints(days)

	daysInMonth := time.Date(opts.Year, opts.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	report := &domain.ProductionReport{
		Month:       int(opts.Month) - 1,
		Year:        opts.Year,
		DaysInMonth: daysInMonth,
	}

	var facts []domain.Fact
	for r := headerRow + 1; r < len(g); r++ {
		name := strings.TrimSpace(g.Cell(r, productCol))
		if name == "" || strings.Contains(strings.ToLower(name), "total") {
			continue
		}

		line := domain.ProductionLine{
			Name:          name,
			DailyAchieved: make([]float64, daysInMonth),
		}
		if planCol >= 0 {
			line.MonthlyPlan = sheet.Number(g.Cell(r, planCol))
		}
		line.DailyPlans = allocate.ProductionDailyPlans(line.MonthlyPlan, daysInMonth)

		for _, day := range days {
			v := sheet.Number(g.Cell(r, dateCols[day]))
			if day >= 1 && day <= daysInMonth {
				line.DailyAchieved[day-1] = v
			}
			if v == 0 {
				continue
			}
			facts = append(facts, domain.Fact{
				Department: domain.DepartmentProd,
				Metric:     name,
				Actual:     v,
				Variance:   v,
				Unit:       "Units",
				ReportDate: domain.DayLabel(opts.Month, day, opts.Year),
			})
		}

		report.Particulars = append(report.Particulars, line)
	}

	if len(report.Particulars) == 0 {
		return nil, nil, &NoValidDataError{Filename: opts.Filename}
	}

	report.RecomputeMTD()
	return report, facts, nil
}

func rowHasDateCell(row []string) bool {
	for _, cell := range row {
		if _, ok := sheet.ParseHeaderDate(strings.TrimSpace(cell)); ok {
			return true
		}
	}
	return false
}
