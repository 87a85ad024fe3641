package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

// weekRangeRe matches date-range week headers like "1 TO 7" or "8-14".
var weekRangeRe = regexp.MustCompile(`\d+\s*(?:TO|-)\s*\d+`)

// outflowSearchWindow bounds the fallback scan for the outflow section when
// the sheet carries no explicit "outflow" label: some exports repeat the
// "particulars" header a few rows past the inflow block instead.
const outflowSearchWindow = 5

type FinanceOptions struct {
	Filename string
	Month    time.Month
	Year     int
}

type weekPair struct {
	label     string
	number    int
	projected int
	actual    int
}

// Finance parses a weekly cash-flow sheet into a FinanceReport. The closing
// balance is derived from opening balance + inflow − outflow, regardless of
// what any closing-balance cell in the source said.
func Finance(g sheet.Grid, opts FinanceOptions) (*domain.FinanceReport, error) {
	headerRow := sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, "particulars")
	})
	if headerRow < 0 {
		return nil, &MissingHeaderError{Filename: opts.Filename, Tokens: []string{"particulars"}}
	}

	partCol := -1
	for idx, cell := range g[headerRow] {
		if strings.EqualFold(strings.TrimSpace(cell), "particulars") {
			partCol = idx
			break
		}
	}

	weeks := weekColumns(g[headerRow])
	if len(weeks) == 0 {
		return nil, &MissingHeaderError{Filename: opts.Filename, Tokens: []string{"week", "<from> TO <to>"}}
	}

	report := &domain.FinanceReport{
		Month:          int(opts.Month) - 1,
		Year:           opts.Year,
		OpeningBalance: openingBalance(g, headerRow),
	}

	inflowStart, outflowStart := sectionBounds(g, headerRow, partCol)
	if inflowStart >= 0 {
		end := len(g)
		if outflowStart > inflowStart {
			end = outflowStart
		}
		report.Inflows = parseCategories(g, inflowStart+1, end, partCol, weeks)
	}
	if outflowStart >= 0 {
		report.Outflows = parseCategories(g, outflowStart+1, len(g), partCol, weeks)
	}

	if len(report.Inflows) == 0 && len(report.Outflows) == 0 {
		return nil, &NoValidDataError{Filename: opts.Filename}
	}

	report.Recompute()
	return report, nil
}

// weekColumns resolves the per-week (projected, actual) column pairs from
// the header row. A week header is a date range or a literal "week" token;
// "received"/"paid"/"total" columns are different semantics and excluded.
// The actual column is assumed adjacent to the projected one.
func weekColumns(header []string) []weekPair {
	var weeks []weekPair
	for idx, cell := range header {
		c := strings.TrimSpace(cell)
		if c == "" {
			continue
		}
		lower := strings.ToLower(c)
		if strings.Contains(lower, "received") || strings.Contains(lower, "paid") || strings.Contains(lower, "total") {
			continue
		}
		if weekRangeRe.MatchString(strings.ToUpper(c)) || strings.Contains(lower, "week") {
			weeks = append(weeks, weekPair{
				label:     c,
				number:    len(weeks) + 1,
				projected: idx,
				actual:    idx + 1,
			})
		}
	}
	return weeks
}

// sectionBounds finds the inflow and outflow block starts in the
// particulars column.
func sectionBounds(g sheet.Grid, headerRow, partCol int) (inflowStart, outflowStart int) {
	inflowStart, outflowStart = -1, -1
	for r := headerRow + 1; r < len(g); r++ {
		c := strings.ToLower(strings.TrimSpace(g.Cell(r, partCol)))
		switch c {
		case "inflow":
			if inflowStart < 0 {
				inflowStart = r
			}
		case "outflow":
			if outflowStart < 0 {
				outflowStart = r
			}
		}
	}
	if inflowStart < 0 {
		// No explicit label: rows directly under the header are inflows.
		inflowStart = headerRow
	}
	if outflowStart < 0 {
		// Fallback: a repeated "particulars" header a few rows past the
		// inflow block opens the outflow section.
		for r := inflowStart + outflowSearchWindow; r < len(g); r++ {
			if strings.EqualFold(strings.TrimSpace(g.Cell(r, partCol)), "particulars") {
				outflowStart = r
				break
			}
		}
	}
	return inflowStart, outflowStart
}

func parseCategories(g sheet.Grid, start, end, partCol int, weeks []weekPair) []domain.FinanceCategory {
	var categories []domain.FinanceCategory
	for r := start; r < end && r < len(g); r++ {
		name := strings.TrimSpace(g.Cell(r, partCol))
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if lower == "particulars" || lower == "inflow" || lower == "outflow" || strings.Contains(lower, "total") {
			continue
		}

		cat := domain.FinanceCategory{Name: name, Weeks: make([]domain.WeekEntry, 0, len(weeks))}
		for _, w := range weeks {
			cat.Weeks = append(cat.Weeks, domain.WeekEntry{
				WeekLabel:  w.label,
				WeekNumber: w.number,
				Projected:  sheet.Number(g.Cell(r, w.projected)),
				Actual:     sheet.Number(g.Cell(r, w.actual)),
			})
		}
		categories = append(categories, cat)
	}
	return categories
}

// openingBalance scans the banner rows above the header for an "opening bank
// balance" label and reads the next two numeric cells as projected/actual.
func openingBalance(g sheet.Grid, headerRow int) domain.BalancePair {
	for r := 0; r < headerRow; r++ {
		for c, cell := range g[r] {
			if !strings.Contains(strings.ToLower(cell), "opening bank balance") {
				continue
			}
			var vals []float64
			for k := c + 1; k < len(g[r]) && len(vals) < 2; k++ {
				if strings.TrimSpace(g[r][k]) == "" {
					continue
				}
				vals = append(vals, sheet.Number(g[r][k]))
			}
			pair := domain.BalancePair{}
			if len(vals) > 0 {
				pair.Projected = vals[0]
			}
			if len(vals) > 1 {
				pair.Actual = vals[1]
			}
			return pair
		}
	}
	return domain.BalancePair{}
}
