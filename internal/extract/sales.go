package extract

import (
	"sort"
	"strings"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

// salesHeaderTokens trigger the sales header row.
var salesHeaderTokens = []string{"team", "teams", "brand", "brands", "all regions", "target units", "products", "product"}

// knownTeams is the fixed set of sales-force names the row scanner treats as
// team markers. Matching is case-insensitive.
var knownTeams = []string{"DYNAMIC", "ACHIEVERS", "CONCORD", "PASSIONATE"}

// SalesOptions selects the dialect of a sales upload. The mode flags come
// from the upload slot the caller used; auto-detection lives in detect.go.
type SalesOptions struct {
	Filename    string
	Month       time.Month
	Year        int
	IsMaster    bool
	IsTerritory bool
	Unit        string
}

// Sales walks a sales grid and emits one fact per (team, metric, date). Row
// scanning carries a current-team state: a row whose first cell is a known
// team name updates the state, and is additionally treated as a data row
// when it carries secondary data. Orphan rows before any team marker and
// spreadsheet subtotal rows are dropped.
func Sales(g sheet.Grid, opts SalesOptions) ([]domain.Fact, error) {
	if opts.Unit == "" {
		opts.Unit = "Units"
	}

	headerRow := sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, salesHeaderTokens...)
	})
	if headerRow < 0 {
		return nil, &MissingHeaderError{Filename: opts.Filename, Tokens: salesHeaderTokens}
	}

	cols := sheet.ResolveColumns(g[headerRow],
		sheet.ColTeam, sheet.ColProduct, sheet.ColRegion, sheet.ColTerritory, sheet.ColTarget)

	teamCol := cols.Index(sheet.ColTeam)
	if teamCol < 0 {
		teamCol = 0
	}
	metricCol := cols.Index(sheet.ColProduct)
	if opts.IsTerritory {
		if idx := cols.Index(sheet.ColTerritory); idx >= 0 {
			metricCol = idx
		} else if idx := cols.Index(sheet.ColRegion); idx >= 0 {
			metricCol = idx
		}
	}
	if metricCol < 0 {
		metricCol = teamCol + 1
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

	department := domain.DepartmentSales
	if opts.IsTerritory {
		department = domain.DepartmentTerritory
	}

	var facts []domain.Fact
	currentTeam := ""

	for r := headerRow + 1; r < len(g); r++ {
		first := strings.TrimSpace(g.Cell(r, teamCol))

		if team, ok := matchTeam(first); ok {
			currentTeam = team
			if strings.TrimSpace(g.Cell(r, teamCol+1)) == "" {
				// Pure team header/subtotal row, nothing to emit.
				continue
			}
			// Some layouts put a valid data row under a team-name first
			// cell; fall through and emit for it.
		}

		if currentTeam == "" {
			continue
		}
		if isTotalRow(g, r, teamCol, metricCol, cols) {
			continue
		}

		metric := strings.TrimSpace(g.Cell(r, metricCol))
		if metric == "" {
			continue
		}

		emit := func(value float64, reportDate string) {
			fact := domain.Fact{
				Department: department,
				Team:       currentTeam,
				Metric:     metric,
				Unit:       opts.Unit,
				ReportDate: reportDate,
			}
			if opts.IsMaster {
				fact.Plan = value
				fact.Variance = -value
			} else {
				fact.Actual = value
				fact.Variance = value
			}
			facts = append(facts, fact)

			// A row carrying both a team grouping and a distinct territory
			// feeds the territory dashboard too, without a join at query
			// time.
			if !opts.IsTerritory {
				if terr := territoryValue(g, r, cols, metric); terr != "" {
					second := fact
					second.Department = domain.DepartmentTerritory
					second.Metric = terr
					facts = append(facts, second)
				}
			}
		}

		if opts.IsMaster {
			// Zero targets are meaningful for master files and kept.
			v := sheet.Number(g.Cell(r, targetCol))
			emit(v, domain.MasterSentinel(opts.Month, opts.Year))
			continue
		}

		for _, day := range days {
			v := sheet.Number(g.Cell(r, dateCols[day]))
			if v == 0 {
				// Daily files omit zero-activity cells by convention.
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

// TeamTargetMap recovers monthly targets from "<TEAM> SUMMARY" / "<TEAM>
// TOTAL" rollup rows, one entry per known team. Teams without a rollup row
// map to zero.
func TeamTargetMap(g sheet.Grid, opts SalesOptions) map[string]float64 {
	targets := make(map[string]float64, len(knownTeams))
	for _, t := range knownTeams {
		targets[titleCase(t)] = 0
	}

	headerRow := sheet.FindRow(g, func(row []string) bool {
		return sheet.RowHasToken(row, salesHeaderTokens...)
	})
	if headerRow < 0 {
		return targets
	}
	cols := sheet.ResolveColumns(g[headerRow], sheet.ColTeam, sheet.ColTarget)
	teamCol := cols.Index(sheet.ColTeam)
	if teamCol < 0 {
		teamCol = 0
	}
	targetCol := cols.Index(sheet.ColTarget)
	if targetCol < 0 {
		return targets
	}

	for r := headerRow + 1; r < len(g); r++ {
		first := strings.ToUpper(strings.TrimSpace(g.Cell(r, teamCol)))
		if first == "" {
			continue
		}
		if !strings.Contains(first, "SUMMARY") && !strings.Contains(first, "TOTAL") {
			continue
		}
		for _, team := range knownTeams {
			if strings.Contains(first, team) {
				targets[titleCase(team)] += sheet.Number(g.Cell(r, targetCol))
				break
			}
		}
	}
	return targets
}

func matchTeam(cell string) (string, bool) {
	if cell == "" {
		return "", false
	}
	upper := strings.ToUpper(cell)
	for _, team := range knownTeams {
		if upper == team {
			return titleCase(team), true
		}
	}
	return "", false
}

// isTotalRow reports whether any relevant cell of the row marks it as a
// spreadsheet-computed subtotal.
func isTotalRow(g sheet.Grid, row, teamCol, metricCol int, cols sheet.Columns) bool {
	check := []int{teamCol, metricCol, cols.Index(sheet.ColRegion), cols.Index(sheet.ColTerritory)}
	for _, c := range check {
		if c < 0 {
			continue
		}
		if strings.Contains(strings.ToLower(g.Cell(row, c)), "total") {
			return true
		}
	}
	return false
}

func territoryValue(g sheet.Grid, row int, cols sheet.Columns, metric string) string {
	for _, name := range []string{sheet.ColTerritory, sheet.ColRegion} {
		idx := cols.Index(name)
		if idx < 0 {
			continue
		}
		v := strings.TrimSpace(g.Cell(row, idx))
		if v != "" && !strings.EqualFold(v, metric) {
			return v
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
