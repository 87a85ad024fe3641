package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/repository"
)

// ValidateMonth runs the pre-distribution sanity checks for one month and
// returns the list of findings, empty when the data is coherent. Findings
// are advisory; the caller decides whether to block the cycle.
func (a *Automation) ValidateMonth(ctx context.Context, month time.Month, year int) ([]string, error) {
	var findings []string

	for _, dept := range summaryDepartments {
		facts, err := a.summaries.reports.Facts(ctx, repository.FactFilter{Department: dept})
		if err != nil {
			return nil, err
		}

		sentinel := domain.MasterSentinel(month, year)
		masterMetrics := make(map[string]bool)
		masterTeams := make(map[string]bool)
		dailyCount := 0

		for _, f := range facts {
			switch {
			case f.ReportDate == sentinel:
				masterMetrics[f.Metric] = true
				if f.Team != "" {
					masterTeams[f.Team] = true
				}
				if f.Plan == 0 {
					findings = append(findings,
						fmt.Sprintf("%s: zero monthly target for %s / %s", dept, f.Team, f.Metric))
				}
			case f.Kind() == domain.KindDaily:
				if _, ok := dayOfMonth(f.ReportDate, month, year); !ok {
					continue
				}
				dailyCount++
				if !masterMetrics[f.Metric] {
					// Master rows may arrive after dailies; flagged, not fatal.
					findings = append(findings,
						fmt.Sprintf("%s: daily data for %s has no monthly target", dept, f.Metric))
					masterMetrics[f.Metric] = true
				}
			}
		}

		if len(masterMetrics) == 0 {
			findings = append(findings, fmt.Sprintf("%s: no master targets loaded for %s %d", dept, month, year))
		}
		if dailyCount == 0 {
			findings = append(findings, fmt.Sprintf("%s: no daily data loaded for %s %d", dept, month, year))
		}
	}

	return findings, nil
}
