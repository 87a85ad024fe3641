package service

import (
	"context"
	"sort"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/allocate"
	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/repository"
)

const maxUnderperformers = 5

// SummaryService computes the executive month-to-date view from stored
// facts. Summaries are cached per filter; any import clears them.
type SummaryService struct {
	reports *ReportService
	surge   allocate.SurgePolicy
}

func NewSummaryService(reports *ReportService, surge allocate.SurgePolicy) *SummaryService {
	if surge == nil {
		surge = allocate.DefaultSurgePolicy()
	}
	return &SummaryService{reports: reports, surge: surge}
}

// Summary builds (or returns the cached) executive summary for one
// department and month. Month is 0-based.
func (s *SummaryService) Summary(ctx context.Context, filter domain.SummaryFilter) (*domain.Summary, error) {
	if cached, ok, err := s.reports.cache.Get(ctx, filter); err == nil && ok {
		return cached, nil
	}

	facts, err := s.reports.Facts(ctx, repository.FactFilter{Department: filter.Department})
	if err != nil {
		return nil, err
	}

	summary := s.build(facts, filter)

	if err := s.reports.cache.Set(ctx, filter, summary); err != nil {
		s.reports.log.Warn().Err(err).Msg("summary cache set failed")
	}

	return summary, nil
}

// build computes the summary from a department's facts. Master records carry
// the monthly targets; daily records for the requested month carry
// achievements.
func (s *SummaryService) build(facts []domain.Fact, filter domain.SummaryFilter) *domain.Summary {
	month := time.Month(filter.Month + 1)
	sentinel := domain.MasterSentinel(month, filter.Year)
	daysInMonth := time.Date(filter.Year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	teams := make(map[string]*bucket)
	metrics := make(map[string]*bucket)
	metricTeam := make(map[string]string)

	var totalTarget, totalAchieved float64
	daysElapsed := 0

	for _, f := range facts {
		switch f.Kind() {
		case domain.KindMaster:
			if f.ReportDate != sentinel {
				continue
			}
			totalTarget += f.Plan
			teamBucket(teams, f.Team).target += f.Plan
			teamBucket(metrics, f.Metric).target += f.Plan
			metricTeam[f.Metric] = f.Team

		case domain.KindDaily:
			day, ok := dayOfMonth(f.ReportDate, month, filter.Year)
			if !ok {
				continue
			}
			if day > daysElapsed {
				daysElapsed = day
			}
			totalAchieved += f.Actual
			teamBucket(teams, f.Team).achieved += f.Actual
			teamBucket(metrics, f.Metric).achieved += f.Actual
			if _, seen := metricTeam[f.Metric]; !seen {
				metricTeam[f.Metric] = f.Team
			}
		}
	}

	summary := &domain.Summary{
		Department:    filter.Department,
		Month:         filter.Month,
		Year:          filter.Year,
		DaysElapsed:   daysElapsed,
		DaysInMonth:   daysInMonth,
		TotalTarget:   totalTarget,
		TotalAchieved: totalAchieved,
		GeneratedAt:   time.Now(),
	}

	if totalTarget > 0 {
		summary.Achievement = totalAchieved / totalTarget * 100
		summary.ProRataTarget = totalTarget * float64(daysElapsed) / float64(daysInMonth)
		if summary.ProRataTarget > 0 {
			summary.ProRataPct = totalAchieved / summary.ProRataTarget * 100
		}
		if remaining := daysInMonth - daysElapsed; remaining > 0 {
			shortfall := totalTarget - totalAchieved
			if shortfall < 0 {
				shortfall = 0
			}
			summary.RequiredRunRate = shortfall / float64(remaining)
		}
	}
	summary.Projection = allocate.Projection(totalAchieved, daysElapsed, daysInMonth,
		s.surge.Factor("department", filter.Department))
	summary.Status = domain.StatusFor(summary.ProRataPct)

	for name, b := range teams {
		if name == "" {
			continue
		}
		standing := domain.TeamStanding{
			Team:     name,
			Target:   b.target,
			Achieved: b.achieved,
		}
		if b.target > 0 {
			standing.Percentage = b.achieved / b.target * 100
		}
		standing.Status = domain.StatusFor(proRata(standing.Percentage, daysElapsed, daysInMonth))
		summary.Teams = append(summary.Teams, standing)
	}
	sort.Slice(summary.Teams, func(i, j int) bool {
		if summary.Teams[i].Percentage != summary.Teams[j].Percentage {
			return summary.Teams[i].Percentage > summary.Teams[j].Percentage
		}
		return summary.Teams[i].Team < summary.Teams[j].Team
	})

	for name, b := range metrics {
		if name == "" || b.target <= 0 {
			continue
		}
		summary.Underperformers = append(summary.Underperformers, domain.MetricStanding{
			Team:       metricTeam[name],
			Metric:     name,
			Target:     b.target,
			Achieved:   b.achieved,
			Percentage: b.achieved / b.target * 100,
		})
	}
	sort.Slice(summary.Underperformers, func(i, j int) bool {
		if summary.Underperformers[i].Percentage != summary.Underperformers[j].Percentage {
			return summary.Underperformers[i].Percentage < summary.Underperformers[j].Percentage
		}
		return summary.Underperformers[i].Metric < summary.Underperformers[j].Metric
	})
	if len(summary.Underperformers) > maxUnderperformers {
		summary.Underperformers = summary.Underperformers[:maxUnderperformers]
	}

	return summary
}

// bucket accumulates one aggregation key's target and achievement.
type bucket struct {
	target   float64
	achieved float64
}

func teamBucket(m map[string]*bucket, name string) *bucket {
	b, ok := m[name]
	if !ok {
		b = &bucket{}
		m[name] = b
	}
	return b
}

// proRata scales a monthly achievement percentage to where the month stands,
// so a team at 50% of target on day 15 of 30 bands as on-track.
func proRata(monthlyPct float64, daysElapsed, daysInMonth int) float64 {
	if daysElapsed <= 0 || daysInMonth <= 0 {
		return monthlyPct
	}
	expected := float64(daysElapsed) / float64(daysInMonth)
	if expected <= 0 {
		return monthlyPct
	}
	return monthlyPct / expected
}

// dayOfMonth parses a daily reportDate label and returns its day when it
// belongs to the requested month and year.
func dayOfMonth(reportDate string, month time.Month, year int) (int, bool) {
	t, err := time.Parse("January 02, 2006", reportDate)
	if err != nil {
		return 0, false
	}
	if t.Month() != month || t.Year() != year {
		return 0, false
	}
	return t.Day(), true
}
