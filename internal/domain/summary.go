package domain

import "time"

// Status bands for achievement percentage.
const (
	StatusOnTrack  = "on-track" // >= 95%
	StatusBehind   = "behind"   // >= 85%
	StatusCritical = "critical"
)

// StatusFor bands an achievement percentage.
func StatusFor(pct float64) string {
	switch {
	case pct >= 95:
		return StatusOnTrack
	case pct >= 85:
		return StatusBehind
	default:
		return StatusCritical
	}
}

// TeamStanding is one team's position in the executive summary.
type TeamStanding struct {
	Team       string  `json:"team"`
	Target     float64 `json:"target"`
	Achieved   float64 `json:"achieved"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// MetricStanding is one (team, metric) pair's position, used for the
// underperformer list.
type MetricStanding struct {
	Team       string  `json:"team,omitempty"`
	Metric     string  `json:"metric"`
	Target     float64 `json:"target"`
	Achieved   float64 `json:"achieved"`
	Percentage float64 `json:"percentage"`
}

// SummaryFilter scopes a summary request. Month is 0-based.
type SummaryFilter struct {
	Department string `json:"department"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

// Summary is the executive month-to-date view for one department: totals
// against the monthly plan, pro-rata expectation, the run rate needed to
// still land the month, and the surge-adjusted month-end projection.
type Summary struct {
	Department      string           `json:"department"`
	Month           int              `json:"month"` // 0-based
	Year            int              `json:"year"`
	DaysElapsed     int              `json:"daysElapsed"`
	DaysInMonth     int              `json:"daysInMonth"`
	TotalTarget     float64          `json:"totalTarget"`
	TotalAchieved   float64          `json:"totalAchieved"`
	Achievement     float64          `json:"achievement"` // percent of monthly target
	ProRataTarget   float64          `json:"proRataTarget"`
	ProRataPct      float64          `json:"proRataPct"` // percent of pro-rata target
	RequiredRunRate float64          `json:"requiredRunRate"`
	Projection      float64          `json:"projection"`
	Status          string           `json:"status"`
	Teams           []TeamStanding   `json:"teams,omitempty"`
	Underperformers []MetricStanding `json:"underperformers,omitempty"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}
