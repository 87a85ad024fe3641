package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pharmops/mrep/backend-go/internal/domain"
)

func TestFormatSummaryMessage(t *testing.T) {
	s := &domain.Summary{
		Department:      domain.DepartmentSales,
		Month:           10,
		Year:            2025,
		DaysElapsed:     10,
		DaysInMonth:     30,
		TotalTarget:     2000,
		TotalAchieved:   350,
		Achievement:     17.5,
		ProRataPct:      52.5,
		RequiredRunRate: 82.5,
		Projection:      1417.5,
		Status:          domain.StatusCritical,
		Teams: []domain.TeamStanding{
			{Team: "Dynamic", Percentage: 96.0, Status: domain.StatusOnTrack},
			{Team: "Achievers", Percentage: 40.0, Status: domain.StatusCritical},
		},
		Underperformers: []domain.MetricStanding{
			{Team: "Achievers", Metric: "Syrup B", Percentage: 10.0},
		},
		GeneratedAt: time.Now(),
	}

	msg := FormatSummaryMessage("PharmOps", s)

	assert.True(t, strings.HasPrefix(msg, "*PharmOps Sales Report*\n"))
	assert.Contains(t, msg, "November 2025 (day 10 of 30)")
	assert.Contains(t, msg, "Target: 2,000")
	assert.Contains(t, msg, "Achieved: 350 (17.5%)")
	assert.Contains(t, msg, "Pro-rata: 52.5% (CRITICAL)")
	assert.Contains(t, msg, "Needed per day: 82")
	assert.Contains(t, msg, "Month-end projection: 1,418")
	assert.Contains(t, msg, "✅ Dynamic: 96.0%")
	assert.Contains(t, msg, "🔴 Achievers: 40.0%")
	assert.Contains(t, msg, "- Syrup B (Achievers): 10.0%")
}

func TestFormatSummaryMessageOmitsEmptySections(t *testing.T) {
	s := &domain.Summary{Department: domain.DepartmentTrade, Month: 10, Year: 2025, Status: domain.StatusCritical}

	msg := FormatSummaryMessage("PharmOps", s)
	assert.NotContains(t, msg, "*Teams*")
	assert.NotContains(t, msg, "*Needs attention*")
	assert.NotContains(t, msg, "Needed per day")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "999", formatAmount(999))
	assert.Equal(t, "1,000", formatAmount(1000))
	assert.Equal(t, "1,234,568", formatAmount(1234567.6))
	assert.Equal(t, "-12,500", formatAmount(-12500))
}
