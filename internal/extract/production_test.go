package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

func TestProductionParsesLines(t *testing.T) {
	g := sheet.Grid{
		{"Products", "Plan", "01-Nov-25", "02-Nov-25"},
		{"Tablet A", "300", "10", "20"},
		{"Syrup B", "0", "", "5"},
		{"TOTAL", "300", "10", "25"},
	}

	report, facts, err := Production(g, ProductionOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 10, report.Month)
	assert.Equal(t, 30, report.DaysInMonth)
	require.Len(t, report.Particulars, 2)

	tablet := report.Particulars[0]
	assert.Equal(t, "Tablet A", tablet.Name)
	assert.Equal(t, 300.0, tablet.MonthlyPlan)
	require.Len(t, tablet.DailyPlans, 30)
	require.Len(t, tablet.DailyAchieved, 30)
	assert.Equal(t, 10.0, tablet.DailyAchieved[0])
	assert.Equal(t, 20.0, tablet.DailyAchieved[1])

	// MTD rolls up to the last day with nonzero achievement.
	assert.Equal(t, 30.0, tablet.MTDAchieved)
	assert.InDelta(t, tablet.DailyPlans[0]+tablet.DailyPlans[1], tablet.MTDPlan, 1e-9)

	require.Len(t, facts, 3)
	assert.Equal(t, domain.DepartmentProd, facts[0].Department)
	assert.Equal(t, "Tablet A", facts[0].Metric)
	assert.Equal(t, "November 01, 2025", facts[0].ReportDate)
	assert.Equal(t, "Syrup B", facts[2].Metric)
	assert.Equal(t, 5.0, facts[2].Actual)
}

func TestProductionHeaderWithoutPlanColumn(t *testing.T) {
	g := sheet.Grid{
		{"Products", "01-Nov-25"},
		{"Tablet A", "10"},
	}

	report, facts, err := Production(g, ProductionOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Particulars[0].MonthlyPlan)
	require.Len(t, facts, 1)
}

func TestProductionMissingHeader(t *testing.T) {
	g := sheet.Grid{{"random", "stuff"}}

	_, _, err := Production(g, ProductionOptions{Filename: "bad.xlsx", Month: time.November, Year: 2025})
	var headerErr *MissingHeaderError
	require.ErrorAs(t, err, &headerErr)
}

func TestProductionNoDateColumns(t *testing.T) {
	g := sheet.Grid{
		{"Products", "Plan", "01-Dec-25"},
		{"Tablet A", "300", "10"},
	}

	_, _, err := Production(g, ProductionOptions{Filename: "wrongmonth.xlsx", Month: time.November, Year: 2025})
	var dateErr *NoDateColumnsError
	require.ErrorAs(t, err, &dateErr)
}
