package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmops/mrep/backend-go/internal/domain"
)

func fact(team, metric, date string, actual float64) domain.Fact {
	return domain.Fact{
		Department: domain.DepartmentSales,
		Team:       team,
		Metric:     metric,
		ReportDate: date,
		Actual:     actual,
		Variance:   actual,
	}
}

func TestFactsLastWriteWins(t *testing.T) {
	first := []domain.Fact{
		fact("Dynamic", "Amoxil 500mg", "November 01, 2025", 100),
		fact("Dynamic", "Panadol", "November 01, 2025", 40),
	}
	second := []domain.Fact{
		fact("Dynamic", "Amoxil 500mg", "November 01, 2025", 150),
		fact("Achievers", "Panadol", "November 01, 2025", 60),
	}

	out := Facts(first, second)
	require.Len(t, out, 3)

	// First-seen order, newest value.
	assert.Equal(t, 150.0, out[0].Actual)
	assert.Equal(t, "Panadol", out[1].Metric)
	assert.Equal(t, "Achievers", out[2].Team)
}

func TestFactsIdempotent(t *testing.T) {
	set := []domain.Fact{
		fact("Concord", "Syrup B", "November 02, 2025", 25),
		fact("Concord", "Syrup B", "November 03, 2025", 30),
	}

	once := Facts(set)
	twice := Facts(once, set)
	assert.Equal(t, once, twice)
}

func TestFactsEmpty(t *testing.T) {
	assert.Empty(t, Facts())
	assert.Empty(t, Facts(nil, nil))
}

func TestFinanceMerge(t *testing.T) {
	base := &domain.FinanceReport{
		Month:          10,
		Year:           2025,
		OpeningBalance: domain.BalancePair{Projected: 5000, Actual: 4800},
		Inflows: []domain.FinanceCategory{
			{Name: "Local Sales", Weeks: []domain.WeekEntry{
				{WeekLabel: "1 TO 7", WeekNumber: 1, Projected: 1000, Actual: 900},
			}},
		},
	}
	next := &domain.FinanceReport{
		Inflows: []domain.FinanceCategory{
			{Name: "Local Sales", Weeks: []domain.WeekEntry{
				{WeekLabel: "1 TO 7", WeekNumber: 1, Projected: 1000, Actual: 950},
				{WeekLabel: "8 TO 14", WeekNumber: 2, Projected: 1100, Actual: 1050},
			}},
			{Name: "Export Receipts", Weeks: []domain.WeekEntry{
				{WeekLabel: "1 TO 7", WeekNumber: 1, Projected: 500, Actual: 500},
			}},
		},
		Outflows: []domain.FinanceCategory{
			{Name: "Salaries", Weeks: []domain.WeekEntry{
				{WeekLabel: "1 TO 7", WeekNumber: 1, Projected: 800, Actual: 800},
			}},
		},
	}

	out := Finance(base, next)
	require.NotNil(t, out)
	require.Len(t, out.Inflows, 2)

	local := out.Inflows[0]
	require.Len(t, local.Weeks, 2)
	assert.Equal(t, 950.0, local.Weeks[0].Actual)
	assert.Equal(t, "8 TO 14", local.Weeks[1].WeekLabel)
	assert.Equal(t, 2000.0, local.Total.Actual)

	// Recomputed section totals and closing balance.
	assert.Equal(t, 2500.0, out.TotalInflow.Actual)
	assert.Equal(t, 800.0, out.TotalOutflow.Actual)
	assert.Equal(t, 4800.0+2500-800, out.ClosingBalance.Actual)

	// Base kept its opening balance since next carried none.
	assert.Equal(t, 5000.0, out.OpeningBalance.Projected)

	// Base untouched.
	assert.Equal(t, 900.0, base.Inflows[0].Weeks[0].Actual)
	require.Len(t, base.Inflows[0].Weeks, 1)
}

func TestFinanceMergeNilSides(t *testing.T) {
	r := &domain.FinanceReport{Month: 10, Year: 2025}
	assert.Same(t, r, Finance(nil, r))
	assert.Same(t, r, Finance(r, nil))
	assert.Nil(t, Finance(nil, nil))
}

func TestFinanceMergeWeeksSorted(t *testing.T) {
	base := &domain.FinanceReport{
		Inflows: []domain.FinanceCategory{
			{Name: "Local Sales", Weeks: []domain.WeekEntry{
				{WeekLabel: "8 TO 14", WeekNumber: 2, Projected: 1100, Actual: 1100},
			}},
		},
	}
	next := &domain.FinanceReport{
		Inflows: []domain.FinanceCategory{
			{Name: "Local Sales", Weeks: []domain.WeekEntry{
				{WeekLabel: "1 TO 7", WeekNumber: 1, Projected: 1000, Actual: 1000},
			}},
		},
	}

	out := Finance(base, next)
	require.Len(t, out.Inflows[0].Weeks, 2)
	assert.Equal(t, 1, out.Inflows[0].Weeks[0].WeekNumber)
	assert.Equal(t, 2, out.Inflows[0].Weeks[1].WeekNumber)
}

func TestProductionMerge(t *testing.T) {
	base := &domain.ProductionReport{
		Month:       10,
		Year:        2025,
		DaysInMonth: 30,
		Particulars: []domain.ProductionLine{
			{
				Name:          "Tablet A",
				MonthlyPlan:   300,
				DailyPlans:    []float64{10, 10, 10},
				DailyAchieved: []float64{10, 0, 0},
			},
		},
	}
	next := &domain.ProductionReport{
		Particulars: []domain.ProductionLine{
			{
				Name:          "Tablet A",
				DailyAchieved: []float64{0, 20, 0},
			},
			{
				Name:          "Syrup B",
				MonthlyPlan:   90,
				DailyAchieved: []float64{0, 5},
			},
		},
	}

	out := Production(base, next)
	require.Len(t, out.Particulars, 2)

	tablet := out.Particulars[0]
	assert.Equal(t, 10.0, tablet.DailyAchieved[0])
	assert.Equal(t, 20.0, tablet.DailyAchieved[1])
	// Zero plan in next keeps the base plan.
	assert.Equal(t, 300.0, tablet.MonthlyPlan)
	assert.Equal(t, 30.0, tablet.MTDAchieved)

	assert.Equal(t, "Syrup B", out.Particulars[1].Name)

	// Base untouched.
	assert.Equal(t, 0.0, base.Particulars[0].DailyAchieved[1])
	require.Len(t, base.Particulars, 1)
}

func TestProductionMergeGrowsDays(t *testing.T) {
	base := &domain.ProductionReport{
		Particulars: []domain.ProductionLine{
			{Name: "Tablet A", DailyAchieved: []float64{5}},
		},
	}
	next := &domain.ProductionReport{
		Particulars: []domain.ProductionLine{
			{Name: "Tablet A", DailyAchieved: []float64{0, 0, 7}},
		},
	}

	out := Production(base, next)
	require.Len(t, out.Particulars[0].DailyAchieved, 3)
	assert.Equal(t, 5.0, out.Particulars[0].DailyAchieved[0])
	assert.Equal(t, 7.0, out.Particulars[0].DailyAchieved[2])
}

func TestProductionMergeNilSides(t *testing.T) {
	r := &domain.ProductionReport{Month: 10}
	assert.Same(t, r, Production(nil, r))
	assert.Same(t, r, Production(r, nil))
}
