package allocate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesDailyTargets(t *testing.T) {
	plan := SalesDailyTargets(2650, 25, 0)

	total := plan.PerDay*24 + plan.LastDay
	assert.InDelta(t, 2650, total, 1e-9)
	assert.InDelta(t, plan.PerDay*DefaultLastDayWeight, plan.LastDay, 1e-9)
	assert.Equal(t, plan.LastDay, plan.TargetFor(true))
	assert.Equal(t, plan.PerDay, plan.TargetFor(false))
}

func TestSalesDailyTargetsClampsWorkingDays(t *testing.T) {
	plan := SalesDailyTargets(1000, 0, 0)

	// A single working day carries the entire plan.
	assert.InDelta(t, 1000, plan.LastDay, 1e-9)
}

func TestSalesDailyTargetsCustomWeight(t *testing.T) {
	plan := SalesDailyTargets(100, 10, 1.0)

	assert.InDelta(t, 10, plan.PerDay, 1e-9)
	assert.InDelta(t, 10, plan.LastDay, 1e-9)
}

func TestProductionDailyPlansSumsExactly(t *testing.T) {
	plans := ProductionDailyPlans(9301, 30)
	require.Len(t, plans, 30)

	var sum float64
	for _, p := range plans {
		sum += p
	}
	assert.Equal(t, 9301.0, sum)

	// Final stretch runs 5% above the flat base.
	base := 9301.0 / 30
	for i := 23; i < 29; i++ {
		assert.InDelta(t, base*1.05, plans[i], 1e-9)
	}
	assert.Greater(t, plans[29], plans[0])
}

func TestProductionDailyPlansSumRandomized(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20000; i++ {
		plan := r.Float64() * 1e7
		days := 1 + r.Intn(31)
		plans := ProductionDailyPlans(plan, days)

		var sum float64
		for _, p := range plans {
			sum += p
		}
		require.Equal(t, plan, sum, "plan=%v days=%d", plan, days)
	}
}

func TestProductionDailyPlansShortMonth(t *testing.T) {
	plans := ProductionDailyPlans(70, 7)
	require.Len(t, plans, 7)

	var sum float64
	for _, p := range plans {
		sum += p
	}
	assert.Equal(t, 70.0, sum)
	assert.InDelta(t, 10, plans[0], 1e-9)
}

func TestProductionDailyPlansInvalidDays(t *testing.T) {
	assert.Nil(t, ProductionDailyPlans(100, 0))
}

func TestProjection(t *testing.T) {
	// 10 days elapsed, 100/day: 13 normal days plus 7 surge days at 2.5x.
	got := Projection(1000, 10, 30, 2.5)
	assert.InDelta(t, 1000+100*13+100*7*2.5, got, 1e-9)
}

func TestProjectionPastNormalWindow(t *testing.T) {
	// Day 25 of 30: only surge days remain.
	got := Projection(2500, 25, 30, 2.0)
	assert.InDelta(t, 2500+100*5*2.0, got, 1e-9)
}

func TestProjectionEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, Projection(0, 10, 30, 2.5))
	assert.Equal(t, 0.0, Projection(100, 0, 30, 2.5))

	// Month already over.
	got := Projection(3000, 30, 30, 2.5)
	assert.InDelta(t, 3000, got, 1e-9)

	// Nonpositive factor falls back to 1.
	got = Projection(1000, 10, 30, 0)
	assert.InDelta(t, 1000+100*13+100*7, got, 1e-9)
}

func TestSurgePolicyFactor(t *testing.T) {
	p := &StaticSurgePolicy{
		Multiplier: 2.5,
		Factors: map[string]map[string]float64{
			"team": {"DYNAMIC": 3.0},
		},
	}

	assert.Equal(t, 3.0, p.Factor("team", "dynamic"))
	assert.Equal(t, 2.5, p.Factor("team", "Concord"))
	assert.Equal(t, 2.5, p.Factor("metric", "anything"))

	var nilPolicy *StaticSurgePolicy
	assert.Equal(t, 1.0, nilPolicy.Factor("team", "Dynamic"))

	d := DefaultSurgePolicy()
	assert.Equal(t, 2.5, d.Multiplier)
	assert.Equal(t, 0.20, d.Threshold)
}
