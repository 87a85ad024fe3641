// Package allocate spreads monthly targets across days and projects
// month-end outcomes from partial actuals.
package allocate

// DefaultLastDayWeight is the closing-day multiplier for sales targets.
// Most of the month's reported sales land on the last day, so the target
// curve carries the same bias.
const DefaultLastDayWeight = 3.5

// SalesPlan is a per-day sales target schedule over the month's working
// days.
type SalesPlan struct {
	PerDay  float64 // target for every working day except the last
	LastDay float64 // target for the final working day
}

// SalesDailyTargets splits monthlyPlan across workingDays with the last day
// weighted at lastDayWeight (0 means DefaultLastDayWeight). workingDays
// below 1 clamps to 1: the whole plan lands on the single day.
func SalesDailyTargets(monthlyPlan float64, workingDays int, lastDayWeight float64) SalesPlan {
	if lastDayWeight <= 0 {
		lastDayWeight = DefaultLastDayWeight
	}
	if workingDays < 1 {
		workingDays = 1
	}

	totalWeights := float64(workingDays-1) + lastDayWeight
	perDay := monthlyPlan / totalWeights
	return SalesPlan{
		PerDay:  perDay,
		LastDay: perDay * lastDayWeight,
	}
}

// TargetFor returns the target for one working day of the schedule.
func (p SalesPlan) TargetFor(isLastDay bool) float64 {
	if isLastDay {
		return p.LastDay
	}
	return p.PerDay
}
