package allocate

// finalStretchDays is the length of the end-of-month push window for
// production plans.
const finalStretchDays = 7

// finalStretchUplift is the per-day multiplier inside that window.
const finalStretchUplift = 1.05

// ProductionDailyPlans splits monthlyPlan across every calendar day of the
// month. The last 7 days each get 5% above the flat daily base; the earlier
// days evenly share what remains. Any floating-point remainder is folded
// into the final day so the sum equals monthlyPlan exactly.
func ProductionDailyPlans(monthlyPlan float64, daysInMonth int) []float64 {
	if daysInMonth < 1 {
		return nil
	}

	plans := make([]float64, daysInMonth)

	if daysInMonth <= finalStretchDays {
		// Too short for the uplift window: flat split, remainder on the
		// last day.
		flat := monthlyPlan / float64(daysInMonth)
		for i := range plans {
			plans[i] = flat
		}
	} else {
		base := monthlyPlan / float64(daysInMonth)
		uplifted := base * finalStretchUplift
		stretchTotal := uplifted * finalStretchDays
		normalDays := daysInMonth - finalStretchDays
		normal := (monthlyPlan - stretchTotal) / float64(normalDays)

		for i := 0; i < normalDays; i++ {
			plans[i] = normal
		}
		for i := normalDays; i < daysInMonth; i++ {
			plans[i] = uplifted
		}
	}

	// Fold the floating-point remainder into the final day until the
	// schedule sums exactly. A single fold can land 1 ULP off because the
	// corrected total rounds differently; repeating the fold converges
	// within a couple of passes.
	for {
		var sum float64
		for _, p := range plans {
			sum += p
		}
		diff := monthlyPlan - sum
		if diff == 0 {
			return plans
		}
		corrected := plans[daysInMonth-1] + diff
		if corrected == plans[daysInMonth-1] {
			return plans
		}
		plans[daysInMonth-1] = corrected
	}
}
