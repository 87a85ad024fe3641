package domain

// ProductionLine is one product ("particular") in the monthly production
// report. DailyPlans comes from the allocator; DailyAchieved from the daily
// sheets. Both are 1-based by day-of-month (index 0 = day 1).
type ProductionLine struct {
	Name          string    `json:"name"`
	MonthlyPlan   float64   `json:"monthlyPlan"`
	DailyPlans    []float64 `json:"dailyPlans"`
	DailyAchieved []float64 `json:"dailyAchieved"`
	MTDPlan       float64   `json:"mtdPlan"`
	MTDAchieved   float64   `json:"mtdAchieved"`
}

// ProductionReport is the per-month production view.
type ProductionReport struct {
	Month       int              `json:"month"` // 0-based
	Year        int              `json:"year"`
	DaysInMonth int              `json:"daysInMonth"`
	Particulars []ProductionLine `json:"particulars"`
}

// RecomputeMTD rolls plans and achievements up to the last day with nonzero
// achievement. A line with no achievement at all gets zero MTD figures.
func (r *ProductionReport) RecomputeMTD() {
	for i := range r.Particulars {
		line := &r.Particulars[i]
		lastDay := 0
		for d := len(line.DailyAchieved); d > 0; d-- {
			if line.DailyAchieved[d-1] != 0 {
				lastDay = d
				break
			}
		}
		var plan, achieved float64
		for d := 0; d < lastDay; d++ {
			if d < len(line.DailyPlans) {
				plan += line.DailyPlans[d]
			}
			achieved += line.DailyAchieved[d]
		}
		line.MTDPlan = plan
		line.MTDAchieved = achieved
	}
}
