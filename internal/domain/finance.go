package domain

// BalancePair is a projected/actual tuple.
type BalancePair struct {
	Projected float64 `json:"projected"`
	Actual    float64 `json:"actual"`
}

// WeekEntry is one week's projected/actual pair inside a finance category.
type WeekEntry struct {
	WeekLabel  string  `json:"weekLabel"`
	WeekNumber int     `json:"weekNumber"`
	Projected  float64 `json:"projected"`
	Actual     float64 `json:"actual"`
	Variance   float64 `json:"variance"`
	Percentage float64 `json:"percentage"`
}

// FinanceCategory is one particulars row of an inflow or outflow section.
type FinanceCategory struct {
	Name  string      `json:"name"`
	Weeks []WeekEntry `json:"weeks"`
	Total BalancePair `json:"total"`
}

// FinanceReport is the per-month cash-flow view: opening balance, inflow and
// outflow sections, and a closing balance derived from them. The closing
// balance is always recomputed, never trusted from the source sheet.
type FinanceReport struct {
	Month          int             `json:"month"` // 0-based, matches the upload API
	Year           int             `json:"year"`
	OpeningBalance BalancePair     `json:"openingBalance"`
	ClosingBalance BalancePair     `json:"closingBalance"`
	Inflows        []FinanceCategory `json:"inflows"`
	Outflows       []FinanceCategory `json:"outflows"`
	TotalInflow    BalancePair     `json:"totalInflow"`
	TotalOutflow   BalancePair     `json:"totalOutflow"`
}

// Recompute rebuilds category totals, section totals and the closing balance
// from the week-level data. It never fails: missing weeks contribute zero so
// the dashboard always has something to render.
func (r *FinanceReport) Recompute() {
	r.TotalInflow = recomputeSection(r.Inflows)
	r.TotalOutflow = recomputeSection(r.Outflows)
	r.ClosingBalance = BalancePair{
		Projected: r.OpeningBalance.Projected + r.TotalInflow.Projected - r.TotalOutflow.Projected,
		Actual:    r.OpeningBalance.Actual + r.TotalInflow.Actual - r.TotalOutflow.Actual,
	}
}

func recomputeSection(categories []FinanceCategory) BalancePair {
	var section BalancePair
	for i := range categories {
		cat := &categories[i]
		var total BalancePair
		for j := range cat.Weeks {
			w := &cat.Weeks[j]
			w.Variance = w.Actual - w.Projected
			if w.Projected != 0 {
				w.Percentage = w.Actual / w.Projected * 100
			} else {
				w.Percentage = 0
			}
			total.Projected += w.Projected
			total.Actual += w.Actual
		}
		cat.Total = total
		section.Projected += total.Projected
		section.Actual += total.Actual
	}
	return section
}
