package merge

import "github.com/pharmops/mrep/backend-go/internal/domain"

// Production folds next into base. Lines match by product name; per-day
// achieved values from next overwrite the matching day in base, and a nonzero
// monthly plan replaces the old one. MTD roll-ups are recomputed afterwards.
func Production(base, next *domain.ProductionReport) *domain.ProductionReport {
	if base == nil {
		return next
	}
	if next == nil {
		return base
	}

	out := *base
	out.Particulars = make([]domain.ProductionLine, len(base.Particulars))
	for i, line := range base.Particulars {
		line.DailyAchieved = append([]float64(nil), line.DailyAchieved...)
		out.Particulars[i] = line
	}

	index := make(map[string]int, len(out.Particulars))
	for i, line := range out.Particulars {
		index[line.Name] = i
	}

	for _, line := range next.Particulars {
		i, ok := index[line.Name]
		if !ok {
			index[line.Name] = len(out.Particulars)
			out.Particulars = append(out.Particulars, line)
			continue
		}
		mergeLine(&out.Particulars[i], line)
	}

	out.RecomputeMTD()
	return &out
}

func mergeLine(dst *domain.ProductionLine, src domain.ProductionLine) {
	if src.MonthlyPlan != 0 {
		dst.MonthlyPlan = src.MonthlyPlan
		dst.DailyPlans = src.DailyPlans
	}
	if len(src.DailyAchieved) > len(dst.DailyAchieved) {
		grown := make([]float64, len(src.DailyAchieved))
		copy(grown, dst.DailyAchieved)
		dst.DailyAchieved = grown
	}
	for day, v := range src.DailyAchieved {
		if v != 0 {
			dst.DailyAchieved[day] = v
		}
	}
}
