package merge

import (
	"sort"

	"github.com/pharmops/mrep/backend-go/internal/domain"
)

// Finance folds next into base. Categories match by name; within a matched
// category, weeks match by week label and the newer entry replaces the older
// one. Unmatched categories and weeks are appended. Derived fields are
// recomputed so the result is internally consistent regardless of what the
// inputs carried.
func Finance(base, next *domain.FinanceReport) *domain.FinanceReport {
	if base == nil {
		return next
	}
	if next == nil {
		return base
	}

	out := *base
	out.Inflows = mergeCategories(base.Inflows, next.Inflows)
	out.Outflows = mergeCategories(base.Outflows, next.Outflows)

	if next.OpeningBalance.Projected != 0 || next.OpeningBalance.Actual != 0 {
		out.OpeningBalance = next.OpeningBalance
	}

	out.Recompute()
	return &out
}

func mergeCategories(base, next []domain.FinanceCategory) []domain.FinanceCategory {
	out := make([]domain.FinanceCategory, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, c := range out {
		index[c.Name] = i
	}

	for _, c := range next {
		i, ok := index[c.Name]
		if !ok {
			index[c.Name] = len(out)
			out = append(out, c)
			continue
		}
		out[i].Weeks = mergeWeeks(out[i].Weeks, c.Weeks)
	}
	return out
}

func mergeWeeks(base, next []domain.WeekEntry) []domain.WeekEntry {
	out := make([]domain.WeekEntry, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, w := range out {
		index[w.WeekLabel] = i
	}

	for _, w := range next {
		if i, ok := index[w.WeekLabel]; ok {
			out[i] = w
			continue
		}
		index[w.WeekLabel] = len(out)
		out = append(out, w)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeekNumber < out[j].WeekNumber
	})
	return out
}
