// Package merge reconciles parse results from multiple uploads covering the
// same month. Later inputs deterministically overwrite earlier ones per
// natural key.
package merge

import "github.com/pharmops/mrep/backend-go/internal/domain"

// Facts combines fact sets with last-write-wins semantics per
// (department, team, metric, reportDate) key. First-seen order is kept so
// repeated merges of the same inputs produce identical output.
func Facts(sets ...[]domain.Fact) []domain.Fact {
	var order []string
	byKey := make(map[string]domain.Fact)

	for _, set := range sets {
		for _, f := range set {
			key := f.Key()
			if _, seen := byKey[key]; !seen {
				order = append(order, key)
			}
			byKey[key] = f
		}
	}

	out := make([]domain.Fact, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}
