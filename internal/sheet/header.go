package sheet

import "strings"

// HeaderScanLimit bounds how deep into a sheet the header row is searched.
// Portal exports put banner rows and merged titles above the real header,
// but never this many.
const HeaderScanLimit = 50

// Logical column names resolved against header synonyms.
const (
	ColTeam        = "team"
	ColRegion      = "region"
	ColTerritory   = "territory"
	ColProduct     = "product"
	ColTarget      = "target"
	ColParticulars = "particulars"
)

// Synonyms maps each logical column to the header spellings observed across
// the portal's export dialects. Matching is case-insensitive exact, first
// synonym wins.
var Synonyms = map[string][]string{
	ColTeam:        {"team", "teams", "sales force", "salesforce", "sf name"},
	ColRegion:      {"all regions", "region", "division"},
	ColTerritory:   {"territory", "territories", "zone"},
	ColProduct:     {"products", "product", "product_name", "brand", "row labels"},
	ColTarget:      {"target units", "target", "target value", "monthly target"},
	ColParticulars: {"particulars"},
}

// FindRow returns the index of the first row within HeaderScanLimit for
// which match returns true, or -1.
func FindRow(g Grid, match func(row []string) bool) int {
	limit := len(g)
	if limit > HeaderScanLimit {
		limit = HeaderScanLimit
	}
	for i := 0; i < limit; i++ {
		if match(g[i]) {
			return i
		}
	}
	return -1
}

// RowHasToken reports whether any cell of the row equals one of the tokens
// (case-insensitive, trimmed).
func RowHasToken(row []string, tokens ...string) bool {
	for _, cell := range row {
		c := strings.ToLower(strings.TrimSpace(cell))
		if c == "" {
			continue
		}
		for _, t := range tokens {
			if c == t {
				return true
			}
		}
	}
	return false
}

// Columns holds resolved physical indices for the logical columns of one
// header row. Unresolved columns stay at -1 and the features depending on
// them are skipped by the extractors, not errored.
type Columns map[string]int

// ResolveColumns maps each requested logical column to a physical index in
// the header row by case-insensitive exact match against Synonyms.
func ResolveColumns(header []string, wanted ...string) Columns {
	cols := make(Columns, len(wanted))
	for _, w := range wanted {
		cols[w] = -1
	}
	for idx, cell := range header {
		c := strings.ToLower(strings.TrimSpace(cell))
		if c == "" {
			continue
		}
		for _, w := range wanted {
			if cols[w] != -1 {
				continue
			}
			for _, syn := range Synonyms[w] {
				if c == syn {
					cols[w] = idx
					break
				}
			}
		}
	}
	return cols
}

// Index returns the resolved index for a logical column, -1 if unresolved.
func (c Columns) Index(name string) int {
	if idx, ok := c[name]; ok {
		return idx
	}
	return -1
}
