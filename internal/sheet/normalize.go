package sheet

import (
	"strconv"
	"strings"
)

// Number parses a raw cell into a signed float. Manually entered sheets are
// full of stray dashes, blanks and accounting-style negatives, so this never
// returns an error: anything unparseable normalizes to 0.
func Number(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0
	}

	// Thousands separators
	s = strings.ReplaceAll(s, ",", "")

	// Accounting negative: (1234.50) == -1234.50
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if negative {
		v = -v
	}
	return v
}
