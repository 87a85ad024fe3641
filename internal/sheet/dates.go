package sheet

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// 01-Nov-25, 01.Nov.25, 01/NOV/2025
	alphaDateRe = regexp.MustCompile(`^(\d{1,2})[-./ ]([A-Za-z]{3})[-./ ](\d{2}|\d{4})$`)
	// 01-11-2025, 1/11/25
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[-./](\d{1,2})[-./](\d{2}|\d{4})$`)
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// serialDateScanRows is how many body rows are scanned for spreadsheet
// serial dates when the header row itself carries no recognizable dates.
const serialDateScanRows = 15

// Spreadsheet serial numbers for dates in the 2009 to 2036 range.
const (
	serialDateMin = 40000
	serialDateMax = 50000
)

var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// DateColumns maps each day-of-month to the column holding it for the
// requested month/year. Encodings are tried in order until one yields a
// match anywhere in the header row: textual DD-MMM-YY, numeric DD-MM-YYYY,
// then serial date numbers in the first body rows (some exports keep their
// dates a row or two below the header). Columns resolving to a different
// month or year are dropped. An empty result is the caller's cue to fail
// the file rather than import nothing.
func DateColumns(g Grid, headerRow int, month time.Month, year int) map[int]int {
	if headerRow < 0 || headerRow >= len(g) {
		return map[int]int{}
	}
	header := g[headerRow]

	if cols := matchDates(header, month, year, parseAlphaDate); len(cols) > 0 {
		return cols
	}
	if cols := matchDates(header, month, year, parseNumericDate); len(cols) > 0 {
		return cols
	}
	return serialDateColumns(g, headerRow, month, year)
}

func matchDates(header []string, month time.Month, year int, parse func(string) (time.Time, bool)) map[int]int {
	cols := make(map[int]int)
	for idx, cell := range header {
		t, ok := parse(strings.TrimSpace(cell))
		if !ok {
			continue
		}
		if t.Month() == month && t.Year() == year {
			cols[t.Day()] = idx
		}
	}
	return cols
}

// ParseHeaderDate parses a header cell as a date in either the textual or
// the numeric encoding.
func ParseHeaderDate(s string) (time.Time, bool) {
	if t, ok := parseAlphaDate(s); ok {
		return t, true
	}
	return parseNumericDate(s)
}

func parseAlphaDate(s string) (time.Time, bool) {
	m := alphaDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := monthAbbrevs[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

func parseNumericDate(s string) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	monthNum, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 || monthNum < 1 || monthNum > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(monthNum), day, 0, 0, 0, 0, time.UTC), true
}

// serialDateColumns scans the first body rows below the header for numeric
// cells in the serial-date range and converts them via the spreadsheet
// epoch. The first row producing any match for the target month wins.
func serialDateColumns(g Grid, headerRow int, month time.Month, year int) map[int]int {
	end := headerRow + 1 + serialDateScanRows
	if end > len(g) {
		end = len(g)
	}
	for r := headerRow + 1; r < end; r++ {
		cols := make(map[int]int)
		for idx, cell := range g[r] {
			serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || serial < serialDateMin || serial >= serialDateMax {
				continue
			}
			t := serialEpoch.AddDate(0, 0, int(serial))
			if t.Month() == month && t.Year() == year {
				cols[t.Day()] = idx
			}
		}
		if len(cols) > 0 {
			return cols
		}
	}
	return map[int]int{}
}
