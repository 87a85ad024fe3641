// Package extract walks normalized grids and emits canonical fact records
// and report objects. Each spreadsheet dialect (sales, trade, finance,
// production) has its own extractor; all of them share the sniffing helpers
// in internal/sheet.
package extract

import (
	"fmt"
	"strings"
	"time"
)

// MissingHeaderError means no header row carrying one of the expected
// trigger tokens was found within the scan window. Fatal for the file;
// siblings in the same batch continue.
type MissingHeaderError struct {
	Filename string
	Tokens   []string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("%s: no header row found, expected one of: %s",
		e.Filename, strings.Join(e.Tokens, ", "))
}

// NoDateColumnsError means a daily-format file has zero columns matching the
// requested month/year. This is a hard stop: importing zero columns would
// look like a successful empty import.
type NoDateColumnsError struct {
	Filename string
	Month    time.Month
	Year     int
}

func (e *NoDateColumnsError) Error() string {
	return fmt.Sprintf("%s: no date columns match %s %d", e.Filename, e.Month, e.Year)
}

// NoValidDataError means the header was found but every data row fell to the
// skip rules (totals, zeroes, orphans).
type NoValidDataError struct {
	Filename string
}

func (e *NoValidDataError) Error() string {
	return fmt.Sprintf("%s: header found but no data rows survived filtering", e.Filename)
}

// UnknownFormatError means auto-detection found no recognizable department
// signature in the sheet.
type UnknownFormatError struct {
	Filename string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s: unrecognized spreadsheet structure", e.Filename)
}
