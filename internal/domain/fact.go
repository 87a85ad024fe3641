package domain

import (
	"fmt"
	"strings"
	"time"
)

// Department buckets a fact into one of the dashboard views.
const (
	DepartmentSales     = "Sales"
	DepartmentTerritory = "Territory Sales"
	DepartmentProd      = "Production"
	DepartmentTrade     = "TRADE"
)

// Fact is the canonical unit every parser emits: one measurement of one
// metric for one team on one report date.
type Fact struct {
	ID         int64   `json:"id" db:"id"`
	Department string  `json:"department" db:"department"`
	Team       string  `json:"team" db:"team"`
	Metric     string  `json:"metric" db:"metric"`
	Plan       float64 `json:"plan" db:"plan"`
	Actual     float64 `json:"actual" db:"actual"`
	Variance   float64 `json:"variance" db:"variance"`
	Unit       string  `json:"unit" db:"unit"`
	ReportDate string  `json:"reportDate" db:"report_date"`
	FY         string  `json:"fy,omitempty" db:"fy"`
}

// Key is the natural upsert key. Later uploads for the same key overwrite
// earlier ones, both in memory and in the store.
func (f Fact) Key() string {
	return f.Department + "|" + f.Team + "|" + f.Metric + "|" + f.ReportDate
}

// RecordKind discriminates master (monthly target) rows from daily
// achievement rows.
type RecordKind int

const (
	KindDaily RecordKind = iota
	KindMaster
)

const masterPrefix = "MASTER_"

// Kind derives the record kind from the reportDate field. The sentinel
// prefix convention is resolved here and nowhere else.
func (f Fact) Kind() RecordKind {
	if strings.HasPrefix(f.ReportDate, masterPrefix) {
		return KindMaster
	}
	return KindDaily
}

// MasterSentinel builds the reportDate value for a monthly target record,
// e.g. "MASTER_November_2025".
func MasterSentinel(month time.Month, year int) string {
	return fmt.Sprintf("%s%s_%d", masterPrefix, month.String(), year)
}

// DayLabel builds the reportDate value for a daily record,
// e.g. "November 01, 2025".
func DayLabel(month time.Month, day, year int) string {
	return fmt.Sprintf("%s %02d, %d", month.String(), day, year)
}

// FYLabel returns the July-to-June financial-year label for a month, e.g.
// FYLabel(time.November, 2025) == "2025-26". Used by the TRADE department.
func FYLabel(month time.Month, year int) string {
	if month >= time.July {
		return fmt.Sprintf("%d-%02d", year, (year+1)%100)
	}
	return fmt.Sprintf("%d-%02d", year-1, year%100)
}
