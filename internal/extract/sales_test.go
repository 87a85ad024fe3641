package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

func TestSalesDailyRoundTrip(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "01-Nov-25"},
		{"ACHIEVERS", "ProductX", "150"},
	}

	facts, err := Sales(g, SalesOptions{
		Filename: "daily.xlsx",
		Month:    time.November,
		Year:     2025,
	})
	require.NoError(t, err)
	require.Len(t, facts, 1)

	f := facts[0]
	assert.Equal(t, domain.DepartmentSales, f.Department)
	assert.Equal(t, "Achievers", f.Team)
	assert.Equal(t, "ProductX", f.Metric)
	assert.Equal(t, 0.0, f.Plan)
	assert.Equal(t, 150.0, f.Actual)
	assert.Equal(t, 150.0, f.Variance)
	assert.Equal(t, "Units", f.Unit)
	assert.Equal(t, "November 01, 2025", f.ReportDate)
	assert.Equal(t, domain.KindDaily, f.Kind())
}

func TestSalesMaster(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "Target Units"},
		{"ACHIEVERS", "", ""},
		{"", "ProductX", "4,646"},
		{"", "ProductY", "0"},
	}

	facts, err := Sales(g, SalesOptions{
		Filename: "master.xlsx",
		Month:    time.November,
		Year:     2025,
		IsMaster: true,
	})
	require.NoError(t, err)
	require.Len(t, facts, 2)

	f := facts[0]
	assert.Equal(t, 4646.0, f.Plan)
	assert.Equal(t, 0.0, f.Actual)
	assert.Equal(t, -4646.0, f.Variance)
	assert.Equal(t, "MASTER_November_2025", f.ReportDate)
	assert.Equal(t, domain.KindMaster, f.Kind())

	// Zero targets are meaningful for master files.
	assert.Equal(t, 0.0, facts[1].Plan)
	assert.Equal(t, "ProductY", facts[1].Metric)
}

func TestSalesCurrentTeamStateMachine(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "01-Nov-25", "02-Nov-25"},
		{"Orphan", "NoTeamYet", "10", ""},
		{"DYNAMIC", "", "", ""},
		{"", "Amoxil", "25", "30"},
		{"", "GRAND TOTAL", "999", "999"},
		{"CONCORD", "Brufen", "12", ""},
	}

	facts, err := Sales(g, SalesOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)
	require.Len(t, facts, 3)

	assert.Equal(t, "Dynamic", facts[0].Team)
	assert.Equal(t, "Amoxil", facts[0].Metric)
	assert.Equal(t, 25.0, facts[0].Actual)
	assert.Equal(t, "November 01, 2025", facts[0].ReportDate)

	assert.Equal(t, 30.0, facts[1].Actual)
	assert.Equal(t, "November 02, 2025", facts[1].ReportDate)

	// A team-name row carrying data emits for itself.
	assert.Equal(t, "Concord", facts[2].Team)
	assert.Equal(t, "Brufen", facts[2].Metric)
}

func TestSalesSkipsZeroDailyValues(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "01-Nov-25", "02-Nov-25"},
		{"PASSIONATE", "ProductZ", "0", "40"},
	}

	facts, err := Sales(g, SalesOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "November 02, 2025", facts[0].ReportDate)
}

func TestSalesTerritoryDualEmit(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "All Regions", "01-Nov-25"},
		{"DYNAMIC", "Amoxil", "North Zone", "25"},
	}

	facts, err := Sales(g, SalesOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, domain.DepartmentSales, facts[0].Department)
	assert.Equal(t, "Amoxil", facts[0].Metric)

	assert.Equal(t, domain.DepartmentTerritory, facts[1].Department)
	assert.Equal(t, "North Zone", facts[1].Metric)
	assert.Equal(t, facts[0].Actual, facts[1].Actual)
}

func TestSalesTerritoryMode(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "All Regions", "01-Nov-25"},
		{"DYNAMIC", "Amoxil", "North Zone", "25"},
	}

	facts, err := Sales(g, SalesOptions{
		Month:       time.November,
		Year:        2025,
		IsTerritory: true,
	})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, domain.DepartmentTerritory, facts[0].Department)
	assert.Equal(t, "North Zone", facts[0].Metric)
}

func TestSalesMissingHeader(t *testing.T) {
	g := sheet.Grid{
		{"random", "cells"},
		{"1", "2"},
	}

	_, err := Sales(g, SalesOptions{Filename: "bad.xlsx", Month: time.November, Year: 2025})
	var headerErr *MissingHeaderError
	require.ErrorAs(t, err, &headerErr)
	assert.Contains(t, headerErr.Error(), "bad.xlsx")
}

func TestSalesNoDateColumns(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "01-Dec-25"},
		{"DYNAMIC", "Amoxil", "25"},
	}

	_, err := Sales(g, SalesOptions{Filename: "wrongmonth.xlsx", Month: time.November, Year: 2025})
	var dateErr *NoDateColumnsError
	require.ErrorAs(t, err, &dateErr)
}

func TestSalesNoValidData(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "01-Nov-25"},
		{"DYNAMIC", "", ""},
		{"", "GRAND TOTAL", "100"},
	}

	_, err := Sales(g, SalesOptions{Filename: "empty.xlsx", Month: time.November, Year: 2025})
	var dataErr *NoValidDataError
	require.ErrorAs(t, err, &dataErr)
}

func TestTeamTargetMap(t *testing.T) {
	g := sheet.Grid{
		{"Teams", "Products", "Target Units"},
		{"ACHIEVERS SUMMARY", "", "1200"},
		{"DYNAMIC TOTAL", "", "800"},
		{"DYNAMIC TOTAL", "", "200"},
		{"Some other row", "", "999"},
	}

	targets := TeamTargetMap(g, SalesOptions{Month: time.November, Year: 2025})
	assert.Equal(t, 1200.0, targets["Achievers"])
	assert.Equal(t, 1000.0, targets["Dynamic"])
	assert.Equal(t, 0.0, targets["Concord"])
	assert.Equal(t, 0.0, targets["Passionate"])
}
