package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

func financeGrid() sheet.Grid {
	return sheet.Grid{
		{"", "Opening Bank Balance", "5,000", "4,800"},
		{"PARTICULARS", "1 TO 7", "", "8 TO 14", ""},
		{"INFLOW"},
		{"Local Sales", "1,000", "900", "1,100", "1,200"},
		{"Export Receipts", "500", "500", "0", "0"},
		{"TOTAL INFLOW", "1,500", "1,400", "1,100", "1,200"},
		{"OUTFLOW"},
		{"Salaries", "500", "450", "600", "580"},
		{"TOTAL OUTFLOW", "500", "450", "600", "580"},
	}
}

func TestFinanceParsesSections(t *testing.T) {
	report, err := Finance(financeGrid(), FinanceOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 10, report.Month)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 5000.0, report.OpeningBalance.Projected)
	assert.Equal(t, 4800.0, report.OpeningBalance.Actual)

	require.Len(t, report.Inflows, 2)
	require.Len(t, report.Outflows, 1)

	sales := report.Inflows[0]
	assert.Equal(t, "Local Sales", sales.Name)
	require.Len(t, sales.Weeks, 2)
	assert.Equal(t, "1 TO 7", sales.Weeks[0].WeekLabel)
	assert.Equal(t, 1000.0, sales.Weeks[0].Projected)
	assert.Equal(t, 900.0, sales.Weeks[0].Actual)
	assert.Equal(t, -100.0, sales.Weeks[0].Variance)
	assert.Equal(t, 90.0, sales.Weeks[0].Percentage)
	assert.Equal(t, 2100.0, sales.Total.Projected)
	assert.Equal(t, 2100.0, sales.Total.Actual)
}

func TestFinanceDerivesClosingBalance(t *testing.T) {
	report, err := Finance(financeGrid(), FinanceOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 2600.0, report.TotalInflow.Projected)
	assert.Equal(t, 2600.0, report.TotalInflow.Actual)
	assert.Equal(t, 1100.0, report.TotalOutflow.Projected)
	assert.Equal(t, 1030.0, report.TotalOutflow.Actual)

	// closing = opening + inflow - outflow, never read from the sheet.
	assert.Equal(t, 6500.0, report.ClosingBalance.Projected)
	assert.Equal(t, 6370.0, report.ClosingBalance.Actual)
}

func TestFinanceZeroProjectedWeekPercentage(t *testing.T) {
	report, err := Finance(financeGrid(), FinanceOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)

	exports := report.Inflows[1]
	assert.Equal(t, 0.0, exports.Weeks[1].Projected)
	assert.Equal(t, 0.0, exports.Weeks[1].Percentage)
}

func TestFinanceOutflowFallbackByRepeatedHeader(t *testing.T) {
	g := sheet.Grid{
		{"PARTICULARS", "1 TO 7", ""},
		{"Local Sales", "1,000", "900"},
		{"Export Receipts", "500", "500"},
		{"", "", ""},
		{"", "", ""},
		{"", "", ""},
		{"PARTICULARS", "1 TO 7", ""},
		{"Salaries", "500", "450"},
	}

	report, err := Finance(g, FinanceOptions{Month: time.November, Year: 2025})
	require.NoError(t, err)

	require.Len(t, report.Inflows, 2)
	require.Len(t, report.Outflows, 1)
	assert.Equal(t, "Salaries", report.Outflows[0].Name)
}

func TestFinanceMissingHeader(t *testing.T) {
	g := sheet.Grid{{"Teams", "Products"}}

	_, err := Finance(g, FinanceOptions{Filename: "nofinance.xlsx", Month: time.November, Year: 2025})
	var headerErr *MissingHeaderError
	require.ErrorAs(t, err, &headerErr)
}

func TestFinanceNoWeekColumns(t *testing.T) {
	g := sheet.Grid{
		{"PARTICULARS", "Received", "Paid", "Total"},
		{"Local Sales", "1", "2", "3"},
	}

	_, err := Finance(g, FinanceOptions{Filename: "noweeks.xlsx", Month: time.November, Year: 2025})
	var headerErr *MissingHeaderError
	require.ErrorAs(t, err, &headerErr)
}
