package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/sheet"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		grid sheet.Grid
		want Format
	}{
		{
			name: "finance by particulars",
			grid: sheet.Grid{{"PARTICULARS", "1 TO 7"}},
			want: FormatFinance,
		},
		{
			name: "production when particulars sits next to a product column",
			grid: sheet.Grid{{"Particulars", "Products", "Plan"}},
			want: FormatProduction,
		},
		{
			name: "trade pivot wins over production for row labels",
			grid: sheet.Grid{{"Row Labels", "01-Nov-25"}},
			want: FormatTrade,
		},
		{
			name: "production by product and plan without teams",
			grid: sheet.Grid{{"Products", "Plan"}, {"Tablet A", "300"}},
			want: FormatProduction,
		},
		{
			name: "sales when a team column accompanies products",
			grid: sheet.Grid{{"Team", "Brand", "01-Nov-25"}},
			want: FormatSales,
		},
		{
			name: "sales fallback on header tokens alone",
			grid: sheet.Grid{{"Team", "Target Units"}},
			want: FormatSales,
		},
		{
			name: "unknown",
			grid: sheet.Grid{{"hello", "world"}},
			want: FormatUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.grid))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "sales", FormatSales.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestAutoRoutesSalesDaily(t *testing.T) {
	g := sheet.Grid{
		{"Team", "Brand", "01-Nov-25"},
		{"DYNAMIC", "", ""},
		{"", "Amoxil 500mg", "150"},
	}

	res, err := Auto(g, AutoOptions{Filename: "daily.xlsx", Month: time.November, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, FormatSales, res.Format)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, "Dynamic", res.Facts[0].Team)
	assert.Equal(t, 150.0, res.Facts[0].Actual)
	assert.Equal(t, "November 01, 2025", res.Facts[0].ReportDate)
}

func TestAutoSniffsMasterFromStructure(t *testing.T) {
	g := sheet.Grid{
		{"Team", "Brand", "Target Units"},
		{"ACHIEVERS", "", ""},
		{"", "Panadol", "500"},
	}

	res, err := Auto(g, AutoOptions{Filename: "plan.xlsx", Month: time.November, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, FormatSales, res.Format)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, 500.0, res.Facts[0].Plan)
	assert.Equal(t, -500.0, res.Facts[0].Variance)
	assert.Equal(t, domain.MasterSentinel(time.November, 2025), res.Facts[0].ReportDate)
}

func TestAutoSniffsTerritory(t *testing.T) {
	g := sheet.Grid{
		{"Team", "Zone", "01-Nov-25"},
		{"CONCORD", "", ""},
		{"", "North Zone", "75"},
	}

	res, err := Auto(g, AutoOptions{Filename: "zones.xlsx", Month: time.November, Year: 2025})
	require.NoError(t, err)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, domain.DepartmentTerritory, res.Facts[0].Department)
	assert.Equal(t, "North Zone", res.Facts[0].Metric)
}

func TestAutoUnknownFormat(t *testing.T) {
	g := sheet.Grid{{"nothing", "recognizable"}}

	_, err := Auto(g, AutoOptions{Filename: "mystery.xlsx", Month: time.November, Year: 2025})
	var unknownErr *UnknownFormatError
	require.ErrorAs(t, err, &unknownErr)
	assert.Contains(t, unknownErr.Error(), "mystery.xlsx")
}
