package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindRowScansBannerRows(t *testing.T) {
	g := Grid{
		{"ACME PHARMA"},
		{"Daily Sales Report"},
		{},
		{"Teams", "Products", "01-Nov-25"},
	}

	row := FindRow(g, func(row []string) bool {
		return RowHasToken(row, "teams")
	})
	assert.Equal(t, 3, row)
}

func TestFindRowRespectsScanLimit(t *testing.T) {
	g := make(Grid, HeaderScanLimit+10)
	g[HeaderScanLimit+5] = []string{"Teams"}

	row := FindRow(g, func(row []string) bool {
		return RowHasToken(row, "teams")
	})
	assert.Equal(t, -1, row)
}

func TestRowHasTokenCaseInsensitive(t *testing.T) {
	row := []string{"", "  SALES FORCE  ", "Brand"}
	assert.True(t, RowHasToken(row, "sales force"))
	assert.True(t, RowHasToken(row, "brand"))
	assert.False(t, RowHasToken(row, "sales"))
}

func TestResolveColumns(t *testing.T) {
	header := []string{"SF Name", "Brand", "All Regions", "Target Units"}

	cols := ResolveColumns(header, ColTeam, ColProduct, ColRegion, ColTarget, ColTerritory)
	assert.Equal(t, 0, cols.Index(ColTeam))
	assert.Equal(t, 1, cols.Index(ColProduct))
	assert.Equal(t, 2, cols.Index(ColRegion))
	assert.Equal(t, 3, cols.Index(ColTarget))
	assert.Equal(t, -1, cols.Index(ColTerritory))
	assert.Equal(t, -1, cols.Index("never-requested"))
}

func TestCellOutOfRange(t *testing.T) {
	g := Grid{{"a", "b"}}
	assert.Equal(t, "a", g.Cell(0, 0))
	assert.Equal(t, "", g.Cell(0, 5))
	assert.Equal(t, "", g.Cell(3, 0))
	assert.Equal(t, "", g.Cell(-1, -1))
}
