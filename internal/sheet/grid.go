// Package sheet turns raw workbook bytes into a rectangular grid of cell
// strings and provides the shared sniffing helpers (value normalization,
// header resolution, date-column detection) the extractors build on.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Grid is a 2-D array of cell values with empty-cell default "".
type Grid [][]string

// Cell returns the cell at (row, col), or "" when out of range. Rows read
// from xlsx files are ragged; treating the missing tail as empty keeps the
// extractors free of bounds checks.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Load reads the workbook from r and returns the grid of the first sheet
// whose name contains keyword (case-insensitive), falling back to the first
// sheet when no name matches or keyword is empty.
func Load(r io.Reader, keyword string) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	name := sheets[0]
	if keyword != "" {
		kw := strings.ToLower(keyword)
		for _, s := range sheets {
			if strings.Contains(strings.ToLower(s), kw) {
				name = s
				break
			}
		}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return Grid(rows), nil
}

// LoadFile is Load for a file on disk.
func LoadFile(path, keyword string) (Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	name := sheets[0]
	if keyword != "" {
		kw := strings.ToLower(keyword)
		for _, s := range sheets {
			if strings.Contains(strings.ToLower(s), kw) {
				name = s
				break
			}
		}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return Grid(rows), nil
}
