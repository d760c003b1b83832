package parser

import (
	"fmt"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"github.com/xuri/excelize/v2"
)

// DataRange returns the area covering the key columns from the topmost key
// row down to lastRow (0-based), and the same area in A1 notation
// (e.g. "A1:D10").
func DataRange(positions []models.KeyPosition, lastRow int) (models.Area, string, error) {
	minRow, minCol, maxCol := findKeyBounds(positions)
	if minRow < 0 {
		return models.Area{}, "", nil
	}
	if lastRow < minRow {
		lastRow = minRow
	}

	area := models.Area{R1: minRow + 1, C1: minCol + 1, R2: lastRow + 1, C2: maxCol + 1}

	startCell, err := excelize.CoordinatesToCellName(area.C1, area.R1)
	if err != nil {
		return area, "", err
	}
	endCell, err := excelize.CoordinatesToCellName(area.C2, area.R2)
	if err != nil {
		return area, "", err
	}
	return area, fmt.Sprintf("%s:%s", startCell, endCell), nil
}

// findKeyBounds finds the topmost row and the column span of the positions.
func findKeyBounds(positions []models.KeyPosition) (minRow, minCol, maxCol int) {
	minRow, minCol, maxCol = -1, -1, -1
	for _, p := range positions {
		if minRow < 0 || p.Row < minRow {
			minRow = p.Row
		}
		if minCol < 0 || p.Col < minCol {
			minCol = p.Col
		}
		if maxCol < 0 || p.Col > maxCol {
			maxCol = p.Col
		}
	}
	return
}
