package parser

import (
	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"github.com/xuri/excelize/v2"
)

// LocateKeys scans the sheet row by row, left to right, and records the first
// cell whose display text equals each key. The positions are returned in key
// order. Every key must be found, otherwise a *DataRangeError is returned.
func LocateKeys(sheet Sheet, fm Formatter, keys []string) ([]models.KeyPosition, error) {
	keys = uniqueKeys(keys)
	if len(keys) == 0 {
		return nil, &DataRangeError{SheetName: sheet.Name()}
	}

	remaining := make(map[string]bool, len(keys))
	for _, k := range keys {
		remaining[k] = true
	}
	found := make(map[string]models.KeyPosition, len(keys))

scan:
	for r := 0; r <= sheet.LastRow(); r++ {
		for c := 0; c < sheet.Width(r); c++ {
			cell, err := sheet.Cell(r, c)
			if err != nil {
				return nil, err
			}
			if cell.IsBlank() {
				continue
			}
			text := fm.Format(cell)
			if !remaining[text] {
				continue
			}
			delete(remaining, text)
			found[text] = newKeyPosition(text, r, c)
			if len(remaining) == 0 {
				break scan
			}
		}
	}

	if len(remaining) > 0 {
		missing := make([]string, 0, len(remaining))
		for _, k := range keys {
			if remaining[k] {
				missing = append(missing, k)
			}
		}
		return nil, &DataRangeError{SheetName: sheet.Name(), Missing: missing}
	}

	positions := make([]models.KeyPosition, len(keys))
	for i, k := range keys {
		positions[i] = found[k]
	}
	return positions, nil
}

// HeaderRow returns the greatest row index among the positions, or -1.
func HeaderRow(positions []models.KeyPosition) int {
	header := -1
	for _, p := range positions {
		if p.Row > header {
			header = p.Row
		}
	}
	return header
}

func newKeyPosition(key string, row, col int) models.KeyPosition {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return models.KeyPosition{Key: key, Row: row, Col: col, Cell: name}
}

// uniqueKeys drops repeated keys, keeping the first occurrence.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
