package parser

import (
	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
)

// ExtractRecords reads every row after the header row down to the last row
// of the sheet. Each row yields one record holding the display text under
// each key's column; rows where every value is empty are skipped. It also
// returns the index of the last row that produced a record, or the header
// row when none did.
func ExtractRecords(sheet Sheet, fm Formatter, positions []models.KeyPosition) ([]models.Record, int, error) {
	header := HeaderRow(positions)
	if header < 0 {
		return nil, header, &DataRangeError{SheetName: sheet.Name()}
	}

	records := []models.Record{}
	lastRow := header
	for r := header + 1; r <= sheet.LastRow(); r++ {
		rec := make(models.Record, len(positions))
		blank := true
		for _, p := range positions {
			cell, err := sheet.Cell(r, p.Col)
			if err != nil {
				return nil, lastRow, err
			}
			v := fm.Format(cell)
			if v != "" {
				blank = false
			}
			rec[p.Key] = v
		}
		if blank {
			continue
		}
		records = append(records, rec)
		lastRow = r
	}
	return records, lastRow, nil
}
