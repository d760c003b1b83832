package exceltable

import (
	"path/filepath"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"github.com/hhl6833/exceltable-go/pkg/exceltable/parser"
)

// Read opens the spreadsheet at path, locates the keys in the sheet at
// sheetIndex and returns one record per non-blank row below them.
func Read(path string, sheetIndex int, keys []string, opts Options) ([]models.Record, error) {
	t, err := ReadTable(path, sheetIndex, keys, opts)
	if err != nil {
		return nil, err
	}
	return t.Records, nil
}

// ReadTable is like Read but also returns where the keys were found.
func ReadTable(path string, sheetIndex int, keys []string, opts Options) (*models.Table, error) {
	log := opts.logger().With("path", path, "sheet_index", sheetIndex)

	wb, err := parser.Open(path, opts.Charset)
	if err != nil {
		return nil, NewReadError(path, "open", err)
	}
	defer wb.Close()
	log.Debug("opened workbook", "sheets", len(wb.SheetNames()))

	sheet, err := wb.Sheet(sheetIndex)
	if err != nil {
		return nil, NewReadError(path, "sheet", err)
	}

	fm := opts.formatter()
	positions, err := parser.LocateKeys(sheet, fm, keys)
	if err != nil {
		return nil, NewReadError(path, "locate", err)
	}
	header := parser.HeaderRow(positions)
	log.Debug("located keys", "sheet", sheet.Name(), "keys", len(positions), "header_row", header)

	records, lastRow, err := parser.ExtractRecords(sheet, fm, positions)
	if err != nil {
		return nil, NewReadError(path, "extract", err)
	}
	area, ref, err := parser.DataRange(positions, lastRow)
	if err != nil {
		return nil, NewReadError(path, "extract", err)
	}
	log.Debug("extracted records", "sheet", sheet.Name(), "records", len(records), "range", ref)

	return &models.Table{
		BookName:   filepath.Base(path),
		SheetName:  sheet.Name(),
		SheetIndex: sheetIndex,
		HeaderRow:  header,
		Keys:       positions,
		Area:       area,
		Range:      ref,
		Records:    records,
	}, nil
}
