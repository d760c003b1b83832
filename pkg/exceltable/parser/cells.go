package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"github.com/xuri/excelize/v2"
)

// xlsxWorkbook reads Office Open XML workbooks through excelize.
type xlsxWorkbook struct {
	f        *excelize.File
	date1904 bool
	// styles caches the date classification per style index.
	styles map[int]numFmtInfo
}

type numFmtInfo struct {
	date    bool
	general bool
}

func openXLSX(path string) (*xlsxWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	wb := &xlsxWorkbook{f: f, styles: make(map[int]numFmtInfo)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *xlsxWorkbook) Sheet(index int) (Sheet, error) {
	names := w.f.GetSheetList()
	if index < 0 || index >= len(names) {
		return nil, sheetIndexError(index, len(names))
	}
	name := names[index]
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidFormat, name, err)
	}
	return &xlsxSheet{wb: w, name: name, rows: rows}, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.f.Close()
}

// numFmt classifies the number format of a style index.
func (w *xlsxWorkbook) numFmt(styleID int) numFmtInfo {
	if info, ok := w.styles[styleID]; ok {
		return info
	}
	info := numFmtInfo{general: true}
	if style, err := w.f.GetStyle(styleID); err == nil && style != nil {
		custom := ""
		if style.CustomNumFmt != nil {
			custom = *style.CustomNumFmt
		}
		info.date = IsDateFormat(style.NumFmt, custom)
		info.general = style.NumFmt == 0 && (custom == "" || strings.EqualFold(custom, "General"))
	}
	w.styles[styleID] = info
	return info
}

// xlsxSheet holds the raw values of one worksheet.
type xlsxSheet struct {
	wb   *xlsxWorkbook
	name string
	rows [][]string
}

func (s *xlsxSheet) Name() string {
	return s.name
}

func (s *xlsxSheet) LastRow() int {
	return len(s.rows) - 1
}

func (s *xlsxSheet) Width(row int) int {
	if row < 0 || row >= len(s.rows) {
		return 0
	}
	return len(s.rows[row])
}

// Cell dispatches on the stored cell type. Formulas win over their cached value.
func (s *xlsxSheet) Cell(row, col int) (models.Cell, error) {
	if row < 0 || col < 0 {
		return models.Cell{}, nil
	}
	cellName, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return models.Cell{}, err
	}
	f := s.wb.f

	formula, err := f.GetCellFormula(s.name, cellName)
	if err != nil {
		return models.Cell{}, err
	}
	if formula != "" {
		return models.FormulaCell(formula), nil
	}

	raw := ""
	if row < len(s.rows) && col < len(s.rows[row]) {
		raw = s.rows[row][col]
	}
	if raw == "" {
		return models.Cell{}, nil
	}

	typ, err := f.GetCellType(s.name, cellName)
	if err != nil {
		return models.Cell{}, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return models.TextCell(raw), nil
	case excelize.CellTypeBool:
		return models.BoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeError:
		return models.Cell{}, nil
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return models.DateCell(t), nil
		}
		return models.TextCell(raw), nil
	}
	return s.numberCell(cellName, raw)
}

func (s *xlsxSheet) numberCell(cellName, raw string) (models.Cell, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.TextCell(raw), nil
	}
	f := s.wb.f
	styleID, err := f.GetCellStyle(s.name, cellName)
	if err != nil {
		return models.Cell{}, err
	}
	info := s.wb.numFmt(styleID)
	if info.date {
		t, err := excelize.ExcelDateToTime(v, s.wb.date1904)
		if err == nil {
			return models.DateCell(t.Round(time.Second)), nil
		}
	}
	display, err := f.GetCellValue(s.name, cellName)
	if err != nil {
		return models.Cell{}, err
	}
	return models.NumberCell(v, display, info.general), nil
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseISODate parses the ISO 8601 value of a cell stored with t="d".
func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Round(time.Second), true
		}
	}
	return time.Time{}, false
}
