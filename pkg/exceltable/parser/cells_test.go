package parser

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
)

// saveWorkbook builds a workbook with fn and saves it into a temp directory.
func saveWorkbook(t *testing.T, fn func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fn(f)

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func TestXLSXCells(t *testing.T) {
	sheetName := "Sheet1"
	path := saveWorkbook(t, func(f *excelize.File) {
		f.SetCellValue(sheetName, "A1", "Header1")
		f.SetCellValue(sheetName, "B1", 100)
		f.SetCellValue(sheetName, "C1", 200.5)
		f.SetCellValue(sheetName, "D1", true)
		f.SetCellValue(sheetName, "E1", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
		f.SetCellFormula(sheetName, "F1", "B1*2")
		f.SetCellValue(sheetName, "A3", "Text")
	})

	wb, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer wb.Close()

	sheet, err := wb.Sheet(0)
	if err != nil {
		t.Fatalf("Sheet(0) failed: %v", err)
	}
	if sheet.Name() != sheetName {
		t.Errorf("Expected sheet %q, got %q", sheetName, sheet.Name())
	}
	if sheet.LastRow() != 2 {
		t.Errorf("Expected last row 2, got %d", sheet.LastRow())
	}
	if sheet.Width(1) != 0 {
		t.Errorf("Expected empty row 1, got width %d", sheet.Width(1))
	}

	tests := []struct {
		row, col int
		kind     models.CellKind
		text     string
	}{
		{0, 0, models.CellText, "Header1"},
		{0, 1, models.CellNumber, "100"},
		{0, 2, models.CellNumber, "200.5"},
		{0, 3, models.CellBool, "true"},
		{0, 4, models.CellDate, "2024-03-15 09:30:00"},
		{0, 5, models.CellFormula, "B1*2"},
		{1, 0, models.CellBlank, ""},
		{2, 0, models.CellText, "Text"},
		{2, 7, models.CellBlank, ""},
		{40, 2, models.CellBlank, ""},
	}

	fm := NewFormatter("", language.Und)
	for _, tt := range tests {
		cell, err := sheet.Cell(tt.row, tt.col)
		if err != nil {
			t.Errorf("Cell(%d, %d) failed: %v", tt.row, tt.col, err)
			continue
		}
		if cell.Kind != tt.kind {
			t.Errorf("Cell(%d, %d) kind = %v, expected %v", tt.row, tt.col, cell.Kind, tt.kind)
		}
		if got := fm.Format(cell); got != tt.text {
			t.Errorf("Cell(%d, %d) text = %q, expected %q", tt.row, tt.col, got, tt.text)
		}
	}
}

func TestXLSXDateAfterNoon(t *testing.T) {
	path := saveWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", time.Date(2023, 12, 25, 14, 5, 30, 0, time.UTC))
	})

	wb, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer wb.Close()

	sheet, err := wb.Sheet(0)
	if err != nil {
		t.Fatalf("Sheet(0) failed: %v", err)
	}
	cell, err := sheet.Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if cell.Kind != models.CellDate {
		t.Fatalf("Expected date cell, got %v", cell.Kind)
	}
	want := time.Date(2023, 12, 25, 14, 5, 30, 0, time.UTC)
	if !cell.Time.Equal(want) {
		t.Errorf("Expected %v, got %v", want, cell.Time)
	}

	// The default layout uses a 12-hour clock.
	if got := NewFormatter("", language.Und).Format(cell); got != "2023-12-25 02:05:30" {
		t.Errorf("Expected 2023-12-25 02:05:30, got %q", got)
	}
	if got := NewFormatter("2006-01-02 15:04:05", language.Und).Format(cell); got != "2023-12-25 14:05:30" {
		t.Errorf("Expected 2023-12-25 14:05:30, got %q", got)
	}
}

func TestXLSXCustomNumberFormat(t *testing.T) {
	path := saveWorkbook(t, func(f *excelize.File) {
		dateFmt := "yyyy/mm/dd"
		dateStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
		fixedStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2})

		f.SetCellValue("Sheet1", "A1", 45285)
		f.SetCellStyle("Sheet1", "A1", "A1", dateStyle)
		f.SetCellValue("Sheet1", "B1", 3.5)
		f.SetCellStyle("Sheet1", "B1", "B1", fixedStyle)
	})

	wb, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer wb.Close()
	sheet, err := wb.Sheet(0)
	if err != nil {
		t.Fatalf("Sheet(0) failed: %v", err)
	}

	date, err := sheet.Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if date.Kind != models.CellDate {
		t.Fatalf("Expected date cell for custom date format, got %v", date.Kind)
	}
	if got := date.Time.Format("2006-01-02"); got != "2023-12-25" {
		t.Errorf("Expected 2023-12-25, got %s", got)
	}

	fixed, err := sheet.Cell(0, 1)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if fixed.Kind != models.CellNumber || fixed.General {
		t.Fatalf("Expected non-General number, got %+v", fixed)
	}
	if fixed.Text != "3.50" {
		t.Errorf("Expected workbook rendering 3.50, got %q", fixed.Text)
	}
}

func TestXLSXSheetIndexOutOfRange(t *testing.T) {
	path := saveWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "x")
	})

	wb, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer wb.Close()

	for _, idx := range []int{-1, 1, 5} {
		if _, err := wb.Sheet(idx); !errors.Is(err, ErrInvalidSheetIndex) {
			t.Errorf("Sheet(%d) error = %v, expected ErrInvalidSheetIndex", idx, err)
		}
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-03-15T09:30:00Z", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), true},
		{"2024-03-15T09:30:00", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), true},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"hello", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := parseISODate(tt.input)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("parseISODate(%q) = %v, %v, expected %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
