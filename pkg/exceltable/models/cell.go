// Package models defines data structures for table extraction.
package models

import (
	"time"
)

// CellKind identifies which value a Cell carries.
type CellKind int

const (
	// CellBlank is an empty position, or a cell holding an error value.
	CellBlank CellKind = iota
	// CellText is a string cell.
	CellText
	// CellNumber is a numeric cell without date formatting.
	CellNumber
	// CellBool is a boolean cell.
	CellBool
	// CellFormula is a cell holding a formula.
	CellFormula
	// CellDate is a numeric cell with a date or time number format.
	CellDate
)

var cellKindNames = [...]string{"blank", "text", "number", "bool", "formula", "date"}

func (k CellKind) String() string {
	if k < 0 || int(k) >= len(cellKindNames) {
		return "unknown"
	}
	return cellKindNames[k]
}

// Cell is a single typed cell value read from a sheet.
type Cell struct {
	// Kind selects which of the fields below is meaningful.
	Kind CellKind
	// Text holds the string value, the formula source, or the number as
	// rendered by the workbook's own number format.
	Text string
	// Number is the numeric value of a CellNumber.
	Number float64
	// General reports whether a CellNumber uses the General number format.
	General bool
	// Bool is the value of a CellBool.
	Bool bool
	// Time is the value of a CellDate.
	Time time.Time
}

// TextCell returns a CellText holding s.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a CellNumber with its source-formatted display text.
func NumberCell(v float64, display string, general bool) Cell {
	return Cell{Kind: CellNumber, Number: v, Text: display, General: general}
}

// BoolCell returns a CellBool.
func BoolCell(b bool) Cell {
	return Cell{Kind: CellBool, Bool: b}
}

// FormulaCell returns a CellFormula holding the formula source text.
func FormulaCell(formula string) Cell {
	return Cell{Kind: CellFormula, Text: formula}
}

// DateCell returns a CellDate.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// IsBlank reports whether the cell has no value.
func (c Cell) IsBlank() bool {
	return c.Kind == CellBlank
}
