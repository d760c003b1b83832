package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a readable spreadsheet.
var ErrInvalidFormat = errors.New("invalid spreadsheet format")

// ErrInvalidSheetIndex indicates the sheet index is out of range for the workbook.
var ErrInvalidSheetIndex = errors.New("invalid sheet index")

// ErrDataRange indicates the key labels could not be located in the sheet.
var ErrDataRange = errors.New("data range not found")

// DataRangeError lists the key labels that were not found in the sheet.
type DataRangeError struct {
	SheetName string
	Missing   []string
}

func (e *DataRangeError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%v in sheet %q: no keys given", ErrDataRange, e.SheetName)
	}
	return fmt.Sprintf("%v in sheet %q: missing keys %s", ErrDataRange, e.SheetName, strings.Join(quoteAll(e.Missing), ", "))
}

func (e *DataRangeError) Unwrap() error {
	return ErrDataRange
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
