package exceltable

import (
	"fmt"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = parser.ErrFileNotFound

// ErrInvalidFormat indicates the input file cannot be parsed as a supported spreadsheet.
var ErrInvalidFormat = parser.ErrInvalidFormat

// ErrInvalidSheetIndex indicates the sheet index is out of range.
var ErrInvalidSheetIndex = parser.ErrInvalidSheetIndex

// ErrDataRange indicates the key labels could not be located in the sheet.
var ErrDataRange = parser.ErrDataRange

// DataRangeError lists the key labels missing from the sheet.
type DataRangeError = parser.DataRangeError

// ReadError represents an error during one step of a read.
type ReadError struct {
	Path string
	Op   string // "open", "sheet", "locate", "extract"
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %q (%s): %v", e.Path, e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError creates a new ReadError.
func NewReadError(path, op string, err error) *ReadError {
	return &ReadError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}
