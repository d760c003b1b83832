// Package parser provides spreadsheet reading and table extraction utilities.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
)

// FileType is a supported spreadsheet container format.
type FileType string

const (
	Unknown = FileType("")
	Xls     = FileType("xls")
	Xlsx    = FileType("xlsx")
)

var (
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0}
	zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}
)

// Workbook is an opened spreadsheet document.
type Workbook interface {
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string
	// Sheet returns the sheet at the zero-based index.
	Sheet(index int) (Sheet, error)
	Close() error
}

// Sheet is a read-only grid of cells.
type Sheet interface {
	Name() string
	// LastRow returns the index of the last row (0-based), or -1 for an empty sheet.
	LastRow() int
	// Width returns the number of cell positions stored in the row, 0 if the row is absent.
	Width(row int) int
	// Cell returns the cell at the zero-based position. Absent cells are blank.
	Cell(row, col int) (models.Cell, error)
}

// DetectReaderType detects the file type from the leading bytes of r,
// falling back to the file name extension.
func DetectReaderType(r io.Reader, fileName string) (FileType, error) {
	var b [4]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, err
	}
	if n == 0 {
		return Unknown, fmt.Errorf("%w: empty file", ErrInvalidFormat)
	}
	if bytes.Equal(b[:n], oleMagic) {
		return Xls, nil
	}
	if bytes.Equal(b[:n], zipMagic) {
		return Xlsx, nil
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xls":
		return Xls, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return Xlsx, nil
	}
	return Unknown, fmt.Errorf("%w: unsupported file %q", ErrInvalidFormat, filepath.Base(fileName))
}

// DetectFileType opens path and detects its file type.
func DetectFileType(path string) (FileType, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Unknown, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Unknown, err
	}
	defer fh.Close()
	return DetectReaderType(fh, path)
}

// Open opens the spreadsheet at path. The charset is a code page hint for
// legacy xls files and is ignored for xlsx.
func Open(path, charset string) (Workbook, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}

	typ, err := DetectFileType(path)
	if err != nil {
		return nil, err
	}
	var wb Workbook
	switch typ {
	case Xls:
		wb, err = openXLS(path, charset)
	case Xlsx:
		wb, err = openXLSX(path)
	default:
		err = fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}
	if err != nil {
		return nil, err
	}
	return wb, nil
}

func sheetIndexError(index, count int) error {
	return fmt.Errorf("%w: %d (workbook has %d sheets)", ErrInvalidSheetIndex, index, count)
}
