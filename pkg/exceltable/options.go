// Package exceltable extracts header-keyed tables from spreadsheet files.
package exceltable

import (
	"log/slog"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/parser"
	"golang.org/x/text/language"
)

// Options configures extraction behavior.
type Options struct {
	// DateLayout is the Go time layout for date cells.
	// If empty, defaults to yyyy-MM-dd hh:mm:ss (12-hour clock).
	DateLayout string
	// Locale renders General-format numbers with locale grouping and decimal
	// marks. If language.Und, numbers keep their workbook rendering.
	Locale language.Tag
	// Charset decodes 8-bit strings of BIFF5 xls files, overriding the code
	// page recorded in the workbook. Accepts IANA names and "cp1251" style
	// code pages. If empty, the workbook code page is used.
	Charset string
	// Logger receives debug records for each step.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		DateLayout: parser.DefaultDateLayout,
	}
}

func (o Options) formatter() parser.Formatter {
	return parser.NewFormatter(o.DateLayout, o.Locale)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
