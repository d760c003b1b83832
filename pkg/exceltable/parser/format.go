package parser

import (
	"strconv"
	"strings"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultDateLayout renders dates as yyyy-MM-dd hh:mm:ss on a 12-hour clock.
const DefaultDateLayout = "2006-01-02 03:04:05"

// Formatter renders cells to their display text.
type Formatter struct {
	// DateLayout is the time layout used for date cells.
	DateLayout string
	printer    *message.Printer
}

// NewFormatter returns a Formatter. When locale is language.Und, numbers keep
// the rendering of their own number format; otherwise General numbers are
// rendered with the locale's digit grouping and decimal mark.
func NewFormatter(dateLayout string, locale language.Tag) Formatter {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	f := Formatter{DateLayout: dateLayout}
	if locale != language.Und {
		f.printer = message.NewPrinter(locale)
	}
	return f
}

// Format returns the display text of c. Blank cells render as "".
func (f Formatter) Format(c models.Cell) string {
	switch c.Kind {
	case models.CellText, models.CellFormula:
		return c.Text
	case models.CellBool:
		return strconv.FormatBool(c.Bool)
	case models.CellDate:
		layout := f.DateLayout
		if layout == "" {
			layout = DefaultDateLayout
		}
		return c.Time.Format(layout)
	case models.CellNumber:
		if f.printer != nil && c.General {
			return f.printer.Sprint(number.Decimal(c.Number, number.MaxFractionDigits(fractionDigits(c.Number))))
		}
		if c.Text != "" {
			return c.Text
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return ""
}

// fractionDigits counts the digits after the decimal point in the shortest
// representation of v that parses back to v.
func fractionDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if _, frac, ok := strings.Cut(s, "."); ok {
		return len(frac)
	}
	return 0
}
