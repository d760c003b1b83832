package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IsDateFormat reports whether a number format renders a date or time.
// A non-empty format string takes precedence over the built-in id.
func IsDateFormat(id int, format string) bool {
	if format == "" {
		return isBuiltInDateFormat(id)
	}
	return hasDateToken(format)
}

func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// hasDateToken scans for y, m, d, h or s outside quoted literals, escapes
// and bracketed sections such as locale or color codes.
func hasDateToken(format string) bool {
	inQuote := false
	inBracket := false
	for i := 0; i < len(format); i++ {
		ch := format[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '\\':
			i++
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		default:
			switch ch | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

// builtInNumber renders v with one of the built-in numeric formats of the
// binary format. Other format ids render as General.
func builtInNumber(id uint16, v float64) string {
	switch id {
	case 1:
		return strconv.FormatFloat(roundHalfAway(v), 'f', 0, 64)
	case 2:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case 3:
		return groupThousands(strconv.FormatFloat(roundHalfAway(v), 'f', 0, 64))
	case 4:
		return groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
	case 9:
		return strconv.FormatFloat(roundHalfAway(v*100), 'f', 0, 64) + "%"
	case 10:
		return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
	case 11:
		return fmt.Sprintf("%.2E", v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundHalfAway(v float64) float64 {
	r := math.Round(v)
	if r == 0 {
		return 0
	}
	return r
}

// groupThousands inserts commas into the integer part of a decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
