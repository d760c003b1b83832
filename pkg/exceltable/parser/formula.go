package parser

import (
	"encoding/binary"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var errFormulaToken = errors.New("unsupported formula token")

// binaryOps maps BIFF8 binary operator tokens to their infix text.
var binaryOps = map[byte]string{
	0x03: "+", 0x04: "-", 0x05: "*", 0x06: "/", 0x07: "^", 0x08: "&",
	0x09: "<", 0x0A: "<=", 0x0B: "=", 0x0C: ">=", 0x0D: ">", 0x0E: "<>",
	0x0F: " ", 0x10: ",", 0x11: ":",
}

type formulaFunc struct {
	name string
	argc int // fixed argument count, -1 when the token carries it
}

// formulaFuncs is the subset of the built-in function table understood by
// decodeFormula, keyed by iftab.
var formulaFuncs = map[uint16]formulaFunc{
	0: {"COUNT", -1}, 1: {"IF", -1}, 2: {"ISNA", 1}, 3: {"ISERROR", 1},
	4: {"SUM", -1}, 5: {"AVERAGE", -1}, 6: {"MIN", -1}, 7: {"MAX", -1},
	8: {"ROW", -1}, 9: {"COLUMN", -1}, 10: {"NA", 0}, 15: {"SIN", 1},
	16: {"COS", 1}, 19: {"PI", 0}, 20: {"SQRT", 1}, 21: {"EXP", 1},
	22: {"LN", 1}, 23: {"LOG10", 1}, 24: {"ABS", 1}, 25: {"INT", 1},
	26: {"SIGN", 1}, 27: {"ROUND", 2}, 28: {"LOOKUP", -1}, 29: {"INDEX", -1},
	30: {"REPT", 2}, 31: {"MID", 3}, 32: {"LEN", 1}, 33: {"VALUE", 1},
	34: {"TRUE", 0}, 35: {"FALSE", 0}, 36: {"AND", -1}, 37: {"OR", -1},
	38: {"NOT", 1}, 39: {"MOD", 2}, 48: {"TEXT", 2}, 63: {"RAND", 0},
	65: {"DATE", 3}, 66: {"TIME", 3}, 67: {"DAY", 1}, 68: {"MONTH", 1},
	69: {"YEAR", 1}, 70: {"WEEKDAY", -1}, 71: {"HOUR", 1}, 72: {"MINUTE", 1},
	73: {"SECOND", 1}, 74: {"NOW", 0}, 100: {"CHOOSE", -1}, 101: {"HLOOKUP", -1},
	102: {"VLOOKUP", -1}, 111: {"CHAR", 1}, 112: {"LOWER", 1}, 113: {"UPPER", 1},
	115: {"LEFT", -1}, 116: {"RIGHT", -1}, 117: {"EXACT", 2}, 118: {"TRIM", 1},
	119: {"REPLACE", 4}, 120: {"SUBSTITUTE", -1}, 124: {"FIND", -1},
	169: {"COUNTA", -1}, 212: {"ROUNDUP", 2}, 213: {"ROUNDDOWN", 2},
	221: {"TODAY", 0}, 336: {"CONCATENATE", -1}, 337: {"POWER", 2},
}

var formulaErrors = map[byte]string{
	0x00: "#NULL!", 0x07: "#DIV/0!", 0x0F: "#VALUE!", 0x17: "#REF!",
	0x1D: "#NAME?", 0x24: "#NUM!", 0x2A: "#N/A",
}

// decodeFormula renders a BIFF8 parsed formula (rgce) back to its source
// text without the leading "=". Shared, array and 3-D references are not
// decoded and yield errFormulaToken.
func decodeFormula(rgce []byte) (string, error) {
	var stack []string
	pop := func(n int) ([]string, error) {
		if n > len(stack) {
			return nil, errFormulaToken
		}
		args := append([]string(nil), stack[len(stack)-n:]...)
		stack = stack[:len(stack)-n]
		return args, nil
	}
	need := func(n int) error {
		if len(rgce) < n {
			return errShortRecord
		}
		return nil
	}

	for len(rgce) > 0 {
		ptg := rgce[0]
		rgce = rgce[1:]

		if op, ok := binaryOps[ptg]; ok {
			args, err := pop(2)
			if err != nil {
				return "", err
			}
			stack = append(stack, args[0]+op+args[1])
			continue
		}

		switch ptg {
		case 0x12, 0x13, 0x14, 0x15:
			args, err := pop(1)
			if err != nil {
				return "", err
			}
			switch ptg {
			case 0x12:
				stack = append(stack, "+"+args[0])
			case 0x13:
				stack = append(stack, "-"+args[0])
			case 0x14:
				stack = append(stack, args[0]+"%")
			case 0x15:
				stack = append(stack, "("+args[0]+")")
			}
		case 0x16:
			stack = append(stack, "")
		case 0x17:
			if err := need(2); err != nil {
				return "", err
			}
			r := newRecordReader(rgce)
			s, err := r.unicodeString(1)
			if err != nil {
				return "", err
			}
			rgce = rgce[r.off:]
			stack = append(stack, `"`+strings.ReplaceAll(s, `"`, `""`)+`"`)
		case 0x19:
			if err := need(3); err != nil {
				return "", err
			}
			grbit := rgce[0]
			data := binary.LittleEndian.Uint16(rgce[1:])
			rgce = rgce[3:]
			if grbit&0x04 != 0 {
				skip := 2 * (int(data) + 1)
				if err := need(skip); err != nil {
					return "", err
				}
				rgce = rgce[skip:]
			}
			if grbit&0x10 != 0 {
				args, err := pop(1)
				if err != nil {
					return "", err
				}
				stack = append(stack, "SUM("+args[0]+")")
			}
		case 0x1C:
			if err := need(1); err != nil {
				return "", err
			}
			name, ok := formulaErrors[rgce[0]]
			if !ok {
				return "", errFormulaToken
			}
			stack = append(stack, name)
			rgce = rgce[1:]
		case 0x1D:
			if err := need(1); err != nil {
				return "", err
			}
			stack = append(stack, strings.ToUpper(strconv.FormatBool(rgce[0] != 0)))
			rgce = rgce[1:]
		case 0x1E:
			if err := need(2); err != nil {
				return "", err
			}
			stack = append(stack, strconv.Itoa(int(binary.LittleEndian.Uint16(rgce))))
			rgce = rgce[2:]
		case 0x1F:
			if err := need(8); err != nil {
				return "", err
			}
			v := math.Float64frombits(binary.LittleEndian.Uint64(rgce))
			stack = append(stack, strconv.FormatFloat(v, 'G', -1, 64))
			rgce = rgce[8:]
		default:
			n, err := decodeClassified(ptg, rgce, &stack, pop)
			if err != nil {
				return "", err
			}
			rgce = rgce[n:]
		}
	}
	if len(stack) != 1 {
		return "", errFormulaToken
	}
	return stack[0], nil
}

// decodeClassified handles operand and function tokens, which come in
// reference, value and array classes. It returns the bytes consumed.
func decodeClassified(ptg byte, rgce []byte, stack *[]string, pop func(int) ([]string, error)) (int, error) {
	if ptg < 0x20 || ptg > 0x7F {
		return 0, errFormulaToken
	}
	switch ptg & 0x1F {
	case 0x01: // ptgFunc
		if len(rgce) < 2 {
			return 0, errShortRecord
		}
		fn, ok := formulaFuncs[binary.LittleEndian.Uint16(rgce)]
		if !ok || fn.argc < 0 {
			return 0, errFormulaToken
		}
		args, err := pop(fn.argc)
		if err != nil {
			return 0, err
		}
		*stack = append(*stack, fn.name+"("+strings.Join(args, ",")+")")
		return 2, nil
	case 0x02: // ptgFuncVar
		if len(rgce) < 3 {
			return 0, errShortRecord
		}
		argc := int(rgce[0] & 0x7F)
		fn, ok := formulaFuncs[binary.LittleEndian.Uint16(rgce[1:])&0x7FFF]
		if !ok {
			return 0, errFormulaToken
		}
		args, err := pop(argc)
		if err != nil {
			return 0, err
		}
		*stack = append(*stack, fn.name+"("+strings.Join(args, ",")+")")
		return 3, nil
	case 0x04: // ptgRef
		if len(rgce) < 4 {
			return 0, errShortRecord
		}
		*stack = append(*stack, cellRef(binary.LittleEndian.Uint16(rgce), binary.LittleEndian.Uint16(rgce[2:])))
		return 4, nil
	case 0x05: // ptgArea
		if len(rgce) < 8 {
			return 0, errShortRecord
		}
		first := cellRef(binary.LittleEndian.Uint16(rgce), binary.LittleEndian.Uint16(rgce[4:]))
		last := cellRef(binary.LittleEndian.Uint16(rgce[2:]), binary.LittleEndian.Uint16(rgce[6:]))
		*stack = append(*stack, first+":"+last)
		return 8, nil
	}
	return 0, errFormulaToken
}

// cellRef renders a BIFF8 row and column field pair in A1 notation. Bits 15
// and 14 of the column field mark a relative row and column.
func cellRef(row, col uint16) string {
	name, err := excelize.ColumnNumberToName(int(col&0x3FFF) + 1)
	if err != nil {
		return "#REF!"
	}
	var b strings.Builder
	if col&0x4000 == 0 {
		b.WriteByte('$')
	}
	b.WriteString(name)
	if col&0x8000 == 0 {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(int(row) + 1))
	return b.String()
}
