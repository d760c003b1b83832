package parser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// BIFF record identifiers.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recFilePass   = 0x002F
	recDateMode   = 0x0022
	recContinue   = 0x003C
	recCodePage   = 0x0042
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recRString    = 0x00D6
	recXF         = 0x00E0
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recFormat     = 0x041E
	recBOF        = 0x0809
)

const (
	biff5 = 0x0500
	biff8 = 0x0600

	bofGlobals   = 0x0005
	bofWorksheet = 0x0010

	sheetTypeWorksheet = 0x00
)

var errShortRecord = errors.New("truncated record")

type biffRecord struct {
	code uint16
	data []byte
}

// nextRecord reads the record starting at pos and returns it with the offset
// of the following record.
func nextRecord(stream []byte, pos int) (biffRecord, int, error) {
	if pos+4 > len(stream) {
		return biffRecord{}, pos, errShortRecord
	}
	code := binary.LittleEndian.Uint16(stream[pos:])
	size := int(binary.LittleEndian.Uint16(stream[pos+2:]))
	start := pos + 4
	if start+size > len(stream) {
		return biffRecord{}, pos, fmt.Errorf("%w: 0x%04x at offset %d", errShortRecord, code, pos)
	}
	return biffRecord{code: code, data: stream[start : start+size]}, start + size, nil
}

// recordReader reads little-endian values across a record and its CONTINUE
// records.
type recordReader struct {
	segs [][]byte
	seg  int
	off  int
}

func newRecordReader(segs ...[]byte) *recordReader {
	return &recordReader{segs: segs}
}

// advance moves to the next segment when the current one is used up and
// reports whether one was entered.
func (r *recordReader) advance() bool {
	if r.seg < len(r.segs) && r.off >= len(r.segs[r.seg]) {
		r.seg++
		r.off = 0
		return true
	}
	return false
}

func (r *recordReader) bytes(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		r.advance()
		if r.seg >= len(r.segs) {
			return nil, errShortRecord
		}
		cur := r.segs[r.seg][r.off:]
		take := min(n-len(out), len(cur))
		out = append(out, cur[:take]...)
		r.off += take
	}
	return out, nil
}

func (r *recordReader) u8() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *recordReader) u16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *recordReader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// chars reads n characters of a BIFF8 string body. A string split by a
// CONTINUE record restates its compression flag at the start of the new
// segment.
func (r *recordReader) chars(n int, wide bool) (string, error) {
	units := make([]uint16, 0, n)
	for len(units) < n {
		if r.advance() {
			flags, err := r.u8()
			if err != nil {
				return "", err
			}
			wide = flags&0x01 != 0
		}
		if r.seg >= len(r.segs) {
			return "", errShortRecord
		}
		avail := len(r.segs[r.seg]) - r.off
		if wide {
			avail /= 2
		}
		take := min(n-len(units), avail)
		if take == 0 {
			return "", errShortRecord
		}
		cur := r.segs[r.seg][r.off:]
		for i := 0; i < take; i++ {
			if wide {
				units = append(units, binary.LittleEndian.Uint16(cur[2*i:]))
			} else {
				units = append(units, uint16(cur[i]))
			}
		}
		if wide {
			r.off += 2 * take
		} else {
			r.off += take
		}
	}
	return string(utf16.Decode(units)), nil
}

// unicodeString reads a BIFF8 XLUnicodeRichExtendedString whose character
// count is lenSize bytes wide. Rich text runs and phonetic data are skipped.
func (r *recordReader) unicodeString(lenSize int) (string, error) {
	var n int
	if lenSize == 1 {
		v, err := r.u8()
		if err != nil {
			return "", err
		}
		n = int(v)
	} else {
		v, err := r.u16()
		if err != nil {
			return "", err
		}
		n = int(v)
	}
	flags, err := r.u8()
	if err != nil {
		return "", err
	}
	var runs, ext int
	if flags&0x08 != 0 {
		v, err := r.u16()
		if err != nil {
			return "", err
		}
		runs = int(v)
	}
	if flags&0x04 != 0 {
		v, err := r.u32()
		if err != nil {
			return "", err
		}
		ext = int(v)
	}
	s, err := r.chars(n, flags&0x01 != 0)
	if err != nil {
		return "", err
	}
	if _, err := r.bytes(4*runs + ext); err != nil {
		return "", err
	}
	return s, nil
}

// byteString reads a BIFF5 8-bit string and decodes it with dec.
func (r *recordReader) byteString(lenSize int, dec *encoding.Decoder) (string, error) {
	var n int
	if lenSize == 1 {
		v, err := r.u8()
		if err != nil {
			return "", err
		}
		n = int(v)
	} else {
		v, err := r.u16()
		if err != nil {
			return "", err
		}
		n = int(v)
	}
	b, err := r.bytes(n)
	if err != nil {
		return "", err
	}
	out, err := dec.Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeRK unpacks the 30-bit RK number encoding.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

// codePageEncodings maps Windows code page numbers from the CODEPAGE record.
var codePageEncodings = map[int]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	855:   charmap.CodePage855,
	858:   charmap.CodePage858,
	860:   charmap.CodePage860,
	862:   charmap.CodePage862,
	863:   charmap.CodePage863,
	865:   charmap.CodePage865,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
	32768: charmap.Macintosh,
	32769: charmap.Windows1252,
}

// charsetEncoding resolves a charset name. "cp1251" style names map to
// Windows code pages; anything else is looked up in the IANA registry.
func charsetEncoding(name string) (encoding.Encoding, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if cp, ok := strings.CutPrefix(lower, "cp"); ok {
		if n, err := strconv.Atoi(cp); err == nil {
			if enc, ok := codePageEncodings[n]; ok {
				return enc, nil
			}
		}
	}
	enc, err := ianaindex.IANA.Encoding(lower)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}
