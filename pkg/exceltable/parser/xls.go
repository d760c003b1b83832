package parser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"github.com/richardlehane/mscfb"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// xlsWorkbook reads legacy BIFF8 (Excel 97-2003) and BIFF5 workbooks from
// their OLE2 container.
type xlsWorkbook struct {
	stream   []byte
	version  uint16
	sheets   []xlsBoundSheet
	sst      []string
	xfFormat []uint16
	formats  map[uint16]string
	date1904 bool
	// dec decodes 8-bit BIFF5 strings.
	dec      *encoding.Decoder
	override bool
}

type xlsBoundSheet struct {
	name   string
	offset int
}

func openXLS(path, charset string) (*xlsWorkbook, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	doc, err := mscfb.New(fh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	var stream []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "Workbook" && entry.Name != "Book" {
			continue
		}
		stream = make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, stream); err != nil {
			return nil, fmt.Errorf("%w: read %s stream: %v", ErrInvalidFormat, entry.Name, err)
		}
		break
	}
	if stream == nil {
		return nil, fmt.Errorf("%w: no workbook stream in %s", ErrInvalidFormat, path)
	}

	w := &xlsWorkbook{
		stream:  stream,
		formats: make(map[uint16]string),
		dec:     charmap.Windows1252.NewDecoder(),
	}
	if charset != "" {
		enc, err := charsetEncoding(charset)
		if err != nil {
			return nil, err
		}
		w.dec = enc.NewDecoder()
		w.override = true
	}
	if err := w.parseGlobals(); err != nil {
		return nil, err
	}
	return w, nil
}

// parseGlobals reads the workbook globals substream: sheet directory,
// shared strings, number formats and cell styles.
func (w *xlsWorkbook) parseGlobals() error {
	rec, pos, err := nextRecord(w.stream, 0)
	if err != nil || rec.code != recBOF || len(rec.data) < 4 {
		return fmt.Errorf("%w: missing BOF record", ErrInvalidFormat)
	}
	w.version = binary.LittleEndian.Uint16(rec.data)
	if w.version != biff8 && w.version != biff5 {
		return fmt.Errorf("%w: unsupported BIFF version 0x%04x", ErrInvalidFormat, w.version)
	}
	if binary.LittleEndian.Uint16(rec.data[2:]) != bofGlobals {
		return fmt.Errorf("%w: workbook stream does not start with globals", ErrInvalidFormat)
	}

	for {
		rec, pos, err = nextRecord(w.stream, pos)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		switch rec.code {
		case recEOF:
			return nil
		case recFilePass:
			return fmt.Errorf("%w: workbook is encrypted", ErrInvalidFormat)
		case recCodePage:
			if len(rec.data) >= 2 && !w.override {
				if enc, ok := codePageEncodings[int(binary.LittleEndian.Uint16(rec.data))]; ok {
					w.dec = enc.NewDecoder()
				}
			}
		case recDateMode:
			w.date1904 = len(rec.data) >= 2 && binary.LittleEndian.Uint16(rec.data) == 1
		case recBoundSheet:
			err = w.addBoundSheet(rec.data)
		case recFormat:
			err = w.addFormat(rec.data)
		case recXF:
			if len(rec.data) >= 4 {
				w.xfFormat = append(w.xfFormat, binary.LittleEndian.Uint16(rec.data[2:]))
			}
		case recSST:
			segs := [][]byte{rec.data}
			for {
				next, after, err := nextRecord(w.stream, pos)
				if err != nil || next.code != recContinue {
					break
				}
				segs = append(segs, next.data)
				pos = after
			}
			err = w.readSST(segs)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}
}

func (w *xlsWorkbook) addBoundSheet(data []byte) error {
	if len(data) < 6 {
		return errShortRecord
	}
	offset := int(binary.LittleEndian.Uint32(data))
	if data[5] != sheetTypeWorksheet {
		return nil
	}
	name, err := w.shortString(newRecordReader(data[6:]))
	if err != nil {
		return err
	}
	w.sheets = append(w.sheets, xlsBoundSheet{name: name, offset: offset})
	return nil
}

func (w *xlsWorkbook) addFormat(data []byte) error {
	if len(data) < 2 {
		return errShortRecord
	}
	id := binary.LittleEndian.Uint16(data)
	r := newRecordReader(data[2:])
	var s string
	var err error
	if w.version == biff8 {
		s, err = r.unicodeString(2)
	} else {
		s, err = r.byteString(1, w.dec)
	}
	if err != nil {
		return err
	}
	w.formats[id] = s
	return nil
}

func (w *xlsWorkbook) readSST(segs [][]byte) error {
	r := newRecordReader(segs...)
	if _, err := r.u32(); err != nil {
		return err
	}
	unique, err := r.u32()
	if err != nil {
		return err
	}
	w.sst = make([]string, 0, unique)
	for i := uint32(0); i < unique; i++ {
		s, err := r.unicodeString(2)
		if err != nil {
			return err
		}
		w.sst = append(w.sst, s)
	}
	return nil
}

// shortString reads a sheet name: a one-byte length followed by BIFF8
// unicode or BIFF5 8-bit characters.
func (w *xlsWorkbook) shortString(r *recordReader) (string, error) {
	if w.version == biff8 {
		return r.unicodeString(1)
	}
	return r.byteString(1, w.dec)
}

// longString reads a LABEL or STRING record body.
func (w *xlsWorkbook) longString(r *recordReader) (string, error) {
	if w.version == biff8 {
		return r.unicodeString(2)
	}
	return r.byteString(2, w.dec)
}

func (w *xlsWorkbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.name
	}
	return names
}

func (w *xlsWorkbook) Sheet(index int) (Sheet, error) {
	if index < 0 || index >= len(w.sheets) {
		return nil, sheetIndexError(index, len(w.sheets))
	}
	bs := w.sheets[index]
	s, err := w.readSheet(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidFormat, bs.name, err)
	}
	return s, nil
}

// Close releases nothing; the workbook stream is read into memory on open.
func (w *xlsWorkbook) Close() error {
	return nil
}

// numberCell classifies a numeric value by the number format of its XF.
func (w *xlsWorkbook) numberCell(xf uint16, v float64) models.Cell {
	var id uint16
	if int(xf) < len(w.xfFormat) {
		id = w.xfFormat[xf]
	}
	format := w.formats[id]
	if IsDateFormat(int(id), format) {
		if t, err := excelize.ExcelDateToTime(v, w.date1904); err == nil {
			return models.DateCell(t.Round(time.Second))
		}
	}
	general := id == 0 && (format == "" || format == "General")
	return models.NumberCell(v, builtInNumber(id, v), general)
}

// readSheet parses the worksheet substream at bs.offset into a cell grid.
func (w *xlsWorkbook) readSheet(bs xlsBoundSheet) (*xlsSheet, error) {
	rec, pos, err := nextRecord(w.stream, bs.offset)
	if err != nil || rec.code != recBOF || len(rec.data) < 4 {
		return nil, errors.New("missing worksheet BOF")
	}
	if binary.LittleEndian.Uint16(rec.data[2:]) != bofWorksheet {
		return nil, errors.New("substream is not a worksheet")
	}

	s := &xlsSheet{name: bs.name}
	// pending is the formula cell awaiting its STRING result record.
	var pending *[2]int
	for {
		rec, pos, err = nextRecord(w.stream, pos)
		if err != nil {
			return nil, err
		}
		data := rec.data
		switch rec.code {
		case recEOF:
			s.trim()
			return s, nil
		case recNumber:
			if len(data) < 14 {
				return nil, errShortRecord
			}
			row, col, xf := cellHeader(data)
			v := math.Float64frombits(binary.LittleEndian.Uint64(data[6:]))
			s.put(row, col, w.numberCell(xf, v))
		case recRK:
			if len(data) < 10 {
				return nil, errShortRecord
			}
			row, col, xf := cellHeader(data)
			s.put(row, col, w.numberCell(xf, decodeRK(binary.LittleEndian.Uint32(data[6:]))))
		case recMulRK:
			if len(data) < 6 {
				return nil, errShortRecord
			}
			row := int(binary.LittleEndian.Uint16(data))
			col := int(binary.LittleEndian.Uint16(data[2:]))
			for p := 4; p+6 <= len(data)-2; p += 6 {
				xf := binary.LittleEndian.Uint16(data[p:])
				s.put(row, col, w.numberCell(xf, decodeRK(binary.LittleEndian.Uint32(data[p+2:]))))
				col++
			}
		case recLabelSST:
			if len(data) < 10 {
				return nil, errShortRecord
			}
			row, col, _ := cellHeader(data)
			idx := int(binary.LittleEndian.Uint32(data[6:]))
			if idx < len(w.sst) {
				s.put(row, col, textCell(w.sst[idx]))
			}
		case recLabel, recRString:
			if len(data) < 8 {
				return nil, errShortRecord
			}
			row, col, _ := cellHeader(data)
			text, err := w.longString(newRecordReader(data[6:]))
			if err != nil {
				return nil, err
			}
			s.put(row, col, textCell(text))
		case recBoolErr:
			if len(data) < 8 {
				return nil, errShortRecord
			}
			row, col, _ := cellHeader(data)
			if data[7] == 0 {
				s.put(row, col, models.BoolCell(data[6] != 0))
			}
		case recFormula:
			if len(data) < 22 {
				return nil, errShortRecord
			}
			row, col, xf := cellHeader(data)
			cell, waits := w.formulaCell(xf, data)
			s.put(row, col, cell)
			pending = nil
			if waits {
				pending = &[2]int{row, col}
			}
		case recString:
			if pending == nil {
				continue
			}
			text, err := w.longString(newRecordReader(data))
			if err != nil {
				return nil, err
			}
			s.put(pending[0], pending[1], textCell(text))
			pending = nil
		}
	}
}

// formulaCell returns the formula source when its tokens can be decoded and
// the cached result otherwise. waits is set when the cached result is a
// string held in the following STRING record.
func (w *xlsWorkbook) formulaCell(xf uint16, data []byte) (cell models.Cell, waits bool) {
	if w.version == biff8 {
		cce := int(binary.LittleEndian.Uint16(data[20:]))
		if 22+cce <= len(data) {
			if src, err := decodeFormula(data[22 : 22+cce]); err == nil {
				return models.FormulaCell(src), false
			}
		}
	}
	result := data[6:14]
	if result[6] != 0xFF || result[7] != 0xFF {
		return w.numberCell(xf, math.Float64frombits(binary.LittleEndian.Uint64(result))), false
	}
	switch result[0] {
	case 0x00:
		return models.Cell{}, true
	case 0x01:
		return models.BoolCell(result[2] != 0), false
	}
	return models.Cell{}, false
}

func cellHeader(data []byte) (row, col int, xf uint16) {
	return int(binary.LittleEndian.Uint16(data)),
		int(binary.LittleEndian.Uint16(data[2:])),
		binary.LittleEndian.Uint16(data[4:])
}

func textCell(s string) models.Cell {
	if s == "" {
		return models.Cell{}
	}
	return models.TextCell(s)
}

// xlsSheet holds the decoded cells of one worksheet.
type xlsSheet struct {
	name string
	rows [][]models.Cell
}

func (s *xlsSheet) put(row, col int, c models.Cell) {
	for len(s.rows) <= row {
		s.rows = append(s.rows, nil)
	}
	cells := s.rows[row]
	for len(cells) <= col {
		cells = append(cells, models.Cell{})
	}
	cells[col] = c
	s.rows[row] = cells
}

// trim drops trailing blank cells and rows.
func (s *xlsSheet) trim() {
	last := -1
	for r, cells := range s.rows {
		n := len(cells)
		for n > 0 && cells[n-1].IsBlank() {
			n--
		}
		s.rows[r] = cells[:n]
		if n > 0 {
			last = r
		}
	}
	s.rows = s.rows[:last+1]
}

func (s *xlsSheet) Name() string {
	return s.name
}

func (s *xlsSheet) LastRow() int {
	return len(s.rows) - 1
}

func (s *xlsSheet) Width(row int) int {
	if row < 0 || row >= len(s.rows) {
		return 0
	}
	return len(s.rows[row])
}

func (s *xlsSheet) Cell(row, col int) (models.Cell, error) {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.rows[row]) {
		return models.Cell{}, nil
	}
	return s.rows[row][col], nil
}
