package models

// KeyPosition is the location of a key label in a sheet.
type KeyPosition struct {
	// Key is the header label.
	Key string `json:"key" yaml:"key"`
	// Row is the row index (0-based).
	Row int `json:"row" yaml:"row"`
	// Col is the column index (0-based).
	Col int `json:"col" yaml:"col"`
	// Cell is the A1 reference of the label cell.
	Cell string `json:"cell,omitempty" yaml:"cell,omitempty"`
}

// Record maps each key label to the cell text found under it on one data row.
type Record map[string]string

// Area represents cell coordinate bounds.
type Area struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1" yaml:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1" yaml:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2" yaml:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2" yaml:"c2"`
}

// Table is the result of one extraction.
type Table struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name" yaml:"book_name"`
	// SheetName is the name of the extracted sheet.
	SheetName string `json:"sheet_name" yaml:"sheet_name"`
	// SheetIndex is the zero-based index of the extracted sheet.
	SheetIndex int `json:"sheet_index" yaml:"sheet_index"`
	// HeaderRow is the greatest row index (0-based) among the key positions.
	HeaderRow int `json:"header_row" yaml:"header_row"`
	// Keys holds the resolved key positions in input order.
	Keys []KeyPosition `json:"keys" yaml:"keys"`
	// Area spans the key columns from the topmost key to the last record row.
	Area Area `json:"area" yaml:"area"`
	// Range is Area in A1 notation, e.g. "A1:B4".
	Range string `json:"range,omitempty" yaml:"range,omitempty"`
	// Records holds the non-blank data rows below the header row.
	Records []Record `json:"records" yaml:"records"`
}

// KeyNames returns the key labels in resolution order.
func (t *Table) KeyNames() []string {
	names := make([]string, len(t.Keys))
	for i, k := range t.Keys {
		names[i] = k.Key
	}
	return names
}
