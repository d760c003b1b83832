package output

import (
	"strings"
	"testing"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
)

func sampleTable() *models.Table {
	return &models.Table{
		BookName:  "people.xlsx",
		SheetName: "Sheet1",
		Keys: []models.KeyPosition{
			{Key: "Name", Row: 0, Col: 0, Cell: "A1"},
			{Key: "Age", Row: 0, Col: 1, Cell: "B1"},
		},
		Range: "A1:B2",
		Records: []models.Record{
			{"Name": "Alice", "Age": "30"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}

func TestToJSON(t *testing.T) {
	data, err := Encode(sampleTable(), FormatJSON, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"book_name":"people.xlsx"`, `"range":"A1:B2"`, `"records":[{"Age":"30","Name":"Alice"}]`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON output missing %s: %s", want, s)
		}
	}

	pretty, err := ToJSON(sampleTable(), true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"book_name\"") {
		t.Errorf("Expected indented output, got %s", pretty)
	}
}

func TestEncodeEmptyRecords(t *testing.T) {
	data, err := Encode([]models.Record{}, FormatJSON, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected [], got %s", data)
	}
}

func TestToYAML(t *testing.T) {
	data, err := Encode(sampleTable(), FormatYAML, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{"book_name: people.xlsx", "sheet_name: Sheet1", "cell: B1", "Name: Alice"} {
		if !strings.Contains(s, want) {
			t.Errorf("YAML output missing %q:\n%s", want, s)
		}
	}
}
