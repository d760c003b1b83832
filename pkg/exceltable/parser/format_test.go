package parser

import (
	"testing"
	"time"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
	"golang.org/x/text/language"
)

func TestFormatterFormat(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name     string
		cell     models.Cell
		expected string
	}{
		{"blank", models.Cell{}, ""},
		{"text", models.TextCell("Alice"), "Alice"},
		{"formula", models.FormulaCell("SUM(A1:A3)"), "SUM(A1:A3)"},
		{"bool true", models.BoolCell(true), "true"},
		{"bool false", models.BoolCell(false), "false"},
		{"date", models.DateCell(ts), "2024-03-15 09:30:00"},
		{"midnight", models.DateCell(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)), "2024-03-15 12:00:00"},
		{"number display", models.NumberCell(3.5, "3.50", false), "3.50"},
		{"number without display", models.NumberCell(1234.5, "", true), "1234.5"},
	}

	fm := NewFormatter("", language.Und)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fm.Format(tt.cell); got != tt.expected {
				t.Errorf("Format(%+v) = %q, expected %q", tt.cell, got, tt.expected)
			}
		})
	}
}

func TestFormatterLocale(t *testing.T) {
	general := models.NumberCell(1234.5, "1234.5", true)
	fixed := models.NumberCell(1234.5, "1234.50", false)

	tests := []struct {
		locale   language.Tag
		cell     models.Cell
		expected string
	}{
		{language.Und, general, "1234.5"},
		{language.English, general, "1,234.5"},
		{language.German, general, "1.234,5"},
		{language.German, fixed, "1234.50"},
		{language.English, models.NumberCell(30, "30", true), "30"},
		{language.German, models.NumberCell(3.14159, "3.14159", true), "3,14159"},
		{language.German, models.NumberCell(1234567.891, "1234567.891", true), "1.234.567,891"},
		{language.English, models.NumberCell(0.0625, "0.0625", true), "0.0625"},
	}

	for _, tt := range tests {
		got := NewFormatter("", tt.locale).Format(tt.cell)
		if got != tt.expected {
			t.Errorf("Format with locale %v = %q, expected %q", tt.locale, got, tt.expected)
		}
	}
}

func TestFormatterDateLayout(t *testing.T) {
	fm := NewFormatter("02.01.2006", language.Und)
	got := fm.Format(models.DateCell(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)))
	if got != "15.03.2024" {
		t.Errorf("Expected 15.03.2024, got %q", got)
	}
	if fm.DateLayout != "02.01.2006" {
		t.Errorf("Expected layout to be kept, got %q", fm.DateLayout)
	}
	if NewFormatter("", language.Und).DateLayout != DefaultDateLayout {
		t.Error("Expected default layout for empty input")
	}
}
