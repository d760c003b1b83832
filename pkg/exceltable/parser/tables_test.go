package parser

import (
	"testing"

	"github.com/hhl6833/exceltable-go/pkg/exceltable/models"
)

func TestDataRange(t *testing.T) {
	tests := []struct {
		name      string
		positions []models.KeyPosition
		lastRow   int
		want      string
		area      models.Area
	}{
		{
			name:      "single header row",
			positions: []models.KeyPosition{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
			lastRow:   3,
			want:      "A1:B4",
			area:      models.Area{R1: 1, C1: 1, R2: 4, C2: 2},
		},
		{
			name:      "scattered keys",
			positions: []models.KeyPosition{{Row: 2, Col: 4}, {Row: 1, Col: 2}},
			lastRow:   9,
			want:      "C2:E10",
			area:      models.Area{R1: 2, C1: 3, R2: 10, C2: 5},
		},
		{
			name:      "no records",
			positions: []models.KeyPosition{{Row: 5, Col: 26}},
			lastRow:   5,
			want:      "AA6:AA6",
			area:      models.Area{R1: 6, C1: 27, R2: 6, C2: 27},
		},
		{
			name: "no positions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area, got, err := DataRange(tt.positions, tt.lastRow)
			if err != nil {
				t.Fatalf("DataRange failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("DataRange = %q, expected %q", got, tt.want)
			}
			if area != tt.area {
				t.Errorf("area = %+v, expected %+v", area, tt.area)
			}
		})
	}
}
