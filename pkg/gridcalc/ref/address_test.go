package ref

import (
	"errors"
	"testing"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/xuri/excelize/v2"
)

func TestAddressToCoordinate(t *testing.T) {
	tests := []struct {
		input string
		row   int
		col   int
		ok    bool
	}{
		{"A1", 0, 0, true},
		{"B12", 11, 1, true},
		{"Z1", 0, 25, true},
		{"AA1", 0, 26, true},
		{"AZ3", 2, 51, true},
		{"ZZ999", 998, 701, true},
		{"A0", -1, 0, true},
		{"", 0, 0, false},
		{"A", 0, 0, false},
		{"12", 0, 0, false},
		{"a1", 0, 0, false},
		{"A1B", 0, 0, false},
		{"$A$1", 0, 0, false},
		{"A 1", 0, 0, false},
		{"A99999999999999999999999", 0, 0, false},
	}

	for _, tt := range tests {
		row, col, ok := AddressToCoordinate(tt.input)
		if ok != tt.ok {
			t.Errorf("AddressToCoordinate(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && (row != tt.row || col != tt.col) {
			t.Errorf("AddressToCoordinate(%q) = (%d, %d), expected (%d, %d)",
				tt.input, row, col, tt.row, tt.col)
		}
	}
}

func TestCoordinateToAddress(t *testing.T) {
	tests := []struct {
		row      int
		col      int
		expected string
	}{
		{0, 0, "A1"},
		{11, 1, "B12"},
		{0, 25, "Z1"},
		{0, 26, "AA1"},
		{4, 51, "AZ5"},
		{998, 701, "ZZ999"},
		{0, 702, "AAA1"},
		{-1, 0, ""},
		{0, -1, ""},
	}

	for _, tt := range tests {
		result := CoordinateToAddress(tt.row, tt.col)
		if result != tt.expected {
			t.Errorf("CoordinateToAddress(%d, %d) = %q, expected %q",
				tt.row, tt.col, result, tt.expected)
		}
	}
}

func TestAddressRoundTrip(t *testing.T) {
	for col := 0; col < 800; col++ {
		for _, row := range []int{0, 1, 9, 99, 1048575} {
			addr := CoordinateToAddress(row, col)
			gotRow, gotCol, ok := AddressToCoordinate(addr)
			if !ok || gotRow != row || gotCol != col {
				t.Fatalf("round trip (%d, %d) -> %q -> (%d, %d, %v)", row, col, addr, gotRow, gotCol, ok)
			}

			// excelize uses 1-based coordinates for the same naming scheme
			want, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				t.Fatalf("excelize.CoordinatesToCellName(%d, %d): %v", col+1, row+1, err)
			}
			if addr != want {
				t.Fatalf("CoordinateToAddress(%d, %d) = %q, excelize says %q", row, col, addr, want)
			}
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Range
		wantErr bool
	}{
		{"A1:C3", models.Range{Start: models.Coord{Row: 0, Col: 0}, End: models.Coord{Row: 2, Col: 2}}, false},
		{" A1 : A3 ", models.Range{Start: models.Coord{Row: 0, Col: 0}, End: models.Coord{Row: 2, Col: 0}}, false},
		// reversed corners normalize
		{"C3:A1", models.Range{Start: models.Coord{Row: 0, Col: 0}, End: models.Coord{Row: 2, Col: 2}}, false},
		{"B5:D2", models.Range{Start: models.Coord{Row: 1, Col: 1}, End: models.Coord{Row: 4, Col: 3}}, false},
		{"A1:", models.Range{}, true},
		{":A1", models.Range{}, true},
		{"A1", models.Range{}, true},
		{"A1:B2:C3", models.Range{}, true},
		{"A1:b2", models.Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !errors.Is(err, ErrMalformedRange) {
					t.Fatalf("expected ErrMalformedRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRange(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatRange(t *testing.T) {
	r := models.NewRange(models.Coord{Row: 2, Col: 27}, models.Coord{Row: 0, Col: 0})
	if got := FormatRange(r); got != "A1:AB3" {
		t.Errorf("FormatRange = %q, want %q", got, "A1:AB3")
	}
}
