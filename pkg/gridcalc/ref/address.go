// Package ref converts between cell addresses ("B12") and zero-based
// (row, column) coordinates.
package ref

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// ErrMalformedRange indicates a range expression that is not START:END.
var ErrMalformedRange = errors.New("malformed range")

// ColumnIndex decodes a run of uppercase letters as a bijective base-26
// numeral ('A'=1 ... 'Z'=26) and returns the zero-based column index.
func ColumnIndex(letters string) (int, bool) {
	if letters == "" {
		return 0, false
	}
	col := 0
	for i := 0; i < len(letters); i++ {
		ch := letters[i]
		if ch < 'A' || ch > 'Z' {
			return 0, false
		}
		if col > (math.MaxInt-26)/26 {
			return 0, false
		}
		col = col*26 + int(ch-'A'+1)
	}
	return col - 1, true
}

// ColumnName encodes a zero-based column index as letters.
// Negative input returns "".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// AddressToCoordinate parses an address matching ^[A-Z]+[0-9]+$.
// ok is false for malformed input.
func AddressToCoordinate(address string) (row, col int, ok bool) {
	split := 0
	for split < len(address) && address[split] >= 'A' && address[split] <= 'Z' {
		split++
	}
	if split == 0 || split == len(address) {
		return 0, 0, false
	}

	digits := address[split:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, 0, false
		}
	}

	col, ok = ColumnIndex(address[:split])
	if !ok {
		return 0, 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, false
	}
	return n - 1, col, true
}

// CoordinateToAddress formats a zero-based coordinate as an address.
// Negative input returns "".
func CoordinateToAddress(row, col int) string {
	if row < 0 || col < 0 {
		return ""
	}
	return ColumnName(col) + strconv.Itoa(row+1)
}

// Coord is AddressToCoordinate returning a models.Coord.
func Coord(address string) (models.Coord, bool) {
	row, col, ok := AddressToCoordinate(address)
	return models.Coord{Row: row, Col: col}, ok
}

// Address is CoordinateToAddress for a models.Coord.
func Address(c models.Coord) string {
	return CoordinateToAddress(c.Row, c.Col)
}

// ParseRange parses a range like "A1:C3" into a normalized models.Range.
func ParseRange(expr string) (models.Range, error) {
	parts := strings.Split(expr, ":")
	if len(parts) != 2 {
		return models.Range{}, fmt.Errorf("%w: %q", ErrMalformedRange, expr)
	}

	start, ok := Coord(strings.TrimSpace(parts[0]))
	if !ok {
		return models.Range{}, fmt.Errorf("%w: bad start in %q", ErrMalformedRange, expr)
	}
	end, ok := Coord(strings.TrimSpace(parts[1]))
	if !ok {
		return models.Range{}, fmt.Errorf("%w: bad end in %q", ErrMalformedRange, expr)
	}

	return models.NewRange(start, end), nil
}

// FormatRange formats a range as "START:END".
func FormatRange(r models.Range) string {
	n := r.Normalize()
	return Address(n.Start) + ":" + Address(n.End)
}
