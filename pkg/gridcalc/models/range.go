package models

import "math"

// Coord is a zero-based (row, column) pair.
type Coord struct {
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
}

// Less orders coordinates row-major.
func (c Coord) Less(o Coord) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Range represents a rectangular span of cells between two corners.
type Range struct {
	// Start is the top-left corner after normalization.
	Start Coord `json:"start"`
	// End is the bottom-right corner after normalization (inclusive).
	End Coord `json:"end"`
}

// NewRange builds a normalized range from two arbitrary corners.
func NewRange(a, b Coord) Range {
	return Range{Start: a, End: b}.Normalize()
}

// Normalize returns the range with Start holding the minimum row and column
// and End holding the maximum.
func (r Range) Normalize() Range {
	if r.Start.Row > r.End.Row {
		r.Start.Row, r.End.Row = r.End.Row, r.Start.Row
	}
	if r.Start.Col > r.End.Col {
		r.Start.Col, r.End.Col = r.End.Col, r.Start.Col
	}
	return r
}

// Contains reports whether c lies inside the normalized range.
func (r Range) Contains(c Coord) bool {
	n := r.Normalize()
	return c.Row >= n.Start.Row && c.Row <= n.End.Row &&
		c.Col >= n.Start.Col && c.Col <= n.End.Col
}

// Rows returns the number of rows spanned.
func (r Range) Rows() int {
	n := r.Normalize()
	return n.End.Row - n.Start.Row + 1
}

// Cols returns the number of columns spanned.
func (r Range) Cols() int {
	n := r.Normalize()
	return n.End.Col - n.Start.Col + 1
}

// Cells returns the number of coordinates in the range, saturating at
// math.MaxInt for ranges too large to count.
func (r Range) Cells() int {
	rows, cols := r.Rows(), r.Cols()
	if rows <= 0 || cols <= 0 || rows > math.MaxInt/cols {
		return math.MaxInt
	}
	return rows * cols
}

// Each calls fn for every coordinate of the range in row-major order.
func (r Range) Each(fn func(Coord)) {
	n := r.Normalize()
	for row := n.Start.Row; row <= n.End.Row; row++ {
		for col := n.Start.Col; col <= n.End.Col; col++ {
			fn(Coord{Row: row, Col: col})
		}
	}
}
