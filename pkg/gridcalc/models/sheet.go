package models

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
)

// DefaultSheetName is the name given to sheets created without one.
const DefaultSheetName = "新しいスプレッドシート"

const (
	// DefaultRowCount is the addressable row count of a new sheet.
	DefaultRowCount = 20
	// DefaultColCount is the addressable column count of a new sheet.
	DefaultColCount = 10
)

// Sheet is an immutable snapshot of a spreadsheet: a sparse collection of
// cells keyed by coordinate. Mutating methods return a new snapshot.
type Sheet struct {
	// ID is a random identifier assigned at creation.
	ID string
	// Name is the display name.
	Name string
	// RowCount bounds the addressable region for display purposes only.
	RowCount int
	// ColCount bounds the addressable region for display purposes only.
	ColCount int
	// SelectedCell is the cursor position persisted with the document.
	SelectedCell *Coord
	// Cells maps populated coordinates to their cell records.
	Cells map[Coord]Cell
}

// sheetJSON is the persisted document layout, with cells as an array.
type sheetJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Cells        []Cell `json:"cells"`
	RowCount     int    `json:"rowCount"`
	ColCount     int    `json:"colCount"`
	SelectedCell *Coord `json:"selectedCell"`
}

// NewSheet creates an empty sheet. Non-positive dimensions and an empty
// name fall back to the defaults.
func NewSheet(name string, rows, cols int) *Sheet {
	if name == "" {
		name = DefaultSheetName
	}
	if rows <= 0 {
		rows = DefaultRowCount
	}
	if cols <= 0 {
		cols = DefaultColCount
	}
	return &Sheet{
		ID:           uuid.New().String(),
		Name:         name,
		RowCount:     rows,
		ColCount:     cols,
		SelectedCell: &Coord{},
		Cells:        make(map[Coord]Cell),
	}
}

// Cell returns the cell stored at (row, col).
func (s *Sheet) Cell(row, col int) (Cell, bool) {
	if s == nil {
		return Cell{}, false
	}
	c, ok := s.Cells[Coord{Row: row, Col: col}]
	return c, ok
}

// Len returns the number of populated cells.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Cells)
}

// Clone returns a deep copy of the snapshot.
func (s *Sheet) Clone() *Sheet {
	var out Sheet
	if err := deepcopy.Copy(&out, *s); err != nil {
		out = *s
		out.Cells = make(map[Coord]Cell, len(s.Cells))
		for k, v := range s.Cells {
			out.Cells[k] = v
		}
		if s.SelectedCell != nil {
			sel := *s.SelectedCell
			out.SelectedCell = &sel
		}
	}
	if out.Cells == nil {
		out.Cells = make(map[Coord]Cell)
	}
	return &out
}

// With returns a new snapshot with c stored at its coordinate.
func (s *Sheet) With(c Cell) *Sheet {
	out := s.Clone()
	out.Cells[Coord{Row: c.Row, Col: c.Col}] = c
	return out
}

// Without returns a new snapshot with the cell at (row, col) removed.
func (s *Sheet) Without(row, col int) *Sheet {
	out := s.Clone()
	delete(out.Cells, Coord{Row: row, Col: col})
	return out
}

// Resize returns a new snapshot with the given dimensions. Values below
// one are clamped to one.
func (s *Sheet) Resize(rows, cols int) *Sheet {
	out := s.Clone()
	out.RowCount = max(rows, 1)
	out.ColCount = max(cols, 1)
	return out
}

// Map returns a new snapshot built by applying fn to every cell. Cells for
// which fn returns false are dropped; the returned cell is stored at its
// own (possibly changed) coordinate.
func (s *Sheet) Map(fn func(Cell) (Cell, bool)) *Sheet {
	out := s.Clone()
	out.Cells = make(map[Coord]Cell, len(s.Cells))
	for _, coord := range s.Coords() {
		c, keep := fn(s.Cells[coord])
		if !keep {
			continue
		}
		out.Cells[Coord{Row: c.Row, Col: c.Col}] = c
	}
	return out
}

// Coords returns the populated coordinates in row-major order.
func (s *Sheet) Coords() []Coord {
	coords := make([]Coord, 0, s.Len())
	for c := range s.Cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// FormulaCoords returns the coordinates of formula cells in row-major order.
func (s *Sheet) FormulaCoords() []Coord {
	var coords []Coord
	for _, c := range s.Coords() {
		if s.Cells[c].IsFormula() {
			coords = append(coords, c)
		}
	}
	return coords
}

// Bounds returns the bounding range of non-blank cells.
// ok is false when the sheet has no data.
func (s *Sheet) Bounds() (r Range, ok bool) {
	minRow, maxRow := -1, -1
	minCol, maxCol := -1, -1

	for coord, c := range s.Cells {
		if c.IsBlank() {
			continue
		}
		if minRow < 0 || coord.Row < minRow {
			minRow = coord.Row
		}
		if maxRow < 0 || coord.Row > maxRow {
			maxRow = coord.Row
		}
		if minCol < 0 || coord.Col < minCol {
			minCol = coord.Col
		}
		if maxCol < 0 || coord.Col > maxCol {
			maxCol = coord.Col
		}
	}

	if minRow < 0 {
		return Range{}, false
	}
	return Range{
		Start: Coord{Row: minRow, Col: minCol},
		End:   Coord{Row: maxRow, Col: maxCol},
	}, true
}

// Extent returns the number of rows and columns needed to show every
// populated cell and the declared dimensions.
func (s *Sheet) Extent() (rows, cols int) {
	rows, cols = s.RowCount, s.ColCount
	for c := range s.Cells {
		rows = max(rows, c.Row+1)
		cols = max(cols, c.Col+1)
	}
	return rows, cols
}

// MarshalJSON encodes the sheet with its cells as a row-major array.
func (s *Sheet) MarshalJSON() ([]byte, error) {
	w := sheetJSON{
		ID:           s.ID,
		Name:         s.Name,
		Cells:        make([]Cell, 0, len(s.Cells)),
		RowCount:     s.RowCount,
		ColCount:     s.ColCount,
		SelectedCell: s.SelectedCell,
	}
	for _, c := range s.Coords() {
		w.Cells = append(w.Cells, s.Cells[c])
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a sheet document. Fields absent from the document
// keep the receiver's current values, so decoding onto NewSheet applies
// defaults.
func (s *Sheet) UnmarshalJSON(data []byte) error {
	w := sheetJSON{
		ID:           s.ID,
		Name:         s.Name,
		RowCount:     s.RowCount,
		ColCount:     s.ColCount,
		SelectedCell: s.SelectedCell,
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	cells := make(map[Coord]Cell, len(w.Cells))
	for _, c := range w.Cells {
		if c.Style == (Style{}) {
			c.Style = DefaultStyle()
		}
		cells[Coord{Row: c.Row, Col: c.Col}] = c
	}

	s.ID = w.ID
	s.Name = w.Name
	s.RowCount = w.RowCount
	s.ColCount = w.ColCount
	s.SelectedCell = w.SelectedCell
	s.Cells = cells
	return nil
}
