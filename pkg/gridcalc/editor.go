package gridcalc

import (
	"fmt"
	"log"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/history"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/recalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// Editor is an editing session over one sheet. Every edit produces a new
// snapshot, recalculates it and records it for undo.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	opts      Options
	log       *log.Logger
	sheet     *models.Sheet
	history   *history.History
	clipboard *models.Cell
}

// NewEditor creates an editor holding an empty sheet.
func NewEditor(opts Options) *Editor {
	e := &Editor{
		opts:    opts,
		log:     opts.logger(),
		history: history.New(opts.HistoryLimit),
	}
	e.reset(models.NewSheet("", 0, 0))
	return e
}

func (e *Editor) reset(s *models.Sheet) {
	e.sheet = s
	e.history.Reset(s)
}

// commit makes s the current snapshot and records it for undo.
func (e *Editor) commit(s *models.Sheet) {
	e.sheet = s
	e.history.Push(s)
}

// Load replaces the session with s and clears the undo timeline.
func (e *Editor) Load(s *models.Sheet) {
	if e.opts.ShouldRecalcOnLoad() {
		s = e.recalc(s)
	}
	e.reset(s)
}

// Sheet returns the current snapshot.
func (e *Editor) Sheet() *models.Sheet {
	return e.sheet
}

// NewSheet starts over with an empty sheet. The clipboard is kept.
func (e *Editor) NewSheet() {
	e.reset(models.NewSheet("", 0, 0))
}

// SelectCell moves the cursor. Selection is not an undoable edit.
func (e *Editor) SelectCell(row, col int) error {
	if row < 0 || col < 0 {
		return NewEditError("select", row, col, ErrOutOfBounds)
	}
	s := e.sheet.Clone()
	s.SelectedCell = &models.Coord{Row: row, Col: col}
	e.sheet = s
	return nil
}

// Selected returns the cursor position, A1 when none is stored.
func (e *Editor) Selected() models.Coord {
	if e.sheet.SelectedCell == nil {
		return models.Coord{}
	}
	return *e.sheet.SelectedCell
}

// SetCell stores user input at (row, col). Input starting with "=" is a
// formula; anything else is a plain value. The cell's style is kept.
func (e *Editor) SetCell(row, col int, input string) error {
	if row < 0 || col < 0 {
		return NewEditError("set", row, col, ErrOutOfBounds)
	}

	c := models.NewCell(ref.CoordinateToAddress(row, col), row, col, input)
	if prev, ok := e.sheet.Cell(row, col); ok {
		c.Style = prev.Style
	}
	if c.IsFormula() {
		// seeded from the pre-edit snapshot; recalculation replaces it
		c.DisplayValue = formula.Evaluate(input, e.sheet)
	}
	e.commit(e.recalc(e.sheet.With(c)))
	return nil
}

// SetCellAt is SetCell addressed by name, e.g. "B12".
func (e *Editor) SetCellAt(address, input string) error {
	c, ok := ref.Coord(strings.TrimSpace(address))
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadAddress, address)
	}
	return e.SetCell(c.Row, c.Col, input)
}

// ClearCell removes the cell at (row, col).
func (e *Editor) ClearCell(row, col int) error {
	if row < 0 || col < 0 {
		return NewEditError("clear", row, col, ErrOutOfBounds)
	}
	if _, ok := e.sheet.Cell(row, col); !ok {
		return nil
	}
	e.commit(e.recalc(e.sheet.Without(row, col)))
	return nil
}

// FormatCell merges the non-empty fields of style into the cell's style,
// creating the cell if needed.
func (e *Editor) FormatCell(row, col int, style models.Style) error {
	if row < 0 || col < 0 {
		return NewEditError("format", row, col, ErrOutOfBounds)
	}
	c, ok := e.sheet.Cell(row, col)
	if !ok {
		c = models.NewCell(ref.CoordinateToAddress(row, col), row, col, "")
	}
	c.Style = mergeStyle(c.Style, style)
	e.commit(e.sheet.With(c))
	return nil
}

func mergeStyle(base, patch models.Style) models.Style {
	pick := func(cur, next string) string {
		if next != "" {
			return next
		}
		return cur
	}
	return models.Style{
		BackgroundColor: pick(base.BackgroundColor, patch.BackgroundColor),
		Color:           pick(base.Color, patch.Color),
		FontWeight:      pick(base.FontWeight, patch.FontWeight),
		FontStyle:       pick(base.FontStyle, patch.FontStyle),
		TextDecoration:  pick(base.TextDecoration, patch.TextDecoration),
	}
}

// Copy puts the cell at (row, col) on the clipboard. It reports false and
// leaves the clipboard alone when there is no cell there.
func (e *Editor) Copy(row, col int) bool {
	c, ok := e.sheet.Cell(row, col)
	if !ok {
		return false
	}
	e.clipboard = &c
	return true
}

// Paste writes the clipboard cell (value, formula, display value, style)
// at (row, col). Formula text is pasted verbatim.
func (e *Editor) Paste(row, col int) error {
	if row < 0 || col < 0 {
		return NewEditError("paste", row, col, ErrOutOfBounds)
	}
	if e.clipboard == nil {
		return NewEditError("paste", row, col, ErrNothingToPaste)
	}

	c := *e.clipboard
	c.ID = ref.CoordinateToAddress(row, col)
	c.Row, c.Col = row, col
	s := e.sheet.With(c)
	if e.opts.ShouldRecalcOnPaste() {
		s = e.recalc(s)
	}
	e.commit(s)
	return nil
}

// InsertRow shifts rows at or below index down by one.
func (e *Editor) InsertRow(index int) error {
	if index < 0 {
		return NewEditError("insert-row", index, 0, ErrOutOfBounds)
	}
	s := e.shift(func(c models.Coord) (models.Coord, bool) {
		if c.Row >= index {
			c.Row++
		}
		return c, true
	})
	e.commit(e.recalc(s.Resize(s.RowCount+1, s.ColCount)))
	return nil
}

// InsertColumn shifts columns at or right of index by one.
func (e *Editor) InsertColumn(index int) error {
	if index < 0 {
		return NewEditError("insert-column", 0, index, ErrOutOfBounds)
	}
	s := e.shift(func(c models.Coord) (models.Coord, bool) {
		if c.Col >= index {
			c.Col++
		}
		return c, true
	})
	e.commit(e.recalc(s.Resize(s.RowCount, s.ColCount+1)))
	return nil
}

// DeleteRow drops row index and shifts the rows below it up.
func (e *Editor) DeleteRow(index int) error {
	if index < 0 {
		return NewEditError("delete-row", index, 0, ErrOutOfBounds)
	}
	s := e.shift(func(c models.Coord) (models.Coord, bool) {
		switch {
		case c.Row == index:
			return c, false
		case c.Row > index:
			c.Row--
		}
		return c, true
	})
	e.commit(e.recalc(s.Resize(s.RowCount-1, s.ColCount)))
	return nil
}

// DeleteColumn drops column index and shifts the columns right of it left.
func (e *Editor) DeleteColumn(index int) error {
	if index < 0 {
		return NewEditError("delete-column", 0, index, ErrOutOfBounds)
	}
	s := e.shift(func(c models.Coord) (models.Coord, bool) {
		switch {
		case c.Col == index:
			return c, false
		case c.Col > index:
			c.Col--
		}
		return c, true
	})
	e.commit(e.recalc(s.Resize(s.RowCount, s.ColCount-1)))
	return nil
}

// shift moves every cell to the coordinate returned by move. Cell ids
// follow the new coordinates; formula text is left unchanged.
func (e *Editor) shift(move func(models.Coord) (models.Coord, bool)) *models.Sheet {
	return e.sheet.Map(func(c models.Cell) (models.Cell, bool) {
		to, keep := move(models.Coord{Row: c.Row, Col: c.Col})
		if !keep {
			return c, false
		}
		c.Row, c.Col = to.Row, to.Col
		c.ID = ref.Address(to)
		return c, true
	})
}

// Undo restores the previous snapshot. It reports false at the start of
// the timeline.
func (e *Editor) Undo() bool {
	s, ok := e.history.Undo()
	if ok {
		e.sheet = s
	}
	return ok
}

// Redo re-applies an undone snapshot. It reports false when nothing was
// undone.
func (e *Editor) Redo() bool {
	s, ok := e.history.Redo()
	if ok {
		e.sheet = s
	}
	return ok
}

// CanUndo reports whether an earlier snapshot exists.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether an undone snapshot can be restored.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Recalculate re-evaluates every formula of the current sheet and records
// the result as an edit.
func (e *Editor) Recalculate() recalc.Stats {
	s, stats := recalc.Recalculate(e.sheet, e.opts.Mode)
	e.trace(stats)
	e.commit(s)
	return stats
}

func (e *Editor) recalc(s *models.Sheet) *models.Sheet {
	out, stats := recalc.Recalculate(s, e.opts.Mode)
	e.trace(stats)
	return out
}

func (e *Editor) trace(stats recalc.Stats) {
	mode := e.opts.Mode
	if mode == "" {
		mode = recalc.ModeSnapshot
	}
	e.log.Printf("[recalc] mode=%s formulas=%d errors=%d cycles=%d elapsed=%v",
		mode, stats.Formulas, stats.Errors, stats.Cycles, stats.Elapsed)
}
