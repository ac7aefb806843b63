package gridcalc

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds indicates a negative row or column.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// ErrBadAddress indicates an address such as "B12" could not be parsed.
var ErrBadAddress = errors.New("bad cell address")

// ErrNothingToPaste indicates Paste was called with an empty clipboard.
var ErrNothingToPaste = errors.New("clipboard is empty")

// EditError represents a rejected edit.
type EditError struct {
	Op  string // "set", "clear", "paste", "format", "insert-row", ...
	Row int
	Col int
	Err error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("%s at (%d, %d): %v", e.Op, e.Row, e.Col, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

// NewEditError creates a new EditError.
func NewEditError(op string, row, col int, err error) *EditError {
	return &EditError{
		Op:  op,
		Row: row,
		Col: col,
		Err: err,
	}
}
