package formula

import (
	"errors"
	"fmt"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// ErrorMarker is the display text of every failed evaluation.
const ErrorMarker = "#ERROR"

var (
	// ErrSyntax indicates a malformed expression.
	ErrSyntax = errors.New("syntax error")
	// ErrDivisionByZero indicates a division by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNonFinite indicates an infinite or NaN result.
	ErrNonFinite = errors.New("non-finite result")
	// ErrUnknownFunction indicates a call to an unsupported function.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrMalformedRange indicates a function argument that is not START:END.
	ErrMalformedRange = ref.ErrMalformedRange
)

// Error describes where evaluating a formula failed.
type Error struct {
	Formula string
	Pos     int // byte offset into the expression after "="
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("formula %q at offset %d: %v", e.Formula, e.Pos, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorAt(pos int, err error) *Error {
	return &Error{Pos: pos, Err: err}
}
