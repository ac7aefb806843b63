// Package formula evaluates cell formulas such as "=A1+SUM(B1:B3)*2"
// against a read-only view of a sheet.
//
// Supported syntax is deliberately small: numeric literals, cell
// references, + - * /, parentheses, unary signs, and the single-range
// aggregates SUM, AVERAGE, MAX, MIN and COUNT. Every failure surfaces to
// display callers as ErrorMarker.
package formula

import (
	"fmt"
	"math"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// CellReader is a read-only view of sheet cells. *models.Sheet
// implements it.
type CellReader interface {
	Cell(row, col int) (models.Cell, bool)
}

// Expr is a compiled formula expression.
type Expr struct {
	src  string
	root node
}

// Compile parses an expression. A leading "=" is optional.
func Compile(expr string) (*Expr, error) {
	src := strings.TrimPrefix(expr, "=")
	tokens, err := tokenize(src)
	if err != nil {
		return nil, withFormula(err, expr)
	}

	p := &parser{tokens: tokens}
	root, err := p.parseExpr()
	if err != nil {
		return nil, withFormula(err, expr)
	}
	if t := p.peek(); t.typ != tokenEOF {
		return nil, withFormula(errorAt(t.pos, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)), expr)
	}
	return &Expr{src: expr, root: root}, nil
}

// String returns the source text the expression was compiled from.
func (e *Expr) String() string {
	return e.src
}

// Eval evaluates the expression. Infinite and NaN results are errors.
func (e *Expr) Eval(cells CellReader) (float64, error) {
	v, err := e.root.eval(cells)
	if err != nil {
		return 0, withFormula(err, e.src)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &Error{Formula: e.src, Err: ErrNonFinite}
	}
	return v, nil
}

// Compute evaluates cell input. Input without a leading "=" is returned
// unchanged; a formula returns its formatted result or the reason it
// failed.
func Compute(input string, cells CellReader) (string, error) {
	if !strings.HasPrefix(input, "=") {
		return input, nil
	}
	e, err := Compile(input)
	if err != nil {
		return ErrorMarker, err
	}
	v, err := e.Eval(cells)
	if err != nil {
		return ErrorMarker, err
	}
	return FormatNumber(v), nil
}

// Evaluate is Compute with failures collapsed to ErrorMarker.
func Evaluate(input string, cells CellReader) string {
	out, _ := Compute(input, cells)
	return out
}

// IsError reports whether a display value is the error marker.
func IsError(display string) bool {
	return display == ErrorMarker
}

func withFormula(err error, formula string) error {
	if fe, ok := err.(*Error); ok {
		fe.Formula = formula
		return fe
	}
	return &Error{Formula: formula, Err: err}
}
