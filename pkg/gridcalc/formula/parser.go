package formula

import (
	"fmt"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// node is an evaluable piece of a compiled expression.
type node interface {
	eval(cells CellReader) (float64, error)
}

type numberNode float64

func (n numberNode) eval(CellReader) (float64, error) {
	return float64(n), nil
}

// cellNode reads the numeric effective value of one cell. Unresolvable
// addresses read as 0.
type cellNode struct {
	coord models.Coord
	ok    bool
}

func (n cellNode) eval(cells CellReader) (float64, error) {
	if !n.ok {
		return 0, nil
	}
	return numericValue(cells, n.coord), nil
}

type unaryNode struct {
	neg bool
	x   node
}

func (n unaryNode) eval(cells CellReader) (float64, error) {
	v, err := n.x.eval(cells)
	if err != nil {
		return 0, err
	}
	if n.neg {
		return -v, nil
	}
	return v, nil
}

type binaryNode struct {
	op   tokenType
	pos  int
	l, r node
}

func (n binaryNode) eval(cells CellReader) (float64, error) {
	l, err := n.l.eval(cells)
	if err != nil {
		return 0, err
	}
	r, err := n.r.eval(cells)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokenPlus:
		return l + r, nil
	case tokenMinus:
		return l - r, nil
	case tokenStar:
		return l * r, nil
	case tokenSlash:
		if r == 0 {
			return 0, errorAt(n.pos, ErrDivisionByZero)
		}
		return l / r, nil
	}
	return 0, errorAt(n.pos, fmt.Errorf("%w: unknown operator %s", ErrSyntax, n.op))
}

type callNode struct {
	name string
	fn   Aggregate
	rng  models.Range
}

func (n callNode) eval(cells CellReader) (float64, error) {
	return n.fn(cells, n.rng), nil
}

// parser is a recursive-descent parser over the token stream:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = NUMBER | CELL | FUNCTION "(" CELL ":" CELL ")" | "(" expr ")"
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(typ tokenType) (token, error) {
	t := p.next()
	if t.typ != typ {
		return t, unexpected(t, typ)
	}
	return t, nil
}

func unexpected(t token, want tokenType) *Error {
	if t.typ == tokenEOF {
		return errorAt(t.pos, fmt.Errorf("%w: expected %s, got end of formula", ErrSyntax, want))
	}
	return errorAt(t.pos, fmt.Errorf("%w: expected %s, got %q", ErrSyntax, want, t.text))
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op.typ != tokenPlus && op.typ != tokenMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op.typ, pos: op.pos, l: left, r: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op.typ != tokenStar && op.typ != tokenSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op.typ, pos: op.pos, l: left, r: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	switch p.peek().typ {
	case tokenPlus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{x: x}, nil
	case tokenMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{neg: true, x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.typ {
	case tokenNumber:
		v, err := parseLiteral(t.text)
		if err != nil {
			return nil, errorAt(t.pos, fmt.Errorf("%w: bad number %q", ErrSyntax, t.text))
		}
		return numberNode(v), nil

	case tokenCell:
		coord, ok := ref.Coord(t.text)
		return cellNode{coord: coord, ok: ok}, nil

	case tokenFunction:
		return p.parseCall(t)

	case tokenLeftParen:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRightParen); err != nil {
			return nil, err
		}
		return x, nil

	case tokenEOF:
		return nil, errorAt(t.pos, fmt.Errorf("%w: unexpected end of formula", ErrSyntax))
	}
	return nil, errorAt(t.pos, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text))
}

// parseCall parses NAME(START:END). The name token has been consumed.
func (p *parser) parseCall(name token) (node, error) {
	fn, ok := lookupFunction(name.text)
	if !ok {
		return nil, errorAt(name.pos, fmt.Errorf("%w: %s", ErrUnknownFunction, name.text))
	}
	if _, err := p.expect(tokenLeftParen); err != nil {
		return nil, err
	}

	start := p.next()
	colon := p.next()
	end := p.next()
	if start.typ != tokenCell || colon.typ != tokenColon || end.typ != tokenCell {
		return nil, errorAt(start.pos, fmt.Errorf("%w in %s()", ErrMalformedRange, name.text))
	}
	rng, err := ref.ParseRange(start.text + ":" + end.text)
	if err != nil {
		return nil, errorAt(start.pos, err)
	}

	if _, err := p.expect(tokenRightParen); err != nil {
		return nil, err
	}
	return callNode{name: name.text, fn: fn, rng: rng}, nil
}
