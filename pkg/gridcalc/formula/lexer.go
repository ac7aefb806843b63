package formula

import "fmt"

// tokenType represents different types of tokens in formulas
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenNumber
	tokenCell
	tokenFunction // name immediately followed by "("
	tokenIdentifier
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLeftParen
	tokenRightParen
	tokenColon
)

var tokenNames = map[tokenType]string{
	tokenEOF:        "end of formula",
	tokenNumber:     "number",
	tokenCell:       "cell reference",
	tokenFunction:   "function",
	tokenIdentifier: "identifier",
	tokenPlus:       "'+'",
	tokenMinus:      "'-'",
	tokenStar:       "'*'",
	tokenSlash:      "'/'",
	tokenLeftParen:  "'('",
	tokenRightParen: "')'",
	tokenColon:      "':'",
}

func (t tokenType) String() string {
	return tokenNames[t]
}

type token struct {
	typ  tokenType
	text string
	pos  int
}

var operators = map[byte]tokenType{
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'(': tokenLeftParen,
	')': tokenRightParen,
	':': tokenColon,
}

// tokenize splits an expression (without the leading "=") into tokens.
func tokenize(src string) ([]token, error) {
	var tokens []token
	pos := 0
	for pos < len(src) {
		ch := src[pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			pos++

		case isDigit(ch) || ch == '.':
			end := scanNumber(src, pos)
			if end == pos {
				return nil, errorAt(pos, fmt.Errorf("%w: unexpected %q", ErrSyntax, ch))
			}
			tokens = append(tokens, token{typ: tokenNumber, text: src[pos:end], pos: pos})
			pos = end

		case isLetter(ch) || ch == '_':
			end := pos
			for end < len(src) && (isLetter(src[end]) || isDigit(src[end]) || src[end] == '_') {
				end++
			}
			text := src[pos:end]
			typ := tokenIdentifier
			switch {
			case end < len(src) && src[end] == '(':
				typ = tokenFunction
			case isCellName(text):
				typ = tokenCell
			}
			tokens = append(tokens, token{typ: typ, text: text, pos: pos})
			pos = end

		default:
			typ, ok := operators[ch]
			if !ok {
				return nil, errorAt(pos, fmt.Errorf("%w: unexpected %q", ErrSyntax, ch))
			}
			// "++" and "--" are increment/decrement runs, not two signs
			if (ch == '+' || ch == '-') && pos+1 < len(src) && src[pos+1] == ch {
				return nil, errorAt(pos, fmt.Errorf("%w: unexpected %q", ErrSyntax, src[pos:pos+2]))
			}
			tokens = append(tokens, token{typ: typ, text: string(ch), pos: pos})
			pos++
		}
	}
	tokens = append(tokens, token{typ: tokenEOF, pos: len(src)})
	return tokens, nil
}

// scanNumber returns the end offset of the numeric literal starting at pos,
// or pos when there is none.
func scanNumber(src string, pos int) int {
	end := pos
	digits := 0
	for end < len(src) && isDigit(src[end]) {
		end++
		digits++
	}
	if end < len(src) && src[end] == '.' {
		end++
		for end < len(src) && isDigit(src[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return pos
	}
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		exp := end + 1
		if exp < len(src) && (src[exp] == '+' || src[exp] == '-') {
			exp++
		}
		if exp < len(src) && isDigit(src[exp]) {
			for exp < len(src) && isDigit(src[exp]) {
				exp++
			}
			end = exp
		}
	}
	return end
}

// isCellName reports whether s matches ^[A-Z]+[0-9]+$.
func isCellName(s string) bool {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}
