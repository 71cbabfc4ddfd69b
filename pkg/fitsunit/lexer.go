package fitsunit

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokSign
	tokPow
	tokMul
	tokDiv
	tokLParen
	tokRParen
	tokSpace
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokSpace:
		return "space"
	}
	return fmt.Sprintf("%q", t.text)
}

func tokenize(s string) ([]token, error) {
	var raw []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			start := i
			for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
			}
			raw = append(raw, token{kind: tokSpace, text: " ", pos: start})
		case isLetter(c):
			start := i
			for i < len(s) && isLetter(s[i]) {
				i++
			}
			raw = append(raw, token{kind: tokIdent, text: s[start:i], pos: start})
		case isDigit(c):
			start := i
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			raw = append(raw, token{kind: tokInt, text: s[start:i], pos: start})
		case c == '*' && i+1 < len(s) && s[i+1] == '*':
			raw = append(raw, token{kind: tokPow, text: "**", pos: i})
			i += 2
		case c == '^':
			raw = append(raw, token{kind: tokPow, text: "^", pos: i})
			i++
		case c == '*' || c == '.':
			raw = append(raw, token{kind: tokMul, text: string(c), pos: i})
			i++
		case c == '/':
			raw = append(raw, token{kind: tokDiv, text: "/", pos: i})
			i++
		case c == '+' || c == '-':
			raw = append(raw, token{kind: tokSign, text: string(c), pos: i})
			i++
		case c == '(':
			raw = append(raw, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			raw = append(raw, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, &Error{Input: s, Pos: i, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}

	// A space multiplies when it separates two operands and is ignored
	// elsewhere.
	tokens := make([]token, 0, len(raw)+1)
	for i, tok := range raw {
		if tok.kind != tokSpace {
			tokens = append(tokens, tok)
			continue
		}
		if i == 0 || i == len(raw)-1 {
			continue
		}
		if endsOperand(raw[i-1].kind) && startsOperand(raw[i+1].kind) {
			tokens = append(tokens, token{kind: tokMul, text: " ", pos: tok.pos})
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(s)}), nil
}

func endsOperand(kind tokenKind) bool {
	return kind == tokIdent || kind == tokInt || kind == tokRParen
}

func startsOperand(kind tokenKind) bool {
	return kind == tokIdent || kind == tokInt || kind == tokLParen
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
