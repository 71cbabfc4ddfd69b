// Package fitsunit parses unit strings written in the FITS unit grammar:
// prefixed base units combined with ".", "*" or a space, divided with "/",
// raised to integer or rational powers, grouped with parentheses, wrapped in
// log/ln/exp/sqrt and optionally preceded by a power-of-ten scale factor.
package fitsunit

import (
	"fmt"
	"strconv"
	"strings"
)

// Error reports why a unit string was rejected. Pos is a byte offset.
type Error struct {
	Input  string
	Pos    int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("fitsunit: %q at offset %d: %s", e.Input, e.Pos, e.Reason)
}

// Power is a rational exponent with a positive denominator.
type Power struct {
	Num int
	Den int
}

func (p Power) String() string {
	if p.Den == 1 {
		return strconv.Itoa(p.Num)
	}
	return fmt.Sprintf("(%d/%d)", p.Num, p.Den)
}

// Factor is one multiplicative term: a unit, a parenthesised group, or a
// function applied to a group.
type Factor struct {
	Prefix string
	Symbol string
	Func   string
	Group  *Expr
	Power  Power
}

func (f Factor) String() string {
	var base string
	switch {
	case f.Func != "":
		base = f.Func + "(" + f.Group.String() + ")"
	case f.Group != nil:
		base = "(" + f.Group.String() + ")"
	default:
		base = f.Prefix + f.Symbol
	}
	if f.Power.Num == 1 && f.Power.Den == 1 {
		return base
	}
	return base + "**" + f.Power.String()
}

// Expr is a parsed unit string.
type Expr struct {
	// Scale is the power of ten that multiplies the expression.
	Scale   int
	Factors []Factor
}

// Dimensionless reports whether the expression has no unit factors.
func (e Expr) Dimensionless() bool {
	return len(e.Factors) == 0
}

// String renders the expression in a canonical form.
func (e Expr) String() string {
	parts := make([]string, 0, len(e.Factors)+1)
	for _, factor := range e.Factors {
		parts = append(parts, factor.String())
	}
	body := strings.Join(parts, ".")
	if e.Scale == 0 {
		return body
	}
	scale := "10**" + strconv.Itoa(e.Scale)
	if body == "" {
		return scale
	}
	return scale + " " + body
}

// Parse parses a FITS unit string. The empty string is dimensionless.
func Parse(s string) (Expr, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return Expr{}, err
	}
	p := &parser{input: s, tokens: tokens}
	expr, err := p.parseExpr()
	if err != nil {
		return Expr{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return Expr{}, p.errorf(tok, "unexpected %s", tok)
	}
	return expr, nil
}

// Validate reports whether s is a valid FITS unit string.
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

type parser struct {
	input  string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &Error{Input: p.input, Pos: tok.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) parseExpr() (Expr, error) {
	var expr Expr
	if scale, ok, err := p.parseScale(); err != nil {
		return Expr{}, err
	} else if ok {
		expr.Scale = scale
		if p.peek().kind == tokMul {
			p.next()
		}
	}
	switch p.peek().kind {
	case tokEOF, tokRParen:
		if expr.Scale == 0 && p.peek().kind == tokRParen {
			return Expr{}, p.errorf(p.peek(), "empty group")
		}
		return expr, nil
	}
	factors, err := p.parseProduct()
	if err != nil {
		return Expr{}, err
	}
	expr.Factors = factors
	return expr, nil
}

// parseScale consumes a leading 10**k, 10^k or 10+k / 10-k factor.
func (p *parser) parseScale() (int, bool, error) {
	tok := p.peek()
	if tok.kind != tokInt || tok.text != "10" {
		return 0, false, nil
	}
	switch p.peekAt(1).kind {
	case tokPow:
		p.next()
		p.next()
		power, err := p.parsePowerValue()
		if err != nil {
			return 0, false, err
		}
		if power.Den != 1 {
			return 0, false, p.errorf(tok, "scale factor must be an integer power of ten")
		}
		return power.Num, true, nil
	case tokSign:
		p.next()
		n, err := p.parseSignedInt()
		if err != nil {
			return 0, false, err
		}
		return n, true, nil
	}
	return 0, false, p.errorf(tok, "numeric factors must be powers of ten")
}

func (p *parser) parseProduct() ([]Factor, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	factors := []Factor{first}
	for {
		switch p.peek().kind {
		case tokMul:
			p.next()
			factor, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			factors = append(factors, factor)
		case tokDiv:
			p.next()
			factor, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			factor.Power.Num = -factor.Power.Num
			factors = append(factors, factor)
		default:
			return factors, nil
		}
	}
}

func (p *parser) parseTerm() (Factor, error) {
	factor, err := p.parseBase()
	if err != nil {
		return Factor{}, err
	}
	factor.Power = Power{Num: 1, Den: 1}
	switch tok := p.peek(); tok.kind {
	case tokPow:
		p.next()
		power, err := p.parsePowerValue()
		if err != nil {
			return Factor{}, err
		}
		factor.Power = power
	case tokInt, tokSign:
		// A trailing integer written directly after the unit, as in "cm2" or "s-1".
		n, err := p.parseSignedInt()
		if err != nil {
			return Factor{}, err
		}
		factor.Power = Power{Num: n, Den: 1}
	}
	if factor.Power.Num == 0 {
		return Factor{}, p.errorf(p.peek(), "zero power")
	}
	return factor, nil
}

func (p *parser) parseBase() (Factor, error) {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		if functions[tok.text] && p.peek().kind == tokLParen {
			p.next()
			group, err := p.parseGroup()
			if err != nil {
				return Factor{}, err
			}
			return Factor{Func: tok.text, Group: &group}, nil
		}
		prefix, base, ok := split(tok.text)
		if !ok {
			return Factor{}, p.errorf(tok, "unknown unit %q", tok.text)
		}
		return Factor{Prefix: prefix, Symbol: base}, nil
	case tokLParen:
		group, err := p.parseGroup()
		if err != nil {
			return Factor{}, err
		}
		return Factor{Group: &group}, nil
	case tokEOF:
		return Factor{}, p.errorf(tok, "unexpected end of unit string")
	}
	return Factor{}, p.errorf(tok, "unexpected %s", tok)
}

func (p *parser) parseGroup() (Expr, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return Expr{}, err
	}
	if tok := p.next(); tok.kind != tokRParen {
		return Expr{}, p.errorf(tok, "expected ')'")
	}
	return expr, nil
}

// parsePowerValue parses the exponent after ** or ^: a signed integer or a
// parenthesised integer or rational.
func (p *parser) parsePowerValue() (Power, error) {
	if p.peek().kind != tokLParen {
		n, err := p.parseSignedInt()
		if err != nil {
			return Power{}, err
		}
		return Power{Num: n, Den: 1}, nil
	}
	p.next()
	num, err := p.parseSignedInt()
	if err != nil {
		return Power{}, err
	}
	power := Power{Num: num, Den: 1}
	if p.peek().kind == tokDiv {
		p.next()
		tok := p.next()
		if tok.kind != tokInt {
			return Power{}, p.errorf(tok, "expected denominator")
		}
		den, err := strconv.Atoi(tok.text)
		if err != nil || den == 0 {
			return Power{}, p.errorf(tok, "invalid denominator %q", tok.text)
		}
		power.Den = den
	}
	if tok := p.next(); tok.kind != tokRParen {
		return Power{}, p.errorf(tok, "expected ')' after power")
	}
	return power.reduce(), nil
}

func (p *parser) parseSignedInt() (int, error) {
	sign := 1
	if tok := p.peek(); tok.kind == tokSign {
		p.next()
		if tok.text == "-" {
			sign = -1
		}
	}
	tok := p.next()
	if tok.kind != tokInt {
		return 0, p.errorf(tok, "expected integer")
	}
	n, err := strconv.Atoi(tok.text)
	if err != nil {
		return 0, p.errorf(tok, "invalid integer %q", tok.text)
	}
	return sign * n, nil
}

func (pw Power) reduce() Power {
	a, b := pw.Num, pw.Den
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a > 1 {
		pw.Num /= a
		pw.Den /= a
	}
	return pw
}
