// Package cond implements the boolean condition sub-language used by
// "if" tags: or/and/not, parenthesized grouping, and path comparisons
// against a bsctx.Context.
//
//	expr      := term   ('or'  term  )*
//	term      := factor ('and' factor)*
//	factor    := 'not'? ( '(' expr ')' | statement )
//	statement := PATH ( ('==' | '!=') STRING )?
package cond

import (
	"fmt"

	"github.com/bootstrapp/bootstrapp/bsctx"
	"github.com/bootstrapp/bootstrapp/scanner"
)

// Expr is a parsed condition, evaluable against a context.
type Expr interface {
	Eval(ctx *bsctx.Context) bool
}

// OrExpr is a short-circuiting disjunction of one or more terms.
type OrExpr struct{ Terms []Expr }

func (e *OrExpr) Eval(ctx *bsctx.Context) bool {
	for _, t := range e.Terms {
		if t.Eval(ctx) {
			return true
		}
	}
	return false
}

// AndExpr is a short-circuiting conjunction of one or more factors.
type AndExpr struct{ Factors []Expr }

func (e *AndExpr) Eval(ctx *bsctx.Context) bool {
	for _, f := range e.Factors {
		if !f.Eval(ctx) {
			return false
		}
	}
	return true
}

// NotExpr negates its operand.
type NotExpr struct{ Operand Expr }

func (e *NotExpr) Eval(ctx *bsctx.Context) bool { return !e.Operand.Eval(ctx) }

// TerminalExpr tests a path for truthiness with no comparison.
type TerminalExpr struct{ Path []string }

func (e *TerminalExpr) Eval(ctx *bsctx.Context) bool {
	return bsctx.Truthy(ctx.Resolve(e.Path))
}

// CompareOp is the comparison operator in a CompareExpr.
type CompareOp int

const (
	// OpEq is "==".
	OpEq CompareOp = iota
	// OpNe is "!=".
	OpNe
)

// CompareExpr compares a path's stringified value against a literal.
type CompareExpr struct {
	Path    []string
	Op      CompareOp
	Literal string
}

func (e *CompareExpr) Eval(ctx *bsctx.Context) bool {
	got := bsctx.Str(ctx.Resolve(e.Path))
	switch e.Op {
	case OpNe:
		return got != e.Literal
	default:
		return got == e.Literal
	}
}

// ParseError reports a malformed condition.
type ParseError struct {
	Source string
	Pos    scanner.Position
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("condition %q: %s at line %d, column %d", e.Source, e.Msg, e.Pos.Line, e.Pos.Column)
}

// Parse parses a complete condition expression from src, requiring
// that the entire (trimmed) input be consumed.
func Parse(src string) (Expr, error) {
	p := &parser{s: scanner.New(src), src: src}
	p.s.SkipWhitespace()
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.s.SkipWhitespace()
	if !p.s.AtEnd() {
		return nil, p.errorf("unexpected trailing input")
	}
	return e, nil
}

type parser struct {
	s   *scanner.Scanner
	src string
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Source: p.src, Pos: p.s.Position(), Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseExpr() (Expr, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for {
		mark := p.s.Mark()
		p.s.SkipWhitespace()
		if !p.s.TakeKeyword("or") {
			p.s.Reset(mark)
			break
		}
		p.s.SkipWhitespace()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &OrExpr{Terms: terms}, nil
}

func (p *parser) parseTerm() (Expr, error) {
	first, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	factors := []Expr{first}
	for {
		mark := p.s.Mark()
		p.s.SkipWhitespace()
		if !p.s.TakeKeyword("and") {
			p.s.Reset(mark)
			break
		}
		p.s.SkipWhitespace()
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	if len(factors) == 1 {
		return factors[0], nil
	}
	return &AndExpr{Factors: factors}, nil
}

func (p *parser) parseFactor() (Expr, error) {
	mark := p.s.Mark()
	if p.s.TakeKeyword("not") {
		p.s.SkipWhitespace()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Operand: operand}, nil
	}
	p.s.Reset(mark)

	if p.s.MatchLiteral("(") {
		p.s.SkipWhitespace()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.s.SkipWhitespace()
		if !p.s.MatchLiteral(")") {
			return nil, p.errorf("expected ')'")
		}
		return e, nil
	}

	return p.parseStatement()
}

func (p *parser) parseStatement() (Expr, error) {
	path, ok := p.s.TakePath()
	if !ok {
		return nil, p.errorf("expected a path")
	}
	mark := p.s.Mark()
	p.s.SkipWhitespace()

	var op CompareOp
	switch {
	case p.s.MatchLiteral("=="):
		op = OpEq
	case p.s.MatchLiteral("!="):
		op = OpNe
	default:
		p.s.Reset(mark)
		return &TerminalExpr{Path: path}, nil
	}

	p.s.SkipWhitespace()
	lit, ok := p.takeStringLiteral()
	if !ok {
		return nil, p.errorf("expected a quoted string after comparison operator")
	}
	return &CompareExpr{Path: path, Op: op, Literal: lit}, nil
}

// takeStringLiteral consumes a string delimited by either " or '. The
// grammar defines no escape sequences: the first occurrence of the
// opening quote character terminates the literal, and running off the
// end of input before it is a parse error.
func (p *parser) takeStringLiteral() (string, bool) {
	mark := p.s.Mark()
	quote, ok := p.s.Peek()
	if !ok || (quote != '"' && quote != '\'') {
		return "", false
	}
	p.s.TakeChar()
	var out []rune
	for {
		r, ok := p.s.TakeChar()
		if !ok {
			p.s.Reset(mark)
			return "", false
		}
		if r == quote {
			return string(out), true
		}
		out = append(out, r)
	}
}
