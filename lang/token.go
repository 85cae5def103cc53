// Package lang implements the template layer: tokenization of raw
// template text into Text/Whitespace/Newline/Tag tokens, the newline
// elision pass that keeps block tags from leaving blank lines in
// rendered output, and the recursive-descent AST builder.
package lang

import (
	"github.com/bootstrapp/bootstrapp/scanner"
	"github.com/bootstrapp/bootstrapp/tag"
)

// TokenKind discriminates a Token's payload.
type TokenKind int

const (
	// TokenText is a run of non-whitespace-only literal text.
	TokenText TokenKind = iota
	// TokenWhitespace is a run of literal space characters only.
	TokenWhitespace
	// TokenNewline is a single '\n'.
	TokenNewline
	// TokenTag is a parsed "<{ ... }>" tag, either a block tag or a
	// variable substitution.
	TokenTag
)

// Token is one lexical unit of template text.
type Token struct {
	Kind TokenKind
	Text string   // TokenText, TokenWhitespace
	Tag  *tag.Tag // TokenTag
	Pos  scanner.Position
}

// isBlockTag reports whether t is a Tag token whose tag kind counts as
// a "block tag" for newline elision purposes — every tag kind except
// the plain variable substitution.
func (t Token) isBlockTag() bool {
	return t.Kind == TokenTag && t.Tag != nil && t.Tag.Kind != tag.KindVariable
}

func (t Token) isWhitespace() bool { return t.Kind == TokenWhitespace }
func (t Token) isNewline() bool    { return t.Kind == TokenNewline }
