package lang

import (
	"fmt"
	"strings"

	"github.com/bootstrapp/bootstrapp/scanner"
	"github.com/bootstrapp/bootstrapp/tag"
)

// Delimiters bounds a template's block-tag markers. The zero value is
// invalid; use DefaultDelimiters.
type Delimiters struct {
	Open  string
	Close string
}

// DefaultDelimiters is "<{" / "}>", the engine's default tag markers.
var DefaultDelimiters = Delimiters{Open: "<{", Close: "}>"}

// TokenizeError reports a lexical failure: an unterminated tag or a
// tag body package tag rejected.
type TokenizeError struct {
	Pos scanner.Position
	Msg string
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Tokenize splits src into a Text/Whitespace/Newline/Tag token stream
// using the given delimiters, per §4.D's algorithm: at each position,
// prefer a full tag match, then a bare newline, then accumulate a
// run of characters up to the next newline or delimiter opener.
func Tokenize(src string, delims Delimiters) ([]Token, error) {
	s := scanner.New(src)
	var tokens []Token

	for !s.AtEnd() {
		if s.PeeksLiteral(delims.Open) {
			pos := s.Position()
			tok, err := readTag(s, delims)
			if err != nil {
				return nil, err
			}
			tok.Pos = pos
			tokens = append(tokens, tok)
			continue
		}

		if r, ok := s.Peek(); ok && r == '\n' {
			pos := s.Position()
			s.TakeChar()
			tokens = append(tokens, Token{Kind: TokenNewline, Pos: pos})
			continue
		}

		pos := s.Position()
		text := accumulateRun(s, delims)
		kind := TokenText
		if isSpacesOnly(text) {
			kind = TokenWhitespace
		}
		tokens = append(tokens, Token{Kind: kind, Text: text, Pos: pos})
	}

	return tokens, nil
}

// readTag consumes "open ... close" and parses the interior.
func readTag(s *scanner.Scanner, delims Delimiters) (Token, error) {
	pos := s.Position()
	s.MatchLiteral(delims.Open)
	body, ok := s.TakeUntilLiteral(delims.Close)
	if !ok {
		return Token{}, &TokenizeError{Pos: pos, Msg: "unterminated tag: missing " + delims.Close}
	}
	s.MatchLiteral(delims.Close)
	t, err := tag.Parse(strings.TrimSpace(body))
	if err != nil {
		return Token{}, &TokenizeError{Pos: pos, Msg: err.Error()}
	}
	return Token{Kind: TokenTag, Tag: t}, nil
}

// accumulateRun consumes characters up to (not including) the next
// newline or the first character of the opening delimiter. At least
// one character is always consumed, since the caller has already
// ruled out an opener or a newline at the current position.
func accumulateRun(s *scanner.Scanner, delims Delimiters) string {
	var sb strings.Builder
	for !s.AtEnd() {
		if s.PeeksLiteral(delims.Open) {
			break
		}
		r, ok := s.Peek()
		if !ok || r == '\n' {
			break
		}
		s.TakeChar()
		sb.WriteRune(r)
	}
	return sb.String()
}

func isSpacesOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != ' ' {
			return false
		}
	}
	return true
}
