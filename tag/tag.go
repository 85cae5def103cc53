// Package tag parses the interior of a single "<{ ... }>" block tag
// into a structured Tag, dispatching on its leading keyword.
package tag

import (
	"fmt"
	"strings"

	"github.com/bootstrapp/bootstrapp/scanner"
)

// Kind identifies which block construct a tag represents.
type Kind int

const (
	// KindVariable is a plain (non-control) substitution tag, e.g.
	// "<{ #upper name }>".
	KindVariable Kind = iota
	// KindIf is "<{ if COND }>".
	KindIf
	// KindElse is "<{ else }>".
	KindElse
	// KindEnd is "<{ end }>".
	KindEnd
	// KindFor is "<{ for VAR in PATH }>".
	KindFor
	// KindImport is "<{ import "FILE" }>".
	KindImport
)

// Tag is one parsed block tag.
type Tag struct {
	Kind Kind

	// KindVariable: Transformers (in source order, applied left to
	// right) and Path.
	Transformers []string
	Path         []string

	// KindIf: raw condition source, parsed later by package cond so
	// that a cond.ParseError can carry the tag's own position.
	Condition string

	// KindFor.
	LoopVar  string
	SeqPath  []string

	// KindImport: a literal file path, which may itself be a variable
	// substitution source in a future revision; for now it is taken
	// as a literal relative path string.
	ImportPath string
}

// ParseError reports a malformed tag body.
type ParseError struct {
	Body string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tag %q: %s", strings.TrimSpace(e.Body), e.Msg)
}

// Parse parses the trimmed interior of a block tag (the text between
// the delimiters, not including them).
func Parse(body string) (*Tag, error) {
	s := scanner.New(body)
	s.SkipWhitespace()

	switch {
	case s.TakeKeyword("if"):
		s.SkipWhitespace()
		cond := strings.TrimSpace(s.TakeRest())
		if cond == "" {
			return nil, &ParseError{Body: body, Msg: "if requires a condition"}
		}
		return &Tag{Kind: KindIf, Condition: cond}, nil

	case s.TakeKeyword("else"):
		s.SkipWhitespace()
		if !s.AtEnd() {
			return nil, &ParseError{Body: body, Msg: "else takes no arguments"}
		}
		return &Tag{Kind: KindElse}, nil

	case s.TakeKeyword("end"):
		s.SkipWhitespace()
		if !s.AtEnd() {
			return nil, &ParseError{Body: body, Msg: "end takes no arguments"}
		}
		return &Tag{Kind: KindEnd}, nil

	case s.TakeKeyword("for"):
		s.SkipWhitespace()
		loopVar, ok := s.TakeIdentifier()
		if !ok {
			return nil, &ParseError{Body: body, Msg: "for requires a loop variable"}
		}
		s.SkipWhitespace()
		if !s.TakeKeyword("in") {
			return nil, &ParseError{Body: body, Msg: "for requires 'in' after the loop variable"}
		}
		s.SkipWhitespace()
		seqPath, ok := s.TakePath()
		if !ok {
			return nil, &ParseError{Body: body, Msg: "for requires a sequence path after 'in'"}
		}
		s.SkipWhitespace()
		if !s.AtEnd() {
			return nil, &ParseError{Body: body, Msg: "unexpected trailing input in for tag"}
		}
		return &Tag{Kind: KindFor, LoopVar: loopVar, SeqPath: seqPath}, nil

	case s.TakeKeyword("import"):
		s.SkipWhitespace()
		path, ok := takeQuotedPath(s)
		if !ok {
			return nil, &ParseError{Body: body, Msg: "import requires a quoted path"}
		}
		s.SkipWhitespace()
		if !s.AtEnd() {
			return nil, &ParseError{Body: body, Msg: "unexpected trailing input in import tag"}
		}
		return &Tag{Kind: KindImport, ImportPath: path}, nil

	default:
		return parseVariable(s, body)
	}
}

// takeQuotedPath consumes a "-delimited path with no escape handling;
// a newline before the closing quote is rejected, matching the tag
// grammar's "newline inside is an error" rule for import.
func takeQuotedPath(s *scanner.Scanner) (string, bool) {
	mark := s.Mark()
	if !s.MatchLiteral(`"`) {
		return "", false
	}
	text, ok := s.TakeUntilLiteral(`"`)
	if !ok || strings.Contains(text, "\n") {
		s.Reset(mark)
		return "", false
	}
	s.MatchLiteral(`"`)
	return text, true
}

// parseVariable parses "<{ #t1 #t2 path.to.value }>": a chain of
// leading "#name" transformer references, kept in written order (the
// renderer applies them left to right), followed by a single path.
func parseVariable(s *scanner.Scanner, body string) (*Tag, error) {
	var transformers []string
	for {
		mark := s.Mark()
		if !s.MatchLiteral("#") {
			s.Reset(mark)
			break
		}
		name, ok := s.TakeIdentifier()
		if !ok {
			return nil, &ParseError{Body: body, Msg: "expected a transformer name after '#'"}
		}
		transformers = append(transformers, name)
		s.SkipWhitespace()
	}

	path, ok := s.TakePath()
	if !ok {
		return nil, &ParseError{Body: body, Msg: "expected a variable path"}
	}
	s.SkipWhitespace()
	if !s.AtEnd() {
		return nil, &ParseError{Body: body, Msg: "unexpected trailing input in variable tag"}
	}
	return &Tag{Kind: KindVariable, Transformers: transformers, Path: path}, nil
}
