// Package scanner provides a position-tracking rune cursor over a string.
//
// It is the leaf primitive of the template engine: every higher layer
// (the condition lexer, the tag parser, the template lexer) backtracks
// through the same save/restore discipline rather than maintaining its
// own position bookkeeping.
package scanner


// Position locates a point in the scanned source for error reporting.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Scanner is a backtracking cursor over a string's runes.
type Scanner struct {
	src  []rune
	pos  int
}

// New returns a Scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: []rune(src)}
}

// AtEnd reports whether the cursor has reached the end of the source.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.src)
}

// Peek returns the rune at the cursor without consuming it.
func (s *Scanner) Peek() (rune, bool) {
	if s.AtEnd() {
		return 0, false
	}
	return s.src[s.pos], true
}

// Mark returns an opaque cursor position that can later be restored with Reset.
func (s *Scanner) Mark() int {
	return s.pos
}

// Reset restores the cursor to a position previously returned by Mark.
func (s *Scanner) Reset(mark int) {
	s.pos = mark
}

// Position computes the line/column/offset of the current cursor position.
// It walks from the start of the source, so callers that need this often
// should cache it rather than call it per-rune.
func (s *Scanner) Position() Position {
	line, col := 1, 1
	for i := 0; i < s.pos && i < len(s.src); i++ {
		if s.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col, Offset: s.pos}
}

// MatchLiteral consumes the exact literal s if it occurs at the cursor,
// returning whether it matched. On failure the cursor is unchanged.
func (s *Scanner) MatchLiteral(lit string) bool {
	runes := []rune(lit)
	if len(runes) == 0 {
		return true
	}
	if s.pos+len(runes) > len(s.src) {
		return false
	}
	for i, r := range runes {
		if s.src[s.pos+i] != r {
			return false
		}
	}
	s.pos += len(runes)
	return true
}

// PeeksLiteral reports whether lit occurs at the cursor without consuming it.
func (s *Scanner) PeeksLiteral(lit string) bool {
	mark := s.Mark()
	ok := s.MatchLiteral(lit)
	s.Reset(mark)
	return ok
}

// TakeUntilLiteral consumes and returns everything up to (not including) the
// next occurrence of lit, leaving the cursor positioned right before lit. If
// lit never occurs, the cursor is left unchanged and ok is false.
func (s *Scanner) TakeUntilLiteral(lit string) (text string, ok bool) {
	runes := []rune(lit)
	if len(runes) == 0 {
		return "", false
	}
	for i := s.pos; i+len(runes) <= len(s.src); i++ {
		match := true
		for j, r := range runes {
			if s.src[i+j] != r {
				match = false
				break
			}
		}
		if match {
			text = string(s.src[s.pos:i])
			s.pos = i
			return text, true
		}
	}
	return "", false
}

// CharSet classifies runes for TakeWhile/TakeUntil.
type CharSet func(r rune) bool

// TakeWhile consumes and returns a maximal run of runes satisfying set. It
// fails (restoring the cursor, which is a no-op since nothing was consumed
// on failure) if the run is empty.
func (s *Scanner) TakeWhile(set CharSet) (string, bool) {
	start := s.pos
	for !s.AtEnd() {
		r, _ := s.Peek()
		if !set(r) {
			break
		}
		s.pos++
	}
	if s.pos == start {
		return "", false
	}
	return string(s.src[start:s.pos]), true
}

// TakeUntil consumes and returns a maximal run of runes NOT satisfying set.
// It fails if the run is empty.
func (s *Scanner) TakeUntil(set CharSet) (string, bool) {
	return s.TakeWhile(func(r rune) bool { return !set(r) })
}

// TakeChar consumes and returns the rune at the cursor.
func (s *Scanner) TakeChar() (rune, bool) {
	if s.AtEnd() {
		return 0, false
	}
	r := s.src[s.pos]
	s.pos++
	return r, true
}

// TakeRest consumes and returns everything remaining in the source.
func (s *Scanner) TakeRest() string {
	text := string(s.src[s.pos:])
	s.pos = len(s.src)
	return text
}

func isASCIISpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// SkipWhitespace discards a run of ASCII whitespace at the cursor.
func (s *Scanner) SkipWhitespace() {
	s.TakeWhile(isASCIISpace)
}

// TakeWhitespace consumes and returns a run of ASCII whitespace, failing if
// none is present. Unlike SkipWhitespace, it reports whether any whitespace
// was there.
func (s *Scanner) TakeWhitespace() (string, bool) {
	return s.TakeWhile(isASCIISpace)
}

func isIdentChar(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// TakeIdentifier consumes and returns a maximal run of letters, digits, and
// underscores. It fails (restoring the cursor) if the run would be empty.
func (s *Scanner) TakeIdentifier() (string, bool) {
	start := s.pos
	id, ok := s.TakeWhile(isIdentChar)
	if !ok {
		s.pos = start
		return "", false
	}
	return id, true
}

// TakePath consumes and returns a dot-separated chain of identifiers. A
// trailing '.' not followed by an identifier character is left unconsumed.
func (s *Scanner) TakePath() ([]string, bool) {
	start := s.pos
	first, ok := s.TakeIdentifier()
	if !ok {
		s.pos = start
		return nil, false
	}
	path := []string{first}
	for {
		mark := s.pos
		if !s.MatchLiteral(".") {
			break
		}
		id, ok := s.TakeIdentifier()
		if !ok {
			s.pos = mark
			break
		}
		path = append(path, id)
	}
	return path, true
}

// TakeKeyword consumes an identifier equal to word, restoring the cursor
// (consuming nothing) if the next identifier doesn't match.
func (s *Scanner) TakeKeyword(word string) bool {
	mark := s.pos
	id, ok := s.TakeIdentifier()
	if ok && id == word {
		return true
	}
	s.pos = mark
	return false
}
