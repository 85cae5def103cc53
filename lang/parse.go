package lang

import (
	"fmt"

	"github.com/bootstrapp/bootstrapp/cond"
	"github.com/bootstrapp/bootstrapp/scanner"
	"github.com/bootstrapp/bootstrapp/tag"
)

// ParseError reports a malformed AST: an unbalanced else/end, an
// unterminated if/for, or a malformed condition inside an if tag.
type ParseError struct {
	Pos scanner.Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parse tokenizes and builds an AST from src in one step, applying
// newline elision between the two stages.
func Parse(src string, delims Delimiters) ([]Node, error) {
	tokens, err := Tokenize(src, delims)
	if err != nil {
		return nil, err
	}
	tokens = ElideNewlines(tokens)
	return ParseTokens(tokens)
}

// ParseTokens builds an AST from an already-tokenized (and ideally
// already-elided) stream.
func ParseTokens(tokens []Token) ([]Node, error) {
	nodes, next, closer, err := parseFrame(tokens, 0)
	if err != nil {
		return nil, err
	}
	if closer != closerEOF {
		return nil, &ParseError{Pos: tokens[next-1].Pos, Msg: "unbalanced else/end at top level"}
	}
	return nodes, nil
}

// closerKind tells a frame's caller why parseFrame stopped: it ran out
// of tokens (legitimate only at the top level), it hit a matching End,
// or it hit an Else (legal only as the tail of an If's frame).
type closerKind int

const (
	closerEOF closerKind = iota
	closerEnd
	closerElse
)

// parseFrame parses nodes starting at pos until End, Else, or input
// end, returning the index just past whatever closed the frame.
func parseFrame(tokens []Token, pos int) (nodes []Node, next int, closer closerKind, err error) {
	for pos < len(tokens) {
		t := tokens[pos]

		switch t.Kind {
		case TokenText, TokenWhitespace:
			nodes = append(nodes, &TextNode{Text: t.Text})
			pos++

		case TokenNewline:
			nodes = append(nodes, &TextNode{Text: "\n"})
			pos++

		case TokenTag:
			switch t.Tag.Kind {
			case tag.KindVariable:
				nodes = append(nodes, &VariableNode{Path: t.Tag.Path, Transformers: t.Tag.Transformers})
				pos++

			case tag.KindImport:
				nodes = append(nodes, &ImportNode{File: t.Tag.ImportPath})
				pos++

			case tag.KindIf:
				expr, perr := cond.Parse(t.Tag.Condition)
				if perr != nil {
					return nil, 0, 0, &ParseError{Pos: t.Pos, Msg: "malformed condition: " + perr.Error()}
				}
				children, n2, cl, cerr := parseFrame(tokens, pos+1)
				if cerr != nil {
					return nil, 0, 0, cerr
				}
				ifNode := &IfNode{Cond: expr, Children: children}
				switch cl {
				case closerEnd:
					pos = n2
				case closerElse:
					elseChildren, n3, cl2, eerr := parseFrame(tokens, n2)
					if eerr != nil {
						return nil, 0, 0, eerr
					}
					if cl2 != closerEnd {
						return nil, 0, 0, &ParseError{Pos: t.Pos, Msg: "unbalanced else: expected end"}
					}
					ifNode.Children = append(ifNode.Children, &ElseNode{Children: elseChildren})
					pos = n3
				case closerEOF:
					return nil, 0, 0, &ParseError{Pos: t.Pos, Msg: "unterminated if: missing end"}
				}
				nodes = append(nodes, ifNode)

			case tag.KindFor:
				children, n2, cl, cerr := parseFrame(tokens, pos+1)
				if cerr != nil {
					return nil, 0, 0, cerr
				}
				if cl == closerEOF {
					return nil, 0, 0, &ParseError{Pos: t.Pos, Msg: "unterminated for: missing end"}
				}
				if cl == closerElse {
					return nil, 0, 0, &ParseError{Pos: t.Pos, Msg: "unbalanced else inside for"}
				}
				nodes = append(nodes, &ForNode{Var: t.Tag.LoopVar, SeqPath: t.Tag.SeqPath, Children: children})
				pos = n2

			case tag.KindElse:
				return nodes, pos + 1, closerElse, nil

			case tag.KindEnd:
				return nodes, pos + 1, closerEnd, nil
			}
		}
	}
	return nodes, pos, closerEOF, nil
}
