package lang

import "github.com/bootstrapp/bootstrapp/cond"

// Node is one parsed AST element.
type Node interface {
	isNode()
}

// TextNode is literal output text (including elided-newline survivors,
// whose payload is the literal "\n").
type TextNode struct{ Text string }

func (*TextNode) isNode() {}

// VariableNode resolves Path and applies Transformers in source order.
type VariableNode struct {
	Path         []string
	Transformers []string
}

func (*VariableNode) isNode() {}

// IfNode renders Children when Cond is true; Children may itself
// contain a trailing *ElseNode, which is skipped in the true branch
// and rendered instead in the false branch.
type IfNode struct {
	Cond     cond.Expr
	Children []Node
}

func (*IfNode) isNode() {}

// ElseNode only ever appears as the last child of an IfNode.
type ElseNode struct{ Children []Node }

func (*ElseNode) isNode() {}

// ForNode renders Children once per element of the sequence at
// SeqPath, binding Var to the current element.
type ForNode struct {
	Var      string
	SeqPath  []string
	Children []Node
}

func (*ForNode) isNode() {}

// ImportNode recursively renders the template at File, resolved
// against the renderer's root directory.
type ImportNode struct{ File string }

func (*ImportNode) isNode() {}
