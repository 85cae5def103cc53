// Package render evaluates a lang AST against a bsctx.Context,
// producing the rendered text. It knows nothing about the filesystem
// layout or spec format that produced the context — those are
// instantiate's concern — beyond the minimal FS it needs to resolve
// "<{ import "..." }>" tags.
package render

import (
	"strings"

	"github.com/bootstrapp/bootstrapp/bsctx"
	"github.com/bootstrapp/bootstrapp/internal/bserrors"
	"github.com/bootstrapp/bootstrapp/lang"
)

// FS is the minimal filesystem capability the renderer needs to
// resolve imports. instantiate supplies an implementation already
// scoped (chrooted) to the content root, so an ImportNode's path
// resolves against that root with no extra bookkeeping here.
type FS interface {
	ReadFile(path string) ([]byte, error)
}

// DefaultMaxImportDepth bounds recursive "<{ import }>" chains. The
// source system this engine is modeled on leaves cycle detection
// unspecified; a depth limit turns a runaway cycle into a reported
// error instead of a stack overflow.
const DefaultMaxImportDepth = 64

// Renderer evaluates an AST against a context, recursively rendering
// imports through fs.
type Renderer struct {
	FS             FS
	MaxImportDepth int
}

// New returns a Renderer with the default import depth limit.
func New(fs FS) *Renderer {
	return &Renderer{FS: fs, MaxImportDepth: DefaultMaxImportDepth}
}

// transformerContext is the base scope every render starts from: the
// built-in transformers, addressable by "#name" through the same path
// mechanism as ordinary data. User-supplied values shadow it, so a
// user key never collides with a transformer name in practice but
// would win if it somehow did.
func transformerContext() *bsctx.Context {
	values := make(map[string]bsctx.Value, 8)
	for name, fn := range defaultTransformers() {
		values[name] = bsctx.TransformerValue(fn)
	}
	return bsctx.New(values)
}

// Context returns the effective context a Render call would use: the
// built-in transformers overridden by userValues. Callers that need
// to render many node lists against the same effective context (e.g.
// instantiate, across every file and directory name) build it once
// with this and reuse it via RenderWithContext.
func Context(userValues map[string]bsctx.Value) *bsctx.Context {
	return transformerContext().Shadow(userValues)
}

// Render renders nodes against a context composed of the built-in
// transformers overridden by userValues.
func (r *Renderer) Render(nodes []lang.Node, userValues map[string]bsctx.Value) (string, error) {
	ctx := transformerContext().Shadow(userValues)
	var sb strings.Builder
	if err := r.renderNodes(&sb, nodes, ctx, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderWithContext renders nodes against an already-built context
// (e.g. one from Context, or one a caller has pre-shadowed). Used by
// instantiate to thread the same context across file names, directory
// names, and file bodies.
func (r *Renderer) RenderWithContext(nodes []lang.Node, ctx *bsctx.Context) (string, error) {
	var sb strings.Builder
	if err := r.renderNodes(&sb, nodes, ctx, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) renderNodes(sb *strings.Builder, nodes []lang.Node, ctx *bsctx.Context, depth int) error {
	for _, n := range nodes {
		if err := r.renderNode(sb, n, ctx, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNode(sb *strings.Builder, n lang.Node, ctx *bsctx.Context, depth int) error {
	switch n := n.(type) {
	case *lang.TextNode:
		sb.WriteString(n.Text)
		return nil

	case *lang.VariableNode:
		v := ctx.Resolve(n.Path)
		for _, name := range n.Transformers {
			fn, ok := ctx.Resolve([]string{name}).(bsctx.TransformerValue)
			if !ok {
				continue
			}
			s, isString := v.(bsctx.StringValue)
			if !isString {
				// transformers are identity on non-strings (§4.E)
				continue
			}
			v = bsctx.String(fn(string(s)))
		}
		sb.WriteString(bsctx.Str(v))
		return nil

	case *lang.IfNode:
		return r.renderIf(sb, n, ctx, depth)

	case *lang.ElseNode:
		// Only reachable if an ElseNode somehow appears outside an
		// IfNode's children; render it like any other node list.
		return r.renderNodes(sb, n.Children, ctx, depth)

	case *lang.ForNode:
		return r.renderFor(sb, n, ctx, depth)

	case *lang.ImportNode:
		return r.renderImport(sb, n, ctx, depth)

	default:
		return nil
	}
}

func (r *Renderer) renderIf(sb *strings.Builder, n *lang.IfNode, ctx *bsctx.Context, depth int) error {
	if n.Cond.Eval(ctx) {
		for _, child := range n.Children {
			if _, isElse := child.(*lang.ElseNode); isElse {
				continue
			}
			if err := r.renderNode(sb, child, ctx, depth); err != nil {
				return err
			}
		}
		return nil
	}
	for _, child := range n.Children {
		if elseNode, isElse := child.(*lang.ElseNode); isElse {
			return r.renderNodes(sb, elseNode.Children, ctx, depth)
		}
	}
	return nil
}

func (r *Renderer) renderFor(sb *strings.Builder, n *lang.ForNode, ctx *bsctx.Context, depth int) error {
	seq, ok := ctx.Resolve(n.SeqPath).(bsctx.SeqValue)
	if !ok {
		return nil
	}
	for _, elem := range seq {
		loopCtx := ctx.Shadow(map[string]bsctx.Value{n.Var: elem})
		if err := r.renderNodes(sb, n.Children, loopCtx, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderImport(sb *strings.Builder, n *lang.ImportNode, ctx *bsctx.Context, depth int) error {
	if depth+1 > r.MaxImportDepth {
		return bserrors.Eval(n.File, errImportTooDeep)
	}
	if r.FS == nil {
		return bserrors.Eval(n.File, errNoFS)
	}
	data, err := r.FS.ReadFile(n.File)
	if err != nil {
		return bserrors.Eval(n.File, err)
	}
	nodes, err := lang.Parse(string(data), lang.DefaultDelimiters)
	if err != nil {
		return bserrors.Syntax(n.File, err)
	}
	return r.renderNodes(sb, nodes, ctx, depth+1)
}
