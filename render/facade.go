package render

import (
	"github.com/bootstrapp/bootstrapp/bsctx"
	"github.com/bootstrapp/bootstrapp/internal/bserrors"
	"github.com/bootstrapp/bootstrapp/lang"
)

// RenderString is a one-shot facade: lex, parse, render, using fs to
// resolve any imports the template body contains. instantiate does not
// use it; it builds one Renderer and context and calls
// RenderWithContext for each file name, directory name, and
// parametrizable file body.
func RenderString(fs FS, src string, userValues map[string]bsctx.Value) (string, error) {
	nodes, err := lang.Parse(src, lang.DefaultDelimiters)
	if err != nil {
		return "", bserrors.Syntax("", err)
	}
	return New(fs).Render(nodes, userValues)
}
