package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bootstrapp/bootstrapp/bsctx"
	"github.com/bootstrapp/bootstrapp/lang"
	"github.com/bootstrapp/bootstrapp/render"
)

type fakeFS map[string]string

func (f fakeFS) ReadFile(path string) ([]byte, error) {
	s, ok := f[path]
	if !ok {
		return nil, assert.AnError
	}
	return []byte(s), nil
}

func renderSrc(t *testing.T, src string, values map[string]bsctx.Value) string {
	t.Helper()
	out, err := render.RenderString(nil, src, values)
	require.NoError(t, err)
	return out
}

func TestS1VariableSubstitution(t *testing.T) {
	out := renderSrc(t, "Hello <{ name }>!", map[string]bsctx.Value{"name": bsctx.String("World")})
	assert.Equal(t, "Hello World!", out)
}

func TestS2IfElse(t *testing.T) {
	src := "<{ if enabled }>on<{ else }>off<{ end }>"
	assert.Equal(t, "on", renderSrc(t, src, map[string]bsctx.Value{"enabled": bsctx.Bool(true)}))
	assert.Equal(t, "off", renderSrc(t, src, map[string]bsctx.Value{"enabled": bsctx.Bool(false)}))
	assert.Equal(t, "off", renderSrc(t, src, nil))
}

func TestS3ForLoopElision(t *testing.T) {
	src := "A\n<{ for x in items }>\n- <{ x }>\n<{ end }>\nB\n"
	out := renderSrc(t, src, map[string]bsctx.Value{
		"items": bsctx.SeqValue{bsctx.String("a"), bsctx.String("b")},
	})
	assert.Equal(t, "A\n- a\n- b\nB\n", out)
}

func TestVariableRenderingOfNullEmitsEmptyString(t *testing.T) {
	out := renderSrc(t, "[<{ missing }>]", nil)
	assert.Equal(t, "[]", out)
}

func TestTransformerComposition(t *testing.T) {
	a := renderSrc(t, "<{ #uppercased#lowercased x }>", map[string]bsctx.Value{"x": bsctx.String("MiXeD")})
	b := renderSrc(t, "<{ #lowercased x }>", map[string]bsctx.Value{"x": bsctx.String("MiXeD")})
	assert.Equal(t, b, a)
}

func TestUnknownTransformerIsNoOp(t *testing.T) {
	out := renderSrc(t, "<{ #nope x }>", map[string]bsctx.Value{"x": bsctx.String("hi")})
	assert.Equal(t, "hi", out)
}

func TestTransformerIsIdentityOnNonStrings(t *testing.T) {
	out := renderSrc(t, "<{ #uppercased flag }>", map[string]bsctx.Value{"flag": bsctx.Bool(true)})
	assert.Equal(t, "true", out)
}

func TestCollapsingWhitespaceMatchesRemovingWhitespace(t *testing.T) {
	a := renderSrc(t, "<{ #collapsingWhitespace x }>", map[string]bsctx.Value{"x": bsctx.String("a  b\tc")})
	b := renderSrc(t, "<{ #removingWhitespace x }>", map[string]bsctx.Value{"x": bsctx.String("a  b\tc")})
	assert.Equal(t, b, a)
	assert.Equal(t, "abc", a)
}

func TestForLoopPurity(t *testing.T) {
	src := "<{ for x in items }><{ x }>-<{ outer }>;<{ end }>after:<{ x }>"
	out := renderSrc(t, src, map[string]bsctx.Value{
		"items": bsctx.SeqValue{bsctx.String("a"), bsctx.String("b")},
		"outer": bsctx.String("O"),
	})
	assert.Equal(t, "a-O;b-O;after:", out)
}

func TestForOverNonSequenceEmitsNothing(t *testing.T) {
	out := renderSrc(t, "<{ for x in notaseq }>x<{ end }>", map[string]bsctx.Value{"notaseq": bsctx.String("hi")})
	assert.Equal(t, "", out)
}

func TestImportRendersRecursivelyWithSameContext(t *testing.T) {
	fs := fakeFS{"header.txt": "Hi <{ name }>"}
	nodes, err := lang.Parse(`<{ import "header.txt" }>!`, lang.DefaultDelimiters)
	require.NoError(t, err)
	out, err := render.New(fs).Render(nodes, map[string]bsctx.Value{"name": bsctx.String("Ada")})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada!", out)
}

func TestImportMissingFileIsEvalError(t *testing.T) {
	fs := fakeFS{}
	nodes, err := lang.Parse(`<{ import "missing.txt" }>`, lang.DefaultDelimiters)
	require.NoError(t, err)
	_, err = render.New(fs).Render(nodes, nil)
	assert.Error(t, err)
}

func TestImportDepthLimitErrors(t *testing.T) {
	fs := fakeFS{"a.txt": `<{ import "a.txt" }>`}
	nodes, err := lang.Parse(`<{ import "a.txt" }>`, lang.DefaultDelimiters)
	require.NoError(t, err)
	r := render.New(fs)
	r.MaxImportDepth = 4
	_, err = r.Render(nodes, nil)
	assert.Error(t, err)
}
