package lang_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bootstrapp/bootstrapp/lang"
)

func reconstruct(tokens []lang.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		switch t.Kind {
		case lang.TokenNewline:
			sb.WriteByte('\n')
		default:
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

func TestTokenizeTotalityWithoutDelimiters(t *testing.T) {
	src := "hello world\n  spaced  \nplain text"
	tokens, err := lang.Tokenize(src, lang.DefaultDelimiters)
	require.NoError(t, err)
	for _, tok := range tokens {
		assert.NotEqual(t, lang.TokenTag, tok.Kind)
	}
	assert.Equal(t, src, reconstruct(tokens))
}

func TestTokenizeEmitsTagToken(t *testing.T) {
	tokens, err := lang.Tokenize("a <{ name }> b", lang.DefaultDelimiters)
	require.NoError(t, err)
	var tagCount int
	for _, tok := range tokens {
		if tok.Kind == lang.TokenTag {
			tagCount++
		}
	}
	assert.Equal(t, 1, tagCount)
}

func TestTokenizeLoneOpenerCharBecomesText(t *testing.T) {
	tokens, err := lang.Tokenize("a < b", lang.DefaultDelimiters)
	require.NoError(t, err)
	assert.Equal(t, "a < b", reconstruct(tokens))
}

func TestTokenizeUnterminatedTagErrors(t *testing.T) {
	_, err := lang.Tokenize("a <{ name ", lang.DefaultDelimiters)
	assert.Error(t, err)
}

func TestElisionIdempotent(t *testing.T) {
	src := "A\n<{ for x in items }>\n- <{ x }>\n<{ end }>\nB\n"
	tokens, err := lang.Tokenize(src, lang.DefaultDelimiters)
	require.NoError(t, err)
	once := lang.ElideNewlines(tokens)
	twice := lang.ElideNewlines(once)
	assert.Equal(t, once, twice)
}

func TestElisionScenarioS3(t *testing.T) {
	src := "A\n<{ for x in items }>\n- <{ x }>\n<{ end }>\nB\n"
	nodes, err := lang.Parse(src, lang.DefaultDelimiters)
	require.NoError(t, err)

	var forNodes int
	for _, n := range nodes {
		if _, ok := n.(*lang.ForNode); ok {
			forNodes++
		}
	}
	assert.Equal(t, 1, forNodes, "the block-tag lines should be fully elided into a single ForNode")
	// A, "\n", for, B, "\n": the newlines after both block tags are gone.
	assert.Len(t, nodes, 5)
}

func TestParseIfElse(t *testing.T) {
	nodes, err := lang.Parse("<{ if enabled }>on<{ else }>off<{ end }>", lang.DefaultDelimiters)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	ifNode, ok := nodes[0].(*lang.IfNode)
	require.True(t, ok)
	require.Len(t, ifNode.Children, 2)
	_, isElse := ifNode.Children[1].(*lang.ElseNode)
	assert.True(t, isElse)
}

func TestParseUnbalancedEndErrors(t *testing.T) {
	_, err := lang.Parse("<{ end }>", lang.DefaultDelimiters)
	assert.Error(t, err)
}

func TestParseUnterminatedIfErrors(t *testing.T) {
	_, err := lang.Parse("<{ if a }>text", lang.DefaultDelimiters)
	assert.Error(t, err)
}

func TestParseForWithElseErrors(t *testing.T) {
	_, err := lang.Parse("<{ for x in items }>a<{ else }>b<{ end }>", lang.DefaultDelimiters)
	assert.Error(t, err)
}

func TestParseImport(t *testing.T) {
	nodes, err := lang.Parse(`<{ import "header.txt" }>`, lang.DefaultDelimiters)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	imp, ok := nodes[0].(*lang.ImportNode)
	require.True(t, ok)
	assert.Equal(t, "header.txt", imp.File)
}

func TestParseVariableWithTransformers(t *testing.T) {
	nodes, err := lang.Parse("<{ #uppercased name }>", lang.DefaultDelimiters)
	require.NoError(t, err)
	v, ok := nodes[0].(*lang.VariableNode)
	require.True(t, ok)
	assert.Equal(t, []string{"uppercased"}, v.Transformers)
	assert.Equal(t, []string{"name"}, v.Path)
}
