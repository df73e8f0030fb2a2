package frontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWellFormed(t *testing.T) {
	p := New()
	tree, diags, err := p.Parse(context.Background(), []byte("struct Foo { int a; };\n"))
	require.NoError(t, err)
	defer tree.Close()

	assert.Empty(t, diags)
	assert.Equal(t, "translation_unit", tree.RootNode().Type())
}

func TestParseReportsSyntaxDamage(t *testing.T) {
	p := New()
	tree, diags, err := p.Parse(context.Background(), []byte("struct { int a = ; !!!\n"))
	require.NoError(t, err)
	defer tree.Close()

	assert.NotEmpty(t, diags)
	for _, d := range diags {
		assert.NotZero(t, d.Line)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := New()
	tree, diags, err := p.Parse(context.Background(), nil)
	require.NoError(t, err)
	defer tree.Close()
	assert.Empty(t, diags)
}

func TestParserIsReusable(t *testing.T) {
	p := New()
	for i := 0; i < 3; i++ {
		tree, _, err := p.Parse(context.Background(), []byte("enum E { A };\n"))
		require.NoError(t, err)
		tree.Close()
	}
}
