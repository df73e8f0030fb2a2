// Package frontend drives the tree-sitter C++ grammar over one
// translation unit and reports structural parse problems as
// diagnostics.
package frontend

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/termfx/cppfstr/core"
)

// maxDiagnostics caps how many syntax diagnostics one file can emit.
const maxDiagnostics = 32

// Options carry the compiler-style arguments for a parse. tree-sitter
// does not run the preprocessor, so include dirs, defines and the
// standard do not alter parsing; they are recorded with the run and
// kept for interface compatibility with the CLI contract.
type Options struct {
	IncludeDirs []string
	Defines     []string
	Std         string
}

// Parser wraps a tree-sitter parser configured for C++.
type Parser struct {
	parser *sitter.Parser
	opts   Options
}

// New creates a parser for the C++ grammar.
func New(opts ...Options) *Parser {
	p := sitter.NewParser()
	lang := cpp.GetLanguage()
	if lang == nil {
		panic("failed to load C++ language for tree-sitter")
	}
	p.SetLanguage(lang)

	parser := &Parser{parser: p}
	if len(opts) > 0 {
		parser.opts = opts[0]
	}
	return parser
}

// Options returns the compiler-style arguments this parser carries.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse parses src and returns the tree plus syntax diagnostics. A
// fatal diagnostic (or a nil tree) means the translation unit must be
// skipped; the caller owns tree.Close().
func (p *Parser) Parse(ctx context.Context, src []byte) (*sitter.Tree, []core.Diagnostic, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil || tree == nil {
		return nil, nil, core.ErrParseFailed
	}

	root := tree.RootNode()
	if root == nil || root.Type() != "translation_unit" {
		tree.Close()
		return nil, []core.Diagnostic{{
			Severity: core.SevFatal,
			Message:  "source is not a translation unit",
			Line:     1,
			Col:      1,
		}}, core.ErrParseFailed
	}

	var diags []core.Diagnostic
	if root.HasError() {
		collectErrors(root, &diags)
	}
	return tree, diags, nil
}

// collectErrors walks the tree gathering ERROR and MISSING nodes.
// tree-sitter recovers around local damage, so these are warnings; the
// walker simply never sees a well-formed definition inside them.
func collectErrors(node *sitter.Node, diags *[]core.Diagnostic) {
	if len(*diags) >= maxDiagnostics {
		return
	}
	if node.Type() == "ERROR" || node.IsMissing() {
		*diags = append(*diags, core.Diagnostic{
			Severity: core.SevWarning,
			Message:  fmt.Sprintf("syntax error near %q node", node.Type()),
			Line:     int(node.StartPoint().Row) + 1,
			Col:      int(node.StartPoint().Column) + 1,
		})
		return
	}
	if !node.HasError() {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectErrors(node.Child(i), diags)
	}
}
