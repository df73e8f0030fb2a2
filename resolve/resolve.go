// Package resolve computes names, access, template parameter lists and
// member type text from tree-sitter C++ nodes. It is the bridge between
// the raw syntax tree and the language-neutral declaration records.
package resolve

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/cppfstr/core"
)

// QualName joins enclosing scope segments and a declaration name.
func QualName(scopes []string, name string) string {
	if len(scopes) == 0 {
		return name
	}
	return strings.Join(scopes, "::") + "::" + name
}

// AnonName renders the marker used for anonymous aggregates, keyed by
// the declaration's location in the primary file.
func AnonName(keyword, file string, line, col int) string {
	return fmt.Sprintf("(unnamed %s at %s:%d:%d)", keyword, file, line, col)
}

// RecordKeyword maps a specifier node type to its spelled keyword.
func RecordKeyword(nodeType string) string {
	switch nodeType {
	case "class_specifier":
		return "class"
	case "union_specifier":
		return "union"
	}
	return "struct"
}

// RecordKind maps a specifier node type to the declaration kind.
func RecordKind(nodeType string) core.DeclKind {
	switch nodeType {
	case "class_specifier":
		return core.KindClass
	case "union_specifier":
		return core.KindUnion
	}
	return core.KindStruct
}

// DefaultAccess is the member access in effect at the top of a record
// body: private for classes, public otherwise.
func DefaultAccess(nodeType string) core.Access {
	if nodeType == "class_specifier" {
		return core.AccessPrivate
	}
	return core.AccessPublic
}

// ParseAccessLabel maps the text of an access_specifier node ("public",
// possibly with the trailing colon) to an Access.
func ParseAccessLabel(text string) (core.Access, bool) {
	switch strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ":")) {
	case "public":
		return core.AccessPublic, true
	case "protected":
		return core.AccessProtected, true
	case "private":
		return core.AccessPrivate, true
	}
	return core.AccessInvalid, false
}

// TemplateParams extracts the ordered parameter list from a
// template_parameter_list node.
func TemplateParams(list *sitter.Node, src []byte) []core.TemplateParam {
	if list == nil {
		return nil
	}
	var params []core.TemplateParam
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "type_parameter_declaration", "optional_type_parameter_declaration",
			"variadic_type_parameter_declaration":
			params = append(params, core.TemplateParam{
				Kind: core.ParamType,
				Name: lastIdentifier(child, src),
			})
		case "template_template_parameter_declaration":
			params = append(params, core.TemplateParam{
				Kind: core.ParamTemplate,
				Name: lastIdentifier(child, src),
			})
		case "parameter_declaration", "optional_parameter_declaration":
			params = append(params, core.TemplateParam{
				Kind: core.ParamNonType,
				Name: lastIdentifier(child, src),
			})
		}
	}
	return params
}

// ParamListText renders a template parameter list the way it appears in
// generated names: "K, V, C".
func ParamListText(params []core.TemplateParam) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// TypeParamNamed reports whether text names one of the type template
// parameters (the only kind that gets a typeid slot).
func TypeParamNamed(params []core.TemplateParam, text string) bool {
	for _, p := range params {
		if p.Kind == core.ParamType && p.Name == text {
			return true
		}
	}
	return false
}

// lastIdentifier finds the trailing declared name inside a template
// parameter declaration, whatever its exact shape.
func lastIdentifier(node *sitter.Node, src []byte) string {
	name := ""
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "type_identifier", "identifier":
			name = n.Content(src)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(node)
	return name
}

// NormalizeType collapses whitespace in written type text so that
// "Helper <int>" and "std::map<K,  T>" come out in canonical spelling.
func NormalizeType(text string) string {
	out := strings.Join(strings.Fields(text), " ")
	out = strings.ReplaceAll(out, " <", "<")
	out = strings.ReplaceAll(out, "< ", "<")
	out = strings.ReplaceAll(out, " >", ">")
	out = strings.ReplaceAll(out, " ,", ",")
	out = strings.ReplaceAll(out, ",", ", ")
	out = strings.ReplaceAll(out, ",  ", ", ")
	out = strings.ReplaceAll(out, " ::", "::")
	out = strings.ReplaceAll(out, ":: ", "::")
	return out
}

// AngleDepth measures the deepest template-id nesting in written type
// text. Members past depth two are the shapes the original front-end
// could not see; they are skipped rather than guessed at.
func AngleDepth(text string) int {
	depth, max := 0, 0
	for _, r := range text {
		switch r {
		case '<':
			depth++
			if depth > max {
				max = depth
			}
		case '>':
			if depth > 0 {
				depth--
			}
		}
	}
	return max
}

// MemberTypeText renders the type of a data member for the format
// literal. Written text is the normalised source spelling of the type
// specifier; arraySuffix carries declarator dimensions ("[50]").
//
// Anything spelled through a scope qualifier degrades to "int": library
// types are opaque to the front-end, so their rendering stays fixed.
func MemberTypeText(written, arraySuffix string, params []core.TemplateParam) (text string, isParam bool) {
	if TypeParamNamed(params, written) {
		return "<{}>" + arraySuffix, true
	}
	if strings.Contains(written, "::") {
		return "int" + arraySuffix, false
	}
	return written + arraySuffix, false
}

// Declarator digs through a declarator node to the declared name,
// collecting array dimensions and pointer/reference marks on the way.
// A function declarator yields an empty name: not a data member.
func Declarator(node *sitter.Node, src []byte) (name, arraySuffix, ptrSuffix string) {
	for node != nil {
		switch node.Type() {
		case "field_identifier", "identifier":
			return node.Content(src), arraySuffix, ptrSuffix
		case "array_declarator":
			size := ""
			if s := node.ChildByFieldName("size"); s != nil {
				size = s.Content(src)
			}
			arraySuffix = "[" + size + "]" + arraySuffix
			node = node.ChildByFieldName("declarator")
		case "pointer_declarator":
			ptrSuffix += "*"
			node = node.ChildByFieldName("declarator")
		case "reference_declarator":
			ptrSuffix += "&"
			node = firstNamedChild(node)
		case "init_declarator":
			node = node.ChildByFieldName("declarator")
		case "function_declarator", "bitfield_clause":
			return "", "", ""
		default:
			next := node.ChildByFieldName("declarator")
			if next == nil {
				next = firstNamedChild(node)
			}
			if next == nil {
				return "", "", ""
			}
			node = next
		}
	}
	return "", "", ""
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

// BaseClassNames extracts base class spellings from a base_class_clause
// in left-to-right order. Access and virtual keywords are unnamed
// tokens and fall away naturally.
func BaseClassNames(clause *sitter.Node, src []byte) []string {
	if clause == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "type_identifier", "template_type", "qualified_identifier":
			bases = append(bases, NormalizeType(child.Content(src)))
		}
	}
	return bases
}

// SplitTemplateID splits "TBase<X1>" into ("TBase", "X1"). Names
// without arguments come back unchanged with ok=false.
func SplitTemplateID(name string) (primary, args string, ok bool) {
	i := strings.IndexByte(name, '<')
	if i < 0 || !strings.HasSuffix(name, ">") {
		return name, "", false
	}
	return name[:i], name[i+1 : len(name)-1], true
}

// SimpleName strips scope qualifiers: "A::TBase" -> "TBase".
func SimpleName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}
