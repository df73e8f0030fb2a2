package synth

import (
	"fmt"
	"strings"

	"github.com/termfx/cppfstr/core"
)

// Enum renders the formatter fragment for one enum. Unique file-scope
// enums get a free format_as overload; everything else (nested enums,
// colliding simple names, private/protected members a free function
// could not name) gets a formatter template specialisation. The
// fragment starts with a newline and carries no trailing one: it is
// spliced directly after a semicolon.
func Enum(e *core.EnumDecl) string {
	if e.Specialized() {
		return enumSpecialization(e)
	}
	return enumFormatAs(e)
}

func enumFormatAs(e *core.EnumDecl) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(core.MarkerEnum)
	// The free-function form labels namespace scope PUBLIC; the
	// specialisation form below reports the real nested access.
	b.WriteString(e.Access.RecordLabel())
	b.WriteString(" enum ")
	b.WriteString(e.QualName)
	b.WriteString(" of type ")
	b.WriteString(string(e.Tag))
	if e.Scoped {
		b.WriteString(" scoped")
	}
	b.WriteString("\nconstexpr auto format_as(const ")
	b.WriteString(e.QualName)
	b.WriteString(" obj) {\n  fmt::string_view name = \"<missing>\";\n  switch (obj) {\n")
	writeCases(&b, e, "    ")
	b.WriteString("  }\n  return name;\n}")
	return b.String()
}

func enumSpecialization(e *core.EnumDecl) string {
	scoped := "False"
	if e.Scoped {
		scoped = "True"
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(core.MarkerEnum)
	b.WriteString(e.Access.EnumLabel())
	b.WriteString(" enum ")
	b.WriteString(e.QualName)
	b.WriteString(" of type ")
	b.WriteString(string(e.Tag))
	b.WriteString(" scoped ")
	b.WriteString(scoped)
	b.WriteString("\ntemplate <>\nstruct fmt::formatter<")
	b.WriteString(e.QualName)
	b.WriteString(">: formatter<string_view> {\n  template <typename FormatContext>\n  auto format(")
	b.WriteString(e.QualName)
	b.WriteString(" val, FormatContext& ctx) const {\n    string_view name = \"<unknown>\";\n    switch (val) {\n")
	writeCases(&b, e, "        ")
	b.WriteString("    }\n    return formatter<string_view>::format(name, ctx);\n  }\n};")
	return b.String()
}

// writeCases emits one case per enumerator, columns padded so the
// switch lines up vertically.
func writeCases(b *strings.Builder, e *core.EnumDecl, indent string) {
	caseWidth, nameWidth := 0, 0
	for _, en := range e.Enumerators {
		if w := len(e.CasePrefix) + len(en.Name); w > caseWidth {
			caseWidth = w
		}
		if w := len(en.Name) + 2; w > nameWidth {
			nameWidth = w
		}
	}
	for _, en := range e.Enumerators {
		fmt.Fprintf(b, "%s%-*s: name = %-*s; break;  // index=%d\n",
			indent,
			caseWidth+len("case "), "case "+e.CasePrefix+en.Name,
			nameWidth, "\""+en.Name+"\"",
			en.Value)
	}
}
