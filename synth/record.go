// Package synth turns declaration records into the C++ text fragments
// spliced back into the source. The fragment grammar is fixed: byte
// layout matters, generated files must survive re-runs unchanged.
package synth

import (
	"strings"

	"github.com/termfx/cppfstr/core"
)

// Record renders the to_string member fragment for one record. The
// fragment is spliced immediately before the record's closing brace and
// always re-opens public access, so a redundant label at an already
// public insertion point is accepted for simplicity.
func Record(r *core.RecordDecl) string {
	var fields []string
	var args []string

	prevType := "\x00"
	for _, m := range r.Members {
		if m.TypeText != prevType {
			fields = append(fields, m.TypeText+" "+m.Name+"={}")
			if m.IsParam {
				args = append(args, "typeid("+m.Param+").name()")
			}
		} else {
			fields = append(fields, m.Name+"={}")
		}
		prevType = m.TypeText
		args = append(args, m.Ref())
	}

	var b strings.Builder
	b.WriteString(core.MarkerRecord)
	b.WriteString(r.Access.RecordLabel())
	b.WriteString(" ")
	b.WriteString(r.Kind.String())
	b.WriteString(" ")
	b.WriteString(r.QualName)
	b.WriteString("\n  public:\n  auto to_string() const {\n    return fstr::format(R\"( ")
	b.WriteString(r.QualName)
	b.WriteString(": ")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString("\n)\"")
	if len(args) > 0 {
		b.WriteString(", ")
		b.WriteString(strings.Join(args, ", "))
	}
	b.WriteString(");\n  }\n")
	return b.String()
}
