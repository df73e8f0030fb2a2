// Package walker performs the depth-first descent over a parsed
// translation unit, producing the stream of declaration records the
// synthesiser consumes. Only definitions in the primary file are seen:
// the front-end never expands includes.
package walker

import (
	"bytes"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/cppfstr/core"
	"github.com/termfx/cppfstr/resolve"
)

// Collect walks the tree and returns declaration records in source
// order (nested declarations before their enclosing record) plus
// per-declaration diagnostics for skipped shapes.
func Collect(root *sitter.Node, src []byte, file string) ([]core.DeclRecord, []core.Diagnostic) {
	c := &collector{
		src:      src,
		file:     file,
		byQual:   make(map[string]*recordEntry),
		bySimple: make(map[string]*recordEntry),
	}
	c.walkScope(root, nil)
	c.markSpecializedEnums()
	return c.decls, c.diags
}

// markSpecializedEnums picks the fragment form for every collected
// enum: nested enums and enums whose simple name is declared more than
// once in the file get the formatter specialisation, unique file-scope
// enums keep the free format_as overload.
func (c *collector) markSpecializedEnums() {
	counts := make(map[string]int)
	for _, d := range c.decls {
		if d.Enum != nil {
			counts[resolve.SimpleName(d.Enum.QualName)]++
		}
	}
	for _, d := range c.decls {
		if e := d.Enum; e != nil {
			if e.Nested || counts[resolve.SimpleName(e.QualName)] > 1 {
				e.Specialize = true
			}
		}
	}
}

type recordEntry struct {
	decl   *core.RecordDecl
	simple string
}

type collector struct {
	src      []byte
	file     string
	decls    []core.DeclRecord
	diags    []core.Diagnostic
	byQual   map[string]*recordEntry
	bySimple map[string]*recordEntry
	seq      int
}

// walkScope iterates the declarations of a translation unit or
// namespace body.
func (c *collector) walkScope(body *sitter.Node, scopes []string) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c.dispatch(body.NamedChild(i), scopes)
	}
}

// dispatch routes one namespace-scope declaration.
func (c *collector) dispatch(n *sitter.Node, scopes []string) {
	switch n.Type() {
	case "namespace_definition":
		inner := append([]string{}, scopes...)
		if name := n.ChildByFieldName("name"); name != nil {
			for _, seg := range strings.Split(name.Content(c.src), "::") {
				if seg = strings.TrimSpace(seg); seg != "" {
					inner = append(inner, seg)
				}
			}
		}
		if b := n.ChildByFieldName("body"); b != nil {
			c.walkScope(b, inner)
		}
	case "linkage_specification":
		if b := n.ChildByFieldName("body"); b != nil && b.Type() == "declaration_list" {
			c.walkScope(b, scopes)
		}
	case "template_declaration":
		params := resolve.TemplateParams(n.ChildByFieldName("parameters"), c.src)
		if spec := templatedRecord(n); spec != nil {
			c.handleRecord(spec, params, scopes, core.AccessInvalid, declEnd(spec))
		}
	case "struct_specifier", "class_specifier", "union_specifier":
		if n.ChildByFieldName("body") != nil {
			c.handleRecord(n, nil, scopes, core.AccessInvalid, declEnd(n))
		}
	case "enum_specifier":
		if n.ChildByFieldName("body") != nil {
			c.handleEnum(n, core.AccessInvalid, scopes, declEnd(n))
		}
	case "declaration":
		typ := n.ChildByFieldName("type")
		if typ == nil {
			return
		}
		switch typ.Type() {
		case "struct_specifier", "class_specifier", "union_specifier":
			if typ.ChildByFieldName("body") != nil {
				c.handleRecord(typ, nil, scopes, core.AccessInvalid, int(n.EndByte()))
			}
		case "enum_specifier":
			if typ.ChildByFieldName("body") != nil {
				c.handleEnum(typ, core.AccessInvalid, scopes, int(n.EndByte()))
			}
		}
	}
}

// templatedRecord finds the record specifier declared by a template
// declaration, if any (the declaration may as well be a function or an
// alias).
func templatedRecord(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "struct_specifier", "class_specifier", "union_specifier":
			if ch.ChildByFieldName("body") != nil {
				return ch
			}
		case "declaration":
			if typ := ch.ChildByFieldName("type"); typ != nil && typ.ChildByFieldName("body") != nil {
				switch typ.Type() {
				case "struct_specifier", "class_specifier", "union_specifier":
					return typ
				}
			}
		}
	}
	return nil
}

// declEnd locates the end of the full declaration statement a specifier
// belongs to, semicolon included. Enum fragments splice there.
func declEnd(spec *sitter.Node) int {
	if p := spec.Parent(); p != nil {
		switch p.Type() {
		case "declaration", "field_declaration", "template_declaration", "type_definition":
			return int(p.EndByte())
		}
	}
	for sib := spec.NextSibling(); sib != nil; sib = sib.NextSibling() {
		if sib.Type() == ";" {
			return int(sib.EndByte())
		}
		if sib.IsNamed() && sib.Type() != "comment" {
			break
		}
	}
	return int(spec.EndByte())
}

// handleRecord collects one record definition: members, bases, nested
// declarations, insertion point. hostEnd is where enum fragments of
// this subtree land (the terminating semicolon of the outermost
// enclosing declaration at namespace scope).
func (c *collector) handleRecord(spec *sitter.Node, params []core.TemplateParam, scopes []string, access core.Access, hostEnd int) *recordEntry {
	body := spec.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	keyword := resolve.RecordKeyword(spec.Type())
	nameNode := spec.ChildByFieldName("name")
	simple := ""
	display := ""
	if nameNode != nil {
		display = resolve.NormalizeType(nameNode.Content(c.src))
		simple, _, _ = resolve.SplitTemplateID(display)
		simple = resolve.SimpleName(simple)
		if len(params) > 0 {
			display = simple + "<" + resolve.ParamListText(params) + ">"
		}
	} else {
		display = resolve.AnonName(keyword, c.file,
			int(spec.StartPoint().Row)+1, int(spec.StartPoint().Column)+1)
	}

	qual := resolve.QualName(scopes, display)
	kind := resolve.RecordKind(spec.Type())
	if len(params) > 0 {
		kind = core.KindClassTemplate
	}

	decl := &core.RecordDecl{
		QualName: qual,
		Kind:     kind,
		Access:   access,
		Params:   params,
		InsertAt: int(body.EndByte()) - 1,
		Line:     int(spec.StartPoint().Row) + 1,
		Col:      int(spec.StartPoint().Column) + 1,
	}

	inner := append(append([]string{}, scopes...), display)
	decl.Members = c.collectMembers(body, spec.Type(), params, inner, hostEnd)
	decl.Members = c.flattenBases(spec, simple, len(params) > 0, scopes, decl.Members)

	entry := &recordEntry{decl: decl, simple: simple}
	c.byQual[qual] = entry
	if simple != "" {
		if _, taken := c.bySimple[simple]; !taken {
			c.bySimple[simple] = entry
		}
	}

	// Idempotence: match this record's own marker line only, so a
	// generated nested record does not suppress an enclosing one that
	// was never instrumented. Anonymous records match up to the
	// location, which shifts between runs as fragments accumulate.
	marker := core.MarkerRecord + decl.Access.RecordLabel() + " " + kind.String() + " "
	if nameNode != nil {
		marker += qual + "\n"
	} else {
		marker += resolve.QualName(scopes, "(unnamed "+keyword+" at ")
	}
	if !bytes.Contains(c.bodyText(body), []byte(marker)) {
		c.decls = append(c.decls, core.DeclRecord{Record: decl, Seq: c.nextSeq()})
	}
	return entry
}

func (c *collector) bodyText(body *sitter.Node) []byte {
	return c.src[body.StartByte():body.EndByte()]
}

func (c *collector) nextSeq() int {
	c.seq++
	return c.seq
}

// collectMembers walks a field_declaration_list, tracking access labels
// and recursing into nested declarations. Returned members are the
// record's own fields, anonymous aggregates already promoted.
func (c *collector) collectMembers(body *sitter.Node, specType string, params []core.TemplateParam, scopes []string, hostEnd int) []core.MemberSpec {
	var members []core.MemberSpec
	access := resolve.DefaultAccess(specType)

	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		switch ch.Type() {
		case "access_specifier":
			if a, ok := resolve.ParseAccessLabel(ch.Content(c.src)); ok {
				access = a
			}
		case "field_declaration":
			members = append(members, c.handleField(ch, params, scopes, access, hostEnd)...)
		case "template_declaration":
			nestedParams := resolve.TemplateParams(ch.ChildByFieldName("parameters"), c.src)
			if spec := templatedRecord(ch); spec != nil {
				c.handleRecord(spec, nestedParams, scopes, access, hostEnd)
			} else {
				c.warn(ch, "member template skipped")
			}
		case "struct_specifier", "class_specifier", "union_specifier":
			if ch.ChildByFieldName("body") != nil {
				c.handleRecord(ch, nil, scopes, access, hostEnd)
			}
		case "enum_specifier":
			if ch.ChildByFieldName("body") != nil {
				c.handleEnum(ch, access, scopes, hostEnd)
			}
		}
	}
	return members
}

// handleField turns one field_declaration into zero or more member
// specs, recursing into nested record and enum definitions used as the
// field's type.
func (c *collector) handleField(fd *sitter.Node, params []core.TemplateParam, scopes []string, access core.Access, hostEnd int) []core.MemberSpec {
	typ := fd.ChildByFieldName("type")
	if typ == nil || isStatic(fd, c.src) {
		return nil
	}
	declarators := fieldChildren(fd, "declarator")

	switch typ.Type() {
	case "struct_specifier", "class_specifier", "union_specifier":
		hasBody := typ.ChildByFieldName("body") != nil
		name := typ.ChildByFieldName("name")
		if hasBody && name == nil {
			// Anonymous aggregate field: promote its fields upward,
			// no declaration record of its own.
			return c.promoteAnonymous(typ, declarators)
		}
		if hasBody {
			c.handleRecord(typ, nil, scopes, access, hostEnd)
			text := resolve.RecordKeyword(typ.Type()) + " " + resolve.NormalizeType(name.Content(c.src))
			return c.plainMembers(fd, declarators, text, params)
		}
		return c.plainMembers(fd, declarators, resolve.NormalizeType(typ.Content(c.src)), params)

	case "enum_specifier":
		if typ.ChildByFieldName("body") != nil {
			c.handleEnum(typ, access, scopes, hostEnd)
		}
		written := "int"
		if name := typ.ChildByFieldName("name"); name != nil {
			written = resolve.NormalizeType(name.Content(c.src))
		}
		return c.plainMembers(fd, declarators, written, params)
	}

	return c.plainMembers(fd, declarators, resolve.NormalizeType(typ.Content(c.src)), params)
}

// plainMembers builds the member specs for the declarators of one
// field, applying the unsupported-shape filter and the template
// parameter rendering.
func (c *collector) plainMembers(fd *sitter.Node, declarators []*sitter.Node, written string, params []core.TemplateParam) []core.MemberSpec {
	if resolve.AngleDepth(written) >= 3 {
		c.warn(fd, fmt.Sprintf("member type %q is too deeply templated to print", written))
		return nil
	}
	var out []core.MemberSpec
	for _, d := range declarators {
		name, arr, ptr := resolve.Declarator(d, c.src)
		if name == "" {
			continue
		}
		text, isParam := resolve.MemberTypeText(written, ptr+arr, params)
		m := core.MemberSpec{TypeText: text, Name: name, Origin: core.OriginOwn, IsParam: isParam}
		if isParam {
			m.Param = written
		}
		out = append(out, m)
	}
	return out
}

// promoteAnonymous flattens an anonymous aggregate field into the
// enclosing record's member list, prefixing each nested field with the
// accessor path. A declarator-less anonymous union injects its fields
// bare.
func (c *collector) promoteAnonymous(spec *sitter.Node, declarators []*sitter.Node) []core.MemberSpec {
	fields := c.anonymousFields(spec)
	var out []core.MemberSpec

	appendWith := func(prefix string) {
		for _, f := range fields {
			m := f
			m.Origin = core.OriginPromoted
			if prefix != "" {
				m.Name = prefix + "." + f.Name
			}
			out = append(out, m)
		}
	}

	if len(declarators) == 0 {
		appendWith("")
		return out
	}
	for _, d := range declarators {
		name, _, _ := resolve.Declarator(d, c.src)
		if name == "" {
			continue
		}
		appendWith(name)
	}
	return out
}

// anonymousFields collects the printable fields of an anonymous
// aggregate, recursing through nested anonymous members.
func (c *collector) anonymousFields(spec *sitter.Node) []core.MemberSpec {
	body := spec.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []core.MemberSpec
	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		if ch.Type() != "field_declaration" {
			continue
		}
		typ := ch.ChildByFieldName("type")
		if typ == nil || isStatic(ch, c.src) {
			continue
		}
		declarators := fieldChildren(ch, "declarator")
		switch typ.Type() {
		case "struct_specifier", "class_specifier", "union_specifier":
			if typ.ChildByFieldName("body") != nil && typ.ChildByFieldName("name") == nil {
				out = append(out, c.promoteAnonymous(typ, declarators)...)
				continue
			}
		}
		written := resolve.NormalizeType(typ.Content(c.src))
		for _, d := range declarators {
			name, arr, ptr := resolve.Declarator(d, c.src)
			if name == "" {
				continue
			}
			text, _ := resolve.MemberTypeText(written, ptr+arr, nil)
			out = append(out, core.MemberSpec{TypeText: text, Name: name, Origin: core.OriginPromoted})
		}
	}
	return out
}

// flattenBases inlines accessible base-class fields, left to right and
// depth first, after the record's own members. Names already present
// shadow later occurrences; bases are collected by name so CRTP cycles
// terminate; a concrete template instantiation base of a non-template
// class stays opaque.
func (c *collector) flattenBases(spec *sitter.Node, derivedSimple string, isTemplate bool, scopes []string, members []core.MemberSpec) []core.MemberSpec {
	clause := baseClause(spec)
	if clause == nil {
		return members
	}

	seen := make(map[string]bool, len(members))
	for _, m := range members {
		seen[m.Name] = true
	}
	visited := make(map[string]bool)

	for _, base := range resolve.BaseClassNames(clause, c.src) {
		primary, args, hasArgs := resolve.SplitTemplateID(base)
		if hasArgs && !isTemplate && !containsWord(args, derivedSimple) {
			// Members of a concrete instantiation are not visible to
			// the front-end; emit what is reachable, never guess.
			c.warn(spec, fmt.Sprintf("base %q not flattened: concrete template instantiation", base))
			continue
		}
		entry := c.lookupRecord(primary, scopes)
		if entry == nil || visited[primary] {
			continue
		}
		visited[primary] = true
		for _, m := range entry.decl.Members {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			members = append(members, core.MemberSpec{
				TypeText: m.TypeText,
				Name:     m.Name,
				Base:     entry.decl.QualName,
				Origin:   core.OriginInherited,
				IsParam:  m.IsParam,
				Param:    m.Param,
			})
		}
	}
	return members
}

// lookupRecord resolves a base name against records collected earlier
// in the file, trying the current scope chain outward before falling
// back to the bare name.
func (c *collector) lookupRecord(name string, scopes []string) *recordEntry {
	simple := resolve.SimpleName(name)
	for i := len(scopes); i >= 0; i-- {
		if e, ok := c.byQual[resolve.QualName(scopes[:i], name)]; ok {
			return e
		}
	}
	return c.bySimple[simple]
}

func baseClause(spec *sitter.Node) *sitter.Node {
	for i := 0; i < int(spec.NamedChildCount()); i++ {
		if ch := spec.NamedChild(i); ch.Type() == "base_class_clause" {
			return ch
		}
	}
	return nil
}

// --- helpers ---

func fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == field {
			out = append(out, n.Child(i))
		}
	}
	return out
}

func isStatic(fd *sitter.Node, src []byte) bool {
	for i := 0; i < int(fd.ChildCount()); i++ {
		ch := fd.Child(i)
		if ch.Type() == "storage_class_specifier" && ch.Content(src) == "static" {
			return true
		}
	}
	return false
}

func containsWord(args, word string) bool {
	if word == "" {
		return false
	}
	for _, tok := range strings.FieldsFunc(args, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) {
		if tok == word {
			return true
		}
	}
	return false
}

func (c *collector) warn(n *sitter.Node, msg string) {
	c.diags = append(c.diags, core.Diagnostic{
		Severity: core.SevWarning,
		Message:  msg,
		Line:     int(n.StartPoint().Row) + 1,
		Col:      int(n.StartPoint().Column) + 1,
	})
}
