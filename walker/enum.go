package walker

import (
	"bytes"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/cppfstr/core"
	"github.com/termfx/cppfstr/resolve"
)

// handleEnum collects one enum definition. insertAt is past the
// terminating semicolon of the enum itself at namespace scope, or of
// the outermost enclosing record for nested enums, so the fragment
// always lands at namespace scope.
func (c *collector) handleEnum(spec *sitter.Node, access core.Access, scopes []string, insertAt int) {
	name := spec.ChildByFieldName("name")
	if name == nil {
		c.warn(spec, "anonymous enum skipped")
		return
	}
	body := spec.ChildByFieldName("body")
	if body == nil {
		return
	}

	qual := resolve.QualName(scopes, resolve.NormalizeType(name.Content(c.src)))
	if bytes.Contains(c.src, []byte(" enum "+qual+" of type")) {
		return
	}

	scoped := isScopedEnum(spec)
	tag, hasBase := c.underlyingTag(spec)

	enums := c.enumeratorValues(body, tag)
	if len(enums) == 0 {
		c.warn(spec, "enum without enumerators skipped")
		return
	}
	if !hasBase && !scoped {
		values := make([]int64, len(enums))
		for i, e := range enums {
			values[i] = e.Value
		}
		if inferred := resolve.InferUnscopedTag(values); inferred != tag {
			tag = inferred
			for i := range enums {
				enums[i].Value = resolve.Truncate(enums[i].Value, tag)
			}
		}
	}

	prefix := ""
	if scoped {
		prefix = qual + "::"
	} else if len(scopes) > 0 {
		prefix = resolve.QualName(scopes[:len(scopes)-1], scopes[len(scopes)-1]) + "::"
	}

	decl := &core.EnumDecl{
		QualName:    qual,
		Scoped:      scoped,
		Tag:         tag,
		Access:      access,
		CasePrefix:  prefix,
		Enumerators: enums,
		InsertAt:    insertAt,
		Nested:      len(scopes) > 0,
	}
	c.decls = append(c.decls, core.DeclRecord{Enum: decl, Seq: c.nextSeq()})
}

// underlyingTag reads the explicit underlying type, defaulting to INT.
// hasBase distinguishes "explicit but unresolvable" (stays INT) from
// "absent" (open to unsigned inference for unscoped enums).
func (c *collector) underlyingTag(spec *sitter.Node) (core.UnderlyingTag, bool) {
	if base := spec.ChildByFieldName("base"); base != nil {
		tag, _ := resolve.UnderlyingTagFor(base.Content(c.src))
		return tag, true
	}
	return core.TagInt, false
}

// enumeratorValues expands enumerators to concrete indices: declared
// initialisers where the evaluator can follow them, the
// implicit-increment rule everywhere else, with truncation to the
// underlying type after every step.
func (c *collector) enumeratorValues(body *sitter.Node, tag core.UnderlyingTag) []core.Enumerator {
	var out []core.Enumerator
	prev := int64(-1)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		if ch.Type() != "enumerator" {
			continue
		}
		name := ch.ChildByFieldName("name")
		if name == nil {
			continue
		}
		raw, ok := resolve.EvalEnumerator(ch.ChildByFieldName("value"), c.src)
		if !ok {
			raw = prev + 1
		}
		val := resolve.Truncate(raw, tag)
		out = append(out, core.Enumerator{Name: name.Content(c.src), Value: val})
		prev = val
	}
	return out
}

func isScopedEnum(spec *sitter.Node) bool {
	for i := 0; i < int(spec.ChildCount()); i++ {
		switch spec.Child(i).Type() {
		case "class", "struct":
			return true
		case "enumerator_list":
			return false
		}
	}
	return false
}
