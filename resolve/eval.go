package resolve

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/cppfstr/core"
)

// UnderlyingTagFor maps the written underlying type of an enum to its
// tag. Spellings the front-end cannot resolve (anything qualified, like
// std::uint8_t) fall back to INT.
func UnderlyingTagFor(written string) (core.UnderlyingTag, bool) {
	switch NormalizeType(written) {
	case "int", "signed int", "signed":
		return core.TagInt, true
	case "unsigned", "unsigned int":
		return core.TagUInt, true
	case "long", "long int", "signed long":
		return core.TagLong, true
	case "unsigned long", "unsigned long int":
		return core.TagULong, true
	case "long long", "long long int":
		return core.TagLongLong, true
	case "unsigned long long", "unsigned long long int":
		return core.TagULongLong, true
	case "bool":
		return core.TagBool, true
	case "char", "signed char":
		return core.TagChar, true
	case "unsigned char":
		return core.TagUChar, true
	case "short", "short int", "signed short":
		return core.TagShort, true
	case "unsigned short", "unsigned short int":
		return core.TagUShort, true
	}
	return core.TagInt, false
}

// InferUnscopedTag picks the tag for an unscoped enum without an
// explicit underlying type: unsigned when every value is non-negative.
func InferUnscopedTag(values []int64) core.UnderlyingTag {
	for _, v := range values {
		if v < 0 {
			return core.TagInt
		}
	}
	return core.TagUInt
}

// Truncate narrows v to the width and signedness of the tag. The BOOL
// wrap makes the second enumerator of a bool-backed enum print as -1.
func Truncate(v int64, tag core.UnderlyingTag) int64 {
	switch tag {
	case core.TagBool:
		if v&1 != 0 {
			return -1
		}
		return 0
	case core.TagChar:
		return int64(int8(v))
	case core.TagUChar:
		return int64(uint8(v))
	case core.TagShort:
		return int64(int16(v))
	case core.TagUShort:
		return int64(uint16(v))
	case core.TagInt:
		return int64(int32(v))
	case core.TagUInt:
		return int64(uint32(v))
	}
	return v
}

// EvalEnumerator evaluates one enumerator initialiser. ok=false means
// the expression is outside the supported subset (qualified names,
// calls, braced casts); the caller then applies the implicit-increment
// rule instead of guessing.
func EvalEnumerator(expr *sitter.Node, src []byte) (int64, bool) {
	if expr == nil {
		return 0, false
	}
	switch expr.Type() {
	case "number_literal":
		return parseIntLiteral(expr.Content(src))
	case "char_literal":
		return parseCharLiteral(expr.Content(src))
	case "parenthesized_expression":
		inner := firstNamedChild(expr)
		return EvalEnumerator(inner, src)
	case "unary_expression":
		op := expr.ChildByFieldName("operator")
		arg := expr.ChildByFieldName("argument")
		v, ok := EvalEnumerator(arg, src)
		if !ok || op == nil {
			return 0, false
		}
		switch op.Content(src) {
		case "-":
			return -v, true
		case "+":
			return v, true
		case "~":
			return ^v, true
		}
		return 0, false
	case "binary_expression":
		l, lok := EvalEnumerator(expr.ChildByFieldName("left"), src)
		r, rok := EvalEnumerator(expr.ChildByFieldName("right"), src)
		op := expr.ChildByFieldName("operator")
		if !lok || !rok || op == nil {
			return 0, false
		}
		switch op.Content(src) {
		case "<<":
			if r < 0 || r > 63 {
				return 0, false
			}
			return l << uint(r), true
		case ">>":
			if r < 0 || r > 63 {
				return 0, false
			}
			return l >> uint(r), true
		case "|":
			return l | r, true
		case "&":
			return l & r, true
		case "^":
			return l ^ r, true
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		}
		return 0, false
	}
	return 0, false
}

// parseIntLiteral handles decimal, hex, octal and binary literals with
// optional integer suffixes.
func parseIntLiteral(text string) (int64, bool) {
	t := strings.TrimRight(strings.TrimSpace(text), "uUlLzZ")
	t = strings.ReplaceAll(t, "'", "")
	if t == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(t, 0, 64)
	if err != nil {
		// Large unsigned literals still carry value bits worth keeping.
		u, uerr := strconv.ParseUint(t, 0, 64)
		if uerr != nil {
			return 0, false
		}
		return int64(u), true
	}
	return v, true
}

// parseCharLiteral handles 'l' style literals including simple escapes.
func parseCharLiteral(text string) (int64, bool) {
	t := strings.TrimSpace(text)
	if len(t) < 3 || t[0] != '\'' || t[len(t)-1] != '\'' {
		return 0, false
	}
	body := t[1 : len(t)-1]
	if len(body) == 1 {
		return int64(body[0]), true
	}
	if body[0] == '\\' {
		switch body {
		case `\n`:
			return '\n', true
		case `\t`:
			return '\t', true
		case `\r`:
			return '\r', true
		case `\0`:
			return 0, true
		case `\\`:
			return '\\', true
		case `\'`:
			return '\'', true
		}
	}
	return 0, false
}
