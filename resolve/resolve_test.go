package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termfx/cppfstr/core"
)

func TestQualName(t *testing.T) {
	assert.Equal(t, "Foo", QualName(nil, "Foo"))
	assert.Equal(t, "a::b::c::Foo", QualName([]string{"a", "b", "c"}, "Foo"))
}

func TestAnonName(t *testing.T) {
	assert.Equal(t,
		"(unnamed struct at input/class_basic.cpp:40:3)",
		AnonName("struct", "input/class_basic.cpp", 40, 3))
	assert.Equal(t,
		"(unnamed union at x.cpp:1:1)",
		AnonName("union", "x.cpp", 1, 1))
}

func TestNormalizeType(t *testing.T) {
	cases := map[string]string{
		"Helper <int>":            "Helper<int>",
		"std::map<K,  T>":         "std::map<K, T>",
		"std::map<K,T>":           "std::map<K, T>",
		"unsigned   long":         "unsigned long",
		"Map < K , V >":           "Map<K, V>",
		"std :: uint8_t":          "std::uint8_t",
		"C<V>":                    "C<V>",
		"struct\n    inner":       "struct inner",
		"std::vector< Obj<T> >":   "std::vector<Obj<T>>",
		"my_array":                "my_array",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeType(in), "input %q", in)
	}
}

func TestAngleDepth(t *testing.T) {
	assert.Equal(t, 0, AngleDepth("int"))
	assert.Equal(t, 1, AngleDepth("C<K>"))
	assert.Equal(t, 2, AngleDepth("std::map<K, Obj<T>>"))
	assert.Equal(t, 3, AngleDepth("std::map<K, std::vector<Obj<T>>>"))
}

func TestMemberTypeText(t *testing.T) {
	params := []core.TemplateParam{
		{Kind: core.ParamType, Name: "T"},
		{Kind: core.ParamNonType, Name: "N"},
		{Kind: core.ParamTemplate, Name: "C"},
	}

	text, isParam := MemberTypeText("T", "", params)
	assert.True(t, isParam)
	assert.Equal(t, "<{}>", text)

	// Only type parameters get a typeid slot.
	text, isParam = MemberTypeText("N", "", params)
	assert.False(t, isParam)
	assert.Equal(t, "N", text)

	// Library spellings degrade to int.
	text, isParam = MemberTypeText("std::string", "", nil)
	assert.False(t, isParam)
	assert.Equal(t, "int", text)

	text, _ = MemberTypeText("std::map<K, T>", "", params)
	assert.Equal(t, "int", text)

	// Arrays keep their suffix on the rendered type.
	text, _ = MemberTypeText("char", "[50]", nil)
	assert.Equal(t, "char[50]", text)

	text, _ = MemberTypeText("C<K>", "", params)
	assert.Equal(t, "C<K>", text)
}

func TestSplitTemplateID(t *testing.T) {
	primary, args, ok := SplitTemplateID("TBase<X1>")
	assert.True(t, ok)
	assert.Equal(t, "TBase", primary)
	assert.Equal(t, "X1", args)

	primary, _, ok = SplitTemplateID("CBase")
	assert.False(t, ok)
	assert.Equal(t, "CBase", primary)
}

func TestSimpleName(t *testing.T) {
	assert.Equal(t, "TBase", SimpleName("A::TBase"))
	assert.Equal(t, "Foo", SimpleName("Foo"))
}

func TestParseAccessLabel(t *testing.T) {
	a, ok := ParseAccessLabel("public:")
	assert.True(t, ok)
	assert.Equal(t, core.AccessPublic, a)

	a, ok = ParseAccessLabel("private")
	assert.True(t, ok)
	assert.Equal(t, core.AccessPrivate, a)

	_, ok = ParseAccessLabel("virtual")
	assert.False(t, ok)
}

func TestUnderlyingTagFor(t *testing.T) {
	tag, ok := UnderlyingTagFor("unsigned long")
	assert.True(t, ok)
	assert.Equal(t, core.TagULong, tag)

	tag, ok = UnderlyingTagFor("bool")
	assert.True(t, ok)
	assert.Equal(t, core.TagBool, tag)

	// Qualified spellings are unresolvable and fall back to INT.
	tag, ok = UnderlyingTagFor("std::uint64_t")
	assert.False(t, ok)
	assert.Equal(t, core.TagInt, tag)
}

func TestInferUnscopedTag(t *testing.T) {
	assert.Equal(t, core.TagUInt, InferUnscopedTag([]int64{108, 114}))
	assert.Equal(t, core.TagInt, InferUnscopedTag([]int64{-12, 7, 15}))
	assert.Equal(t, core.TagUInt, InferUnscopedTag(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, int64(-1), Truncate(1, core.TagBool))
	assert.Equal(t, int64(0), Truncate(0, core.TagBool))
	assert.Equal(t, int64(-128), Truncate(128, core.TagChar))
	assert.Equal(t, int64(255), Truncate(-1, core.TagUChar))
	assert.Equal(t, int64(1073741824), Truncate(1<<30, core.TagInt))
	assert.Equal(t, int64(400), Truncate(400, core.TagULong))
}
