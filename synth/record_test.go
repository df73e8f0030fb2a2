package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termfx/cppfstr/core"
)

func own(typeText, name string) core.MemberSpec {
	return core.MemberSpec{TypeText: typeText, Name: name, Origin: core.OriginOwn}
}

func inherited(typeText, name string) core.MemberSpec {
	return core.MemberSpec{TypeText: typeText, Name: name, Origin: core.OriginInherited}
}

func TestRecordBasicStruct(t *testing.T) {
	r := &core.RecordDecl{
		QualName: "Foo",
		Kind:     core.KindStruct,
		Access:   core.AccessInvalid,
		Members: []core.MemberSpec{
			own("int", "a"),
			own("int[10]", "b"),
		},
	}

	expected := `// Generated to_string for PUBLIC STRUCT_DECL Foo
  public:
  auto to_string() const {
    return fstr::format(R"( Foo: int a={}, int[10] b={}
)", a, b);
  }
`
	assert.Equal(t, expected, Record(r))
}

func TestRecordTypeElision(t *testing.T) {
	// Consecutive members sharing a rendered type print it once.
	r := &core.RecordDecl{
		QualName: "Rectangle",
		Kind:     core.KindClass,
		Access:   core.AccessInvalid,
		Members: []core.MemberSpec{
			own("int", "width"),
			own("int", "height"),
			own("Bar", "bar"),
		},
	}

	expected := `// Generated to_string for PUBLIC CLASS_DECL Rectangle
  public:
  auto to_string() const {
    return fstr::format(R"( Rectangle: int width={}, height={}, Bar bar={}
)", width, height, bar);
  }
`
	assert.Equal(t, expected, Record(r))
}

func TestRecordInheritedMembers(t *testing.T) {
	// Inherited members go through this-> and still participate in
	// type elision.
	r := &core.RecordDecl{
		QualName: "Bar",
		Kind:     core.KindStruct,
		Access:   core.AccessInvalid,
		Members: []core.MemberSpec{
			own("char[50]", "name"),
			inherited("int", "bname"),
			inherited("int", "a"),
		},
	}

	expected := `// Generated to_string for PUBLIC STRUCT_DECL Bar
  public:
  auto to_string() const {
    return fstr::format(R"( Bar: char[50] name={}, int bname={}, a={}
)", name, this->bname, this->a);
  }
`
	assert.Equal(t, expected, Record(r))
}

func TestRecordTemplateParamSlots(t *testing.T) {
	// A parameter-typed member contributes a typeid slot; an inherited
	// duplicate of the same shape is elided together with its slot.
	r := &core.RecordDecl{
		QualName: "A::Derived<T>",
		Kind:     core.KindClassTemplate,
		Access:   core.AccessInvalid,
		Params:   []core.TemplateParam{{Kind: core.ParamType, Name: "T"}},
		Members: []core.MemberSpec{
			{TypeText: "<{}>", Name: "y", Origin: core.OriginOwn, IsParam: true, Param: "T"},
			{TypeText: "<{}>", Name: "x", Origin: core.OriginInherited, IsParam: true, Param: "T"},
		},
	}

	expected := `// Generated to_string for PUBLIC CLASS_TEMPLATE A::Derived<T>
  public:
  auto to_string() const {
    return fstr::format(R"( A::Derived<T>: <{}> y={}, x={}
)", typeid(T).name(), y, this->x);
  }
`
	assert.Equal(t, expected, Record(r))
}

func TestRecordPromotedAnonymousFields(t *testing.T) {
	r := &core.RecordDecl{
		QualName: "Outer",
		Kind:     core.KindClass,
		Access:   core.AccessInvalid,
		Members: []core.MemberSpec{
			{TypeText: "int", Name: "anon.a", Origin: core.OriginPromoted},
			{TypeText: "int", Name: "anon.b", Origin: core.OriginPromoted},
			{TypeText: "Rectangle", Name: "anon.r", Origin: core.OriginPromoted},
		},
	}

	expected := `// Generated to_string for PUBLIC CLASS_DECL Outer
  public:
  auto to_string() const {
    return fstr::format(R"( Outer: int anon.a={}, anon.b={}, Rectangle anon.r={}
)", this->anon.a, this->anon.b, this->anon.r);
  }
`
	assert.Equal(t, expected, Record(r))
}

func TestRecordNestedPrivateAccessLabel(t *testing.T) {
	r := &core.RecordDecl{
		QualName: "Outer::Inner",
		Kind:     core.KindStruct,
		Access:   core.AccessPrivate,
		Members:  []core.MemberSpec{own("int", "a")},
	}
	out := Record(r)
	assert.Contains(t, out, "// Generated to_string for PRIVATE STRUCT_DECL Outer::Inner\n")
	// The fragment re-opens public access regardless.
	assert.Contains(t, out, "\n  public:\n")
}

func TestRecordEmptyMemberList(t *testing.T) {
	r := &core.RecordDecl{
		QualName: "Empty",
		Kind:     core.KindStruct,
		Access:   core.AccessInvalid,
	}
	expected := "// Generated to_string for PUBLIC STRUCT_DECL Empty\n" +
		"  public:\n" +
		"  auto to_string() const {\n" +
		"    return fstr::format(R\"( Empty: \n" +
		")\");\n" +
		"  }\n"
	assert.Equal(t, expected, Record(r))
}
