package core

// DeclKind classifies the declaration a fragment is generated for. The
// labels match the markers emitted into rewritten sources.
type DeclKind int

const (
	KindStruct DeclKind = iota
	KindClass
	KindUnion
	KindClassTemplate
)

func (k DeclKind) String() string {
	switch k {
	case KindStruct:
		return "STRUCT_DECL"
	case KindClass:
		return "CLASS_DECL"
	case KindUnion:
		return "UNION_DECL"
	case KindClassTemplate:
		return "CLASS_TEMPLATE"
	}
	return "UNKNOWN_DECL"
}

// Access is the access specifier active at the point of declaration.
// AccessInvalid means no class/struct scope applies (namespace or file
// scope).
type Access int

const (
	AccessInvalid Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// RecordLabel renders the access for record markers. Namespace-scope
// records are labelled PUBLIC.
func (a Access) RecordLabel() string {
	if a == AccessInvalid {
		return "PUBLIC"
	}
	return a.EnumLabel()
}

// EnumLabel renders the access for enum markers, where namespace scope
// stays INVALID.
func (a Access) EnumLabel() string {
	switch a {
	case AccessPublic:
		return "PUBLIC"
	case AccessProtected:
		return "PROTECTED"
	case AccessPrivate:
		return "PRIVATE"
	}
	return "INVALID"
}

// TemplateParamKind distinguishes the three template parameter forms.
type TemplateParamKind int

const (
	ParamType TemplateParamKind = iota
	ParamNonType
	ParamTemplate
)

// TemplateParam is one entry of a template parameter list, in
// declaration order.
type TemplateParam struct {
	Kind TemplateParamKind
	Name string
}

// MemberOrigin says how a member reached the flattened member list.
type MemberOrigin int

const (
	// OriginOwn is a data member declared directly in the record.
	OriginOwn MemberOrigin = iota
	// OriginInherited is a member flattened in from a base class.
	OriginInherited
	// OriginPromoted is a member lifted out of an anonymous aggregate
	// field, named through its accessor path (anon.a).
	OriginPromoted
)

// MemberSpec is one (type, name, origin) triple of a record's flattened
// member list.
type MemberSpec struct {
	// TypeText is the rendered type as it should appear in the format
	// literal ("int", "char[50]", "struct inner", or "<{}>" for members
	// typed by a template type parameter).
	TypeText string
	// Name is the member reference relative to the record ("a",
	// "anon.a").
	Name string
	// Base is the qualified base name for inherited members.
	Base   string
	Origin MemberOrigin
	// IsParam marks members whose type is a template type parameter;
	// they carry an extra typeid(Param).name() argument.
	IsParam bool
	Param   string
}

// Ref is the expression used in the generated argument list. Own
// members are referenced bare; inherited and promoted members go
// through this-> to bypass name hiding.
func (m MemberSpec) Ref() string {
	if m.Origin == OriginOwn {
		return m.Name
	}
	return "this->" + m.Name
}

// RecordDecl describes one record definition destined for a to_string
// fragment.
type RecordDecl struct {
	QualName string
	Kind     DeclKind
	Access   Access
	Params   []TemplateParam
	Members  []MemberSpec
	// InsertAt is the byte offset of the record's closing brace; the
	// fragment is spliced immediately before it.
	InsertAt int
	Line     int
	Col      int
}

// UnderlyingTag names the integer type backing an enum.
type UnderlyingTag string

const (
	TagInt       UnderlyingTag = "INT"
	TagUInt      UnderlyingTag = "UINT"
	TagLong      UnderlyingTag = "LONG"
	TagULong     UnderlyingTag = "ULONG"
	TagBool      UnderlyingTag = "BOOL"
	TagChar      UnderlyingTag = "CHAR"
	TagUChar     UnderlyingTag = "UCHAR"
	TagShort     UnderlyingTag = "SHORT"
	TagUShort    UnderlyingTag = "USHORT"
	TagLongLong  UnderlyingTag = "LONGLONG"
	TagULongLong UnderlyingTag = "ULONGLONG"
)

// Enumerator is one (name, index) pair with the index already expanded
// to its concrete value.
type Enumerator struct {
	Name  string
	Value int64
}

// EnumDecl describes one enum definition destined for a formatter
// fragment.
type EnumDecl struct {
	QualName string
	Scoped   bool
	Tag      UnderlyingTag
	Access   Access
	// CasePrefix qualifies enumerator references in the emitted switch:
	// "Color1::" for scoped enums, the enclosing scope for unscoped
	// nested ones, empty at file scope.
	CasePrefix  string
	Enumerators []Enumerator
	// InsertAt is the byte offset just after the terminating semicolon
	// of the enum (or of its outermost enclosing record for nested
	// enums); the fragment is spliced there, at namespace scope.
	InsertAt int
	// Nested reports a declaration inside any record or namespace
	// scope.
	Nested bool
	// Specialize forces the formatter-specialisation form even where a
	// free function could reach the enum. The walker sets it for nested
	// enums and for simple names declared more than once in the file,
	// where a format_as overload set would be ambiguous to maintain.
	Specialize bool
}

// Specialized reports whether the fragment must be a formatter template
// specialisation instead of a free format_as overload: always for
// private/protected nested enums (a free function cannot reach them),
// and whenever the walker marked the declaration via Specialize. Only
// unique enums at file scope keep the free-function form.
func (e *EnumDecl) Specialized() bool {
	return e.Specialize || e.Access == AccessPrivate || e.Access == AccessProtected
}

// DeclRecord is the unit of work flowing from the walker to the
// synthesiser: a tagged variant holding exactly one of Record or Enum.
type DeclRecord struct {
	Record *RecordDecl
	Enum   *EnumDecl
	// Seq is the walker emission order, used to keep fragments that
	// share an insertion offset in declaration order.
	Seq int
}
