package decl

import "ferry/internal/source"

// Repr selects the client-side rendering of a bridged type.
type Repr uint8

const (
	// ReprStructure renders as a value type on the client side.
	ReprStructure Repr = iota
	// ReprClass renders as a reference type on the client side.
	ReprClass
)

func (r Repr) String() string {
	if r == ReprClass {
		return "class"
	}
	return "structure"
}

// RefKind tells whether a declaration carries its own definition or
// points at one owned by another bridge module.
type RefKind uint8

const (
	// RefLocal means the full definition lives in this registry.
	RefLocal RefKind = iota
	// RefExternal means only a qualified reference is held; the defining
	// module was named with @declared_in.
	RefExternal
)

// Ref locates the defining module of a declaration. For RefExternal,
// Path is the import path given to @declared_in and Alias is the
// package alias that import introduced.
type Ref struct {
	Kind  RefKind
	Path  string
	Alias string
}

// IsExternal reports whether the definition lives elsewhere.
func (r Ref) IsExternal() bool { return r.Kind == RefExternal }

// ShapeKind splits declarations by how their payload fields are spelled.
type ShapeKind uint8

const (
	// ShapeUnit has no payload and no braces: `struct Marker;`.
	ShapeUnit ShapeKind = iota
	// ShapeNamed carries named fields, possibly zero: `struct P { x: Int32 }`.
	ShapeNamed
	// ShapeUnnamed carries positional fields: `struct Pair(Int32, Text)`.
	ShapeUnnamed
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeNamed:
		return "named"
	case ShapeUnnamed:
		return "unnamed"
	default:
		return "unit"
	}
}

// Field is a single payload field. Positional fields leave Name empty
// and are addressed through Index.
type Field struct {
	Name  string
	Index uint32
	Type  TypeExpr
	Span  source.Span
}

// FieldShape describes the payload of a struct or of one enum variant.
type FieldShape struct {
	Kind   ShapeKind
	Fields []Field
}

// IsEmpty reports whether the shape carries no data. Both the unit form
// and an empty braced body qualify.
func (s FieldShape) IsEmpty() bool { return len(s.Fields) == 0 }
