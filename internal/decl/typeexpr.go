package decl

import "strings"

// PrimKind enumerates the fixed-width scalar types of the schema language.
type PrimKind uint8

const (
	PrimBool PrimKind = iota
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimF32
	PrimF64
)

// primTokens — канонические токены, идут в ключи мемоизации и в суффиксы
// кортежей, поэтому менять их нельзя без смены формата сгенерированных имён.
var primTokens = [...]string{
	PrimBool: "bool",
	PrimI8:   "int8",
	PrimI16:  "int16",
	PrimI32:  "int32",
	PrimI64:  "int64",
	PrimU8:   "uint8",
	PrimU16:  "uint16",
	PrimU32:  "uint32",
	PrimU64:  "uint64",
	PrimF32:  "float32",
	PrimF64:  "float64",
}

var primSchemaNames = [...]string{
	PrimBool: "Bool",
	PrimI8:   "Int8",
	PrimI16:  "Int16",
	PrimI32:  "Int32",
	PrimI64:  "Int64",
	PrimU8:   "UInt8",
	PrimU16:  "UInt16",
	PrimU32:  "UInt32",
	PrimU64:  "UInt64",
	PrimF32:  "Float32",
	PrimF64:  "Float64",
}

// Token returns the canonical lowercase spelling of the scalar.
func (p PrimKind) Token() string {
	if int(p) < len(primTokens) {
		return primTokens[p]
	}
	return "bool"
}

// SchemaName returns the spelling used in schema files.
func (p PrimKind) SchemaName() string {
	if int(p) < len(primSchemaNames) {
		return primSchemaNames[p]
	}
	return "Bool"
}

var primByName = func() map[string]PrimKind {
	m := make(map[string]PrimKind, len(primSchemaNames))
	for k, name := range primSchemaNames {
		m[name] = PrimKind(k)
	}
	return m
}()

// PrimByName maps a schema spelling ("Int32", "Bool", ...) to its kind.
func PrimByName(name string) (PrimKind, bool) {
	p, ok := primByName[name]
	return p, ok
}

// ReservedTypeName reports whether name collides with a built-in schema
// type or its canonical key. The comparison ignores case so `struct
// int32` is rejected too; "string" is reserved because it is the
// canonical key of Text.
func ReservedTypeName(name string) bool {
	if strings.EqualFold(name, "Text") || strings.EqualFold(name, "string") {
		return true
	}
	for _, n := range primSchemaNames {
		if strings.EqualFold(name, n) {
			return true
		}
	}
	return false
}

// TypeExpr is a resolved field type. Key returns the canonical spelling
// used for classifier memoization and for tuple name mangling: two
// expressions describe the same type exactly when their keys match.
type TypeExpr interface {
	Key() string
	String() string
}

// Prim is a fixed-width scalar.
type Prim struct {
	Kind PrimKind
}

func (p Prim) Key() string    { return p.Kind.Token() }
func (p Prim) String() string { return p.Kind.SchemaName() }

// Text is the owned string type. Crossing the boundary transfers
// ownership of the backing buffer.
type Text struct{}

func (Text) Key() string    { return "string" }
func (Text) String() string { return "Text" }

// Named references a declared bridge type by its schema name.
type Named struct {
	Name string
}

func (n Named) Key() string    { return n.Name }
func (n Named) String() string { return n.Name }

// Tuple is an anonymous product of two or more element types.
type Tuple struct {
	Elems []TypeExpr
}

// Key concatenates the element keys in order, so distinct element
// sequences keep distinct keys and equal sequences collapse to one.
func (t Tuple) Key() string {
	var sb strings.Builder
	sb.WriteString("tuple_")
	for _, e := range t.Elems {
		sb.WriteString(e.Key())
	}
	return sb.String()
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Slice is a growable sequence of one element type.
type Slice struct {
	Elem TypeExpr
}

func (s Slice) Key() string    { return "vec_" + s.Elem.Key() }
func (s Slice) String() string { return "[" + s.Elem.String() + "]" }
