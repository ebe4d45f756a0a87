package bridged

import (
	"fmt"
	"strings"

	"ferry/internal/decl"
	"ferry/internal/naming"
)

// Class splits bridged types by their crossing strategy.
type Class uint8

const (
	// ClassPrim crosses by value with no conversion.
	ClassPrim Class = iota
	// ClassText crosses as an owned text box; the boundary transfers
	// ownership of the backing buffer.
	ClassText
	// ClassStruct crosses as a C struct, field by field. Synthesized
	// tuples classify here too.
	ClassStruct
	// ClassEnum crosses as a tag plus payload bytes.
	ClassEnum
	// ClassExtern crosses as an opaque handle.
	ClassExtern
	// ClassVec crosses as an owned collection box.
	ClassVec
)

// Placeholder spellings for zero-field ABI structs. C forbids empty
// structs, so a single byte must exist; its value is fixed so both
// sides can assert on it.
const (
	PlaceholderGoField = "Private"
	PlaceholderCField  = "_private"
	PlaceholderValue   = 123
)

// Desc is the classified description of one bridged type. A single
// Desc drives every artifact for that type: the Go definitions, the C
// encodings and the client glue all read the same tokens, so the three
// outputs cannot drift apart.
type Desc struct {
	Class Class
	// Key is the canonical type key the classifier memoizes under.
	Key string

	Prim decl.PrimKind // ClassPrim only

	ID decl.TypeID
	// Name is the declared name; for synthesized tuples, the mangled
	// element suffix.
	Name       string
	ClientName string
	Ref        decl.Ref

	Tuple bool
	Elems []*Desc // tuple elements, in order
	Elem  *Desc   // vec element

	// OwnsText is true when the type transitively contains owned text.
	OwnsText bool
	// OnlyEncoding marks locally declared zero-field structs: values
	// carry no information, so conversions evaluate and discard.
	OnlyEncoding bool
	// EnumHasData is true when any variant carries a payload.
	EnumHasData bool

	scheme naming.Scheme
}

var cPrimNames = [...]string{
	decl.PrimBool: "bool",
	decl.PrimI8:   "int8_t",
	decl.PrimI16:  "int16_t",
	decl.PrimI32:  "int32_t",
	decl.PrimI64:  "int64_t",
	decl.PrimU8:   "uint8_t",
	decl.PrimU16:  "uint16_t",
	decl.PrimU32:  "uint32_t",
	decl.PrimU64:  "uint64_t",
	decl.PrimF32:  "float",
	decl.PrimF64:  "double",
}

var swiftPrimNames = [...]string{
	decl.PrimBool: "Bool",
	decl.PrimI8:   "Int8",
	decl.PrimI16:  "Int16",
	decl.PrimI32:  "Int32",
	decl.PrimI64:  "Int64",
	decl.PrimU8:   "UInt8",
	decl.PrimU16:  "UInt16",
	decl.PrimU32:  "UInt32",
	decl.PrimU64:  "UInt64",
	decl.PrimF32:  "Float",
	decl.PrimF64:  "Double",
}

// GoNative returns the Go spelling of the native representation.
// Canonical prim keys are chosen to be the Go spellings, so prims
// render as their key. Externally declared types render qualified by
// their import alias.
func (d *Desc) GoNative() string {
	switch d.Class {
	case ClassPrim:
		return d.Prim.Token()
	case ClassText:
		return "string"
	case ClassStruct:
		if d.Tuple {
			return "Tuple_" + d.Name
		}
		return d.qualify(d.Name)
	case ClassEnum:
		return d.qualify(d.Name)
	case ClassExtern:
		return "*" + d.qualify(d.Name)
	case ClassVec:
		return "[]" + d.Elem.GoNative()
	default:
		return ""
	}
}

// GoAbi returns the Go spelling of the ABI representation.
func (d *Desc) GoAbi() string {
	switch d.Class {
	case ClassPrim:
		return d.Prim.Token()
	case ClassText:
		return "*ferryrt.String"
	case ClassStruct:
		if d.Tuple {
			return d.scheme.GoIdent(d.scheme.TupleName(d.Name)...)
		}
		return d.qualify(d.scheme.GoIdent(d.Name))
	case ClassEnum:
		return d.qualify(d.scheme.GoIdent(d.Name))
	case ClassExtern:
		return "ferryrt.Handle"
	case ClassVec:
		return "*ferryrt.Vec"
	default:
		return ""
	}
}

// qualify prefixes identifiers of externally declared types with their
// import alias; the symbol itself is spelled by the declaring module.
func (d *Desc) qualify(ident string) string {
	if d.Ref.IsExternal() {
		return d.Ref.Alias + "." + ident
	}
	return ident
}

// CDecl returns the C spelling used in header typedefs and fields.
// Shared symbols live in the client's namespace, so a client_name
// override renames the C symbol too.
func (d *Desc) CDecl() string {
	switch d.Class {
	case ClassPrim:
		return cPrimNames[d.Prim]
	case ClassStruct:
		if d.Tuple {
			return d.scheme.CSymbol(d.scheme.TupleName(d.Name)...)
		}
		return d.scheme.CSymbol(d.clientName())
	case ClassEnum:
		return d.scheme.CSymbol(d.clientName())
	default:
		// text, handles and collections all cross as raw pointers
		return "void*"
	}
}

// Client returns the client-facing Swift type.
func (d *Desc) Client() string {
	switch d.Class {
	case ClassPrim:
		return swiftPrimNames[d.Prim]
	case ClassText:
		return "String"
	case ClassStruct:
		if d.Tuple {
			parts := make([]string, len(d.Elems))
			for i, e := range d.Elems {
				parts[i] = e.Client()
			}
			return "(" + strings.Join(parts, ", ") + ")"
		}
		return d.clientName()
	case ClassEnum, ClassExtern:
		return d.clientName()
	case ClassVec:
		return "FerryVec<" + d.Elem.Client() + ">"
	default:
		return ""
	}
}

// ClientAbi returns the Swift spelling of the ABI value, i.e. what the
// imported C declarations expose.
func (d *Desc) ClientAbi() string {
	switch d.Class {
	case ClassPrim:
		return swiftPrimNames[d.Prim]
	case ClassStruct:
		if d.Tuple {
			return d.scheme.CSymbol(d.scheme.TupleName(d.Name)...)
		}
		return d.scheme.CSymbol(d.clientName())
	case ClassEnum:
		return d.scheme.CSymbol(d.clientName())
	default:
		return "UnsafeMutableRawPointer?"
	}
}

func (d *Desc) clientName() string {
	if d.ClientName != "" {
		return d.ClientName
	}
	return d.Name
}

// NativeToAbi renders the Go expression lowering expr to its ABI value.
func (d *Desc) NativeToAbi(expr string) string {
	switch d.Class {
	case ClassPrim:
		return expr
	case ClassText:
		return "ferryrt.NewString(" + expr + ")"
	case ClassStruct:
		if d.OnlyEncoding {
			// значение не несёт информации: вычислить и отбросить
			return fmt.Sprintf("func(_ %s) %s { return %s{%s: %d} }(%s)",
				d.GoNative(), d.GoAbi(), d.GoAbi(), PlaceholderGoField, PlaceholderValue, expr)
		}
		return expr + ".IntoAbi()"
	case ClassEnum:
		return expr + ".IntoAbi()"
	case ClassExtern:
		return "ferryrt.NewHandle(" + expr + ")"
	case ClassVec:
		return "ferryrt.NewVec(" + expr + ")"
	default:
		return expr
	}
}

// AbiToNative renders the Go expression lifting expr back to native.
func (d *Desc) AbiToNative(expr string) string {
	switch d.Class {
	case ClassPrim:
		return expr
	case ClassText:
		return expr + ".Take()"
	case ClassStruct:
		if d.OnlyEncoding {
			return fmt.Sprintf("func(_ %s) %s { return %s{} }(%s)",
				d.GoAbi(), d.GoNative(), d.GoNative(), expr)
		}
		return expr + ".IntoNative()"
	case ClassEnum:
		return expr + ".IntoNative()"
	case ClassExtern:
		return fmt.Sprintf("ferryrt.ResolveHandle[%s](%s)", d.GoNative(), expr)
	case ClassVec:
		return fmt.Sprintf("ferryrt.TakeVec[%s](%s)", d.Elem.GoNative(), expr)
	default:
		return expr
	}
}

// ClientToAbi renders the Swift expression lowering expr to its ABI value.
func (d *Desc) ClientToAbi(expr string) string {
	switch d.Class {
	case ClassPrim:
		return expr
	case ClassText:
		return "ferryTextEncode(" + expr + ")"
	case ClassStruct:
		if d.Tuple {
			return d.tupleClientToAbi(expr)
		}
		if d.OnlyEncoding {
			return fmt.Sprintf("{ let _ = %s; return %s(%s: %d) }()",
				expr, d.ClientAbi(), PlaceholderCField, PlaceholderValue)
		}
		return expr + ".intoFfiRepr()"
	case ClassEnum:
		return expr + ".intoFfiRepr()"
	case ClassExtern:
		return expr + ".ptr"
	case ClassVec:
		return expr + ".takePointer()"
	default:
		return expr
	}
}

// AbiToClient renders the Swift expression lifting expr back to the
// client representation.
func (d *Desc) AbiToClient(expr string) string {
	switch d.Class {
	case ClassPrim:
		return expr
	case ClassText:
		return "ferryTextDecode(" + expr + ")"
	case ClassStruct:
		if d.Tuple {
			return d.tupleAbiToClient(expr)
		}
		if d.OnlyEncoding {
			return fmt.Sprintf("{ let _ = %s; return %s() }()", expr, d.Client())
		}
		return expr + ".intoSwiftRepr()"
	case ClassEnum:
		return expr + ".intoSwiftRepr()"
	case ClassExtern:
		return fmt.Sprintf("%s(ptr: %s)", d.clientName(), expr)
	case ClassVec:
		return fmt.Sprintf("FerryVec<%s>(ptr: %s)", d.Elem.Client(), expr)
	default:
		return expr
	}
}

// tupleClientToAbi binds the source expression once, then projects each
// element through its own conversion.
func (d *Desc) tupleClientToAbi(expr string) string {
	var sb strings.Builder
	sb.WriteString("{ let val = ")
	sb.WriteString(expr)
	sb.WriteString("; return ")
	sb.WriteString(d.ClientAbi())
	sb.WriteByte('(')
	for i, e := range d.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "_%d: %s", i, e.ClientToAbi(fmt.Sprintf("val.%d", i)))
	}
	sb.WriteString(") }()")
	return sb.String()
}

func (d *Desc) tupleAbiToClient(expr string) string {
	var sb strings.Builder
	sb.WriteString("{ let val = ")
	sb.WriteString(expr)
	sb.WriteString("; return (")
	for i, e := range d.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.AbiToClient(fmt.Sprintf("val._%d", i)))
	}
	sb.WriteString(") }()")
	return sb.String()
}
