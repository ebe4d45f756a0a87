// Package ast is the surface syntax tree for ferry schema files.
//
// The tree is deliberately plain: schema files are small, parsed once and
// handed straight to the resolver, so nodes are ordinary structs carrying
// spans. The long-lived, interned representation lives in internal/decl.
package ast

import "ferry/internal/source"

// File is one parsed schema file.
type File struct {
	FileID  source.FileID
	Bridge  Ident // module name from the 'bridge <name>' header
	Imports []Import
	Decls   []Decl // declaration order is preserved end-to-end
}

// Ident is a name with its location.
type Ident struct {
	Name string
	Span source.Span
}

// Attr is one '@name' or '@name("arg")' attribute.
type Attr struct {
	Name Ident
	Arg  *StringLit // nil when the attribute has no argument
	Span source.Span
}

// StringLit is a decoded string literal.
type StringLit struct {
	Value string // without quotes, escapes resolved
	Span  source.Span
}

// Import is one 'import "path" as alias' header item.
type Import struct {
	Path  StringLit
	Alias Ident
	Span  source.Span
}

// Decl is a top-level schema declaration.
type Decl interface {
	DeclName() Ident
	DeclSpan() source.Span
}

// StructDecl covers named structs, tuple structs and unit structs:
//
//	struct Point { x: Int32, y: Int32 }   named fields
//	struct Pair(Int32, Text)              positional fields
//	struct Marker                         unit, no body
//	struct Empty {}                       named, zero fields
type StructDecl struct {
	Attrs      []Attr
	Name       Ident
	HasBody    bool // distinguishes 'struct Empty {}' from 'struct Marker'
	Fields     []NamedField
	Positional []TypeExpr
	Span       source.Span
}

// NamedField is one 'name: Type' field.
type NamedField struct {
	Name Ident
	Type TypeExpr
	Span source.Span
}

// EnumDecl is a tagged union declaration.
type EnumDecl struct {
	Attrs    []Attr
	Name     Ident
	Variants []Variant
	Span     source.Span
}

// Variant is one enum case. Exactly one of Fields/Positional may be set:
//
//	Red                  unit
//	Circle(Float64)      positional payload
//	Named{t: Text}       named payload (parsed, rejected by the engines)
type Variant struct {
	Name       Ident
	Fields     []NamedField
	Positional []TypeExpr
	HasBody    bool
	Span       source.Span
}

// ExternTypeDecl declares an opaque handle type owned by application code:
//
//	extern type Counter
type ExternTypeDecl struct {
	Attrs []Attr
	Name  Ident
	Span  source.Span
}

func (d *StructDecl) DeclName() Ident            { return d.Name }
func (d *StructDecl) DeclSpan() source.Span      { return d.Span }
func (d *EnumDecl) DeclName() Ident              { return d.Name }
func (d *EnumDecl) DeclSpan() source.Span        { return d.Span }
func (d *ExternTypeDecl) DeclName() Ident        { return d.Name }
func (d *ExternTypeDecl) DeclSpan() source.Span  { return d.Span }
