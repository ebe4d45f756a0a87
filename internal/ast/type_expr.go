package ast

import (
	"strings"

	"ferry/internal/source"
)

// TypeExpr is a type reference inside a field or payload.
type TypeExpr interface {
	TypeSpan() source.Span
	// String renders the expression back in schema syntax, for diagnostics.
	String() string
}

// NamedType references a primitive, a declared type, or Text.
type NamedType struct {
	Name Ident
}

// TupleType is an anonymous positional product: (T1, T2, ...).
type TupleType struct {
	Elems []TypeExpr
	Span  source.Span
}

// SliceType is a homogeneous collection: [T].
type SliceType struct {
	Elem TypeExpr
	Span source.Span
}

func (t *NamedType) TypeSpan() source.Span { return t.Name.Span }
func (t *NamedType) String() string        { return t.Name.Name }

func (t *TupleType) TypeSpan() source.Span { return t.Span }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *SliceType) TypeSpan() source.Span { return t.Span }
func (t *SliceType) String() string        { return "[" + t.Elem.String() + "]" }
