package driver

import (
	"errors"
	"fmt"

	"ferry/internal/bridged"
	"ferry/internal/decl"
	"ferry/internal/diag"
	"ferry/internal/gen"
	"ferry/internal/layout"
	"ferry/internal/source"
)

// engineDiagnostic converts a generation engine error into a coded
// diagnostic. The engines work on the frozen registry and know nothing
// about spans, so the driver recovers the location from the registry:
// the declaration span of the offending type, or the first field whose
// type mentions the name that failed.
func engineDiagnostic(reg *decl.Registry, err error) diag.Diagnostic {
	var shapeErr *gen.ShapeError
	if errors.As(err, &shapeErr) {
		return diag.NewError(diag.GenUnsupportedShape, spanOfType(reg, shapeErr.TypeName), err.Error())
	}

	var armErr *gen.ArmCountError
	if errors.As(err, &armErr) {
		return diag.NewError(diag.GenArmMismatch, spanOfType(reg, armErr.Enum), err.Error())
	}

	var unresolved *bridged.UnresolvedTypeError
	if errors.As(err, &unresolved) {
		span := spanOfMention(reg, mentionsName(unresolved.Name))
		return diag.NewError(diag.GenUnresolvedType, span, fmt.Sprintf("cannot resolve type %q", unresolved.Name))
	}

	var unsupported *bridged.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		span := spanOfMention(reg, mentionsKey(unsupported.Expr))
		return diag.NewError(diag.GenUnsupportedShape, span, err.Error())
	}

	var layErr *layout.Error
	if errors.As(err, &layErr) {
		switch layErr.Kind {
		case layout.ErrRecursive:
			return diag.NewError(diag.GenRecursiveLayout, spanOfType(reg, layErr.Key), err.Error())
		case layout.ErrUnresolved:
			return diag.NewError(diag.GenUnresolvedType, spanOfType(reg, layErr.Key), err.Error())
		}
		return diag.NewError(diag.GenUnsupportedShape, spanOfType(reg, layErr.Key), err.Error())
	}

	return diag.NewError(diag.GenUnsupportedShape, source.Span{}, err.Error())
}

func spanOfType(reg *decl.Registry, name string) source.Span {
	if reg == nil {
		return source.Span{}
	}
	id, ok := reg.Lookup(name)
	if !ok {
		return source.Span{}
	}
	return reg.Span(id)
}

// spanOfMention returns the span of the first field (in declaration
// order) whose type expression satisfies match.
func spanOfMention(reg *decl.Registry, match func(decl.TypeExpr) bool) source.Span {
	if reg == nil {
		return source.Span{}
	}
	for _, id := range reg.Types() {
		switch reg.Kind(id) {
		case decl.KindStruct:
			info := reg.Struct(id)
			for _, f := range info.Shape.Fields {
				if match(f.Type) {
					return f.Span
				}
			}
		case decl.KindEnum:
			info := reg.Enum(id)
			for _, v := range info.Variants {
				for _, f := range v.Shape.Fields {
					if match(f.Type) {
						return f.Span
					}
				}
			}
		}
	}
	return source.Span{}
}

func mentionsName(name string) func(decl.TypeExpr) bool {
	var walk func(decl.TypeExpr) bool
	walk = func(t decl.TypeExpr) bool {
		switch expr := t.(type) {
		case decl.Named:
			return expr.Name == name
		case decl.Tuple:
			for _, e := range expr.Elems {
				if walk(e) {
					return true
				}
			}
		case decl.Slice:
			return walk(expr.Elem)
		}
		return false
	}
	return walk
}

func mentionsKey(key string) func(decl.TypeExpr) bool {
	var walk func(decl.TypeExpr) bool
	walk = func(t decl.TypeExpr) bool {
		if t.Key() == key {
			return true
		}
		switch expr := t.(type) {
		case decl.Tuple:
			for _, e := range expr.Elems {
				if walk(e) {
					return true
				}
			}
		case decl.Slice:
			return walk(expr.Elem)
		}
		return false
	}
	return walk
}
