package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ferry/internal/ast"
	"ferry/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// schema file:
//  1. every declaration span is non-empty and within file content bounds
//  2. names, fields and variants lie inside their declaration span
//  3. attributes end before the declaration they annotate
//
// The parser drops declarations it could not finish, so the invariants
// hold on error-recovery parses too.
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	limit, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	check := func(what string, sp source.Span) error {
		if sp.End < sp.Start {
			return fmt.Errorf("%s span is inverted: %v", what, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s span points to different file id: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.End > limit {
			return fmt.Errorf("%s span end beyond content: %d > %d", what, sp.End, limit)
		}
		return nil
	}
	inside := func(what string, sp, outer source.Span) error {
		if err := check(what, sp); err != nil {
			return err
		}
		if sp.Start < outer.Start || sp.End > outer.End {
			return fmt.Errorf("%s span %v escapes %v", what, sp, outer)
		}
		return nil
	}
	attrsBefore := func(attrs []ast.Attr, declSpan source.Span) error {
		for _, a := range attrs {
			if err := check("attribute", a.Span); err != nil {
				return err
			}
			if a.Span.End > declSpan.Start {
				return fmt.Errorf("attribute span %v overlaps declaration %v", a.Span, declSpan)
			}
		}
		return nil
	}

	if f.Bridge.Name != "" {
		if err := check("bridge name", f.Bridge.Span); err != nil {
			return err
		}
	}
	for _, imp := range f.Imports {
		if err := check("import", imp.Span); err != nil {
			return err
		}
		if err := inside("import path", imp.Path.Span, imp.Span); err != nil {
			return err
		}
	}

	for _, d := range f.Decls {
		declSpan := d.DeclSpan()
		if declSpan.Empty() {
			return fmt.Errorf("empty span on declaration %q", d.DeclName().Name)
		}
		if err := check("declaration", declSpan); err != nil {
			return err
		}
		if err := inside("declaration name", d.DeclName().Span, declSpan); err != nil {
			return err
		}

		switch decl := d.(type) {
		case *ast.StructDecl:
			if err := attrsBefore(decl.Attrs, declSpan); err != nil {
				return err
			}
			for _, fld := range decl.Fields {
				if err := inside("field", fld.Span, declSpan); err != nil {
					return err
				}
				if err := inside("field name", fld.Name.Span, fld.Span); err != nil {
					return err
				}
			}
			for _, pos := range decl.Positional {
				if err := inside("positional field", pos.TypeSpan(), declSpan); err != nil {
					return err
				}
			}
		case *ast.EnumDecl:
			if err := attrsBefore(decl.Attrs, declSpan); err != nil {
				return err
			}
			for _, v := range decl.Variants {
				if err := inside("variant", v.Span, declSpan); err != nil {
					return err
				}
				if err := inside("variant name", v.Name.Span, v.Span); err != nil {
					return err
				}
			}
		case *ast.ExternTypeDecl:
			if err := attrsBefore(decl.Attrs, declSpan); err != nil {
				return err
			}
		}
	}
	return nil
}
