package decl

import (
	"fmt"
	"strings"

	"ferry/internal/ast"
	"ferry/internal/diag"
	"ferry/internal/source"
)

// Resolve builds the declaration registry for one parsed schema file.
// Problems go through rep; the returned registry holds every declaration
// that survived, in source order.
func Resolve(file *ast.File, rep diag.Reporter) *Registry {
	res := &resolver{
		reg:     NewRegistry(file.Bridge.Name),
		rep:     rep,
		byAlias: make(map[string]int),
		byPath:  make(map[string]int),
		used:    make(map[string]bool),
	}
	res.collectImports(file.Imports)
	for _, d := range file.Decls {
		res.declare(d)
	}
	res.reportUnusedImports()
	return res.reg
}

type resolver struct {
	reg     *Registry
	rep     diag.Reporter
	list    []Import
	byAlias map[string]int
	byPath  map[string]int
	used    map[string]bool // import paths referenced by @declared_in
}

func (res *resolver) collectImports(imports []ast.Import) {
	for _, imp := range imports {
		alias := imp.Alias.Name
		if alias == "" {
			alias = lastSegment(imp.Path.Value)
		}
		if prev, dup := res.byAlias[alias]; dup {
			diag.ReportError(res.rep, diag.ResDuplicateImport, imp.Span,
				fmt.Sprintf("import alias %q is already in use", alias)).
				WithNote(res.list[prev].Span, "previous import here").
				Emit()
			continue
		}
		idx := len(res.list)
		res.list = append(res.list, Import{Path: imp.Path.Value, Alias: alias, Span: imp.Span})
		res.byAlias[alias] = idx
		if _, dup := res.byPath[imp.Path.Value]; !dup {
			res.byPath[imp.Path.Value] = idx
		}
		res.reg.AddImport(res.list[idx])
	}
}

func (res *resolver) declare(d ast.Decl) {
	name := d.DeclName()
	if ReservedTypeName(name.Name) {
		diag.ReportError(res.rep, diag.ResReservedTypeName, name.Span,
			fmt.Sprintf("%q is a built-in type name", name.Name)).Emit()
		return
	}
	switch dd := d.(type) {
	case *ast.StructDecl:
		res.declareStruct(dd)
	case *ast.EnumDecl:
		res.declareEnum(dd)
	case *ast.ExternTypeDecl:
		res.declareExtern(dd)
	}
}

func (res *resolver) declareStruct(d *ast.StructDecl) {
	attrs := res.resolveAttrs(d.Attrs, true)
	shape := res.structShape(d)
	if attrs.ref.IsExternal() && (d.HasBody || len(d.Positional) > 0) {
		diag.ReportError(res.rep, diag.ResExternalWithBody, d.Span,
			fmt.Sprintf("externally declared struct %s must not carry a body", d.Name.Name)).
			WithNote(attrs.refSpan, "declared external here").
			Emit()
	}
	info := StructInfo{
		Name:       d.Name.Name,
		ClientName: attrs.clientName,
		Repr:       attrs.repr,
		Shape:      shape,
		Ref:        attrs.ref,
		Span:       d.Span,
	}
	if _, ok := res.reg.AddStruct(info); !ok {
		res.duplicate(d.Name)
	}
}

func (res *resolver) declareEnum(d *ast.EnumDecl) {
	attrs := res.resolveAttrs(d.Attrs, false)
	if attrs.ref.IsExternal() && len(d.Variants) > 0 {
		diag.ReportError(res.rep, diag.ResExternalWithBody, d.Span,
			fmt.Sprintf("externally declared enum %s must not list variants", d.Name.Name)).
			WithNote(attrs.refSpan, "declared external here").
			Emit()
	}
	variants := res.enumVariants(d)
	if !attrs.ref.IsExternal() && len(variants) == 0 {
		diag.ReportError(res.rep, diag.ResEmptyEnum, d.Name.Span,
			fmt.Sprintf("enum %s has no variants", d.Name.Name)).Emit()
	}
	info := EnumInfo{
		Name:       d.Name.Name,
		ClientName: attrs.clientName,
		Ref:        attrs.ref,
		Variants:   variants,
		Span:       d.Span,
	}
	if _, ok := res.reg.AddEnum(info); !ok {
		res.duplicate(d.Name)
	}
}

func (res *resolver) declareExtern(d *ast.ExternTypeDecl) {
	attrs := res.resolveAttrs(d.Attrs, false)
	info := ExternInfo{
		Name:       d.Name.Name,
		ClientName: attrs.clientName,
		Ref:        attrs.ref,
		Span:       d.Span,
	}
	if _, ok := res.reg.AddExtern(info); !ok {
		res.duplicate(d.Name)
	}
}

// attrInfo is the digested attribute list of one declaration.
type attrInfo struct {
	repr       Repr
	hasRepr    bool
	reprAttr   string
	reprSpan   source.Span
	clientName string
	ref        Ref
	refSpan    source.Span
}

func (res *resolver) resolveAttrs(attrs []ast.Attr, allowRepr bool) attrInfo {
	out := attrInfo{ref: Ref{Kind: RefLocal}}
	seen := make(map[string]source.Span, len(attrs))
	for _, a := range attrs {
		name := a.Name.Name
		if prev, dup := seen[name]; dup {
			diag.ReportError(res.rep, diag.ResDuplicateAttr, a.Span,
				fmt.Sprintf("attribute @%s is given twice", name)).
				WithNote(prev, "first occurrence here").
				Emit()
			continue
		}
		seen[name] = a.Span
		switch name {
		case "structure", "class":
			if !allowRepr {
				diag.ReportError(res.rep, diag.ResUnknownAttr, a.Span,
					fmt.Sprintf("@%s applies to struct declarations only", name)).Emit()
				continue
			}
			if a.Arg != nil {
				diag.ReportError(res.rep, diag.ResBadAttrArg, a.Arg.Span,
					fmt.Sprintf("@%s takes no argument", name)).Emit()
			}
			repr := ReprStructure
			if name == "class" {
				repr = ReprClass
			}
			if out.hasRepr && out.repr != repr {
				diag.ReportError(res.rep, diag.ResAttrConflict, a.Span,
					"@structure and @class are mutually exclusive").
					WithNote(out.reprSpan, fmt.Sprintf("@%s given here", out.reprAttr)).
					Emit()
				continue
			}
			out.repr, out.hasRepr = repr, true
			out.reprAttr, out.reprSpan = name, a.Span
		case "client_name":
			arg, ok := res.attrArg(a)
			if !ok {
				continue
			}
			out.clientName = arg
		case "declared_in":
			arg, ok := res.attrArg(a)
			if !ok {
				continue
			}
			imp, found := res.lookupImport(arg)
			if !found {
				diag.ReportError(res.rep, diag.ResUnknownImport, a.Span,
					fmt.Sprintf("@declared_in(%q) does not match any import", arg)).Emit()
				continue
			}
			out.ref = Ref{Kind: RefExternal, Path: imp.Path, Alias: imp.Alias}
			out.refSpan = a.Span
			res.used[imp.Path] = true
		default:
			diag.ReportError(res.rep, diag.ResUnknownAttr, a.Span,
				fmt.Sprintf("unknown attribute @%s", name)).Emit()
		}
	}
	return out
}

func (res *resolver) attrArg(a ast.Attr) (string, bool) {
	if a.Arg == nil {
		diag.ReportError(res.rep, diag.ResBadAttrArg, a.Span,
			fmt.Sprintf("@%s requires a string argument", a.Name.Name)).Emit()
		return "", false
	}
	return a.Arg.Value, true
}

// lookupImport matches a @declared_in argument against imports, first by
// alias, then by full path.
func (res *resolver) lookupImport(arg string) (Import, bool) {
	if idx, ok := res.byAlias[arg]; ok {
		return res.list[idx], true
	}
	if idx, ok := res.byPath[arg]; ok {
		return res.list[idx], true
	}
	return Import{}, false
}

func (res *resolver) structShape(d *ast.StructDecl) FieldShape {
	switch {
	case len(d.Positional) > 0:
		return FieldShape{Kind: ShapeUnnamed, Fields: res.positionalFields(d.Positional)}
	case d.HasBody:
		return FieldShape{Kind: ShapeNamed, Fields: res.namedFields(d.Fields)}
	default:
		return FieldShape{Kind: ShapeUnit}
	}
}

func (res *resolver) enumVariants(d *ast.EnumDecl) []VariantInfo {
	out := make([]VariantInfo, 0, len(d.Variants))
	seen := make(map[string]source.Span, len(d.Variants))
	for _, v := range d.Variants {
		if prev, dup := seen[v.Name.Name]; dup {
			diag.ReportError(res.rep, diag.ResDuplicateVariant, v.Name.Span,
				fmt.Sprintf("variant %q is declared twice", v.Name.Name)).
				WithNote(prev, "first declaration here").
				Emit()
			continue
		}
		seen[v.Name.Name] = v.Name.Span
		out = append(out, VariantInfo{
			Name:  v.Name.Name,
			Shape: res.variantShape(v),
			Span:  v.Span,
		})
	}
	return out
}

func (res *resolver) variantShape(v ast.Variant) FieldShape {
	switch {
	case len(v.Positional) > 0:
		return FieldShape{Kind: ShapeUnnamed, Fields: res.positionalFields(v.Positional)}
	case v.HasBody:
		return FieldShape{Kind: ShapeNamed, Fields: res.namedFields(v.Fields)}
	default:
		return FieldShape{Kind: ShapeUnit}
	}
}

func (res *resolver) namedFields(fields []ast.NamedField) []Field {
	out := make([]Field, 0, len(fields))
	seen := make(map[string]source.Span, len(fields))
	var idx uint32
	for _, f := range fields {
		if prev, dup := seen[f.Name.Name]; dup {
			diag.ReportError(res.rep, diag.ResDuplicateField, f.Name.Span,
				fmt.Sprintf("field %q is declared twice", f.Name.Name)).
				WithNote(prev, "first declaration here").
				Emit()
			continue
		}
		seen[f.Name.Name] = f.Name.Span
		out = append(out, Field{
			Name:  f.Name.Name,
			Index: idx,
			Type:  mapType(f.Type),
			Span:  f.Span,
		})
		idx++
	}
	return out
}

func (res *resolver) positionalFields(types []ast.TypeExpr) []Field {
	out := make([]Field, 0, len(types))
	var idx uint32
	for _, t := range types {
		out = append(out, Field{
			Index: idx,
			Type:  mapType(t),
			Span:  t.TypeSpan(),
		})
		idx++
	}
	return out
}

func (res *resolver) duplicate(name ast.Ident) {
	b := diag.ReportError(res.rep, diag.ResDuplicateType, name.Span,
		fmt.Sprintf("type %q is already declared", name.Name))
	if id, ok := res.reg.Lookup(name.Name); ok {
		b.WithNote(res.reg.Span(id), "first declaration here")
	}
	b.Emit()
}

func (res *resolver) reportUnusedImports() {
	for _, imp := range res.list {
		if !res.used[imp.Path] {
			diag.ReportWarning(res.rep, diag.ResUnusedImport, imp.Span,
				fmt.Sprintf("import %q is never referenced", imp.Path)).Emit()
		}
	}
}

// mapType lowers a surface type expression into the canonical model.
// Unknown names stay Named; whether they resolve is decided later,
// against the filled registry.
func mapType(t ast.TypeExpr) TypeExpr {
	switch tt := t.(type) {
	case *ast.NamedType:
		if pk, ok := PrimByName(tt.Name.Name); ok {
			return Prim{Kind: pk}
		}
		if tt.Name.Name == "Text" {
			return Text{}
		}
		return Named{Name: tt.Name.Name}
	case *ast.TupleType:
		elems := make([]TypeExpr, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = mapType(e)
		}
		return Tuple{Elems: elems}
	case *ast.SliceType:
		return Slice{Elem: mapType(tt.Elem)}
	default:
		return Named{Name: t.String()}
	}
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 && i+1 < len(path) {
		return path[i+1:]
	}
	return path
}
