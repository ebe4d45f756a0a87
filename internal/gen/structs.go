package gen

import (
	"fmt"
	"strings"

	"ferry/internal/bridged"
	"ferry/internal/decl"
)

// emitStruct renders every artifact of one declared struct: Go native
// and ABI definitions with their conversion methods, the Swift type
// with its glue, the C typedef, and the option, collection and free
// families built on top.
func (g *Generator) emitStruct(id decl.TypeID) error {
	info := g.reg.Struct(id)
	if info.Ref.IsExternal() {
		// Объявлено в другом модуле: только ссылки, никаких определений.
		return nil
	}
	d, err := g.cls.ClassifyName(info.Name)
	if err != nil {
		return err
	}
	descs, err := g.ensureFieldTypes(info.Shape.Fields)
	if err != nil {
		return err
	}
	if err := g.ensureCTypedef(d); err != nil {
		return err
	}
	g.goStructDefs(d, info, descs)
	g.swiftStructDefs(d, info, descs)
	hasOption, err := g.optionArtifacts(d)
	if err != nil {
		return err
	}
	if hasOption {
		// pop и get возвращают Option, без него коллекции не собрать
		if err := g.vecArtifacts(d); err != nil {
			return err
		}
	}
	if d.OwnsText {
		g.freeArtifacts(d)
	}
	return nil
}

func (g *Generator) goStructDefs(d *bridged.Desc, info *decl.StructInfo, descs []*bridged.Desc) {
	native := d.GoNative()
	abi := d.GoAbi()

	if info.Shape.IsEmpty() {
		fmt.Fprintf(&g.goBuf, "type %s struct{}\n\n", native)
		fmt.Fprintf(&g.goBuf, "type %s struct {\n\t%s uint8\n}\n\n", abi, bridged.PlaceholderGoField)
		fmt.Fprintf(&g.goBuf, "func (v %s) IntoAbi() %s {\n\t_ = v\n\treturn %s{%s: %d}\n}\n\n",
			native, abi, abi, bridged.PlaceholderGoField, bridged.PlaceholderValue)
		fmt.Fprintf(&g.goBuf, "func (a %s) IntoNative() %s {\n\t_ = a\n\treturn %s{}\n}\n\n",
			abi, native, native)
		return
	}

	var nf, af strings.Builder
	for i := range info.Shape.Fields {
		name := goFieldName(&info.Shape.Fields[i], info.Shape.Kind)
		fmt.Fprintf(&nf, "\t%s %s\n", name, descs[i].GoNative())
		fmt.Fprintf(&af, "\t%s %s\n", name, descs[i].GoAbi())
	}
	fmt.Fprintf(&g.goBuf, "type %s struct {\n%s}\n\n", native, nf.String())
	fmt.Fprintf(&g.goBuf, "type %s struct {\n%s}\n\n", abi, af.String())

	toAbi := make([]string, len(descs))
	toNative := make([]string, len(descs))
	for i := range descs {
		name := goFieldName(&info.Shape.Fields[i], info.Shape.Kind)
		toAbi[i] = fmt.Sprintf("%s: %s", name, descs[i].NativeToAbi("val."+name))
		toNative[i] = fmt.Sprintf("%s: %s", name, descs[i].AbiToNative("val."+name))
	}
	fmt.Fprintf(&g.goBuf, "func (v %s) IntoAbi() %s {\n\tval := v\n\treturn %s{%s}\n}\n\n",
		native, abi, abi, strings.Join(toAbi, ", "))
	fmt.Fprintf(&g.goBuf, "func (a %s) IntoNative() %s {\n\tval := a\n\treturn %s{%s}\n}\n\n",
		abi, native, native, strings.Join(toNative, ", "))
	g.markRuntimeUse(descs)
}

func (g *Generator) swiftStructDefs(d *bridged.Desc, info *decl.StructInfo, descs []*bridged.Desc) {
	client := d.Client()
	cabi := d.ClientAbi()

	kw := "struct"
	if info.Repr == decl.ReprClass {
		kw = "final class"
	}

	if info.Shape.IsEmpty() {
		fmt.Fprintf(&g.swiftBuf, "public %s %s {\n    public init() {}\n}\n\n", kw, client)
		g.swiftConversionExts(client, cabi,
			fmt.Sprintf("%s(%s: %d)", cabi, bridged.PlaceholderCField, bridged.PlaceholderValue),
			client+"()")
		return
	}

	props := make([]string, len(descs))
	params := make([]string, len(descs))
	assigns := make([]string, len(descs))
	toAbi := make([]string, len(descs))
	toClient := make([]string, len(descs))
	for i := range descs {
		name := swiftFieldName(&info.Shape.Fields[i], info.Shape.Kind)
		props[i] = fmt.Sprintf("    public var %s: %s", name, descs[i].Client())
		params[i] = fmt.Sprintf("%s: %s", name, descs[i].Client())
		assigns[i] = fmt.Sprintf("        self.%s = %s", name, name)
		toAbi[i] = fmt.Sprintf("%s: %s", name, descs[i].ClientToAbi("val."+name))
		toClient[i] = fmt.Sprintf("%s: %s", name, descs[i].AbiToClient("val."+name))
	}
	fmt.Fprintf(&g.swiftBuf, "public %s %s {\n%s\n\n    public init(%s) {\n%s\n    }\n}\n\n",
		kw, client,
		strings.Join(props, "\n"),
		strings.Join(params, ", "),
		strings.Join(assigns, "\n"))

	g.swiftConversionExts(client, cabi,
		fmt.Sprintf("{ let val = self; return %s(%s) }()", cabi, strings.Join(toAbi, ", ")),
		fmt.Sprintf("{ let val = self; return %s(%s) }()", client, strings.Join(toClient, ", ")))
}

// swiftConversionExts writes the symmetric extension pair around two
// rendered conversion bodies.
func (g *Generator) swiftConversionExts(client, cabi, toAbiBody, toClientBody string) {
	fmt.Fprintf(&g.swiftBuf,
		"extension %s {\n    @inline(__always)\n    func intoFfiRepr() -> %s {\n        %s\n    }\n}\n\n",
		client, cabi, toAbiBody)
	fmt.Fprintf(&g.swiftBuf,
		"extension %s {\n    @inline(__always)\n    func intoSwiftRepr() -> %s {\n        %s\n    }\n}\n\n",
		cabi, client, toClientBody)
}

// emitTuple renders the synthesized struct behind one anonymous tuple
// shape. The suffix in every name comes from the ordered element-type
// sequence, so identical shapes collapse to identical symbols no
// matter where they appear. Swift needs no definitions: the client
// representation is a real tuple and its conversions inline at use
// sites.
func (g *Generator) emitTuple(d *bridged.Desc) error {
	if len(d.Elems) == 0 {
		return &ShapeError{TypeName: "(" + d.Name + ")", Detail: "tuples are always positional and never empty"}
	}
	native := d.GoNative()
	abi := d.GoAbi()

	var nf, af strings.Builder
	for i, e := range d.Elems {
		fmt.Fprintf(&nf, "\tF%d %s\n", i, e.GoNative())
		fmt.Fprintf(&af, "\tF%d %s\n", i, e.GoAbi())
	}
	fmt.Fprintf(&g.goBuf, "type %s struct {\n%s}\n\n", native, nf.String())
	fmt.Fprintf(&g.goBuf, "type %s struct {\n%s}\n\n", abi, af.String())

	toAbi := make([]string, len(d.Elems))
	toNative := make([]string, len(d.Elems))
	for i, e := range d.Elems {
		toAbi[i] = fmt.Sprintf("F%d: %s", i, e.NativeToAbi(fmt.Sprintf("val.F%d", i)))
		toNative[i] = fmt.Sprintf("F%d: %s", i, e.AbiToNative(fmt.Sprintf("val.F%d", i)))
	}
	fmt.Fprintf(&g.goBuf, "func (v %s) IntoAbi() %s {\n\tval := v\n\treturn %s{%s}\n}\n\n",
		native, abi, abi, strings.Join(toAbi, ", "))
	fmt.Fprintf(&g.goBuf, "func (a %s) IntoNative() %s {\n\tval := a\n\treturn %s{%s}\n}\n\n",
		abi, native, native, strings.Join(toNative, ", "))
	g.markRuntimeUse(d.Elems)

	if err := g.ensureCTypedef(d); err != nil {
		return err
	}
	if d.OwnsText {
		g.freeArtifacts(d)
	}
	return nil
}

func (g *Generator) markRuntimeUse(descs []*bridged.Desc) {
	for _, d := range descs {
		switch d.Class {
		case bridged.ClassText, bridged.ClassVec, bridged.ClassExtern:
			g.needsRuntime = true
		}
	}
}

// goFieldName spells a field in Go: exported declared name for named
// shapes, positional FN for unnamed ones.
func goFieldName(f *decl.Field, kind decl.ShapeKind) string {
	if kind == decl.ShapeNamed {
		return exportName(f.Name)
	}
	return fmt.Sprintf("F%d", f.Index)
}

func swiftFieldName(f *decl.Field, kind decl.ShapeKind) string {
	if kind == decl.ShapeNamed {
		return f.Name
	}
	return fmt.Sprintf("_%d", f.Index)
}

// exportName upcases the first byte; schema identifiers are ASCII by
// the lexer's rules.
func exportName(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
