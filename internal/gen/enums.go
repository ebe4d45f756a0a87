package gen

import (
	"fmt"
	"strings"

	"ferry/internal/bridged"
	"ferry/internal/decl"
	"ferry/internal/layout"
)

// emitEnum renders one declared enum. Data-free enums become plain
// value types with a one-byte tag; enums with payload become a sealed
// interface on the Go side and a tag-plus-payload C struct whose slot
// offsets come from the layout engine.
func (g *Generator) emitEnum(id decl.TypeID) error {
	info := g.reg.Enum(id)
	if info.Ref.IsExternal() {
		// Объявлено в другом модуле: только ссылки, никаких определений.
		return nil
	}
	d, err := g.cls.ClassifyName(info.Name)
	if err != nil {
		return err
	}
	if len(info.Variants) == 0 {
		return &ShapeError{TypeName: info.Name, Detail: "enum declares no variants"}
	}
	for i := range info.Variants {
		v := &info.Variants[i]
		if v.Shape.Kind == decl.ShapeNamed && len(v.Shape.Fields) > 0 {
			return &ShapeError{
				TypeName: info.Name,
				Detail:   fmt.Sprintf("variant %s declares named fields; enum payloads are positional", v.Name),
			}
		}
	}

	if info.HasData() {
		if err := g.emitDataEnum(d, info); err != nil {
			return err
		}
	} else {
		if err := g.emitValueEnum(d, info); err != nil {
			return err
		}
	}

	hasOption, err := g.optionArtifacts(d)
	if err != nil {
		return err
	}
	if hasOption && !info.HasData() {
		// Коллекции поддерживают только безданные перечисления.
		if err := g.vecArtifacts(d); err != nil {
			return err
		}
	}
	if d.OwnsText {
		g.freeArtifacts(d)
	}
	return nil
}

// emitValueEnum handles the data-free case: a one-byte value type on
// every side, converted through explicit per-variant switch arms. The
// arm count is checked against the variant count before anything is
// written; a generator change that drops an arm must fail loudly, not
// truncate a switch.
func (g *Generator) emitValueEnum(d *bridged.Desc, info *decl.EnumInfo) error {
	native := d.GoNative()
	abi := d.GoAbi()
	client := d.Client()
	cabi := d.ClientAbi()

	consts := make([]string, 0, len(info.Variants))
	goToAbi := make([]string, 0, len(info.Variants))
	goToNative := make([]string, 0, len(info.Variants))
	swiftCases := make([]string, 0, len(info.Variants))
	swiftToAbi := make([]string, 0, len(info.Variants))
	swiftToClient := make([]string, 0, len(info.Variants))
	for i := range info.Variants {
		v := &info.Variants[i]
		goCase := native + exportName(v.Name)
		swiftCase := lowerCamel(v.Name)
		if i == 0 {
			consts = append(consts, fmt.Sprintf("\t%s %s = iota", goCase, native))
		} else {
			consts = append(consts, "\t"+goCase)
		}
		goToAbi = append(goToAbi, fmt.Sprintf("\tcase %s:\n\t\treturn %s{Tag: %d}", goCase, abi, i))
		goToNative = append(goToNative, fmt.Sprintf("\tcase %d:\n\t\treturn %s", i, goCase))
		swiftCases = append(swiftCases, "    case "+swiftCase)
		swiftToAbi = append(swiftToAbi, fmt.Sprintf("        case .%s:\n            return %s(tag: %d)", swiftCase, cabi, i))
		swiftToClient = append(swiftToClient, fmt.Sprintf("        case %d:\n            return %s.%s", i, client, swiftCase))
	}
	for _, arms := range [][]string{goToAbi, goToNative, swiftToAbi, swiftToClient} {
		if err := checkArms(info, len(arms)); err != nil {
			return err
		}
	}

	if err := g.ensureCTypedef(d); err != nil {
		return err
	}

	fmt.Fprintf(&g.goBuf, "type %s uint8\n\n", native)
	fmt.Fprintf(&g.goBuf, "const (\n%s\n)\n\n", strings.Join(consts, "\n"))
	fmt.Fprintf(&g.goBuf, "type %s struct {\n\tTag uint8\n}\n\n", abi)
	fmt.Fprintf(&g.goBuf, "func (v %s) IntoAbi() %s {\n\tswitch v {\n%s\n\t}\n\tpanic(fmt.Sprintf(\"%s: invalid value %%d\", uint8(v)))\n}\n\n",
		native, abi, strings.Join(goToAbi, "\n"), native)
	fmt.Fprintf(&g.goBuf, "func (a %s) IntoNative() %s {\n\tswitch a.Tag {\n%s\n\t}\n\tpanic(fmt.Sprintf(\"%s: invalid tag %%d\", a.Tag))\n}\n\n",
		abi, native, strings.Join(goToNative, "\n"), native)
	g.needsFmt = true

	fmt.Fprintf(&g.swiftBuf, "public enum %s {\n%s\n}\n\n", client, strings.Join(swiftCases, "\n"))
	fmt.Fprintf(&g.swiftBuf,
		"extension %s {\n    @inline(__always)\n    func intoFfiRepr() -> %s {\n        switch self {\n%s\n        }\n    }\n}\n\n",
		client, cabi, strings.Join(swiftToAbi, "\n"))
	fmt.Fprintf(&g.swiftBuf,
		"extension %s {\n    @inline(__always)\n    func intoSwiftRepr() -> %s {\n        switch self.tag {\n%s\n        default:\n            fatalError(\"%s: invalid tag \\(self.tag)\")\n        }\n    }\n}\n\n",
		cabi, client, strings.Join(swiftToClient, "\n"), client)
	return nil
}

// emitDataEnum handles enums with payload. The native Go rendering is
// a sealed interface with one struct per variant; the ABI rendering is
// the tag plus a byte array sized by the layout engine, written and
// read through slot accessors at the engine's offsets.
func (g *Generator) emitDataEnum(d *bridged.Desc, info *decl.EnumInfo) error {
	fieldDescs := make([][]*bridged.Desc, len(info.Variants))
	for i := range info.Variants {
		v := &info.Variants[i]
		fieldDescs[i] = make([]*bridged.Desc, len(v.Shape.Fields))
		for j := range v.Shape.Fields {
			fd, err := g.cls.Classify(v.Shape.Fields[j].Type)
			if err != nil {
				return err
			}
			if !slotEligible(fd) {
				return &ShapeError{
					TypeName: info.Name,
					Detail: fmt.Sprintf("variant %s field %d: values of type %s cannot cross inside a payload slot",
						v.Name, j, v.Shape.Fields[j].Type.String()),
				}
			}
			g.markImports(fd)
			fieldDescs[i][j] = fd
		}
	}

	abi, err := g.lay.EnumAbi(info)
	if err != nil {
		return err
	}
	if err := g.ensureCTypedef(d); err != nil {
		return err
	}
	if err := g.goDataEnumDefs(d, info, abi, fieldDescs); err != nil {
		return err
	}
	if err := g.swiftDataEnumDefs(d, info, abi, fieldDescs); err != nil {
		return err
	}
	g.needsFmt = true
	g.needsRuntime = true
	return nil
}

func (g *Generator) goDataEnumDefs(d *bridged.Desc, info *decl.EnumInfo, abi layout.EnumAbi, fieldDescs [][]*bridged.Desc) error {
	native := d.GoNative()
	abiName := d.GoAbi()

	fmt.Fprintf(&g.goBuf, "type %s interface {\n\tis%s()\n\tIntoAbi() %s\n}\n\n", native, native, abiName)

	for i := range info.Variants {
		v := &info.Variants[i]
		variantName := native + exportName(v.Name)
		if len(v.Shape.Fields) == 0 {
			fmt.Fprintf(&g.goBuf, "type %s struct{}\n\n", variantName)
		} else {
			var fields strings.Builder
			for j, fd := range fieldDescs[i] {
				fmt.Fprintf(&fields, "\tF%d %s\n", j, fd.GoNative())
			}
			fmt.Fprintf(&g.goBuf, "type %s struct {\n%s}\n\n", variantName, fields.String())
		}
		fmt.Fprintf(&g.goBuf, "func (%s) is%s() {}\n\n", variantName, native)
	}

	if pad := abi.PayloadOffset - abi.TagSize; pad > 0 {
		fmt.Fprintf(&g.goBuf, "type %s struct {\n\tTag uint32\n\t_ [%d]byte\n\tPayload [%d]byte\n}\n\n",
			abiName, pad, abi.PayloadSize)
	} else {
		fmt.Fprintf(&g.goBuf, "type %s struct {\n\tTag uint32\n\tPayload [%d]byte\n}\n\n",
			abiName, abi.PayloadSize)
	}

	for i := range info.Variants {
		v := &info.Variants[i]
		variantName := native + exportName(v.Name)
		var body strings.Builder
		if len(v.Shape.Fields) == 0 {
			body.WriteString("\t_ = v\n")
			fmt.Fprintf(&body, "\tvar a %s\n\ta.Tag = %d\n", abiName, i)
			fmt.Fprintf(&body, "\ta.Payload[0] = %d\n", bridged.PlaceholderValue)
		} else {
			body.WriteString("\tval := v\n")
			fmt.Fprintf(&body, "\tvar a %s\n\ta.Tag = %d\n", abiName, i)
			for j, fd := range fieldDescs[i] {
				fmt.Fprintf(&body, "\t%s\n", goSlotPut(fd, abi.Variants[i].Offsets[j], fmt.Sprintf("val.F%d", j)))
			}
		}
		fmt.Fprintf(&g.goBuf, "func (v %s) IntoAbi() %s {\n%s\treturn a\n}\n\n", variantName, abiName, body.String())
	}

	arms := make([]string, 0, len(info.Variants))
	for i := range info.Variants {
		v := &info.Variants[i]
		variantName := native + exportName(v.Name)
		if len(v.Shape.Fields) == 0 {
			arms = append(arms, fmt.Sprintf("\tcase %d:\n\t\treturn %s{}", i, variantName))
			continue
		}
		inits := make([]string, len(fieldDescs[i]))
		for j, fd := range fieldDescs[i] {
			inits[j] = fmt.Sprintf("F%d: %s", j, goSlotGet(fd, abi.Variants[i].Offsets[j]))
		}
		arms = append(arms, fmt.Sprintf("\tcase %d:\n\t\treturn %s{%s}", i, variantName, strings.Join(inits, ", ")))
	}
	if err := checkArms(info, len(arms)); err != nil {
		return err
	}
	fmt.Fprintf(&g.goBuf, "func (a %s) IntoNative() %s {\n\tswitch a.Tag {\n%s\n\t}\n\tpanic(fmt.Sprintf(\"%s: invalid tag %%d\", a.Tag))\n}\n\n",
		abiName, native, strings.Join(arms, "\n"), native)
	return nil
}

func (g *Generator) swiftDataEnumDefs(d *bridged.Desc, info *decl.EnumInfo, abi layout.EnumAbi, fieldDescs [][]*bridged.Desc) error {
	client := d.Client()
	cabi := d.ClientAbi()

	cases := make([]string, len(info.Variants))
	for i := range info.Variants {
		v := &info.Variants[i]
		if len(v.Shape.Fields) == 0 {
			cases[i] = "    case " + lowerCamel(v.Name)
			continue
		}
		params := make([]string, len(fieldDescs[i]))
		for j, fd := range fieldDescs[i] {
			params[j] = fd.Client()
		}
		cases[i] = fmt.Sprintf("    case %s(%s)", lowerCamel(v.Name), strings.Join(params, ", "))
	}
	fmt.Fprintf(&g.swiftBuf, "public enum %s {\n%s\n}\n\n", client, strings.Join(cases, "\n"))

	store := make([]string, 0, len(info.Variants))
	for i := range info.Variants {
		v := &info.Variants[i]
		caseName := lowerCamel(v.Name)
		if len(v.Shape.Fields) == 0 {
			store = append(store, fmt.Sprintf(
				"        case .%s:\n            abi.tag = %d\n            withUnsafeMutableBytes(of: &abi.payload) { raw in\n                raw.storeBytes(of: UInt8(%d), toByteOffset: 0, as: UInt8.self)\n            }",
				caseName, i, bridged.PlaceholderValue))
			continue
		}
		binds := make([]string, len(fieldDescs[i]))
		writes := make([]string, len(fieldDescs[i]))
		for j, fd := range fieldDescs[i] {
			binds[j] = fmt.Sprintf("v%d", j)
			writes[j] = fmt.Sprintf("                raw.storeBytes(of: %s, toByteOffset: %d, as: %s.self)",
				fd.ClientToAbi(fmt.Sprintf("v%d", j)), abi.Variants[i].Offsets[j], swiftSlotType(fd))
		}
		store = append(store, fmt.Sprintf(
			"        case let .%s(%s):\n            abi.tag = %d\n            withUnsafeMutableBytes(of: &abi.payload) { raw in\n%s\n            }",
			caseName, strings.Join(binds, ", "), i, strings.Join(writes, "\n")))
	}
	if err := checkArms(info, len(store)); err != nil {
		return err
	}
	fmt.Fprintf(&g.swiftBuf,
		"extension %s {\n    @inline(__always)\n    func intoFfiRepr() -> %s {\n        var abi = %s()\n        switch self {\n%s\n        }\n        return abi\n    }\n}\n\n",
		client, cabi, cabi, strings.Join(store, "\n"))

	load := make([]string, 0, len(info.Variants))
	for i := range info.Variants {
		v := &info.Variants[i]
		caseName := lowerCamel(v.Name)
		if len(v.Shape.Fields) == 0 {
			load = append(load, fmt.Sprintf("        case %d:\n            return %s.%s", i, client, caseName))
			continue
		}
		args := make([]string, len(fieldDescs[i]))
		for j, fd := range fieldDescs[i] {
			args[j] = fd.AbiToClient(fmt.Sprintf("raw.load(fromByteOffset: %d, as: %s.self)",
				abi.Variants[i].Offsets[j], swiftSlotType(fd)))
		}
		load = append(load, fmt.Sprintf(
			"        case %d:\n            return withUnsafeBytes(of: self.payload) { raw in\n                %s.%s(%s)\n            }",
			i, client, caseName, strings.Join(args, ", ")))
	}
	if err := checkArms(info, len(load)); err != nil {
		return err
	}
	fmt.Fprintf(&g.swiftBuf,
		"extension %s {\n    @inline(__always)\n    func intoSwiftRepr() -> %s {\n        switch self.tag {\n%s\n        default:\n            fatalError(\"%s: invalid tag \\(self.tag)\")\n        }\n    }\n}\n\n",
		cabi, client, strings.Join(load, "\n"), client)
	return nil
}

// slotEligible reports whether a value of this class can be embedded
// in an enum payload slot. Slots hold fixed-width scalars and box
// pointers; aggregates need their own conversion machinery and stay
// outside payloads.
func slotEligible(d *bridged.Desc) bool {
	switch d.Class {
	case bridged.ClassPrim, bridged.ClassText, bridged.ClassVec, bridged.ClassExtern:
		return true
	case bridged.ClassEnum:
		return !d.EnumHasData && !d.Ref.IsExternal()
	default:
		return false
	}
}

func checkArms(info *decl.EnumInfo, arms int) error {
	if arms != len(info.Variants) {
		return &ArmCountError{Enum: info.Name, Arms: arms, Variants: len(info.Variants)}
	}
	return nil
}

// goSlotPut renders the Go statement storing one field into the
// payload of ABI value a. Boxes cross as handles, data-free enums as
// their tag byte.
func goSlotPut(d *bridged.Desc, off int, expr string) string {
	switch d.Class {
	case bridged.ClassPrim:
		return fmt.Sprintf("ferryrt.Put%s(a.Payload[:], %d, %s)", slotSuffixes[d.Prim], off, expr)
	case bridged.ClassText, bridged.ClassVec:
		return fmt.Sprintf("ferryrt.PutHandle(a.Payload[:], %d, %s.Handle())", off, d.NativeToAbi(expr))
	case bridged.ClassExtern:
		return fmt.Sprintf("ferryrt.PutHandle(a.Payload[:], %d, %s)", off, d.NativeToAbi(expr))
	case bridged.ClassEnum:
		return fmt.Sprintf("ferryrt.PutU8(a.Payload[:], %d, %s.Tag)", off, d.NativeToAbi(expr))
	default:
		return ""
	}
}

// goSlotGet renders the Go expression reading one field back out of
// the payload of ABI value a.
func goSlotGet(d *bridged.Desc, off int) string {
	switch d.Class {
	case bridged.ClassPrim:
		return fmt.Sprintf("ferryrt.Get%s(a.Payload[:], %d)", slotSuffixes[d.Prim], off)
	case bridged.ClassText:
		return d.AbiToNative(fmt.Sprintf("ferryrt.StringFromHandle(ferryrt.GetHandle(a.Payload[:], %d))", off))
	case bridged.ClassVec:
		return d.AbiToNative(fmt.Sprintf("ferryrt.VecFromHandle(ferryrt.GetHandle(a.Payload[:], %d))", off))
	case bridged.ClassExtern:
		return d.AbiToNative(fmt.Sprintf("ferryrt.GetHandle(a.Payload[:], %d)", off))
	case bridged.ClassEnum:
		return d.AbiToNative(fmt.Sprintf("%s{Tag: ferryrt.GetU8(a.Payload[:], %d)}", d.GoAbi(), off))
	default:
		return ""
	}
}

// swiftSlotType names the Swift type a slot is stored and loaded as.
func swiftSlotType(d *bridged.Desc) string {
	switch d.Class {
	case bridged.ClassPrim:
		return d.Client()
	case bridged.ClassEnum:
		return d.ClientAbi()
	default:
		return "UnsafeMutableRawPointer?"
	}
}

var slotSuffixes = [...]string{
	decl.PrimBool: "Bool",
	decl.PrimI8:   "I8",
	decl.PrimI16:  "I16",
	decl.PrimI32:  "I32",
	decl.PrimI64:  "I64",
	decl.PrimU8:   "U8",
	decl.PrimU16:  "U16",
	decl.PrimU32:  "U32",
	decl.PrimU64:  "U64",
	decl.PrimF32:  "F32",
	decl.PrimF64:  "F64",
}
