package gen

import (
	"errors"
	"fmt"

	"ferry/internal/bridged"
	"ferry/internal/decl"
	"ferry/internal/layout"
)

// optionArtifacts renders the presence-flag wrapper around one local
// declared type. Collections hand options back from pop and get, so
// every local struct and enum carries the wrapper whether or not the
// schema mentions absence.
//
// A field graph that reaches into another module has no computable
// layout here, so the wrapper cannot be padded correctly; the family
// is skipped and the second return is false. Definitions and
// conversions of the type itself are unaffected.
func (g *Generator) optionArtifacts(d *bridged.Desc) (bool, error) {
	inner, err := g.lay.LayoutOf(decl.Named{Name: d.Name})
	if err != nil {
		var lerr *layout.Error
		if errors.As(err, &lerr) && lerr.Kind == layout.ErrExternal {
			return false, nil
		}
		return false, err
	}
	opt := g.lay.OptionAbi(inner)
	scheme := g.cfg.Scheme

	goOpt := scheme.GoIdent(scheme.OptionName(d.Name)...)
	goSome := scheme.GoIdent(append(scheme.OptionName(d.Name), "some")...)
	goNone := scheme.GoIdent(append(scheme.OptionName(d.Name), "none")...)

	if pad := opt.ValOffset - 1; pad > 0 {
		fmt.Fprintf(&g.goBuf, "type %s struct {\n\tIsSome bool\n\t_ [%d]byte\n\tVal %s\n}\n\n",
			goOpt, pad, d.GoAbi())
	} else {
		fmt.Fprintf(&g.goBuf, "type %s struct {\n\tIsSome bool\n\tVal %s\n}\n\n", goOpt, d.GoAbi())
	}
	fmt.Fprintf(&g.goBuf, "func %s(v %s) %s {\n\treturn %s{IsSome: true, Val: %s}\n}\n\n",
		goSome, d.GoNative(), goOpt, goOpt, d.NativeToAbi("v"))
	fmt.Fprintf(&g.goBuf, "func %s() %s {\n\treturn %s{}\n}\n\n", goNone, goOpt, goOpt)
	fmt.Fprintf(&g.goBuf,
		"func (o %s) IntoNative() (%s, bool) {\n\tif !o.IsSome {\n\t\tvar zero %s\n\t\treturn zero, false\n\t}\n\treturn %s, true\n}\n\n",
		goOpt, d.GoNative(), d.GoNative(), d.AbiToNative("o.Val"))

	if err := g.ensureOptionTypedef(d); err != nil {
		return false, err
	}

	copt := scheme.CSymbol(scheme.OptionName(d.Client())...)
	fmt.Fprintf(&g.swiftBuf,
		"extension Optional where Wrapped == %s {\n    @inline(__always)\n    func intoFfiRepr() -> %s {\n        var abi = %s()\n        if let val = self {\n            abi.is_some = true\n            abi.val = %s\n        }\n        return abi\n    }\n}\n\n",
		d.Client(), copt, copt, d.ClientToAbi("val"))
	fmt.Fprintf(&g.swiftBuf,
		"extension %s {\n    @inline(__always)\n    func intoSwiftRepr() -> %s? {\n        if self.is_some {\n            return %s\n        }\n        return nil\n    }\n}\n\n",
		copt, d.Client(), d.AbiToClient("self.val"))
	return true, nil
}

// vecArtifacts renders the handle-based collection family for one
// element type. The boxed vector itself lives in the support library;
// these six functions only route the element through it.
func (g *Generator) vecArtifacts(d *bridged.Desc) error {
	scheme := g.cfg.Scheme
	goVec := scheme.VecName(d.Name)
	cVec := scheme.VecName(d.Client())
	native := d.GoNative()
	goOpt := scheme.GoIdent(scheme.OptionName(d.Name)...)
	optSome := scheme.GoIdent(append(scheme.OptionName(d.Name), "some")...)
	optNone := scheme.GoIdent(append(scheme.OptionName(d.Name), "none")...)

	fmt.Fprintf(&g.goBuf, "func %s() ferryrt.Handle {\n\treturn ferryrt.NewVec[%s](nil).Handle()\n}\n\n",
		scheme.GoIdent(goVec, "new"), native)
	fmt.Fprintf(&g.goBuf, "func %s(h ferryrt.Handle) {\n\tferryrt.FreeVec(h)\n}\n\n",
		scheme.GoIdent(goVec, "free"))
	fmt.Fprintf(&g.goBuf, "func %s(h ferryrt.Handle) uint64 {\n\treturn uint64(ferryrt.VecLen(ferryrt.ResolveHandle[*ferryrt.Vec](h)))\n}\n\n",
		scheme.GoIdent(goVec, "len"))
	fmt.Fprintf(&g.goBuf, "func %s(h ferryrt.Handle, v %s) {\n\tferryrt.VecPush(ferryrt.ResolveHandle[*ferryrt.Vec](h), %s)\n}\n\n",
		scheme.GoIdent(goVec, "push"), d.GoAbi(), d.AbiToNative("v"))
	fmt.Fprintf(&g.goBuf,
		"func %s(h ferryrt.Handle) %s {\n\tv, ok := ferryrt.VecPop[%s](ferryrt.ResolveHandle[*ferryrt.Vec](h))\n\tif !ok {\n\t\treturn %s()\n\t}\n\treturn %s(v)\n}\n\n",
		scheme.GoIdent(goVec, "pop"), goOpt, native, optNone, optSome)
	fmt.Fprintf(&g.goBuf,
		"func %s(h ferryrt.Handle, i uint64) %s {\n\tv, ok := ferryrt.VecGet[%s](ferryrt.ResolveHandle[*ferryrt.Vec](h), int(i))\n\tif !ok {\n\t\treturn %s()\n\t}\n\treturn %s(v)\n}\n\n",
		scheme.GoIdent(goVec, "get"), goOpt, native, optNone, optSome)
	g.needsRuntime = true

	copt := scheme.CSymbol(scheme.OptionName(d.Client())...)
	g.hdr.addDecl(fmt.Sprintf("void* %s(void);", scheme.CSymbol(cVec, "new")))
	g.hdr.addDecl(fmt.Sprintf("void %s(void* vec);", scheme.CSymbol(cVec, "free")))
	g.hdr.addDecl(fmt.Sprintf("uint64_t %s(void* vec);", scheme.CSymbol(cVec, "len")))
	g.hdr.addDecl(fmt.Sprintf("void %s(void* vec, %s val);", scheme.CSymbol(cVec, "push"), d.CDecl()))
	g.hdr.addDecl(fmt.Sprintf("%s %s(void* vec);", copt, scheme.CSymbol(cVec, "pop")))
	g.hdr.addDecl(fmt.Sprintf("%s %s(void* vec, uint64_t index);", copt, scheme.CSymbol(cVec, "get")))

	el := d.Client()
	fmt.Fprintf(&g.swiftBuf, `extension %s: FerryVecElement {
    public static func ferryVecNew() -> UnsafeMutableRawPointer? {
        %s()
    }

    public static func ferryVecFree(_ ptr: UnsafeMutableRawPointer?) {
        %s(ptr)
    }

    public static func ferryVecLen(_ ptr: UnsafeMutableRawPointer?) -> UInt64 {
        %s(ptr)
    }

    public static func ferryVecPush(_ ptr: UnsafeMutableRawPointer?, _ value: %s) {
        %s(ptr, %s)
    }

    public static func ferryVecPop(_ ptr: UnsafeMutableRawPointer?) -> %s? {
        %s(ptr).intoSwiftRepr()
    }

    public static func ferryVecGet(_ ptr: UnsafeMutableRawPointer?, _ index: UInt64) -> %s? {
        %s(ptr, index).intoSwiftRepr()
    }
}

`,
		el,
		scheme.CSymbol(cVec, "new"),
		scheme.CSymbol(cVec, "free"),
		scheme.CSymbol(cVec, "len"),
		el, scheme.CSymbol(cVec, "push"), d.ClientToAbi("value"),
		el, scheme.CSymbol(cVec, "pop"),
		el, scheme.CSymbol(cVec, "get"))
	return nil
}

// freeArtifacts renders the drop entry point for an ABI value that
// owns text. A client that decodes the value consumes its boxes along
// the way; this path reclaims them when the value is dropped
// undecoded.
func (g *Generator) freeArtifacts(d *bridged.Desc) {
	scheme := g.cfg.Scheme
	var goName, cName string
	if d.Tuple {
		goName = scheme.GoIdent(append(scheme.TupleName(d.Name), "free")...)
		cName = scheme.CSymbol(append(scheme.TupleName(d.Name), "free")...)
	} else {
		goName = scheme.GoIdent(d.Name, "free")
		cName = scheme.CSymbol(d.Client(), "free")
	}
	fmt.Fprintf(&g.goBuf, "func %s(a %s) {\n\t_ = a.IntoNative()\n}\n\n", goName, d.GoAbi())
	g.hdr.addDecl(fmt.Sprintf("void %s(%s val);", cName, d.CDecl()))
}

// emitExtern renders one opaque handle type. The bridge never looks
// inside it: the native side pins the value behind a handle, the
// client wraps the pointer in a class that releases it on deinit.
func (g *Generator) emitExtern(id decl.TypeID) error {
	info := g.reg.Extern(id)
	if info.Ref.IsExternal() {
		return nil
	}
	d, err := g.cls.ClassifyName(info.Name)
	if err != nil {
		return err
	}
	scheme := g.cfg.Scheme
	cFree := scheme.CSymbol(d.Client(), "free")

	fmt.Fprintf(&g.goBuf, "func %s(h ferryrt.Handle) {\n\tferryrt.FreeHandle(h)\n}\n\n",
		scheme.GoIdent(info.Name, "free"))
	g.needsRuntime = true

	g.hdr.addDecl(fmt.Sprintf("void %s(void* handle);", cFree))

	fmt.Fprintf(&g.swiftBuf,
		"public class %s {\n    var ptr: UnsafeMutableRawPointer?\n\n    public init(ptr: UnsafeMutableRawPointer?) {\n        self.ptr = ptr\n    }\n\n    deinit {\n        %s(ptr)\n    }\n}\n\n",
		d.Client(), cFree)
	return nil
}
