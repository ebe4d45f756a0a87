package layout

import (
	"errors"
	"reflect"
	"testing"

	"ferry/internal/decl"
)

func layoutRegistry() *decl.Registry {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name: "Mixed",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "flag", Index: 0, Type: decl.Prim{Kind: decl.PrimI8}},
			{Name: "count", Index: 1, Type: decl.Prim{Kind: decl.PrimI32}},
			{Name: "ok", Index: 2, Type: decl.Prim{Kind: decl.PrimBool}},
		}},
	})
	reg.AddStruct(decl.StructInfo{
		Name:  "Empty",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed},
	})
	reg.AddStruct(decl.StructInfo{
		Name: "Remote",
		Ref:  decl.Ref{Kind: decl.RefExternal, Path: "shared", Alias: "shared"},
	})
	reg.AddStruct(decl.StructInfo{
		Name: "Loop",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "next", Index: 0, Type: decl.Named{Name: "Loop"}},
		}},
	})
	reg.AddStruct(decl.StructInfo{
		Name: "PingA",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "b", Index: 0, Type: decl.Named{Name: "PingB"}},
		}},
	})
	reg.AddStruct(decl.StructInfo{
		Name: "PingB",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "a", Index: 0, Type: decl.Named{Name: "PingA"}},
		}},
	})
	reg.AddEnum(decl.EnumInfo{Name: "Color", Variants: []decl.VariantInfo{
		{Name: "Red", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
		{Name: "Green", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
	}})
	reg.AddEnum(decl.EnumInfo{Name: "Shape", Variants: []decl.VariantInfo{
		{Name: "Circle", Shape: decl.FieldShape{Kind: decl.ShapeUnnamed, Fields: []decl.Field{
			{Index: 0, Type: decl.Prim{Kind: decl.PrimF64}},
		}}},
		{Name: "Rect", Shape: decl.FieldShape{Kind: decl.ShapeUnnamed, Fields: []decl.Field{
			{Index: 0, Type: decl.Prim{Kind: decl.PrimF64}},
			{Index: 1, Type: decl.Prim{Kind: decl.PrimF64}},
		}}},
		{Name: "None", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
	}})
	reg.AddEnum(decl.EnumInfo{Name: "SelfRef", Variants: []decl.VariantInfo{
		{Name: "Wrap", Shape: decl.FieldShape{Kind: decl.ShapeUnnamed, Fields: []decl.Field{
			{Index: 0, Type: decl.Named{Name: "SelfRef"}},
		}}},
	}})
	reg.AddExtern(decl.ExternInfo{Name: "Counter"})
	return reg
}

func testEngine() *Engine {
	return New(Arm64AppleDarwin(), layoutRegistry())
}

func mustLayout(t *testing.T, e *Engine, expr decl.TypeExpr) TypeLayout {
	t.Helper()
	l, err := e.LayoutOf(expr)
	if err != nil {
		t.Fatalf("LayoutOf(%s): %v", expr.String(), err)
	}
	return l
}

func TestScalarLayouts(t *testing.T) {
	e := testEngine()
	cases := []struct {
		kind decl.PrimKind
		size int
	}{
		{decl.PrimBool, 1},
		{decl.PrimI8, 1},
		{decl.PrimI16, 2},
		{decl.PrimI32, 4},
		{decl.PrimI64, 8},
		{decl.PrimU16, 2},
		{decl.PrimU64, 8},
		{decl.PrimF32, 4},
		{decl.PrimF64, 8},
	}
	for _, tc := range cases {
		l := mustLayout(t, e, decl.Prim{Kind: tc.kind})
		if l.Size != tc.size || l.Align != tc.size {
			t.Errorf("%s: size/align = %d/%d, want %d/%d",
				tc.kind.Token(), l.Size, l.Align, tc.size, tc.size)
		}
	}
}

func TestBoxedLayouts(t *testing.T) {
	e := testEngine()
	for _, expr := range []decl.TypeExpr{
		decl.Text{},
		decl.Slice{Elem: decl.Prim{Kind: decl.PrimI32}},
		decl.Named{Name: "Counter"},
	} {
		l := mustLayout(t, e, expr)
		if l.Size != 8 || l.Align != 8 {
			t.Errorf("%s: size/align = %d/%d, want pointer 8/8", expr.String(), l.Size, l.Align)
		}
	}
}

func TestStructFieldOffsets(t *testing.T) {
	e := testEngine()
	l := mustLayout(t, e, decl.Named{Name: "Mixed"})
	if l.Size != 12 || l.Align != 4 {
		t.Fatalf("Mixed: size/align = %d/%d, want 12/4", l.Size, l.Align)
	}
	if want := []int{0, 4, 8}; !reflect.DeepEqual(l.FieldOffsets, want) {
		t.Fatalf("Mixed offsets = %v, want %v", l.FieldOffsets, want)
	}
}

func TestTupleLayout(t *testing.T) {
	e := testEngine()
	l := mustLayout(t, e, decl.Tuple{Elems: []decl.TypeExpr{
		decl.Prim{Kind: decl.PrimI32},
		decl.Text{},
	}})
	if l.Size != 16 || l.Align != 8 {
		t.Fatalf("tuple: size/align = %d/%d, want 16/8", l.Size, l.Align)
	}
	if want := []int{0, 8}; !reflect.DeepEqual(l.FieldOffsets, want) {
		t.Fatalf("tuple offsets = %v, want %v", l.FieldOffsets, want)
	}
}

func TestEmptyStructCarriesPlaceholderByte(t *testing.T) {
	e := testEngine()
	l := mustLayout(t, e, decl.Named{Name: "Empty"})
	if l.Size != 1 || l.Align != 1 {
		t.Fatalf("Empty: size/align = %d/%d, want 1/1", l.Size, l.Align)
	}
}

func TestDataFreeEnumIsOneByte(t *testing.T) {
	e := testEngine()
	l := mustLayout(t, e, decl.Named{Name: "Color"})
	if l.Size != 1 || l.Align != 1 || l.TagSize != 1 {
		t.Fatalf("Color: size/align/tag = %d/%d/%d, want 1/1/1", l.Size, l.Align, l.TagSize)
	}
}

func TestEnumAbiGeometry(t *testing.T) {
	e := testEngine()
	reg := e.Reg
	id, _ := reg.Lookup("Shape")
	abi, err := e.EnumAbi(reg.Enum(id))
	if err != nil {
		t.Fatalf("EnumAbi(Shape): %v", err)
	}
	if abi.TagSize != 4 || abi.PayloadAlign != 8 || abi.PayloadOffset != 8 {
		t.Fatalf("Shape tag/palign/poffset = %d/%d/%d, want 4/8/8",
			abi.TagSize, abi.PayloadAlign, abi.PayloadOffset)
	}
	if abi.PayloadSize != 16 || abi.Size != 24 || abi.Align != 8 {
		t.Fatalf("Shape psize/size/align = %d/%d/%d, want 16/24/8",
			abi.PayloadSize, abi.Size, abi.Align)
	}
	if len(abi.Variants) != 3 {
		t.Fatalf("Shape variants = %d, want 3", len(abi.Variants))
	}
	if abi.Variants[0].Size != 8 || !reflect.DeepEqual(abi.Variants[0].Offsets, []int{0}) {
		t.Fatalf("Circle slot = %+v", abi.Variants[0])
	}
	if abi.Variants[1].Size != 16 || !reflect.DeepEqual(abi.Variants[1].Offsets, []int{0, 8}) {
		t.Fatalf("Rect slot = %+v", abi.Variants[1])
	}
	// Безданный вариант занимает один байт-заглушку.
	if abi.Variants[2].Size != 1 || len(abi.Variants[2].Offsets) != 0 {
		t.Fatalf("None slot = %+v", abi.Variants[2])
	}
}

func TestDataFreeEnumAbi(t *testing.T) {
	e := testEngine()
	reg := e.Reg
	id, _ := reg.Lookup("Color")
	abi, err := e.EnumAbi(reg.Enum(id))
	if err != nil {
		t.Fatalf("EnumAbi(Color): %v", err)
	}
	if abi.Size != 1 || abi.TagSize != 1 || abi.PayloadSize != 0 {
		t.Fatalf("Color abi = %+v", abi)
	}
	for i, v := range abi.Variants {
		if v.Size != 0 {
			t.Fatalf("Color variant %d size = %d, want 0", i, v.Size)
		}
	}
}

func TestOptionAbi(t *testing.T) {
	e := testEngine()
	inner := mustLayout(t, e, decl.Named{Name: "Shape"})
	opt := e.OptionAbi(inner)
	if opt.ValOffset != 8 || opt.Size != 32 || opt.Align != 8 {
		t.Fatalf("option(Shape) = %+v, want offset 8 size 32 align 8", opt)
	}
	scalar := mustLayout(t, e, decl.Prim{Kind: decl.PrimU8})
	opt = e.OptionAbi(scalar)
	if opt.ValOffset != 1 || opt.Size != 2 || opt.Align != 1 {
		t.Fatalf("option(uint8) = %+v, want offset 1 size 2 align 1", opt)
	}
}

func TestRecursiveStructFails(t *testing.T) {
	e := testEngine()
	_, err := e.LayoutOf(decl.Named{Name: "Loop"})
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Kind != ErrRecursive {
		t.Fatalf("LayoutOf(Loop) err = %v, want recursive", err)
	}
	if len(lerr.Cycle) == 0 {
		t.Fatalf("Loop cycle is empty")
	}
}

func TestMutualRecursionFails(t *testing.T) {
	e := testEngine()
	_, err := e.LayoutOf(decl.Named{Name: "PingA"})
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Kind != ErrRecursive {
		t.Fatalf("LayoutOf(PingA) err = %v, want recursive", err)
	}
}

func TestRecursiveEnumFails(t *testing.T) {
	e := testEngine()
	reg := e.Reg
	id, _ := reg.Lookup("SelfRef")
	_, err := e.EnumAbi(reg.Enum(id))
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Kind != ErrRecursive {
		t.Fatalf("EnumAbi(SelfRef) err = %v, want recursive", err)
	}
}

func TestExternalLayoutRejected(t *testing.T) {
	e := testEngine()
	_, err := e.LayoutOf(decl.Named{Name: "Remote"})
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Kind != ErrExternal {
		t.Fatalf("LayoutOf(Remote) err = %v, want external", err)
	}
}

func TestUnresolvedLayoutRejected(t *testing.T) {
	e := testEngine()
	_, err := e.LayoutOf(decl.Named{Name: "Ghost"})
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Kind != ErrUnresolved {
		t.Fatalf("LayoutOf(Ghost) err = %v, want unresolved", err)
	}
}

func TestLayoutMemoized(t *testing.T) {
	e := testEngine()
	first := mustLayout(t, e, decl.Named{Name: "Mixed"})
	second := mustLayout(t, e, decl.Named{Name: "Mixed"})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("memoized layout differs: %+v vs %+v", first, second)
	}
	if len(e.cache) == 0 {
		t.Fatalf("cache stayed empty")
	}
}
