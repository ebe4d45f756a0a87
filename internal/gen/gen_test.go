package gen

import (
	"errors"
	"strings"
	"testing"

	"ferry/internal/bridged"
	"ferry/internal/decl"
	"ferry/internal/layout"
	"ferry/internal/naming"
)

func generate(t *testing.T, reg *decl.Registry) *Output {
	t.Helper()
	out, err := New(Config{Scheme: naming.Default()}, reg).Module()
	if err != nil {
		t.Fatalf("Module: %v", err)
	}
	return out
}

func wantAll(t *testing.T, artifact, name string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(artifact, sub) {
			t.Fatalf("%s artifact missing %q\n---\n%s", name, sub, artifact)
		}
	}
}

func wantNone(t *testing.T, artifact, name string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if strings.Contains(artifact, sub) {
			t.Fatalf("%s artifact must not contain %q\n---\n%s", name, sub, artifact)
		}
	}
}

func pointRegistry() *decl.Registry {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name: "Point",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "x", Index: 0, Type: decl.Prim{Kind: decl.PrimI32}},
			{Name: "y", Index: 1, Type: decl.Prim{Kind: decl.PrimI32}},
		}},
	})
	return reg
}

func TestStructThreeRepresentations(t *testing.T) {
	out := generate(t, pointRegistry())

	wantAll(t, out.GoSource, "go",
		"// Code generated by ferry from module demo. DO NOT EDIT.",
		"package demo",
		"type Point struct {\n\tX int32\n\tY int32\n}",
		"type Ferry_Point struct {\n\tX int32\n\tY int32\n}",
		"func (v Point) IntoAbi() Ferry_Point {\n\tval := v\n\treturn Ferry_Point{X: val.X, Y: val.Y}\n}",
		"func (a Ferry_Point) IntoNative() Point {\n\tval := a\n\treturn Point{X: val.X, Y: val.Y}\n}",
	)
	wantAll(t, out.SwiftSource, "swift",
		"// Generated by ferry from module demo. Do not edit.",
		"public struct Point {\n    public var x: Int32\n    public var y: Int32\n\n    public init(x: Int32, y: Int32) {\n        self.x = x\n        self.y = y\n    }\n}",
		"{ let val = self; return __ferry__$Point(x: val.x, y: val.y) }()",
		"{ let val = self; return Point(x: val.x, y: val.y) }()",
	)
	wantAll(t, out.Header, "header",
		"#ifndef FERRY_DEMO_BRIDGE_H",
		"typedef struct __ferry__$Point { int32_t x; int32_t y; } __ferry__$Point;",
	)
}

func TestStructCollectionFamily(t *testing.T) {
	out := generate(t, pointRegistry())

	wantAll(t, out.GoSource, "go",
		"import (\n\t\"ferry/runtime/ferryrt\"\n)",
		"func Ferry_Vec_Point_new() ferryrt.Handle {\n\treturn ferryrt.NewVec[Point](nil).Handle()\n}",
		"func Ferry_Vec_Point_push(h ferryrt.Handle, v Ferry_Point) {\n\tferryrt.VecPush(ferryrt.ResolveHandle[*ferryrt.Vec](h), v.IntoNative())\n}",
		"func Ferry_Vec_Point_pop(h ferryrt.Handle) Ferry_Option_Point {",
		"return Ferry_Option_Point_none()",
		"return Ferry_Option_Point_some(v)",
	)
	// int32 pair: size 8, align 4, so the flag is padded to offset 4
	wantAll(t, out.GoSource, "go",
		"type Ferry_Option_Point struct {\n\tIsSome bool\n\t_ [3]byte\n\tVal Ferry_Point\n}",
		"func (o Ferry_Option_Point) IntoNative() (Point, bool) {",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Option$Point { bool is_some; __ferry__$Point val; } __ferry__$Option$Point;",
		"void* __ferry__$Vec_Point$new(void);",
		"void __ferry__$Vec_Point$push(void* vec, __ferry__$Point val);",
		"__ferry__$Option$Point __ferry__$Vec_Point$pop(void* vec);",
		"__ferry__$Option$Point __ferry__$Vec_Point$get(void* vec, uint64_t index);",
	)
	wantAll(t, out.SwiftSource, "swift",
		"extension Point: FerryVecElement {",
		"__ferry__$Vec_Point$push(ptr, value.intoFfiRepr())",
		"__ferry__$Vec_Point$pop(ptr).intoSwiftRepr()",
	)
}

func TestTupleSynthesisAndDedup(t *testing.T) {
	reg := decl.NewRegistry("demo")
	pair := decl.Tuple{Elems: []decl.TypeExpr{decl.Prim{Kind: decl.PrimI32}, decl.Text{}}}
	reg.AddStruct(decl.StructInfo{
		Name: "A",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "first", Index: 0, Type: pair},
		}},
	})
	reg.AddStruct(decl.StructInfo{
		Name: "B",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "second", Index: 0, Type: pair},
		}},
	})
	out := generate(t, reg)

	// Один суффикс, одно определение, сколько бы мест ни ссылалось.
	if got := strings.Count(out.GoSource, "type Tuple_int32string struct"); got != 1 {
		t.Fatalf("tuple native defined %d times, want 1", got)
	}
	if got := strings.Count(out.Header, "typedef struct __ferry__$tuple$int32string {"); got != 1 {
		t.Fatalf("tuple typedef emitted %d times, want 1", got)
	}

	wantAll(t, out.GoSource, "go",
		"type Tuple_int32string struct {\n\tF0 int32\n\tF1 string\n}",
		"type Ferry_tuple_int32string struct {\n\tF0 int32\n\tF1 *ferryrt.String\n}",
		"F1: ferryrt.NewString(val.F1)",
		"F1: val.F1.Take()",
		"func Ferry_tuple_int32string_free(a Ferry_tuple_int32string) {\n\t_ = a.IntoNative()\n}",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$tuple$int32string { int32_t _0; void* _1; } __ferry__$tuple$int32string;",
		"void __ferry__$tuple$int32string$free(__ferry__$tuple$int32string val);",
	)
	// The client side sees a real tuple: conversion glue only, no type
	// definition of its own.
	wantNone(t, out.SwiftSource, "swift", "struct __ferry__$tuple$int32string")
	wantAll(t, out.SwiftSource, "swift",
		"public var first: (Int32, String)",
		"first: { let val = val.first; return __ferry__$tuple$int32string(_0: val.0, _1: ferryTextEncode(val.1)) }()",
	)
}

func TestValueEnumArtifacts(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddEnum(decl.EnumInfo{Name: "Color", Variants: []decl.VariantInfo{
		{Name: "Red", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
		{Name: "Green", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
		{Name: "Blue", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
	}})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go",
		"type Color uint8",
		"const (\n\tColorRed Color = iota\n\tColorGreen\n\tColorBlue\n)",
		"type Ferry_Color struct {\n\tTag uint8\n}",
		"case ColorRed:\n\t\treturn Ferry_Color{Tag: 0}",
		"panic(fmt.Sprintf(\"Color: invalid value %d\", uint8(v)))",
		"case 2:\n\t\treturn ColorBlue",
		"panic(fmt.Sprintf(\"Color: invalid tag %d\", a.Tag))",
		// Безданные перечисления единственные среди enum попадают в коллекции.
		"func Ferry_Vec_Color_new() ferryrt.Handle",
	)
	wantAll(t, out.SwiftSource, "swift",
		"public enum Color {\n    case red\n    case green\n    case blue\n}",
		"case .red:\n            return __ferry__$Color(tag: 0)",
		"case 1:\n            return Color.green",
		"fatalError(\"Color: invalid tag \\(self.tag)\")",
		"extension Color: FerryVecElement {",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Color { uint8_t tag; } __ferry__$Color;",
		"typedef struct __ferry__$Option$Color { bool is_some; __ferry__$Color val; } __ferry__$Option$Color;",
		"void* __ferry__$Vec_Color$new(void);",
	)
}

func shapeRegistry() *decl.Registry {
	reg := decl.NewRegistry("demo")
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
	return reg
}

func TestDataEnumArtifacts(t *testing.T) {
	out := generate(t, shapeRegistry())

	wantAll(t, out.GoSource, "go",
		"type Shape interface {\n\tisShape()\n\tIntoAbi() Ferry_Shape\n}",
		"type ShapeCircle struct {\n\tF0 float64\n}",
		"type ShapeRect struct {\n\tF0 float64\n\tF1 float64\n}",
		"type ShapeNone struct{}",
		"func (ShapeCircle) isShape() {}",
		// payload выравнивается по 8, тег занимает 4 и добивается паддингом
		"type Ferry_Shape struct {\n\tTag uint32\n\t_ [4]byte\n\tPayload [16]byte\n}",
		"ferryrt.PutF64(a.Payload[:], 0, val.F0)",
		"ferryrt.PutF64(a.Payload[:], 8, val.F1)",
		"a.Payload[0] = 123",
		"case 0:\n\t\treturn ShapeCircle{F0: ferryrt.GetF64(a.Payload[:], 0)}",
		"case 2:\n\t\treturn ShapeNone{}",
		"panic(fmt.Sprintf(\"Shape: invalid tag %d\", a.Tag))",
	)
	wantNone(t, out.GoSource, "go", "Ferry_Vec_Shape")

	wantAll(t, out.SwiftSource, "swift",
		"public enum Shape {\n    case circle(Double)\n    case rect(Double, Double)\n    case none\n}",
		"var abi = __ferry__$Shape()",
		"case let .circle(v0):\n            abi.tag = 0",
		"raw.storeBytes(of: v0, toByteOffset: 0, as: Double.self)",
		"raw.storeBytes(of: v1, toByteOffset: 8, as: Double.self)",
		"raw.storeBytes(of: UInt8(123), toByteOffset: 0, as: UInt8.self)",
		"return withUnsafeBytes(of: self.payload) { raw in\n                Shape.circle(raw.load(fromByteOffset: 0, as: Double.self))\n            }",
		"return Shape.none",
		"fatalError(\"Shape: invalid tag \\(self.tag)\")",
	)
	wantNone(t, out.SwiftSource, "swift", "FerryVec<Shape>", "extension Shape: FerryVecElement")

	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Shape { uint32_t tag; union { uint8_t bytes[16]; uint64_t _align; } payload; } __ferry__$Shape;",
	)
	wantNone(t, out.Header, "header", "__ferry__$Vec_Shape")
}

func TestDataEnumOptionGeometry(t *testing.T) {
	out := generate(t, shapeRegistry())

	// Size 24, align 8: the flag byte is padded out to the value offset.
	wantAll(t, out.GoSource, "go",
		"type Ferry_Option_Shape struct {\n\tIsSome bool\n\t_ [7]byte\n\tVal Ferry_Shape\n}",
		"func Ferry_Option_Shape_some(v Shape) Ferry_Option_Shape {\n\treturn Ferry_Option_Shape{IsSome: true, Val: v.IntoAbi()}\n}",
		"var zero Shape",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Option$Shape { bool is_some; __ferry__$Shape val; } __ferry__$Option$Shape;",
	)
	wantAll(t, out.SwiftSource, "swift",
		"extension Optional where Wrapped == Shape {",
		"abi.is_some = true\n            abi.val = val.intoFfiRepr()",
	)
}

func TestEnumTextPayloadOwnership(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddEnum(decl.EnumInfo{Name: "Msg", Variants: []decl.VariantInfo{
		{Name: "Say", Shape: decl.FieldShape{Kind: decl.ShapeUnnamed, Fields: []decl.Field{
			{Index: 0, Type: decl.Text{}},
		}}},
		{Name: "Quit", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
	}})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go",
		"ferryrt.PutHandle(a.Payload[:], 0, ferryrt.NewString(val.F0).Handle())",
		"ferryrt.StringFromHandle(ferryrt.GetHandle(a.Payload[:], 0)).Take()",
		// текст внутри значения делает обязательным путь утилизации
		"func Ferry_Msg_free(a Ferry_Msg) {\n\t_ = a.IntoNative()\n}",
	)
	wantAll(t, out.SwiftSource, "swift",
		"raw.storeBytes(of: ferryTextEncode(v0), toByteOffset: 0, as: UnsafeMutableRawPointer?.self)",
		"Msg.say(ferryTextDecode(raw.load(fromByteOffset: 0, as: UnsafeMutableRawPointer?.self)))",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Msg { uint32_t tag; union { uint8_t bytes[8]; uint64_t _align; } payload; } __ferry__$Msg;",
		"void __ferry__$Msg$free(__ferry__$Msg val);",
	)
}

func TestOnlyEncodingStruct(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{Name: "Empty", Shape: decl.FieldShape{Kind: decl.ShapeNamed}})
	reg.AddStruct(decl.StructInfo{
		Name: "Wrapper",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "e", Index: 0, Type: decl.Named{Name: "Empty"}},
		}},
	})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go",
		"type Empty struct{}",
		"type Ferry_Empty struct {\n\tPrivate uint8\n}",
		"func (v Empty) IntoAbi() Ferry_Empty {\n\t_ = v\n\treturn Ferry_Empty{Private: 123}\n}",
		"func (a Ferry_Empty) IntoNative() Empty {\n\t_ = a\n\treturn Empty{}\n}",
		// поле такого типа кодируется и отбрасывается, не читается
		"E: func(_ Empty) Ferry_Empty { return Ferry_Empty{Private: 123} }(val.E)",
		"E: func(_ Ferry_Empty) Empty { return Empty{} }(val.E)",
	)
	wantAll(t, out.SwiftSource, "swift",
		"public struct Empty {\n    public init() {}\n}",
		"e: { let _ = val.e; return __ferry__$Empty(_private: 123) }()",
		"e: { let _ = val.e; return Empty() }()",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Empty { uint8_t _private; } __ferry__$Empty;",
	)
}

func TestTextFieldMakesFreePath(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name: "Label",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "text", Index: 0, Type: decl.Text{}},
		}},
	})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go",
		"type Label struct {\n\tText string\n}",
		"type Ferry_Label struct {\n\tText *ferryrt.String\n}",
		"Text: ferryrt.NewString(val.Text)",
		"Text: val.Text.Take()",
		"func Ferry_Label_free(a Ferry_Label) {\n\t_ = a.IntoNative()\n}",
	)
	wantAll(t, out.SwiftSource, "swift",
		"text: ferryTextEncode(val.text)",
		"text: ferryTextDecode(val.text)",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Label { void* text; } __ferry__$Label;",
		"void __ferry__$Label$free(__ferry__$Label val);",
	)
}

func TestExternHandleArtifacts(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddExtern(decl.ExternInfo{Name: "Counter"})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go",
		"func Ferry_Counter_free(h ferryrt.Handle) {\n\tferryrt.FreeHandle(h)\n}",
	)
	wantAll(t, out.Header, "header",
		"void __ferry__$Counter$free(void* handle);",
	)
	wantAll(t, out.SwiftSource, "swift",
		"public class Counter {\n    var ptr: UnsafeMutableRawPointer?",
		"deinit {\n        __ferry__$Counter$free(ptr)\n    }",
	)
}

func TestExternPayloadSlot(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddExtern(decl.ExternInfo{Name: "Counter"})
	reg.AddEnum(decl.EnumInfo{Name: "Holder", Variants: []decl.VariantInfo{
		{Name: "Held", Shape: decl.FieldShape{Kind: decl.ShapeUnnamed, Fields: []decl.Field{
			{Index: 0, Type: decl.Named{Name: "Counter"}},
		}}},
		{Name: "Idle", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
	}})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go",
		"ferryrt.PutHandle(a.Payload[:], 0, ferryrt.NewHandle(val.F0))",
		"ferryrt.ResolveHandle[*Counter](ferryrt.GetHandle(a.Payload[:], 0))",
	)
	wantAll(t, out.SwiftSource, "swift",
		"case held(Counter)",
		"raw.storeBytes(of: v0.ptr, toByteOffset: 0, as: UnsafeMutableRawPointer?.self)",
		"Holder.held(Counter(ptr: raw.load(fromByteOffset: 0, as: UnsafeMutableRawPointer?.self)))",
	)
}

func TestExternalReferenceQualifies(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddImport(decl.Import{Path: "app/shared", Alias: "shared"})
	reg.AddStruct(decl.StructInfo{
		Name: "Remote",
		Ref:  decl.Ref{Kind: decl.RefExternal, Path: "app/shared", Alias: "shared"},
	})
	reg.AddStruct(decl.StructInfo{
		Name: "Holder",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "r", Index: 0, Type: decl.Named{Name: "Remote"}},
		}},
	})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go",
		"shared \"app/shared\"",
		"R shared.Remote",
		"R shared.Ferry_Remote",
		"R: val.R.IntoAbi()",
		"R: val.R.IntoNative()",
	)
	// Владелец определения печатает typedef сам; здесь только ссылка.
	wantNone(t, out.Header, "header", "typedef struct __ferry__$Remote")
	wantAll(t, out.Header, "header", "typedef struct __ferry__$Holder { __ferry__$Remote r; } __ferry__$Holder;")
	wantNone(t, out.GoSource, "go", "Ferry_Option_Remote", "Ferry_Vec_Remote")
	// Обёртку с паддингом не вычислить без размера внешнего поля, и
	// семейство опций вместе с коллекциями здесь не печатается.
	wantNone(t, out.GoSource, "go", "Ferry_Option_Holder", "Ferry_Vec_Holder")
	wantAll(t, out.SwiftSource, "swift", "r: val.r.intoFfiRepr()")
}

func TestClientNameRenamesSharedSymbols(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name:       "Point",
		ClientName: "Vector2",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "x", Index: 0, Type: decl.Prim{Kind: decl.PrimI32}},
		}},
	})
	out := generate(t, reg)

	wantAll(t, out.GoSource, "go", "type Point struct", "type Ferry_Point struct")
	wantNone(t, out.GoSource, "go", "Vector2")
	wantAll(t, out.SwiftSource, "swift",
		"public struct Vector2 {",
		"func intoFfiRepr() -> __ferry__$Vector2",
	)
	wantAll(t, out.Header, "header",
		"typedef struct __ferry__$Vector2 { int32_t x; } __ferry__$Vector2;",
		"typedef struct __ferry__$Option$Vector2 { bool is_some; __ferry__$Vector2 val; } __ferry__$Option$Vector2;",
		"void* __ferry__$Vec_Vector2$new(void);",
	)
	wantNone(t, out.Header, "header", "__ferry__$Point")
}

func TestNamedFieldVariantRejected(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddEnum(decl.EnumInfo{Name: "Bad", Variants: []decl.VariantInfo{
		{Name: "V", Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "x", Index: 0, Type: decl.Prim{Kind: decl.PrimI32}},
		}}},
	}})
	_, err := New(Config{Scheme: naming.Default()}, reg).Module()
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("want ShapeError, got %v", err)
	}
	if shapeErr.TypeName != "Bad" {
		t.Fatalf("TypeName = %q, want Bad", shapeErr.TypeName)
	}
}

func TestAggregatePayloadRejected(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name: "Point",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "x", Index: 0, Type: decl.Prim{Kind: decl.PrimI32}},
		}},
	})
	reg.AddEnum(decl.EnumInfo{Name: "Holder", Variants: []decl.VariantInfo{
		{Name: "P", Shape: decl.FieldShape{Kind: decl.ShapeUnnamed, Fields: []decl.Field{
			{Index: 0, Type: decl.Named{Name: "Point"}},
		}}},
	}})
	_, err := New(Config{Scheme: naming.Default()}, reg).Module()
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("want ShapeError, got %v", err)
	}
}

func TestRecursiveStructRejected(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name: "Loop",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "next", Index: 0, Type: decl.Named{Name: "Loop"}},
		}},
	})
	_, err := New(Config{Scheme: naming.Default()}, reg).Module()
	var layErr *layout.Error
	if !errors.As(err, &layErr) || layErr.Kind != layout.ErrRecursive {
		t.Fatalf("want recursive layout error, got %v", err)
	}
}

func TestUnresolvedFieldRejected(t *testing.T) {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name: "U",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "x", Index: 0, Type: decl.Named{Name: "Missing"}},
		}},
	})
	_, err := New(Config{Scheme: naming.Default()}, reg).Module()
	var unresolved *bridged.UnresolvedTypeError
	if !errors.As(err, &unresolved) {
		t.Fatalf("want UnresolvedTypeError, got %v", err)
	}
}

func demoRegistry() *decl.Registry {
	reg := decl.NewRegistry("demo")
	reg.AddStruct(decl.StructInfo{
		Name: "Point",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "x", Index: 0, Type: decl.Prim{Kind: decl.PrimI32}},
			{Name: "y", Index: 1, Type: decl.Prim{Kind: decl.PrimI32}},
		}},
	})
	reg.AddStruct(decl.StructInfo{
		Name: "Packet",
		Shape: decl.FieldShape{Kind: decl.ShapeNamed, Fields: []decl.Field{
			{Name: "body", Index: 0, Type: decl.Text{}},
			{Name: "meta", Index: 1, Type: decl.Tuple{Elems: []decl.TypeExpr{
				decl.Prim{Kind: decl.PrimU16}, decl.Text{},
			}}},
			{Name: "origin", Index: 2, Type: decl.Named{Name: "Point"}},
			{Name: "tags", Index: 3, Type: decl.Slice{Elem: decl.Named{Name: "Color"}}},
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
		{Name: "Tagged", Shape: decl.FieldShape{Kind: decl.ShapeUnnamed, Fields: []decl.Field{
			{Index: 0, Type: decl.Named{Name: "Color"}},
			{Index: 1, Type: decl.Text{}},
		}}},
		{Name: "None", Shape: decl.FieldShape{Kind: decl.ShapeUnit}},
	}})
	reg.AddExtern(decl.ExternInfo{Name: "Counter"})
	return reg
}

func TestDeterministicOutput(t *testing.T) {
	first := generate(t, demoRegistry())
	second := generate(t, demoRegistry())

	if first.GoSource != second.GoSource {
		t.Fatal("go artifact differs between runs")
	}
	if first.SwiftSource != second.SwiftSource {
		t.Fatal("swift artifact differs between runs")
	}
	if first.Header != second.Header {
		t.Fatal("header artifact differs between runs")
	}
}

func TestMixedPayloadOffsets(t *testing.T) {
	out := generate(t, demoRegistry())

	// Tagged(Color, Text): тег-байт цвета в 0, указатель текста с 8
	wantAll(t, out.GoSource, "go",
		"ferryrt.PutU8(a.Payload[:], 0, val.F0.IntoAbi().Tag)",
		"ferryrt.PutHandle(a.Payload[:], 8, ferryrt.NewString(val.F1).Handle())",
		"F0: Ferry_Color{Tag: ferryrt.GetU8(a.Payload[:], 0)}.IntoNative()",
	)
	wantAll(t, out.SwiftSource, "swift",
		"raw.storeBytes(of: v0.intoFfiRepr(), toByteOffset: 0, as: __ferry__$Color.self)",
		"raw.load(fromByteOffset: 0, as: __ferry__$Color.self).intoSwiftRepr()",
	)
}

func TestHeaderSkeleton(t *testing.T) {
	out := generate(t, pointRegistry())

	wantAll(t, out.Header, "header",
		"// Generated by ferry from module demo. Do not edit.",
		"#ifndef FERRY_DEMO_BRIDGE_H\n#define FERRY_DEMO_BRIDGE_H",
		"#include <stdbool.h>\n#include <stdint.h>",
		// Текстовые примитивы объявляются всегда: FerryCore.swift линкуется с ними безусловно.
		"void* __ferry__$String$new(const uint8_t* data, uint64_t len);",
		"uint64_t __ferry__$String$len(void* str);",
		"void __ferry__$String$copy(void* str, uint8_t* dst);",
		"void __ferry__$String$free(void* str);",
		"#endif",
	)
}
