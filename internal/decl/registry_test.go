package decl

import "testing"

func TestRegistryAddAndLookup(t *testing.T) {
	reg := NewRegistry("demo")

	id, ok := reg.AddStruct(StructInfo{Name: "Point", Shape: FieldShape{Kind: ShapeNamed}})
	if !ok || id == NoTypeID {
		t.Fatalf("AddStruct failed: id=%v ok=%v", id, ok)
	}
	if got, ok := reg.Lookup("Point"); !ok || got != id {
		t.Fatalf("Lookup = %v %v", got, ok)
	}
	if reg.Kind(id) != KindStruct || reg.Name(id) != "Point" {
		t.Fatalf("entry metadata wrong: %v %q", reg.Kind(id), reg.Name(id))
	}

	if _, ok := reg.AddEnum(EnumInfo{Name: "Point"}); ok {
		t.Fatalf("duplicate name must be rejected across kinds")
	}

	enumID, ok := reg.AddEnum(EnumInfo{Name: "Color", Variants: []VariantInfo{{Name: "Red"}}})
	if !ok {
		t.Fatalf("AddEnum failed")
	}
	if reg.Struct(enumID) != nil {
		t.Fatalf("Struct accessor must reject enum ids")
	}
	if reg.Enum(enumID) == nil {
		t.Fatalf("Enum accessor must find the slot")
	}

	if reg.Kind(NoTypeID) != KindInvalid {
		t.Fatalf("NoTypeID must be invalid")
	}
	if reg.Kind(TypeID(99)) != KindInvalid {
		t.Fatalf("out-of-range id must be invalid")
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	reg := NewRegistry("demo")
	names := []string{"C", "A", "B"}
	for _, n := range names {
		if _, ok := reg.AddStruct(StructInfo{Name: n}); !ok {
			t.Fatalf("AddStruct(%q) failed", n)
		}
	}
	ids := reg.Types()
	if len(ids) != 3 {
		t.Fatalf("Types() len = %d", len(ids))
	}
	for i, id := range ids {
		if reg.Name(id) != names[i] {
			t.Fatalf("order broken at %d: %q", i, reg.Name(id))
		}
	}
}

func TestRegistryClonesFieldSlices(t *testing.T) {
	fields := []Field{{Name: "x", Type: Prim{Kind: PrimI32}}}
	reg := NewRegistry("demo")
	id, _ := reg.AddStruct(StructInfo{
		Name:  "P",
		Shape: FieldShape{Kind: ShapeNamed, Fields: fields},
	})

	fields[0].Name = "mutated"
	if got := reg.Struct(id).Shape.Fields[0].Name; got != "x" {
		t.Fatalf("registry must own its field slices, got %q", got)
	}
}
