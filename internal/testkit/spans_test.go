package testkit

import (
	"strings"
	"testing"

	"ferry/internal/ast"
	"ferry/internal/diag"
	"ferry/internal/parser"
	"ferry/internal/source"
)

const goodSchema = `bridge demo

import "app/shared" as shared

@client_name("DemoPoint")
struct Point {
    x: Int32,
    y: Int32,
}

struct Pair(Int32, Text)

struct Marker

enum Shape {
    Circle(Float64),
    Unknown,
}

extern type Blob
`

func parseForTest(t *testing.T, src string) (*ast.File, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("spans.fy", []byte(src))
	sf := fs.Get(id)
	bag := diag.NewBag(32)
	f := parser.ParseFile(sf, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("fixture must parse cleanly: %v", bag.Items())
	}
	return f, sf
}

func TestCheckSpanInvariantsCleanParse(t *testing.T) {
	f, sf := parseForTest(t, goodSchema)
	if err := CheckSpanInvariants(f, sf); err != nil {
		t.Fatalf("invariants violated on clean parse: %v", err)
	}
}

func TestCheckSpanInvariantsAfterRecovery(t *testing.T) {
	// Первая декларация битая, парсер её выбрасывает, остальные живут.
	src := "bridge demo\nstruct {\nstruct Point { x: Int32 }\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("broken.fy", []byte(src))
	sf := fs.Get(id)
	bag := diag.NewBag(32)
	f := parser.ParseFile(sf, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if !bag.HasErrors() {
		t.Fatal("fixture must produce a syntax error")
	}
	if err := CheckSpanInvariants(f, sf); err != nil {
		t.Fatalf("invariants violated after recovery: %v", err)
	}
}

func TestCheckSpanInvariantsDetectsCorruption(t *testing.T) {
	f, sf := parseForTest(t, goodSchema)

	var point *ast.StructDecl
	for _, d := range f.Decls {
		if sd, ok := d.(*ast.StructDecl); ok && sd.Name.Name == "Point" {
			point = sd
		}
	}
	if point == nil {
		t.Fatal("Point not parsed")
	}

	saved := point.Span
	point.Span.End = saved.Start // схлопываем span
	if err := CheckSpanInvariants(f, sf); err == nil {
		t.Fatal("empty declaration span not detected")
	} else if !strings.Contains(err.Error(), "Point") {
		t.Fatalf("error does not name the declaration: %v", err)
	}

	point.Span = saved
	point.Span.End = 1 << 20 // за пределы файла
	if err := CheckSpanInvariants(f, sf); err == nil {
		t.Fatal("out-of-bounds span not detected")
	}

	point.Span = saved
	point.Fields[0].Span.Start = 0 // поле вылезает из декларации
	if err := CheckSpanInvariants(f, sf); err == nil {
		t.Fatal("escaping field span not detected")
	}
}

func TestCheckSpanInvariantsNilArgs(t *testing.T) {
	if err := CheckSpanInvariants(nil, nil); err == nil {
		t.Fatal("nil arguments must be rejected")
	}
}
