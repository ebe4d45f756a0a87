// Package gen turns a resolved declaration registry into the three
// coordinated bridge artifacts: the Go source with native and ABI
// definitions, the Swift source with client types and conversion glue,
// and the C header that fixes the shared layout vocabulary.
//
// One Generator run is one pass: pure functions over an immutable
// registry snapshot, no I/O, and byte-identical output for the same
// input. Every type is classified exactly once and that classification
// drives all three outputs, so the artifacts cannot disagree about
// layout or naming.
package gen

import (
	"fmt"
	"slices"
	"strings"

	"ferry/internal/bridged"
	"ferry/internal/decl"
	"ferry/internal/layout"
	"ferry/internal/naming"
)

// Config carries the injected knobs of one generation pass. Zero
// values fall back to the defaults a bare ferry.toml would produce.
type Config struct {
	Scheme naming.Scheme
	Target layout.Target

	// GoPackage names the package clause of the generated Go file;
	// empty means the schema module name.
	GoPackage string
	// RuntimeImport is the import path of the Go support library.
	RuntimeImport string
}

// DefaultRuntimeImport is where generated Go code finds the support
// package unless the manifest overrides it.
const DefaultRuntimeImport = "ferry/runtime/ferryrt"

// Output is the rendered artifact set of one schema module.
type Output struct {
	GoSource    string
	SwiftSource string
	Header      string
}

// Generator walks a registry and renders the artifact set.
type Generator struct {
	cfg Config
	reg *decl.Registry
	cls *bridged.Classifier
	lay *layout.Engine

	goBuf    strings.Builder
	swiftBuf strings.Builder
	hdr      headerWriter

	seenTuples  map[string]struct{}
	usedImports map[string]string // alias -> Go import path

	needsFmt     bool
	needsRuntime bool
}

// New builds a generator over one resolved registry snapshot.
func New(cfg Config, reg *decl.Registry) *Generator {
	if cfg.RuntimeImport == "" {
		cfg.RuntimeImport = DefaultRuntimeImport
	}
	if cfg.GoPackage == "" {
		cfg.GoPackage = reg.Module()
	}
	if cfg.Target.PtrSize == 0 {
		cfg.Target = layout.Arm64AppleDarwin()
	}
	g := &Generator{
		cfg:        cfg,
		reg:        reg,
		cls:        bridged.NewClassifier(reg, cfg.Scheme),
		lay:        layout.New(cfg.Target, reg),
		seenTuples: make(map[string]struct{}, 8),
	}
	g.hdr.scheme = cfg.Scheme
	return g
}

// Module renders all artifacts for the registry, walking declarations
// in schema order. Any error leaves no partial output behind; the
// caller gets either three complete artifacts or none.
func (g *Generator) Module() (*Output, error) {
	for _, id := range g.reg.Types() {
		var err error
		switch g.reg.Kind(id) {
		case decl.KindStruct:
			err = g.emitStruct(id)
		case decl.KindEnum:
			err = g.emitEnum(id)
		case decl.KindExtern:
			err = g.emitExtern(id)
		}
		if err != nil {
			return nil, err
		}
	}
	return g.assemble(), nil
}

// ensureFieldTypes classifies every field type and synthesizes the
// artifacts of any anonymous tuple shape seen for the first time.
// Dedup across use sites happens here, keyed by the mangled suffix:
// the struct engine itself stays per-call and oblivious.
func (g *Generator) ensureFieldTypes(fields []decl.Field) ([]*bridged.Desc, error) {
	descs := make([]*bridged.Desc, len(fields))
	for i := range fields {
		d, err := g.cls.Classify(fields[i].Type)
		if err != nil {
			return nil, err
		}
		if err := g.ensureTuples(d); err != nil {
			return nil, err
		}
		g.markImports(d)
		descs[i] = d
	}
	return descs, nil
}

// markImports records every external module alias a description pulls
// into the generated Go file, so assemble can import exactly those.
func (g *Generator) markImports(d *bridged.Desc) {
	if d.Ref.IsExternal() {
		if g.usedImports == nil {
			g.usedImports = make(map[string]string, 4)
		}
		g.usedImports[d.Ref.Alias] = d.Ref.Path
	}
	for _, e := range d.Elems {
		g.markImports(e)
	}
	if d.Elem != nil {
		g.markImports(d.Elem)
	}
}

func (g *Generator) ensureTuples(d *bridged.Desc) error {
	if d.Class != bridged.ClassStruct || !d.Tuple {
		return nil
	}
	// Вложенные кортежи определяются раньше внешнего.
	for _, e := range d.Elems {
		if err := g.ensureTuples(e); err != nil {
			return err
		}
	}
	if _, ok := g.seenTuples[d.Key]; ok {
		return nil
	}
	g.seenTuples[d.Key] = struct{}{}
	return g.emitTuple(d)
}

func (g *Generator) assemble() *Output {
	module := g.reg.Module()

	var gofile strings.Builder
	fmt.Fprintf(&gofile, "// Code generated by ferry from module %s. DO NOT EDIT.\n\n", module)
	fmt.Fprintf(&gofile, "package %s\n\n", g.cfg.GoPackage)
	if g.needsFmt || g.needsRuntime || len(g.usedImports) > 0 {
		gofile.WriteString("import (\n")
		if g.needsFmt {
			gofile.WriteString("\t\"fmt\"\n")
		}
		type imp struct{ path, line string }
		var rest []imp
		if g.needsRuntime {
			rest = append(rest, imp{g.cfg.RuntimeImport, fmt.Sprintf("\t%q", g.cfg.RuntimeImport)})
		}
		for alias, path := range g.usedImports {
			rest = append(rest, imp{path, fmt.Sprintf("\t%s %q", alias, path)})
		}
		slices.SortFunc(rest, func(a, b imp) int { return strings.Compare(a.path, b.path) })
		if g.needsFmt && len(rest) > 0 {
			gofile.WriteString("\n")
		}
		for _, im := range rest {
			gofile.WriteString(im.line + "\n")
		}
		gofile.WriteString(")\n\n")
	}
	gofile.WriteString(g.goBuf.String())

	var swift strings.Builder
	fmt.Fprintf(&swift, "// Generated by ferry from module %s. Do not edit.\n\n", module)
	swift.WriteString(g.swiftBuf.String())

	return &Output{
		GoSource:    gofile.String(),
		SwiftSource: swift.String(),
		Header:      g.hdr.render(module),
	}
}
