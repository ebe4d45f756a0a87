package gen

import (
	"fmt"
	"strings"

	"ferry/internal/bridged"
	"ferry/internal/decl"
	"ferry/internal/naming"
)

// headerWriter accumulates the C side of a run. Typedefs are kept in
// dependency order: C requires a struct member's type to be complete
// at its point of use, while the schema may declare types in any
// order. Function declarations only ever reference typedefs, so they
// live in a flat list after all of them.
type headerWriter struct {
	scheme   naming.Scheme
	typedefs []string
	decls    []string
	visited  map[string]struct{}
}

func (h *headerWriter) mark(key string) bool {
	if h.visited == nil {
		h.visited = make(map[string]struct{}, 16)
	}
	if _, ok := h.visited[key]; ok {
		return false
	}
	h.visited[key] = struct{}{}
	return true
}

func (h *headerWriter) addTypedef(text string) {
	h.typedefs = append(h.typedefs, text)
}

func (h *headerWriter) addDecl(text string) {
	h.decls = append(h.decls, text)
}

func (h *headerWriter) render(module string) string {
	guard := "FERRY_" + strings.ToUpper(module) + "_BRIDGE_H"

	var sb strings.Builder
	fmt.Fprintf(&sb, "// Generated by ferry from module %s. Do not edit.\n", module)
	fmt.Fprintf(&sb, "#ifndef %s\n#define %s\n\n", guard, guard)
	sb.WriteString("#include <stdbool.h>\n#include <stdint.h>\n\n")

	// Owned-text runtime symbols; FerryCore.swift links against these
	// regardless of what the module declares.
	text := h.scheme.CSymbol("String")
	fmt.Fprintf(&sb, "void* %s$new(const uint8_t* data, uint64_t len);\n", text)
	fmt.Fprintf(&sb, "uint64_t %s$len(void* str);\n", text)
	fmt.Fprintf(&sb, "void %s$copy(void* str, uint8_t* dst);\n", text)
	fmt.Fprintf(&sb, "void %s$free(void* str);\n\n", text)

	for _, td := range h.typedefs {
		sb.WriteString(td)
		sb.WriteString("\n")
	}
	if len(h.typedefs) > 0 && len(h.decls) > 0 {
		sb.WriteString("\n")
	}
	for _, d := range h.decls {
		sb.WriteString(d)
		sb.WriteString("\n")
	}

	sb.WriteString("\n#endif\n")
	return sb.String()
}

// ensureCTypedef emits the typedef for d and, first, for everything it
// embeds by value. External types are declared by their own module's
// header and are skipped here.
func (g *Generator) ensureCTypedef(d *bridged.Desc) error {
	switch d.Class {
	case bridged.ClassStruct:
		if d.Ref.IsExternal() {
			return nil
		}
		if d.Tuple {
			return g.ensureTupleTypedef(d)
		}
		return g.ensureStructTypedef(d)
	case bridged.ClassEnum:
		if d.Ref.IsExternal() {
			return nil
		}
		return g.ensureEnumTypedef(d)
	default:
		// Scalars come from stdint; boxes are void*.
		return nil
	}
}

func (g *Generator) ensureStructTypedef(d *bridged.Desc) error {
	if !g.hdr.mark(d.Key) {
		return nil
	}
	info := g.reg.Struct(d.ID)
	name := d.CDecl()

	if info.Shape.IsEmpty() {
		g.hdr.addTypedef(fmt.Sprintf("typedef struct %s { uint8_t %s; } %s;",
			name, bridged.PlaceholderCField, name))
		return nil
	}

	fields := make([]string, 0, len(info.Shape.Fields))
	for i := range info.Shape.Fields {
		f := &info.Shape.Fields[i]
		fd, err := g.cls.Classify(f.Type)
		if err != nil {
			return err
		}
		if err := g.ensureCTypedef(fd); err != nil {
			return err
		}
		fields = append(fields, fmt.Sprintf("%s %s;", fd.CDecl(), cFieldName(f, info.Shape.Kind)))
	}
	g.hdr.addTypedef(fmt.Sprintf("typedef struct %s { %s } %s;",
		name, strings.Join(fields, " "), name))
	return nil
}

func (g *Generator) ensureTupleTypedef(d *bridged.Desc) error {
	if !g.hdr.mark(d.Key) {
		return nil
	}
	for _, e := range d.Elems {
		if err := g.ensureCTypedef(e); err != nil {
			return err
		}
	}
	name := d.CDecl()
	fields := make([]string, len(d.Elems))
	for i, e := range d.Elems {
		fields[i] = fmt.Sprintf("%s _%d;", e.CDecl(), i)
	}
	g.hdr.addTypedef(fmt.Sprintf("typedef struct %s { %s } %s;",
		name, strings.Join(fields, " "), name))
	return nil
}

func (g *Generator) ensureEnumTypedef(d *bridged.Desc) error {
	if !g.hdr.mark(d.Key) {
		return nil
	}
	info := g.reg.Enum(d.ID)
	name := d.CDecl()

	if !info.HasData() {
		g.hdr.addTypedef(fmt.Sprintf("typedef struct %s { uint8_t tag; } %s;", name, name))
		return nil
	}

	abi, err := g.lay.EnumAbi(info)
	if err != nil {
		return err
	}
	union := fmt.Sprintf("union { uint8_t bytes[%d]; %s } payload;",
		abi.PayloadSize, alignMember(abi.PayloadAlign))
	if abi.PayloadAlign <= 1 {
		union = fmt.Sprintf("union { uint8_t bytes[%d]; } payload;", abi.PayloadSize)
	}
	g.hdr.addTypedef(fmt.Sprintf("typedef struct %s { uint32_t tag; %s } %s;", name, union, name))
	return nil
}

// ensureOptionTypedef emits the presence-flag wrapper; the base typedef
// is pulled in first so the member reference is legal C.
func (g *Generator) ensureOptionTypedef(d *bridged.Desc) error {
	if err := g.ensureCTypedef(d); err != nil {
		return err
	}
	name := g.cfg.Scheme.CSymbol(g.cfg.Scheme.OptionName(d.Client())...)
	if !g.hdr.mark("option$" + d.Key) {
		return nil
	}
	g.hdr.addTypedef(fmt.Sprintf("typedef struct %s { bool is_some; %s val; } %s;",
		name, d.CDecl(), name))
	return nil
}

// alignMember names the scalar that drags the payload union to its
// required alignment.
func alignMember(align int) string {
	switch align {
	case 2:
		return "uint16_t _align;"
	case 4:
		return "uint32_t _align;"
	default:
		return "uint64_t _align;"
	}
}

// cFieldName spells a field in C: declared name for named shapes,
// positional _N for unnamed ones.
func cFieldName(f *decl.Field, kind decl.ShapeKind) string {
	if kind == decl.ShapeNamed {
		return f.Name
	}
	return fmt.Sprintf("_%d", f.Index)
}
