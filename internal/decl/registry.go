// Package decl holds the resolved declaration registry of one bridge
// module. The resolver fills it from a parsed schema file; after that
// the registry is treated as read-only and every later stage (the
// classifier, the layout engine, code generation) works from the same
// snapshot. Declarations keep source order, so iterating Types gives a
// deterministic emit order for free.
package decl

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"ferry/internal/source"
)

// TypeID identifies one declaration inside a Registry.
type TypeID uint32

// NoTypeID marks the absence of a declaration.
const NoTypeID TypeID = 0

// Kind enumerates the declaration kinds a registry can hold.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindStruct
	KindEnum
	KindExtern
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindExtern:
		return "extern type"
	default:
		return "invalid"
	}
}

// StructInfo stores one struct declaration. The generator also builds
// StructInfo values for tuples it synthesizes; those never enter a
// registry and are marked with IsTuple.
type StructInfo struct {
	Name       string
	ClientName string // empty without a @client_name override
	Repr       Repr
	Shape      FieldShape
	Ref        Ref
	IsTuple    bool
	Span       source.Span
}

// VariantInfo stores one enum variant.
type VariantInfo struct {
	Name  string
	Shape FieldShape
	Span  source.Span
}

// EnumInfo stores one enum declaration.
type EnumInfo struct {
	Name       string
	ClientName string
	Ref        Ref
	Variants   []VariantInfo
	Span       source.Span
}

// HasData reports whether any variant carries payload fields.
func (e *EnumInfo) HasData() bool {
	for i := range e.Variants {
		if !e.Variants[i].Shape.IsEmpty() {
			return true
		}
	}
	return false
}

// ExternInfo stores one opaque handle declaration. The bridge never
// looks inside such a type; it only passes handles around.
type ExternInfo struct {
	Name       string
	ClientName string
	Ref        Ref
	Span       source.Span
}

// Import is one resolved import of another bridge module.
type Import struct {
	Path  string
	Alias string
	Span  source.Span
}

type entry struct {
	name string
	kind Kind
	slot uint32
}

// Registry is the declaration table of a single bridge module.
type Registry struct {
	module  string
	imports []Import
	entries []entry
	index   map[string]TypeID
	order   []TypeID
	structs []StructInfo
	enums   []EnumInfo
	externs []ExternInfo
}

// NewRegistry creates an empty registry for the named bridge module.
func NewRegistry(module string) *Registry {
	r := &Registry{
		module: module,
		index:  make(map[string]TypeID, 16),
	}
	// слот 0 везде зарезервирован под невалидный id
	r.entries = append(r.entries, entry{})
	r.structs = append(r.structs, StructInfo{})
	r.enums = append(r.enums, EnumInfo{})
	r.externs = append(r.externs, ExternInfo{})
	return r
}

// Module returns the bridge module name from the schema header.
func (r *Registry) Module() string { return r.module }

// AddImport records a resolved import. Alias uniqueness is the
// resolver's job; the registry stores what it is given.
func (r *Registry) AddImport(imp Import) {
	r.imports = append(r.imports, imp)
}

// Imports returns the imports in source order.
func (r *Registry) Imports() []Import {
	return slices.Clone(r.imports)
}

// AddStruct registers a struct declaration. Reports false when the
// name is already taken.
func (r *Registry) AddStruct(info StructInfo) (TypeID, bool) {
	if _, taken := r.index[info.Name]; taken {
		return NoTypeID, false
	}
	slot := r.appendSlot(len(r.structs))
	r.structs = append(r.structs, cloneStructInfo(info))
	return r.addEntry(info.Name, KindStruct, slot)
}

// AddEnum registers an enum declaration. Reports false when the name
// is already taken.
func (r *Registry) AddEnum(info EnumInfo) (TypeID, bool) {
	if _, taken := r.index[info.Name]; taken {
		return NoTypeID, false
	}
	slot := r.appendSlot(len(r.enums))
	r.enums = append(r.enums, cloneEnumInfo(info))
	return r.addEntry(info.Name, KindEnum, slot)
}

// AddExtern registers an opaque handle declaration. Reports false when
// the name is already taken.
func (r *Registry) AddExtern(info ExternInfo) (TypeID, bool) {
	if _, taken := r.index[info.Name]; taken {
		return NoTypeID, false
	}
	slot := r.appendSlot(len(r.externs))
	r.externs = append(r.externs, info)
	return r.addEntry(info.Name, KindExtern, slot)
}

// Lookup resolves a declared name to its TypeID.
func (r *Registry) Lookup(name string) (TypeID, bool) {
	id, ok := r.index[name]
	return id, ok
}

// Kind returns the declaration kind, KindInvalid for unknown ids.
func (r *Registry) Kind(id TypeID) Kind {
	if e := r.entryFor(id); e != nil {
		return e.kind
	}
	return KindInvalid
}

// Name returns the declared name, "" for unknown ids.
func (r *Registry) Name(id TypeID) string {
	if e := r.entryFor(id); e != nil {
		return e.name
	}
	return ""
}

// Struct returns the struct metadata or nil when id is not a struct.
func (r *Registry) Struct(id TypeID) *StructInfo {
	e := r.entryFor(id)
	if e == nil || e.kind != KindStruct || e.slot == 0 || int(e.slot) >= len(r.structs) {
		return nil
	}
	return &r.structs[e.slot]
}

// Enum returns the enum metadata or nil when id is not an enum.
func (r *Registry) Enum(id TypeID) *EnumInfo {
	e := r.entryFor(id)
	if e == nil || e.kind != KindEnum || e.slot == 0 || int(e.slot) >= len(r.enums) {
		return nil
	}
	return &r.enums[e.slot]
}

// Extern returns the extern metadata or nil when id is not an extern.
func (r *Registry) Extern(id TypeID) *ExternInfo {
	e := r.entryFor(id)
	if e == nil || e.kind != KindExtern || e.slot == 0 || int(e.slot) >= len(r.externs) {
		return nil
	}
	return &r.externs[e.slot]
}

// Span returns the declaration span, for "first declared here" notes.
func (r *Registry) Span(id TypeID) source.Span {
	switch r.Kind(id) {
	case KindStruct:
		return r.Struct(id).Span
	case KindEnum:
		return r.Enum(id).Span
	case KindExtern:
		return r.Extern(id).Span
	default:
		return source.Span{}
	}
}

// Types returns every TypeID in declaration order.
func (r *Registry) Types() []TypeID {
	return slices.Clone(r.order)
}

// Len returns the number of registered declarations.
func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) entryFor(id TypeID) *entry {
	if id == NoTypeID || int(id) >= len(r.entries) {
		return nil
	}
	return &r.entries[id]
}

func (r *Registry) addEntry(name string, kind Kind, slot uint32) (TypeID, bool) {
	n, err := safecast.Conv[uint32](len(r.entries))
	if err != nil {
		panic(fmt.Errorf("registry entries overflow: %w", err))
	}
	id := TypeID(n)
	r.entries = append(r.entries, entry{name: name, kind: kind, slot: slot})
	r.index[name] = id
	r.order = append(r.order, id)
	return id, true
}

func (r *Registry) appendSlot(length int) uint32 {
	slot, err := safecast.Conv[uint32](length)
	if err != nil {
		panic(fmt.Errorf("registry slot overflow: %w", err))
	}
	return slot
}

func cloneStructInfo(info StructInfo) StructInfo {
	info.Shape.Fields = slices.Clone(info.Shape.Fields)
	return info
}

func cloneEnumInfo(info EnumInfo) EnumInfo {
	variants := slices.Clone(info.Variants)
	for i := range variants {
		variants[i].Shape.Fields = slices.Clone(variants[i].Shape.Fields)
	}
	info.Variants = variants
	return info
}
