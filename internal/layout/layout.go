// Package layout sizes ABI representations for a concrete target.
//
// Plain structs and tuples need no help: their ABI fields are scalars,
// pointers and nested typedefs, and the C compiler on the client side
// reproduces the natural layout the Go side uses. The consumers that do
// need exact numbers are the enum and option wrappers. Their payload
// area is a raw byte array, so somebody has to fix the byte count, the
// alignment padding and the per-variant slot offsets before three
// compilers look at the same header. That somebody is this package.
package layout

import "ferry/internal/decl"

// TypeLayout is the ABI layout of one type for a specific Target.
// FieldOffsets and FieldAligns are filled for struct and tuple shapes;
// TagSize, TagAlign and PayloadOffset only for enums.
type TypeLayout struct {
	Size  int
	Align int

	FieldOffsets []int
	FieldAligns  []int

	TagSize       int
	TagAlign      int
	PayloadOffset int
}

// EnumAbi is the tag and payload geometry of one enum ABI value.
// PayloadSize is already rounded up to PayloadAlign, so the emitted
// byte array never needs tail padding of its own.
type EnumAbi struct {
	TagSize       int
	TagAlign      int
	PayloadSize   int
	PayloadAlign  int
	PayloadOffset int
	Size          int
	Align         int
	Variants      []VariantAbi
}

// VariantAbi is the slot geometry of one variant inside the shared
// payload area. Offsets are relative to the payload start, not to the
// whole value.
type VariantAbi struct {
	Size    int
	Offsets []int
}

// OptionAbi is the geometry of the optional wrapper around a value:
// a presence flag followed by the padded value slot.
type OptionAbi struct {
	ValOffset int
	Size      int
	Align     int
}

// Engine computes and memoizes layouts over one registry snapshot.
// После изменения реестра движок нужно пересоздавать, кэш не следит
// за версиями.
type Engine struct {
	Target Target
	Reg    *decl.Registry

	cache map[string]cacheEntry
}

type cacheEntry struct {
	layout TypeLayout
	err    *Error
}

func New(target Target, reg *decl.Registry) *Engine {
	return &Engine{Target: target, Reg: reg, cache: make(map[string]cacheEntry, 32)}
}

// walkState tracks the keys currently being laid out so that a type
// reached twice on one walk is reported as a cycle instead of looping.
type walkState struct {
	stack []string
	index map[string]int
}

func newWalkState() *walkState {
	return &walkState{index: make(map[string]int, 8)}
}

// LayoutOf computes the ABI layout of a type expression.
func (e *Engine) LayoutOf(t decl.TypeExpr) (TypeLayout, error) {
	l, err := e.layoutOf(t, newWalkState())
	if err != nil {
		return l, err
	}
	return l, nil
}

// EnumAbi computes the tag and payload geometry for an enum
// declaration. For data-free enums the whole value is the one-byte tag.
func (e *Engine) EnumAbi(info *decl.EnumInfo) (EnumAbi, error) {
	if info.Ref.IsExternal() {
		return EnumAbi{}, &Error{Kind: ErrExternal, Key: info.Name}
	}
	state := newWalkState()
	state.index[info.Name] = 0
	state.stack = append(state.stack, info.Name)
	abi, err := e.enumAbi(info, state)
	if err != nil {
		return EnumAbi{}, err
	}
	return abi, nil
}

// OptionAbi wraps an already computed inner layout into the optional
// wrapper geometry.
func (e *Engine) OptionAbi(inner TypeLayout) OptionAbi {
	align := maxInt(1, inner.Align)
	valOffset := roundUp(1, align)
	return OptionAbi{
		ValOffset: valOffset,
		Size:      valOffset + inner.Size,
		Align:     align,
	}
}

func (e *Engine) layoutOf(t decl.TypeExpr, state *walkState) (TypeLayout, *Error) {
	key := t.Key()
	if cached, ok := e.cache[key]; ok {
		return cached.layout, cached.err
	}
	if idx, ok := state.index[key]; ok {
		cycle := append([]string(nil), state.stack[idx:]...)
		cycle = append(cycle, key)
		err := &Error{Kind: ErrRecursive, Key: key, Cycle: cycle}
		e.cache[key] = cacheEntry{layout: TypeLayout{Align: 1}, err: err}
		return TypeLayout{Align: 1}, err
	}
	state.index[key] = len(state.stack)
	state.stack = append(state.stack, key)
	l, err := e.compute(t, state)
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, key)
	e.cache[key] = cacheEntry{layout: l, err: err}
	return l, err
}
