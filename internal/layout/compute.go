package layout

import "ferry/internal/decl"

func (e *Engine) compute(t decl.TypeExpr, state *walkState) (TypeLayout, *Error) {
	switch tt := t.(type) {
	case decl.Prim:
		return scalarLayout(tt.Kind), nil
	case decl.Text:
		// Owned text crosses as a pointer to the runtime box.
		return e.ptrLayout(), nil
	case decl.Slice:
		// Collections cross boxed as well; the element layout never
		// leaks into the container value.
		return e.ptrLayout(), nil
	case decl.Tuple:
		return e.elemsLayout(tt.Elems, state)
	case decl.Named:
		return e.namedLayout(tt.Name, state)
	default:
		return TypeLayout{Align: 1}, &Error{Kind: ErrUnresolved, Key: t.Key()}
	}
}

func (e *Engine) namedLayout(name string, state *walkState) (TypeLayout, *Error) {
	id, ok := e.Reg.Lookup(name)
	if !ok {
		return TypeLayout{Align: 1}, &Error{Kind: ErrUnresolved, Key: name}
	}
	switch e.Reg.Kind(id) {
	case decl.KindStruct:
		info := e.Reg.Struct(id)
		if info.Ref.IsExternal() {
			return TypeLayout{Align: 1}, &Error{Kind: ErrExternal, Key: name}
		}
		if info.Shape.IsEmpty() {
			// Пустая структура в ABI несёт один байт-заглушку.
			return TypeLayout{Size: 1, Align: 1}, nil
		}
		return e.fieldsLayout(info.Shape.Fields, state)
	case decl.KindEnum:
		info := e.Reg.Enum(id)
		if info.Ref.IsExternal() {
			return TypeLayout{Align: 1}, &Error{Kind: ErrExternal, Key: name}
		}
		abi, err := e.enumAbi(info, state)
		if err != nil {
			return TypeLayout{Align: 1}, err
		}
		return TypeLayout{
			Size:          abi.Size,
			Align:         abi.Align,
			TagSize:       abi.TagSize,
			TagAlign:      abi.TagAlign,
			PayloadOffset: abi.PayloadOffset,
		}, nil
	case decl.KindExtern:
		// Opaque handles are pointers regardless of the Go type behind
		// them.
		return e.ptrLayout(), nil
	default:
		return TypeLayout{Align: 1}, &Error{Kind: ErrUnresolved, Key: name}
	}
}

func (e *Engine) enumAbi(info *decl.EnumInfo, state *walkState) (EnumAbi, *Error) {
	if !info.HasData() {
		// Только тег, payload-зоны нет вовсе.
		return EnumAbi{
			TagSize:       1,
			TagAlign:      1,
			PayloadOffset: 1,
			Size:          1,
			Align:         1,
			Variants:      make([]VariantAbi, len(info.Variants)),
		}, nil
	}
	rawMax := 0
	payloadAlign := 1
	variants := make([]VariantAbi, len(info.Variants))
	for i := range info.Variants {
		v := &info.Variants[i]
		if v.Shape.IsEmpty() {
			// A payload-free variant still occupies one placeholder
			// byte so that every variant has a payload to copy.
			variants[i] = VariantAbi{Size: 1}
			rawMax = maxInt(rawMax, 1)
			continue
		}
		fl, err := e.fieldsLayout(v.Shape.Fields, state)
		if err != nil {
			return EnumAbi{}, err
		}
		variants[i] = VariantAbi{Size: fl.Size, Offsets: fl.FieldOffsets}
		rawMax = maxInt(rawMax, fl.Size)
		payloadAlign = maxInt(payloadAlign, fl.Align)
	}
	const tagSize, tagAlign = 4, 4
	payloadSize := roundUp(rawMax, payloadAlign)
	payloadOffset := roundUp(tagSize, payloadAlign)
	return EnumAbi{
		TagSize:       tagSize,
		TagAlign:      tagAlign,
		PayloadSize:   payloadSize,
		PayloadAlign:  payloadAlign,
		PayloadOffset: payloadOffset,
		Size:          payloadOffset + payloadSize,
		Align:         maxInt(tagAlign, payloadAlign),
		Variants:      variants,
	}, nil
}

func (e *Engine) fieldsLayout(fields []decl.Field, state *walkState) (TypeLayout, *Error) {
	elems := make([]decl.TypeExpr, len(fields))
	for i := range fields {
		elems[i] = fields[i].Type
	}
	return e.elemsLayout(elems, state)
}

func (e *Engine) elemsLayout(elems []decl.TypeExpr, state *walkState) (TypeLayout, *Error) {
	offsets := make([]int, len(elems))
	aligns := make([]int, len(elems))
	size := 0
	align := 1
	for i, elem := range elems {
		el, err := e.layoutOf(elem, state)
		if err != nil {
			return TypeLayout{Align: 1}, err
		}
		elAlign := maxInt(1, el.Align)
		size = roundUp(size, elAlign)
		offsets[i] = size
		aligns[i] = elAlign
		size += el.Size
		align = maxInt(align, elAlign)
	}
	size = roundUp(size, align)
	return TypeLayout{Size: size, Align: align, FieldOffsets: offsets, FieldAligns: aligns}, nil
}

func (e *Engine) ptrLayout() TypeLayout {
	return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}
}

var scalarSizes = [...]int{
	decl.PrimBool: 1,
	decl.PrimI8:   1,
	decl.PrimI16:  2,
	decl.PrimI32:  4,
	decl.PrimI64:  8,
	decl.PrimU8:   1,
	decl.PrimU16:  2,
	decl.PrimU32:  4,
	decl.PrimU64:  8,
	decl.PrimF32:  4,
	decl.PrimF64:  8,
}

func scalarLayout(kind decl.PrimKind) TypeLayout {
	n := scalarSizes[kind]
	return TypeLayout{Size: n, Align: n}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
