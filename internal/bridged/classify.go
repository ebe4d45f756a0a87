// Package bridged classifies schema types for generation.
//
// Classification answers, for one type expression, how a value crosses
// the boundary: the native Go spelling, the ABI spelling on both sides,
// the client spelling, and the four conversion directions. Results are
// memoized per generation pass under the canonical type key, so one
// classification drives all artifacts of a type.
package bridged

import (
	"strings"

	"ferry/internal/decl"
	"ferry/internal/naming"
)

// Classifier memoizes classification over one registry snapshot.
type Classifier struct {
	reg    *decl.Registry
	scheme naming.Scheme
	memo   map[string]*Desc
}

// NewClassifier builds a classifier for the snapshot and naming scheme.
func NewClassifier(reg *decl.Registry, scheme naming.Scheme) *Classifier {
	return &Classifier{
		reg:    reg,
		scheme: scheme,
		memo:   make(map[string]*Desc, 32),
	}
}

// Registry returns the underlying snapshot.
func (c *Classifier) Registry() *decl.Registry { return c.reg }

// Scheme returns the naming scheme of this pass.
func (c *Classifier) Scheme() naming.Scheme { return c.scheme }

// Classify resolves t to its description. Repeated calls with equal
// keys return the same *Desc.
func (c *Classifier) Classify(t decl.TypeExpr) (*Desc, error) {
	key := t.Key()
	if d, ok := c.memo[key]; ok {
		return d, nil
	}
	d, err := c.build(t, key)
	if err != nil {
		return nil, err
	}
	c.memo[key] = d
	return d, nil
}

// ClassifyName resolves a declared type by its schema name.
func (c *Classifier) ClassifyName(name string) (*Desc, error) {
	return c.Classify(decl.Named{Name: name})
}

func (c *Classifier) build(t decl.TypeExpr, key string) (*Desc, error) {
	switch tt := t.(type) {
	case decl.Prim:
		return &Desc{Class: ClassPrim, Key: key, Prim: tt.Kind, scheme: c.scheme}, nil
	case decl.Text:
		return &Desc{Class: ClassText, Key: key, OwnsText: true, scheme: c.scheme}, nil
	case decl.Named:
		return c.buildNamed(tt, key)
	case decl.Tuple:
		return c.buildTuple(tt, key)
	case decl.Slice:
		return c.buildSlice(tt, key)
	default:
		return nil, &UnsupportedTypeError{Expr: t.String(), Reason: "unknown type expression"}
	}
}

func (c *Classifier) buildNamed(t decl.Named, key string) (*Desc, error) {
	id, ok := c.reg.Lookup(t.Name)
	if !ok {
		return nil, &UnresolvedTypeError{Name: t.Name}
	}
	switch c.reg.Kind(id) {
	case decl.KindStruct:
		info := c.reg.Struct(id)
		return &Desc{
			Class:        ClassStruct,
			Key:          key,
			ID:           id,
			Name:         info.Name,
			ClientName:   info.ClientName,
			Ref:          info.Ref,
			OwnsText:     c.ownsText(t, make(map[string]bool)),
			OnlyEncoding: info.Shape.IsEmpty() && !info.Ref.IsExternal(),
			scheme:       c.scheme,
		}, nil
	case decl.KindEnum:
		info := c.reg.Enum(id)
		return &Desc{
			Class:       ClassEnum,
			Key:         key,
			ID:          id,
			Name:        info.Name,
			ClientName:  info.ClientName,
			Ref:         info.Ref,
			OwnsText:    c.ownsText(t, make(map[string]bool)),
			EnumHasData: info.HasData(),
			scheme:      c.scheme,
		}, nil
	case decl.KindExtern:
		info := c.reg.Extern(id)
		return &Desc{
			Class:      ClassExtern,
			Key:        key,
			ID:         id,
			Name:       info.Name,
			ClientName: info.ClientName,
			Ref:        info.Ref,
			scheme:     c.scheme,
		}, nil
	default:
		return nil, &UnresolvedTypeError{Name: t.Name}
	}
}

func (c *Classifier) buildTuple(t decl.Tuple, key string) (*Desc, error) {
	elems := make([]*Desc, len(t.Elems))
	for i, e := range t.Elems {
		d, err := c.Classify(e)
		if err != nil {
			return nil, err
		}
		elems[i] = d
	}
	return &Desc{
		Class:    ClassStruct,
		Key:      key,
		Name:     strings.TrimPrefix(key, "tuple_"),
		Tuple:    true,
		Elems:    elems,
		OwnsText: c.ownsText(t, make(map[string]bool)),
		scheme:   c.scheme,
	}, nil
}

func (c *Classifier) buildSlice(t decl.Slice, key string) (*Desc, error) {
	elem, err := c.Classify(t.Elem)
	if err != nil {
		return nil, err
	}
	switch elem.Class {
	case ClassVec:
		return nil, &UnsupportedTypeError{Expr: t.String(), Reason: "nested collections cannot cross the boundary"}
	case ClassExtern:
		return nil, &UnsupportedTypeError{Expr: t.String(), Reason: "collections of opaque handles cannot cross the boundary"}
	case ClassStruct:
		if elem.Tuple {
			return nil, &UnsupportedTypeError{Expr: t.String(), Reason: "collections of tuples cannot cross the boundary"}
		}
	case ClassEnum:
		if elem.EnumHasData {
			return nil, &UnsupportedTypeError{Expr: t.String(), Reason: "collections require data-free enums"}
		}
	}
	return &Desc{
		Class:    ClassVec,
		Key:      key,
		Elem:     elem,
		OwnsText: elem.OwnsText,
		scheme:   c.scheme,
	}, nil
}

// ownsText reports whether t transitively contains owned text. The walk
// covers every field graph: structs of any shape and enum variant
// payloads alike. visited guards against reference cycles.
func (c *Classifier) ownsText(t decl.TypeExpr, visited map[string]bool) bool {
	key := t.Key()
	if visited[key] {
		return false
	}
	visited[key] = true
	switch tt := t.(type) {
	case decl.Text:
		return true
	case decl.Slice:
		return c.ownsText(tt.Elem, visited)
	case decl.Tuple:
		for _, e := range tt.Elems {
			if c.ownsText(e, visited) {
				return true
			}
		}
		return false
	case decl.Named:
		id, ok := c.reg.Lookup(tt.Name)
		if !ok {
			return false
		}
		switch c.reg.Kind(id) {
		case decl.KindStruct:
			for _, f := range c.reg.Struct(id).Shape.Fields {
				if c.ownsText(f.Type, visited) {
					return true
				}
			}
		case decl.KindEnum:
			for _, v := range c.reg.Enum(id).Variants {
				for _, f := range v.Shape.Fields {
					if c.ownsText(f.Type, visited) {
						return true
					}
				}
			}
		}
		return false
	default:
		return false
	}
}
