// Package ferryrt is the support library generated bridge code links
// against on the Go side. It owns the boxes that carry text,
// collections and opaque values across the boundary, and the handle
// table that keeps those boxes visible to the garbage collector while
// a foreign caller holds them.
//
// Everything here is deliberately small: generated code spells calls
// into this package as text, so every exported name is part of the
// generator's output contract.
package ferryrt

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Handle is the raw currency a boxed value crosses the boundary as.
// The zero handle is never issued.
type Handle uintptr

var (
	handleTab sync.Map // Handle -> any
	handleSeq atomic.Uintptr
)

func pin(v any) Handle {
	h := Handle(handleSeq.Add(1))
	handleTab.Store(h, v)
	return h
}

func resolve(h Handle) any {
	v, ok := handleTab.Load(h)
	if !ok {
		panic(fmt.Sprintf("ferryrt: resolve of dead handle %d", h))
	}
	return v
}

func unpin(h Handle) any {
	v, ok := handleTab.LoadAndDelete(h)
	if !ok {
		panic(fmt.Sprintf("ferryrt: release of dead handle %d", h))
	}
	return v
}

// NewHandle pins an opaque value and returns the handle the foreign
// side will hold. The value stays reachable until FreeHandle.
func NewHandle[T any](v T) Handle {
	return pin(v)
}

// ResolveHandle returns the pinned value without releasing it; opaque
// handles stay valid across any number of calls.
func ResolveHandle[T any](h Handle) T {
	v, ok := resolve(h).(T)
	if !ok {
		panic(fmt.Sprintf("ferryrt: handle %d holds %T", h, resolve(h)))
	}
	return v
}

// FreeHandle releases a pinned opaque value. Using the handle after
// this call is a program bug and panics.
func FreeHandle(h Handle) {
	unpin(h)
}
