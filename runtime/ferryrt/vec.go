package ferryrt

import "fmt"

// Vec is the owned-collection box. The element type is erased so a
// single box shape serves every generated collection family; the
// generic accessors re-assert it at each use.
type Vec struct {
	elems any
	n     int
}

// NewVec boxes a native slice for a crossing.
func NewVec[T any](s []T) *Vec {
	return &Vec{elems: s, n: len(s)}
}

// TakeVec moves the slice back out of the box.
func TakeVec[T any](v *Vec) []T {
	s, ok := v.elems.([]T)
	if !ok {
		panic(fmt.Sprintf("ferryrt: vec holds %T", v.elems))
	}
	return s
}

// VecLen reports the element count without needing the element type.
func VecLen(v *Vec) int {
	return v.n
}

// VecPush appends one element.
func VecPush[T any](v *Vec, x T) {
	s := TakeVec[T](v)
	v.elems = append(s, x)
	v.n++
}

// VecPop removes and returns the last element; ok is false on empty.
func VecPop[T any](v *Vec) (T, bool) {
	s := TakeVec[T](v)
	if len(s) == 0 {
		var zero T
		return zero, false
	}
	x := s[len(s)-1]
	v.elems = s[:len(s)-1]
	v.n--
	return x, true
}

// VecGet copies out the element at i; ok is false out of range.
func VecGet[T any](v *Vec, i int) (T, bool) {
	s := TakeVec[T](v)
	if i < 0 || i >= len(s) {
		var zero T
		return zero, false
	}
	return s[i], true
}

// Handle pins the box and returns its wire value.
func (v *Vec) Handle() Handle {
	return pin(v)
}

// VecFromHandle claims the box back from a wire value.
func VecFromHandle(h Handle) *Vec {
	return unpin(h).(*Vec)
}

// FreeVec drops a box the foreign side handed back for disposal.
func FreeVec(h Handle) {
	_ = unpin(h)
}
