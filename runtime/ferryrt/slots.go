package ferryrt

import (
	"encoding/binary"
	"math"
)

// Slot accessors read and write enum payload areas. Offsets come from
// the layout engine; encoding is little-endian on every supported
// target. The b argument is always the whole payload array.

func PutBool(b []byte, off int, v bool) {
	if v {
		b[off] = 1
	} else {
		b[off] = 0
	}
}

func GetBool(b []byte, off int) bool {
	return b[off] != 0
}

func PutI8(b []byte, off int, v int8) { b[off] = byte(v) }
func GetI8(b []byte, off int) int8 { return int8(b[off]) }
func PutU8(b []byte, off int, v uint8) { b[off] = v }
func GetU8(b []byte, off int) uint8 { return b[off] }

func PutI16(b []byte, off int, v int16) { binary.LittleEndian.PutUint16(b[off:], uint16(v)) }
func GetI16(b []byte, off int) int16 { return int16(binary.LittleEndian.Uint16(b[off:])) }
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:], v)
}
func GetU16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }

func PutI32(b []byte, off int, v int32) { binary.LittleEndian.PutUint32(b[off:], uint32(v)) }
func GetI32(b []byte, off int) int32 { return int32(binary.LittleEndian.Uint32(b[off:])) }
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}
func GetU32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }

func PutI64(b []byte, off int, v int64) { binary.LittleEndian.PutUint64(b[off:], uint64(v)) }
func GetI64(b []byte, off int) int64 { return int64(binary.LittleEndian.Uint64(b[off:])) }
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:], v)
}
func GetU64(b []byte, off int) uint64 { return binary.LittleEndian.Uint64(b[off:]) }

func PutF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}
func GetF32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func PutF64(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(b[off:], math.Float64bits(v))
}
func GetF64(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}

// PutHandle stores a box handle in a pointer-sized slot.
func PutHandle(b []byte, off int, h Handle) {
	binary.LittleEndian.PutUint64(b[off:], uint64(h))
}

// GetHandle reads a box handle back from a pointer-sized slot.
func GetHandle(b []byte, off int) Handle {
	return Handle(binary.LittleEndian.Uint64(b[off:]))
}
