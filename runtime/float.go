package cbor

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// appendFloatPreferred appends f using the narrowest CBOR floating-point
// width whose bit pattern round-trips exactly, per RFC 8949 preferred
// serialization. Comparison is by bit pattern, not value, so NaN payloads
// and signed zero survive.
func appendFloatPreferred(dst []byte, f float64) []byte {
	bits64 := math.Float64bits(f)

	f32 := float32(f)
	if math.Float64bits(float64(f32)) == bits64 {
		h := float16.Fromfloat32(f32)
		if math.Float32bits(h.Float32()) == math.Float32bits(f32) {
			return appendFloat16Bits(dst, uint16(h))
		}
		return appendFloat32Bits(dst, math.Float32bits(f32))
	}
	return appendFloat64Bits(dst, bits64)
}

// appendFloat32Preferred is the float32-input analogue of
// appendFloatPreferred, used when the caller's host value is already a
// float32 (so no f64-losslessness check against a wider type is needed).
func appendFloat32Preferred(dst []byte, f float32) []byte {
	h := float16.Fromfloat32(f)
	if math.Float32bits(h.Float32()) == math.Float32bits(f) {
		return appendFloat16Bits(dst, uint16(h))
	}
	return appendFloat32Bits(dst, math.Float32bits(f))
}

func appendFloat16Bits(dst []byte, bits uint16) []byte {
	dst = append(dst, makeByte(majorTypeSimple, simpleFloat16))
	return appendBE16(dst, bits)
}

func appendFloat32Bits(dst []byte, bits uint32) []byte {
	dst = append(dst, makeByte(majorTypeSimple, simpleFloat32))
	return appendBE32(dst, bits)
}

func appendFloat64Bits(dst []byte, bits uint64) []byte {
	dst = append(dst, makeByte(majorTypeSimple, simpleFloat64))
	return appendBE64(dst, bits)
}

// readFloat reads the payload following a major-7 header whose
// additional-information nibble is ai (25, 26 or 27), returning the value
// widened to float64 and the precision it was actually encoded at.
func readFloat(ai uint8, src []byte) (f float64, prec Type, rest []byte, err error) {
	switch ai {
	case simpleFloat16:
		raw, rest2, err2 := within(src, 2)
		if err2 != nil {
			return 0, Float16Type, src, err2
		}
		h := float16.Float16(binary.BigEndian.Uint16(raw))
		return float64(h.Float32()), Float16Type, rest2, nil
	case simpleFloat32:
		raw, rest2, err2 := within(src, 4)
		if err2 != nil {
			return 0, Float32Type, src, err2
		}
		bits := binary.BigEndian.Uint32(raw)
		return float64(math.Float32frombits(bits)), Float32Type, rest2, nil
	case simpleFloat64:
		raw, rest2, err2 := within(src, 8)
		if err2 != nil {
			return 0, Float64Type, src, err2
		}
		bits := binary.BigEndian.Uint64(raw)
		return math.Float64frombits(bits), Float64Type, rest2, nil
	}
	return 0, InvalidType, src, ErrAI
}
