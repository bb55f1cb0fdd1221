package cbor

import (
	"math"
	"math/big"
	"time"
)

// ValueKind tags the variant carried by a Value.
type ValueKind byte

const (
	KindEof ValueKind = iota
	KindUInt
	KindNInt
	KindBstr
	KindTstr
	KindArray
	KindMap
	KindTag
	KindSimple
	KindFalse
	KindTrue
	KindNull
	KindUndefined
	KindFloat16
	KindFloat32
	KindFloat64
	KindDateTime
	KindEpoch
)

// Value is the abstract CBOR item: a tagged union over every decodable
// shape. It is immutable once constructed. Byte-string and container
// variants (and text strings, when UnsafeStringDecode is set) borrow from
// the buffer they were decoded from and must not outlive it.
type Value struct {
	kind  ValueKind
	u     uint64 // UInt magnitude / NInt n (represented value is -1-n) / Simple value
	f     float64
	bytes []byte
	str   string
	arr   ArrayView
	m     MapView
	tag   TagView
	t     time.Time
}

// Kind reports the variant carried by v.
func (v Value) Kind() ValueKind { return v.kind }

// Eof is the sentinel Value produced when a Cursor is exhausted.
var Eof = Value{kind: KindEof}

// Null is the CBOR null simple value.
var Null = Value{kind: KindNull}

// Undefined is the CBOR undefined simple value.
var Undefined = Value{kind: KindUndefined}

// FromBool returns True or False.
func FromBool(b bool) Value {
	if b {
		return Value{kind: KindTrue}
	}
	return Value{kind: KindFalse}
}

// FromUint64 wraps v as a UInt.
func FromUint64(v uint64) Value { return Value{kind: KindUInt, u: v} }

// FromInt64 wraps v as a UInt (v >= 0) or NInt (v < 0), using the
// two's-complement mapping n = -1-v so that math.MinInt64 round-trips.
func FromInt64(v int64) Value {
	if v >= 0 {
		return Value{kind: KindUInt, u: uint64(v)}
	}
	return Value{kind: KindNInt, u: uint64(-1 - v)}
}

// FromUint8/16/32 and FromInt8/16/32 are thin widenings into FromUint64/FromInt64.
func FromUint8(v uint8) Value   { return FromUint64(uint64(v)) }
func FromUint16(v uint16) Value { return FromUint64(uint64(v)) }
func FromUint32(v uint32) Value { return FromUint64(uint64(v)) }
func FromInt8(v int8) Value     { return FromInt64(int64(v)) }
func FromInt16(v int16) Value   { return FromInt64(int64(v)) }
func FromInt32(v int32) Value   { return FromInt64(int64(v)) }

// FromBytes wraps b as a Bstr. The returned Value borrows b.
func FromBytes(b []byte) Value { return Value{kind: KindBstr, bytes: b} }

// FromText wraps s as a Tstr.
func FromText(s string) Value { return Value{kind: KindTstr, str: s} }

// FromFloat64 wraps f as a Float64 value. Use appendFloatPreferred at
// encode time to choose the narrowest wire width; the abstract Value
// itself always carries the widened float64.
func FromFloat64(f float64) Value { return Value{kind: KindFloat64, f: f} }

// FromFloat32 wraps f as a Float32 value.
func FromFloat32(f float32) Value { return Value{kind: KindFloat32, f: float64(f)} }

// FromArray wraps an already-parsed ArrayView.
func FromArray(a ArrayView) Value { return Value{kind: KindArray, arr: a} }

// FromMap wraps an already-parsed MapView.
func FromMap(m MapView) Value { return Value{kind: KindMap, m: m} }

// FromTag wraps an already-parsed TagView.
func FromTag(t TagView) Value { return Value{kind: KindTag, tag: t} }

// FromSimple wraps a raw simple value (0..19 or 32..255; the named
// values 20..23 have their own Kinds and 24..31 are reserved).
func FromSimple(n uint8) Value { return Value{kind: KindSimple, u: uint64(n)} }

// FromDateTime wraps t as the tag-0 date-time extension.
func FromDateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// FromEpoch wraps the tag-1 epoch timestamp as a signed integer count of
// seconds.
func FromEpoch(sec int64) Value { return Value{kind: KindEpoch, u: uint64(sec)} }

// IsEof, IsNull and IsUndefined are convenience predicates.
func (v Value) IsEof() bool       { return v.kind == KindEof }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// Bool converts a True/False Value to bool.
func (v Value) Bool() (bool, error) {
	switch v.kind {
	case KindTrue:
		return true, nil
	case KindFalse:
		return false, nil
	default:
		return false, IncompatibleTypeError{Want: BoolType, Got: v.Type()}
	}
}

// Bytes returns the borrowed payload of a Bstr Value.
func (v Value) Bytes() ([]byte, error) {
	if v.kind != KindBstr {
		return nil, IncompatibleTypeError{Want: BinType, Got: v.Type()}
	}
	return v.bytes, nil
}

// Text returns the payload of a Tstr Value. For a decoded Value it is a
// copy of the source bytes unless UnsafeStringDecode was set at decode
// time, in which case it shares them.
func (v Value) Text() (string, error) {
	if v.kind != KindTstr {
		return "", IncompatibleTypeError{Want: StrType, Got: v.Type()}
	}
	return v.str, nil
}

// Array returns the ArrayView carried by an Array Value.
func (v Value) Array() (ArrayView, error) {
	if v.kind != KindArray {
		return ArrayView{}, IncompatibleTypeError{Want: ArrayType, Got: v.Type()}
	}
	return v.arr, nil
}

// Map returns the MapView carried by a Map Value.
func (v Value) Map() (MapView, error) {
	if v.kind != KindMap {
		return MapView{}, IncompatibleTypeError{Want: MapType, Got: v.Type()}
	}
	return v.m, nil
}

// Tag returns the TagView carried by a Tag Value.
func (v Value) Tag() (TagView, error) {
	if v.kind != KindTag {
		return TagView{}, IncompatibleTypeError{Want: ExtensionType, Got: v.Type()}
	}
	return v.tag, nil
}

// Float returns the widened float64 value and the precision tier it was
// decoded at, for any Float16/32/64 Value.
func (v Value) Float() (f float64, precision Type, err error) {
	switch v.kind {
	case KindFloat16:
		return v.f, Float16Type, nil
	case KindFloat32:
		return v.f, Float32Type, nil
	case KindFloat64:
		return v.f, Float64Type, nil
	default:
		return 0, InvalidType, IncompatibleTypeError{Want: Float64Type, Got: v.Type()}
	}
}

// DateTime returns the time.Time carried by a tag-0 DateTime Value.
func (v Value) DateTime() (time.Time, error) {
	if v.kind != KindDateTime {
		return time.Time{}, IncompatibleTypeError{Want: TimeType, Got: v.Type()}
	}
	return v.t, nil
}

// Epoch returns the seconds-since-epoch carried by a tag-1 Epoch Value.
func (v Value) Epoch() (int64, error) {
	if v.kind != KindEpoch {
		return 0, IncompatibleTypeError{Want: TimeType, Got: v.Type()}
	}
	return int64(v.u), nil
}

// BigInt is the total integer conversion: every UInt and NInt always
// converts, using a width wide enough to hold -1-math.MaxUint64 (the
// most negative representable CBOR integer) without loss.
func (v Value) BigInt() (*big.Int, error) {
	switch v.kind {
	case KindUInt:
		return new(big.Int).SetUint64(v.u), nil
	case KindNInt:
		// represented value is -1-n
		n := new(big.Int).SetUint64(v.u)
		return n.Neg(n.Add(n, big.NewInt(1))), nil
	default:
		return nil, IncompatibleTypeError{Want: IntType, Got: v.Type()}
	}
}

// Uint64 converts a UInt Value to uint64. NInt (always negative) is
// IncompatibleType.
func (v Value) Uint64() (uint64, error) {
	if v.kind != KindUInt {
		return 0, IncompatibleTypeError{Want: UintType, Got: v.Type()}
	}
	return v.u, nil
}

func (v Value) uintN(max uint64, bits int) (uint64, error) {
	u, err := v.Uint64()
	if err != nil {
		return 0, err
	}
	if u > max {
		return 0, OutOfRangeError{Value: int64(u), FailedBitsize: bits}
	}
	return u, nil
}

// Uint8/16/32 perform the fallible narrowing conversions.
func (v Value) Uint8() (uint8, error) {
	u, err := v.uintN(math.MaxUint8, 8)
	return uint8(u), err
}
func (v Value) Uint16() (uint16, error) {
	u, err := v.uintN(math.MaxUint16, 16)
	return uint16(u), err
}
func (v Value) Uint32() (uint32, error) {
	u, err := v.uintN(math.MaxUint32, 32)
	return uint32(u), err
}

// Int64 converts UInt or NInt to int64 using two's-complement symmetry:
// UInt(v) converts iff v <= MaxInt64; NInt(n) represents -1-n and
// converts iff n <= MaxInt64 (so -1-n stays >= MinInt64).
func (v Value) Int64() (int64, error) {
	switch v.kind {
	case KindUInt:
		if v.u > math.MaxInt64 {
			return 0, OutOfRangeError{Value: int64(v.u), FailedBitsize: 64}
		}
		return int64(v.u), nil
	case KindNInt:
		if v.u > math.MaxInt64 {
			return 0, OutOfRangeError{FailedBitsize: 64}
		}
		return -1 - int64(v.u), nil
	default:
		return 0, IncompatibleTypeError{Want: IntType, Got: v.Type()}
	}
}

func (v Value) intN(minV, maxV int64, bits int) (int64, error) {
	i, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if i < minV || i > maxV {
		return 0, OutOfRangeError{Value: i, FailedBitsize: bits}
	}
	return i, nil
}

// Int8/16/32 perform the fallible narrowing conversions.
func (v Value) Int8() (int8, error) {
	i, err := v.intN(math.MinInt8, math.MaxInt8, 8)
	return int8(i), err
}
func (v Value) Int16() (int16, error) {
	i, err := v.intN(math.MinInt16, math.MaxInt16, 16)
	return int16(i), err
}
func (v Value) Int32() (int32, error) {
	i, err := v.intN(math.MinInt32, math.MaxInt32, 32)
	return int32(i), err
}

// Type reports the coarse Type category for v, for diagnostics and for
// IncompatibleTypeError messages.
func (v Value) Type() Type {
	switch v.kind {
	case KindUInt:
		return UintType
	case KindNInt:
		return IntType
	case KindBstr:
		return BinType
	case KindTstr:
		return StrType
	case KindArray:
		return ArrayType
	case KindMap:
		return MapType
	case KindTag:
		return ExtensionType
	case KindSimple:
		return InvalidType
	case KindFalse, KindTrue:
		return BoolType
	case KindNull:
		return NilType
	case KindUndefined:
		return UndefinedType
	case KindFloat16:
		return Float16Type
	case KindFloat32:
		return Float32Type
	case KindFloat64:
		return Float64Type
	case KindDateTime, KindEpoch:
		return TimeType
	default:
		return InvalidType
	}
}

// Equal reports structural equality between two Values, as required by map
// key lookup and the WithValue decode combinator. Container
// variants compare equal iff their underlying borrowed byte ranges are
// identical in content (not necessarily the same backing array).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUInt, KindNInt, KindSimple:
		return v.u == o.u
	case KindBstr:
		return string(v.bytes) == string(o.bytes)
	case KindTstr:
		return v.str == o.str
	case KindFloat16, KindFloat32, KindFloat64:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case KindArray:
		return string(v.arr.buf) == string(o.arr.buf)
	case KindMap:
		return string(v.m.buf) == string(o.m.buf)
	case KindTag:
		return v.tag.number == o.tag.number && string(v.tag.buf) == string(o.tag.buf)
	case KindDateTime:
		return v.t.Equal(o.t)
	case KindEpoch:
		return v.u == o.u
	default: // Eof, Null, True, False, Undefined
		return true
	}
}
