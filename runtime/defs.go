// Package cbor is a memory-efficient, zero-copy codec for RFC 8949 CBOR.
//
// Decoding never copies payload bytes: byte strings, text strings, and the
// container views (Array, Map, Tag) all borrow directly from the source
// slice passed to NewSequenceBuffer or NewDecoder. Encoding writes into a
// caller-provided []byte through a Builder, which patches container length
// headers retroactively once their contents are known.
//
// This package defines four families of entry points:
//   - Value / the Is* matcher functions decode one item at a time from a
//     Cursor.
//   - ArrayView / MapView / TagView expose borrowed, already-parsed
//     containers with iteration, indexing, and key lookup.
//   - Builder is the encode-side handle: Insert appends scalars, Array/Map/Tag
//     wrap composite items in a closure so the library — not the caller —
//     performs the length fix-up.
//   - CBORDecoder is a fluent wrapper around a Cursor for chained,
//     type-directed decoding.
package cbor

import "errors"

// RawPair represents an already-encoded CBOR key/value pair.
// Key and Value must each contain exactly one CBOR item.
type RawPair struct {
	Key   []byte
	Value []byte
}

const (
	// recursionLimit bounds recursive descent into nested containers
	// (Skip, ValidateDocument, diagnostic rendering).
	recursionLimit = 100000
)

// ErrContainerTooLarge is returned when a container's declared length
// exceeds a configured Decoder limit.
var ErrContainerTooLarge = errors.New("cbor: container too large")

// CBOR major types (3 bits).
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits).
const (
	addInfoDirect     = 23 // max directly-embedded value
	addInfoUint8      = 24 // 1-byte value follows
	addInfoUint16     = 25 // 2-byte value follows
	addInfoUint32     = 26 // 4-byte value follows
	addInfoUint64     = 27 // 8-byte value follows
	addInfoIndefinite = 31 // indefinite length; rejected, see ErrNotImplemented
)

// Simple values in major type 7.
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// Semantic tags this package special-cases. All other tag numbers are
// passed through as an opaque TagView.
const (
	tagDateTimeString = 0 // RFC 3339 date/time text string
	tagEpochDateTime  = 1 // Unix timestamp, int or float
)

func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// Type identifies the host-facing category of a decoded Value. It exists
// alongside ValueKind to give callers a coarser, Go-idiomatic grouping
// (e.g. both UInt and NInt report IntType-adjacent behavior through
// conversions) for diagnostics and switch statements.
type Type byte

// CBOR type categories.
const (
	InvalidType Type = iota
	StrType          // text string
	BinType          // byte string
	MapType          // map
	ArrayType        // array
	Float64Type      // float64
	Float32Type      // float32
	Float16Type      // float16
	BoolType         // bool
	IntType          // negative integer (NInt)
	UintType         // unsigned integer (UInt)
	NilType          // null
	UndefinedType    // undefined
	ExtensionType    // tagged value
	TimeType         // date-time / epoch tag
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case StrType:
		return "str"
	case BinType:
		return "bin"
	case MapType:
		return "map"
	case ArrayType:
		return "array"
	case Float64Type:
		return "float64"
	case Float32Type:
		return "float32"
	case Float16Type:
		return "float16"
	case BoolType:
		return "bool"
	case UintType:
		return "uint"
	case IntType:
		return "int"
	case ExtensionType:
		return "ext"
	case NilType:
		return "nil"
	case UndefinedType:
		return "undefined"
	case TimeType:
		return "time"
	default:
		return "<invalid>"
	}
}

// Marshaler is implemented by types that append their own CBOR encoding
// through a Builder, analogous to encoding/json's Marshaler. Insert
// dispatches to it for any value outside the built-in scalar set, so a
// Marshaler can be passed anywhere an EncodeItem is accepted, including
// inside Array/Map/Tag closures.
type Marshaler interface {
	MarshalCBOR(*Builder) error
}

// Unmarshaler is implemented by types that read their own fields out of
// a decoded Value. Unmarshal is the corresponding entry point.
type Unmarshaler interface {
	UnmarshalCBOR(Value) error
}

// ValidateUTF8OnDecode controls whether decoding a text string validates
// UTF-8. Enabled by default; some hot paths operating on already-trusted
// input may disable it.
var ValidateUTF8OnDecode = true

// UnsafeStringDecode controls whether decoded text strings are converted
// zero-copy via unsafe.Pointer instead of an allocating copy. Disabled by
// default; only safe when the source buffer outlives every derived string.
var UnsafeStringDecode = false
