package cbor

import "time"

// Worst-case encoded sizes for common types, for callers pre-sizing a
// buffer before Insert. For variable-length types such as strings and
// byte slices, the total encoded size is the corresponding prefix size
// plus the length of the value. Container and string prefixes assume
// counts and lengths below 2^32.
const (
	Int64Size           = 9
	IntSize             = Int64Size
	UintSize            = Int64Size
	Int8Size            = 2
	Int16Size           = 3
	Int32Size           = 5
	Uint8Size           = 2
	Uint16Size          = 3
	Uint32Size          = 5
	Uint64Size          = Int64Size
	Float64Size         = 9
	Float32Size         = 5
	TimeSize            = 15
	BoolSize            = 1
	NilSize             = 1
	MapHeaderSize       = 5
	ArrayHeaderSize     = 5
	BytesPrefixSize     = 5
	StringPrefixSize    = 5
	ExtensionPrefixSize = 9 // tag number may use the full 8-byte field
)

// MaxEncodedSize reports an upper bound on the encoded size of v. It
// recognizes the same built-in types Insert does; a Marshaler and any
// unrecognized type report 0.
// Callers building a container add MapHeaderSize/ArrayHeaderSize for
// the enclosing header themselves.
func MaxEncodedSize(v EncodeItem) int {
	switch x := v.(type) {
	case Value:
		return maxValueSize(x)
	case RawPair:
		return len(x.Key) + len(x.Value)
	case bool:
		return BoolSize
	case string:
		return StringPrefixSize + len(x)
	case []byte:
		return BytesPrefixSize + len(x)
	case uint:
		return UintSize
	case uint8:
		return Uint8Size
	case uint16:
		return Uint16Size
	case uint32:
		return Uint32Size
	case uint64:
		return Uint64Size
	case int:
		return IntSize
	case int8:
		return Int8Size
	case int16:
		return Int16Size
	case int32:
		return Int32Size
	case int64:
		return Int64Size
	case float32:
		return Float32Size
	case float64:
		return Float64Size
	}
	return 0
}

func maxValueSize(v Value) int {
	switch v.kind {
	case KindUInt, KindNInt:
		return Int64Size
	case KindBstr:
		return BytesPrefixSize + len(v.bytes)
	case KindTstr:
		return StringPrefixSize + len(v.str)
	case KindArray:
		return ArrayHeaderSize + len(v.arr.buf)
	case KindMap:
		return MapHeaderSize + len(v.m.buf)
	case KindTag:
		return ExtensionPrefixSize + len(v.tag.buf)
	case KindSimple:
		return Uint8Size
	case KindFalse, KindTrue:
		return BoolSize
	case KindNull, KindUndefined:
		return NilSize
	case KindFloat16, KindFloat32, KindFloat64:
		return Float64Size
	case KindEpoch:
		return TimeSize
	case KindDateTime:
		return ExtensionPrefixSize + StringPrefixSize + len(v.t.Format(time.RFC3339Nano))
	}
	return 0
}
