package cbor

import "time"

// Cursor is the low-level decode iterator: a byte slice consumed one
// top-level item at a time. Everything else in this file and fluent.go is
// built on top of it.
type Cursor struct {
	buf          []byte
	strict       bool
	maxContainer uint32
}

// NewCursor returns a Cursor over b. b is not copied; the Cursor and any
// Value it produces borrow it for their entire lifetime.
func NewCursor(b []byte) *Cursor { return &Cursor{buf: b} }

// SetStrict toggles canonical-length checking: once enabled, Next
// rejects an otherwise well-formed item whose integer, length, or float
// header uses a wider encoding than its value requires (RFC 8949's
// preferred-serialization rule, enforced here on decode). The check
// applies to each item's own header as it is read; it does not descend
// ahead of time into a container's children beyond what Next naturally
// visits.
func (c *Cursor) SetStrict(strict bool) { c.strict = strict }

// SetMaxContainerLen caps the declared item count a single array or map
// header may carry; Next rejects a header claiming more with
// ErrContainerTooLarge before attempting to parse that many children. Zero
// (the default) leaves array and map length unbounded.
func (c *Cursor) SetMaxContainerLen(max uint32) { c.maxContainer = max }

// Remaining returns the unconsumed tail of the cursor's buffer.
func (c *Cursor) Remaining() []byte { return c.buf }

// Next consumes and returns the next top-level item, or Eof once the
// buffer is exhausted. Malformed bytes yield a typed Error and leave the
// cursor where it was, at the start of the offending item.
func (c *Cursor) Next() (Value, error) {
	if len(c.buf) == 0 {
		return Eof, nil
	}
	if c.strict {
		ok, err := isCanonicalHeader(c.buf)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Value{}, ErrNonCanonical
		}
	}
	v, rest, err := parseItem(c.buf, 0, c.maxContainer)
	if err != nil {
		return Value{}, err
	}
	c.buf = rest
	return v, nil
}

// Unmarshal decodes the first item in b and hands it to u. It is the
// decode-side counterpart of Insert's Marshaler dispatch: the one item
// is fully parsed (containers arrive as borrowed views) before u sees
// it, so UnmarshalCBOR never has to touch the wire format itself.
func Unmarshal(b []byte, u Unmarshaler) error {
	v, err := NewCursor(b).Next()
	if err != nil {
		return err
	}
	if v.IsEof() {
		return ErrEndOfBuffer
	}
	return u.UnmarshalCBOR(v)
}

// isCanonicalHeader reports whether the item headed by b's leading byte
// uses the narrowest encoding for its value, per RFC 8949's preferred
// serialization rule.
func isCanonicalHeader(b []byte) (bool, error) {
	major := getMajorType(b[0])
	if major == majorTypeSimple {
		ai := getAddInfo(b[0])
		if ai != simpleFloat16 && ai != simpleFloat32 && ai != simpleFloat64 {
			return true, nil
		}
		f, _, _, err := readFloat(ai, b[1:])
		if err != nil {
			return false, err
		}
		canonical := appendFloatPreferred(nil, f)
		return getAddInfo(canonical[0]) == ai, nil
	}
	_, v, ai, _, err := readUint(b)
	if err != nil {
		return false, err
	}
	switch uintWidth(v) {
	case 0:
		return ai == uint8(v), nil
	case 1:
		return ai == addInfoUint8, nil
	case 2:
		return ai == addInfoUint16, nil
	case 4:
		return ai == addInfoUint32, nil
	default:
		return ai == addInfoUint64, nil
	}
}

// parseItem reads exactly one item from the head of buf, dispatching on
// the leading byte's major type, and returns it along with the remaining
// bytes.
//
// maxContainer, when nonzero, rejects an array or map header declaring
// more items than that before descending into its content.
func parseItem(buf []byte, depth int, maxContainer uint32) (Value, []byte, error) {
	if depth > recursionLimit {
		return Value{}, buf, ErrMaxDepthExceeded
	}
	if len(buf) == 0 {
		return Eof, buf, nil
	}
	lead := buf[0]
	major := getMajorType(lead)

	switch major {
	case majorTypeUint:
		_, v, _, rest, err := readUint(buf)
		if err != nil {
			return Value{}, buf, err
		}
		return FromUint64(v), rest, nil

	case majorTypeNegInt:
		_, v, _, rest, err := readUint(buf)
		if err != nil {
			return Value{}, buf, err
		}
		return Value{kind: KindNInt, u: v}, rest, nil

	case majorTypeBytes:
		_, length, _, rest, err := readUint(buf)
		if err != nil {
			return Value{}, buf, err
		}
		n, err := boundedLen(length, len(rest))
		if err != nil {
			return Value{}, buf, err
		}
		data, rest2, err := within(rest, n)
		if err != nil {
			return Value{}, buf, err
		}
		return FromBytes(data), rest2, nil

	case majorTypeText:
		_, length, _, rest, err := readUint(buf)
		if err != nil {
			return Value{}, buf, err
		}
		n, err := boundedLen(length, len(rest))
		if err != nil {
			return Value{}, buf, err
		}
		data, rest2, err := within(rest, n)
		if err != nil {
			return Value{}, buf, err
		}
		if ValidateUTF8OnDecode && !isUTF8Valid(data) {
			return Value{}, buf, ErrUTF8
		}
		return FromText(bytesToString(data)), rest2, nil

	case majorTypeArray:
		_, count, _, rest, err := readUint(buf)
		if err != nil {
			return Value{}, buf, err
		}
		n, err := boundedLen(count, len(rest))
		if err != nil {
			return Value{}, buf, err
		}
		if maxContainer > 0 && uint64(n) > uint64(maxContainer) {
			return Value{}, buf, ErrContainerTooLarge
		}
		content, rest2, err := skipItems(rest, n, depth+1, maxContainer)
		if err != nil {
			return Value{}, buf, err
		}
		return FromArray(ArrayView{buf: content, n: n}), rest2, nil

	case majorTypeMap:
		_, count, _, rest, err := readUint(buf)
		if err != nil {
			return Value{}, buf, err
		}
		n, err := boundedPairCount(count, len(rest))
		if err != nil {
			return Value{}, buf, err
		}
		if maxContainer > 0 && uint64(n) > uint64(maxContainer) {
			return Value{}, buf, ErrContainerTooLarge
		}
		content, rest2, err := skipItems(rest, n*2, depth+1, maxContainer)
		if err != nil {
			return Value{}, buf, err
		}
		return FromMap(MapView{buf: content, n: n}), rest2, nil

	case majorTypeTag:
		_, number, _, rest, err := readUint(buf)
		if err != nil {
			return Value{}, buf, err
		}
		content, rest2, err := skipItems(rest, 1, depth+1, maxContainer)
		if err != nil {
			return Value{}, buf, err
		}
		tv := TagView{buf: content, number: number}
		if v, ok := specialTagValue(tv); ok {
			return v, rest2, nil
		}
		return FromTag(tv), rest2, nil

	default: // majorTypeSimple
		return parseSimple(lead, buf[1:])
	}
}

// specialTagValue attempts the tag 0 (date-time) / tag 1 (epoch)
// interpretation. Tags whose child does not have the
// expected shape are left as a plain TagView rather than failing — only a
// caller that asks for the special interpretation should see an error.
func specialTagValue(tv TagView) (Value, bool) {
	switch tv.number {
	case tagDateTimeString:
		inner, err := tv.Item()
		if err != nil {
			return Value{}, false
		}
		s, err := inner.Text()
		if err != nil {
			return Value{}, false
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return Value{}, false
		}
		return FromDateTime(t), true

	case tagEpochDateTime:
		inner, err := tv.Item()
		if err != nil {
			return Value{}, false
		}
		switch inner.kind {
		case KindUInt, KindNInt:
			i, err := inner.Int64()
			if err != nil {
				return Value{}, false
			}
			return FromEpoch(i), true
		}
		return Value{}, false
	}
	return Value{}, false
}

// parseSimple handles major type 7: simple values, booleans, null,
// undefined, and floats.
func parseSimple(lead byte, rest []byte) (Value, []byte, error) {
	ai := getAddInfo(lead)
	switch {
	case ai <= 19:
		return FromSimple(ai), rest, nil
	case ai == simpleFalse:
		return Value{kind: KindFalse}, rest, nil
	case ai == simpleTrue:
		return Value{kind: KindTrue}, rest, nil
	case ai == simpleNull:
		return Null, rest, nil
	case ai == simpleUndefined:
		return Undefined, rest, nil
	case ai == addInfoUint8: // one-byte simple value extension
		b, rest2, err := within(rest, 1)
		if err != nil {
			return Value{}, rest, err
		}
		if b[0] < 32 {
			// Two-byte encodings of simple values below 32 are not
			// well-formed (RFC 8949 §3.3).
			return Value{}, rest, ErrMalformedEncoding
		}
		return FromSimple(b[0]), rest2, nil
	case ai == simpleFloat16 || ai == simpleFloat32 || ai == simpleFloat64:
		f, precision, rest2, err := readFloat(ai, rest)
		if err != nil {
			return Value{}, rest, err
		}
		switch precision {
		case Float16Type:
			return Value{kind: KindFloat16, f: f}, rest2, nil
		case Float32Type:
			return Value{kind: KindFloat32, f: f}, rest2, nil
		default:
			return Value{kind: KindFloat64, f: f}, rest2, nil
		}
	case ai == simpleBreak:
		// Break only appears terminating an indefinite-length item, which
		// this codec never emits and never accepts.
		return Value{}, rest, ErrNotImplemented
	default: // 28, 29, 30: reserved
		return Value{}, rest, ErrAI
	}
}

// skipItems fully parses count consecutive items starting at the head of
// buf (recursing into any nested containers) and returns the exact byte
// span they occupy plus whatever follows.
func skipItems(buf []byte, count int, depth int, maxContainer uint32) (content, rest []byte, err error) {
	b := buf
	for i := 0; i < count; i++ {
		_, next, e := parseItem(b, depth, maxContainer)
		if e != nil {
			return nil, buf, e
		}
		b = next
	}
	consumed := len(buf) - len(b)
	return buf[:consumed], b, nil
}

func bytesToString(b []byte) string {
	if UnsafeStringDecode {
		return UnsafeString(b)
	}
	return string(b)
}

// Parser is the decode-combinator building block: a function that
// consumes zero-or-more bytes from a Cursor and produces a T or an error.
// It composes via the free functions below (ParserMap, ParserFlatMap,
// ParserAnd, Or, …) since Go methods cannot introduce their own type
// parameters.
type Parser[T any] func(*Cursor) (T, error)

// Pair is the result of ParserAnd.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Matchers. Each consumes exactly one item and fails with ExpectedType(s)
// (or ExpectedTag) if its shape does not match.

func IsAny() Parser[Value] {
	return func(c *Cursor) (Value, error) { return c.Next() }
}

func IsEof() Parser[Value] {
	return func(c *Cursor) (Value, error) {
		v, err := c.Next()
		if err != nil {
			return Value{}, err
		}
		if !v.IsEof() {
			return Value{}, ExpectedTypeError{Want: "eof"}
		}
		return v, nil
	}
}

func isKind(want string, kinds ...ValueKind) Parser[Value] {
	return func(c *Cursor) (Value, error) {
		v, err := c.Next()
		if err != nil {
			return Value{}, err
		}
		for _, k := range kinds {
			if v.kind == k {
				return v, nil
			}
		}
		return Value{}, ExpectedTypeError{Want: want}
	}
}

func IsUint() Parser[Value]      { return isKind("uint", KindUInt) }
func IsNInt() Parser[Value]      { return isKind("nint", KindNInt) }
func IsInt() Parser[Value]       { return isKind("int", KindUInt, KindNInt) }
func IsBstr() Parser[Value]      { return isKind("bstr", KindBstr) }
func IsTstr() Parser[Value]      { return isKind("tstr", KindTstr) }
func IsTrue() Parser[Value]      { return isKind("true", KindTrue) }
func IsFalse() Parser[Value]     { return isKind("false", KindFalse) }
func IsBool() Parser[Value]      { return isKind("bool", KindTrue, KindFalse) }
func IsNull() Parser[Value]      { return isKind("null", KindNull) }
func IsUndefined() Parser[Value] { return isKind("undefined", KindUndefined) }
func IsSimple() Parser[Value]    { return isKind("simple", KindSimple) }
func IsArray() Parser[Value]     { return isKind("array", KindArray) }
func IsMap() Parser[Value]       { return isKind("map", KindMap) }
func IsTag() Parser[Value]       { return isKind("tag", KindTag) }
func IsDateTime() Parser[Value]  { return isKind("date-time", KindDateTime) }
func IsEpoch() Parser[Value]     { return isKind("epoch", KindEpoch) }

// IsTagWithValue matches a tag item whose tag number equals n.
func IsTagWithValue(n uint64) Parser[Value] {
	return func(c *Cursor) (Value, error) {
		v, err := c.Next()
		if err != nil {
			return Value{}, err
		}
		if v.kind != KindTag {
			return Value{}, ExpectedTypeError{Want: "tag"}
		}
		if v.tag.number != n {
			return Value{}, ExpectedTagError{Want: n, Got: v.tag.number}
		}
		return v, nil
	}
}

// Typed decoders layer a conversion on top of a matcher, the Go analogue
// of decode_uint/decode_tstr/… in decode_combinators.rs.

func DecodeUint() Parser[uint64]      { return ParserMap(IsUint(), Value.Uint64) }
func DecodeNInt() Parser[uint64]      { return ParserMap(IsNInt(), func(v Value) (uint64, error) { return v.u, nil }) }
func DecodeInt() Parser[int64]        { return ParserMap(IsInt(), Value.Int64) }
func DecodeBstr() Parser[[]byte]      { return ParserMap(IsBstr(), Value.Bytes) }
func DecodeTstr() Parser[string]      { return ParserMap(IsTstr(), Value.Text) }
func DecodeBool() Parser[bool]        { return ParserMap(IsBool(), Value.Bool) }
func DecodeArray() Parser[ArrayView]  { return ParserMap(IsArray(), Value.Array) }
func DecodeMap() Parser[MapView]      { return ParserMap(IsMap(), Value.Map) }
func DecodeTag() Parser[TagView]      { return ParserMap(IsTag(), Value.Tag) }
func DecodeNull() Parser[Value]       { return IsNull() }
func DecodeUndefined() Parser[Value]  { return IsUndefined() }
func DecodeSimple() Parser[uint8]     { return ParserMap(IsSimple(), func(v Value) (uint8, error) { return uint8(v.u), nil }) }

// ParserMap runs p, then converts its result via f.
func ParserMap[T, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	return func(c *Cursor) (U, error) {
		t, err := p(c)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(t)
	}
}

// ParserFlatMap runs p, then runs the parser f(t) produces, continuing
// from wherever p left the cursor.
func ParserFlatMap[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(c *Cursor) (U, error) {
		t, err := p(c)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(t)(c)
	}
}

// ParserAnd runs p1 then p2 and pairs their results.
func ParserAnd[T, U any](p1 Parser[T], p2 Parser[U]) Parser[Pair[T, U]] {
	return func(c *Cursor) (Pair[T, U], error) {
		t, err := p1(c)
		if err != nil {
			return Pair[T, U]{}, err
		}
		u, err := p2(c)
		if err != nil {
			return Pair[T, U]{}, err
		}
		return Pair[T, U]{First: t, Second: u}, nil
	}
}

// ParserInto converts a successful Parser[T] result into U via f, without
// consuming anything further — a thin renaming of ParserMap with a
// total (error-free) conversion, mirroring DecodeParser::into.
func ParserInto[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return ParserMap(p, func(t T) (U, error) { return f(t), nil })
}

// Or tries p1; if it fails, the cursor is rewound to its pre-p1 position
// and p2 is tried instead.
func Or[T any](p1, p2 Parser[T]) Parser[T] {
	return func(c *Cursor) (T, error) {
		snapshot := c.buf
		v, err := p1(c)
		if err == nil {
			return v, nil
		}
		c.buf = snapshot
		return p2(c)
	}
}

// Opt always succeeds: it returns a non-nil *T on match, nil on a
// rewound, non-matching attempt.
func Opt[T any](p Parser[T]) Parser[*T] {
	return func(c *Cursor) (*T, error) {
		snapshot := c.buf
		v, err := p(c)
		if err != nil {
			c.buf = snapshot
			return nil, nil
		}
		return &v, nil
	}
}

// Cond runs p only if b is true.
func Cond[T any](b bool, p Parser[T]) Parser[*T] {
	return func(c *Cursor) (*T, error) {
		if !b {
			return nil, nil
		}
		v, err := p(c)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// WithPred runs p and rejects with ErrFailedPredicate if f(result) is
// false.
func WithPred[T any](p Parser[T], f func(T) bool) Parser[T] {
	return func(c *Cursor) (T, error) {
		v, err := p(c)
		if err != nil {
			return v, err
		}
		if !f(v) {
			var zero T
			return zero, ErrFailedPredicate
		}
		return v, nil
	}
}

// WithValue runs p and requires the result be structurally equal to want.
func WithValue(p Parser[Value], want Value) Parser[Value] {
	return WithPred(p, func(v Value) bool { return v.Equal(want) })
}

// Apply runs p and invokes f on its result for side effects, returning the
// result unchanged.
func Apply[T any](p Parser[T], f func(T)) Parser[T] {
	return func(c *Cursor) (T, error) {
		v, err := p(c)
		if err != nil {
			return v, err
		}
		f(v)
		return v, nil
	}
}
