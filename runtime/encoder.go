package cbor

import "time"

// EncodeItem is the polymorphic contract Insert accepts: any Go value
// with a natural CBOR scalar encoding, an already-decoded Value, or a
// Marshaler that appends its own composite encoding. Go cannot
// retroactively implement an interface for built-in types, so the
// scalar set is a fixed, closed set of concrete types that Insert
// recognizes with a type switch; user-defined types participate by
// implementing Marshaler.
//
// Recognized underlying types: bool, every signed and unsigned integer
// width, float32, float64, []byte, string, Value, RawPair, and any
// Marshaler.
type EncodeItem = any

// Builder is the encode-side counterpart to Cursor: a growable byte
// buffer that knows how to append scalar items directly and how to
// build composite items (Array, Map, Tag) whose header cannot be written
// until their content — and therefore their item count — is known.
//
// Array and Map defer their header to a closure: a single placeholder
// header byte is reserved, the closure writes its children directly
// after it, and once the closure returns the written span is re-scanned
// to recover exactly how many items it holds. If that count needs more
// than the one placeholder byte can directly encode, the content is
// shifted forward in place to make room and the header is rewritten —
// the same retroactive length fix-up a writer without a look-ahead
// buffer has to perform.
type Builder struct {
	buf []byte
	err error
}

// NewBuilder returns a Builder writing into buf. buf's existing
// contents, if any, are discarded; its backing array is reused.
func NewBuilder(buf []byte) *Builder { return &Builder{buf: buf[:0]} }

// Err returns the first error recorded by any prior Insert/InsertKeyValue
// call, if any.
func (b *Builder) Err() error { return b.err }

// Encoded returns the bytes built so far, regardless of whether an error
// was recorded.
func (b *Builder) Encoded() []byte { return b.buf }

// Build finalizes the builder, returning a SequenceBuffer over its
// bytes, or the first recorded error.
func (b *Builder) Build() (SequenceBuffer, error) {
	if b.err != nil {
		return SequenceBuffer{}, b.err
	}
	return NewSequenceBuffer(b.buf), nil
}

// Reset empties the builder for reuse, retaining its backing array.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
	b.err = nil
}

// Insert appends v's encoding and returns b for chaining. Once an error
// is recorded, subsequent Insert/InsertKeyValue calls are no-ops; check
// Err (or Build's returned error) once at the end of a chain.
func (b *Builder) Insert(v EncodeItem) *Builder {
	if b.err != nil {
		return b
	}
	switch x := v.(type) {
	case Value:
		b.err = b.insertValue(x)
	case RawPair:
		// An already-encoded pair, re-emitted verbatim. Each half must
		// hold exactly one item for the containing map to stay valid;
		// the containing Map's finalize re-scan checks only that every
		// item is well-formed and that the total item count is even.
		b.buf = append(b.buf, x.Key...)
		b.buf = append(b.buf, x.Value...)
	case bool:
		b.insertBool(x)
	case string:
		b.insertText(x)
	case []byte:
		b.insertBytes(x)
	case uint:
		b.buf = appendUint(b.buf, majorTypeUint, uint64(x))
	case uint8:
		b.buf = appendUint(b.buf, majorTypeUint, uint64(x))
	case uint16:
		b.buf = appendUint(b.buf, majorTypeUint, uint64(x))
	case uint32:
		b.buf = appendUint(b.buf, majorTypeUint, uint64(x))
	case uint64:
		b.buf = appendUint(b.buf, majorTypeUint, x)
	case int:
		b.insertInt(int64(x))
	case int8:
		b.insertInt(int64(x))
	case int16:
		b.insertInt(int64(x))
	case int32:
		b.insertInt(int64(x))
	case int64:
		b.insertInt(x)
	case float32:
		b.buf = appendFloat32Preferred(b.buf, x)
	case float64:
		b.buf = appendFloatPreferred(b.buf, x)
	case Marshaler:
		b.err = x.MarshalCBOR(b)
	default:
		b.err = ErrNotAllowed
	}
	return b
}

// InsertKeyValue appends a key followed by its paired value; a
// convenience for populating a Map closure without writing Insert twice
// at every call site.
func (b *Builder) InsertKeyValue(k, v EncodeItem) *Builder {
	return b.Insert(k).Insert(v)
}

func (b *Builder) insertValue(v Value) error {
	switch v.kind {
	case KindUInt:
		b.buf = appendUint(b.buf, majorTypeUint, v.u)
	case KindNInt:
		b.buf = appendUint(b.buf, majorTypeNegInt, v.u)
	case KindBstr:
		b.insertBytes(v.bytes)
	case KindTstr:
		b.insertText(v.str)
	case KindArray:
		b.buf = appendUint(b.buf, majorTypeArray, uint64(v.arr.n))
		b.buf = append(b.buf, v.arr.buf...)
	case KindMap:
		b.buf = appendUint(b.buf, majorTypeMap, uint64(v.m.n))
		b.buf = append(b.buf, v.m.buf...)
	case KindTag:
		b.buf = appendUint(b.buf, majorTypeTag, v.tag.number)
		b.buf = append(b.buf, v.tag.buf...)
	case KindSimple:
		switch {
		case v.u < 20:
			b.buf = append(b.buf, makeByte(majorTypeSimple, uint8(v.u)))
		case v.u < 32:
			// 20..23 are the named simple values (use their own Kinds);
			// 24..31 are reserved.
			return ErrNotAllowed
		default:
			b.buf = append(b.buf, makeByte(majorTypeSimple, addInfoUint8), uint8(v.u))
		}
	case KindFalse:
		b.buf = append(b.buf, makeByte(majorTypeSimple, simpleFalse))
	case KindTrue:
		b.buf = append(b.buf, makeByte(majorTypeSimple, simpleTrue))
	case KindNull:
		b.buf = append(b.buf, makeByte(majorTypeSimple, simpleNull))
	case KindUndefined:
		b.buf = append(b.buf, makeByte(majorTypeSimple, simpleUndefined))
	case KindFloat64:
		b.buf = appendFloatPreferred(b.buf, v.f)
	case KindFloat32:
		b.buf = appendFloat32Preferred(b.buf, float32(v.f))
	case KindFloat16:
		b.buf = appendFloatPreferred(b.buf, v.f)
	case KindDateTime:
		b.insertDateTime(v.t)
	case KindEpoch:
		b.insertEpoch(int64(v.u))
	default:
		return ErrNotAllowed
	}
	return nil
}

func (b *Builder) insertBool(v bool) {
	if v {
		b.buf = append(b.buf, makeByte(majorTypeSimple, simpleTrue))
	} else {
		b.buf = append(b.buf, makeByte(majorTypeSimple, simpleFalse))
	}
}

func (b *Builder) insertInt(v int64) {
	if v >= 0 {
		b.buf = appendUint(b.buf, majorTypeUint, uint64(v))
		return
	}
	b.buf = appendUint(b.buf, majorTypeNegInt, uint64(-1-v))
}

func (b *Builder) insertBytes(v []byte) {
	b.buf = appendUint(b.buf, majorTypeBytes, uint64(len(v)))
	b.buf = append(b.buf, v...)
}

func (b *Builder) insertText(v string) {
	b.buf = appendUint(b.buf, majorTypeText, uint64(len(v)))
	b.buf = append(b.buf, v...)
}

func (b *Builder) insertDateTime(t time.Time) {
	b.buf = appendUint(b.buf, majorTypeTag, tagDateTimeString)
	b.insertText(t.Format(time.RFC3339Nano))
}

func (b *Builder) insertEpoch(sec int64) {
	b.buf = appendUint(b.buf, majorTypeTag, tagEpochDateTime)
	b.insertInt(sec)
}

// Array writes a definite-length array whose children are produced by
// fn.
func (b *Builder) Array(fn func(*Builder) error) error {
	return b.container(majorTypeArray, false, fn)
}

// Map writes a definite-length map whose key/value pairs are produced by
// fn. fn must write an even number of items; ErrMalformedEncoding is
// returned otherwise.
func (b *Builder) Map(fn func(*Builder) error) error {
	return b.container(majorTypeMap, true, fn)
}

// Tag writes a semantic tag: the tag number, followed by exactly one
// child item produced by fn. ErrNotAllowed is returned if fn writes zero
// items or more than one — resolving the "does a tag's closure get
// exactly one child?" question in favor of strict enforcement, since a
// tag with no child or multiple children cannot be decoded back
// unambiguously by TagView.Item.
func (b *Builder) Tag(number uint64, fn func(*Builder) error) error {
	if b.err != nil {
		return b.err
	}
	tagStart := len(b.buf)
	b.buf = appendUint(b.buf, majorTypeTag, number)
	contentStart := len(b.buf)

	err := fn(b)
	if err == nil {
		err = b.err
	}
	if err == nil {
		var n int
		n, err = countItems(b.buf[contentStart:])
		if err == nil && n != 1 {
			err = ErrNotAllowed
		}
	}
	if err != nil {
		// Abandon the whole tag, header included: a dangling tag header
		// with no child would itself be malformed.
		b.buf = b.buf[:tagStart]
		b.err = err
		return err
	}
	return nil
}

// container implements the shared Array/Map finalize algorithm described
// in the type doc comment. pairs indicates the written item count must
// be even (Map) or is used as-is (Array).
func (b *Builder) container(major uint8, pairs bool, fn func(*Builder) error) error {
	if b.err != nil {
		return b.err
	}
	headerPos := len(b.buf)
	b.buf = append(b.buf, 0) // placeholder header, patched below
	contentStart := len(b.buf)

	err := fn(b)
	if err == nil {
		err = b.err
	}
	if err != nil {
		b.buf = b.buf[:headerPos]
		b.err = err
		return err
	}

	itemCount, err := countItems(b.buf[contentStart:])
	if err != nil {
		b.buf = b.buf[:headerPos]
		b.err = err
		return err
	}
	if pairs && itemCount%2 != 0 {
		b.buf = b.buf[:headerPos]
		b.err = ErrMalformedEncoding
		return ErrMalformedEncoding
	}
	count := itemCount
	if pairs {
		count /= 2
	}

	extra := uintWidth(uint64(count))
	if extra == 0 {
		b.buf[headerPos] = makeByte(major, uint8(count))
		return nil
	}

	// Make room for the extra length bytes by growing the buffer and
	// shifting the already-written content forward.
	contentLen := len(b.buf) - contentStart
	b.buf = append(b.buf, make([]byte, extra)...)
	copy(b.buf[contentStart+extra:contentStart+extra+contentLen], b.buf[contentStart:contentStart+contentLen])

	ai, lenBytes := encodedLength(uint64(count), extra)
	b.buf[headerPos] = makeByte(major, ai)
	copy(b.buf[contentStart:contentStart+extra], lenBytes)
	return nil
}

// encodedLength renders count into a big-endian field of the given
// width and reports the additional-information selector for that width.
func encodedLength(count uint64, width int) (ai uint8, field []byte) {
	switch width {
	case 1:
		return addInfoUint8, []byte{uint8(count)}
	case 2:
		buf := appendBE16(nil, uint16(count))
		return addInfoUint16, buf
	case 4:
		buf := appendBE32(nil, uint32(count))
		return addInfoUint32, buf
	default:
		buf := appendBE64(nil, count)
		return addInfoUint64, buf
	}
}

// countItems scans span — a run of zero or more complete, consecutive
// top-level items — and reports how many there are. It is the encode
// side's use of the same single-item parser the decoder uses (IsAny,
// by way of Cursor.Next), so a container's item count is always derived
// by re-reading exactly what was written, never tracked by a separate
// counter that could drift from it.
func countItems(span []byte) (int, error) {
	cur := NewCursor(span)
	n := 0
	for {
		v, err := cur.Next()
		if err != nil {
			return 0, err
		}
		if v.IsEof() {
			return n, nil
		}
		n++
	}
}
