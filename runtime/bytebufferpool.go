package cbor

import "sync"

// ByteBuffer is a pooled scratch buffer for encoding. Callers obtain one
// with GetByteBuffer or GetMinSize, fill it through Builder and Adopt,
// and hand it back with PutByteBuffer once the encoded bytes have been
// consumed.
type ByteBuffer struct {
	b []byte
}

var bbPool = sync.Pool{New: func() any { return &ByteBuffer{b: make([]byte, 0, 1024)} }}

// GetByteBuffer obtains a pooled ByteBuffer with length zero; capacity
// may be reused from a previous user.
func GetByteBuffer() *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.Reset()
	return bb
}

// GetMinSize obtains a pooled ByteBuffer with capacity for at least size
// bytes, growing it if the pooled capacity is smaller. Pair with
// MaxEncodedSize to avoid reallocation during a bounded encode.
func GetMinSize(size int) *ByteBuffer {
	bb := GetByteBuffer()
	if size > 0 {
		bb.Ensure(size)
	}
	return bb
}

// PutByteBuffer resets bb and returns it to the pool. The caller must
// not retain bb.Bytes() past this call.
func PutByteBuffer(bb *ByteBuffer) { bb.Reset(); bbPool.Put(bb) }

// Bytes returns the underlying bytes.
func (bb *ByteBuffer) Bytes() []byte { return bb.b }

// Len returns the current length.
func (bb *ByteBuffer) Len() int { return len(bb.b) }

// Reset resets the length to zero; capacity is unchanged.
func (bb *ByteBuffer) Reset() { bb.b = bb.b[:0] }

// Ensure grows the buffer so at least n more bytes fit without
// reallocation.
func (bb *ByteBuffer) Ensure(n int) {
	need := len(bb.b) + n
	if cap(bb.b) >= need {
		return
	}
	c := cap(bb.b)
	if c == 0 {
		c = 1024
	}
	for c < need {
		c <<= 1
	}
	nb := make([]byte, len(bb.b), c)
	copy(nb, bb.b)
	bb.b = nb
}

// Builder returns a Builder that writes into bb's backing slice, so a
// pooled ByteBuffer can be filled via the fluent Insert* calls.
func (bb *ByteBuffer) Builder() *Builder { return &Builder{buf: bb.b} }

// Adopt replaces bb's contents with whatever a Builder wrote, typically
// called after bb.Builder() was used to encode into it:
//
//	bld := bb.Builder()
//	bld.Insert("hi")
//	bb.Adopt(bld)
func (bb *ByteBuffer) Adopt(bld *Builder) { bb.b = bld.buf }
