package cbor

// SequenceBuffer is a borrowed view over a run of zero or more
// consecutive top-level CBOR items packed back to back with no enclosing
// array or map header — a "CBOR sequence" in RFC 8742 terms. It is the
// entry point for decoding a whole message that is itself a sequence of
// items rather than a single container.
type SequenceBuffer struct {
	buf []byte
}

// NewSequenceBuffer returns a SequenceBuffer over b. b is not copied.
func NewSequenceBuffer(b []byte) SequenceBuffer { return SequenceBuffer{buf: b} }

// Iter returns a Cursor over the sequence's items.
func (s SequenceBuffer) Iter() *Cursor { return NewCursor(s.buf) }

// Len reports how many top-level items the sequence contains. This walks
// the full sequence and is O(n); callers that only need to iterate once
// should prefer Iter.
func (s SequenceBuffer) Len() (int, error) {
	cur := s.Iter()
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

// IsEmpty reports whether the sequence contains no bytes.
func (s SequenceBuffer) IsEmpty() bool { return len(s.buf) == 0 }
