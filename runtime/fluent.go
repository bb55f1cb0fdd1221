package cbor

// CBORDecoder is a fluent, chainable wrapper around a Cursor. Where the
// free Parser[T] combinators in decoder.go compose at the type level,
// CBORDecoder composes at the call level: each method consumes one item
// (or a bounded run of them) and records the first error encountered, so
// a caller can chain several steps and check err once at the end.
type CBORDecoder struct {
	cur *Cursor
	err error
}

// NewDecoder returns a CBORDecoder reading from b.
func NewDecoder(b []byte) *CBORDecoder { return &CBORDecoder{cur: NewCursor(b)} }

// NewDecoderFromArray returns a CBORDecoder over an array's children.
func NewDecoderFromArray(a ArrayView) *CBORDecoder { return &CBORDecoder{cur: a.Iter()} }

// NewDecoderFromMap returns a CBORDecoder over a map's flattened pairs.
func NewDecoderFromMap(m MapView) *CBORDecoder { return &CBORDecoder{cur: m.Iter()} }

// NewDecoderFromTag returns a CBORDecoder over a tag's single child.
func NewDecoderFromTag(t TagView) *CBORDecoder { return &CBORDecoder{cur: NewCursor(t.buf)} }

// Err returns the first error recorded by any prior method call, if any.
func (d *CBORDecoder) Err() error { return d.err }

// SetStrict toggles canonical-length checking on the decoder's
// underlying cursor; see Cursor.SetStrict.
func (d *CBORDecoder) SetStrict(strict bool) { d.cur.SetStrict(strict) }

// SetMaxContainerLen caps array/map header counts on the decoder's
// underlying cursor; see Cursor.SetMaxContainerLen.
func (d *CBORDecoder) SetMaxContainerLen(max uint32) { d.cur.SetMaxContainerLen(max) }

// Value decodes the next item as a raw Value.
func (d *CBORDecoder) Value(out *Value) *CBORDecoder {
	if d.err != nil {
		return d
	}
	v, err := d.cur.Next()
	if err != nil {
		d.err = err
		return d
	}
	*out = v
	return d
}

// Map decodes the next item as a MapView.
func (d *CBORDecoder) Map(out *MapView) *CBORDecoder {
	if d.err != nil {
		return d
	}
	v, err := DecodeMap()(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	*out = v
	return d
}

// Array decodes the next item as an ArrayView.
func (d *CBORDecoder) Array(out *ArrayView) *CBORDecoder {
	if d.err != nil {
		return d
	}
	v, err := DecodeArray()(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	*out = v
	return d
}

// Tag decodes the next item as a TagView.
func (d *CBORDecoder) Tag(out *TagView) *CBORDecoder {
	if d.err != nil {
		return d
	}
	v, err := DecodeTag()(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	*out = v
	return d
}

// DecodeWith runs an arbitrary Parser[T] against the decoder's cursor and
// stores its result in out, short-circuiting if the decoder already
// carries an error.
func DecodeWith[T any](d *CBORDecoder, p Parser[T], out *T) *CBORDecoder {
	if d.err != nil {
		return d
	}
	v, err := p(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	*out = v
	return d
}

// Opt runs p; a failure is swallowed (and the cursor rewound) rather than
// recorded as the decoder's error.
func (d *CBORDecoder) Opt(p Parser[Value], out *Value) *CBORDecoder {
	if d.err != nil {
		return d
	}
	v, err := Opt(p)(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	if v != nil {
		*out = *v
	}
	return d
}

// Cond runs p only if b is true.
func (d *CBORDecoder) Cond(b bool, p Parser[Value], out *Value) *CBORDecoder {
	if d.err != nil {
		return d
	}
	v, err := Cond(b, p)(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	if v != nil {
		*out = *v
	}
	return d
}

// Range runs p between min and max times (max<=0 means unbounded),
// stopping at the first failure, and passes every successfully parsed
// value to f. It fails with RangeUnderflowError if fewer than min
// succeeded.
func (d *CBORDecoder) Range(min, max int, p Parser[Value], f func(Value)) *CBORDecoder {
	if d.err != nil {
		return d
	}
	n := 0
	for max <= 0 || n < max {
		snapshot := d.cur.buf
		v, err := p(d.cur)
		if err != nil {
			d.cur.buf = snapshot
			break
		}
		if len(d.cur.buf) == len(snapshot) {
			// p succeeded without consuming anything (e.g. IsAny at end
			// of input); stop rather than repeat forever.
			d.cur.buf = snapshot
			break
		}
		f(v)
		n++
	}
	if n < min {
		d.err = RangeUnderflowError{Got: n}
	}
	return d
}

// Many0 runs p until it first fails (rewinding past the failed attempt),
// passing every successfully parsed value to f. It never fails itself.
func (d *CBORDecoder) Many0(p Parser[Value], f func(Value)) *CBORDecoder {
	return d.Range(0, 0, p, f)
}

// InArray decodes the next item as an array and runs fn over a nested
// decoder scoped to exactly its children, so a caller can destructure a
// container inline without leaving the chain.
func (d *CBORDecoder) InArray(fn func(*CBORDecoder) error) *CBORDecoder {
	if d.err != nil {
		return d
	}
	a, err := DecodeArray()(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	if err := fn(NewDecoderFromArray(a)); err != nil {
		d.err = err
	}
	return d
}

// InMap decodes the next item as a map and runs fn over a nested decoder
// scoped to its flattened key,value,… pairs.
func (d *CBORDecoder) InMap(fn func(*CBORDecoder) error) *CBORDecoder {
	if d.err != nil {
		return d
	}
	m, err := DecodeMap()(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	if err := fn(NewDecoderFromMap(m)); err != nil {
		d.err = err
	}
	return d
}

// InTag decodes the next item as a tag and runs fn over a nested decoder
// scoped to its single child.
func (d *CBORDecoder) InTag(fn func(uint64, *CBORDecoder) error) *CBORDecoder {
	if d.err != nil {
		return d
	}
	tv, err := DecodeTag()(d.cur)
	if err != nil {
		d.err = err
		return d
	}
	if err := fn(tv.Number(), NewDecoderFromTag(tv)); err != nil {
		d.err = err
	}
	return d
}

// RequireEof fails with ErrEofExpected if the cursor has bytes remaining.
func (d *CBORDecoder) RequireEof() *CBORDecoder {
	if d.err != nil {
		return d
	}
	if len(d.cur.Remaining()) != 0 {
		d.err = ErrEofExpected
	}
	return d
}
