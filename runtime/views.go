package cbor

import "time"

// ArrayView is a borrowed, non-owning view over the encoded bytes of a
// CBOR array: the sub-slice containing exactly n consecutively-encoded
// children. It shares the lifetime of the buffer it was parsed from.
type ArrayView struct {
	buf []byte
	n   int
}

// Len reports the item count recovered from the array's header.
func (a ArrayView) Len() int { return a.n }

// IsEmpty reports whether the array has zero items.
func (a ArrayView) IsEmpty() bool { return a.n == 0 }

// Index returns the n-th child (0-based). This walks the view from the
// start each call and is therefore O(n); callers that need every item
// should use Iter instead of repeated Index calls.
func (a ArrayView) Index(n int) (Value, error) {
	if n < 0 {
		return Value{}, ErrEndOfBuffer
	}
	cur := NewCursor(a.buf)
	var v Value
	for i := 0; i <= n; i++ {
		var err error
		v, err = cur.Next()
		if err != nil {
			return Value{}, err
		}
		if v.IsEof() {
			return Value{}, ErrEndOfBuffer
		}
	}
	return v, nil
}

// Iter returns a Cursor over the array's children, in insertion order.
func (a ArrayView) Iter() *Cursor { return NewCursor(a.buf) }

// MapView is a borrowed, non-owning view over the encoded bytes of a CBOR
// map: the sub-slice containing n key,value,key,value,… pairs.
type MapView struct {
	buf []byte
	n   int // pair count
}

// Len reports the pair count recovered from the map's header.
func (m MapView) Len() int { return m.n }

// IsEmpty reports whether the map has zero pairs.
func (m MapView) IsEmpty() bool { return m.n == 0 }

// Iter returns a Cursor over the map's flattened key,value,key,value,…
// sequence.
func (m MapView) Iter() *Cursor { return NewCursor(m.buf) }

// Get scans the map's pairs for a key structurally equal to key and
// returns its paired value. It returns ErrKeyNotPresent if no
// pair matches, or ErrValueNotPresent if the scan reaches a key with no
// value after it (an odd number of items, malformed input), whether or
// not that key matches.
func (m MapView) Get(key Value) (Value, error) {
	_, v, err := m.GetKeyValue(key)
	return v, err
}

// GetKeyValue is Get, additionally returning the matched key (always
// structurally equal to the key argument, but sharing its own borrowed
// storage from the map's buffer).
func (m MapView) GetKeyValue(key Value) (Value, Value, error) {
	cur := NewCursor(m.buf)
	for {
		k, err := cur.Next()
		if err != nil {
			return Value{}, Value{}, err
		}
		if k.IsEof() {
			return Value{}, Value{}, ErrKeyNotPresent
		}
		val, err := cur.Next()
		if err != nil {
			return Value{}, Value{}, err
		}
		if val.IsEof() {
			return Value{}, Value{}, ErrValueNotPresent
		}
		if k.Equal(key) {
			return k, val, nil
		}
	}
}

// ContainsKey reports whether the map contains a pair whose key is
// structurally equal to key.
func (m MapView) ContainsKey(key Value) bool {
	_, err := m.Get(key)
	return err == nil
}

// GetInt is a convenience wrapper for integer-keyed maps.
func (m MapView) GetInt(key int64) (Value, error) { return m.Get(FromInt64(key)) }

// GetText is a convenience wrapper for text-keyed maps.
func (m MapView) GetText(key string) (Value, error) { return m.Get(FromText(key)) }

// Lookup composes MapView.Get with a fallible conversion of the found
// value into a host type T. Expressed as a free function taking the
// conversion as a parameter, since Go methods cannot carry their own type
// parameters.
func Lookup[T any](m MapView, key Value, conv func(Value) (T, error)) (T, error) {
	var zero T
	v, err := m.Get(key)
	if err != nil {
		return zero, err
	}
	out, err := conv(v)
	if err != nil {
		return zero, err
	}
	return out, nil
}

// TagView is a borrowed, non-owning view over a CBOR tagged item: the
// 64-bit tag number plus the sub-slice containing exactly the one child
// item the tag wraps.
type TagView struct {
	buf    []byte
	number uint64
}

// Number returns the tag's semantic number (e.g. 0 for date-time, 1 for
// epoch).
func (t TagView) Number() uint64 { return t.number }

// Item decodes and returns the tag's single wrapped child.
func (t TagView) Item() (Value, error) {
	cur := NewCursor(t.buf)
	v, err := cur.Next()
	if err != nil {
		return Value{}, err
	}
	if v.IsEof() {
		return Value{}, ErrEndOfBuffer
	}
	return v, nil
}

// DateTime interprets the view as a tag-0 date-time: the child must be a
// text string holding an RFC 3339 timestamp. It returns ErrBadDateTime
// when the tag number, the child's shape, or the timestamp text is wrong.
//
// The decoder already produces a DateTime Value for well-formed tag-0
// items; this accessor exists for callers holding a TagView whose special
// interpretation failed and who want the explicit failure reason.
func (t TagView) DateTime() (time.Time, error) {
	if t.number != tagDateTimeString {
		return time.Time{}, ExpectedTagError{Want: tagDateTimeString, Got: t.number}
	}
	inner, err := t.Item()
	if err != nil {
		return time.Time{}, err
	}
	s, err := inner.Text()
	if err != nil {
		return time.Time{}, ErrBadDateTime
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrBadDateTime
	}
	return ts, nil
}

// Epoch interprets the view as a tag-1 epoch timestamp: the child must be
// an integer count of seconds. It returns ExpectedTagError when the tag
// number is not 1, and ErrBadDateTime when the child is not an integer
// that fits an int64.
func (t TagView) Epoch() (int64, error) {
	if t.number != tagEpochDateTime {
		return 0, ExpectedTagError{Want: tagEpochDateTime, Got: t.number}
	}
	inner, err := t.Item()
	if err != nil {
		return 0, err
	}
	sec, err := inner.Int64()
	if err != nil {
		return 0, ErrBadDateTime
	}
	return sec, nil
}
