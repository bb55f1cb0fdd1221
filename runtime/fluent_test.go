package cbor

import (
	"bytes"
	"testing"
	"time"
)

func TestFluentChain(t *testing.T) {
	b := NewBuilder(nil)
	b.Insert(uint64(1)).Insert("name").Insert(true)
	if b.Err() != nil {
		t.Fatalf("encode fixture: %v", b.Err())
	}

	var id uint64
	var name string
	var flag bool
	d := NewDecoder(b.Encoded())
	DecodeWith(d, DecodeUint(), &id)
	DecodeWith(d, DecodeTstr(), &name)
	DecodeWith(d, DecodeBool(), &flag)
	if err := d.RequireEof().Err(); err != nil {
		t.Fatalf("chain: %v", err)
	}
	if id != 1 || name != "name" || !flag {
		t.Fatalf("decoded %d, %q, %v", id, name, flag)
	}
}

func TestFluentErrorShortCircuits(t *testing.T) {
	enc := NewBuilder(nil).Insert("not a uint").Encoded()

	var id uint64
	var name string
	d := NewDecoder(enc)
	DecodeWith(d, DecodeUint(), &id)
	DecodeWith(d, DecodeTstr(), &name)
	if d.Err() == nil {
		t.Fatal("expected recorded error")
	}
	if name != "" {
		t.Fatalf("later step ran after error: name = %q", name)
	}
}

func TestFluentInArray(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.Array(func(b *Builder) error {
		b.Insert(uint64(1)).Insert(uint64(2))
		return b.Err()
	}); err != nil {
		t.Fatalf("Array: %v", err)
	}

	var first, second uint64
	err := NewDecoder(b.Encoded()).InArray(func(d *CBORDecoder) error {
		DecodeWith(d, DecodeUint(), &first)
		DecodeWith(d, DecodeUint(), &second)
		return d.RequireEof().Err()
	}).Err()
	if err != nil {
		t.Fatalf("InArray: %v", err)
	}
	if first != 1 || second != 2 {
		t.Fatalf("decoded %d, %d", first, second)
	}
}

func TestFluentInMap(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.Map(func(b *Builder) error {
		b.InsertKeyValue("a", uint64(1))
		return b.Err()
	}); err != nil {
		t.Fatalf("Map: %v", err)
	}

	var key string
	var val uint64
	err := NewDecoder(b.Encoded()).InMap(func(d *CBORDecoder) error {
		DecodeWith(d, DecodeTstr(), &key)
		DecodeWith(d, DecodeUint(), &val)
		return d.Err()
	}).Err()
	if err != nil {
		t.Fatalf("InMap: %v", err)
	}
	if key != "a" || val != 1 {
		t.Fatalf("decoded %q, %d", key, val)
	}
}

func TestFluentInTag(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.Tag(32, func(b *Builder) error {
		b.Insert("https://example.com")
		return b.Err()
	}); err != nil {
		t.Fatalf("Tag: %v", err)
	}

	var number uint64
	var uri string
	err := NewDecoder(b.Encoded()).InTag(func(n uint64, d *CBORDecoder) error {
		number = n
		DecodeWith(d, DecodeTstr(), &uri)
		return d.Err()
	}).Err()
	if err != nil {
		t.Fatalf("InTag: %v", err)
	}
	if number != 32 || uri != "https://example.com" {
		t.Fatalf("decoded %d, %q", number, uri)
	}
}

func TestFluentRange(t *testing.T) {
	b := NewBuilder(nil)
	b.Insert(uint64(1)).Insert(uint64(2)).Insert(uint64(3)).Insert("stop")
	if b.Err() != nil {
		t.Fatalf("encode fixture: %v", b.Err())
	}

	var got []uint64
	d := NewDecoder(b.Encoded())
	d.Range(1, 0, IsUint(), func(v Value) {
		u, _ := v.Uint64()
		got = append(got, u)
	})
	if err := d.Err(); err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Range collected %v", got)
	}
	// The failed fourth attempt must have been rewound.
	var s string
	if err := DecodeWith(d, DecodeTstr(), &s).Err(); err != nil || s != "stop" {
		t.Fatalf("after Range: %q, %v", s, err)
	}
}

func TestFluentRangeUnderflow(t *testing.T) {
	enc := NewBuilder(nil).Insert(uint64(1)).Encoded()
	d := NewDecoder(enc)
	d.Range(2, 0, IsUint(), func(Value) {})
	ue, ok := d.Err().(RangeUnderflowError)
	if !ok || ue.Got != 1 {
		t.Fatalf("err = %v, want RangeUnderflowError{1}", d.Err())
	}
}

func TestFluentMany0Terminates(t *testing.T) {
	enc := NewBuilder(nil).Insert(uint64(1)).Insert(uint64(2)).Encoded()

	// IsAny succeeds without consuming once the input is exhausted; Many0
	// must still terminate.
	n := 0
	d := NewDecoder(enc)
	d.Many0(IsAny(), func(Value) { n++ })
	if err := d.Err(); err != nil {
		t.Fatalf("Many0: %v", err)
	}
	if n != 2 {
		t.Fatalf("Many0 matched %d items, want 2", n)
	}
}

func TestFluentOptAndCond(t *testing.T) {
	enc := NewBuilder(nil).Insert(uint64(7)).Encoded()

	var v Value
	d := NewDecoder(enc)
	d.Opt(IsTstr(), &v)
	if d.Err() != nil || v.Kind() != KindEof {
		t.Fatalf("Opt mismatch: %v, kind %v", d.Err(), v.Kind())
	}
	d.Cond(false, IsUint(), &v)
	if d.Err() != nil || v.Kind() != KindEof {
		t.Fatalf("Cond(false): %v, kind %v", d.Err(), v.Kind())
	}
	d.Opt(IsUint(), &v)
	if d.Err() != nil {
		t.Fatalf("Opt match: %v", d.Err())
	}
	if u, _ := v.Uint64(); u != 7 {
		t.Fatalf("Opt match = %d, want 7", u)
	}
}

func TestDateTimeTagRoundTrip(t *testing.T) {
	ts := time.Date(2013, time.March, 21, 20, 4, 0, 0, time.UTC)

	enc := NewBuilder(nil).Insert(FromDateTime(ts)).Encoded()
	v, err := NewCursor(enc).Next()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := v.DateTime()
	if err != nil {
		t.Fatalf("DateTime: %v", err)
	}
	if !got.Equal(ts) {
		t.Fatalf("round-trip = %v, want %v", got, ts)
	}
}

func TestEpochTagRoundTrip(t *testing.T) {
	enc := NewBuilder(nil).Insert(FromEpoch(1363896240)).Encoded()
	want := []byte{0xc1, 0x1a, 0x51, 0x4b, 0x67, 0xb0}
	if !bytes.Equal(enc, want) {
		t.Fatalf("encoded %x, want %x", enc, want)
	}

	v, err := NewCursor(enc).Next()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	sec, err := v.Epoch()
	if err != nil || sec != 1363896240 {
		t.Fatalf("Epoch = %d, %v", sec, err)
	}
}

func TestTagViewDateTimeAccessors(t *testing.T) {
	t.Run("bad tag-0 text yields ErrBadDateTime", func(t *testing.T) {
		b := NewBuilder(nil)
		if err := b.Tag(0, func(b *Builder) error {
			b.Insert("not a timestamp")
			return b.Err()
		}); err != nil {
			t.Fatalf("Tag: %v", err)
		}
		// The malformed timestamp does not qualify for the DateTime
		// interpretation, so the item decodes as a plain tag view.
		v, err := NewCursor(b.Encoded()).Next()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		tv, err := v.Tag()
		if err != nil {
			t.Fatalf("Tag(): %v", err)
		}
		if _, err := tv.DateTime(); err != ErrBadDateTime {
			t.Fatalf("DateTime err = %v, want ErrBadDateTime", err)
		}
	})

	t.Run("non-integer tag-1 child yields ErrBadDateTime", func(t *testing.T) {
		b := NewBuilder(nil)
		if err := b.Tag(1, func(b *Builder) error {
			b.Insert("soon")
			return b.Err()
		}); err != nil {
			t.Fatalf("Tag: %v", err)
		}
		v, err := NewCursor(b.Encoded()).Next()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		tv, err := v.Tag()
		if err != nil {
			t.Fatalf("Tag(): %v", err)
		}
		if _, err := tv.Epoch(); err != ErrBadDateTime {
			t.Fatalf("Epoch err = %v, want ErrBadDateTime", err)
		}
	})

	t.Run("wrong tag number reports ExpectedTag", func(t *testing.T) {
		b := NewBuilder(nil)
		if err := b.Tag(2, func(b *Builder) error {
			b.Insert([]byte{1})
			return b.Err()
		}); err != nil {
			t.Fatalf("Tag: %v", err)
		}
		v, _ := NewCursor(b.Encoded()).Next()
		tv, _ := v.Tag()
		if _, err := tv.DateTime(); !isExpectedTag(err, 0, 2) {
			t.Fatalf("DateTime on tag 2: err = %v, want ExpectedTagError{0, 2}", err)
		}
	})
}

func isExpectedTag(err error, want, got uint64) bool {
	te, ok := err.(ExpectedTagError)
	return ok && te.Want == want && te.Got == got
}

func TestRawPairReEmission(t *testing.T) {
	// Encode a pair once, then splice its raw bytes into a second map.
	kb := NewBuilder(nil).Insert("k").Encoded()
	vb := NewBuilder(nil).Insert(uint64(9)).Encoded()
	pair := RawPair{Key: append([]byte(nil), kb...), Value: append([]byte(nil), vb...)}

	b := NewBuilder(nil)
	if err := b.Map(func(b *Builder) error {
		b.Insert(pair)
		b.InsertKeyValue("other", uint64(1))
		return b.Err()
	}); err != nil {
		t.Fatalf("Map: %v", err)
	}

	v, err := NewCursor(b.Encoded()).Next()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, err := v.Map()
	if err != nil {
		t.Fatalf("Map(): %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	got, err := m.GetText("k")
	if err != nil {
		t.Fatalf("GetText(k): %v", err)
	}
	if u, _ := got.Uint64(); u != 9 {
		t.Fatalf("spliced value = %d, want 9", u)
	}
}

func TestFailedContainerLeavesNoBytes(t *testing.T) {
	t.Run("tag", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Insert(uint64(1))
		before := len(b.Encoded())
		if err := b.Tag(5, func(b *Builder) error { return nil }); err != ErrNotAllowed {
			t.Fatalf("err = %v, want ErrNotAllowed", err)
		}
		if len(b.Encoded()) != before {
			t.Fatalf("failed tag left %d bytes beyond the prior item", len(b.Encoded())-before)
		}
	})

	t.Run("error is sticky", func(t *testing.T) {
		b := NewBuilder(nil)
		if err := b.Map(func(b *Builder) error {
			b.Insert(uint64(1))
			return b.Err()
		}); err != ErrMalformedEncoding {
			t.Fatalf("err = %v, want ErrMalformedEncoding", err)
		}
		if _, err := b.Build(); err != ErrMalformedEncoding {
			t.Fatalf("Build err = %v, want ErrMalformedEncoding", err)
		}
	})
}

func TestSequenceBufferLen(t *testing.T) {
	b := NewBuilder(nil)
	b.Insert(uint64(1)).Insert("two").Insert(true)
	seq, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, err := seq.Len()
	if err != nil || n != 3 {
		t.Fatalf("Len() = %d, %v; want 3", n, err)
	}
	if seq.IsEmpty() {
		t.Fatal("IsEmpty() = true for a 3-item sequence")
	}
}

func TestLookupGeneric(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.Map(func(b *Builder) error {
		b.InsertKeyValue(uint64(1), "one")
		b.InsertKeyValue(uint64(2), uint64(2000))
		return b.Err()
	}); err != nil {
		t.Fatalf("Map: %v", err)
	}
	v, _ := NewCursor(b.Encoded()).Next()
	m, _ := v.Map()

	s, err := Lookup(m, FromUint64(1), Value.Text)
	if err != nil || s != "one" {
		t.Fatalf("Lookup(1) = %q, %v", s, err)
	}
	u, err := Lookup(m, FromUint64(2), Value.Uint8)
	if err == nil {
		t.Fatalf("Lookup(2) as uint8 = %d, want out-of-range error", u)
	}
	if _, err := Lookup(m, FromUint64(3), Value.Text); err != ErrKeyNotPresent {
		t.Fatalf("Lookup(3) err = %v, want ErrKeyNotPresent", err)
	}
}
