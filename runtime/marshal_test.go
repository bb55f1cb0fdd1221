package cbor

import "testing"

type testPoint struct {
	X, Y int64
}

func (p testPoint) MarshalCBOR(b *Builder) error {
	return b.Array(func(b *Builder) error {
		b.Insert(p.X).Insert(p.Y)
		return b.Err()
	})
}

func (p *testPoint) UnmarshalCBOR(v Value) error {
	arr, err := v.Array()
	if err != nil {
		return err
	}
	first, err := arr.Index(0)
	if err != nil {
		return err
	}
	if p.X, err = first.Int64(); err != nil {
		return err
	}
	second, err := arr.Index(1)
	if err != nil {
		return err
	}
	p.Y, err = second.Int64()
	return err
}

func TestMarshalerRoundTrip(t *testing.T) {
	want := testPoint{X: 3, Y: -4}

	b := NewBuilder(nil)
	b.Insert(want)
	if b.Err() != nil {
		t.Fatalf("Insert: %v", b.Err())
	}

	var got testPoint
	if err := Unmarshal(b.Encoded(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("round-trip = %+v, want %+v", got, want)
	}
}

func TestMarshalerInsideContainer(t *testing.T) {
	b := NewBuilder(nil)
	err := b.Map(func(b *Builder) error {
		b.InsertKeyValue("origin", testPoint{X: 0, Y: 0})
		b.InsertKeyValue("corner", testPoint{X: 7, Y: 9})
		return b.Err()
	})
	if err != nil {
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
	cv, err := m.GetText("corner")
	if err != nil {
		t.Fatalf("GetText(corner): %v", err)
	}
	var corner testPoint
	if err := corner.UnmarshalCBOR(cv); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if corner.X != 7 || corner.Y != 9 {
		t.Fatalf("corner = %+v", corner)
	}
}

type failingMarshaler struct{}

func (failingMarshaler) MarshalCBOR(*Builder) error { return ErrNotAllowed }

func TestMarshalerErrorIsRecorded(t *testing.T) {
	b := NewBuilder(nil)
	b.Insert(failingMarshaler{})
	if b.Err() != ErrNotAllowed {
		t.Fatalf("Err() = %v, want ErrNotAllowed", b.Err())
	}
}

func TestUnmarshalEmptyInput(t *testing.T) {
	var p testPoint
	if err := Unmarshal(nil, &p); err != ErrEndOfBuffer {
		t.Fatalf("err = %v, want ErrEndOfBuffer", err)
	}
}
