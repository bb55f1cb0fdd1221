package cbor

// FuzzCursor fuzzes the Cursor/parseItem entrypoints to ensure they do
// not panic on arbitrary inputs, under both strict and non-strict
// canonical-length checking.
import "testing"

func FuzzCursor(f *testing.F) {
	f.Add([]byte{0xa1, 0x61, 0x61, 0x01})       // map {"a":1}
	f.Add([]byte{0x83, 0x01, 0x02, 0x03})       // array [1,2,3]
	f.Add([]byte{0x9f, 0x01, 0x02, 0xff})       // indefinite array, rejected
	f.Add([]byte{0xff, 0x00, 0x01, 0x02, 0x03}) // invalid leading byte
	f.Add([]byte{0xc1, 0x1a, 0x51, 0x4b, 0x67, 0xb0})
	f.Add([]byte{0x5b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}) // byte string, 8-byte length near MaxUint64
	f.Add([]byte{0x9b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}) // array, 8-byte count near MaxUint64

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic decoding %x: %v", data, r)
			}
		}()

		for _, strict := range []bool{false, true} {
			cur := NewCursor(data)
			cur.SetStrict(strict)
			for {
				v, err := cur.Next()
				if err != nil || v.IsEof() {
					break
				}
				_, _, _ = DiagBytes(data)
				_, _ = ValidateWellFormedBytes(data)
			}
		}
	})
}

// FuzzBuilderRoundTrip fuzzes round-tripping arbitrary byte slices and
// strings through Builder/Cursor, ensuring encode-then-decode never
// panics and always recovers the original value when it succeeds.
func FuzzBuilderRoundTrip(f *testing.F) {
	f.Add([]byte("hello"))
	f.Add([]byte{})
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic round-tripping %x: %v", data, r)
			}
		}()

		enc := NewBuilder(nil).Insert(data).Encoded()
		v, err := NewCursor(enc).Next()
		if err != nil {
			t.Fatalf("decode own encoding of %x: %v", data, err)
		}
		got, err := v.Bytes()
		if err != nil {
			t.Fatalf("Bytes() on own encoding of %x: %v", data, err)
		}
		if string(got) != string(data) {
			t.Fatalf("round-trip mismatch: got %x, want %x", got, data)
		}
	})
}
