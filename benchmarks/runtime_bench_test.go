package benchmarks

import (
	"testing"

	msgp "github.com/tinylib/msgp/msgp"

	cbor "github.com/wardleaf/minicbor/runtime"
)

// Primitive encode/decode microbenchmarks comparing this CBOR runtime
// against tinylib/msgp's MessagePack runtime for similar operations, so
// regressions in the Builder/Cursor hot paths stand out against a
// mature binary-codec baseline.

func BenchmarkCBOR_InsertInt64(b *testing.B) {
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = cbor.NewBuilder(out[:0]).Insert(int64(i)).Encoded()
	}
	_ = out
}

func BenchmarkMsgp_AppendInt64(b *testing.B) {
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendInt64(out[:0], int64(i))
	}
	_ = out
}

func BenchmarkCBOR_InsertString(b *testing.B) {
	var out []byte
	s := "hello world"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = cbor.NewBuilder(out[:0]).Insert(s).Encoded()
	}
	_ = out
}

func BenchmarkMsgp_AppendString(b *testing.B) {
	var out []byte
	s := "hello world"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendString(out[:0], s)
	}
	_ = out
}

func BenchmarkCBOR_InsertBytes(b *testing.B) {
	var out []byte
	data := []byte("payload bytes")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = cbor.NewBuilder(out[:0]).Insert(data).Encoded()
	}
	_ = out
}

func BenchmarkMsgp_AppendBytes(b *testing.B) {
	var out []byte
	data := []byte("payload bytes")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendBytes(out[:0], data)
	}
	_ = out
}

func BenchmarkCBOR_DecodeInt64(b *testing.B) {
	enc := cbor.NewBuilder(nil).Insert(int64(123456)).Encoded()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, err := cbor.NewCursor(enc).Next()
		if err != nil {
			b.Fatalf("Next: %v", err)
		}
		if _, err := v.Int64(); err != nil {
			b.Fatalf("Int64: %v", err)
		}
	}
}

func BenchmarkMsgp_ReadInt64(b *testing.B) {
	enc := msgp.AppendInt64(nil, 123456)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := msgp.ReadInt64Bytes(enc); err != nil {
			b.Fatalf("ReadInt64Bytes: %v", err)
		}
	}
}

// benchPerson mirrors a small struct shape (a name, an age, a byte
// blob) to compare a hand-rolled, map-keyed container encoding against
// msgp's positional array encoding for the same fields.
type benchPerson struct {
	Name string
	Age  int64
	Data []byte
}

func (p benchPerson) maxEncodedSize() int {
	return cbor.MapHeaderSize +
		cbor.MaxEncodedSize("name") + cbor.MaxEncodedSize(p.Name) +
		cbor.MaxEncodedSize("age") + cbor.MaxEncodedSize(p.Age) +
		cbor.MaxEncodedSize("data") + cbor.MaxEncodedSize(p.Data)
}

func (p benchPerson) marshalCBOR(buf []byte) ([]byte, error) {
	buf = cbor.Require(buf, p.maxEncodedSize())
	bld := cbor.NewBuilder(buf)
	err := bld.Map(func(b *cbor.Builder) error {
		b.InsertKeyValue("name", p.Name)
		b.InsertKeyValue("age", p.Age)
		b.InsertKeyValue("data", p.Data)
		return b.Err()
	})
	return bld.Encoded(), err
}

func (p benchPerson) marshalMsgp(buf []byte) []byte {
	buf = msgp.AppendArrayHeader(buf, 3)
	buf = msgp.AppendString(buf, p.Name)
	buf = msgp.AppendInt64(buf, p.Age)
	buf = msgp.AppendBytes(buf, p.Data)
	return buf
}

func BenchmarkCBOR_Person_Encode(b *testing.B) {
	p := benchPerson{Name: "Alice", Age: 42, Data: []byte("hello world")}
	var out []byte
	var err error
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err = p.marshalCBOR(out[:0])
		if err != nil {
			b.Fatalf("marshalCBOR: %v", err)
		}
	}
}

func BenchmarkMsgp_Person_Encode(b *testing.B) {
	p := benchPerson{Name: "Alice", Age: 42, Data: []byte("hello world")}
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = p.marshalMsgp(out[:0])
	}
	_ = out
}

func BenchmarkCBOR_Person_Decode(b *testing.B) {
	p := benchPerson{Name: "Alice", Age: 42, Data: []byte("hello world")}
	enc, err := p.marshalCBOR(nil)
	if err != nil {
		b.Fatalf("marshalCBOR: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, err := cbor.NewCursor(enc).Next()
		if err != nil {
			b.Fatalf("Next: %v", err)
		}
		m, err := v.Map()
		if err != nil {
			b.Fatalf("Map: %v", err)
		}
		if _, err := m.GetText("name"); err != nil {
			b.Fatalf("GetText(name): %v", err)
		}
	}
}

// BenchmarkCBOR_Person_EncodePooled repeats BenchmarkCBOR_Person_Encode's
// work but sources its backing buffer from the package's sync.Pool each
// iteration instead of reusing the previous iteration's output slice, so
// the cost of the pool round-trip can be compared against plain reuse.
func BenchmarkCBOR_Person_EncodePooled(b *testing.B) {
	p := benchPerson{Name: "Alice", Age: 42, Data: []byte("hello world")}
	size := p.maxEncodedSize()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb := cbor.GetMinSize(size)
		bld := bb.Builder()
		err := bld.Map(func(b *cbor.Builder) error {
			b.InsertKeyValue("name", p.Name)
			b.InsertKeyValue("age", p.Age)
			b.InsertKeyValue("data", p.Data)
			return b.Err()
		})
		if err != nil {
			b.Fatalf("marshalCBOR: %v", err)
		}
		bb.Adopt(bld)
		_ = bb.Bytes()
		cbor.PutByteBuffer(bb)
	}
}
