package cbor

import "encoding/binary"

// appendUint appends the header byte (major type OR'd with the chosen
// additional-information selector) and, if needed, the 1/2/4/8-byte
// big-endian value field for v, using preferred (shortest) serialization.
func appendUint(dst []byte, major uint8, v uint64) []byte {
	switch {
	case v <= addInfoDirect:
		return append(dst, makeByte(major, uint8(v)))
	case v <= 0xff:
		dst = append(dst, makeByte(major, addInfoUint8))
		return append(dst, uint8(v))
	case v <= 0xffff:
		dst = append(dst, makeByte(major, addInfoUint16))
		return appendBE16(dst, uint16(v))
	case v <= 0xffffffff:
		dst = append(dst, makeByte(major, addInfoUint32))
		return appendBE32(dst, uint32(v))
	default:
		dst = append(dst, makeByte(major, addInfoUint64))
		return appendBE64(dst, v)
	}
}

// uintWidth reports how many extra bytes (beyond the header byte) a count
// of v items needs: 0, 1, 2, 4 or 8. Used by the encoder's finalize step to
// size the retroactive length fix-up.
func uintWidth(v uint64) int {
	switch {
	case v <= addInfoDirect:
		return 0
	case v <= 0xff:
		return 1
	case v <= 0xffff:
		return 2
	case v <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

func appendBE16(dst []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(dst, tmp[:]...)
}

func appendBE32(dst []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

func appendBE64(dst []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(dst, tmp[:]...)
}

// readUint reads one header byte from src, splits it into major type and
// additional information, and — for AI 24/25/26/27 — the following
// big-endian value bytes. It returns the major type, the recovered value,
// the raw additional-information nibble (so callers can distinguish a
// literal small value from a simple-value/float selector), and the
// remaining bytes.
func readUint(src []byte) (major uint8, v uint64, ai uint8, rest []byte, err error) {
	if len(src) < 1 {
		return 0, 0, 0, src, ErrEndOfBuffer
	}
	lead := src[0]
	major = getMajorType(lead)
	ai = getAddInfo(lead)
	rest = src[1:]

	switch {
	case ai <= addInfoDirect:
		return major, uint64(ai), ai, rest, nil
	case ai == addInfoUint8:
		if len(rest) < 1 {
			return major, 0, ai, src, ErrEndOfBuffer
		}
		return major, uint64(rest[0]), ai, rest[1:], nil
	case ai == addInfoUint16:
		if len(rest) < 2 {
			return major, 0, ai, src, ErrEndOfBuffer
		}
		return major, uint64(binary.BigEndian.Uint16(rest)), ai, rest[2:], nil
	case ai == addInfoUint32:
		if len(rest) < 4 {
			return major, 0, ai, src, ErrEndOfBuffer
		}
		return major, uint64(binary.BigEndian.Uint32(rest)), ai, rest[4:], nil
	case ai == addInfoUint64:
		if len(rest) < 8 {
			return major, 0, ai, src, ErrEndOfBuffer
		}
		return major, binary.BigEndian.Uint64(rest), ai, rest[8:], nil
	case ai == addInfoIndefinite:
		return major, 0, ai, src, ErrNotImplemented
	default: // 28, 29, 30: reserved
		return major, 0, ai, src, ErrAI
	}
}

// within reports whether n bytes are available in b, returning the
// consumed-so-far-safe split or ErrEndOfBuffer. A negative n (which can
// only reach here through a caller's own narrowing bug) is rejected
// rather than silently satisfying len(b) < n and falling through to an
// out-of-range slice expression.
func within(b []byte, n int) ([]byte, []byte, error) {
	if n < 0 || len(b) < n {
		return nil, b, ErrEndOfBuffer
	}
	return b[:n], b[n:], nil
}

// boundedLen validates a decoded uint64 length/count against the bytes
// actually remaining before it is narrowed to an int, so a crafted
// header (e.g. an 8-byte length field near math.MaxUint64) is rejected
// as ErrEndOfBuffer instead of wrapping to a negative int downstream.
// remaining is the number of bytes left in the buffer; since a
// byte/text string's content or an array's children each occupy at
// least one byte, v can never legitimately exceed it.
func boundedLen(v uint64, remaining int) (int, error) {
	if v > uint64(remaining) {
		return 0, ErrEndOfBuffer
	}
	return int(v), nil
}

// boundedPairCount is boundedLen specialized for a map's pair count:
// each pair consumes at least two bytes (a one-byte-minimum key and a
// one-byte-minimum value), so a legitimate count can never exceed
// remaining/2. Bounding before the count*2 item-count computation
// keeps that multiplication overflow-free as well.
func boundedPairCount(v uint64, remaining int) (int, error) {
	if v > uint64(remaining)/2 {
		return 0, ErrEndOfBuffer
	}
	return int(v), nil
}
