package cbor

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DiagBytes decodes the next item in b and renders it in RFC 8949 §8
// diagnostic notation, returning the bytes that follow it.
func DiagBytes(b []byte) (string, []byte, error) {
	cur := NewCursor(b)
	v, err := cur.Next()
	if err != nil {
		return "", b, err
	}
	if v.IsEof() {
		return "", b, ErrEndOfBuffer
	}
	var sb strings.Builder
	if err := diagValue(&sb, v, 0); err != nil {
		return "", b, err
	}
	return sb.String(), cur.Remaining(), nil
}

func diagValue(sb *strings.Builder, v Value, depth int) error {
	if depth > recursionLimit {
		return ErrMaxDepthExceeded
	}
	switch v.kind {
	case KindUInt:
		sb.WriteString(strconv.FormatUint(v.u, 10))
	case KindNInt:
		i, _ := v.Int64()
		sb.WriteString(strconv.FormatInt(i, 10))
	case KindBstr:
		sb.WriteString("h'")
		sb.WriteString(hex.EncodeToString(v.bytes))
		sb.WriteString("'")
	case KindTstr:
		sb.WriteString(strconv.Quote(v.str))
	case KindArray:
		sb.WriteByte('[')
		cur := v.arr.Iter()
		first := true
		for {
			item, err := cur.Next()
			if err != nil {
				return err
			}
			if item.IsEof() {
				break
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			if err := diagValue(sb, item, depth+1); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		cur := v.m.Iter()
		first := true
		for {
			k, err := cur.Next()
			if err != nil {
				return err
			}
			if k.IsEof() {
				break
			}
			val, err := cur.Next()
			if err != nil {
				return err
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			if err := diagValue(sb, k, depth+1); err != nil {
				return err
			}
			sb.WriteString(": ")
			if err := diagValue(sb, val, depth+1); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	case KindTag:
		sb.WriteString(strconv.FormatUint(v.tag.number, 10))
		sb.WriteByte('(')
		item, err := v.tag.Item()
		if err != nil {
			return err
		}
		if err := diagValue(sb, item, depth+1); err != nil {
			return err
		}
		sb.WriteByte(')')
	case KindFalse:
		sb.WriteString("false")
	case KindTrue:
		sb.WriteString("true")
	case KindNull:
		sb.WriteString("null")
	case KindUndefined:
		sb.WriteString("undefined")
	case KindSimple:
		fmt.Fprintf(sb, "simple(%d)", v.u)
	case KindFloat16, KindFloat32:
		sb.WriteString(formatFloat32Diag(float32(v.f)))
	case KindFloat64:
		sb.WriteString(formatFloat64Diag(v.f))
	case KindDateTime:
		sb.WriteString("0(\"")
		sb.WriteString(v.t.Format(time.RFC3339Nano))
		sb.WriteString("\")")
	case KindEpoch:
		sb.WriteString("1(")
		sb.WriteString(strconv.FormatInt(int64(v.u), 10))
		sb.WriteByte(')')
	default:
		return ErrNotImplemented
	}
	return nil
}

// formatFloat64Diag renders f the way RFC 8949's diagnostic examples do:
// fixed-point for ordinary magnitudes, the named tokens for the
// non-finite values.
func formatFloat64Diag(f float64) string {
	if math.IsInf(f, +1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	af := math.Abs(f)
	if af == 0 || af < 1e15 {
		return trimTrailingZerosDot(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloat32Diag(f float32) string {
	if math.IsInf(float64(f), +1) {
		return "Infinity"
	}
	if math.IsInf(float64(f), -1) {
		return "-Infinity"
	}
	if math.IsNaN(float64(f)) {
		return "NaN"
	}
	af := math.Abs(float64(f))
	if af == 0 || af < 1e15 {
		return trimTrailingZerosDot(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func trimTrailingZerosDot(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
