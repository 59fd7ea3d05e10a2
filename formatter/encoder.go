package formatter

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// maxDepth caps recursion so reference cycles in host-provided data
// degrade to null instead of overflowing the stack.
const maxDepth = 20

// Encode serializes a Value tree to deterministic JSON. Map keys are
// emitted in lexicographic order, NaN and infinities become null, and
// value kinds with no JSON form become null. Encode never fails.
func Encode(v Value) []byte {
	var b strings.Builder
	writeValue(&b, v, 0)
	return []byte(b.String())
}

func writeValue(b *strings.Builder, v Value, depth int) {
	if depth > maxDepth {
		b.WriteString("null")
		return
	}
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case float64:
		writeFloat(b, t)
	case string:
		writeString(b, t)
	case []Value:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, e, depth+1)
		}
		b.WriteByte(']')
	case Map:
		if seq, ok := sequenceKeys(t); ok {
			b.WriteByte('[')
			for i, e := range seq {
				if i > 0 {
					b.WriteByte(',')
				}
				writeValue(b, e, depth+1)
			}
			b.WriteByte(']')
			return
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeString(b, k)
			b.WriteByte(':')
			writeValue(b, t[k], depth+1)
		}
		b.WriteByte('}')
	default:
		// callables, opaque handles and anything else the host sneaks in
		b.WriteString("null")
	}
}

func writeFloat(b *strings.Builder, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.WriteString("null")
		return
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		b.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for len(hex) < 4 {
					hex = "0" + hex
				}
				b.WriteString(hex)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
