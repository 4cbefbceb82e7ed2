package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/themactep/jct/value"
)

// Style selects compact or pretty output.
type Style int

const (
	Compact Style = iota
	Pretty
)

// Encode serializes v into its canonical form: object keys sorted
// lexicographically ascending, numbers via the integer/general rule, and
// strings escaped as the exact inverse of the decoder.
func Encode(v *value.Value, style Style) []byte {
	var b strings.Builder
	enc := &encoder{style: style}
	enc.write(&b, v, 0)
	return []byte(b.String())
}

// EncodeFile is like Encode in Pretty style, with a trailing newline
// appended, matching the on-disk canonical file format.
func EncodeFile(v *value.Value) []byte {
	out := Encode(v, Pretty)
	return append(out, '\n')
}

type encoder struct {
	style Style
}

func (e *encoder) write(b *strings.Builder, v *value.Value, depth int) {
	switch v.Kind() {
	case value.Null:
		b.WriteString("null")
	case value.Bool:
		bv, _ := v.AsBool()
		if bv {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.Number:
		n, _ := v.AsNumber()
		b.WriteString(formatNumber(n))
	case value.String:
		s, _ := v.AsString()
		writeEscapedString(b, s)
	case value.Array:
		e.writeArray(b, v, depth)
	case value.Object:
		e.writeObject(b, v, depth)
	default:
		b.WriteString("null")
	}
}

func (e *encoder) writeArray(b *strings.Builder, v *value.Value, depth int) {
	elems := v.Elements()
	if len(elems) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i, el := range elems {
		if i > 0 {
			b.WriteByte(',')
			if e.style == Pretty {
				b.WriteByte(' ')
			}
		}
		if e.style == Pretty {
			b.WriteByte('\n')
			writeIndent(b, depth+1)
		}
		e.write(b, el, depth+1)
	}
	if e.style == Pretty {
		b.WriteByte('\n')
		writeIndent(b, depth)
	}
	b.WriteByte(']')
}

func (e *encoder) writeObject(b *strings.Builder, v *value.Value, depth int) {
	keys := v.SortedKeys()
	if len(keys) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
			if e.style == Pretty {
				b.WriteByte(' ')
			}
		}
		if e.style == Pretty {
			b.WriteByte('\n')
			writeIndent(b, depth+1)
		}
		writeEscapedString(b, k)
		b.WriteByte(':')
		if e.style == Pretty {
			b.WriteByte(' ')
		}
		e.write(b, v.Get(k), depth+1)
	}
	if e.style == Pretty {
		b.WriteByte('\n')
		writeIndent(b, depth)
	}
	b.WriteByte('}')
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

// formatNumber implements the integer/general printing rule: a number
// equal to its int64 truncation prints without a fractional part;
// otherwise it prints in a short general-format representation.
func formatNumber(n float64) string {
	if value.IsIntegral(n) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

var escapeNames = map[byte]string{
	'"':  `\"`,
	'\\': `\\`,
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
}

func writeEscapedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if esc, ok := escapeNames[c]; ok {
			b.WriteString(esc)
			continue
		}
		if c < 0x20 {
			fmt.Fprintf(b, `\u%04x`, c)
			continue
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
}
