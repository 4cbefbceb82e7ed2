// Package codec implements the text <-> value.Value round trip: a
// recursive-descent parser and a canonical serializer.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/themactep/jct"
	"github.com/themactep/jct/value"
)

// MaxDocumentSize is the largest input the parser will accept, per the
// spec's rejection of inputs over 100 MiB.
const MaxDocumentSize = jct.MaxDocumentSize

// MaxDepth bounds recursive-descent nesting, guarding against stack
// exhaustion on adversarial input.
const MaxDepth = jct.MaxDepth

// ErrTooLarge, ErrTooDeep, and ErrSyntax are the sentinel error classes a
// caller can match with errors.Is; they are wrapped with positional
// context by Decode.
var (
	ErrTooLarge = errors.New("input exceeds maximum document size")
	ErrTooDeep  = errors.New("nesting exceeds maximum depth")
	ErrSyntax   = errors.New("malformed JSON")
)

type parser struct {
	src   []byte
	pos   int
	depth int
}

// Decode parses text into a Value tree. An empty input decodes to an
// empty object (permissive legacy behavior, preserved for compatibility).
// Trailing garbage after a valid top-level value is ignored; callers that
// need to detect it should call DecodeStrict.
func Decode(text []byte) (*value.Value, error) {
	v, _, err := decode(text)
	return v, err
}

// DecodeStrict is like Decode but returns an error if non-whitespace
// characters remain after the top-level value.
func DecodeStrict(text []byte) (*value.Value, error) {
	v, trailing, err := decode(text)
	if err != nil {
		return nil, err
	}
	if trailing {
		return v, errors.Wrap(ErrSyntax, "unexpected trailing characters")
	}
	return v, nil
}

func decode(text []byte) (v *value.Value, trailing bool, err error) {
	if len(text) > MaxDocumentSize {
		return nil, false, errors.Wrapf(ErrTooLarge, "%d bytes", len(text))
	}
	p := &parser{src: text}
	p.skipWS()
	if p.atEnd() {
		return value.NewObject(), false, nil
	}
	v, err = p.parseValue()
	if err != nil {
		return nil, false, err
	}
	p.skipWS()
	trailing = !p.atEnd()
	return v, trailing, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipWS() {
	for !p.atEnd() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return errors.Wrapf(ErrSyntax, "at offset %d: %s", p.pos, msg)
}

func (p *parser) parseValue() (*value.Value, error) {
	p.skipWS()
	if p.atEnd() {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return value.NewString(s), nil
	case c == 't':
		return p.parseLiteral("true", value.NewBool(true))
	case c == 'f':
		return p.parseLiteral("false", value.NewBool(false))
	case c == 'n':
		return p.parseLiteral("null", value.NewNull())
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseLiteral(lit string, v *value.Value) (*value.Value, error) {
	if p.pos+len(lit) > len(p.src) || string(p.src[p.pos:p.pos+len(lit)]) != lit {
		return nil, p.errorf("invalid literal, expected %q", lit)
	}
	p.pos += len(lit)
	return v, nil
}

func (p *parser) parseObject() (*value.Value, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, errors.Wrapf(ErrTooDeep, "at offset %d", p.pos)
	}
	p.pos++ // consume '{'
	obj := value.NewObject()
	p.skipWS()
	if p.peek() == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipWS()
		if p.peek() != '"' {
			return nil, p.errorf("expected string key")
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after object key")
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseArray() (*value.Value, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, errors.Wrapf(ErrTooDeep, "at offset %d", p.pos)
	}
	p.pos++ // consume '['
	arr := value.NewArray()
	p.skipWS()
	if p.peek() == ']' {
		p.pos++
		return arr, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(v)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseNumber() (*value.Value, error) {
	start := p.pos
	if p.peek() == '+' || p.peek() == '-' {
		p.pos++
	}
	for !p.atEnd() && isDigit(p.peek()) {
		p.pos++
	}
	if p.peek() == '.' {
		p.pos++
		for !p.atEnd() && isDigit(p.peek()) {
			p.pos++
		}
	}
	if p.peek() == 'e' || p.peek() == 'E' {
		p.pos++
		if p.peek() == '+' || p.peek() == '-' {
			p.pos++
		}
		for !p.atEnd() && isDigit(p.peek()) {
			p.pos++
		}
	}
	lit := string(p.src[start:p.pos])
	if lit == "" || lit == "-" || lit == "+" {
		return nil, p.errorf("invalid number")
	}
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", lit)
	}
	return value.NewNumber(n), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseString decodes a JSON string literal starting at the opening
// quote, returning the decoded bytes. Decoding happens in a single pass
// into a growable buffer; the string is stored decoded in memory, never
// with its escapes intact.
func (p *parser) parseString() (string, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for {
		if p.atEnd() {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.atEnd() {
				return "", p.errorf("unterminated escape sequence")
			}
			esc := p.src[p.pos]
			switch esc {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
				continue
			default:
				// Unknown escape passes through verbatim, e.g. \x -> x.
				b.WriteByte(esc)
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *parser) parseUnicodeEscape() (rune, error) {
	// p.pos is on the 'u'; consume the four hex digits that follow,
	// leaving p.pos one past the escape since the caller's case 'u'
	// continues without its own p.pos++.
	if p.pos+5 > len(p.src) {
		return 0, p.errorf("truncated \\u escape")
	}
	hex := string(p.src[p.pos+1 : p.pos+5])
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, p.errorf("invalid \\u escape %q", hex)
	}
	p.pos += 5
	r := rune(n)
	if r >= 0xD800 && r <= 0xDBFF && p.pos+6 <= len(p.src) && p.src[p.pos] == '\\' && p.src[p.pos+1] == 'u' {
		lowHex := string(p.src[p.pos+2 : p.pos+6])
		if low, err := strconv.ParseUint(lowHex, 16, 32); err == nil && low >= 0xDC00 && low <= 0xDFFF {
			p.pos += 6
			r = ((r - 0xD800) << 10) + (rune(low) - 0xDC00) + 0x10000
		}
	}
	return r, nil
}
