package jsonpath

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrParse is the sentinel wrapped by every JSONPath syntax error.
var ErrParse = errors.New("jsonpath: parse error")

type exprParser struct {
	s   string
	pos int
}

// parseExpr parses a full JSONPath expression into its selector chain.
// The leading '$' is required and consumed but produces no selector;
// the working set already starts at the root.
func parseExpr(expr string) ([]selector, error) {
	p := &exprParser{s: expr}
	if !p.consumeByte('$') {
		return nil, errors.Wrapf(ErrParse, "expression must start with '$': %q", expr)
	}
	var sels []selector
	for !p.atEnd() {
		switch p.peek() {
		case '.':
			sel, err := p.parseDot()
			if err != nil {
				return nil, err
			}
			sels = append(sels, sel...)
		case '[':
			sel, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			sels = append(sels, sel)
		default:
			return nil, errors.Wrapf(ErrParse, "unexpected character %q at offset %d", p.peek(), p.pos)
		}
	}
	return sels, nil
}

func (p *exprParser) atEnd() bool { return p.pos >= len(p.s) }

func (p *exprParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.s[p.pos]
}

func (p *exprParser) peekAt(off int) byte {
	if p.pos+off >= len(p.s) {
		return 0
	}
	return p.s[p.pos+off]
}

func (p *exprParser) consumeByte(b byte) bool {
	if p.peek() == b {
		p.pos++
		return true
	}
	return false
}

// parseDot handles '.', '..', '.name', '.*'.
func (p *exprParser) parseDot() ([]selector, error) {
	p.pos++ // consume first '.'
	if p.peek() == '.' {
		p.pos++ // consume second '.'
		var sels = []selector{{kind: selRecursive}}
		if p.atEnd() || p.peek() == '[' || p.peek() == '.' {
			return sels, nil
		}
		if p.peek() == '*' {
			p.pos++
			return append(sels, selector{kind: selWildcard}), nil
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return append(sels, selector{kind: selChild, name: name}), nil
	}
	if p.peek() == '*' {
		p.pos++
		return []selector{{kind: selWildcard}}, nil
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	return []selector{{kind: selChild, name: name}}, nil
}

func (p *exprParser) parseIdentifier() (string, error) {
	start := p.pos
	if !isIdentStart(p.peek()) {
		return "", errors.Wrapf(ErrParse, "expected identifier at offset %d", p.pos)
	}
	p.pos++
	for !p.atEnd() && isIdentPart(p.peek()) {
		p.pos++
	}
	return p.s[start:p.pos], nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parseBracket handles the whole bracketed-selector family: [*], [n],
// [n1,n2], [start:end:step], ['name'], ['a','b'], and [?(expr)].
func (p *exprParser) parseBracket() (selector, error) {
	p.pos++ // consume '['
	p.skipWS()
	if p.peek() == '*' {
		p.pos++
		p.skipWS()
		if !p.consumeByte(']') {
			return selector{}, errors.Wrapf(ErrParse, "expected ']' at offset %d", p.pos)
		}
		return selector{kind: selWildcard}, nil
	}
	if p.peek() == '?' {
		return p.parseFilterSelector()
	}
	if p.peek() == '\'' || p.peek() == '"' {
		return p.parseNamesUnion()
	}
	return p.parseIndexForm()
}

func (p *exprParser) skipWS() {
	for !p.atEnd() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *exprParser) parseQuoted() (string, error) {
	quote := p.peek()
	p.pos++
	var b strings.Builder
	for {
		if p.atEnd() {
			return "", errors.Wrapf(ErrParse, "unterminated quoted name")
		}
		c := p.s[p.pos]
		if c == quote {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.s) {
			p.pos++
			b.WriteByte(p.s[p.pos])
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *exprParser) parseNamesUnion() (selector, error) {
	var names []string
	for {
		p.skipWS()
		name, err := p.parseQuoted()
		if err != nil {
			return selector{}, err
		}
		names = append(names, name)
		p.skipWS()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipWS()
	if !p.consumeByte(']') {
		return selector{}, errors.Wrapf(ErrParse, "expected ']' at offset %d", p.pos)
	}
	if len(names) == 1 {
		return selector{kind: selChild, name: names[0]}, nil
	}
	return selector{kind: selNamesUnion, names: names}, nil
}

// parseIndexForm handles [n], [n1,n2,...], and [start:end:step].
func (p *exprParser) parseIndexForm() (selector, error) {
	start := p.pos
	// Scan ahead to decide index-union vs slice vs single index.
	depth := 0
	isSlice := false
	for i := p.pos; i < len(p.s); i++ {
		switch p.s[i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				goto scanned
			}
			depth--
		case ':':
			if depth == 0 {
				isSlice = true
			}
		}
	}
scanned:
	if isSlice {
		return p.parseSlice()
	}
	_ = start
	var indices []int
	for {
		p.skipWS()
		n, err := p.parseSignedInt()
		if err != nil {
			return selector{}, err
		}
		indices = append(indices, n)
		p.skipWS()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipWS()
	if !p.consumeByte(']') {
		return selector{}, errors.Wrapf(ErrParse, "expected ']' at offset %d", p.pos)
	}
	if len(indices) == 1 {
		return selector{kind: selIndex, index: indices[0]}, nil
	}
	return selector{kind: selIndicesUnion, indices: indices}, nil
}

func (p *exprParser) parseSlice() (selector, error) {
	var start, end, step *int
	if p.peek() != ':' {
		n, err := p.parseSignedInt()
		if err != nil {
			return selector{}, err
		}
		start = &n
	}
	p.skipWS()
	if !p.consumeByte(':') {
		return selector{}, errors.Wrapf(ErrParse, "expected ':' in slice at offset %d", p.pos)
	}
	p.skipWS()
	if p.peek() != ':' && p.peek() != ']' {
		n, err := p.parseSignedInt()
		if err != nil {
			return selector{}, err
		}
		end = &n
	}
	p.skipWS()
	if p.consumeByte(':') {
		p.skipWS()
		if p.peek() != ']' {
			n, err := p.parseSignedInt()
			if err != nil {
				return selector{}, err
			}
			step = &n
		}
	}
	p.skipWS()
	if !p.consumeByte(']') {
		return selector{}, errors.Wrapf(ErrParse, "expected ']' at offset %d", p.pos)
	}
	return selector{kind: selSlice, start: start, end: end, step: step}, nil
}

func (p *exprParser) parseSignedInt() (int, error) {
	start := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	digitsStart := p.pos
	for !p.atEnd() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if p.pos == digitsStart {
		return 0, errors.Wrapf(ErrParse, "expected integer at offset %d", p.pos)
	}
	n, err := strconv.Atoi(p.s[start:p.pos])
	if err != nil {
		return 0, errors.Wrapf(ErrParse, "invalid integer %q", p.s[start:p.pos])
	}
	return n, nil
}

// parseFilterSelector consumes '?(' ... ')' tracking nested parens and
// quotes so embedded literals containing ')' don't terminate early.
func (p *exprParser) parseFilterSelector() (selector, error) {
	p.pos++ // consume '?'
	p.skipWS()
	if !p.consumeByte('(') {
		return selector{}, errors.Wrapf(ErrParse, "expected '(' after '?' at offset %d", p.pos)
	}
	start := p.pos
	depth := 1
	for !p.atEnd() && depth > 0 {
		c := p.s[p.pos]
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				break
			}
		case '\'', '"':
			p.pos++
			for !p.atEnd() && p.s[p.pos] != c {
				if p.s[p.pos] == '\\' {
					p.pos++
				}
				p.pos++
			}
		}
		if depth > 0 {
			p.pos++
		}
	}
	if depth != 0 {
		return selector{}, errors.Wrapf(ErrParse, "unterminated filter expression")
	}
	filterExpr := p.s[start:p.pos]
	p.pos++ // consume ')'
	p.skipWS()
	if !p.consumeByte(']') {
		return selector{}, errors.Wrapf(ErrParse, "expected ']' after filter at offset %d", p.pos)
	}
	return selector{kind: selFilter, filter: filterExpr}, nil
}
