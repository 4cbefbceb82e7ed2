package jsonpath

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/themactep/jct/value"
)

// ErrFilterEval is the sentinel wrapped by filter evaluation failures
// (bad comparator operand, malformed literal).
var ErrFilterEval = errors.New("jsonpath: filter evaluation error")

type filterParser struct {
	s   string
	pos int
	ctx *value.Value
}

// evalFilter parses and evaluates expr against ctx (the current item,
// bound to '@'), returning whether it is truthy.
func evalFilter(expr string, ctx *value.Value) (bool, error) {
	fp := &filterParser{s: expr, ctx: ctx}
	v, err := fp.parseOr()
	if err != nil {
		return false, err
	}
	fp.skipWS()
	if !fp.atEnd() {
		return false, errors.Wrapf(ErrParse, "unexpected trailing input in filter at offset %d", fp.pos)
	}
	return truthy(v), nil
}

// filterVal is a tri-state comparison operand: either a value.Value (a
// literal or the result of a successful @-path lookup) or "absent"
// (present=false), meaning a @-path that did not resolve.
type filterVal struct {
	v       *value.Value
	present bool
}

func truthy(v filterVal) bool {
	if !v.present {
		return false
	}
	if v.v.IsNull() {
		return false
	}
	if b, ok := v.v.AsBool(); ok {
		return b
	}
	return true
}

func (fp *filterParser) atEnd() bool { return fp.pos >= len(fp.s) }

func (fp *filterParser) peek() byte {
	if fp.atEnd() {
		return 0
	}
	return fp.s[fp.pos]
}

func (fp *filterParser) skipWS() {
	for !fp.atEnd() && (fp.s[fp.pos] == ' ' || fp.s[fp.pos] == '\t') {
		fp.pos++
	}
}

func (fp *filterParser) match(lit string) bool {
	fp.skipWS()
	if fp.pos+len(lit) > len(fp.s) {
		return false
	}
	if fp.s[fp.pos:fp.pos+len(lit)] != lit {
		return false
	}
	fp.pos += len(lit)
	return true
}

func (fp *filterParser) parseOr() (filterVal, error) {
	left, err := fp.parseAnd()
	if err != nil {
		return filterVal{}, err
	}
	result := truthy(left)
	for fp.matchOp("||") {
		right, err := fp.parseAnd()
		if err != nil {
			return filterVal{}, err
		}
		result = result || truthy(right)
	}
	return boolVal(result), nil
}

func (fp *filterParser) parseAnd() (filterVal, error) {
	left, err := fp.parseUnary()
	if err != nil {
		return filterVal{}, err
	}
	result := truthy(left)
	for fp.matchOp("&&") {
		right, err := fp.parseUnary()
		if err != nil {
			return filterVal{}, err
		}
		result = result && truthy(right)
	}
	return boolVal(result), nil
}

// matchOp peeks without requiring a following operator-safe boundary;
// adequate for this dialect's fixed two-character operators.
func (fp *filterParser) matchOp(op string) bool {
	save := fp.pos
	if fp.match(op) {
		return true
	}
	fp.pos = save
	return false
}

func (fp *filterParser) parseUnary() (filterVal, error) {
	fp.skipWS()
	if fp.peek() == '!' && !fp.peekIs("!=") {
		fp.pos++
		v, err := fp.parseUnary()
		if err != nil {
			return filterVal{}, err
		}
		return boolVal(!truthy(v)), nil
	}
	return fp.parseComparison()
}

func (fp *filterParser) peekIs(lit string) bool {
	if fp.pos+len(lit) > len(fp.s) {
		return false
	}
	return fp.s[fp.pos:fp.pos+len(lit)] == lit
}

func (fp *filterParser) parseComparison() (filterVal, error) {
	lhs, err := fp.parseOperand()
	if err != nil {
		return filterVal{}, err
	}
	fp.skipWS()
	op := fp.matchCmpOp()
	if op == "" {
		return lhs, nil
	}
	rhs, err := fp.parseOperand()
	if err != nil {
		return filterVal{}, err
	}
	res, err := compare(lhs, rhs, op)
	if err != nil {
		return filterVal{}, err
	}
	return boolVal(res), nil
}

func (fp *filterParser) matchCmpOp() string {
	for _, op := range []string{"==", "!=", ">=", "<=", ">", "<"} {
		if fp.matchOp(op) {
			return op
		}
	}
	return ""
}

func (fp *filterParser) parseOperand() (filterVal, error) {
	fp.skipWS()
	if fp.peek() == '(' {
		fp.pos++
		v, err := fp.parseOr()
		if err != nil {
			return filterVal{}, err
		}
		fp.skipWS()
		if fp.peek() != ')' {
			return filterVal{}, errors.Wrapf(ErrParse, "expected ')' at offset %d", fp.pos)
		}
		fp.pos++
		return v, nil
	}
	if fp.peek() == '@' {
		fp.pos++
		return fp.parsePathFromAt()
	}
	return fp.parseLiteral()
}

func (fp *filterParser) parsePathFromAt() (filterVal, error) {
	cur := fp.ctx
	present := true
	for !fp.atEnd() {
		if fp.peek() == '.' {
			if fp.pos+1 < len(fp.s) && fp.s[fp.pos+1] == '.' {
				return filterVal{}, errors.Wrapf(ErrParse, "recursive descent is not supported inside filters at offset %d", fp.pos)
			}
			fp.pos++
			start := fp.pos
			for !fp.atEnd() && isIdentPart(fp.peek()) {
				fp.pos++
			}
			if fp.pos == start {
				return filterVal{}, errors.Wrapf(ErrParse, "expected identifier after '.' at offset %d", fp.pos)
			}
			name := fp.s[start:fp.pos]
			if present && cur.IsObject() {
				if !cur.Has(name) {
					present = false
				}
				cur = cur.Get(name)
			} else {
				present = false
			}
			continue
		}
		if fp.peek() == '[' {
			fp.pos++
			fp.skipWS()
			if fp.peek() == '\'' || fp.peek() == '"' {
				name, err := fp.parseQuotedLiteral()
				if err != nil {
					return filterVal{}, err
				}
				fp.skipWS()
				if fp.peek() != ']' {
					return filterVal{}, errors.Wrapf(ErrParse, "expected ']' at offset %d", fp.pos)
				}
				fp.pos++
				if present && cur.IsObject() {
					if !cur.Has(name) {
						present = false
					}
					cur = cur.Get(name)
				} else {
					present = false
				}
				continue
			}
			neg := false
			if fp.peek() == '-' {
				neg = true
				fp.pos++
			}
			start := fp.pos
			for !fp.atEnd() && fp.peek() >= '0' && fp.peek() <= '9' {
				fp.pos++
			}
			if fp.pos == start {
				return filterVal{}, errors.Wrapf(ErrParse, "expected index at offset %d", fp.pos)
			}
			n, _ := strconv.Atoi(fp.s[start:fp.pos])
			if neg {
				n = -n
			}
			fp.skipWS()
			if fp.peek() != ']' {
				return filterVal{}, errors.Wrapf(ErrParse, "expected ']' at offset %d", fp.pos)
			}
			fp.pos++
			if present && cur.IsArray() && n >= 0 && n < cur.Len() {
				cur = cur.Index(n)
			} else {
				present = false
			}
			continue
		}
		break
	}
	if !present {
		return filterVal{present: false}, nil
	}
	return filterVal{v: cur, present: true}, nil
}

func (fp *filterParser) parseQuotedLiteral() (string, error) {
	quote := fp.peek()
	fp.pos++
	var b strings.Builder
	for {
		if fp.atEnd() {
			return "", errors.Wrapf(ErrParse, "unterminated string literal")
		}
		c := fp.s[fp.pos]
		if c == quote {
			fp.pos++
			return b.String(), nil
		}
		if c == '\\' && fp.pos+1 < len(fp.s) {
			fp.pos++
			b.WriteByte(fp.s[fp.pos])
			fp.pos++
			continue
		}
		b.WriteByte(c)
		fp.pos++
	}
}

func (fp *filterParser) parseLiteral() (filterVal, error) {
	fp.skipWS()
	if fp.match("true") {
		return filterVal{v: value.NewBool(true), present: true}, nil
	}
	if fp.match("false") {
		return filterVal{v: value.NewBool(false), present: true}, nil
	}
	if fp.match("null") {
		return filterVal{v: value.NewNull(), present: true}, nil
	}
	if fp.peek() == '\'' || fp.peek() == '"' {
		s, err := fp.parseQuotedLiteral()
		if err != nil {
			return filterVal{}, err
		}
		return filterVal{v: value.NewString(s), present: true}, nil
	}
	start := fp.pos
	if fp.peek() == '-' || fp.peek() == '+' {
		fp.pos++
	}
	digitsStart := fp.pos
	for !fp.atEnd() && fp.peek() >= '0' && fp.peek() <= '9' {
		fp.pos++
	}
	if fp.peek() == '.' {
		fp.pos++
		for !fp.atEnd() && fp.peek() >= '0' && fp.peek() <= '9' {
			fp.pos++
		}
	}
	if fp.pos == digitsStart {
		return filterVal{}, errors.Wrapf(ErrParse, "expected literal at offset %d", fp.pos)
	}
	n, err := strconv.ParseFloat(fp.s[start:fp.pos], 64)
	if err != nil {
		return filterVal{}, errors.Wrapf(ErrParse, "invalid number literal %q", fp.s[start:fp.pos])
	}
	return filterVal{v: value.NewNumber(n), present: true}, nil
}

func boolVal(b bool) filterVal { return filterVal{v: value.NewBool(b), present: true} }

// compare implements the dialect's type-aware comparison rules:
// number<->number numeric, string<->string lexicographic by byte,
// bool<->bool by integer value, any<->null meaningful only for ==/!=,
// and all other cross-type pairs false except != which is true.
func compare(lhs, rhs filterVal, op string) (bool, error) {
	if !lhs.present || !rhs.present {
		// A missing operand participates only in existence checks; as a
		// comparator operand it simply fails to match.
		if op == "!=" {
			return true, nil
		}
		return false, nil
	}
	a, b := lhs.v, rhs.v
	if a.IsNull() || b.IsNull() {
		switch op {
		case "==":
			return a.IsNull() && b.IsNull(), nil
		case "!=":
			return !(a.IsNull() && b.IsNull()), nil
		default:
			return false, nil
		}
	}
	if a.IsNumber() && b.IsNumber() {
		av, _ := a.AsNumber()
		bv, _ := b.AsNumber()
		return numCompare(av, bv, op), nil
	}
	if a.IsString() && b.IsString() {
		av, _ := a.AsString()
		bv, _ := b.AsString()
		return strCompare(av, bv, op), nil
	}
	if a.IsBool() && b.IsBool() {
		av, _ := a.AsBool()
		bv, _ := b.AsBool()
		ai, bi := 0, 0
		if av {
			ai = 1
		}
		if bv {
			bi = 1
		}
		return numCompare(float64(ai), float64(bi), op), nil
	}
	// Cross-type: false for everything except != which is true.
	return op == "!=", nil
}

func numCompare(a, b float64, op string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

func strCompare(a, b string, op string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}
