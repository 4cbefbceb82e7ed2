// Package pathcursor implements dot-notation navigation and
// auto-vivifying mutation over a value.Value tree, used by the CLI's
// get/set verbs.
package pathcursor

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/themactep/jct/value"
)

// ErrNotFound is returned by Get when a segment cannot be navigated:
// an object lacks the key, an array index is out of range or
// non-numeric, or a scalar is indexed into.
var ErrNotFound = errors.New("path not found")

// Get walks root by splitting key on '.' and indexing at each segment:
// object members by name, array elements by non-negative decimal index.
func Get(root *value.Value, key string) (*value.Value, error) {
	cur := root
	if key == "" {
		return cur, nil
	}
	for _, seg := range strings.Split(key, ".") {
		switch cur.Kind() {
		case value.Object:
			next := cur.Get(seg)
			if next == nil && !cur.Has(seg) {
				return nil, errors.Wrapf(ErrNotFound, "key %q", seg)
			}
			cur = next
		case value.Array:
			idx, err := parseIndex(seg)
			if err != nil {
				return nil, errors.Wrapf(ErrNotFound, "segment %q is not a valid array index", seg)
			}
			elem := cur.Index(idx)
			if elem == nil {
				return nil, errors.Wrapf(ErrNotFound, "index %d out of range", idx)
			}
			cur = elem
		default:
			return nil, errors.Wrapf(ErrNotFound, "cannot navigate into %s at segment %q", cur.Kind(), seg)
		}
	}
	return cur, nil
}

// Set walks root the same way Get does, auto-creating missing
// intermediate objects and extending arrays with Null up to the target
// index, then assigns val at the final segment.
func Set(root *value.Value, key string, val *value.Value) error {
	if key == "" {
		return errors.New("empty key")
	}
	segs := strings.Split(key, ".")
	cur := root
	for i, seg := range segs[:len(segs)-1] {
		switch cur.Kind() {
		case value.Object:
			next := cur.Get(seg)
			if next == nil {
				next = guessContainer(segs[i+1])
				cur.Set(seg, next)
			}
			cur = next
		case value.Array:
			idx, err := parseIndex(seg)
			if err != nil {
				return errors.Wrapf(err, "segment %q is not a valid array index", seg)
			}
			elem := cur.Index(idx)
			if elem == nil {
				elem = guessContainer(segs[i+1])
				cur.SetIndex(idx, elem)
			}
			cur = elem
		default:
			return errors.Errorf("cannot create intermediate path through %s at segment %q", cur.Kind(), seg)
		}
	}
	last := segs[len(segs)-1]
	switch cur.Kind() {
	case value.Object:
		cur.Set(last, val)
	case value.Array:
		idx, err := parseIndex(last)
		if err != nil {
			return errors.Wrapf(err, "segment %q is not a valid array index", last)
		}
		cur.SetIndex(idx, val)
	default:
		return errors.Errorf("cannot set a member on %s", cur.Kind())
	}
	return nil
}

// guessContainer decides whether an auto-created intermediate should be
// an object or an array, based on whether the following segment parses
// as a non-negative decimal index.
func guessContainer(nextSeg string) *value.Value {
	if _, err := parseIndex(nextSeg); err == nil {
		return value.NewArray()
	}
	return value.NewObject()
}

func parseIndex(seg string) (int, error) {
	if seg == "" {
		return 0, errors.New("empty segment")
	}
	for _, c := range seg {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("%q is not a non-negative decimal index", seg)
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid index %q", seg)
	}
	return n, nil
}

// CoerceValueString interprets s as true/false/null when it matches
// those tokens exactly; otherwise as a Number if and only if the entire
// non-empty string parses as a number; otherwise as a String. An empty
// string always coerces to an empty String.
func CoerceValueString(s string) *value.Value {
	switch s {
	case "true":
		return value.NewBool(true)
	case "false":
		return value.NewBool(false)
	case "null":
		return value.NewNull()
	case "":
		return value.NewString("")
	}
	if n, ok := parseFullNumber(s); ok {
		return value.NewNumber(n)
	}
	return value.NewString(s)
}

// parseFullNumber requires that the entire string be consumed by the
// number grammar, per §4.2's "entire non-empty string" coercion rule.
func parseFullNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
