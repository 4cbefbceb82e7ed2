package jsonpath

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/themactep/jct"
	"github.com/themactep/jct/value"
)

// ErrEval is the sentinel wrapped by evaluation-time failures: bad
// slice bounds, a strict-mode negative index, a malformed filter
// operand encountered while walking real data.
var ErrEval = errors.New("jsonpath: evaluation error")

// Evaluate runs expr against root and reports results per opts.Mode.
//
// In strict mode, parse errors and evaluation errors are returned to the
// caller. In lenient mode (the default) any error is swallowed and
// Evaluate returns an empty, error-free Result.
func Evaluate(root *value.Value, expr string, opts Options) (Result, error) {
	sels, err := parseExpr(expr)
	if err != nil {
		if opts.Strict {
			return Result{}, err
		}
		return emptyResult(opts), nil
	}
	for _, sel := range sels {
		if sel.kind == selFilter {
			if verr := validateFilterSyntax(sel.filter); verr != nil {
				if opts.Strict {
					return Result{}, verr
				}
				return emptyResult(opts), nil
			}
		}
	}

	ws := []nodeRef{{val: root, path: "$"}}
	for _, sel := range sels {
		next, err := applySelector(ws, sel, opts.Strict)
		if err != nil {
			if opts.Strict {
				return Result{}, err
			}
			return emptyResult(opts), nil
		}
		ws = next
	}

	if opts.Limit > 0 && len(ws) > opts.Limit {
		ws = ws[:opts.Limit]
	}
	return buildResult(ws, opts), nil
}

func emptyResult(opts Options) Result {
	switch opts.Mode {
	case ModePaths:
		return Result{Paths: []string{}}
	case ModePairs:
		return Result{Pairs: []Pair{}}
	default:
		return Result{Values: []*value.Value{}}
	}
}

func buildResult(ws []nodeRef, opts Options) Result {
	switch opts.Mode {
	case ModePaths:
		paths := make([]string, len(ws))
		for i, n := range ws {
			paths[i] = n.path
		}
		return Result{Paths: paths}
	case ModePairs:
		pairs := make([]Pair, len(ws))
		for i, n := range ws {
			pairs[i] = Pair{Path: n.path, Value: n.val.Clone()}
		}
		return Result{Pairs: pairs}
	default:
		if opts.UnwrapSingle && len(ws) == 1 {
			return Result{Values: []*value.Value{ws[0].val.Clone()}}
		}
		vals := make([]*value.Value, len(ws))
		for i, n := range ws {
			vals[i] = n.val.Clone()
		}
		return Result{Values: vals}
	}
}

func applySelector(ws []nodeRef, sel selector, strict bool) ([]nodeRef, error) {
	switch sel.kind {
	case selRecursive:
		return expandDescendants(ws), nil
	case selChild:
		return applyChild(ws, sel.name), nil
	case selNamesUnion:
		var out []nodeRef
		for _, n := range ws {
			for _, name := range sel.names {
				out = append(out, applyChild([]nodeRef{n}, name)...)
			}
		}
		return out, nil
	case selWildcard:
		return applyWildcard(ws), nil
	case selIndex:
		return applyIndices(ws, []int{sel.index}, strict)
	case selIndicesUnion:
		return applyIndices(ws, sel.indices, strict)
	case selSlice:
		return applySlice(ws, sel, strict)
	case selFilter:
		return applyFilter(ws, sel.filter, strict)
	default:
		return nil, errors.Wrapf(ErrEval, "unknown selector kind")
	}
}

func applyChild(ws []nodeRef, name string) []nodeRef {
	var out []nodeRef
	for _, n := range ws {
		if n.val.IsObject() && n.val.Has(name) {
			out = append(out, nodeRef{val: n.val.Get(name), path: appendChildPath(n.path, name)})
		}
	}
	return out
}

func applyWildcard(ws []nodeRef) []nodeRef {
	var out []nodeRef
	for _, n := range ws {
		switch {
		case n.val.IsObject():
			for _, m := range n.val.Members() {
				out = append(out, nodeRef{val: m.Value, path: appendChildPath(n.path, m.Key)})
			}
		case n.val.IsArray():
			for i, e := range n.val.Elements() {
				out = append(out, nodeRef{val: e, path: appendIndexPath(n.path, i)})
			}
		}
	}
	return out
}

func applyIndices(ws []nodeRef, indices []int, strict bool) ([]nodeRef, error) {
	var out []nodeRef
	for _, n := range ws {
		if !n.val.IsArray() {
			continue
		}
		for _, idx := range indices {
			if idx < 0 {
				if strict {
					return nil, errors.Wrapf(ErrEval, "negative index %d is not supported", idx)
				}
				continue
			}
			if idx >= n.val.Len() {
				continue
			}
			out = append(out, nodeRef{val: n.val.Index(idx), path: appendIndexPath(n.path, idx)})
		}
	}
	return out, nil
}

func applySlice(ws []nodeRef, sel selector, strict bool) ([]nodeRef, error) {
	var out []nodeRef
	for _, n := range ws {
		if !n.val.IsArray() {
			continue
		}
		length := n.val.Len()
		start, end, step := 0, length, 1
		if sel.start != nil {
			start = *sel.start
		}
		if sel.end != nil {
			end = *sel.end
		}
		if sel.step != nil {
			step = *sel.step
		}
		if start < 0 || end < 0 || step <= 0 {
			if strict {
				return nil, errors.Wrapf(ErrEval, "invalid slice bounds [%d:%d:%d]", start, end, step)
			}
			continue
		}
		if end > length {
			end = length
		}
		for i := start; i < end; i += step {
			out = append(out, nodeRef{val: n.val.Index(i), path: appendIndexPath(n.path, i)})
		}
	}
	return out, nil
}

func applyFilter(ws []nodeRef, filterExpr string, strict bool) ([]nodeRef, error) {
	var out []nodeRef
	for _, n := range ws {
		if n.val.IsArray() {
			for i, e := range n.val.Elements() {
				ok, err := evalFilter(filterExpr, e)
				if err != nil {
					if strict {
						return nil, errors.Wrapf(ErrEval, "filter: %s", err)
					}
					continue
				}
				if ok {
					out = append(out, nodeRef{val: e, path: appendIndexPath(n.path, i)})
				}
			}
			continue
		}
		ok, err := evalFilter(filterExpr, n.val)
		if err != nil {
			if strict {
				return nil, errors.Wrapf(ErrEval, "filter: %s", err)
			}
			continue
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// expandDescendants replaces the working set with the union, in
// document order, of every proper descendant (object members and array
// elements at any depth) of every node currently in the set. Parents
// are visited before their children.
func expandDescendants(ws []nodeRef) []nodeRef {
	var out []nodeRef
	for _, n := range ws {
		collectDescendants(n.val, n.path, 0, &out)
	}
	return out
}

func collectDescendants(v *value.Value, path string, depth int, out *[]nodeRef) {
	if depth > jct.MaxDepth {
		return
	}
	switch {
	case v.IsObject():
		for _, m := range v.Members() {
			childPath := appendChildPath(path, m.Key)
			*out = append(*out, nodeRef{val: m.Value, path: childPath})
			collectDescendants(m.Value, childPath, depth+1, out)
		}
	case v.IsArray():
		for i, e := range v.Elements() {
			childPath := appendIndexPath(path, i)
			*out = append(*out, nodeRef{val: e, path: childPath})
			collectDescendants(e, childPath, depth+1, out)
		}
	}
}

func validateFilterSyntax(filterExpr string) error {
	_, err := evalFilter(filterExpr, value.NewNull())
	if err != nil && errors.Is(err, ErrParse) {
		return err
	}
	return nil
}

func appendChildPath(base, name string) string {
	if isIdentSafe(name) {
		return base + "." + name
	}
	return base + "['" + strings.ReplaceAll(name, "'", "\\'") + "']"
}

func appendIndexPath(base string, idx int) string {
	return base + "[" + strconv.Itoa(idx) + "]"
}

func isIdentSafe(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}
	return true
}
