// Package jsonpath implements a Goessner-style JSONPath query engine
// over value.Value trees: tokenizer, selector composition, recursive
// descent, a filter sub-language, and three result modes.
package jsonpath

import "github.com/themactep/jct/value"

// Mode selects how Evaluate reports its matches.
type Mode string

const (
	ModeValues Mode = "values"
	ModePaths  Mode = "paths"
	ModePairs  Mode = "pairs"
)

// Options configures one Evaluate call.
type Options struct {
	Mode         Mode
	Limit        int  // 0 means unlimited.
	Strict       bool // strict surfaces errors; lenient swallows them.
	UnwrapSingle bool // meaningful only in ModeValues.
}

// DefaultOptions returns the engine's defaults: values mode, no limit,
// lenient failure handling.
func DefaultOptions() Options {
	return Options{Mode: ModeValues, Strict: false}
}

// nodeRef is a single entry of the working set: a value together with
// the canonical path string that reaches it.
type nodeRef struct {
	val  *value.Value
	path string
}

// Pair is one {path, value} result in ModePairs.
type Pair struct {
	Path  string
	Value *value.Value
}

// Result holds the outcome of Evaluate in whichever shape Options.Mode
// requested; exactly one of the fields is populated.
type Result struct {
	Values []*value.Value
	Paths  []string
	Pairs  []Pair
}
