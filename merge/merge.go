// Package merge implements deep merge and structural diff over
// value.Value trees.
package merge

import "github.com/themactep/jct/value"

// Merge merges a clone of src into dest and returns the result. If both
// dest and src are objects, each key of src is merged recursively when
// both sides hold an object at that key, and replaced wholesale
// (cloned) otherwise. If either argument is not an object, the result is
// a clone of src; a nil dest also yields a clone of src.
func Merge(dest, src *value.Value) *value.Value {
	if src == nil {
		return dest
	}
	if dest == nil || !dest.IsObject() || !src.IsObject() {
		return src.Clone()
	}
	out := dest
	for _, m := range src.Members() {
		existing := dest.Get(m.Key)
		if existing != nil && existing.IsObject() && m.Value.IsObject() {
			out.Set(m.Key, Merge(existing, m.Value))
			continue
		}
		out.Set(m.Key, m.Value.Clone())
	}
	return out
}
