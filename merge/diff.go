package merge

import "github.com/themactep/jct/value"

// Diff returns an object containing only the keys of modified whose
// values differ structurally from original, recursing into nested
// objects and omitting subtrees whose diff is empty. If either side is
// not an object, Diff returns a clone of modified when the two values
// are unequal, else an empty object.
func Diff(modified, original *value.Value) *value.Value {
	if !modified.IsObject() || !original.IsObject() {
		if value.Equal(modified, original) {
			return value.NewObject()
		}
		return modified.Clone()
	}
	out := value.NewObject()
	for _, m := range modified.Members() {
		orig := original.Get(m.Key)
		if orig == nil && !original.Has(m.Key) {
			out.Set(m.Key, m.Value.Clone())
			continue
		}
		if m.Value.IsObject() && orig.IsObject() {
			sub := Diff(m.Value, orig)
			if sub.Len() > 0 {
				out.Set(m.Key, sub)
			}
			continue
		}
		if !value.Equal(m.Value, orig) {
			out.Set(m.Key, m.Value.Clone())
		}
	}
	return out
}
