package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObjectPreservesInsertionOrderUntilSorted(t *testing.T) {
	o := NewObject()
	o.Set("zebra", NewNumber(1))
	o.Set("apple", NewNumber(2))
	o.Set("mango", NewNumber(3))

	members := o.Members()
	if members[0].Key != "zebra" || members[1].Key != "apple" || members[2].Key != "mango" {
		t.Fatalf("expected insertion order preserved, got %v", members)
	}

	sorted := o.SortedKeys()
	want := []string{"apple", "mango", "zebra"}
	for i, k := range want {
		if sorted[i] != k {
			t.Fatalf("SortedKeys()[%d] = %q, want %q", i, sorted[i], k)
		}
	}
}

func TestSetReplacesInPlaceKeepingFirstPosition(t *testing.T) {
	o := NewObject()
	o.Set("a", NewNumber(1))
	o.Set("b", NewNumber(2))
	o.Set("a", NewNumber(99))

	if len(o.Members()) != 2 {
		t.Fatalf("expected 2 members after replace, got %d", len(o.Members()))
	}
	if o.Members()[0].Key != "a" {
		t.Fatalf("expected 'a' to retain its original position")
	}
	n, _ := o.Get("a").AsNumber()
	if n != 99 {
		t.Fatalf("expected replaced value 99, got %v", n)
	}
}

func TestCloneIsDisjoint(t *testing.T) {
	orig := NewObject()
	orig.Set("arr", NewArray())
	orig.Get("arr").Append(NewNumber(1))

	clone := orig.Clone()
	clone.Get("arr").Append(NewNumber(2))

	if orig.Get("arr").Len() != 1 {
		t.Fatalf("mutating clone affected original: len=%d", orig.Get("arr").Len())
	}
	if clone.Get("arr").Len() != 2 {
		t.Fatalf("expected clone to have 2 elements, got %d", clone.Get("arr").Len())
	}
}

func TestEqualIsOrderIndependentForObjects(t *testing.T) {
	a := NewObject()
	a.Set("x", NewNumber(1))
	a.Set("y", NewNumber(2))

	b := NewObject()
	b.Set("y", NewNumber(2))
	b.Set("x", NewNumber(1))

	if !Equal(a, b) {
		t.Fatalf("expected objects with same members in different insertion order to be equal")
	}
}

func TestIsIntegral(t *testing.T) {
	cases := []struct {
		n    float64
		want bool
	}{
		{5, true},
		{-5, true},
		{0, true},
		{5.5, false},
		{5.0, true},
	}
	for _, c := range cases {
		if got := IsIntegral(c.n); got != c.want {
			t.Errorf("IsIntegral(%v) = %v, want %v", c.n, got, c.want)
		}
	}
}

func TestSetIndexAutoVivifiesWithNull(t *testing.T) {
	arr := NewArray()
	arr.SetIndex(3, NewString("late"))
	if arr.Len() != 4 {
		t.Fatalf("expected length 4, got %d", arr.Len())
	}
	for i := 0; i < 3; i++ {
		if !arr.Index(i).IsNull() {
			t.Fatalf("expected index %d to be null, got %v", i, arr.Index(i).Kind())
		}
	}
	if s, _ := arr.Index(3).AsString(); s != "late" {
		t.Fatalf("expected 'late' at index 3, got %q", s)
	}
}

func TestCloneProducesDeepEqualButDisjointStructure(t *testing.T) {
	orig := NewObject()
	orig.Set("name", NewString("router"))
	tags := NewArray()
	tags.Append(NewString("lan"))
	tags.Append(NewNumber(2))
	orig.Set("tags", tags)

	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone, cmp.AllowUnexported(Value{})); diff != "" {
		t.Fatalf("clone diverged from original:\n%s", diff)
	}

	clone.Get("tags").Append(NewBool(true))
	if diff := cmp.Diff(orig, clone, cmp.AllowUnexported(Value{})); diff == "" {
		t.Fatalf("expected clone mutation to diverge from original")
	}
}

func TestDeleteRemovesMember(t *testing.T) {
	o := NewObject()
	o.Set("a", NewNumber(1))
	o.Set("b", NewNumber(2))
	if !o.Delete("a") {
		t.Fatalf("expected Delete to report removal")
	}
	if o.Has("a") {
		t.Fatalf("expected 'a' to be gone")
	}
	if o.Delete("missing") {
		t.Fatalf("expected Delete of absent key to report false")
	}
}
