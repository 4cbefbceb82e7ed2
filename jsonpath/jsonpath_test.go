package jsonpath

import (
	"testing"

	"github.com/themactep/jct/codec"
	"github.com/themactep/jct/value"
)

const booksDoc = `{
  "store": {
    "book": [
      {"category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "price": 8.99, "isbn": "0-553-21311-3"},
      {"category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  }
}`

func mustDecode(t *testing.T, s string) *value.Value {
	t.Helper()
	v, err := codec.Decode([]byte(s))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return v
}

func TestRecursiveDescentCollectsAllAuthors(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	res, err := Evaluate(doc, "$..author", DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Values) != 3 {
		t.Fatalf("expected 3 authors, got %d", len(res.Values))
	}
	first, _ := res.Values[0].AsString()
	if first != "Evelyn Waugh" {
		t.Fatalf("expected document-order first author 'Evelyn Waugh', got %q", first)
	}
}

func TestFilterSelectsByComparison(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	res, err := Evaluate(doc, "$.store.book[?(@.price < 10)].title", DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Values) != 2 {
		t.Fatalf("expected 2 cheap books, got %d", len(res.Values))
	}
}

func TestSliceSelectsRange(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	res, err := Evaluate(doc, "$.store.book[0:2].title", DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Values) != 2 {
		t.Fatalf("expected 2 titles from slice [0:2], got %d", len(res.Values))
	}
}

func TestPathsModeReturnsCanonicalPaths(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	opts := DefaultOptions()
	opts.Mode = ModePaths
	res, err := Evaluate(doc, "$.store.bicycle.color", opts)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Paths) != 1 || res.Paths[0] != "$.store.bicycle.color" {
		t.Fatalf("unexpected paths: %v", res.Paths)
	}
}

func TestPairsModeReturnsValueAndPath(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	opts := DefaultOptions()
	opts.Mode = ModePairs
	res, err := Evaluate(doc, "$.store.bicycle.color", opts)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(res.Pairs))
	}
	s, _ := res.Pairs[0].Value.AsString()
	if s != "red" || res.Pairs[0].Path != "$.store.bicycle.color" {
		t.Fatalf("unexpected pair: %+v", res.Pairs[0])
	}
}

func TestUnwrapSingleCollapsesOneResult(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	opts := DefaultOptions()
	opts.UnwrapSingle = true
	res, err := Evaluate(doc, "$.store.bicycle.color", opts)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Values) != 1 {
		t.Fatalf("expected exactly one value, got %d", len(res.Values))
	}
}

func TestBareRootSelectorReturnsDocument(t *testing.T) {
	doc := mustDecode(t, `{"a":1}`)
	res, err := Evaluate(doc, "$", DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Values) != 1 || !res.Values[0].IsObject() {
		t.Fatalf("expected bare $ to return the document root")
	}
}

func TestWildcardExpandsObjectMembers(t *testing.T) {
	doc := mustDecode(t, `{"a":1,"b":2,"c":3}`)
	res, err := Evaluate(doc, "$.*", DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Values) != 3 {
		t.Fatalf("expected 3 wildcard results, got %d", len(res.Values))
	}
}

func TestIndicesUnionSelectsMultipleElements(t *testing.T) {
	doc := mustDecode(t, `{"a":[10,20,30,40]}`)
	res, err := Evaluate(doc, "$.a[0,2]", DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Values) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Values))
	}
	n0, _ := res.Values[0].AsNumber()
	n1, _ := res.Values[1].AsNumber()
	if n0 != 10 || n1 != 30 {
		t.Fatalf("expected [10,30], got [%v,%v]", n0, n1)
	}
}

func TestRecursiveDescentInsideFilterIsParseErrorInStrictMode(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	opts := DefaultOptions()
	opts.Strict = true
	_, err := Evaluate(doc, "$.store.book[?(@..author == 'x')]", opts)
	if err == nil {
		t.Fatalf("expected strict mode to surface a parse error for '@..' inside a filter")
	}
}

func TestRecursiveDescentInsideFilterIsEmptyInLenientMode(t *testing.T) {
	doc := mustDecode(t, booksDoc)
	res, err := Evaluate(doc, "$.store.book[?(@..author == 'x')]", DefaultOptions())
	if err != nil {
		t.Fatalf("lenient mode should not return an error, got %v", err)
	}
	if len(res.Values) != 0 {
		t.Fatalf("expected empty result in lenient mode, got %d values", len(res.Values))
	}
}

func TestNegativeIndexIsEmptyInLenientStrictErrorsOut(t *testing.T) {
	doc := mustDecode(t, `{"a":[1,2,3]}`)
	res, err := Evaluate(doc, "$.a[-1]", DefaultOptions())
	if err != nil {
		t.Fatalf("lenient mode: %v", err)
	}
	if len(res.Values) != 0 {
		t.Fatalf("expected empty result for unsupported negative index in lenient mode")
	}

	opts := DefaultOptions()
	opts.Strict = true
	if _, err := Evaluate(doc, "$.a[-1]", opts); err == nil {
		t.Fatalf("expected strict mode to error on negative index")
	}
}
