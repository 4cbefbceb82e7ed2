package jsonpath

// selectorKind enumerates the selector forms of the dialect.
type selectorKind int

const (
	selChild          selectorKind = iota // .name or ['name']
	selNamesUnion                         // ['a','b']
	selWildcard                           // * (dot or bracket form)
	selIndex                              // [n]
	selIndicesUnion                       // [n1,n2,...]
	selSlice                               // [start:end:step]
	selRecursive                          // ..
	selFilter                             // [?(expr)]
)

type selector struct {
	kind    selectorKind
	name    string
	names   []string
	index   int
	indices []int
	start   *int
	end     *int
	step    *int
	filter  string
}
