package jct

// Size and depth limits shared by the codec and JSONPath engine.
const (
	// MaxDocumentSize is the largest input the text codec accepts.
	MaxDocumentSize = 100 * 1024 * 1024

	// MaxDepth bounds recursive-descent nesting in the parser and in the
	// JSONPath engine's recursive descent. The serializer and the differ
	// do not check it.
	MaxDepth = 1000
)

// Default JSONPath evaluation settings.
const (
	DefaultPathMode  = "values"
	DefaultPathLimit = 0 // unlimited
)
