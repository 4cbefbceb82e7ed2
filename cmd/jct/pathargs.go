package main

import (
	"github.com/alecthomas/kingpin/v2"

	"github.com/themactep/jct"
	"github.com/themactep/jct/jsonpath"
)

// pathArgs is the `path` verb's own argument struct, re-parsed from the
// verb's remainder by a dedicated kingpin.Application since its flag
// grammar (--mode, --limit, --strict, --pretty, --unwrap-single) is
// real enough to be worth a real parser rather than a hand-rolled loop.
type pathArgs struct {
	expr   string
	mode   string
	limit  int
	strict bool
	pretty bool
	unwrap bool
}

func parsePathArgs(args []string) (pathArgs, error) {
	var pa pathArgs
	app := kingpin.New("path", "Query a document with JSONPath.")
	app.Terminate(nil)
	app.UsageTemplate(kingpin.CompactUsageTemplate)

	expr := app.Arg("expression", "JSONPath expression.").Required().String()
	mode := app.Flag("mode", "Result mode: values, paths, or pairs.").Default("values").Enum("values", "paths", "pairs")
	limit := app.Flag("limit", "Maximum number of results (0 = unlimited).").Default("0").Int()
	strict := app.Flag("strict", "Surface parse/evaluation errors instead of returning an empty result.").Bool()
	pretty := app.Flag("pretty", "Pretty-print the result document.").Bool()
	unwrap := app.Flag("unwrap-single", "Print a single values-mode result unwrapped, without an array.").Bool()

	if _, err := app.Parse(args); err != nil {
		return pathArgs{}, jct.New("path", jct.KindBadInput, err.Error(), err)
	}

	pa.expr = *expr
	pa.mode = *mode
	pa.limit = *limit
	pa.strict = *strict
	pa.pretty = *pretty
	pa.unwrap = *unwrap
	if pa.limit < 0 {
		pa.limit = 0
	}
	return pa, nil
}

func (pa pathArgs) options() jsonpath.Options {
	opts := jsonpath.DefaultOptions()
	switch pa.mode {
	case "paths":
		opts.Mode = jsonpath.ModePaths
	case "pairs":
		opts.Mode = jsonpath.ModePairs
	default:
		opts.Mode = jsonpath.ModeValues
	}
	opts.Limit = pa.limit
	opts.Strict = pa.strict
	opts.UnwrapSingle = pa.unwrap
	return opts
}
