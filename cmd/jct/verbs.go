package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/themactep/jct"
	"github.com/themactep/jct/codec"
	"github.com/themactep/jct/iowrite"
	"github.com/themactep/jct/jsonpath"
	"github.com/themactep/jct/merge"
	"github.com/themactep/jct/pathcursor"
	"github.com/themactep/jct/resolve"
	"github.com/themactep/jct/value"
)

type handlerFunc func(ctx *cliContext, target string, args []string) error

var verbTable = map[string]handlerFunc{
	"get":     handleGet,
	"set":     handleSet,
	"create":  handleCreate,
	"print":   handlePrint,
	"import":  handleImport,
	"restore": handleRestore,
	"path":    handlePath,
}

func isExplicit(target string) bool {
	return strings.ContainsAny(target, "/\\") || strings.HasSuffix(target, ".json")
}

// resolveFor runs the short-name resolver for verbs that require an
// existing, readable file: get, print, path, the short-name branch of
// set, and import's target (the file being read into).
func resolveFor(ctx *cliContext, target string, verb resolve.Verb) (string, error) {
	r, err := resolve.Resolve(ctx.fs, target, verb, ctx.log)
	if err != nil {
		return "", err
	}
	return r.Path, nil
}

func loadDocument(ctx *cliContext, path string) (*value.Value, error) {
	data, err := readFileBytes(ctx, path)
	if err != nil {
		return nil, jct.Wrap("load", jct.KindIOFailure, err)
	}
	v, err := codec.Decode(data)
	if err != nil {
		return nil, jct.Wrap("load", jct.KindParseError, err)
	}
	return v, nil
}

func readFileBytes(ctx *cliContext, path string) ([]byte, error) {
	return afero.ReadFile(ctx.fs, path)
}

func saveDocument(ctx *cliContext, path string, doc *value.Value) error {
	data := codec.EncodeFile(doc)
	if err := iowrite.ReplaceAtomic(ctx.fs, path, data, 0o644); err != nil {
		return jct.Wrap("save", jct.KindIOFailure, err)
	}
	return nil
}

// handleGet implements `<target> get <key>`, printing the raw scalar
// for a leaf value or a pretty-printed document for a container.
func handleGet(ctx *cliContext, target string, args []string) error {
	if len(args) < 1 {
		return jct.New("get", jct.KindBadInput, "'get' requires a key", nil)
	}
	path, err := resolveFor(ctx, target, resolve.VerbGet)
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}
	v, err := pathcursor.Get(doc, args[0])
	if err != nil {
		return jct.Wrap("get", jct.KindNotFound, err)
	}
	printValue(ctx, v)
	return nil
}

// printValue matches the original's print_item: scalars print bare,
// containers print as canonical pretty JSON.
func printValue(ctx *cliContext, v *value.Value) {
	switch v.Kind() {
	case value.String:
		s, _ := v.AsString()
		fmt.Fprintln(ctx.stdout, s)
	case value.Bool:
		b, _ := v.AsBool()
		fmt.Fprintln(ctx.stdout, b)
	case value.Number:
		n, _ := v.AsNumber()
		fmt.Fprintln(ctx.stdout, codecFormatNumber(n))
	case value.Null:
		fmt.Fprintln(ctx.stdout, "null")
	default:
		fmt.Fprintln(ctx.stdout, string(codec.Encode(v, codec.Pretty)))
	}
}

func codecFormatNumber(n float64) string {
	if value.IsIntegral(n) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// handleSet implements `<target> set <key> <value>`. A short name must
// resolve to an existing file; an explicit path may create one.
func handleSet(ctx *cliContext, target string, args []string) error {
	if len(args) < 2 {
		return jct.New("set", jct.KindBadInput, "'set' requires a key and a value", nil)
	}
	var path string
	if isExplicit(target) {
		path = target
	} else {
		resolved, err := resolveFor(ctx, target, resolve.VerbSet)
		if err != nil {
			return err
		}
		path = resolved
	}

	var doc *value.Value
	if existing, err := loadDocument(ctx, path); err == nil {
		doc = existing
	} else {
		doc = value.NewObject()
	}

	val := pathcursor.CoerceValueString(args[1])
	if err := pathcursor.Set(doc, args[0], val); err != nil {
		return jct.Wrap("set", jct.KindBadInput, err)
	}
	return saveDocument(ctx, path, doc)
}

// handleCreate implements `<target> create`: always requires an
// explicit path and fails if the target already exists.
func handleCreate(ctx *cliContext, target string, args []string) error {
	if !isExplicit(target) {
		return jct.New("create", jct.KindNotFound,
			"'create' requires an explicit path; supply ./"+target+".json", nil)
	}
	data := codec.EncodeFile(value.NewObject())
	if err := iowrite.CreateExclusive(ctx.fs, target, data, 0o644); err != nil {
		return err
	}
	return nil
}

// handlePrint implements `<target> print`.
func handlePrint(ctx *cliContext, target string, args []string) error {
	path, err := resolveFor(ctx, target, resolve.VerbPrint)
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}
	printValue(ctx, doc)
	return nil
}

// handleImport implements `<target> import <file>`: deep-merges <file>
// into target and saves the result.
func handleImport(ctx *cliContext, target string, args []string) error {
	if len(args) < 1 {
		return jct.New("import", jct.KindBadInput, "'import' requires a source file", nil)
	}
	path, err := resolveFor(ctx, target, resolve.VerbSet)
	if err != nil {
		return err
	}
	dest, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}
	srcData, err := readFileBytes(ctx, args[0])
	if err != nil {
		return jct.Wrap("import", jct.KindIOFailure, err)
	}
	src, err := codec.Decode(srcData)
	if err != nil {
		return jct.Wrap("import", jct.KindParseError, err)
	}
	merged := merge.Merge(dest, src)
	return saveDocument(ctx, path, merged)
}

// exitError wraps a fixed process exit code, bypassing the Kind-based
// mapping for cases with their own documented exit codes: restore's
// five-way precondition outcome, and path's strict-mode parse-error
// override.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

// handleRestore implements `<target> restore`: target must be an
// absolute path naming an overlay file with a ROM original at
// /rom<target>; the overlay at /overlay<target> is unlinked and the
// root filesystem remounted to fall back to the ROM copy.
func handleRestore(ctx *cliContext, target string, args []string) error {
	if target == "" || !strings.HasPrefix(target, "/") {
		return &exitError{5, "config file path must be absolute, got: '" + target + "'"}
	}
	romPath := "/rom" + target
	overlayPath := "/overlay" + target

	if _, err := ctx.fs.Stat(romPath); err != nil {
		return &exitError{1, "original file '" + romPath + "' not found"}
	}
	if _, err := ctx.fs.Stat(overlayPath); err != nil {
		return &exitError{2, "the file is original, nothing to restore"}
	}
	if err := ctx.fs.Remove(overlayPath); err != nil {
		return &exitError{3, "failed to remove overlay file '" + overlayPath + "': " + err.Error()}
	}
	if err := remountRoot(); err != nil {
		return &exitError{4, "failed to remount overlay filesystem: " + err.Error()}
	}
	return nil
}

// handlePath implements `<target> path <expression> [flags]`. The
// expression and flags are re-parsed from args by parsePathArgs, its
// own small kingpin.Application.
func handlePath(ctx *cliContext, target string, args []string) error {
	pa, err := parsePathArgs(args)
	if err != nil {
		return err
	}
	opts := pa.options()

	path, err := resolveFor(ctx, target, resolve.VerbPath)
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}

	res, evalErr := jsonpath.Evaluate(doc, pa.expr, opts)
	if evalErr != nil {
		kind := jct.KindParseError
		if jsonpathEvalFailure(evalErr) {
			kind = jct.KindEvalError
		}
		wrapped := jct.Wrap("path", kind, evalErr)
		if opts.Strict && kind == jct.KindParseError {
			return &exitError{2, wrapped.Error()}
		}
		return wrapped
	}

	style := codec.Compact
	if pa.pretty {
		style = codec.Pretty
	}
	emitPathResult(ctx, res, opts, style)
	return nil
}

func jsonpathEvalFailure(err error) bool {
	return strings.Contains(err.Error(), "evaluation error")
}

func emitPathResult(ctx *cliContext, res jsonpath.Result, opts jsonpath.Options, style codec.Style) {
	if opts.Mode == jsonpath.ModeValues && opts.UnwrapSingle && len(res.Values) == 1 {
		printValue(ctx, res.Values[0])
		return
	}

	out := value.NewArray()
	switch opts.Mode {
	case jsonpath.ModePaths:
		for _, p := range res.Paths {
			out.Append(value.NewString(p))
		}
	case jsonpath.ModePairs:
		for _, pr := range res.Pairs {
			entry := value.NewObject()
			entry.Set("value", pr.Value)
			entry.Set("path", value.NewString(pr.Path))
			out.Append(entry)
		}
	default:
		for _, v := range res.Values {
			out.Append(v)
		}
	}
	fmt.Fprintln(ctx.stdout, string(codec.Encode(out, style)))
}

