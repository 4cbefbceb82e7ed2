// Command jct reads, queries, and edits JSON configuration documents.
//
// Usage: jct [--trace-resolve] <target> <verb> [args...]
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/themactep/jct"
	"github.com/themactep/jct/internal/trace"
)

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run is the testable entry point: it never touches os.Exit or the real
// filesystem directly, so cmd/jct's dispatch table can be exercised
// against an in-memory afero.Fs in tests.
//
// The top-level grammar `jct [--trace-resolve] <target> <verb> [args...]`
// does not fit kingpin's command tree (there is no fixed command name,
// only a verb that is itself an argument), so the global flag and the
// two leading positionals are scanned by hand here, the way the
// original CLI scanned argv directly. The verb-specific remainder is
// handed to each handler untouched; handlePath re-parses its own
// remainder with a dedicated kingpin.Application, since "path" is the
// one verb with a real flag grammar (--mode, --limit, --strict, ...).
func run(argv []string, fs afero.Fs, stdout, stderr io.Writer) int {
	traceResolve, rest := extractTraceFlag(argv)
	if len(rest) > 0 && (rest[0] == "--help" || rest[0] == "-h") {
		printUsage(stdout)
		return 0
	}
	if len(rest) < 2 {
		printUsage(stderr)
		return 1
	}

	target, verb, verbArgs := rest[0], rest[1], rest[2:]

	log := trace.New(stderr, traceResolve)
	ctx := &cliContext{fs: fs, stdout: stdout, stderr: stderr, log: log, cfg: jct.DefaultConfig()}

	handler, ok := verbTable[verb]
	if !ok {
		fmt.Fprintf(stderr, "jct: unknown command '%s'\n", verb)
		printUsage(stderr)
		return 1
	}

	err := handler(ctx, target, verbArgs)
	if err == nil {
		return 0
	}
	if ec, ok := err.(exitCoder); ok {
		fmt.Fprintf(stderr, "jct: %s\n", err)
		return ec.ExitCode()
	}
	fmt.Fprintf(stderr, "jct: %s\n", err)
	return jct.ExitCode(jct.KindOf(err))
}

// extractTraceFlag pulls --trace-resolve out of argv regardless of
// position, the way the original scanned all arguments before dispatch.
func extractTraceFlag(argv []string) (bool, []string) {
	var rest []string
	found := false
	for _, a := range argv {
		if a == "--trace-resolve" {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return found, rest
}

// exitCoder lets a handler override the Kind-derived exit code, used by
// restore's five-way precondition outcome and by path's strict-mode
// ParseError-to-2 override.
type exitCoder interface {
	error
	ExitCode() int
}

type cliContext struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger
	cfg    *jct.Config
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

const usageText = `Usage: jct [--trace-resolve] <target> <verb> [args...]

Verbs:
  <target> get <key>                   Read a value by dot-notation key
  <target> set <key> <value>           Write a value by dot-notation key
  <target> create                      Create a new empty document
  <target> print                       Print the entire document
  <target> import <file>               Merge another document into target
  <target> restore                     Restore an OverlayFS file to its ROM original
  <target> path <expression>           Query with JSONPath

Options:
  --trace-resolve                      Trace short-name resolution to stderr
  path options: --mode values|paths|pairs [--limit N] [--strict] [--pretty] [--unwrap-single]

Short-name resolution (when <target> has no '/' and no '.json' suffix):
  Tries ./<name>, ./<name>.json, /etc/<name>.json in order, stopping at the
  first candidate found; an existing-but-unreadable candidate halts the
  search rather than falling through to later candidates.
`
