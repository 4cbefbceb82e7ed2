// Package resolve implements the short-name resolver: mapping a CLI
// target argument to a concrete JSON file path, with the candidate
// precedence and failure-code discipline of the core spec.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/themactep/jct"
)

// Verb identifies the CLI verb driving a resolution, since create/set
// differ from get/print/path in whether a short name may be missing.
type Verb int

const (
	VerbGet Verb = iota
	VerbSet
	VerbCreate
	VerbPrint
	VerbImport
	VerbPath
)

// Probe records one candidate evaluation, emitted to the trace logger
// and returned in Resolved.Trace for callers that want the full list
// without depending on log output.
type Probe struct {
	Candidate string
	Outcome   string
}

// Resolved is the outcome of a successful resolution.
type Resolved struct {
	Path     string
	Explicit bool
	Trace    []Probe
}

// isExplicitPath reports whether target contains a path separator or
// ends in ".json" — the two conditions under which resolution is
// skipped entirely.
func isExplicitPath(target string) bool {
	if strings.ContainsAny(target, "/\\") {
		return true
	}
	return strings.HasSuffix(target, ".json")
}

// Resolve maps target to a file path per §4.5: explicit paths are used
// verbatim; short names are probed in order against fs, stopping (and
// failing) immediately on the first unreadable regular file rather
// than falling through to later candidates.
func Resolve(fs afero.Fs, target string, verb Verb, log *logrus.Logger) (Resolved, error) {
	if isExplicitPath(target) {
		log.WithField("candidate", target).Debug("explicit path used")
		if verb == VerbCreate {
			return Resolved{Path: target, Explicit: true}, nil
		}
		return Resolved{Path: target, Explicit: true}, nil
	}

	if verb == VerbCreate {
		return Resolved{}, jct.New("resolve", jct.KindNotFound,
			"create requires an explicit path; supply ./"+target+".json", nil)
	}

	candidates := shortNameCandidates(target)
	var trace []Probe
	for _, cand := range candidates {
		outcome, selected, permDenied := probe(fs, cand)
		trace = append(trace, Probe{Candidate: cand, Outcome: outcome})
		log.WithFields(logrus.Fields{"candidate": cand, "outcome": outcome}).Debug("checking")
		if permDenied {
			return Resolved{}, jct.New("resolve", jct.KindPermissionDenied,
				"permission denied: "+cand, nil)
		}
		if selected {
			return Resolved{Path: cand, Explicit: false, Trace: trace}, nil
		}
	}

	tried := strings.Join(candidates, ", ")
	hint := ""
	if verb == VerbSet {
		hint = " (set requires an existing file when given a short name; supply ./" + target + ".json to create one)"
	}
	return Resolved{}, jct.New("resolve", jct.KindNotFound,
		"no JSON file found for '"+target+"'; tried: "+tried+hint, nil)
}

// shortNameCandidates returns the ordered candidate list for a short
// name: ./<name>, ./<name>.json, and (POSIX only) /etc/<name>.json.
func shortNameCandidates(name string) []string {
	cands := []string{
		filepath.Join(".", name),
		filepath.Join(".", name+".json"),
	}
	if os.PathSeparator == '/' {
		cands = append(cands, filepath.Join("/etc", name+".json"))
	}
	return cands
}

// probe evaluates one candidate: missing candidates are skipped;
// directories and non-regular files are skipped; an existing regular
// file that isn't readable halts the search (permDenied=true) rather
// than falling through.
func probe(fs afero.Fs, path string) (outcome string, selected bool, permDenied bool) {
	info, err := fs.Stat(path)
	if err != nil {
		return "not found", false, false
	}
	if info.IsDir() {
		return "is a directory, skip", false, false
	}
	if !info.Mode().IsRegular() {
		return "not a regular file, skip", false, false
	}
	f, err := fs.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return "exists but not readable", false, true
		}
		return "exists but not readable", false, true
	}
	f.Close()
	return "selected", true, false
}
