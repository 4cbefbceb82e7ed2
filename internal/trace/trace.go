// Package trace configures the logrus logger used for --trace-resolve
// output: a bare, single-line-per-event formatter matching the CLI's
// documented "[trace] ..." lines rather than logrus's default format.
package trace

import (
	"io"

	"github.com/sirupsen/logrus"
)

// formatter renders a probe entry (candidate and outcome fields) as
// "[trace] checking <candidate>... <outcome>", and any other entry as
// "[trace] <message>" followed by ": <candidate>" when that field is set,
// with no timestamp or level prefix, since the CLI's trace output is
// meant to read like a narrated sequence of resolver decisions.
type formatter struct{}

func (formatter) Format(e *logrus.Entry) ([]byte, error) {
	line := "[trace] " + e.Message
	if cand, ok := e.Data["candidate"]; ok {
		if outcome, ok := e.Data["outcome"]; ok {
			line = "[trace] checking " + toString(cand) + "... " + toString(outcome)
		} else {
			line += ": " + toString(cand)
		}
	}
	line += "\n"
	return []byte(line), nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// New returns a logger that writes trace lines to w when enabled is
// true, and discards everything otherwise so callers never need an
// if-enabled branch at each call site.
func New(w io.Writer, enabled bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(formatter{})
	if !enabled {
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
		return log
	}
	log.SetOutput(w)
	log.SetLevel(logrus.DebugLevel)
	return log
}
