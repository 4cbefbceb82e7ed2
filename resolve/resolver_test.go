package resolve

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestExplicitPathBypassesShortNameSearch(t *testing.T) {
	fs := afero.NewMemMapFs()
	r, err := Resolve(fs, "./custom/path.json", VerbGet, discardLogger())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Path != "./custom/path.json" || !r.Explicit {
		t.Fatalf("unexpected resolution: %+v", r)
	}
}

func TestShortNamePrefersCurrentDirectoryOverEtc(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "prudynt.json", []byte("{}"), 0o644)
	afero.WriteFile(fs, "/etc/prudynt.json", []byte("{}"), 0o644)

	r, err := Resolve(fs, "prudynt", VerbGet, discardLogger())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Path != "prudynt.json" {
		t.Fatalf("expected ./prudynt.json to win over /etc, got %q", r.Path)
	}
}

func TestShortNameFallsBackToEtc(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/etc/prudynt.json", []byte("{}"), 0o644)

	r, err := Resolve(fs, "prudynt", VerbGet, discardLogger())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Path != "/etc/prudynt.json" {
		t.Fatalf("expected fallback to /etc, got %q", r.Path)
	}
}

func TestNoCandidateFoundIsNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := Resolve(fs, "missing", VerbGet, discardLogger()); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestDirectoryCandidateIsSkippedNotSelected(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("prudynt", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	afero.WriteFile(fs, "prudynt.json", []byte("{}"), 0o644)

	r, err := Resolve(fs, "prudynt", VerbGet, discardLogger())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Path != "prudynt.json" {
		t.Fatalf("expected directory candidate skipped in favor of prudynt.json, got %q", r.Path)
	}
}

func TestCreateRequiresExplicitPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := Resolve(fs, "prudynt", VerbCreate, discardLogger()); err == nil {
		t.Fatalf("expected create with a short name to fail")
	}
	r, err := Resolve(fs, "./prudynt.json", VerbCreate, discardLogger())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Path != "./prudynt.json" {
		t.Fatalf("unexpected path: %q", r.Path)
	}
}
