package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func runCLI(t *testing.T, fs afero.Fs, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, err bytes.Buffer
	code = run(args, fs, &out, &err)
	return out.String(), err.String(), code
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, _, code := runCLI(t, fs, "./app.json", "create")
	if code != 0 {
		t.Fatalf("create exit code = %d", code)
	}
	_, _, code = runCLI(t, fs, "./app.json", "set", "server.port", "8080")
	if code != 0 {
		t.Fatalf("set exit code = %d", code)
	}
	out, _, code := runCLI(t, fs, "./app.json", "get", "server.port")
	if code != 0 {
		t.Fatalf("get exit code = %d", code)
	}
	if strings.TrimSpace(out) != "8080" {
		t.Fatalf("expected '8080', got %q", out)
	}
}

func TestCreateFailsIfFileAlreadyExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "app.json", []byte(`{}`), 0o644)
	_, _, code := runCLI(t, fs, "./app.json", "create")
	if code == 0 {
		t.Fatalf("expected create to fail when the file already exists")
	}
}

func TestCreateRequiresExplicitPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, _, code := runCLI(t, fs, "prudynt", "create")
	if code != 2 {
		t.Fatalf("expected 'create' with a short name to exit 2, got %d", code)
	}
}

func TestGetOnMissingKeyExitsNonZero(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "app.json", []byte(`{"a":1}`), 0o644)
	_, _, code := runCLI(t, fs, "app.json", "get", "missing")
	if code == 0 {
		t.Fatalf("expected nonzero exit for missing key")
	}
}

func TestPrintEmitsWholeDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "app.json", []byte(`{"b":2,"a":1}`), 0o644)
	out, _, code := runCLI(t, fs, "app.json", "print")
	if code != 0 {
		t.Fatalf("print exit code = %d", code)
	}
	if !strings.Contains(out, `"a": 1`) || !strings.Contains(out, `"b": 2`) {
		t.Fatalf("unexpected print output: %q", out)
	}
}

func TestPathVerbQueriesDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "books.json", []byte(`{"store":{"book":[{"author":"A"},{"author":"B"}]}}`), 0o644)
	out, _, code := runCLI(t, fs, "books.json", "path", "$..author")
	if code != 0 {
		t.Fatalf("path exit code = %d, stderr ignored", code)
	}
	if !strings.Contains(out, "A") || !strings.Contains(out, "B") {
		t.Fatalf("unexpected path output: %q", out)
	}
}

func TestRestoreRequiresAbsolutePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, _, code := runCLI(t, fs, "relative.json", "restore")
	if code != 5 {
		t.Fatalf("expected exit 5 for relative restore target, got %d", code)
	}
}

func TestRestoreExitsOneWhenNoRomSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, _, code := runCLI(t, fs, "/etc/app.json", "restore")
	if code != 1 {
		t.Fatalf("expected exit 1 when /rom source is absent, got %d", code)
	}
}

func TestRestoreExitsTwoWhenNoOverlay(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/rom/etc/app.json", []byte(`{}`), 0o644)
	_, _, code := runCLI(t, fs, "/etc/app.json", "restore")
	if code != 2 {
		t.Fatalf("expected exit 2 when overlay is absent, got %d", code)
	}
}

func TestUnknownVerbExitsOne(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "app.json", []byte(`{}`), 0o644)
	_, _, code := runCLI(t, fs, "app.json", "bogus")
	if code != 1 {
		t.Fatalf("expected exit 1 for unknown verb, got %d", code)
	}
}

func TestTraceResolveFlagEmitsTraceLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "app.json", []byte(`{}`), 0o644)
	_, stderr, code := runCLI(t, fs, "--trace-resolve", "app", "print")
	if code != 0 {
		t.Fatalf("print exit code = %d", code)
	}
	if !strings.Contains(stderr, "[trace]") {
		t.Fatalf("expected trace output on stderr, got %q", stderr)
	}
}
