package iowrite

import (
	"testing"

	"github.com/spf13/afero"
)

func TestReplaceAtomicOverwritesExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "config.json", []byte(`{"old":true}`), 0o644)

	if err := ReplaceAtomic(fs, "config.json", []byte(`{"new":true}`), 0o644); err != nil {
		t.Fatalf("ReplaceAtomic: %v", err)
	}
	data, err := afero.ReadFile(fs, "config.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{"new":true}` {
		t.Fatalf("expected overwritten content, got %q", data)
	}
}

func TestReplaceAtomicLeavesNoTempFileBehind(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := ReplaceAtomic(fs, "config.json", []byte(`{}`), 0o644); err != nil {
		t.Fatalf("ReplaceAtomic: %v", err)
	}
	if _, err := fs.Stat("config.json.jct-tmp"); err == nil {
		t.Fatalf("expected temp file to be cleaned up")
	}
}

func TestCreateExclusiveFailsIfTargetExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "config.json", []byte(`{}`), 0o644)

	err := CreateExclusive(fs, "config.json", []byte(`{}`), 0o644)
	if err == nil {
		t.Fatalf("expected CreateExclusive to refuse an existing target")
	}
}

func TestCreateExclusiveSucceedsForNewTarget(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := CreateExclusive(fs, "new.json", []byte(`{}`), 0o644); err != nil {
		t.Fatalf("CreateExclusive: %v", err)
	}
	data, err := afero.ReadFile(fs, "new.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{}` {
		t.Fatalf("unexpected content: %q", data)
	}
}
