package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wesleywu/simconfig/internal/export"
)

var _ export.StateStore = (*ExportState)(nil)

func TestExportState(t *testing.T) {
	state := NewExportState()

	if state.HasPreviousState() {
		t.Error("New state should have no previous state")
	}

	if !state.IsChanged("out/config.h", "abc") {
		t.Error("Unknown path should be changed")
	}

	state.Update("out/config.h", "c", "abc", 7)

	if state.IsChanged("out/config.h", "abc") {
		t.Error("Same fingerprint should not be changed")
	}
	if !state.IsChanged("out/config.h", "def") {
		t.Error("Different fingerprint should be changed")
	}
	if !state.HasPreviousState() {
		t.Error("State should have previous state after update")
	}

	out, ok := state.Output("out/config.h")
	if !ok || out.Format != "c" || out.Parameters != 7 || out.LastUpdate.IsZero() {
		t.Errorf("Unexpected output state: %+v", out)
	}

	state.Clear()
	if state.HasPreviousState() || len(state.Paths()) != 0 {
		t.Error("Clear should forget every output")
	}
}

func TestExportStatePersistence(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "nested", DefaultStateFile)

	// Missing file yields an empty state
	state, err := LoadExportState(stateFile)
	if err != nil {
		t.Fatalf("Failed to load missing state: %v", err)
	}
	if state.HasPreviousState() {
		t.Error("Missing state file should give an empty state")
	}

	state.Update("out/config.rs", "rust", "1111", 7)
	state.Update("out/config.f90", "fortran", "2222", 7)

	if err := state.Save(stateFile); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := LoadExportState(stateFile)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	paths := loaded.Paths()
	if len(paths) != 2 || paths[0] != "out/config.f90" || paths[1] != "out/config.rs" {
		t.Errorf("Unexpected paths: %v", paths)
	}
	if loaded.IsChanged("out/config.rs", "1111") {
		t.Error("Loaded state lost the fingerprint")
	}
	if !loaded.LastRun.Equal(state.LastRun) {
		t.Errorf("Expected last run %v, got %v", state.LastRun, loaded.LastRun)
	}
}

func TestLoadExportStateInvalid(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), DefaultStateFile)
	if err := os.WriteFile(stateFile, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write state: %v", err)
	}

	if _, err := LoadExportState(stateFile); err == nil {
		t.Error("Expected error for invalid state file")
	}
}
