package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wesleywu/simconfig/internal/params"
	"github.com/wesleywu/simconfig/record"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefinitions(t *testing.T) {
	path := writeTemp(t, "defs.yaml", `parameters:
  - name: grid.size
    type: uint16
    value: 512
    tags: [mesh]
  - name: grid.spacing
    type: float32
    value: 0.1
    unit: mm
  - name: label
    type: str
    value: "run 7"
`)

	table, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("Failed to load definitions: %v", err)
	}

	if diff := cmp.Diff([]string{"grid.size", "grid.spacing", "label"}, table.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	size, _ := table.Get("grid.size")
	if size.Value != uint64(512) || !size.HasTag("mesh") {
		t.Errorf("Unexpected grid.size: %+v", size)
	}

	spacing, _ := table.Get("grid.spacing")
	if spacing.Value != float64(float32(0.1)) || spacing.Unit != "mm" {
		t.Errorf("Unexpected grid.spacing: %+v", spacing)
	}
	if params.FormatValue(spacing) != "0.1" {
		t.Errorf("Expected float32 to format as 0.1, got %s", params.FormatValue(spacing))
	}
}

func TestLoadDefinitionsErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"malformed", "parameters: [", "failed to parse definitions"},
		{"empty", "parameters: []\n", "no parameters defined"},
		{"bad type", "parameters:\n  - {name: a, type: decimal, value: 1}\n", "invalid type at entry 1 (a)"},
		{"overflow", "parameters:\n  - {name: a, type: int, value: 1}\n  - {name: b, type: uint8, value: 256}\n", "invalid parameter at entry 2"},
		{"duplicate", "parameters:\n  - {name: a, type: int, value: 1}\n  - {name: a, type: int, value: 2}\n", "duplicate parameter a"},
		{"unit on text", "parameters:\n  - {name: a, type: str, value: x, unit: cm}\n", "invalid parameter at entry 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "defs.yaml", tt.content)
			_, err := LoadDefinitions(path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestLoadDefinitionsMissingFile(t *testing.T) {
	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestSaveDefinitionsRoundTrip(t *testing.T) {
	table := params.FromRecord(record.Default())
	path := filepath.Join(t.TempDir(), "defs.yaml")

	if err := SaveDefinitions(table, path); err != nil {
		t.Fatalf("Failed to save definitions: %v", err)
	}

	loaded, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("Failed to load saved definitions: %v", err)
	}

	if diff := cmp.Diff(table.Parameters(), loaded.Parameters()); diff != "" {
		t.Errorf("Definitions changed after save/load (-want +got):\n%s", diff)
	}
}
