package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/wesleywu/simconfig/internal/export"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("Expected watch debounce 500ms, got %v", cfg.WatchDebounce)
	}

	if cfg.ConcurrencyLimit != 4 {
		t.Errorf("Expected concurrency limit 4, got %d", cfg.ConcurrencyLimit)
	}

	if len(cfg.Formats) != len(export.Formats()) {
		t.Errorf("Expected every format by default, got %v", cfg.Formats)
	}

	if diff := cmp.Diff(export.DefaultOptions(), cfg.ExportOptions()); diff != "" {
		t.Errorf("Default export options mismatch (-want +got):\n%s", diff)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectError bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"invalid log level", func(c *Config) { c.LogLevel = "invalid" }, true},
		{"upper case log level", func(c *Config) { c.LogLevel = "DEBUG" }, false},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"empty base name", func(c *Config) { c.BaseName = "" }, true},
		{"base name with separator", func(c *Config) { c.BaseName = "a/b" }, true},
		{"no formats", func(c *Config) { c.Formats = nil }, true},
		{"unknown format", func(c *Config) { c.Formats = []string{"c", "xml"} }, true},
		{"format alias", func(c *Config) { c.Formats = []string{"c++", "yml"} }, false},
		{"zero concurrency", func(c *Config) { c.ConcurrencyLimit = 0 }, true},
		{"negative debounce", func(c *Config) { c.WatchDebounce = -time.Second }, true},
		{"negative indent", func(c *Config) { c.JSONIndent = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.expectError {
				t.Errorf("Expected error: %v, got: %v", tt.expectError, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Test loading non-existent file (should return default config)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "non-existent.yaml"))
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level, got: %s", cfg.LogLevel)
	}

	// Test loading empty path (should return default config)
	cfg, err = LoadConfig("")
	if err != nil {
		t.Errorf("Expected no error for empty path, got: %v", err)
	}

	if cfg == nil {
		t.Error("Expected config, got nil")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simconfig.yaml")
	content := `log_level: debug
output_dir: build/generated
formats: [c, rust]
query: box.*
tags: [selection]
rename: false
json_indent: 0
watch_debounce: 2s
define: [simulation.name]
const: [box.width, box.height]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.OutputDir != "build/generated" || cfg.Query != "box.*" {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.Rename || cfg.JSONIndent != 0 || cfg.WatchDebounce != 2*time.Second {
		t.Errorf("Overrides not applied: %+v", cfg)
	}

	// Unset keys keep their defaults
	if cfg.BaseName != "config" || cfg.ConcurrencyLimit != 4 || !cfg.Units {
		t.Errorf("Defaults lost: %+v", cfg)
	}

	opts := cfg.ExportOptions()
	if diff := cmp.Diff([]string{"simulation.name"}, opts.Define); diff != "" {
		t.Errorf("Define mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"box.width", "box.height"}, opts.Const); diff != "" {
		t.Errorf("Const mismatch (-want +got):\n%s", diff)
	}

	formats, err := cfg.ExportFormats()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff([]export.Format{export.FormatC, export.FormatRust}, formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}

	if cfg.StatePath() != filepath.Join("build/generated", DefaultStateFile) {
		t.Errorf("Unexpected state path %s", cfg.StatePath())
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "formats: [c\n"},
		{"invalid value", "concurrency_limit: -3\n"},
		{"unknown format", "formats: [pascal]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestConfigSave(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Query = "box.*"
	cfg.StateFile = "state.json"
	tempFile := filepath.Join(t.TempDir(), "nested", "simconfig.yaml")

	err := cfg.Save(tempFile)
	if err != nil {
		t.Errorf("Failed to save config: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(tempFile); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	// Load and verify
	loadedCfg, err := LoadConfig(tempFile)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if diff := cmp.Diff(cfg, loadedCfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Config mismatch after save/load (-want +got):\n%s", diff)
	}

	if loadedCfg.StatePath() != "state.json" {
		t.Errorf("Expected explicit state file, got %s", loadedCfg.StatePath())
	}
}
