package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wesleywu/simconfig/internal/export"
	"gopkg.in/yaml.v3"
)

// DefaultStateFile is the export state file name, relative to the output directory
const DefaultStateFile = ".simconfig-state.json"

// Config represents the configuration for the configuration exporter
type Config struct {
	LogLevel   string `yaml:"log_level"`
	SilentMode bool   `yaml:"silent"`

	// Source and destination
	DefinitionFile string   `yaml:"definitions"`
	OutputDir      string   `yaml:"output_dir"`
	BaseName       string   `yaml:"base_name"`
	Formats        []string `yaml:"formats"`
	StateFile      string   `yaml:"state_file"`

	// Selection
	Query string   `yaml:"query"`
	Tags  []string `yaml:"tags"`

	// Rendering
	Rename        bool   `yaml:"rename"`
	Guard         string `yaml:"guard"`
	FortranModule string `yaml:"fortran_module"`
	Units         bool   `yaml:"units"`
	BashExport    bool   `yaml:"bash_export"`
	JSONIndent    int    `yaml:"json_indent"`

	// Header entries, by parameter name
	Define []string `yaml:"define"`
	Const  []string `yaml:"const"`

	// Performance
	ConcurrencyLimit int           `yaml:"concurrency_limit"`
	WatchDebounce    time.Duration `yaml:"watch_debounce"`
}

// NewDefaultConfig creates a new config with default values
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		OutputDir:        "config",
		BaseName:         "config",
		Formats:          export.FormatNames(),
		Rename:           true,
		Guard:            export.DefaultGuard,
		FortranModule:    export.DefaultModule,
		Units:            true,
		BashExport:       true,
		JSONIndent:       2,
		ConcurrencyLimit: 4,
		WatchDebounce:    500 * time.Millisecond,
	}
}

// LoadConfig loads the configuration from a YAML file. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}

	if c.BaseName == "" || strings.ContainsAny(c.BaseName, `/\`) {
		return fmt.Errorf("invalid base name: %q", c.BaseName)
	}

	if len(c.Formats) == 0 {
		return fmt.Errorf("at least one export format is required")
	}

	if _, err := c.ExportFormats(); err != nil {
		return err
	}

	if c.ConcurrencyLimit <= 0 {
		return fmt.Errorf("concurrency limit must be positive, got %d", c.ConcurrencyLimit)
	}

	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %v", c.WatchDebounce)
	}

	if c.JSONIndent < 0 {
		return fmt.Errorf("json indent must not be negative, got %d", c.JSONIndent)
	}

	return nil
}

// ExportFormats parses the configured format names
func (c *Config) ExportFormats() ([]export.Format, error) {
	formats := make([]export.Format, 0, len(c.Formats))
	for _, name := range c.Formats {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// ExportOptions returns the rendering options
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		Rename:     c.Rename,
		Guard:      c.Guard,
		Module:     c.FortranModule,
		Units:      c.Units,
		BashExport: c.BashExport,
		JSONIndent: c.JSONIndent,
		Define:     c.Define,
		Const:      c.Const,
	}
}

// StatePath returns the export state file location
func (c *Config) StatePath() string {
	if c.StateFile != "" {
		return c.StateFile
	}
	return filepath.Join(c.OutputDir, DefaultStateFile)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
