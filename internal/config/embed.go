package config

import (
	_ "embed"
	"errors"
	"os"

	"github.com/wesleywu/simconfig/internal/params"
)

//go:embed defaults.yaml
var embeddedDefinitions []byte

// EmbeddedDefinitions returns the raw embedded definition file
func EmbeddedDefinitions() []byte {
	out := make([]byte, len(embeddedDefinitions))
	copy(out, embeddedDefinitions)
	return out
}

// GetEmbeddedDefinitions returns the parameter table of the embedded definition file
func GetEmbeddedDefinitions() (*params.Table, error) {
	return parseDefinitions(embeddedDefinitions)
}

// LoadDefinitionsWithFallback loads definitions from file, falls back to
// embedded data when no file is named or the file does not exist. A file
// that exists but does not parse is an error.
func LoadDefinitionsWithFallback(filename string) (*params.Table, error) {
	if filename != "" {
		table, err := LoadDefinitions(filename)
		if err == nil {
			return table, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Fall back to embedded data
	return GetEmbeddedDefinitions()
}
