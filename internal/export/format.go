package export

import (
	"fmt"
	"strings"
)

// Format is an export target
type Format int

// Format constants
const (
	// FormatDIP is the parameter definition language itself
	FormatDIP Format = iota
	// FormatC is a C header with const declarations
	FormatC
	// FormatCPP is a C++ header with constexpr declarations
	FormatCPP
	// FormatRust is a Rust module with pub const items
	FormatRust
	// FormatFortran is a Fortran module with parameters
	FormatFortran
	// FormatBash is a shell script with (exported) variables
	FormatBash
	// FormatJSON is a JSON object
	FormatJSON
	// FormatYAML is a YAML mapping
	FormatYAML
	// FormatTOML is a TOML document
	FormatTOML
)

var formats = []Format{
	FormatDIP,
	FormatC,
	FormatCPP,
	FormatRust,
	FormatFortran,
	FormatBash,
	FormatJSON,
	FormatYAML,
	FormatTOML,
}

// Formats returns every supported format
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// FormatNames returns the names of every supported format
func FormatNames() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return names
}

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatDIP:
		return "dip"
	case FormatC:
		return "c"
	case FormatCPP:
		return "cpp"
	case FormatRust:
		return "rust"
	case FormatFortran:
		return "fortran"
	case FormatBash:
		return "bash"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// Extension returns the file extension, including the dot, used for the format
func (f Format) Extension() string {
	switch f {
	case FormatDIP:
		return ".dip"
	case FormatC:
		return ".h"
	case FormatCPP:
		return ".hpp"
	case FormatRust:
		return ".rs"
	case FormatFortran:
		return ".f90"
	case FormatBash:
		return ".sh"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatTOML:
		return ".toml"
	default:
		return ""
	}
}

// ParseFormat parses a format name. Common aliases such as "c++", "rs" or
// "yml" are accepted.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dip":
		return FormatDIP, nil
	case "c":
		return FormatC, nil
	case "cpp", "c++", "cxx":
		return FormatCPP, nil
	case "rust", "rs":
		return FormatRust, nil
	case "fortran", "f90":
		return FormatFortran, nil
	case "bash", "sh":
		return FormatBash, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("unknown export format: %q", name)
}
