package export

import (
	"fmt"
	"strings"

	"github.com/wesleywu/simconfig/internal/params"
)

// Defaults for Options
const (
	DefaultGuard  = "CONFIG_H"
	DefaultModule = "ConfigurationModule"
)

// newline joins rendered lines. Rendered text never ends with a newline.
const newline = "\n"

// Options controls how parameters are rendered
type Options struct {
	// Rename turns parameter names into upper-case identifiers, replacing
	// the name separator with an underscore. Ignored by the DIP, JSON, YAML
	// and TOML formats.
	Rename bool
	// Guard is the include guard of C and C++ headers
	Guard string
	// Module is the Fortran module name
	Module string
	// Units wraps values of parameters with a unit into a value/unit pair
	// in the JSON, YAML and TOML formats
	Units bool
	// BashExport prefixes shell variables with "export"
	BashExport bool
	// JSONIndent is the JSON indentation width; zero renders a single line
	JSONIndent int
	// Define names parameters written as preprocessor macros in C and C++ headers
	Define []string
	// Const names parameters declared const instead of constexpr in C++ headers
	Const []string
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		Rename:     true,
		Guard:      DefaultGuard,
		Module:     DefaultModule,
		Units:      true,
		BashExport: true,
		JSONIndent: 2,
	}
}

type renderFunc func(ps []params.Parameter, opts Options) (string, error)

var renderers = map[Format]renderFunc{
	FormatDIP:     renderDIP,
	FormatC:       renderC,
	FormatCPP:     renderCPP,
	FormatRust:    renderRust,
	FormatFortran: renderFortran,
	FormatBash:    renderBash,
	FormatJSON:    renderJSON,
	FormatYAML:    renderYAML,
	FormatTOML:    renderTOML,
}

// Render renders every parameter of table in the given format
func Render(table *params.Table, f Format, opts Options) (string, error) {
	render, ok := renderers[f]
	if !ok {
		return "", fmt.Errorf("unknown export format: %d", int(f))
	}
	if opts.Guard == "" {
		opts.Guard = DefaultGuard
	}
	if opts.Module == "" {
		opts.Module = DefaultModule
	}
	return render(table.Parameters(), opts)
}

// identifier returns the name used for a parameter in generated code
func identifier(name string, opts Options) string {
	if !opts.Rename {
		return name
	}
	return strings.ToUpper(strings.ReplaceAll(name, params.Separator, "_"))
}

var cQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// quoteC quotes s as a C, C++ or Rust string literal
func quoteC(s string) string {
	return `"` + cQuoter.Replace(s) + `"`
}

// quoteFortran quotes s as a Fortran character literal
func quoteFortran(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var shellQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// quoteShell quotes s as a double-quoted shell word
func quoteShell(s string) string {
	return `"` + shellQuoter.Replace(s) + `"`
}
