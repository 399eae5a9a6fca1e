package export

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wesleywu/simconfig/internal/params"
)

// cType returns the C/C++ type of a parameter, without qualifiers
func cType(f Format, p params.Parameter) (string, error) {
	t := p.Type
	switch t.Kind {
	case params.KindString:
		return "char*", nil
	case params.KindBool:
		return "bool", nil
	case params.KindInt:
		if t.Unsigned {
			switch t.Precision {
			case 8:
				return "unsigned char", nil
			case 16:
				return "unsigned short int", nil
			case 32:
				return "unsigned int", nil
			case 64:
				return "unsigned long long int", nil
			}
		} else {
			switch t.Precision {
			case 8:
				return "signed char", nil
			case 16:
				return "short int", nil
			case 32:
				return "int", nil
			case 64:
				return "long long int", nil
			}
		}
	case params.KindFloat:
		switch t.Precision {
		case 32:
			return "float", nil
		case 64:
			return "double", nil
		case 80, 96, 128:
			return "long double", nil
		}
	}
	return "", unsupported(f, p.Name, fmt.Sprintf("no %s type for %s", f, t))
}

// cValue returns the C/C++/Rust literal of a parameter value
func cValue(p params.Parameter) string {
	switch v := p.Value.(type) {
	case string:
		return quoteC(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return params.FormatValue(p)
}

// cDefine renders a parameter as a macro. Booleans become 1 or 0.
func cDefine(p params.Parameter, opts Options) string {
	value := cValue(p)
	if b, ok := p.Value.(bool); ok {
		value = "0"
		if b {
			value = "1"
		}
	}
	return fmt.Sprintf("#define %s %s", identifier(p.Name, opts), value)
}

// cDecl renders a parameter as a qualified declaration. Strings in constant
// expressions point to const char.
func cDecl(f Format, p params.Parameter, opts Options, qualifier string) (string, error) {
	ctype, err := cType(f, p)
	if err != nil {
		return "", err
	}
	if p.Type.Kind == params.KindString && qualifier == "constexpr" {
		ctype = "const " + ctype
	}
	return fmt.Sprintf("%s %s %s = %s;", qualifier, ctype, identifier(p.Name, opts), cValue(p)), nil
}

func renderHeader(f Format, ps []params.Parameter, opts Options, qualifier string) (string, error) {
	var includeBool bool
	body := make([]string, 0, len(ps))
	for _, p := range ps {
		if contains(opts.Define, p.Name) {
			body = append(body, cDefine(p, opts))
			continue
		}

		q := qualifier
		if f == FormatCPP && contains(opts.Const, p.Name) {
			q = "const"
		}
		decl, err := cDecl(f, p, opts, q)
		if err != nil {
			return "", err
		}
		if f == FormatC && p.Type.Kind == params.KindBool {
			includeBool = true
		}
		body = append(body, decl)
	}

	lines := []string{
		"#ifndef " + opts.Guard,
		"#define " + opts.Guard,
		"",
	}
	if includeBool {
		lines = append(lines, "#include <stdbool.h>", "")
	}
	lines = append(lines, body...)
	lines = append(lines, "", fmt.Sprintf("#endif /* %s */", opts.Guard))
	return joinLines(lines), nil
}

// renderC renders a C header of const declarations
func renderC(ps []params.Parameter, opts Options) (string, error) {
	return renderHeader(FormatC, ps, opts, "const")
}

// renderCPP renders a C++ header of constexpr declarations
func renderCPP(ps []params.Parameter, opts Options) (string, error) {
	return renderHeader(FormatCPP, ps, opts, "constexpr")
}

func rustType(p params.Parameter) (string, error) {
	t := p.Type
	switch t.Kind {
	case params.KindString:
		return "&str", nil
	case params.KindBool:
		return "bool", nil
	case params.KindInt:
		prefix := "i"
		if t.Unsigned {
			prefix = "u"
		}
		return fmt.Sprintf("%s%d", prefix, t.Precision), nil
	case params.KindFloat:
		switch t.Precision {
		case 32, 64, 128:
			return fmt.Sprintf("f%d", t.Precision), nil
		}
	}
	return "", unsupported(FormatRust, p.Name, fmt.Sprintf("no rust type for %s", t))
}

// renderRust renders Rust pub const items
func renderRust(ps []params.Parameter, opts Options) (string, error) {
	lines := make([]string, 0, len(ps))
	for _, p := range ps {
		rtype, err := rustType(p)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("pub const %s: %s = %s;", identifier(p.Name, opts), rtype, cValue(p)))
	}
	return joinLines(lines), nil
}

var fortranIntKinds = map[int]string{
	8:  "integer(kind=1)",
	16: "integer(kind=2)",
	32: "integer",
	64: "integer(kind=8)",
}

var fortranRealKinds = map[int]string{
	32:  "real",
	64:  "real(kind=8)",
	80:  "real(kind=10)",
	128: "real(kind=16)",
}

// fortranDecl returns the Fortran type and literal of a parameter
func fortranDecl(p params.Parameter) (string, string, error) {
	t := p.Type
	switch t.Kind {
	case params.KindString:
		value := quoteFortran(p.Value.(string))
		return fmt.Sprintf("character(len=%d)", utf8.RuneCountInString(value)), value, nil
	case params.KindBool:
		if p.Value.(bool) {
			return "logical", ".true.", nil
		}
		return "logical", ".false.", nil
	case params.KindInt:
		kind, ok := fortranIntKinds[t.Precision]
		if !ok {
			break
		}
		// Fortran has no unsigned integers, the value must fit the signed kind
		if v, isUnsigned := p.Value.(uint64); isUnsigned {
			limit := uint64(math.MaxInt64)
			if t.Precision < 64 {
				limit = uint64(1)<<(t.Precision-1) - 1
			}
			if v > limit {
				return "", "", invalidValue(FormatFortran, p.Name,
					fmt.Sprintf("%d does not fit %s", v, kind))
			}
		}
		return kind, params.FormatValue(p), nil
	case params.KindFloat:
		kind, ok := fortranRealKinds[t.Precision]
		if !ok {
			break
		}
		return kind, params.FormatValue(p), nil
	}
	return "", "", unsupported(FormatFortran, p.Name, fmt.Sprintf("no fortran type for %s", t))
}

// renderFortran renders a Fortran module of parameters
func renderFortran(ps []params.Parameter, opts Options) (string, error) {
	lines := []string{
		"module " + opts.Module,
		"  implicit none",
		"",
	}

	for _, p := range ps {
		ftype, value, err := fortranDecl(p)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("  %s, parameter :: %s = %s;", ftype, identifier(p.Name, opts), value))
	}

	lines = append(lines, "", "end module "+opts.Module)
	return joinLines(lines), nil
}
