package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the value category of a parameter
type Kind int

// Kind constants
const (
	// KindString is a text value
	KindString Kind = iota
	// KindBool is a boolean flag
	KindBool
	// KindInt is a signed or unsigned integer
	KindInt
	// KindFloat is a floating-point number
	KindFloat
)

// Default precisions, in bits, used when a type keyword does not carry one
const (
	DefaultIntPrecision   = 32
	DefaultFloatPrecision = 64
)

var (
	// ErrInvalidType is returned for unknown type keywords and unsupported precisions
	ErrInvalidType = errors.New("invalid parameter type")
	// ErrInvalidValue is returned when a value does not fit its declared type
	ErrInvalidValue = errors.New("invalid parameter value")
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Type describes how a parameter value is stored and exported
type Type struct {
	Kind      Kind
	Precision int  // bits, only for KindInt and KindFloat
	Unsigned  bool // only for KindInt
}

// Convenience constructors for the common types
var (
	String  = Type{Kind: KindString}
	Bool    = Type{Kind: KindBool}
	Int     = Type{Kind: KindInt, Precision: DefaultIntPrecision}
	Float   = Type{Kind: KindFloat, Precision: DefaultFloatPrecision}
	Float32 = Type{Kind: KindFloat, Precision: 32}
)

// IntType returns an integer type of the given precision
func IntType(precision int, unsigned bool) Type {
	return Type{Kind: KindInt, Precision: precision, Unsigned: unsigned}
}

// FloatType returns a float type of the given precision
func FloatType(precision int) Type {
	return Type{Kind: KindFloat, Precision: precision}
}

// ParseType parses a type keyword such as "str", "int", "uint64" or "float128"
func ParseType(keyword string) (Type, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	var t Type
	var rest string

	switch {
	case keyword == "str" || keyword == "string":
		return String, nil
	case keyword == "bool":
		return Bool, nil
	case strings.HasPrefix(keyword, "uint"):
		t = Type{Kind: KindInt, Precision: DefaultIntPrecision, Unsigned: true}
		rest = keyword[len("uint"):]
	case strings.HasPrefix(keyword, "int"):
		t = Type{Kind: KindInt, Precision: DefaultIntPrecision}
		rest = keyword[len("int"):]
	case strings.HasPrefix(keyword, "float"):
		t = Type{Kind: KindFloat, Precision: DefaultFloatPrecision}
		rest = keyword[len("float"):]
	default:
		return Type{}, fmt.Errorf("%w: unknown keyword %q", ErrInvalidType, keyword)
	}

	if rest != "" {
		precision, err := strconv.Atoi(rest)
		if err != nil {
			return Type{}, fmt.Errorf("%w: bad precision in %q", ErrInvalidType, keyword)
		}
		t.Precision = precision
	}

	if err := t.Validate(); err != nil {
		return Type{}, err
	}

	return t, nil
}

// Validate checks that the precision and signedness are supported for the kind
func (t Type) Validate() error {
	switch t.Kind {
	case KindString, KindBool:
		if t.Precision != 0 || t.Unsigned {
			return fmt.Errorf("%w: %s takes no precision or sign", ErrInvalidType, t.Kind)
		}
	case KindInt:
		switch t.Precision {
		case 8, 16, 32, 64:
		default:
			return fmt.Errorf("%w: integer precision %d", ErrInvalidType, t.Precision)
		}
	case KindFloat:
		if t.Unsigned {
			return fmt.Errorf("%w: floats cannot be unsigned", ErrInvalidType)
		}
		switch t.Precision {
		case 32, 64, 80, 96, 128:
		default:
			return fmt.Errorf("%w: float precision %d", ErrInvalidType, t.Precision)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidType, int(t.Kind))
	}
	return nil
}

// Keyword returns the type keyword used in definition files, the inverse of ParseType
func (t Type) Keyword() string {
	switch t.Kind {
	case KindString:
		return "str"
	case KindBool:
		return "bool"
	case KindInt:
		keyword := "int"
		if t.Unsigned {
			keyword = "uint"
		}
		if t.Precision != DefaultIntPrecision {
			keyword += strconv.Itoa(t.Precision)
		}
		return keyword
	case KindFloat:
		if t.Precision != DefaultFloatPrecision {
			return "float" + strconv.Itoa(t.Precision)
		}
		return "float"
	default:
		return "unknown"
	}
}

// String implements fmt.Stringer
func (t Type) String() string {
	return t.Keyword()
}
