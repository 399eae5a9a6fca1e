package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parameter is a single typed, named configuration value.
//
// Value always holds the canonical Go representation of the type:
// string, bool, int64 (signed integers), uint64 (unsigned integers) or
// float64 (floats of every precision).
type Parameter struct {
	Name  string
	Type  Type
	Value any
	Unit  string
	Tags  []string
}

// New creates a parameter, converting value to the canonical representation
// of t and checking that it fits the declared precision
func New(name string, t Type, value any, unit string, tags ...string) (Parameter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Parameter{}, fmt.Errorf("%w: empty parameter name", ErrInvalidValue)
	}

	if err := t.Validate(); err != nil {
		return Parameter{}, fmt.Errorf("parameter %s: %w", name, err)
	}

	v, err := coerce(t, value)
	if err != nil {
		return Parameter{}, fmt.Errorf("parameter %s: %w", name, err)
	}

	if unit != "" && (t.Kind == KindString || t.Kind == KindBool) {
		return Parameter{}, fmt.Errorf("parameter %s: %w: unit on %s value", name, ErrInvalidValue, t.Kind)
	}

	p := Parameter{
		Name:  name,
		Type:  t,
		Value: v,
		Unit:  strings.TrimSpace(unit),
	}
	if len(tags) > 0 {
		p.Tags = append([]string(nil), tags...)
	}

	return p, nil
}

// HasTag reports whether the parameter carries any of the given tags
func (p Parameter) HasTag(tags ...string) bool {
	for _, want := range tags {
		for _, tag := range p.Tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// clone returns a copy that shares no slices with p
func (p Parameter) clone() Parameter {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}

func coerce(t Type, value any) (any, error) {
	switch t.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected text, got %T", ErrInvalidValue, value)
		}
		return s, nil

	case KindBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("%w: expected boolean, got %T", ErrInvalidValue, value)

	case KindInt:
		if t.Unsigned {
			return coerceUnsigned(t.Precision, value)
		}
		return coerceSigned(t.Precision, value)

	case KindFloat:
		return coerceFloat(t.Precision, value)
	}

	return nil, fmt.Errorf("%w: kind %s", ErrInvalidType, t.Kind)
}

func coerceSigned(precision int, value any) (int64, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int%d", ErrInvalidValue, v, precision)
		}
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int%d", ErrInvalidValue, v, precision)
		}
		n = int64(v)
	case float32, float64:
		f := toFloat(v)
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, f)
		}
		n = int64(f)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, value)
	}

	if precision < 64 {
		limit := int64(1) << (precision - 1)
		if n < -limit || n >= limit {
			return 0, fmt.Errorf("%w: %d overflows int%d", ErrInvalidValue, n, precision)
		}
	}

	return n, nil
}

func coerceUnsigned(precision int, value any) (uint64, error) {
	var n uint64
	switch v := value.(type) {
	case uint:
		n = uint64(v)
	case uint8:
		n = uint64(v)
	case uint16:
		n = uint64(v)
	case uint32:
		n = uint64(v)
	case uint64:
		n = v
	case int, int8, int16, int32, int64:
		s, _ := coerceSigned(64, v)
		if s < 0 {
			return 0, fmt.Errorf("%w: %d is negative for uint%d", ErrInvalidValue, s, precision)
		}
		n = uint64(s)
	case float32, float64:
		f := toFloat(v)
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrInvalidValue, f)
		}
		n = uint64(f)
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidValue, v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: expected unsigned integer, got %T", ErrInvalidValue, value)
	}

	if precision < 64 && n >= uint64(1)<<precision {
		return 0, fmt.Errorf("%w: %d overflows uint%d", ErrInvalidValue, n, precision)
	}

	return n, nil
}

func coerceFloat(precision int, value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	case int:
		f = float64(v)
	case int8, int16, int32, int64:
		s, _ := coerceSigned(64, v)
		f = float64(s)
	case uint, uint8, uint16, uint32, uint64:
		u, _ := coerceUnsigned(64, v)
		f = float64(u)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, value)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrInvalidValue, f)
	}

	if precision == 32 {
		if math.Abs(f) > math.MaxFloat32 {
			return 0, fmt.Errorf("%w: %v overflows float32", ErrInvalidValue, f)
		}
		f = float64(float32(f))
	}

	return f, nil
}

func toFloat(v any) float64 {
	switch f := v.(type) {
	case float32:
		return float64(f)
	case float64:
		return f
	}
	return 0
}

// FormatValue returns the literal text of the parameter value: floats always
// carry a decimal point or an exponent, booleans are lower case and strings
// are returned unquoted
func FormatValue(p Parameter) string {
	switch v := p.Value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return FormatFloat(v, p.Type.Precision)
	}
	return fmt.Sprint(p.Value)
}

// FormatFloat formats f as the shortest text that reads back to the same
// value at the given precision. Values in [1e-4, 1e16) use positional
// notation with at least one fractional digit, others use an exponent.
func FormatFloat(f float64, precision int) string {
	bits := 64
	if precision == 32 {
		bits = 32
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}

	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
