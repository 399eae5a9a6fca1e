package params

import (
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		keyword  string
		expected Type
	}{
		{"str", String},
		{"bool", Bool},
		{"int", Type{Kind: KindInt, Precision: 32}},
		{"int8", Type{Kind: KindInt, Precision: 8}},
		{"int64", Type{Kind: KindInt, Precision: 64}},
		{"uint", Type{Kind: KindInt, Precision: 32, Unsigned: true}},
		{"uint64", Type{Kind: KindInt, Precision: 64, Unsigned: true}},
		{"float", Type{Kind: KindFloat, Precision: 64}},
		{"float32", Type{Kind: KindFloat, Precision: 32}},
		{"float128", Type{Kind: KindFloat, Precision: 128}},
		{" Float80 ", Type{Kind: KindFloat, Precision: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := ParseType(tt.keyword)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestParseTypeInvalid(t *testing.T) {
	for _, keyword := range []string{"", "char", "int12", "integer", "float16", "uintx"} {
		t.Run(keyword, func(t *testing.T) {
			_, err := ParseType(keyword)
			if !errors.Is(err, ErrInvalidType) {
				t.Errorf("Expected ErrInvalidType for %q, got %v", keyword, err)
			}
		})
	}
}

func TestTypeKeywordRoundTrip(t *testing.T) {
	for _, keyword := range []string{"str", "bool", "int", "int16", "uint", "uint8", "uint64", "float", "float32", "float128"} {
		typ, err := ParseType(keyword)
		if err != nil {
			t.Fatalf("ParseType(%q) failed: %v", keyword, err)
		}
		if typ.Keyword() != keyword {
			t.Errorf("Expected keyword %q, got %q", keyword, typ.Keyword())
		}
	}
}

func TestTypeValidate(t *testing.T) {
	tests := []struct {
		name        string
		typ         Type
		expectError bool
	}{
		{"string", String, false},
		{"unsigned string", Type{Kind: KindString, Unsigned: true}, true},
		{"int32", Int, false},
		{"int24", Type{Kind: KindInt, Precision: 24}, true},
		{"unsigned float", Type{Kind: KindFloat, Precision: 64, Unsigned: true}, true},
		{"float96", FloatType(96), false},
		{"unknown kind", Type{Kind: Kind(42)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Validate()
			if (err != nil) != tt.expectError {
				t.Errorf("Expected error: %v, got: %v", tt.expectError, err)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindString, "string"},
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{Kind(9), "unknown"},
	}

	for _, tt := range tests {
		if tt.kind.String() != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, tt.kind.String())
		}
	}
}
