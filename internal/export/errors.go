package export

import (
	"errors"
	"fmt"
)

// ExportError represents an error that occurred while rendering or writing an export
type ExportError struct {
	ErrorType ErrorType
	Format    Format
	Parameter string // The parameter that caused the error, if any
	Path      string // The output file, if any
	Cause     error  // Underlying error
}

// ErrorType represents the category of export error
type ErrorType int

// Export error type constants
const (
	// ErrUnsupportedType indicates a parameter type the format cannot express
	ErrUnsupportedType ErrorType = iota
	// ErrInvalidValue indicates a value the format cannot represent
	ErrInvalidValue
	// ErrWrite indicates a failure writing the output file
	ErrWrite
	// ErrLock indicates the output directory lock could not be taken
	ErrLock
	// ErrCanceled indicates the export was canceled before it ran
	ErrCanceled
)

// String returns a string representation of the export error type
func (e ErrorType) String() string {
	switch e {
	case ErrUnsupportedType:
		return "UnsupportedType"
	case ErrInvalidValue:
		return "InvalidValue"
	case ErrWrite:
		return "Write"
	case ErrLock:
		return "Lock"
	case ErrCanceled:
		return "Canceled"
	default:
		return "UnknownError"
	}
}

// Error implements the error interface for ExportError
func (ee *ExportError) Error() string {
	target := ee.Parameter
	if ee.Path != "" {
		target = ee.Path
	}
	if target == "" {
		return fmt.Sprintf("%s export failed [%s]: %v", ee.Format, ee.ErrorType, ee.Cause)
	}
	return fmt.Sprintf("%s export failed [%s] for %s: %v", ee.Format, ee.ErrorType, target, ee.Cause)
}

// Unwrap returns the underlying error
func (ee *ExportError) Unwrap() error {
	return ee.Cause
}

// IsRetryable returns true if the error condition might be temporary
func (ee *ExportError) IsRetryable() bool {
	return ee.ErrorType == ErrLock || ee.ErrorType == ErrWrite
}

func unsupported(f Format, name string, cause string) error {
	return &ExportError{
		ErrorType: ErrUnsupportedType,
		Format:    f,
		Parameter: name,
		Cause:     errors.New(cause),
	}
}

func invalidValue(f Format, name string, cause string) error {
	return &ExportError{
		ErrorType: ErrInvalidValue,
		Format:    f,
		Parameter: name,
		Cause:     errors.New(cause),
	}
}
