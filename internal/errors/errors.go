package errors

import "fmt"

// ErrorCode represents a shellsmith error code.
type ErrorCode string

const (
	ErrConfiguration  ErrorCode = "CONFIGURATION"   // invalid or inconsistent parameter set
	ErrGeometry       ErrorCode = "GEOMETRY"        // profile or extrusion cannot be formed
	ErrFillet         ErrorCode = "FILLET"          // fillet radius too large for the local feature
	ErrSplitIntegrity ErrorCode = "SPLIT_INTEGRITY" // rejoined halves fail the volume tolerance
	ErrExport         ErrorCode = "EXPORT"          // export path or serialization failure
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // malformed CLI/MCP request
	ErrNotFound       ErrorCode = "NOT_FOUND"       // journal run not found
	ErrCancelled      ErrorCode = "CANCELLED"       // context cancelled mid-operation
	ErrInternal       ErrorCode = "INTERNAL"        // unexpected internal error
)

// WarnCutoutMissed is the code carried by non-fatal cutout warnings.
// Warnings never abort a run; a missing vent hole does not compromise fit.
const WarnCutoutMissed = "CUTOUT_MISSED"

// ShellError represents a structured error with code and details.
type ShellError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ShellError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Warning is a non-fatal condition reported alongside a successful run.
type Warning struct {
	Code    string `json:"code"`
	Cutout  string `json:"cutout,omitempty"`
	Message string `json:"message"`
}

// NewCutoutMissed creates a warning for a cutout that removed no material.
func NewCutoutMissed(cutout, reason string) Warning {
	return Warning{
		Code:    WarnCutoutMissed,
		Cutout:  cutout,
		Message: fmt.Sprintf("cutout %q had no geometric effect: %s", cutout, reason),
	}
}

// NewConfiguration creates an error for an invalid parameter set.
func NewConfiguration(msg string) *ShellError {
	return &ShellError{
		Code:    ErrConfiguration,
		Message: msg,
	}
}

// NewConfigurationf creates a formatted configuration error.
func NewConfigurationf(format string, args ...any) *ShellError {
	return NewConfiguration(fmt.Sprintf(format, args...))
}

// NewGeometry creates an error for a profile or solid that cannot be formed.
func NewGeometry(msg string) *ShellError {
	return &ShellError{
		Code:    ErrGeometry,
		Message: msg,
	}
}

// NewGeometryf creates a formatted geometry error.
func NewGeometryf(format string, args ...any) *ShellError {
	return NewGeometry(fmt.Sprintf(format, args...))
}

// NewFillet creates an error for a fillet pass that cannot find a valid
// offset surface. The radius is never reduced automatically; the parameter
// must be corrected and the run repeated.
func NewFillet(pass string, radius float64, reason string) *ShellError {
	return &ShellError{
		Code:    ErrFillet,
		Message: fmt.Sprintf("%s fillet with radius %.2fmm failed: %s", pass, radius, reason),
		Details: map[string]any{"pass": pass, "radius_mm": radius},
	}
}

// NewSplitIntegrity creates an error for a post-split reunion check failure.
func NewSplitIntegrity(deviation, tolerance float64) *ShellError {
	return &ShellError{
		Code:    ErrSplitIntegrity,
		Message: fmt.Sprintf("rejoined halves deviate from shell volume by %.4fmm³ (tolerance %.4fmm³)", deviation, tolerance),
		Details: map[string]any{"deviation_mm3": deviation, "tolerance_mm3": tolerance},
	}
}

// NewExport creates an error for a failed export.
func NewExport(msg string) *ShellError {
	return &ShellError{
		Code:    ErrExport,
		Message: msg,
	}
}

// NewInvalidRequest creates an error for invalid request parameters.
func NewInvalidRequest(msg string) *ShellError {
	return &ShellError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewNotFound creates an error for a journal run that cannot be found.
func NewNotFound(id string) *ShellError {
	return &ShellError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("run not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewCancelled creates an error for an operation cancelled via context.
func NewCancelled(operation string) *ShellError {
	return &ShellError{
		Code:    ErrCancelled,
		Message: fmt.Sprintf("operation cancelled: %s", operation),
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *ShellError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ShellError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if an error is a ShellError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*ShellError); ok {
		return sErr.Code == code
	}
	return false
}
