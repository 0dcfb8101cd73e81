package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies pipeline failures.
type ErrorCode string

const (
	// ErrCodeParse indicates a malformed input row. Parse failures abort the
	// run; rows are never silently coerced or skipped.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeMissingResource indicates an absent input file or an unreachable
	// relational source.
	ErrCodeMissingResource ErrorCode = "MISSING_RESOURCE"
	// ErrCodeInvalidConfig indicates invalid run configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// PipelineError is a structured error for pipeline operations.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	msg := e.Message
	if src, ok := e.Context["source"]; ok {
		if line, ok := e.Context["line"]; ok {
			msg = fmt.Sprintf("%s (%v:%v)", msg, src, line)
		} else {
			msg = fmt.Sprintf("%s (%v)", msg, src)
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a PipelineError with the given code.
func New(code ErrorCode, format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a PipelineError wrapping a cause.
func Wrap(cause error, code ErrorCode, format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Parse creates a PARSE_ERROR pinned to a source and 1-based line number.
func Parse(source string, line int, format string, args ...interface{}) *PipelineError {
	return New(ErrCodeParse, format, args...).
		WithContext("source", source).
		WithContext("line", line)
}

// MissingResource creates a MISSING_RESOURCE error for a path.
func MissingResource(cause error, path string) *PipelineError {
	return Wrap(cause, ErrCodeMissingResource, "missing resource").WithContext("source", path)
}

// CodeOf returns the error code of err if it is a PipelineError, or "".
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
