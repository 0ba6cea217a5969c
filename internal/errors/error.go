package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime    Category = "runtime"
	CategoryRender     Category = "render"
	CategoryProtocol   Category = "protocol"
	CategoryValidation Category = "validation"
	CategoryStorage    Category = "storage"
	CategoryConfig     Category = "config"
)

// MyUIError is a structured error with a code, category and detail.
type MyUIError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, render, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *MyUIError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *MyUIError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *MyUIError) WithSuggestion(s string) *MyUIError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *MyUIError) WithDetail(d string) *MyUIError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *MyUIError) WithDetailf(format string, args ...any) *MyUIError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *MyUIError) Wrap(err error) *MyUIError {
	e.Wrapped = err
	return e
}

// New creates a MyUIError from a registered error code.
// The registered detail is not copied; use WithDetail for call-site context.
func New(code string) *MyUIError {
	template, ok := registry[code]
	if !ok {
		return &MyUIError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &MyUIError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// FromError wraps a standard error in a MyUIError.
func FromError(err error, code string) *MyUIError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MyUIError); ok {
		return me
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first MyUIError in err's chain, or "".
func Code(err error) string {
	for err != nil {
		if me, ok := err.(*MyUIError); ok && me.Code != "" {
			return me.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
