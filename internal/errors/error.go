package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryBuild    Category = "build"
	CategoryRuntime  Category = "runtime"
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"
	CategoryCLI      Category = "cli"
)

// RouteError is a structured error with a code, explanation and fix suggestion.
type RouteError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (build, runtime, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Route is the route spec or full route name involved, if any.
	Route string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	msg := e.Message
	if e.Route != "" {
		msg += fmt.Sprintf(" (%s)", e.Route)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RouteError with the same code.
func (e *RouteError) Is(target error) bool {
	t, ok := target.(*RouteError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithRoute records the route spec or name the error is about.
func (e *RouteError) WithRoute(route string) *RouteError {
	e.Route = route
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// New creates a RouteError from a registered error code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new RouteError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RouteError {
	return &RouteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RouteError.
// A RouteError is returned unchanged.
func FromError(err error, code string) *RouteError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RouteError); ok {
		return re
	}
	return New(code).Wrap(err)
}

// Code returns the code of err if it is (or wraps) a RouteError.
func Code(err error) string {
	for err != nil {
		if re, ok := err.(*RouteError); ok {
			return re.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
