package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryBinding   Category = "binding"
	CategoryComponent Category = "component"
	CategoryLoader    Category = "loader"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// ComposeError is a structured error with a code, an explanation and a fix
// suggestion.
type ComposeError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the component or
	// expression involved.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying cause, if any.
	Wrapped error

	// kind is a package-level sentinel matched by errors.Is.
	kind error
}

// Error implements the error interface.
func (e *ComposeError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped cause for errors.Is/As support.
func (e *ComposeError) Unwrap() error {
	return e.Wrapped
}

// Is matches the sentinel attached with Kind.
func (e *ComposeError) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// Kind attaches a sentinel so callers can test with errors.Is without
// depending on codes.
func (e *ComposeError) Kind(sentinel error) *ComposeError {
	e.kind = sentinel
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ComposeError) WithDetail(d string) *ComposeError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *ComposeError) WithDetailf(format string, args ...any) *ComposeError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ComposeError) WithSuggestion(s string) *ComposeError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *ComposeError) Wrap(err error) *ComposeError {
	e.Wrapped = err
	return e
}

// New creates a ComposeError from a registered error code.
func New(code string) *ComposeError {
	template, ok := registry[code]
	if !ok {
		return &ComposeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ComposeError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a ComposeError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *ComposeError {
	return &ComposeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ComposeError. A ComposeError is
// returned unchanged.
func FromError(err error, code string) *ComposeError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*ComposeError); ok {
		return ce
	}
	return New(code).Wrap(err)
}
