package search

import "fmt"

// GlobError reports a malformed include/exclude pattern. It is returned at
// query-compile time; a PathMatcher is never built from a bad pattern.
type GlobError struct {
	Pattern    string
	Underlying error
}

// Error implements the error interface
func (e *GlobError) Error() string {
	return fmt.Sprintf("invalid path pattern %q: %v", e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *GlobError) Unwrap() error {
	return e.Underlying
}

// PatternError reports a regular expression that failed to compile. The
// underlying error carries the engine's syntax diagnostic.
type PatternError struct {
	Pattern    string
	Underlying error
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *PatternError) Unwrap() error {
	return e.Underlying
}
