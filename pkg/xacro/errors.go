// Package xacro provides custom error types for better error handling and reporting.
package xacro

import (
	"fmt"
	"strings"
)

// ParseError represents a malformed input document: XML that does not
// parse, or a root element that is not <robot>.
type ParseError struct {
	Message  string
	Token    string
	Position int
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse error at offset %d near '%s': %s", e.Position, e.Token, e.Message)
	}
	if e.Position > 0 {
		return fmt.Sprintf("parse error at offset %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new parse error with position information.
func NewParseError(message, token string, position int) error {
	return &ParseError{
		Message:  message,
		Token:    token,
		Position: position,
	}
}

// DocumentError represents a failure during a document operation, usually
// reading or writing a file. Path identifies the offending file.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ExpansionError represents a failure during macro expansion. MacroChain
// records the invocation path from the outermost macro inward, which is
// what identifies the cycle when the expansion depth limit is hit.
type ExpansionError struct {
	Message    string
	MacroChain []string
}

func (e *ExpansionError) Error() string {
	if len(e.MacroChain) > 0 {
		return fmt.Sprintf("expansion error: %s (macro chain: %s)", e.Message, strings.Join(e.MacroChain, " -> "))
	}
	return fmt.Sprintf("expansion error: %s", e.Message)
}

// NewExpansionError creates a new expansion error.
func NewExpansionError(message string, macroChain []string) error {
	return &ExpansionError{
		Message:    message,
		MacroChain: macroChain,
	}
}

// ContextError adds context to an existing error.
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context.
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsParseError checks if an error is a parse error.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// IsDocumentError checks if an error is a document error.
func IsDocumentError(err error) bool {
	_, ok := err.(*DocumentError)
	return ok
}

// IsExpansionError checks if an error is an expansion error.
func IsExpansionError(err error) bool {
	_, ok := err.(*ExpansionError)
	return ok
}
