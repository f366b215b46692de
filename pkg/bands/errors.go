package bands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ConfigIssue represents a single problem found in a band, group, subreport or report declaration
type ConfigIssue struct {
	Field   string
	Message string
}

// ConfigurationError is returned when a declaration is malformed: unknown
// fields, invalid values or inconsistent geometry. It is a construction-time
// failure and is never recovered internally.
type ConfigurationError struct {
	Component string
	Issues    []ConfigIssue
}

func (e *ConfigurationError) Error() string {
	prefix := "configuration error"
	if e.Component != "" {
		prefix = fmt.Sprintf("configuration error in %s", e.Component)
	}

	if len(e.Issues) == 0 {
		return prefix
	}

	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s - %s", prefix, e.Issues[0].Field, e.Issues[0].Message)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%s: %d issues:", prefix, len(e.Issues)))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// Add records an issue
func (e *ConfigurationError) Add(field, format string, args ...interface{}) {
	e.Issues = append(e.Issues, ConfigIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns e when at least one issue was recorded, nil otherwise
func (e *ConfigurationError) Err() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// NewConfigurationError creates a configuration error with a single issue
func NewConfigurationError(component, field, message string) error {
	return &ConfigurationError{
		Component: component,
		Issues:    []ConfigIssue{{Field: field, Message: message}},
	}
}

// EvaluationError represents a failure to derive a record collection from a
// parent record, or to read a field from a record.
type EvaluationError struct {
	Expression string
	Cause      error
}

func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation error for expression '%s': %v", e.Expression, e.Cause)
	}
	return fmt.Sprintf("evaluation error for expression '%s'", e.Expression)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// NewEvaluationError creates a new evaluation error
func NewEvaluationError(expression string, cause error) error {
	return &EvaluationError{
		Expression: expression,
		Cause:      cause,
	}
}

// FieldError represents a missing or unreadable field on a record
type FieldError struct {
	Path   string
	Record string
	Cause  error
}

func (e *FieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("field '%s' on %s: %v", e.Path, e.Record, e.Cause)
	}
	return fmt.Sprintf("field '%s' not found on %s", e.Path, e.Record)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

// GenerationError wraps a failure reported by an external generator
type GenerationError struct {
	Generator string
	Cause     error
}

func (e *GenerationError) Error() string {
	if e.Generator != "" {
		return fmt.Sprintf("generation error in %s: %v", e.Generator, e.Cause)
	}
	return fmt.Sprintf("generation error: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// MultiError gathers the failures of a batch, such as several definition
// files checked in one run
type MultiError struct {
	errors []error
}

// NewMultiError returns an empty MultiError
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add records err; nil is skipped
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len is the number of recorded failures
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns nil when nothing failed, the single failure when there is one,
// and m otherwise
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}

	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// ContextError names the operation that failed and the inputs it was working on
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
	sort.Strings(contextParts)

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps err with an operation name and key/value inputs. nil stays nil.
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

// IsConfigurationError checks if an error is, or wraps, a configuration error
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsEvaluationError checks if an error is, or wraps, an evaluation error
func IsEvaluationError(err error) bool {
	var target *EvaluationError
	return errors.As(err, &target)
}

// IsFieldError checks if an error is, or wraps, a field error
func IsFieldError(err error) bool {
	var target *FieldError
	return errors.As(err, &target)
}

// IsGenerationError checks if an error is, or wraps, a generation error
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}
