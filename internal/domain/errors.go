// Package domain defines core types, interfaces, and errors for the semantic
// query compiler.
package domain

import "fmt"

// NotFoundError indicates a model, table, measure, or dimension was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// InvalidReferenceError indicates a relationship, measure, or dimension names
// a table that is absent from the model.
type InvalidReferenceError struct {
	Message string
}

func (e *InvalidReferenceError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UnreachableJoinError indicates required tables are not connected to the rest
// of the query by any relationship chain. Tables lists the unconnected names.
type UnreachableJoinError struct {
	Tables []string
}

func (e *UnreachableJoinError) Error() string {
	return fmt.Sprintf("no join path reaches tables %v", e.Tables)
}

// EmptyProjectionError indicates a logical query requested neither dimensions
// nor measures.
type EmptyProjectionError struct {
	Message string
}

func (e *EmptyProjectionError) Error() string { return e.Message }

// UnsupportedDialectError indicates an unknown SQL dialect was requested.
type UnsupportedDialectError struct {
	Dialect string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported SQL dialect %q", e.Dialect)
}

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidReference creates an InvalidReferenceError with a formatted message.
func ErrInvalidReference(format string, args ...interface{}) *InvalidReferenceError {
	return &InvalidReferenceError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrEmptyProjection creates an EmptyProjectionError with a formatted message.
func ErrEmptyProjection(format string, args ...interface{}) *EmptyProjectionError {
	return &EmptyProjectionError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
