package sqlforge

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for the error taxonomy of the compiler.
var (
	// ErrNotSupported is returned when a dialect is asked for an operation
	// it structurally cannot perform.
	ErrNotSupported = errors.New("sqlforge: operation not supported")

	// ErrInvalidArgument is returned when a table, sequence or primary key
	// required by an operation does not exist.
	ErrInvalidArgument = errors.New("sqlforge: invalid argument")

	// ErrColumnNotFound is returned when a column definition cannot be
	// located while reconstructing DDL.
	ErrColumnNotFound = errors.New("sqlforge: column not found")
)

// NotSupportedError reports an operation that a dialect cannot perform.
type NotSupportedError struct {
	Dialect string // Human readable dialect name, e.g. "MySQL/MariaDB"
	Op      string // Operation name, e.g. "insertWithReturningPks"
}

// Error returns the error string.
func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("sqlforge: %s is not supported by %s", e.Op, e.Dialect)
}

// Is reports whether the target error matches NotSupportedError.
// This allows errors.Is(err, ErrNotSupported) to return true.
func (e *NotSupportedError) Is(err error) bool {
	return err == ErrNotSupported
}

// NewNotSupportedError returns a new NotSupportedError.
func NewNotSupportedError(dialect, op string) *NotSupportedError {
	return &NotSupportedError{Dialect: dialect, Op: op}
}

// IsNotSupported returns true if the error is a NotSupportedError.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSupportedError
	return errors.As(err, &e) || errors.Is(err, ErrNotSupported)
}

// InvalidArgumentError reports a missing table, sequence or key.
type InvalidArgumentError struct {
	Table   string
	Message string
}

// Error returns the error string.
func (e *InvalidArgumentError) Error() string {
	if e.Table == "" {
		return "sqlforge: " + e.Message
	}
	return fmt.Sprintf("sqlforge: %s: %q", e.Message, e.Table)
}

// Is reports whether the target error matches InvalidArgumentError.
func (e *InvalidArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

// NewInvalidArgumentError returns a new InvalidArgumentError for the given table.
func NewInvalidArgumentError(table, msg string) *InvalidArgumentError {
	return &InvalidArgumentError{Table: table, Message: msg}
}

// IsInvalidArgument returns true if the error is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidArgument)
}

// ColumnNotFoundError reports a column missing from a table definition
// read back from the server.
type ColumnNotFoundError struct {
	Table  string
	Column string
}

// Error returns the error string.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("sqlforge: unable to find column %q in table %q", e.Column, e.Table)
}

// Is reports whether the target error matches ColumnNotFoundError.
func (e *ColumnNotFoundError) Is(err error) bool {
	return err == ErrColumnNotFound
}

// NewColumnNotFoundError returns a new ColumnNotFoundError.
func NewColumnNotFoundError(table, column string) *ColumnNotFoundError {
	return &ColumnNotFoundError{Table: table, Column: column}
}

// IsColumnNotFound returns true if the error is a ColumnNotFoundError.
func IsColumnNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *ColumnNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrColumnNotFound)
}
