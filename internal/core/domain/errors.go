package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Validation Errors.

	// ErrMissingField indicates a required item field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidType indicates an item type outside the closed set.
	ErrInvalidType = errors.New("invalid item type")

	// ErrInvalidCategory indicates a category id the caller did not supply.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrMissingEventTime indicates an event without a scheduled time.
	ErrMissingEventTime = errors.New("events require a dateTime")

	// ErrInvalidDate indicates a date string that does not parse to an instant.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPriority indicates a priority outside low, medium and high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrTitleConflict indicates no unique title could be derived for a new item.
	ErrTitleConflict = errors.New("could not resolve duplicate title")

	// Batch Errors.

	// ErrTooManyItems indicates a bulk request above the per-call limit.
	ErrTooManyItems = errors.New("too many items")

	// ErrTransactionExecuted indicates a transaction was reused after execution.
	ErrTransactionExecuted = errors.New("transaction already executed")

	// ErrEmptyScope indicates a bulk selection with neither query nor filters.
	ErrEmptyScope = errors.New("bulk operation requires a query or filter")

	// ErrSafetyThreshold indicates a large destructive selection without confirmation.
	ErrSafetyThreshold = errors.New("selection exceeds safety threshold without confirmation")

	// Program Errors.

	// ErrCyclicDependency indicates operations that reference each other.
	ErrCyclicDependency = errors.New("cyclic dependency between operations")

	// ErrDependencyFailed indicates an upstream operation of a program failed.
	ErrDependencyFailed = errors.New("dependency failed")

	// ErrInvalidReference indicates a reference to a missing operation or field.
	ErrInvalidReference = errors.New("invalid operation reference")
)

// ValidationError reports which field failed a structural check.
// It unwraps to one of the validation sentinels above.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Err.Error()
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// errorCodes maps sentinels to the stable codes reported in results.
var errorCodes = []struct {
	err  error
	code string
}{
	{ErrMissingField, "MissingField"},
	{ErrInvalidType, "InvalidType"},
	{ErrInvalidCategory, "InvalidCategory"},
	{ErrMissingEventTime, "MissingEventTime"},
	{ErrInvalidDate, "InvalidDate"},
	{ErrInvalidPriority, "InvalidPriority"},
	{ErrTitleConflict, "TitleConflict"},
	{ErrNotFound, "ItemNotFound"},
	{ErrTooManyItems, "TooManyItems"},
	{ErrEmptyScope, "EmptyScope"},
	{ErrSafetyThreshold, "SafetyThreshold"},
	{ErrCyclicDependency, "CyclicDependency"},
	{ErrDependencyFailed, "DependencyFailed"},
	{ErrInvalidReference, "InvalidReference"},
	{ErrTransactionExecuted, "TransactionExecuted"},
	{ErrInvalidInput, "InvalidInput"},
}

// ErrorCode returns the stable code for err, or "Internal" when err is
// not a domain error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "Internal"
}
