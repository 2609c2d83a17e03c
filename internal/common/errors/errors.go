// Package errors provides standardized error handling for the catalog store and controller.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeReferentialIntegrity ErrorCode = "REFERENTIAL_INTEGRITY"
	ErrCodeDuplicateFranchise   ErrorCode = "DUPLICATE_FRANCHISE"
	ErrCodeConstraintViolation  ErrorCode = "CONSTRAINT_VIOLATION"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeMigrationFailed          ErrorCode = "MIGRATION_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the driver error the StandardError was built from, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any *StandardError carrying the same code, so the sentinels
// below work with errors.Is regardless of message or details.
func (e *StandardError) Is(target error) bool {
	var t *StandardError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Field returns the offending field name recorded by NewValidationError.
func (e *StandardError) Field() string {
	if e.Metadata == nil {
		return ""
	}
	field, _ := e.Metadata["field"].(string)
	return field
}

// Sentinels for errors.Is.
var (
	ErrValidation           = &StandardError{Code: ErrCodeValidationFailed}
	ErrReferentialIntegrity = &StandardError{Code: ErrCodeReferentialIntegrity}
	ErrDuplicateFranchise   = &StandardError{Code: ErrCodeDuplicateFranchise}
	ErrConstraintViolation  = &StandardError{Code: ErrCodeConstraintViolation}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError reports a required field that failed its rule.
func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Validation failed",
		Details:   details,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewReferentialIntegrityError reports a write referencing a missing franchise.
func NewReferentialIntegrityError(franchiseID int64, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReferentialIntegrity,
		Message:   "Referenced franchise does not exist",
		Details:   fmt.Sprintf("franchiseId: %d", franchiseID),
		Metadata:  map[string]interface{}{"franchiseId": franchiseID},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDuplicateFranchiseError reports a rename onto an existing franchise name.
func NewDuplicateFranchiseError(name string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateFranchise,
		Message:   "Franchise name already in use",
		Details:   fmt.Sprintf("franchiseName: %s", name),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewConstraintViolationError reports a CHECK or NOT NULL failure.
func NewConstraintViolationError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConstraintViolation,
		Message:   "Storage constraint violated",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatabaseConnectionFailedError wraps failures to open or acquire a connection.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewQueryExecutionFailedError wraps any other statement failure.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMigrationFailedError wraps schema migration failures.
func NewMigrationFailedError(migration string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMigrationFailed,
		Message:   "Schema migration failed",
		Details:   fmt.Sprintf("migration: %s, error: %s", migration, err.Error()),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf returns the code of err, or "" when err is nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return Normalize(err).Code
}

// LogFields returns a map suitable for structured logging.
func (e *StandardError) LogFields() map[string]interface{} {
	fields := map[string]interface{}{
		"errorCode":    string(e.Code),
		"errorMessage": e.Message,
	}
	if e.Details != "" {
		fields["errorDetails"] = e.Details
	}
	for k, v := range e.Metadata {
		fields[k] = v
	}
	return fields
}
