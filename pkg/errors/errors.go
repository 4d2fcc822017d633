package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInternal is the generic error shown in place of unexpected failures.
var ErrInternal = NewInternalError("internal server error", nil)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Message)
}

// DataSourceError reports a missing, unreadable or malformed user dataset.
type DataSourceError struct {
	Source  string
	Message string
	Err     error
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, message string, err error) *DataSourceError {
	return &DataSourceError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data source %s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("data source %s: %s", e.Source, e.Message)
}

// Unwrap returns the wrapped error
func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error
func (e *DataSourceError) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Message)
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}

// PublicMessage returns the message that is safe to show to API callers.
// Validation and data source errors expose their message, anything else is
// reported as a generic internal error.
func PublicMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var dataErr *DataSourceError
	if errors.As(err, &dataErr) {
		return dataErr.Message
	}

	var internalErr *InternalError
	if errors.As(err, &internalErr) {
		return internalErr.Message
	}

	return ErrInternal.Message
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsDataSource reports whether err carries a DataSourceError.
func IsDataSource(err error) bool {
	var dataErr *DataSourceError
	return errors.As(err, &dataErr)
}
