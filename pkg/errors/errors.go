package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies an error into the closed set of outcomes adapters map to
// transport status codes.
type Kind int

const (
	// KindNone means no error
	KindNone Kind = iota
	// KindValidation is malformed input
	KindValidation
	// KindNotFound is a point lookup with zero rows
	KindNotFound
	// KindStorage is a connection or constraint failure at the database boundary
	KindStorage
	// KindTimeout is an expired request deadline
	KindTimeout
	// KindUnknown is anything else
	KindUnknown
)

// String returns the wire code used in error responses.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage_error"
	case KindTimeout:
		return "request_timeout"
	default:
		return "internal_error"
	}
}

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
	return status.New(codes.InvalidArgument, e.Error())
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// StorageError represents a failure at the database boundary: an unavailable
// connection, a constraint violation or an unexpected result shape.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError creates a new storage error for the named operation
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Err: err,
	}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage error: %s", e.Op)
}

// Unwrap returns the wrapped error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error
func (e *StorageError) GRPCStatus() *status.Status {
	if stderrors.Is(e.Err, context.DeadlineExceeded) {
		return status.New(codes.DeadlineExceeded, e.Error())
	}
	return status.New(codes.Internal, e.Error())
}

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}

// KindOf classifies err. Deadline expiry wins over the wrapping type so a
// storage call cut short by the request timeout reports as a timeout.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var validationErr *ValidationError
	if stderrors.As(err, &validationErr) {
		return KindValidation
	}
	var notFoundErr *NotFoundError
	if stderrors.As(err, &notFoundErr) {
		return KindNotFound
	}
	var storageErr *StorageError
	if stderrors.As(err, &storageErr) {
		return KindStorage
	}
	return KindUnknown
}

// HTTPStatus maps err to the HTTP status code the REST adapter responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNone:
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ToGRPC converts err into a gRPC status error.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) == KindTimeout {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	var s GRPCStatuser
	if stderrors.As(err, &s) {
		return s.GRPCStatus().Err()
	}
	return status.Error(codes.Internal, err.Error())
}
