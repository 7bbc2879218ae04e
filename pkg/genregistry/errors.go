package genregistry

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrGeneratorNotFound indicates an id-keyed lookup missed. This is an
	// expected path, not a failure of the system.
	ErrGeneratorNotFound = errors.New("generator not found")

	// ErrRepositoryUnavailable indicates the metadata store cannot be reached.
	ErrRepositoryUnavailable = errors.New("metadata store unavailable")

	// ErrSignerUnavailable indicates the object store or its signing facility
	// cannot be reached.
	ErrSignerUnavailable = errors.New("object store unavailable")
)

// RepositoryError represents an error from a metadata port operation.
type RepositoryError struct {
	Op  string
	ID  string
	Err error
}

func (e *RepositoryError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("repository operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("repository operation %s failed for generator %s: %v", e.Op, e.ID, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// SignerError represents an error from an upload/download port operation.
type SignerError struct {
	Op  string
	Key string
	Err error
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("signer operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *SignerError) Unwrap() error {
	return e.Err
}

// FieldError is one itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field-level problem found in a request. It is
// produced before a request reaches the Service.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Errors))
}

// ErrorResponse is the uniform error shape served by every transport surface.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NotFoundResponse builds the shared not-found payload for a generator id.
func NotFoundResponse(id string) ErrorResponse {
	return ErrorResponse{
		Error:   "not_found",
		Message: fmt.Sprintf("Generator '%s' was not found", id),
	}
}

// ValidationResponse builds the shared bad-request payload from itemized
// field errors.
func ValidationResponse(verr *ValidationError) ErrorResponse {
	return ErrorResponse{
		Error:   "bad_request",
		Message: "Validation failed",
		Details: map[string]any{"errors": verr.Errors},
	}
}

// ServerErrorResponse is the generic payload for port failures and unhandled
// defects. Internal detail stays in the server-side logs.
func ServerErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   "server_error",
		Message: "Internal server error",
	}
}
