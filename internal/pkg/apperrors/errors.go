package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Simulated backend failure
	ErrInjectedFailure = errors.New("simulated server error")
)

// Component errors
var (
	ErrComponentNotFound = NewCustomError(ErrResourceNotFound, "Component not found")
	ErrInsufficientStock = NewCustomError(ErrConflict, "Insufficient stock")
	ErrSerialRequired    = NewCustomError(ErrValidationFailed, "Serial number required")
)

// Course and section errors
var (
	ErrCourseNotFound  = NewCustomError(ErrResourceNotFound, "Course not found")
	ErrSectionNotFound = NewCustomError(ErrResourceNotFound, "Section not found")
)

// Kit errors
var (
	ErrKitNotFound     = NewCustomError(ErrResourceNotFound, "Kit not found")
	ErrKitCodeExists   = NewCustomError(ErrResourceAlreadyExists, "Kit code already exists")
	ErrKitNotAvailable = NewCustomError(ErrConflict, "Kit is not available")
	ErrKitOnLoan       = NewCustomError(ErrConflict, "Kit is currently on loan and cannot be deleted")
)

// Loan errors
var (
	ErrLoanNotFound        = NewCustomError(ErrResourceNotFound, "Loan not found")
	ErrLoanAlreadyReturned = NewCustomError(ErrConflict, "Loan has already been returned")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Message returns the user-facing message of err, falling back to fallback
// when err carries no CustomError in its chain.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
