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
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// Identity errors
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Content errors
	ErrInvalidFormat = errors.New("invalid token format")
)

// Profile errors
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrRoleImmutable     = errors.New("role cannot be changed after role record creation")
	ErrInvalidRole       = errors.New("invalid role")
	ErrProfileIncomplete = errors.New("account created but profile incomplete")
)

// Student / parent errors
var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrParentNotFound        = errors.New("parent not found")
	ErrLinkAlreadyExists     = errors.New("parent is already linked to this student")
	ErrInvalidGraduationYear = errors.New("invalid graduation year")
)

// University errors
var (
	ErrUniversityNotFound      = errors.New("university not found")
	ErrUniversityAlreadyExists = errors.New("university with this name already exists")
)

// Application errors
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("an application to this university with this type already exists")
	ErrRequirementNotFound  = errors.New("requirement not found")
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

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
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
