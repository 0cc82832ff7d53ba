package dto

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidEmail       ErrorCode = "AUTH_002"
	ErrorCodeInvalidPassword    ErrorCode = "AUTH_003"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_004"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_005"
	ErrorCodeTokenNotFound      ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_007"
	ErrorCodeForbidden          ErrorCode = "AUTH_008"
	ErrorCodeProfileIncomplete  ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
	ErrorCodeDatabaseError  ErrorCode = "SRV_002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityInfo     ErrorSeverity = "INFO"
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"VAL_001"`
	Message  string        `json:"message" example:"Validation failed"`
	Field    string        `json:"field,omitempty" example:"email"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// HandleValidationError converts a binding/validation error into a
// structured error detail with per-field messages.
func HandleValidationError(err error) *ErrorDetail {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]ErrorDetail, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, ErrorDetail{
				Code:     ErrorCodeValidationFailed,
				Message:  formatFieldError(fe),
				Field:    fe.Field(),
				Severity: ErrorSeverityError,
			})
		}
		detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed")
		return detail.WithDetails(fields)
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format")
	return detail.WithDetails(err.Error())
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
