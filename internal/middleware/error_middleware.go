package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Ownership
// violations surface as not-found so the API never confirms that a
// foreign resource exists.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"),
		})
	case errors.Is(err, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Token revoked"),
		})
	case errors.Is(err, apperrors.ErrIdentityNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Account not found"),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		})
	case errors.Is(err, apperrors.ErrInvalidRole):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Role must be student or parent"),
		})
	case errors.Is(err, apperrors.ErrProfileNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Profile not found"),
		})
	case errors.Is(err, apperrors.ErrStudentNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found"),
		})
	case errors.Is(err, apperrors.ErrParentNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Parent not found"),
		})
	case errors.Is(err, apperrors.ErrUniversityNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "University not found"),
		})
	case errors.Is(err, apperrors.ErrApplicationNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Application not found"),
		})
	case errors.Is(err, apperrors.ErrRequirementNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Requirement not found"),
		})
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"),
		})
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "An application of this type to this university already exists"),
		})
	case errors.Is(err, apperrors.ErrLinkAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Parent is already linked to this student"),
		})
	case errors.Is(err, apperrors.ErrUniversityAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "University already exists"),
		})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()),
		})
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
