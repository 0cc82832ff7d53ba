package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/auth"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "roleType"
)

// AuthMiddleware handles authentication and role checks
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the authenticated
// user's id, email and role in the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleRequired rejects requests whose authenticated role is not in the
// allowed set. Must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		roleStr, ok := role.(string)
		if ok {
			for _, allowed := range allowedRoles {
				if models.Role(roleStr) == allowed {
					c.Next()
					return
				}
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// GetUserID extracts the authenticated user id set by JWTAuth
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// GetUserRole extracts the authenticated role set by JWTAuth
func GetUserRole(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	roleStr, ok := value.(string)
	if !ok {
		return "", false
	}
	return models.Role(roleStr), true
}
