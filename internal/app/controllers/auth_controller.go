// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/app/services"
	"github.com/applytrack/applytrack/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles account registration
// @Summary Register a new account
// @Description Creates a student or parent account and returns the session with a token pair. Students must supply a graduation year.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account registration information"
// @Success 201 {object} dto.APIResponse{data=dto.SignupResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or role"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Signup failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userId", resp.Session.UserID.String()).
		Str("role", string(resp.Session.Role)).Msg("Account created")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: resp,
	})
}

// Login handles credential authentication
// @Summary Log in
// @Description Verifies credentials and returns the session with a fresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// RefreshToken rotates a refresh token
// @Summary Refresh tokens
// @Description Exchanges a valid refresh token for a new token pair. The presented token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Token refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Token expired, revoked or unknown"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	token, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: token,
	})
}

// Logout revokes a refresh token
// @Summary Log out
// @Description Revokes the presented refresh token. Unknown tokens are treated as already logged out.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest true "Refresh token to revoke"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.LogoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Success: true, Message: "Logged out"},
	})
}

// GetSession resolves the authenticated session
// @Summary Get current session
// @Description Returns the authenticated user's session context: identity, profile and role extension. profile_complete is false while signup repair is pending.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session resolved"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/session [get]
func (c *AuthController) GetSession(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	session, err := c.authService.GetSession(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: session,
	})
}
