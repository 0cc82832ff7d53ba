package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/app/services"
	"github.com/applytrack/applytrack/internal/middleware"
)

// maxAvatarSize caps avatar uploads at 5 MB.
const maxAvatarSize = 5 << 20

// ProfileController handles profile operations
type ProfileController struct {
	profileService *services.ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile returns the authenticated user's profile
// @Summary Get own profile
// @Description Returns the authenticated user's profile with its student or parent extension.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profiles/me [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.profileService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: profile,
	})
}

// UpdateProfile updates the authenticated user's profile
// @Summary Update own profile
// @Description Applies the provided fields to the profile and its role extension. Fields for the other role are ignored; the role itself cannot change.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profiles/me [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: profile,
	})
}

// UploadAvatar stores a new avatar image
// @Summary Upload avatar
// @Description Stores the uploaded image as the user's avatar and returns its URL. Maximum size 5 MB.
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=dto.AvatarResponse} "Avatar stored"
// @Failure 400 {object} dto.ErrorResponse "Missing or oversized file"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profiles/me/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Avatar file is required")
		errorDetail = errorDetail.WithField("avatar")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if fileHeader.Size > maxAvatarSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Avatar file too large")
		errorDetail = errorDetail.WithDetails("Maximum avatar size is 5 MB")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	avatar, err := c.profileService.UpdateAvatar(ctx.Request.Context(), userID, fileHeader)
	if err != nil {
		c.logger.Error().Err(err).Str("userId", userID.String()).Msg("Avatar upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: avatar,
	})
}
