package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/app/services"
	"github.com/applytrack/applytrack/internal/middleware"
)

// ApplicationController handles application and requirement operations
type ApplicationController struct {
	applicationService *services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService *services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// viewer extracts the authenticated user id and role, writing the 401
// response itself when either is missing.
func viewer(ctx *gin.Context) (uuid.UUID, models.Role, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetUserRole(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// pathUUID parses a uuid path parameter, writing the 400 response on
// failure.
func pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id format")
		errorDetail = errorDetail.WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}

// CreateApplication creates an application
// @Summary Create an application
// @Description Creates an application for the authenticated student. The deadline defaults from the university's published deadline for the application type.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Application to create"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or enum value"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "University not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate application"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [post]
func (c *ApplicationController) CreateApplication(ctx *gin.Context) {
	userID, _, ok := viewer(ctx)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.applicationService.CreateApplication(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.ApplicationResponse{Application: app},
	})
}

// ListApplications lists a student's applications
// @Summary List applications
// @Description Returns a student's applications ordered by deadline, undated last. Students list their own; linked parents pass the student's id.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Student id (defaults to the authenticated student)"
// @Param status query string false "Filter by status" Enums(not_started, in_progress, submitted, under_review, decision_received)
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse} "Applications"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Student not found or not accessible"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	userID, role, ok := viewer(ctx)
	if !ok {
		return
	}

	studentID := userID
	if raw := ctx.Query("studentId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid studentId format")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		studentID = parsed
	} else if role == models.RoleParent {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "studentId is required for parents")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	status := models.ApplicationStatus(ctx.Query("status"))

	apps, err := c.applicationService.ListApplications(ctx.Request.Context(), userID, role, studentID, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ApplicationListResponse{Applications: make([]models.Application, 0, len(apps))}
	for _, app := range apps {
		resp.Applications = append(resp.Applications, *app)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// GetApplication returns one application
// @Summary Get an application
// @Description Returns one application with its university and requirement checklist. Readable by the owning student and linked parents.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application not found or not accessible"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	userID, role, ok := viewer(ctx)
	if !ok {
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	app, err := c.applicationService.GetApplication(ctx.Request.Context(), userID, role, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ApplicationResponse{Application: app},
	})
}

// UpdateApplication applies a partial update
// @Summary Update an application
// @Description Applies the provided fields to an application the authenticated student owns. Moving to submitted stamps the submission date.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Param request body dto.UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Updated application"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or enum value"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id} [put]
func (c *ApplicationController) UpdateApplication(ctx *gin.Context) {
	userID, _, ok := viewer(ctx)
	if !ok {
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.applicationService.UpdateApplication(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ApplicationResponse{Application: app},
	})
}

// DeleteApplication removes an application
// @Summary Delete an application
// @Description Deletes an application the authenticated student owns, together with its requirements and notes.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Application deleted"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id} [delete]
func (c *ApplicationController) DeleteApplication(ctx *gin.Context) {
	userID, _, ok := viewer(ctx)
	if !ok {
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.applicationService.DeleteApplication(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Success: true, Message: "Application deleted"},
	})
}

// AddRequirement adds a checklist item
// @Summary Add a requirement
// @Description Adds a checklist item to an application the authenticated student owns.
// @Tags requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Param request body dto.CreateRequirementRequest true "Requirement to add"
// @Success 201 {object} dto.APIResponse{data=dto.RequirementResponse} "Requirement created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or enum value"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id}/requirements [post]
func (c *ApplicationController) AddRequirement(ctx *gin.Context) {
	userID, _, ok := viewer(ctx)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateRequirementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	requirement, err := c.applicationService.AddRequirement(ctx.Request.Context(), userID, applicationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.RequirementResponse{Requirement: requirement},
	})
}

// ListRequirements lists an application's checklist
// @Summary List requirements
// @Description Returns the requirement checklist of an application, deadline order with undated items last. Readable by the owning student and linked parents.
// @Tags requirements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Success 200 {object} dto.APIResponse{data=[]models.Requirement} "Requirements"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application not found or not accessible"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id}/requirements [get]
func (c *ApplicationController) ListRequirements(ctx *gin.Context) {
	userID, role, ok := viewer(ctx)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	requirements, err := c.applicationService.ListRequirements(ctx.Request.Context(), userID, role, applicationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: requirements,
	})
}

// UpdateRequirement applies a partial requirement update
// @Summary Update a requirement
// @Description Applies the provided fields to a checklist item. Moving to completed stamps the completion date.
// @Tags requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Param requirementId path string true "Requirement id"
// @Param request body dto.UpdateRequirementRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.RequirementResponse} "Updated requirement"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or enum value"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application or requirement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id}/requirements/{requirementId} [put]
func (c *ApplicationController) UpdateRequirement(ctx *gin.Context) {
	userID, _, ok := viewer(ctx)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	requirementID, ok := pathUUID(ctx, "requirementId")
	if !ok {
		return
	}

	var req dto.UpdateRequirementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	requirement, err := c.applicationService.UpdateRequirement(ctx.Request.Context(), userID, applicationID, requirementID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.RequirementResponse{Requirement: requirement},
	})
}

// DeleteRequirement removes a checklist item
// @Summary Delete a requirement
// @Description Removes a checklist item from an application the authenticated student owns.
// @Tags requirements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Param requirementId path string true "Requirement id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Requirement deleted"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application or requirement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id}/requirements/{requirementId} [delete]
func (c *ApplicationController) DeleteRequirement(ctx *gin.Context) {
	userID, _, ok := viewer(ctx)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	requirementID, ok := pathUUID(ctx, "requirementId")
	if !ok {
		return
	}

	if err := c.applicationService.DeleteRequirement(ctx.Request.Context(), userID, applicationID, requirementID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Success: true, Message: "Requirement deleted"},
	})
}

// ListActivity returns a student's activity feed
// @Summary List activity
// @Description Returns the most recent activity entries for a student, newest first. Readable by the student and linked parents.
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Student id (defaults to the authenticated student)"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityListResponse} "Activity entries"
// @Failure 400 {object} dto.ErrorResponse "Invalid studentId"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Student not found or not accessible"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activity [get]
func (c *ApplicationController) ListActivity(ctx *gin.Context) {
	userID, role, ok := viewer(ctx)
	if !ok {
		return
	}

	studentID := userID
	if raw := ctx.Query("studentId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid studentId format")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		studentID = parsed
	} else if role == models.RoleParent {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "studentId is required for parents")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	entries, err := c.applicationService.ListActivity(ctx.Request.Context(), userID, role, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ActivityListResponse{Activity: make([]models.ActivityEntry, 0, len(entries))}
	for _, entry := range entries {
		resp.Activity = append(resp.Activity, *entry)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}
