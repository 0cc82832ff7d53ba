package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/app/services"
	"github.com/applytrack/applytrack/internal/middleware"
	"github.com/applytrack/applytrack/internal/pkg/helpers"
)

// UniversityController handles university catalog operations
type UniversityController struct {
	universityService *services.UniversityService
	logger            zerolog.Logger
}

// NewUniversityController creates a new UniversityController
func NewUniversityController(universityService *services.UniversityService, logger zerolog.Logger) *UniversityController {
	return &UniversityController{
		universityService: universityService,
		logger:            logger,
	}
}

// SearchUniversities searches the catalog
// @Summary Search universities
// @Description Returns the catalog page matching the filters, ranked universities first. All filters are optional.
// @Tags universities
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, short name or city"
// @Param country query string false "Exact country"
// @Param state query string false "Exact state code"
// @Param applicationSystem query string false "Exact application system"
// @Param maxRanking query int false "Highest acceptable ranking"
// @Param minAcceptanceRate query number false "Lowest acceptable acceptance rate"
// @Param maxTuition query number false "Highest acceptable out-of-state tuition"
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.UniversityListResponse} "Matching universities"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter value"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /universities [get]
func (c *UniversityController) SearchUniversities(ctx *gin.Context) {
	filter := &dto.UniversityFilter{
		Search:            ctx.Query("search"),
		Country:           ctx.Query("country"),
		State:             ctx.Query("state"),
		ApplicationSystem: ctx.Query("applicationSystem"),
	}

	if raw := ctx.Query("maxRanking"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid maxRanking value")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.MaxRanking = value
	}
	if raw := ctx.Query("minAcceptanceRate"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid minAcceptanceRate value")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.MinAcceptanceRate = value
	}
	if raw := ctx.Query("maxTuition"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid maxTuition value")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.MaxTuition = value
	}

	page, size := helpers.ParsePaginationParams(ctx)

	universities, pagination, err := c.universityService.SearchUniversities(ctx.Request.Context(), filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.UniversityListResponse{Universities: make([]models.University, 0, len(universities))}
	for _, u := range universities {
		resp.Universities = append(resp.Universities, *u)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{
			"universities": resp.Universities,
			"pagination":   pagination,
		},
	})
}

// GetUniversity returns one catalog entry
// @Summary Get a university
// @Description Returns one university from the catalog.
// @Tags universities
// @Produce json
// @Security BearerAuth
// @Param id path string true "University id"
// @Success 200 {object} dto.APIResponse{data=dto.UniversityResponse} "University"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "University not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /universities/{id} [get]
func (c *UniversityController) GetUniversity(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	university, err := c.universityService.GetUniversity(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.UniversityResponse{University: university},
	})
}

// CreateUniversity adds a catalog entry
// @Summary Create a university
// @Description Adds a university to the shared catalog. Admin only.
// @Tags universities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUniversityRequest true "University to create"
// @Success 201 {object} dto.APIResponse{data=dto.UniversityResponse} "University created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Failure 409 {object} dto.ErrorResponse "University already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /universities [post]
func (c *UniversityController) CreateUniversity(ctx *gin.Context) {
	var req dto.CreateUniversityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	university, err := c.universityService.CreateUniversity(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.UniversityResponse{University: university},
	})
}
