package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/app/services"
	"github.com/applytrack/applytrack/internal/middleware"
)

// ParentController handles parent links and parent notes
type ParentController struct {
	parentService *services.ParentService
	logger        zerolog.Logger
}

// NewParentController creates a new ParentController
func NewParentController(parentService *services.ParentService, logger zerolog.Logger) *ParentController {
	return &ParentController{
		parentService: parentService,
		logger:        logger,
	}
}

// LinkParent links a parent to the authenticated student
// @Summary Link a parent
// @Description Links an existing parent account, looked up by email, to the authenticated student.
// @Tags parents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LinkParentRequest true "Parent email and relationship"
// @Success 201 {object} dto.APIResponse{data=models.StudentParentLink} "Parent linked"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "No parent account with this email"
// @Failure 409 {object} dto.ErrorResponse "Already linked"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /parents/links [post]
func (c *ParentController) LinkParent(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.LinkParentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	link, err := c.parentService.LinkParent(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: link,
	})
}

// ListLinks lists the viewer's links
// @Summary List links
// @Description Returns the authenticated user's links: a student sees their linked parents, a parent sees their linked students.
// @Tags parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ParentLinkListResponse} "Links"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /parents/links [get]
func (c *ParentController) ListLinks(ctx *gin.Context) {
	userID, role, ok := viewer(ctx)
	if !ok {
		return
	}

	var links []*models.StudentParentLink
	var err error
	if role == models.RoleParent {
		links, err = c.parentService.ListStudents(ctx.Request.Context(), userID)
	} else {
		links, err = c.parentService.ListParents(ctx.Request.Context(), userID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ParentLinkListResponse{Parents: make([]models.StudentParentLink, 0, len(links))}
	for _, link := range links {
		resp.Parents = append(resp.Parents, *link)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// CreateNote attaches a note to a linked student's application
// @Summary Create a parent note
// @Description Attaches a note to an application of a linked student. Private notes stay visible to the author only.
// @Tags parents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateParentNoteRequest true "Note to create"
// @Success 201 {object} dto.APIResponse{data=dto.ParentNoteResponse} "Note created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application not found or not accessible"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /parents/notes [post]
func (c *ParentController) CreateNote(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateParentNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	note, err := c.parentService.CreateNote(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.ParentNoteResponse{Note: note},
	})
}

// ListNotes lists the notes on an application
// @Summary List parent notes
// @Description Returns the notes on an application. The owning student sees shared notes; a parent additionally sees their own private notes.
// @Tags parents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id"
// @Success 200 {object} dto.APIResponse{data=dto.ParentNoteListResponse} "Notes"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Application not found or not accessible"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id}/notes [get]
func (c *ParentController) ListNotes(ctx *gin.Context) {
	userID, role, ok := viewer(ctx)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	notes, err := c.parentService.ListNotes(ctx.Request.Context(), userID, role, applicationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ParentNoteListResponse{Notes: make([]models.ParentNote, 0, len(notes))}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, *note)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// DeleteNote removes a note the parent authored
// @Summary Delete a parent note
// @Description Removes a note the authenticated parent authored.
// @Tags parents
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Note deleted"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Note not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /parents/notes/{noteId} [delete]
func (c *ParentController) DeleteNote(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}
	noteID, ok := pathUUID(ctx, "noteId")
	if !ok {
		return
	}

	if err := c.parentService.DeleteNote(ctx.Request.Context(), userID, noteID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Success: true, Message: "Note deleted"},
	})
}
