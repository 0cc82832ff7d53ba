package dto

import (
	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/app/models"
)

// LinkParentRequest links a parent account to a student by email.
type LinkParentRequest struct {
	ParentEmail  string `json:"parent_email" binding:"required,email"`
	Relationship string `json:"relationship" binding:"required"`
}

// ParentLinkListResponse wraps a student's parent links.
type ParentLinkListResponse struct {
	Parents []models.StudentParentLink `json:"parents"`
}

// CreateParentNoteRequest creates a note about a linked student's application.
type CreateParentNoteRequest struct {
	ApplicationID uuid.UUID `json:"application_id" binding:"required"`
	NoteText      string    `json:"note_text" binding:"required"`
	IsPrivate     bool      `json:"is_private"`
}

// ParentNoteListResponse wraps parent notes for an application.
type ParentNoteListResponse struct {
	Notes []models.ParentNote `json:"notes"`
}

// ParentNoteResponse wraps a single parent note.
type ParentNoteResponse struct {
	Note *models.ParentNote `json:"note"`
}

// ActivityListResponse wraps activity log entries.
type ActivityListResponse struct {
	Activity []models.ActivityEntry `json:"activity"`
}
