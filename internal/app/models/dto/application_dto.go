package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/app/models"
)

// CreateApplicationRequest creates a new application for a student.
type CreateApplicationRequest struct {
	StudentID       uuid.UUID                 `json:"student_id" binding:"required"`
	UniversityID    uuid.UUID                 `json:"university_id" binding:"required"`
	ApplicationType models.ApplicationType    `json:"application_type" binding:"required"`
	Status          *models.ApplicationStatus `json:"status,omitempty"`
	Priority        *int                      `json:"priority,omitempty"`
	Deadline        *time.Time                `json:"deadline,omitempty"`
	Notes           *string                   `json:"notes,omitempty"`
	ApplicationURL  *string                   `json:"application_url,omitempty"`
}

// UpdateApplicationRequest carries a partial field set. StudentID is
// the caller's ownership assertion and must match both the
// authenticated student and the row's owner.
type UpdateApplicationRequest struct {
	StudentID             uuid.UUID                 `json:"student_id" binding:"required"`
	Status                *models.ApplicationStatus `json:"status,omitempty"`
	Priority              *int                      `json:"priority,omitempty"`
	Deadline              *time.Time                `json:"deadline,omitempty"`
	SubmittedDate         *time.Time                `json:"submitted_date,omitempty"`
	DecisionDate          *time.Time                `json:"decision_date,omitempty"`
	DecisionType          *models.DecisionType      `json:"decision_type,omitempty"`
	FinancialAidRequested *bool                     `json:"financial_aid_requested,omitempty"`
	FinancialAidAmount    *float64                  `json:"financial_aid_amount,omitempty"`
	ScholarshipOffered    *float64                  `json:"scholarship_offered,omitempty"`
	Notes                 *string                   `json:"notes,omitempty"`
	ApplicationURL        *string                   `json:"application_url,omitempty"`
}

// ApplicationListResponse wraps a student's applications.
type ApplicationListResponse struct {
	Applications []models.Application `json:"applications"`
}

// ApplicationResponse wraps a single application.
type ApplicationResponse struct {
	Application *models.Application `json:"application"`
}

// CreateRequirementRequest adds a checklist item to an application.
type CreateRequirementRequest struct {
	RequirementType models.RequirementType    `json:"requirement_type" binding:"required"`
	RequirementName string                    `json:"requirement_name" binding:"required"`
	Status          *models.RequirementStatus `json:"status,omitempty"`
	Deadline        *time.Time                `json:"deadline,omitempty"`
	Notes           *string                   `json:"notes,omitempty"`
}

// UpdateRequirementRequest carries a partial requirement update.
type UpdateRequirementRequest struct {
	RequirementName *string                   `json:"requirement_name,omitempty"`
	Status          *models.RequirementStatus `json:"status,omitempty"`
	Deadline        *time.Time                `json:"deadline,omitempty"`
	Notes           *string                   `json:"notes,omitempty"`
	CompletedDate   *time.Time                `json:"completed_date,omitempty"`
}

// RequirementResponse wraps a single requirement.
type RequirementResponse struct {
	Requirement *models.Requirement `json:"requirement"`
}
