package models

import (
	"time"

	"github.com/google/uuid"
)

// RequirementType identifies the kind of checklist item.
type RequirementType string

const (
	RequirementEssay                RequirementType = "essay"
	RequirementRecommendationLetter RequirementType = "recommendation_letter"
	RequirementTranscript           RequirementType = "transcript"
	RequirementTestScores           RequirementType = "test_scores"
	RequirementPortfolio            RequirementType = "portfolio"
	RequirementInterview            RequirementType = "interview"
	RequirementFinancialAid         RequirementType = "financial_aid"
)

// IsValid reports whether the requirement type is a known value.
func (t RequirementType) IsValid() bool {
	switch t {
	case RequirementEssay, RequirementRecommendationLetter, RequirementTranscript,
		RequirementTestScores, RequirementPortfolio, RequirementInterview, RequirementFinancialAid:
		return true
	}
	return false
}

// RequirementStatus tracks a checklist item's progress.
type RequirementStatus string

const (
	RequirementNotStarted RequirementStatus = "not_started"
	RequirementInProgress RequirementStatus = "in_progress"
	RequirementCompleted  RequirementStatus = "completed"
	RequirementSubmitted  RequirementStatus = "submitted"
)

// IsValid reports whether the requirement status is a known value.
func (s RequirementStatus) IsValid() bool {
	switch s {
	case RequirementNotStarted, RequirementInProgress, RequirementCompleted, RequirementSubmitted:
		return true
	}
	return false
}

// Requirement is a single checklist item belonging to an application,
// based on the 'application_requirements' table. Requirements are
// owned by their application and are removed with it.
type Requirement struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	ApplicationID   uuid.UUID         `json:"application_id" db:"application_id"`
	RequirementType RequirementType   `json:"requirement_type" db:"requirement_type"`
	RequirementName string            `json:"requirement_name" db:"requirement_name" example:"Common App Essay"`
	Status          RequirementStatus `json:"status" db:"status"`
	Deadline        *time.Time        `json:"deadline,omitempty" db:"deadline"`
	Notes           *string           `json:"notes,omitempty" db:"notes"`
	CompletedDate   *time.Time        `json:"completed_date,omitempty" db:"completed_date"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}
