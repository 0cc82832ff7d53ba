package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationType identifies the admission round an application targets.
type ApplicationType string

const (
	TypeEarlyDecision    ApplicationType = "early_decision"
	TypeEarlyAction      ApplicationType = "early_action"
	TypeRegularDecision  ApplicationType = "regular_decision"
	TypeRollingAdmission ApplicationType = "rolling_admission"
)

// IsValid reports whether the application type is a known value.
func (t ApplicationType) IsValid() bool {
	switch t {
	case TypeEarlyDecision, TypeEarlyAction, TypeRegularDecision, TypeRollingAdmission:
		return true
	}
	return false
}

// ApplicationStatus tracks an application's progress.
type ApplicationStatus string

const (
	StatusNotStarted       ApplicationStatus = "not_started"
	StatusInProgress       ApplicationStatus = "in_progress"
	StatusSubmitted        ApplicationStatus = "submitted"
	StatusUnderReview      ApplicationStatus = "under_review"
	StatusDecisionReceived ApplicationStatus = "decision_received"
)

// IsValid reports whether the status is a known value.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusSubmitted, StatusUnderReview, StatusDecisionReceived:
		return true
	}
	return false
}

// DecisionType is the admission outcome of a decided application.
type DecisionType string

const (
	DecisionAccepted   DecisionType = "accepted"
	DecisionRejected   DecisionType = "rejected"
	DecisionWaitlisted DecisionType = "waitlisted"
	DecisionDeferred   DecisionType = "deferred"
)

// IsValid reports whether the decision type is a known value.
func (d DecisionType) IsValid() bool {
	switch d {
	case DecisionAccepted, DecisionRejected, DecisionWaitlisted, DecisionDeferred:
		return true
	}
	return false
}

// Application defines one student's tracked application to one
// university, based on the 'applications' table. Owned exclusively by
// the student; only the owner may mutate or delete it.
type Application struct {
	ID                    uuid.UUID         `json:"id" db:"id"`
	StudentID             uuid.UUID         `json:"student_id" db:"student_id"`
	UniversityID          uuid.UUID         `json:"university_id" db:"university_id"`
	ApplicationType       ApplicationType   `json:"application_type" db:"application_type"`
	Status                ApplicationStatus `json:"status" db:"status"`
	Priority              *int              `json:"priority,omitempty" db:"priority"` // lower means higher priority
	Deadline              *time.Time        `json:"deadline,omitempty" db:"deadline"`
	SubmittedDate         *time.Time        `json:"submitted_date,omitempty" db:"submitted_date"`
	DecisionDate          *time.Time        `json:"decision_date,omitempty" db:"decision_date"`
	DecisionType          *DecisionType     `json:"decision_type,omitempty" db:"decision_type"`
	FinancialAidRequested *bool             `json:"financial_aid_requested,omitempty" db:"financial_aid_requested"`
	FinancialAidAmount    *float64          `json:"financial_aid_amount,omitempty" db:"financial_aid_amount"`
	ScholarshipOffered    *float64          `json:"scholarship_offered,omitempty" db:"scholarship_offered"`
	Notes                 *string           `json:"notes,omitempty" db:"notes"`
	ApplicationURL        *string           `json:"application_url,omitempty" db:"application_url"`
	CreatedAt             time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at" db:"updated_at"`

	// Relations (populated when needed)
	University   *University   `json:"university,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty"`
}
