package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity log action labels recorded by mutating operations.
const (
	ActionCreatedApplication = "created_application"
	ActionUpdatedApplication = "updated_application"
	ActionDeletedApplication = "deleted_application"
)

// ActivityEntry is an append-only audit record based on the
// 'activity_log' table. Entries are only ever inserted and read.
type ActivityEntry struct {
	ID            uuid.UUID              `json:"id" db:"id"`
	UserID        uuid.UUID              `json:"user_id" db:"user_id"`
	StudentID     *uuid.UUID             `json:"student_id,omitempty" db:"student_id"`
	ApplicationID *uuid.UUID             `json:"application_id,omitempty" db:"application_id"`
	Action        string                 `json:"action" db:"action" example:"created_application"`
	Details       map[string]interface{} `json:"details" db:"details"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
}
