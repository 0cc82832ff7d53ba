package models

import (
	"time"

	"github.com/google/uuid"
)

// Parent defines the parent extension model based on the 'parents'
// table. The row shares its key with the owning profile and exists iff
// the profile's role is parent.
type Parent struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	Occupation *string   `json:"occupation,omitempty" db:"occupation"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Relations (populated when needed)
	Profile *Profile `json:"profile,omitempty"`
}

// StudentParentLink binds a parent to a student, based on the
// 'student_parents' table. Parent-side reads of a student's data are
// authorized through this link.
type StudentParentLink struct {
	ID           uuid.UUID `json:"id" db:"id"`
	StudentID    uuid.UUID `json:"student_id" db:"student_id"`
	ParentID     uuid.UUID `json:"parent_id" db:"parent_id"`
	Relationship string    `json:"relationship" db:"relationship" example:"mother"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Relations (populated when needed)
	ParentProfile *Profile `json:"parent_profile,omitempty"`
}

// ParentNote is a note a parent writes about one of a linked student's
// applications, based on the 'parent_notes' table.
type ParentNote struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ParentID      uuid.UUID `json:"parent_id" db:"parent_id"`
	StudentID     uuid.UUID `json:"student_id" db:"student_id"`
	ApplicationID uuid.UUID `json:"application_id" db:"application_id"`
	NoteText      string    `json:"note_text" db:"note_text"`
	IsPrivate     bool      `json:"is_private" db:"is_private"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
