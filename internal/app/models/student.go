package models

import (
	"time"

	"github.com/google/uuid"
)

// Student defines the student extension model based on the 'students'
// table. The row shares its key with the owning profile and exists iff
// the profile's role is student.
type Student struct {
	ID              uuid.UUID `json:"id" db:"id"`
	GraduationYear  int       `json:"graduation_year" db:"graduation_year" example:"2026"`
	GPA             *float64  `json:"gpa,omitempty" db:"gpa"`
	SATScore        *int      `json:"sat_score,omitempty" db:"sat_score"`
	ACTScore        *int      `json:"act_score,omitempty" db:"act_score"`
	TargetCountries []string  `json:"target_countries" db:"target_countries"`
	IntendedMajors  []string  `json:"intended_majors" db:"intended_majors"`
	HighSchool      *string   `json:"high_school,omitempty" db:"high_school"`
	CounselorName   *string   `json:"counselor_name,omitempty" db:"counselor_name"`
	CounselorEmail  *string   `json:"counselor_email,omitempty" db:"counselor_email"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Relations (populated when needed)
	Profile *Profile `json:"profile,omitempty"`
}
