package dto

import (
	"github.com/applytrack/applytrack/internal/app/models"
)

// UpdateProfileRequest updates the display name and role-specific
// extension fields. Fields for the other role are ignored.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`

	// Student fields
	GraduationYear  *int     `json:"graduation_year,omitempty"`
	GPA             *float64 `json:"gpa,omitempty"`
	SATScore        *int     `json:"sat_score,omitempty"`
	ACTScore        *int     `json:"act_score,omitempty"`
	TargetCountries []string `json:"target_countries,omitempty"`
	IntendedMajors  []string `json:"intended_majors,omitempty"`
	HighSchool      *string  `json:"high_school,omitempty"`
	CounselorName   *string  `json:"counselor_name,omitempty"`
	CounselorEmail  *string  `json:"counselor_email,omitempty"`

	// Parent fields
	Phone      *string `json:"phone,omitempty"`
	Occupation *string `json:"occupation,omitempty"`
}

// ProfileResponse wraps a profile with its role extension.
type ProfileResponse struct {
	Profile *models.Profile `json:"profile"`
	Student *models.Student `json:"student,omitempty"`
	Parent  *models.Parent  `json:"parent,omitempty"`
}

// AvatarResponse returns the stored avatar location.
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
