package dto

import (
	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents a new-account request. Role-conditional
// fields are validated in the service: graduation_year is required for
// students, the parent fields are all optional.
type SignupRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	FullName string      `json:"full_name" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`

	// Student fields
	GraduationYear  *int     `json:"graduation_year,omitempty"`
	GPA             *float64 `json:"gpa,omitempty"`
	SATScore        *int     `json:"sat_score,omitempty"`
	ACTScore        *int     `json:"act_score,omitempty"`
	TargetCountries []string `json:"target_countries,omitempty"`
	IntendedMajors  []string `json:"intended_majors,omitempty"`
	HighSchool      *string  `json:"high_school,omitempty"`

	// Parent fields
	Phone      *string `json:"phone,omitempty"`
	Occupation *string `json:"occupation,omitempty"`
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

// SessionResponse is the resolved session context: the identity plus
// whatever profile and extension rows could be resolved. When the
// profile could not be created (partial signup), ProfileComplete is
// false and Role falls back to the identity metadata.
type SessionResponse struct {
	UserID          uuid.UUID       `json:"user_id"`
	Email           string          `json:"email"`
	Role            models.Role     `json:"role"`
	ProfileComplete bool            `json:"profile_complete"`
	Profile         *models.Profile `json:"profile,omitempty"`
	Student         *models.Student `json:"student,omitempty"`
	Parent          *models.Parent  `json:"parent,omitempty"`
}

// SignupResponse is returned by the signup endpoint.
type SignupResponse struct {
	Session SessionResponse `json:"session"`
	Token   TokenResponse   `json:"token"`
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	Session SessionResponse `json:"session"`
	Token   TokenResponse   `json:"token"`
}
