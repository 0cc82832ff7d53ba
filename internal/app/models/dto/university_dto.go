package dto

import (
	"github.com/applytrack/applytrack/internal/app/models"
)

// UniversityFilter carries the supported university search filters.
// All fields are optional; zero values mean "no filter".
type UniversityFilter struct {
	Search            string // matched against name, short name, city and state
	Country           string
	State             string
	MaxRanking        int
	MinAcceptanceRate float64
	MaxTuition        float64
	ApplicationSystem string
}

// CreateUniversityRequest creates a reference-data row (administrative).
type CreateUniversityRequest struct {
	Name              string            `json:"name" binding:"required"`
	ShortName         *string           `json:"short_name,omitempty"`
	Country           string            `json:"country,omitempty"`
	State             *string           `json:"state,omitempty"`
	City              *string           `json:"city,omitempty"`
	WebsiteURL        *string           `json:"website_url,omitempty"`
	Ranking           *int              `json:"ranking,omitempty"`
	AcceptanceRate    *float64          `json:"acceptance_rate,omitempty"`
	ApplicationSystem *string           `json:"application_system,omitempty"`
	TuitionInState    *float64          `json:"tuition_in_state,omitempty"`
	TuitionOutState   *float64          `json:"tuition_out_state,omitempty"`
	RoomAndBoard      *float64          `json:"room_and_board,omitempty"`
	ApplicationFee    *float64          `json:"application_fee,omitempty"`
	Deadlines         map[string]string `json:"deadlines,omitempty"`
	PopularMajors     []string          `json:"popular_majors,omitempty"`
	TotalEnrollment   *int              `json:"total_enrollment,omitempty"`
}

// UniversityListResponse wraps matching universities.
type UniversityListResponse struct {
	Universities []models.University `json:"universities"`
}

// UniversityResponse wraps a single university.
type UniversityResponse struct {
	University *models.University `json:"university"`
}
