package models

import (
	"time"

	"github.com/google/uuid"
)

// University defines reference data based on the 'universities' table.
// Rows have no owner; they are created and updated administratively.
type University struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	Name              string            `json:"name" db:"name" example:"Stanford University"`
	ShortName         *string           `json:"short_name,omitempty" db:"short_name" example:"Stanford"`
	Country           string            `json:"country" db:"country" example:"United States"`
	State             *string           `json:"state,omitempty" db:"state" example:"CA"`
	City              *string           `json:"city,omitempty" db:"city" example:"Stanford"`
	WebsiteURL        *string           `json:"website_url,omitempty" db:"website_url"`
	Ranking           *int              `json:"ranking,omitempty" db:"ranking" example:"3"`
	AcceptanceRate    *float64          `json:"acceptance_rate,omitempty" db:"acceptance_rate" example:"3.9"`
	ApplicationSystem *string           `json:"application_system,omitempty" db:"application_system" example:"Common App"`
	TuitionInState    *float64          `json:"tuition_in_state,omitempty" db:"tuition_in_state"`
	TuitionOutState   *float64          `json:"tuition_out_state,omitempty" db:"tuition_out_state"`
	RoomAndBoard      *float64          `json:"room_and_board,omitempty" db:"room_and_board"`
	ApplicationFee    *float64          `json:"application_fee,omitempty" db:"application_fee"`
	Deadlines         map[string]string `json:"deadlines" db:"deadlines"` // application type -> ISO date
	PopularMajors     []string          `json:"popular_majors" db:"popular_majors"`
	TotalEnrollment   *int              `json:"total_enrollment,omitempty" db:"total_enrollment"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}
