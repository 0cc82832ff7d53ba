package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile defines the profile model based on the 'profiles' table.
// Exactly one profile exists per identity; the row shares the
// identity's key. Role is immutable once the role-specific extension
// record exists.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      Role      `json:"role" db:"role" example:"student"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
