package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity defines the identity model based on the 'identities' table.
// It is the provider-side account record: credentials plus the
// role/name metadata captured at registration, which the lazy-repair
// path falls back to when the profile row is missing.
type Identity struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" example:"student@example.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name" example:"Jane Doe"` // Metadata: display name captured at signup
	Role         Role      `json:"role" db:"role" example:"student"`           // Metadata: role hint captured at signup
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
