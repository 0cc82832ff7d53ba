package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	IdentityRepository    *IdentityRepository
	ProfileRepository     *ProfileRepository
	StudentRepository     *StudentRepository
	ParentRepository      *ParentRepository
	UniversityRepository  *UniversityRepository
	ApplicationRepository *ApplicationRepository
	RequirementRepository *RequirementRepository
	ActivityRepository    *ActivityRepository
	TokenRepository       *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		IdentityRepository:    NewIdentityRepository(db),
		ProfileRepository:     NewProfileRepository(db),
		StudentRepository:     NewStudentRepository(db),
		ParentRepository:      NewParentRepository(db),
		UniversityRepository:  NewUniversityRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
		RequirementRepository: NewRequirementRepository(db),
		ActivityRepository:    NewActivityRepository(db),
		TokenRepository:       NewTokenRepository(db),
	}
}
