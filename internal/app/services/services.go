package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
)

// Services defined in this package:
// - AuthService: signup, login, token refresh and session resolution
// - ProfileService: profile and role extension reads and updates
// - ApplicationService: applications, requirements and the activity feed
// - UniversityService: the university catalog
// - ParentService: parent-student links and parent notes
//
// Each service depends on a narrow store interface satisfied by the
// concrete repositories, so business rules can be tested without a
// database.

// IdentityStore persists credential records.
type IdentityStore interface {
	Create(ctx context.Context, identity *models.Identity) error
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
}

// ProfileStore persists profile rows and the signup unit of work.
type ProfileStore interface {
	CreateWithExtension(ctx context.Context, profile *models.Profile, student *models.Student, parent *models.Parent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
}

// StudentStore persists student extension rows.
type StudentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
}

// ParentStore persists parent extensions, links and notes.
type ParentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Parent, error)
	Update(ctx context.Context, parent *models.Parent) error
	CreateLink(ctx context.Context, link *models.StudentParentLink) error
	GetLinksByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.StudentParentLink, error)
	GetLinksByParent(ctx context.Context, parentID uuid.UUID) ([]*models.StudentParentLink, error)
	IsLinked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error)
	CreateNote(ctx context.Context, note *models.ParentNote) error
	ListNotesByApplication(ctx context.Context, applicationID uuid.UUID, viewerID uuid.UUID, includePrivate bool) ([]*models.ParentNote, error)
	DeleteNote(ctx context.Context, noteID, parentID uuid.UUID) error
}

// UniversityStore persists the university catalog.
type UniversityStore interface {
	Search(ctx context.Context, filter *dto.UniversityFilter, offset, limit int) ([]*models.University, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.University, error)
	Create(ctx context.Context, u *models.University) error
}

// ApplicationStore persists applications scoped to their owner.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id, studentID uuid.UUID) (*models.Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, status models.ApplicationStatus) ([]*models.Application, error)
	Update(ctx context.Context, id, studentID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id, studentID uuid.UUID) error
	ExistsByStudentUniversityType(ctx context.Context, studentID, universityID uuid.UUID, appType models.ApplicationType) (bool, error)
	GetOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// RequirementStore persists requirement checklist items.
type RequirementStore interface {
	Create(ctx context.Context, req *models.Requirement) error
	GetByID(ctx context.Context, id, applicationID uuid.UUID) (*models.Requirement, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Requirement, error)
	Update(ctx context.Context, id, applicationID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id, applicationID uuid.UUID) error
}

// ActivityStore persists the append-only activity log.
type ActivityStore interface {
	Create(ctx context.Context, entry *models.ActivityEntry) error
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.ActivityEntry, error)
}

// TokenStore persists refresh tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID uuid.UUID, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (uuid.UUID, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
}
