package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

// ParentService handles parent-student links and parent notes.
// Links are created by the student; a link grants the parent read
// access to the student's applications and the right to attach notes.
type ParentService struct {
	parents      ParentStore
	profiles     ProfileStore
	applications ApplicationStore
	logger       zerolog.Logger
}

// NewParentService creates a new ParentService
func NewParentService(
	parents ParentStore,
	profiles ProfileStore,
	applications ApplicationStore,
	logger zerolog.Logger,
) *ParentService {
	return &ParentService{
		parents:      parents,
		profiles:     profiles,
		applications: applications,
		logger:       logger,
	}
}

// LinkParent links a parent account, looked up by email, to the
// authenticated student.
func (s *ParentService) LinkParent(ctx context.Context, studentID uuid.UUID, req *dto.LinkParentRequest) (*models.StudentParentLink, error) {
	email := strings.ToLower(strings.TrimSpace(req.ParentEmail))

	parentProfile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrParentNotFound
	}
	if parentProfile.Role != models.RoleParent {
		return nil, apperrors.ErrParentNotFound
	}

	link := &models.StudentParentLink{
		StudentID:     studentID,
		ParentID:      parentProfile.ID,
		Relationship:  req.Relationship,
		ParentProfile: parentProfile,
	}
	if err := s.parents.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("studentId", studentID.String()).
		Str("parentId", parentProfile.ID.String()).
		Msg("Parent linked to student")

	return link, nil
}

// ListParents returns the parents linked to the authenticated student
func (s *ParentService) ListParents(ctx context.Context, studentID uuid.UUID) ([]*models.StudentParentLink, error) {
	return s.parents.GetLinksByStudent(ctx, studentID)
}

// ListStudents returns the students the authenticated parent is linked to
func (s *ParentService) ListStudents(ctx context.Context, parentID uuid.UUID) ([]*models.StudentParentLink, error) {
	return s.parents.GetLinksByParent(ctx, parentID)
}

// CreateNote attaches a parent note to an application of a linked
// student. An unlinked parent gets the same not-found error as a
// nonexistent application.
func (s *ParentService) CreateNote(ctx context.Context, parentID uuid.UUID, req *dto.CreateParentNoteRequest) (*models.ParentNote, error) {
	ownerID, err := s.applications.GetOwner(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	linked, err := s.parents.IsLinked(ctx, parentID, ownerID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, apperrors.ErrApplicationNotFound
	}

	note := &models.ParentNote{
		ParentID:      parentID,
		StudentID:     ownerID,
		ApplicationID: req.ApplicationID,
		NoteText:      req.NoteText,
		IsPrivate:     req.IsPrivate,
	}
	if err := s.parents.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// ListNotes returns the notes on an application the viewer may read.
// The owning student sees shared notes only; a parent sees shared
// notes plus their own private ones.
func (s *ParentService) ListNotes(ctx context.Context, viewerID uuid.UUID, role models.Role, applicationID uuid.UUID) ([]*models.ParentNote, error) {
	ownerID, err := s.applications.GetOwner(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleStudent:
		if viewerID != ownerID {
			return nil, apperrors.ErrApplicationNotFound
		}
	case models.RoleParent:
		linked, err := s.parents.IsLinked(ctx, viewerID, ownerID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, apperrors.ErrApplicationNotFound
		}
	case models.RoleAdmin:
		return s.parents.ListNotesByApplication(ctx, applicationID, viewerID, true)
	default:
		return nil, apperrors.ErrPermissionDenied
	}

	return s.parents.ListNotesByApplication(ctx, applicationID, viewerID, false)
}

// DeleteNote removes a note the authenticated parent authored
func (s *ParentService) DeleteNote(ctx context.Context, parentID, noteID uuid.UUID) error {
	return s.parents.DeleteNote(ctx, noteID, parentID)
}
