package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

type parentFixture struct {
	service      *ParentService
	parents      *stubParentStore
	profiles     *stubProfileStore
	applications *stubApplicationStore

	studentID     uuid.UUID
	parentID      uuid.UUID
	applicationID uuid.UUID
}

func newParentFixture(t *testing.T) *parentFixture {
	t.Helper()

	students := newStubStudentStore()
	parents := newStubParentStore()
	profiles := newStubProfileStore(students, parents)
	applications := newStubApplicationStore()

	studentID := uuid.New()
	parentID := uuid.New()
	profiles.profiles[parentID] = &models.Profile{
		ID:       parentID,
		Email:    "mother@example.com",
		FullName: "Mary Doe",
		Role:     models.RoleParent,
	}

	app := &models.Application{StudentID: studentID, ApplicationType: models.TypeEarlyAction}
	require.NoError(t, applications.Create(context.Background(), app))

	return &parentFixture{
		service:       NewParentService(parents, profiles, applications, zerolog.Nop()),
		parents:       parents,
		profiles:      profiles,
		applications:  applications,
		studentID:     studentID,
		parentID:      parentID,
		applicationID: app.ID,
	}
}

func (fx *parentFixture) link(t *testing.T) {
	t.Helper()
	_, err := fx.service.LinkParent(context.Background(), fx.studentID, &dto.LinkParentRequest{
		ParentEmail:  "mother@example.com",
		Relationship: "mother",
	})
	require.NoError(t, err)
}

func TestLinkParent(t *testing.T) {
	fx := newParentFixture(t)

	link, err := fx.service.LinkParent(context.Background(), fx.studentID, &dto.LinkParentRequest{
		ParentEmail:  "Mother@Example.com",
		Relationship: "mother",
	})
	require.NoError(t, err)
	assert.Equal(t, fx.parentID, link.ParentID)
	assert.Equal(t, fx.studentID, link.StudentID)
	assert.Equal(t, "mother", link.Relationship)
	require.NotNil(t, link.ParentProfile)
	assert.Equal(t, "Mary Doe", link.ParentProfile.FullName)
}

func TestLinkParentUnknownEmail(t *testing.T) {
	fx := newParentFixture(t)

	_, err := fx.service.LinkParent(context.Background(), fx.studentID, &dto.LinkParentRequest{
		ParentEmail:  "nobody@example.com",
		Relationship: "father",
	})
	assert.ErrorIs(t, err, apperrors.ErrParentNotFound)
}

func TestLinkParentWrongRole(t *testing.T) {
	fx := newParentFixture(t)

	// A student account cannot be linked as a parent.
	otherID := uuid.New()
	fx.profiles.profiles[otherID] = &models.Profile{
		ID:    otherID,
		Email: "friend@example.com",
		Role:  models.RoleStudent,
	}

	_, err := fx.service.LinkParent(context.Background(), fx.studentID, &dto.LinkParentRequest{
		ParentEmail:  "friend@example.com",
		Relationship: "guardian",
	})
	assert.ErrorIs(t, err, apperrors.ErrParentNotFound)
}

func TestLinkParentDuplicate(t *testing.T) {
	fx := newParentFixture(t)
	fx.link(t)

	_, err := fx.service.LinkParent(context.Background(), fx.studentID, &dto.LinkParentRequest{
		ParentEmail:  "mother@example.com",
		Relationship: "mother",
	})
	assert.ErrorIs(t, err, apperrors.ErrLinkAlreadyExists)
}

func TestListLinks(t *testing.T) {
	fx := newParentFixture(t)
	fx.link(t)

	parents, err := fx.service.ListParents(context.Background(), fx.studentID)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, fx.parentID, parents[0].ParentID)

	students, err := fx.service.ListStudents(context.Background(), fx.parentID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, fx.studentID, students[0].StudentID)
}

func TestCreateNoteRequiresLink(t *testing.T) {
	fx := newParentFixture(t)

	// Before linking, the application behaves like a missing row.
	_, err := fx.service.CreateNote(context.Background(), fx.parentID, &dto.CreateParentNoteRequest{
		ApplicationID: fx.applicationID,
		NoteText:      "looks promising",
	})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	fx.link(t)
	note, err := fx.service.CreateNote(context.Background(), fx.parentID, &dto.CreateParentNoteRequest{
		ApplicationID: fx.applicationID,
		NoteText:      "looks promising",
	})
	require.NoError(t, err)
	assert.Equal(t, fx.studentID, note.StudentID)
	assert.Equal(t, fx.parentID, note.ParentID)
}

func TestCreateNoteUnknownApplication(t *testing.T) {
	fx := newParentFixture(t)
	fx.link(t)

	_, err := fx.service.CreateNote(context.Background(), fx.parentID, &dto.CreateParentNoteRequest{
		ApplicationID: uuid.New(),
		NoteText:      "?",
	})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestListNotesPrivacy(t *testing.T) {
	fx := newParentFixture(t)
	fx.link(t)

	// A second linked parent with notes of their own.
	otherParentID := uuid.New()
	fx.profiles.profiles[otherParentID] = &models.Profile{
		ID:    otherParentID,
		Email: "father@example.com",
		Role:  models.RoleParent,
	}
	_, err := fx.service.LinkParent(context.Background(), fx.studentID, &dto.LinkParentRequest{
		ParentEmail:  "father@example.com",
		Relationship: "father",
	})
	require.NoError(t, err)

	_, err = fx.service.CreateNote(context.Background(), fx.parentID, &dto.CreateParentNoteRequest{
		ApplicationID: fx.applicationID,
		NoteText:      "shared note",
	})
	require.NoError(t, err)
	_, err = fx.service.CreateNote(context.Background(), fx.parentID, &dto.CreateParentNoteRequest{
		ApplicationID: fx.applicationID,
		NoteText:      "my private note",
		IsPrivate:     true,
	})
	require.NoError(t, err)
	_, err = fx.service.CreateNote(context.Background(), otherParentID, &dto.CreateParentNoteRequest{
		ApplicationID: fx.applicationID,
		NoteText:      "other private note",
		IsPrivate:     true,
	})
	require.NoError(t, err)

	// The student sees shared notes only.
	notes, err := fx.service.ListNotes(context.Background(), fx.studentID, models.RoleStudent, fx.applicationID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "shared note", notes[0].NoteText)

	// A parent sees shared notes plus their own private ones.
	notes, err = fx.service.ListNotes(context.Background(), fx.parentID, models.RoleParent, fx.applicationID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	// Admins see everything.
	notes, err = fx.service.ListNotes(context.Background(), uuid.New(), models.RoleAdmin, fx.applicationID)
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	// An unlinked parent gets the same not-found as a missing row.
	_, err = fx.service.ListNotes(context.Background(), uuid.New(), models.RoleParent, fx.applicationID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	// Another student cannot read the owner's notes.
	_, err = fx.service.ListNotes(context.Background(), uuid.New(), models.RoleStudent, fx.applicationID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestDeleteNoteOwnership(t *testing.T) {
	fx := newParentFixture(t)
	fx.link(t)

	note, err := fx.service.CreateNote(context.Background(), fx.parentID, &dto.CreateParentNoteRequest{
		ApplicationID: fx.applicationID,
		NoteText:      "to be removed",
	})
	require.NoError(t, err)

	// Only the author may delete.
	err = fx.service.DeleteNote(context.Background(), uuid.New(), note.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	require.NoError(t, fx.service.DeleteNote(context.Background(), fx.parentID, note.ID))
}
