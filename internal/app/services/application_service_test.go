package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

type applicationFixture struct {
	service      *ApplicationService
	applications *stubApplicationStore
	requirements *stubRequirementStore
	universities *stubUniversityStore
	activity     *stubActivityStore
	parents      *stubParentStore

	studentID  uuid.UUID
	university *models.University
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()

	applications := newStubApplicationStore()
	requirements := newStubRequirementStore()
	universities := newStubUniversityStore()
	activity := newStubActivityStore()
	parents := newStubParentStore()

	university := universities.add(&models.University{
		Name:    "Stanford University",
		Country: "United States",
		Deadlines: map[string]string{
			"early_action":     "2026-11-01",
			"regular_decision": "2027-01-05",
		},
	})

	return &applicationFixture{
		service:      NewApplicationService(applications, requirements, universities, activity, parents, true, zerolog.Nop()),
		applications: applications,
		requirements: requirements,
		universities: universities,
		activity:     activity,
		parents:      parents,
		studentID:    uuid.New(),
		university:   university,
	}
}

func (fx *applicationFixture) createApplication(t *testing.T, appType models.ApplicationType) *models.Application {
	t.Helper()
	app, err := fx.service.CreateApplication(context.Background(), fx.studentID, &dto.CreateApplicationRequest{
		StudentID:       fx.studentID,
		UniversityID:    fx.university.ID,
		ApplicationType: appType,
	})
	require.NoError(t, err)
	return app
}

func (fx *applicationFixture) linkParent(parentID uuid.UUID) {
	fx.parents.links = append(fx.parents.links, &models.StudentParentLink{
		ID:        uuid.New(),
		StudentID: fx.studentID,
		ParentID:  parentID,
	})
}

func TestCreateApplicationDefaultsDeadlineFromCatalog(t *testing.T) {
	fx := newApplicationFixture(t)

	app := fx.createApplication(t, models.TypeEarlyAction)

	require.NotNil(t, app.Deadline)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), *app.Deadline)
	assert.Equal(t, models.StatusNotStarted, app.Status)
}

func TestCreateApplicationKeepsExplicitDeadline(t *testing.T) {
	fx := newApplicationFixture(t)

	deadline := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	app, err := fx.service.CreateApplication(context.Background(), fx.studentID, &dto.CreateApplicationRequest{
		StudentID:       fx.studentID,
		UniversityID:    fx.university.ID,
		ApplicationType: models.TypeEarlyAction,
		Deadline:        &deadline,
	})
	require.NoError(t, err)
	require.NotNil(t, app.Deadline)
	assert.Equal(t, deadline, *app.Deadline)
}

func TestCreateApplicationNoCatalogDeadline(t *testing.T) {
	fx := newApplicationFixture(t)

	// Rolling admission has no catalog entry for this university.
	app := fx.createApplication(t, models.TypeRollingAdmission)
	assert.Nil(t, app.Deadline)
}

func TestCreateApplicationDuplicateType(t *testing.T) {
	fx := newApplicationFixture(t)

	fx.createApplication(t, models.TypeEarlyAction)

	_, err := fx.service.CreateApplication(context.Background(), fx.studentID, &dto.CreateApplicationRequest{
		StudentID:       fx.studentID,
		UniversityID:    fx.university.ID,
		ApplicationType: models.TypeEarlyAction,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)

	// A different type at the same university is allowed.
	fx.createApplication(t, models.TypeRegularDecision)
}

func TestCreateApplicationDuplicateTypeAllowedWhenConfigured(t *testing.T) {
	fx := newApplicationFixture(t)
	fx.service = NewApplicationService(
		fx.applications, fx.requirements, fx.universities, fx.activity, fx.parents, false, zerolog.Nop())

	first := fx.createApplication(t, models.TypeEarlyAction)
	second := fx.createApplication(t, models.TypeEarlyAction)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateApplicationMismatchedStudent(t *testing.T) {
	fx := newApplicationFixture(t)

	_, err := fx.service.CreateApplication(context.Background(), fx.studentID, &dto.CreateApplicationRequest{
		StudentID:       uuid.New(),
		UniversityID:    fx.university.ID,
		ApplicationType: models.TypeEarlyAction,
	})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestCreateApplicationUnknownUniversity(t *testing.T) {
	fx := newApplicationFixture(t)

	_, err := fx.service.CreateApplication(context.Background(), fx.studentID, &dto.CreateApplicationRequest{
		StudentID:       fx.studentID,
		UniversityID:    uuid.New(),
		ApplicationType: models.TypeEarlyAction,
	})
	assert.ErrorIs(t, err, apperrors.ErrUniversityNotFound)
}

func TestCreateApplicationActivityFailureIsNonFatal(t *testing.T) {
	fx := newApplicationFixture(t)
	fx.activity.createErr = errors.New("insert failed")

	app := fx.createApplication(t, models.TypeEarlyAction)
	assert.NotEqual(t, uuid.Nil, app.ID)
	assert.Empty(t, fx.activity.entries)
}

func TestCreateApplicationRecordsActivity(t *testing.T) {
	fx := newApplicationFixture(t)

	app := fx.createApplication(t, models.TypeEarlyAction)

	entries, err := fx.service.ListActivity(context.Background(), fx.studentID, models.RoleStudent, fx.studentID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionCreatedApplication, entries[0].Action)
	require.NotNil(t, entries[0].ApplicationID)
	assert.Equal(t, app.ID, *entries[0].ApplicationID)
	assert.Equal(t, "Stanford University", entries[0].Details["university"])
}

func TestGetApplicationAccess(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	// Owner reads their own row.
	_, err := fx.service.GetApplication(context.Background(), fx.studentID, models.RoleStudent, app.ID)
	assert.NoError(t, err)

	// Another student gets a not-found, not a forbidden.
	_, err = fx.service.GetApplication(context.Background(), uuid.New(), models.RoleStudent, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	// An unlinked parent gets the same not-found as a missing row.
	parentID := uuid.New()
	_, err = fx.service.GetApplication(context.Background(), parentID, models.RoleParent, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	// A linked parent may read.
	fx.linkParent(parentID)
	got, err := fx.service.GetApplication(context.Background(), parentID, models.RoleParent, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	// Admins may read anything.
	_, err = fx.service.GetApplication(context.Background(), uuid.New(), models.RoleAdmin, app.ID)
	assert.NoError(t, err)
}

func TestUnlinkedParentCannotDistinguishExistingApplications(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)
	parentID := uuid.New()

	// The error for a real application must match the error for a made-up
	// id, otherwise a parent could enumerate foreign application ids.
	_, errExisting := fx.service.GetApplication(context.Background(), parentID, models.RoleParent, app.ID)
	_, errMissing := fx.service.GetApplication(context.Background(), parentID, models.RoleParent, uuid.New())
	assert.ErrorIs(t, errExisting, apperrors.ErrApplicationNotFound)
	assert.Equal(t, errMissing, errExisting)

	_, errExisting = fx.service.ListRequirements(context.Background(), parentID, models.RoleParent, app.ID)
	_, errMissing = fx.service.ListRequirements(context.Background(), parentID, models.RoleParent, uuid.New())
	assert.ErrorIs(t, errExisting, apperrors.ErrApplicationNotFound)
	assert.Equal(t, errMissing, errExisting)
}

func TestListApplicationsStatusFilter(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)
	fx.createApplication(t, models.TypeRegularDecision)

	submitted := models.StatusSubmitted
	_, err := fx.service.UpdateApplication(context.Background(), fx.studentID, app.ID, &dto.UpdateApplicationRequest{
		StudentID: fx.studentID,
		Status:    &submitted,
	})
	require.NoError(t, err)

	apps, err := fx.service.ListApplications(context.Background(), fx.studentID, models.RoleStudent, fx.studentID, models.StatusSubmitted)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, app.ID, apps[0].ID)

	_, err = fx.service.ListApplications(context.Background(), fx.studentID, models.RoleStudent, fx.studentID, "bogus")
	assert.Error(t, err)
}

func TestListApplicationsDeadlineOrdering(t *testing.T) {
	fx := newApplicationFixture(t)

	later := time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)
	withLater, err := fx.service.CreateApplication(context.Background(), fx.studentID, &dto.CreateApplicationRequest{
		StudentID:       fx.studentID,
		UniversityID:    fx.university.ID,
		ApplicationType: models.TypeRegularDecision,
		Deadline:        &later,
	})
	require.NoError(t, err)

	// Rolling admission has no catalog deadline, so the row is undated.
	undated := fx.createApplication(t, models.TypeRollingAdmission)
	require.Nil(t, undated.Deadline)

	earlier := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	withEarlier, err := fx.service.CreateApplication(context.Background(), fx.studentID, &dto.CreateApplicationRequest{
		StudentID:       fx.studentID,
		UniversityID:    fx.university.ID,
		ApplicationType: models.TypeEarlyAction,
		Deadline:        &earlier,
	})
	require.NoError(t, err)

	// Deadline ascending, undated rows last.
	apps, err := fx.service.ListApplications(context.Background(), fx.studentID, models.RoleStudent, fx.studentID, "")
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, withEarlier.ID, apps[0].ID)
	assert.Equal(t, withLater.ID, apps[1].ID)
	assert.Equal(t, undated.ID, apps[2].ID)
}

func TestListApplicationsParentAccess(t *testing.T) {
	fx := newApplicationFixture(t)
	fx.createApplication(t, models.TypeEarlyAction)

	parentID := uuid.New()
	_, err := fx.service.ListApplications(context.Background(), parentID, models.RoleParent, fx.studentID, "")
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	fx.linkParent(parentID)
	apps, err := fx.service.ListApplications(context.Background(), parentID, models.RoleParent, fx.studentID, "")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestUpdateApplicationStampsSubmittedDate(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	submitted := models.StatusSubmitted
	updated, err := fx.service.UpdateApplication(context.Background(), fx.studentID, app.ID, &dto.UpdateApplicationRequest{
		StudentID: fx.studentID,
		Status:    &submitted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, updated.Status)
	require.NotNil(t, updated.SubmittedDate)
	assert.WithinDuration(t, time.Now(), *updated.SubmittedDate, time.Minute)
}

func TestUpdateApplicationExplicitSubmittedDate(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	submitted := models.StatusSubmitted
	submittedAt := time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC)
	updated, err := fx.service.UpdateApplication(context.Background(), fx.studentID, app.ID, &dto.UpdateApplicationRequest{
		StudentID:     fx.studentID,
		Status:        &submitted,
		SubmittedDate: &submittedAt,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.SubmittedDate)
	assert.Equal(t, submittedAt, *updated.SubmittedDate)
}

func TestUpdateApplicationWrongOwner(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	other := uuid.New()
	notes := "mine now"
	_, err := fx.service.UpdateApplication(context.Background(), other, app.ID, &dto.UpdateApplicationRequest{
		StudentID: other,
		Notes:     &notes,
	})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestDeleteApplication(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	require.NoError(t, fx.service.DeleteApplication(context.Background(), fx.studentID, app.ID))

	_, err := fx.service.GetApplication(context.Background(), fx.studentID, models.RoleStudent, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	entries, err := fx.service.ListActivity(context.Background(), fx.studentID, models.RoleStudent, fx.studentID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionDeletedApplication, entries[0].Action)
}

func TestDeleteApplicationWrongOwner(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	err := fx.service.DeleteApplication(context.Background(), uuid.New(), app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestAddRequirement(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	req, err := fx.service.AddRequirement(context.Background(), fx.studentID, app.ID, &dto.CreateRequirementRequest{
		RequirementType: models.RequirementEssay,
		RequirementName: "Common App Essay",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequirementNotStarted, req.Status)

	// Adding to someone else's application reads as not found.
	_, err = fx.service.AddRequirement(context.Background(), uuid.New(), app.ID, &dto.CreateRequirementRequest{
		RequirementType: models.RequirementEssay,
		RequirementName: "Essay",
	})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestUpdateRequirementStampsCompletedDate(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	req, err := fx.service.AddRequirement(context.Background(), fx.studentID, app.ID, &dto.CreateRequirementRequest{
		RequirementType: models.RequirementTranscript,
		RequirementName: "Official Transcript",
	})
	require.NoError(t, err)

	completed := models.RequirementCompleted
	updated, err := fx.service.UpdateRequirement(context.Background(), fx.studentID, app.ID, req.ID, &dto.UpdateRequirementRequest{
		Status: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequirementCompleted, updated.Status)
	require.NotNil(t, updated.CompletedDate)
	assert.WithinDuration(t, time.Now(), *updated.CompletedDate, time.Minute)
}

func TestDeleteRequirement(t *testing.T) {
	fx := newApplicationFixture(t)
	app := fx.createApplication(t, models.TypeEarlyAction)

	req, err := fx.service.AddRequirement(context.Background(), fx.studentID, app.ID, &dto.CreateRequirementRequest{
		RequirementType: models.RequirementInterview,
		RequirementName: "Alumni Interview",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteRequirement(context.Background(), fx.studentID, app.ID, req.ID))

	reqs, err := fx.service.ListRequirements(context.Background(), fx.studentID, models.RoleStudent, app.ID)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestListActivityAccess(t *testing.T) {
	fx := newApplicationFixture(t)
	fx.createApplication(t, models.TypeEarlyAction)

	// Another student cannot read the feed.
	_, err := fx.service.ListActivity(context.Background(), uuid.New(), models.RoleStudent, fx.studentID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	// A linked parent can.
	parentID := uuid.New()
	fx.linkParent(parentID)
	entries, err := fx.service.ListActivity(context.Background(), parentID, models.RoleParent, fx.studentID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
