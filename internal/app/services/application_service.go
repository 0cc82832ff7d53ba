package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

// activityFeedLimit caps the entries returned by the activity feed.
const activityFeedLimit = 50

// ApplicationService handles applications, their requirement checklists
// and the activity feed.
//
// Access rules: a student only ever sees their own rows, and a
// mismatched id behaves like a missing row. A linked parent gets
// read-only access to the student's rows.
type ApplicationService struct {
	applications  ApplicationStore
	requirements  RequirementStore
	universities  UniversityStore
	activity      ActivityStore
	parents       ParentStore
	uniquePerType bool
	logger        zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applications ApplicationStore,
	requirements RequirementStore,
	universities UniversityStore,
	activity ActivityStore,
	parents ParentStore,
	uniquePerType bool,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications:  applications,
		requirements:  requirements,
		universities:  universities,
		activity:      activity,
		parents:       parents,
		uniquePerType: uniquePerType,
		logger:        logger,
	}
}

// CreateApplication creates an application for the authenticated
// student. When no deadline is given it is defaulted from the
// university's published deadline for the application type.
func (s *ApplicationService) CreateApplication(ctx context.Context, studentID uuid.UUID, req *dto.CreateApplicationRequest) (*models.Application, error) {
	if req.StudentID != studentID {
		return nil, apperrors.ErrApplicationNotFound
	}
	if !req.ApplicationType.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid application_type")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid status")
	}

	university, err := s.universities.GetByID(ctx, req.UniversityID)
	if err != nil {
		return nil, err
	}

	if s.uniquePerType {
		exists, err := s.applications.ExistsByStudentUniversityType(ctx, studentID, req.UniversityID, req.ApplicationType)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrDuplicateApplication
		}
	}

	app := &models.Application{
		StudentID:       studentID,
		UniversityID:    req.UniversityID,
		ApplicationType: req.ApplicationType,
		Status:          models.StatusNotStarted,
		Priority:        req.Priority,
		Deadline:        req.Deadline,
		Notes:           req.Notes,
		ApplicationURL:  req.ApplicationURL,
	}
	if req.Status != nil {
		app.Status = *req.Status
	}
	if app.Deadline == nil {
		app.Deadline = deadlineFromCatalog(university, req.ApplicationType)
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	app.University = university

	s.logActivity(ctx, studentID, &models.ActivityEntry{
		UserID:        studentID,
		StudentID:     &studentID,
		ApplicationID: &app.ID,
		Action:        models.ActionCreatedApplication,
		Details: map[string]interface{}{
			"university":       university.Name,
			"application_type": string(app.ApplicationType),
		},
	})

	return app, nil
}

// GetApplication returns one application with university and
// requirements. Students see their own; linked parents may read.
func (s *ApplicationService) GetApplication(ctx context.Context, viewerID uuid.UUID, role models.Role, id uuid.UUID) (*models.Application, error) {
	ownerID, err := s.resolveOwner(ctx, viewerID, role, id)
	if err != nil {
		return nil, err
	}
	return s.applications.GetByID(ctx, id, ownerID)
}

// ListApplications returns a student's applications in deadline order,
// optionally filtered by status.
func (s *ApplicationService) ListApplications(ctx context.Context, viewerID uuid.UUID, role models.Role, studentID uuid.UUID, status models.ApplicationStatus) ([]*models.Application, error) {
	if status != "" && !status.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid status filter")
	}
	if err := s.authorizeStudentRead(ctx, viewerID, role, studentID); err != nil {
		return nil, err
	}
	return s.applications.ListByStudent(ctx, studentID, status)
}

// UpdateApplication applies a partial update to an application the
// student owns.
func (s *ApplicationService) UpdateApplication(ctx context.Context, studentID, id uuid.UUID, req *dto.UpdateApplicationRequest) (*models.Application, error) {
	if req.StudentID != studentID {
		return nil, apperrors.ErrApplicationNotFound
	}

	fields := map[string]interface{}{}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apperrors.NewBadRequestError("invalid status")
		}
		fields["status"] = *req.Status
		// Stamp the submission date the first time the application
		// moves to submitted, unless the caller supplies one.
		if *req.Status == models.StatusSubmitted && req.SubmittedDate == nil {
			fields["submitted_date"] = time.Now()
		}
	}
	if req.DecisionType != nil {
		if !req.DecisionType.IsValid() {
			return nil, apperrors.NewBadRequestError("invalid decision_type")
		}
		fields["decision_type"] = *req.DecisionType
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.Deadline != nil {
		fields["deadline"] = *req.Deadline
	}
	if req.SubmittedDate != nil {
		fields["submitted_date"] = *req.SubmittedDate
	}
	if req.DecisionDate != nil {
		fields["decision_date"] = *req.DecisionDate
	}
	if req.FinancialAidRequested != nil {
		fields["financial_aid_requested"] = *req.FinancialAidRequested
	}
	if req.FinancialAidAmount != nil {
		fields["financial_aid_amount"] = *req.FinancialAidAmount
	}
	if req.ScholarshipOffered != nil {
		fields["scholarship_offered"] = *req.ScholarshipOffered
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ApplicationURL != nil {
		fields["application_url"] = *req.ApplicationURL
	}

	if err := s.applications.Update(ctx, id, studentID, fields); err != nil {
		return nil, err
	}

	app, err := s.applications.GetByID(ctx, id, studentID)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{}
	if req.Status != nil {
		details["status"] = string(*req.Status)
	}
	if req.DecisionType != nil {
		details["decision_type"] = string(*req.DecisionType)
	}
	s.logActivity(ctx, studentID, &models.ActivityEntry{
		UserID:        studentID,
		StudentID:     &studentID,
		ApplicationID: &id,
		Action:        models.ActionUpdatedApplication,
		Details:       details,
	})

	return app, nil
}

// DeleteApplication removes an application the student owns together
// with its requirements and notes.
func (s *ApplicationService) DeleteApplication(ctx context.Context, studentID, id uuid.UUID) error {
	app, err := s.applications.GetByID(ctx, id, studentID)
	if err != nil {
		return err
	}

	if err := s.applications.Delete(ctx, id, studentID); err != nil {
		return err
	}

	details := map[string]interface{}{}
	if app.University != nil {
		details["university"] = app.University.Name
	}
	s.logActivity(ctx, studentID, &models.ActivityEntry{
		UserID:    studentID,
		StudentID: &studentID,
		Action:    models.ActionDeletedApplication,
		Details:   details,
	})

	return nil
}

// AddRequirement adds a checklist item to an application the student owns
func (s *ApplicationService) AddRequirement(ctx context.Context, studentID, applicationID uuid.UUID, req *dto.CreateRequirementRequest) (*models.Requirement, error) {
	if !req.RequirementType.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid requirement_type")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid status")
	}

	if _, err := s.applications.GetByID(ctx, applicationID, studentID); err != nil {
		return nil, err
	}

	requirement := &models.Requirement{
		ApplicationID:   applicationID,
		RequirementType: req.RequirementType,
		RequirementName: req.RequirementName,
		Status:          models.RequirementNotStarted,
		Deadline:        req.Deadline,
		Notes:           req.Notes,
	}
	if req.Status != nil {
		requirement.Status = *req.Status
	}

	if err := s.requirements.Create(ctx, requirement); err != nil {
		return nil, err
	}

	return requirement, nil
}

// ListRequirements returns the checklist of an application the viewer
// may read.
func (s *ApplicationService) ListRequirements(ctx context.Context, viewerID uuid.UUID, role models.Role, applicationID uuid.UUID) ([]*models.Requirement, error) {
	if _, err := s.resolveOwner(ctx, viewerID, role, applicationID); err != nil {
		return nil, err
	}
	return s.requirements.ListByApplication(ctx, applicationID)
}

// UpdateRequirement applies a partial update to a checklist item on an
// application the student owns.
func (s *ApplicationService) UpdateRequirement(ctx context.Context, studentID, applicationID, requirementID uuid.UUID, req *dto.UpdateRequirementRequest) (*models.Requirement, error) {
	if _, err := s.applications.GetByID(ctx, applicationID, studentID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apperrors.NewBadRequestError("invalid status")
		}
		fields["status"] = *req.Status
		if *req.Status == models.RequirementCompleted && req.CompletedDate == nil {
			fields["completed_date"] = time.Now()
		}
	}
	if req.RequirementName != nil {
		fields["requirement_name"] = *req.RequirementName
	}
	if req.Deadline != nil {
		fields["deadline"] = *req.Deadline
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.CompletedDate != nil {
		fields["completed_date"] = *req.CompletedDate
	}

	if err := s.requirements.Update(ctx, requirementID, applicationID, fields); err != nil {
		return nil, err
	}

	return s.requirements.GetByID(ctx, requirementID, applicationID)
}

// DeleteRequirement removes a checklist item from an application the
// student owns.
func (s *ApplicationService) DeleteRequirement(ctx context.Context, studentID, applicationID, requirementID uuid.UUID) error {
	if _, err := s.applications.GetByID(ctx, applicationID, studentID); err != nil {
		return err
	}
	return s.requirements.Delete(ctx, requirementID, applicationID)
}

// ListActivity returns the most recent activity entries for a student
// the viewer may read, newest first.
func (s *ApplicationService) ListActivity(ctx context.Context, viewerID uuid.UUID, role models.Role, studentID uuid.UUID) ([]*models.ActivityEntry, error) {
	if err := s.authorizeStudentRead(ctx, viewerID, role, studentID); err != nil {
		return nil, err
	}
	return s.activity.ListByStudent(ctx, studentID, activityFeedLimit)
}

// authorizeStudentRead checks that the viewer may read the student's
// data: the student themselves, or a linked parent. An unauthorized
// viewer gets the same not-found error as a nonexistent resource so
// the response never confirms what exists.
func (s *ApplicationService) authorizeStudentRead(ctx context.Context, viewerID uuid.UUID, role models.Role, studentID uuid.UUID) error {
	switch role {
	case models.RoleStudent:
		if viewerID != studentID {
			return apperrors.ErrApplicationNotFound
		}
		return nil
	case models.RoleParent:
		linked, err := s.parents.IsLinked(ctx, viewerID, studentID)
		if err != nil {
			return err
		}
		if !linked {
			return apperrors.ErrApplicationNotFound
		}
		return nil
	case models.RoleAdmin:
		return nil
	}
	return apperrors.ErrPermissionDenied
}

// resolveOwner returns the owning student of an application after
// checking the viewer may read it. An unlinked parent gets the same
// not-found error as a nonexistent application.
func (s *ApplicationService) resolveOwner(ctx context.Context, viewerID uuid.UUID, role models.Role, applicationID uuid.UUID) (uuid.UUID, error) {
	switch role {
	case models.RoleStudent:
		return viewerID, nil
	case models.RoleParent:
		ownerID, err := s.applications.GetOwner(ctx, applicationID)
		if err != nil {
			return uuid.Nil, err
		}
		linked, err := s.parents.IsLinked(ctx, viewerID, ownerID)
		if err != nil {
			return uuid.Nil, err
		}
		if !linked {
			return uuid.Nil, apperrors.ErrApplicationNotFound
		}
		return ownerID, nil
	case models.RoleAdmin:
		return s.applications.GetOwner(ctx, applicationID)
	}
	return uuid.Nil, apperrors.ErrPermissionDenied
}

// logActivity appends an activity entry. Logging failures are warned
// about and never fail the underlying operation.
func (s *ApplicationService) logActivity(ctx context.Context, studentID uuid.UUID, entry *models.ActivityEntry) {
	if err := s.activity.Create(ctx, entry); err != nil {
		s.logger.Warn().Err(err).
			Str("studentId", studentID.String()).
			Str("action", entry.Action).
			Msg("Failed to record activity entry")
	}
}

// deadlineFromCatalog looks up the university's published deadline for
// the application type. Returns nil when the catalog has none or the
// date does not parse.
func deadlineFromCatalog(u *models.University, appType models.ApplicationType) *time.Time {
	raw, ok := u.Deadlines[string(appType)]
	if !ok || raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}
