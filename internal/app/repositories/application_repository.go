package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/dberrors"
)

// ApplicationRepository handles database operations for applications.
// Every read and write is scoped to the owning student so a mismatched
// id behaves like a missing row.
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var applicationColumns = []string{
	"a.id", "a.student_id", "a.university_id", "a.application_type", "a.status",
	"a.priority", "a.deadline", "a.submitted_date", "a.decision_date", "a.decision_type",
	"a.financial_aid_requested", "a.financial_aid_amount", "a.scholarship_offered",
	"a.notes", "a.application_url", "a.created_at", "a.updated_at",
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID, &app.StudentID, &app.UniversityID, &app.ApplicationType, &app.Status,
		&app.Priority, &app.Deadline, &app.SubmittedDate, &app.DecisionDate, &app.DecisionType,
		&app.FinancialAidRequested, &app.FinancialAidAmount, &app.ScholarshipOffered,
		&app.Notes, &app.ApplicationURL, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a new application row
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = models.StatusNotStarted
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO applications (id, student_id, university_id, application_type, status,
			priority, deadline, submitted_date, decision_date, decision_type,
			financial_aid_requested, financial_aid_amount, scholarship_offered,
			notes, application_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		app.ID, app.StudentID, app.UniversityID, app.ApplicationType, app.Status,
		app.Priority, app.Deadline, app.SubmittedDate, app.DecisionDate, app.DecisionType,
		app.FinancialAidRequested, app.FinancialAidAmount, app.ScholarshipOffered,
		app.Notes, app.ApplicationURL).
		Scan(&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUniversityNotFound
		}
		return fmt.Errorf("error creating application: %w", err)
	}

	return nil
}

// GetByID retrieves one application the student owns, with its
// university and requirements attached.
func (r *ApplicationRepository) GetByID(ctx context.Context, id, studentID uuid.UUID) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications a").
		Where(squirrel.Eq{"a.id": id, "a.student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}

	if err := r.attachUniversity(ctx, app); err != nil {
		return nil, err
	}
	if err := r.attachRequirements(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// ListByStudent returns the student's applications in deadline order,
// undated applications last, optionally filtered by status. Each row
// carries its university for list rendering.
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, status models.ApplicationStatus) ([]*models.Application, error) {
	builder := r.sb.Select(applicationColumns...).
		From("applications a").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.deadline ASC NULLS LAST", "a.created_at ASC")

	if status != "" {
		builder = builder.Where(squirrel.Eq{"a.status": status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	for _, app := range apps {
		if err := r.attachUniversity(ctx, app); err != nil {
			return nil, err
		}
	}

	return apps, nil
}

// Update applies the given column set to an application the student
// owns. An empty set is a no-op.
func (r *ApplicationRepository) Update(ctx context.Context, id, studentID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("applications").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update application query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating application: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// Delete removes an application the student owns. Requirements and
// notes go with it via cascade.
func (r *ApplicationRepository) Delete(ctx context.Context, id, studentID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		"DELETE FROM applications WHERE id = $1 AND student_id = $2", id, studentID)
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// ExistsByStudentUniversityType reports whether the student already
// tracks an application of this type at this university.
func (r *ApplicationRepository) ExistsByStudentUniversityType(ctx context.Context, studentID, universityID uuid.UUID, appType models.ApplicationType) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE student_id = $1 AND university_id = $2 AND application_type = $3
		)`, studentID, universityID, appType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking duplicate application: %w", err)
	}
	return exists, nil
}

// GetOwner returns the owning student id without an ownership filter.
// Used to authorize linked-parent reads.
func (r *ApplicationRepository) GetOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var studentID uuid.UUID
	err := r.db.QueryRow(ctx, "SELECT student_id FROM applications WHERE id = $1", id).Scan(&studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperrors.ErrApplicationNotFound
		}
		return uuid.Nil, fmt.Errorf("error retrieving application owner: %w", err)
	}
	return studentID, nil
}

func (r *ApplicationRepository) attachUniversity(ctx context.Context, app *models.Application) error {
	sql, args, err := r.sb.Select(universityColumns...).
		From("universities").
		Where(squirrel.Eq{"id": app.UniversityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build university lookup query: %w", err)
	}

	u, err := scanUniversity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("error loading application university: %w", err)
	}

	app.University = u
	return nil
}

func (r *ApplicationRepository) attachRequirements(ctx context.Context, app *models.Application) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, application_id, requirement_type, requirement_name, status,
			deadline, notes, completed_date, created_at, updated_at
		FROM application_requirements
		WHERE application_id = $1
		ORDER BY deadline ASC NULLS LAST, created_at ASC`, app.ID)
	if err != nil {
		return fmt.Errorf("error loading application requirements: %w", err)
	}
	defer rows.Close()

	var requirements []models.Requirement
	for rows.Next() {
		var req models.Requirement
		err := rows.Scan(
			&req.ID, &req.ApplicationID, &req.RequirementType, &req.RequirementName, &req.Status,
			&req.Deadline, &req.Notes, &req.CompletedDate, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error scanning requirement: %w", err)
		}
		requirements = append(requirements, req)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating requirements: %w", err)
	}

	app.Requirements = requirements
	return nil
}
