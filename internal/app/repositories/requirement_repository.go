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

// RequirementRepository handles database operations for the
// per-application requirement checklist.
type RequirementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequirementRepository creates a new RequirementRepository
func NewRequirementRepository(db *pgxpool.Pool) *RequirementRepository {
	return &RequirementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new requirement under an application
func (r *RequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = models.RequirementNotStarted
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO application_requirements (id, application_id, requirement_type,
			requirement_name, status, deadline, notes, completed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		req.ID, req.ApplicationID, req.RequirementType, req.RequirementName,
		req.Status, req.Deadline, req.Notes, req.CompletedDate).
		Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrApplicationNotFound
		}
		return fmt.Errorf("error creating requirement: %w", err)
	}

	return nil
}

// GetByID retrieves a requirement scoped to its application
func (r *RequirementRepository) GetByID(ctx context.Context, id, applicationID uuid.UUID) (*models.Requirement, error) {
	var req models.Requirement
	err := r.db.QueryRow(ctx, `
		SELECT id, application_id, requirement_type, requirement_name, status,
			deadline, notes, completed_date, created_at, updated_at
		FROM application_requirements
		WHERE id = $1 AND application_id = $2`, id, applicationID).
		Scan(&req.ID, &req.ApplicationID, &req.RequirementType, &req.RequirementName, &req.Status,
			&req.Deadline, &req.Notes, &req.CompletedDate, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequirementNotFound
		}
		return nil, fmt.Errorf("error retrieving requirement: %w", err)
	}

	return &req, nil
}

// ListByApplication returns all requirements of an application in
// deadline order, undated items last.
func (r *RequirementRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Requirement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, application_id, requirement_type, requirement_name, status,
			deadline, notes, completed_date, created_at, updated_at
		FROM application_requirements
		WHERE application_id = $1
		ORDER BY deadline ASC NULLS LAST, created_at ASC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("error listing requirements: %w", err)
	}
	defer rows.Close()

	var requirements []*models.Requirement
	for rows.Next() {
		var req models.Requirement
		err := rows.Scan(
			&req.ID, &req.ApplicationID, &req.RequirementType, &req.RequirementName, &req.Status,
			&req.Deadline, &req.Notes, &req.CompletedDate, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning requirement: %w", err)
		}
		requirements = append(requirements, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requirements: %w", err)
	}

	return requirements, nil
}

// Update applies the given column set to a requirement scoped to its
// application. An empty set is a no-op.
func (r *RequirementRepository) Update(ctx context.Context, id, applicationID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("application_requirements").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "application_id": applicationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update requirement query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating requirement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequirementNotFound
	}

	return nil
}

// Delete removes a requirement scoped to its application
func (r *RequirementRepository) Delete(ctx context.Context, id, applicationID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		"DELETE FROM application_requirements WHERE id = $1 AND application_id = $2", id, applicationID)
	if err != nil {
		return fmt.Errorf("error deleting requirement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequirementNotFound
	}

	return nil
}
