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
)

// StudentRepository handles database operations for student extension records
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const studentColumns = `id, graduation_year, gpa, sat_score, act_score,
	target_countries, intended_majors, high_school, counselor_name, counselor_email,
	created_at, updated_at`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID, &student.GraduationYear, &student.GPA, &student.SATScore, &student.ACTScore,
		&student.TargetCountries, &student.IntendedMajors, &student.HighSchool,
		&student.CounselorName, &student.CounselorEmail,
		&student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByID retrieves a student extension by profile id
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// Exists reports whether a student extension row exists for the profile id
func (r *StudentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// Update applies a full update of the mutable student fields
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("graduation_year", student.GraduationYear).
		Set("gpa", student.GPA).
		Set("sat_score", student.SATScore).
		Set("act_score", student.ACTScore).
		Set("target_countries", student.TargetCountries).
		Set("intended_majors", student.IntendedMajors).
		Set("high_school", student.HighSchool).
		Set("counselor_name", student.CounselorName).
		Set("counselor_email", student.CounselorEmail).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
