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
	"github.com/applytrack/applytrack/internal/db"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/logger"
)

// ProfileRepository handles profile rows and the signup unit of work
// that creates a profile together with its role extension.
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateWithExtension inserts the profile row and its role extension
// in one transaction. Both inserts are idempotent: re-running the
// signup repair for an identity that already has rows is a no-op.
// Exactly one of student/parent may be non-nil, matching profile.Role.
func (r *ProfileRepository) CreateWithExtension(ctx context.Context, profile *models.Profile, student *models.Student, parent *models.Parent) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (id, email, full_name, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			profile.ID, profile.Email, profile.FullName, profile.Role)
		if err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}

		switch {
		case student != nil:
			_, err = tx.Exec(ctx, `
				INSERT INTO students (id, graduation_year, gpa, sat_score, act_score,
					target_countries, intended_majors, high_school, counselor_name, counselor_email)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (id) DO NOTHING`,
				student.ID, student.GraduationYear, student.GPA, student.SATScore, student.ACTScore,
				student.TargetCountries, student.IntendedMajors, student.HighSchool,
				student.CounselorName, student.CounselorEmail)
			if err != nil {
				return fmt.Errorf("error creating student record: %w", err)
			}
		case parent != nil:
			_, err = tx.Exec(ctx, `
				INSERT INTO parents (id, phone, occupation)
				VALUES ($1, $2, $3)
				ON CONFLICT (id) DO NOTHING`,
				parent.ID, parent.Phone, parent.Occupation)
			if err != nil {
				return fmt.Errorf("error creating parent record: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a profile by its key
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	sql, args, err := r.sb.Select("id", "email", "full_name", "role", "avatar_url", "created_at", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	var profile models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Role,
		&profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return &profile, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	sql, args, err := r.sb.Select("id", "email", "full_name", "role", "avatar_url", "created_at", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile by email query: %w", err)
	}

	var profile models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Role,
		&profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return &profile, nil
}

// UpdateFullName updates the display name
func (r *ProfileRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("full_name", fullName).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdateAvatarURL stores the avatar location for a profile
func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("avatar_url", avatarURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update avatar query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileId", id.String()).Msg("Error updating avatar URL")
		return fmt.Errorf("error updating avatar: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}
