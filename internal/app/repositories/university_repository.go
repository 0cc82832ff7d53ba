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
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/dberrors"
)

// UniversityRepository handles database operations for the university catalog
type UniversityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUniversityRepository creates a new UniversityRepository
func NewUniversityRepository(db *pgxpool.Pool) *UniversityRepository {
	return &UniversityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var universityColumns = []string{
	"id", "name", "short_name", "country", "state", "city", "website_url",
	"ranking", "acceptance_rate", "application_system",
	"tuition_in_state", "tuition_out_state", "room_and_board", "application_fee",
	"deadlines", "popular_majors", "total_enrollment", "created_at", "updated_at",
}

func scanUniversity(row pgx.Row) (*models.University, error) {
	var u models.University
	err := row.Scan(
		&u.ID, &u.Name, &u.ShortName, &u.Country, &u.State, &u.City, &u.WebsiteURL,
		&u.Ranking, &u.AcceptanceRate, &u.ApplicationSystem,
		&u.TuitionInState, &u.TuitionOutState, &u.RoomAndBoard, &u.ApplicationFee,
		&u.Deadlines, &u.PopularMajors, &u.TotalEnrollment, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// applyUniversityFilter adds the filter's conditions to a select over
// the universities table. The free-text term matches name, short name,
// city and state.
func applyUniversityFilter(b squirrel.SelectBuilder, filter *dto.UniversityFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"short_name": pattern},
			squirrel.ILike{"city": pattern},
			squirrel.ILike{"state": pattern},
		})
	}
	if filter.Country != "" {
		b = b.Where(squirrel.Eq{"country": filter.Country})
	}
	if filter.State != "" {
		b = b.Where(squirrel.Eq{"state": filter.State})
	}
	if filter.ApplicationSystem != "" {
		b = b.Where(squirrel.Eq{"application_system": filter.ApplicationSystem})
	}
	if filter.MaxRanking > 0 {
		b = b.Where(squirrel.LtOrEq{"ranking": filter.MaxRanking})
	}
	if filter.MinAcceptanceRate > 0 {
		b = b.Where(squirrel.GtOrEq{"acceptance_rate": filter.MinAcceptanceRate})
	}
	if filter.MaxTuition > 0 {
		b = b.Where(squirrel.LtOrEq{"tuition_out_state": filter.MaxTuition})
	}
	return b
}

// Search returns universities matching the filter, ranked universities
// first, plus the total count for pagination.
func (r *UniversityRepository) Search(ctx context.Context, filter *dto.UniversityFilter, offset, limit int) ([]*models.University, int, error) {
	base := r.sb.Select(universityColumns...).From("universities")
	countBase := r.sb.Select("COUNT(*)").From("universities")

	countSql, countArgs, err := applyUniversityFilter(countBase, filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting universities: %w", err)
	}

	sql, args, err := applyUniversityFilter(base, filter).
		OrderBy("ranking ASC NULLS LAST", "name ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error searching universities: %w", err)
	}
	defer rows.Close()

	var universities []*models.University
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning university: %w", err)
		}
		universities = append(universities, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating universities: %w", err)
	}

	return universities, total, nil
}

// GetByID retrieves a university by its key
func (r *UniversityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.University, error) {
	sql, args, err := r.sb.Select(universityColumns...).
		From("universities").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get university query: %w", err)
	}

	u, err := scanUniversity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUniversityNotFound
		}
		return nil, fmt.Errorf("error retrieving university: %w", err)
	}

	return u, nil
}

// Create inserts a new university into the catalog
func (r *UniversityRepository) Create(ctx context.Context, u *models.University) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO universities (id, name, short_name, country, state, city, website_url,
			ranking, acceptance_rate, application_system,
			tuition_in_state, tuition_out_state, room_and_board, application_fee,
			deadlines, popular_majors, total_enrollment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, u.ShortName, u.Country, u.State, u.City, u.WebsiteURL,
		u.Ranking, u.AcceptanceRate, u.ApplicationSystem,
		u.TuitionInState, u.TuitionOutState, u.RoomAndBoard, u.ApplicationFee,
		u.Deadlines, u.PopularMajors, u.TotalEnrollment).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "universities_name_key") {
			return apperrors.ErrUniversityAlreadyExists
		}
		return fmt.Errorf("error creating university: %w", err)
	}

	return nil
}
