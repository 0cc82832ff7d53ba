package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/applytrack/applytrack/internal/app/models"
)

// ActivityRepository handles the append-only activity log. Entries are
// inserted and listed, never updated or deleted.
type ActivityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends an activity entry
func (r *ActivityRepository) Create(ctx context.Context, entry *models.ActivityEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO activity_log (id, user_id, student_id, application_id, action, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		entry.ID, entry.UserID, entry.StudentID, entry.ApplicationID, entry.Action, entry.Details).
		Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating activity entry: %w", err)
	}

	return nil
}

// ListByStudent returns the newest entries for a student, most recent
// first, capped at limit.
func (r *ActivityRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.ActivityEntry, error) {
	sql, args, err := r.sb.Select("id", "user_id", "student_id", "application_id", "action", "details", "created_at").
		From("activity_log").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build activity query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing activity: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityEntry
	for rows.Next() {
		var entry models.ActivityEntry
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.StudentID, &entry.ApplicationID,
			&entry.Action, &entry.Details, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning activity entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return entries, nil
}
